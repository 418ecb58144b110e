package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"market-backend/internal/domain"
)

type TokenRepo struct{ db *gorm.DB }

func NewTokenRepo(db *gorm.DB) *TokenRepo { return &TokenRepo{db: db} }

func (r *TokenRepo) Create(ctx context.Context, t *domain.AuthToken) error {
	return translate(r.db.WithContext(ctx).Create(t).Error, "token")
}

func (r *TokenRepo) Find(ctx context.Context, id string) (*domain.AuthToken, error) {
	var t domain.AuthToken
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, translate(err, "token")
	}
	return &t, nil
}

func (r *TokenRepo) Revoke(ctx context.Context, id string) error {
	return translate(r.db.WithContext(ctx).Model(&domain.AuthToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now()).Error, "token")
}

func (r *TokenRepo) RevokeAll(ctx context.Context, identityID uint) error {
	return translate(r.db.WithContext(ctx).Model(&domain.AuthToken{}).
		Where("identity_id = ? AND revoked_at IS NULL", identityID).
		Update("revoked_at", time.Now()).Error, "token")
}
