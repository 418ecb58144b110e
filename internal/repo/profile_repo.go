package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"market-backend/internal/domain"
)

type ProfileRepo struct{ db *gorm.DB }

func NewProfileRepo(db *gorm.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error, "profile")
}

func (r *ProfileRepo) FindByID(ctx context.Context, id uint) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).Preload("Identity", withBanned).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "profile")
	}
	return &p, nil
}

func (r *ProfileRepo) FindByIdentityID(ctx context.Context, identityID uint) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).Preload("Identity", withBanned).First(&p, "identity_id = ?", identityID).Error; err != nil {
		return nil, translate(err, "profile")
	}
	return &p, nil
}

// ListByRole skips profiles whose identity is banned.
func (r *ProfileRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.Profile, error) {
	var out []domain.Profile
	err := activeProfiles(r.db.WithContext(ctx).Model(&domain.Profile{})).
		Preload("Identity").
		Where("profiles.role = ?", role).Order("profiles.id ASC").Find(&out).Error
	return out, translate(err, "profiles")
}

// CountByRole counts the profiles ListByRole would return.
func (r *ProfileRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var n int64
	err := activeProfiles(r.db.WithContext(ctx).Model(&domain.Profile{})).
		Where("profiles.role = ?", role).Count(&n).Error
	return n, translate(err, "profiles")
}

func activeProfiles(q *gorm.DB) *gorm.DB {
	return q.Joins("JOIN identities ON identities.id = profiles.identity_id AND identities.deleted_at IS NULL")
}

// Update writes the given columns. Role and identity_id are never accepted.
func (r *ProfileRepo) Update(ctx context.Context, id uint, fields map[string]any) error {
	delete(fields, "role")
	delete(fields, "identity_id")
	if len(fields) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(&domain.Profile{}).
		Where("id = ?", id).Updates(fields).Error, "profile")
}
