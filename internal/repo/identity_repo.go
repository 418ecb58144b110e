package repo

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"market-backend/internal/domain"
)

type IdentityRepo struct{ db *gorm.DB }

func NewIdentityRepo(db *gorm.DB) *IdentityRepo { return &IdentityRepo{db: db} }

func (r *IdentityRepo) Create(ctx context.Context, u *domain.Identity) error {
	return translate(r.db.WithContext(ctx).Create(u).Error, "identity")
}

func (r *IdentityRepo) FindByID(ctx context.Context, id uint) (*domain.Identity, error) {
	var u domain.Identity
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "identity")
	}
	return &u, nil
}

func (r *IdentityRepo) FindByUsername(ctx context.Context, username string) (*domain.Identity, error) {
	var u domain.Identity
	if err := r.db.WithContext(ctx).First(&u, "username = ?", username).Error; err != nil {
		return nil, translate(err, "identity")
	}
	return &u, nil
}

// UsernameTaken also counts soft-deleted identities, whose usernames stay reserved.
func (r *IdentityRepo) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Unscoped().Model(&domain.Identity{}).
		Where("username = ?", username).Count(&n).Error
	return n > 0, translate(err, "identity")
}

type IdentityFilter struct {
	Query       string // substring of username or email
	WithDeleted bool
	Offset      int
	Limit       int
}

func (r *IdentityRepo) List(ctx context.Context, f IdentityFilter) ([]domain.Identity, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Identity{})
	if f.WithDeleted {
		q = q.Unscoped()
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "identities")
	}
	var out []domain.Identity
	if err := offsetLimit(q.Order("created_at DESC, id DESC"), f.Offset, f.Limit).Find(&out).Error; err != nil {
		return nil, 0, translate(err, "identities")
	}
	return out, total, nil
}

func (r *IdentityRepo) UpdateEmail(ctx context.Context, id uint, email string) error {
	res := r.db.WithContext(ctx).Model(&domain.Identity{}).Where("id = ?", id).
		Updates(map[string]any{"email": email, "updated_at": time.Now()})
	if res.Error != nil {
		return translate(res.Error, "identity")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("identity not found")
	}
	return nil
}

func (r *IdentityRepo) SoftDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Identity{})
	if res.Error != nil {
		return translate(res.Error, "identity")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("identity not found")
	}
	return nil
}

func (r *IdentityRepo) Promote(ctx context.Context, id uint) error {
	return translate(r.db.WithContext(ctx).Model(&domain.Identity{}).Where("id = ?", id).
		Update("is_admin", true).Error, "identity")
}
