package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"market-backend/internal/domain"
)

type ReviewRepo struct{ db *gorm.DB }

func NewReviewRepo(db *gorm.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(rv).Error, "review")
}

func (r *ReviewRepo) FindByID(ctx context.Context, id uint) (*domain.Review, error) {
	var rv domain.Review
	if err := r.db.WithContext(ctx).First(&rv, "id = ?", id).Error; err != nil {
		return nil, translate(err, "review")
	}
	return &rv, nil
}

// PairExists reports whether reviewer already reviewed business.
func (r *ReviewRepo) PairExists(ctx context.Context, businessID, reviewerID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Where("business_id = ? AND reviewer_id = ?", businessID, reviewerID).Count(&n).Error
	return n > 0, translate(err, "review")
}

type ReviewFilter struct {
	BusinessID uint
	ReviewerID uint
	Ordering   string
}

var reviewOrderings = map[string]string{
	"updated_at":  "updated_at ASC, id ASC",
	"-updated_at": "updated_at DESC, id DESC",
	"rating":      "rating ASC, id ASC",
	"-rating":     "rating DESC, id DESC",
}

func ValidReviewOrdering(o string) bool {
	_, ok := reviewOrderings[o]
	return o == "" || ok
}

func (r *ReviewRepo) List(ctx context.Context, f ReviewFilter) ([]domain.Review, error) {
	q := r.db.WithContext(ctx).Model(&domain.Review{})
	if f.BusinessID != 0 {
		q = q.Where("business_id = ?", f.BusinessID)
	}
	if f.ReviewerID != 0 {
		q = q.Where("reviewer_id = ?", f.ReviewerID)
	}
	order, ok := reviewOrderings[f.Ordering]
	if !ok {
		order = "updated_at DESC, id DESC"
	}
	var out []domain.Review
	err := q.Order(order).Find(&out).Error
	return out, translate(err, "reviews")
}

func (r *ReviewRepo) Update(ctx context.Context, id uint, fields map[string]any) error {
	delete(fields, "business_id")
	delete(fields, "reviewer_id")
	if len(fields) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(&domain.Review{ID: id}).Updates(fields).Error, "review")
}

func (r *ReviewRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Review{}, id)
	if res.Error != nil {
		return translate(res.Error, "review")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("review not found")
	}
	return nil
}

func (r *ReviewRepo) Summary(ctx context.Context) (domain.ReviewSummary, error) {
	var row struct {
		Count int64
		Avg   *float64
	}
	err := r.db.WithContext(ctx).Model(&domain.Review{}).
		Select("COUNT(*) AS count, AVG(rating) AS avg").Scan(&row).Error
	if err != nil {
		return domain.ReviewSummary{}, translate(err, "reviews")
	}
	s := domain.ReviewSummary{Count: row.Count}
	if row.Avg != nil {
		s.AverageRating = *row.Avg
	}
	return s, nil
}
