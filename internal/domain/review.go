package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's rating of a business. At most one per (business, reviewer).
type Review struct {
	ID          uint    `gorm:"primaryKey"`
	BusinessID  uint    `gorm:"not null;uniqueIndex:idx_reviews_business_reviewer"`
	Business    Profile `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
	ReviewerID  uint    `gorm:"not null;uniqueIndex:idx_reviews_business_reviewer;index"`
	Reviewer    Profile `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE"`
	Rating      int     `gorm:"not null"`
	Description string  `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time `gorm:"index"`
}

// Owner implements authz.Resource: reviews belong to their reviewer.
func (r *Review) Owner() uint { return r.ReviewerID }

// ReviewSummary is the read-only aggregate over all reviews.
type ReviewSummary struct {
	Count         int64
	AverageRating float64
}
