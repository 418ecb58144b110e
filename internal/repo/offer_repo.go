package repo

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"market-backend/internal/domain"
)

type OfferRepo struct{ db *gorm.DB }

func NewOfferRepo(db *gorm.DB) *OfferRepo { return &OfferRepo{db: db} }

// Create inserts the offer row and then its details. Run it inside a transaction.
func (r *OfferRepo) Create(ctx context.Context, o *domain.Offer) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error; err != nil {
		return translate(err, "offer")
	}
	for i := range o.Details {
		o.Details[i].OfferID = o.ID
	}
	if len(o.Details) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(&o.Details).Error, "offer detail")
}

func (r *OfferRepo) FindByID(ctx context.Context, id uint) (*domain.Offer, error) {
	var o domain.Offer
	err := r.db.WithContext(ctx).
		Preload("Details").
		Preload("Profile.Identity", withBanned).
		First(&o, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "offer")
	}
	o.SortDetails()
	return &o, nil
}

type OfferFilter struct {
	CreatorID       uint
	MinPrice        *decimal.Decimal
	MaxDeliveryTime *int
	Search          string
	Ordering        string
	Offset          int
	Limit           int
}

var offerOrderings = map[string]string{
	"updated_at":  "updated_at ASC, id ASC",
	"-updated_at": "updated_at DESC, id DESC",
	"min_price":   "min_price ASC, id ASC",
	"-min_price":  "min_price DESC, id DESC",
}

// ValidOfferOrdering reports whether o is an accepted ordering key.
func ValidOfferOrdering(o string) bool {
	_, ok := offerOrderings[o]
	return o == "" || ok
}

func (r *OfferRepo) List(ctx context.Context, f OfferFilter) ([]domain.Offer, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Offer{})
	if f.CreatorID != 0 {
		q = q.Where("profile_id = ?", f.CreatorID)
	}
	if f.MinPrice != nil {
		q = q.Where("min_price >= ?", *f.MinPrice)
	}
	if f.MaxDeliveryTime != nil {
		q = q.Where("min_delivery_time <= ?", *f.MaxDeliveryTime)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "offers")
	}
	order, ok := offerOrderings[f.Ordering]
	if !ok {
		order = "created_at DESC, id DESC"
	}
	var out []domain.Offer
	err := offsetLimit(q.Order(order), f.Offset, f.Limit).
		Preload("Details").
		Preload("Profile.Identity", withBanned).
		Find(&out).Error
	if err != nil {
		return nil, 0, translate(err, "offers")
	}
	for i := range out {
		out[i].SortDetails()
	}
	return out, total, nil
}

func (r *OfferRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Offer{}).Count(&n).Error
	return n, translate(err, "offers")
}

// UpdateFields writes offer columns; updated_at is bumped by gorm.
func (r *OfferRepo) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(&domain.Offer{ID: id}).Updates(fields).Error, "offer")
}

// UpdateDetail writes detail columns. offer_type and offer_id are never accepted.
func (r *OfferRepo) UpdateDetail(ctx context.Context, id uint, fields map[string]any) error {
	delete(fields, "offer_type")
	delete(fields, "offer_id")
	if len(fields) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).Model(&domain.OfferDetail{}).
		Where("id = ?", id).Updates(fields).Error, "offer detail")
}

func (r *OfferRepo) Details(ctx context.Context, offerID uint) ([]domain.OfferDetail, error) {
	var out []domain.OfferDetail
	err := r.db.WithContext(ctx).Where("offer_id = ?", offerID).Order("id ASC").Find(&out).Error
	return out, translate(err, "offer details")
}

func (r *OfferRepo) DetailByID(ctx context.Context, id uint) (*domain.OfferDetail, error) {
	var d domain.OfferDetail
	if err := r.db.WithContext(ctx).Preload("Offer").First(&d, "id = ?", id).Error; err != nil {
		return nil, translate(err, "offer detail")
	}
	return &d, nil
}

// SaveProjections persists MinPrice and MinDeliveryTime.
func (r *OfferRepo) SaveProjections(ctx context.Context, o *domain.Offer) error {
	return translate(r.db.WithContext(ctx).Model(&domain.Offer{ID: o.ID}).Updates(map[string]any{
		"min_price":         o.MinPrice,
		"min_delivery_time": o.MinDeliveryTime,
	}).Error, "offer")
}

// Delete removes the offer and its details. Orders referencing a detail make it fail.
func (r *OfferRepo) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("offer_id = ?", id).Delete(&domain.OfferDetail{}).Error; err != nil {
		return translate(err, "offer detail")
	}
	res := r.db.WithContext(ctx).Delete(&domain.Offer{}, id)
	if res.Error != nil {
		return translate(res.Error, "offer")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("offer not found")
	}
	return nil
}
