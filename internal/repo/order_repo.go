package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"market-backend/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error, "order")
}

func (r *OrderRepo) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("OfferDetail").First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &o, nil
}

// ListForProfile returns orders where the profile is the customer or the business.
func (r *OrderRepo) ListForProfile(ctx context.Context, profileID uint) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).Preload("OfferDetail").
		Where("customer_id = ? OR business_id = ?", profileID, profileID).
		Order("created_at DESC, id DESC").Find(&out).Error
	return out, translate(err, "orders")
}

func (r *OrderRepo) List(ctx context.Context, offset, limit int) ([]domain.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "orders")
	}
	var out []domain.Order
	err := offsetLimit(q.Order("created_at DESC, id DESC"), offset, limit).Preload("OfferDetail").Find(&out).Error
	return out, total, translate(err, "orders")
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id uint, status domain.OrderStatus) error {
	return translate(r.db.WithContext(ctx).Model(&domain.Order{ID: id}).
		Update("status", status).Error, "order")
}

func (r *OrderRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Order{}, id)
	if res.Error != nil {
		return translate(res.Error, "order")
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("order not found")
	}
	return nil
}

func (r *OrderRepo) CountByBusinessAndStatus(ctx context.Context, businessID uint, status domain.OrderStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("business_id = ? AND status = ?", businessID, status).Count(&n).Error
	return n, translate(err, "orders")
}

// CountReferencingOffer counts orders pointing at any detail of the offer.
func (r *OrderRepo) CountReferencingOffer(ctx context.Context, offerID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("offer_detail_id IN (?)", r.db.Model(&domain.OfferDetail{}).Select("id").Where("offer_id = ?", offerID)).
		Count(&n).Error
	return n, translate(err, "orders")
}
