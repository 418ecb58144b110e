package domain

import "time"

// OrderStatus is the lifecycle state of an Order.
type OrderStatus string

const (
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// orderTransitions is the full set of allowed status changes; anything else is rejected.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderInProgress: {OrderCompleted, OrderCancelled},
	OrderCompleted:  nil,
	OrderCancelled:  nil,
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionTo reports whether s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseOrderStatus rejects anything outside the closed status set.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.IsValid() {
		return "", Validationf("status %q is not one of %q, %q, %q", s, OrderInProgress, OrderCompleted, OrderCancelled)
	}
	return st, nil
}

// Order is a customer's purchase of one OfferDetail. Title, price and the other
// tier fields are read through OfferDetail when rendered, so later edits to the
// detail show up on existing orders.
type Order struct {
	ID            uint        `gorm:"primaryKey"`
	OfferDetailID uint        `gorm:"index;not null"`
	OfferDetail   OfferDetail `gorm:"constraint:OnDelete:RESTRICT"`
	CustomerID    uint        `gorm:"index;not null"`
	Customer      Profile     `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	BusinessID    uint        `gorm:"index:idx_orders_business_status;not null"`
	Business      Profile     `gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
	Status        OrderStatus `gorm:"size:20;not null;default:in_progress;index:idx_orders_business_status"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Owner implements authz.Resource: orders belong to the customer who placed them.
func (o *Order) Owner() uint { return o.CustomerID }

// Involves reports whether profileID is the customer or business side of the order.
func (o *Order) Involves(profileID uint) bool {
	return profileID != 0 && (o.CustomerID == profileID || o.BusinessID == profileID)
}
