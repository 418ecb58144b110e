package service

import (
	"context"

	"go.uber.org/zap"

	"market-backend/internal/authz"
	"market-backend/internal/domain"
	"market-backend/internal/repo"
)

type OrderService struct {
	store *repo.Store
	log   *zap.Logger
}

func NewOrderService(store *repo.Store, l *zap.Logger) *OrderService {
	return &OrderService{store: store, log: l.Named("order")}
}

type CreateOrderInput struct {
	OfferDetailID uint `json:"offer_detail_id" validate:"required"`
}

// isParticipant allows either side of an order.
var isParticipant = authz.PredicateFunc(func(a *authz.Actor, r authz.Resource) error {
	if o, ok := r.(*domain.Order); ok && o.Involves(a.ProfileID()) {
		return nil
	}
	return domain.Forbidden("you are not a party to this order")
})

// Create places an order for one tier. The business side is taken from the tier's
// offer, never from the caller.
func (s *OrderService) Create(ctx context.Context, a *authz.Actor, in CreateOrderInput) (*domain.Order, error) {
	if err := guard(s.log, "order.create", a, nil, authz.IsAuthenticated, authz.HasRole(domain.RoleCustomer)); err != nil {
		return nil, err
	}
	if err := check(in); err != nil {
		return nil, err
	}
	var o *domain.Order
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		d, err := tx.Offers.DetailByID(ctx, in.OfferDetailID)
		if err != nil {
			return err
		}
		if d.Offer == nil {
			return domain.NotFound("offer not found")
		}
		o = &domain.Order{
			OfferDetailID: d.ID,
			CustomerID:    a.ProfileID(),
			BusinessID:    d.Offer.ProfileID,
			Status:        domain.OrderInProgress,
		}
		return tx.Orders.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	recordEvent("order_created")
	s.log.Info("order created", zap.Uint("order", o.ID), zap.Uint("customer", o.CustomerID),
		zap.Uint("business", o.BusinessID), zap.Uint("detail", o.OfferDetailID))
	return s.store.Orders.FindByID(ctx, o.ID)
}

// StatusPatch is an order PATCH body. Err carries a decoding problem found by the
// transport; it is reported only to the order's owner.
type StatusPatch struct {
	Status string
	Err    error
}

// UpdateStatus moves the order along its transition table.
func (s *OrderService) UpdateStatus(ctx context.Context, a *authz.Actor, id uint, status string) (*domain.Order, error) {
	return s.Patch(ctx, a, id, StatusPatch{Status: status})
}

// Patch applies p. Only the customer may do it; other callers are refused before
// the body is looked at.
func (s *OrderService) Patch(ctx context.Context, a *authz.Actor, id uint, p StatusPatch) (*domain.Order, error) {
	if err := guard(s.log, "order.status", a, nil, authz.IsAuthenticated); err != nil {
		return nil, err
	}
	var prev, next domain.OrderStatus
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		o, err := tx.Orders.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := guard(s.log, "order.status", a, o, authz.IsOwner); err != nil {
			return err
		}
		if p.Err != nil {
			return p.Err
		}
		if next, err = domain.ParseOrderStatus(p.Status); err != nil {
			return err
		}
		if !o.Status.CanTransitionTo(next) {
			return domain.Conflict("order cannot move from " + string(o.Status) + " to " + string(next))
		}
		prev = o.Status
		return tx.Orders.UpdateStatus(ctx, id, next)
	})
	if err != nil {
		return nil, err
	}
	recordEvent("order_" + string(next))
	s.log.Info("order status changed", zap.Uint("order", id),
		zap.String("from", string(prev)), zap.String("to", string(next)))
	return s.store.Orders.FindByID(ctx, id)
}

// Delete is reserved for administrators.
func (s *OrderService) Delete(ctx context.Context, a *authz.Actor, id uint) error {
	if err := guard(s.log, "order.delete", a, nil, authz.IsAuthenticated, authz.IsAdministrator); err != nil {
		return err
	}
	if err := s.store.Orders.Delete(ctx, id); err != nil {
		return err
	}
	recordEvent("order_deleted")
	s.log.Info("order deleted", zap.Uint("order", id), zap.Uint("by", a.IdentityID))
	return nil
}

// List returns the actor's orders on either side; administrators see every order.
func (s *OrderService) List(ctx context.Context, a *authz.Actor) ([]domain.Order, error) {
	if err := guard(s.log, "order.list", a, nil, authz.IsAuthenticated); err != nil {
		return nil, err
	}
	if a.Admin {
		out, _, err := s.store.Orders.List(ctx, 0, 0)
		return out, err
	}
	if a.ProfileID() == 0 {
		return []domain.Order{}, nil
	}
	return s.store.Orders.ListForProfile(ctx, a.ProfileID())
}

// ListAll pages through every order. Administrators only.
func (s *OrderService) ListAll(ctx context.Context, a *authz.Actor, offset, limit int) ([]domain.Order, int64, error) {
	if err := guard(s.log, "order.list_all", a, nil, authz.IsAdministrator); err != nil {
		return nil, 0, err
	}
	return s.store.Orders.List(ctx, offset, limit)
}

func (s *OrderService) Get(ctx context.Context, a *authz.Actor, id uint) (*domain.Order, error) {
	if err := guard(s.log, "order.get", a, nil, authz.IsAuthenticated); err != nil {
		return nil, err
	}
	o, err := s.store.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard(s.log, "order.get", a, o, authz.Any(isParticipant, authz.IsAdministrator)); err != nil {
		return nil, err
	}
	return o, nil
}

// CountByStatus counts a business profile's orders in one status.
func (s *OrderService) CountByStatus(ctx context.Context, businessID uint, status domain.OrderStatus) (int64, error) {
	p, err := s.store.Profiles.FindByID(ctx, businessID)
	if err != nil {
		return 0, err
	}
	if p.Role != domain.RoleBusiness {
		return 0, domain.NotFound("business profile not found")
	}
	return s.store.Orders.CountByBusinessAndStatus(ctx, businessID, status)
}
