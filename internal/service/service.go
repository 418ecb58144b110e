// Package service holds the marketplace workflows. Every mutating call evaluates its
// authorization predicates before touching the store, and aggregate writes run in a
// single transaction.
package service

import (
	"go.uber.org/zap"

	"market-backend/internal/authz"
	"market-backend/internal/core/auth"
	"market-backend/internal/repo"
)

// Services bundles every workflow over one store.
type Services struct {
	Accounts *AccountService
	Profiles *ProfileService
	Offers   *OfferService
	Orders   *OrderService
	Reviews  *ReviewService
	Stats    *StatsService
}

func New(store *repo.Store, jwter *auth.JWTer, l *zap.Logger) *Services {
	return &Services{
		Accounts: NewAccountService(store, jwter, l),
		Profiles: NewProfileService(store, l),
		Offers:   NewOfferService(store, l),
		Orders:   NewOrderService(store, l),
		Reviews:  NewReviewService(store, l),
		Stats:    NewStatsService(store),
	}
}

// guard evaluates ps and logs denials at debug.
func guard(l *zap.Logger, op string, a *authz.Actor, r authz.Resource, ps ...authz.Predicate) error {
	if err := authz.Check(a, r, ps...); err != nil {
		l.Debug("authorization denied",
			zap.String("op", op),
			zap.Uint("identity", identityOf(a)),
			zap.Uint("profile", a.ProfileID()),
			zap.Error(err))
		return err
	}
	return nil
}

func identityOf(a *authz.Actor) uint {
	if a == nil {
		return 0
	}
	return a.IdentityID
}
