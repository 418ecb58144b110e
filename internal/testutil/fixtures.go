package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"market-backend/internal/authz"
	"market-backend/internal/domain"
	"market-backend/internal/repo"
)

// Actor inserts an identity with a profile of the given role and returns it as an actor.
func Actor(tb testing.TB, s *repo.Store, username string, role domain.Role) *authz.Actor {
	tb.Helper()
	ctx := context.Background()
	id := &domain.Identity{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(tb, s.Identities.Create(ctx, id))
	p := &domain.Profile{IdentityID: id.ID, Role: role}
	require.NoError(tb, s.Profiles.Create(ctx, p))
	p.Identity = *id
	return &authz.Actor{IdentityID: id.ID, TokenID: "t-" + username, Profile: p}
}

// Admin inserts an administrator identity without a profile.
func Admin(tb testing.TB, s *repo.Store, username string) *authz.Actor {
	tb.Helper()
	id := &domain.Identity{Username: username, PasswordHash: "x", IsAdmin: true}
	require.NoError(tb, s.Identities.Create(context.Background(), id))
	return &authz.Actor{IdentityID: id.ID, TokenID: "t-" + username, Admin: true}
}

// Offer stores an offer owned by profileID with one detail per tier at the given prices.
func Offer(tb testing.TB, s *repo.Store, profileID uint, prices ...string) *domain.Offer {
	tb.Helper()
	require.Len(tb, prices, len(domain.Tiers))
	o := &domain.Offer{ProfileID: profileID, Title: fmt.Sprintf("offer of %d", profileID)}
	for i, t := range domain.Tiers {
		o.Details = append(o.Details, domain.OfferDetail{
			Title:              string(t),
			Revisions:          i + 1,
			DeliveryTimeInDays: 7 - i*2,
			Price:              decimal.RequireFromString(prices[i]),
			Features:           datatypes.JSONSlice[string]{"feature"},
			TierType:           t,
		})
	}
	ctx := context.Background()
	require.NoError(tb, s.Offers.Create(ctx, o))
	o.RecomputeProjections()
	require.NoError(tb, s.Offers.SaveProjections(ctx, o))
	return o
}
