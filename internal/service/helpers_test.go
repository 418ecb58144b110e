package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"market-backend/internal/domain"
	"market-backend/internal/repo"
	"market-backend/internal/testutil"
)

func newServices(t *testing.T) (*Services, *repo.Store) {
	t.Helper()
	st := testutil.Store(t)
	return New(st, testutil.JWTer(), zap.NewNop()), st
}

func ptr[T any](v T) *T { return &v }

func dec(s string) *decimal.Decimal { return ptr(decimal.RequireFromString(s)) }

func detailInputs(prices ...string) []DetailInput {
	out := make([]DetailInput, 0, len(prices))
	for i, p := range prices {
		t := domain.Tiers[i%len(domain.Tiers)]
		out = append(out, DetailInput{
			Title:              string(t) + " package",
			Revisions:          ptr(i),
			DeliveryTimeInDays: ptr(10 - i*3),
			Price:              dec(p),
			Features:           []string{"logo", "source files"},
			OfferType:          string(t),
		})
	}
	return out
}
