package service

import (
	"context"
	"math"

	"market-backend/internal/domain"
	"market-backend/internal/repo"
)

type StatsService struct{ store *repo.Store }

func NewStatsService(store *repo.Store) *StatsService { return &StatsService{store: store} }

type BaseInfo struct {
	ReviewCount          int64
	AverageRating        float64
	BusinessProfileCount int64
	OfferCount           int64
}

// BaseInfo summarises the marketplace. The average is rounded to one decimal.
func (s *StatsService) BaseInfo(ctx context.Context) (*BaseInfo, error) {
	sum, err := s.store.Reviews.Summary(ctx)
	if err != nil {
		return nil, err
	}
	businesses, err := s.store.Profiles.CountByRole(ctx, domain.RoleBusiness)
	if err != nil {
		return nil, err
	}
	offers, err := s.store.Offers.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &BaseInfo{
		ReviewCount:          sum.Count,
		AverageRating:        math.Round(sum.AverageRating*10) / 10,
		BusinessProfileCount: businesses,
		OfferCount:           offers,
	}, nil
}
