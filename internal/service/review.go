package service

import (
	"context"

	"go.uber.org/zap"

	"market-backend/internal/authz"
	"market-backend/internal/domain"
	"market-backend/internal/repo"
)

type ReviewService struct {
	store *repo.Store
	log   *zap.Logger
}

func NewReviewService(store *repo.Store, l *zap.Logger) *ReviewService {
	return &ReviewService{store: store, log: l.Named("review")}
}

type CreateReviewInput struct {
	BusinessUser uint   `json:"business_user" validate:"required"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Description  string `json:"description" validate:"max=2000"`
}

// ReviewPatch has no business field; the reviewed business never changes.
type ReviewPatch struct {
	Rating      *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type ListReviewsInput struct {
	BusinessUserID uint
	ReviewerID     uint
	Ordering       string
}

func (s *ReviewService) List(ctx context.Context, a *authz.Actor, in ListReviewsInput) ([]domain.Review, error) {
	if err := guard(s.log, "review.list", a, nil, authz.IsAuthenticated); err != nil {
		return nil, err
	}
	if !repo.ValidReviewOrdering(in.Ordering) {
		return nil, domain.Validationf("ordering %q is not supported", in.Ordering)
	}
	return s.store.Reviews.List(ctx, repo.ReviewFilter{
		BusinessID: in.BusinessUserID,
		ReviewerID: in.ReviewerID,
		Ordering:   in.Ordering,
	})
}

// Create records the actor's single review of a business profile.
func (s *ReviewService) Create(ctx context.Context, a *authz.Actor, in CreateReviewInput) (*domain.Review, error) {
	if err := guard(s.log, "review.create", a, nil, authz.IsAuthenticated, authz.HasRole(domain.RoleCustomer)); err != nil {
		return nil, err
	}
	if err := check(in); err != nil {
		return nil, err
	}
	rv := &domain.Review{
		BusinessID:  in.BusinessUser,
		ReviewerID:  a.ProfileID(),
		Rating:      in.Rating,
		Description: in.Description,
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		b, err := tx.Profiles.FindByID(ctx, in.BusinessUser)
		if err != nil {
			return err
		}
		if b.Role != domain.RoleBusiness {
			return domain.Validation("business_user must reference a business profile")
		}
		exists, err := tx.Reviews.PairExists(ctx, rv.BusinessID, rv.ReviewerID)
		if err != nil {
			return err
		}
		if exists {
			return domain.Conflict("you have already reviewed this business")
		}
		return tx.Reviews.Create(ctx, rv)
	})
	if err != nil {
		return nil, err
	}
	recordEvent("review_created")
	s.log.Info("review created", zap.Uint("review", rv.ID), zap.Uint("business", rv.BusinessID),
		zap.Uint("reviewer", rv.ReviewerID), zap.Int("rating", rv.Rating))
	return s.store.Reviews.FindByID(ctx, rv.ID)
}

// Update edits rating and description. Ownership is checked before the patch is validated.
func (s *ReviewService) Update(ctx context.Context, a *authz.Actor, id uint, in ReviewPatch) (*domain.Review, error) {
	if err := guard(s.log, "review.update", a, nil, authz.IsAuthenticated); err != nil {
		return nil, err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		rv, err := tx.Reviews.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := guard(s.log, "review.update", a, rv, authz.IsOwner); err != nil {
			return err
		}
		if err := check(in); err != nil {
			return err
		}
		fields := map[string]any{}
		if in.Rating != nil {
			fields["rating"] = *in.Rating
		}
		if in.Description != nil {
			fields["description"] = *in.Description
		}
		return tx.Reviews.Update(ctx, id, fields)
	})
	if err != nil {
		return nil, err
	}
	return s.store.Reviews.FindByID(ctx, id)
}

func (s *ReviewService) Delete(ctx context.Context, a *authz.Actor, id uint) error {
	if err := guard(s.log, "review.delete", a, nil, authz.IsAuthenticated); err != nil {
		return err
	}
	return s.store.Transaction(ctx, func(tx *repo.Store) error {
		rv, err := tx.Reviews.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := guard(s.log, "review.delete", a, rv, authz.IsOwner); err != nil {
			return err
		}
		return tx.Reviews.Delete(ctx, id)
	})
}
