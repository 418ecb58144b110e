package service

import (
	"context"

	"go.uber.org/zap"

	"market-backend/internal/authz"
	"market-backend/internal/domain"
	"market-backend/internal/repo"
)

type ProfileService struct {
	store *repo.Store
	log   *zap.Logger
}

func NewProfileService(store *repo.Store, l *zap.Logger) *ProfileService {
	return &ProfileService{store: store, log: l.Named("profile")}
}

// ProfilePatch carries the editable profile fields. Nil means unchanged.
type ProfilePatch struct {
	FirstName    *string `json:"first_name" validate:"omitempty,max=30"`
	LastName     *string `json:"last_name" validate:"omitempty,max=30"`
	File         *string `json:"file" validate:"omitempty,max=255"`
	Location     *string `json:"location" validate:"omitempty,max=30"`
	Tel          *string `json:"tel" validate:"omitempty,max=30"`
	Description  *string `json:"description" validate:"omitempty,max=150"`
	WorkingHours *string `json:"working_hours" validate:"omitempty,max=15"`
	Email        *string `json:"email" validate:"omitempty,email,max=191"`
}

func (s *ProfileService) Get(ctx context.Context, a *authz.Actor, id uint) (*domain.Profile, error) {
	if err := guard(s.log, "profile.get", a, nil, authz.IsAuthenticated); err != nil {
		return nil, err
	}
	return s.store.Profiles.FindByID(ctx, id)
}

// Update edits the owner's display fields and identity email. The role never changes.
func (s *ProfileService) Update(ctx context.Context, a *authz.Actor, id uint, in ProfilePatch) (*domain.Profile, error) {
	if err := guard(s.log, "profile.update", a, nil, authz.IsAuthenticated); err != nil {
		return nil, err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		p, err := tx.Profiles.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := guard(s.log, "profile.update", a, p, authz.IsOwner); err != nil {
			return err
		}
		if err := check(in); err != nil {
			return err
		}
		if err := tx.Profiles.Update(ctx, id, in.fields()); err != nil {
			return err
		}
		if in.Email != nil {
			return tx.Identities.UpdateEmail(ctx, p.IdentityID, *in.Email)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.store.Profiles.FindByID(ctx, id)
}

func (s *ProfileService) ListByRole(ctx context.Context, a *authz.Actor, role domain.Role) ([]domain.Profile, error) {
	if err := guard(s.log, "profile.list", a, nil, authz.IsAuthenticated); err != nil {
		return nil, err
	}
	return s.store.Profiles.ListByRole(ctx, role)
}

func (in ProfilePatch) fields() map[string]any {
	m := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			m[col] = *v
		}
	}
	set("first_name", in.FirstName)
	set("last_name", in.LastName)
	set("file", in.File)
	set("location", in.Location)
	set("tel", in.Tel)
	set("description", in.Description)
	set("working_hours", in.WorkingHours)
	return m
}
