package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"market-backend/internal/authz"
	"market-backend/internal/core/auth"
	"market-backend/internal/domain"
	"market-backend/internal/repo"
	"market-backend/pkg/utils"
)

type AccountService struct {
	store *repo.Store
	jwt   *auth.JWTer
	log   *zap.Logger
	now   func() time.Time
}

func NewAccountService(store *repo.Store, jwter *auth.JWTer, l *zap.Logger) *AccountService {
	return &AccountService{store: store, jwt: jwter, log: l.Named("account"), now: time.Now}
}

type RegisterInput struct {
	Username         string `json:"username" validate:"required,max=150"`
	Email            string `json:"email" validate:"required,email,max=191"`
	Password         string `json:"password" validate:"required,min=1,max=72"`
	RepeatedPassword string `json:"repeated_password" validate:"required"`
	Type             string `json:"type" validate:"required"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is what registration and login hand back. ProfileID is 0 for administrators.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Email     string
	ProfileID uint
}

// Register creates an identity and its profile atomically and signs the caller in.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := check(in); err != nil {
		return nil, err
	}
	if in.Password != in.RepeatedPassword {
		return nil, domain.Validation("passwords do not match")
	}
	role, err := domain.ParseRole(in.Type)
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Internal("hash password failed", err)
	}

	var out *Session
	err = s.store.Transaction(ctx, func(tx *repo.Store) error {
		taken, err := tx.Identities.UsernameTaken(ctx, in.Username)
		if err != nil {
			return err
		}
		if taken {
			return domain.Conflict("a user with that username already exists")
		}
		id := &domain.Identity{Username: in.Username, Email: in.Email, PasswordHash: hash}
		if err := tx.Identities.Create(ctx, id); err != nil {
			return err
		}
		p := &domain.Profile{IdentityID: id.ID, Role: role}
		if err := tx.Profiles.Create(ctx, p); err != nil {
			return err
		}
		out, err = s.issue(ctx, tx, id, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	recordEvent("registered")
	s.log.Info("identity registered", zap.String("username", in.Username), zap.String("type", role.String()))
	return out, nil
}

// Login verifies credentials. Unknown usernames and wrong passwords fail the same way.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := check(in); err != nil {
		return nil, err
	}
	id, err := s.store.Identities.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.Unauthenticated("wrong credentials")
		}
		return nil, err
	}
	if !utils.CheckPassword(in.Password, id.PasswordHash) {
		return nil, domain.Unauthenticated("wrong credentials")
	}
	var pid uint
	if p, err := s.store.Profiles.FindByIdentityID(ctx, id.ID); err == nil {
		pid = p.ID
	} else if !domain.IsKind(err, domain.KindNotFound) {
		return nil, err
	}
	return s.issue(ctx, s.store, id, pid)
}

// Logout revokes the token the actor authenticated with.
func (s *AccountService) Logout(ctx context.Context, a *authz.Actor) error {
	if err := authz.Check(a, nil, authz.IsAuthenticated); err != nil {
		return err
	}
	return s.store.Tokens.Revoke(ctx, a.TokenID)
}

// Authenticate resolves a raw bearer token into an actor. Any failure is unauthenticated.
func (s *AccountService) Authenticate(ctx context.Context, raw string) (*authz.Actor, error) {
	claims, err := s.jwt.Parse(raw)
	if err != nil {
		return nil, domain.Unauthenticated("invalid token")
	}
	tok, err := s.store.Tokens.Find(ctx, claims.ID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.Unauthenticated("invalid token")
		}
		return nil, err
	}
	if !tok.Active(s.now()) || strconv.FormatUint(uint64(tok.IdentityID), 10) != claims.UID {
		return nil, domain.Unauthenticated("invalid token")
	}
	id, err := s.store.Identities.FindByID(ctx, tok.IdentityID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.Unauthenticated("invalid token")
		}
		return nil, err
	}
	a := &authz.Actor{IdentityID: id.ID, TokenID: tok.ID, Admin: id.IsAdmin}
	p, err := s.store.Profiles.FindByIdentityID(ctx, id.ID)
	switch {
	case err == nil:
		a.Profile = p
	case !domain.IsKind(err, domain.KindNotFound):
		return nil, err
	}
	return a, nil
}

// EnsureAdmin creates the administrator identity when missing, or promotes it.
func (s *AccountService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return domain.Validation("admin bootstrap requires username and password")
	}
	id, err := s.store.Identities.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if id.IsAdmin {
			return nil
		}
		return s.store.Identities.Promote(ctx, id.ID)
	case !domain.IsKind(err, domain.KindNotFound):
		return err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return domain.Internal("hash password failed", err)
	}
	if err := s.store.Identities.Create(ctx, &domain.Identity{
		Username: username, Email: email, PasswordHash: hash, IsAdmin: true,
	}); err != nil {
		return err
	}
	s.log.Info("administrator bootstrapped", zap.String("username", username))
	return nil
}

// Ban soft-deletes an identity and revokes its tokens. Administrators only.
func (s *AccountService) Ban(ctx context.Context, a *authz.Actor, identityID uint) error {
	if err := guard(s.log, "identity.ban", a, nil, authz.IsAdministrator); err != nil {
		return err
	}
	if identityID == a.IdentityID {
		return domain.Validation("administrators cannot ban themselves")
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		if err := tx.Identities.SoftDelete(ctx, identityID); err != nil {
			return err
		}
		return tx.Tokens.RevokeAll(ctx, identityID)
	})
	if err != nil {
		return err
	}
	recordEvent("identity_banned")
	s.log.Info("identity banned", zap.Uint("identity", identityID), zap.Uint("by", a.IdentityID))
	return nil
}

// ListIdentities is the admin search over identities.
func (s *AccountService) ListIdentities(ctx context.Context, a *authz.Actor, f repo.IdentityFilter) ([]domain.Identity, int64, error) {
	if err := guard(s.log, "identity.list", a, nil, authz.IsAdministrator); err != nil {
		return nil, 0, err
	}
	return s.store.Identities.List(ctx, f)
}

func (s *AccountService) issue(ctx context.Context, st *repo.Store, id *domain.Identity, profileID uint) (*Session, error) {
	role := auth.RoleUser
	if id.IsAdmin {
		role = auth.RoleAdmin
	}
	tok, err := s.jwt.Issue(strconv.FormatUint(uint64(id.ID), 10), role)
	if err != nil {
		return nil, domain.Internal("issue token failed", errors.WithStack(err))
	}
	if err := st.Tokens.Create(ctx, &domain.AuthToken{ID: tok.ID, IdentityID: id.ID, ExpiresAt: tok.ExpiresAt}); err != nil {
		return nil, err
	}
	return &Session{
		Token:     tok.Value,
		ExpiresAt: tok.ExpiresAt,
		Username:  id.Username,
		Email:     id.Email,
		ProfileID: profileID,
	}, nil
}
