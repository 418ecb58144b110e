package repo

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"market-backend/internal/core/database"
	"market-backend/internal/domain"
)

// Store bundles every repository over one *gorm.DB, either the pool or a transaction.
type Store struct {
	db         *gorm.DB
	Identities *IdentityRepo
	Tokens     *TokenRepo
	Profiles   *ProfileRepo
	Offers     *OfferRepo
	Orders     *OrderRepo
	Reviews    *ReviewRepo
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		Identities: NewIdentityRepo(db),
		Tokens:     NewTokenRepo(db),
		Profiles:   NewProfileRepo(db),
		Offers:     NewOfferRepo(db),
		Orders:     NewOrderRepo(db),
		Reviews:    NewReviewRepo(db),
	}
}

// Transaction runs fn against a Store bound to one transaction. Any error or panic
// in fn rolls the transaction back, including a cancelled ctx.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// AutoMigrate creates or updates every table.
func AutoMigrate(db *gorm.DB) error {
	return errors.Wrap(database.Migrate(db, domain.Models()...), "automigrate")
}

// translate turns driver errors into domain errors; unknown errors get a stack.
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NotFound(what + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.Conflict(what + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.Conflict(what + " is still referenced")
	default:
		var de *domain.Error
		if errors.As(err, &de) {
			return err
		}
		return errors.Wrap(err, what)
	}
}

// withBanned lets a preload see soft-deleted identities, so profiles of banned
// identities still render their username and email.
func withBanned(db *gorm.DB) *gorm.DB { return db.Unscoped() }

func offsetLimit(q *gorm.DB, offset, limit int) *gorm.DB {
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}
