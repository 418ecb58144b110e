// Package authz holds the predicates that gate every mutating operation.
// Predicates are composed per route or per service call with All (AND) or Any (OR).
package authz

import (
	"market-backend/internal/domain"
)

// Actor is the caller of an operation. The zero value is anonymous.
type Actor struct {
	IdentityID uint
	TokenID    string
	Admin      bool
	Profile    *domain.Profile // nil for administrators and anonymous callers
}

// Anonymous returns an unauthenticated actor.
func Anonymous() *Actor { return &Actor{} }

func (a *Actor) Authenticated() bool { return a != nil && a.IdentityID != 0 }

// ProfileID is 0 when the actor has no profile.
func (a *Actor) ProfileID() uint {
	if a == nil || a.Profile == nil {
		return 0
	}
	return a.Profile.ID
}

// Resource is anything with a single owning profile.
type Resource interface {
	Owner() uint
}

// Predicate allows (nil) or denies (a *domain.Error) an actor on a resource.
// Route level predicates receive a nil resource.
type Predicate interface {
	Evaluate(a *Actor, r Resource) error
}

type PredicateFunc func(a *Actor, r Resource) error

func (f PredicateFunc) Evaluate(a *Actor, r Resource) error { return f(a, r) }

// IsAuthenticated requires a valid bearer token.
var IsAuthenticated Predicate = PredicateFunc(func(a *Actor, _ Resource) error {
	if !a.Authenticated() {
		return domain.Unauthenticated("authentication credentials were not provided or are invalid")
	}
	return nil
})

// IsAdministrator requires a privileged operator account.
var IsAdministrator Predicate = PredicateFunc(func(a *Actor, _ Resource) error {
	if !a.Authenticated() || !a.Admin {
		return domain.Forbidden("administrator privileges required")
	}
	return nil
})

// IsOwner requires the actor's profile to own r.
var IsOwner Predicate = PredicateFunc(func(a *Actor, r Resource) error {
	pid := a.ProfileID()
	if r == nil || pid == 0 || r.Owner() != pid {
		return domain.Forbidden("you are not the owner of this resource")
	}
	return nil
})

// HasRole requires a profile with the given role. Callers without a profile are denied.
func HasRole(role domain.Role) Predicate {
	return PredicateFunc(func(a *Actor, _ Resource) error {
		if a == nil || a.Profile == nil || a.Profile.Role != role {
			return domain.Forbidden("only " + role.String() + " profiles may perform this action")
		}
		return nil
	})
}

// All denies with the first failing predicate.
func All(ps ...Predicate) Predicate {
	return PredicateFunc(func(a *Actor, r Resource) error {
		for _, p := range ps {
			if err := p.Evaluate(a, r); err != nil {
				return err
			}
		}
		return nil
	})
}

// Any allows when one predicate allows; otherwise it returns the last denial.
func Any(ps ...Predicate) Predicate {
	return PredicateFunc(func(a *Actor, r Resource) error {
		err := domain.Forbidden("forbidden")
		for _, p := range ps {
			if err = p.Evaluate(a, r); err == nil {
				return nil
			}
		}
		return err
	})
}

// Check evaluates ps against a and r with AND semantics.
func Check(a *Actor, r Resource, ps ...Predicate) error {
	return All(ps...).Evaluate(a, r)
}
