package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"market-backend/internal/authz"
	"market-backend/internal/domain"
	"market-backend/internal/repo"
)

const (
	DefaultOfferPageSize = 6
	MaxOfferPageSize     = 100
)

type OfferService struct {
	store *repo.Store
	log   *zap.Logger
}

func NewOfferService(store *repo.Store, l *zap.Logger) *OfferService {
	return &OfferService{store: store, log: l.Named("offer")}
}

type DetailInput struct {
	Title              string           `json:"title" validate:"required,max=255"`
	Revisions          *int             `json:"revisions" validate:"required,gte=-1"`
	DeliveryTimeInDays *int             `json:"delivery_time_in_days" validate:"required,gte=1"`
	Price              *decimal.Decimal `json:"price" validate:"required"`
	Features           []string         `json:"features" validate:"dive,max=255"`
	OfferType          string           `json:"offer_type" validate:"required"`
}

type CreateOfferInput struct {
	Title       string        `json:"title" validate:"required,max=255"`
	Description string        `json:"description"`
	Image       string        `json:"image" validate:"max=255"`
	Details     []DetailInput `json:"details" validate:"dive"`
}

// DetailPatch edits the tier named by OfferType. Nil fields are left as they are.
type DetailPatch struct {
	OfferType          string           `json:"offer_type" validate:"required"`
	Title              *string          `json:"title" validate:"omitempty,min=1,max=255"`
	Revisions          *int             `json:"revisions" validate:"omitempty,gte=-1"`
	DeliveryTimeInDays *int             `json:"delivery_time_in_days" validate:"omitempty,gte=1"`
	Price              *decimal.Decimal `json:"price"`
	Features           []string         `json:"features" validate:"omitempty,dive,max=255"`
}

type UpdateOfferInput struct {
	Title       *string       `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string       `json:"description"`
	Image       *string       `json:"image" validate:"omitempty,max=255"`
	Details     []DetailPatch `json:"details" validate:"omitempty,dive"`
}

type ListOffersInput struct {
	CreatorID       uint
	MinPrice        *decimal.Decimal
	MaxDeliveryTime *int
	Search          string
	Ordering        string
	Page            int
	PageSize        int
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Total int64
	Page  int
	Size  int
	List  []T
}

// Create persists an offer with exactly one detail per tier in one transaction and
// derives its projections from the stored detail rows.
func (s *OfferService) Create(ctx context.Context, a *authz.Actor, in CreateOfferInput) (*domain.Offer, error) {
	if err := guard(s.log, "offer.create", a, nil, authz.IsAuthenticated, authz.HasRole(domain.RoleBusiness)); err != nil {
		return nil, err
	}
	if len(in.Details) != len(domain.Tiers) {
		return nil, domain.Validation("details must contain exactly 3 entries, one per tier")
	}
	in.Title = strings.TrimSpace(in.Title)
	for i := range in.Details {
		in.Details[i].Title = strings.TrimSpace(in.Details[i].Title)
	}
	if err := check(in); err != nil {
		return nil, err
	}
	tiers := make([]domain.TierType, len(in.Details))
	for i, d := range in.Details {
		tiers[i] = domain.TierType(strings.TrimSpace(d.OfferType))
	}
	if err := domain.CheckTierSet(tiers); err != nil {
		return nil, err
	}

	o := &domain.Offer{
		ProfileID:   a.ProfileID(),
		Title:       in.Title,
		Description: in.Description,
		Image:       in.Image,
	}
	for i, d := range in.Details {
		if err := checkPrice("details["+string(tiers[i])+"].price", *d.Price); err != nil {
			return nil, err
		}
		o.Details = append(o.Details, domain.OfferDetail{
			Title:              d.Title,
			Revisions:          *d.Revisions,
			DeliveryTimeInDays: *d.DeliveryTimeInDays,
			Price:              *d.Price,
			Features:           features(d.Features),
			TierType:           tiers[i],
		})
	}

	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		if err := tx.Offers.Create(ctx, o); err != nil {
			return err
		}
		return syncProjections(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	recordEvent("offer_created")
	s.log.Info("offer created", zap.Uint("offer", o.ID), zap.Uint("profile", o.ProfileID),
		zap.String("min_price", o.MinPrice.StringFixed(2)))
	return s.store.Offers.FindByID(ctx, o.ID)
}

// Update applies offer field edits and per-tier detail edits together. Ownership is
// checked before the patch is validated. Tiers are addressed by offer_type.
func (s *OfferService) Update(ctx context.Context, a *authz.Actor, id uint, in UpdateOfferInput) (*domain.Offer, error) {
	if err := guard(s.log, "offer.update", a, nil, authz.IsAuthenticated); err != nil {
		return nil, err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		o, err := tx.Offers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := guard(s.log, "offer.update", a, o, authz.IsOwner); err != nil {
			return err
		}
		if err := in.normalize(); err != nil {
			return err
		}
		for _, p := range in.Details {
			d := o.Detail(domain.TierType(p.OfferType))
			if d == nil {
				return domain.Internal("offer is missing tier "+p.OfferType, nil)
			}
			if err := tx.Offers.UpdateDetail(ctx, d.ID, p.fields()); err != nil {
				return err
			}
		}
		if err := tx.Offers.UpdateFields(ctx, o.ID, in.fields()); err != nil {
			return err
		}
		return syncProjections(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("offer updated", zap.Uint("offer", id), zap.Int("details", len(in.Details)))
	return s.store.Offers.FindByID(ctx, id)
}

// Delete removes an offer and its tiers. Offers with orders on any tier are kept.
func (s *OfferService) Delete(ctx context.Context, a *authz.Actor, id uint) error {
	if err := guard(s.log, "offer.delete", a, nil, authz.IsAuthenticated); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx *repo.Store) error {
		o, err := tx.Offers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := guard(s.log, "offer.delete", a, o, authz.IsOwner); err != nil {
			return err
		}
		n, err := tx.Orders.CountReferencingOffer(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.Conflict("offer has orders and cannot be deleted")
		}
		return tx.Offers.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	recordEvent("offer_deleted")
	s.log.Info("offer deleted", zap.Uint("offer", id))
	return nil
}

func (s *OfferService) Get(ctx context.Context, id uint) (*domain.Offer, error) {
	return s.store.Offers.FindByID(ctx, id)
}

func (s *OfferService) List(ctx context.Context, in ListOffersInput) (*Page[domain.Offer], error) {
	if !repo.ValidOfferOrdering(in.Ordering) {
		return nil, domain.Validationf("ordering %q is not supported", in.Ordering)
	}
	if in.MaxDeliveryTime != nil && *in.MaxDeliveryTime < 0 {
		return nil, domain.Validation("max_delivery_time must not be negative")
	}
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.PageSize <= 0 {
		in.PageSize = DefaultOfferPageSize
	}
	if in.PageSize > MaxOfferPageSize {
		in.PageSize = MaxOfferPageSize
	}
	items, total, err := s.store.Offers.List(ctx, repo.OfferFilter{
		CreatorID:       in.CreatorID,
		MinPrice:        in.MinPrice,
		MaxDeliveryTime: in.MaxDeliveryTime,
		Search:          in.Search,
		Ordering:        in.Ordering,
		Offset:          (in.Page - 1) * in.PageSize,
		Limit:           in.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &Page[domain.Offer]{Total: total, Page: in.Page, Size: in.PageSize, List: items}, nil
}

func (s *OfferService) Detail(ctx context.Context, a *authz.Actor, id uint) (*domain.OfferDetail, error) {
	if err := guard(s.log, "offerdetail.get", a, nil, authz.IsAuthenticated); err != nil {
		return nil, err
	}
	return s.store.Offers.DetailByID(ctx, id)
}

// syncProjections reloads the stored details and rewrites min_price and min_delivery_time.
func syncProjections(ctx context.Context, tx *repo.Store, o *domain.Offer) error {
	details, err := tx.Offers.Details(ctx, o.ID)
	if err != nil {
		return err
	}
	o.Details = details
	o.SortDetails()
	o.RecomputeProjections()
	return tx.Offers.SaveProjections(ctx, o)
}

func features(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](in)
}

// normalize trims titles, validates the patch and canonicalizes each offer_type.
// An unknown or repeated tier rejects the whole patch.
func (in *UpdateOfferInput) normalize() error {
	in.Title = trimPtr(in.Title)
	for i := range in.Details {
		in.Details[i].Title = trimPtr(in.Details[i].Title)
	}
	if err := check(in); err != nil {
		return err
	}
	seen := make(map[domain.TierType]bool, len(in.Details))
	for i := range in.Details {
		t := domain.TierType(strings.TrimSpace(in.Details[i].OfferType))
		if !t.IsValid() {
			return domain.Validationf("unknown offer_type %q", in.Details[i].OfferType)
		}
		if seen[t] {
			return domain.Validationf("offer_type %q appears more than once", t)
		}
		seen[t] = true
		in.Details[i].OfferType = string(t)
		if p := in.Details[i].Price; p != nil {
			if err := checkPrice("details["+string(t)+"].price", *p); err != nil {
				return err
			}
		}
	}
	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func (in UpdateOfferInput) fields() map[string]any {
	m := map[string]any{}
	if in.Title != nil {
		m["title"] = *in.Title
	}
	if in.Description != nil {
		m["description"] = *in.Description
	}
	if in.Image != nil {
		m["image"] = *in.Image
	}
	return m
}

func (p DetailPatch) fields() map[string]any {
	m := map[string]any{}
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Revisions != nil {
		m["revisions"] = *p.Revisions
	}
	if p.DeliveryTimeInDays != nil {
		m["delivery_time_in_days"] = *p.DeliveryTimeInDays
	}
	if p.Price != nil {
		m["price"] = *p.Price
	}
	if p.Features != nil {
		m["features"] = features(p.Features)
	}
	return m
}
