package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TierType identifies one of the three pricing tiers of an Offer.
type TierType string

const (
	TierBasic    TierType = "basic"
	TierStandard TierType = "standard"
	TierPremium  TierType = "premium"
)

// Tiers lists every tier in display order. An Offer owns exactly one detail per entry.
var Tiers = [...]TierType{TierBasic, TierStandard, TierPremium}

func (t TierType) IsValid() bool {
	switch t {
	case TierBasic, TierStandard, TierPremium:
		return true
	default:
		return false
	}
}

func (t TierType) rank() int {
	for i, v := range Tiers {
		if v == t {
			return i
		}
	}
	return len(Tiers)
}

// Offer is a business profile's sellable package. MinPrice and MinDeliveryTime are
// projections over Details and are rewritten after every detail mutation.
type Offer struct {
	ID              uint            `gorm:"primaryKey"`
	ProfileID       uint            `gorm:"index;not null"`
	Profile         Profile         `gorm:"constraint:OnDelete:CASCADE"`
	Title           string          `gorm:"size:255;not null"`
	Description     string          `gorm:"type:text"`
	Image           string          `gorm:"size:255"`
	MinPrice        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0;index"`
	MinDeliveryTime int             `gorm:"not null;default:0;index"`
	Details         []OfferDetail   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `gorm:"index"`
	UpdatedAt       time.Time       `gorm:"index"`
}

// Owner implements authz.Resource.
func (o *Offer) Owner() uint { return o.ProfileID }

// Detail returns the detail for tier t, nil if it is not loaded.
func (o *Offer) Detail(t TierType) *OfferDetail {
	for i := range o.Details {
		if o.Details[i].TierType == t {
			return &o.Details[i]
		}
	}
	return nil
}

// SortDetails orders Details basic, standard, premium.
func (o *Offer) SortDetails() {
	sort.SliceStable(o.Details, func(i, j int) bool {
		return o.Details[i].TierType.rank() < o.Details[j].TierType.rank()
	})
}

// RecomputeProjections rewrites MinPrice and MinDeliveryTime from the loaded Details.
func (o *Offer) RecomputeProjections() {
	if len(o.Details) == 0 {
		o.MinPrice = decimal.Zero
		o.MinDeliveryTime = 0
		return
	}
	minPrice := o.Details[0].Price
	minDelivery := o.Details[0].DeliveryTimeInDays
	for _, d := range o.Details[1:] {
		if d.Price.LessThan(minPrice) {
			minPrice = d.Price
		}
		if d.DeliveryTimeInDays < minDelivery {
			minDelivery = d.DeliveryTimeInDays
		}
	}
	o.MinPrice = minPrice
	o.MinDeliveryTime = minDelivery
}

// CheckTierSet verifies that details hold exactly one entry per tier.
func CheckTierSet(tiers []TierType) error {
	if len(tiers) != len(Tiers) {
		return Validation("details must contain exactly 3 entries, one per tier")
	}
	seen := make(map[TierType]bool, len(Tiers))
	for _, t := range tiers {
		if !t.IsValid() {
			return Validationf("unknown offer_type %q", t)
		}
		if seen[t] {
			return Validation("details must contain exactly 3 entries, one per tier")
		}
		seen[t] = true
	}
	return nil
}

// OfferDetail is one pricing tier. TierType never changes after creation.
// Revisions of -1 means unlimited.
type OfferDetail struct {
	ID                 uint                        `gorm:"primaryKey"`
	OfferID            uint                        `gorm:"not null;uniqueIndex:idx_offer_details_offer_tier"`
	Offer              *Offer                      `gorm:"foreignKey:OfferID"`
	Title              string                      `gorm:"size:255;not null"`
	Revisions          int                         `gorm:"not null"`
	DeliveryTimeInDays int                         `gorm:"not null"`
	Price              decimal.Decimal             `gorm:"type:decimal(10,2);not null"`
	Features           datatypes.JSONSlice[string] `gorm:"not null"`
	TierType           TierType                    `gorm:"column:offer_type;size:16;not null;uniqueIndex:idx_offer_details_offer_tier"`
}

// UnlimitedRevisions is the Revisions value meaning "no limit".
const UnlimitedRevisions = -1
