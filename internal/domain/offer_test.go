package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffer_RecomputeProjections(t *testing.T) {
	o := &Offer{Details: []OfferDetail{
		{TierType: TierPremium, Price: decimal.NewFromInt(30), DeliveryTimeInDays: 2},
		{TierType: TierBasic, Price: decimal.NewFromInt(10), DeliveryTimeInDays: 7},
		{TierType: TierStandard, Price: decimal.NewFromInt(20), DeliveryTimeInDays: 5},
	}}

	o.RecomputeProjections()

	assert.True(t, o.MinPrice.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 2, o.MinDeliveryTime)

	o.Detail(TierBasic).Price = decimal.RequireFromString("5.50")
	o.RecomputeProjections()
	assert.Equal(t, "5.50", o.MinPrice.StringFixed(2))
}

func TestOffer_SortDetails(t *testing.T) {
	o := &Offer{Details: []OfferDetail{
		{TierType: TierPremium}, {TierType: TierBasic}, {TierType: TierStandard},
	}}
	o.SortDetails()
	for i, tier := range Tiers {
		assert.Equal(t, tier, o.Details[i].TierType)
	}
	assert.Nil(t, (&Offer{}).Detail(TierBasic))
}

func TestCheckTierSet(t *testing.T) {
	require.NoError(t, CheckTierSet([]TierType{TierStandard, TierBasic, TierPremium}))

	bad := map[string][]TierType{
		"too few":   {TierBasic, TierStandard},
		"too many":  {TierBasic, TierStandard, TierPremium, TierBasic},
		"duplicate": {TierBasic, TierBasic, TierPremium},
		"unknown":   {TierBasic, TierStandard, "gold"},
		"empty":     nil,
	}
	for name, tiers := range bad {
		err := CheckTierSet(tiers)
		require.Error(t, err, name)
		assert.Equal(t, KindValidation, KindOf(err), name)
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("business")
	require.NoError(t, err)
	assert.Equal(t, RoleBusiness, r)

	_, err = ParseRole("admin")
	assert.True(t, IsKind(err, KindValidation))
}
