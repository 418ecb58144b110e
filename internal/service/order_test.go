package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-backend/internal/authz"
	"market-backend/internal/domain"
	"market-backend/internal/testutil"
)

func TestOrderCreate_BusinessDerivedFromDetail(t *testing.T) {
	svc, st := newServices(t)
	ctx := context.Background()
	biz := testutil.Actor(t, st, "biz", domain.RoleBusiness)
	other := testutil.Actor(t, st, "other", domain.RoleBusiness)
	cust := testutil.Actor(t, st, "cust", domain.RoleCustomer)
	offer := testutil.Offer(t, st, biz.ProfileID(), "10", "20", "30")

	o, err := svc.Orders.Create(ctx, cust, CreateOrderInput{OfferDetailID: offer.Detail(domain.TierStandard).ID})
	require.NoError(t, err)
	assert.Equal(t, biz.ProfileID(), o.BusinessID)
	assert.NotEqual(t, other.ProfileID(), o.BusinessID)
	assert.Equal(t, cust.ProfileID(), o.CustomerID)
	assert.Equal(t, domain.OrderInProgress, o.Status)
	assert.Equal(t, domain.TierStandard, o.OfferDetail.TierType)
	assert.Equal(t, "20.00", o.OfferDetail.Price.StringFixed(2))
}

func TestOrderCreate_Rejections(t *testing.T) {
	svc, st := newServices(t)
	ctx := context.Background()
	biz := testutil.Actor(t, st, "biz", domain.RoleBusiness)
	cust := testutil.Actor(t, st, "cust", domain.RoleCustomer)
	admin := testutil.Admin(t, st, "root")
	offer := testutil.Offer(t, st, biz.ProfileID(), "10", "20", "30")
	detail := offer.Details[0].ID

	cases := []struct {
		name  string
		actor *authz.Actor
		in    CreateOrderInput
		kind  domain.Kind
	}{
		{"anonymous", authz.Anonymous(), CreateOrderInput{OfferDetailID: detail}, domain.KindUnauthenticated},
		{"business", biz, CreateOrderInput{OfferDetailID: detail}, domain.KindForbidden},
		{"admin without profile", admin, CreateOrderInput{OfferDetailID: detail}, domain.KindForbidden},
		{"missing detail", cust, CreateOrderInput{}, domain.KindValidation},
		{"unknown detail", cust, CreateOrderInput{OfferDetailID: 4242}, domain.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Orders.Create(ctx, tc.actor, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, domain.KindOf(err))
		})
	}
}

func TestOrderUpdateStatus(t *testing.T) {
	svc, st := newServices(t)
	ctx := context.Background()
	biz := testutil.Actor(t, st, "biz", domain.RoleBusiness)
	cust := testutil.Actor(t, st, "cust", domain.RoleCustomer)
	stranger := testutil.Actor(t, st, "stranger", domain.RoleCustomer)
	offer := testutil.Offer(t, st, biz.ProfileID(), "10", "20", "30")

	o, err := svc.Orders.Create(ctx, cust, CreateOrderInput{OfferDetailID: offer.Details[0].ID})
	require.NoError(t, err)

	_, err = svc.Orders.UpdateStatus(ctx, biz, o.ID, "completed")
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err), "business side may not change status")
	_, err = svc.Orders.UpdateStatus(ctx, stranger, o.ID, "completed")
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	_, err = svc.Orders.UpdateStatus(ctx, stranger, o.ID, "shipped")
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err), "ownership is checked before the status")
	_, err = svc.Orders.Patch(ctx, biz, o.ID, StatusPatch{Err: domain.Validation("field \"price\" cannot be changed")})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	_, err = svc.Orders.Patch(ctx, cust, o.ID, StatusPatch{Status: "completed", Err: domain.Validation("field \"price\" cannot be changed")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = svc.Orders.UpdateStatus(ctx, cust, o.ID, "shipped")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = svc.Orders.UpdateStatus(ctx, cust, o.ID, "in_progress")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	got, err := svc.Orders.UpdateStatus(ctx, cust, o.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, got.Status)

	_, err = svc.Orders.UpdateStatus(ctx, cust, o.ID, "cancelled")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err), "completed is terminal")
}

func TestOrderDelete_AdminOnly(t *testing.T) {
	svc, st := newServices(t)
	ctx := context.Background()
	biz := testutil.Actor(t, st, "biz", domain.RoleBusiness)
	cust := testutil.Actor(t, st, "cust", domain.RoleCustomer)
	admin := testutil.Admin(t, st, "root")
	offer := testutil.Offer(t, st, biz.ProfileID(), "10", "20", "30")

	o, err := svc.Orders.Create(ctx, cust, CreateOrderInput{OfferDetailID: offer.Details[0].ID})
	require.NoError(t, err)

	assert.Equal(t, domain.KindForbidden, domain.KindOf(svc.Orders.Delete(ctx, cust, o.ID)))
	assert.Equal(t, domain.KindForbidden, domain.KindOf(svc.Orders.Delete(ctx, biz, o.ID)))
	_, err = st.Orders.FindByID(ctx, o.ID)
	require.NoError(t, err, "forbidden deletes leave the row")

	require.NoError(t, svc.Orders.Delete(ctx, admin, o.ID))
	_, err = st.Orders.FindByID(ctx, o.ID)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(svc.Orders.Delete(ctx, admin, o.ID)))
}

func TestOrderReadsThroughDetail(t *testing.T) {
	svc, st := newServices(t)
	ctx := context.Background()
	biz := testutil.Actor(t, st, "biz", domain.RoleBusiness)
	cust := testutil.Actor(t, st, "cust", domain.RoleCustomer)
	offer, err := svc.Offers.Create(ctx, biz, CreateOfferInput{Title: "Logo", Details: detailInputs("10", "20", "30")})
	require.NoError(t, err)

	o, err := svc.Orders.Create(ctx, cust, CreateOrderInput{OfferDetailID: offer.Details[0].ID})
	require.NoError(t, err)
	_, err = svc.Offers.Update(ctx, biz, offer.ID, UpdateOfferInput{Details: []DetailPatch{{OfferType: "basic", Price: dec("12.50")}}})
	require.NoError(t, err)

	got, err := svc.Orders.Get(ctx, cust, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "12.50", got.OfferDetail.Price.StringFixed(2))
}

func TestOrderListGetAndCounts(t *testing.T) {
	svc, st := newServices(t)
	ctx := context.Background()
	biz := testutil.Actor(t, st, "biz", domain.RoleBusiness)
	cust := testutil.Actor(t, st, "cust", domain.RoleCustomer)
	stranger := testutil.Actor(t, st, "stranger", domain.RoleCustomer)
	admin := testutil.Admin(t, st, "root")
	offer := testutil.Offer(t, st, biz.ProfileID(), "10", "20", "30")

	first, err := svc.Orders.Create(ctx, cust, CreateOrderInput{OfferDetailID: offer.Details[0].ID})
	require.NoError(t, err)
	_, err = svc.Orders.Create(ctx, cust, CreateOrderInput{OfferDetailID: offer.Details[1].ID})
	require.NoError(t, err)
	_, err = svc.Orders.UpdateStatus(ctx, cust, first.ID, "completed")
	require.NoError(t, err)

	for _, a := range []*authz.Actor{cust, biz, admin} {
		list, err := svc.Orders.List(ctx, a)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	}
	list, err := svc.Orders.List(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Orders.Get(ctx, stranger, first.ID)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	_, err = svc.Orders.Get(ctx, biz, first.ID)
	assert.NoError(t, err)
	_, err = svc.Orders.Get(ctx, admin, first.ID)
	assert.NoError(t, err)

	n, err := svc.Orders.CountByStatus(ctx, biz.ProfileID(), domain.OrderInProgress)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	n, err = svc.Orders.CountByStatus(ctx, biz.ProfileID(), domain.OrderCompleted)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = svc.Orders.CountByStatus(ctx, cust.ProfileID(), domain.OrderInProgress)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	_, err = svc.Orders.CountByStatus(ctx, 999, domain.OrderInProgress)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	_, _, err = svc.Orders.ListAll(ctx, cust, 0, 10)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	all, total, err := svc.Orders.ListAll(ctx, admin, 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 1)
}
