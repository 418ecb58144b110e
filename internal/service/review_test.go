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

func TestReviewCreate_OnePerPair(t *testing.T) {
	svc, st := newServices(t)
	ctx := context.Background()
	biz := testutil.Actor(t, st, "biz", domain.RoleBusiness)
	cust := testutil.Actor(t, st, "cust", domain.RoleCustomer)

	rv, err := svc.Reviews.Create(ctx, cust, CreateReviewInput{BusinessUser: biz.ProfileID(), Rating: 5, Description: "great"})
	require.NoError(t, err)
	assert.Equal(t, cust.ProfileID(), rv.ReviewerID)

	_, err = svc.Reviews.Create(ctx, cust, CreateReviewInput{BusinessUser: biz.ProfileID(), Rating: 1})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	info, err := svc.Stats.BaseInfo(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, info.ReviewCount)
	assert.InDelta(t, 5.0, info.AverageRating, 0.0001)
}

func TestReviewCreate_UniqueIndexBacksPreCheck(t *testing.T) {
	_, st := newServices(t)
	ctx := context.Background()
	biz := testutil.Actor(t, st, "biz", domain.RoleBusiness)
	cust := testutil.Actor(t, st, "cust", domain.RoleCustomer)

	require.NoError(t, st.Reviews.Create(ctx, &domain.Review{BusinessID: biz.ProfileID(), ReviewerID: cust.ProfileID(), Rating: 4}))
	err := st.Reviews.Create(ctx, &domain.Review{BusinessID: biz.ProfileID(), ReviewerID: cust.ProfileID(), Rating: 3})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
}

func TestReviewCreate_Rejections(t *testing.T) {
	svc, st := newServices(t)
	ctx := context.Background()
	biz := testutil.Actor(t, st, "biz", domain.RoleBusiness)
	cust := testutil.Actor(t, st, "cust", domain.RoleCustomer)
	cust2 := testutil.Actor(t, st, "cust2", domain.RoleCustomer)

	cases := []struct {
		name  string
		actor *authz.Actor
		in    CreateReviewInput
		kind  domain.Kind
	}{
		{"anonymous", authz.Anonymous(), CreateReviewInput{BusinessUser: biz.ProfileID(), Rating: 4}, domain.KindUnauthenticated},
		{"business reviewer", biz, CreateReviewInput{BusinessUser: biz.ProfileID(), Rating: 4}, domain.KindForbidden},
		{"rating too high", cust, CreateReviewInput{BusinessUser: biz.ProfileID(), Rating: 6}, domain.KindValidation},
		{"rating zero", cust, CreateReviewInput{BusinessUser: biz.ProfileID()}, domain.KindValidation},
		{"unknown business", cust, CreateReviewInput{BusinessUser: 777, Rating: 4}, domain.KindNotFound},
		{"customer target", cust, CreateReviewInput{BusinessUser: cust2.ProfileID(), Rating: 4}, domain.KindValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Reviews.Create(ctx, tc.actor, tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, domain.KindOf(err))
		})
	}
}

func TestReviewUpdateDelete_OwnerOnly(t *testing.T) {
	svc, st := newServices(t)
	ctx := context.Background()
	biz := testutil.Actor(t, st, "biz", domain.RoleBusiness)
	cust := testutil.Actor(t, st, "cust", domain.RoleCustomer)
	other := testutil.Actor(t, st, "other", domain.RoleCustomer)

	rv, err := svc.Reviews.Create(ctx, cust, CreateReviewInput{BusinessUser: biz.ProfileID(), Rating: 3})
	require.NoError(t, err)

	_, err = svc.Reviews.Update(ctx, other, rv.ID, ReviewPatch{Rating: ptr(1)})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	_, err = svc.Reviews.Update(ctx, other, rv.ID, ReviewPatch{Rating: ptr(9)})
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err), "ownership is checked before the body")
	assert.Equal(t, domain.KindForbidden, domain.KindOf(svc.Reviews.Delete(ctx, biz, rv.ID)))

	_, err = svc.Reviews.Update(ctx, cust, rv.ID, ReviewPatch{Rating: ptr(9)})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	got, err := svc.Reviews.Update(ctx, cust, rv.ID, ReviewPatch{Rating: ptr(4), Description: ptr("better")})
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
	assert.Equal(t, "better", got.Description)
	assert.Equal(t, biz.ProfileID(), got.BusinessID)

	require.NoError(t, svc.Reviews.Delete(ctx, cust, rv.ID))
	assert.Equal(t, domain.KindNotFound, domain.KindOf(svc.Reviews.Delete(ctx, cust, rv.ID)))
}

func TestReviewList_FiltersAndOrdering(t *testing.T) {
	svc, st := newServices(t)
	ctx := context.Background()
	b1 := testutil.Actor(t, st, "b1", domain.RoleBusiness)
	b2 := testutil.Actor(t, st, "b2", domain.RoleBusiness)
	c1 := testutil.Actor(t, st, "c1", domain.RoleCustomer)
	c2 := testutil.Actor(t, st, "c2", domain.RoleCustomer)

	for _, r := range []struct {
		c      *authz.Actor
		b      *authz.Actor
		rating int
	}{{c1, b1, 2}, {c2, b1, 5}, {c1, b2, 4}} {
		_, err := svc.Reviews.Create(ctx, r.c, CreateReviewInput{BusinessUser: r.b.ProfileID(), Rating: r.rating})
		require.NoError(t, err)
	}

	list, err := svc.Reviews.List(ctx, c1, ListReviewsInput{BusinessUserID: b1.ProfileID(), Ordering: "-rating"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 5, list[0].Rating)
	assert.Equal(t, 2, list[1].Rating)

	list, err = svc.Reviews.List(ctx, c1, ListReviewsInput{ReviewerID: c1.ProfileID(), Ordering: "rating"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].Rating)

	_, err = svc.Reviews.List(ctx, c1, ListReviewsInput{Ordering: "created_at"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = svc.Reviews.List(ctx, authz.Anonymous(), ListReviewsInput{})
	assert.Equal(t, domain.KindUnauthenticated, domain.KindOf(err))

	info, err := svc.Stats.BaseInfo(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, info.ReviewCount)
	assert.InDelta(t, 3.7, info.AverageRating, 0.0001)
	assert.EqualValues(t, 2, info.BusinessProfileCount)
	assert.EqualValues(t, 0, info.OfferCount)
}
