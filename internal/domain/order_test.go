package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderInProgress, OrderCompleted, true},
		{OrderInProgress, OrderCancelled, true},
		{OrderInProgress, OrderInProgress, false},
		{OrderCompleted, OrderInProgress, false},
		{OrderCompleted, OrderCancelled, false},
		{OrderCancelled, OrderCompleted, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, OrderCompleted, st)

	_, err = ParseOrderStatus("shipped")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
}

func TestOrder_Involves(t *testing.T) {
	o := &Order{CustomerID: 3, BusinessID: 7}
	assert.True(t, o.Involves(3))
	assert.True(t, o.Involves(7))
	assert.False(t, o.Involves(4))
	assert.False(t, o.Involves(0))
	assert.Equal(t, uint(3), o.Owner())
}
