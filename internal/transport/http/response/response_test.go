package response

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"market-backend/internal/domain"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		err  error
		code int
		kind domain.Kind
		msg  string
	}{
		{domain.Validation("bad"), CodeBadRequest, domain.KindValidation, "bad"},
		{domain.Unauthenticated("who"), CodeUnauthorized, domain.KindUnauthenticated, "who"},
		{domain.Forbidden("no"), CodeForbidden, domain.KindForbidden, "no"},
		{domain.NotFound("gone"), CodeNotFound, domain.KindNotFound, "gone"},
		{errors.Wrap(domain.Conflict("dup"), "create"), CodeConflict, domain.KindConflict, "create: dup"},
		{errors.New("dial tcp: refused"), CodeServerError, domain.KindInternal, "Internal Server Error"},
	}
	for _, tc := range cases {
		r := FromError(tc.err)
		assert.Equal(t, tc.code, r.Code)
		assert.Equal(t, tc.kind, r.Kind)
		assert.Equal(t, tc.msg, r.Msg)
		assert.NotNil(t, r.Data)
	}
}

func TestErrorDefaultsMessage(t *testing.T) {
	assert.Equal(t, "Too Many Requests", Error(CodeTooManyRequests, "").Msg)
	assert.Equal(t, "slow down", Error(CodeTooManyRequests, "slow down").Msg)
	assert.Equal(t, struct{}{}, OK(nil).Data)
}
