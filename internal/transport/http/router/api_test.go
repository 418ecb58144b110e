package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"market-backend/internal/core/config"
	"market-backend/internal/service"
	"market-backend/internal/testutil"
)

type envelope struct {
	Code int             `json:"code"`
	Kind string          `json:"kind"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type client struct {
	t *testing.T
	h http.Handler
}

func (c client) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	var env envelope
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (c client) data(env envelope, out any) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(env.Data, out))
}

func newTestDeps(t *testing.T) Deps {
	svcs := service.New(testutil.Store(t), testutil.JWTer(), zap.NewNop())
	return Deps{
		Log:      zap.NewNop(),
		Services: svcs,
		Mode:     gin.TestMode,
		Limits:   config.Limits{PerIPRPS: 10000, PerIPBurst: 10000},
	}
}

type session struct {
	Token  string `json:"token"`
	UserID uint   `json:"user_id"`
}

func (c client) register(username, typ string) session {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/api/v1/register", "", map[string]any{
		"username": username, "email": username + "@example.com",
		"password": "pw123456", "repeated_password": "pw123456", "type": typ,
	})
	require.Equal(c.t, http.StatusCreated, code, env.Msg)
	var s session
	c.data(env, &s)
	return s
}

func offerBody(prices ...any) map[string]any {
	tiers := []string{"basic", "standard", "premium"}
	details := make([]map[string]any, 0, len(prices))
	for i, p := range prices {
		details = append(details, map[string]any{
			"title": tiers[i] + " tier", "revisions": i + 1, "delivery_time_in_days": 5 + i,
			"price": p, "features": []string{"logo"}, "offer_type": tiers[i],
		})
	}
	return map[string]any{"title": "Logo design", "description": "vector logos", "details": details}
}

func TestAPI_MarketplaceFlow(t *testing.T) {
	c := client{t: t, h: NewAPIEngine(newTestDeps(t))}

	biz := c.register("bizuser", "business")
	cust := c.register("custuser", "customer")

	// anonymous is 401, wrong role is 403
	code, env := c.do(http.MethodPost, "/api/v1/offers", "", offerBody(10, 20, 30))
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthenticated", env.Kind)
	code, env = c.do(http.MethodPost, "/api/v1/offers", cust.Token, offerBody(10, 20, 30))
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", env.Kind)

	code, env = c.do(http.MethodPost, "/api/v1/offers", biz.Token, offerBody(10, 20))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "details must contain exactly 3 entries, one per tier", env.Msg)

	code, env = c.do(http.MethodPost, "/api/v1/offers", biz.Token, offerBody("10.00", 20, 30))
	require.Equal(t, http.StatusCreated, code, env.Msg)
	var created struct {
		ID      uint `json:"id"`
		Details []struct {
			ID        uint   `json:"id"`
			OfferType string `json:"offer_type"`
			Price     string `json:"price"`
		} `json:"details"`
	}
	c.data(env, &created)
	require.Len(t, created.Details, 3)

	type offerView struct {
		MinPrice string `json:"min_price"`
		User     uint   `json:"user"`
	}
	var view offerView
	code, env = c.do(http.MethodGet, fmt.Sprintf("/api/v1/offers/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, code)
	c.data(env, &view)
	assert.Equal(t, "10.00", view.MinPrice)
	assert.Equal(t, biz.UserID, view.User)

	code, _ = c.do(http.MethodPatch, fmt.Sprintf("/api/v1/offers/%d", created.ID), cust.Token,
		map[string]any{"title": "mine now"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = c.do(http.MethodPatch, fmt.Sprintf("/api/v1/offers/%d", created.ID), biz.Token,
		map[string]any{"details": []map[string]any{{"offer_type": "basic", "price": 5}}})
	require.Equal(t, http.StatusOK, code, env.Msg)
	_, env = c.do(http.MethodGet, fmt.Sprintf("/api/v1/offers/%d", created.ID), "", nil)
	c.data(env, &view)
	assert.Equal(t, "5.00", view.MinPrice)

	// list view carries detail references only
	code, env = c.do(http.MethodGet, "/api/v1/offers?min_price=1&ordering=-min_price", "", nil)
	require.Equal(t, http.StatusOK, code)
	var page struct {
		Total int64 `json:"total"`
		List  []struct {
			Details []map[string]any `json:"details"`
		} `json:"list"`
	}
	c.data(env, &page)
	require.EqualValues(t, 1, page.Total)
	assert.Contains(t, page.List[0].Details[0], "url")
	assert.NotContains(t, page.List[0].Details[0], "price")

	// a spoofed business_user is ignored
	standard := created.Details[1].ID
	code, env = c.do(http.MethodPost, "/api/v1/orders", cust.Token,
		map[string]any{"offer_detail_id": standard, "business_user": cust.UserID})
	require.Equal(t, http.StatusCreated, code, env.Msg)
	var order struct {
		ID           uint   `json:"id"`
		BusinessUser uint   `json:"business_user"`
		CustomerUser uint   `json:"customer_user"`
		Status       string `json:"status"`
		OfferType    string `json:"offer_type"`
	}
	c.data(env, &order)
	assert.Equal(t, biz.UserID, order.BusinessUser)
	assert.Equal(t, cust.UserID, order.CustomerUser)
	assert.Equal(t, "in_progress", order.Status)
	assert.Equal(t, "standard", order.OfferType)

	code, _ = c.do(http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d", order.ID), cust.Token,
		map[string]any{"status": "completed", "business_user": 1})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = c.do(http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d", order.ID), biz.Token,
		map[string]any{"status": "completed", "business_user": 1})
	assert.Equal(t, http.StatusForbidden, code, "a non-owner learns nothing about the body")
	code, env = c.do(http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d", order.ID), cust.Token,
		map[string]any{"status": "done"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation", env.Kind)

	code, env = c.do(http.MethodGet, fmt.Sprintf("/api/v1/order-count/%d", biz.UserID), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"order_count":1}`, string(env.Data))

	code, _ = c.do(http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d", order.ID), cust.Token,
		map[string]any{"status": "completed"})
	require.Equal(t, http.StatusOK, code)
	_, env = c.do(http.MethodGet, fmt.Sprintf("/api/v1/completed-order-count/%d", biz.UserID), "", nil)
	assert.JSONEq(t, `{"completed_order_count":1}`, string(env.Data))

	// neither side of the order may delete it
	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", order.ID), cust.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", order.ID), biz.Token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = c.do(http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", order.ID), biz.Token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = c.do(http.MethodPost, "/api/v1/reviews", cust.Token,
		map[string]any{"business_user": biz.UserID, "rating": 5, "description": "top"})
	require.Equal(t, http.StatusCreated, code, env.Msg)
	code, env = c.do(http.MethodPost, "/api/v1/reviews", cust.Token,
		map[string]any{"business_user": biz.UserID, "rating": 4})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict", env.Kind)

	code, env = c.do(http.MethodGet, "/api/v1/base-info", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"review_count":1,"average_rating":5,"business_profile_count":1,"offer_count":1}`, string(env.Data))

	code, _ = c.do(http.MethodDelete, fmt.Sprintf("/api/v1/offers/%d", created.ID), biz.Token, nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestAPI_AuthAndProfile(t *testing.T) {
	c := client{t: t, h: NewAPIEngine(newTestDeps(t))}
	s := c.register("anna", "customer")

	code, env := c.do(http.MethodPost, "/api/v1/login", "", map[string]any{"username": "anna", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthenticated", env.Kind)

	code, env = c.do(http.MethodPost, "/api/v1/login", "", map[string]any{"username": "anna", "password": "pw123456"})
	require.Equal(t, http.StatusOK, code)
	var l session
	c.data(env, &l)
	assert.Equal(t, s.UserID, l.UserID)

	code, env = c.do(http.MethodPatch, fmt.Sprintf("/api/v1/profile/%d", s.UserID), l.Token,
		map[string]any{"location": "Berlin", "email": "anna@new.io", "type": "business"})
	require.Equal(t, http.StatusOK, code, env.Msg)
	var p struct {
		Location string `json:"location"`
		Email    string `json:"email"`
		Type     string `json:"type"`
	}
	c.data(env, &p)
	assert.Equal(t, "Berlin", p.Location)
	assert.Equal(t, "anna@new.io", p.Email)
	assert.Equal(t, "customer", p.Type)

	other := c.register("otto", "business")
	code, _ = c.do(http.MethodPatch, fmt.Sprintf("/api/v1/profile/%d", other.UserID), l.Token,
		map[string]any{"location": "Paris"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = c.do(http.MethodGet, "/api/v1/profile/business", l.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var list []map[string]any
	c.data(env, &list)
	assert.Len(t, list, 1)

	code, _ = c.do(http.MethodPost, "/api/v1/logout", l.Token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/api/v1/profile/business", l.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = c.do(http.MethodGet, "/api/v1/profile/business", s.Token, nil)
	assert.Equal(t, http.StatusOK, code, "other sessions stay valid")

	code, _ = c.do(http.MethodGet, "/api/v1/profile/abc", s.Token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
