package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"market-backend/internal/authz"
	"market-backend/internal/domain"
	"market-backend/internal/service"
	"market-backend/internal/transport/http/ez"
)

type OrderHandler struct{ svc *service.OrderService }

func NewOrderHandler(svc *service.OrderService) *OrderHandler { return &OrderHandler{svc: svc} }

// orderPatch accepts only {"status": "..."}; every other key is rejected.
type orderPatch map[string]json.RawMessage

func (p orderPatch) status() (string, error) {
	for k := range p {
		if k != "status" {
			return "", domain.Validationf("field %q cannot be changed; only status is writable", k)
		}
	}
	raw, ok := p["status"]
	if !ok {
		return "", domain.Validation("status is required")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", domain.Validation("status must be a string")
	}
	return s, nil
}

func (h *OrderHandler) MountAPI(api ez.EZ) {
	ez.RegisterAction(api, ez.Action[struct{}, []orderOut]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: ez.BindNone,
		Guard:  authz.IsAuthenticated,
		Handler: func(c *gin.Context, a *authz.Actor, _ *struct{}) ([]orderOut, error) {
			os, err := h.svc.List(c.Request.Context(), a)
			if err != nil {
				return nil, err
			}
			return toOrders(os), nil
		},
	})

	ez.RegisterAction(api, ez.Action[struct{}, orderOut]{
		Method: http.MethodGet,
		Path:   "/orders/:id",
		Binder: ez.BindNone,
		Guard:  authz.IsAuthenticated,
		Handler: func(c *gin.Context, a *authz.Actor, _ *struct{}) (orderOut, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return orderOut{}, err
			}
			o, err := h.svc.Get(c.Request.Context(), a, id)
			if err != nil {
				return orderOut{}, err
			}
			return toOrder(o), nil
		},
	})

	ez.RegisterAction(api, ez.Action[service.CreateOrderInput, orderOut]{
		Method: http.MethodPost,
		Path:   "/orders",
		Binder: ez.BindJSON,
		Guard:  authz.IsAuthenticated,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, a *authz.Actor, in *service.CreateOrderInput) (orderOut, error) {
			o, err := h.svc.Create(c.Request.Context(), a, *in)
			if err != nil {
				return orderOut{}, err
			}
			return toOrder(o), nil
		},
	})

	ez.RegisterAction(api, ez.Action[orderPatch, orderOut]{
		Method: http.MethodPatch,
		Path:   "/orders/:id",
		Binder: ez.BindJSON,
		Guard:  authz.IsAuthenticated,
		Handler: func(c *gin.Context, a *authz.Actor, in *orderPatch) (orderOut, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return orderOut{}, err
			}
			status, err := in.status()
			o, err := h.svc.Patch(c.Request.Context(), a, id, service.StatusPatch{Status: status, Err: err})
			if err != nil {
				return orderOut{}, err
			}
			return toOrder(o), nil
		},
	})

	ez.RegisterAction(api, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/orders/:id",
		Binder: ez.BindNone,
		Guard:  authz.IsAuthenticated,
		Handler: func(c *gin.Context, a *authz.Actor, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := h.svc.Delete(c.Request.Context(), a, id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	h.mountCount(api, "/order-count/:business_id", "order_count", domain.OrderInProgress)
	h.mountCount(api, "/completed-order-count/:business_id", "completed_order_count", domain.OrderCompleted)
}

func (h *OrderHandler) mountCount(api ez.EZ, path, key string, status domain.OrderStatus) {
	ez.RegisterAction(api, ez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   path,
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *authz.Actor, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamID(c, "business_id")
			if err != nil {
				return nil, err
			}
			n, err := h.svc.CountByStatus(c.Request.Context(), id, status)
			if err != nil {
				return nil, err
			}
			return gin.H{key: n}, nil
		},
	})
}
