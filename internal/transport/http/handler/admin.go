package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"market-backend/internal/authz"
	"market-backend/internal/repo"
	"market-backend/internal/service"
	"market-backend/internal/transport/http/ez"
)

// AdminHandler serves the operator endpoints on the admin server.
type AdminHandler struct {
	accounts *service.AccountService
	orders   *service.OrderService
}

func NewAdminHandler(accounts *service.AccountService, orders *service.OrderService) *AdminHandler {
	return &AdminHandler{accounts: accounts, orders: orders}
}

type adminListQ struct {
	Offset      int    `form:"offset,default=0"`
	Limit       int    `form:"limit,default=20"`
	Q           string `form:"q"`
	WithDeleted bool   `form:"with_deleted"`
}

func (q *adminListQ) clamp() {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

type identityRow struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	IsAdmin   bool       `json:"is_admin"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at"`
}

type listOut[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

func (h *AdminHandler) MountAdmin(admin ez.EZ) {
	ez.RegisterAction(admin, ez.Action[adminListQ, listOut[identityRow]]{
		Method: http.MethodGet,
		Path:   "/identities",
		Binder: ez.BindQuery,
		Guard:  authz.IsAdministrator,
		Handler: func(c *gin.Context, a *authz.Actor, in *adminListQ) (listOut[identityRow], error) {
			in.clamp()
			ids, total, err := h.accounts.ListIdentities(c.Request.Context(), a, repo.IdentityFilter{
				Query: in.Q, WithDeleted: in.WithDeleted, Offset: in.Offset, Limit: in.Limit,
			})
			if err != nil {
				return listOut[identityRow]{}, err
			}
			out := listOut[identityRow]{Total: total, Items: make([]identityRow, 0, len(ids))}
			for _, u := range ids {
				row := identityRow{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin, CreatedAt: u.CreatedAt}
				if u.DeletedAt.Valid {
					t := u.DeletedAt.Time
					row.DeletedAt = &t
				}
				out.Items = append(out.Items, row)
			}
			return out, nil
		},
	})

	ez.RegisterAction(admin, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/identities/:id/ban",
		Binder: ez.BindNone,
		Guard:  authz.IsAdministrator,
		Handler: func(c *gin.Context, a *authz.Actor, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := h.accounts.Ban(c.Request.Context(), a, id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})

	ez.RegisterAction(admin, ez.Action[adminListQ, listOut[orderOut]]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: ez.BindQuery,
		Guard:  authz.IsAdministrator,
		Handler: func(c *gin.Context, a *authz.Actor, in *adminListQ) (listOut[orderOut], error) {
			in.clamp()
			os, total, err := h.orders.ListAll(c.Request.Context(), a, in.Offset, in.Limit)
			if err != nil {
				return listOut[orderOut]{}, err
			}
			return listOut[orderOut]{Total: total, Items: toOrders(os)}, nil
		},
	})

	ez.RegisterAction(admin, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/orders/:id",
		Binder: ez.BindNone,
		Guard:  authz.IsAdministrator,
		Handler: func(c *gin.Context, a *authz.Actor, _ *struct{}) (gin.H, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			if err := h.orders.Delete(c.Request.Context(), a, id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
