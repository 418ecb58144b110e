package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"market-backend/internal/authz"
	"market-backend/internal/service"
	"market-backend/internal/transport/http/ez"
)

type AccountHandler struct{ svc *service.AccountService }

func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (h *AccountHandler) Priority() int { return 10 }

func (h *AccountHandler) MountAPI(api ez.EZ) {
	ez.RegisterAction(api, ez.Action[service.RegisterInput, sessionOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *authz.Actor, in *service.RegisterInput) (sessionOut, error) {
			s, err := h.svc.Register(c.Request.Context(), *in)
			if err != nil {
				return sessionOut{}, err
			}
			return toSession(s), nil
		},
	})

	ez.RegisterAction(api, ez.Action[service.LoginInput, sessionOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *authz.Actor, in *service.LoginInput) (sessionOut, error) {
			s, err := h.svc.Login(c.Request.Context(), *in)
			if err != nil {
				return sessionOut{}, err
			}
			return toSession(s), nil
		},
	})

	ez.RegisterAction(api, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: ez.BindNone,
		Guard:  authz.IsAuthenticated,
		Handler: func(c *gin.Context, a *authz.Actor, _ *struct{}) (gin.H, error) {
			if err := h.svc.Logout(c.Request.Context(), a); err != nil {
				return nil, err
			}
			return gin.H{}, nil
		},
	})
}
