package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"market-backend/internal/authz"
	"market-backend/internal/domain"
	"market-backend/internal/service"
	"market-backend/internal/transport/http/ez"
)

type ProfileHandler struct{ svc *service.ProfileService }

func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) MountAPI(api ez.EZ) {
	ez.RegisterAction(api, ez.Action[struct{}, profileOut]{
		Method: http.MethodGet,
		Path:   "/profile/:id",
		Binder: ez.BindNone,
		Guard:  authz.IsAuthenticated,
		Handler: func(c *gin.Context, a *authz.Actor, _ *struct{}) (profileOut, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return profileOut{}, err
			}
			p, err := h.svc.Get(c.Request.Context(), a, id)
			if err != nil {
				return profileOut{}, err
			}
			return toProfile(p), nil
		},
	})

	ez.RegisterAction(api, ez.Action[service.ProfilePatch, profileOut]{
		Method: http.MethodPatch,
		Path:   "/profile/:id",
		Binder: ez.BindJSON,
		Guard:  authz.IsAuthenticated,
		Handler: func(c *gin.Context, a *authz.Actor, in *service.ProfilePatch) (profileOut, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return profileOut{}, err
			}
			p, err := h.svc.Update(c.Request.Context(), a, id, *in)
			if err != nil {
				return profileOut{}, err
			}
			return toProfile(p), nil
		},
	})

	for _, role := range []domain.Role{domain.RoleBusiness, domain.RoleCustomer} {
		role := role
		ez.RegisterAction(api, ez.Action[struct{}, []profileOut]{
			Method: http.MethodGet,
			Path:   "/profile/" + role.String(),
			Binder: ez.BindNone,
			Guard:  authz.IsAuthenticated,
			Handler: func(c *gin.Context, a *authz.Actor, _ *struct{}) ([]profileOut, error) {
				ps, err := h.svc.ListByRole(c.Request.Context(), a, role)
				if err != nil {
					return nil, err
				}
				out := make([]profileOut, 0, len(ps))
				for i := range ps {
					out = append(out, toProfile(&ps[i]))
				}
				return out, nil
			},
		})
	}
}
