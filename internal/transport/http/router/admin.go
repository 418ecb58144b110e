package router

import (
	"github.com/gin-gonic/gin"

	"market-backend/internal/authz"
	"market-backend/internal/transport/http/ez"
	"market-backend/internal/transport/http/handler"
	mdw "market-backend/internal/transport/http/middleware"
)

// NewAdminEngine serves /admin/v1. Every route requires an administrator token.
func NewAdminEngine(d Deps) *gin.Engine {
	r := newEngine(d, "admin")

	admin := r.Group("/admin/v1", mdw.AuthJWT(d.Services.Accounts, true, authz.IsAdministrator))
	NewRegistry(
		handler.NewAdminHandler(d.Services.Accounts, d.Services.Orders),
	).MountAdmin(ez.New(admin, d.Log))

	return r
}
