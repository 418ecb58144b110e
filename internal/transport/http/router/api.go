package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"market-backend/internal/core/config"
	"market-backend/internal/core/server"
	"market-backend/internal/service"
	"market-backend/internal/transport/http/ez"
	"market-backend/internal/transport/http/handler"
	mdw "market-backend/internal/transport/http/middleware"
)

type Deps struct {
	Log         *zap.Logger
	Services    *service.Services
	Limits      config.Limits
	Mode        string // gin mode
	Tracing     bool
	ServiceName string
}

// NewAPIEngine serves /api/v1. Tokens are optional at the group level; each action
// declares whether it needs one.
func NewAPIEngine(d Deps) *gin.Engine {
	r := newEngine(d, "api")

	api := r.Group("/api/v1", mdw.AuthJWT(d.Services.Accounts, false, nil))
	NewRegistry(
		handler.NewAccountHandler(d.Services.Accounts),
		handler.NewProfileHandler(d.Services.Profiles),
		handler.NewOfferHandler(d.Services.Offers),
		handler.NewOrderHandler(d.Services.Orders),
		handler.NewReviewHandler(d.Services.Reviews),
		handler.NewStatsHandler(d.Services.Stats),
	).MountAPI(ez.New(api, d.Log))

	return r
}

func newEngine(d Deps, name string) *gin.Engine {
	lim := withDefaults(d.Limits)
	r := server.NewRouter(d.Log, server.Options{Name: name, Mode: d.Mode})
	if d.Tracing {
		r.Use(otelgin.Middleware(d.ServiceName))
	}
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst, 10*time.Minute),
		mdw.ConcurrencyLimit(lim.MaxConcurrency),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(time.Duration(lim.RequestTimeoutSec)*time.Second),
		mdw.Metrics(name),
		mdw.AccessLog(d.Log.Named(name)),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func withDefaults(l config.Limits) config.Limits {
	if l.RPS <= 0 {
		l.RPS = 200
	}
	if l.Burst <= 0 {
		l.Burst = 400
	}
	if l.PerIPRPS <= 0 {
		l.PerIPRPS = 20
	}
	if l.PerIPBurst <= 0 {
		l.PerIPBurst = 40
	}
	if l.MaxConcurrency <= 0 {
		l.MaxConcurrency = 300
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 16 << 20
	}
	if l.RequestTimeoutSec <= 0 {
		l.RequestTimeoutSec = 10
	}
	return l
}
