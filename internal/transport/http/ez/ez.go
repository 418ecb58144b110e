// Package ez registers typed actions on gin groups: bind, authorize, run, render.
package ez

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"market-backend/internal/authz"
	"market-backend/internal/domain"
	mdw "market-backend/internal/transport/http/middleware"
	resp "market-backend/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ { return EZ{g: g, log: l} }

// Group derives an EZ on a sub group sharing the logger.
func (e EZ) Group(path string, mw ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mw...), log: e.log}
}

type Binder string

const (
	BindJSON  Binder = "json"  // request body
	BindQuery Binder = "query" // ?a=b
	BindNone  Binder = "none"  // handler reads c.Param itself
)

// Action is one endpoint. I is the bound input, O the rendered data.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Guard   authz.Predicate // route level check with a nil resource; nil means public
	Status  int             // success status, 200 when zero
	Handler func(c *gin.Context, actor *authz.Actor, in *I) (O, error)
}

// ActorFrom returns the request's actor, anonymous when no token was presented.
func ActorFrom(c *gin.Context) *authz.Actor {
	if v, ok := c.Get(mdw.KeyActor); ok {
		if a, ok := v.(*authz.Actor); ok && a != nil {
			return a
		}
	}
	return authz.Anonymous()
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		actor := ActorFrom(c)
		if a.Guard != nil {
			if err := a.Guard.Evaluate(actor, nil); err != nil {
				Fail(c, e.log, err)
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
			if errors.Is(bindErr, io.EOF) {
				bindErr = nil
			}
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			Fail(c, e.log, domain.Validation("malformed request: "+bindErr.Error()))
			return
		}

		out, err := a.Handler(c, actor, &in)
		if err != nil {
			Fail(c, e.log, err)
			return
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

// Fail renders err with the status of its kind. Internal errors are logged with the request id.
func Fail(c *gin.Context, l *zap.Logger, err error) {
	code := resp.CodeOf(err)
	if code >= http.StatusInternalServerError && l != nil {
		l.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(code, resp.FromError(err))
}

// ParamID reads a positive integer path parameter.
func ParamID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, domain.Validationf("%s must be a positive integer", name)
	}
	return uint(v), nil
}
