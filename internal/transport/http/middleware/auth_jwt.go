package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"market-backend/internal/authz"
	"market-backend/internal/domain"
	resp "market-backend/internal/transport/http/response"
)

// KeyActor holds the *authz.Actor of an authenticated request.
const KeyActor = "actor"

// Authenticator resolves a raw bearer token into an actor.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*authz.Actor, error)
}

// AuthJWT resolves the bearer token and stores the actor. Without a token the
// request continues anonymously unless required is set; a bad token always fails.
// guard, when non-nil, runs against the actor afterwards (401 or 403).
func AuthJWT(a Authenticator, required bool, guard authz.Predicate) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c.GetHeader("Authorization"))
		if !ok {
			if required {
				abort(c, domain.Unauthenticated("authentication credentials were not provided"))
				return
			}
			if guard != nil {
				if err := guard.Evaluate(authz.Anonymous(), nil); err != nil {
					abort(c, err)
					return
				}
			}
			c.Next()
			return
		}
		actor, err := a.Authenticate(c.Request.Context(), raw)
		if err != nil {
			abort(c, err)
			return
		}
		if guard != nil {
			if err := guard.Evaluate(actor, nil); err != nil {
				abort(c, err)
				return
			}
		}
		c.Set(KeyActor, actor)
		c.Next()
	}
}

// bearer accepts "Bearer <t>" and the "Token <t>" form older clients send.
func bearer(h string) (string, bool) {
	for _, p := range []string{"Bearer ", "Token "} {
		if strings.HasPrefix(h, p) {
			t := strings.TrimSpace(strings.TrimPrefix(h, p))
			return t, t != ""
		}
	}
	return "", false
}

func abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(resp.CodeOf(err), resp.FromError(err))
}
