package adoptionserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	userports "github.com/pawhaven/adoption-api-server/internal/domains/users/ports"
	"github.com/pawhaven/adoption-api-server/internal/shared/auth"
	apierrors "github.com/pawhaven/adoption-api-server/internal/shared/errors"
)

const principalContextKey = "adoptionserver.principal"

// AuthMiddleware resolves the bearer token (or api_key header) into a
// principal and stores it on the request context. Requests without a token
// pass through unauthenticated; handlers that need an identity enforce it via
// requirePrincipal.
func AuthMiddleware(identity userports.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" || identity == nil {
			c.Next()
			return
		}
		principal, err := identity.Authenticate(c.Request.Context(), token)
		if err == nil && !principal.IsZero() {
			c.Set(principalContextKey, principal)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return strings.TrimSpace(c.GetHeader("api_key"))
}

func principalFrom(c *gin.Context) (auth.Principal, bool) {
	value, ok := c.Get(principalContextKey)
	if !ok {
		return auth.Principal{}, false
	}
	principal, ok := value.(auth.Principal)
	if !ok || principal.IsZero() {
		return auth.Principal{}, false
	}
	return principal, true
}

// requirePrincipal responds 401 and aborts when no authenticated identity is
// attached to the request.
func requirePrincipal(c *gin.Context) (auth.Principal, bool) {
	principal, ok := principalFrom(c)
	if !ok {
		apierrors.Respond(c, apierrors.ErrUnauthorized.WithDetail("a valid session token is required"))
		c.Abort()
		return auth.Principal{}, false
	}
	return principal, true
}
