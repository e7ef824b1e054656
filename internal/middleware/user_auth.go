package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AyishaBeevi/ab-backend/internal/access"
)

// CallerFrom returns the caller set by AuthGuard, or nil on public routes.
func CallerFrom(c *gin.Context) *access.Caller {
	value, ok := c.Get(ContextKeyCaller)
	if !ok {
		return nil
	}
	caller, _ := value.(*access.Caller)
	return caller
}

// RequireRoles gates a route group that already runs AuthGuard.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller == nil {
			abort(c, http.StatusUnauthorized, "Not authorized")
			return
		}
		if !access.Authorize(caller, roles...) {
			abort(c, http.StatusForbidden, "Forbidden: insufficient permissions")
			return
		}
		c.Next()
	}
}
