package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/access"
	"github.com/AyishaBeevi/ab-backend/internal/models"
	"github.com/AyishaBeevi/ab-backend/internal/store"
)

const ContextKeyCaller = "caller"

type Verifier interface {
	Verify(raw string) (primitive.ObjectID, error)
}

type UserLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// AuthGuard resolves the bearer token, or the token cookie when no header is
// sent, to a stored user and puts the caller in the context. When roles are given the caller must hold one of them.
func AuthGuard(verifier Verifier, users UserLookup, log *zap.Logger, roles ...string) gin.HandlerFunc {
	log = log.Named("auth")
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			if cookie, err := c.Cookie(TokenCookie); err == nil {
				raw = strings.TrimSpace(cookie)
			}
		}
		if raw == "" {
			abort(c, http.StatusUnauthorized, "Not authorized, token missing")
			return
		}

		userID, err := verifier.Verify(raw)
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			abort(c, http.StatusUnauthorized, "Not authorized, token invalid")
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if errors.Is(err, store.ErrNotFound) {
			abort(c, http.StatusUnauthorized, "Not authorized, user not found")
			return
		}
		if err != nil {
			log.Error("user lookup failed", zap.String("userId", userID.Hex()), zap.Error(err))
			abort(c, http.StatusInternalServerError, "server error")
			return
		}

		caller := &access.Caller{ID: user.ID, Role: user.Role}
		c.Set(ContextKeyCaller, caller)

		if len(roles) > 0 && !access.Authorize(caller, roles...) {
			abort(c, http.StatusForbidden, "Forbidden: insufficient permissions")
			return
		}
		c.Next()
	}
}

// TokenCookie carries the session token for browser clients.
const TokenCookie = "token"

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}
