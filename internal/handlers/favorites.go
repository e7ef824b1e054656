package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/favorites"
	"github.com/AyishaBeevi/ab-backend/internal/middleware"
)

func ToggleFavorite(ledger *favorites.Ledger, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /users/favorite/:id"
		defer handlePanic(c, log, route)

		result, err := ledger.Toggle(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"isFavorited": result.IsFavorited,
			"favorites":   result.Favorites,
		})
	}
}

func GetFavorites(ledger *favorites.Ledger, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users/favorites"
		defer handlePanic(c, log, route)

		properties, err := ledger.List(c.Request.Context(), middleware.CallerFrom(c))
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, properties)
	}
}
