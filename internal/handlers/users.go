package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/account"
	"github.com/AyishaBeevi/ab-backend/internal/middleware"
)

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

func ListUsers(svc *account.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /users"
		defer handlePanic(c, log, route)

		users, err := svc.List(c.Request.Context(), middleware.CallerFrom(c))
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func SetUserRole(svc *account.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /users/:id/role"
		defer handlePanic(c, log, route)

		var req roleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		user, err := svc.SetRole(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), req.Role)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func DeleteUser(svc *account.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /users/:id"
		defer handlePanic(c, log, route)

		if err := svc.Delete(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User removed successfully"})
	}
}
