package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/account"
	"github.com/AyishaBeevi/ab-backend/internal/middleware"
	"github.com/AyishaBeevi/ab-backend/internal/models"
)

type authUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func newAuthUser(u *models.User) authUser {
	return authUser{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role}
}

func Register(svc *account.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, log, route)

		var req account.RegisterInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		user, err := svc.Register(c.Request.Context(), req)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Registered successfully",
			"user":    newAuthUser(user),
		})
	}
}

func Login(svc *account.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, log, route)

		var req account.LoginInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		token, user, err := svc.Login(c.Request.Context(), req)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Login successful",
			"token":   token,
			"user":    newAuthUser(user),
		})
	}
}

func GetMe(svc *account.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/me"
		defer handlePanic(c, log, route)

		user, err := svc.Me(c.Request.Context(), middleware.CallerFrom(c))
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}
