package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/contact"
	"github.com/AyishaBeevi/ab-backend/internal/middleware"
)

func SubmitContact(svc *contact.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /contact"
		defer handlePanic(c, log, route)

		var req contact.SubmitInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if _, err := svc.Submit(c.Request.Context(), req); err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func GetContactInbox(svc *contact.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/contact"
		defer handlePanic(c, log, route)

		var q contact.InboxQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondValidationError(c, err)
			return
		}

		messages, err := svc.Inbox(c.Request.Context(), middleware.CallerFrom(c), q)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, messages)
	}
}

func MarkContactRead(svc *contact.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/contact/:id/read"
		defer handlePanic(c, log, route)

		msg, err := svc.MarkRead(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}

func ArchiveContact(svc *contact.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/contact/:id/archive"
		defer handlePanic(c, log, route)

		msg, err := svc.Archive(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"))
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}

func DeleteContact(svc *contact.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/contact/:id"
		defer handlePanic(c, log, route)

		if err := svc.Delete(c.Request.Context(), middleware.CallerFrom(c), c.Param("id")); err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
