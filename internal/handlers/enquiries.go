package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/enquiry"
	"github.com/AyishaBeevi/ab-backend/internal/middleware"
)

func CreateEnquiry(svc *enquiry.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /enquiries"
		defer handlePanic(c, log, route)

		var req enquiry.CreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		created, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "enquiry": created})
	}
}

func GetAgentEnquiries(svc *enquiry.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /enquiries/agent"
		defer handlePanic(c, log, route)

		enquiries, err := svc.ForAgent(c.Request.Context(), middleware.CallerFrom(c))
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, enquiries)
	}
}

func GetAllEnquiries(svc *enquiry.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /enquiries/admin"
		defer handlePanic(c, log, route)

		enquiries, err := svc.All(c.Request.Context(), middleware.CallerFrom(c))
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, enquiries)
	}
}

type enquiryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func UpdateEnquiryStatus(svc *enquiry.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /enquiries/:id/status"
		defer handlePanic(c, log, route)

		var req enquiryStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		updated, err := svc.SetStatus(c.Request.Context(), middleware.CallerFrom(c), c.Param("id"), req.Status)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "enquiry": updated})
	}
}
