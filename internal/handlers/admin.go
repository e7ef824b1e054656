package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/audit"
	"github.com/AyishaBeevi/ab-backend/internal/listing"
	"github.com/AyishaBeevi/ab-backend/internal/middleware"
	"github.com/AyishaBeevi/ab-backend/internal/pagination"
)

const (
	auditLatestLimit = 100
	auditPageSize    = 20
)

func AdminGetProperties(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/properties"
		defer handlePanic(c, log, route)

		page, err := pagination.Parse(c.Query("page"), c.Query("limit"), listing.AdminPageSize)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		properties, total, err := svc.AdminList(c.Request.Context(), middleware.CallerFrom(c), page)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"properties": properties,
			"total":      total,
			"page":       page.Page,
			"totalPages": pagination.TotalPages(total, page.Limit),
		})
	}
}

func AdminCreateProperty(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/properties"
		defer handlePanic(c, log, route)

		var req listing.AdminCreateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		property, err := svc.AdminCreate(c.Request.Context(), middleware.CallerFrom(c), req)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusCreated, property)
	}
}

type approveRequest struct {
	Approved bool `json:"approved"`
}

func AdminApproveProperty(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/properties/:id/approve"
		defer handlePanic(c, log, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		var req approveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		property, err := svc.Approve(c.Request.Context(), middleware.CallerFrom(c), id, req.Approved)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, property)
	}
}

func AdminDeleteProperty(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/properties/:id"
		defer handlePanic(c, log, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		if err := svc.AdminDelete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
	}
}

func AdminToggleFeatured(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/properties/:id/featured"
		defer handlePanic(c, log, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		value, err := svc.ToggleFeatured(c.Request.Context(), middleware.CallerFrom(c), id)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "isFeatured": value})
	}
}

func AdminToggleTopPick(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/properties/:id/top-pick"
		defer handlePanic(c, log, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		value, err := svc.ToggleTopPick(c.Request.Context(), middleware.CallerFrom(c), id)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "isTopPick": value})
	}
}

// AdminGetAuditLogs returns the newest entries as a bare array. The route
// group enforces the admin role.
func AdminGetAuditLogs(recorder *audit.Recorder, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/audit-logs"
		defer handlePanic(c, log, route)

		logs, err := recorder.Latest(c.Request.Context(), auditLatestLimit)
		if err != nil {
			respondWithError(c, log, route, apperr.Internal(err))
			return
		}
		c.JSON(http.StatusOK, logs)
	}
}

func AdminGetLogs(recorder *audit.Recorder, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/logs"
		defer handlePanic(c, log, route)

		page, err := pagination.Parse(c.Query("page"), c.Query("limit"), auditPageSize)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		logs, total, err := recorder.Page(c.Request.Context(), page.Page, page.Limit)
		if err != nil {
			respondWithError(c, log, route, apperr.Internal(err))
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"logs":       logs,
			"page":       page.Page,
			"total":      total,
			"totalPages": pagination.TotalPages(total, page.Limit),
		})
	}
}
