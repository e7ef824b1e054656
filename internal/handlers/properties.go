package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/listing"
	"github.com/AyishaBeevi/ab-backend/internal/middleware"
)

/*
GET /properties
  - public search over approved, active listings
  - filters: listingType, search, minPrice, maxPrice, bedrooms, bathrooms,
    city, type, furnished; sort; page + limit
*/
func GetProperties(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /properties"
		defer handlePanic(c, log, route)

		var params listing.SearchParams
		if err := c.ShouldBindQuery(&params); err != nil {
			respondValidationError(c, err)
			return
		}

		query, err := listing.ParseSearch(params)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		page, err := svc.Search(c.Request.Context(), query)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"total":      page.Total,
			"page":       page.Page,
			"totalPages": page.TotalPages,
			"properties": page.Properties,
		})
	}
}

func CreateProperty(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /properties"
		defer handlePanic(c, log, route)

		in, err := parseCreatePropertyForm(c)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		property, err := svc.Create(c.Request.Context(), middleware.CallerFrom(c), in)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "property": property})
	}
}

func UpdateProperty(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /properties/:id"
		defer handlePanic(c, log, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		in, err := parseUpdatePropertyForm(c)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		property, err := svc.Update(c.Request.Context(), middleware.CallerFrom(c), id, in)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Property updated successfully", "property": property})
	}
}

func DeleteProperty(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /properties/:id"
		defer handlePanic(c, log, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		if err := svc.Delete(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Property removed"})
	}
}

type availabilityRequest struct {
	Status string `json:"status" binding:"required"`
}

func UpdateAvailability(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /properties/:id/availability"
		defer handlePanic(c, log, route)

		id, err := objectIDParam(c, "id")
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}

		var req availabilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		status, err := svc.SetAvailability(c.Request.Context(), middleware.CallerFrom(c), id, req.Status)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
	}
}

func GetPropertyBySlug(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /properties/:slug"
		defer handlePanic(c, log, route)

		property, err := svc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"property": property})
	}
}

func GetRelatedProperties(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /properties/related/advanced/:slug"
		defer handlePanic(c, log, route)

		related, err := svc.Related(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"related": related})
	}
}

func GetAgentProperties(svc *listing.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /properties/agent"
		defer handlePanic(c, log, route)

		var q listing.AgentQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondValidationError(c, err)
			return
		}

		properties, err := svc.AgentListings(c.Request.Context(), middleware.CallerFrom(c), q)
		if err != nil {
			respondWithError(c, log, route, err)
			return
		}
		c.JSON(http.StatusOK, properties)
	}
}
