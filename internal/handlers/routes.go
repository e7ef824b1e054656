package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/AyishaBeevi/ab-backend/internal/account"
	"github.com/AyishaBeevi/ab-backend/internal/audit"
	"github.com/AyishaBeevi/ab-backend/internal/contact"
	"github.com/AyishaBeevi/ab-backend/internal/enquiry"
	"github.com/AyishaBeevi/ab-backend/internal/favorites"
	"github.com/AyishaBeevi/ab-backend/internal/listing"
	"github.com/AyishaBeevi/ab-backend/internal/middleware"
	"github.com/AyishaBeevi/ab-backend/internal/models"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Listings  *listing.Service
	Favorites *favorites.Ledger
	Enquiries *enquiry.Service
	Contacts  *contact.Service
	Accounts  *account.Service
	Audit     *audit.Recorder
	Verifier  middleware.Verifier
	Users     middleware.UserLookup
	Redis     *redis.Client
	Log       *zap.Logger
}

// Mount registers every route on r. It is called once for the root and once
// for the /api prefix.
func Mount(r gin.IRouter, d Deps) {
	log := d.Log
	authed := func(roles ...string) gin.HandlerFunc {
		return middleware.AuthGuard(d.Verifier, d.Users, log, roles...)
	}
	authLimit := middleware.RateLimit(d.Redis, middleware.AuthLimit, log)
	uploadLimit := middleware.RateLimit(d.Redis, middleware.UploadLimit, log)

	auth := r.Group("/auth")
	{
		auth.POST("/register", authLimit, Register(d.Accounts, log))
		auth.POST("/login", authLimit, Login(d.Accounts, log))
		auth.GET("/me", authed(), GetMe(d.Accounts, log))
	}

	props := r.Group("/properties")
	{
		props.GET("", GetProperties(d.Listings, log))
		props.POST("", authed(models.RoleAgent, models.RoleAdmin), uploadLimit, CreateProperty(d.Listings, log))
		props.GET("/related/advanced/:slug", GetRelatedProperties(d.Listings, log))
		props.GET("/agent", authed(models.RoleAgent, models.RoleAdmin), GetAgentProperties(d.Listings, log))
		props.GET("/:slug", GetPropertyBySlug(d.Listings, log))
		props.PUT("/:id", authed(models.RoleAgent, models.RoleAdmin), uploadLimit, UpdateProperty(d.Listings, log))
		props.DELETE("/:id", authed(models.RoleAgent, models.RoleAdmin), DeleteProperty(d.Listings, log))
		props.PATCH("/:id/availability", authed(models.RoleAgent, models.RoleAdmin), UpdateAvailability(d.Listings, log))
	}

	users := r.Group("/users")
	{
		users.PATCH("/favorite/:id", authed(), ToggleFavorite(d.Favorites, log))
		users.GET("/favorites", authed(), GetFavorites(d.Favorites, log))
		users.GET("", authed(models.RoleAdmin), ListUsers(d.Accounts, log))
		users.PATCH("/:id/role", authed(models.RoleAdmin), SetUserRole(d.Accounts, log))
		users.DELETE("/:id", authed(models.RoleAdmin), DeleteUser(d.Accounts, log))
	}

	enquiries := r.Group("/enquiries")
	{
		enquiries.POST("", CreateEnquiry(d.Enquiries, log))
		enquiries.GET("/agent", authed(models.RoleAgent), GetAgentEnquiries(d.Enquiries, log))
		enquiries.GET("/admin", authed(models.RoleAdmin), GetAllEnquiries(d.Enquiries, log))
		enquiries.PATCH("/:id/status", authed(models.RoleAgent, models.RoleAdmin), UpdateEnquiryStatus(d.Enquiries, log))
	}

	r.POST("/contact", SubmitContact(d.Contacts, log))

	admin := r.Group("/admin")
	admin.Use(authed(), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", ListUsers(d.Accounts, log))
		admin.PATCH("/users/:id/role", SetUserRole(d.Accounts, log))

		admin.GET("/properties", AdminGetProperties(d.Listings, log))
		admin.POST("/properties", AdminCreateProperty(d.Listings, log))
		admin.PATCH("/properties/:id/approve", AdminApproveProperty(d.Listings, log))
		admin.DELETE("/properties/:id", AdminDeleteProperty(d.Listings, log))
		admin.PATCH("/properties/:id/featured", AdminToggleFeatured(d.Listings, log))
		admin.PATCH("/properties/:id/top-pick", AdminToggleTopPick(d.Listings, log))

		admin.GET("/audit-logs", AdminGetAuditLogs(d.Audit, log))
		admin.GET("/logs", AdminGetLogs(d.Audit, log))

		admin.GET("/contact", GetContactInbox(d.Contacts, log))
		admin.PATCH("/contact/:id/read", MarkContactRead(d.Contacts, log))
		admin.PATCH("/contact/:id/archive", ArchiveContact(d.Contacts, log))
		admin.DELETE("/contact/:id", DeleteContact(d.Contacts, log))
	}
}
