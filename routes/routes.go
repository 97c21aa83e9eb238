package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"slotsync/config"
	"slotsync/handlers"
	"slotsync/middleware"
)

// RegisterAuthRoutes registers registration and login endpoints.
func RegisterAuthRoutes(r *gin.Engine, cfg *config.Config, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)

		// Protected routes (Require Authentication)
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		api.GET("/me", hb.Auth.MeHandler)
	}
}

// RegisterAvailabilityRoutes registers the week editor endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, cfg *config.Config, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		api.GET("/week", hb.Availability.GetWeekHandler)
		api.PUT("/week", hb.Availability.SaveWeekHandler)
	}
}

// RegisterCalendarRoutes registers the graded week view endpoint.
func RegisterCalendarRoutes(r *gin.Engine, cfg *config.Config, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		api.GET("/heatmap", hb.Calendar.WeekViewHandler)
	}
}

// RegisterGroupRoutes registers group listing for members and group
// management for the admin.
func RegisterGroupRoutes(r *gin.Engine, cfg *config.Config, hb *handlers.HandlerBundle) {
	api := r.Group("/api/groups")
	{
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		api.GET("/mine", hb.Group.MyGroupsHandler)

		// Management endpoints require the configured admin identity.
		admin := api.Group("")
		admin.Use(middleware.AdminAuthMiddleware(cfg.AdminEmail))
		admin.POST("", hb.Group.CreateGroupHandler)
		admin.DELETE("/:id", hb.Group.DeleteGroupHandler)
		admin.PUT("/:id/missing-count", hb.Group.SetMissingCountHandler)
		admin.POST("/:id/members", hb.Group.AddMemberHandler)
		admin.DELETE("/:id/members/:userId", hb.Group.RemoveMemberHandler)
		admin.PUT("/:id/members/:userId/role", hb.Group.ToggleRoleHandler)
		admin.POST("/:id/sessions", hb.Group.AddSessionHandler)
		admin.DELETE("/sessions/:sessionId", hb.Group.DeleteSessionHandler)
	}
}

// RegisterSubscriptionRoutes registers push subscription endpoints.
func RegisterSubscriptionRoutes(r *gin.Engine, cfg *config.Config, hb *handlers.HandlerBundle) {
	api := r.Group("/api/subscriptions")
	{
		api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		api.POST("", hb.Subscription.SubscribeHandler)
		api.DELETE("", hb.Subscription.UnsubscribeHandler)
	}
}

// RegisterNotifyRoutes registers the admin group nudge and the
// secret-gated digest trigger. The digest endpoint authenticates with
// a shared secret instead of a JWT so an external scheduler can call it.
func RegisterNotifyRoutes(r *gin.Engine, cfg *config.Config, hb *handlers.HandlerBundle) {
	r.POST("/api/notify/group",
		middleware.JWTAuthMiddleware(cfg.JWTSecret),
		middleware.AdminAuthMiddleware(cfg.AdminEmail),
		hb.Notify.NotifyGroupHandler)
	r.GET("/api/cron/digest", hb.Notify.DigestHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm SlotSync"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, cfg, hb)
	RegisterAvailabilityRoutes(r, cfg, hb)
	RegisterCalendarRoutes(r, cfg, hb)
	RegisterGroupRoutes(r, cfg, hb)
	RegisterSubscriptionRoutes(r, cfg, hb)
	RegisterNotifyRoutes(r, cfg, hb)
	RegisterHealthRoute(r)
}
