package routes

import (
	"net/http"

	"pulse/config"
	adminapi "pulse/internal/api/admin"
	analyticsapi "pulse/internal/api/analytics"
	authapi "pulse/internal/api/auth"
	blocksapi "pulse/internal/api/blocks"
	pagesapi "pulse/internal/api/pages"
	publicapi "pulse/internal/api/public"
	stripewebhooks "pulse/internal/api/stripewebhook"
	"pulse/internal/api/users"
	"pulse/internal/app/http/middleware"
	"pulse/internal/domain/analytics"
	"pulse/internal/infra/cache"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Deps are the shared services handlers need beyond the database.
type Deps struct {
	Sink      analytics.Sink
	Redis     *redis.Client
	PageCache *cache.PageCache
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	analyticsHandler := analyticsapi.NewHandler(deps.Sink)
	publicHandler := publicapi.NewHandler(deps.Sink, deps.PageCache)

	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Visitors
	r.GET("/p/:username", publicHandler.RenderPage)
	r.GET("/public/pages/:username", publicHandler.GetPage)
	r.POST("/analytics/click", middleware.RateLimit(config.RateLimit, deps.Redis), analyticsHandler.Click)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())
	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)

	if authapi.GoogleEnabled() {
		r.GET("/auth/google", authapi.GoogleStart)
		r.GET("/auth/google/callback", authapi.GoogleCallback)
	}

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.PATCH("/user", users.UpdateUser)
	auth.DELETE("/user", users.DeleteUser)

	auth.GET("/analytics", analyticsHandler.Summary)

	auth.GET("/pages", pagesapi.GetOwnPage)
	auth.POST("/pages", pagesapi.CreatePage)
	auth.GET("/pages/:id", pagesapi.GetPage)
	auth.DELETE("/pages/:id", pagesapi.DeletePage)
	auth.GET("/pages/:id/render", pagesapi.RenderPage)

	// Theme changes depend on the plan
	planned := auth.Group("/")
	planned.Use(middleware.LoadPolicy())
	planned.PATCH("/pages/:id", pagesapi.UpdatePage)
	planned.POST("/pages/:id/preview", pagesapi.PreviewPage)

	auth.GET("/pages/:id/blocks", blocksapi.ListBlocks)
	auth.POST("/pages/:id/blocks", blocksapi.CreateBlock)
	auth.PATCH("/pages/:id/blocks", blocksapi.ReorderBlocks)
	auth.GET("/pages/:id/blocks/:blockId", blocksapi.GetBlock)
	auth.PATCH("/pages/:id/blocks/:blockId", blocksapi.UpdateBlock)
	auth.DELETE("/pages/:id/blocks/:blockId", blocksapi.DeleteBlock)
	auth.POST("/pages/:id/blocks/:blockId/toggle", blocksapi.ToggleBlock)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/stats", adminapi.GetAdminStats)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/user/:id", adminapi.GetUserDetails)
}
