package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/domainmart/api/internal/domain"
)

func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())
	// page-path gate: cheap unverified decode, redirect-only decisions
	r.Use(EdgeGate())

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	anyUser := RequireAuth(h.JWTSecret)
	adminOnly := RequireRole(h.JWTSecret, domain.RoleAdmin)

	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", RateLimit(h.Redis, h.RateLimitPerMin, "signup"), h.Signup)
		auth.POST("/signin", RateLimit(h.Redis, h.RateLimitPerMin, "signin"), h.Signin)
		auth.POST("/signout", h.Signout)
		auth.GET("/me", anyUser, h.Me)
		auth.GET("/google/login", h.GoogleLogin)
		auth.GET("/google/callback", h.GoogleCallback)
	}

	api := r.Group("/api")
	{
		api.GET("/domains", h.ListListings)
		api.GET("/domains/frequency", h.ListingFrequency)
		api.GET("/domains/:id", h.GetListing)
		api.POST("/domains", adminOnly, h.CreateListing)
		api.PUT("/domains/:id", adminOnly, h.UpdateListing)
		api.DELETE("/domains/:id", adminOnly, h.DeleteListing)

		api.POST("/orders", anyUser, h.CreateOrder)
		api.GET("/orders", anyUser, h.ListMyOrders)
		api.GET("/orders/:id", anyUser, h.GetOrder)
		api.PUT("/orders/:id", adminOnly, h.UpdateOrderStatus)
		api.DELETE("/orders/:id", adminOnly, h.DeleteOrder)

		api.GET("/blogs", h.ListBlogs)
		api.GET("/blogs/:slug", h.GetBlog)
		api.POST("/blogs", adminOnly, h.CreateBlog)
		api.PUT("/blogs/:slug", adminOnly, h.UpdateBlog)
		api.DELETE("/blogs/:slug", adminOnly, h.DeleteBlog)

		api.POST("/chat/sessions", anyUser, h.CreateChatSession)
		api.GET("/chat/sessions", adminOnly, h.ListChatSessions)
		api.PATCH("/chat/sessions/:id", adminOnly, h.UpdateChatSession)
		api.POST("/chat/sessions/:id/messages", anyUser, h.PostChatMessage)
		api.GET("/chat/sessions/:id/messages", anyUser, h.ListChatMessages)

		api.POST("/filters", anyUser, h.CreateFilter)
		api.GET("/filters", anyUser, h.ListFilters)
		api.DELETE("/filters/:id", anyUser, h.DeleteFilter)

		api.POST("/subscribe", h.Subscribe)
		api.POST("/push/subscribe", adminOnly, h.PushSubscribe)

		admin := api.Group("/admin", adminOnly)
		{
			admin.GET("/stats", h.AdminStats)
			admin.GET("/orders", h.ListAllOrders)
		}
	}

	return r
}
