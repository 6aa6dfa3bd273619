package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/domainmart/api/internal/oauth"
	"github.com/domainmart/api/internal/queue"
	"github.com/domainmart/api/internal/repo"
)

type Handler struct {
	Store           repo.Store
	JWTSecret       string
	TokenTTL        time.Duration
	Redis           *repo.Redis
	RateLimitPerMin int
	Events          queue.Publisher
	Exchange        string
	Google          *oauth.GoogleOAuth
}

func NewHandler(store repo.Store, jwtSecret string, tokenTTLDays int, rds *repo.Redis, rlPerMin int, pub queue.Publisher, exchange string, google *oauth.GoogleOAuth) *Handler {
	return &Handler{
		Store:           store,
		JWTSecret:       jwtSecret,
		TokenTTL:        time.Duration(tokenTTLDays) * 24 * time.Hour,
		Redis:           rds,
		RateLimitPerMin: rlPerMin,
		Events:          pub,
		Exchange:        exchange,
		Google:          google,
	}
}

func (h *Handler) publish(c *gin.Context, key string, event any) {
	if h.Events == nil {
		return
	}
	_ = h.Events.Publish(c.Request.Context(), h.Exchange, key, event, c.GetString(requestIDKey))
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.Store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
