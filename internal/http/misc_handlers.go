package http

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/domainmart/api/internal/log"
	"github.com/domainmart/api/internal/queue"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type subscribeReq struct {
	Email string `json:"email"`
}

// Subscribe captures a newsletter address. Nothing is persisted: the address
// is logged and published for a downstream mailer to pick up.
func (h *Handler) Subscribe(c *gin.Context) {
	var in subscribeReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !emailRe.MatchString(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}
	log.L().Info("newsletter signup", zap.String("email", email))
	h.publish(c, queue.KeyNewsletterSignup, queue.NewsletterSubscribed{Email: email})
	c.JSON(http.StatusOK, gin.H{"status": "subscribed"})
}

// AdminStats returns per-collection counts for the dashboard.
func (h *Handler) AdminStats(c *gin.Context) {
	ctx := c.Request.Context()
	users, err := h.Store.CountUsers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	listings, err := h.Store.CountListings(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	orders, err := h.Store.CountOrders(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	blogs, err := h.Store.CountBlogs(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	sessions, err := h.Store.CountChatSessions(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users": users, "domains": listings, "orders": orders,
		"blogs": blogs, "chat_sessions": sessions,
	})
}
