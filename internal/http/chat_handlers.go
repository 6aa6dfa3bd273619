package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/domainmart/api/internal/domain"
	"github.com/domainmart/api/internal/queue"
	"github.com/domainmart/api/internal/repo"
)

// CreateChatSession opens a support conversation in "waiting" status.
func (h *Handler) CreateChatSession(c *gin.Context) {
	au := currentUser(c)
	uid, err := primitive.ObjectIDFromHex(au.UID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	cs := &domain.ChatSession{UserID: uid, Status: domain.ChatWaiting}
	if err := h.Store.CreateChatSession(c.Request.Context(), cs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusCreated, cs)
}

func (h *Handler) ListChatSessions(c *gin.Context) {
	items, err := h.Store.ListChatSessions(c.Request.Context(), repo.ListParams{
		Limit: intQuery(c, "limit", 50), Skip: intQuery(c, "skip", 0),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": items})
}

type chatStatusReq struct {
	Status string `json:"status"`
}

// UpdateChatSession godoc
// @Summary Transition a chat session status
// @Tags chat
// @Security BearerAuth
// @Accept json
// @Success 200 {object} domain.ChatSession
// @Failure 400 {object} map[string]string
// @Router /api/chat/sessions/{id} [patch]
func (h *Handler) UpdateChatSession(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	var in chatStatusReq
	// invalid status is rejected before any write, the record stays unchanged
	if err := c.ShouldBindJSON(&in); err != nil || !domain.ValidChatStatus(in.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active|closed|waiting"})
		return
	}
	cs, err := h.Store.UpdateChatStatus(c.Request.Context(), id, in.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if cs == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, cs)
}

// sessionForCaller loads the session and enforces owner-or-admin access,
// answering 404 either way so session IDs stay unprobeable.
func (h *Handler) sessionForCaller(c *gin.Context) (*domain.ChatSession, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	cs, err := h.Store.FindChatSessionByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return nil, false
	}
	au := currentUser(c)
	if cs == nil || (au.Role != domain.RoleAdmin && cs.UserID.Hex() != au.UID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return cs, true
}

type chatMessageReq struct {
	Body string `json:"body"`
}

// PostChatMessage appends a message and publishes the event the auto-responder
// consumes. The reply arrives asynchronously through the queue.
func (h *Handler) PostChatMessage(c *gin.Context) {
	cs, ok := h.sessionForCaller(c)
	if !ok {
		return
	}
	if cs.Status == domain.ChatClosed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session is closed"})
		return
	}
	var in chatMessageReq
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Body) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message body required"})
		return
	}
	au := currentUser(c)
	sender := domain.SenderUser
	if au.Role == domain.RoleAdmin {
		sender = domain.SenderSupport
	}
	m := &domain.ChatMessage{
		SessionID: cs.ID,
		Sender:    sender,
		Body:      strings.TrimSpace(in.Body),
	}
	if err := h.Store.AddChatMessage(c.Request.Context(), m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	h.publish(c, queue.KeyChatMessage, queue.ChatMessageCreated{
		SessionID: cs.ID.Hex(), MessageID: m.ID.Hex(), Sender: sender,
	})
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) ListChatMessages(c *gin.Context) {
	cs, ok := h.sessionForCaller(c)
	if !ok {
		return
	}
	items, err := h.Store.ListChatMessages(c.Request.Context(), cs.ID, repo.ListParams{
		Limit: intQuery(c, "limit", 100), Skip: intQuery(c, "skip", 0),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": cs, "messages": items})
}
