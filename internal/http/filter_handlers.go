package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/domainmart/api/internal/domain"
	"github.com/domainmart/api/internal/repo"
)

type savedFilterReq struct {
	Name  string             `json:"name"`
	Query domain.FilterQuery `json:"query"`
}

func (h *Handler) CreateFilter(c *gin.Context) {
	var in savedFilterReq
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	au := currentUser(c)
	uid, err := primitive.ObjectIDFromHex(au.UID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	f := &domain.SavedFilter{
		UserID: uid,
		Name:   strings.TrimSpace(in.Name),
		Query:  in.Query,
	}
	if err := h.Store.CreateFilter(c.Request.Context(), f); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *Handler) ListFilters(c *gin.Context) {
	au := currentUser(c)
	uid, err := primitive.ObjectIDFromHex(au.UID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	items, err := h.Store.ListFiltersByUser(c.Request.Context(), uid, repo.ListParams{
		Limit: intQuery(c, "limit", 50), Skip: intQuery(c, "skip", 0),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"filters": items})
}

// DeleteFilter removes the record only when the caller owns it. A foreign or
// missing id answers 404 either way, so filter ids cannot be enumerated.
func (h *Handler) DeleteFilter(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "filter not found"})
		return
	}
	au := currentUser(c)
	uid, err := primitive.ObjectIDFromHex(au.UID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	ok, err := h.Store.DeleteFilterByOwner(c.Request.Context(), id, uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "filter not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
