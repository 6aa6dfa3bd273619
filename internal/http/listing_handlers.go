package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/domainmart/api/internal/domain"
	"github.com/domainmart/api/internal/repo"
)

func intQuery(c *gin.Context, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}

// ListListings godoc
// @Summary Browse domains for sale
// @Tags listings
// @Produce json
// @Param tld query string false "tld filter"
// @Param q query string false "name keyword"
// @Param max_price query number false "price ceiling"
// @Success 200 {object} map[string]any
// @Router /api/domains [get]
func (h *Handler) ListListings(c *gin.Context) {
	maxPrice, _ := strconv.ParseFloat(c.Query("max_price"), 64)
	items, err := h.Store.ListListings(c.Request.Context(), repo.ListingFilter{
		TLD:      c.Query("tld"),
		Keyword:  c.Query("q"),
		MaxPrice: maxPrice,
		Limit:    intQuery(c, "limit", 50),
		Skip:     intQuery(c, "skip", 0),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"domains": items})
}

// ListingFrequency returns listings ranked by their pre-aggregated search
// counter, most searched first.
func (h *Handler) ListingFrequency(c *gin.Context) {
	items, err := h.Store.TopListingsBySearch(c.Request.Context(), intQuery(c, "limit", 20))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"domains": items})
}

func (h *Handler) GetListing(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "domain not found"})
		return
	}
	l, err := h.Store.FindListingByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "domain not found"})
		return
	}
	_ = h.Store.IncListingSearch(c.Request.Context(), id)
	c.JSON(http.StatusOK, l)
}

type listingReq struct {
	Name        string  `json:"name"`
	TLD         string  `json:"tld"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	Featured    bool    `json:"featured"`
	Description string  `json:"description"`
}

func (in *listingReq) validate() string {
	name := strings.ToLower(strings.TrimSpace(in.Name))
	if name == "" || !strings.Contains(name, ".") {
		return "domain name required"
	}
	if in.Price <= 0 {
		return "price must be positive"
	}
	if in.Status != "" && !domain.ValidListingStatus(in.Status) {
		return "status must be available|reserved|sold"
	}
	return ""
}

// CreateListing godoc
// @Summary Add a domain to inventory
// @Tags listings
// @Security BearerAuth
// @Accept json
// @Success 201 {object} domain.Listing
// @Failure 409 {object} map[string]string
// @Router /api/domains [post]
func (h *Handler) CreateListing(c *gin.Context) {
	var in listingReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if msg := in.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	status := in.Status
	if status == "" {
		status = domain.ListingAvailable
	}
	name := strings.ToLower(strings.TrimSpace(in.Name))
	l := &domain.Listing{
		Name:        name,
		TLD:         tldOf(name, in.TLD),
		Price:       in.Price,
		Category:    in.Category,
		Status:      status,
		Featured:    in.Featured,
		Description: in.Description,
	}
	if err := h.Store.CreateListing(c.Request.Context(), l); err != nil {
		if repo.IsDup(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "domain already listed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusCreated, l)
}

func tldOf(name, explicit string) string {
	if explicit != "" {
		return strings.ToLower(strings.TrimPrefix(explicit, "."))
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return ""
}

func (h *Handler) UpdateListing(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "domain not found"})
		return
	}
	var in listingReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if msg := in.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	l, err := h.Store.FindListingByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "domain not found"})
		return
	}

	name := strings.ToLower(strings.TrimSpace(in.Name))
	l.Name = name
	l.TLD = tldOf(name, in.TLD)
	l.Price = in.Price
	l.Category = in.Category
	if in.Status != "" {
		l.Status = in.Status
	}
	l.Featured = in.Featured
	l.Description = in.Description

	ok, err := h.Store.ReplaceListing(c.Request.Context(), l)
	if err != nil {
		if repo.IsDup(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "domain already listed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "domain not found"})
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) DeleteListing(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "domain not found"})
		return
	}
	ok, err := h.Store.DeleteListing(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "domain not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
