package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/domainmart/api/internal/domain"
	"github.com/domainmart/api/internal/log"
	"github.com/domainmart/api/internal/queue"
	"github.com/domainmart/api/internal/repo"
)

type createOrderReq struct {
	ListingID string `json:"listing_id"`
}

// CreateOrder godoc
// @Summary Purchase a domain
// @Tags orders
// @Security BearerAuth
// @Accept json
// @Success 201 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /api/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var in createOrderReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	lid, err := primitive.ObjectIDFromHex(in.ListingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return
	}
	au := currentUser(c)
	uid, err := primitive.ObjectIDFromHex(au.UID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	l, err := h.Store.FindListingByID(c.Request.Context(), lid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "domain not found"})
		return
	}
	if l.Status != domain.ListingAvailable {
		c.JSON(http.StatusConflict, gin.H{"error": "domain not available"})
		return
	}

	// payment is mocked: the order is marked paid immediately with a
	// generated reference; listing availability is not decremented
	// atomically with order creation
	o := &domain.Order{
		UserID:     uid,
		ListingID:  l.ID,
		DomainName: l.Name,
		Amount:     l.Price,
		Status:     domain.OrderPaid,
		PaymentRef: "mock-" + uuid.NewString(),
	}
	if err := h.Store.CreateOrder(c.Request.Context(), o); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	h.publish(c, queue.KeyOrderCreated, queue.OrderCreated{
		OrderID: o.ID.Hex(), UserID: au.UID, DomainName: o.DomainName, Amount: o.Amount,
	})
	log.WithDD(c.Request.Context(), log.L(),
		zap.String("order_id", o.ID.Hex()),
		zap.String("domain", o.DomainName),
	).Info("order created")
	c.JSON(http.StatusCreated, o)
}

// ListMyOrders returns the caller's orders only.
func (h *Handler) ListMyOrders(c *gin.Context) {
	au := currentUser(c)
	uid, err := primitive.ObjectIDFromHex(au.UID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	items, err := h.Store.ListOrdersByUser(c.Request.Context(), uid, repo.ListParams{
		Limit: intQuery(c, "limit", 50), Skip: intQuery(c, "skip", 0),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": items})
}

// ListAllOrders is the admin listing across every customer.
func (h *Handler) ListAllOrders(c *gin.Context) {
	items, err := h.Store.ListOrders(c.Request.Context(), repo.ListParams{
		Limit: intQuery(c, "limit", 50), Skip: intQuery(c, "skip", 0),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": items})
}

// GetOrder serves the owner or an admin; everyone else sees 404 rather than
// 403 so order IDs are not probeable.
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	o, err := h.Store.FindOrderByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	au := currentUser(c)
	if o == nil || (au.Role != domain.RoleAdmin && o.UserID.Hex() != au.UID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, o)
}

type orderStatusReq struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	var in orderStatusReq
	if err := c.ShouldBindJSON(&in); err != nil || !domain.ValidOrderStatus(in.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be pending|paid|completed|cancelled"})
		return
	}
	o, err := h.Store.UpdateOrderStatus(c.Request.Context(), id, in.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if o == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	ok, err := h.Store.DeleteOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
