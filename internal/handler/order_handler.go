package handler

import (
	"errors"
	"net/http"
	"strconv"

	"vendora/internal/domain"
	"vendora/internal/middleware"
	"vendora/internal/repository"
	"vendora/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders   *repository.OrderRepository
	orderSvc *service.OrderService
}

func NewOrderHandler(orders *repository.OrderRepository, orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders, orderSvc: orderSvc}
}

func (h *OrderHandler) List(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	orders, err := h.orders.ListByStore(storeID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "listing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) Get(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	order, err := h.orders.GetByID(c.Param("id"))
	if err != nil || order.StoreID != storeID {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// Transition moves an order through its lifecycle from the dashboard
// (confirm by hand, ship, deliver, cancel). Same ledger operation the
// webhooks use, so the same forward-only rules apply.
func (h *OrderHandler) Transition(c *gin.Context) {
	storeID := middleware.GetStoreID(c)
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	order, err := h.orders.GetByID(c.Param("id"))
	if err != nil || order.StoreID != storeID {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if _, err := h.orderSvc.TransitionStatus(order.ID, req.Status); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": "invalid status transition"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transition failed"})
		return
	}
	fresh, err := h.orders.GetByID(order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload failed"})
		return
	}
	c.JSON(http.StatusOK, fresh)
}
