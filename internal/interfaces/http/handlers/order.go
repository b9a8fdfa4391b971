// internal/interfaces/http/handlers/order.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/grocery-backend/internal/domain/order"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	orderService *order.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// UpdateStatusRequest represents an explicit status update
type UpdateStatusRequest struct {
	Status order.Status `json:"status" binding:"required"`
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    h.orderService.List(),
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := h.orderService.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// UpdateOrderStatus handles PUT /orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown order status",
		})
		return
	}

	if !h.orderService.UpdateStatus(c.Param("id"), req.Status) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Order not found",
		})
		return
	}

	o, _ := h.orderService.Get(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    o,
	})
}

// CancelOrder handles PUT /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	if !h.orderService.Cancel(c.Param("id")) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Order cannot be cancelled",
		})
		return
	}

	o, _ := h.orderService.Get(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    o,
	})
}

// ConfirmDelivery handles POST /orders/:id/confirm-delivery
func (h *OrderHandler) ConfirmDelivery(c *gin.Context) {
	if !h.orderService.ConfirmDeliveryByCustomer(c.Param("id")) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Order is not awaiting customer confirmation",
		})
		return
	}

	o, _ := h.orderService.Get(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"message": "Delivery confirmed successfully",
		"data":    o,
	})
}
