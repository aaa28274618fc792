package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Guizzs26/go-order-guard/internal/db"
	"github.com/Guizzs26/go-order-guard/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// OrdersHandler exposes the order API. It owns the mapping from validation
// outcomes to status codes: Invalid is the caller's fault (422),
// Unavailable is ours (503)
type OrdersHandler struct {
	orders *service.OrderService
	logger *slog.Logger
}

func NewOrdersHandler(orders *service.OrderService, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{orders: orders, logger: logger}
}

func (h *OrdersHandler) Register(r *gin.Engine) {
	r.POST("/orders", h.create)
	r.GET("/orders/:id", h.get)
	r.POST("/orders/:id/cancel", h.cancel)
}

type createOrderRequest struct {
	UserID string          `json:"user_id" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required,decimalgt0"`
}

func (h *OrdersHandler) create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req.UserID, req.Amount)
	switch {
	case errors.Is(err, service.ErrUserInvalid):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "user does not exist"})
	case errors.Is(err, service.ErrValidationUnavailable):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "user validation temporarily unavailable, try again later"})
	case err != nil:
		h.logger.Error("Order creation failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	default:
		c.JSON(http.StatusCreated, order)
	}
}

func (h *OrdersHandler) get(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "order not found"})
	case err != nil:
		h.logger.Error("Order lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	default:
		c.JSON(http.StatusOK, order)
	}
}

func (h *OrdersHandler) cancel(c *gin.Context) {
	order, err := h.orders.CancelOrder(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "order not found"})
	case errors.Is(err, db.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, errorResponse{Error: "order already cancelled"})
	case err != nil:
		h.logger.Error("Order cancellation failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	default:
		c.JSON(http.StatusOK, order)
	}
}
