package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	checkoutapp "github.com/backoffice/backend/internal/application/checkout"
)

// CheckoutHandler handles order and sales-ledger API endpoints
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
	logger          *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.Service, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// RegisterRoutes registers order, sales and webhook routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/confirm", h.ConfirmPayment)
		orders.POST("/:id/cancel", h.CancelOrder)
	}

	sales := rg.Group("/sales")
	{
		sales.GET("", h.ListSales)
		sales.DELETE("/:id", h.RemoveSale)
	}

	// The gateway calls this without a session; the payment's external
	// reference carries the order back.
	rg.POST("/webhooks/payments", h.PaymentWebhook)
}

// PlaceOrder reserves stock and opens an order
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req checkoutapp.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.checkoutService.PlaceOrder(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetOrder returns one order
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.checkoutService.GetOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ConfirmPayment marks an order paid and writes its ledger rows. Used for
// manual payment methods (cash, transfer) where no gateway webhook arrives.
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	resp, err := h.checkoutService.ConfirmPayment(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// CancelOrderRequest carries the cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// CancelOrder cancels a pending order, restoring stock and applied credit
func (h *CheckoutHandler) CancelOrder(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.checkoutService.CancelOrder(c.Request.Context(), tenantID, orderID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListSales returns the sales ledger with optional filters
func (h *CheckoutHandler) ListSales(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter checkoutapp.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	sales, total, err := h.checkoutService.ListSales(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// RemoveSale deletes a ledger line and restores its unit of stock
func (h *CheckoutHandler) RemoveSale(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	if err := h.checkoutService.RemoveSale(c.Request.Context(), tenantID, saleID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// PaymentNotification is the body the payment gateway posts on payment events
type PaymentNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// PaymentWebhook handles gateway payment notifications. It always answers 200
// so the gateway stops retrying; failures are logged and reconciled by replay.
func (h *CheckoutHandler) PaymentWebhook(c *gin.Context) {
	var notification PaymentNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if notification.Type != "payment" || notification.Data.ID == "" {
		// Other event types are acknowledged and ignored
		h.Success(c, gin.H{"acknowledged": true})
		return
	}

	if err := h.checkoutService.HandlePaymentNotification(c.Request.Context(), notification.Data.ID); err != nil {
		h.logger.Error("Payment notification processing failed",
			zap.String("payment_id", notification.Data.ID),
			zap.Error(err))
	}

	h.Success(c, gin.H{"acknowledged": true})
}
