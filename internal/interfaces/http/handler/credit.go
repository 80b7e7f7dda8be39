package handler

import (
	"github.com/gin-gonic/gin"

	creditapp "github.com/backoffice/backend/internal/application/credit"
	"github.com/backoffice/backend/internal/domain/shared"
)

// CreditHandler handles store-credit API endpoints
type CreditHandler struct {
	BaseHandler
	creditService *creditapp.Service
}

// NewCreditHandler creates a new CreditHandler
func NewCreditHandler(creditService *creditapp.Service) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

// RegisterRoutes registers all credit routes
func (h *CreditHandler) RegisterRoutes(rg *gin.RouterGroup) {
	credits := rg.Group("/credits")
	{
		credits.POST("", h.Grant)
		credits.POST("/use", h.Use)
		credits.GET("", h.ListByClient)
		credits.GET("/balance", h.Balance)
	}
}

// Grant creates a store credit manually
func (h *CreditHandler) Grant(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req creditapp.GrantCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.creditService.Grant(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Use consumes a client's active credits oldest-first against a sale
func (h *CreditHandler) Use(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req creditapp.UseCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.creditService.UseCredits(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListByClient returns a client's credits, matched by document or phone
func (h *CreditHandler) ListByClient(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	documentNumber := c.Query("document_number")
	phone := c.Query("phone")
	if documentNumber == "" && phone == "" {
		h.BadRequest(c, "document_number or phone is required")
		return
	}

	credits, err := h.creditService.ListByClient(c.Request.Context(), tenantID, documentNumber, phone, shared.DefaultFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, credits)
}

// Balance returns a client's active credit balance
func (h *CreditHandler) Balance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	documentNumber := c.Query("document_number")
	phone := c.Query("phone")
	if documentNumber == "" && phone == "" {
		h.BadRequest(c, "document_number or phone is required")
		return
	}

	resp, err := h.creditService.Balance(c.Request.Context(), tenantID, documentNumber, phone)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
