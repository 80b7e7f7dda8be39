package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	exchangeapp "github.com/backoffice/backend/internal/application/exchange"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader carries the client-chosen key that makes exchange
// creation safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

// ExchangeHandler handles exchange API endpoints
type ExchangeHandler struct {
	BaseHandler
	exchangeService  *exchangeapp.Service
	idempotencyStore shared.IdempotencyStore
	logger           *zap.Logger
}

// NewExchangeHandler creates a new ExchangeHandler. idempotencyStore may be
// nil, in which case retried requests execute again.
func NewExchangeHandler(exchangeService *exchangeapp.Service, idempotencyStore shared.IdempotencyStore, logger *zap.Logger) *ExchangeHandler {
	return &ExchangeHandler{
		exchangeService:  exchangeService,
		idempotencyStore: idempotencyStore,
		logger:           logger,
	}
}

// RegisterRoutes registers all exchange routes
func (h *ExchangeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	exchanges := rg.Group("/exchanges")
	{
		exchanges.POST("", h.Create)
		exchanges.POST("/massive", h.CreateMassive)
		exchanges.GET("", h.List)
		exchanges.GET("/:id", h.GetByID)
		exchanges.DELETE("/:id", h.Remove)
	}
}

// claimIdempotencyKey reserves the request's Idempotency-Key. It returns false
// when the key was already used, meaning the exchange was (or is being)
// created by an earlier attempt and this request must not execute again.
func (h *ExchangeHandler) claimIdempotencyKey(c *gin.Context, tenantID uuid.UUID) bool {
	if h.idempotencyStore == nil {
		return true
	}
	key := c.GetHeader(IdempotencyKeyHeader)
	if key == "" {
		return true
	}

	scopedKey := "exchange:" + tenantID.String() + ":" + key
	first, err := h.idempotencyStore.MarkProcessed(c.Request.Context(), scopedKey, 24*time.Hour)
	if err != nil {
		// Fail open: a broken store must not block exchanges
		h.logger.Error("Failed to check idempotency key", zap.Error(err))
		return true
	}
	if !first {
		h.Error(c, http.StatusConflict, dto.ErrCodeAlreadyExists,
			"Esta solicitud ya fue procesada (Idempotency-Key repetida)")
		return false
	}
	return true
}

// Create handles single-item exchange creation
func (h *ExchangeHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req exchangeapp.CreateExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if !h.claimIdempotencyKey(c, tenantID) {
		return
	}

	resp, err := h.exchangeService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// CreateMassive handles batch exchange creation
func (h *ExchangeHandler) CreateMassive(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req exchangeapp.CreateMassiveExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if !h.claimIdempotencyKey(c, tenantID) {
		return
	}

	resp, err := h.exchangeService.CreateMassive(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns exchanges for the tenant with optional filters
func (h *ExchangeHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter exchangeapp.ExchangeListFilter
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

	exchanges, total, err := h.exchangeService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, exchanges, total, filter.Page, filter.PageSize)
}

// GetByID returns one exchange
func (h *ExchangeHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	exchangeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid exchange ID format")
		return
	}

	resp, err := h.exchangeService.GetByID(c.Request.Context(), tenantID, exchangeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Remove cancels an exchange and reverses its stock moves
func (h *ExchangeHandler) Remove(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	exchangeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid exchange ID format")
		return
	}

	var req exchangeapp.RemoveExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.exchangeService.Remove(c.Request.Context(), tenantID, exchangeID, req.Reason); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
