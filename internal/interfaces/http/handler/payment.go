package handler

import (
	"time"

	rentalapp "github.com/boothledger/backend/internal/application/rental"
	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader carries the client's double-submit guard for payments
const IdempotencyKeyHeader = "Idempotency-Key"

// PaymentHandler handles payment, adjustment and receipt API endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *rentalapp.PaymentService
	receiptService *rentalapp.ReceiptService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *rentalapp.PaymentService, receiptService *rentalapp.ReceiptService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		receiptService: receiptService,
	}
}

// RecordPaymentRequest represents a payment submission
type RecordPaymentRequest struct {
	AmountCents int64      `json:"amount_cents" binding:"required,min=1"`
	Method      string     `json:"method" binding:"omitempty,max=50"`
	Note        string     `json:"note" binding:"omitempty,max=500"`
	EffectiveAt *time.Time `json:"effective_at"`
}

// AdjustmentRequest represents a charge, fee or credit submission
type AdjustmentRequest struct {
	Type        string     `json:"type" binding:"required,oneof=charge fee credit"`
	AmountCents int64      `json:"amount_cents" binding:"required,min=1"`
	Note        string     `json:"note" binding:"omitempty,max=500"`
	Method      string     `json:"method" binding:"omitempty,max=50"`
	EffectiveAt *time.Time `json:"effective_at"`
}

// BatchChargeRequest bills a group of renters in one call
type BatchChargeRequest struct {
	RenterIDs   []uuid.UUID `json:"renter_ids" binding:"required,min=1"`
	AmountCents *int64      `json:"amount_cents" binding:"omitempty,min=1"`
	Note        string      `json:"note" binding:"omitempty,max=500"`
}

// RecordPayment records a payment against a renter's balance
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Shop not resolved")
		return
	}

	renterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid renter ID format")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), tenantID, renterID, getActor(c), rentalapp.RecordPaymentInput{
		AmountCents:    req.AmountCents,
		Method:         req.Method,
		Note:           req.Note,
		EffectiveAt:    req.EffectiveAt,
		IdempotencyKey: c.GetHeader(IdempotencyKeyHeader),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// AdjustBalance records a charge, fee or credit
func (h *PaymentHandler) AdjustBalance(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Shop not resolved")
		return
	}

	renterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid renter ID format")
		return
	}

	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.paymentService.AdjustBalance(c.Request.Context(), tenantID, renterID, getActor(c), rentalapp.AdjustmentInput{
		Type:        rental.EntryType(req.Type),
		AmountCents: req.AmountCents,
		Note:        req.Note,
		Method:      req.Method,
		EffectiveAt: req.EffectiveAt,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// CreateBatchCharge bills each selected renter independently
func (h *PaymentHandler) CreateBatchCharge(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Shop not resolved")
		return
	}

	var req BatchChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.paymentService.CreateBatchCharge(c.Request.Context(), tenantID, getActor(c), rentalapp.BatchChargeInput{
		RenterIDs:   req.RenterIDs,
		AmountCents: req.AmountCents,
		Note:        req.Note,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListReceipts returns a renter's receipts, newest first
func (h *PaymentHandler) ListReceipts(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Shop not resolved")
		return
	}

	renterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid renter ID format")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.Normalize()

	receipts, total, err := h.receiptService.ListReceipts(c.Request.Context(), tenantID, renterID, shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, receipts, total, req.Page, req.PageSize)
}

// GetReceipt returns one receipt by ID
func (h *PaymentHandler) GetReceipt(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Shop not resolved")
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := h.receiptService.GetReceipt(c.Request.Context(), tenantID, receiptID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}

// EmailReceipt re-issues a receipt for the renter's latest payment and queues
// the receipt email
func (h *PaymentHandler) EmailReceipt(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Shop not resolved")
		return
	}

	renterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid renter ID format")
		return
	}

	receipt, err := h.paymentService.EmailReceipt(c.Request.Context(), tenantID, renterID, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, receipt)
}
