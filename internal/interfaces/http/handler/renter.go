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

// RenterHandler handles renter API endpoints
type RenterHandler struct {
	BaseHandler
	renterService *rentalapp.RenterService
}

// NewRenterHandler creates a new RenterHandler
func NewRenterHandler(renterService *rentalapp.RenterService) *RenterHandler {
	return &RenterHandler{renterService: renterService}
}

// CreateRenterRequest represents a request to register a renter
type CreateRenterRequest struct {
	Name      string     `json:"name" binding:"required,min=1,max=200"`
	Email     string     `json:"email" binding:"omitempty,email,max=200"`
	Phone     string     `json:"phone" binding:"omitempty,max=50"`
	Station   string     `json:"station" binding:"omitempty,max=100"`
	Cadence   string     `json:"cadence" binding:"required,oneof=weekly monthly"`
	RentCents int64      `json:"rent_cents" binding:"required,min=1"`
	DueDay    string     `json:"due_day" binding:"omitempty,max=20"`
	NextDueAt *time.Time `json:"next_due_at"`
	Notes     string     `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateRenterRequest represents a partial renter update
type UpdateRenterRequest struct {
	Name      *string    `json:"name" binding:"omitempty,min=1,max=200"`
	Email     *string    `json:"email" binding:"omitempty,email,max=200"`
	Phone     *string    `json:"phone" binding:"omitempty,max=50"`
	Station   *string    `json:"station" binding:"omitempty,max=100"`
	Cadence   *string    `json:"cadence" binding:"omitempty,oneof=weekly monthly"`
	RentCents *int64     `json:"rent_cents" binding:"omitempty,min=1"`
	DueDay    *string    `json:"due_day" binding:"omitempty,max=20"`
	NextDueAt *time.Time `json:"next_due_at"`
	Notes     *string    `json:"notes" binding:"omitempty,max=2000"`
	OnHold    *bool      `json:"on_hold"`
}

// ListRentersRequest represents renter listing parameters
type ListRentersRequest struct {
	dto.ListRequest
	Status         string `form:"status"`
	IncludeDeleted bool   `form:"include_deleted"`
}

// Create registers a new renter
func (h *RenterHandler) Create(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Shop not resolved")
		return
	}

	var req CreateRenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	input := rentalapp.CreateRenterInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Station:   req.Station,
		Cadence:   req.Cadence,
		RentCents: req.RentCents,
		DueDay:    req.DueDay,
		Notes:     req.Notes,
	}
	if req.NextDueAt != nil {
		input.NextDueAt = *req.NextDueAt
	}

	renter, err := h.renterService.CreateRenter(c.Request.Context(), tenantID, getActor(c), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, renter)
}

// GetByID returns one renter with its derived status
func (h *RenterHandler) GetByID(c *gin.Context) {
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

	renter, err := h.renterService.GetRenter(c.Request.Context(), tenantID, renterID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, renter)
}

// List returns the shop's renters with derived statuses
func (h *RenterHandler) List(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Shop not resolved")
		return
	}

	var req ListRentersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.Normalize()

	filter := rental.RenterFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			Search:   req.Search,
		},
		IncludeDeleted: req.IncludeDeleted,
	}
	if req.Status != "" {
		status := rental.Status(req.Status)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown status filter")
			return
		}
		filter.Status = &status
	}

	renters, total, err := h.renterService.ListRenters(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, renters, total, req.Page, req.PageSize)
}

// Update applies a partial profile update
func (h *RenterHandler) Update(c *gin.Context) {
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

	var req UpdateRenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	renter, err := h.renterService.UpdateRenter(c.Request.Context(), tenantID, renterID, getActor(c), rentalapp.UpdateRenterInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Station:   req.Station,
		Cadence:   req.Cadence,
		RentCents: req.RentCents,
		DueDay:    req.DueDay,
		NextDueAt: req.NextDueAt,
		Notes:     req.Notes,
		OnHold:    req.OnHold,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, renter)
}

// Delete removes a renter. The default is a soft delete that keeps the
// financial history; ?hard=true removes the renter and everything it owns.
func (h *RenterHandler) Delete(c *gin.Context) {
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

	hard := c.Query("hard") == "true" || c.Query("hard") == "1"
	if hard {
		err = h.renterService.HardDeleteRenter(c.Request.Context(), tenantID, renterID, getActor(c))
	} else {
		err = h.renterService.SoftDeleteRenter(c.Request.Context(), tenantID, renterID, getActor(c))
	}
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ListLedger returns a renter's ledger entries, newest first
func (h *RenterHandler) ListLedger(c *gin.Context) {
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

	var req struct {
		dto.ListRequest
		Type string     `form:"type" binding:"omitempty,oneof=charge fee payment credit"`
		From *time.Time `form:"from" time_format:"2006-01-02"`
		To   *time.Time `form:"to" time_format:"2006-01-02"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.Normalize()

	filter := rental.LedgerEntryFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		From:     req.From,
		To:       req.To,
	}
	if req.Type != "" {
		entryType := rental.EntryType(req.Type)
		filter.Type = &entryType
	}

	entries, total, err := h.renterService.ListLedger(c.Request.Context(), tenantID, renterID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, req.Page, req.PageSize)
}

// ListHistory returns the audit log for one renter
func (h *RenterHandler) ListHistory(c *gin.Context) {
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

	events, total, err := h.renterService.ListHistory(c.Request.Context(), tenantID, &renterID, shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, events, total, req.Page, req.PageSize)
}

// ListShopHistory returns the shop-wide audit log
func (h *RenterHandler) ListShopHistory(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Shop not resolved")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	req.Normalize()

	events, total, err := h.renterService.ListHistory(c.Request.Context(), tenantID, nil, shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, events, total, req.Page, req.PageSize)
}

// GetSummary returns the shop dashboard counters
func (h *RenterHandler) GetSummary(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Shop not resolved")
		return
	}

	summary, err := h.renterService.GetSummary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
