package handler

import (
	rentalapp "github.com/boothledger/backend/internal/application/rental"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReminderHandler handles the owner-driven reminder transitions
type ReminderHandler struct {
	BaseHandler
	reminderService *rentalapp.ReminderService
}

// NewReminderHandler creates a new ReminderHandler
func NewReminderHandler(reminderService *rentalapp.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// SendReminder marks the renter reminded and queues the reminder email
func (h *ReminderHandler) SendReminder(c *gin.Context) {
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

	result, err := h.reminderService.SendReminder(c.Request.Context(), tenantID, renterID, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// MarkPastDue flags the renter past due for display and filtering
func (h *ReminderHandler) MarkPastDue(c *gin.Context) {
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

	result, err := h.reminderService.MarkPastDue(c.Request.Context(), tenantID, renterID, getActor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ClearReminder resets the reminder marker back to the derived status
func (h *ReminderHandler) ClearReminder(c *gin.Context) {
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

	result, err := h.reminderService.ClearReminder(c.Request.Context(), tenantID, renterID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
