package handler

import (
	"github.com/boothledger/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// TenantHandler handles shop account API endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *identity.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *identity.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// CreateShopRequest represents a request to create a shop account
type CreateShopRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// UpdateSettingsRequest represents a partial shop settings update
type UpdateSettingsRequest struct {
	Name              *string `json:"name" binding:"omitempty,min=1,max=200"`
	ContactEmail      *string `json:"contact_email" binding:"omitempty,email,max=200"`
	ContactPhone      *string `json:"contact_phone" binding:"omitempty,max=50"`
	ReceiptPrefix     *string `json:"receipt_prefix" binding:"omitempty,min=1,max=10"`
	ReceiptFooterNote *string `json:"receipt_footer_note" binding:"omitempty,max=500"`
	ThemeColor        *string `json:"theme_color" binding:"omitempty,max=20"`
	WeekStart         *string `json:"week_start" binding:"omitempty,oneof=sunday monday"`
}

// CreateShop creates a shop account for the authenticated owner
func (h *TenantHandler) CreateShop(c *gin.Context) {
	var req CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	actor := getActor(c)
	if actor.UID == "" {
		h.Unauthorized(c, "Authentication required")
		return
	}

	shop, err := h.tenantService.CreateShop(c.Request.Context(), actor, req.Name)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, shop)
}

// GetMyShop returns the shop owned by the authenticated identity
func (h *TenantHandler) GetMyShop(c *gin.Context) {
	actor := getActor(c)
	if actor.UID == "" {
		h.Unauthorized(c, "Authentication required")
		return
	}

	shop, err := h.tenantService.GetShopByOwner(c.Request.Context(), actor.UID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, shop)
}

// UpdateSettings applies a partial settings update to the caller's shop
func (h *TenantHandler) UpdateSettings(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Shop not resolved")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	shop, err := h.tenantService.UpdateSettings(c.Request.Context(), tenantID, identity.UpdateSettingsInput{
		Name:              req.Name,
		ContactEmail:      req.ContactEmail,
		ContactPhone:      req.ContactPhone,
		ReceiptPrefix:     req.ReceiptPrefix,
		ReceiptFooterNote: req.ReceiptFooterNote,
		ThemeColor:        req.ThemeColor,
		WeekStart:         req.WeekStart,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, shop)
}

// PurgeShop deletes the caller's shop and every record it owns
func (h *TenantHandler) PurgeShop(c *gin.Context) {
	tenantID, ok := getTenantID(c)
	if !ok {
		h.Unauthorized(c, "Shop not resolved")
		return
	}

	if err := h.tenantService.PurgeShop(c.Request.Context(), tenantID, getActor(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
