package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/boothledger/backend/internal/application/identity"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TenantIDKey is the gin context key holding the resolved tenant ID
const TenantIDKey = "tenant_id"

// ShopResolver looks up the shop owned by an authenticated identity
type ShopResolver interface {
	GetShopByOwner(ctx context.Context, ownerUID string) (*identity.TenantResponse, error)
}

// TenantMiddleware resolves the caller's shop from the authenticated owner
// UID and stores its ID in the context. Routes behind it can assume a tenant;
// shop creation and lookup endpoints stay outside it.
func TenantMiddleware(resolver ShopResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := GetJWTUID(c)
		if uid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		shop, err := resolver.GetShopByOwner(c.Request.Context(), uid)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "ERR_NO_SHOP",
						"message": "This account does not own a shop yet",
					},
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_INTERNAL",
					"message": "Failed to resolve shop",
				},
			})
			return
		}

		c.Set(TenantIDKey, shop.ID)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithTenantID(ctx, log, shop.ID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetTenantID retrieves the resolved tenant ID from gin.Context
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(TenantIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
