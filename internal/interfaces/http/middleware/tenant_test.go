package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/boothledger/backend/internal/application/identity"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeShopResolver struct {
	shop *identity.TenantResponse
	err  error
}

func (f *fakeShopResolver) GetShopByOwner(ctx context.Context, ownerUID string) (*identity.TenantResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.shop, nil
}

func newTenantTestRouter(resolver ShopResolver) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		// simulate an authenticated request
		c.Set(JWTUIDKey, "owner-1")
		c.Next()
	})
	r.Use(TenantMiddleware(resolver))
	r.GET("/renters", func(c *gin.Context) {
		id, ok := GetTenantID(c)
		c.JSON(http.StatusOK, gin.H{"tenant_id": id.String(), "resolved": ok})
	})
	return r
}

func TestTenantMiddleware(t *testing.T) {
	t.Run("resolves the shop and sets the tenant id", func(t *testing.T) {
		shopID := uuid.New()
		router := newTenantTestRouter(&fakeShopResolver{
			shop: &identity.TenantResponse{ID: shopID, Name: "Shear Genius"},
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/renters", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), shopID.String())
	})

	t.Run("returns 404 when the owner has no shop", func(t *testing.T) {
		router := newTenantTestRouter(&fakeShopResolver{err: shared.ErrNotFound})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/renters", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_NO_SHOP")
	})

	t.Run("returns 500 on resolver failure", func(t *testing.T) {
		router := newTenantTestRouter(&fakeShopResolver{err: errors.New("db down")})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/renters", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("returns 401 without an authenticated uid", func(t *testing.T) {
		r := gin.New()
		r.Use(TenantMiddleware(&fakeShopResolver{}))
		r.GET("/renters", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/renters", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetTenantIDUnset(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	id, ok := GetTenantID(c)
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, id)
}
