package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("shops", "/shops")
	group.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, "my shop")
	})

	r.Register(group)
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/shops/me", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "my shop", w.Body.String())
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Use(func(c *gin.Context) {
		c.Header("X-API-Middleware", "applied")
		c.Next()
	})

	group := NewDomainGroup("renters", "/renters")
	group.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.Register(group).Setup()

	req := httptest.NewRequest("GET", "/api/v1/renters", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "applied", w.Header().Get("X-API-Middleware"))
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("renters", "/renters")
		assert.Equal(t, "renters", g.Name())
		assert.Equal(t, "/renters", g.Prefix())
	})

	t.Run("registers routes for each method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("renters", "/renters")
		g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
			POST("", func(c *gin.Context) { c.String(http.StatusCreated, "created") }).
			PUT("/:id", func(c *gin.Context) { c.String(http.StatusOK, "updated") }).
			DELETE("/:id", func(c *gin.Context) { c.String(http.StatusNoContent, "") })

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		tests := []struct {
			method string
			path   string
			status int
		}{
			{"GET", "/api/v1/renters", http.StatusOK},
			{"POST", "/api/v1/renters", http.StatusCreated},
			{"PUT", "/api/v1/renters/123", http.StatusOK},
			{"DELETE", "/api/v1/renters/123", http.StatusNoContent},
		}

		for _, tt := range tests {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code, "Route %s %s", tt.method, tt.path)
		}
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("renters", "/renters")

		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})

		g.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/renters", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	shops := NewDomainGroup("shops", "/shops")
	shops.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, "shop")
	})

	renters := NewDomainGroup("renters", "/renters")
	renters.GET("", func(c *gin.Context) {
		c.String(http.StatusOK, "renters")
	})

	r.Register(shops).Register(renters)
	r.Setup()

	req1 := httptest.NewRequest("GET", "/api/v1/shops/me", nil)
	w1 := httptest.NewRecorder()
	engine.ServeHTTP(w1, req1)
	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "shop", w1.Body.String())

	req2 := httptest.NewRequest("GET", "/api/v1/renters", nil)
	w2 := httptest.NewRecorder()
	engine.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "renters", w2.Body.String())
}
