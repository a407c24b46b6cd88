package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wms/backend/internal/infrastructure/telemetry"
)

func TestDefaultProfilingConfig(t *testing.T) {
	cfg := DefaultProfilingConfig()

	assert.True(t, cfg.Enabled)
	assert.Contains(t, cfg.SkipPaths, "/health")
	assert.Contains(t, cfg.SkipPaths, "/api/v1/ping")
}

func TestProfilingMiddleware_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	handlerCalled := false
	r.Use(ProfilingWithConfig(ProfilingConfig{Enabled: false}))
	r.GET("/api/v1/warehouse/locations", func(c *gin.Context) {
		handlerCalled = true
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/warehouse/locations", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handlerCalled)
}

func TestProfilingMiddleware_LabelsReachHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	tenantID := "0b7f4a1e-9c2d-4f6a-8e3b-5d1c2a9f7e60"
	r.Use(func(c *gin.Context) {
		c.Set(TenantIDKey, tenantID)
		c.Next()
	})
	r.Use(ProfilingWithConfig(DefaultProfilingConfig()))

	var got map[string]string
	r.GET("/api/v1/warehouse/locations/:id", func(c *gin.Context) {
		got = map[string]string{}
		for _, key := range []string{
			telemetry.ProfilingLabelMethod,
			telemetry.ProfilingLabelRoute,
			telemetry.ProfilingLabelController,
			telemetry.ProfilingLabelTenantID,
		} {
			if v, ok := pprof.Label(c.Request.Context(), key); ok {
				got[key] = v
			}
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/warehouse/locations/42", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET", got[telemetry.ProfilingLabelMethod])
	assert.Equal(t, "/api/v1/warehouse/locations/:id", got[telemetry.ProfilingLabelRoute])
	assert.Equal(t, "warehouse", got[telemetry.ProfilingLabelController])
	assert.Equal(t, tenantID, got[telemetry.ProfilingLabelTenantID])
}

func TestProfilingMiddleware_SkipPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.Use(ProfilingWithConfig(DefaultProfilingConfig()))

	var labeled bool
	r.GET("/health", func(c *gin.Context) {
		_, labeled = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelRoute)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, labeled, "skip paths must not carry profiling labels")
}

func TestControllerFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/warehouse/locations/:id", "warehouse"},
		{"/api/v1/receiving/shipments", "receiving"},
		{"/api/v1/putaway", "putaway"},
		{"/api/v1/inventory/records/:id", "inventory"},
		{"/health", "health"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, controllerFromRoute(tt.route), "route %q", tt.route)
	}
}
