package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func secureEngine(cfg SecurityConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(SecureWithConfig(cfg))
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func secureHeaders(engine *gin.Engine) http.Header {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	return w.Header()
}

func TestSecureDefaultHeaders(t *testing.T) {
	h := secureHeaders(secureEngine(DefaultSecurityConfig()))

	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
	assert.Contains(t, h.Get("Content-Security-Policy"), "frame-ancestors 'none'")
	assert.Contains(t, h.Get("Permissions-Policy"), "camera=()")
	// HSTS only when explicitly enabled
	assert.Empty(t, h.Get("Strict-Transport-Security"))
}

func TestSecureHSTS(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	cfg.HSTSPreload = true

	h := secureHeaders(secureEngine(cfg))

	hsts := h.Get("Strict-Transport-Security")
	assert.Contains(t, hsts, "max-age=31536000")
	assert.Contains(t, hsts, "includeSubDomains")
	assert.Contains(t, hsts, "preload")
}

func TestSecureDisabledDirectives(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.CSPEnabled = false
	cfg.PermissionsPolicyEnabled = false

	h := secureHeaders(secureEngine(cfg))

	assert.Empty(t, h.Get("Content-Security-Policy"))
	assert.Empty(t, h.Get("Permissions-Policy"))
	assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
}
