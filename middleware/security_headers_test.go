package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applySecurityHeaders(t *testing.T, config SecurityConfig) http.Header {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := SecurityHeadersWithConfig(config)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec.Header()
}

func TestSecurityHeadersAllowTelegramFraming(t *testing.T) {
	headers := applySecurityHeaders(t, DashboardSecurityConfig())

	csp := headers.Get("Content-Security-Policy")
	assert.Contains(t, csp, "frame-ancestors 'self' https://web.telegram.org")
	assert.Contains(t, csp, "connect-src 'self' https://web.telegram.org")
	// Framing is governed by the CSP, not blanket-denied
	assert.Empty(t, headers.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
}

func TestSecurityHeadersDenyFramingWithoutAncestors(t *testing.T) {
	headers := applySecurityHeaders(t, SecurityConfig{})

	assert.Equal(t, "DENY", headers.Get("X-Frame-Options"))
	assert.Contains(t, headers.Get("Content-Security-Policy"), "frame-ancestors 'none'")
}

func TestDashboardSecurityConfigIncludesMiniAppHost(t *testing.T) {
	t.Setenv("MINIAPP_URL", "https://shop.example.com/")

	config := DashboardSecurityConfig()
	assert.Contains(t, config.ConnectDomains, "https://shop.example.com")
}

func TestBuildCSPScriptSrc(t *testing.T) {
	assert.Contains(t, buildCSP(SecurityConfig{AllowInlineJS: true}), "script-src 'self' 'unsafe-inline'")
	assert.NotContains(t, buildCSP(SecurityConfig{}), "script-src 'self' 'unsafe-inline'")
}
