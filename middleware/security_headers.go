// middleware/security_headers.go
package middleware

import (
	"os"
	"strings"

	"github.com/labstack/echo/v4"
)

// SecurityConfig controls the Content-Security-Policy emitted with every
// response.
type SecurityConfig struct {
	// ConnectDomains are appended to connect-src; the dashboard talks to
	// these besides its own origin.
	ConnectDomains []string
	// FrameAncestors allows embedding; Telegram renders the mini app inside
	// its own webview frames.
	FrameAncestors []string
	AllowInlineJS  bool
}

// DashboardSecurityConfig is the policy for the mini-app dashboard: framable
// by Telegram's web wrappers, images from anywhere over https (product photos
// are hot-linked), connect-src covering the mini-app host.
func DashboardSecurityConfig() SecurityConfig {
	config := SecurityConfig{
		ConnectDomains: []string{"https://web.telegram.org"},
		FrameAncestors: []string{"https://web.telegram.org", "https://telegram.org"},
		AllowInlineJS:  true,
	}
	if miniapp := os.Getenv("MINIAPP_URL"); miniapp != "" {
		config.ConnectDomains = append(config.ConnectDomains, strings.TrimRight(miniapp, "/"))
	}
	return config
}

// SecurityHeaders returns the middleware with the dashboard defaults
func SecurityHeaders() echo.MiddlewareFunc {
	return SecurityHeadersWithConfig(DashboardSecurityConfig())
}

// SecurityHeadersWithConfig sets the standard hardening headers on every
// response.
func SecurityHeadersWithConfig(config SecurityConfig) echo.MiddlewareFunc {
	csp := buildCSP(config)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			h.Set("Content-Security-Policy", csp)
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
			if len(config.FrameAncestors) == 0 {
				h.Set("X-Frame-Options", "DENY")
			}

			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}

func buildCSP(config SecurityConfig) string {
	csp := []string{
		"default-src 'self'",
		"img-src 'self' data: https:",
		"style-src 'self' 'unsafe-inline'",
	}

	if config.AllowInlineJS {
		csp = append(csp, "script-src 'self' 'unsafe-inline'")
	} else {
		csp = append(csp, "script-src 'self'")
	}

	if len(config.ConnectDomains) > 0 {
		csp = append(csp, "connect-src 'self' "+strings.Join(config.ConnectDomains, " "))
	}

	if len(config.FrameAncestors) > 0 {
		csp = append(csp, "frame-ancestors 'self' "+strings.Join(config.FrameAncestors, " "))
	} else {
		csp = append(csp, "frame-ancestors 'none'")
	}

	return strings.Join(csp, "; ")
}
