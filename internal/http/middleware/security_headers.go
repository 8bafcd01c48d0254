package middleware

import (
	"github.com/labstack/echo/v4"
)

const (
	// Signatures are stored as data URIs, so images allow data: as well as https.
	contentSecurityPolicy = "default-src 'self'; " +
		"script-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data: https:; " +
		"font-src 'self'; " +
		"connect-src 'self'; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'; " +
		"form-action 'self'"
	strictTransportSecurity = "max-age=31536000; includeSubDomains; preload"
	permissionsPolicy       = "geolocation=(), microphone=(), camera=(), payment=(), usb=(), magnetometer=(), gyroscope=()"
)

var securityHeaders = map[string]string{
	"Content-Security-Policy": contentSecurityPolicy,
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"X-XSS-Protection":        "1; mode=block",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
	"Permissions-Policy":      permissionsPolicy,
}

// SecurityHeaders sets the browser hardening headers on every response. HSTS
// is only sent when hsts is true, i.e. behind TLS in production.
func SecurityHeaders(hsts bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			for name, value := range securityHeaders {
				header.Set(name, value)
			}
			if hsts {
				header.Set("Strict-Transport-Security", strictTransportSecurity)
			}

			header.Del(echo.HeaderServer)
			header.Del("X-Powered-By")

			return next(c)
		}
	}
}
