package middlewares

import (
	"github.com/gin-gonic/gin"
)

const (
	apiPolicy  = "default-src 'none'; frame-ancestors 'none'"
	pagePolicy = "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'; frame-ancestors 'none'"
)

// SecurityHeaders is for the JSON API, which never serves content a
// browser should load.
func SecurityHeaders() gin.HandlerFunc {
	return securityHeaders(apiPolicy)
}

// PageSecurityHeaders relaxes the policy for the staff pages and their
// inline styles.
func PageSecurityHeaders() gin.HandlerFunc {
	return securityHeaders(pagePolicy)
}

func securityHeaders(policy string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", policy)

		c.Next()
	}
}
