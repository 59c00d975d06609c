package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/unrolled/secure"
)

// SecureHeaders sets nosniff, frame denial and the content security policy.
func SecureHeaders(extraOrigins []string) func(http.Handler) http.Handler {
	s := secure.New(secure.Options{
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: ContentSecurityPolicy(extraOrigins),
	})
	return s.Handler
}

// ContentSecurityPolicy builds the policy from a fixed allow-list. Extra
// origins are only allowed as connect-src targets.
func ContentSecurityPolicy(extraOrigins []string) string {
	connect := []string{"'self'"}
	for _, o := range extraOrigins {
		if o = strings.TrimSpace(o); o != "" {
			connect = append(connect, o)
		}
	}

	return strings.Join([]string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data:",
		"connect-src " + strings.Join(connect, " "),
		"object-src 'none'",
		"base-uri 'self'",
		"frame-ancestors 'none'",
	}, "; ")
}

func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader, "traceparent", "tracestate"},
		ExposedHeaders: []string{RequestIDHeader, "X-Trace-Id", "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	})
}
