package middleware

import (
	"net/http"

	"github.com/DioGolang/GoTodo/internal/infra/web/response"
	"github.com/go-chi/chi/v5/middleware"
)

// BodyLimit rejects requests whose declared length exceeds maxBytes and caps the
// body reader for the rest, so undeclared oversize bodies fail on read.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		capped := middleware.RequestSize(maxBytes)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				response.PayloadTooLarge(w)
				return
			}
			capped.ServeHTTP(w, r)
		})
	}
}
