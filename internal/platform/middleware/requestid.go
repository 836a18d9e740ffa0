// Package middleware holds the HTTP middleware applied to every request.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"clearusers/pkg/requestcontext"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns each request a UUID (or adopts the caller-supplied one)
// and exposes it via context and the response header for correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
