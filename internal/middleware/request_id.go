package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/baharkarakas/rentacar-backend/internal/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID reuses a caller-supplied X-Request-Id or assigns a new one, and
// echoes it in the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}
