package middleware

import (
	"encoding/json"
	"net/http"

	"flexbo-edge/internal/models"
)

// InflightLimiter bounds the number of requests a wrapped handler may
// serve concurrently. Requests over the limit get an immediate 503
// rather than queueing.
type InflightLimiter struct {
	sem chan struct{}
}

func NewInflightLimiter(max int) *InflightLimiter {
	if max <= 0 {
		max = 1
	}
	return &InflightLimiter{sem: make(chan struct{}, max)}
}

func (l *InflightLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case l.sem <- struct{}{}:
			defer func() { <-l.sem }()
			next.ServeHTTP(w, r)
		default:
			writeError(w, http.StatusServiceUnavailable, "OVERLOADED", "Too many requests in flight. Please try again shortly.", r)
		}
	})
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	})
}
