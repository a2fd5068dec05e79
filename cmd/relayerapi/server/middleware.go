package server

import (
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// RequestLogger writes basic request info, tagged with a correlation id,
// using structured logging.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": id,
		}).Info("incoming request")
		next.ServeHTTP(w, r)
	})
}

// JSONHeaders sets Content-Type application/json for all responses.
func JSONHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
