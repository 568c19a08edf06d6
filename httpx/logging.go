package httpx

import (
	"net/http"

	"github.com/felixge/httpsnoop"

	"github.com/mbolis/quick-forms/log"
)

// RequestLogger logs method, path, status, size and duration of every request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		level := log.InfoLevel
		if m.Code >= http.StatusInternalServerError {
			level = log.ErrorLevel
		}
		log.LogFields(level, log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   m.Code,
			"bytes":    m.Written,
			"duration": m.Duration,
			"remote":   r.RemoteAddr,
		}, "http.request")
	})
}
