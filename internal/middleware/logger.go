package middleware

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Logger logs every request through logrus. Server errors are logged at error
// level, client errors at warn and the rest at debug.
func Logger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if r.URL.RawQuery != "" {
				path = path + "?" + r.URL.RawQuery
			}
			if strings.HasPrefix(path, "/healthz") || strings.HasPrefix(path, "/metrics") {
				return
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			entry := log.WithFields(logrus.Fields{
				"status":     status,
				"latency":    time.Since(start),
				"client_ip":  r.RemoteAddr,
				"method":     r.Method,
				"path":       path,
				"request_id": chimw.GetReqID(r.Context()),
			})

			switch {
			case status >= 500:
				entry.Error("Server error")
			case status >= 400:
				entry.Warn("Client error")
			default:
				entry.Debug("Request served")
			}
		})
	}
}
