package middleware

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Sentry gives every request its own hub so errors reported from handlers
// carry the request and its id.
func Sentry(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetRequest(r)
		if id := chimw.GetReqID(r.Context()); id != "" {
			hub.Scope().SetTag("request_id", id)
		}
		ctx := sentry.SetHubOnContext(r.Context(), hub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CaptureError reports err to the request's hub, falling back to the global one.
func CaptureError(r *http.Request, err error) {
	hub := sentry.GetHubFromContext(r.Context())
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
