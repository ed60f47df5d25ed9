package middleware

import (
	"context"
	"net/http"

	"github.com/unclebandit/dinerreach/internal/session"
)

type workspaceKey struct{}

// Workspace resolves the session cookie to a workspace, creating one and
// setting the cookie when the request has none or an expired one.
func Workspace(store *session.Store, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(cookieName); err == nil {
				id = c.Value
			}
			ws, created := store.GetOrCreate(id)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    ws.ID.String(),
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := context.WithValue(r.Context(), workspaceKey{}, ws)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WorkspaceFrom returns the workspace attached by Workspace, or nil.
func WorkspaceFrom(ctx context.Context) *session.Workspace {
	ws, _ := ctx.Value(workspaceKey{}).(*session.Workspace)
	return ws
}

// WithWorkspace attaches ws to ctx. Used by tests that bypass the cookie.
func WithWorkspace(ctx context.Context, ws *session.Workspace) context.Context {
	return context.WithValue(ctx, workspaceKey{}, ws)
}
