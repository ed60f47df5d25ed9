// Package router wires the HTTP surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/unclebandit/dinerreach/internal/controller"
	"github.com/unclebandit/dinerreach/internal/handler"
	"github.com/unclebandit/dinerreach/internal/metrics"
	"github.com/unclebandit/dinerreach/internal/middleware"
	"github.com/unclebandit/dinerreach/internal/session"
)

type Deps struct {
	Diners     *controller.DinerController
	Workspaces *controller.WorkspaceController
	Campaigns  *controller.CampaignController
	Pages      *handler.PageHandler
	Sessions   *session.Store
	Cookie     string
	Metrics    *metrics.Metrics
	Log        logrus.FieldLogger
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Log))
	r.Use(middleware.Sentry)
	r.Use(chimw.Recoverer)
	r.Use(d.Metrics.InstrumentHandler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/diners", d.Diners.ListDiners)
		r.Get("/options", d.Diners.Options)
		r.Get("/suggestions", d.Diners.ListSuggestions)

		r.Get("/campaigns", d.Campaigns.ListCampaigns)
		r.Get("/dashboard", d.Campaigns.GetDashboard)
		r.Get("/dashboard/export", d.Campaigns.ExportDashboard)

		r.Route("/workspace", func(r chi.Router) {
			r.Use(middleware.Workspace(d.Sessions, d.Cookie))

			r.Get("/", d.Workspaces.GetWorkspace)
			r.Put("/filters", d.Workspaces.SetFilters)
			r.Post("/filters/clear", d.Workspaces.ClearFilters)
			r.Post("/interests/toggle", d.Workspaces.ToggleInterest)
			r.Post("/diners/{id}/toggle", d.Workspaces.ToggleDiner)
			r.Get("/diners", d.Workspaces.ListDiners)
			r.Put("/draft", d.Workspaces.SetDraft)
			r.Post("/draft/generate", d.Workspaces.GenerateOffer)
			r.Post("/draft/suggestions/{index}", d.Workspaces.ApplySuggestion)
			r.Post("/send", d.Workspaces.SendCampaign)
		})
	})

	r.Get("/", d.Pages.Landing)
	r.Get("/dashboard", d.Pages.Dashboard)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Workspace(d.Sessions, d.Cookie))
		r.Get("/search", d.Pages.Search)
		r.Get("/campaigns/new", d.Pages.Composer)
	})

	return r
}
