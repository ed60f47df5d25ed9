// internal/handler/page_handler.go
package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/dinerreach/internal/middleware"
	"github.com/unclebandit/dinerreach/internal/model"
	"github.com/unclebandit/dinerreach/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type page struct {
	Page  string
	Title string
	Data  any
}

// PageHandler renders the owner facing HTML pages.
type PageHandler struct {
	Directory   *service.Directory
	Dashboard   *service.Dashboard
	Suggestions []model.Suggestion
	Log         logrus.FieldLogger
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, p); err != nil {
		h.log().WithError(err).WithField("template", name).Error("❌ failed to render page")
		middleware.CaptureError(r, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "landing", page{Page: "landing", Title: "Fill Your Tables", Data: landingContent})
}

type searchPage struct {
	Selection *model.Selection
	Options   service.Options
	Result    service.SearchResult
}

// Search applies the query string to the workspace selection, then renders the matches.
func (h *PageHandler) Search(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFrom(r.Context())
	if ws == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	sel := ws.Update(func(sel *model.Selection) {
		switch {
		case q.Has("clear"):
			sel.ClearFilters()
		case len(q) > 0:
			sel.Search = q.Get("search")
			sel.City = q.Get("city")
			sel.Interests = append([]string(nil), q["interest"]...)
		}
	})

	res, err := h.Directory.Search(r.Context(), sel)
	if err != nil {
		h.log().WithError(err).Error("❌ failed to search diners")
		middleware.CaptureError(r, err)
		http.Error(w, "failed to load diners", http.StatusBadGateway)
		return
	}
	h.render(w, r, http.StatusOK, "search", page{
		Page:  "search",
		Title: "Find Customers",
		Data:  searchPage{Selection: &sel, Options: h.Directory.Options(), Result: res},
	})
}

type composerPage struct {
	State       service.ComposerState
	Channels    []model.Channel
	Recipients  []model.Diner
	Suggestions []model.Suggestion
}

func (h *PageHandler) Composer(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFrom(r.Context())
	if ws == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	recipients, err := h.Directory.Recipients(r.Context(), ws.Selection())
	if err != nil {
		h.log().WithError(err).Error("❌ failed to resolve recipients")
		middleware.CaptureError(r, err)
		http.Error(w, "failed to load diners", http.StatusBadGateway)
		return
	}
	h.render(w, r, http.StatusOK, "composer", page{
		Page:  "composer",
		Title: "Create Campaign",
		Data: composerPage{
			State:       ws.Composer.State(),
			Channels:    model.Channels(),
			Recipients:  recipients,
			Suggestions: h.Suggestions,
		},
	})
}

type dashboardPage struct {
	View    service.View
	Filters []service.RowFilter
}

// Dashboard renders the campaign table, or the error state when the read fails.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := service.ParseRowFilter(r.URL.Query().Get("filter"))
	if err != nil {
		filter = service.FilterAll
	}

	view := h.Dashboard.Load(r.Context(), filter)
	status := http.StatusOK
	if view.State == service.ViewFailed {
		status = http.StatusBadGateway
		middleware.CaptureError(r, view.Err)
	}
	h.render(w, r, status, "dashboard", page{
		Page:  "dashboard",
		Title: "Campaign History",
		Data: dashboardPage{
			View:    view,
			Filters: []service.RowFilter{service.FilterAll, service.FilterEmail, service.FilterSMS, service.FilterCompleted},
		},
	})
}

func (h *PageHandler) log() logrus.FieldLogger {
	if h.Log == nil {
		return logrus.StandardLogger()
	}
	return h.Log
}
