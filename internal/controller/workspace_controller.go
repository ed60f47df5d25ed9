// internal/controller/workspace_controller.go
package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/dinerreach/internal/errors"
	"github.com/unclebandit/dinerreach/internal/middleware"
	"github.com/unclebandit/dinerreach/internal/model"
	"github.com/unclebandit/dinerreach/internal/service"
	"github.com/unclebandit/dinerreach/internal/session"
)

// WorkspaceController drives one owner's selection and composer. The
// workspace comes from the request context.
type WorkspaceController struct {
	Directory   *service.Directory
	Suggestions []model.Suggestion
	Log         logrus.FieldLogger
}

type workspaceResponse struct {
	Selection model.Selection       `json:"selection"`
	Selected  int                   `json:"selected"`
	Composer  service.ComposerState `json:"composer"`
}

func (c *WorkspaceController) workspace(w http.ResponseWriter, r *http.Request) *session.Workspace {
	ws := middleware.WorkspaceFrom(r.Context())
	if ws == nil {
		writeError(w, r, c.Log, appErrors.ErrSessionNotFound)
	}
	return ws
}

func (c *WorkspaceController) snapshot(ws *session.Workspace) workspaceResponse {
	sel := ws.Selection()
	return workspaceResponse{
		Selection: sel,
		Selected:  len(sel.DinerIDs),
		Composer:  ws.Composer.State(),
	}
}

func (c *WorkspaceController) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	ws := c.workspace(w, r)
	if ws == nil {
		return
	}
	writeJSON(w, http.StatusOK, c.snapshot(ws))
}

// SetFilters updates the fields present in the body and leaves the rest.
func (c *WorkspaceController) SetFilters(w http.ResponseWriter, r *http.Request) {
	ws := c.workspace(w, r)
	if ws == nil {
		return
	}

	var body struct {
		Search    *string   `json:"search"`
		City      *string   `json:"city"`
		Interests *[]string `json:"interests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid body")
		return
	}

	ws.Update(func(sel *model.Selection) {
		if body.Search != nil {
			sel.Search = *body.Search
		}
		if body.City != nil {
			sel.City = *body.City
		}
		if body.Interests != nil {
			sel.Interests = append([]string(nil), (*body.Interests)...)
		}
	})
	writeJSON(w, http.StatusOK, c.snapshot(ws))
}

func (c *WorkspaceController) ClearFilters(w http.ResponseWriter, r *http.Request) {
	ws := c.workspace(w, r)
	if ws == nil {
		return
	}
	ws.Update(func(sel *model.Selection) { sel.ClearFilters() })
	writeJSON(w, http.StatusOK, c.snapshot(ws))
}

func (c *WorkspaceController) ToggleInterest(w http.ResponseWriter, r *http.Request) {
	ws := c.workspace(w, r)
	if ws == nil {
		return
	}

	var body struct {
		Interest string `json:"interest"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Interest == "" {
		badRequest(w, "interest is required")
		return
	}
	ws.Update(func(sel *model.Selection) { sel.ToggleInterest(body.Interest) })
	writeJSON(w, http.StatusOK, c.snapshot(ws))
}

func (c *WorkspaceController) ToggleDiner(w http.ResponseWriter, r *http.Request) {
	ws := c.workspace(w, r)
	if ws == nil {
		return
	}

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "invalid diner id")
		return
	}
	ws.Update(func(sel *model.Selection) { sel.ToggleDiner(id) })
	writeJSON(w, http.StatusOK, c.snapshot(ws))
}

// ListDiners filters the roster with the workspace selection.
func (c *WorkspaceController) ListDiners(w http.ResponseWriter, r *http.Request) {
	ws := c.workspace(w, r)
	if ws == nil {
		return
	}
	res, err := c.Directory.Search(r.Context(), ws.Selection())
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (c *WorkspaceController) SetDraft(w http.ResponseWriter, r *http.Request) {
	ws := c.workspace(w, r)
	if ws == nil {
		return
	}

	var body service.Draft
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid body")
		return
	}
	if err := ws.Composer.SetDraft(body); err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, ws.Composer.State())
}

func (c *WorkspaceController) GenerateOffer(w http.ResponseWriter, r *http.Request) {
	ws := c.workspace(w, r)
	if ws == nil {
		return
	}
	if _, err := ws.Composer.GenerateOffer(r.Context()); err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"title":    "Offer Generated!",
		"message":  "AI has created a personalized offer for your campaign.",
		"composer": ws.Composer.State(),
	})
}

func (c *WorkspaceController) ApplySuggestion(w http.ResponseWriter, r *http.Request) {
	ws := c.workspace(w, r)
	if ws == nil {
		return
	}

	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || idx < 0 || idx >= len(c.Suggestions) {
		writeError(w, r, c.Log, appErrors.ErrSuggestionNotFound)
		return
	}
	ws.Composer.ApplySuggestion(c.Suggestions[idx])
	writeJSON(w, http.StatusOK, ws.Composer.State())
}

// SendCampaign sends the draft to the diners selected in the workspace.
func (c *WorkspaceController) SendCampaign(w http.ResponseWriter, r *http.Request) {
	ws := c.workspace(w, r)
	if ws == nil {
		return
	}

	recipients, err := c.Directory.Recipients(r.Context(), ws.Selection())
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	campaign, err := ws.Composer.SendCampaign(r.Context(), recipients)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"title":    "Campaign Sent!",
		"message":  fmt.Sprintf("Your campaign %q has been sent to %d customers.", campaign.Name, campaign.Recipients),
		"campaign": campaign,
	})
}
