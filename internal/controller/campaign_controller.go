// internal/controller/campaign_controller.go
package controller

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/dinerreach/internal/model"
	"github.com/unclebandit/dinerreach/internal/repository"
	"github.com/unclebandit/dinerreach/internal/service"
)

type CampaignController struct {
	Campaigns service.CampaignLister
	Dashboard *service.Dashboard
	Exporter  service.Exporter
	Log       logrus.FieldLogger
}

// ListCampaigns returns campaigns newest first, optionally narrowed by channel and status.
func (c *CampaignController) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	var f repository.CampaignFilter

	if ch := r.URL.Query().Get("channel"); ch != "" {
		parsed, err := model.ParseChannel(ch)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		f.Channel = parsed
	}
	if st := r.URL.Query().Get("status"); st != "" {
		parsed, err := model.ParseStatus(st)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		f.Status = parsed
	}

	campaigns, err := c.Campaigns.ListCampaigns(r.Context(), f)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}
	if campaigns == nil {
		campaigns = []model.Campaign{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": campaigns})
}

// GetDashboard returns the ready view, or the failed view with 502.
func (c *CampaignController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := service.ParseRowFilter(r.URL.Query().Get("filter"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	view := c.Dashboard.Load(r.Context(), filter)
	if view.State == service.ViewFailed {
		writeError(w, r, c.Log, view.Err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (c *CampaignController) ExportDashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := service.ParseRowFilter(r.URL.Query().Get("filter"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	view := c.Dashboard.Load(r.Context(), filter)
	if view.State == service.ViewFailed {
		writeError(w, r, c.Log, view.Err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="campaigns.xlsx"`)
	if err := c.Exporter.Export(w, view); err != nil {
		c.log().WithError(err).Error("❌ failed to export dashboard")
	}
}

func (c *CampaignController) log() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}
