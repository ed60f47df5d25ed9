// internal/service/stats.go
package service

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/unclebandit/dinerreach/internal/model"
)

// Summary is the headline card row of the dashboard.
type Summary struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalRecipients int             `json:"total_recipients"`
	AvgOpenRate     int             `json:"avg_open_rate"`
	ActiveCampaigns int             `json:"active_campaigns"`
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

// OpenRate is the rounded percentage of recipients who opened; 0 with no recipients.
func OpenRate(c model.Campaign) int {
	return percent(c.Opened, c.Recipients)
}

func ClickRate(c model.Campaign) int {
	return percent(c.Clicked, c.Recipients)
}

func FormatRate(rate int) string {
	return fmt.Sprintf("%d%%", rate)
}

// Summarize aggregates completed campaigns. Campaigns in any other status
// only count towards ActiveCampaigns.
func Summarize(campaigns []model.Campaign) Summary {
	var (
		s         Summary
		completed int
		openSum   float64
	)
	s.TotalRevenue = decimal.Zero
	for _, c := range campaigns {
		if c.Status != model.StatusCompleted {
			s.ActiveCampaigns++
			continue
		}
		completed++
		s.TotalRevenue = s.TotalRevenue.Add(c.RevenueOrZero())
		s.TotalRecipients += c.Recipients
		if c.Recipients > 0 {
			openSum += float64(c.Opened) / float64(c.Recipients)
		}
	}
	if completed > 0 {
		s.AvgOpenRate = int(math.Round(100 * openSum / float64(completed)))
	}
	return s
}
