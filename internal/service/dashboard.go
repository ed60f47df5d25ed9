// internal/service/dashboard.go
package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/unclebandit/dinerreach/internal/cache"
	appErrors "github.com/unclebandit/dinerreach/internal/errors"
	"github.com/unclebandit/dinerreach/internal/metrics"
	"github.com/unclebandit/dinerreach/internal/model"
	"github.com/unclebandit/dinerreach/internal/queue"
	"github.com/unclebandit/dinerreach/internal/repository"
)

type ViewState string

const (
	ViewReady  ViewState = "ready"
	ViewFailed ViewState = "failed"
)

// RowFilter narrows the dashboard table. The summary cards always cover every campaign.
type RowFilter string

const (
	FilterAll       RowFilter = "all"
	FilterEmail     RowFilter = "email"
	FilterSMS       RowFilter = "sms"
	FilterCompleted RowFilter = "completed"
)

func ParseRowFilter(s string) (RowFilter, error) {
	switch f := RowFilter(s); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterEmail, FilterSMS, FilterCompleted:
		return f, nil
	}
	return "", fmt.Errorf("unknown dashboard filter %q", s)
}

func (f RowFilter) keep(c model.Campaign) bool {
	switch f {
	case FilterEmail:
		return c.Channel == model.ChannelEmail
	case FilterSMS:
		return c.Channel == model.ChannelSMS
	case FilterCompleted:
		return c.Status == model.StatusCompleted
	}
	return true
}

// Row is one table line with its display-ready rates.
type Row struct {
	model.Campaign
	OpenRate  string `json:"open_rate"`
	ClickRate string `json:"click_rate"`
}

func (r Row) SentLabel() string {
	if r.SentAt == nil {
		return "Not sent"
	}
	return r.SentAt.Format("Jan 2, 2006")
}

func (r Row) RevenueLabel() string {
	return r.RevenueOrZero().StringFixed(2)
}

type View struct {
	State   ViewState `json:"state"`
	Filter  RowFilter `json:"filter"`
	Summary Summary   `json:"summary"`
	Rows    []Row     `json:"rows"`
	Error   string    `json:"error,omitempty"`
	Err     error     `json:"-"`
}

// CampaignLister reads the campaign table newest first.
type CampaignLister interface {
	ListCampaigns(ctx context.Context, f repository.CampaignFilter) ([]model.Campaign, error)
}

type Dashboard struct {
	Store   CampaignLister
	Cache   cache.CampaignListCache
	Metrics *metrics.Metrics
	Log     logrus.FieldLogger
}

// Load reads every campaign and builds the ready view, or the failed view
// if the read was rejected. There is no retry.
func (d *Dashboard) Load(ctx context.Context, filter RowFilter) View {
	campaigns, err := d.campaigns(ctx)
	if err != nil {
		d.log().WithError(err).Error("❌ failed to load campaigns")
		return View{State: ViewFailed, Filter: filter, Error: err.Error(), Err: appErrors.NewFetch(err)}
	}

	rows := make([]Row, 0, len(campaigns))
	for _, c := range campaigns {
		if !filter.keep(c) {
			continue
		}
		rows = append(rows, Row{
			Campaign:  c,
			OpenRate:  FormatRate(OpenRate(c)),
			ClickRate: FormatRate(ClickRate(c)),
		})
	}
	return View{
		State:   ViewReady,
		Filter:  filter,
		Summary: Summarize(campaigns),
		Rows:    rows,
	}
}

func (d *Dashboard) campaigns(ctx context.Context) ([]model.Campaign, error) {
	var gen uint64
	cacheable := false
	if d.Cache != nil {
		cached, ok, err := d.Cache.Get(ctx)
		if err != nil {
			d.log().WithError(err).Warn("⚠️ campaign cache read failed")
		}
		d.Metrics.CacheResult(ok)
		if ok {
			return cached, nil
		}
		// Read before the store so an invalidation racing this load wins.
		gen, err = d.Cache.Generation(ctx)
		if err != nil {
			d.log().WithError(err).Warn("⚠️ campaign cache generation read failed")
		} else {
			cacheable = true
		}
	}

	campaigns, err := d.Store.ListCampaigns(ctx, repository.CampaignFilter{})
	if err != nil {
		return nil, err
	}
	if cacheable {
		if err := d.Cache.Set(ctx, gen, campaigns); err != nil {
			d.log().WithError(err).Warn("⚠️ campaign cache write failed")
		}
	}
	return campaigns, nil
}

// Invalidate marks the campaign list stale.
func (d *Dashboard) Invalidate(ctx context.Context) error {
	if d.Cache == nil {
		return nil
	}
	return d.Cache.Invalidate(ctx)
}

// Notifier wraps next so a successful send invalidates this instance's list
// before the event goes out. The next Load after SendCampaign returns always
// re-reads the store.
func (d *Dashboard) Notifier(next Notifier) Notifier {
	return &invalidatingNotifier{dashboard: d, next: next}
}

type invalidatingNotifier struct {
	dashboard *Dashboard
	next      Notifier
}

func (n *invalidatingNotifier) Publish(ctx context.Context, ev queue.Event) error {
	if err := n.dashboard.Invalidate(ctx); err != nil {
		n.dashboard.log().WithError(err).Warn("⚠️ failed to invalidate dashboard after send")
	}
	if n.next == nil {
		return nil
	}
	return n.next.Publish(ctx, ev)
}

// Subscribe invalidates the list on every campaign-created event, including
// those sent from other instances.
func (d *Dashboard) Subscribe(q queue.Queue) error {
	return q.Subscribe(queue.TopicCampaignCreated, func(ctx context.Context, ev queue.Event) error {
		d.log().WithField("event_id", ev.ID).Debug("campaign created, invalidating dashboard")
		return d.Invalidate(ctx)
	})
}

func (d *Dashboard) log() logrus.FieldLogger {
	if d.Log == nil {
		return logrus.StandardLogger()
	}
	return d.Log
}
