// internal/service/composer.go
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/dinerreach/internal/errors"
	"github.com/unclebandit/dinerreach/internal/metrics"
	"github.com/unclebandit/dinerreach/internal/model"
	"github.com/unclebandit/dinerreach/internal/queue"
)

// CampaignStore persists sent campaigns.
type CampaignStore interface {
	CreateCampaign(ctx context.Context, c *model.Campaign) error
}

// Notifier announces newly created campaigns to other components.
type Notifier interface {
	Publish(ctx context.Context, ev queue.Event) error
}

// Draft holds the editable composer fields.
type Draft struct {
	Name       string        `json:"name"`
	OfferTitle string        `json:"offer_title"`
	Message    string        `json:"message"`
	Channel    model.Channel `json:"channel"`
}

func (d Draft) missing() []string {
	var out []string
	if strings.TrimSpace(d.Name) == "" {
		out = append(out, "name")
	}
	if strings.TrimSpace(d.OfferTitle) == "" {
		out = append(out, "offer_title")
	}
	if strings.TrimSpace(d.Message) == "" {
		out = append(out, "message")
	}
	return out
}

type ComposerState struct {
	Draft      Draft   `json:"draft"`
	Generating bool    `json:"generating"`
	Sending    bool    `json:"sending"`
	CanSend    bool    `json:"can_send"`
	Preview    Preview `json:"preview"`
}

// Preview is what the recipient would see, with placeholders for empty fields.
type Preview struct {
	Heading string `json:"heading"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

const (
	titlePlaceholder   = "Your offer title will appear here"
	messagePlaceholder = "Your offer message will appear here..."
)

// Composer is the campaign editor of one workspace. It allows a single
// in-flight generation and a single in-flight send.
type Composer struct {
	Store     CampaignStore
	Suggester Suggester
	Notifier  Notifier
	Metrics   *metrics.Metrics
	Log       logrus.FieldLogger
	Now       func() time.Time

	mu         sync.Mutex
	draft      Draft
	generating bool
	sending    bool
}

func NewComposer(store CampaignStore, suggester Suggester, notifier Notifier, m *metrics.Metrics, log logrus.FieldLogger) *Composer {
	return &Composer{
		Store:     store,
		Suggester: suggester,
		Notifier:  notifier,
		Metrics:   m,
		Log:       log,
		Now:       time.Now,
		draft:     Draft{Channel: model.ChannelEmail},
	}
}

// SetDraft replaces the editable fields. An empty channel keeps the current one.
func (c *Composer) SetDraft(d Draft) error {
	if d.Channel == "" {
		c.mu.Lock()
		d.Channel = c.draft.Channel
		c.mu.Unlock()
	}
	if !d.Channel.Valid() {
		return appErrors.ErrInvalidChannel
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = d
	return nil
}

// ApplySuggestion copies a quick suggestion into the offer fields.
func (c *Composer) ApplySuggestion(s model.Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.OfferTitle = s.Title
	c.draft.Message = s.Message
}

// GenerateOffer fills the offer fields from the suggester. It runs to
// completion even if ctx is cancelled.
func (c *Composer) GenerateOffer(ctx context.Context) (model.Suggestion, error) {
	c.mu.Lock()
	if c.generating {
		c.mu.Unlock()
		return model.Suggestion{}, appErrors.ErrBusy
	}
	c.generating = true
	c.mu.Unlock()

	s, err := c.Suggester.Suggest(context.WithoutCancel(ctx))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.generating = false
	if err != nil {
		return model.Suggestion{}, err
	}
	c.draft.OfferTitle = s.Title
	c.draft.Message = s.Message
	c.Metrics.SuggestionGenerated()
	return s, nil
}

// SendCampaign records the draft as a completed campaign addressed to recipients.
// On success the text fields are cleared and the campaign-created event is
// published. On failure the draft is left untouched.
func (c *Composer) SendCampaign(ctx context.Context, recipients []model.Diner) (*model.Campaign, error) {
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		c.Metrics.SendFailed("busy")
		return nil, appErrors.ErrBusy
	}
	draft := c.draft
	if missing := draft.missing(); len(missing) > 0 {
		c.mu.Unlock()
		c.Metrics.SendFailed("validation")
		return nil, appErrors.NewValidation(missing...)
	}
	c.sending = true
	c.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	now := c.now().UTC()
	campaign := &model.Campaign{
		Name:       draft.Name,
		OfferTitle: draft.OfferTitle,
		Message:    draft.Message,
		Channel:    draft.Channel,
		Type:       draft.Channel,
		Status:     model.StatusCompleted,
		Recipients: len(recipients),
		SentAt:     &now,
		CreatedAt:  now,
	}
	err := c.Store.CreateCampaign(ctx, campaign)

	c.mu.Lock()
	c.sending = false
	if err != nil {
		c.mu.Unlock()
		c.Metrics.SendFailed("store")
		c.log().WithError(err).WithField("campaign", draft.Name).Error("❌ failed to store campaign")
		return nil, appErrors.NewPersistence(err)
	}
	c.draft.Name = ""
	c.draft.OfferTitle = ""
	c.draft.Message = ""
	c.mu.Unlock()

	c.Metrics.CampaignCreated(string(campaign.Channel))
	c.log().WithFields(logrus.Fields{
		"campaign_id": campaign.ID,
		"channel":     campaign.Channel,
		"recipients":  campaign.Recipients,
	}).Info("✅ campaign sent")

	if c.Notifier != nil {
		if err := c.Notifier.Publish(ctx, queue.NewCampaignCreated(*campaign)); err != nil {
			c.log().WithError(err).WithField("campaign_id", campaign.ID).Warn("⚠️ failed to publish campaign created event")
		}
	}
	return campaign, nil
}

func (c *Composer) Preview() Preview {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previewLocked()
}

func (c *Composer) previewLocked() Preview {
	p := Preview{
		Heading: c.draft.Channel.PreviewHeading(),
		Title:   c.draft.OfferTitle,
		Message: c.draft.Message,
	}
	if p.Title == "" {
		p.Title = titlePlaceholder
	}
	if p.Message == "" {
		p.Message = messagePlaceholder
	}
	return p
}

// State returns a snapshot for rendering.
func (c *Composer) State() ComposerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ComposerState{
		Draft:      c.draft,
		Generating: c.generating,
		Sending:    c.sending,
		CanSend:    !c.sending && len(c.draft.missing()) == 0,
		Preview:    c.previewLocked(),
	}
}

func (c *Composer) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Composer) log() logrus.FieldLogger {
	if c.Log == nil {
		return logrus.StandardLogger()
	}
	return c.Log
}
