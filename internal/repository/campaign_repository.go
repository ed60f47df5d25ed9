package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/unclebandit/dinerreach/internal/db"
	"github.com/unclebandit/dinerreach/internal/model"
)

// CampaignFilter narrows a campaign listing. The zero value selects every campaign.
type CampaignFilter struct {
	Channel model.Channel
	Status  model.Status
}

type CampaignRepositoryInterface interface {
	// CreateCampaign inserts c and fills in the store-assigned fields.
	CreateCampaign(ctx context.Context, c *model.Campaign) error
	// ListCampaigns returns campaigns newest first.
	ListCampaigns(ctx context.Context, f CampaignFilter) ([]model.Campaign, error)
}

type CampaignRepository struct {
	DB *db.DB
}

const campaignColumns = `id, name, offer_title, message, channel, type, status, recipients, opened, clicked, revenue, sent_date, created_at`

func (r *CampaignRepository) CreateCampaign(ctx context.Context, c *model.Campaign) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Status == "" {
		c.Status = model.StatusDraft
	}
	if c.Type == "" {
		c.Type = c.Channel
	}
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "invalid campaign")
	}

	query := r.DB.Rebind(`
        INSERT INTO campaigns (name, offer_title, message, channel, type, status, recipients, opened, clicked, revenue, sent_date, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        RETURNING id
    `)
	err := r.DB.QueryRowContext(ctx, query,
		c.Name, c.OfferTitle, c.Message, string(c.Channel), string(c.Type), string(c.Status),
		c.Recipients, c.Opened, c.Clicked, c.Revenue, c.SentAt, c.CreatedAt,
	).Scan(&c.ID)
	return errors.Wrap(err, "insert campaign")
}

func (r *CampaignRepository) ListCampaigns(ctx context.Context, f CampaignFilter) ([]model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []interface{}{}

	if f.Channel != "" {
		query += " AND channel=?"
		args = append(args, string(f.Channel))
	}
	if f.Status != "" {
		query += " AND status=?"
		args = append(args, string(f.Status))
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.DB.QueryContext(ctx, r.DB.Rebind(query), args...)
	if err != nil {
		return nil, errors.Wrap(err, "query campaigns")
	}
	defer rows.Close()

	campaigns := []model.Campaign{}
	for rows.Next() {
		var c model.Campaign
		var channel, typ, status string
		if err := rows.Scan(&c.ID, &c.Name, &c.OfferTitle, &c.Message, &channel, &typ, &status,
			&c.Recipients, &c.Opened, &c.Clicked, &c.Revenue, &c.SentAt, &c.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan campaign")
		}
		c.Channel, c.Type, c.Status = model.Channel(channel), model.Channel(typ), model.Status(status)
		campaigns = append(campaigns, c)
	}
	return campaigns, errors.Wrap(rows.Err(), "iterate campaigns")
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
