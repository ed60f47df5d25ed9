// internal/model/campaign.go
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Campaign struct {
	ID         int                 `db:"id" json:"id"`
	Name       string              `db:"name" json:"name"`
	OfferTitle string              `db:"offer_title" json:"offer_title"`
	Message    string              `db:"message" json:"message"`
	Channel    Channel             `db:"channel" json:"channel"`
	Type       Channel             `db:"type" json:"type"`
	Status     Status              `db:"status" json:"status"`
	Recipients int                 `db:"recipients" json:"recipients"`
	Opened     int                 `db:"opened" json:"opened"`
	Clicked    int                 `db:"clicked" json:"clicked"`
	Revenue    decimal.NullDecimal `db:"revenue" json:"revenue"`
	SentAt     *time.Time          `db:"sent_date" json:"sent_date,omitempty"`
	CreatedAt  time.Time           `db:"created_at" json:"created_at"`
}

// Validate checks the numeric invariants of a campaign record.
func (c *Campaign) Validate() error {
	if !c.Channel.Valid() {
		return fmt.Errorf("invalid channel %q", c.Channel)
	}
	if _, err := ParseStatus(string(c.Status)); err != nil {
		return err
	}
	if c.Recipients < 0 {
		return fmt.Errorf("recipients must be >= 0, got %d", c.Recipients)
	}
	if c.Opened < 0 || c.Opened > c.Recipients {
		return fmt.Errorf("opened must be within [0, %d], got %d", c.Recipients, c.Opened)
	}
	if c.Clicked < 0 || c.Clicked > c.Recipients {
		return fmt.Errorf("clicked must be within [0, %d], got %d", c.Recipients, c.Clicked)
	}
	if c.Revenue.Valid && c.Revenue.Decimal.IsNegative() {
		return fmt.Errorf("revenue must be non-negative, got %s", c.Revenue.Decimal)
	}
	return nil
}

// RevenueOrZero treats absent revenue as zero.
func (c *Campaign) RevenueOrZero() decimal.Decimal {
	if !c.Revenue.Valid {
		return decimal.Zero
	}
	return c.Revenue.Decimal
}
