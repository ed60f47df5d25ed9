package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/dinerreach/internal/model"
)

// TopicCampaignCreated is published after the store accepted a new campaign.
const TopicCampaignCreated = "campaign.created"

// Event is the envelope carried by every queue implementation.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Topic      string          `json:"topic"`
	OccurredAt time.Time       `json:"occurred_at"`
	Campaign   *model.Campaign `json:"campaign,omitempty"`
}

func NewCampaignCreated(c model.Campaign) Event {
	return Event{
		ID:         uuid.New(),
		Topic:      TopicCampaignCreated,
		OccurredAt: time.Now().UTC(),
		Campaign:   &c,
	}
}
