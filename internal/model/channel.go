// internal/model/channel.go
package model

import "fmt"

// Channel is the delivery medium of a campaign.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Channels lists every supported channel in display order.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS}
}

// ParseChannel accepts only the known channels.
func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown channel %q", s)
	}
	return c, nil
}

func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS:
		return true
	}
	return false
}

// Label is the human readable channel name.
func (c Channel) Label() string {
	switch c {
	case ChannelEmail:
		return "Email"
	case ChannelSMS:
		return "SMS"
	}
	return string(c)
}

// PreviewHeading is the caption shown above the offer title in the composer preview.
func (c Channel) PreviewHeading() string {
	switch c {
	case ChannelEmail:
		return "EMAIL SUBJECT"
	case ChannelSMS:
		return "SMS MESSAGE"
	}
	return ""
}

// Status is the lifecycle state of a campaign record.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusDraft, StatusScheduled, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}
