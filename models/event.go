package models

import (
	"errors"
	"strings"
	"time"
)

const (
	TicketTypeNormal = "normal"
	TicketTypeVIP    = "vip"
)

// PriceTier is one priced ticket tier on an event ("normal" or "vip").
// Quantity is the remaining number of tickets in the tier.
type PriceTier struct {
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

type Event struct {
	EventID     string    `json:"id" bson:"eventid"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	OrganizerID string    `json:"organizer" bson:"organizerid"`
	CategoryID  string    `json:"category,omitempty" bson:"categoryid,omitempty"`
	VenueID     string    `json:"venue,omitempty" bson:"venueid,omitempty"`
	StartDate   time.Time `json:"startDate" bson:"start_date"`
	EndDate     time.Time `json:"endDate,omitempty" bson:"end_date,omitempty"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	NormalPrice PriceTier `json:"normalPrice" bson:"normal_price"`
	VIPPrice    PriceTier `json:"vipPrice" bson:"vip_price"`
	IsPublished bool      `json:"isPublished" bson:"ispublished"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// Tier returns the priced tier matching ticketType, or false when the
// type names neither tier.
func (e *Event) Tier(ticketType string) (PriceTier, bool) {
	switch ticketType {
	case TicketTypeNormal:
		return e.NormalPrice, true
	case TicketTypeVIP:
		return e.VIPPrice, true
	}
	return PriceTier{}, false
}

// NewEvent validates the fields an organizer must supply.
func NewEvent(id, title, organizerID string, start time.Time) (*Event, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	if organizerID == "" {
		return nil, errors.New("organizer is required")
	}
	if start.IsZero() {
		return nil, errors.New("start date is required")
	}
	now := time.Now().UTC()
	return &Event{
		EventID:     id,
		Title:       title,
		OrganizerID: organizerID,
		StartDate:   start.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
