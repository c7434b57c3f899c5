package models

import (
	"errors"
	"strings"
	"time"
)

type Category struct {
	CategoryID string    `json:"id" bson:"categoryid"`
	Name       string    `json:"name" bson:"name"`
	Image      string    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updated_at"`
}

func NewCategory(id, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	now := time.Now().UTC()
	return &Category{CategoryID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

type Venue struct {
	VenueID   string    `json:"id" bson:"venueid"`
	Name      string    `json:"name" bson:"name"`
	Address   string    `json:"address,omitempty" bson:"address,omitempty"`
	City      string    `json:"city,omitempty" bson:"city,omitempty"`
	Country   string    `json:"country,omitempty" bson:"country,omitempty"`
	Capacity  int       `json:"capacity,omitempty" bson:"capacity,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
}

func NewVenue(id, name string) (*Venue, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	now := time.Now().UTC()
	return &Venue{VenueID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// Supplier is soft-deleted: delete flips IsActive, the row stays.
type Supplier struct {
	SupplierID  string    `json:"id" bson:"supplierid"`
	Name        string    `json:"name" bson:"name"`
	Category    string    `json:"category,omitempty" bson:"category,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	Rating      float64   `json:"rating" bson:"rating"`
	Reviews     int       `json:"reviews" bson:"reviews"`
	ContactInfo string    `json:"contactInfo,omitempty" bson:"contact_info,omitempty"`
	IsPopular   bool      `json:"isPopular" bson:"ispopular"`
	IsTrending  bool      `json:"isTrending" bson:"istrending"`
	IsActive    bool      `json:"isActive" bson:"isactive"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

func NewSupplier(id, name string) (*Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	now := time.Now().UTC()
	return &Supplier{
		SupplierID: id,
		Name:       name,
		Rating:     5,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

type Media struct {
	MediaID     string    `json:"id" bson:"mediaid"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Type        string    `json:"type" bson:"type"`
	URL         string    `json:"url" bson:"url"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

func NewMedia(id, title, mediaType, url string) (*Media, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	if url == "" {
		return nil, errors.New("media file is required")
	}
	if mediaType == "" {
		mediaType = "image"
	}
	return &Media{
		MediaID:   id,
		Title:     title,
		Type:      mediaType,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}, nil
}
