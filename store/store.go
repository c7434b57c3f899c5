// Package store defines one small repository interface per entity, so the
// handlers never touch the database driver directly. The mongo_*.go files
// implement them on MongoDB collections.
package store

import (
	"context"
	"errors"

	"tessera/db"
	"tessera/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserStore interface {
	Insert(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, id, role string) error
	SetVerified(ctx context.Context, id string, verified bool) error
	UpdateProfile(ctx context.Context, id, name, profilePic string) error
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
}

type EventStore interface {
	Insert(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, onlyPublished bool) ([]models.Event, error)
	ListByCategory(ctx context.Context, categoryID string) ([]models.Event, error)
	ListByVenue(ctx context.Context, venueID string) ([]models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) error
	Count(ctx context.Context) (int64, error)
	CountPublished(ctx context.Context) (int64, error)
	Recent(ctx context.Context, n int) ([]models.Event, error)
}

type CategoryStore interface {
	Insert(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type VenueStore interface {
	Insert(ctx context.Context, v *models.Venue) error
	GetByID(ctx context.Context, id string) (*models.Venue, error)
	List(ctx context.Context) ([]models.Venue, error)
	Update(ctx context.Context, v *models.Venue) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// SupplierFilter narrows active-supplier listings.
type SupplierFilter struct {
	Category     string
	PopularOnly  bool
	TrendingOnly bool
}

type SupplierStore interface {
	Insert(ctx context.Context, s *models.Supplier) error
	GetByID(ctx context.Context, id string) (*models.Supplier, error)
	// ListActive returns only suppliers whose IsActive flag is set.
	ListActive(ctx context.Context, f SupplierFilter) ([]models.Supplier, error)
	Update(ctx context.Context, s *models.Supplier) error
	// SoftDelete flips IsActive off; the record remains in storage.
	SoftDelete(ctx context.Context, id string) error
}

type MediaStore interface {
	Insert(ctx context.Context, m *models.Media) error
	List(ctx context.Context) ([]models.Media, error)
	Delete(ctx context.Context, id string) error
}

type OrderStore interface {
	Insert(ctx context.Context, o *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	SetPaymentStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	// PaidRevenue sums totalAmount across paid orders.
	PaidRevenue(ctx context.Context) (float64, error)
	Recent(ctx context.Context, n int) ([]models.Order, error)
}

type TicketStore interface {
	Insert(ctx context.Context, t *models.Ticket) error
	GetByID(ctx context.Context, id string) (*models.Ticket, error)
	ListByOrder(ctx context.Context, orderID string) ([]models.Ticket, error)
	Count(ctx context.Context) (int64, error)
}

type PaymentStore interface {
	Insert(ctx context.Context, p *models.Payment) error
	GetByTxRef(ctx context.Context, txRef string) (*models.Payment, error)
	// MarkSuccess conditionally transitions the payment to SUCCESS. It
	// returns false when the payment was already SUCCESS, which is the
	// idempotency guard settlement relies on.
	MarkSuccess(ctx context.Context, txRef, gatewayRef string, amount float64, currency string) (bool, error)
}

// Stores groups one store per entity for wiring into handlers.
type Stores struct {
	Users      UserStore
	Events     EventStore
	Categories CategoryStore
	Venues     VenueStore
	Suppliers  SupplierStore
	Media      MediaStore
	Orders     OrderStore
	Tickets    TicketStore
	Payments   PaymentStore
}

func NewMongoStores(m *db.Mongo) *Stores {
	return &Stores{
		Users:      &MongoUserStore{coll: m.Users},
		Events:     &MongoEventStore{coll: m.Events},
		Categories: &MongoCategoryStore{coll: m.Categories},
		Venues:     &MongoVenueStore{coll: m.Venues},
		Suppliers:  &MongoSupplierStore{coll: m.Suppliers},
		Media:      &MongoMediaStore{coll: m.Media},
		Orders:     &MongoOrderStore{coll: m.Orders},
		Tickets:    &MongoTicketStore{coll: m.Tickets},
		Payments:   &MongoPaymentStore{coll: m.Payments},
	}
}
