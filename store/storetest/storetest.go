// Package storetest provides in-memory store implementations for
// handler tests.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tessera/models"
	"tessera/store"
)

// New returns a Stores wired entirely to in-memory implementations.
func New() *store.Stores {
	return &store.Stores{
		Users:      NewUsers(),
		Events:     NewEvents(),
		Categories: NewCategories(),
		Venues:     NewVenues(),
		Suppliers:  NewSuppliers(),
		Media:      NewMedia(),
		Orders:     NewOrders(),
		Tickets:    NewTickets(),
		Payments:   NewPayments(),
	}
}

type Users struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewUsers() *Users { return &Users{users: map[string]*models.User{}} }

func (s *Users) Insert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.users {
		if e.Email == u.Email {
			return store.ErrDuplicate
		}
	}
	cp := *u
	s.users[u.UserID] = &cp
	return nil
}

func (s *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Users) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Phone != "" && u.Phone == phone {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Users) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *Users) SetRole(_ context.Context, id, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Role = role
	return nil
}

func (s *Users) SetVerified(_ context.Context, id string, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.IsVerified = verified
	return nil
}

func (s *Users) UpdateProfile(_ context.Context, id, name, profilePic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	if name != "" {
		u.Name = name
	}
	if profilePic != "" {
		u.ProfilePic = profilePic
	}
	return nil
}

func (s *Users) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *Users) CountByRole(_ context.Context) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]int64{}
	for _, u := range s.users {
		out[u.Role]++
	}
	return out, nil
}

type Events struct {
	mu     sync.Mutex
	events map[string]*models.Event
	order  []string
}

func NewEvents() *Events { return &Events{events: map[string]*models.Event{}} }

func (s *Events) Insert(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.events[e.EventID] = &cp
	s.order = append(s.order, e.EventID)
	return nil
}

func (s *Events) GetByID(_ context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *Events) List(_ context.Context, onlyPublished bool) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Event, 0, len(s.events))
	for _, id := range s.order {
		e := s.events[id]
		if onlyPublished && !e.IsPublished {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (s *Events) ListByCategory(_ context.Context, categoryID string) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Event
	for _, id := range s.order {
		if e := s.events[id]; e.CategoryID == categoryID && e.IsPublished {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *Events) ListByVenue(_ context.Context, venueID string) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Event
	for _, id := range s.order {
		if e := s.events[id]; e.VenueID == venueID && e.IsPublished {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *Events) Update(_ context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[e.EventID]; !ok {
		return store.ErrNotFound
	}
	cp := *e
	s.events[e.EventID] = &cp
	return nil
}

func (s *Events) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.events, id)
	for i, eid := range s.order {
		if eid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Events) SetPublished(_ context.Context, id string, published bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return store.ErrNotFound
	}
	e.IsPublished = published
	return nil
}

func (s *Events) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.events)), nil
}

func (s *Events) CountPublished(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, e := range s.events {
		if e.IsPublished {
			n++
		}
	}
	return n, nil
}

func (s *Events) Recent(_ context.Context, n int) ([]models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Event
	for i := len(s.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, *s.events[s.order[i]])
	}
	return out, nil
}

type Categories struct {
	mu   sync.Mutex
	cats map[string]*models.Category
}

func NewCategories() *Categories { return &Categories{cats: map[string]*models.Category{}} }

func (s *Categories) Insert(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.cats {
		if strings.EqualFold(e.Name, c.Name) {
			return store.ErrDuplicate
		}
	}
	cp := *c
	s.cats[c.CategoryID] = &cp
	return nil
}

func (s *Categories) GetByID(_ context.Context, id string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cats[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *Categories) GetByName(_ context.Context, name string) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cats {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Categories) List(_ context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, 0, len(s.cats))
	for _, c := range s.cats {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Categories) Update(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cats[c.CategoryID]; !ok {
		return store.ErrNotFound
	}
	cp := *c
	s.cats[c.CategoryID] = &cp
	return nil
}

func (s *Categories) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cats[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.cats, id)
	return nil
}

func (s *Categories) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.cats)), nil
}

type Venues struct {
	mu     sync.Mutex
	venues map[string]*models.Venue
}

func NewVenues() *Venues { return &Venues{venues: map[string]*models.Venue{}} }

func (s *Venues) Insert(_ context.Context, v *models.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *v
	s.venues[v.VenueID] = &cp
	return nil
}

func (s *Venues) GetByID(_ context.Context, id string) (*models.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.venues[id]; ok {
		cp := *v
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *Venues) List(_ context.Context) ([]models.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Venue, 0, len(s.venues))
	for _, v := range s.venues {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VenueID < out[j].VenueID })
	return out, nil
}

func (s *Venues) Update(_ context.Context, v *models.Venue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.venues[v.VenueID]; !ok {
		return store.ErrNotFound
	}
	cp := *v
	s.venues[v.VenueID] = &cp
	return nil
}

func (s *Venues) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.venues[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.venues, id)
	return nil
}

func (s *Venues) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.venues)), nil
}

type Suppliers struct {
	mu        sync.Mutex
	suppliers map[string]*models.Supplier
}

func NewSuppliers() *Suppliers { return &Suppliers{suppliers: map[string]*models.Supplier{}} }

func (s *Suppliers) Insert(_ context.Context, sp *models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sp
	s.suppliers[sp.SupplierID] = &cp
	return nil
}

func (s *Suppliers) GetByID(_ context.Context, id string) (*models.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sp, ok := s.suppliers[id]; ok {
		cp := *sp
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *Suppliers) ListActive(_ context.Context, f store.SupplierFilter) ([]models.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Supplier
	for _, sp := range s.suppliers {
		if !sp.IsActive {
			continue
		}
		if f.Category != "" && !strings.EqualFold(sp.Category, f.Category) {
			continue
		}
		if f.PopularOnly && !sp.IsPopular {
			continue
		}
		if f.TrendingOnly && !sp.IsTrending {
			continue
		}
		out = append(out, *sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SupplierID < out[j].SupplierID })
	return out, nil
}

func (s *Suppliers) Update(_ context.Context, sp *models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suppliers[sp.SupplierID]; !ok {
		return store.ErrNotFound
	}
	cp := *sp
	s.suppliers[sp.SupplierID] = &cp
	return nil
}

func (s *Suppliers) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.suppliers[id]
	if !ok {
		return store.ErrNotFound
	}
	sp.IsActive = false
	return nil
}

type Media struct {
	mu    sync.Mutex
	media map[string]*models.Media
}

func NewMedia() *Media { return &Media{media: map[string]*models.Media{}} }

func (s *Media) Insert(_ context.Context, m *models.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *m
	s.media[m.MediaID] = &cp
	return nil
}

func (s *Media) List(_ context.Context) ([]models.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Media, 0, len(s.media))
	for _, m := range s.media {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MediaID < out[j].MediaID })
	return out, nil
}

func (s *Media) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.media[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.media, id)
	return nil
}

type Orders struct {
	mu     sync.Mutex
	orders map[string]*models.Order
	seq    []string
}

func NewOrders() *Orders { return &Orders{orders: map[string]*models.Order{}} }

func (s *Orders) Insert(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *o
	s.orders[o.OrderID] = &cp
	s.seq = append(s.seq, o.OrderID)
	return nil
}

func (s *Orders) GetByID(_ context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *Orders) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, id := range s.seq {
		if o := s.orders[id]; o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *Orders) List(_ context.Context) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Order, 0, len(s.seq))
	for _, id := range s.seq {
		out = append(out, *s.orders[id])
	}
	return out, nil
}

func (s *Orders) SetPaymentStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.PaymentStatus = status
	return nil
}

func (s *Orders) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.orders, id)
	for i, oid := range s.seq {
		if oid == id {
			s.seq = append(s.seq[:i], s.seq[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Orders) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.orders)), nil
}

func (s *Orders) CountByStatus(_ context.Context, status string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, o := range s.orders {
		if o.PaymentStatus == status {
			n++
		}
	}
	return n, nil
}

func (s *Orders) PaidRevenue(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, o := range s.orders {
		if o.PaymentStatus == models.OrderPaid {
			total += o.TotalAmount
		}
	}
	return total, nil
}

func (s *Orders) Recent(_ context.Context, n int) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for i := len(s.seq) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, *s.orders[s.seq[i]])
	}
	return out, nil
}

type Tickets struct {
	mu      sync.Mutex
	tickets map[string]*models.Ticket
	seq     []string
}

func NewTickets() *Tickets { return &Tickets{tickets: map[string]*models.Ticket{}} }

func (s *Tickets) Insert(_ context.Context, t *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tickets[t.TicketID] = &cp
	s.seq = append(s.seq, t.TicketID)
	return nil
}

func (s *Tickets) GetByID(_ context.Context, id string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tickets[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *Tickets) ListByOrder(_ context.Context, orderID string) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Ticket
	for _, id := range s.seq {
		if t := s.tickets[id]; t.OrderID == orderID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (s *Tickets) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.tickets)), nil
}

type Payments struct {
	mu       sync.Mutex
	payments map[string]*models.Payment
}

func NewPayments() *Payments { return &Payments{payments: map[string]*models.Payment{}} }

func (s *Payments) Insert(_ context.Context, p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[p.TxRef]; ok {
		return store.ErrDuplicate
	}
	cp := *p
	s.payments[p.TxRef] = &cp
	return nil
}

func (s *Payments) GetByTxRef(_ context.Context, txRef string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.payments[txRef]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (s *Payments) MarkSuccess(_ context.Context, txRef, gatewayRef string, amount float64, currency string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[txRef]
	if !ok {
		return false, store.ErrNotFound
	}
	if p.Status == models.PaymentSuccess {
		return false, nil
	}
	p.Status = models.PaymentSuccess
	p.GatewayRef = gatewayRef
	if amount > 0 {
		p.Amount = amount
	}
	if currency != "" {
		p.Currency = currency
	}
	return true, nil
}
