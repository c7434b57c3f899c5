package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tessera/models"
	"tessera/store"
	"tessera/store/storetest"
)

func seed(t *testing.T) *store.Stores {
	t.Helper()
	stores := storetest.New()
	ctx := context.Background()

	admin, err := models.NewUser("adm", "Admin", "admin@b.c", "x", models.RoleAdmin, "")
	require.NoError(t, err)
	org, err := models.NewUser("org", "Org", "org@b.c", "x", models.RoleOrganizer, "")
	require.NoError(t, err)
	buyer, err := models.NewUser("buyer", "Buyer", "buyer@b.c", "x", models.RoleUser, "")
	require.NoError(t, err)
	for _, u := range []*models.User{admin, org, buyer} {
		require.NoError(t, stores.Users.Insert(ctx, u))
	}

	cat, err := models.NewCategory("cat1", "Music")
	require.NoError(t, err)
	require.NoError(t, stores.Categories.Insert(ctx, cat))

	venue, err := models.NewVenue("ven1", "City Hall")
	require.NoError(t, err)
	require.NoError(t, stores.Venues.Insert(ctx, venue))

	published := &models.Event{EventID: "ev1", Title: "Jazz Night", OrganizerID: "org", CategoryID: "cat1", IsPublished: true}
	draft := &models.Event{EventID: "ev2", Title: "Secret Gig", OrganizerID: "org"}
	require.NoError(t, stores.Events.Insert(ctx, published))
	require.NoError(t, stores.Events.Insert(ctx, draft))

	paid, err := models.NewOrder("o1", "buyer", "ev1", models.TicketTypeNormal, 2, 100)
	require.NoError(t, err)
	paid.PaymentStatus = models.OrderPaid
	pending, err := models.NewOrder("o2", "buyer", "ev1", models.TicketTypeVIP, 1, 250)
	require.NoError(t, err)
	require.NoError(t, stores.Orders.Insert(ctx, paid))
	require.NoError(t, stores.Orders.Insert(ctx, pending))

	for _, id := range []string{"t1", "t2"} {
		require.NoError(t, stores.Tickets.Insert(ctx, &models.Ticket{
			TicketID: id, EventID: "ev1", UserID: "buyer", OrderID: "o1",
			TicketType: models.TicketTypeNormal, TicketCode: "TICKET-1-" + id,
		}))
	}
	return stores
}

func TestDashboardStats(t *testing.T) {
	stores := seed(t)
	h := NewHandler(stores)

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		TotalUsers        int64            `json:"totalUsers"`
		TotalEvents       int64            `json:"totalEvents"`
		PublishedEvents   int64            `json:"publishedEvents"`
		UnpublishedEvents int64            `json:"unpublishedEvents"`
		TotalCategories   int64            `json:"totalCategories"`
		TotalVenues       int64            `json:"totalVenues"`
		TotalOrders       int64            `json:"totalOrders"`
		PendingOrders     int64            `json:"pendingOrders"`
		TotalRevenue      float64          `json:"totalRevenue"`
		TotalTicketsSold  int64            `json:"totalTicketsSold"`
		UserRoles         map[string]int64 `json:"userRoles"`
		RecentOrders      []recentOrder    `json:"recentOrders"`
		RecentEvents      []recentEvent    `json:"recentEvents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, int64(3), resp.TotalUsers)
	assert.Equal(t, int64(2), resp.TotalEvents)
	assert.Equal(t, int64(1), resp.PublishedEvents)
	assert.Equal(t, int64(1), resp.UnpublishedEvents)
	assert.Equal(t, int64(1), resp.TotalCategories)
	assert.Equal(t, int64(1), resp.TotalVenues)
	assert.Equal(t, int64(2), resp.TotalOrders)
	assert.Equal(t, int64(1), resp.PendingOrders)
	assert.Equal(t, 200.0, resp.TotalRevenue)
	assert.Equal(t, int64(2), resp.TotalTicketsSold)
	assert.Equal(t, map[string]int64{"admin": 1, "organizer": 1, "user": 1}, resp.UserRoles)

	require.Len(t, resp.RecentOrders, 2)
	assert.Equal(t, "Buyer", resp.RecentOrders[0].UserName)
	assert.Equal(t, "Jazz Night", resp.RecentOrders[0].EventTitle)

	require.Len(t, resp.RecentEvents, 2)
	assert.Equal(t, "Org", resp.RecentEvents[0].OrganizerName)
}

func TestUpdateOrderStatus(t *testing.T) {
	stores := seed(t)
	h := NewHandler(stores)

	b, _ := json.Marshal(map[string]string{"paymentStatus": models.OrderPaid})
	rec := httptest.NewRecorder()
	h.UpdateOrderStatus(rec, httptest.NewRequest(http.MethodPut, "/api/admin/orders/o2/status", bytes.NewBuffer(b)),
		httprouter.Params{{Key: "orderId", Value: "o2"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	o, err := stores.Orders.GetByID(context.Background(), "o2")
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, o.PaymentStatus)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	stores := seed(t)
	h := NewHandler(stores)

	b, _ := json.Marshal(map[string]string{"paymentStatus": "refunded"})
	rec := httptest.NewRecorder()
	h.UpdateOrderStatus(rec, httptest.NewRequest(http.MethodPut, "/api/admin/orders/o2/status", bytes.NewBuffer(b)),
		httprouter.Params{{Key: "orderId", Value: "o2"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteOrder(t *testing.T) {
	stores := seed(t)
	h := NewHandler(stores)

	rec := httptest.NewRecorder()
	h.DeleteOrder(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/orders/o1", nil),
		httprouter.Params{{Key: "orderId", Value: "o1"}})
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := stores.Orders.GetByID(context.Background(), "o1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	rec = httptest.NewRecorder()
	h.DeleteOrder(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/orders/o1", nil),
		httprouter.Params{{Key: "orderId", Value: "o1"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateEventPublishStatus(t *testing.T) {
	stores := seed(t)
	h := NewHandler(stores)

	b, _ := json.Marshal(map[string]bool{"isPublished": true})
	rec := httptest.NewRecorder()
	h.UpdateEventPublishStatus(rec, httptest.NewRequest(http.MethodPut, "/api/admin/events/ev2/publish", bytes.NewBuffer(b)),
		httprouter.Params{{Key: "eventId", Value: "ev2"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	e, err := stores.Events.GetByID(context.Background(), "ev2")
	require.NoError(t, err)
	assert.True(t, e.IsPublished)
}
