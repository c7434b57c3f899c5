package tickets

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tessera/globals"
	"tessera/models"
	"tessera/store"
	"tessera/store/storetest"
)

var secret = []byte("qr-secret")

func newFixture(t *testing.T) (*Handler, *store.Stores) {
	t.Helper()
	stores := storetest.New()
	ctx := context.Background()

	buyer, err := models.NewUser("buyer", "Buyer", "buyer@b.c", "x", models.RoleUser, "")
	require.NoError(t, err)
	require.NoError(t, stores.Users.Insert(ctx, buyer))

	event := &models.Event{
		EventID: "ev1", Title: "Jazz Night", OrganizerID: "org",
		StartDate: time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC), IsPublished: true,
	}
	require.NoError(t, stores.Events.Insert(ctx, event))

	order, err := models.NewOrder("o1", "buyer", "ev1", models.TicketTypeNormal, 2, 100)
	require.NoError(t, err)
	require.NoError(t, stores.Orders.Insert(ctx, order))

	for _, id := range []string{"t1", "t2"} {
		require.NoError(t, stores.Tickets.Insert(ctx, &models.Ticket{
			TicketID: id, EventID: "ev1", UserID: "buyer", OrderID: "o1",
			TicketType: models.TicketTypeNormal, Price: 100, TicketCode: "TICKET-1-" + id,
		}))
	}

	return NewHandler(stores.Tickets, stores.Orders, stores.Events, stores.Users, secret), stores
}

func asUser(req *http.Request, userID, role string) *http.Request {
	ctx := context.WithValue(req.Context(), globals.UserIDKey, userID)
	ctx = context.WithValue(ctx, globals.RoleKey, role)
	return req.WithContext(ctx)
}

func TestDownloadTicketPDF(t *testing.T) {
	h, _ := newFixture(t)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/tickets/ticket/t1/download", nil), "buyer", models.RoleUser)
	rec := httptest.NewRecorder()
	h.Download(rec, req, httprouter.Params{{Key: "ticketId", Value: "t1"}})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestDownloadForbiddenForOtherUser(t *testing.T) {
	h, _ := newFixture(t)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/tickets/ticket/t1/download", nil), "stranger", models.RoleUser)
	rec := httptest.NewRecorder()
	h.Download(rec, req, httprouter.Params{{Key: "ticketId", Value: "t1"}})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDownloadAllowedForAdmin(t *testing.T) {
	h, _ := newFixture(t)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/tickets/ticket/t1/download", nil), "adm", models.RoleAdmin)
	rec := httptest.NewRecorder()
	h.Download(rec, req, httprouter.Params{{Key: "ticketId", Value: "t1"}})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDownloadUnknownTicket(t *testing.T) {
	h, _ := newFixture(t)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/tickets/ticket/nope/download", nil), "buyer", models.RoleUser)
	rec := httptest.NewRecorder()
	h.Download(rec, req, httprouter.Params{{Key: "ticketId", Value: "nope"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadOrderBundlesAllTickets(t *testing.T) {
	h, _ := newFixture(t)

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/tickets/download-tickets/o1", nil), "buyer", models.RoleUser)
	rec := httptest.NewRecorder()
	h.DownloadOrder(rec, req, httprouter.Params{{Key: "orderId", Value: "o1"}})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
	// one page per ticket
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "/Type /Page\n"))
}

func TestDownloadOrderWithoutTickets(t *testing.T) {
	h, stores := newFixture(t)

	order, err := models.NewOrder("o2", "buyer", "ev1", models.TicketTypeNormal, 1, 100)
	require.NoError(t, err)
	require.NoError(t, stores.Orders.Insert(context.Background(), order))

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/tickets/download-tickets/o2", nil), "buyer", models.RoleUser)
	rec := httptest.NewRecorder()
	h.DownloadOrder(rec, req, httprouter.Params{{Key: "orderId", Value: "o2"}})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQRPayloadSignature(t *testing.T) {
	h, _ := newFixture(t)

	payload := h.QRPayload("ev1", "t1", "TICKET-1-t1")
	parts := strings.Split(payload, "|")
	require.Len(t, parts, 5)
	assert.Equal(t, "ev1", parts[0])
	assert.Equal(t, "t1", parts[1])
	assert.Equal(t, "TICKET-1-t1", parts[2])

	data := strings.Join(parts[:4], "|")
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(data))
	assert.Equal(t, base64.StdEncoding.EncodeToString(mac.Sum(nil)), parts[4])
}
