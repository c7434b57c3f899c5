package pay

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tessera/models"
	"tessera/store"
	"tessera/store/storetest"
)

type stubVerifier struct {
	result *VerifyResult
	err    error
}

func (v *stubVerifier) Verify(_ context.Context, txRef string) (*VerifyResult, error) {
	if v.err != nil {
		return nil, v.err
	}
	r := *v.result
	if r.Reference == "" {
		r.Reference = "GW-" + txRef
	}
	return &r, nil
}

func newFixture(t *testing.T, verifier Verifier) (*Handler, *store.Stores, *models.Order) {
	t.Helper()
	stores := storetest.New()

	event := &models.Event{
		EventID:     "ev1",
		Title:       "Jazz Night",
		OrganizerID: "org1",
		NormalPrice: models.PriceTier{Price: 100, Quantity: 50},
		VIPPrice:    models.PriceTier{Price: 250, Quantity: 10},
		IsPublished: true,
	}
	require.NoError(t, stores.Events.Insert(context.Background(), event))

	order, err := models.NewOrder("ord1", "u1", "ev1", models.TicketTypeNormal, 3, 100)
	require.NoError(t, err)
	require.NoError(t, stores.Orders.Insert(context.Background(), order))

	h := NewHandler(stores.Orders, stores.Payments, stores.Tickets, stores.Events, verifier)
	return h, stores, order
}

func payBody(orderID string) *bytes.Buffer {
	b, _ := json.Marshal(map[string]string{
		"orderId":      orderID,
		"first_name":   "Abel",
		"last_name":    "Tesfaye",
		"email":        "abel@example.com",
		"phone_number": "0911000000",
	})
	return bytes.NewBuffer(b)
}

func TestPaySettlesOrderAndIssuesTickets(t *testing.T) {
	h, stores, order := newFixture(t, &stubVerifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/payment/pay", payBody(order.OrderID))
	rec := httptest.NewRecorder()
	h.Pay(rec, req, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool            `json:"success"`
		TxRef   string          `json:"tx_ref"`
		Payment models.Payment  `json:"payment"`
		Order   models.Order    `json:"order"`
		Tickets []models.Ticket `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.True(t, strings.HasPrefix(resp.TxRef, "TX-"))
	assert.Equal(t, models.PaymentSuccess, resp.Payment.Status)
	assert.Equal(t, "MOCK-"+resp.TxRef, resp.Payment.GatewayRef)
	assert.Equal(t, "ETB", resp.Payment.Currency)
	assert.Equal(t, 300.0, resp.Payment.Amount)
	assert.Equal(t, models.OrderPaid, resp.Order.PaymentStatus)

	require.Len(t, resp.Tickets, 3)
	for _, tk := range resp.Tickets {
		assert.True(t, strings.HasPrefix(tk.TicketCode, "TICKET-"))
		assert.Equal(t, order.OrderID, tk.OrderID)
		assert.Equal(t, models.TicketTypeNormal, tk.TicketType)
		assert.Equal(t, 100.0, tk.Price)
	}

	stored, err := stores.Orders.GetByID(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, stored.PaymentStatus)

	tickets, err := stores.Tickets.ListByOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Len(t, tickets, 3)
}

func TestPayMissingFields(t *testing.T) {
	h, stores, order := newFixture(t, &stubVerifier{})

	b, _ := json.Marshal(map[string]string{"orderId": order.OrderID, "first_name": "Abel"})
	req := httptest.NewRequest(http.MethodPost, "/api/payment/pay", bytes.NewBuffer(b))
	rec := httptest.NewRecorder()
	h.Pay(rec, req, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// nothing written
	tickets, err := stores.Tickets.ListByOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Empty(t, tickets)
	stored, err := stores.Orders.GetByID(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, stored.PaymentStatus)
}

func TestPayUnknownOrder(t *testing.T) {
	h, _, _ := newFixture(t, &stubVerifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/payment/pay", payBody("nope"))
	rec := httptest.NewRecorder()
	h.Pay(rec, req, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func insertPendingPayment(t *testing.T, stores *store.Stores, order *models.Order, txRef string) {
	t.Helper()
	err := stores.Payments.Insert(context.Background(), &models.Payment{
		PaymentID: "pay1",
		TxRef:     txRef,
		OrderID:   order.OrderID,
		UserID:    order.UserID,
		Amount:    order.TotalAmount,
		Currency:  "ETB",
		Status:    models.PaymentPending,
	})
	require.NoError(t, err)
}

func verifyParams(txRef string) httprouter.Params {
	return httprouter.Params{{Key: "tx_ref", Value: txRef}}
}

func TestVerifyIsIdempotent(t *testing.T) {
	verifier := &stubVerifier{result: &VerifyResult{Status: "success", Amount: 300, Currency: "ETB"}}
	h, stores, order := newFixture(t, verifier)
	insertPendingPayment(t, stores, order, "TX-1-1")

	req := httptest.NewRequest(http.MethodGet, "/api/payment/verify/TX-1-1", nil)
	rec := httptest.NewRecorder()
	h.Verify(rec, req, verifyParams("TX-1-1"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Payment verified successfully")

	tickets, err := stores.Tickets.ListByOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	require.Len(t, tickets, 3)

	stored, err := stores.Orders.GetByID(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, stored.PaymentStatus)

	payment, err := stores.Payments.GetByTxRef(context.Background(), "TX-1-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccess, payment.Status)
	assert.Equal(t, "GW-TX-1-1", payment.GatewayRef)

	// second verification is a no-op: no new tickets
	rec = httptest.NewRecorder()
	h.Verify(rec, httptest.NewRequest(http.MethodGet, "/api/payment/verify/TX-1-1", nil), verifyParams("TX-1-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment already verified")

	tickets, err = stores.Tickets.ListByOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Len(t, tickets, 3)
}

func TestVerifyGatewayNotSuccessful(t *testing.T) {
	verifier := &stubVerifier{result: &VerifyResult{Status: "failed"}}
	h, stores, order := newFixture(t, verifier)
	insertPendingPayment(t, stores, order, "TX-1-2")

	rec := httptest.NewRecorder()
	h.Verify(rec, httptest.NewRequest(http.MethodGet, "/api/payment/verify/TX-1-2", nil), verifyParams("TX-1-2"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment not successful")

	payment, err := stores.Payments.GetByTxRef(context.Background(), "TX-1-2")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payment.Status)

	tickets, err := stores.Tickets.ListByOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestVerifyUnknownTxRef(t *testing.T) {
	verifier := &stubVerifier{result: &VerifyResult{Status: "success"}}
	h, _, _ := newFixture(t, verifier)

	rec := httptest.NewRecorder()
	h.Verify(rec, httptest.NewRequest(http.MethodGet, "/api/payment/verify/TX-9-9", nil), verifyParams("TX-9-9"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment record not found")
}

func TestCallbackAcksFreshAndDuplicate(t *testing.T) {
	verifier := &stubVerifier{result: &VerifyResult{Status: "success"}}
	h, stores, order := newFixture(t, verifier)
	insertPendingPayment(t, stores, order, "TX-1-3")

	params := httprouter.Params{{Key: "tx_ref", Value: "TX-1-3"}}
	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodPost, "/api/payment/callback/TX-1-3", nil), params)
	assert.Equal(t, http.StatusOK, rec.Code)

	tickets, err := stores.Tickets.ListByOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	require.Len(t, tickets, 3)

	// retry from the gateway must get a bare 200 and change nothing
	rec = httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodPost, "/api/payment/callback/TX-1-3", nil), params)
	assert.Equal(t, http.StatusOK, rec.Code)

	tickets, err = stores.Tickets.ListByOrder(context.Background(), order.OrderID)
	require.NoError(t, err)
	assert.Len(t, tickets, 3)
}

func TestCallbackMissingTxRef(t *testing.T) {
	h, _, _ := newFixture(t, &stubVerifier{result: &VerifyResult{Status: "success"}})

	rec := httptest.NewRecorder()
	h.Callback(rec, httptest.NewRequest(http.MethodPost, "/api/payment/callback/x", nil), httprouter.Params{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
