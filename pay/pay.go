package pay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"tessera/models"
	"tessera/monitoring"
	"tessera/store"
	"tessera/utils"
)

// Handler runs payment settlement: the mock immediate path, the
// gateway-verified path and the webhook callback. All three converge on
// settle(), whose only concurrency control is the compare-and-swap on
// Payment.status.
type Handler struct {
	orders   store.OrderStore
	payments store.PaymentStore
	tickets  store.TicketStore
	events   store.EventStore
	verifier Verifier
}

func NewHandler(orders store.OrderStore, payments store.PaymentStore, tickets store.TicketStore, events store.EventStore, verifier Verifier) *Handler {
	return &Handler{orders: orders, payments: payments, tickets: tickets, events: events, verifier: verifier}
}

func newTxRef() string {
	return fmt.Sprintf("TX-%d-%d", time.Now().UnixMilli(), rand.Intn(1000))
}

// issueTickets creates one ticket per unit of the order's quantity,
// copying its type and unit price. Codes are distinct within this loop
// only; the caller's idempotency guard prevents double issuance.
func (h *Handler) issueTickets(ctx context.Context, order *models.Order) ([]models.Ticket, error) {
	tickets := make([]models.Ticket, 0, order.Quantity)
	now := time.Now()
	for i := 0; i < order.Quantity; i++ {
		ticket := models.Ticket{
			TicketID:   utils.GenerateID(14),
			EventID:    order.EventID,
			UserID:     order.UserID,
			OrderID:    order.OrderID,
			TicketType: order.TicketType,
			Price:      order.Price,
			TicketCode: fmt.Sprintf("TICKET-%d-%d", now.Unix(), i),
			CreatedAt:  now.UTC(),
		}
		if err := h.tickets.Insert(ctx, &ticket); err != nil {
			// No compensation: tickets already written stay, the order
			// stays paid. Known gap of this design.
			return tickets, err
		}
		tickets = append(tickets, ticket)
	}
	monitoring.CountTicketsIssued(len(tickets))
	return tickets, nil
}

type payInput struct {
	OrderID     string `json:"orderId"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

// Pay is the mock immediate-settlement path: the payment record is
// created directly in SUCCESS and tickets are issued synchronously.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input payInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.OrderID == "" || input.FirstName == "" || input.LastName == "" ||
		input.Email == "" || input.PhoneNumber == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required payment fields")
		return
	}

	ctx := r.Context()
	order, err := h.orders.GetByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Println("pay order lookup:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment failed")
		return
	}

	txRef := newTxRef()
	now := time.Now().UTC()
	payment := &models.Payment{
		PaymentID:  utils.GenerateID(14),
		TxRef:      txRef,
		OrderID:    order.OrderID,
		UserID:     order.UserID,
		Amount:     order.TotalAmount,
		Currency:   "ETB",
		Status:     models.PaymentSuccess,
		GatewayRef: "MOCK-" + txRef,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.payments.Insert(ctx, payment); err != nil {
		log.Println("pay insert payment:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment failed")
		return
	}

	if err := h.orders.SetPaymentStatus(ctx, order.OrderID, models.OrderPaid); err != nil {
		log.Println("pay mark order paid:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment failed")
		return
	}
	order.PaymentStatus = models.OrderPaid

	event, err := h.events.GetByID(ctx, order.EventID)
	if err != nil {
		log.Println("pay event lookup:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment failed")
		return
	}

	tickets, err := h.issueTickets(ctx, order)
	if err != nil {
		log.Println("pay ticket issuance:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment failed")
		return
	}
	monitoring.CountSettlement("success")

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"tx_ref":  txRef,
		"payment": payment,
		"order":   order,
		"tickets": tickets,
		"event":   event,
	})
}

// settle runs the shared verified-settlement sequence for a tx_ref that
// the gateway has confirmed. It returns (alreadyProcessed, error).
func (h *Handler) settle(ctx context.Context, txRef string, result *VerifyResult) (bool, error) {
	payment, err := h.payments.GetByTxRef(ctx, txRef)
	if err != nil {
		return false, err
	}

	// Idempotency guard: an already-successful payment is a no-op.
	if payment.Status == models.PaymentSuccess {
		monitoring.CountSettlement("duplicate")
		return true, nil
	}

	swapped, err := h.payments.MarkSuccess(ctx, txRef, result.Reference, result.Amount, result.Currency)
	if err != nil {
		return false, err
	}
	if !swapped {
		// Lost the race to a concurrent settlement of the same tx_ref.
		monitoring.CountSettlement("duplicate")
		return true, nil
	}

	order, err := h.orders.GetByID(ctx, payment.OrderID)
	if err != nil {
		return false, err
	}
	if err := h.orders.SetPaymentStatus(ctx, order.OrderID, models.OrderPaid); err != nil {
		return false, err
	}
	order.PaymentStatus = models.OrderPaid

	if _, err := h.issueTickets(ctx, order); err != nil {
		return false, err
	}
	monitoring.CountSettlement("success")
	return false, nil
}

// Verify handles GET /api/payment/verify/:tx_ref from the web client.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	txRef := ps.ByName("tx_ref")
	ctx := r.Context()

	result, err := h.verifier.Verify(ctx, txRef)
	if err != nil {
		log.Println("gateway verify:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error verifying payment")
		return
	}
	if !result.Success() {
		monitoring.CountSettlement("failed")
		utils.RespondWithError(w, http.StatusBadRequest, "Payment not successful")
		return
	}

	already, err := h.settle(ctx, txRef, result)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Payment record not found")
			return
		}
		log.Println("settle:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error verifying payment")
		return
	}

	if already {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Payment already verified"})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Payment verified successfully"})
}

// Callback is the gateway webhook. It must answer a bare 200 on both a
// fresh settlement and the already-processed no-op; the gateway retries
// anything else.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	txRef := ps.ByName("tx_ref")
	if txRef == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "tx_ref is required")
		return
	}
	ctx := r.Context()

	result, err := h.verifier.Verify(ctx, txRef)
	if err != nil {
		log.Println("callback gateway verify:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !result.Success() {
		monitoring.CountSettlement("failed")
		utils.RespondWithError(w, http.StatusBadRequest, "Payment not successful")
		return
	}

	if _, err := h.settle(ctx, txRef, result); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Payment record not found")
			return
		}
		log.Println("callback settle:", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
