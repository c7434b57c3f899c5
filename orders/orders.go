package orders

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tessera/middleware"
	"tessera/models"
	"tessera/store"
	"tessera/utils"
)

type Handler struct {
	orders store.OrderStore
	events store.EventStore
}

func NewHandler(orders store.OrderStore, events store.EventStore) *Handler {
	return &Handler{orders: orders, events: events}
}

type createOrderInput struct {
	EventID    string `json:"eventId"`
	TicketType string `json:"ticketType"`
	Quantity   int    `json:"quantity"`
}

// Create places a pending order after an advisory availability check.
// The tier quantity is not decremented here; two concurrent orders can
// both pass against the same snapshot.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input createOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.EventID == "" || input.TicketType == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "eventId and ticketType are required")
		return
	}
	if input.Quantity < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	ctx := r.Context()
	event, err := h.events.GetByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Println("create order event lookup:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error creating order")
		return
	}

	tier, ok := event.Tier(input.TicketType)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid ticket type")
		return
	}
	if input.Quantity > tier.Quantity {
		utils.RespondWithError(w, http.StatusBadRequest, "Not enough tickets available")
		return
	}

	order, err := models.NewOrder(utils.GenerateID(14), middleware.UserID(r), event.EventID,
		input.TicketType, input.Quantity, tier.Price)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.orders.Insert(ctx, order); err != nil {
		log.Println("create order insert:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error creating order")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"success": true, "order": order})
}

func (h *Handler) UserOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	orders, err := h.orders.ListByUser(r.Context(), middleware.UserID(r))
	if err != nil {
		log.Println("user orders:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error fetching orders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "count": len(orders), "orders": orders})
}
