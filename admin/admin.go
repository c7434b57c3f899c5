package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tessera/models"
	"tessera/store"
	"tessera/utils"
)

// Handler serves the admin dashboard and order/event moderation. Every
// route here sits behind the admin role check in the router.
type Handler struct {
	stores *store.Stores
}

func NewHandler(stores *store.Stores) *Handler {
	return &Handler{stores: stores}
}

// recentOrder is an order row denormalized for the dashboard list.
type recentOrder struct {
	models.Order
	UserName   string `json:"userName"`
	EventTitle string `json:"eventTitle"`
}

// recentEvent is an event row denormalized for the dashboard list.
type recentEvent struct {
	models.Event
	OrganizerName string `json:"organizerName"`
	CategoryName  string `json:"categoryName"`
}

// Dashboard handles GET /api/admin/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	totalUsers, err := h.stores.Users.Count(ctx)
	if err != nil {
		h.statsError(w, err)
		return
	}
	totalEvents, err := h.stores.Events.Count(ctx)
	if err != nil {
		h.statsError(w, err)
		return
	}
	publishedEvents, err := h.stores.Events.CountPublished(ctx)
	if err != nil {
		h.statsError(w, err)
		return
	}
	totalOrders, err := h.stores.Orders.Count(ctx)
	if err != nil {
		h.statsError(w, err)
		return
	}
	pendingOrders, err := h.stores.Orders.CountByStatus(ctx, models.OrderPending)
	if err != nil {
		h.statsError(w, err)
		return
	}
	totalRevenue, err := h.stores.Orders.PaidRevenue(ctx)
	if err != nil {
		h.statsError(w, err)
		return
	}
	ticketsSold, err := h.stores.Tickets.Count(ctx)
	if err != nil {
		h.statsError(w, err)
		return
	}
	totalCategories, err := h.stores.Categories.Count(ctx)
	if err != nil {
		h.statsError(w, err)
		return
	}
	totalVenues, err := h.stores.Venues.Count(ctx)
	if err != nil {
		h.statsError(w, err)
		return
	}
	userRoles, err := h.stores.Users.CountByRole(ctx)
	if err != nil {
		h.statsError(w, err)
		return
	}

	orders, err := h.stores.Orders.Recent(ctx, 5)
	if err != nil {
		h.statsError(w, err)
		return
	}
	recentOrders := make([]recentOrder, 0, len(orders))
	for i := range orders {
		row := recentOrder{Order: orders[i], UserName: "Unknown", EventTitle: "Unknown"}
		if u, err := h.stores.Users.GetByID(ctx, orders[i].UserID); err == nil {
			row.UserName = u.Name
		}
		if e, err := h.stores.Events.GetByID(ctx, orders[i].EventID); err == nil {
			row.EventTitle = e.Title
		}
		recentOrders = append(recentOrders, row)
	}

	events, err := h.stores.Events.Recent(ctx, 5)
	if err != nil {
		h.statsError(w, err)
		return
	}
	recentEvents := make([]recentEvent, 0, len(events))
	for i := range events {
		row := recentEvent{Event: events[i], OrganizerName: "Unknown", CategoryName: "Unknown"}
		if u, err := h.stores.Users.GetByID(ctx, events[i].OrganizerID); err == nil {
			row.OrganizerName = u.Name
		}
		if c, err := h.stores.Categories.GetByID(ctx, events[i].CategoryID); err == nil {
			row.CategoryName = c.Name
		}
		recentEvents = append(recentEvents, row)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"totalUsers":        totalUsers,
		"totalEvents":       totalEvents,
		"publishedEvents":   publishedEvents,
		"unpublishedEvents": totalEvents - publishedEvents,
		"totalCategories":   totalCategories,
		"totalVenues":       totalVenues,
		"totalOrders":       totalOrders,
		"pendingOrders":     pendingOrders,
		"totalRevenue":      totalRevenue,
		"totalTicketsSold":  ticketsSold,
		"userRoles":         userRoles,
		"recentOrders":      recentOrders,
		"recentEvents":      recentEvents,
	})
}

func (h *Handler) statsError(w http.ResponseWriter, err error) {
	log.Println("dashboard stats:", err)
	utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load dashboard stats")
}

// GetAllOrders handles GET /api/admin/orders.
func (h *Handler) GetAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	orders, err := h.stores.Orders.List(r.Context())
	if err != nil {
		log.Println("list orders:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, orders)
}

// UpdateOrderStatus handles PUT /api/admin/orders/:orderId/status.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input struct {
		PaymentStatus string `json:"paymentStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	switch input.PaymentStatus {
	case models.OrderPending, models.OrderPaid, models.OrderFailed:
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payment status")
		return
	}

	orderID := ps.ByName("orderId")
	if err := h.stores.Orders.SetPaymentStatus(r.Context(), orderID, input.PaymentStatus); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Println("update order status:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Order status updated"})
}

// DeleteOrder handles DELETE /api/admin/orders/:orderId.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.stores.Orders.Delete(r.Context(), ps.ByName("orderId")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Println("delete order:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete order")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Order deleted"})
}

// UpdateEventPublishStatus handles PUT /api/admin/events/:eventId/publish.
func (h *Handler) UpdateEventPublishStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input struct {
		IsPublished bool `json:"isPublished"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	eventID := ps.ByName("eventId")
	if err := h.stores.Events.SetPublished(r.Context(), eventID, input.IsPublished); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Println("update event publish:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update event")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Event publish status updated"})
}
