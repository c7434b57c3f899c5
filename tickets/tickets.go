package tickets

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"tessera/middleware"
	"tessera/models"
	"tessera/store"
	"tessera/utils"
)

// Handler renders purchased tickets as downloadable PDFs. Access is
// restricted to the ticket owner and admins.
type Handler struct {
	tickets  store.TicketStore
	orders   store.OrderStore
	events   store.EventStore
	users    store.UserStore
	qrSecret []byte
}

func NewHandler(tickets store.TicketStore, orders store.OrderStore, events store.EventStore, users store.UserStore, qrSecret []byte) *Handler {
	return &Handler{tickets: tickets, orders: orders, events: events, users: users, qrSecret: qrSecret}
}

// QRPayload returns "eventID|ticketID|code|timestamp|signature". The
// signature is an HMAC-SHA256 over everything before it, so a scanner
// holding the same secret can verify offline.
func (h *Handler) QRPayload(eventID, ticketID, code string) string {
	data := fmt.Sprintf("%s|%s|%s|%d", eventID, ticketID, code, time.Now().Unix())
	mac := hmac.New(sha256.New, h.qrSecret)
	mac.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

func (h *Handler) canAccess(r *http.Request, ownerID string) bool {
	if middleware.Authorize(middleware.Role(r), models.RoleAdmin) {
		return true
	}
	return middleware.UserID(r) == ownerID
}

// addTicketPage appends one A4 page describing a single ticket, with
// its QR code in the top-right corner.
func (h *Handler) addTicketPage(pdf *gofpdf.Fpdf, ticket *models.Ticket, event *models.Event, buyerName string) error {
	qrPNG, err := qrcode.Encode(h.QRPayload(ticket.EventID, ticket.TicketID, ticket.TicketCode), qrcode.Medium, 256)
	if err != nil {
		return err
	}

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Event Ticket")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Event: %s", event.Title))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", event.StartDate.Format("Jan 2, 2006 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", buyerName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Type: %s", ticket.TicketType))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Code: %s", ticket.TicketCode))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(ticket.TicketID, opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions(ticket.TicketID, 150, 40, 40, 40, false, opts, 0, "")
	return nil
}

func (h *Handler) buyerName(r *http.Request, userID string) string {
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		return "Guest"
	}
	return user.Name
}

func writePDF(w http.ResponseWriter, pdf *gofpdf.Fpdf, filename string) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		log.Println("pdf output:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Download handles GET /api/tickets/:ticketId/download.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ticket, err := h.tickets.GetByID(r.Context(), ps.ByName("ticketId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Ticket not found")
			return
		}
		log.Println("ticket lookup:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load ticket")
		return
	}
	if !h.canAccess(r, ticket.UserID) {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this action")
		return
	}

	event, err := h.events.GetByID(r.Context(), ticket.EventID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	if err := h.addTicketPage(pdf, ticket, event, h.buyerName(r, ticket.UserID)); err != nil {
		log.Println("qr encode:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	writePDF(w, pdf, "ticket-"+ticket.TicketCode+".pdf")
}

// DownloadOrder handles GET /api/tickets/download-tickets/:orderId,
// one page per ticket of the order.
func (h *Handler) DownloadOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	orderID := ps.ByName("orderId")
	order, err := h.orders.GetByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Println("order lookup:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load order")
		return
	}
	if !h.canAccess(r, order.UserID) {
		utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this action")
		return
	}

	tickets, err := h.tickets.ListByOrder(r.Context(), orderID)
	if err != nil {
		log.Println("ticket list:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load tickets")
		return
	}
	if len(tickets) == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "No tickets found for this order")
		return
	}

	event, err := h.events.GetByID(r.Context(), order.EventID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	buyer := h.buyerName(r, order.UserID)
	pdf := gofpdf.New("P", "mm", "A4", "")
	for i := range tickets {
		if err := h.addTicketPage(pdf, &tickets[i], event, buyer); err != nil {
			log.Println("qr encode:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
			return
		}
	}
	writePDF(w, pdf, "tickets-"+order.OrderNumber+".pdf")
}
