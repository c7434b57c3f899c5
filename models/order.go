package models

import (
	"errors"
	"fmt"
	"time"
)

const (
	OrderPending = "pending"
	OrderPaid    = "paid"
	OrderFailed  = "failed"
)

type Order struct {
	OrderID       string    `json:"id" bson:"orderid"`
	OrderNumber   string    `json:"orderNumber" bson:"order_number"`
	UserID        string    `json:"user" bson:"userid"`
	EventID       string    `json:"event" bson:"eventid"`
	TicketType    string    `json:"ticketType" bson:"ticket_type"`
	Quantity      int       `json:"quantity" bson:"quantity"`
	Price         float64   `json:"price" bson:"price"`
	TotalAmount   float64   `json:"totalAmount" bson:"total_amount"`
	PaymentStatus string    `json:"paymentStatus" bson:"payment_status"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updated_at"`
}

// NewOrder builds a pending order for quantity tickets of one tier.
// The total is computed here so it always matches quantity x unit price.
func NewOrder(id, userID, eventID, ticketType string, quantity int, unitPrice float64) (*Order, error) {
	if userID == "" || eventID == "" {
		return nil, errors.New("user and event are required")
	}
	if ticketType != TicketTypeNormal && ticketType != TicketTypeVIP {
		return nil, errors.New("invalid ticket type")
	}
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}
	now := time.Now().UTC()
	return &Order{
		OrderID:       id,
		OrderNumber:   fmt.Sprintf("ORD-%d", now.UnixMilli()),
		UserID:        userID,
		EventID:       eventID,
		TicketType:    ticketType,
		Quantity:      quantity,
		Price:         unitPrice,
		TotalAmount:   float64(quantity) * unitPrice,
		PaymentStatus: OrderPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

type Ticket struct {
	TicketID   string    `json:"id" bson:"ticketid"`
	EventID    string    `json:"event" bson:"eventid"`
	UserID     string    `json:"user" bson:"userid"`
	OrderID    string    `json:"order" bson:"orderid"`
	TicketType string    `json:"ticketType" bson:"ticket_type"`
	Price      float64   `json:"price" bson:"price"`
	TicketCode string    `json:"ticketCode" bson:"ticket_code"`
	IsUsed     bool      `json:"isUsed" bson:"isused"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}

const (
	PaymentPending = "PENDING"
	PaymentSuccess = "SUCCESS"
	PaymentFailed  = "FAILED"
)

type Payment struct {
	PaymentID  string    `json:"id" bson:"paymentid"`
	TxRef      string    `json:"tx_ref" bson:"tx_ref"`
	OrderID    string    `json:"order" bson:"orderid"`
	UserID     string    `json:"user" bson:"userid"`
	Amount     float64   `json:"amount" bson:"amount"`
	Currency   string    `json:"currency" bson:"currency"`
	Status     string    `json:"status" bson:"status"`
	GatewayRef string    `json:"gatewayRef,omitempty" bson:"gateway_ref,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updated_at"`
}
