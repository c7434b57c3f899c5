package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("u1", "  Abel ", " Abel@Example.COM ", "hash", "", " 0911000000 ")
	require.NoError(t, err)
	assert.Equal(t, "Abel", u.Name)
	assert.Equal(t, "abel@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, "0911000000", u.Phone)
	assert.False(t, u.IsVerified)

	_, err = NewUser("u2", "", "a@b.c", "hash", "", "")
	assert.Error(t, err)

	_, err = NewUser("u3", "A", "a@b.c", "hash", "superuser", "")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleOrganizer))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("root"))
	assert.False(t, ValidRole(""))
}

func TestEventTier(t *testing.T) {
	e := &Event{
		NormalPrice: PriceTier{Price: 100, Quantity: 200},
		VIPPrice:    PriceTier{Price: 250, Quantity: 20},
	}

	tier, ok := e.Tier(TicketTypeNormal)
	require.True(t, ok)
	assert.Equal(t, 100.0, tier.Price)

	tier, ok = e.Tier(TicketTypeVIP)
	require.True(t, ok)
	assert.Equal(t, 250.0, tier.Price)

	_, ok = e.Tier("balcony")
	assert.False(t, ok)
}

func TestNewOrderTotal(t *testing.T) {
	o, err := NewOrder("o1", "u1", "ev1", TicketTypeNormal, 3, 100)
	require.NoError(t, err)
	assert.Equal(t, 300.0, o.TotalAmount)
	assert.Equal(t, OrderPending, o.PaymentStatus)
	assert.True(t, strings.HasPrefix(o.OrderNumber, "ORD-"))
}

func TestNewOrderValidation(t *testing.T) {
	_, err := NewOrder("o1", "", "ev1", TicketTypeNormal, 1, 100)
	assert.Error(t, err)

	_, err = NewOrder("o1", "u1", "ev1", "balcony", 1, 100)
	assert.Error(t, err)

	_, err = NewOrder("o1", "u1", "ev1", TicketTypeVIP, 0, 100)
	assert.Error(t, err)
}

func TestNewEvent(t *testing.T) {
	start := time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)
	e, err := NewEvent("ev1", " Jazz Night ", "org1", start)
	require.NoError(t, err)
	assert.Equal(t, "Jazz Night", e.Title)
	assert.Equal(t, start, e.StartDate)
	assert.False(t, e.IsPublished)

	_, err = NewEvent("ev2", "", "org1", start)
	assert.Error(t, err)
	_, err = NewEvent("ev3", "X", "org1", time.Time{})
	assert.Error(t, err)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.c", NormalizeEmail("  A@B.C  "))
}
