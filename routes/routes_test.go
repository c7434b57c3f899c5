package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tessera/middleware"
	"tessera/pay"
	"tessera/ratelim"
	"tessera/store/storetest"
)

type deadVerifier struct{}

func (deadVerifier) Verify(_ context.Context, _ string) (*pay.VerifyResult, error) {
	return &pay.VerifyResult{Status: "failed"}, nil
}

func paymentRouter(t *testing.T) *httprouter.Router {
	t.Helper()
	stores := storetest.New()
	h := &Handlers{Pay: pay.NewHandler(stores.Orders, stores.Payments, stores.Tickets, stores.Events, deadVerifier{})}
	a := middleware.NewAuth([]byte("test-secret"), nil)

	router := httprouter.New()
	AddPaymentRoutes(router, h, a, ratelim.NewRateLimiter())
	return router
}

// The gateway posts its webhook to /callback/:tx_ref; that path must be
// routed even for a tx_ref we have never seen.
func TestCallbackRouteMatchesGatewayContract(t *testing.T) {
	router := paymentRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/payment/callback/TX-1-1", nil))

	require.NotEqual(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Payment not successful")
}

// The return redirect from the gateway carries no session token, so
// verify must not demand one.
func TestVerifyRouteNeedsNoSession(t *testing.T) {
	router := paymentRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/payment/verify/TX-1-1", nil))

	require.NotEqual(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPayRouteRequiresSession(t *testing.T) {
	router := paymentRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/payment/pay", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
