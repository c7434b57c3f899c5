package pay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChapaClientVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transaction/verify/TX-1-1", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{"status":"success","reference":"CHAPA-REF","amount":300,"currency":"ETB"}}`))
	}))
	defer srv.Close()

	c := NewChapaClient(srv.URL, "sk-test")
	result, err := c.Verify(context.Background(), "TX-1-1")
	require.NoError(t, err)

	assert.True(t, result.Success())
	assert.Equal(t, "CHAPA-REF", result.Reference)
	assert.Equal(t, 300.0, result.Amount)
	assert.Equal(t, "ETB", result.Currency)
}

func TestChapaClientVerifyMissingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":"failed","message":"invalid reference"}`))
	}))
	defer srv.Close()

	c := NewChapaClient(srv.URL, "sk-test")
	result, err := c.Verify(context.Background(), "TX-9-9")
	require.NoError(t, err)
	assert.False(t, result.Success())
}

func TestChapaClientVerifyNetworkError(t *testing.T) {
	c := NewChapaClient("http://127.0.0.1:1", "sk-test")
	_, err := c.Verify(context.Background(), "TX-1-1")
	assert.Error(t, err)
}
