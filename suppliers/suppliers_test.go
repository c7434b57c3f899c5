package suppliers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tessera/config"
	"tessera/models"
	"tessera/store/storetest"
)

func seed(t *testing.T) (*Handler, *storetest.Suppliers) {
	t.Helper()
	suppliers := storetest.NewSuppliers()
	ctx := context.Background()

	catering, err := models.NewSupplier("s1", "Sunrise Catering")
	require.NoError(t, err)
	catering.Category = "catering"
	catering.IsPopular = true

	sound, err := models.NewSupplier("s2", "Echo Sound")
	require.NoError(t, err)
	sound.Category = "equipment"
	sound.IsTrending = true

	for _, s := range []*models.Supplier{catering, sound} {
		require.NoError(t, suppliers.Insert(ctx, s))
	}
	return NewHandler(&config.Config{UploadDir: t.TempDir()}, suppliers), suppliers
}

func listed(t *testing.T, rec *httptest.ResponseRecorder) []models.Supplier {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Suppliers []models.Supplier `json:"suppliers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Suppliers
}

func TestListFilters(t *testing.T) {
	h, _ := seed(t)

	rec := httptest.NewRecorder()
	h.ListAll(rec, httptest.NewRequest(http.MethodGet, "/api/suppliers", nil), nil)
	assert.Len(t, listed(t, rec), 2)

	rec = httptest.NewRecorder()
	h.ListPopular(rec, httptest.NewRequest(http.MethodGet, "/api/suppliers/popular", nil), nil)
	popular := listed(t, rec)
	require.Len(t, popular, 1)
	assert.Equal(t, "s1", popular[0].SupplierID)

	rec = httptest.NewRecorder()
	h.ListTrending(rec, httptest.NewRequest(http.MethodGet, "/api/suppliers/trending", nil), nil)
	trending := listed(t, rec)
	require.Len(t, trending, 1)
	assert.Equal(t, "s2", trending[0].SupplierID)

	rec = httptest.NewRecorder()
	h.ListByCategory(rec, httptest.NewRequest(http.MethodGet, "/api/suppliers/category/catering", nil),
		httprouter.Params{{Key: "category", Value: "catering"}})
	byCat := listed(t, rec)
	require.Len(t, byCat, 1)
	assert.Equal(t, "s1", byCat[0].SupplierID)
}

func TestSoftDeleteHidesFromListings(t *testing.T) {
	h, suppliers := seed(t)

	rec := httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/api/suppliers/s1", nil),
		httprouter.Params{{Key: "id", Value: "s1"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ListAll(rec, httptest.NewRequest(http.MethodGet, "/api/suppliers", nil), nil)
	remaining := listed(t, rec)
	require.Len(t, remaining, 1)
	assert.Equal(t, "s2", remaining[0].SupplierID)

	// record survives with the flag off
	s, err := suppliers.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, s.IsActive)
}

func TestDeleteUnknownSupplier(t *testing.T) {
	h, _ := seed(t)

	rec := httptest.NewRecorder()
	h.Delete(rec, httptest.NewRequest(http.MethodDelete, "/api/suppliers/nope", nil),
		httprouter.Params{{Key: "id", Value: "nope"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewSupplierDefaults(t *testing.T) {
	s, err := models.NewSupplier("s9", "Fresh Flowers")
	require.NoError(t, err)
	assert.Equal(t, 5.0, s.Rating)
	assert.True(t, s.IsActive)

	_, err = models.NewSupplier("s10", "   ")
	assert.Error(t, err)
}
