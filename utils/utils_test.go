package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID(14)
	assert.Len(t, id, 14)
	assert.NotEqual(t, id, GenerateID(14))
}

func TestGenerateRandomDigitString(t *testing.T) {
	s := GenerateRandomDigitString(6)
	require.Len(t, s, 6)
	for _, r := range s {
		assert.True(t, r >= '0' && r <= '9')
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_poster.png", SanitizeFilename("my poster.png"))
	assert.Equal(t, "..etcpasswd", SanitizeFilename("../etc/passwd"))
	assert.Equal(t, "a-b_c.1", SanitizeFilename("a-b_c.1"))
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, http.StatusTeapot, "nope")

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "nope", body["message"])
}

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithJSON(rec, http.StatusCreated, M{"ok": true})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"ok": true}`, rec.Body.String())
}
