package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tessera/models"
)

type fakeRevocations struct {
	revoked map[string]bool
}

func (f *fakeRevocations) IsTokenRevoked(_ context.Context, token string) (bool, error) {
	return f.revoked[token], nil
}

func testUser(role string) *models.User {
	return &models.User{UserID: "u1", Name: "A", Email: "a@b.c", Role: role}
}

func TestTokenRoundTrip(t *testing.T) {
	a := NewAuth([]byte("secret"), nil)

	token, err := a.IssueToken(testUser(models.RoleOrganizer))
	require.NoError(t, err)

	claims, err := a.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleOrganizer, claims.Role)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	a := NewAuth([]byte("secret"), nil)

	_, err := a.ValidateToken(context.Background(), "")
	assert.Error(t, err)

	_, err = a.ValidateToken(context.Background(), "not-a-jwt")
	assert.Error(t, err)

	// token signed with another key
	other := NewAuth([]byte("other-secret"), nil)
	token, err := other.IssueToken(testUser(models.RoleUser))
	require.NoError(t, err)
	_, err = a.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsRevoked(t *testing.T) {
	revocations := &fakeRevocations{revoked: map[string]bool{}}
	a := NewAuth([]byte("secret"), revocations)

	token, err := a.IssueToken(testUser(models.RoleUser))
	require.NoError(t, err)

	_, err = a.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	revocations.revoked[token] = true
	_, err = a.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestAuthorize(t *testing.T) {
	assert.True(t, Authorize(models.RoleAdmin, models.RoleOrganizer, models.RoleAdmin))
	assert.True(t, Authorize(models.RoleOrganizer, models.RoleOrganizer, models.RoleAdmin))
	assert.False(t, Authorize(models.RoleUser, models.RoleOrganizer, models.RoleAdmin))
	assert.False(t, Authorize("", models.RoleAdmin))
}

func protected(called *bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	a := NewAuth([]byte("secret"), nil)
	called := false

	rec := httptest.NewRecorder()
	a.Authenticate(protected(&called))(rec, httptest.NewRequest(http.MethodGet, "/x", nil), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireRolesForbidsWrongRole(t *testing.T) {
	a := NewAuth([]byte("secret"), nil)
	token, err := a.IssueToken(testUser(models.RoleUser))
	require.NoError(t, err)

	called := false
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	a.RequireRoles(protected(&called), models.RoleAdmin)(rec, req, nil)

	// valid identity, disallowed role: 403, handler never runs
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestRequireRolesAdmits(t *testing.T) {
	a := NewAuth([]byte("secret"), nil)
	token, err := a.IssueToken(testUser(models.RoleAdmin))
	require.NoError(t, err)

	called := false
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	a.RequireRoles(protected(&called), models.RoleAdmin)(rec, req, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestMaybeAuthenticatePassesThrough(t *testing.T) {
	a := NewAuth([]byte("secret"), nil)

	var role string
	handle := a.MaybeAuthenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		role = Role(r)
		w.WriteHeader(http.StatusOK)
	})

	// anonymous request still reaches the handler
	rec := httptest.NewRecorder()
	handle(rec, httptest.NewRequest(http.MethodGet, "/x", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, role)

	token, err := a.IssueToken(testUser(models.RoleOrganizer))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec = httptest.NewRecorder()
	handle(rec, req, nil)
	assert.Equal(t, models.RoleOrganizer, role)
}

func TestTokenFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	assert.Empty(t, TokenFromRequest(req))

	req.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", TokenFromRequest(req))

	cookieReq := httptest.NewRequest(http.MethodGet, "/x", nil)
	cookieReq.AddCookie(&http.Cookie{Name: "token", Value: "xyz"})
	assert.Equal(t, "xyz", TokenFromRequest(cookieReq))
}
