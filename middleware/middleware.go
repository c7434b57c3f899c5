package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"

	"tessera/globals"
	"tessera/models"
	"tessera/utils"
)

// JWT claims
type Claims struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

const tokenTTL = 24 * time.Hour

// TokenChecker answers whether a token has been revoked (logout).
type TokenChecker interface {
	IsTokenRevoked(ctx context.Context, token string) (bool, error)
}

type Auth struct {
	secret  []byte
	revoked TokenChecker
}

func NewAuth(secret []byte, revoked TokenChecker) *Auth {
	return &Auth{secret: secret, revoked: revoked}
}

// IssueToken signs a 24h session token for the user.
func (a *Auth) IssueToken(u *models.User) (string, error) {
	claims := &Claims{
		Email:  u.Email,
		UserID: u.UserID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// TokenFromRequest pulls the session token from the Authorization header
// or from the "token" cookie.
func TokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if c, err := r.Cookie("token"); err == nil {
		return c.Value
	}
	return ""
}

func (a *Auth) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if a.revoked != nil {
		if revoked, err := a.revoked.IsTokenRevoked(ctx, tokenString); err == nil && revoked {
			return nil, fmt.Errorf("token revoked")
		}
	}
	return claims, nil
}

// Authenticate verifies the session token and stores the caller's
// identity in the request context.
func (a *Auth) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := a.ValidateToken(r.Context(), TokenFromRequest(r))
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
		ctx = context.WithValue(ctx, globals.EmailKey, claims.Email)
		next(w, r.WithContext(ctx), ps)
	}
}

// MaybeAuthenticate attaches the caller's identity when a valid token
// is present but never rejects. Public listings use it so organizers
// and admins see their unpublished records on the same route.
func (a *Auth) MaybeAuthenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, err := a.ValidateToken(r.Context(), TokenFromRequest(r)); err == nil {
			ctx := context.WithValue(r.Context(), globals.UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, globals.RoleKey, claims.Role)
			ctx = context.WithValue(ctx, globals.EmailKey, claims.Email)
			r = r.WithContext(ctx)
		}
		next(w, r, ps)
	}
}

// Authorize is the single role policy check: caller role against an
// operation's allow-list.
func Authorize(role string, allowed ...string) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// RequireRoles authenticates and then enforces the role allow-list.
// Valid identity with a disallowed role gets 403, per the error taxonomy.
func (a *Auth) RequireRoles(next httprouter.Handle, roles ...string) httprouter.Handle {
	return a.Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		role, _ := r.Context().Value(globals.RoleKey).(string)
		if !Authorize(role, roles...) {
			utils.RespondWithError(w, http.StatusForbidden, "Not authorized for this action")
			return
		}
		next(w, r, ps)
	})
}

// UserID returns the authenticated caller's id from the request context.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(globals.UserIDKey).(string)
	return id
}

// Role returns the authenticated caller's role from the request context.
func Role(r *http.Request) string {
	role, _ := r.Context().Value(globals.RoleKey).(string)
	return role
}
