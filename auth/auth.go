package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"

	"tessera/config"
	"tessera/middleware"
	"tessera/models"
	"tessera/rdx"
	"tessera/store"
	"tessera/utils"
)

type Handler struct {
	cfg   *config.Config
	users store.UserStore
	auth  *middleware.Auth
	rdx   *rdx.Store
}

func NewHandler(cfg *config.Config, users store.UserStore, auth *middleware.Auth, redis *rdx.Store) *Handler {
	return &Handler{cfg: cfg, users: users, auth: auth, rdx: redis}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		MaxAge:   int((24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

type registerInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	SecretKey string `json:"secretKey"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input registerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	email := models.NormalizeEmail(input.Email)
	ctx := r.Context()

	if _, err := h.users.GetByEmail(ctx, email); err == nil {
		utils.RespondWithError(w, http.StatusConflict, "User already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Println("register email lookup:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	if input.Phone != "" {
		if _, err := h.users.GetByPhone(ctx, input.Phone); err == nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Phone number already exists")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Println("register phone lookup:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Server error during registration")
			return
		}
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	// Registering as admin needs the out-of-band admin secret.
	if role == models.RoleAdmin && (input.SecretKey == "" || input.SecretKey != h.cfg.AdminSecretKey) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid secretKey for admin role")
		return
	}
	if !models.ValidRole(role) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	user, err := models.NewUser(utils.GenerateID(14), input.Name, email, string(hashed), role, input.Phone)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.RespondWithError(w, http.StatusConflict, "User already exists")
			return
		}
		log.Println("register insert:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	h.setSessionCookie(w, token)

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input loginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	// Same generic message for unknown email and wrong password, so the
	// response does not reveal whether the email is registered.
	user, err := h.users.GetByEmail(r.Context(), models.NormalizeEmail(input.Email))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	h.setSessionCookie(w, token)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if token := middleware.TokenFromRequest(r); token != "" && h.rdx != nil {
		// Blacklist until the token would have expired anyway.
		if err := h.rdx.RevokeToken(r.Context(), token, 24*time.Hour); err != nil {
			log.Println("token revoke:", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	user, err := h.users.GetByID(r.Context(), middleware.UserID(r))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Println("get profile:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user profile")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "user": user})
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var input struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || !models.ValidRole(input.Role) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	id := ps.ByName("userId")
	if err := h.users.SetRole(r.Context(), id, input.Role); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Println("change role:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "User role updated successfully",
		"user":    user,
	})
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.users.List(r.Context())
	if err != nil {
		log.Println("list users:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"success": true,
		"count":   len(users),
		"users":   users,
	})
}

// upsertFederatedUser creates or refreshes a user coming from an external
// identity provider. Federated accounts have no local password and are
// verified by the provider.
func (h *Handler) upsertFederatedUser(ctx context.Context, email, name, picture string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	user, err := h.users.GetByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		user, err = models.NewUser(utils.GenerateID(14), name, email, "", models.RoleUser, "")
		if err != nil {
			return nil, err
		}
		user.IsVerified = true
		user.ProfilePic = picture
		if err := h.users.Insert(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}
	if (name != "" && user.Name != name) || (picture != "" && user.ProfilePic != picture) {
		if err := h.users.UpdateProfile(ctx, user.UserID, name, picture); err != nil {
			return nil, err
		}
		user.Name = name
		user.ProfilePic = picture
	}
	return user, nil
}
