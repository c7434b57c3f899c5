package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"tessera/utils"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

func (h *Handler) googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.GoogleClientID,
		ClientSecret: h.cfg.GoogleClientSecret,
		RedirectURL:  h.cfg.GoogleCallbackURL,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleRedirect sends the browser to the Google consent screen.
func (h *Handler) GoogleRedirect(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conf := h.googleOAuthConfig()
	url := conf.AuthCodeURL("state", oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"))
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

type googleProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleCallback exchanges the authorization code, fetches the Google
// profile, upserts the user and redirects back to the web client with a
// session cookie set.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing code from Google")
		return
	}

	ctx := r.Context()
	conf := h.googleOAuthConfig()
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		log.Println("google token exchange:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Google token exchange failed")
		return
	}

	resp, err := conf.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		log.Println("google userinfo:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to fetch Google user info")
		return
	}
	defer resp.Body.Close()

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil || profile.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to fetch Google user info")
		return
	}

	user, err := h.upsertFederatedUser(ctx, profile.Email, profile.Name, profile.Picture)
	if err != nil {
		log.Println("google upsert:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Google auth failed")
		return
	}

	session, err := h.auth.IssueToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Google auth failed")
		return
	}
	h.setSessionCookie(w, session)

	http.Redirect(w, r, h.cfg.ClientURL, http.StatusFound)
}
