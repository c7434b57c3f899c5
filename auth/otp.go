package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"net/smtp"
	"time"

	"github.com/julienschmidt/httprouter"

	"tessera/models"
	"tessera/utils"
)

const otpTTL = 10 * time.Minute

func (h *Handler) sendEmailOTP(toEmail, otp string) error {
	if h.cfg.SMTPHost == "" {
		// No mail server configured; keep the code reachable in dev logs.
		log.Printf("OTP for %s: %s", toEmail, otp)
		return nil
	}
	msg := []byte("Subject: Email Verification\n\nYour verification code is: " + otp)
	auth := smtp.PlainAuth("", h.cfg.SMTPUser, h.cfg.SMTPPass, h.cfg.SMTPHost)
	addr := h.cfg.SMTPHost + ":" + h.cfg.SMTPPort
	return smtp.SendMail(addr, auth, h.cfg.SMTPUser, []string{toEmail}, msg)
}

func (h *Handler) RequestOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email is required")
		return
	}

	email := models.NormalizeEmail(input.Email)
	otp := utils.GenerateRandomDigitString(6)

	if err := h.rdx.SetOTP(r.Context(), email, otp, otpTTL); err != nil {
		log.Println("otp store:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send OTP")
		return
	}
	if err := h.sendEmailOTP(email, otp); err != nil {
		log.Println("otp mail:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send OTP")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "OTP sent"})
}

func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" || input.OTP == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and OTP are required")
		return
	}

	email := models.NormalizeEmail(input.Email)
	ctx := r.Context()

	stored, err := h.rdx.GetOTP(ctx, email)
	if err != nil || stored != input.OTP {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired OTP")
		return
	}

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}
	if err := h.users.SetVerified(ctx, user.UserID, true); err != nil {
		log.Println("set verified:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Server error")
		return
	}
	_ = h.rdx.DeleteOTP(ctx, email)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"success": true, "message": "Email verified"})
}
