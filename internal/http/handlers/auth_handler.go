package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/charitymap/charitymap-api/internal/domain"
	"github.com/charitymap/charitymap-api/internal/http/middleware"
	"github.com/charitymap/charitymap-api/internal/http/response"
)

// Login handles user authentication
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	session, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, session)
}

// Register handles invite-gated registration of a new organization. On
// success the new user is logged in immediately.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	session, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, session)
}

// Me returns the currently authenticated user's profile
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)
	response.JSON(w, http.StatusOK, user.ToUserInfo())
}

// CreateInvite handles invite issuance (admin only). Repeat requests for
// an email with an unconsumed invite return the existing token.
func (h *Handlers) CreateInvite(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON format")
		return
	}

	invite, reused, err := h.auth.CreateInvite(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if reused {
		response.JSON(w, http.StatusOK, map[string]string{
			"token":   invite.Token,
			"email":   invite.Email,
			"message": "Existing invite token returned",
		})
		return
	}

	response.JSON(w, http.StatusCreated, map[string]string{
		"token":      invite.Token,
		"email":      invite.Email,
		"invite_url": h.auth.InviteURL(invite.Token),
	})
}

// VerifyInvite reports whether an invite token can still be used. Used
// and unknown tokens are indistinguishable.
func (h *Handlers) VerifyInvite(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	invite, err := h.auth.VerifyInvite(r.Context(), token)
	if err != nil {
		response.JSON(w, http.StatusBadRequest, map[string]interface{}{
			"valid": false,
			"error": "Invalid or expired invite token",
		})
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{
		"valid": true,
		"email": invite.Email,
	})
}
