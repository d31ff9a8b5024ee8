package http

import (
	"net/http"

	"github.com/inkwellhq/inkwell/internal/server/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

type signupRequest struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup creates a local account and returns a session envelope.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.AuthService.Signup(r.Context(), req.Fullname, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, session)
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignin authenticates a local account.
func (h *AuthHandler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.AuthService.Signin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, session)
}

type googleAuthRequest struct {
	AccessToken string `json:"access_token"`
}

// HandleGoogleAuth signs in (or provisions) an account from a Google ID
// token.
func (h *AuthHandler) HandleGoogleAuth(w http.ResponseWriter, r *http.Request) {
	var req googleAuthRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.AuthService.GoogleAuth(r.Context(), req.AccessToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, session)
}
