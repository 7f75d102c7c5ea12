package api

import (
	"errors"
	"net/http"
	"strings"

	"pharmacy/m/internal/auth"
)

const (
	msgInvalidCredentials = "Error: Invalid username or password"
	msgUsernameTaken      = "Error: Username is already taken!"
	msgRegistered         = "User registered successfully!"
)

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signinResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	session, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		respondMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, signinResponse{
		AccessToken: session.Token,
		TokenType:   "Bearer",
		ID:          session.User.ID,
		Username:    session.User.Username,
		Email:       session.User.Email,
		Role:        session.User.Role,
	})
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	_, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Role:     req.Role,
	})
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		respondMessage(w, http.StatusConflict, msgUsernameTaken)
	case errors.Is(err, auth.ErrMissingFields):
		respondError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.respondServiceError(w, r, err)
	default:
		respondMessage(w, http.StatusOK, msgRegistered)
	}
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user")
		return
	}
	user, err := h.auth.CurrentUser(r.Context(), username)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}
