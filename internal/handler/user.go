package handler

import (
	"net/http"

	"eventhub/internal/model"
	"eventhub/internal/service"
	"eventhub/internal/token"
)

// UserHandler holds the HTTP handlers for account registration and login.
type UserHandler struct {
	users  *service.UserService
	tokens *token.Manager
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(users *service.UserService, tokens *token.Manager) *UserHandler {
	return &UserHandler{users: users, tokens: tokens}
}

// Register handles POST /api/user/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/user/login
// On success it returns a bearer token valid for the manager's TTL.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	user, err := h.users.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	signed, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.LoginResponse{Token: signed})
}
