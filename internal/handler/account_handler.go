// Package handler provides HTTP handlers for the chatboard API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dsemenov/chatboard/internal/models"
	apierrors "github.com/dsemenov/chatboard/internal/pkg/errors"
	"github.com/dsemenov/chatboard/internal/pkg/response"
	"github.com/dsemenov/chatboard/internal/service"
)

// AccountHandler handles registration and user lookup requests.
type AccountHandler struct {
	accounts service.AccountService
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accounts service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RegisterHTTPRequest is the HTTP request body for registration.
type RegisterHTTPRequest struct {
	Nickname string  `json:"nickname"`
	About    *string `json:"about,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

// AccountResponse is the body returned by register and lookup.
type AccountResponse struct {
	User  *models.User          `json:"user"`
	Chats models.ChatCollection `json:"chats"`
}

// Register handles POST /api/register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}

	if req.Nickname == "" {
		response.ValidationError(w, "nickname", "nickname is required")
		return
	}

	user, chats, err := h.accounts.Register(r.Context(), service.RegisterRequest{
		Nickname: req.Nickname,
		About:    req.About,
		Avatar:   req.Avatar,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, AccountResponse{User: user, Chats: chats})
}

// Lookup handles GET /api/user/{id}
func (h *AccountHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		response.ValidationError(w, "id", "user id is required")
		return
	}

	user, chats, err := h.accounts.Lookup(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, AccountResponse{User: user, Chats: chats})
}
