package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dsemenov/chatboard/internal/models"
	apierrors "github.com/dsemenov/chatboard/internal/pkg/errors"
	"github.com/dsemenov/chatboard/internal/pkg/response"
	"github.com/dsemenov/chatboard/internal/service"
)

// AuthHandler handles the one-time-code login flow and the session-token
// API surface.
type AuthHandler struct {
	auth        service.AuthService
	chats       service.ChatService
	completions service.CompletionService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth service.AuthService, chats service.ChatService, completions service.CompletionService) *AuthHandler {
	return &AuthHandler{auth: auth, chats: chats, completions: completions}
}

// RequestAuthHTTPRequest is the body for POST /request-auth.
type RequestAuthHTTPRequest struct {
	UserID string `json:"userId"`
}

// RequestAuth handles POST /request-auth
func (h *AuthHandler) RequestAuth(w http.ResponseWriter, r *http.Request) {
	var req RequestAuthHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if req.UserID == "" {
		response.ValidationError(w, "userId", "userId is required")
		return
	}

	if err := h.auth.RequestCode(r.Context(), req.UserID); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, SuccessResponse{Success: true})
}

// VerifyAuthHTTPRequest is the body for POST /verify-auth.
type VerifyAuthHTTPRequest struct {
	UserID string `json:"userId"`
	Code   string `json:"code"`
}

// SessionResponse is returned on successful verification.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// VerifyAuth handles POST /verify-auth
func (h *AuthHandler) VerifyAuth(w http.ResponseWriter, r *http.Request) {
	var req VerifyAuthHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if req.UserID == "" {
		response.ValidationError(w, "userId", "userId is required")
		return
	}
	if req.Code == "" {
		response.ValidationError(w, "code", "code is required")
		return
	}

	session, err := h.auth.Verify(r.Context(), req.UserID, req.Code)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, SessionResponse{Token: session.ID, ExpiresAt: session.ExpiresAt})
}

// TokenHTTPRequest is the body for endpoints keyed only by a session token.
type TokenHTTPRequest struct {
	Token string `json:"token"`
}

// ValidateSessionResponse is returned by POST /validate-session.
type ValidateSessionResponse struct {
	Valid bool         `json:"valid"`
	User  *models.User `json:"user"`
}

// decodeToken reads a token-only body and writes the error response itself
// when the body is unusable.
func decodeToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req TokenHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return "", false
	}
	if req.Token == "" {
		response.ValidationError(w, "token", "token is required")
		return "", false
	}
	return req.Token, true
}

// ValidateSession handles POST /validate-session
func (h *AuthHandler) ValidateSession(w http.ResponseWriter, r *http.Request) {
	token, ok := decodeToken(w, r)
	if !ok {
		return
	}

	user, err := h.auth.Validate(r.Context(), token)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, ValidateSessionResponse{Valid: true, User: user})
}

// ChatsResponse is returned by POST /get-chats.
type ChatsResponse struct {
	Chats models.ChatCollection `json:"chats"`
}

// GetChats handles POST /get-chats
func (h *AuthHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	token, ok := decodeToken(w, r)
	if !ok {
		return
	}

	user, err := h.auth.Validate(r.Context(), token)
	if err != nil {
		response.Error(w, err)
		return
	}

	chats, err := h.chats.Get(r.Context(), user.ID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, ChatsResponse{Chats: chats})
}

// SaveChatsTokenHTTPRequest is the body for POST /save-chats.
type SaveChatsTokenHTTPRequest struct {
	Token string                 `json:"token"`
	Chats *models.ChatCollection `json:"chats"`
}

// SaveChats handles POST /save-chats
func (h *AuthHandler) SaveChats(w http.ResponseWriter, r *http.Request) {
	var req SaveChatsTokenHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if req.Token == "" {
		response.ValidationError(w, "token", "token is required")
		return
	}
	if req.Chats == nil {
		response.ValidationError(w, "chats", "chats is required")
		return
	}

	user, err := h.auth.Validate(r.Context(), req.Token)
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.chats.Save(r.Context(), user.ID, *req.Chats); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, SuccessResponse{Success: true})
}

// AIResponseHTTPRequest is the body for POST /get-ai-response.
type AIResponseHTTPRequest struct {
	Token    string           `json:"token"`
	Messages []models.Message `json:"messages"`
}

// AIResponse is returned by POST /get-ai-response.
type AIResponse struct {
	Message *models.Message `json:"message"`
}

// GetAIResponse handles POST /get-ai-response
func (h *AuthHandler) GetAIResponse(w http.ResponseWriter, r *http.Request) {
	var req AIResponseHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if req.Token == "" {
		response.ValidationError(w, "token", "token is required")
		return
	}
	if len(req.Messages) == 0 {
		response.ValidationError(w, "messages", "messages is required")
		return
	}

	if _, err := h.auth.Validate(r.Context(), req.Token); err != nil {
		response.Error(w, err)
		return
	}

	message, err := h.completions.Complete(r.Context(), req.Messages)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, AIResponse{Message: message})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := decodeToken(w, r)
	if !ok {
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, SuccessResponse{Success: true})
}
