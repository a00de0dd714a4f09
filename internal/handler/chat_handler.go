package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dsemenov/chatboard/internal/models"
	apierrors "github.com/dsemenov/chatboard/internal/pkg/errors"
	"github.com/dsemenov/chatboard/internal/pkg/response"
	"github.com/dsemenov/chatboard/internal/service"
)

// ChatHandler handles chat collection saves on the legacy surface.
type ChatHandler struct {
	chats service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chats service.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// SaveChatsHTTPRequest is the HTTP request body for saving chats.
//
// Chats is a pointer so a missing field can be told apart from an empty
// collection, which is a legitimate save.
type SaveChatsHTTPRequest struct {
	UserID string                 `json:"userId"`
	Chats  *models.ChatCollection `json:"chats"`
}

// SuccessResponse is the generic acknowledgment body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// Save handles POST /api/chats
func (h *ChatHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveChatsHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierrors.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}

	if req.UserID == "" {
		response.ValidationError(w, "userId", "userId is required")
		return
	}
	if req.Chats == nil {
		response.ValidationError(w, "chats", "chats is required")
		return
	}

	if err := h.chats.Save(r.Context(), req.UserID, *req.Chats); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, SuccessResponse{Success: true})
}
