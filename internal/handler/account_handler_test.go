package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsemenov/chatboard/internal/models"
	apierrors "github.com/dsemenov/chatboard/internal/pkg/errors"
	"github.com/dsemenov/chatboard/internal/service"
)

// mockAccountService is a mock implementation of AccountService for testing.
type mockAccountService struct {
	registerFunc func(ctx context.Context, req service.RegisterRequest) (*models.User, models.ChatCollection, error)
	lookupFunc   func(ctx context.Context, userID string) (*models.User, models.ChatCollection, error)
}

func (m *mockAccountService) Register(ctx context.Context, req service.RegisterRequest) (*models.User, models.ChatCollection, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, nil, nil
}

func (m *mockAccountService) Lookup(ctx context.Context, userID string) (*models.User, models.ChatCollection, error) {
	if m.lookupFunc != nil {
		return m.lookupFunc(ctx, userID)
	}
	return nil, nil, nil
}

func newAccountRouter(svc service.AccountService) *chi.Mux {
	h := NewAccountHandler(svc)
	r := chi.NewRouter()
	r.Post("/api/register", h.Register)
	r.Get("/api/user/{id}", h.Lookup)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody []byte
	if body != nil {
		var err error
		reqBody, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAccountHandler_Register(t *testing.T) {
	t.Run("creates user with seeded chats", func(t *testing.T) {
		svc := &mockAccountService{
			registerFunc: func(_ context.Context, req service.RegisterRequest) (*models.User, models.ChatCollection, error) {
				user := &models.User{
					ID:        "01J8ZYXW0000000000000ALEX0",
					Nickname:  req.Nickname,
					CreatedAt: time.Now().UTC(),
				}
				chats := models.ChatCollection{
					"default": {
						Title: "New chat",
						Messages: []models.Message{
							{Role: "assistant", Content: "Welcome, " + req.Nickname + "! Ask me anything to get started."},
						},
						CreatedAt: time.Now().UTC(),
					},
				}
				return user, chats, nil
			},
		}

		rec := doJSON(t, newAccountRouter(svc), http.MethodPost, "/api/register", map[string]string{"nickname": "Alex"})

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp AccountResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Alex", resp.User.Nickname)
		require.Contains(t, resp.Chats, "default")
		require.Len(t, resp.Chats["default"].Messages, 1)
		assert.Contains(t, resp.Chats["default"].Messages[0].Content, "Alex")
	})

	t.Run("missing nickname is rejected without a write", func(t *testing.T) {
		called := false
		svc := &mockAccountService{
			registerFunc: func(context.Context, service.RegisterRequest) (*models.User, models.ChatCollection, error) {
				called = true
				return nil, nil, nil
			},
		}

		rec := doJSON(t, newAccountRouter(svc), http.MethodPost, "/api/register", map[string]string{"about": "no name"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, called)
		assert.Contains(t, rec.Body.String(), "validation_error")
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		router := newAccountRouter(&mockAccountService{})

		req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage failure maps to 500", func(t *testing.T) {
		svc := &mockAccountService{
			registerFunc: func(context.Context, service.RegisterRequest) (*models.User, models.ChatCollection, error) {
				return nil, nil, apierrors.ErrStorageUnavailable
			},
		}

		rec := doJSON(t, newAccountRouter(svc), http.MethodPost, "/api/register", map[string]string{"nickname": "Alex"})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "storage_unavailable")
	})
}

func TestAccountHandler_Lookup(t *testing.T) {
	t.Run("returns user with chats", func(t *testing.T) {
		svc := &mockAccountService{
			lookupFunc: func(_ context.Context, userID string) (*models.User, models.ChatCollection, error) {
				return &models.User{ID: userID, Nickname: "Alex"}, models.ChatCollection{
					"default": {Title: "New chat"},
					"work":    {Title: "Work"},
				}, nil
			},
		}

		rec := doJSON(t, newAccountRouter(svc), http.MethodGet, "/api/user/u-123", nil)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp AccountResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "u-123", resp.User.ID)
		assert.Len(t, resp.Chats, 2)
		assert.Contains(t, resp.Chats, "default")
		assert.Contains(t, resp.Chats, "work")
	})

	t.Run("never-saved chats come back as empty object", func(t *testing.T) {
		svc := &mockAccountService{
			lookupFunc: func(_ context.Context, userID string) (*models.User, models.ChatCollection, error) {
				return &models.User{ID: userID, Nickname: "Alex"}, models.ChatCollection{}, nil
			},
		}

		rec := doJSON(t, newAccountRouter(svc), http.MethodGet, "/api/user/u-123", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"chats":{}`)
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		svc := &mockAccountService{
			lookupFunc: func(context.Context, string) (*models.User, models.ChatCollection, error) {
				return nil, nil, apierrors.NewNotFoundError("User")
			},
		}

		rec := doJSON(t, newAccountRouter(svc), http.MethodGet, "/api/user/nope", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "not_found")
	})
}
