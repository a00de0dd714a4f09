package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dsemenov/chatboard/internal/models"
	apierrors "github.com/dsemenov/chatboard/internal/pkg/errors"
	"github.com/dsemenov/chatboard/internal/repository"
)

func TestChatService_Save(t *testing.T) {
	t.Run("passes the full document to the upsert", func(t *testing.T) {
		chats := new(MockChatRepository)
		doc := models.ChatCollection{
			"default": {Title: "New chat"},
			"work":    {Title: "Work"},
		}
		chats.On("Upsert", mock.Anything, "u-1", doc).Return(nil)

		svc := NewChatService(chats, testLogger())
		require.NoError(t, svc.Save(context.Background(), "u-1", doc))
		chats.AssertExpectations(t)
	})

	t.Run("unknown user maps to not found", func(t *testing.T) {
		chats := new(MockChatRepository)
		chats.On("Upsert", mock.Anything, "ghost", mock.Anything).Return(repository.ErrUserMissing)

		svc := NewChatService(chats, testLogger())
		err := svc.Save(context.Background(), "ghost", models.ChatCollection{})
		require.Error(t, err)
		assert.Equal(t, 404, apierrors.AsAPIError(err).StatusCode)
	})

	t.Run("storage failure maps to storage unavailable", func(t *testing.T) {
		chats := new(MockChatRepository)
		chats.On("Upsert", mock.Anything, "u-1", mock.Anything).Return(errors.New("broken pipe"))

		svc := NewChatService(chats, testLogger())
		err := svc.Save(context.Background(), "u-1", models.ChatCollection{})
		assert.ErrorIs(t, err, error(apierrors.ErrStorageUnavailable))
	})
}

func TestChatService_Get(t *testing.T) {
	t.Run("round-trips the stored collection", func(t *testing.T) {
		chats := new(MockChatRepository)
		doc := models.ChatCollection{
			"default": {Title: "New chat", Messages: []models.Message{{Role: "user", Content: "hi"}}},
		}
		chats.On("GetByUserID", mock.Anything, "u-1").Return(doc, nil)

		svc := NewChatService(chats, testLogger())
		got, err := svc.Get(context.Background(), "u-1")
		require.NoError(t, err)
		assert.Equal(t, doc, got)
	})

	t.Run("storage failure maps to storage unavailable", func(t *testing.T) {
		chats := new(MockChatRepository)
		chats.On("GetByUserID", mock.Anything, "u-1").Return(nil, errors.New("timeout"))

		svc := NewChatService(chats, testLogger())
		_, err := svc.Get(context.Background(), "u-1")
		assert.ErrorIs(t, err, error(apierrors.ErrStorageUnavailable))
	})
}
