package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsemenov/chatboard/internal/models"
)

// ErrUserMissing is returned by Upsert when the referenced user row does not
// exist (foreign key violation).
var ErrUserMissing = errors.New("user does not exist")

// foreignKeyViolation is the Postgres error code for FK constraint failures.
const foreignKeyViolation = "23503"

// ChatRepository defines the interface for chat collection data operations.
// The collection is stored as one JSONB document per user; serialization
// happens only at this boundary.
type ChatRepository interface {
	// Upsert replaces the user's entire chat collection (last writer wins).
	Upsert(ctx context.Context, userID string, chats models.ChatCollection) error
	// GetByUserID returns the user's chat collection, or an empty collection
	// when none has been saved yet.
	GetByUserID(ctx context.Context, userID string) (models.ChatCollection, error)
}

type chatRepo struct {
	pool *pgxpool.Pool
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &chatRepo{pool: pool}
}

// Upsert inserts or fully overwrites the chat collection document for a user.
// Atomicity of concurrent saves is delegated to the ON CONFLICT clause.
func (r *chatRepo) Upsert(ctx context.Context, userID string, chats models.ChatCollection) error {
	doc, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("failed to encode chat collection: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO chats (user_id, data)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		userID, doc,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return ErrUserMissing
		}
		return err
	}
	return nil
}

// GetByUserID retrieves the chat collection for a user. A missing row is a
// valid state and yields an empty collection, not an error.
func (r *chatRepo) GetByUserID(ctx context.Context, userID string) (models.ChatCollection, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM chats WHERE user_id = $1`, userID,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ChatCollection{}, nil
	}
	if err != nil {
		return nil, err
	}

	var chats models.ChatCollection
	if err := json.Unmarshal(doc, &chats); err != nil {
		return nil, fmt.Errorf("failed to decode chat collection: %w", err)
	}
	return chats, nil
}
