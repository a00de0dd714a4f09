// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dsemenov/chatboard/internal/models"
)

// UserRepository defines the interface for user profile data operations.
type UserRepository interface {
	// Register inserts the user row and the seeded chat collection in a
	// single transaction, so a user row never exists without its chats.
	Register(ctx context.Context, user *models.User, chats models.ChatCollection) error
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type userRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepo{pool: pool}
}

// Register inserts a new user and seeds its chat collection atomically.
func (r *userRepo) Register(ctx context.Context, user *models.User, chats models.ChatCollection) error {
	doc, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("failed to encode chat collection: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO users (id, nickname, about, avatar)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		user.ID, user.Nickname, user.About, user.Avatar,
	).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO chats (user_id, data) VALUES ($1, $2)`,
		user.ID, doc,
	); err != nil {
		return fmt.Errorf("failed to seed chat collection: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a user by ID. Returns (nil, nil) when no row exists.
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, nickname, about, avatar, created_at
		FROM users WHERE id = $1`

	var user models.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Nickname,
		&user.About,
		&user.Avatar,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
