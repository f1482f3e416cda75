package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dealshare/dealshare/internal/apperr"
	"github.com/dealshare/dealshare/internal/model"
	"github.com/dealshare/dealshare/internal/repository"
	"github.com/google/uuid"
)

// UserRepository implements repository.UserRepository for owner lookups.
type UserRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *UserRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// FindByID retrieves a single user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT id, username, email, is_admin, updated_at, created_at FROM users WHERE id = $1`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var result model.User
	err = stmt.QueryRowContext(ctx, id).Scan(
		&result.ID, &result.Username, &result.Email, &result.IsAdmin,
		&result.UpdatedAt, &result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &result, nil
}
