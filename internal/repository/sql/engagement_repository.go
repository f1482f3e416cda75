package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dealshare/dealshare/internal/model"
	"github.com/dealshare/dealshare/internal/repository"
	"github.com/google/uuid"
)

// EngagementRepository implements repository.EngagementRepository on the
// engagement_choices table.
type EngagementRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewEngagementRepository creates a new EngagementRepository instance.
func NewEngagementRepository(db *sql.DB) repository.EngagementRepository {
	return &EngagementRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *EngagementRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// FindChoice returns the stored choice for (user, product), or the empty
// action when none is recorded.
func (r *EngagementRepository) FindChoice(ctx context.Context, userID, productID uuid.UUID) (model.EngagementAction, error) {
	query := `SELECT choice FROM engagement_choices WHERE user_id = $1 AND product_id = $2`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var choice model.EngagementAction
	err = stmt.QueryRowContext(ctx, userID, productID).Scan(&choice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("failed to query engagement choice: %w", err)
	}

	return choice, nil
}

// SetChoice upserts the choice for (user, product).
func (r *EngagementRepository) SetChoice(ctx context.Context, userID, productID uuid.UUID, action model.EngagementAction) error {
	query := `INSERT INTO engagement_choices (user_id, product_id, choice, updated_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id, product_id)
	          DO UPDATE SET choice = EXCLUDED.choice, updated_at = EXCLUDED.updated_at`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, userID, productID, action, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert engagement choice: %w", err)
	}

	return nil
}

// ClearChoice removes the stored choice for (user, product). Clearing an
// absent choice is a no-op.
func (r *EngagementRepository) ClearChoice(ctx context.Context, userID, productID uuid.UUID) error {
	query := `DELETE FROM engagement_choices WHERE user_id = $1 AND product_id = $2`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to delete engagement choice: %w", err)
	}

	return nil
}
