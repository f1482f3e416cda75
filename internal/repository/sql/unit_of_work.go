package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dealshare/dealshare/internal/repository"
)

// UnitOfWork runs callbacks with product, engagement and event
// repositories bound to a single transaction. Per-product mutations
// serialize on the locked product row inside that transaction.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork creates a new UnitOfWork over the given database.
func NewUnitOfWork(db *sql.DB) repository.UnitOfWork {
	return &UnitOfWork{db: db}
}

// WithinTransaction executes fn with transaction-scoped repositories. The
// transaction commits when fn returns nil and rolls back otherwise.
func (u *UnitOfWork) WithinTransaction(ctx context.Context, fn func(tx repository.RepositorySet) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	set := repository.RepositorySet{
		Products:   &ProductRepository{db: u.db, txn: tx},
		Engagement: &EngagementRepository{db: u.db, txn: tx},
		Events:     &EventRepository{db: u.db, txn: tx},
	}

	if err := fn(set); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
