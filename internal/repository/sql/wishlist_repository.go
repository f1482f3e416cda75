package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dealshare/dealshare/internal/apperr"
	"github.com/dealshare/dealshare/internal/repository"
	"github.com/google/uuid"
)

// WishlistRepository implements repository.WishlistRepository on the
// wishlist_items table.
type WishlistRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewWishlistRepository creates a new WishlistRepository instance.
func NewWishlistRepository(db *sql.DB) repository.WishlistRepository {
	return &WishlistRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *WishlistRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// Add saves a product to the user's wishlist. Adding a product that is
// already present returns apperr.ErrAlreadyExists.
func (r *WishlistRepository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	query := `INSERT INTO wishlist_items (user_id, product_id, created_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (user_id, product_id) DO NOTHING`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, userID, productID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to insert wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %s is already wishlisted: %w", productID, apperr.ErrAlreadyExists)
	}

	return nil
}

// Remove deletes a product from the user's wishlist.
func (r *WishlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	query := `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %s is not wishlisted: %w", productID, apperr.ErrNotFound)
	}

	return nil
}

// ListByUser returns the user's wishlisted products, most recently saved
// first, joined with owner usernames.
func (r *WishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]repository.ProductListing, error) {
	query := `SELECT p.id, p.status, p.deal_url, p.title, p.description, p.category, p.store,
	       p.sale_price, p.list_price, p.images, p.created_by,
	       COALESCE(p.like_count, 0), COALESCE(p.dislike_count, 0), COALESCE(p.view_count, 0),
	       p.updated_at, p.created_at, u.username
	FROM wishlist_items w
	JOIN products p ON p.id = w.product_id
	JOIN users u ON u.id = p.created_by
	WHERE w.user_id = $1
	ORDER BY w.created_at DESC, p.id DESC`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	listings, err := scanListings(rows)
	if err != nil {
		return nil, err
	}

	return listings, nil
}

func scanListings(rows *sql.Rows) ([]repository.ProductListing, error) {
	var listings []repository.ProductListing
	for rows.Next() {
		var listing repository.ProductListing
		var images []byte
		err := rows.Scan(
			&listing.ID, &listing.Status, &listing.DealURL, &listing.Title,
			&listing.Description, &listing.Category, &listing.Store,
			&listing.SalePrice, &listing.ListPrice, &images, &listing.CreatedBy,
			&listing.LikeCount, &listing.DislikeCount, &listing.ViewCount,
			&listing.UpdatedAt, &listing.CreatedAt, &listing.Username,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if len(images) > 0 {
			if err := json.Unmarshal(images, &listing.Images); err != nil {
				return nil, fmt.Errorf("failed to decode images column: %w", err)
			}
		}
		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return listings, nil
}
