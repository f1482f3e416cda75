package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dealshare/dealshare/internal/apperr"
	"github.com/dealshare/dealshare/internal/model"
	"github.com/dealshare/dealshare/internal/repository"
	"github.com/google/uuid"
)

const productColumns = `id, status, deal_url, title, description, category, store,
	sale_price, list_price, images, created_by,
	COALESCE(like_count, 0), COALESCE(dislike_count, 0), COALESCE(view_count, 0),
	updated_at, created_at`

// ProductRepository implements repository.ProductRepository on PostgreSQL.
type ProductRepository struct {
	db  *sql.DB
	txn *sql.Tx
}

// NewProductRepository creates a new ProductRepository instance.
func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &ProductRepository{db: db}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *ProductRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner, product *model.Product) error {
	var images []byte
	err := row.Scan(
		&product.ID, &product.Status, &product.DealURL, &product.Title,
		&product.Description, &product.Category, &product.Store,
		&product.SalePrice, &product.ListPrice, &images, &product.CreatedBy,
		&product.LikeCount, &product.DislikeCount, &product.ViewCount,
		&product.UpdatedAt, &product.CreatedAt,
	)
	if err != nil {
		return err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &product.Images); err != nil {
			return fmt.Errorf("failed to decode images column: %w", err)
		}
	}
	return nil
}

func marshalImages(images []model.Image) ([]byte, error) {
	if images == nil {
		images = []model.Image{}
	}
	encoded, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode images column: %w", err)
	}
	return encoded, nil
}

// Create inserts a new product into the database.
func (r *ProductRepository) Create(ctx context.Context, product *model.Product) error {
	if product.ID == uuid.Nil {
		product.InitMeta()
	}

	images, err := marshalImages(product.Images)
	if err != nil {
		return err
	}

	query := `INSERT INTO products (id, status, deal_url, title, description, category, store,
	          sale_price, list_price, images, created_by, like_count, dislike_count, view_count,
	          updated_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		product.ID, product.Status, product.DealURL, product.Title,
		product.Description, product.Category, product.Store,
		product.SalePrice, product.ListPrice, images, product.CreatedBy,
		product.LikeCount, product.DislikeCount, product.ViewCount,
		product.UpdatedAt, product.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

func (r *ProductRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var result model.Product
	if err := scanProduct(stmt.QueryRowContext(ctx, id), &result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &result, nil
}

// FindByID retrieves a single product by ID.
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate retrieves a product and locks its row until the
// enclosing transaction finishes.
func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return r.findByID(ctx, id, true)
}

// FindListingByID retrieves a product joined with its owner's username.
func (r *ProductRepository) FindListingByID(ctx context.Context, id uuid.UUID) (*repository.ProductListing, error) {
	query := `SELECT p.id, p.status, p.deal_url, p.title, p.description, p.category, p.store,
	       p.sale_price, p.list_price, p.images, p.created_by,
	       COALESCE(p.like_count, 0), COALESCE(p.dislike_count, 0), COALESCE(p.view_count, 0),
	       p.updated_at, p.created_at, u.username
	FROM products p JOIN users u ON u.id = p.created_by WHERE p.id = $1`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var listing repository.ProductListing
	var images []byte
	err = stmt.QueryRowContext(ctx, id).Scan(
		&listing.ID, &listing.Status, &listing.DealURL, &listing.Title,
		&listing.Description, &listing.Category, &listing.Store,
		&listing.SalePrice, &listing.ListPrice, &images, &listing.CreatedBy,
		&listing.LikeCount, &listing.DislikeCount, &listing.ViewCount,
		&listing.UpdatedAt, &listing.CreatedAt, &listing.Username,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &listing.Images); err != nil {
			return nil, fmt.Errorf("failed to decode images column: %w", err)
		}
	}

	return &listing, nil
}

// List retrieves products matching the filter, joined with owner usernames.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]repository.ProductListing, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT p.id, p.status, p.deal_url, p.title, p.description, p.category, p.store,
	       p.sale_price, p.list_price, p.images, p.created_by,
	       COALESCE(p.like_count, 0), COALESCE(p.dislike_count, 0), COALESCE(p.view_count, 0),
	       p.updated_at, p.created_at, u.username
	FROM products p JOIN users u ON u.id = p.created_by WHERE 1=1`)

	var args []interface{}
	argIndex := 1

	if filter.Status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}
	if filter.Price.Min != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.sale_price >= $%d", argIndex))
		args = append(args, *filter.Price.Min)
		argIndex++
	}
	if filter.Price.Max != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.sale_price <= $%d", argIndex))
		args = append(args, *filter.Price.Max)
		argIndex++
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, category := range filter.Categories {
			placeholders[i] = fmt.Sprintf("$%d", argIndex)
			args = append(args, category)
			argIndex++
		}
		queryBuilder.WriteString(" AND p.category IN (" + strings.Join(placeholders, ", ") + ")")
	}
	if filter.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (p.title ILIKE $%d OR p.description ILIKE $%d)", argIndex, argIndex+1))
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
		argIndex += 2
	}
	if filter.CreatedBy != uuid.Nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND p.created_by = $%d", argIndex))
		args = append(args, filter.CreatedBy)
		argIndex++
	}
	if filter.Paginator != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND (p.created_at, p.id) < ($%d, $%d)", argIndex, argIndex+1))
		args = append(args, filter.Paginator.LastCreatedAt, filter.Paginator.LastID)
		argIndex += 2
	}

	if filter.Sort == repository.SortMostViewed {
		queryBuilder.WriteString(" ORDER BY p.view_count DESC, p.created_at DESC, p.id DESC")
	} else {
		queryBuilder.WriteString(" ORDER BY p.created_at DESC, p.id DESC")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = repository.DefaultPaginationLimit
	}
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argIndex))
	args = append(args, limit)

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, queryBuilder.String())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	listings, err := scanListings(rows)
	if err != nil {
		return nil, err
	}

	return listings, nil
}

// Update persists the mutable product fields.
func (r *ProductRepository) Update(ctx context.Context, product *model.Product) error {
	images, err := marshalImages(product.Images)
	if err != nil {
		return err
	}

	query := `UPDATE products SET deal_url = $1, title = $2, description = $3, category = $4,
	          store = $5, sale_price = $6, list_price = $7, images = $8, updated_at = $9
	          WHERE id = $10`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		product.DealURL, product.Title, product.Description, product.Category,
		product.Store, product.SalePrice, product.ListPrice, images, time.Now(),
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %s: %w", product.ID, apperr.ErrNotFound)
	}

	return nil
}

// UpdateStatus persists a moderation state change.
func (r *ProductRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ProductStatus) error {
	query := `UPDATE products SET status = $1, updated_at = $2 WHERE id = $3`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}

	return nil
}

// ApplyEngagementDelta adjusts both counters in one statement, clamped at
// zero, and returns the updated row.
func (r *ProductRepository) ApplyEngagementDelta(ctx context.Context, id uuid.UUID, likeDelta, dislikeDelta int) (*model.Product, error) {
	query := `UPDATE products
	          SET like_count = GREATEST(0, like_count + $1),
	              dislike_count = GREATEST(0, dislike_count + $2),
	              updated_at = $3
	          WHERE id = $4
	          RETURNING ` + productColumns

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	var result model.Product
	if err := scanProduct(stmt.QueryRowContext(ctx, likeDelta, dislikeDelta, time.Now(), id), &result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update engagement counters: %w", err)
	}

	return &result, nil
}

// IncrementView bumps the view counter by one and returns the updated row.
func (r *ProductRepository) IncrementView(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `UPDATE products SET view_count = view_count + 1, updated_at = $1
	          WHERE id = $2
	          RETURNING ` + productColumns

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare update statement: %w", err)
	}
	defer stmt.Close()

	var result model.Product
	if err := scanProduct(stmt.QueryRowContext(ctx, time.Now(), id), &result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to increment view count: %w", err)
	}

	return &result, nil
}

// DeleteByID deletes a product by ID.
func (r *ProductRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`

	executor := r.getExecutor()
	stmt, err := executor.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}

	return nil
}
