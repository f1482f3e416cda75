package repository

import (
	"fmt"

	"github.com/dealshare/dealshare/internal/apperr"
	"github.com/dealshare/dealshare/internal/model"
	"github.com/google/uuid"
)

// SortKey selects the result ordering of a catalog query.
type SortKey string

const (
	// SortNewest orders by created_at descending, id descending as the
	// deterministic tie-break. This is the default.
	SortNewest SortKey = "newest"
	// SortMostViewed orders by view_count descending, used by the
	// analytics views.
	SortMostViewed SortKey = "views"
)

// PriceRange is an inclusive bound on sale price; either side optional.
type PriceRange struct {
	Min *float64
	Max *float64
}

// ProductFilter is the typed query configuration for catalog listings.
// All fields are optional and combine with logical AND.
type ProductFilter struct {
	Status     model.ProductStatus
	Price      PriceRange
	Categories []string
	Search     string
	CreatedBy  uuid.UUID
	Sort       SortKey
	Limit      int
	Paginator  *Paginator
}

// Validate rejects malformed filters before they reach the store.
func (f *ProductFilter) Validate() error {
	if f.Price.Min != nil && *f.Price.Min < 0 {
		return fmt.Errorf("%w: min price must be non-negative", apperr.ErrInvalidFilter)
	}
	if f.Price.Max != nil && *f.Price.Max < 0 {
		return fmt.Errorf("%w: max price must be non-negative", apperr.ErrInvalidFilter)
	}
	if f.Price.Min != nil && f.Price.Max != nil && *f.Price.Min > *f.Price.Max {
		return fmt.Errorf("%w: min price exceeds max price", apperr.ErrInvalidFilter)
	}
	if f.Status != "" && !f.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidFilter, f.Status)
	}
	switch f.Sort {
	case "", SortNewest, SortMostViewed:
	default:
		return fmt.Errorf("%w: unknown sort key %q", apperr.ErrInvalidFilter, f.Sort)
	}
	if f.Paginator != nil && f.Sort == SortMostViewed {
		return fmt.Errorf("%w: cursor pagination requires newest-first ordering", apperr.ErrInvalidFilter)
	}
	return nil
}

// ApplyPagination sets the page size and decodes an optional cursor token.
func (f *ProductFilter) ApplyPagination(limit int32, token string) error {
	queryLimit := DefaultPaginationLimit
	if limit > 0 {
		queryLimit = min(maxPaginationLimit, int(limit))
	}
	f.Limit = queryLimit

	if token == "" {
		return nil
	}
	paginator, err := DecodePageToken(token)
	if err != nil {
		return fmt.Errorf("%w: bad page token", apperr.ErrInvalidFilter)
	}
	f.Paginator = paginator
	return nil
}
