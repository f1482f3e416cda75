package service

import (
	"context"

	"github.com/dealshare/dealshare/internal/auth"
	"github.com/dealshare/dealshare/internal/model"
	"github.com/dealshare/dealshare/internal/repository"
	"github.com/google/uuid"
)

// CatalogService builds and executes the filtered views served to the
// different audiences: the public approved feed, the moderation queue
// and per-user listings.
type CatalogService struct {
	products repository.ProductRepository
	users    repository.UserRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products repository.ProductRepository, users repository.UserRepository) *CatalogService {
	return &CatalogService{products: products, users: users}
}

// PendingQueue lists products for the moderation queue. The status
// defaults to pending but an explicit status wins.
func (c *CatalogService) PendingQueue(ctx context.Context, filter repository.ProductFilter) ([]repository.ProductListing, error) {
	if filter.Status == "" {
		filter.Status = model.StatusPending
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return c.products.List(ctx, filter)
}

// ApprovedFeed lists the public feed. Non-admins are always pinned to
// approved products no matter what status the request carries; admins
// may filter freely.
func (c *CatalogService) ApprovedFeed(ctx context.Context, actor *auth.AuthenticatedUser, filter repository.ProductFilter) ([]repository.ProductListing, error) {
	if actor == nil || !actor.IsAdmin {
		filter.Status = model.StatusApproved
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return c.products.List(ctx, filter)
}

// UserListings lists one user's products as shown on their public
// profile: approved items only, for every viewer. The owner must exist.
func (c *CatalogService) UserListings(ctx context.Context, createdBy uuid.UUID, filter repository.ProductFilter) ([]repository.ProductListing, error) {
	if _, err := c.users.FindByID(ctx, createdBy); err != nil {
		return nil, err
	}
	filter.CreatedBy = createdBy
	filter.Status = model.StatusApproved
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return c.products.List(ctx, filter)
}

// Get returns a single product with its owner's display name.
func (c *CatalogService) Get(ctx context.Context, id uuid.UUID) (*repository.ProductListing, error) {
	return c.products.FindListingByID(ctx, id)
}
