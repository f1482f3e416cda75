package repository

import (
	"context"

	"github.com/dealshare/dealshare/internal/model"
	"github.com/google/uuid"
)

// ProductListing is a product row joined with its owner's display name,
// the shape the catalog serves to clients.
type ProductListing struct {
	model.Product
	Username string
}

// ProductRepository manages product rows. Implementations wrap missing
// rows in apperr.ErrNotFound.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// FindByIDForUpdate locks the product row for the remainder of the
	// enclosing transaction, serializing mutations per product.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindListingByID(ctx context.Context, id uuid.UUID) (*ProductListing, error)
	List(ctx context.Context, filter ProductFilter) ([]ProductListing, error)
	Update(ctx context.Context, product *model.Product) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ProductStatus) error
	// ApplyEngagementDelta adjusts the like/dislike counters atomically,
	// clamping both at zero, and returns the updated product.
	ApplyEngagementDelta(ctx context.Context, id uuid.UUID, likeDelta, dislikeDelta int) (*model.Product, error)
	// IncrementView bumps the view counter by one and returns the
	// updated product.
	IncrementView(ctx context.Context, id uuid.UUID) (*model.Product, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// EngagementRepository stores the per-(user,product) choice. FindChoice
// returns the empty action when no choice is recorded.
type EngagementRepository interface {
	FindChoice(ctx context.Context, userID, productID uuid.UUID) (model.EngagementAction, error)
	SetChoice(ctx context.Context, userID, productID uuid.UUID, action model.EngagementAction) error
	ClearChoice(ctx context.Context, userID, productID uuid.UUID) error
}

// UserRepository resolves owner references for display.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// WishlistRepository keeps per-user saved products, keyed (user, product).
type WishlistRepository interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]ProductListing, error)
}

// EventRepository stores outbox events for the moderation event stream.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	ListPending(ctx context.Context, limit int) ([]*model.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.EventStatus) error
}

// RepositorySet bundles the repositories bound to one transaction.
type RepositorySet struct {
	Products   ProductRepository
	Engagement EngagementRepository
	Events     EventRepository
}

// UnitOfWork executes a function with a transaction-scoped RepositorySet;
// the transaction commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(tx RepositorySet) error) error
}
