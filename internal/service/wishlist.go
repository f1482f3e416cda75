package service

import (
	"context"

	"github.com/dealshare/dealshare/internal/repository"
	"github.com/google/uuid"
)

// WishlistService manages per-user saved deals.
type WishlistService struct {
	products repository.ProductRepository
	wishlist repository.WishlistRepository
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(products repository.ProductRepository, wishlist repository.WishlistRepository) *WishlistService {
	return &WishlistService{
		products: products,
		wishlist: wishlist,
	}
}

// Add saves a product to the user's wishlist. The product must exist;
// duplicates are rejected with apperr.ErrAlreadyExists.
func (w *WishlistService) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := w.products.FindByID(ctx, productID); err != nil {
		return err
	}
	return w.wishlist.Add(ctx, userID, productID)
}

// Remove drops a product from the user's wishlist.
func (w *WishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return w.wishlist.Remove(ctx, userID, productID)
}

// List returns the user's wishlisted products.
func (w *WishlistService) List(ctx context.Context, userID uuid.UUID) ([]repository.ProductListing, error) {
	return w.wishlist.ListByUser(ctx, userID)
}
