package controller

import (
	"net/http"

	"github.com/dealshare/dealshare/internal/http/middleware"
	"github.com/dealshare/dealshare/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WishlistController handles HTTP requests for the per-user wishlist.
type WishlistController struct {
	wishlist *service.WishlistService
}

// NewWishlistController creates a new WishlistController.
func NewWishlistController(wishlist *service.WishlistService) *WishlistController {
	return &WishlistController{wishlist: wishlist}
}

// AddProduct handles POST /wishlist/:productId.
func (wc *WishlistController) AddProduct(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	if err := wc.wishlist.Add(c.Request.Context(), user.ID, productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "product added to wishlist"})
}

// RemoveProduct handles DELETE /wishlist/:productId.
func (wc *WishlistController) RemoveProduct(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	if err := wc.wishlist.Remove(c.Request.Context(), user.ID, productID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product removed from wishlist"})
}

// ListProducts handles GET /wishlist.
func (wc *WishlistController) ListProducts(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	listings, err := wc.wishlist.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	var productResponses []ProductResponse
	for _, listing := range listings {
		productResponses = append(productResponses, toListingResponse(listing))
	}

	c.JSON(http.StatusOK, gin.H{"products": productResponses})
}
