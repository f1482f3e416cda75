package http

import (
	"github.com/dealshare/dealshare/internal/http/controller"
	"github.com/dealshare/dealshare/internal/http/middleware"
	"github.com/gin-gonic/gin"
)

// InitRouter wires the HTTP surface. Gin keeps one routing tree per
// method and rejects static segments next to wildcards, so the catalog
// views (/pending, /approved, /userProducts/...) share the /:id routes
// and the product controller dispatches on the first segment.
func InitRouter(
	server *gin.Engine,
	mw *middleware.Middleware,
	ctr *controller.Controller,
	productCtr *controller.ProductController,
	wishlistCtr *controller.WishlistController,
) *gin.Engine {
	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery())

	server.GET("/ping", ctr.Ping)

	// Product endpoints
	products := server.Group("/products")
	{
		products.POST("", mw.RequireAuth(), productCtr.CreateProduct)
		products.GET("/:id", mw.OptionalAuth(), productCtr.GetProduct)
		products.GET("/:id/:createdBy", productCtr.ListUserProducts)
		products.PUT("/:id", mw.RequireAuth(), productCtr.UpdateProduct)
		products.PUT("/:id/:action", mw.RequireAuth(), productCtr.ToggleEngagement)
		products.PUT("/:id/:action/:status", mw.RequireAuth(), productCtr.ModerateProduct)
		products.PATCH("/:id/view", productCtr.IncrementView)
		products.DELETE("/:id", mw.RequireAuth(), productCtr.DeleteProduct)
	}

	// Wishlist endpoints
	wishlist := server.Group("/wishlist")
	wishlist.Use(mw.RequireAuth())
	{
		wishlist.GET("", wishlistCtr.ListProducts)
		wishlist.POST("/:productId", wishlistCtr.AddProduct)
		wishlist.DELETE("/:productId", wishlistCtr.RemoveProduct)
	}

	return server
}
