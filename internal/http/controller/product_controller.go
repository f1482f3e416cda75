package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dealshare/dealshare/internal/apperr"
	"github.com/dealshare/dealshare/internal/auth"
	"github.com/dealshare/dealshare/internal/http/middleware"
	"github.com/dealshare/dealshare/internal/media"
	"github.com/dealshare/dealshare/internal/model"
	"github.com/dealshare/dealshare/internal/repository"
	"github.com/dealshare/dealshare/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// imagesFormField is the multipart field carrying the product images.
const imagesFormField = "images"

// ProductController handles HTTP requests for product operations.
type ProductController struct {
	submission *service.SubmissionService
	moderation *service.ModerationEngine
	engagement *service.EngagementTracker
	catalog    *service.CatalogService
}

// NewProductController creates a new ProductController with the given services.
func NewProductController(
	submission *service.SubmissionService,
	moderation *service.ModerationEngine,
	engagement *service.EngagementTracker,
	catalog *service.CatalogService,
) *ProductController {
	return &ProductController{
		submission: submission,
		moderation: moderation,
		engagement: engagement,
		catalog:    catalog,
	}
}

// ImageResponse represents one uploaded product image.
type ImageResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// ProductResponse represents the response body for a product.
type ProductResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	DealURL      string          `json:"dealUrl"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Store        string          `json:"store"`
	SalePrice    float64         `json:"salePrice"`
	ListPrice    float64         `json:"listPrice"`
	Images       []ImageResponse `json:"images"`
	CreatedBy    string          `json:"createdBy"`
	Username     string          `json:"username,omitempty"`
	LikeCount    int             `json:"likeCount"`
	DislikeCount int             `json:"dislikeCount"`
	ViewCount    int             `json:"viewCount"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

// CreateProduct handles the HTTP POST request for submitting a new deal.
// The body is multipart form data; images arrive under the "images" field.
func (pc *ProductController) CreateProduct(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	input, err := submitInputFromForm(c)
	if err != nil {
		respondError(c, err)
		return
	}

	files, err := formFiles(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed multipart body"})
		return
	}

	product, err := pc.submission.Submit(c.Request.Context(), user.ID, input, files)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toProductResponse(product))
}

// GetProduct handles GET /products/:id. The first path segment doubles as
// the catalog selector because gin routes cannot mix static and wildcard
// siblings: "pending" and "approved" serve the list views, anything else
// must be a product ID.
func (pc *ProductController) GetProduct(c *gin.Context) {
	switch c.Param("id") {
	case "pending":
		pc.listPending(c)
		return
	case "approved":
		pc.listApproved(c)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	listing, err := pc.catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toListingResponse(*listing))
}

// ListUserProducts handles GET /products/userProducts/:createdBy.
func (pc *ProductController) ListUserProducts(c *gin.Context) {
	if c.Param("id") != "userProducts" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	createdBy, err := uuid.Parse(c.Param("createdBy"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	filter, err := filterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	listings, err := pc.catalog.UserListings(c.Request.Context(), createdBy, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toListResponse(listings, filter))
}

// UpdateProduct handles the HTTP PUT request for editing a deal. Only
// allow-listed fields are read from the form; new images replace the old
// set wholesale.
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	input, err := updateInputFromForm(c)
	if err != nil {
		respondError(c, err)
		return
	}

	files, err := formFiles(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed multipart body"})
		return
	}

	product, err := pc.submission.Update(c.Request.Context(), user, id, input, files)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// ToggleEngagement handles PUT /products/:id/:action for like/dislike
// toggles. Unknown actions are rejected by the tracker.
func (pc *ProductController) ToggleEngagement(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	action := model.EngagementAction(c.Param("action"))
	product, err := pc.engagement.Toggle(c.Request.Context(), user.ID, id, action)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// ModerateProduct handles PUT /products/:id/update/:status with an admin
// approve/reject decision.
func (pc *ProductController) ModerateProduct(c *gin.Context) {
	if c.Param("action") != "update" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	status := model.ProductStatus(c.Param("status"))
	product, err := pc.moderation.Moderate(c.Request.Context(), user, id, status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

// DeleteProduct handles the HTTP DELETE request for deleting a product by ID.
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	if err := pc.moderation.Delete(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
}

// IncrementView handles PATCH /products/:id/view. Views count every call;
// no identity is required.
func (pc *ProductController) IncrementView(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	product, err := pc.engagement.IncrementView(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toProductResponse(product))
}

func (pc *ProductController) listPending(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	listings, err := pc.catalog.PendingQueue(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toListResponse(listings, filter))
}

func (pc *ProductController) listApproved(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var actor *auth.AuthenticatedUser
	if user, ok := middleware.CurrentUser(c); ok {
		actor = &user
	}

	listings, err := pc.catalog.ApprovedFeed(c.Request.Context(), actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toListResponse(listings, filter))
}

// ListQuery represents the query parameters accepted by the list views.
type ListQuery struct {
	Min        *float64 `form:"min"`
	Max        *float64 `form:"max"`
	Categories []string `form:"categories"`
	Search     string   `form:"search"`
	Status     string   `form:"status"`
	Sort       string   `form:"sort"`
	Limit      int32    `form:"limit"`
	Token      string   `form:"token"`
}

// ListProductsResponse represents the response body for the list views.
type ListProductsResponse struct {
	Products      []ProductResponse `json:"products"`
	NextPageToken string            `json:"next_page_token,omitempty"`
}

func filterFromQuery(c *gin.Context) (repository.ProductFilter, error) {
	var req ListQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		return repository.ProductFilter{}, apperr.Validationf("query", "malformed query parameters")
	}

	filter := repository.ProductFilter{
		Status:     model.ProductStatus(req.Status),
		Price:      repository.PriceRange{Min: req.Min, Max: req.Max},
		Categories: splitCategories(req.Categories),
		Search:     req.Search,
		Sort:       repository.SortKey(req.Sort),
	}
	if err := filter.ApplyPagination(req.Limit, req.Token); err != nil {
		return repository.ProductFilter{}, err
	}
	return filter, nil
}

// splitCategories accepts both repeated parameters and comma-separated
// lists, e.g. ?categories=tech&categories=home or ?categories=tech,home.
func splitCategories(raw []string) []string {
	var categories []string
	for _, value := range raw {
		for _, category := range strings.Split(value, ",") {
			category = strings.TrimSpace(category)
			if category != "" {
				categories = append(categories, category)
			}
		}
	}
	return categories
}

func submitInputFromForm(c *gin.Context) (service.SubmitInput, error) {
	salePrice, err := requiredPriceField(c, "salePrice")
	if err != nil {
		return service.SubmitInput{}, err
	}
	listPrice, err := requiredPriceField(c, "listPrice")
	if err != nil {
		return service.SubmitInput{}, err
	}

	return service.SubmitInput{
		DealURL:     c.PostForm("dealUrl"),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Store:       c.PostForm("store"),
		SalePrice:   salePrice,
		ListPrice:   listPrice,
	}, nil
}

func updateInputFromForm(c *gin.Context) (service.UpdateInput, error) {
	var input service.UpdateInput
	input.DealURL = optionalFormField(c, "dealUrl")
	input.Title = optionalFormField(c, "title")
	input.Description = optionalFormField(c, "description")
	input.Category = optionalFormField(c, "category")
	input.Store = optionalFormField(c, "store")

	salePrice, err := optionalPriceField(c, "salePrice")
	if err != nil {
		return service.UpdateInput{}, err
	}
	input.SalePrice = salePrice

	listPrice, err := optionalPriceField(c, "listPrice")
	if err != nil {
		return service.UpdateInput{}, err
	}
	input.ListPrice = listPrice

	return input, nil
}

func optionalFormField(c *gin.Context, field string) *string {
	value, ok := c.GetPostForm(field)
	if !ok {
		return nil
	}
	return &value
}

func requiredPriceField(c *gin.Context, field string) (float64, error) {
	raw := c.PostForm(field)
	if raw == "" {
		return 0, apperr.Validationf(field, "is required")
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperr.Validationf(field, "must be a number")
	}
	return value, nil
}

func optionalPriceField(c *gin.Context, field string) (*float64, error) {
	raw, ok := c.GetPostForm(field)
	if !ok {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validationf(field, "must be a number")
	}
	return &value, nil
}

// formFiles reads the uploaded image files into memory. A non-multipart
// body simply carries no files.
func formFiles(c *gin.Context) ([]media.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	headers := form.File[imagesFormField]
	files := make([]media.File, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, err
		}
		files = append(files, media.File{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}

func toProductResponse(product *model.Product) ProductResponse {
	images := make([]ImageResponse, 0, len(product.Images))
	for _, image := range product.Images {
		images = append(images, ImageResponse{URL: image.URL, PublicID: image.PublicID})
	}

	return ProductResponse{
		ID:           product.ID.String(),
		Status:       string(product.Status),
		DealURL:      product.DealURL,
		Title:        product.Title,
		Description:  product.Description,
		Category:     product.Category,
		Store:        product.Store,
		SalePrice:    product.SalePrice,
		ListPrice:    product.ListPrice,
		Images:       images,
		CreatedBy:    product.CreatedBy.String(),
		LikeCount:    product.LikeCount,
		DislikeCount: product.DislikeCount,
		ViewCount:    product.ViewCount,
		CreatedAt:    product.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    product.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toListingResponse(listing repository.ProductListing) ProductResponse {
	response := toProductResponse(&listing.Product)
	response.Username = listing.Username
	return response
}

func toListResponse(listings []repository.ProductListing, filter repository.ProductFilter) ListProductsResponse {
	var productResponses []ProductResponse
	for _, listing := range listings {
		productResponses = append(productResponses, toListingResponse(listing))
	}

	response := ListProductsResponse{
		Products: productResponses,
	}

	// Cursor tokens only make sense for the newest-first ordering.
	if len(listings) > 0 && filter.Sort != repository.SortMostViewed {
		last := listings[len(listings)-1]
		paginator := repository.Paginator{
			LastID:        last.ID,
			LastCreatedAt: last.CreatedAt,
		}
		response.NextPageToken = paginator.Encode()
	}

	return response
}
