package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dealshare/dealshare/internal/apperr"
	"github.com/dealshare/dealshare/internal/auth"
	"github.com/dealshare/dealshare/internal/media"
	"github.com/dealshare/dealshare/internal/metrics"
	"github.com/dealshare/dealshare/internal/model"
	"github.com/dealshare/dealshare/internal/repository"
	"github.com/google/uuid"
)

// SubmissionService validates and creates new deals, including image
// upload orchestration, and applies allow-listed updates.
type SubmissionService struct {
	products repository.ProductRepository
	uow      repository.UnitOfWork
	media    media.Store
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(products repository.ProductRepository, uow repository.UnitOfWork, mediaStore media.Store) *SubmissionService {
	return &SubmissionService{
		products: products,
		uow:      uow,
		media:    mediaStore,
	}
}

// SubmitInput carries the required fields of a new deal.
type SubmitInput struct {
	DealURL     string
	Title       string
	Description string
	Category    string
	Store       string
	SalePrice   float64
	ListPrice   float64
}

func (in SubmitInput) validate() error {
	required := map[string]string{
		"dealUrl":     in.DealURL,
		"title":       in.Title,
		"description": in.Description,
		"category":    in.Category,
		"store":       in.Store,
	}
	for field, value := range required {
		if value == "" {
			return apperr.Validationf(field, "is required")
		}
	}
	if in.SalePrice < 0 {
		return apperr.Validationf("salePrice", "must be non-negative")
	}
	if in.ListPrice < 0 {
		return apperr.Validationf("listPrice", "must be non-negative")
	}
	// salePrice above listPrice is allowed: the discount display may go
	// negative, the marketplace does not correct submitters.
	return nil
}

// Submit validates the input, uploads the images and creates the product
// in the pending state. A failed upload aborts the whole submission and
// rolls the already-uploaded objects back.
func (s *SubmissionService) Submit(ctx context.Context, authorID uuid.UUID, in SubmitInput, files []media.File) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	images, err := s.uploadAll(ctx, files)
	if err != nil {
		return nil, &apperr.UploadError{Err: err}
	}

	product := &model.Product{
		Status:      model.StatusPending,
		DealURL:     in.DealURL,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Store:       in.Store,
		SalePrice:   in.SalePrice,
		ListPrice:   in.ListPrice,
		Images:      images,
		CreatedBy:   authorID,
	}

	err = s.uow.WithinTransaction(ctx, func(tx repository.RepositorySet) error {
		if err := tx.Products.Create(ctx, product); err != nil {
			return err
		}
		event, err := newDealEvent(model.EventTypeDealSubmitted, product)
		if err != nil {
			return err
		}
		return tx.Events.Create(ctx, event)
	})
	if err != nil {
		// The product row never landed; don't leave orphan objects behind.
		s.removeImages(ctx, images)
		return nil, err
	}

	metrics.DealsSubmitted.Inc()

	return product, nil
}

// UpdateInput carries the allow-listed mutable fields. Nil fields are
// left untouched; anything outside this set is ignored at the boundary.
type UpdateInput struct {
	DealURL     *string
	Title       *string
	Description *string
	Category    *string
	Store       *string
	SalePrice   *float64
	ListPrice   *float64
}

func (in UpdateInput) validate() error {
	provided := map[string]*string{
		"dealUrl":     in.DealURL,
		"title":       in.Title,
		"description": in.Description,
		"category":    in.Category,
		"store":       in.Store,
	}
	for field, value := range provided {
		if value != nil && *value == "" {
			return apperr.Validationf(field, "must not be empty")
		}
	}
	if in.SalePrice != nil && *in.SalePrice < 0 {
		return apperr.Validationf("salePrice", "must be non-negative")
	}
	if in.ListPrice != nil && *in.ListPrice < 0 {
		return apperr.Validationf("listPrice", "must be non-negative")
	}
	return nil
}

// Update applies allow-listed field changes. When new image files are
// supplied the image set is replaced wholesale: old backing objects are
// deleted best-effort, then the new files are uploaded; an upload
// failure aborts the update. Only the owner or an admin may update.
func (s *SubmissionService) Update(ctx context.Context, actor auth.AuthenticatedUser, productID uuid.UUID, in UpdateInput, files []media.File) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && product.CreatedBy != actor.ID {
		return nil, fmt.Errorf("only the owner or an admin may edit this product: %w", apperr.ErrForbidden)
	}

	if in.DealURL != nil {
		product.DealURL = *in.DealURL
	}
	if in.Title != nil {
		product.Title = *in.Title
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Store != nil {
		product.Store = *in.Store
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if in.ListPrice != nil {
		product.ListPrice = *in.ListPrice
	}

	if len(files) > 0 {
		s.removeImages(ctx, product.Images)
		images, err := s.uploadAll(ctx, files)
		if err != nil {
			return nil, &apperr.UploadError{Err: err}
		}
		product.Images = images
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// uploadAll uploads every file or none: on a partial failure the objects
// uploaded so far are rolled back before the error is returned.
func (s *SubmissionService) uploadAll(ctx context.Context, files []media.File) ([]model.Image, error) {
	images := make([]model.Image, 0, len(files))
	for _, file := range files {
		object, err := s.media.Upload(ctx, file)
		if err != nil {
			s.removeImages(ctx, images)
			return nil, fmt.Errorf("failed to upload %q: %w", file.Name, err)
		}
		images = append(images, model.Image{URL: object.URL, PublicID: object.PublicID})
	}
	return images, nil
}

func (s *SubmissionService) removeImages(ctx context.Context, images []model.Image) {
	for _, image := range images {
		if err := s.media.Delete(ctx, image.PublicID); err != nil {
			slog.Warn("Failed to delete image backing object",
				slog.String("public_id", image.PublicID),
				slog.Any("err", err),
			)
		}
	}
}
