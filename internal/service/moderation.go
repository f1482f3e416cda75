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

// ModerationEngine owns the pending/approved/rejected state machine.
// Approval keeps the record; rejection deletes the record and its image
// backing objects. Both transitions only leave the pending state.
type ModerationEngine struct {
	products repository.ProductRepository
	uow      repository.UnitOfWork
	media    media.Store
}

// NewModerationEngine creates a new ModerationEngine.
func NewModerationEngine(products repository.ProductRepository, uow repository.UnitOfWork, mediaStore media.Store) *ModerationEngine {
	return &ModerationEngine{
		products: products,
		uow:      uow,
		media:    mediaStore,
	}
}

// Moderate applies an admin approve/reject decision to a pending product
// and writes the matching outbox event in the same transaction. Rejected
// products are gone for good: the row is deleted and the image backing
// objects are removed best-effort after commit.
func (m *ModerationEngine) Moderate(ctx context.Context, actor auth.AuthenticatedUser, productID uuid.UUID, action model.ProductStatus) (*model.Product, error) {
	if action != model.StatusApproved && action != model.StatusRejected {
		return nil, fmt.Errorf("%w: status must be %q or %q", apperr.ErrInvalidAction, model.StatusApproved, model.StatusRejected)
	}
	if !actor.IsAdmin {
		return nil, fmt.Errorf("moderation requires an admin: %w", apperr.ErrForbidden)
	}

	var result *model.Product
	var orphanedImages []model.Image
	err := m.uow.WithinTransaction(ctx, func(tx repository.RepositorySet) error {
		product, err := tx.Products.FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product.Status != model.StatusPending {
			return fmt.Errorf("product is already %s: %w", product.Status, apperr.ErrInvalidTransition)
		}

		if action == model.StatusApproved {
			if err := tx.Products.UpdateStatus(ctx, productID, model.StatusApproved); err != nil {
				return err
			}
			product.Status = model.StatusApproved
		} else {
			if err := tx.Products.DeleteByID(ctx, productID); err != nil {
				return err
			}
			product.Status = model.StatusRejected
			orphanedImages = product.Images
		}

		eventType := model.EventTypeDealApproved
		if action == model.StatusRejected {
			eventType = model.EventTypeDealRejected
		}
		event, err := newDealEvent(eventType, product)
		if err != nil {
			return err
		}
		if err := tx.Events.Create(ctx, event); err != nil {
			return err
		}

		result = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	if action == model.StatusApproved {
		metrics.DealsApproved.Inc()
	} else {
		metrics.DealsRejected.Inc()
		m.removeImages(ctx, orphanedImages)
	}

	return result, nil
}

// Delete removes a product and its images regardless of status. Only
// admins may delete.
func (m *ModerationEngine) Delete(ctx context.Context, actor auth.AuthenticatedUser, productID uuid.UUID) error {
	if !actor.IsAdmin {
		return fmt.Errorf("deletion requires an admin: %w", apperr.ErrForbidden)
	}

	product, err := m.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := m.products.DeleteByID(ctx, productID); err != nil {
		return err
	}

	m.removeImages(ctx, product.Images)

	return nil
}

// removeImages deletes image backing objects best-effort. Failures are
// logged and never surfaced: the record mutation has already committed.
func (m *ModerationEngine) removeImages(ctx context.Context, images []model.Image) {
	for _, image := range images {
		if err := m.media.Delete(ctx, image.PublicID); err != nil {
			slog.Error("Failed to delete image backing object",
				slog.String("public_id", image.PublicID),
				slog.Any("err", err),
			)
		}
	}
}
