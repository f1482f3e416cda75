package service

import (
	"context"
	"fmt"

	"github.com/dealshare/dealshare/internal/apperr"
	"github.com/dealshare/dealshare/internal/metrics"
	"github.com/dealshare/dealshare/internal/model"
	"github.com/dealshare/dealshare/internal/repository"
	"github.com/google/uuid"
)

// EngagementTracker applies like/dislike toggles and view counts. The
// per-(user,product) choice is durable, so toggle semantics survive
// restarts and hold across server instances.
type EngagementTracker struct {
	products repository.ProductRepository
	uow      repository.UnitOfWork
}

// NewEngagementTracker creates a new EngagementTracker.
func NewEngagementTracker(products repository.ProductRepository, uow repository.UnitOfWork) *EngagementTracker {
	return &EngagementTracker{
		products: products,
		uow:      uow,
	}
}

// Toggle applies one like/dislike action for a user on a product:
// repeating the current choice undoes it, the opposite choice switches
// it, and no prior choice records it. The choice mutation and the
// counter update commit in one transaction holding the product row lock,
// so concurrent toggles on the same product never lose updates.
func (t *EngagementTracker) Toggle(ctx context.Context, userID, productID uuid.UUID, action model.EngagementAction) (*model.Product, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("%w: use %q or %q", apperr.ErrInvalidAction, model.ActionLike, model.ActionDislike)
	}

	var updated *model.Product
	err := t.uow.WithinTransaction(ctx, func(tx repository.RepositorySet) error {
		if _, err := tx.Products.FindByIDForUpdate(ctx, productID); err != nil {
			return err
		}

		prior, err := tx.Engagement.FindChoice(ctx, userID, productID)
		if err != nil {
			return err
		}

		var likeDelta, dislikeDelta int
		switch {
		case prior == action:
			// Toggle off.
			if action == model.ActionLike {
				likeDelta = -1
			} else {
				dislikeDelta = -1
			}
			if err := tx.Engagement.ClearChoice(ctx, userID, productID); err != nil {
				return err
			}
		case prior == "":
			if action == model.ActionLike {
				likeDelta = 1
			} else {
				dislikeDelta = 1
			}
			if err := tx.Engagement.SetChoice(ctx, userID, productID, action); err != nil {
				return err
			}
		default:
			// Switch sides: one decrement, one increment.
			if action == model.ActionLike {
				likeDelta, dislikeDelta = 1, -1
			} else {
				likeDelta, dislikeDelta = -1, 1
			}
			if err := tx.Engagement.SetChoice(ctx, userID, productID, action); err != nil {
				return err
			}
		}

		updated, err = tx.Products.ApplyEngagementDelta(ctx, productID, likeDelta, dislikeDelta)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.EngagementToggles.WithLabelValues(string(action)).Inc()

	return updated, nil
}

// IncrementView records one more view of the product. Views are not
// deduplicated by viewer: every call counts.
func (t *EngagementTracker) IncrementView(ctx context.Context, productID uuid.UUID) (*model.Product, error) {
	updated, err := t.products.IncrementView(ctx, productID)
	if err != nil {
		return nil, err
	}

	metrics.DealViews.Inc()

	return updated, nil
}
