package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dealshare/dealshare/internal/apperr"
	"github.com/dealshare/dealshare/internal/media"
	"github.com/dealshare/dealshare/internal/model"
	"github.com/dealshare/dealshare/internal/repository"
	"github.com/google/uuid"
)

// fakeProductRepo is an in-memory repository.ProductRepository used by
// the service tests.
type fakeProductRepo struct {
	mu         sync.Mutex
	products   map[uuid.UUID]*model.Product
	listings   []repository.ProductListing
	lastFilter repository.ProductFilter
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uuid.UUID]*model.Product{}}
}

func (f *fakeProductRepo) put(product *model.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *product
	f.products[product.ID] = &copied
}

func (f *fakeProductRepo) Create(_ context.Context, product *model.Product) error {
	if product.ID == uuid.Nil {
		product.InitMeta()
	}
	f.put(product)
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeProductRepo) FindListingByID(ctx context.Context, id uuid.UUID) (*repository.ProductListing, error) {
	product, err := f.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &repository.ProductListing{Product: *product, Username: "tester"}, nil
}

func (f *fakeProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]repository.ProductListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	return f.listings, nil
}

func (f *fakeProductRepo) Update(_ context.Context, product *model.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[product.ID]; !ok {
		return fmt.Errorf("product %s: %w", product.ID, apperr.ErrNotFound)
	}
	copied := *product
	f.products[product.ID] = &copied
	return nil
}

func (f *fakeProductRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.ProductStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	product.Status = status
	return nil
}

func (f *fakeProductRepo) ApplyEngagementDelta(_ context.Context, id uuid.UUID, likeDelta, dislikeDelta int) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	product.LikeCount = max(0, product.LikeCount+likeDelta)
	product.DislikeCount = max(0, product.DislikeCount+dislikeDelta)
	copied := *product
	return &copied, nil
}

func (f *fakeProductRepo) IncrementView(_ context.Context, id uuid.UUID) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	product, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	product.ViewCount++
	copied := *product
	return &copied, nil
}

func (f *fakeProductRepo) DeleteByID(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) has(id uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.products[id]
	return ok
}

// fakeEngagementRepo stores choices keyed by (user, product).
type fakeEngagementRepo struct {
	mu      sync.Mutex
	choices map[string]model.EngagementAction
}

func newFakeEngagementRepo() *fakeEngagementRepo {
	return &fakeEngagementRepo{choices: map[string]model.EngagementAction{}}
}

func choiceKey(userID, productID uuid.UUID) string {
	return userID.String() + "/" + productID.String()
}

func (f *fakeEngagementRepo) FindChoice(_ context.Context, userID, productID uuid.UUID) (model.EngagementAction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.choices[choiceKey(userID, productID)], nil
}

func (f *fakeEngagementRepo) SetChoice(_ context.Context, userID, productID uuid.UUID, action model.EngagementAction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.choices[choiceKey(userID, productID)] = action
	return nil
}

func (f *fakeEngagementRepo) ClearChoice(_ context.Context, userID, productID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.choices, choiceKey(userID, productID))
	return nil
}

// fakeUserRepo resolves only the user IDs it was seeded with.
type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo(ids ...uuid.UUID) *fakeUserRepo {
	users := map[uuid.UUID]*model.User{}
	for _, id := range ids {
		users[id] = &model.User{ID: id, Username: "tester"}
	}
	return &fakeUserRepo{users: users}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
	}
	return user, nil
}

// fakeEventRepo collects outbox events in memory.
type fakeEventRepo struct {
	mu     sync.Mutex
	events []*model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{}
}

func (f *fakeEventRepo) Create(_ context.Context, event *model.Event) error {
	if event.ID == uuid.Nil {
		event.InitMeta()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *event
	f.events = append(f.events, &copied)
	return nil
}

func (f *fakeEventRepo) ListPending(_ context.Context, limit int) ([]*model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pending []*model.Event
	for _, event := range f.events {
		if event.Status == model.EventStatusPending && len(pending) < limit {
			pending = append(pending, event)
		}
	}
	return pending, nil
}

func (f *fakeEventRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.EventStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, event := range f.events {
		if event.ID == id {
			event.Status = status
			return nil
		}
	}
	return fmt.Errorf("event %s: %w", id, apperr.ErrNotFound)
}

func (f *fakeEventRepo) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, 0, len(f.events))
	for _, event := range f.events {
		types = append(types, event.EventType)
	}
	return types
}

// fakeUnitOfWork runs the callback against the bundled repositories
// without a real transaction. A non-nil err fails the "transaction"
// before the callback runs.
type fakeUnitOfWork struct {
	set repository.RepositorySet
	err error
}

func (f *fakeUnitOfWork) WithinTransaction(_ context.Context, fn func(tx repository.RepositorySet) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(f.set)
}

var errUploadRefused = errors.New("upload refused")

// failingMediaStore delegates to an inner store and refuses uploads once
// the allowed count is exhausted.
type failingMediaStore struct {
	inner          *media.MemoryStore
	allowedUploads int
	uploads        int
}

func (f *failingMediaStore) Upload(ctx context.Context, file media.File) (media.Object, error) {
	if f.uploads >= f.allowedUploads {
		return media.Object{}, errUploadRefused
	}
	f.uploads++
	return f.inner.Upload(ctx, file)
}

func (f *failingMediaStore) Delete(ctx context.Context, publicID string) error {
	return f.inner.Delete(ctx, publicID)
}
