package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dealshare/dealshare/internal/apperr"
	"github.com/dealshare/dealshare/internal/auth"
	httpAPI "github.com/dealshare/dealshare/internal/http"
	"github.com/dealshare/dealshare/internal/http/controller"
	"github.com/dealshare/dealshare/internal/http/middleware"
	"github.com/dealshare/dealshare/internal/media"
	"github.com/dealshare/dealshare/internal/model"
	"github.com/dealshare/dealshare/internal/repository"
	"github.com/dealshare/dealshare/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const apiTestSecret = "api-test-secret"

// memBackend implements every repository interface against maps so the
// HTTP surface can be exercised end to end without a database.
type memBackend struct {
	mu       sync.Mutex
	products map[uuid.UUID]*model.Product
	users    map[uuid.UUID]*model.User
	choices  map[string]model.EngagementAction
	wishlist map[string]uuid.UUID
	events   []*model.Event
}

func newMemBackend() *memBackend {
	return &memBackend{
		products: map[uuid.UUID]*model.Product{},
		users:    map[uuid.UUID]*model.User{},
		choices:  map[string]model.EngagementAction{},
		wishlist: map[string]uuid.UUID{},
	}
}

func pairKey(userID, productID uuid.UUID) string {
	return userID.String() + "/" + productID.String()
}

func (b *memBackend) Create(_ context.Context, product *model.Product) error {
	if product.ID == uuid.Nil {
		product.InitMeta()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	copied := *product
	b.products[product.ID] = &copied
	return nil
}

func (b *memBackend) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	product, ok := b.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	copied := *product
	return &copied, nil
}

func (b *memBackend) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return b.FindByID(ctx, id)
}

func (b *memBackend) FindListingByID(ctx context.Context, id uuid.UUID) (*repository.ProductListing, error) {
	product, err := b.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &repository.ProductListing{Product: *product, Username: "tester"}, nil
}

func (b *memBackend) List(_ context.Context, filter repository.ProductFilter) ([]repository.ProductListing, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var listings []repository.ProductListing
	for _, product := range b.products {
		if filter.Status != "" && product.Status != filter.Status {
			continue
		}
		if filter.CreatedBy != uuid.Nil && product.CreatedBy != filter.CreatedBy {
			continue
		}
		listings = append(listings, repository.ProductListing{Product: *product, Username: "tester"})
	}
	return listings, nil
}

func (b *memBackend) Update(_ context.Context, product *model.Product) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.products[product.ID]; !ok {
		return fmt.Errorf("product %s: %w", product.ID, apperr.ErrNotFound)
	}
	copied := *product
	b.products[product.ID] = &copied
	return nil
}

func (b *memBackend) UpdateStatus(_ context.Context, id uuid.UUID, status model.ProductStatus) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	product, ok := b.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	product.Status = status
	return nil
}

func (b *memBackend) ApplyEngagementDelta(_ context.Context, id uuid.UUID, likeDelta, dislikeDelta int) (*model.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	product, ok := b.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	product.LikeCount = max(0, product.LikeCount+likeDelta)
	product.DislikeCount = max(0, product.DislikeCount+dislikeDelta)
	copied := *product
	return &copied, nil
}

func (b *memBackend) IncrementView(_ context.Context, id uuid.UUID) (*model.Product, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	product, ok := b.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	product.ViewCount++
	copied := *product
	return &copied, nil
}

func (b *memBackend) DeleteByID(_ context.Context, id uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	delete(b.products, id)
	return nil
}

func (b *memBackend) FindChoice(_ context.Context, userID, productID uuid.UUID) (model.EngagementAction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.choices[pairKey(userID, productID)], nil
}

func (b *memBackend) SetChoice(_ context.Context, userID, productID uuid.UUID, action model.EngagementAction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.choices[pairKey(userID, productID)] = action
	return nil
}

func (b *memBackend) ClearChoice(_ context.Context, userID, productID uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.choices, pairKey(userID, productID))
	return nil
}

func (b *memBackend) Add(_ context.Context, userID, productID uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := pairKey(userID, productID)
	if _, ok := b.wishlist[key]; ok {
		return fmt.Errorf("wishlist item: %w", apperr.ErrAlreadyExists)
	}
	b.wishlist[key] = productID
	return nil
}

func (b *memBackend) Remove(_ context.Context, userID, productID uuid.UUID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := pairKey(userID, productID)
	if _, ok := b.wishlist[key]; !ok {
		return fmt.Errorf("wishlist item: %w", apperr.ErrNotFound)
	}
	delete(b.wishlist, key)
	return nil
}

func (b *memBackend) ListByUser(_ context.Context, userID uuid.UUID) ([]repository.ProductListing, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var listings []repository.ProductListing
	for key, productID := range b.wishlist {
		if key[:36] != userID.String() {
			continue
		}
		if product, ok := b.products[productID]; ok {
			listings = append(listings, repository.ProductListing{Product: *product, Username: "tester"})
		}
	}
	return listings, nil
}

func (b *memBackend) CreateEvent(_ context.Context, event *model.Event) error {
	if event.ID == uuid.Nil {
		event.InitMeta()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	copied := *event
	b.events = append(b.events, &copied)
	return nil
}

// userStore adapts memBackend to repository.UserRepository; the FindByID
// name collides with the product method.
type userStore struct{ b *memBackend }

func (s userStore) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	user, ok := s.b.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, apperr.ErrNotFound)
	}
	return user, nil
}

// eventStore adapts memBackend to repository.EventRepository; the Create
// name collides with the product method.
type eventStore struct{ b *memBackend }

func (s eventStore) Create(ctx context.Context, event *model.Event) error {
	return s.b.CreateEvent(ctx, event)
}

func (s eventStore) ListPending(_ context.Context, limit int) ([]*model.Event, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	var pending []*model.Event
	for _, event := range s.b.events {
		if event.Status == model.EventStatusPending && len(pending) < limit {
			pending = append(pending, event)
		}
	}
	return pending, nil
}

func (s eventStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.EventStatus) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	for _, event := range s.b.events {
		if event.ID == id {
			event.Status = status
			return nil
		}
	}
	return fmt.Errorf("event %s: %w", id, apperr.ErrNotFound)
}

type memUOW struct{ b *memBackend }

func (u memUOW) WithinTransaction(_ context.Context, fn func(tx repository.RepositorySet) error) error {
	return fn(repository.RepositorySet{
		Products:   u.b,
		Engagement: u.b,
		Events:     eventStore{u.b},
	})
}

type apiFixture struct {
	router  *gin.Engine
	backend *memBackend
	store   *media.MemoryStore
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := newMemBackend()
	store := media.NewMemoryStore()
	uow := memUOW{backend}

	submission := service.NewSubmissionService(backend, uow, store)
	moderation := service.NewModerationEngine(backend, uow, store)
	engagement := service.NewEngagementTracker(backend, uow)
	catalog := service.NewCatalogService(backend, userStore{backend})
	wishlist := service.NewWishlistService(backend, backend)

	router := httpAPI.InitRouter(
		gin.New(),
		middleware.New(auth.NewVerifier(apiTestSecret)),
		controller.New(),
		controller.NewProductController(submission, moderation, engagement, catalog),
		controller.NewWishlistController(wishlist),
	)

	return &apiFixture{router: router, backend: backend, store: store}
}

func (f *apiFixture) seedProduct(t *testing.T, status model.ProductStatus, createdBy uuid.UUID) *model.Product {
	t.Helper()
	product := &model.Product{
		Status:      status,
		DealURL:     "https://shop.example.com/d/1",
		Title:       "Noise cancelling headphones",
		Description: "Over-ear, 30h battery",
		Category:    "audio",
		Store:       "SoundShack",
		SalePrice:   199.0,
		ListPrice:   299.0,
		CreatedBy:   createdBy,
	}
	product.InitMeta()
	product.Status = status
	require.NoError(t, f.backend.Create(context.Background(), product))
	f.backend.mu.Lock()
	f.backend.users[createdBy] = &model.User{ID: createdBy, Username: "tester"}
	f.backend.mu.Unlock()
	return product
}

func bearerToken(t *testing.T, userID uuid.UUID, admin bool) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Username: "tester",
		Admin:    admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(apiTestSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doRequest(f *apiFixture, method, path, authHeader string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func submitForm(t *testing.T, fields map[string]string, imageNames ...string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for field, value := range fields {
		require.NoError(t, writer.WriteField(field, value))
	}
	for _, name := range imageNames {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func validSubmitFields() map[string]string {
	return map[string]string{
		"dealUrl":     "https://shop.example.com/d/9",
		"title":       "4K monitor",
		"description": "27 inch IPS panel",
		"category":    "tech",
		"store":       "ScreenStore",
		"salePrice":   "249.99",
		"listPrice":   "349.99",
	}
}

func TestPing(t *testing.T) {
	f := newAPIFixture(t)
	rec := doRequest(f, http.MethodGet, "/ping", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
}

func TestCreateProduct(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		f := newAPIFixture(t)
		body, contentType := submitForm(t, validSubmitFields())
		rec := doRequest(f, http.MethodPost, "/products", "", body, contentType)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("creates a pending product with images", func(t *testing.T) {
		f := newAPIFixture(t)
		body, contentType := submitForm(t, validSubmitFields(), "front.jpg", "side.jpg")
		rec := doRequest(f, http.MethodPost, "/products", bearerToken(t, uuid.New(), false), body, contentType)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp struct {
			Status string `json:"status"`
			Title  string `json:"title"`
			Images []struct {
				PublicID string `json:"public_id"`
			} `json:"images"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "4K monitor", resp.Title)
		assert.Len(t, resp.Images, 2)
		assert.Equal(t, 2, f.store.Len())
	})

	t.Run("missing field is a 400", func(t *testing.T) {
		f := newAPIFixture(t)
		fields := validSubmitFields()
		delete(fields, "title")
		body, contentType := submitForm(t, fields)
		rec := doRequest(f, http.MethodPost, "/products", bearerToken(t, uuid.New(), false), body, contentType)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "title")
	})

	t.Run("non-numeric price is a 400", func(t *testing.T) {
		f := newAPIFixture(t)
		fields := validSubmitFields()
		fields["salePrice"] = "cheap"
		body, contentType := submitForm(t, fields)
		rec := doRequest(f, http.MethodPost, "/products", bearerToken(t, uuid.New(), false), body, contentType)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("returns the listing", func(t *testing.T) {
		f := newAPIFixture(t)
		product := f.seedProduct(t, model.StatusApproved, uuid.New())

		rec := doRequest(f, http.MethodGet, "/products/"+product.ID.String(), "", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), product.Title)
		assert.Contains(t, rec.Body.String(), "tester")
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := doRequest(f, http.MethodGet, "/products/not-a-uuid", "", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := doRequest(f, http.MethodGet, "/products/"+uuid.NewString(), "", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListViews(t *testing.T) {
	t.Run("approved feed hides pending products", func(t *testing.T) {
		f := newAPIFixture(t)
		approved := f.seedProduct(t, model.StatusApproved, uuid.New())
		pending := f.seedProduct(t, model.StatusPending, uuid.New())
		pending.Title = "Unreviewed deal"
		require.NoError(t, f.backend.Update(context.Background(), pending))

		rec := doRequest(f, http.MethodGet, "/products/approved", "", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), approved.ID.String())
		assert.NotContains(t, rec.Body.String(), pending.ID.String())
	})

	t.Run("pending queue lists pending products", func(t *testing.T) {
		f := newAPIFixture(t)
		pending := f.seedProduct(t, model.StatusPending, uuid.New())

		rec := doRequest(f, http.MethodGet, "/products/pending", "", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), pending.ID.String())
	})

	t.Run("user listings are scoped to the creator", func(t *testing.T) {
		f := newAPIFixture(t)
		creator := uuid.New()
		mine := f.seedProduct(t, model.StatusApproved, creator)
		other := f.seedProduct(t, model.StatusApproved, uuid.New())

		rec := doRequest(f, http.MethodGet, "/products/userProducts/"+creator.String(), "", nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), mine.ID.String())
		assert.NotContains(t, rec.Body.String(), other.ID.String())
	})

	t.Run("malformed price filter", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := doRequest(f, http.MethodGet, "/products/approved?min=100&max=10", "", nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestToggleEngagement(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		f := newAPIFixture(t)
		product := f.seedProduct(t, model.StatusApproved, uuid.New())
		rec := doRequest(f, http.MethodPut, "/products/"+product.ID.String()+"/like", "", nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("like toggles on and off", func(t *testing.T) {
		f := newAPIFixture(t)
		product := f.seedProduct(t, model.StatusApproved, uuid.New())
		token := bearerToken(t, uuid.New(), false)
		path := "/products/" + product.ID.String() + "/like"

		rec := doRequest(f, http.MethodPut, path, token, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"likeCount":1`)

		rec = doRequest(f, http.MethodPut, path, token, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"likeCount":0`)
	})

	t.Run("unknown action", func(t *testing.T) {
		f := newAPIFixture(t)
		product := f.seedProduct(t, model.StatusApproved, uuid.New())
		rec := doRequest(f, http.MethodPut, "/products/"+product.ID.String()+"/boost", bearerToken(t, uuid.New(), false), nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestModerateProduct(t *testing.T) {
	t.Run("admin approves", func(t *testing.T) {
		f := newAPIFixture(t)
		product := f.seedProduct(t, model.StatusPending, uuid.New())

		rec := doRequest(f, http.MethodPut, "/products/"+product.ID.String()+"/update/approved", bearerToken(t, uuid.New(), true), nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"status":"approved"`)
	})

	t.Run("admin rejects and the record disappears", func(t *testing.T) {
		f := newAPIFixture(t)
		product := f.seedProduct(t, model.StatusPending, uuid.New())

		rec := doRequest(f, http.MethodPut, "/products/"+product.ID.String()+"/update/rejected", bearerToken(t, uuid.New(), true), nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(f, http.MethodGet, "/products/"+product.ID.String(), "", nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		f := newAPIFixture(t)
		product := f.seedProduct(t, model.StatusPending, uuid.New())

		rec := doRequest(f, http.MethodPut, "/products/"+product.ID.String()+"/update/approved", bearerToken(t, uuid.New(), false), nil, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("already moderated", func(t *testing.T) {
		f := newAPIFixture(t)
		product := f.seedProduct(t, model.StatusApproved, uuid.New())

		rec := doRequest(f, http.MethodPut, "/products/"+product.ID.String()+"/update/rejected", bearerToken(t, uuid.New(), true), nil, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateProduct(t *testing.T) {
	t.Run("owner edits fields", func(t *testing.T) {
		f := newAPIFixture(t)
		owner := uuid.New()
		product := f.seedProduct(t, model.StatusApproved, owner)

		body, contentType := submitForm(t, map[string]string{"title": "Renamed deal"})
		rec := doRequest(f, http.MethodPut, "/products/"+product.ID.String(), bearerToken(t, owner, false), body, contentType)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Renamed deal")
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		f := newAPIFixture(t)
		product := f.seedProduct(t, model.StatusApproved, uuid.New())

		body, contentType := submitForm(t, map[string]string{"title": "Hijacked"})
		rec := doRequest(f, http.MethodPut, "/products/"+product.ID.String(), bearerToken(t, uuid.New(), false), body, contentType)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestIncrementView(t *testing.T) {
	f := newAPIFixture(t)
	product := f.seedProduct(t, model.StatusApproved, uuid.New())

	rec := doRequest(f, http.MethodPatch, "/products/"+product.ID.String()+"/view", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"viewCount":1`)
}

func TestDeleteProduct(t *testing.T) {
	t.Run("admin deletes", func(t *testing.T) {
		f := newAPIFixture(t)
		product := f.seedProduct(t, model.StatusApproved, uuid.New())

		rec := doRequest(f, http.MethodDelete, "/products/"+product.ID.String(), bearerToken(t, uuid.New(), true), nil, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		f := newAPIFixture(t)
		product := f.seedProduct(t, model.StatusApproved, uuid.New())

		rec := doRequest(f, http.MethodDelete, "/products/"+product.ID.String(), bearerToken(t, uuid.New(), false), nil, "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestWishlistEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	product := f.seedProduct(t, model.StatusApproved, uuid.New())
	userID := uuid.New()
	token := bearerToken(t, userID, false)
	itemPath := "/wishlist/" + product.ID.String()

	rec := doRequest(f, http.MethodGet, "/wishlist", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(f, http.MethodPost, itemPath, token, nil, "")
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(f, http.MethodPost, itemPath, token, nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(f, http.MethodGet, "/wishlist", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), product.ID.String())

	rec = doRequest(f, http.MethodDelete, itemPath, token, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(f, http.MethodDelete, itemPath, token, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
