package media_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dealshare/dealshare/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := media.NewMemoryStore()

	object, err := store.Upload(ctx, media.File{Name: "a.jpg", Data: []byte("payload")})
	require.NoError(t, err)
	assert.NotEmpty(t, object.PublicID)
	assert.Contains(t, object.URL, object.PublicID)
	assert.True(t, store.Contains(object.PublicID))

	require.NoError(t, store.Delete(ctx, object.PublicID))
	assert.False(t, store.Contains(object.PublicID))

	assert.Error(t, store.Delete(ctx, object.PublicID))
}

func TestHTTPStore_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("successful upload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/upload", r.URL.Path)
			require.Equal(t, "Bearer key-123", r.Header.Get("Authorization"))

			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "photo.jpg", header.Filename)

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"secure_url": "https://cdn.example.com/photo.jpg",
				"public_id":  "photo-1",
			})
		}))
		defer server.Close()

		store := media.NewHTTPStore(server.URL, "key-123")
		object, err := store.Upload(ctx, media.File{Name: "photo.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/photo.jpg", object.URL)
		assert.Equal(t, "photo-1", object.PublicID)
	})

	t.Run("service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		store := media.NewHTTPStore(server.URL, "")
		_, err := store.Upload(ctx, media.File{Name: "photo.jpg", Data: []byte("jpeg")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})

	t.Run("incomplete result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{"secure_url": "https://cdn.example.com/x.jpg"})
		}))
		defer server.Close()

		store := media.NewHTTPStore(server.URL, "")
		_, err := store.Upload(ctx, media.File{Name: "x.jpg", Data: []byte("jpeg")})
		require.Error(t, err)
	})
}

func TestHTTPStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("successful delete", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodDelete, r.Method)
			require.Equal(t, "/destroy/photo-1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		store := media.NewHTTPStore(server.URL, "")
		require.NoError(t, store.Delete(ctx, "photo-1"))
	})

	t.Run("missing object", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		store := media.NewHTTPStore(server.URL, "")
		assert.Error(t, store.Delete(ctx, "gone"))
	})
}
