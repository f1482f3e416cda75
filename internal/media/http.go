package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

// HTTPStore talks to a hosted media service over its upload/destroy HTTP
// API. The service returns the public URL and a public id per upload,
// Cloudinary style.
type HTTPStore struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPStore creates a store client for the media service at baseURL.
func NewHTTPStore(baseURL, apiKey string) *HTTPStore {
	return &HTTPStore{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

// Upload sends the file as a multipart form and returns the stored
// object's handle.
func (s *HTTPStore) Upload(ctx context.Context, file File) (Object, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return Object{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return Object{}, fmt.Errorf("failed to write file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return Object{}, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/upload", &body)
	if err != nil {
		return Object{}, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Object{}, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return Object{}, fmt.Errorf("media service returned status %d", resp.StatusCode)
	}

	var result uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return Object{}, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.PublicID == "" || result.SecureURL == "" {
		return Object{}, fmt.Errorf("media service returned an incomplete upload result")
	}

	return Object{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// Delete removes the backing object for publicID.
func (s *HTTPStore) Delete(ctx context.Context, publicID string) error {
	target := s.baseURL + "/destroy/" + url.PathEscape(publicID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build destroy request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("destroy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("media service returned status %d", resp.StatusCode)
	}
	return nil
}
