// Package storage persists export artifacts in a Supabase-compatible object
// store over its plain HTTP API.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

type ObjectStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Download(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
	PublicURL(path string) string
}

type supabaseStore struct {
	baseURL    string
	bucket     string
	serviceKey string
	client     *http.Client
}

func NewSupabaseStore(url, serviceKey, bucket string) ObjectStore {
	return &supabaseStore{
		baseURL:    url + "/storage/v1",
		bucket:     bucket,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: 2 * time.Minute},
	}
}

func (s *supabaseStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	resp, err := s.do(ctx, http.MethodPost, s.objectURL(path), bytes.NewReader(data), contentType)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload %s failed (%d): %s", path, resp.StatusCode, body)
	}
	return nil
}

func (s *supabaseStore) Download(ctx context.Context, path string) ([]byte, error) {
	resp, err := s.do(ctx, http.MethodGet, s.objectURL(path), nil, "")
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("download %s failed (%d)", path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *supabaseStore) Delete(ctx context.Context, path string) error {
	resp, err := s.do(ctx, http.MethodDelete, s.objectURL(path), nil, "")
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("delete %s failed (%d)", path, resp.StatusCode)
	}
	return nil
}

func (s *supabaseStore) PublicURL(path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", s.baseURL, s.bucket, path)
}

func (s *supabaseStore) objectURL(path string) string {
	return fmt.Sprintf("%s/object/%s/%s", s.baseURL, s.bucket, path)
}

func (s *supabaseStore) do(ctx context.Context, method, url string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return s.client.Do(req)
}
