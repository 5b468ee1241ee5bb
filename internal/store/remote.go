package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/frankfika/thanksgiving/internal/star"
)

// Remote is a Backend backed by a starfield API server.
type Remote struct {
	BaseURL string
	Client  *http.Client
}

// NewRemote returns a backend for the server at baseURL.
func NewRemote(baseURL string) *Remote {
	return &Remote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// List implements Backend.
func (r *Remote) List(ctx context.Context) ([]star.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.BaseURL+"/api/stars", nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list stars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list stars: status %d", resp.StatusCode)
	}
	var out struct {
		Stars []star.Record `json:"stars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode stars: %w", err)
	}
	return out.Stars, nil
}

// Save implements Backend.
func (r *Remote) Save(ctx context.Context, rec star.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode star: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/api/stars", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build save request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("save star: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("save star: status %d", resp.StatusCode)
	}
	return nil
}
