package analysis

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

// Remote asks a starfield API server to analyze text, so the key stays
// on the server.
type Remote struct {
	BaseURL string
	Client  *http.Client
}

// NewRemote returns a client for the server at baseURL.
func NewRemote(baseURL string) *Remote {
	return &Remote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Analyze implements Analyzer.
func (r *Remote) Analyze(ctx context.Context, text string) (star.Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return star.Record{}, ErrEmptyText
	}
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return star.Record{}, fmt.Errorf("encode analyze request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return star.Record{}, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return star.Record{}, fmt.Errorf("analyze request: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Star  star.Record `json:"star"`
		Error string      `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return star.Record{}, fmt.Errorf("decode analyze response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return star.Record{}, fmt.Errorf("analyze request: status %d: %s", resp.StatusCode, out.Error)
	}
	if err := out.Star.Validate(); err != nil {
		return star.Record{}, fmt.Errorf("analyze response: %w", err)
	}
	return out.Star, nil
}
