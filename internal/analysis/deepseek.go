package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/star"
)

// DeepSeek defaults.
const (
	DefaultEndpoint = "https://api.deepseek.com/chat/completions"
	DefaultModel    = "deepseek-chat"
)

// ErrNoAPIKey is returned when the client has no key configured.
var ErrNoAPIKey = errors.New("analysis: API key not configured")

const systemPrompt = "You are a cosmic spirit that transforms gratitude into celestial descriptions. Always respond with valid JSON only."

const userPrompt = `Analyze this user's gratitude statement for Thanksgiving: %q.

You are a "Cosmic Spirit". Turn this gratitude into a unique celestial body.

Return a JSON object with these fields:
1. 'category': Thematically group it (e.g., Roots, Spark, Flow, Harmony, Vitality).
2. 'sentimentColor': A Hex code representing the aura (e.g., "#FFD700").
3. 'blessing': A poetic, philosophical whisper (1-2 sentences) in the same language as input.
4. 'brightness': A number between 0.5 to 1.0 based on emotional depth.
5. 'archetype': Assign a cool role title (e.g., The Healer, The Navigator, The Weaver, The Stargazer).
6. 'distance': Invent a distance from Earth (e.g., "800 Light Years", "In the Heart Nebula").
7. 'frequency': Invent a resonant frequency (e.g., "528 Hz", "Om Resonance").

Return ONLY the JSON object, no markdown formatting.`

// APIKeyFromEnv looks up the DeepSeek key under the names deployments
// have used for it.
func APIKeyFromEnv() string {
	for _, name := range []string{"DEEPSEEK_KEY", "DEEPSEEK_API_KEY", "DEEP_SEEK_KEY"} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat map[string]any `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// DeepSeek calls an OpenAI-compatible chat-completions endpoint.
type DeepSeek struct {
	Endpoint string
	Model    string
	APIKey   string
	Client   *http.Client
	Log      *zap.Logger
}

// NewDeepSeek returns a client for the public DeepSeek API.
func NewDeepSeek(apiKey string, log *zap.Logger) *DeepSeek {
	if log == nil {
		log = zap.NewNop()
	}
	return &DeepSeek{
		Endpoint: DefaultEndpoint,
		Model:    DefaultModel,
		APIKey:   strings.TrimSpace(apiKey),
		Client:   &http.Client{Timeout: 30 * time.Second},
		Log:      log,
	}
}

// Analyze implements Analyzer.
func (d *DeepSeek) Analyze(ctx context.Context, text string) (star.Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return star.Record{}, ErrEmptyText
	}
	if d.APIKey == "" {
		return star.Record{}, ErrNoAPIKey
	}

	body, err := json.Marshal(chatRequest{
		Model: d.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(userPrompt, text)},
		},
		ResponseFormat: map[string]any{"type": "json_object"},
	})
	if err != nil {
		return star.Record{}, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.Endpoint, bytes.NewReader(body))
	if err != nil {
		return star.Record{}, fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.APIKey)

	resp, err := d.Client.Do(req)
	if err != nil {
		return star.Record{}, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		d.Log.Warn("deepseek error", zap.Int("status", resp.StatusCode), zap.ByteString("body", msg))
		return star.Record{}, fmt.Errorf("chat request: status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return star.Record{}, fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return star.Record{}, errors.New("chat response: no choices")
	}
	var reading star.Reading
	if err := json.Unmarshal([]byte(out.Choices[0].Message.Content), &reading); err != nil {
		return star.Record{}, fmt.Errorf("decode reading: %w", err)
	}
	return star.New(text, reading).Normalize(), nil
}
