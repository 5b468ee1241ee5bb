package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/star"
)

func TestKeywordClassifies(t *testing.T) {
	k := NewKeyword(1)
	cases := map[string]string{
		"Grateful for my mother and my little brother": "Family",
		"Thankful for the code that ships on time at work": "Career",
		"The warm coffee this morning":                  "Small Joys",
		"感谢我的朋友":                                        "Friendship",
		"Just everything, honestly":                     "Harmony",
	}
	for text, want := range cases {
		rec, err := k.Analyze(context.Background(), text)
		require.NoError(t, err, text)
		assert.Equal(t, want, rec.Category(), text)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, text, rec.Text)
		assert.NoError(t, rec.Validate())
		assert.Equal(t, rec, rec.Normalize(), "keyword readings are already well formed")
	}
}

func TestKeywordIsDeterministic(t *testing.T) {
	a, err := NewKeyword(42).Analyze(context.Background(), "Thankful for the forest after rain")
	require.NoError(t, err)
	b, err := NewKeyword(42).Analyze(context.Background(), "  Thankful for the forest after rain ")
	require.NoError(t, err)

	assert.Equal(t, a.Reading, b.Reading)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestKeywordBrightness(t *testing.T) {
	k := NewKeyword(1)
	flat, err := k.Analyze(context.Background(), "a cup of tea")
	require.NoError(t, err)
	assert.Equal(t, star.MinBrightness, flat.Reading.Brightness)

	deep, err := k.Analyze(context.Background(), "I am so deeply, truly grateful and blessed, I love my family forever!")
	require.NoError(t, err)
	assert.Equal(t, star.MaxBrightness, deep.Reading.Brightness)
}

func TestKeywordRejectsBlank(t *testing.T) {
	_, err := NewKeyword(1).Analyze(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestFallbackReturnsEcho(t *testing.T) {
	var seen error
	f := WithFallback(Func(func(context.Context, string) (star.Record, error) {
		return star.Record{}, errors.New("upstream down")
	}), zap.NewNop())
	f.OnError = func(err error) { seen = err }

	rec, err := f.Analyze(context.Background(), " thank you ")
	require.NoError(t, err)
	assert.Error(t, seen)
	assert.Equal(t, "Echo", rec.Category())
	assert.Equal(t, "#ffffff", rec.Reading.SentimentColor)
	assert.Equal(t, 0.5, rec.Reading.Brightness)
	assert.Equal(t, "The Traveler", rec.Reading.Archetype)
	assert.Equal(t, "Unknown", rec.Reading.Distance)
	assert.Equal(t, "Silence", rec.Reading.Frequency)
	assert.Equal(t, "thank you", rec.Text)
	assert.NotEmpty(t, rec.ID)

	_, err = f.Analyze(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestFallbackPassesThrough(t *testing.T) {
	f := WithFallback(NewKeyword(3), nil)
	rec, err := f.Analyze(context.Background(), "my dog")
	require.NoError(t, err)
	assert.Equal(t, "Small Joys", rec.Category())
}

func deepseekServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultModel, req.Model)
		assert.Equal(t, "json_object", req.ResponseFormat["type"])
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "my grandmother's soup")

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
}

func TestDeepSeekParsesReading(t *testing.T) {
	srv := deepseekServer(t, http.StatusOK, `{"category":"Roots","sentimentColor":"#aa3300","blessing":"Warmth travels.","brightness":0.85,"archetype":"The Healer","distance":"800 Light Years","frequency":"528 Hz"}`)
	defer srv.Close()

	d := NewDeepSeek("sk-test", nil)
	d.Endpoint = srv.URL
	rec, err := d.Analyze(context.Background(), "my grandmother's soup")
	require.NoError(t, err)
	assert.Equal(t, "Roots", rec.Category())
	assert.Equal(t, "#aa3300", rec.Reading.SentimentColor)
	assert.Equal(t, 0.85, rec.Reading.Brightness)
	assert.Equal(t, "my grandmother's soup", rec.Text)
}

func TestDeepSeekNormalizesBadFields(t *testing.T) {
	srv := deepseekServer(t, http.StatusOK, `{"category":"","sentimentColor":"gold","brightness":7}`)
	defer srv.Close()

	d := NewDeepSeek("sk-test", nil)
	d.Endpoint = srv.URL
	rec, err := d.Analyze(context.Background(), "my grandmother's soup")
	require.NoError(t, err)
	assert.Equal(t, "Echo", rec.Category())
	assert.Equal(t, "#ffffff", rec.Reading.SentimentColor)
	assert.Equal(t, 1.0, rec.Reading.Brightness)
}

func TestDeepSeekErrors(t *testing.T) {
	_, err := NewDeepSeek("", nil).Analyze(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrNoAPIKey)

	srv := deepseekServer(t, http.StatusUnauthorized, "{}")
	defer srv.Close()
	d := NewDeepSeek("sk-test", nil)
	d.Endpoint = srv.URL
	_, err = d.Analyze(context.Background(), "my grandmother's soup")
	assert.ErrorContains(t, err, "401")

	bad := deepseekServer(t, http.StatusOK, "not json")
	defer bad.Close()
	d.Endpoint = bad.URL
	_, err = d.Analyze(context.Background(), "my grandmother's soup")
	assert.ErrorContains(t, err, "decode reading")
}

func TestDeepSeekHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	d := NewDeepSeek("sk-test", nil)
	d.Endpoint = srv.URL
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := d.Analyze(ctx, "hello")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("DEEPSEEK_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY", "  sk-env \n")
	t.Setenv("DEEP_SEEK_KEY", "other")
	assert.Equal(t, "sk-env", APIKeyFromEnv())
}

func TestRemote(t *testing.T) {
	want := star.Echo("from the server")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/analyze", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["text"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Missing or invalid text"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"star": want})
	}))
	defer srv.Close()

	r := NewRemote(srv.URL + "/")
	got, err := r.Analyze(context.Background(), "from the server")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = r.Analyze(context.Background(), " ")
	assert.ErrorIs(t, err, ErrEmptyText)
}
