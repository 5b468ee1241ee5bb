package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/analysis"
	"github.com/frankfika/thanksgiving/internal/metrics"
	"github.com/frankfika/thanksgiving/internal/star"
	"github.com/frankfika/thanksgiving/internal/store"
)

type brokenBackend struct{}

func (brokenBackend) List(context.Context) ([]star.Record, error) { return nil, errors.New("db down") }
func (brokenBackend) Save(context.Context, star.Record) error    { return errors.New("db down") }

func newTestServer(t *testing.T, backend store.Backend, a analysis.Analyzer) (*httptest.Server, *metrics.Collector) {
	t.Helper()
	m := metrics.New("starfield", analysis.Categories()...)
	srv := httptest.NewServer(New(backend, a, m, zap.NewNop()).Routes())
	t.Cleanup(srv.Close)
	return srv, m
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestListStars(t *testing.T) {
	srv, _ := newTestServer(t, store.NewMemory(10, star.Defaults()...), nil)

	resp, err := http.Get(srv.URL + "/api/stars")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var out struct {
		Stars []star.Record `json:"stars"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Stars, len(star.Defaults()))
}

func TestListStarsEmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t, store.NewMemory(10), nil)
	resp, err := http.Get(srv.URL + "/api/stars")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	assert.JSONEq(t, `{"stars":[]}`, buf.String())
}

func TestCreateStar(t *testing.T) {
	mem := store.NewMemory(10)
	srv, m := newTestServer(t, mem, nil)

	body, err := json.Marshal(star.Echo("the quiet"))
	require.NoError(t, err)
	resp := postJSON(t, srv.URL+"/api/stars", string(body))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Success bool        `json:"success"`
		Star    star.Record `json:"star"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Equal(t, "the quiet", out.Star.Text)
	assert.Equal(t, 1, mem.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StarsCreated.WithLabelValues("Echo")))
}

func TestCreateStarRejectsInvalid(t *testing.T) {
	mem := store.NewMemory(10)
	srv, _ := newTestServer(t, mem, nil)

	for _, body := range []string{
		`{"originalText":"no id"}`,
		`{"id":"abc"}`,
		`{"id":"abc","originalText":"   "}`,
		`{"id":"abc","originalText":"no reading"}`,
		`not json`,
	} {
		resp := postJSON(t, srv.URL+"/api/stars", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		var out map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "Invalid star data", out["error"])
	}
	assert.Equal(t, 0, mem.Len())
}

func TestCreateStarStoresNormalizedReading(t *testing.T) {
	mem := store.NewMemory(10)
	srv, _ := newTestServer(t, mem, nil)

	body := `{"id":"s1","originalText":"my sister","aiResponse":{"category":"Family","sentimentColor":"not-a-color","brightness":7}}`
	resp := postJSON(t, srv.URL+"/api/stars", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	recs, err := mem.List(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, star.DefaultColor, recs[0].Reading.SentimentColor)
	assert.Equal(t, star.MaxBrightness, recs[0].Reading.Brightness)
	assert.Equal(t, "Family", recs[0].Category())
}

func TestMetricLabelsStayBounded(t *testing.T) {
	srv, m := newTestServer(t, store.NewMemory(200), nil)

	for i := 0; i < 50; i++ {
		resp, err := http.Get(fmt.Sprintf("%s/scan/%d", srv.URL, i))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		rec := star.Echo("thanks")
		rec.Reading.Category = fmt.Sprintf("cat-%d", i)
		body, err := json.Marshal(rec)
		require.NoError(t, err)
		resp = postJSON(t, srv.URL+"/api/stars", string(body))
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// One series for the unmatched paths, one for the star posts.
	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPRequests))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StarsCreated))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.StarsCreated.WithLabelValues(metrics.OtherCategory)))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", metrics.UnmatchedRoute, "404")))
}

func TestBackendFailures(t *testing.T) {
	srv, _ := newTestServer(t, brokenBackend{}, nil)

	resp, err := http.Get(srv.URL + "/api/stars")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, _ := json.Marshal(star.Echo("x"))
	resp = postJSON(t, srv.URL+"/api/stars", string(body))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestAnalyze(t *testing.T) {
	srv, _ := newTestServer(t, store.NewMemory(10), analysis.NewKeyword(1))

	resp := postJSON(t, srv.URL+"/api/analyze", `{"text":"my brother"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Star star.Record `json:"star"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Family", out.Star.Category())
	assert.NotEmpty(t, out.Star.ID)

	resp = postJSON(t, srv.URL+"/api/analyze", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = postJSON(t, srv.URL+"/api/analyze", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAnalyzeFallsBackToEcho(t *testing.T) {
	srv, m := newTestServer(t, store.NewMemory(10), nil)

	resp := postJSON(t, srv.URL+"/api/analyze", `{"text":"hello"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Star star.Record `json:"star"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Echo", out.Star.Category())
	assert.Equal(t, "Your gratitude echoes in the silence of the cosmos.", out.Star.Reading.Blessing)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysisFailures))
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, store.NewMemory(10), nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/stars", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}

func TestHealthAndMetrics(t *testing.T) {
	srv, m := newTestServer(t, store.NewMemory(10), nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/healthz", "200")))
}

func TestUnknownMethod(t *testing.T) {
	srv, _ := newTestServer(t, store.NewMemory(10), nil)
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/stars", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
