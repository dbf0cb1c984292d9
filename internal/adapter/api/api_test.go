package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsreel/internal/adapter/store"
	"newsreel/internal/domain/entity"
	"newsreel/internal/logger"
	"newsreel/internal/usecase"
)

const testSecret = "test-secret"

type staticProvider struct {
	model string
	text  string
}

func (p *staticProvider) Summarize(ctx context.Context, prompt entity.SummaryPrompt) (string, error) {
	return p.text, nil
}

func (p *staticProvider) Model() string { return p.model }

func newSummarizerApp(t *testing.T) *fiber.App {
	t.Helper()
	cache, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	log := logger.New("error")
	svc := usecase.NewSummarizeService(
		usecase.NewResilientSummarizer(
			&staticProvider{model: "primary-model", text: "A compact account of the events described in the article for busy readers."},
			&staticProvider{model: "fallback-model", text: "Fallback account of the events."},
			log,
		),
		cache, nil, nil, log,
		usecase.SummarizeOptions{MaxWords: 150, MinWords: 30, Device: "cpu"},
	)
	svc.SetReady(true)

	app := fiber.New()
	SetupSummarizerRouter(app, NewSummarizeHandler(svc, cache, "primary-model"), testSecret)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func validSummarizeBody() map[string]interface{} {
	return map[string]interface{}{
		"title":   "Fox outruns dog in city park",
		"content": strings.Repeat("The quick brown fox jumps over the lazy dog and keeps on running today. ", 4),
	}
}

func TestSummarizeRequiresAuth(t *testing.T) {
	app := newSummarizerApp(t)

	resp := postJSON(t, app, "/summarize", "", validSummarizeBody())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, app, "/summarize", "wrong-secret", validSummarizeBody())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, app, "/summarize", testSecret, validSummarizeBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSummarizeValidationDetail(t *testing.T) {
	app := newSummarizerApp(t)

	body := validSummarizeBody()
	body["content"] = "too short to summarize"
	resp := postJSON(t, app, "/summarize", testSecret, body)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	decoded := decodeBody(t, resp)
	assert.Equal(t, "content", decoded["field"])
	assert.NotEmpty(t, decoded["error"])
}

func TestSummarizeContentBoundary(t *testing.T) {
	app := newSummarizerApp(t)

	// Exactly 100 characters and at least 20 words passes.
	words := make([]string, 20)
	for i := range words {
		words[i] = "word"
	}
	content := strings.Join(words, " ") + strings.Repeat("x", 100-len(strings.Join(words, " ")))

	body := validSummarizeBody()
	body["content"] = content
	resp := postJSON(t, app, "/summarize", testSecret, body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body["content"] = content[:99]
	resp = postJSON(t, app, "/summarize", testSecret, body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSummarizeCacheHitHeader(t *testing.T) {
	app := newSummarizerApp(t)

	resp := postJSON(t, app, "/summarize", testSecret, validSummarizeBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "false", resp.Header.Get("X-Cache-Hit"))

	resp = postJSON(t, app, "/summarize", testSecret, validSummarizeBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Cache-Hit"))
}

func TestHealthGatesOnReadiness(t *testing.T) {
	cache, err := store.Open(t.TempDir())
	require.NoError(t, err)
	defer cache.Close()

	log := logger.New("error")
	svc := usecase.NewSummarizeService(
		usecase.NewResilientSummarizer(&staticProvider{model: "p", text: "x"}, &staticProvider{model: "f", text: "y"}, log),
		cache, nil, nil, log,
		usecase.SummarizeOptions{MaxWords: 150, MinWords: 30, Device: "cpu"},
	)

	app := fiber.New()
	SetupSummarizerRouter(app, NewSummarizeHandler(svc, cache, "p"), testSecret)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	svc.SetReady(true)
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	decoded := decodeBody(t, resp)
	assert.Equal(t, "healthy", decoded["status"])
	assert.Equal(t, true, decoded["model_loaded"])
}

func TestMetricsOpenAndCounts(t *testing.T) {
	app := newSummarizerApp(t)

	resp := postJSON(t, app, "/summarize", testSecret, validSummarizeBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	metrics, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, metrics.StatusCode)

	decoded := decodeBody(t, metrics)
	assert.Equal(t, float64(1), decoded["requests_processed"])
	assert.Equal(t, float64(1), decoded["cache_entries"])
}

func TestArtifactServing(t *testing.T) {
	dir := t.TempDir()
	cache, err := store.Open(dir)
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "abc123.wav"), []byte("RIFF stub"), 0644))

	log := logger.New("error")
	svc := usecase.NewSpeechService(nil, nil, cache, nil, log, usecase.SpeechOptions{SampleRate: 22050, MaxTextLength: 1000, DefaultVoice: "en_US-lessac-medium"})
	svc.SetReady(true)

	app := fiber.New()
	SetupSpeechRouter(app, NewSpeechHandler(svc, cache, dir), testSecret)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/audio/abc123.wav", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/audio/not-there.wav", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Path traversal is a 404, not a different signal.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/audio/..%2Findex.db", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// The sidecar index sits in the cache dir but must never be streamed.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/audio/index.db", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVoicesOpen(t *testing.T) {
	dir := t.TempDir()
	cache, err := store.Open(dir)
	require.NoError(t, err)
	defer cache.Close()

	log := logger.New("error")
	svc := usecase.NewSpeechService(nil, nil, cache, nil, log, usecase.SpeechOptions{SampleRate: 22050, MaxTextLength: 1000, DefaultVoice: "en_US-lessac-medium"})
	svc.SetReady(true)

	app := fiber.New()
	SetupSpeechRouter(app, NewSpeechHandler(svc, cache, dir), testSecret)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/voices", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	decoded := decodeBody(t, resp)
	voices, ok := decoded["voices"].([]interface{})
	require.True(t, ok)
	assert.Len(t, voices, 2)
}
