package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/campfinder/ai"
	"github.com/poiesic/campfinder/ai/mock"
	"github.com/poiesic/campfinder/core"
	"github.com/poiesic/campfinder/search"
)

func testCatalog() []*core.Initiative {
	return []*core.Initiative{
		{
			Title:       "Sustainable Packaging",
			Owner:       "Supply Chain",
			CampfireId:  "CF-1",
			Description: "replace plastic packaging with recyclable material",
			Link:        "https://example.com/cf-1",
			Maturity:    "Pilot",
			Embedding:   []float32{1, 0, 0},
		},
		{
			Title:       "Green Fleet",
			Owner:       "Logistics",
			CampfireId:  "CF-2",
			Description: "electrify the delivery fleet",
			Link:        "https://example.com/cf-2",
			Maturity:    "Scaling",
			Embedding:   []float32{0.8, 0.6, 0},
		},
		{
			Title:       "Office Recycling",
			Owner:       "Facilities",
			CampfireId:  "CF-3",
			Description: "recycling bins in every office",
			Link:        "https://example.com/cf-3",
			Maturity:    "Idea",
			Embedding:   []float32{0, 1, 0},
		},
	}
}

func testRouter(t *testing.T, catalog []*core.Initiative, provider ai.AIProvider, opts ...HandlerOption) http.Handler {
	t.Helper()

	searcher, err := search.NewSearcher(catalog, provider)
	require.NoError(t, err)
	t.Cleanup(searcher.Release)

	handlers, err := NewHandlers(searcher, opts...)
	require.NoError(t, err)

	return setupRouter(handlers, slog.Default())
}

func fixedProvider(vector []float32) ai.AIProvider {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return vector, nil
	}
	return mock.NewMockProviderWithServices(embedder, mock.NewMockExplainer())
}

func postSearch(router http.Handler, description string) *httptest.ResponseRecorder {
	form := url.Values{"description": {description}}
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestNewHandlers(t *testing.T) {
	t.Run("nil searcher", func(t *testing.T) {
		_, err := NewHandlers(nil)
		assert.Equal(t, ErrSearcherRequired, err)
	})

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := search.NewSearcher(testCatalog(), mock.NewMockProvider())
		require.NoError(t, err)
		defer searcher.Release()

		handlers, err := NewHandlers(searcher, WithMaxResults(5))
		require.NoError(t, err)
		assert.Equal(t, 5, handlers.maxResults)
	})
}

func TestIndexHandler(t *testing.T) {
	router := testRouter(t, testCatalog(), mock.NewMockProvider())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, recorder.Body.String(), `name="description"`)
}

func TestSearchHandler(t *testing.T) {
	t.Run("returns ranked matches as a JSON array", func(t *testing.T) {
		router := testRouter(t, testCatalog(), fixedProvider([]float32{1, 0, 0}), WithMaxResults(2))

		recorder := postSearch(router, "sustainable packaging")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Header().Get("Content-Type"), "application/json")

		var results []map[string]interface{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &results))

		require.Len(t, results, 2)
		assert.Equal(t, "CF-1", results[0]["campfire_id"])
		assert.Equal(t, "CF-2", results[1]["campfire_id"])

		for _, result := range results {
			assert.Contains(t, result, "title")
			assert.Contains(t, result, "owner")
			assert.Contains(t, result, "link")
			assert.Contains(t, result, "maturity")
			assert.Contains(t, result, "similarity")
			assert.NotEmpty(t, result["reason"])
			assert.NotContains(t, result, "description")
		}
	})

	t.Run("empty description is a valid query", func(t *testing.T) {
		router := testRouter(t, testCatalog(), fixedProvider([]float32{0, 1, 0}))

		recorder := postSearch(router, "")
		require.Equal(t, http.StatusOK, recorder.Code)

		var results []map[string]interface{}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &results))
		assert.Len(t, results, 3)
	})

	t.Run("empty catalog yields an empty JSON array", func(t *testing.T) {
		router := testRouter(t, nil, fixedProvider([]float32{1, 0, 0}))

		recorder := postSearch(router, "anything")
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "[]\n", recorder.Body.String())
	})

	t.Run("embedding failure is an internal error", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("embedding service unavailable")
		}
		provider := mock.NewMockProviderWithServices(embedder, mock.NewMockExplainer())
		router := testRouter(t, testCatalog(), provider)

		recorder := postSearch(router, "anything")
		require.Equal(t, http.StatusInternalServerError, recorder.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "search failed")
	})
}

func TestHeartbeat(t *testing.T) {
	router := testRouter(t, testCatalog(), mock.NewMockProvider())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequestIdHeader(t *testing.T) {
	router := testRouter(t, testCatalog(), mock.NewMockProvider())

	t.Run("generated when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.NotEmpty(t, recorder.Header().Get("X-Request-Id"))
	})

	t.Run("echoed when supplied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-Id", "req-42")
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, "req-42", recorder.Header().Get("X-Request-Id"))
	})
}
