package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/campfinder/ai"
	"github.com/poiesic/campfinder/ai/mock"
	"github.com/poiesic/campfinder/core"
)

func testCatalog() []*core.Initiative {
	return []*core.Initiative{
		{
			Title:       "Sustainable Packaging",
			Owner:       "Supply Chain",
			CampfireId:  "CF-1",
			Description: "replace plastic packaging with recyclable material",
			Embedding:   []float32{1, 0, 0},
		},
		{
			Title:       "Green Fleet",
			Owner:       "Logistics",
			CampfireId:  "CF-2",
			Description: "electrify the delivery fleet",
			Embedding:   []float32{0.8, 0.6, 0},
		},
		{
			Title:       "Office Recycling",
			Owner:       "Facilities",
			CampfireId:  "CF-3",
			Description: "recycling bins in every office",
			Embedding:   []float32{0, 1, 0},
		},
	}
}

func fixedEmbedder(vector []float32) *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return vector, nil
	}
	return embedder
}

func TestNewSearcher(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(testCatalog(), mock.NewMockProvider())
		require.NoError(t, err)
		assert.NotNil(t, searcher)
		searcher.Release()
	})

	t.Run("nil provider", func(t *testing.T) {
		_, err := NewSearcher(testCatalog(), nil)
		assert.Equal(t, ErrAIProviderRequired, err)
	})

	t.Run("with custom pool size", func(t *testing.T) {
		searcher, err := NewSearcher(testCatalog(), mock.NewMockProvider(), WithPoolSize(2))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
		searcher.Release()
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(testCatalog(), mock.NewMockProvider(), WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
		searcher.Release()
	})
}

func TestFindSimilar_RanksAndExplains(t *testing.T) {
	provider := mock.NewMockProviderWithServices(fixedEmbedder([]float32{1, 0, 0}), mock.NewMockExplainer())
	searcher, err := NewSearcher(testCatalog(), provider)
	require.NoError(t, err)
	defer searcher.Release()

	results, err := searcher.FindSimilar(context.Background(), "sustainable packaging", 2)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "CF-1", results[0].CampfireId)
	assert.Equal(t, "CF-2", results[1].CampfireId)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
	for _, result := range results {
		assert.NotEmpty(t, result.Reason)
		assert.NotZero(t, result.Similarity)
	}
}

func TestFindSimilar_EmptyCatalog(t *testing.T) {
	searcher, err := NewSearcher(nil, mock.NewMockProvider())
	require.NoError(t, err)
	defer searcher.Release()

	results, err := searcher.FindSimilar(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFindSimilar_EmbeddingErrorPropagates(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service unavailable")
	}
	provider := mock.NewMockProviderWithServices(embedder, mock.NewMockExplainer())

	searcher, err := NewSearcher(testCatalog(), provider)
	require.NoError(t, err)
	defer searcher.Release()

	_, err = searcher.FindSimilar(context.Background(), "anything", 10)
	assert.Error(t, err)
}

func TestFindSimilar_ExplanationFailureIsIsolated(t *testing.T) {
	explainer := mock.NewMockExplainer()
	explainer.ExplainFunc = func(ctx context.Context, query, description string) (string, error) {
		if description == "electrify the delivery fleet" {
			return "", fmt.Errorf("%w: status 502", ai.ErrExplanationTransport)
		}
		return "A close match.", nil
	}
	provider := mock.NewMockProviderWithServices(fixedEmbedder([]float32{1, 0, 0}), explainer)

	searcher, err := NewSearcher(testCatalog(), provider)
	require.NoError(t, err)
	defer searcher.Release()

	results, err := searcher.FindSimilar(context.Background(), "sustainable packaging", 3)
	require.NoError(t, err)

	require.Len(t, results, 3)
	byId := make(map[string]*core.SearchResult, len(results))
	for _, result := range results {
		byId[result.CampfireId] = result
	}
	assert.Equal(t, "A close match.", byId["CF-1"].Reason)
	assert.Equal(t, ReasonTransportFallback, byId["CF-2"].Reason)
	assert.Equal(t, "A close match.", byId["CF-3"].Reason)
}

func TestFindSimilar_ParseFailureUsesUnavailableFallback(t *testing.T) {
	explainer := mock.NewMockExplainer()
	explainer.ExplainFunc = func(ctx context.Context, query, description string) (string, error) {
		return "", fmt.Errorf("%w: no choices in response", ai.ErrExplanationParse)
	}
	provider := mock.NewMockProviderWithServices(fixedEmbedder([]float32{1, 0, 0}), explainer)

	searcher, err := NewSearcher(testCatalog(), provider)
	require.NoError(t, err)
	defer searcher.Release()

	results, err := searcher.FindSimilar(context.Background(), "anything", 1)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, ReasonUnavailableFallback, results[0].Reason)
}

func TestFindSimilar_ResultsOmitDescription(t *testing.T) {
	provider := mock.NewMockProviderWithServices(fixedEmbedder([]float32{1, 0, 0}), mock.NewMockExplainer())
	searcher, err := NewSearcher(testCatalog(), provider)
	require.NoError(t, err)
	defer searcher.Release()

	results, err := searcher.FindSimilar(context.Background(), "sustainable packaging", 2)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// SearchResult carries no description field; spot-check the populated ones.
	for _, result := range results {
		assert.NotEmpty(t, result.Title)
		assert.NotEmpty(t, result.CampfireId)
	}
}

type recordingMonitor struct {
	started      bool
	embeddingDim int
	ranked       int
	explanations int
	finished     int
}

func (m *recordingMonitor) Start(_ string)              { m.started = true }
func (m *recordingMonitor) AfterQueryEmbedding(dim int) { m.embeddingDim = dim }
func (m *recordingMonitor) AfterRanking(matches []*core.ScoredInitiative) {
	m.ranked = len(matches)
}
func (m *recordingMonitor) AfterExplanation(_, _ string) { m.explanations++ }
func (m *recordingMonitor) Finish(results []*core.SearchResult) {
	m.finished = len(results)
}

func TestFindSimilarWithMonitor(t *testing.T) {
	provider := mock.NewMockProviderWithServices(fixedEmbedder([]float32{1, 0, 0}), mock.NewMockExplainer())
	searcher, err := NewSearcher(testCatalog(), provider)
	require.NoError(t, err)
	defer searcher.Release()

	monitor := &recordingMonitor{}
	results, err := searcher.FindSimilarWithMonitor(context.Background(), "packaging", 2, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, 3, monitor.embeddingDim)
	assert.Equal(t, 2, monitor.ranked)
	assert.Equal(t, 2, monitor.explanations)
	assert.Equal(t, len(results), monitor.finished)
}
