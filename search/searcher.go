package search

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/campfinder/ai"
	"github.com/poiesic/campfinder/core"
)

// Fallback reasons used when explanation generation fails. A ranked match is
// never dropped because its reason could not be generated.
const (
	// ReasonTransportFallback replaces the reason when the explanation
	// request itself failed (network error, non-2xx status).
	ReasonTransportFallback = "Error making request."

	// ReasonUnavailableFallback replaces the reason when the response could
	// not be interpreted, or for any other failure.
	ReasonUnavailableFallback = "Reasoning not available."
)

// DefaultCallTimeout bounds each external call made during a search.
const DefaultCallTimeout = 30 * time.Second

// Searcher ranks the in-memory catalog against free-text queries and
// enriches the top matches with generated explanations.
//
// The catalog is treated as an immutable snapshot: the search path never
// mutates it, so a Searcher is safe for concurrent use.
type Searcher struct {
	catalog     []*core.Initiative
	embedder    ai.Embedder
	explainer   ai.Explainer
	explainPool *ants.Pool
	callTimeout time.Duration
	logger      *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent explanation
// generation. Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(s *Searcher) error {
		if size < 1 {
			size = 1
		}

		if s.explainPool != nil {
			s.explainPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		s.explainPool = pool
		return nil
	}
}

// WithCallTimeout sets the per-call deadline applied to each external
// request (query embedding, each explanation).
// Default is DefaultCallTimeout.
func WithCallTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		if timeout > 0 {
			s.callTimeout = timeout
		}
		return nil
	}
}

// NewSearcher creates a searcher over the given catalog snapshot.
func NewSearcher(catalog []*core.Initiative, provider ai.AIProvider, opts ...Option) (*Searcher, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		catalog:     catalog,
		embedder:    provider.Embedder(),
		explainer:   provider.Explainer(),
		explainPool: pool,
		callTimeout: DefaultCallTimeout,
		logger:      slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			s.Release()
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar searches for initiatives similar to the query.
// Returns up to maxHits results, ranked by similarity descending.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]*core.SearchResult, error) {
	return s.FindSimilarWithMonitor(ctx, query, maxHits, nil)
}

// FindSimilarWithMonitor searches for initiatives similar to the query with
// monitoring. The monitor receives callbacks at each stage of the search.
//
// A failure embedding the query fails the whole search. Failures generating
// individual explanations do not: each failing explanation is replaced by
// fallback text while sibling results proceed.
func (s *Searcher) FindSimilarWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(query)

	// 1. Embed the query. There is no fallback at this stage: ranking
	// cannot proceed without a query vector.
	embedCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	embedding, err := s.embedder.EmbedText(embedCtx, query)
	cancel()
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(len(embedding))

	// 2. Rank the catalog snapshot.
	matches := Rank(embedding, s.catalog, maxHits)
	monitor.AfterRanking(matches)

	// 3. Generate explanations. The top-K matches are independent, so the
	// reasons are produced in parallel and reassembled by index.
	reasons := make([]string, len(matches))
	var wg sync.WaitGroup
	for i, match := range matches {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			reasons[i] = s.explain(ctx, query, match.Initiative.Description)
		}
		if err := s.explainPool.Submit(task); err != nil {
			// Pool rejected the task; run inline rather than drop the reason.
			task()
		}
	}
	wg.Wait()

	// 4. Assemble results in rank order, dropping descriptions.
	results := make([]*core.SearchResult, 0, len(matches))
	for i, match := range matches {
		monitor.AfterExplanation(match.Initiative.CampfireId, reasons[i])
		results = append(results, core.NewSearchResult(match, reasons[i]))
	}
	monitor.Finish(results)

	return results, nil
}

// explain requests a reason for one match, mapping failures to fallback
// text at this boundary. The error stays visible in logs even though it is
// hidden from the caller.
func (s *Searcher) explain(ctx context.Context, query, description string) string {
	explainCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	reason, err := s.explainer.Explain(explainCtx, query, description)
	if err != nil {
		s.logger.Error("error generating match explanation", "err", err)
		if errors.Is(err, ai.ErrExplanationTransport) {
			return ReasonTransportFallback
		}
		return ReasonUnavailableFallback
	}

	return reason
}

// Release releases the explanation worker pool.
// The searcher should not be used after calling Release.
func (s *Searcher) Release() {
	if s.explainPool != nil {
		s.explainPool.Release()
	}
}
