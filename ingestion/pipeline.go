// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/campfinder/ai"
	"github.com/poiesic/campfinder/catalog"
	"github.com/poiesic/campfinder/core"
)

const (
	// DefaultBatchSize is the number of descriptions embedded per request.
	DefaultBatchSize = 10

	// DefaultBatchDelay is the pause between embedding batches, inserted to
	// respect upstream rate limits.
	DefaultBatchDelay = 1 * time.Second
)

// Pipeline ingests initiative export rows into the catalog.
type Pipeline struct {
	store      *catalog.Store
	embedder   ai.Embedder
	batchSize  int
	batchDelay time.Duration
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithBatchSize sets the number of descriptions embedded per request.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithBatchDelay sets the pause between embedding batches.
// Default is DefaultBatchDelay.
func WithBatchDelay(delay time.Duration) Option {
	return func(p *Pipeline) error {
		if delay < 0 {
			delay = 0
		}
		p.batchDelay = delay
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(store *catalog.Store, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	p := &Pipeline{
		store:      store,
		embedder:   provider.Embedder(),
		batchSize:  DefaultBatchSize,
		batchDelay: DefaultBatchDelay,
		logger:     slog.Default().With("component", "ingestion"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Summary reports what an ingestion run did.
type Summary struct {
	Existing int // records already in the catalog before the run
	Read     int // data rows read from the source
	Pending  int // rows that survived filtering and awaited embedding
	Embedded int // rows embedded and appended to the catalog
}

// Run reads the export, filters new embeddable rows, computes their
// embeddings in batches, and persists the merged catalog.
//
// On a batch failure the remaining batches are aborted but prior batches are
// persisted; the returned error wraps ErrBatchEmbedding and the Summary
// reflects the partial progress.
func (p *Pipeline) Run(ctx context.Context, source io.Reader) (*Summary, error) {
	existing := p.store.Load()

	rows, err := ReadInitiatives(source)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Existing: len(existing), Read: len(rows)}

	pending := p.filter(existing, rows)
	summary.Pending = len(pending)
	p.logger.Info("found new initiatives", "count", len(pending))

	embedded, batchErr := p.embedBatches(ctx, pending)
	summary.Embedded = len(embedded)

	// Existing entries stay untouched; new entries are appended in source
	// order. Saved even on batch failure so prior batches are kept.
	if err := p.store.Save(append(existing, embedded...)); err != nil {
		return summary, err
	}

	return summary, batchErr
}

// filter drops rows without a campfire id, rows already present in the
// catalog or earlier in the export, and rows without a description. Source
// order is preserved.
func (p *Pipeline) filter(existing, rows []*core.Initiative) []*core.Initiative {
	seen := make(map[string]bool, len(existing))
	for _, initiative := range existing {
		seen[initiative.CampfireId] = true
	}

	pending := make([]*core.Initiative, 0, len(rows))
	for _, row := range rows {
		if row.CampfireId == "" || seen[row.CampfireId] {
			continue
		}
		if row.Description == "" {
			p.logger.Debug("skipping row without description", "campfireId", row.CampfireId)
			continue
		}
		seen[row.CampfireId] = true
		pending = append(pending, row)
	}

	return pending
}

// embedBatches embeds pending rows in fixed-size batches, pausing between
// batches. It returns the rows embedded so far and, on failure, an error
// wrapping ErrBatchEmbedding; no retry is attempted.
func (p *Pipeline) embedBatches(ctx context.Context, pending []*core.Initiative) ([]*core.Initiative, error) {
	embedded := make([]*core.Initiative, 0, len(pending))

	for start := 0; start < len(pending); start += p.batchSize {
		if start > 0 {
			if err := p.pause(ctx); err != nil {
				return embedded, fmt.Errorf("%w: %w", ErrBatchEmbedding, err)
			}
		}

		end := start + p.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, initiative := range batch {
			texts[i] = initiative.Description
		}

		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			p.logger.Error("batch embedding failed, aborting remaining batches",
				"batchStart", start, "batchSize", len(batch), "err", err)
			return embedded, fmt.Errorf("%w: %w", ErrBatchEmbedding, err)
		}
		if len(vectors) != len(batch) {
			p.logger.Error("embedding count mismatch, aborting remaining batches",
				"expected", len(batch), "got", len(vectors))
			return embedded, fmt.Errorf("%w: expected %d, got %d",
				ErrEmbeddingCountMismatch, len(batch), len(vectors))
		}

		// Positional correspondence: vector i belongs to batch row i.
		for i, initiative := range batch {
			initiative.Embedding = vectors[i]
			embedded = append(embedded, initiative)
		}

		p.logger.Debug("embedded batch", "batchStart", start, "batchSize", len(batch))
	}

	return embedded, nil
}

// pause sleeps for the configured batch delay with context awareness.
func (p *Pipeline) pause(ctx context.Context) error {
	if p.batchDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(p.batchDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
