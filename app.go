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


package campfinder

import (
	"log/slog"

	"github.com/poiesic/campfinder/ai"
	"github.com/poiesic/campfinder/ai/openai"
	"github.com/poiesic/campfinder/catalog"
	"github.com/poiesic/campfinder/ingestion"
	"github.com/poiesic/campfinder/search"
)

// App wires the catalog store and the AI provider together and hands out
// configured searchers and ingestion pipelines.
type App struct {
	store    *catalog.Store
	provider ai.AIProvider
	logger   *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig sets the AI provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) AppOption {
	return func(o *appOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// NewApp opens the catalog at filePath and connects the AI provider.
func NewApp(filePath string, opts ...AppOption) (*App, error) {
	// Apply options
	options := &appOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open catalog store
	store, err := catalog.NewStore(filePath)
	if err != nil {
		return nil, err
	}

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()

	fingerprint, err := store.Fingerprint()
	if err != nil {
		logger.Warn("could not fingerprint catalog file", "path", filePath, "err", err)
	} else {
		logger.Info("opened catalog", "path", filePath, "fingerprint", fingerprint)
	}

	return &App{
		store:    store,
		provider: provider,
		logger:   logger,
	}, nil
}

func (a *App) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}

func (a *App) Store() *catalog.Store {
	return a.store
}

// NewSearcher loads the current catalog snapshot and creates a searcher
// over it.
func (a *App) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	initiatives := a.store.Load()
	a.logger.Info("loaded initiatives", "count", len(initiatives))
	return search.NewSearcher(initiatives, a.provider, opts...)
}

func (a *App) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(a.store, a.provider, opts...)
}
