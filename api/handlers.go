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


package api

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/poiesic/campfinder/search"
)

// Handlers serves the search page and the search endpoint.
type Handlers struct {
	searcher   *search.Searcher
	maxResults int
	index      *template.Template
	logger     *slog.Logger
}

// HandlerOption configures Handlers.
type HandlerOption func(*Handlers) error

// WithMaxResults caps the number of matches returned per search.
// Default is search.DefaultMaxResults.
func WithMaxResults(maxResults int) HandlerOption {
	return func(h *Handlers) error {
		if maxResults < 1 {
			maxResults = search.DefaultMaxResults
		}
		h.maxResults = maxResults
		return nil
	}
}

// WithHandlerLogger sets a custom logger.
// Default is slog.Default().
func WithHandlerLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handlers) error {
		if logger == nil {
			logger = slog.Default()
		}
		h.logger = logger
		return nil
	}
}

// NewHandlers creates the HTTP handlers backed by the given searcher. The
// search page template is parsed once, up front.
func NewHandlers(searcher *search.Searcher, opts ...HandlerOption) (*Handlers, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	index, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page template: %w", err)
	}

	h := &Handlers{
		searcher:   searcher,
		maxResults: search.DefaultMaxResults,
		index:      index,
		logger:     slog.Default().With("component", "api"),
	}

	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// IndexHandler renders the search page.
func (h *Handlers) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.index.Execute(w, nil); err != nil {
			h.logger.Error("failed to render search page", "err", err)
		}
	}
}

// SearchHandler accepts a form-encoded description and responds with a JSON
// array of matches ordered by descending similarity. An empty description is
// a valid query.
func (h *Handlers) SearchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			JSONError(w, fmt.Errorf("failed to parse form: %w", err), http.StatusBadRequest)
			return
		}
		description := r.PostFormValue("description")

		results, err := h.searcher.FindSimilar(r.Context(), description, h.maxResults)
		if err != nil {
			JSONError(w, fmt.Errorf("search failed: %w", err), http.StatusInternalServerError)
			return
		}

		if err := EncodeJSON(w, results); err != nil {
			h.logger.Error("failed to encode search results", "err", err)
		}
	}
}
