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
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	readHeaderTimeout = 5 * time.Second
	requestTimeout    = 2 * time.Minute
)

// NewServer creates an HTTP server serving the search routes on addr.
func NewServer(addr string, handlers *Handlers, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.Default().With("component", "api")
	}

	return &http.Server{
		Addr:              addr,
		Handler:           setupRouter(handlers, logger),
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

func setupRouter(handlers *Handlers, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(RequestLogger(logger))
	router.Use(chiMiddleware.Recoverer)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.CleanPath)
	router.Use(chiMiddleware.Heartbeat("/healthz"))
	// Searches wait on external embedding and chat calls, so the request
	// budget is generous.
	router.Use(chiMiddleware.Timeout(requestTimeout))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Get("/", handlers.IndexHandler())
	router.Post("/search", handlers.SearchHandler())

	return router
}
