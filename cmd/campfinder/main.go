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

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	campfinder "github.com/poiesic/campfinder"
	"github.com/poiesic/campfinder/ai"
	"github.com/poiesic/campfinder/api"
	"github.com/poiesic/campfinder/core"
	"github.com/poiesic/campfinder/ingestion"
	"github.com/poiesic/campfinder/search"
)

func main() {
	// Load .env if present; flags and the process environment win.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "campfinder",
		Usage: "Semantic search over an initiative catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the search page and API",
				Action: serveCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Address to listen on",
						Value:   ":5000",
					},
					&cli.StringFlag{
						Name:    "catalog",
						Aliases: []string{"c"},
						Usage:   "Path to the initiative catalog JSON file",
						Value:   "initiatives.json",
					},
					&cli.IntFlag{
						Name:    "max-results",
						Aliases: []string{"k"},
						Usage:   "Maximum number of matches per search",
						Value:   search.DefaultMaxResults,
					},
				),
			},
			{
				Name:      "ingest",
				Usage:     "Ingest an initiative CSV export into the catalog",
				ArgsUsage: "<export.csv>",
				Action:    ingestCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:    "catalog",
						Aliases: []string{"c"},
						Usage:   "Path to the initiative catalog JSON file",
						Value:   "initiatives.json",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of descriptions to embed per request",
						Value: ingestion.DefaultBatchSize,
					},
					&cli.DurationFlag{
						Name:  "batch-delay",
						Usage: "Delay between embedding batches",
						Value: ingestion.DefaultBatchDelay,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Run a one-shot search against the catalog",
				ArgsUsage: "<description>",
				Action:    searchCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:    "catalog",
						Aliases: []string{"c"},
						Usage:   "Path to the initiative catalog JSON file",
						Value:   "initiatives.json",
					},
					&cli.IntFlag{
						Name:    "max-results",
						Aliases: []string{"k"},
						Usage:   "Maximum number of matches to print",
						Value:   search.DefaultMaxResults,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiFlags returns the flags shared by every command that talks to the AI
// provider.
func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "ai-host",
			Usage: "OpenAI-compatible API base URL",
			Value: "https://api.openai.com/v1",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the AI provider",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "text-embedding-ada-002",
		},
		&cli.StringFlag{
			Name:  "chat-model",
			Usage: "Chat model name used for match explanations",
			Value: "gpt-4o-mini",
		},
	}
}

func aiConfigFromFlags(c *cli.Context) *ai.Config {
	return ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
	)
}

func serveCommand(c *cli.Context) error {
	app, err := campfinder.NewApp(c.String("catalog"), campfinder.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer app.Close()

	searcher, err := app.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}
	defer searcher.Release()

	handlers, err := api.NewHandlers(searcher, api.WithMaxResults(c.Int("max-results")))
	if err != nil {
		return fmt.Errorf("failed to create handlers: %w", err)
	}

	server := api.NewServer(c.String("addr"), handlers, slog.Default().With("component", "api"))

	slog.Info("listening", "addr", c.String("addr"))
	return server.ListenAndServe()
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one CSV export path")
	}

	app, err := campfinder.NewApp(c.String("catalog"), campfinder.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer app.Close()

	pipeline, err := app.NewIngestionPipeline(
		ingestion.WithBatchSize(c.Int("batch-size")),
		ingestion.WithBatchDelay(c.Duration("batch-delay")),
	)
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}

	source, err := os.Open(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to open CSV export: %w", err)
	}
	defer source.Close()

	summary, err := pipeline.Run(c.Context, source)
	if summary != nil {
		fmt.Fprintf(os.Stderr, "Rows read: %d\n", summary.Read)
		fmt.Fprintf(os.Stderr, "New initiatives: %d\n", summary.Pending)
		fmt.Fprintf(os.Stderr, "Embedded and saved: %d\n", summary.Embedded)
	}
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one search description")
	}

	app, err := campfinder.NewApp(c.String("catalog"), campfinder.WithAIConfig(aiConfigFromFlags(c)))
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer app.Close()

	searcher, err := app.NewSearcher()
	if err != nil {
		return fmt.Errorf("failed to create searcher: %w", err)
	}
	defer searcher.Release()

	monitor := &progressMonitor{out: os.Stderr}
	results, err := searcher.FindSimilarWithMonitor(c.Context, c.Args().First(), c.Int("max-results"), monitor)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%d. %s (%s)\n", i+1, result.Title, result.CampfireId)
		fmt.Printf("   owner: %s  maturity: %s  similarity: %.4f\n", result.Owner, result.Maturity, result.Similarity)
		fmt.Printf("   %s\n", result.Reason)
		if result.Link != "" {
			fmt.Printf("   %s\n", result.Link)
		}
	}

	return nil
}

// progressMonitor reports search stages to stderr.
type progressMonitor struct {
	out   *os.File
	start time.Time
}

func (m *progressMonitor) Start(query string) {
	m.start = time.Now()
	fmt.Fprintf(m.out, "Searching for: %q\n", query)
}

func (m *progressMonitor) AfterQueryEmbedding(dim int) {
	fmt.Fprintf(m.out, "Query embedded (%d dimensions)\n", dim)
}

func (m *progressMonitor) AfterRanking(matches []*core.ScoredInitiative) {
	fmt.Fprintf(m.out, "Ranked catalog, explaining top %d matches...\n", len(matches))
}

func (m *progressMonitor) AfterExplanation(campfireId, _ string) {
	fmt.Fprintf(m.out, "  explained %s\n", campfireId)
}

func (m *progressMonitor) Finish(results []*core.SearchResult) {
	fmt.Fprintf(m.out, "Done: %d matches in %s\n\n", len(results), time.Since(m.start).Round(time.Millisecond))
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
