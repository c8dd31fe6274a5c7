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


package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/campfinder/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Explainer implements ai.Explainer using OpenAI-compatible chat APIs.
type Explainer struct {
	client llms.Model
	logger *slog.Logger
}

// newExplainer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newExplainer(config *ai.Config) (*Explainer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Explainer{
		client: client,
		logger: slog.Default().With("component", "openai-explainer"),
	}, nil
}

// NewExplainer creates a new match explainer using the provided configuration.
//
// Returns ai.Explainer interface to enforce abstraction.
func NewExplainer(config *ai.Config) (ai.Explainer, error) {
	return newExplainer(config)
}

// Explain asks the chat model for a short justification of why the query
// matches the initiative description. Errors are wrapped with
// ai.ErrExplanationTransport or ai.ErrExplanationParse; callers are expected
// to map them to fallback text rather than fail the surrounding request.
func (e *Explainer) Explain(ctx context.Context, query, description string) (string, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(explanationSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildExplanationPrompt(query, description)),
			},
		},
	}

	response, err := e.client.GenerateContent(ctx, content)
	if err != nil {
		e.logger.Error("error requesting match explanation", "err", err)
		return "", fmt.Errorf("%w: %w", ai.ErrExplanationTransport, err)
	}

	if len(response.Choices) < 1 {
		e.logger.Error("no choices returned from chat model")
		return "", fmt.Errorf("%w: no choices in response", ai.ErrExplanationParse)
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}
