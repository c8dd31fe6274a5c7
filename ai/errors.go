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


package ai

import "errors"

var (
	// ErrMissingAPIKey indicates the API key credential is absent.
	// Clients fail fast on this error before any network call is made.
	ErrMissingAPIKey = errors.New("API key is missing: set the OPENAI_API_KEY environment variable")

	// ErrExplanationTransport indicates a network failure or non-success
	// HTTP status while requesting a match explanation.
	ErrExplanationTransport = errors.New("explanation request failed")

	// ErrExplanationParse indicates the explanation response did not contain
	// the expected content.
	ErrExplanationParse = errors.New("explanation response malformed")
)
