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


// Package search ranks catalog initiatives against a free-text query.
//
// The ranking core (Rank, CosineSimilarity) is pure and deterministic:
// cosine similarity per searchable record, a stable descending sort, and
// top-K truncation. The Searcher type wraps it with the two external calls:
// embedding the query up front, and generating a short natural-language
// reason for each ranked match afterwards.
//
// The two stages fail differently on purpose. A query that cannot be
// embedded fails the whole search; a reason that cannot be generated is
// replaced by fallback text while its siblings proceed.
package search
