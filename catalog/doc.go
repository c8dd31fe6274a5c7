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


// Package catalog persists the initiative catalog as a single flat JSON
// document of the shape {"initiatives": [...]}.
//
// The store is deliberately simple: the whole catalog is read at service
// startup and rewritten in full by ingestion runs. There is no locking; a
// single writer is assumed and the search path never mutates the catalog.
//
// Load degrades rather than fails: a missing file yields an empty catalog,
// and read or parse failures are logged and likewise yield an empty catalog
// so the service can still start. Records that fail domain validation are
// quarantined (dropped and logged) at the load boundary instead of being
// trusted downstream.
package catalog
