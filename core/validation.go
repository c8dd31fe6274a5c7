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


package core

import "fmt"

// ValidateInitiative validates an Initiative according to domain rules.
//
// Validation rules:
//   - CampfireId must not be empty (catalog uniqueness key)
//   - Description must not be empty (source text for the embedding)
//
// NOT validated (optional fields):
//   - Embedding (can be empty until the ingestion pipeline runs)
//   - Title, Owner, Link, Maturity (display metadata, may be empty)
func ValidateInitiative(initiative *Initiative) error {
	if initiative == nil {
		return fmt.Errorf("%w: initiative is nil", ErrInvalidInitiative)
	}

	if initiative.CampfireId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInitiative, ErrEmptyCampfireId)
	}

	if initiative.Description == "" {
		return fmt.Errorf("%w: %w", ErrInvalidInitiative, ErrEmptyDescription)
	}

	return nil
}
