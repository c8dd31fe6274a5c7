package core

// Initiative is a single catalog entry describing an organizational project
// ("campfire"). Description is the text the embedding is computed from.
// Embedding is absent until the ingestion pipeline has processed the entry.
type Initiative struct {
	Title       string    `json:"title"`
	Owner       string    `json:"owner"`
	CampfireId  string    `json:"campfire_id"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Maturity    string    `json:"maturity"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// Searchable reports whether the initiative can participate in similarity
// ranking against a query vector of the given dimensionality.
func (i *Initiative) Searchable(dim int) bool {
	return i.Description != "" && len(i.Embedding) > 0 && len(i.Embedding) == dim
}

// ScoredInitiative pairs a catalog entry with its similarity to a query.
// It is the intermediate shape between ranking and explanation generation.
type ScoredInitiative struct {
	Initiative *Initiative
	Similarity float32
}

// SearchResult is the per-request response shape returned to callers.
// The raw description is intentionally absent: it is intermediate data
// used only to generate the reason.
type SearchResult struct {
	Title      string  `json:"title"`
	Owner      string  `json:"owner"`
	CampfireId string  `json:"campfire_id"`
	Link       string  `json:"link"`
	Maturity   string  `json:"maturity"`
	Similarity float32 `json:"similarity"`
	Reason     string  `json:"reason"`
}

// NewSearchResult builds a SearchResult from a scored initiative and a
// generated reason.
func NewSearchResult(scored *ScoredInitiative, reason string) *SearchResult {
	return &SearchResult{
		Title:      scored.Initiative.Title,
		Owner:      scored.Initiative.Owner,
		CampfireId: scored.Initiative.CampfireId,
		Link:       scored.Initiative.Link,
		Maturity:   scored.Initiative.Maturity,
		Similarity: scored.Similarity,
		Reason:     reason,
	}
}
