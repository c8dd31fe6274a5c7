package search

import "github.com/poiesic/campfinder/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEmbedding(dim int)
	AfterRanking(matches []*core.ScoredInitiative)
	AfterExplanation(campfireId, reason string)
	Finish(results []*core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                          {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)               {}
func (n *noopMonitor) AfterRanking(_ []*core.ScoredInitiative) {}
func (n *noopMonitor) AfterExplanation(_, _ string)            {}
func (n *noopMonitor) Finish(_ []*core.SearchResult)           {}
