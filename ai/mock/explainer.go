package mock

import (
	"context"
	"fmt"
)

// MockExplainer is a test double for ai.Explainer.
// It allows custom behavior injection via function fields.
type MockExplainer struct {
	// ExplainFunc is called by Explain if set.
	// If nil, uses default canned behavior.
	ExplainFunc func(ctx context.Context, query, description string) (string, error)

	callCount int
}

// NewMockExplainer creates a mock explainer with default canned behavior.
// Note: Returns concrete type to allow test assertions via GetMockExplainer().
func NewMockExplainer() *MockExplainer {
	return &MockExplainer{}
}

// Explain returns a canned reason referencing the query.
func (m *MockExplainer) Explain(ctx context.Context, query, description string) (string, error) {
	m.callCount++

	if m.ExplainFunc != nil {
		return m.ExplainFunc(ctx, query, description)
	}

	return fmt.Sprintf("This initiative relates closely to %q.", query), nil
}

// CallCount returns the number of times Explain was called.
func (m *MockExplainer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockExplainer) Reset() {
	m.callCount = 0
	m.ExplainFunc = nil
}
