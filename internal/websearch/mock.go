package websearch

import (
	"context"
	"strings"
	"sync"
)

// MockClient serves canned results and records the queries it saw. Safe for
// concurrent use so fan-out tests can run against it.
type MockClient struct {
	mu      sync.Mutex
	fixed   []Result
	byQuery map[string][]Result
	queries []string
	err     error
}

func NewMockClient(fixed []Result) *MockClient {
	return &MockClient{fixed: fixed, byQuery: map[string][]Result{}}
}

// On registers results returned for queries containing the given fragment.
func (m *MockClient) On(queryFragment string, results []Result) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byQuery[queryFragment] = results
	return m
}

func (m *MockClient) Fail(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *MockClient) Search(ctx context.Context, req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, req.Query)
	if m.err != nil {
		return Response{}, m.err
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	for fragment, results := range m.byQuery {
		if strings.Contains(req.Query, fragment) {
			return Response{Results: capResults(results, req.NumResults)}, nil
		}
	}
	return Response{Results: capResults(m.fixed, req.NumResults)}, nil
}

func (m *MockClient) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.queries))
	copy(out, m.queries)
	return out
}

func capResults(results []Result, n int) []Result {
	if n > 0 && len(results) > n {
		return results[:n]
	}
	return results
}
