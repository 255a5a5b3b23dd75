package providers

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
)

// MockProvider returns deterministic embeddings and a term-overlap reranker
// so the pipeline runs without external keys.
type MockProvider struct {
	dim int
}

func NewMockProvider(dim int) *MockProvider {
	if dim <= 0 {
		dim = 1536
	}
	return &MockProvider{dim: dim}
}

func (m *MockProvider) Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error) {
	_ = ctx
	dim := req.Dimension
	if dim <= 0 {
		dim = m.dim
	}
	vectors := make([][]float32, 0, len(req.Inputs))
	for _, input := range req.Inputs {
		vectors = append(vectors, deterministicVector(input, dim))
	}
	return vectors, ProviderInfo{Name: "mock", Model: fmt.Sprintf("mock-embed-%d", dim), Key: "mock"}, nil
}

// Rerank scores each document by query term overlap. Ties keep input order,
// so output is stable across runs.
func (m *MockProvider) Rerank(ctx context.Context, req RerankRequest) ([]RankedDoc, ProviderInfo, error) {
	_ = ctx
	queryTerms := strings.Fields(strings.ToLower(req.Query))
	ranked := make([]RankedDoc, 0, len(req.Documents))
	for i, doc := range req.Documents {
		lower := strings.ToLower(doc)
		hits := 0
		for _, term := range queryTerms {
			if strings.Contains(lower, term) {
				hits++
			}
		}
		score := 0.0
		if len(queryTerms) > 0 {
			score = float64(hits) / float64(len(queryTerms))
		}
		ranked = append(ranked, RankedDoc{Index: i, Score: score})
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Score > ranked[b].Score })
	if req.TopK > 0 && len(ranked) > req.TopK {
		ranked = ranked[:req.TopK]
	}
	return ranked, ProviderInfo{Name: "mock", Model: "mock-rerank-v1", Key: "mock"}, nil
}

func deterministicVector(input string, dim int) []float32 {
	vec := make([]float32, dim)
	seed := []byte(input)
	if len(seed) == 0 {
		seed = []byte("empty")
	}
	for i := 0; i < dim; i++ {
		h := sha256.Sum256(append(seed, byte(i%251)))
		u := binary.BigEndian.Uint32(h[:4])
		vec[i] = float32(u%2000)/1000.0 - 1.0
	}
	return normalize(vec)
}

func normalize(v []float32) []float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
	return v
}
