package providers

import "context"

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Key   string `json:"key"`
}

type EmbedRequest struct {
	Operation string   `json:"operation"`
	Inputs    []string `json:"inputs"`
	Dimension int      `json:"dimension"`
}

type RerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopK      int      `json:"top_k"`
}

// RankedDoc points back into RerankRequest.Documents by index.
type RankedDoc struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

type EmbeddingProvider interface {
	Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error)
}

type Reranker interface {
	Rerank(ctx context.Context, req RerankRequest) ([]RankedDoc, ProviderInfo, error)
}
