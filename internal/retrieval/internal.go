package retrieval

import (
	"context"
	"log"

	"dealflow/internal/models"
	"dealflow/internal/providers"
	"dealflow/internal/vector"
)

const defaultInternalTopK = 15

// SemanticIndex is the slice of the vector index the internal retriever
// needs.
type SemanticIndex interface {
	Search(ctx context.Context, userID string, queryVec []float32, topK int, filters vector.Filters) ([]vector.Hit, error)
}

// InternalRetriever queries the user's semantic index, over-fetching at
// twice topK and reranking down. Retrieval is best-effort: the assistant
// must keep working when the index is unreachable, so every failure path
// logs and returns an empty list.
type InternalRetriever struct {
	index       SemanticIndex
	embed       providers.EmbeddingProvider
	reranker    providers.Reranker
	embedDim    int
	version     string
	defaultTopK int
}

// NewInternalRetriever builds a retriever. A non-positive defaultTopK falls
// back to 15; it applies when a request does not set its own topK.
func NewInternalRetriever(index SemanticIndex, embed providers.EmbeddingProvider, reranker providers.Reranker, embedDim int, embedVersion string, defaultTopK int) *InternalRetriever {
	if defaultTopK <= 0 {
		defaultTopK = defaultInternalTopK
	}
	return &InternalRetriever{index: index, embed: embed, reranker: reranker, embedDim: embedDim, version: embedVersion, defaultTopK: defaultTopK}
}

func (ir *InternalRetriever) Retrieve(ctx context.Context, userID, query, companyID, founderID string, topK int) []models.Source {
	if topK <= 0 {
		topK = ir.defaultTopK
	}
	vecs, _, err := ir.embed.Embed(ctx, providers.EmbedRequest{Operation: "retrieval_query", Inputs: []string{query}, Dimension: ir.embedDim})
	if err != nil {
		log.Printf("internal retrieval: embed query failed user=%s class=%s err=%v", userID, providers.ClassifyError(err), err)
		return nil
	}
	if len(vecs) == 0 {
		log.Printf("internal retrieval: embed returned no vectors user=%s", userID)
		return nil
	}
	filters := vector.Filters{CompanyID: companyID, FounderID: founderID, EmbeddingVersion: ir.version}
	hits, err := ir.index.Search(ctx, userID, vecs[0], 2*topK, filters)
	if err != nil {
		log.Printf("internal retrieval: index search failed user=%s err=%v", userID, err)
		return nil
	}
	if len(hits) == 0 {
		return nil
	}
	hits = ir.rerank(ctx, query, hits, topK)

	sources := make([]models.Source, 0, len(hits))
	for _, h := range hits {
		sources = append(sources, models.Source{
			ID:               h.DocumentID,
			Origin:           models.OriginInternal,
			SourceKind:       h.SourceKind,
			Title:            h.Title,
			Content:          h.Content,
			URL:              h.ExternalURL,
			Date:             h.CreatedAt,
			SubjectCompanyID: h.CompanyID,
			SubjectFounderID: h.FounderID,
			Score:            h.Score,
		})
	}
	return sources
}

// rerank orders the over-fetched candidates by cross-encoder score and cuts
// to topK. On reranker failure the vector-distance order is kept.
func (ir *InternalRetriever) rerank(ctx context.Context, query string, hits []vector.Hit, topK int) []vector.Hit {
	docs := make([]string, 0, len(hits))
	for _, h := range hits {
		docs = append(docs, h.Content)
	}
	ranked, _, err := ir.reranker.Rerank(ctx, providers.RerankRequest{Query: query, Documents: docs, TopK: topK})
	if err != nil {
		log.Printf("internal retrieval: rerank failed, keeping index order class=%s err=%v", providers.ClassifyError(err), err)
		if len(hits) > topK {
			hits = hits[:topK]
		}
		return hits
	}
	out := make([]vector.Hit, 0, topK)
	for _, r := range ranked {
		if r.Index < 0 || r.Index >= len(hits) {
			continue
		}
		h := hits[r.Index]
		h.Score = r.Score
		out = append(out, h)
		if len(out) == topK {
			break
		}
	}
	return out
}
