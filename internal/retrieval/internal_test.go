package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dealflow/internal/models"
	"dealflow/internal/providers"
	"dealflow/internal/vector"
)

type fakeIndex struct {
	hits      []vector.Hit
	err       error
	gotUser   string
	gotTopK   int
	gotFilter vector.Filters
}

func (f *fakeIndex) Search(ctx context.Context, userID string, queryVec []float32, topK int, filters vector.Filters) ([]vector.Hit, error) {
	f.gotUser = userID
	f.gotTopK = topK
	f.gotFilter = filters
	if f.err != nil {
		return nil, f.err
	}
	if len(f.hits) > topK {
		return f.hits[:topK], nil
	}
	return f.hits, nil
}

func newTestInternalRetriever(index SemanticIndex) *InternalRetriever {
	mock := providers.NewMockProvider(32)
	return NewInternalRetriever(index, mock, mock, 32, "v1", 0)
}

func TestInternalRetrieveOverFetchesAndScopes(t *testing.T) {
	idx := &fakeIndex{}
	ir := newTestInternalRetriever(idx)
	ir.Retrieve(context.Background(), "user-1", "climate data", "company-9", "founder-3", 15)

	if idx.gotUser != "user-1" {
		t.Fatalf("search must be scoped to the requesting user, got %q", idx.gotUser)
	}
	if idx.gotTopK != 30 {
		t.Fatalf("expected over-fetch at 2x topK (30), got %d", idx.gotTopK)
	}
	if idx.gotFilter.CompanyID != "company-9" || idx.gotFilter.FounderID != "founder-3" {
		t.Fatalf("entity scope filters not applied: %+v", idx.gotFilter)
	}
}

func TestInternalRetrieveReranksToTopK(t *testing.T) {
	hits := make([]vector.Hit, 0, 8)
	for i := 0; i < 8; i++ {
		content := fmt.Sprintf("note %d about fundraising", i)
		if i == 7 {
			content = "climate data deep dive"
		}
		hits = append(hits, vector.Hit{DocumentID: fmt.Sprintf("d%d", i), SourceKind: "note", Content: content})
	}
	ir := newTestInternalRetriever(&fakeIndex{hits: hits})
	sources := ir.Retrieve(context.Background(), "user-1", "climate data", "", "", 3)
	if len(sources) != 3 {
		t.Fatalf("expected rerank cut to topK=3, got %d", len(sources))
	}
	if sources[0].ID != "d7" {
		t.Fatalf("term-overlap reranker should float the climate note, got %s", sources[0].ID)
	}
	if sources[0].Origin != models.OriginInternal {
		t.Fatalf("internal hits must map to internal origin, got %s", sources[0].Origin)
	}
}

func TestInternalRetrieveIndexErrorDegradesToEmpty(t *testing.T) {
	ir := newTestInternalRetriever(&fakeIndex{err: errors.New(`relation "documents" does not exist`)})
	sources := ir.Retrieve(context.Background(), "user-1", "anything", "", "", 15)
	if len(sources) != 0 {
		t.Fatalf("index failure must degrade to empty, got %d sources", len(sources))
	}
}

func TestInternalRetrieveConfiguredDefaultTopK(t *testing.T) {
	idx := &fakeIndex{}
	mock := providers.NewMockProvider(32)
	ir := NewInternalRetriever(idx, mock, mock, 32, "v1", 4)
	ir.Retrieve(context.Background(), "user-1", "climate data", "", "", 0)
	if idx.gotTopK != 8 {
		t.Fatalf("default topK of 4 must over-fetch 8, got %d", idx.gotTopK)
	}
}

type emptyEmbed struct{}

func (emptyEmbed) Embed(ctx context.Context, req providers.EmbedRequest) ([][]float32, providers.ProviderInfo, error) {
	return nil, providers.ProviderInfo{Name: "mock"}, nil
}

func TestInternalRetrieveEmptyEmbeddingDegradesToEmpty(t *testing.T) {
	idx := &fakeIndex{}
	ir := NewInternalRetriever(idx, emptyEmbed{}, providers.NewMockProvider(32), 32, "v1", 0)
	sources := ir.Retrieve(context.Background(), "user-1", "anything", "", "", 15)
	if len(sources) != 0 {
		t.Fatalf("no vectors must degrade to empty, got %d sources", len(sources))
	}
	if idx.gotUser != "" {
		t.Fatal("index must not be queried without a query vector")
	}
}
