package providers

import (
	"context"
	"testing"
)

func TestMockEmbedDeterministic(t *testing.T) {
	m := NewMockProvider(32)
	a, _, err := m.Embed(context.Background(), EmbedRequest{Inputs: []string{"acme climate data"}})
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := m.Embed(context.Background(), EmbedRequest{Inputs: []string{"acme climate data"}})
	if err != nil {
		t.Fatal(err)
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("embedding not deterministic at dim %d", i)
		}
	}
}

func TestMockRerankPrefersOverlap(t *testing.T) {
	m := NewMockProvider(32)
	ranked, _, err := m.Rerank(context.Background(), RerankRequest{
		Query:     "climate data pipelines",
		Documents: []string{"a note about pricing", "climate data pipelines for utilities"},
		TopK:      1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 1 || ranked[0].Index != 1 {
		t.Fatalf("expected doc 1 to rank first, got %+v", ranked)
	}
}
