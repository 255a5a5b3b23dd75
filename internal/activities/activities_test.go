package activities

import (
	"context"
	"strings"
	"testing"

	"dealflow/internal/config"
	"dealflow/internal/providers"
	"dealflow/internal/storage"
)

type fakeDocumentInserter struct {
	docs []storage.DocumentInsert
}

func (f *fakeDocumentInserter) InsertDocuments(ctx context.Context, docs []storage.DocumentInsert) error {
	f.docs = append(f.docs, docs...)
	return nil
}

func newTestActivities(t *testing.T, cfg config.Config, repo documentInserter) *Activities {
	t.Helper()
	pm, err := providers.NewManager(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return &Activities{cfg: cfg, docRepo: repo, providers: pm}
}

func TestPersistWebSourcesCapsWrites(t *testing.T) {
	repo := &fakeDocumentInserter{}
	a := newTestActivities(t, config.Config{EmbedDim: 8, EmbedVersion: "v1"}, repo)

	in := PersistWebSourcesInput{UserID: "u1", CompanyID: "c1"}
	for _, title := range []string{"First", "Second", "Third", "Fourth", "Fifth"} {
		in.Sources = append(in.Sources, WebSourceItem{
			Title:   title,
			Content: title + " story body",
			URL:     "https://acme.io/" + strings.ToLower(title),
		})
	}
	out, err := a.PersistWebSourcesActivity(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if out.Persisted != 3 || len(repo.docs) != 3 {
		t.Fatalf("expected exactly 3 writes, got persisted=%d inserts=%d", out.Persisted, len(repo.docs))
	}
	seen := map[string]bool{}
	for i, d := range repo.docs {
		rec := d.Record
		if rec.DocumentID == "" || seen[rec.DocumentID] {
			t.Fatalf("document %d must get a fresh id, got %q", i, rec.DocumentID)
		}
		seen[rec.DocumentID] = true
		if rec.SourceKind != "web_document" {
			t.Fatalf("document %d source kind = %q", i, rec.SourceKind)
		}
		if rec.UserID != "u1" || rec.CompanyID != "c1" {
			t.Fatalf("document %d lost its scope: %+v", i, rec)
		}
		if rec.ExternalURL != in.Sources[i].URL {
			t.Fatalf("document %d must keep the source URL, got %q", i, rec.ExternalURL)
		}
	}
	if repo.docs[0].Record.Title != "First" || repo.docs[2].Record.Title != "Third" {
		t.Fatalf("cap must keep the first three sources in order: %+v", repo.docs)
	}
}

func TestChunkDocumentActivity(t *testing.T) {
	a := &Activities{cfg: config.Config{DocumentChunkSize: 10, DocumentChunkOverlap: 2}}
	out, err := a.ChunkDocumentActivity(context.Background(), ChunkDocumentInput{
		UserID: "u1",
		Title:  "deck",
		Text:   strings.Repeat("abcde ", 10),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(out.Chunks))
	}
	for i, c := range out.Chunks {
		if c.ChunkIndex != i {
			t.Fatalf("chunk index mismatch at %d: %d", i, c.ChunkIndex)
		}
		if c.ChunkID == "" {
			t.Fatalf("chunk %d missing id", i)
		}
	}
}

func TestDeterministicDocumentID(t *testing.T) {
	a := deterministicDocumentID("chunk-1")
	b := deterministicDocumentID("chunk-1")
	c := deterministicDocumentID("chunk-2")
	if a != b {
		t.Fatal("same chunk must map to the same document id")
	}
	if a == c {
		t.Fatal("different chunks must map to different document ids")
	}
}
