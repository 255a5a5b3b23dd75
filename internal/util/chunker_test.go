package util

import "testing"

func TestChunkTextOverlap(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxyz"
	chunks := ChunkText(text, 10, 2)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}
	if chunks[0] != "abcdefghij" {
		t.Fatalf("unexpected first chunk: %s", chunks[0])
	}
	if chunks[1][:2] != "ij" {
		t.Fatalf("expected 2-rune overlap, second chunk starts %q", chunks[1][:2])
	}
}

func TestChunkTextShortInput(t *testing.T) {
	chunks := ChunkText("short", 1200, 200)
	if len(chunks) != 1 || chunks[0] != "short" {
		t.Fatalf("expected single chunk, got %v", chunks)
	}
}
