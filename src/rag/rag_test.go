package rag

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChunkTextSentenceBoundaries(t *testing.T) {
	text := "First sentence here. Second sentence follows. Third one closes."
	chunks := ChunkText(text, 45, 0)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d: %v", len(chunks), chunks)
	}
	for _, chunk := range chunks {
		if strings.HasPrefix(chunk, " ") || strings.HasSuffix(chunk, " ") {
			t.Fatalf("chunk not trimmed: %q", chunk)
		}
	}
	if !strings.Contains(chunks[0], "First sentence here.") {
		t.Fatalf("first chunk should keep the full sentence: %q", chunks[0])
	}
}

func TestChunkTextOverlapCarriesContext(t *testing.T) {
	text := strings.Repeat("Alpha beta gamma delta. ", 20)
	chunks := ChunkText(text, 100, 30)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	tail := chunks[0][len(chunks[0])-10:]
	if !strings.Contains(chunks[1], tail) {
		t.Fatalf("second chunk should carry tail of first: %q vs %q", tail, chunks[1])
	}
}

func TestChunkTextEmpty(t *testing.T) {
	if chunks := ChunkText("   \n\t", 100, 10); chunks != nil {
		t.Fatalf("expected nil for blank input, got %v", chunks)
	}
}

func TestInMemoryStoreSearchRanking(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	docs := []Document{
		{ID: "a#0", Source: "a", Content: "cats and dogs", Embedding: DummyEmbedding("cats and dogs")},
		{ID: "b#0", Source: "b", Content: "quantum physics", Embedding: DummyEmbedding("quantum physics")},
	}
	if err := store.Add(ctx, docs); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	results, err := store.Search(ctx, DummyEmbedding("cats and dogs"), 2)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "a#0" {
		t.Fatalf("exact match should rank first, got %s", results[0].ID)
	}
	if results[0].Score < results[1].Score {
		t.Fatal("results not sorted by score")
	}
}

func TestInMemoryStoreDeleteBySource(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	_ = store.Add(ctx, []Document{
		{ID: "x#0", Source: "x"},
		{ID: "x#1", Source: "x"},
		{ID: "y#0", Source: "y"},
	})

	removed, err := store.Delete(ctx, "x")
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	has, _ := store.Has(ctx, "x")
	if has {
		t.Fatal("source x should be gone")
	}
	count, _ := store.Count(ctx)
	if count != 1 {
		t.Fatalf("expected 1 remaining, got %d", count)
	}
}

func TestIndexIngestAndSearch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := "The Eiffel Tower is in Paris. It was completed in 1889. " +
		"The tower is 330 metres tall. It was the tallest structure in the world for decades."
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	idx := NewIndex(NewInMemoryStore(), DummyEmbedder{}, 80, 10, nil)

	n, err := idx.IngestFile(ctx, path)
	if err != nil {
		t.Fatalf("IngestFile returned error: %v", err)
	}
	if n < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", n)
	}

	has, err := idx.Has(ctx, "notes.txt")
	if err != nil || !has {
		t.Fatalf("Has(notes.txt) = %v, %v", has, err)
	}

	out, err := idx.SearchFormatted(ctx, "How tall is the Eiffel Tower?", 2)
	if err != nil {
		t.Fatalf("SearchFormatted returned error: %v", err)
	}
	if !strings.Contains(out, "[Document 1 - Source: notes.txt]") {
		t.Fatalf("formatted output missing header: %q", out)
	}
}

func TestIndexReingestReplaces(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("Version one of the document."), 0o644); err != nil {
		t.Fatal(err)
	}

	idx := NewIndex(NewInMemoryStore(), DummyEmbedder{}, 1000, 0, nil)
	if _, err := idx.IngestFile(ctx, path); err != nil {
		t.Fatal(err)
	}
	first, _ := idx.Count(ctx)

	if _, err := idx.IngestFile(ctx, path); err != nil {
		t.Fatal(err)
	}
	second, _ := idx.Count(ctx)

	if first != second {
		t.Fatalf("re-ingest should replace, not append: %d vs %d", first, second)
	}
}

func TestSearchFormattedEmptyCorpus(t *testing.T) {
	idx := NewIndex(NewInMemoryStore(), DummyEmbedder{}, 1000, 0, nil)
	out, err := idx.SearchFormatted(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("SearchFormatted returned error: %v", err)
	}
	if out != NoResults {
		t.Fatalf("expected %q, got %q", NoResults, out)
	}
}

func TestDummyEmbeddingDeterministic(t *testing.T) {
	a := DummyEmbedding("same text")
	b := DummyEmbedding("same text")
	if len(a) != 768 {
		t.Fatalf("expected 768 dimensions, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("embedding should be deterministic")
		}
	}
}
