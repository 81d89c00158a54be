package rag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// NoResults is what formatted search returns for an empty corpus or a query
// nothing matches.
const NoResults = "No relevant documents found."

// Index ties an embedder and a vector store together behind ingestion and
// retrieval operations. Sources are identified by base filename.
type Index struct {
	store        VectorStore
	embedder     Embedder
	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

func NewIndex(store VectorStore, embedder Embedder, chunkSize, chunkOverlap int, logger *slog.Logger) *Index {
	if store == nil {
		store = NewInMemoryStore()
	}
	if embedder == nil {
		embedder = DummyEmbedder{}
	}
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{
		store:        store,
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// IngestFile extracts, chunks, embeds and stores one file. It returns the
// number of chunks stored. A source that is already present is re-ingested
// after its old chunks are removed.
func (idx *Index) IngestFile(ctx context.Context, path string) (int, error) {
	source := filepath.Base(path)

	text, err := ExtractFile(path)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", source, err)
	}

	chunks := ChunkText(text, idx.chunkSize, idx.chunkOverlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no text content in %s", source)
	}

	if present, err := idx.store.Has(ctx, source); err == nil && present {
		if _, err := idx.store.Delete(ctx, source); err != nil {
			return 0, fmt.Errorf("replace %s: %w", source, err)
		}
	}

	docs := make([]Document, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := idx.embedder.Embed(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d of %s: %w", i, source, err)
		}
		docs = append(docs, Document{
			ID:        fmt.Sprintf("%s#%d", source, i),
			Source:    source,
			Content:   chunk,
			Embedding: embedding,
		})
	}

	if err := idx.store.Add(ctx, docs); err != nil {
		return 0, fmt.Errorf("store %s: %w", source, err)
	}
	idx.logger.Info("ingested document", "source", source, "chunks", len(docs))
	return len(docs), nil
}

// IngestDir ingests every supported file directly under dir.
func (idx *Index) IngestDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, entry := range entries {
		if entry.IsDir() || !supportedFile(entry.Name()) {
			continue
		}
		n, err := idx.IngestFile(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			idx.logger.Warn("skipping file", "name", entry.Name(), "error", err)
			continue
		}
		total += n
	}
	return total, nil
}

// Search embeds the query and returns the top-k chunks.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]ScoredDocument, error) {
	embedding, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return idx.store.Search(ctx, embedding, k)
}

// SearchFormatted renders search results as observation-ready text.
func (idx *Index) SearchFormatted(ctx context.Context, query string, k int) (string, error) {
	results, err := idx.Search(ctx, query, k)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return NoResults, nil
	}

	var sb strings.Builder
	for i, doc := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[Document %d - Source: %s]\n%s", i+1, doc.Source, doc.Content)
	}
	return sb.String(), nil
}

// Delete removes every chunk belonging to source.
func (idx *Index) Delete(ctx context.Context, source string) (int, error) {
	return idx.store.Delete(ctx, source)
}

// Has reports whether source has been ingested.
func (idx *Index) Has(ctx context.Context, source string) (bool, error) {
	return idx.store.Has(ctx, source)
}

// Count reports the number of stored chunks.
func (idx *Index) Count(ctx context.Context) (int, error) {
	return idx.store.Count(ctx)
}

func supportedFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".txt", ".md":
		return true
	default:
		return false
	}
}
