package rag

import "context"

// Document is one ingested chunk with its embedding.
type Document struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
}

// ScoredDocument pairs a document with its similarity to a query.
type ScoredDocument struct {
	Document
	Score float64 `json:"score"`
}

// VectorStore persists document chunks and serves nearest-neighbor lookups.
type VectorStore interface {
	Add(ctx context.Context, docs []Document) error
	Search(ctx context.Context, embedding []float32, limit int) ([]ScoredDocument, error)
	Delete(ctx context.Context, source string) (int, error)
	Has(ctx context.Context, source string) (bool, error)
	Count(ctx context.Context) (int, error)
	Reset(ctx context.Context) error
}
