package rag

import (
	"context"
	"math"
	"sort"
	"sync"
)

// InMemoryStore is the default VectorStore: cosine similarity over a slice.
// It suits tests and small corpora; the Postgres and Mongo stores cover the
// persistent cases.
type InMemoryStore struct {
	mu   sync.RWMutex
	docs []Document
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Add(_ context.Context, docs []Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, docs...)
	return nil
}

func (s *InMemoryStore) Search(_ context.Context, embedding []float32, limit int) ([]ScoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || len(s.docs) == 0 {
		return nil, nil
	}

	scored := make([]ScoredDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		scored = append(scored, ScoredDocument{
			Document: doc,
			Score:    cosineSimilarity(embedding, doc.Embedding),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

func (s *InMemoryStore) Delete(_ context.Context, source string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.docs[:0]
	removed := 0
	for _, doc := range s.docs {
		if doc.Source == source {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	s.docs = kept
	return removed, nil
}

func (s *InMemoryStore) Has(_ context.Context, source string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs {
		if doc.Source == source {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

func (s *InMemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

var _ VectorStore = (*InMemoryStore)(nil)
