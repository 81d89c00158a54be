// Package tools provides the built-in capabilities the reasoning loop can
// dispatch to.
package tools

import (
	"context"

	"github.com/inquiro-ai/inquiro/src/rag"
)

// VectorSearchTool answers queries from the document index.
type VectorSearchTool struct {
	Index *rag.Index
	TopK  int
}

func NewVectorSearchTool(index *rag.Index, topK int) *VectorSearchTool {
	if topK <= 0 {
		topK = 3
	}
	return &VectorSearchTool{Index: index, TopK: topK}
}

func (t *VectorSearchTool) Name() string { return "vectorstore_search" }

func (t *VectorSearchTool) Description() string {
	return "Searches the ingested document collection and returns the most relevant passages."
}

func (t *VectorSearchTool) Execute(ctx context.Context, input string) (string, error) {
	return t.Index.SearchFormatted(ctx, input, t.TopK)
}
