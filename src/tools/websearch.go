package tools

import (
	"context"
	"fmt"
	"strings"
)

// WebSearcher is the slice of a model client this tool needs.
type WebSearcher interface {
	WebSearch(ctx context.Context, query string, limit int) ([]map[string]string, error)
}

// NoWebResults is the observation for a query with no usable hits.
const NoWebResults = "No relevant web results found."

// WebSearchTool queries the web through a backing search client.
type WebSearchTool struct {
	Searcher WebSearcher
	Limit    int
}

func NewWebSearchTool(searcher WebSearcher, limit int) *WebSearchTool {
	if limit <= 0 {
		limit = 3
	}
	return &WebSearchTool{Searcher: searcher, Limit: limit}
}

func (t *WebSearchTool) Name() string { return "web_search" }

func (t *WebSearchTool) Description() string {
	return "Searches the web and returns titles, URLs and content snippets for the top results."
}

func (t *WebSearchTool) Execute(ctx context.Context, input string) (string, error) {
	results, err := t.Searcher.WebSearch(ctx, input, t.Limit)
	if err != nil {
		return "", fmt.Errorf("web search: %w", err)
	}

	var sb strings.Builder
	for _, result := range results {
		content := strings.TrimSpace(result["content"])
		if content == "" {
			content = strings.TrimSpace(result["title"])
		}
		if content == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		if url := strings.TrimSpace(result["url"]); url != "" {
			fmt.Fprintf(&sb, "[Source: %s]\n", url)
		}
		sb.WriteString(content)
	}

	if sb.Len() == 0 {
		return NoWebResults, nil
	}
	return sb.String(), nil
}
