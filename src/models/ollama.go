package models

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// OllamaLLM talks to a local or remote Ollama server. The host is taken from
// OLLAMA_HOST and defaults to the standard local port.
type OllamaLLM struct {
	Client      *ollama.Client
	Model       string
	Temperature float64
	httpClient  *http.Client
	host        string
}

func NewOllamaLLM(model string, temperature float64) (*OllamaLLM, error) {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = "http://localhost:11434"
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", host, err)
	}

	httpClient := &http.Client{Timeout: 120 * time.Second}

	return &OllamaLLM{
		Client:      ollama.NewClient(u, httpClient),
		Model:       model,
		Temperature: temperature,
		httpClient:  httpClient,
		host:        host,
	}, nil
}

// Generate collects the streamed response into a single string.
func (o *OllamaLLM) Generate(ctx context.Context, prompt string) (string, error) {
	var text strings.Builder

	req := &ollama.GenerateRequest{
		Model:  o.Model,
		Prompt: prompt,
		Options: map[string]any{
			"temperature": o.Temperature,
		},
	}

	if err := o.Client.Generate(ctx, req, func(gr ollama.GenerateResponse) error {
		if gr.Response != "" {
			text.WriteString(gr.Response)
		}
		return nil
	}); err != nil {
		return "", err
	}

	return text.String(), nil
}

// WebSearch queries the Ollama Web Search API and returns the top results.
// Each result map carries "title", "url" and "content" keys.
func (o *OllamaLLM) WebSearch(ctx context.Context, query string, limit int) ([]map[string]string, error) {
	endpoint := fmt.Sprintf("%s/api/web_search", strings.TrimRight(o.host, "/"))

	reqBody := map[string]any{"query": query}
	if limit > 0 {
		reqBody["limit"] = limit
	}
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(reqBody); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, buf)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key := os.Getenv("OLLAMA_API_KEY"); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("web search failed: %s", resp.Status)
	}

	var data struct {
		Results []map[string]string `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return data.Results, nil
}

var _ Provider = (*OllamaLLM)(nil)
