package inquiro

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Tool is a named capability the reasoning model can invoke. Execute receives
// a normalized string input and returns an observation string; implementations
// should not panic, but the loop controller wraps every call defensively
// regardless.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, input string) (string, error)
}

// ToolCatalog resolves an action name to a capability. The registry is built
// once at construction and read-only afterwards, so an unknown name is a
// normal branch rather than a failure.
type ToolCatalog interface {
	Register(tool Tool) error
	Resolve(name string) (Tool, bool)
	Tools() []Tool
	Describe() string
}

// StaticToolCatalog is the default in-memory ToolCatalog implementation.
type StaticToolCatalog struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewStaticToolCatalog constructs a catalog seeded with the provided tools.
// Invalid entries are skipped silently.
func NewStaticToolCatalog(tools []Tool) *StaticToolCatalog {
	catalog := &StaticToolCatalog{tools: make(map[string]Tool)}
	for _, tool := range tools {
		_ = catalog.Register(tool)
	}
	return catalog
}

// Register adds a tool under a lower-cased key. Duplicate names return an error.
func (c *StaticToolCatalog) Register(tool Tool) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	key := strings.ToLower(strings.TrimSpace(tool.Name()))
	if key == "" {
		return fmt.Errorf("tool name is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.tools[key]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name())
	}
	c.tools[key] = tool
	c.order = append(c.order, key)
	return nil
}

// Resolve returns the tool registered under name, if any.
func (c *StaticToolCatalog) Resolve(name string) (Tool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tool, ok := c.tools[strings.ToLower(strings.TrimSpace(name))]
	return tool, ok
}

// Tools returns the registered tools in registration order.
func (c *StaticToolCatalog) Tools() []Tool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tools := make([]Tool, 0, len(c.order))
	for _, key := range c.order {
		tools = append(tools, c.tools[key])
	}
	return tools
}

// Describe renders the registered tools as a prompt-friendly bullet list.
func (c *StaticToolCatalog) Describe() string {
	var sb strings.Builder
	for _, tool := range c.Tools() {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", tool.Name(), tool.Description()))
	}
	return strings.TrimRight(sb.String(), "\n")
}
