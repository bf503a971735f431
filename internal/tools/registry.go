// Package tools registers the read-only query tools on the MCP server
// and mirrors them on the ops HTTP surface through one shared registry.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownTool is returned when an invocation names a tool that was
// never registered.
var ErrUnknownTool = errors.New("unknown tool")

// ToolInfo describes one registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type entry struct {
	info   ToolInfo
	invoke func(ctx context.Context, args json.RawMessage) (string, error)
}

// Registry is the name-indexed tool table behind the HTTP dispatch
// endpoint and the tools CLI command.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

func (r *Registry) add(info ToolInfo, invoke func(ctx context.Context, args json.RawMessage) (string, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[info.Name] = entry{info: info, invoke: invoke}
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []ToolInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]ToolInfo, 0, len(r.entries))
	for _, e := range r.entries {
		infos = append(infos, e.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Invoke dispatches a tool call with raw JSON arguments.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (string, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return e.invoke(ctx, args)
}
