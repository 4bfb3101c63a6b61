// Package tool defines the tool contract shared by the registry, the
// executor and the agent: a descriptor the model can reason about, a
// validation helper derived from that descriptor, and a uniform result
// envelope returned by every execution.
package tool

import (
	"context"
	"sort"
)

// Property describes a single argument in a tool's input schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}

// InputSchema is a JSON-Schema-shaped description of the arguments a tool
// accepts. Required lists the property names that must be present.
type InputSchema struct {
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// MissingRequired returns the required keys absent from args, sorted.
func (s InputSchema) MissingRequired(args map[string]any) []string {
	missing := []string{}
	for _, key := range s.Required {
		if _, ok := args[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// PropertyNames returns the schema's property names, sorted. Map iteration
// order is randomized in Go; prompt rendering needs a stable order so that
// identical registries produce identical prompts.
func (s InputSchema) PropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// asMap renders the schema in plain JSON-Schema form for compilation.
func (s InputSchema) asMap() map[string]any {
	properties := make(map[string]any, len(s.Properties))
	for name, prop := range s.Properties {
		p := map[string]any{
			"type":        prop.Type,
			"description": prop.Description,
		}
		if prop.Default != nil {
			p["default"] = prop.Default
		}
		properties[name] = p
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(s.Required) > 0 {
		schema["required"] = s.Required
	}
	return schema
}

// Descriptor is the immutable metadata every tool exposes. The name is the
// registry key; description and schema are rendered into the model prompt.
type Descriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"input_schema"`
}

// Tool is the capability contract fulfilled by every registered tool.
// Implementations are untrusted: the executor contains any panic raised by
// Execute, so tool code does not have to be defensive.
type Tool interface {
	// Metadata returns the tool's descriptor.
	Metadata() Descriptor

	// ValidateInputs returns the names of required arguments missing from
	// args. An empty slice means the inputs are complete.
	ValidateInputs(args map[string]any) []string

	// Execute runs the tool with the given arguments. Logical failures are
	// reported through the result, not by panicking.
	Execute(ctx context.Context, args map[string]any) Result
}

// Base provides Metadata and ValidateInputs for tools built around a static
// descriptor. Concrete tools embed Base and implement Execute.
type Base struct {
	Desc Descriptor
}

// Metadata returns the embedded descriptor.
func (b Base) Metadata() Descriptor { return b.Desc }

// ValidateInputs checks args against the descriptor's required keys.
func (b Base) ValidateInputs(args map[string]any) []string {
	return b.Desc.InputSchema.MissingRequired(args)
}

// Handler is the function signature accepted by NewFunc. A non-nil error is
// reported as a logical failure in the returned result.
type Handler func(ctx context.Context, args map[string]any) (any, error)

type funcTool struct {
	Base
	handler Handler
}

// NewFunc adapts a plain function into a Tool.
func NewFunc(desc Descriptor, handler Handler) Tool {
	return &funcTool{Base: Base{Desc: desc}, handler: handler}
}

func (t *funcTool) Execute(ctx context.Context, args map[string]any) Result {
	output, err := t.handler(ctx, args)
	if err != nil {
		return Failf("%v", err)
	}
	return Succeed(output)
}
