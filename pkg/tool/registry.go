package tool

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// Registry maintains the name → tool mapping. It owns the registered
// instances for the process lifetime and hands out metadata for prompt
// construction. Reads and writes are mutex-guarded, but callers sharing a
// registry across goroutines should still complete registration during
// startup before serving instructions.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	schemas map[string]*gojsonschema.Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// Register adds a tool. It fails with DuplicateNameError if the name is
// taken and with InvalidToolError if the name is empty or the input schema
// does not compile.
func (r *Registry) Register(t Tool) error {
	meta := t.Metadata()
	schema, err := compileSchema(meta)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[meta.Name]; exists {
		return &DuplicateNameError{Name: meta.Name}
	}

	r.tools[meta.Name] = t
	r.schemas[meta.Name] = schema

	log.Info().Str("tool", meta.Name).Msg("Tool registered")
	return nil
}

// ForceRegister adds a tool, silently replacing any existing entry with the
// same name. Intended for hot-reload scenarios.
func (r *Registry) ForceRegister(t Tool) error {
	meta := t.Metadata()
	schema, err := compileSchema(meta)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools[meta.Name] = t
	r.schemas[meta.Name] = schema

	log.Info().Str("tool", meta.Name).Msg("Tool force-registered")
	return nil
}

// Unregister removes a tool by name, failing with NotFoundError if absent.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		return &NotFoundError{Name: name, Available: r.listNamesLocked()}
	}

	delete(r.tools, name)
	delete(r.schemas, name)

	log.Info().Str("tool", name).Msg("Tool unregistered")
	return nil
}

// Get returns the tool registered under name, failing with NotFoundError
// if absent.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, &NotFoundError{Name: name, Available: r.listNamesLocked()}
	}
	return t, nil
}

// Lookup returns the tool and whether it exists. It never fails.
func (r *Registry) Lookup(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// ListNames returns all registered names in lexicographic order. The
// ordering feeds prompt text, so it must be deterministic across runs.
func (r *Registry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listNamesLocked()
}

// ListMetadata returns one descriptor per registered tool, ordered by name.
func (r *Registry) ListMetadata() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]Descriptor, 0, len(r.tools))
	for _, name := range r.listNamesLocked() {
		descriptors = append(descriptors, r.tools[name].Metadata())
	}
	return descriptors
}

// ValidateArgs runs full JSON-Schema validation of args against the named
// tool's compiled schema. A nil return means the arguments conform.
func (r *Registry) ValidateArgs(name string, args map[string]any) error {
	r.mu.RLock()
	schema := r.schemas[name]
	r.mu.RUnlock()

	if schema == nil {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return err
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, resultErr := range result.Errors() {
			details = append(details, resultErr.String())
		}
		return fmt.Errorf("validation errors: %v", details)
	}
	return nil
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

func (r *Registry) listNamesLocked() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func compileSchema(meta Descriptor) (*gojsonschema.Schema, error) {
	if meta.Name == "" {
		return nil, &InvalidToolError{Reason: "tool has no name defined"}
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(meta.InputSchema.asMap()))
	if err != nil {
		return nil, &InvalidToolError{Name: meta.Name, Reason: fmt.Sprintf("input schema does not compile: %v", err)}
	}
	return schema, nil
}
