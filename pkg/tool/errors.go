package tool

import "fmt"

// InvalidToolError reports a tool that cannot be registered at all, for
// example one with an empty name or a schema that does not compile.
type InvalidToolError struct {
	Name   string
	Reason string
}

func (e *InvalidToolError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid tool: %s", e.Reason)
	}
	return fmt.Sprintf("invalid tool %q: %s", e.Name, e.Reason)
}

// DuplicateNameError reports a Register call that would overwrite an
// existing entry. ForceRegister bypasses this guard.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("a tool named %q is already registered; use ForceRegister to overwrite it", e.Name)
}

// NotFoundError reports a lookup for an unregistered name. It carries the
// currently available names for diagnostics.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q is not registered. Available: %v", e.Name, e.Available)
}
