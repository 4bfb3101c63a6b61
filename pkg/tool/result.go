package tool

import "fmt"

// Result is the universal outcome envelope for a tool invocation. Exactly
// one of Output/Error is meaningful depending on Success; Metadata is a
// side channel that is always safe to read.
type Result struct {
	Success  bool           `json:"success"`
	Output   any            `json:"output,omitempty"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Succeed builds a successful result carrying output.
func Succeed(output any) Result {
	return Result{Success: true, Output: output, Metadata: map[string]any{}}
}

// Failf builds a failed result with a formatted error message.
func Failf(format string, a ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, a...), Metadata: map[string]any{}}
}

// WithMeta returns a copy of the result with one metadata entry set.
func (r Result) WithMeta(key string, value any) Result {
	meta := make(map[string]any, len(r.Metadata)+1)
	for k, v := range r.Metadata {
		meta[k] = v
	}
	meta[key] = value
	r.Metadata = meta
	return r
}
