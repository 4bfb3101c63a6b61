// Package executor is the single permitted path to tool invocation. It
// resolves names through the registry, validates inputs, contains faults
// raised by tool code, and emits a fixed sequence of lifecycle events to an
// optional observer. Execute always returns a result, never an error.
package executor

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/halim/orin/pkg/tool"
)

// Executor dispatches tool invocations against a registry it references
// but does not own.
type Executor struct {
	registry *tool.Registry
	logger   zerolog.Logger
}

// New creates an executor bound to a registry.
func New(registry *tool.Registry, logger zerolog.Logger) *Executor {
	return &Executor{registry: registry, logger: logger}
}

// Execute runs the named tool with the given arguments. The pipeline is
// ordered and non-skippable: lookup, required-input validation, schema
// validation, invocation inside a fault boundary. Every failure is
// converted into a failed result; callers never see a panic.
func (e *Executor) Execute(ctx context.Context, toolName string, args map[string]any, callback EventCallback) tool.Result {
	e.logger.Info().Str("tool", toolName).Int("args", len(args)).Msg("Executor received request")

	e.emit(callback, EventInfo, StageLookupStarted, fmt.Sprintf("Looking up tool %q", toolName), toolName)

	t, ok := e.registry.Lookup(toolName)
	if !ok {
		msg := fmt.Sprintf("tool %q is not registered. Available: %v", toolName, e.registry.ListNames())
		e.logger.Warn().Str("tool", toolName).Msg(msg)
		e.emit(callback, EventError, StageLookupFailed, msg, toolName)
		return tool.Result{Success: false, Error: msg, Metadata: map[string]any{}}
	}

	e.emit(callback, EventStatus, StageLookupCompleted, fmt.Sprintf("Resolved tool %q", toolName), toolName)
	e.emit(callback, EventInfo, StageValidationStarted, fmt.Sprintf("Validating inputs for %q", toolName), toolName)

	if missing := t.ValidateInputs(args); len(missing) > 0 {
		msg := fmt.Sprintf("Missing required input(s) for %q: %s", toolName, strings.Join(missing, ", "))
		e.logger.Warn().Str("tool", toolName).Strs("missing", missing).Msg("Input validation failed")
		e.emit(callback, EventError, StageValidationFailed, msg, toolName)
		return tool.Result{Success: false, Error: msg, Metadata: map[string]any{}}
	}

	if err := e.registry.ValidateArgs(toolName, args); err != nil {
		msg := fmt.Sprintf("Invalid input(s) for %q: %v", toolName, err)
		e.logger.Warn().Str("tool", toolName).Err(err).Msg("Schema validation failed")
		e.emit(callback, EventError, StageValidationFailed, msg, toolName)
		return tool.Result{Success: false, Error: msg, Metadata: map[string]any{}}
	}

	e.emit(callback, EventStatus, StageExecutionStarted, fmt.Sprintf("Executing %q", toolName), toolName)

	result, traceback := e.invoke(ctx, t, toolName, args)
	if traceback != "" {
		e.logger.Error().Str("tool", toolName).Str("error", result.Error).Msg("Tool faulted")
		e.emit(callback, EventError, StageExecutionFailed, result.Error, toolName)
		return result
	}

	if result.Success {
		e.logger.Info().Str("tool", toolName).Msg("Tool finished")
		e.emit(callback, EventStatus, StageExecutionCompleted, fmt.Sprintf("Tool %q completed successfully", toolName), toolName)
	} else {
		// The tool ran to completion but reported a logical failure. This
		// is distinct from a fault: observers may retry logical failures at
		// a higher level but should not retry buggy tools.
		e.logger.Warn().Str("tool", toolName).Str("error", result.Error).Msg("Tool reported failure")
		e.emit(callback, EventError, StageExecutionCompleted, fmt.Sprintf("Tool %q completed with failure: %s", toolName, result.Error), toolName)
	}
	return result
}

// AvailableTools returns the names the executor can dispatch to.
func (e *Executor) AvailableTools() []string {
	return e.registry.ListNames()
}

// ToolMetadata returns descriptors for every available tool.
func (e *Executor) ToolMetadata() []tool.Descriptor {
	return e.registry.ListMetadata()
}

// invoke is the fault boundary around tool code. Tool implementations are
// untrusted plugins; a panic here is captured with its stack and converted
// so callers never see a raw fault.
func (e *Executor) invoke(ctx context.Context, t tool.Tool, toolName string, args map[string]any) (result tool.Result, traceback string) {
	defer func() {
		if r := recover(); r != nil {
			traceback = string(debug.Stack())
			result = tool.Result{
				Success:  false,
				Error:    fmt.Sprintf("Unexpected error in tool %q: %v", toolName, r),
				Metadata: map[string]any{"traceback": traceback},
			}
		}
	}()
	return t.Execute(ctx, args), ""
}

// emit delivers one event to the callback. The callback is an observer,
// not a participant: a panic inside it is logged and swallowed so it can
// never interrupt or alter the pipeline's outcome.
func (e *Executor) emit(callback EventCallback, eventType EventType, stage Stage, message, toolName string) {
	if callback == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn().Interface("panic", r).Str("stage", string(stage)).Msg("Event callback panicked")
		}
	}()
	callback(Event{
		Type:      eventType,
		Stage:     stage,
		Message:   message,
		Tool:      toolName,
		Timestamp: time.Now().UTC(),
	})
}
