// Package agent is the decision layer: it renders registry metadata into a
// prompt, consults the model backend once per instruction, recovers a JSON
// decision from the response, and delegates execution to the executor. It
// is the only layer that talks to the backend and it never executes tools
// itself.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/halim/orin/pkg/executor"
	"github.com/halim/orin/pkg/tool"
)

const declinedMessage = "Model responded with tool=null; no suitable tool found for this instruction."

// Config holds agent construction parameters.
type Config struct {
	Registry    *tool.Registry
	Executor    *executor.Executor
	Provider    Provider
	Model       string
	Temperature float64
	MaxTokens   int
	Logger      zerolog.Logger

	// Events, when set, is forwarded to every executor call so observers
	// see the full pipeline of each run.
	Events executor.EventCallback
}

// Agent processes one natural-language instruction into at most one tool
// invocation. It holds references to the registry and executor; it owns
// neither.
type Agent struct {
	registry    *tool.Registry
	executor    *executor.Executor
	provider    Provider
	model       string
	temperature float64
	maxTokens   int
	logger      zerolog.Logger
	events      executor.EventCallback
}

// New creates an agent from config, validating required collaborators.
func New(cfg Config) (*Agent, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if cfg.Executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &Agent{
		registry:    cfg.Registry,
		executor:    cfg.Executor,
		provider:    cfg.Provider,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      cfg.Logger,
		events:      cfg.Events,
	}, nil
}

// Run processes an instruction end to end and always returns a result,
// never a raw error: backend faults, undecodable responses and executor
// failures all surface as failed results. Executor failures are returned
// verbatim so the error taxonomy established below the agent is preserved.
func (a *Agent) Run(ctx context.Context, instruction string) tool.Result {
	if strings.TrimSpace(instruction) == "" {
		return tool.Result{Success: false, Error: "Instruction must not be empty.", Metadata: map[string]any{}}
	}

	requestID := uuid.NewString()
	logger := a.logger.With().Str("request_id", requestID).Logger()

	listing := buildToolListing(a.registry.ListMetadata())
	prompt := buildUserPrompt(listing, instruction)

	logger.Info().Str("instruction", truncate(instruction, 120)).Msg("Sending instruction to model backend")

	raw, err := a.provider.Complete(ctx, CompletionRequest{
		Model:       a.model,
		System:      systemPrompt,
		Prompt:      prompt,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})
	if err != nil {
		msg := fmt.Sprintf("%s API call failed: %v", a.provider.Name(), err)
		logger.Error().Err(err).Msg("Model backend call failed")
		return tool.Result{Success: false, Error: msg, Metadata: map[string]any{}}
	}

	decision, err := parseDecision(raw)
	if err != nil {
		logger.Error().Str("raw", truncate(raw, 400)).Msg(err.Error())
		return failWithRaw(err.Error(), raw)
	}

	if decision.Tool == nil {
		logger.Info().Msg("Model declined: no suitable tool")
		return failWithRaw(declinedMessage, raw)
	}

	logger.Info().Str("tool", *decision.Tool).Int("arguments", len(decision.Arguments)).Msg("Agent decision")

	return a.executor.Execute(ctx, *decision.Tool, decision.Arguments, a.events)
}

// failWithRaw builds a failure result preserving the original, unrecovered
// response text for prompt-engineering diagnosis.
func failWithRaw(message, raw string) tool.Result {
	return tool.Result{
		Success:  false,
		Error:    message,
		Metadata: map[string]any{"raw": raw},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
