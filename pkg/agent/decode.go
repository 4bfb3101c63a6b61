package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Decision is the model's parsed intent for a single instruction. A nil
// Tool means the model declined: no registered tool fits.
type Decision struct {
	Tool      *string
	Arguments map[string]any
}

var (
	// A fenced code block, with or without a language tag, containing an
	// object body.
	fencedJSON = regexp.MustCompile("(?s)```(?:[a-zA-Z0-9_-]+)?\\s*(\\{.*?\\})\\s*```")

	// First top-level brace to the last closing brace, greedy so nested
	// objects survive.
	braceSpan = regexp.MustCompile(`(?s)\{.*\}`)
)

// extractJSON recovers an object body from free-form model output. The
// three tiers apply in order, first match wins: fenced block, bare brace
// span, trimmed raw text. Fenced text must take priority over bare-brace
// scanning because prose around a fence may itself contain braces.
func extractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := braceSpan.FindString(text); m != "" {
		return m
	}
	return strings.TrimSpace(text)
}

// parseDecision recovers and shape-checks a decision from raw model output.
// Returned errors carry ready-to-surface messages; a declined decision
// (tool null or absent) is not an error.
func parseDecision(raw string) (Decision, error) {
	var parsed any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return Decision{}, fmt.Errorf("Model returned invalid JSON: %v", err)
	}

	object, ok := parsed.(map[string]any)
	if !ok {
		return Decision{}, fmt.Errorf("Expected a JSON object, got: %s", jsonTypeName(parsed))
	}

	decision := Decision{Arguments: map[string]any{}}

	toolValue, present := object["tool"]
	if present && toolValue != nil {
		name, ok := toolValue.(string)
		if !ok {
			return Decision{}, fmt.Errorf("'tool' must be a string or null, got: %s", jsonTypeName(toolValue))
		}
		decision.Tool = &name
	}

	if argsValue, present := object["arguments"]; present && argsValue != nil {
		args, ok := argsValue.(map[string]any)
		if !ok {
			return Decision{}, fmt.Errorf("'arguments' must be a JSON object, got: %s", jsonTypeName(argsValue))
		}
		decision.Arguments = args
	}

	return decision, nil
}

// jsonTypeName names the JSON type of an unmarshalled value for error
// messages.
func jsonTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
