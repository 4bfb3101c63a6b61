package agent

import (
	"fmt"
	"strings"

	"github.com/halim/orin/pkg/tool"
)

// systemPrompt instructs the backend to answer with exactly one JSON
// decision object. Models frequently ignore the no-fencing rule, which is
// why decode.go recovers JSON from non-compliant output.
const systemPrompt = `You are an AI agent that controls a computer by calling tools.

You will be given:
1. A list of available tools with their names, descriptions, and input schemas.
2. A user instruction.

Your job is to decide which single tool to call and with what arguments.

RULES:
- Respond ONLY with a single valid JSON object. No explanation, no markdown, no code fences.
- The JSON must have exactly two keys: "tool" and "arguments".
- "tool" must be the exact tool name from the list.
- "arguments" must be an object matching the tool's input schema.
- If no tool is appropriate, respond with: {"tool": null, "arguments": {}}

RESPONSE FORMAT:
{"tool": "<tool_name>", "arguments": {<key>: <value>, ...}}`

// buildToolListing renders tool metadata into a readable block for the
// prompt. Tools arrive pre-sorted from the registry and properties are
// rendered in sorted order, so identical registries yield identical
// prompts across runs.
func buildToolListing(metadata []tool.Descriptor) string {
	var b strings.Builder
	for i, desc := range metadata {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. Tool name: %s\n", i+1, desc.Name)
		fmt.Fprintf(&b, "   Description: %s\n", desc.Description)

		if len(desc.InputSchema.Properties) == 0 {
			continue
		}
		required := make(map[string]bool, len(desc.InputSchema.Required))
		for _, name := range desc.InputSchema.Required {
			required[name] = true
		}

		b.WriteString("   Arguments:\n")
		for _, name := range desc.InputSchema.PropertyNames() {
			prop := desc.InputSchema.Properties[name]
			marker := "optional"
			if required[name] {
				marker = "required"
			}
			propType := prop.Type
			if propType == "" {
				propType = "any"
			}
			fmt.Fprintf(&b, "     - %s [%s] (%s): %s\n", name, propType, marker, prop.Description)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// buildUserPrompt combines the tool listing with the raw instruction.
func buildUserPrompt(toolListing, instruction string) string {
	return fmt.Sprintf("AVAILABLE TOOLS:\n%s\n\nUSER INSTRUCTION:\n%s", toolListing, instruction)
}
