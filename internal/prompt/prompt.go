// Package prompt assembles model prompts. Build performs no I/O and is
// fully deterministic given its inputs, which prompt-level test fixtures
// rely on.
package prompt

import (
	"strings"

	"github.com/grounder-ai/grounder/internal/directive"
)

const basePreamble = "You are a helpful and informative AI agent."

// toolInstructions describes the exact wire format a model must use to
// request a tool. It names the same marker the directive parser scans for;
// the two must never drift apart.
const toolInstructions = "You may call exactly one tool to help answer. " +
	"To call a tool, output a line containing " + directive.Marker +
	` followed by a JSON object of the form ` +
	`{"tool": "<name>", "input": "<string>", "final_answer": "<string>"}. ` +
	"Available tools: %TOOLS%. " +
	"If no tool is needed, answer directly without the marker."

// Build produces the model prompt for a query, optional grounding context,
// and a flag controlling whether tool instructions are appended.
func Build(query string, contextDocuments []string, toolsEnabled bool, toolNames []string) string {
	var b strings.Builder

	if len(contextDocuments) > 0 {
		contextStr := strings.Join(contextDocuments, "\n")
		b.WriteString(basePreamble)
		b.WriteString("\n\n Process the following based primarily on your own knowledge: ")
		b.WriteString(query)
		b.WriteString("\n\nHere is some additional information. Use it only if relevant. ")
		b.WriteString("If it is not relevant, ignore it:\n")
		b.WriteString(contextStr)
	} else {
		b.WriteString(basePreamble)
		b.WriteString(" \n\nProcess the following based on your knowledge.\n\n")
		b.WriteString("Question: ")
		b.WriteString(query)
	}

	if toolsEnabled {
		b.WriteString("\n\n")
		b.WriteString(strings.Replace(toolInstructions, "%TOOLS%", strings.Join(toolNames, ", "), 1))
	}

	b.WriteString("\n\nAnswer:")
	return b.String()
}
