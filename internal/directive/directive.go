// Package directive extracts embedded tool commands from raw model output.
//
// Models asked to use a tool emit the marker token followed by a JSON
// object anywhere in their output; reasoning-capable models may prepend
// free-form thinking text before the marker. The parser never fails: any
// output that does not contain a well-formed directive is the final answer
// verbatim.
package directive

import (
	"encoding/json"
	"strings"
)

// Marker is the wire-format token a model emits to request a tool. The
// prompt instructions and this parser must agree on it exactly.
const Marker = "TOOL_CALL:"

// Kind discriminates parse outcomes so orchestrator branching is
// exhaustive rather than exception-driven.
type Kind int

const (
	// KindNone means no marker was found; the raw output is the answer.
	KindNone Kind = iota

	// KindValid means a well-formed directive with a tool name was found.
	KindValid

	// KindMalformed means the marker was present but what followed did not
	// parse; the raw output is the answer, directive ignored.
	KindMalformed
)

// Result is the tagged outcome of parsing model output.
type Result struct {
	Kind Kind

	// Tool, Input, FinalAnswer are populated only for KindValid.
	Tool        string
	Input       string
	FinalAnswer string

	// Raw is the full, unmodified model output.
	Raw string
}

// command is the JSON payload following the marker.
type command struct {
	Tool        string `json:"tool"`
	Input       string `json:"input"`
	FinalAnswer string `json:"final_answer"`
}

// Parse locates the first marker occurrence in raw output and parses the
// remainder as a JSON directive. A missing tool name, trailing garbage, or
// invalid JSON all degrade to KindMalformed; absence of the marker is
// KindNone. Parse never returns an error.
func Parse(raw string) Result {
	idx := strings.Index(raw, Marker)
	if idx < 0 {
		return Result{Kind: KindNone, Raw: raw}
	}

	payload := strings.TrimSpace(raw[idx+len(Marker):])

	var cmd command
	if err := json.Unmarshal([]byte(payload), &cmd); err != nil {
		return Result{Kind: KindMalformed, Raw: raw}
	}
	if cmd.Tool == "" {
		// A directive without a tool name cannot be dispatched.
		return Result{Kind: KindMalformed, Raw: raw}
	}

	return Result{
		Kind:        KindValid,
		Tool:        cmd.Tool,
		Input:       cmd.Input,
		FinalAnswer: cmd.FinalAnswer,
		Raw:         raw,
	}
}
