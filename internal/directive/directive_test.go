package directive

import "testing"

func TestParseNoMarker(t *testing.T) {
	raw := "Paris is the capital of France."
	res := Parse(raw)
	if res.Kind != KindNone {
		t.Fatalf("Kind = %v, want KindNone", res.Kind)
	}
	if res.Raw != raw {
		t.Errorf("Raw = %q, want original output", res.Raw)
	}
}

func TestParseValid(t *testing.T) {
	raw := `TOOL_CALL: {"tool":"calculator","input":"2+2","final_answer":"It is"}`
	res := Parse(raw)
	if res.Kind != KindValid {
		t.Fatalf("Kind = %v, want KindValid", res.Kind)
	}
	if res.Tool != "calculator" || res.Input != "2+2" || res.FinalAnswer != "It is" {
		t.Errorf("parsed = %+v", res)
	}
}

func TestParseMarkerAfterReasoning(t *testing.T) {
	// Reasoning models prepend thinking text before the directive.
	raw := "Let me think about this.\nI should use the calculator.\n" +
		`TOOL_CALL: {"tool":"calculator","input":"6*7","final_answer":""}`
	res := Parse(raw)
	if res.Kind != KindValid {
		t.Fatalf("Kind = %v, want KindValid", res.Kind)
	}
	if res.Tool != "calculator" || res.Input != "6*7" {
		t.Errorf("parsed = %+v", res)
	}
	if res.FinalAnswer != "" {
		t.Errorf("FinalAnswer = %q, want empty", res.FinalAnswer)
	}
}

func TestParseMalformedJSON(t *testing.T) {
	raw := `TOOL_CALL: {"tool": "calculator", "input": `
	res := Parse(raw)
	if res.Kind != KindMalformed {
		t.Fatalf("Kind = %v, want KindMalformed", res.Kind)
	}
	if res.Raw != raw {
		t.Errorf("Raw = %q, want full original output", res.Raw)
	}
}

func TestParseMissingToolName(t *testing.T) {
	raw := `TOOL_CALL: {"input":"2+2","final_answer":"x"}`
	res := Parse(raw)
	if res.Kind != KindMalformed {
		t.Fatalf("Kind = %v, want KindMalformed for directive without tool", res.Kind)
	}
}

func TestParseOptionalFields(t *testing.T) {
	raw := `TOOL_CALL: {"tool":"clock"}`
	res := Parse(raw)
	if res.Kind != KindValid {
		t.Fatalf("Kind = %v, want KindValid", res.Kind)
	}
	if res.Input != "" || res.FinalAnswer != "" {
		t.Errorf("optional fields should default empty: %+v", res)
	}
}

func TestParseEmptyOutput(t *testing.T) {
	res := Parse("")
	if res.Kind != KindNone {
		t.Fatalf("Kind = %v, want KindNone", res.Kind)
	}
}
