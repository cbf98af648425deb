package tools

// Built-in tool names.
const (
	CalculatorName = "calculator"
	RunScriptName  = "run_script"
)

// RegisterBuiltins registers the built-in tools on the registry. Called
// once at startup; the model only sees tools registered here.
func RegisterBuiltins(r *Registry) {
	r.Register(CalculatorName, Calculator)
	r.Register(RunScriptName, RunScript)
}
