package tools

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// scriptInterpreters maps script extensions to the interpreter allowed to
// run them. Anything outside this allowlist is refused.
var scriptInterpreters = map[string]string{
	".py": "python3",
	".sh": "sh",
}

// RunScript executes a script file through its allowlisted interpreter and
// returns captured stdout. Failures (missing file, unsupported extension,
// non-zero exit) are returned as "Error: ..." strings, never as errors.
func RunScript(ctx context.Context, scriptPath string) (string, error) {
	scriptPath = filepath.Clean(strings.TrimSpace(scriptPath))
	if scriptPath == "" || scriptPath == "." {
		return "Error: script path is required.", nil
	}

	interpreter, ok := scriptInterpreters[strings.ToLower(filepath.Ext(scriptPath))]
	if !ok {
		return fmt.Sprintf("Error: unsupported script type %q.", filepath.Ext(scriptPath)), nil
	}

	if _, err := os.Stat(scriptPath); err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, interpreter, scriptPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Sprintf("Error: %v: %s", err, detail), nil
		}
		return fmt.Sprintf("Error: %v", err), nil
	}

	return stdout.String(), nil
}
