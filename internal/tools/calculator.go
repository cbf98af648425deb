package tools

import (
	"context"
	"go/token"
	"go/types"
	"strings"
)

// invalidExpression is returned for any input the evaluator rejects.
// It is a tool result, not an error: bad input is a user mistake, not a
// dispatch failure.
const invalidExpression = "Error: Invalid expression."

// Calculator evaluates a constant arithmetic expression such as "2+2" or
// "(10-4)*3.5". Evaluation uses the Go constant evaluator, so only
// side-effect-free constant expressions are accepted; anything else,
// including division by zero, yields invalidExpression.
func Calculator(_ context.Context, expression string) (string, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return invalidExpression, nil
	}

	tv, err := types.Eval(token.NewFileSet(), nil, token.NoPos, expression)
	if err != nil || tv.Value == nil {
		return invalidExpression, nil
	}

	return tv.Value.String(), nil
}
