package agent

import (
	"context"
	"errors"
	"strings"

	"github.com/tmc/langchaingo/tools"
)

// calculatorErrorPrefix marks a failed evaluation; the calculator returns
// its errors as output rather than as an error
const calculatorErrorPrefix = "error from evaluator:"

// observedTool reports each call's outcome through the callback handler.
// Errors are returned to the model as the observation so the agent can
// recover instead of aborting the turn.
type observedTool struct {
	inner       tools.Tool
	handler     *CallbackHandler
	errorPrefix string
}

var _ tools.Tool = (*observedTool)(nil)

func (t *observedTool) Name() string {
	return t.inner.Name()
}

func (t *observedTool) Description() string {
	return t.inner.Description()
}

func (t *observedTool) Call(ctx context.Context, input string) (string, error) {
	out, err := t.inner.Call(ctx, input)
	if err == nil && t.errorPrefix != "" && strings.HasPrefix(out, t.errorPrefix) {
		err = errors.New(strings.TrimSpace(strings.TrimPrefix(out, t.errorPrefix)))
	}

	t.handler.toolResult(t.inner.Name(), out, err)
	if err != nil {
		return "error: " + err.Error(), nil
	}
	return out, nil
}

// defaultTools returns the tools available to the executor agent
func defaultTools(h *CallbackHandler) []tools.Tool {
	return []tools.Tool{
		&observedTool{
			inner:       tools.Calculator{CallbacksHandler: h},
			handler:     h,
			errorPrefix: calculatorErrorPrefix,
		},
	}
}
