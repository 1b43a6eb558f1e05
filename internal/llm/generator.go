package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrEmptyCompletion is reported when the service answers without any text.
var ErrEmptyCompletion = errors.New("empty completion")

// Outcome is the result of one generation call: either Text or Err is set.
type Outcome struct {
	Text    string
	Err     error
	Model   string
	Latency time.Duration
}

// OK reports whether the call produced a completion.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Generator turns a prompt into a completion.
type Generator interface {
	Generate(ctx context.Context, prompt string) Outcome
	Info() map[string]interface{}
}

// Func adapts a plain function to a Generator.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate calls f and wraps its result. Blank text is reported as
// ErrEmptyCompletion, matching GeminiClient.
func (f Func) Generate(ctx context.Context, prompt string) Outcome {
	start := time.Now()
	text, err := f(ctx, prompt)
	out := Outcome{Model: "func", Latency: time.Since(start)}
	switch {
	case err != nil:
		out.Err = err
	case strings.TrimSpace(text) == "":
		out.Err = ErrEmptyCompletion
	default:
		out.Text = text
	}
	return out
}

// Info describes the adapter.
func (f Func) Info() map[string]interface{} {
	return map[string]interface{}{"provider": "func"}
}
