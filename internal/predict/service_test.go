package predict

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kartoza/water-potability/internal/llm"
	"github.com/kartoza/water-potability/internal/potability"
	"github.com/kartoza/water-potability/internal/render"
)

func TestPredictSuccess(t *testing.T) {
	var gotPrompt string
	gen := llm.Func(func(_ context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "Prediction: Not Potable\nTreatment Suggestions: Boil water and filter sediment.", nil
	})
	svc := NewService(gen, zaptest.NewLogger(t))

	res := svc.Predict(context.Background(), potability.Defaults())

	_, err := uuid.Parse(res.RequestID)
	assert.NoError(t, err)
	assert.Equal(t, res.Prompt, gotPrompt)
	assert.Equal(t, potability.VerdictNotPotable, res.Parsed.Verdict)
	require.Len(t, res.Blocks, 2)
	assert.Equal(t, render.KindFailure, res.Blocks[0].Kind)
	assert.Equal(t, render.KindSuggestion, res.Blocks[1].Kind)
}

func TestPredictClampsBeforePrompt(t *testing.T) {
	var gotPrompt string
	gen := llm.Func(func(_ context.Context, prompt string) (string, error) {
		gotPrompt = prompt
		return "Prediction: Potable", nil
	})
	svc := NewService(gen, nil)

	m := potability.Defaults()
	m.PH = 15
	res := svc.Predict(context.Background(), m)

	assert.Equal(t, 14.0, res.Measurements.PH)
	assert.Contains(t, gotPrompt, "- pH: 14.0\n")
	assert.NotContains(t, gotPrompt, "pH: 15")
}

func TestPredictFailureBecomesErrorBlock(t *testing.T) {
	gen := llm.Func(func(context.Context, string) (string, error) {
		return "", errors.New("network unreachable")
	})
	svc := NewService(gen, zaptest.NewLogger(t))

	res := svc.Predict(context.Background(), potability.Defaults())

	assert.False(t, res.Outcome.OK())
	require.Len(t, res.Blocks, 1)
	assert.Equal(t, render.KindError, res.Blocks[0].Kind)
	assert.Contains(t, res.Blocks[0].Text, "network unreachable")
}

func TestPredictDistinctRequestIDs(t *testing.T) {
	gen := llm.Func(func(context.Context, string) (string, error) { return "ok", nil })
	svc := NewService(gen, nil)

	a := svc.Predict(context.Background(), potability.Defaults())
	b := svc.Predict(context.Background(), potability.Defaults())
	assert.NotEqual(t, a.RequestID, b.RequestID)
}
