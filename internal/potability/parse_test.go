package potability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePotable(t *testing.T) {
	p := Parse("Prediction: Potable\n")

	assert.Equal(t, OutcomeRecognized, p.Outcome)
	assert.Equal(t, VerdictPotable, p.Verdict)
	assert.Equal(t, "Potable", p.Label)
	assert.False(t, p.HasSuggestion)
	require.Len(t, p.Lines, 1)
	assert.Equal(t, Line{Kind: LinePrediction, Text: "Potable", Verdict: VerdictPotable}, p.Lines[0])
}

func TestParseNotPotableWithTreatment(t *testing.T) {
	p := Parse("Prediction: Not Potable\nTreatment Suggestions: Boil water and filter sediment.\n")

	assert.Equal(t, OutcomeRecognized, p.Outcome)
	assert.Equal(t, VerdictNotPotable, p.Verdict)
	assert.True(t, p.HasSuggestion)
	assert.Equal(t, "Boil water and filter sediment.", p.Suggestion)
	require.Len(t, p.Lines, 2)
	assert.Equal(t, LineTreatment, p.Lines[1].Kind)
}

func TestParseNoPrediction(t *testing.T) {
	p := Parse("Unable to classify.")

	assert.Equal(t, OutcomeUnrecognized, p.Outcome)
	assert.Equal(t, "Unable to classify.", p.Raw)
	assert.Empty(t, p.Lines)
	assert.Empty(t, p.Verdict)
}

func TestParseTreatmentWithoutPredictionIsVerbatim(t *testing.T) {
	p := Parse("Treatment Suggestions: add chlorine")

	assert.Equal(t, OutcomeUnrecognized, p.Outcome)
	assert.False(t, p.HasSuggestion)
	assert.Equal(t, "Treatment Suggestions: add chlorine", p.Raw)
}

func TestParseCaseInsensitiveLabel(t *testing.T) {
	assert.Equal(t, VerdictPotable, Parse("Prediction:   POTABLE  ").Verdict)
	assert.Equal(t, VerdictNotPotable, Parse("Prediction: not potable").Verdict)
}

func TestParseUnknownLabel(t *testing.T) {
	p := Parse("Prediction: Probably fine\nSome commentary.")

	assert.Equal(t, OutcomeRecognized, p.Outcome)
	assert.Equal(t, VerdictUnknown, p.Verdict)
	assert.Equal(t, "Probably fine", p.Label)
	require.Len(t, p.Lines, 2)
	assert.Equal(t, LineText, p.Lines[1].Kind)
}

func TestParsePrefixMustStartLine(t *testing.T) {
	p := Parse("The Prediction: Potable")
	assert.Equal(t, OutcomeUnrecognized, p.Outcome)

	p = Parse("prediction: Potable")
	assert.Equal(t, OutcomeUnrecognized, p.Outcome, "prefix match is case-sensitive")
}

func TestParseSkipsBlankLinesAndKeepsOrder(t *testing.T) {
	p := Parse("\r\nAnalysis follows.\r\n\r\nPrediction: Not Potable\r\n   \r\nTreatment Suggestions: Use reverse osmosis.\r\nDone.")

	require.Len(t, p.Lines, 4)
	assert.Equal(t, []LineKind{LineText, LinePrediction, LineTreatment, LineText},
		[]LineKind{p.Lines[0].Kind, p.Lines[1].Kind, p.Lines[2].Kind, p.Lines[3].Kind})
	assert.Equal(t, "Use reverse osmosis.", p.Suggestion)
}

func TestParseFirstPredictionWins(t *testing.T) {
	p := Parse("Prediction: Potable\nPrediction: Not Potable")

	assert.Equal(t, VerdictPotable, p.Verdict)
	assert.Len(t, p.Lines, 2)
}

func TestParseEmpty(t *testing.T) {
	p := Parse("   \n ")
	assert.Equal(t, OutcomeUnrecognized, p.Outcome)
	assert.Equal(t, "", p.Raw)
}
