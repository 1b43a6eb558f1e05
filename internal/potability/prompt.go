package potability

import (
	"strconv"
	"strings"
)

const promptHeader = `You are a water quality expert. Based on the following parameters, do the following:

1. Predict whether the water is "Potable" or "Not Potable".
2. If the water is "Not Potable", provide clear suggestions on what treatments are needed to make it potable as a single paragraph, not as bullet points.
3. Keep your answer concise and structured.

Water Quality Parameters:
`

const promptFooter = `
Return the result in the format:
Prediction: [Potable/Not Potable]
Treatment Suggestions: [If needed]
`

// BuildPrompt renders the measurement set into the instruction sent to the
// model. Every value is embedded verbatim so distinct sets give distinct
// prompts.
func BuildPrompt(m MeasurementSet) string {
	var sb strings.Builder
	sb.WriteString(promptHeader)
	for _, f := range Fields {
		sb.WriteString("- ")
		sb.WriteString(f.Label)
		sb.WriteString(": ")
		sb.WriteString(FormatValue(m.Get(f.Key)))
		if f.Unit != "" {
			sb.WriteString(" ")
			sb.WriteString(f.Unit)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(promptFooter)
	return sb.String()
}

// FormatValue prints the shortest exact representation of v, keeping a
// trailing ".0" on whole numbers.
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
