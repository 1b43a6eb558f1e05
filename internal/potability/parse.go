package potability

import "strings"

// Line prefixes the model is asked to answer with.
const (
	PredictionPrefix = "Prediction:"
	TreatmentPrefix  = "Treatment Suggestions:"
)

// Outcome tags a parsed completion.
type Outcome string

const (
	// OutcomeRecognized means at least one line started with PredictionPrefix.
	OutcomeRecognized Outcome = "recognized"
	// OutcomeUnrecognized means no prediction line was found and the reply
	// should be shown verbatim.
	OutcomeUnrecognized Outcome = "unrecognized"
)

// Verdict is the classification carried on a prediction line.
type Verdict string

const (
	VerdictPotable    Verdict = "potable"
	VerdictNotPotable Verdict = "not_potable"
	VerdictUnknown    Verdict = "unknown"
)

// ClassifyLabel maps a prediction label to a verdict, case-insensitively.
func ClassifyLabel(label string) Verdict {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "potable":
		return VerdictPotable
	case "not potable":
		return VerdictNotPotable
	default:
		return VerdictUnknown
	}
}

// LineKind classifies one line of a completion.
type LineKind string

const (
	LinePrediction LineKind = "prediction"
	LineTreatment  LineKind = "treatment"
	LineText       LineKind = "text"
)

// Line is a non-blank line of the completion. For prediction and treatment
// lines Text holds the trimmed remainder after the prefix.
type Line struct {
	Kind    LineKind `json:"kind"`
	Text    string   `json:"text"`
	Verdict Verdict  `json:"verdict,omitempty"`
}

// Parsed is the structured reading of a completion.
type Parsed struct {
	Outcome Outcome `json:"outcome"`

	// Set when Outcome is OutcomeRecognized, taken from the first
	// prediction line.
	Verdict Verdict `json:"verdict,omitempty"`
	Label   string  `json:"label,omitempty"`

	// Suggestion is the first treatment line's text, if any.
	Suggestion    string `json:"suggestion,omitempty"`
	HasSuggestion bool   `json:"has_suggestion"`

	Lines []Line `json:"lines,omitempty"`
	Raw   string `json:"raw"`
}

// Parse scans the completion line by line for the labeled prefixes. A reply
// without any prediction line is returned as OutcomeUnrecognized with no
// classified lines.
func Parse(completion string) Parsed {
	raw := strings.TrimSpace(completion)
	p := Parsed{Outcome: OutcomeUnrecognized, Raw: raw}

	var lines []Line
	found := false
	for _, text := range strings.Split(raw, "\n") {
		text = strings.TrimSuffix(text, "\r")
		switch {
		case strings.HasPrefix(text, PredictionPrefix):
			label := strings.TrimSpace(strings.TrimPrefix(text, PredictionPrefix))
			verdict := ClassifyLabel(label)
			lines = append(lines, Line{Kind: LinePrediction, Text: label, Verdict: verdict})
			if !found {
				found = true
				p.Label = label
				p.Verdict = verdict
			}
		case strings.HasPrefix(text, TreatmentPrefix):
			suggestion := strings.TrimSpace(strings.TrimPrefix(text, TreatmentPrefix))
			lines = append(lines, Line{Kind: LineTreatment, Text: suggestion})
			if !p.HasSuggestion {
				p.HasSuggestion = true
				p.Suggestion = suggestion
			}
		case strings.TrimSpace(text) != "":
			lines = append(lines, Line{Kind: LineText, Text: text})
		}
	}

	if !found {
		p.Suggestion = ""
		p.HasSuggestion = false
		return p
	}
	p.Outcome = OutcomeRecognized
	p.Lines = lines
	return p
}
