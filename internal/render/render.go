// Package render turns a parsed completion into the ordered blocks the
// results area displays.
package render

import (
	"github.com/kartoza/water-potability/internal/llm"
	"github.com/kartoza/water-potability/internal/potability"
)

// Kind selects a block's styling.
type Kind string

const (
	KindSuccess      Kind = "success"
	KindFailure      Kind = "failure"
	KindUnrecognized Kind = "unrecognized"
	KindSuggestion   Kind = "suggestion"
	KindText         Kind = "text"
	KindError        Kind = "error"
)

// TreatmentHeading titles suggestion blocks.
const TreatmentHeading = "Treatment Suggestions"

// Block is one styled unit of the results area.
type Block struct {
	Kind    Kind   `json:"kind"`
	Heading string `json:"heading,omitempty"`
	Text    string `json:"text"`
}

// Blocks renders a parsed completion. A completion without a prediction
// line becomes a single verbatim text block.
func Blocks(p potability.Parsed) []Block {
	if p.Outcome != potability.OutcomeRecognized {
		if p.Raw == "" {
			return nil
		}
		return []Block{{Kind: KindText, Text: p.Raw}}
	}

	blocks := make([]Block, 0, len(p.Lines))
	for _, line := range p.Lines {
		switch line.Kind {
		case potability.LinePrediction:
			blocks = append(blocks, predictionBlock(line))
		case potability.LineTreatment:
			blocks = append(blocks, Block{Kind: KindSuggestion, Heading: TreatmentHeading, Text: line.Text})
		default:
			blocks = append(blocks, Block{Kind: KindText, Text: line.Text})
		}
	}
	return blocks
}

func predictionBlock(line potability.Line) Block {
	text := "Prediction: " + line.Text
	switch line.Verdict {
	case potability.VerdictPotable:
		return Block{Kind: KindSuccess, Text: text}
	case potability.VerdictNotPotable:
		return Block{Kind: KindFailure, Text: text}
	default:
		return Block{Kind: KindUnrecognized, Heading: "Unrecognized prediction", Text: text}
	}
}

// ErrorBlock is the banner shown when the inference call fails.
func ErrorBlock(err error) Block {
	return Block{Kind: KindError, Text: "Error generating response: " + err.Error()}
}

// Outcome renders a generation outcome: an error banner on failure,
// otherwise the parsed completion.
func Outcome(out llm.Outcome) (potability.Parsed, []Block) {
	if !out.OK() {
		return potability.Parsed{}, []Block{ErrorBlock(out.Err)}
	}
	parsed := potability.Parse(out.Text)
	return parsed, Blocks(parsed)
}
