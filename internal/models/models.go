package models

import (
	"github.com/kartoza/water-potability/internal/potability"
	"github.com/kartoza/water-potability/internal/render"
)

// PredictRequest carries the measurements for one prediction. Absent
// values take the field defaults.
type PredictRequest struct {
	PH              *float64 `json:"ph,omitempty"`
	Hardness        *float64 `json:"hardness,omitempty"`
	Solids          *float64 `json:"solids,omitempty"`
	Chloramines     *float64 `json:"chloramines,omitempty"`
	Sulfate         *float64 `json:"sulfate,omitempty"`
	Conductivity    *float64 `json:"conductivity,omitempty"`
	OrganicCarbon   *float64 `json:"organic_carbon,omitempty"`
	Trihalomethanes *float64 `json:"trihalomethanes,omitempty"`
	Turbidity       *float64 `json:"turbidity,omitempty"`
}

// Measurements resolves the request into a clamped measurement set.
func (r PredictRequest) Measurements() (potability.MeasurementSet, error) {
	m := potability.Defaults()
	values := map[string]*float64{
		"ph":              r.PH,
		"hardness":        r.Hardness,
		"solids":          r.Solids,
		"chloramines":     r.Chloramines,
		"sulfate":         r.Sulfate,
		"conductivity":    r.Conductivity,
		"organic_carbon":  r.OrganicCarbon,
		"trihalomethanes": r.Trihalomethanes,
		"turbidity":       r.Turbidity,
	}
	for _, f := range potability.Fields {
		v := values[f.Key]
		if v == nil {
			continue
		}
		if err := m.Set(f.Key, *v); err != nil {
			return m, err
		}
	}
	return m, nil
}

// PredictResponse contains the outcome of a prediction
type PredictResponse struct {
	RequestID    string                    `json:"request_id"`
	Measurements potability.MeasurementSet `json:"measurements"`
	Completion   string                    `json:"completion,omitempty"`
	Parsed       *potability.Parsed        `json:"parsed,omitempty"`
	Blocks       []render.Block            `json:"blocks"`
	Model        string                    `json:"model,omitempty"`
	LatencyMs    int64                     `json:"latency_ms"`
	Error        string                    `json:"error,omitempty"`
}
