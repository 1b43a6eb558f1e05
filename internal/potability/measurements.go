// Package potability holds the water-quality measurement model, the prompt
// sent to the language model and the parser for its reply.
package potability

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field describes one bounded numeric input.
type Field struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Unit    string  `json:"unit,omitempty"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// Fields lists the inputs in display order.
var Fields = []Field{
	{Key: "ph", Label: "pH", Min: 0, Max: 14, Default: 7, Step: 0.01},
	{Key: "hardness", Label: "Hardness", Unit: "mg/L", Min: 0, Max: 500, Default: 100, Step: 0.01},
	{Key: "solids", Label: "Solids", Unit: "ppm", Min: 0, Max: 10000, Default: 500, Step: 0.01},
	{Key: "chloramines", Label: "Chloramines", Unit: "ppm", Min: 0, Max: 10, Default: 3, Step: 0.01},
	{Key: "sulfate", Label: "Sulfate", Unit: "mg/L", Min: 0, Max: 1000, Default: 200, Step: 0.01},
	{Key: "conductivity", Label: "Conductivity", Unit: "μS/cm", Min: 0, Max: 2000, Default: 400, Step: 0.01},
	{Key: "organic_carbon", Label: "Organic Carbon", Unit: "mg/L", Min: 0, Max: 30, Default: 5, Step: 0.01},
	{Key: "trihalomethanes", Label: "Trihalomethanes", Unit: "μg/L", Min: 0, Max: 150, Default: 50, Step: 0.01},
	{Key: "turbidity", Label: "Turbidity", Unit: "NTU", Min: 0, Max: 10, Default: 3, Step: 0.01},
}

// DisplayLabel returns the label with its unit, e.g. "Hardness (mg/L)".
func (f Field) DisplayLabel() string {
	if f.Unit == "" {
		return f.Label
	}
	return fmt.Sprintf("%s (%s)", f.Label, f.Unit)
}

// Clamp bounds v to the field's range.
func (f Field) Clamp(v float64) float64 {
	return math.Min(math.Max(v, f.Min), f.Max)
}

// FieldByKey looks up a field descriptor.
func FieldByKey(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// MeasurementSet is one submission of the nine water-quality values.
type MeasurementSet struct {
	PH              float64 `json:"ph"`
	Hardness        float64 `json:"hardness"`
	Solids          float64 `json:"solids"`
	Chloramines     float64 `json:"chloramines"`
	Sulfate         float64 `json:"sulfate"`
	Conductivity    float64 `json:"conductivity"`
	OrganicCarbon   float64 `json:"organic_carbon"`
	Trihalomethanes float64 `json:"trihalomethanes"`
	Turbidity       float64 `json:"turbidity"`
}

// Defaults returns the set populated with every field's default.
func Defaults() MeasurementSet {
	var m MeasurementSet
	for _, f := range Fields {
		*m.ref(f.Key) = f.Default
	}
	return m
}

// ref maps a field key to its storage. Keys come from Fields only.
func (m *MeasurementSet) ref(key string) *float64 {
	switch key {
	case "ph":
		return &m.PH
	case "hardness":
		return &m.Hardness
	case "solids":
		return &m.Solids
	case "chloramines":
		return &m.Chloramines
	case "sulfate":
		return &m.Sulfate
	case "conductivity":
		return &m.Conductivity
	case "organic_carbon":
		return &m.OrganicCarbon
	case "trihalomethanes":
		return &m.Trihalomethanes
	case "turbidity":
		return &m.Turbidity
	}
	panic("potability: unknown field " + key)
}

// Get returns the value stored for key.
func (m MeasurementSet) Get(key string) float64 {
	return *m.ref(key)
}

// Set stores v for key, clamped to the field's range. Non-finite values are
// rejected.
func (m *MeasurementSet) Set(key string, v float64) error {
	f, ok := FieldByKey(key)
	if !ok {
		return fmt.Errorf("unknown field %q", key)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s: value must be a finite number", f.Label)
	}
	*m.ref(key) = f.Clamp(v)
	return nil
}

// Clamped returns a copy with every value bounded to its range.
func (m MeasurementSet) Clamped() MeasurementSet {
	out := m
	for _, f := range Fields {
		p := out.ref(f.Key)
		*p = f.Clamp(*p)
	}
	return out
}

// FieldErrors maps a field key to a user-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range Fields {
		if msg, ok := e[f.Key]; ok {
			parts = append(parts, msg)
		}
	}
	return "invalid measurements: " + strings.Join(parts, "; ")
}

// ValueSource is satisfied by url.Values.
type ValueSource interface {
	Get(key string) string
}

// FromValues decodes a set from string inputs, such as a submitted form.
// Blank inputs take the field default and numeric inputs are clamped.
// Inputs that are not numbers are reported in the returned FieldErrors and
// the corresponding field keeps its default.
func FromValues(src ValueSource) (MeasurementSet, error) {
	m := Defaults()
	errs := FieldErrors{}
	for _, f := range Fields {
		raw := strings.TrimSpace(src.Get(f.Key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs[f.Key] = fmt.Sprintf("%s: %q is not a number", f.Label, raw)
			continue
		}
		if err := m.Set(f.Key, v); err != nil {
			errs[f.Key] = err.Error()
		}
	}
	if len(errs) > 0 {
		return m, errs
	}
	return m, nil
}

// AsFieldErrors unwraps err into FieldErrors when it is one.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
