package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric catalog field that never fails to decode.
// Numbers, numeric strings and booleans are accepted; anything else is 0.
type Number float64

// UnmarshalJSON implements json.Unmarshaler with best-effort coercion.
func (n *Number) UnmarshalJSON(b []byte) error {
	*n = 0
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	case bool:
		if x {
			f = 1
		}
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*n = Number(f)
	return nil
}

// Float returns the value as float64.
func (n Number) Float() float64 { return float64(n) }

// Text is a textual catalog field that never fails to decode.
// Strings pass through, numbers and true are written out, anything else is "".
type Text string

// UnmarshalJSON implements json.Unmarshaler with best-effort coercion.
func (t *Text) UnmarshalJSON(b []byte) error {
	*t = ""
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil
	}
	switch x := v.(type) {
	case string:
		*t = Text(x)
	case float64:
		*t = Text(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		if x {
			*t = "true"
		}
	}
	return nil
}

// Material is a priced entry of the materials catalog.
type Material struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	CostEUR Number `json:"cost_eur"`
	// Extra holds descriptive fields the costing engine does not read.
	Extra map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps unknown fields in Extra.
func (m *Material) UnmarshalJSON(b []byte) error {
	var p struct {
		Code    Text   `json:"code"`
		Name    Text   `json:"name"`
		CostEUR Number `json:"cost_eur"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	out := Material{Code: string(p.Code), Name: string(p.Name), CostEUR: p.CostEUR}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, k := range []string{"code", "name", "cost_eur"} {
		delete(raw, k)
	}
	if len(raw) > 0 {
		out.Extra = raw
	}
	*m = out
	return nil
}

// LineItem is one component line inside an assembly.
type LineItem struct {
	Code string `json:"code"`
	Qty  Number `json:"qty"`
	Unit string `json:"unit,omitempty"`
}

// UnmarshalJSON accepts non-string code and unit values.
func (it *LineItem) UnmarshalJSON(b []byte) error {
	var p struct {
		Code Text   `json:"code"`
		Qty  Number `json:"qty"`
		Unit Text   `json:"unit"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*it = LineItem{Code: string(p.Code), Qty: p.Qty, Unit: string(p.Unit)}
	return nil
}

// Assembly is a selectable option belonging to one section.
type Assembly struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Section string     `json:"section"`
	Items   []LineItem `json:"items"`
}

// UnmarshalJSON accepts non-string id, name and section values.
func (a *Assembly) UnmarshalJSON(b []byte) error {
	var p struct {
		ID      Text       `json:"id"`
		Name    Text       `json:"name"`
		Section Text       `json:"section"`
		Items   []LineItem `json:"items"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*a = Assembly{ID: string(p.ID), Name: string(p.Name), Section: string(p.Section), Items: p.Items}
	return nil
}

// Defaults is the defaults block of the materials document.
type Defaults struct {
	LaborRateEURPerHour Number `json:"labor_rate_eur_per_hour"`
}

// MaterialsDoc is the materials catalog document.
type MaterialsDoc struct {
	Materials []Material `json:"materials"`
	Defaults  *Defaults  `json:"defaults,omitempty"`
}

// LaborRate returns the default labor rate, 0 when the defaults block is absent.
func (d *MaterialsDoc) LaborRate() float64 {
	if d == nil || d.Defaults == nil {
		return 0
	}
	return d.Defaults.LaborRateEURPerHour.Float()
}

// AssembliesDoc is the per-kind assemblies catalog document.
type AssembliesDoc struct {
	Assemblies []Assembly `json:"assemblies"`
}
