package service

import (
	"math"
	"strconv"
	"strings"
)

// Conventions are the business rules inferred from the catalog data.
type Conventions struct {
	// LaborPrefix marks codes that count hours instead of priced material.
	LaborPrefix string
	// MissingMaterialName is shown for codes absent from the materials catalog.
	MissingMaterialName string
	// LaborUnitFallback is displayed for labor lines without a unit.
	LaborUnitFallback string
}

// DefaultConventions returns the conventions used by the shipped catalogs.
func DefaultConventions() Conventions {
	return Conventions{
		LaborPrefix:         "DU",
		MissingMaterialName: "— nerasta žaliavų DB —",
		LaborUnitFallback:   "val",
	}
}

// LineKind tells labor lines from material lines.
type LineKind int

const (
	Material LineKind = iota
	Labor
)

func (k LineKind) String() string {
	if k == Labor {
		return "labor"
	}
	return "material"
}

// PricedLine is a material line resolved against the catalog.
type PricedLine struct {
	MergedLine
	Name     string  `json:"name"`
	UnitCost float64 `json:"unit_cost"`
	LineCost float64 `json:"line_cost"`
	Found    bool    `json:"found"`
}

// Totals holds the derived cost figures.
type Totals struct {
	LaborCost float64 `json:"labor_cost"`
	TotalCost float64 `json:"total_cost"`
}

// Calculator classifies and prices merged lines. It holds no state between calls.
type Calculator struct {
	conv Conventions
}

// NewCalculator returns a Calculator; empty fields of conv fall back to the defaults.
func NewCalculator(conv Conventions) *Calculator {
	def := DefaultConventions()
	if conv.LaborPrefix == "" {
		conv.LaborPrefix = def.LaborPrefix
	}
	if conv.MissingMaterialName == "" {
		conv.MissingMaterialName = def.MissingMaterialName
	}
	if conv.LaborUnitFallback == "" {
		conv.LaborUnitFallback = def.LaborUnitFallback
	}
	return &Calculator{conv: conv}
}

// Conventions returns the rules the calculator applies.
func (c *Calculator) Conventions() Conventions { return c.conv }

// Classify reports whether line counts labor hours or priced material.
func (c *Calculator) Classify(line MergedLine) LineKind {
	code := strings.ToUpper(NormalizeCode(line.Code))
	if strings.HasPrefix(code, strings.ToUpper(c.conv.LaborPrefix)) {
		return Labor
	}
	return Material
}

// PriceMaterials resolves each line against idx. Codes missing from the
// catalog cost 0 and carry the fallback name.
func (c *Calculator) PriceMaterials(lines []MergedLine, idx MaterialIndex) ([]PricedLine, float64) {
	out := make([]PricedLine, 0, len(lines))
	var materialsCost float64
	for _, line := range lines {
		pl := PricedLine{MergedLine: line, Name: c.conv.MissingMaterialName}
		if m, ok := idx.Lookup(line.Code); ok {
			pl.Found = true
			pl.UnitCost = m.CostEUR.Float()
			if m.Name != "" {
				pl.Name = m.Name
			}
		}
		pl.LineCost = pl.UnitCost * line.Qty
		materialsCost += pl.LineCost
		out = append(out, pl)
	}
	return out, materialsCost
}

// LaborUnit returns the unit to display for a labor line.
func (c *Calculator) LaborUnit(line MergedLine) string {
	if line.Unit == "" {
		return c.conv.LaborUnitFallback
	}
	return line.Unit
}

// SumLaborHours adds up the quantities of labor lines.
func SumLaborHours(lines []MergedLine) float64 {
	var hours float64
	for _, l := range lines {
		hours += l.Qty
	}
	return hours
}

// ComputeTotals derives labor and total cost. The rate is not clamped.
func ComputeTotals(laborHours, laborRate, materialsCost float64) Totals {
	laborCost := laborHours * SanitizeRate(laborRate)
	return Totals{
		LaborCost: laborCost,
		TotalCost: materialsCost + laborCost,
	}
}

// SanitizeRate maps non-finite rates to 0 and leaves every finite value alone.
func SanitizeRate(rate float64) float64 {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0
	}
	return rate
}

// ParseLaborRate coerces user input to a rate. A decimal comma is accepted;
// anything non-numeric is 0.
func ParseLaborRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return SanitizeRate(f)
}
