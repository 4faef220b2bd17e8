package service

import "github.com/hwalton/wildtubs-configurator/pkg/catalog"

// MergedLine is the per-code aggregate of line items.
type MergedLine struct {
	Code string  `json:"code"`
	Qty  float64 `json:"qty"`
	Unit string  `json:"unit"`
}

// lineAccumulator folds line items into merged lines, remembering the order
// in which codes were first seen so output never depends on map iteration.
type lineAccumulator struct {
	order []string
	lines map[string]*MergedLine
}

func newLineAccumulator(capacity int) *lineAccumulator {
	return &lineAccumulator{lines: make(map[string]*MergedLine, capacity)}
}

func (acc *lineAccumulator) add(it catalog.LineItem) {
	code := NormalizeCode(it.Code)
	line, ok := acc.lines[code]
	if !ok {
		line = &MergedLine{Code: code}
		acc.lines[code] = line
		acc.order = append(acc.order, code)
	}
	line.Qty += it.Qty.Float()
	// first non-empty unit sticks
	if line.Unit == "" && it.Unit != "" {
		line.Unit = it.Unit
	}
}

func (acc *lineAccumulator) result() []MergedLine {
	out := make([]MergedLine, 0, len(acc.order))
	for _, code := range acc.order {
		out = append(out, *acc.lines[code])
	}
	return out
}

// MergeLineItems sums quantities per normalized code.
// Lines come out in first-occurrence order. Quantities are order-independent;
// the unit is the first non-empty one encountered, so it is not.
func MergeLineItems(items []catalog.LineItem) []MergedLine {
	acc := newLineAccumulator(len(items))
	for _, it := range items {
		acc.add(it)
	}
	return acc.result()
}
