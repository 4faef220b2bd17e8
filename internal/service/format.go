package service

import (
	"math"
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/hwalton/wildtubs-configurator/pkg/catalog"
)

// DisplayLanguage is the locale of the rendered offer.
var DisplayLanguage = language.Lithuanian

// FormatEUR formats an amount as lt-LT euro currency, e.g. "1 234,50 €".
func FormatEUR(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	p := message.NewPrinter(DisplayLanguage)
	return p.Sprintf("%v €", number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatHours rounds hours to two decimals and drops trailing zeros.
func FormatHours(hours float64) string {
	return strconv.FormatFloat(math.Round(hours*100)/100, 'f', -1, 64)
}

// FormatQty renders a merged quantity without padding.
func FormatQty(qty float64) string {
	return strconv.FormatFloat(qty, 'f', -1, 64)
}

func newCollator() *collate.Collator {
	return collate.New(DisplayLanguage)
}

// SortSectionsForDisplay orders sections and the options inside each section
// alphabetically using Lithuanian collation. The input is left untouched.
func SortSectionsForDisplay(groups []SectionGroup) []SectionGroup {
	col := newCollator()
	out := make([]SectionGroup, len(groups))
	for i, g := range groups {
		opts := append([]catalog.Assembly(nil), g.Assemblies...)
		sort.SliceStable(opts, func(a, b int) bool {
			return col.CompareString(opts[a].Name, opts[b].Name) < 0
		})
		out[i] = SectionGroup{Section: g.Section, Assemblies: opts}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return col.CompareString(out[a].Section, out[b].Section) < 0
	})
	return out
}

// SortPricedByCode returns the priced lines ordered by code. Codes are
// identifiers, so they compare bytewise; only display names use Lithuanian
// collation.
func SortPricedByCode(lines []PricedLine) []PricedLine {
	out := append([]PricedLine(nil), lines...)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Code < out[b].Code
	})
	return out
}

// SortMergedByCode returns the merged lines ordered by code.
func SortMergedByCode(lines []MergedLine) []MergedLine {
	out := append([]MergedLine(nil), lines...)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Code < out[b].Code
	})
	return out
}
