package service

import (
	"fmt"
	"strings"
)

// OfferDraft renders the plain-text offer draft for a computed result.
func OfferDraft(kind string, res Result) string {
	var b strings.Builder
	b.WriteString("PASIŪLYMAS (juodraštis)\n")
	fmt.Fprintf(&b, "Produktas: %s\n", strings.ToUpper(kind))
	fmt.Fprintf(&b, "Pasirinkimai: %s\n", strings.Join(res.ChosenNames, ", "))
	b.WriteString("\nSavikaina:\n")
	fmt.Fprintf(&b, "- Žaliavos: %s\n", FormatEUR(res.MaterialsCost))
	fmt.Fprintf(&b, "- Darbas (%s val x %s): %s\n", FormatHours(res.LaborHours), FormatEUR(res.LaborRate), FormatEUR(res.LaborCost))
	fmt.Fprintf(&b, "Bendra savikaina: %s\n", FormatEUR(res.TotalCost))
	return b.String()
}

// ChosenSummary joins the chosen names for the summary line, "—" when empty.
func ChosenSummary(res Result) string {
	if len(res.ChosenNames) == 0 {
		return "—"
	}
	return strings.Join(res.ChosenNames, ", ")
}
