package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/hwalton/wildtubs-configurator/internal/service"
)

var (
	grey      = &props.Color{Red: 110, Green: 110, Blue: 110}
	missingFg = &props.Color{Red: 176, Green: 0, Blue: 32}
)

// GeneratePDF renders the offer as an A4 portrait document.
func GeneratePDF(data OfferData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "{current} / {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   grey,
		}).
		Build()

	m := maroto.New(cfg)
	addHeader(m, data)
	addMaterials(m, data.Materials)
	addLabor(m, data.Labor)
	addTotals(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data OfferData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(text.New(pdfText(data.Title), props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center})),
		),
		row.New(7).Add(
			col.New(6).Add(text.New("Nr.: "+data.Reference, props.Text{Size: 9, Color: grey})),
			col.New(6).Add(text.New("Data: "+data.CreatedDate, props.Text{Size: 9, Align: align.Right, Color: grey})),
		),
		row.New(7).Add(
			col.New(12).Add(text.New(pdfText("Pasirinkimai: "+strings.Join(data.Chosen, ", ")), props.Text{Size: 9})),
		),
		row.New(4),
	)
}

func addMaterials(m core.Maroto, rows []MaterialRow) {
	m.AddRows(tableHeader("Kodas", "Pavadinimas", "Kiekis", "Vnt", "Kaina", "Suma"))
	base := props.Text{Size: 8}
	right := props.Text{Size: 8, Align: align.Right}
	for _, r := range rows {
		name := base
		if !r.Found {
			name = props.Text{Size: 8, Style: fontstyle.Italic, Color: missingFg}
		}
		m.AddRows(row.New(6).Add(
			col.New(2).Add(text.New(pdfText(r.Code), base)),
			col.New(4).Add(text.New(pdfText(r.Name), name)),
			col.New(1).Add(text.New(service.FormatQty(r.Qty), right)),
			col.New(1).Add(text.New(pdfText(r.Unit), base)),
			col.New(2).Add(text.New(pdfText(service.FormatEUR(r.UnitCost)), right)),
			col.New(2).Add(text.New(pdfText(service.FormatEUR(r.LineCost)), right)),
		))
	}
	m.AddRows(row.New(4))
}

func addLabor(m core.Maroto, rows []LaborRow) {
	if len(rows) == 0 {
		return
	}
	m.AddRows(tableHeader("Darbas", "", "Kiekis", "Vnt", "", ""))
	for _, r := range rows {
		m.AddRows(row.New(6).Add(
			col.New(6).Add(text.New(pdfText(r.Code), props.Text{Size: 8})),
			col.New(1).Add(text.New(service.FormatHours(r.Hours), props.Text{Size: 8, Align: align.Right})),
			col.New(1).Add(text.New(pdfText(r.Unit), props.Text{Size: 8})),
			col.New(4),
		))
	}
	m.AddRows(row.New(4))
}

func addTotals(m core.Maroto, data OfferData) {
	bg := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	label := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	lines := []struct{ k, v string }{
		{"Zaliavos", service.FormatEUR(data.MaterialsCost)},
		{fmt.Sprintf("Darbas (%s val x %s)", service.FormatHours(data.LaborHours), service.FormatEUR(data.LaborRate)), service.FormatEUR(data.LaborCost)},
		{"Bendra savikaina", service.FormatEUR(data.TotalCost)},
	}
	for _, l := range lines {
		m.AddRows(row.New(8).Add(
			col.New(8).Add(text.New(pdfText(l.k), label)).WithStyle(bg),
			col.New(4).Add(text.New(pdfText(l.v), label)).WithStyle(bg),
		))
	}
}

func tableHeader(labels ...string) core.Row {
	style := &props.Cell{BackgroundColor: &props.Color{Red: 47, Green: 79, Blue: 79}}
	t := props.Text{Size: 8, Style: fontstyle.Bold, Color: &props.Color{Red: 255, Green: 255, Blue: 255}}
	sizes := []int{2, 4, 1, 1, 2, 2}
	cols := make([]core.Col, len(labels))
	for i, l := range labels {
		cols[i] = col.New(sizes[i]).Add(text.New(l, t)).WithStyle(style)
	}
	return row.New(7).Add(cols...)
}

// pdfText folds text into the core fonts' Latin-1 range: diacritics are
// dropped and the euro sign is spelled out.
func pdfText(s string) string {
	s = strings.NewReplacer("€", "EUR", "\u00a0", " ", "\u202f", " ", "—", "-").Replace(s)
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(fold, s)
	if err != nil {
		return s
	}
	return out
}
