package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hwalton/wildtubs-configurator/internal/service"
)

const eurFormat = `#,##0.00 "€"`

// GenerateExcel renders the offer as a single-sheet workbook.
func GenerateExcel(data OfferData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(data.Title)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F"}
	widths := []float64{14, 42, 10, 8, 14, 14}
	for i, c := range columns {
		if err := f.SetColWidth(sheet, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2F4F4F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	cellStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}
	moneyFmt := eurFormat
	moneyStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10}, Border: thinBorders(), CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}
	missingStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Size: 10, Color: "#B00020", Italic: true}, Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create missing style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}, Alignment: &excelize.Alignment{Horizontal: "right"}})
	if err != nil {
		return nil, fmt.Errorf("create label style: %w", err)
	}

	if err := f.MergeCell(sheet, "A1", "F1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheet, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheet, "A1", "F1", titleStyle)
	f.SetCellValue(sheet, "A2", "Nr.: "+data.Reference)
	f.SetCellValue(sheet, "D2", "Data: "+data.CreatedDate)
	f.SetCellValue(sheet, "A3", "Pasirinkimai:")
	f.SetCellValue(sheet, "B3", sanitizeExcelCell(strings.Join(data.Chosen, ", ")))

	row := 5
	setRow(f, sheet, row, "Kodas", "Pavadinimas", "Kiekis", "Vnt", "Kaina", "Suma")
	f.SetCellStyle(sheet, cell("A", row), cell("F", row), headerStyle)
	row++

	for _, m := range data.Materials {
		setRow(f, sheet, row, sanitizeExcelCell(m.Code), sanitizeExcelCell(m.Name), m.Qty, sanitizeExcelCell(m.Unit), m.UnitCost, m.LineCost)
		f.SetCellStyle(sheet, cell("A", row), cell("D", row), cellStyle)
		if !m.Found {
			f.SetCellStyle(sheet, cell("B", row), cell("B", row), missingStyle)
		}
		f.SetCellStyle(sheet, cell("E", row), cell("F", row), moneyStyle)
		row++
	}

	if len(data.Labor) > 0 {
		row++
		setRow(f, sheet, row, "Darbas", "", "Kiekis", "Vnt")
		f.SetCellStyle(sheet, cell("A", row), cell("D", row), headerStyle)
		row++
		for _, l := range data.Labor {
			setRow(f, sheet, row, sanitizeExcelCell(l.Code), "", l.Hours, sanitizeExcelCell(l.Unit))
			f.SetCellStyle(sheet, cell("A", row), cell("D", row), cellStyle)
			row++
		}
	}

	row++
	totals := []struct {
		label string
		value float64
	}{
		{"Žaliavos:", data.MaterialsCost},
		{fmt.Sprintf("Darbas (%s val):", service.FormatHours(data.LaborHours)), data.LaborCost},
		{"Bendra savikaina:", data.TotalCost},
	}
	for _, t := range totals {
		f.SetCellValue(sheet, cell("E", row), t.label)
		f.SetCellStyle(sheet, cell("E", row), cell("E", row), labelStyle)
		f.SetCellValue(sheet, cell("F", row), t.value)
		f.SetCellStyle(sheet, cell("F", row), cell("F", row), totalStyle)
		row++
	}
	f.SetCellValue(sheet, cell("E", row), "Valandinis įkainis:")
	f.SetCellStyle(sheet, cell("E", row), cell("E", row), labelStyle)
	f.SetCellValue(sheet, cell("F", row), data.LaborRate)
	f.SetCellStyle(sheet, cell("F", row), cell("F", row), totalStyle)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	cols := "ABCDEF"
	for i, v := range values {
		f.SetCellValue(sheet, cell(string(cols[i]), row), v)
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// sheetName trims to Excel's 31 character limit and strips forbidden characters.
func sheetName(title string) string {
	s := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, title)
	if r := []rune(s); len(r) > 31 {
		s = string(r[:31])
	}
	if strings.TrimSpace(s) == "" {
		return "Pasiulymas"
	}
	return s
}

// sanitizeExcelCell prefixes formula-triggering leading characters with a quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
