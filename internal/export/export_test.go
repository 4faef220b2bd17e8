package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hwalton/wildtubs-configurator/internal/service"
	"github.com/hwalton/wildtubs-configurator/pkg/catalog"
)

func sampleOffer(t *testing.T) OfferData {
	t.Helper()
	calc := service.NewCalculator(service.DefaultConventions())
	mats := &catalog.MaterialsDoc{Materials: []catalog.Material{
		{Code: "M1", Name: "Mediena", CostEUR: 10},
		{Code: "M2", Name: "=Varžtai", CostEUR: 5},
	}}
	asms := &catalog.AssembliesDoc{Assemblies: []catalog.Assembly{
		{ID: "A1", Name: "Korpusas", Section: "Korpusas", Items: []catalog.LineItem{
			{Code: "M2", Qty: 1, Unit: "vnt"},
			{Code: "M1", Qty: 2, Unit: "m"},
			{Code: "X9", Qty: 1},
			{Code: "DU-01", Qty: 1.5, Unit: "val"},
		}},
	}}
	cat := service.NewCatalog("kubilai", mats, asms, calc)
	res := cat.Recompute([]string{"A1"}, 20)
	return NewOfferData("kubilai", res, calc, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
}

func TestNewOfferData(t *testing.T) {
	d := sampleOffer(t)
	if d.Title != "Pasiūlymas KUBILAI" || d.CreatedDate != "2026-03-01" {
		t.Fatalf("unexpected header: %q %q", d.Title, d.CreatedDate)
	}
	if !strings.HasPrefix(d.Reference, "WT-") || len(d.Reference) != 11 {
		t.Fatalf("unexpected reference %q", d.Reference)
	}
	if len(d.Materials) != 3 || d.Materials[0].Code != "M1" || d.Materials[2].Code != "X9" {
		t.Fatalf("materials not sorted by code: %+v", d.Materials)
	}
	if d.Materials[2].Found {
		t.Fatalf("X9 should be missing")
	}
	if len(d.Labor) != 1 || d.Labor[0].Hours != 1.5 || d.Labor[0].Unit != "val" {
		t.Fatalf("unexpected labor rows: %+v", d.Labor)
	}
	if d.MaterialsCost != 25 || d.LaborCost != 30 || d.TotalCost != 55 {
		t.Fatalf("unexpected totals: %+v", d)
	}
	if !strings.Contains(d.Draft, "PASIŪLYMAS") {
		t.Fatalf("draft missing: %q", d.Draft)
	}
}

func TestGenerateExcel(t *testing.T) {
	result, err := GenerateExcel(sampleOffer(t))
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1 || sheets[0] != "Pasiūlymas KUBILAI" {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	title, _ := f.GetCellValue(sheets[0], "A1")
	if title != "Pasiūlymas KUBILAI" {
		t.Errorf("unexpected title %q", title)
	}
	code, _ := f.GetCellValue(sheets[0], "A6")
	if code != "M1" {
		t.Errorf("expected first material M1, got %q", code)
	}
	name, _ := f.GetCellValue(sheets[0], "B7")
	if name != "'=Varžtai" {
		t.Errorf("expected sanitized name, got %q", name)
	}
}

func TestGenerateExcel_Empty(t *testing.T) {
	result, err := GenerateExcel(OfferData{Title: "", CreatedDate: "2026-03-01"})
	if err != nil {
		t.Fatalf("GenerateExcel() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(result))
	if err != nil {
		t.Fatalf("result is not valid Excel: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); sheets[0] != "Pasiulymas" {
		t.Fatalf("unexpected fallback sheet name %v", sheets)
	}
}

func TestGeneratePDF(t *testing.T) {
	for _, d := range []OfferData{sampleOffer(t), {Title: "Tuščias"}} {
		result, err := GeneratePDF(d)
		if err != nil {
			t.Fatalf("GeneratePDF() error = %v", err)
		}
		if len(result) < 5 || string(result[:5]) != "%PDF-" {
			t.Fatalf("result does not start with PDF header")
		}
	}
}

func TestSheetName(t *testing.T) {
	tests := map[string]string{
		"Offer: a/b":            "Offer ab",
		"   ":                   "Pasiulymas",
		strings.Repeat("ž", 40): strings.Repeat("ž", 31),
		"Pasiūlymas PIRTYS":     "Pasiūlymas PIRTYS",
	}
	for in, want := range tests {
		if got := sheetName(in); got != want {
			t.Errorf("sheetName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPDFText(t *testing.T) {
	if got := pdfText("Žaliavos 12,50 €"); got != "Zaliavos 12,50 EUR" {
		t.Fatalf("unexpected folding %q", got)
	}
}
