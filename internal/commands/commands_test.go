package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/hwalton/wildtubs-configurator/internal/service"
)

func setupData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"materials.json": `{"materials":[{"code":"M1","name":"Lenta","cost_eur":10},{"code":"M2","name":"Varžtas","cost_eur":5}],
			"defaults":{"labor_rate_eur_per_hour":20}}`,
		"assemblies_kubilai.json": `{"assemblies":[
			{"id":"A1","name":"Korpusas","section":"Korpusas","items":[{"code":"M1","qty":2},{"code":"DU1","qty":1}]},
			{"id":"A2","name":"Dangtis","section":"Dangtis","items":[{"code":"M2","qty":1,"unit":"vnt"}]},
			{"id":"LED,RGB","name":"Apšvietimas","section":"Priedai","items":[{"code":"M2","qty":3}]}]}`,
		"assemblies_pirtys.json": `{"assemblies":[]}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	for _, k := range []string{"PRODUCT_KINDS", "DEFAULT_KIND", "MATERIALS_URL", "ASSEMBLIES_URL_KUBILAI", "ASSEMBLIES_URL_PIRTYS", "CATALOG_SOURCE", "DATABASE_URL", "AUTH_SECRET"} {
		t.Setenv(k, "")
	}
	t.Setenv("DATA_DIR", dir)
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd(&out)
	root.SetArgs(append([]string{"--env", ""}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSections(t *testing.T) {
	setupData(t)
	out, err := run(t, "sections", "--kind", "kubilai")
	if err != nil {
		t.Fatalf("sections: %v", err)
	}
	if strings.Index(out, "Dangtis") > strings.Index(out, "Korpusas") {
		t.Fatalf("sections not in display order:\n%s", out)
	}
	if !strings.Contains(out, "A1") || !strings.Contains(out, "A2") {
		t.Fatalf("missing options:\n%s", out)
	}
}

func TestPrice_Text(t *testing.T) {
	setupData(t)
	out, err := run(t, "price", "--pick", "A1", "--pick", "A2", "--rate", "10")
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	for _, want := range []string{"M1", "Varžtas", "DU1", "val", "PASIŪLYMAS", "35,00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrice_JSON(t *testing.T) {
	setupData(t)
	out, err := run(t, "price", "--kind", "kubilai", "--pick", "A1", "--pick", "A2", "--pick", "gone", "--format", "json")
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	var res service.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	// default catalog rate 20
	if res.LaborRate != 20 || res.MaterialsCost != 25 || res.TotalCost != 45 || len(res.ChosenNames) != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestPrice_PickWithComma(t *testing.T) {
	setupData(t)
	out, err := run(t, "price", "--pick", "LED,RGB", "--format", "json")
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	var res service.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(res.ChosenNames) != 1 || res.ChosenNames[0] != "Apšvietimas" || res.MaterialsCost != 15 {
		t.Fatalf("comma id not taken verbatim: %+v", res)
	}
}

func TestPrice_ExcelFile(t *testing.T) {
	dir := setupData(t)
	fn := filepath.Join(dir, "offer.xlsx")
	if _, err := run(t, "price", "--pick", "A1", "--format", "xlsx", "--out", fn); err != nil {
		t.Fatalf("price: %v", err)
	}
	f, err := excelize.OpenFile(fn)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(f.GetSheetList()[0], "A6"); v != "M1" {
		t.Fatalf("expected M1, got %q", v)
	}
}

func TestPrice_Errors(t *testing.T) {
	setupData(t)
	if _, err := run(t, "price", "--format", "csv"); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected format error, got %v", err)
	}
	if _, err := run(t, "price", "--kind", "valtys"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
	if _, err := run(t, "migrate"); err == nil {
		t.Fatalf("expected migrate to fail without DATABASE_URL")
	}
}

func TestToken(t *testing.T) {
	setupData(t)
	if _, err := run(t, "token"); err == nil {
		t.Fatalf("expected error without AUTH_SECRET")
	}
	t.Setenv("AUTH_SECRET", "s3cret")
	out, err := run(t, "token", "--subject", "office")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if strings.Count(strings.TrimSpace(out), ".") != 2 {
		t.Fatalf("expected a JWT, got %q", out)
	}
}
