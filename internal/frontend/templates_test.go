package frontend

import (
	"bytes"
	"strings"
	"testing"
)

func TestBuildTemplates(t *testing.T) {
	tpl, err := BuildTemplates()
	if err != nil {
		t.Fatalf("BuildTemplates: %v", err)
	}
	for _, name := range []string{"configurator.html", "head", "nav", "summary", "bom", "labor"} {
		if tpl.Lookup(name) == nil {
			t.Fatalf("template %q not parsed", name)
		}
	}
}

func TestSummaryPartial(t *testing.T) {
	tpl, err := BuildTemplates()
	if err != nil {
		t.Fatalf("BuildTemplates: %v", err)
	}
	data := map[string]interface{}{
		"Chosen": "Korpusas",
		"Result": struct {
			MaterialsCost, LaborHours, LaborCost, TotalCost float64
		}{25, 1.5, 30, 55},
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "summary", data); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Korpusas", "25,00", "1.5", "55,00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}
