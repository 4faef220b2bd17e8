package service

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hwalton/wildtubs-configurator/pkg/catalog"
)

func testCatalog(kind string) *Catalog {
	mats := &catalog.MaterialsDoc{
		Materials: []catalog.Material{
			{Code: "M1", Name: "Board", CostEUR: 5},
			{Code: "M2", Name: "Lid foam", CostEUR: 12},
		},
		Defaults: &catalog.Defaults{LaborRateEURPerHour: 20},
	}
	asms := &catalog.AssembliesDoc{Assemblies: []catalog.Assembly{
		{ID: "S1", Name: "Shell small", Section: "Shell", Items: []catalog.LineItem{{Code: "M1", Qty: 2, Unit: "pcs"}, {Code: "DU1", Qty: 1}}},
		{ID: "S2", Name: "Shell large", Section: "Shell", Items: []catalog.LineItem{{Code: "M1", Qty: 4, Unit: "pcs"}, {Code: "DU1", Qty: 2}}},
		{ID: "L1", Name: "Lid", Section: "Lid", Items: []catalog.LineItem{{Code: "M2", Qty: 1}, {Code: "DU2", Qty: 0.5}}},
	}}
	return NewCatalog(kind, mats, asms, nil)
}

func TestCatalog_DisplayOrderAndDefaults(t *testing.T) {
	cat := testCatalog("kubilai")
	if cat.DefaultLaborRate != 20 {
		t.Fatalf("default rate = %v, want 20", cat.DefaultLaborRate)
	}
	var sections []string
	for _, g := range cat.Sections {
		sections = append(sections, g.Section)
	}
	if !reflect.DeepEqual(sections, []string{"Lid", "Shell"}) {
		t.Fatalf("sections should be sorted for display, got %v", sections)
	}
	if cat.Sections[1].Assemblies[0].ID != "S2" {
		t.Fatalf("options should be sorted by name, got %v", cat.Sections[1].Assemblies)
	}
}

func TestNewCatalog_NilDocuments(t *testing.T) {
	cat := NewCatalog("empty", nil, nil, nil)
	if cat.DefaultLaborRate != 0 || len(cat.Sections) != 0 {
		t.Fatalf("unexpected empty catalog: %#v", cat)
	}
	res := cat.NewSession().Recompute()
	if res.TotalCost != 0 {
		t.Fatalf("expected zero total, got %v", res.TotalCost)
	}
}

func TestSession_SelectAndRecompute(t *testing.T) {
	s := testCatalog("kubilai").NewSession()
	if s.LaborRate() != 20 {
		t.Fatalf("session should be seeded with the default rate")
	}
	if err := s.Select("Shell", "S1"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := s.Select("Lid", "L1"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := s.Select("Lid", "S1"); err == nil {
		t.Fatalf("expected error selecting an option from another section")
	}
	if err := s.Select("Nope", "S1"); err == nil {
		t.Fatalf("expected error for unknown section")
	}
	if !reflect.DeepEqual(s.ChosenIDs(), []string{"L1", "S1"}) {
		t.Fatalf("chosen ids in section order, got %v", s.ChosenIDs())
	}

	res := s.Recompute()
	// M2 12 + M1 2*5 = 22; hours 1.5 * 20 = 30
	if res.MaterialsCost != 22 || res.LaborHours != 1.5 || res.LaborCost != 30 || res.TotalCost != 52 {
		t.Fatalf("unexpected result: %#v", res)
	}

	if err := s.Select("Lid", ""); err != nil {
		t.Fatalf("clearing a selection: %v", err)
	}
	if s.Selected("Lid") != "" {
		t.Fatalf("expected Lid cleared")
	}
}

func TestSession_StateRoundTrip(t *testing.T) {
	s := testCatalog("kubilai").NewSession()
	_ = s.Select("Shell", "S2")
	s.SetLaborRate(17.5)
	before := s.Recompute()

	s.SetState(s.GetState())

	after := s.Recompute()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("SetState(GetState()) changed results:\n%#v\n%#v", before, after)
	}
	st := s.GetState()
	want := State{LaborRate: 17.5, Selections: []Selection{{Section: "Lid", Value: ""}, {Section: "Shell", Value: "S2"}}}
	if !reflect.DeepEqual(st, want) {
		t.Fatalf("GetState = %#v, want %#v", st, want)
	}
}

func TestSession_SetStateIgnoresUnknown(t *testing.T) {
	s := testCatalog("kubilai").NewSession()
	_ = s.Select("Lid", "L1")
	s.SetState(State{
		LaborRate: 9,
		Selections: []Selection{
			{Section: "Shell", Value: "S1"},
			{Section: "Ghost", Value: "G1"},
			{Section: "Lid", Value: "S2"},
		},
	})
	if !reflect.DeepEqual(s.ChosenIDs(), []string{"S1"}) {
		t.Fatalf("unexpected chosen ids: %v", s.ChosenIDs())
	}
	if s.LaborRate() != 9 {
		t.Fatalf("rate not restored")
	}
}

func TestWorkspace_SwitchKeepsPerKindState(t *testing.T) {
	w := NewWorkspace(map[string]*Catalog{
		"kubilai": testCatalog("kubilai"),
		"pirtys":  testCatalog("pirtys"),
	})
	if w.Active() != nil || w.Kind() != "" {
		t.Fatalf("workspace should start without an active kind")
	}

	tubs, err := w.Switch("kubilai")
	if err != nil {
		t.Fatalf("Switch: %v", err)
	}
	_ = tubs.Select("Shell", "S2")
	tubs.SetLaborRate(30)

	saunas, err := w.Switch("pirtys")
	if err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if len(saunas.ChosenIDs()) != 0 || saunas.LaborRate() != 20 {
		t.Fatalf("fresh kind should start empty with default rate")
	}
	_ = saunas.Select("Lid", "L1")

	back, _ := w.Switch("kubilai")
	if !reflect.DeepEqual(back.ChosenIDs(), []string{"S2"}) || back.LaborRate() != 30 {
		t.Fatalf("kubilai state not restored: %v @ %v", back.ChosenIDs(), back.LaborRate())
	}
	again, _ := w.Switch("kubilai")
	if again != back {
		t.Fatalf("switching to the active kind should keep the session")
	}

	if _, err := w.Switch("boats"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if w.Kind() != "kubilai" {
		t.Fatalf("failed switch must not change the active kind")
	}
}

func TestOfferDraft(t *testing.T) {
	s := testCatalog("kubilai").NewSession()
	_ = s.Select("Shell", "S1")
	draft := OfferDraft("kubilai", s.Recompute())
	for _, want := range []string{"PASIŪLYMAS (juodraštis)", "Produktas: KUBILAI", "Pasirinkimai: Shell small", "Bendra savikaina:", "1 val x"} {
		if !strings.Contains(draft, want) {
			t.Errorf("offer draft missing %q:\n%s", want, draft)
		}
	}
	if ChosenSummary(Result{}) != "—" {
		t.Errorf("empty summary should be a dash")
	}
}
