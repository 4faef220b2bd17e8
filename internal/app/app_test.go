package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hwalton/wildtubs-configurator/internal/config"
	"github.com/hwalton/wildtubs-configurator/internal/service"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	mats := writeFile(t, dir, "materials.json", `{"materials":[{"code":"M1","name":"Lenta","cost_eur":"10"}],"defaults":{"labor_rate_eur_per_hour":25}}`)
	tubs := writeFile(t, dir, "assemblies_kubilai.json", `{"assemblies":[{"id":"A1","name":"Korpusas","section":"Korpusas","items":[{"code":"M1","qty":2},{"code":"DU1","qty":"1"}]}]}`)
	saunas := writeFile(t, dir, "assemblies_pirtys.json", `{"assemblies":[]}`)
	return &config.Config{
		Kinds:         []string{"kubilai", "pirtys"},
		DefaultKind:   "kubilai",
		CatalogSource: config.SourceJSON,
		MaterialsURL:  mats,
		AssemblyURLs:  map[string]string{"kubilai": tubs, "pirtys": saunas},
		Conventions:   service.DefaultConventions(),
	}
}

func TestLoadCatalogs(t *testing.T) {
	cfg := testConfig(t)
	cats, err := LoadCatalogs(context.Background(), cfg, http.DefaultClient)
	if err != nil {
		t.Fatalf("LoadCatalogs: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("expected 2 catalogs, got %d", len(cats))
	}
	res := cats["kubilai"].Recompute([]string{"A1"}, cats["kubilai"].DefaultLaborRate)
	if res.MaterialsCost != 20 || res.LaborCost != 25 || res.TotalCost != 45 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(cats["pirtys"].Sections) != 0 {
		t.Fatalf("pirtys should have no sections")
	}
}

func TestLoadCatalogs_FailureAbortsAll(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cfg := testConfig(t)
	cfg.AssemblyURLs["pirtys"] = srv.URL + "/assemblies_pirtys.json"
	_, err := LoadCatalogs(context.Background(), cfg, srv.Client())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "pirtys") || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("error should name the kind and status: %v", err)
	}
}

func TestLoadCatalog_UnknownKind(t *testing.T) {
	_, err := LoadCatalog(context.Background(), testConfig(t), http.DefaultClient, "valtys")
	if !errors.Is(err, service.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}
