package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hwalton/wildtubs-configurator/internal/service"
	"github.com/hwalton/wildtubs-configurator/internal/utils"
)

// Catalog sources.
const (
	SourceJSON     = "json"
	SourcePostgres = "postgres"
)

// Config is the runtime configuration shared by the server and the CLI.
type Config struct {
	Port          string
	DataDir       string
	MaterialsURL  string
	AssemblyURLs  map[string]string // kind -> location
	Kinds         []string
	DefaultKind   string
	CatalogSource string
	DatabaseURL   string
	AuthSecret    string
	HTTPTimeout   time.Duration
	Conventions   service.Conventions
}

// Load reads .env (when present) and the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("no %s file found, relying on environment: %v", envFile, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          utils.GetEnv("PORT", "8080"),
		DataDir:       utils.GetEnv("DATA_DIR", "data"),
		Kinds:         utils.SplitList(utils.GetEnv("PRODUCT_KINDS", "kubilai,pirtys")),
		CatalogSource: strings.ToLower(utils.GetEnv("CATALOG_SOURCE", SourceJSON)),
		DatabaseURL:   utils.GetEnv("DATABASE_URL", ""),
		AuthSecret:    utils.GetEnv("AUTH_SECRET", ""),
		AssemblyURLs:  map[string]string{},
		Conventions: service.Conventions{
			LaborPrefix:         utils.GetEnv("LABOR_PREFIX", ""),
			MissingMaterialName: utils.GetEnv("MISSING_MATERIAL_NAME", ""),
			LaborUnitFallback:   utils.GetEnv("LABOR_UNIT_FALLBACK", ""),
		},
	}
	if len(cfg.Kinds) == 0 {
		return nil, fmt.Errorf("PRODUCT_KINDS is empty")
	}
	cfg.DefaultKind = utils.GetEnv("DEFAULT_KIND", cfg.Kinds[0])
	if !cfg.HasKind(cfg.DefaultKind) {
		return nil, fmt.Errorf("DEFAULT_KIND %q is not one of %v", cfg.DefaultKind, cfg.Kinds)
	}

	cfg.MaterialsURL = utils.GetEnv("MATERIALS_URL", filepath.Join(cfg.DataDir, "materials.json"))
	for _, k := range cfg.Kinds {
		key := "ASSEMBLIES_URL_" + strings.ToUpper(k)
		cfg.AssemblyURLs[k] = utils.GetEnv(key, filepath.Join(cfg.DataDir, "assemblies_"+k+".json"))
	}

	timeout, err := time.ParseDuration(utils.GetEnv("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("parse HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	switch cfg.CatalogSource {
	case SourceJSON:
	case SourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("CATALOG_SOURCE=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)
	}
	return cfg, nil
}

// HasKind reports whether kind is configured.
func (c *Config) HasKind(kind string) bool {
	for _, k := range c.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}
