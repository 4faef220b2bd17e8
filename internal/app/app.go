package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hwalton/wildtubs-configurator/internal/config"
	"github.com/hwalton/wildtubs-configurator/internal/service"
	"github.com/hwalton/wildtubs-configurator/internal/store"
	"github.com/hwalton/wildtubs-configurator/pkg/catalog"
)

// LoadCatalogs loads the catalog of every configured kind. Any failure aborts
// the whole load; catalogs are never partially available.
func LoadCatalogs(ctx context.Context, cfg *config.Config, httpClient *http.Client) (map[string]*service.Catalog, error) {
	calc := service.NewCalculator(cfg.Conventions)

	var mu sync.Mutex
	out := make(map[string]*service.Catalog, len(cfg.Kinds))

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range cfg.Kinds {
		kind := kind
		g.Go(func() error {
			cat, err := loadCatalog(gctx, cfg, httpClient, calc, kind)
			if err != nil {
				return err
			}
			log.Printf("catalog %s: %d materials, %d assemblies in %d sections", kind, len(cat.Materials), len(cat.Assemblies), len(cat.Sections))

			mu.Lock()
			out[kind] = cat
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadCatalog loads a single kind.
func LoadCatalog(ctx context.Context, cfg *config.Config, httpClient *http.Client, kind string) (*service.Catalog, error) {
	if !cfg.HasKind(kind) {
		return nil, fmt.Errorf("%w: %s", service.ErrUnknownKind, kind)
	}
	return loadCatalog(ctx, cfg, httpClient, service.NewCalculator(cfg.Conventions), kind)
}

func loadCatalog(ctx context.Context, cfg *config.Config, httpClient *http.Client, calc *service.Calculator, kind string) (*service.Catalog, error) {
	mats, asms, err := loadKind(ctx, cfg, httpClient, kind)
	if err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", kind, err)
	}
	return service.NewCatalog(kind, mats, asms, calc), nil
}

func loadKind(ctx context.Context, cfg *config.Config, httpClient *http.Client, kind string) (*catalog.MaterialsDoc, *catalog.AssembliesDoc, error) {
	if cfg.CatalogSource == config.SourcePostgres {
		return store.LoadCatalog(ctx, cfg.DatabaseURL, kind)
	}
	return catalog.Load(ctx, httpClient, cfg.MaterialsURL, cfg.AssemblyURLs[kind])
}
