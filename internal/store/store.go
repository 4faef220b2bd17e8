package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hwalton/wildtubs-configurator/pkg/catalog"
)

// Schema creates the catalog tables if they are missing.
const Schema = `
CREATE TABLE IF NOT EXISTS materials (
  code TEXT PRIMARY KEY,
  name TEXT,
  cost_eur NUMERIC
);
CREATE TABLE IF NOT EXISTS catalog_defaults (
  key TEXT PRIMARY KEY,
  value NUMERIC
);
CREATE TABLE IF NOT EXISTS assemblies (
  kind TEXT NOT NULL,
  id TEXT NOT NULL,
  name TEXT,
  section TEXT,
  position INT NOT NULL DEFAULT 0,
  PRIMARY KEY (kind, id)
);
CREATE TABLE IF NOT EXISTS assembly_items (
  kind TEXT NOT NULL,
  assembly_id TEXT NOT NULL,
  position INT NOT NULL DEFAULT 0,
  code TEXT,
  qty NUMERIC,
  unit TEXT
);
`

const laborRateKey = "labor_rate_eur_per_hour"

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, dbURL string) error {
	if dbURL == "" {
		return fmt.Errorf("db url missing")
	}
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// LoadCatalog reads the materials document and the assemblies of kind.
// NULL columns come back as zero values, matching the JSON defaults.
func LoadCatalog(ctx context.Context, dbURL, kind string) (*catalog.MaterialsDoc, *catalog.AssembliesDoc, error) {
	if dbURL == "" {
		return nil, nil, fmt.Errorf("db url missing")
	}
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	mats, err := loadMaterials(ctx, pool)
	if err != nil {
		return nil, nil, err
	}
	asms, err := loadAssemblies(ctx, pool, kind)
	if err != nil {
		return nil, nil, err
	}
	return mats, asms, nil
}

func loadMaterials(ctx context.Context, pool *pgxpool.Pool) (*catalog.MaterialsDoc, error) {
	rows, err := pool.Query(ctx, `
SELECT
  code,
  COALESCE(name, '') AS name,
  COALESCE(cost_eur, 0)::float8 AS cost_eur
FROM materials
ORDER BY code
`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	doc := &catalog.MaterialsDoc{Materials: []catalog.Material{}}
	for rows.Next() {
		var (
			m    catalog.Material
			cost float64
		)
		if err := rows.Scan(&m.Code, &m.Name, &cost); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		m.CostEUR = catalog.Number(cost)
		doc.Materials = append(doc.Materials, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	var rate float64
	err = pool.QueryRow(ctx, `SELECT COALESCE(value, 0)::float8 FROM catalog_defaults WHERE key = $1`, laborRateKey).Scan(&rate)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("query defaults: %w", err)
	default:
		doc.Defaults = &catalog.Defaults{LaborRateEURPerHour: catalog.Number(rate)}
	}
	return doc, nil
}

func loadAssemblies(ctx context.Context, pool *pgxpool.Pool, kind string) (*catalog.AssembliesDoc, error) {
	rows, err := pool.Query(ctx, `
SELECT id, COALESCE(name, '') AS name, COALESCE(section, '') AS section
FROM assemblies
WHERE kind = $1
ORDER BY position, id
`, kind)
	if err != nil {
		return nil, fmt.Errorf("query assemblies: %w", err)
	}
	defer rows.Close()

	doc := &catalog.AssembliesDoc{Assemblies: []catalog.Assembly{}}
	pos := map[string]int{}
	for rows.Next() {
		var a catalog.Assembly
		if err := rows.Scan(&a.ID, &a.Name, &a.Section); err != nil {
			return nil, fmt.Errorf("scan assembly: %w", err)
		}
		pos[a.ID] = len(doc.Assemblies)
		doc.Assemblies = append(doc.Assemblies, a)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", rows.Err())
	}

	itemRows, err := pool.Query(ctx, `
SELECT assembly_id, COALESCE(code, '') AS code, COALESCE(qty, 0)::float8 AS qty, COALESCE(unit, '') AS unit
FROM assembly_items
WHERE kind = $1
ORDER BY assembly_id, position
`, kind)
	if err != nil {
		return nil, fmt.Errorf("query assembly items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			assemblyID string
			it         catalog.LineItem
			qty        float64
		)
		if err := itemRows.Scan(&assemblyID, &it.Code, &qty, &it.Unit); err != nil {
			return nil, fmt.Errorf("scan assembly item: %w", err)
		}
		i, ok := pos[assemblyID]
		if !ok {
			// orphan item rows are skipped
			continue
		}
		it.Qty = catalog.Number(qty)
		doc.Assemblies[i].Items = append(doc.Assemblies[i].Items, it)
	}
	if itemRows.Err() != nil {
		return nil, fmt.Errorf("rows error: %w", itemRows.Err())
	}
	return doc, nil
}

// ImportCatalog replaces the stored materials, defaults and kind's assemblies
// with the given documents in one transaction.
func ImportCatalog(ctx context.Context, dbURL, kind string, mats *catalog.MaterialsDoc, asms *catalog.AssembliesDoc) error {
	if dbURL == "" {
		return fmt.Errorf("db url missing")
	}
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if mats != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM materials`); err != nil {
			return fmt.Errorf("clear materials: %w", err)
		}
		for _, m := range mats.Materials {
			_, err := tx.Exec(ctx, `
INSERT INTO materials (code, name, cost_eur) VALUES ($1, $2, $3)
ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, cost_eur = EXCLUDED.cost_eur
`, m.Code, m.Name, m.CostEUR.Float())
			if err != nil {
				return fmt.Errorf("insert material %s: %w", m.Code, err)
			}
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO catalog_defaults (key, value) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
`, laborRateKey, mats.LaborRate()); err != nil {
			return fmt.Errorf("upsert defaults: %w", err)
		}
	}

	if asms != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM assembly_items WHERE kind = $1`, kind); err != nil {
			return fmt.Errorf("clear assembly items: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM assemblies WHERE kind = $1`, kind); err != nil {
			return fmt.Errorf("clear assemblies: %w", err)
		}
		seen := make(map[string]bool, len(asms.Assemblies))
		for i, a := range asms.Assemblies {
			// first assembly with an id wins, matching in-memory pricing
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			_, err := tx.Exec(ctx, `
INSERT INTO assemblies (kind, id, name, section, position) VALUES ($1, $2, $3, $4, $5)
`, kind, a.ID, a.Name, a.Section, i)
			if err != nil {
				return fmt.Errorf("insert assembly %s: %w", a.ID, err)
			}
			for j, it := range a.Items {
				_, err := tx.Exec(ctx, `
INSERT INTO assembly_items (kind, assembly_id, position, code, qty, unit) VALUES ($1, $2, $3, $4, $5, $6)
`, kind, a.ID, j, it.Code, it.Qty.Float(), it.Unit)
				if err != nil {
					return fmt.Errorf("insert item %s/%s: %w", a.ID, it.Code, err)
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
