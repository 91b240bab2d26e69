package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lemonexport/quote-engine/internal/model"
)

// Schema creates the listing table. Prices are NUMERIC for exact decimal
// precision; a NULL used_price means no used-market figure.
const Schema = `
CREATE TABLE IF NOT EXISTS catalog_listings (
	brand           TEXT NOT NULL,
	model           TEXT NOT NULL,
	year            TEXT NOT NULL,
	trim_name       TEXT NOT NULL,
	exterior_colors TEXT[] NOT NULL DEFAULT '{}',
	interior_colors TEXT[] NOT NULL DEFAULT '{}',
	msrp            NUMERIC NOT NULL,
	used_price      NUMERIC,
	source_ref      TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (brand, model, year, trim_name)
);
CREATE INDEX IF NOT EXISTS catalog_listings_brand_idx ON catalog_listings (lower(brand));
`

// PostgresCatalog implements Provider over the catalog_listings table.
// Matching on brand, model, year and trim is case-insensitive.
type PostgresCatalog struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalog creates a PostgreSQL-backed catalog.
func NewPostgresCatalog(pool *pgxpool.Pool) *PostgresCatalog {
	return &PostgresCatalog{pool: pool}
}

// EnsureSchema creates the table if it does not exist.
func (c *PostgresCatalog) EnsureSchema(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("catalog schema: %w", err)
	}
	return nil
}

// Count returns the number of listings.
func (c *PostgresCatalog) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.pool.QueryRow(ctx, `SELECT count(*) FROM catalog_listings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

// Upsert inserts or replaces a listing.
func (c *PostgresCatalog) Upsert(ctx context.Context, l Listing) error {
	var used *string
	if l.UsedPrice.IsPositive() {
		s := l.UsedPrice.String()
		used = &s
	}
	_, err := c.pool.Exec(ctx,
		`INSERT INTO catalog_listings
		        (brand, model, year, trim_name, exterior_colors, interior_colors, msrp, used_price, source_ref)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::NUMERIC, $8::NUMERIC, $9)
		 ON CONFLICT (brand, model, year, trim_name) DO UPDATE SET
		        exterior_colors = EXCLUDED.exterior_colors,
		        interior_colors = EXCLUDED.interior_colors,
		        msrp            = EXCLUDED.msrp,
		        used_price      = EXCLUDED.used_price,
		        source_ref      = EXCLUDED.source_ref`,
		l.Brand, l.Model, l.Year, l.Trim,
		nonNil(l.Exterior), nonNil(l.Interior),
		l.MSRP.String(), used, l.SourceRef,
	)
	if err != nil {
		return fmt.Errorf("upsert listing %s %s %s %s: %w", l.Brand, l.Model, l.Year, l.Trim, err)
	}
	return nil
}

func (c *PostgresCatalog) ListModels(ctx context.Context, brand string) ([]string, error) {
	return c.queryStrings(ctx,
		`SELECT DISTINCT model FROM catalog_listings
		 WHERE lower(brand) = lower($1)
		 ORDER BY model`, brand)
}

func (c *PostgresCatalog) ListTrims(ctx context.Context, brand, modelName, year string) ([]string, error) {
	return c.queryStrings(ctx,
		`SELECT trim_name FROM catalog_listings
		 WHERE lower(brand) = lower($1) AND lower(model) = lower($2) AND year = $3
		 ORDER BY msrp, trim_name`, brand, modelName, year)
}

func (c *PostgresCatalog) ListColors(ctx context.Context, brand, modelName, year, trim string) (model.ColorOptions, error) {
	rows, err := c.pool.Query(ctx,
		`SELECT exterior_colors, interior_colors FROM catalog_listings
		 WHERE lower(brand) = lower($1) AND lower(model) = lower($2)
		   AND year = $3 AND lower(trim_name) = lower($4)`,
		brand, modelName, year, trim)
	if err != nil {
		return model.ColorOptions{}, fmt.Errorf("list colors: %w", err)
	}
	defer rows.Close()

	opts := model.ColorOptions{Exterior: []string{}, Interior: []string{}}
	for rows.Next() {
		var ext, in []string
		if err := rows.Scan(&ext, &in); err != nil {
			return model.ColorOptions{}, fmt.Errorf("scan colors: %w", err)
		}
		opts.Exterior = appendUnique(opts.Exterior, ext...)
		opts.Interior = appendUnique(opts.Interior, in...)
	}
	return opts, rows.Err()
}

// EstimatePrice picks the newest, then cheapest, listing matching the
// query; blank year or trim match any.
func (c *PostgresCatalog) EstimatePrice(ctx context.Context, q PriceQuery) (*model.PriceEstimate, error) {
	column := "msrp"
	if q.Used {
		column = "used_price"
	}
	var price, ref string
	err := c.pool.QueryRow(ctx,
		`SELECT `+column+`::TEXT, source_ref FROM catalog_listings
		 WHERE lower(brand) = lower($1) AND lower(model) = lower($2)
		   AND ($3 = '' OR year = $3)
		   AND ($4 = '' OR lower(trim_name) = lower($4))
		   AND `+column+` IS NOT NULL
		 ORDER BY year DESC, `+column+`
		 LIMIT 1`,
		q.Brand, q.Model, q.Year, q.Trim).Scan(&price, &ref)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("estimate price: %w", err)
	}

	p, err := decimal.NewFromString(price)
	if err != nil || !p.IsPositive() {
		return nil, nil
	}
	return &model.PriceEstimate{Price: p, SourceRef: ref}, nil
}

func (c *PostgresCatalog) queryStrings(ctx context.Context, sql string, args ...any) ([]string, error) {
	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog query: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("catalog scan: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
