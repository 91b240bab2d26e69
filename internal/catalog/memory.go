package catalog

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/lemonexport/quote-engine/internal/model"
)

// MemoryCatalog implements Provider over an in-memory listing table. Used
// for testing and development when no database or search gateway is set.
type MemoryCatalog struct {
	mu       sync.RWMutex
	listings []Listing
}

// NewMemoryCatalog creates a catalog holding copies of the given listings.
func NewMemoryCatalog(listings ...Listing) *MemoryCatalog {
	c := &MemoryCatalog{}
	for _, l := range listings {
		c.Add(l)
	}
	return c
}

// Add appends a listing.
func (c *MemoryCatalog) Add(l Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l.Exterior = append([]string(nil), l.Exterior...)
	l.Interior = append([]string(nil), l.Interior...)
	c.listings = append(c.listings, l)
}

// Listings returns a copy of every listing.
func (c *MemoryCatalog) Listings() []Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Listing(nil), c.listings...)
}

func (c *MemoryCatalog) ListModels(ctx context.Context, brand string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	models := []string{}
	for _, l := range c.listings {
		if l.matches(brand, "", "", "") {
			models = appendUnique(models, l.Model)
		}
	}
	return models, nil
}

func (c *MemoryCatalog) ListTrims(ctx context.Context, brand, modelName, year string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	trims := []string{}
	for _, l := range c.listings {
		if l.matches(brand, modelName, year, "") {
			trims = appendUnique(trims, l.Trim)
		}
	}
	return trims, nil
}

func (c *MemoryCatalog) ListColors(ctx context.Context, brand, modelName, year, trim string) (model.ColorOptions, error) {
	if err := ctx.Err(); err != nil {
		return model.ColorOptions{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	opts := model.ColorOptions{Exterior: []string{}, Interior: []string{}}
	for _, l := range c.listings {
		if l.matches(brand, modelName, year, trim) {
			opts.Exterior = appendUnique(opts.Exterior, l.Exterior...)
			opts.Interior = appendUnique(opts.Interior, l.Interior...)
		}
	}
	return opts, nil
}

// EstimatePrice returns the price of the first listing matching the query.
// A blank year or trim matches any.
func (c *MemoryCatalog) EstimatePrice(ctx context.Context, q PriceQuery) (*model.PriceEstimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, l := range c.listings {
		if l.matches(q.Brand, q.Model, q.Year, q.Trim) {
			if p := l.Price(q.Used); p != nil {
				return p, nil
			}
		}
	}
	return nil, nil
}

// DemoListings is a small fixture catalog of popular export models.
func DemoListings() []Listing {
	const ref = "https://www.dongchedi.com"
	p := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	return []Listing{
		{
			Brand: "BYD", Model: "Seal", Year: "2025", Trim: "650 Standard",
			Exterior: []string{"Aurora White", "Abyss Black", "Atlantis Grey"},
			Interior: []string{"Black", "Blue"},
			MSRP:     p(179800), UsedPrice: p(142000), SourceRef: ref,
		},
		{
			Brand: "BYD", Model: "Seal", Year: "2025", Trim: "650 Performance AWD",
			Exterior: []string{"Aurora White", "Abyss Black", "Shadow Green"},
			Interior: []string{"Black", "Dark Brown"},
			MSRP:     p(229800), UsedPrice: p(181000), SourceRef: ref,
		},
		{
			Brand: "BYD", Model: "Song PLUS DM-i", Year: "2025", Trim: "Flagship 110km",
			Exterior: []string{"Snow White", "Time Grey"},
			Interior: []string{"Black", "Beige"},
			MSRP:     p(155800), UsedPrice: p(118000), SourceRef: ref,
		},
		{
			Brand: "Geely", Model: "Monjaro", Year: "2025", Trim: "2.0TD Flagship",
			Exterior: []string{"Crystal White", "Rock Grey"},
			Interior: []string{"Black", "Tan"},
			MSRP:     p(189700), UsedPrice: p(150000), SourceRef: ref,
		},
		{
			Brand: "Changan", Model: "UNI-K", Year: "2025", Trim: "2.0T Premium",
			Exterior: []string{"Pearl White", "Night Black"},
			Interior: []string{"Black"},
			MSRP:     p(153900), SourceRef: ref,
		},
		{
			Brand: "Toyota", Model: "Camry", Year: "2025", Trim: "2.0S Sport",
			Exterior: []string{"Super White", "Attitude Black"},
			Interior: []string{"Black"},
			MSRP:     p(179800), UsedPrice: p(146000), SourceRef: ref,
		},
	}
}
