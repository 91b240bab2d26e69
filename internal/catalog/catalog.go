// Package catalog defines the vehicle attribute lookup interface used by the
// resolver. Implementations include an in-memory catalog (development and
// tests), PostgreSQL, and a Redis read-through cache in front of either, or
// in front of the search gateway.
package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lemonexport/quote-engine/internal/model"
)

// PriceQuery is the input tuple of a market price lookup. Year and Trim
// may be blank; Used selects the retail used-car price instead of MSRP.
type PriceQuery struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  string `json:"year"`
	Trim  string `json:"trim"`
	Used  bool   `json:"used"`
}

// Provider answers attribute lookups. Every method may block on the
// network and must honour ctx.
type Provider interface {
	// ListModels returns the models offered under a brand.
	ListModels(ctx context.Context, brand string) ([]string, error)

	// ListTrims returns the trims of a model year.
	ListTrims(ctx context.Context, brand, model, year string) ([]string, error)

	// ListColors returns the exterior and interior colors of a trim.
	ListColors(ctx context.Context, brand, model, year, trim string) (model.ColorOptions, error)

	// EstimatePrice returns the market reference price, or nil when the
	// source has no usable figure.
	EstimatePrice(ctx context.Context, q PriceQuery) (*model.PriceEstimate, error)
}

// Listing is one catalog row: a trim of a model year with its colors and
// reference prices. A zero UsedPrice means no used-market figure is known.
type Listing struct {
	Brand     string          `json:"brand"`
	Model     string          `json:"model"`
	Year      string          `json:"year"`
	Trim      string          `json:"trim"`
	Exterior  []string        `json:"exterior"`
	Interior  []string        `json:"interior"`
	MSRP      decimal.Decimal `json:"msrp"`
	UsedPrice decimal.Decimal `json:"used_price"`
	SourceRef string          `json:"source_ref"`
}

// Price returns the reference price for the condition, or nil.
func (l Listing) Price(used bool) *model.PriceEstimate {
	p := l.MSRP
	if used {
		p = l.UsedPrice
	}
	if !p.IsPositive() {
		return nil
	}
	return &model.PriceEstimate{Price: p, SourceRef: l.SourceRef}
}

// matches reports whether l fits the query fields; blank fields match all.
func (l Listing) matches(brand, model, year, trim string) bool {
	return eq(l.Brand, brand) &&
		(model == "" || eq(l.Model, model)) &&
		(year == "" || eq(l.Year, year)) &&
		(trim == "" || eq(l.Trim, trim))
}

func eq(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// appendUnique appends items not already present, keeping order.
func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		found := false
		for _, have := range dst {
			if have == it {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, it)
		}
	}
	return dst
}
