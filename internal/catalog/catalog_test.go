package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

func demo() *MemoryCatalog {
	return NewMemoryCatalog(DemoListings()...)
}

func TestMemoryCatalog_ListModels(t *testing.T) {
	got, err := demo().ListModels(context.Background(), "byd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Seal", "Song PLUS DM-i"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("model %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestMemoryCatalog_UnknownBrandIsEmptyNotNil(t *testing.T) {
	got, err := demo().ListModels(context.Background(), "Trabant")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", got)
	}
}

func TestMemoryCatalog_ListTrimsFiltersByYear(t *testing.T) {
	c := demo()
	trims, err := c.ListTrims(context.Background(), "BYD", "Seal", "2025")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trims) != 2 {
		t.Errorf("expected 2 trims, got %v", trims)
	}

	trims, _ = c.ListTrims(context.Background(), "BYD", "Seal", "2019")
	if len(trims) != 0 {
		t.Errorf("expected no trims for 2019, got %v", trims)
	}
}

func TestMemoryCatalog_ListColors(t *testing.T) {
	opts, err := demo().ListColors(context.Background(), "BYD", "Seal", "2025", "650 Performance AWD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts.Exterior) != 3 || opts.Exterior[2] != "Shadow Green" {
		t.Errorf("unexpected exterior colors: %v", opts.Exterior)
	}
	if len(opts.Interior) != 2 {
		t.Errorf("unexpected interior colors: %v", opts.Interior)
	}
}

func TestMemoryCatalog_EstimatePrice(t *testing.T) {
	c := demo()
	ctx := context.Background()

	tests := []struct {
		name string
		q    PriceQuery
		want int64 // 0 = nil estimate
	}{
		{"msrp exact trim", PriceQuery{Brand: "BYD", Model: "Seal", Year: "2025", Trim: "650 Performance AWD"}, 229800},
		{"msrp first trim when blank", PriceQuery{Brand: "BYD", Model: "Seal", Year: "2025"}, 179800},
		{"used price", PriceQuery{Brand: "BYD", Model: "Seal", Year: "2025", Trim: "650 Standard", Used: true}, 142000},
		{"no used figure", PriceQuery{Brand: "Changan", Model: "UNI-K", Used: true}, 0},
		{"unknown model", PriceQuery{Brand: "BYD", Model: "Tang"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.EstimatePrice(ctx, tt.q)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want == 0 {
				if got != nil {
					t.Errorf("expected nil estimate, got %+v", got)
				}
				return
			}
			if got == nil || !got.Price.Equal(decimal.NewFromInt(tt.want)) {
				t.Fatalf("expected %d, got %+v", tt.want, got)
			}
			if got.SourceRef == "" {
				t.Error("expected a source reference")
			}
		})
	}
}

func TestMemoryCatalog_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := demo().ListModels(ctx, "BYD"); err == nil {
		t.Error("expected context error")
	}
}

func TestMemoryCatalog_AddCopiesSlices(t *testing.T) {
	ext := []string{"Red"}
	c := NewMemoryCatalog(Listing{Brand: "X", Model: "Y", Year: "2025", Trim: "Z", Exterior: ext, MSRP: decimal.NewFromInt(100000)})
	ext[0] = "Blue"

	opts, _ := c.ListColors(context.Background(), "X", "Y", "2025", "Z")
	if opts.Exterior[0] != "Red" {
		t.Errorf("listing must not alias caller slice, got %v", opts.Exterior)
	}
}

func TestCacheKeys_NormaliseCase(t *testing.T) {
	if modelsKey(" BYD ") != modelsKey("byd") {
		t.Error("models key should ignore case and padding")
	}
	a := priceKey(PriceQuery{Brand: "BYD", Model: "Seal", Year: "2025"})
	b := priceKey(PriceQuery{Brand: "BYD", Model: "Seal", Year: "2025", Used: true})
	if a == b {
		t.Error("new and used price lookups must not share a cache key")
	}
	if got := colorsKey("BYD", "Seal", "2025", "650 Standard"); got != "catalog:colors:byd|seal|2025|650 standard" {
		t.Errorf("unexpected colors key %q", got)
	}
}
