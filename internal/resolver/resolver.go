// Package resolver keeps the cascading vehicle attribute selection of one
// quote session consistent.
//
// Four dependent lookups hang off the selection:
//
//	models  ← brand
//	trims   ← brand, model, year
//	colors  ← brand, model, year, trim
//	price   ← brand, model, year, trim, condition
//
// Changing a field resets every lookup below it and starts the ones whose
// inputs are complete. Lookups run concurrently; each captures its input
// tuple and commits only if that exact request is still the current one for
// its field. Anything else is discarded without touching state.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemonexport/quote-engine/internal/catalog"
	"github.com/lemonexport/quote-engine/internal/metrics"
	"github.com/lemonexport/quote-engine/internal/model"
	"github.com/lemonexport/quote-engine/internal/textparse"
)

var (
	ErrNoMarketPrice    = errors.New("resolver: no market price available")
	ErrMissingUpstream  = errors.New("resolver: upstream attribute not set")
	ErrUnknownAttribute = errors.New("resolver: unknown attribute")
	ErrClosed           = errors.New("resolver: closed")
)

// DefaultLookupTimeout bounds one provider call when Options leaves it unset.
const DefaultLookupTimeout = 20 * time.Second

// PriceSink receives the committed market price; nil clears it.
type PriceSink interface {
	SetMarketPrice(p *decimal.Decimal)
}

// Options configures a Resolver.
type Options struct {
	LookupTimeout time.Duration
	Logger        *slog.Logger
	// OnChange is called with a fresh snapshot after every state change,
	// outside the resolver lock. Snapshots carry a Version so a consumer
	// can drop ones that arrive out of order.
	OnChange func(Snapshot)
	// Now supplies the clock for the default year.
	Now func() time.Time
}

// Snapshot is the observable state of a resolver.
type Snapshot struct {
	Version     uint64                                 `json:"version"`
	Selection   model.AttributeSelection               `json:"selection"`
	Models      model.Resolution[[]string]             `json:"models"`
	Trims       model.Resolution[[]string]             `json:"trims"`
	Colors      model.Resolution[model.ColorOptions]   `json:"colors"`
	MarketPrice model.Resolution[*model.PriceEstimate] `json:"market_price"`
}

type trimKey struct {
	brand, model, year string
}

type colorKey struct {
	brand, model, year, trim string
}

// field is the state of one dependent lookup. gen identifies the current
// request; key is the input tuple it was issued for.
type field[K comparable, V any] struct {
	name    string
	status  model.Status
	gen     uint64
	key     K
	value   V
	err     error
	started time.Time
}

func (f *field[K, V]) reset() {
	var zk K
	var zv V
	f.gen++
	f.status = model.StatusIdle
	f.key = zk
	f.value = zv
	f.err = nil
}

// begin marks a new request. A re-issue for the same key keeps the previous
// value visible while loading.
func (f *field[K, V]) begin(key K) uint64 {
	if key != f.key {
		var zv V
		f.value = zv
	}
	f.gen++
	f.status = model.StatusLoading
	f.key = key
	f.err = nil
	f.started = time.Now()
	return f.gen
}

func (f *field[K, V]) resolution() model.Resolution[V] {
	res := model.Resolution[V]{Status: f.status, Value: f.value}
	if f.err != nil {
		res.Error = f.err.Error()
	}
	return res
}

// Resolver is safe for concurrent use.
type Resolver struct {
	provider catalog.Provider
	sink     PriceSink
	used     bool
	timeout  time.Duration
	logger   *slog.Logger
	onChange func(Snapshot)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	version uint64
	sel     model.AttributeSelection
	models  field[string, []string]
	trims   field[trimKey, []string]
	colors  field[colorKey, model.ColorOptions]
	price   field[catalog.PriceQuery, *model.PriceEstimate]
}

// New creates a resolver with an empty selection, the current calendar year
// and quantity 1. sink may be nil.
func New(p catalog.Provider, sink PriceSink, cond model.Condition, opts Options) *Resolver {
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = DefaultLookupTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &Resolver{
		provider: p,
		sink:     sink,
		used:     cond.Used(),
		timeout:  opts.LookupTimeout,
		logger:   opts.Logger,
		onChange: opts.OnChange,
		ctx:      ctx,
		cancel:   cancel,
		sel: model.AttributeSelection{
			Year:     strconv.Itoa(opts.Now().Year()),
			Quantity: 1,
		},
	}
	r.models.name, r.models.status = "models", model.StatusIdle
	r.trims.name, r.trims.status = "trims", model.StatusIdle
	r.colors.name, r.colors.status = "colors", model.StatusIdle
	r.price.name, r.price.status = "market_price", model.StatusIdle
	return r
}

// SetBrand selects a brand. Model, trim, colors and the market price are
// cleared and the model list is looked up.
func (r *Resolver) SetBrand(brand string) error {
	brand = strings.TrimSpace(brand)
	return r.mutate(func() error {
		if brand == r.sel.Brand {
			return errNoChange
		}
		r.sel.Brand = brand
		r.sel.Model = ""
		r.clearTrim()
		r.models.reset()
		r.trims.reset()
		r.clearPrice()
		if brand != "" {
			r.startModels()
		}
		return nil
	})
}

// SetModel selects a model. Trim, colors and the market price are cleared;
// trims and price are looked up when their inputs are complete.
func (r *Resolver) SetModel(name string) error {
	name = strings.TrimSpace(name)
	return r.mutate(func() error {
		if name == r.sel.Model {
			return errNoChange
		}
		if name != "" && r.sel.Brand == "" {
			return fmt.Errorf("%w: model requires a brand", ErrMissingUpstream)
		}
		r.sel.Model = name
		r.clearTrim()
		r.restartTrims()
		r.restartPrice()
		return nil
	})
}

// SetYear selects a model year, with the same invalidation as SetModel.
func (r *Resolver) SetYear(year string) error {
	year = strings.TrimSpace(year)
	return r.mutate(func() error {
		if year == r.sel.Year {
			return errNoChange
		}
		r.sel.Year = year
		r.clearTrim()
		r.restartTrims()
		r.restartPrice()
		return nil
	})
}

// SetTrim selects a trim. Colors are cleared and looked up; the market
// price is looked up again for the new trim.
func (r *Resolver) SetTrim(trim string) error {
	trim = strings.TrimSpace(trim)
	return r.mutate(func() error {
		if trim == r.sel.Trim {
			return errNoChange
		}
		if trim != "" && r.sel.Model == "" {
			return fmt.Errorf("%w: trim requires a model", ErrMissingUpstream)
		}
		r.sel.Trim = trim
		r.sel.ExteriorColor = ""
		r.sel.InteriorColor = ""
		r.colors.reset()
		if r.sel.Brand != "" && r.sel.Model != "" && r.sel.Year != "" && trim != "" {
			r.startColors()
		}
		r.restartPrice()
		return nil
	})
}

// SetExteriorColor sets the exterior color. No lookups depend on it.
func (r *Resolver) SetExteriorColor(c string) error {
	return r.setColor(&r.sel.ExteriorColor, c)
}

// SetInteriorColor sets the interior color. No lookups depend on it.
func (r *Resolver) SetInteriorColor(c string) error {
	return r.setColor(&r.sel.InteriorColor, c)
}

func (r *Resolver) setColor(dst *string, c string) error {
	c = strings.TrimSpace(c)
	return r.mutate(func() error {
		if c == *dst {
			return errNoChange
		}
		if c != "" && r.sel.Trim == "" {
			return fmt.Errorf("%w: color requires a trim", ErrMissingUpstream)
		}
		*dst = c
		return nil
	})
}

// SetVIN records the vehicle identification number as typed.
func (r *Resolver) SetVIN(vin string) error {
	vin = strings.TrimSpace(vin)
	return r.mutate(func() error {
		if vin == r.sel.VIN {
			return errNoChange
		}
		r.sel.VIN = vin
		return nil
	})
}

// SetQuantity sets the unit count; values below 1 become 1. Quantity never
// triggers a lookup.
func (r *Resolver) SetQuantity(n int) error {
	if n < 1 {
		n = 1
	}
	return r.mutate(func() error {
		if n == r.sel.Quantity {
			return errNoChange
		}
		r.sel.Quantity = n
		return nil
	})
}

// Set dispatches an attribute edit by name. Quantity text is parsed
// leniently: anything that is not an integer of at least 1 means 1.
func (r *Resolver) Set(attr model.Attribute, value string) error {
	switch attr {
	case model.AttrBrand:
		return r.SetBrand(value)
	case model.AttrModel:
		return r.SetModel(value)
	case model.AttrYear:
		return r.SetYear(value)
	case model.AttrTrim:
		return r.SetTrim(value)
	case model.AttrExteriorColor:
		return r.SetExteriorColor(value)
	case model.AttrInteriorColor:
		return r.SetInteriorColor(value)
	case model.AttrVIN:
		return r.SetVIN(value)
	case model.AttrQuantity:
		return r.SetQuantity(textparse.ParseQuantity(value))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAttribute, attr)
	}
}

// RefreshPrice re-issues the market price lookup for the current tuple
// without clearing anything. It fails with ErrMissingUpstream until brand
// and model are set.
func (r *Resolver) RefreshPrice() error {
	return r.mutate(func() error {
		if r.sel.Brand == "" || r.sel.Model == "" {
			return fmt.Errorf("%w: price requires brand and model", ErrMissingUpstream)
		}
		r.startPrice()
		return nil
	})
}

// Selection returns the current selection.
func (r *Resolver) Selection() model.AttributeSelection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sel
}

// Snapshot returns the current observable state.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Wait blocks until every lookup started so far has finished.
func (r *Resolver) Wait() {
	r.wg.Wait()
}

// Close cancels in-flight lookups. Later edits fail with ErrClosed.
func (r *Resolver) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()
}

var errNoChange = errors.New("no change")

// mutate runs fn under the lock and publishes a snapshot if it changed
// anything.
func (r *Resolver) mutate(fn func() error) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if err := fn(); err != nil {
		r.mu.Unlock()
		if errors.Is(err, errNoChange) {
			return nil
		}
		return err
	}
	snap := r.bump()
	r.mu.Unlock()
	r.publish(snap)
	return nil
}

// bump advances the version and returns a snapshot. Caller holds mu.
func (r *Resolver) bump() Snapshot {
	r.version++
	return r.snapshot()
}

func (r *Resolver) publish(s Snapshot) {
	if r.onChange != nil {
		r.onChange(s)
	}
}

func (r *Resolver) snapshot() Snapshot {
	s := Snapshot{
		Version:     r.version,
		Selection:   r.sel,
		Models:      r.models.resolution(),
		Trims:       r.trims.resolution(),
		Colors:      r.colors.resolution(),
		MarketPrice: r.price.resolution(),
	}
	if s.Models.Status == model.StatusReady {
		s.Models.Value = withManualEntry(s.Models.Value)
	}
	if s.Trims.Status == model.StatusReady {
		s.Trims.Value = withManualEntry(s.Trims.Value)
	}
	if s.Colors.Status == model.StatusReady {
		s.Colors.Value = model.ColorOptions{
			Exterior: withManualEntry(s.Colors.Value.Exterior),
			Interior: withManualEntry(s.Colors.Value.Interior),
		}
	}
	if s.MarketPrice.Value != nil {
		p := *s.MarketPrice.Value
		s.MarketPrice.Value = &p
	}
	return s
}

// withManualEntry returns a copy of items with the manual entry option
// appended when there is at least one real item.
func withManualEntry(items []string) []string {
	out := make([]string, len(items), len(items)+1)
	copy(out, items)
	if len(items) > 0 {
		out = append(out, model.ManualEntryOption)
	}
	return out
}

// clearTrim clears trim and colors. Caller holds mu.
func (r *Resolver) clearTrim() {
	r.sel.Trim = ""
	r.sel.ExteriorColor = ""
	r.sel.InteriorColor = ""
	r.colors.reset()
}

// clearPrice drops the market price and everything derived from it.
func (r *Resolver) clearPrice() {
	r.price.reset()
	if r.sink != nil {
		r.sink.SetMarketPrice(nil)
	}
}

func (r *Resolver) restartTrims() {
	r.trims.reset()
	if r.sel.Brand != "" && r.sel.Model != "" && r.sel.Year != "" {
		r.startTrims()
	}
}

func (r *Resolver) restartPrice() {
	r.clearPrice()
	if r.sel.Brand != "" && r.sel.Model != "" {
		r.startPrice()
	}
}

func (r *Resolver) startModels() {
	brand := r.sel.Brand
	launch(r, &r.models, brand, func(ctx context.Context) ([]string, error) {
		return r.provider.ListModels(ctx, brand)
	}, nil)
}

func (r *Resolver) startTrims() {
	key := trimKey{r.sel.Brand, r.sel.Model, r.sel.Year}
	launch(r, &r.trims, key, func(ctx context.Context) ([]string, error) {
		return r.provider.ListTrims(ctx, key.brand, key.model, key.year)
	}, nil)
}

func (r *Resolver) startColors() {
	key := colorKey{r.sel.Brand, r.sel.Model, r.sel.Year, r.sel.Trim}
	launch(r, &r.colors, key, func(ctx context.Context) (model.ColorOptions, error) {
		return r.provider.ListColors(ctx, key.brand, key.model, key.year, key.trim)
	}, nil)
}

func (r *Resolver) startPrice() {
	q := catalog.PriceQuery{
		Brand: r.sel.Brand,
		Model: r.sel.Model,
		Year:  r.sel.Year,
		Trim:  r.sel.Trim,
		Used:  r.used,
	}
	launch(r, &r.price, q, func(ctx context.Context) (*model.PriceEstimate, error) {
		est, err := r.provider.EstimatePrice(ctx, q)
		if err != nil {
			return nil, err
		}
		if est == nil || !est.Price.IsPositive() {
			return nil, ErrNoMarketPrice
		}
		return est, nil
	}, func(est *model.PriceEstimate) {
		if r.sink != nil {
			p := est.Price
			r.sink.SetMarketPrice(&p)
		}
	})
}

type outcome[V any] struct {
	value V
	err   error
}

// launch starts the lookup for key on f. onReady runs under the lock when
// a successful result commits. Caller holds mu.
func launch[K comparable, V any](r *Resolver, f *field[K, V], key K, fetch func(context.Context) (V, error), onReady func(V)) {
	gen := f.begin(key)
	started := f.started
	name := f.name

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
		defer cancel()

		// A provider that ignores ctx must not hold the field in Loading
		// past the timeout.
		done := make(chan outcome[V], 1)
		go func() {
			v, err := fetch(ctx)
			done <- outcome[V]{v, err}
		}()
		var res outcome[V]
		select {
		case res = <-done:
		case <-ctx.Done():
			res.err = ctx.Err()
		}

		r.mu.Lock()
		if r.closed || f.gen != gen || f.key != key {
			r.mu.Unlock()
			metrics.ObserveLookup(name, metrics.OutcomeStale, started)
			r.logger.Debug("stale lookup discarded", "field", name, "key", fmt.Sprint(key))
			return
		}
		if res.err != nil {
			var zv V
			f.status = model.StatusFailed
			f.value = zv
			f.err = res.err
			metrics.ObserveLookup(name, metrics.OutcomeFailed, started)
			r.logger.Warn("lookup failed", "field", name, "key", fmt.Sprint(key), "err", res.err)
		} else {
			f.status = model.StatusReady
			f.value = res.value
			metrics.ObserveLookup(name, metrics.OutcomeReady, started)
			if onReady != nil {
				onReady(res.value)
			}
		}
		snap := r.bump()
		r.mu.Unlock()
		r.publish(snap)
	}()
}
