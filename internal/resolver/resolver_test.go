package resolver

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemonexport/quote-engine/internal/catalog"
	"github.com/lemonexport/quote-engine/internal/model"
)

// fakeProvider answers from fixed tables. A lookup whose key has a gate
// blocks until the gate is closed or ctx ends.
type fakeProvider struct {
	mu     sync.Mutex
	models map[string][]string
	trims  map[string][]string
	colors map[string]model.ColorOptions
	prices map[string]*model.PriceEstimate
	errs   map[string]error
	gates  map[string]chan struct{}
	calls  []string
}

func newFake() *fakeProvider {
	return &fakeProvider{
		models: map[string][]string{
			"BYD":   {"Seal", "Han"},
			"Geely": {"Monjaro"},
		},
		trims: map[string][]string{
			"BYD|Seal|2025":      {"650 Standard", "650 Performance AWD"},
			"BYD|Seal|2024":      {"550 Standard"},
			"Geely|Monjaro|2025": {"2.0TD Flagship"},
		},
		colors: map[string]model.ColorOptions{
			"BYD|Seal|2025|650 Standard":        {Exterior: []string{"Aurora White"}, Interior: []string{"Black"}},
			"BYD|Seal|2025|650 Performance AWD": {Exterior: []string{"Shadow Green"}, Interior: []string{}},
		},
		prices: map[string]*model.PriceEstimate{
			"BYD|Seal|2025||new":                    est(179800),
			"BYD|Seal|2025|650 Standard|new":        est(179800),
			"BYD|Seal|2025|650 Performance AWD|new": est(229800),
			"BYD|Seal|2024||new":                    est(169800),
			"BYD|Seal|2025||used":                   est(142000),
			"BYD|Han|2025||new":                     nil,
		},
		errs:  map[string]error{},
		gates: map[string]chan struct{}{},
	}
}

func est(v int64) *model.PriceEstimate {
	return &model.PriceEstimate{Price: decimal.NewFromInt(v), SourceRef: "https://www.dongchedi.com"}
}

func (f *fakeProvider) gate(key string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[key] = ch
	return ch
}

func (f *fakeProvider) enter(ctx context.Context, key string) error {
	f.mu.Lock()
	f.calls = append(f.calls, key)
	gate := f.gates[key]
	err := f.errs[key]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeProvider) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeProvider) ListModels(ctx context.Context, brand string) ([]string, error) {
	if err := f.enter(ctx, "models:"+brand); err != nil {
		return nil, err
	}
	return f.models[brand], nil
}

func (f *fakeProvider) ListTrims(ctx context.Context, brand, modelName, year string) ([]string, error) {
	key := brand + "|" + modelName + "|" + year
	if err := f.enter(ctx, "trims:"+key); err != nil {
		return nil, err
	}
	return f.trims[key], nil
}

func (f *fakeProvider) ListColors(ctx context.Context, brand, modelName, year, trim string) (model.ColorOptions, error) {
	key := brand + "|" + modelName + "|" + year + "|" + trim
	if err := f.enter(ctx, "colors:"+key); err != nil {
		return model.ColorOptions{}, err
	}
	return f.colors[key], nil
}

func (f *fakeProvider) EstimatePrice(ctx context.Context, q catalog.PriceQuery) (*model.PriceEstimate, error) {
	cond := "new"
	if q.Used {
		cond = "used"
	}
	key := strings.Join([]string{q.Brand, q.Model, q.Year, q.Trim, cond}, "|")
	if err := f.enter(ctx, "price:"+key); err != nil {
		return nil, err
	}
	return f.prices[key], nil
}

// sink records market price updates.
type sink struct {
	mu      sync.Mutex
	current *decimal.Decimal
}

func (s *sink) SetMarketPrice(p *decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.current = nil
		return
	}
	v := *p
	s.current = &v
}

func (s *sink) price() *decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
}

func newResolver(t *testing.T, p catalog.Provider, s PriceSink, cond model.Condition) *Resolver {
	t.Helper()
	r := New(p, s, cond, Options{LookupTimeout: time.Second, Now: fixedNow})
	t.Cleanup(func() {
		r.Close()
		r.Wait()
	})
	return r
}

func waitFor(t *testing.T, r *Resolver, cond func(Snapshot) bool) Snapshot {
	t.Helper()
	var snap Snapshot
	require.Eventually(t, func() bool {
		snap = r.Snapshot()
		return cond(snap)
	}, 2*time.Second, 5*time.Millisecond)
	return snap
}

func TestNew_Defaults(t *testing.T) {
	r := newResolver(t, newFake(), nil, model.ConditionNew)
	snap := r.Snapshot()

	assert.Equal(t, "2025", snap.Selection.Year)
	assert.Equal(t, 1, snap.Selection.Quantity)
	assert.Equal(t, model.StatusIdle, snap.Models.Status)
	assert.Equal(t, model.StatusIdle, snap.MarketPrice.Status)
}

func TestResolver_FullChain(t *testing.T) {
	p := newFake()
	s := &sink{}
	r := newResolver(t, p, s, model.ConditionNew)

	require.NoError(t, r.SetBrand("BYD"))
	r.Wait()
	snap := r.Snapshot()
	require.Equal(t, model.StatusReady, snap.Models.Status)
	assert.Equal(t, []string{"Seal", "Han", model.ManualEntryOption}, snap.Models.Value)
	assert.Equal(t, model.StatusIdle, snap.MarketPrice.Status, "price needs a model")

	require.NoError(t, r.SetModel("Seal"))
	r.Wait()
	snap = r.Snapshot()
	assert.Equal(t, []string{"650 Standard", "650 Performance AWD", model.ManualEntryOption}, snap.Trims.Value)
	require.Equal(t, model.StatusReady, snap.MarketPrice.Status)
	assert.True(t, snap.MarketPrice.Value.Price.Equal(decimal.NewFromInt(179800)))
	assert.True(t, s.price().Equal(decimal.NewFromInt(179800)))

	require.NoError(t, r.SetTrim("650 Performance AWD"))
	r.Wait()
	snap = r.Snapshot()
	require.Equal(t, model.StatusReady, snap.Colors.Status)
	assert.Equal(t, []string{"Shadow Green", model.ManualEntryOption}, snap.Colors.Value.Exterior)
	assert.Empty(t, snap.Colors.Value.Interior, "no manual option on an empty list")
	assert.True(t, s.price().Equal(decimal.NewFromInt(229800)))

	require.NoError(t, r.SetExteriorColor("Shadow Green"))
	assert.Equal(t, "Shadow Green", r.Selection().ExteriorColor)
}

func TestResolver_BrandChangeInvalidatesEverythingBelow(t *testing.T) {
	p := newFake()
	s := &sink{}
	r := newResolver(t, p, s, model.ConditionNew)

	require.NoError(t, r.SetBrand("BYD"))
	require.NoError(t, r.SetModel("Seal"))
	require.NoError(t, r.SetTrim("650 Standard"))
	require.NoError(t, r.SetExteriorColor("Aurora White"))
	r.Wait()
	require.NotNil(t, s.price())

	require.NoError(t, r.SetBrand("Geely"))
	snap := r.Snapshot()

	assert.Equal(t, "Geely", snap.Selection.Brand)
	assert.Empty(t, snap.Selection.Model)
	assert.Empty(t, snap.Selection.Trim)
	assert.Empty(t, snap.Selection.ExteriorColor)
	assert.Equal(t, model.StatusIdle, snap.Trims.Status)
	assert.Equal(t, model.StatusIdle, snap.Colors.Status)
	assert.Equal(t, model.StatusIdle, snap.MarketPrice.Status)
	assert.Nil(t, snap.MarketPrice.Value)
	assert.Nil(t, s.price(), "derived fees must be cleared with the price")

	r.Wait()
	assert.Equal(t, []string{"Monjaro", model.ManualEntryOption}, r.Snapshot().Models.Value)
}

func TestResolver_YearChangeClearsTrimAndRelooks(t *testing.T) {
	p := newFake()
	r := newResolver(t, p, &sink{}, model.ConditionNew)

	require.NoError(t, r.SetBrand("BYD"))
	require.NoError(t, r.SetModel("Seal"))
	require.NoError(t, r.SetTrim("650 Standard"))
	r.Wait()

	require.NoError(t, r.SetYear("2024"))
	r.Wait()
	snap := r.Snapshot()

	assert.Empty(t, snap.Selection.Trim)
	assert.Equal(t, model.StatusIdle, snap.Colors.Status)
	assert.Equal(t, []string{"550 Standard", model.ManualEntryOption}, snap.Trims.Value)
	assert.True(t, snap.MarketPrice.Value.Price.Equal(decimal.NewFromInt(169800)))
}

func TestResolver_StaleModelsNeverCommit(t *testing.T) {
	p := newFake()
	release := p.gate("models:BYD")
	r := newResolver(t, p, nil, model.ConditionNew)

	require.NoError(t, r.SetBrand("BYD"))
	assert.Equal(t, model.StatusLoading, r.Snapshot().Models.Status)

	require.NoError(t, r.SetBrand("Geely"))
	waitFor(t, r, func(s Snapshot) bool { return s.Models.Status == model.StatusReady })

	close(release)
	r.Wait()

	snap := r.Snapshot()
	assert.Equal(t, "Geely", snap.Selection.Brand)
	assert.Equal(t, []string{"Monjaro", model.ManualEntryOption}, snap.Models.Value)
}

func TestResolver_StalePriceNeverReachesFees(t *testing.T) {
	p := newFake()
	release := p.gate("price:BYD|Seal|2025|650 Standard|new")
	s := &sink{}
	r := newResolver(t, p, s, model.ConditionNew)

	require.NoError(t, r.SetBrand("BYD"))
	require.NoError(t, r.SetModel("Seal"))
	r.Wait()

	require.NoError(t, r.SetTrim("650 Standard"))
	require.NoError(t, r.SetTrim("650 Performance AWD"))
	waitFor(t, r, func(s Snapshot) bool { return s.MarketPrice.Status == model.StatusReady })

	close(release)
	r.Wait()

	assert.True(t, s.price().Equal(decimal.NewFromInt(229800)), "got %v", s.price())
	assert.True(t, r.Snapshot().MarketPrice.Value.Price.Equal(decimal.NewFromInt(229800)))
}

func TestResolver_ABAReissueCommitsOnlyLatest(t *testing.T) {
	p := newFake()
	first := p.gate("models:BYD")
	r := newResolver(t, p, nil, model.ConditionNew)

	require.NoError(t, r.SetBrand("BYD"))
	require.NoError(t, r.SetBrand("Geely"))
	p.mu.Lock()
	delete(p.gates, "models:BYD")
	p.mu.Unlock()
	require.NoError(t, r.SetBrand("BYD"))

	waitFor(t, r, func(s Snapshot) bool { return s.Models.Status == model.StatusReady })
	v1 := r.Snapshot().Version

	close(first)
	r.Wait()
	assert.Equal(t, v1, r.Snapshot().Version, "the first BYD request must be discarded")
}

func TestResolver_ProviderErrorFails(t *testing.T) {
	p := newFake()
	p.errs["models:BYD"] = errors.New("gateway 502")
	r := newResolver(t, p, nil, model.ConditionNew)

	require.NoError(t, r.SetBrand("BYD"))
	r.Wait()
	snap := r.Snapshot()

	assert.Equal(t, model.StatusFailed, snap.Models.Status)
	assert.Empty(t, snap.Models.Value)
	assert.Contains(t, snap.Models.Error, "gateway 502")

	// Manual entry still works.
	require.NoError(t, r.SetModel("Seal"))
	assert.Equal(t, "Seal", r.Selection().Model)
}

func TestResolver_TimeoutFails(t *testing.T) {
	p := newFake()
	gate := p.gate("models:BYD")
	defer close(gate)
	r := New(p, nil, model.ConditionNew, Options{LookupTimeout: 20 * time.Millisecond, Now: fixedNow})
	defer r.Close()

	require.NoError(t, r.SetBrand("BYD"))
	r.Wait()

	snap := r.Snapshot()
	assert.Equal(t, model.StatusFailed, snap.Models.Status)
	assert.Contains(t, snap.Models.Error, context.DeadlineExceeded.Error())
}

func TestResolver_TimeoutWithProviderIgnoringContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	p := &stubborn{release: release}
	r := New(p, nil, model.ConditionNew, Options{LookupTimeout: 20 * time.Millisecond, Now: fixedNow})
	defer r.Close()

	require.NoError(t, r.SetBrand("BYD"))
	r.Wait()
	assert.Equal(t, model.StatusFailed, r.Snapshot().Models.Status)
}

// stubborn ignores ctx entirely.
type stubborn struct {
	catalog.MemoryCatalog
	release chan struct{}
}

func (s *stubborn) ListModels(context.Context, string) ([]string, error) {
	<-s.release
	return []string{"late"}, nil
}

func TestResolver_NullPriceIsFailure(t *testing.T) {
	p := newFake()
	s := &sink{}
	r := newResolver(t, p, s, model.ConditionNew)

	require.NoError(t, r.SetBrand("BYD"))
	require.NoError(t, r.SetModel("Han"))
	r.Wait()

	snap := r.Snapshot()
	assert.Equal(t, model.StatusFailed, snap.MarketPrice.Status)
	assert.Equal(t, ErrNoMarketPrice.Error(), snap.MarketPrice.Error)
	assert.Nil(t, s.price())
}

func TestResolver_UsedConditionQueriesUsedPrice(t *testing.T) {
	p := newFake()
	s := &sink{}
	r := newResolver(t, p, s, model.ConditionUsed)

	require.NoError(t, r.SetBrand("BYD"))
	require.NoError(t, r.SetModel("Seal"))
	r.Wait()

	assert.True(t, s.price().Equal(decimal.NewFromInt(142000)))
}

func TestResolver_QuantityAndVINNeverTriggerLookups(t *testing.T) {
	p := newFake()
	r := newResolver(t, p, &sink{}, model.ConditionNew)

	require.NoError(t, r.SetBrand("BYD"))
	require.NoError(t, r.SetModel("Seal"))
	r.Wait()
	before := p.callCount("")

	require.NoError(t, r.Set(model.AttrQuantity, "3"))
	require.NoError(t, r.Set(model.AttrVIN, "LSGKB54U7KA000123"))
	r.Wait()

	assert.Equal(t, before, p.callCount(""))
	assert.Equal(t, 3, r.Selection().Quantity)
}

func TestResolver_SameValueIsNoOp(t *testing.T) {
	p := newFake()
	r := newResolver(t, p, &sink{}, model.ConditionNew)

	require.NoError(t, r.SetBrand("BYD"))
	r.Wait()
	v := r.Snapshot().Version

	require.NoError(t, r.SetBrand(" BYD "))
	r.Wait()
	assert.Equal(t, v, r.Snapshot().Version)
	assert.Equal(t, 1, p.callCount("models:"))
}

func TestResolver_RefreshPriceReissuesSameTuple(t *testing.T) {
	p := newFake()
	s := &sink{}
	r := newResolver(t, p, s, model.ConditionNew)

	require.NoError(t, r.SetBrand("BYD"))
	require.NoError(t, r.SetModel("Seal"))
	r.Wait()
	require.Equal(t, 1, p.callCount("price:"))

	release := p.gate("price:BYD|Seal|2025||new")
	require.NoError(t, r.RefreshPrice())
	snap := r.Snapshot()
	assert.Equal(t, model.StatusLoading, snap.MarketPrice.Status)
	assert.NotNil(t, snap.MarketPrice.Value, "a refresh keeps the previous price visible")
	assert.NotNil(t, s.price(), "a refresh does not clear the fee sheet")
	close(release)
	r.Wait()

	assert.Equal(t, 2, p.callCount("price:BYD|Seal|2025||new"))
	assert.Equal(t, model.StatusReady, r.Snapshot().MarketPrice.Status)
	assert.True(t, s.price().Equal(decimal.NewFromInt(179800)))
}

func TestResolver_RefreshPriceNeedsBrandAndModel(t *testing.T) {
	r := newResolver(t, newFake(), nil, model.ConditionNew)
	assert.ErrorIs(t, r.RefreshPrice(), ErrMissingUpstream)
}

func TestResolver_UpstreamRequired(t *testing.T) {
	r := newResolver(t, newFake(), nil, model.ConditionNew)

	assert.ErrorIs(t, r.SetModel("Seal"), ErrMissingUpstream)
	assert.ErrorIs(t, r.SetTrim("650 Standard"), ErrMissingUpstream)
	assert.ErrorIs(t, r.SetExteriorColor("White"), ErrMissingUpstream)
	assert.NoError(t, r.SetModel(""), "clearing is always allowed")
}

func TestResolver_SetDispatch(t *testing.T) {
	r := newResolver(t, newFake(), nil, model.ConditionNew)

	require.NoError(t, r.Set(model.AttrBrand, "BYD"))
	require.NoError(t, r.Set(model.AttrQuantity, "garbage"))
	assert.Equal(t, 1, r.Selection().Quantity)
	assert.ErrorIs(t, r.Set(model.Attribute("mileage"), "1"), ErrUnknownAttribute)
}

func TestResolver_OnChangeVersionsIncrease(t *testing.T) {
	var mu sync.Mutex
	var versions []uint64
	r := New(newFake(), nil, model.ConditionNew, Options{
		Now: fixedNow,
		OnChange: func(s Snapshot) {
			mu.Lock()
			versions = append(versions, s.Version)
			mu.Unlock()
		},
	})
	defer r.Close()

	require.NoError(t, r.SetBrand("BYD"))
	r.Wait()
	require.NoError(t, r.SetModel("Seal"))
	r.Wait()

	mu.Lock()
	defer mu.Unlock()
	// brand edit, models commit, model edit, trims commit, price commit
	require.Len(t, versions, 5)
	seen := map[uint64]bool{}
	for _, v := range versions {
		assert.False(t, seen[v], "duplicate version %d", v)
		seen[v] = true
	}
}

func TestResolver_Closed(t *testing.T) {
	p := newFake()
	gate := p.gate("models:BYD")
	defer close(gate)
	r := New(p, nil, model.ConditionNew, Options{Now: fixedNow})

	require.NoError(t, r.SetBrand("BYD"))
	r.Close()
	r.Wait()

	assert.ErrorIs(t, r.SetBrand("Geely"), ErrClosed)
	assert.Equal(t, model.StatusLoading, r.Snapshot().Models.Status, "nothing commits after close")
}
