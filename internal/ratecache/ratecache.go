// Package ratecache keeps the exchange rate of one quote session.
//
// The cache always has a usable rate: a fetch that fails, times out or
// returns something implausible leaves the last good rate for the pair in
// place (or the configured default) and marks it stale. A fetch started for
// one pair never lands after the operator has switched to another.
package ratecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemonexport/quote-engine/internal/metrics"
	"github.com/lemonexport/quote-engine/internal/model"
	"github.com/lemonexport/quote-engine/internal/textparse"
)

var (
	ErrInvalidRate = errors.New("ratecache: rate must be positive, finite and within band")
	ErrPairChanged = errors.New("ratecache: currency pair changed during fetch")
	ErrUnknownPair = errors.New("ratecache: no rate known for pair")
)

// Provider fetches a live spot rate: 1 unit of source = rate units of target.
type Provider interface {
	SpotRate(ctx context.Context, source, target string) (decimal.Decimal, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, source, target string) (decimal.Decimal, error)

// SpotRate implements Provider.
func (f ProviderFunc) SpotRate(ctx context.Context, source, target string) (decimal.Decimal, error) {
	return f(ctx, source, target)
}

// Pair is an ordered currency pair.
type Pair struct {
	Source string
	Target string
}

// NewPair upper-cases and trims both codes.
func NewPair(source, target string) Pair {
	return Pair{
		Source: strings.ToUpper(strings.TrimSpace(source)),
		Target: strings.ToUpper(strings.TrimSpace(target)),
	}
}

// ParsePair parses "CNY/USD".
func ParsePair(s string) (Pair, error) {
	src, dst, ok := strings.Cut(s, "/")
	if !ok || strings.TrimSpace(src) == "" || strings.TrimSpace(dst) == "" {
		return Pair{}, fmt.Errorf("ratecache: invalid pair %q", s)
	}
	return NewPair(src, dst), nil
}

func (p Pair) String() string { return p.Source + "/" + p.Target }

// Same reports whether both sides are the same currency.
func (p Pair) Same() bool { return p.Source == p.Target }

// FromFloat converts a float rate, rejecting NaN, infinities and
// non-positive values.
func FromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidRate, f)
	}
	return decimal.NewFromFloat(f), nil
}

// Options configures a Cache.
type Options struct {
	// Defaults seed the last good rate per pair.
	Defaults map[Pair]decimal.Decimal
	// Fallback is used for pairs with neither a default nor a good fetch.
	Fallback decimal.Decimal
	// Band bounds plausible rates.
	Band textparse.Band
	// Timeout bounds one fetch. Zero means no extra bound.
	Timeout time.Duration
	Logger  *slog.Logger
}

type goodRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	provider Provider
	opts     Options
	logger   *slog.Logger

	mu       sync.Mutex
	pair     Pair
	current  model.ExchangeRate
	lastGood map[Pair]goodRate
	inflight int
}

// New creates a cache for the initial pair. No fetch is made; the initial
// rate comes from the defaults and is marked stale until a fetch succeeds.
func New(p Provider, pair Pair, opts Options) *Cache {
	if !opts.Fallback.IsPositive() {
		opts.Fallback = decimal.NewFromInt(1)
	}
	if opts.Band == (textparse.Band{}) {
		opts.Band = textparse.DefaultRateBand()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		provider: p,
		opts:     opts,
		logger:   logger,
		lastGood: make(map[Pair]goodRate),
	}
	c.switchTo(pair)
	return c
}

// Rate returns the current rate. It never blocks on a fetch.
func (c *Cache) Rate() model.ExchangeRate {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Pair returns the current pair.
func (c *Cache) Pair() Pair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pair
}

// SetPair switches to a new pair and fetches its rate. Until the fetch
// lands the last good rate for that pair is shown.
func (c *Cache) SetPair(ctx context.Context, pair Pair) (model.ExchangeRate, error) {
	c.mu.Lock()
	c.switchTo(pair)
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Swap exchanges source and target and fetches the rate for the swapped
// pair. The old rate is never inverted.
func (c *Cache) Swap(ctx context.Context) (model.ExchangeRate, error) {
	c.mu.Lock()
	c.switchTo(Pair{Source: c.pair.Target, Target: c.pair.Source})
	c.mu.Unlock()
	return c.Refresh(ctx)
}

// Refresh fetches the rate for the current pair. On any failure the
// previous good rate stays and is marked stale; the returned error says why.
// ErrPairChanged means the pair moved on while the fetch was in flight and
// the result was dropped.
func (c *Cache) Refresh(ctx context.Context) (model.ExchangeRate, error) {
	c.mu.Lock()
	pair := c.pair
	if pair.Same() {
		c.commit(pair, decimal.NewFromInt(1))
		cur := c.current
		c.mu.Unlock()
		metrics.RateRefreshTotal.WithLabelValues("same_currency").Inc()
		return cur, nil
	}
	c.inflight++
	c.current.Loading = true
	c.mu.Unlock()

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	v, err := c.provider.SpotRate(ctx, pair.Source, pair.Target)
	if err == nil && !c.valid(v) {
		err = fmt.Errorf("%w: %s", ErrInvalidRate, v)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	c.current.Loading = c.inflight > 0

	if c.pair != pair {
		metrics.RateRefreshTotal.WithLabelValues("stale").Inc()
		c.logger.Debug("rate fetch discarded", "pair", pair.String(), "current", c.pair.String())
		return c.current, ErrPairChanged
	}
	if err != nil {
		outcome := "failed"
		if errors.Is(err, ErrInvalidRate) {
			outcome = "rejected"
		}
		metrics.RateRefreshTotal.WithLabelValues(outcome).Inc()
		c.logger.Warn("rate fetch failed, keeping last good rate",
			"pair", pair.String(),
			"rate", c.current.Rate.String(),
			"err", err,
		)
		c.current.Stale = true
		return c.current, err
	}

	metrics.RateRefreshTotal.WithLabelValues("ok").Inc()
	c.commit(pair, v)
	c.logger.Info("exchange rate updated", "pair", pair.String(), "rate", v.String())
	return c.current, nil
}

func (c *Cache) valid(v decimal.Decimal) bool {
	return v.IsPositive() && c.opts.Band.Contains(v)
}

// commit records a good rate. Caller holds mu.
func (c *Cache) commit(pair Pair, v decimal.Decimal) {
	now := time.Now().UTC()
	c.lastGood[pair] = goodRate{rate: v, fetchedAt: now}
	c.current = model.ExchangeRate{
		Source:    pair.Source,
		Target:    pair.Target,
		Rate:      v,
		Loading:   c.inflight > 0,
		FetchedAt: now,
	}
}

// switchTo installs the best known rate for pair. Caller holds mu (or is
// the constructor).
func (c *Cache) switchTo(pair Pair) {
	c.pair = pair
	cur := model.ExchangeRate{
		Source:  pair.Source,
		Target:  pair.Target,
		Stale:   true,
		Loading: c.inflight > 0,
	}
	switch good, ok := c.lastGood[pair]; {
	case pair.Same():
		cur.Rate = decimal.NewFromInt(1)
		cur.Stale = false
	case ok:
		cur.Rate = good.rate
		cur.FetchedAt = good.fetchedAt
	default:
		if def, ok := c.opts.Defaults[pair]; ok && c.valid(def) {
			cur.Rate = def
		} else {
			cur.Rate = c.opts.Fallback
		}
	}
	c.current = cur
}

// Static is a Provider that serves fixed rates, used when no live rate
// source is configured.
type Static map[Pair]decimal.Decimal

// SpotRate implements Provider.
func (s Static) SpotRate(_ context.Context, source, target string) (decimal.Decimal, error) {
	pair := NewPair(source, target)
	if v, ok := s[pair]; ok {
		return v, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownPair, pair)
}

// Defaults converts configured float rates keyed "SRC/DST" into a rate
// table, skipping malformed keys and invalid values.
func Defaults(rates map[string]float64) map[Pair]decimal.Decimal {
	out := make(map[Pair]decimal.Decimal, len(rates))
	for key, f := range rates {
		pair, err := ParsePair(key)
		if err != nil {
			continue
		}
		v, err := FromFloat(f)
		if err != nil {
			continue
		}
		out[pair] = v
	}
	return out
}
