package quote

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lemonexport/quote-engine/internal/catalog"
	"github.com/lemonexport/quote-engine/internal/fees"
	"github.com/lemonexport/quote-engine/internal/metrics"
	"github.com/lemonexport/quote-engine/internal/model"
	"github.com/lemonexport/quote-engine/internal/pricing"
	"github.com/lemonexport/quote-engine/internal/ratecache"
	"github.com/lemonexport/quote-engine/internal/resolver"
)

var (
	ErrSessionNotFound  = errors.New("quote: session not found")
	ErrInvalidCondition = errors.New("quote: condition must be new or used")
	ErrNoResult         = errors.New("quote: no calculation yet")
)

// Session is one operator's working quote: attribute selection, fee sheet,
// exchange rate and the last calculation. It is ephemeral and never stored.
type Session struct {
	ID        string
	Condition model.Condition
	CreatedAt time.Time

	Resolver *resolver.Resolver
	Fees     *fees.Sheet
	Rates    *ratecache.Cache

	mu       sync.Mutex
	lastUsed time.Time
	last     *model.QuoteResult
}

// State is the JSON view of a session.
type State struct {
	ID         string             `json:"id"`
	Condition  model.Condition    `json:"condition"`
	Attributes resolver.Snapshot  `json:"attributes"`
	Fees       fees.State         `json:"fees"`
	Rate       model.ExchangeRate `json:"rate"`
	LastResult *model.QuoteResult `json:"last_result,omitempty"`
}

// State returns the current state of every part of the session.
func (s *Session) State() State {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	return State{
		ID:         s.ID,
		Condition:  s.Condition,
		Attributes: s.Resolver.Snapshot(),
		Fees:       s.Fees.State(),
		Rate:       s.Rates.Rate(),
		LastResult: last,
	}
}

// Calculate runs the pricing pipeline on the current inputs and keeps the
// result. Earlier results are not touched by later edits.
func (s *Session) Calculate() model.QuoteResult {
	res := pricing.ComputeQuote(pricing.Input{
		Fees:      s.Fees.Schedule(),
		Quantity:  s.Resolver.Selection().Quantity,
		Rate:      s.Rates.Rate(),
		Condition: s.Condition,
	})
	metrics.CalculationsTotal.WithLabelValues(string(s.Condition)).Inc()

	s.mu.Lock()
	s.last = &res
	s.mu.Unlock()
	return res
}

// LastResult returns the most recent calculation.
func (s *Session) LastResult() (model.QuoteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return model.QuoteResult{}, ErrNoResult
	}
	return *s.last, nil
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Options wires the collaborators every new session is built from.
type Options struct {
	Catalog       catalog.Provider
	RateProvider  ratecache.Provider
	RateOptions   ratecache.Options
	DefaultPair   ratecache.Pair
	Constants     pricing.Constants
	FeeDefaults   func(model.Condition) map[model.FeeField]string
	LookupTimeout time.Duration
	SessionTTL    time.Duration
	Logger        *slog.Logger
	// OnChange is called whenever a session's state may have changed.
	OnChange func(*Session)
	Now      func() time.Time
}

// Registry holds the open sessions in memory.
type Registry struct {
	opts     Options
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.FeeDefaults == nil {
		opts.FeeDefaults = func(model.Condition) map[model.FeeField]string { return nil }
	}
	if opts.Constants.PurchaseTaxDivisor.IsZero() {
		opts.Constants = pricing.DefaultConstants()
	}
	return &Registry{opts: opts, sessions: make(map[string]*Session)}
}

// Open creates a session. A zero pair means the configured default.
func (g *Registry) Open(cond model.Condition, pair ratecache.Pair) (*Session, error) {
	if !cond.Valid() {
		return nil, ErrInvalidCondition
	}
	if pair.Source == "" || pair.Target == "" {
		pair = g.opts.DefaultPair
	}

	now := g.opts.Now()
	s := &Session{
		ID:        uuid.New().String(),
		Condition: cond,
		CreatedAt: now.UTC(),
		lastUsed:  now,
	}
	s.Fees = fees.NewSheet(cond, g.opts.Constants, g.opts.FeeDefaults(cond))
	s.Rates = ratecache.New(g.opts.RateProvider, pair, g.opts.RateOptions)

	var onChange func(resolver.Snapshot)
	if g.opts.OnChange != nil {
		notify := g.opts.OnChange
		onChange = func(resolver.Snapshot) { notify(s) }
	}
	s.Resolver = resolver.New(g.opts.Catalog, s.Fees, cond, resolver.Options{
		LookupTimeout: g.opts.LookupTimeout,
		Logger:        g.opts.Logger.With("session", s.ID),
		OnChange:      onChange,
		Now:           g.opts.Now,
	})

	g.mu.Lock()
	g.sessions[s.ID] = s
	n := len(g.sessions)
	g.mu.Unlock()
	metrics.ActiveSessions.Set(float64(n))

	g.opts.Logger.Info("session opened",
		"session", s.ID,
		"condition", cond,
		"pair", pair.String(),
	)
	return s, nil
}

// Get returns a session and marks it used.
func (g *Registry) Get(id string) (*Session, error) {
	g.mu.RLock()
	s, ok := g.sessions[id]
	g.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(g.opts.Now())
	return s, nil
}

// Close removes a session and cancels its lookups.
func (g *Registry) Close(id string) error {
	g.mu.Lock()
	s, ok := g.sessions[id]
	delete(g.sessions, id)
	n := len(g.sessions)
	g.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.Resolver.Close()
	metrics.ActiveSessions.Set(float64(n))
	g.opts.Logger.Info("session closed", "session", id)
	return nil
}

// Len returns the number of open sessions.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.sessions)
}

// Sweep closes sessions idle for longer than SessionTTL and returns how
// many it closed. A zero TTL disables eviction.
func (g *Registry) Sweep() int {
	if g.opts.SessionTTL <= 0 {
		return 0
	}
	cutoff := g.opts.Now().Add(-g.opts.SessionTTL)

	var expired []string
	g.mu.RLock()
	for id, s := range g.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	g.mu.RUnlock()

	closed := 0
	for _, id := range expired {
		if g.Close(id) == nil {
			closed++
		}
	}
	if closed > 0 {
		g.opts.Logger.Info("idle sessions evicted", "count", closed)
	}
	return closed
}

// Run sweeps every interval until ctx is done, then closes every session.
func (g *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			g.closeAll()
			return
		case <-ticker.C:
			g.Sweep()
		}
	}
}

func (g *Registry) closeAll() {
	g.mu.Lock()
	all := g.sessions
	g.sessions = make(map[string]*Session)
	g.mu.Unlock()
	for _, s := range all {
		s.Resolver.Close()
	}
	metrics.ActiveSessions.Set(0)
}
