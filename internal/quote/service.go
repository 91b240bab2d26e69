// Package quote serves quote sessions over HTTP: attribute selection with
// live lookups, the fee sheet, the exchange rate, calculation and offer
// documents. Session state is pushed to WebSocket subscribers.
//
// All monetary values use shopspring/decimal, never float64.
package quote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/lemonexport/quote-engine/internal/fees"
	"github.com/lemonexport/quote-engine/internal/model"
	"github.com/lemonexport/quote-engine/internal/pricing"
	"github.com/lemonexport/quote-engine/internal/ratecache"
	"github.com/lemonexport/quote-engine/internal/reference"
	"github.com/lemonexport/quote-engine/internal/resolver"
	"github.com/lemonexport/quote-engine/internal/textparse"
	"github.com/lemonexport/quote-engine/internal/vision"
)

// Service handles quote operations.
type Service struct {
	registry *Registry
	hub      *WSHub          // optional
	vision   vision.Provider // optional; identify endpoints answer 501 without it
	now      func() time.Time
}

// NewService creates a quote service. hub and vp may be nil.
func NewService(reg *Registry, hub *WSHub, vp vision.Provider) *Service {
	return &Service{
		registry: reg,
		hub:      hub,
		vision:   vp,
		now:      reg.opts.Now,
	}
}

// Routes mounts the quote API on r.
func (s *Service) Routes(r chi.Router) {
	r.Get("/reference/brands", s.ListBrands)
	r.Get("/reference/currencies", s.ListCurrencies)
	r.Get("/reference/ports", s.ListPorts)

	r.Post("/quotes/compute", s.Compute)

	r.Post("/sessions", s.OpenSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", s.GetSession)
		r.Delete("/", s.CloseSession)
		r.Put("/attributes", s.SetAttribute)
		r.Post("/price/refresh", s.RefreshPrice)
		r.Put("/fees", s.SetFee)
		r.Put("/currency", s.SetCurrency)
		r.Post("/currency/swap", s.SwapCurrency)
		r.Post("/rate/refresh", s.RefreshRate)
		r.Post("/calculate", s.Calculate)
		r.Post("/document", s.Document)
		r.Post("/identify/vehicle", s.IdentifyVehicle)
		r.Post("/identify/vin", s.IdentifyVIN)
	})
}

// --- Request/Response types ---

// ComputeRequest is the body of a stateless pipeline run. Fee values are
// operator text; derived fields follow the same rules as in a session.
type ComputeRequest struct {
	Condition         model.Condition           `json:"condition"` // "new" when blank
	MarketPrice       string                    `json:"market_price"`
	Fees              map[model.FeeField]string `json:"fees"`
	UsedRefundEnabled bool                      `json:"used_refund_enabled"`
	Quantity          int                       `json:"quantity"`
	SourceCurrency    string                    `json:"source_currency"`
	TargetCurrency    string                    `json:"target_currency"`
	Rate              decimal.Decimal           `json:"rate"`
}

// ComputeResponse carries the result and the fee sheet it was computed from.
type ComputeResponse struct {
	Result model.QuoteResult `json:"result"`
	Fees   fees.State        `json:"fees"`
}

// OpenSessionRequest is the body of POST /sessions.
type OpenSessionRequest struct {
	Condition      model.Condition `json:"condition"`
	SourceCurrency string          `json:"source_currency"`
	TargetCurrency string          `json:"target_currency"`
}

// AttributeRequest sets one selection attribute.
type AttributeRequest struct {
	Field model.Attribute `json:"field"`
	Value string          `json:"value"`
}

// FeeRequest sets one fee field, the used-vehicle refund toggle, or both.
type FeeRequest struct {
	Field             model.FeeField `json:"field,omitempty"`
	Value             string         `json:"value"`
	UsedRefundEnabled *bool          `json:"used_refund_enabled,omitempty"`
}

// CurrencyRequest selects a currency pair.
type CurrencyRequest struct {
	SourceCurrency string `json:"source_currency"`
	TargetCurrency string `json:"target_currency"`
}

// ImagePayload is one uploaded photo; Data is base64 in JSON.
type ImagePayload struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// IdentifyRequest carries photos for recognition.
type IdentifyRequest struct {
	Images []ImagePayload `json:"images"`
}

// IdentifyResponse reports what was recognised and the resulting state.
type IdentifyResponse struct {
	Guess *vision.VehicleGuess `json:"guess,omitempty"`
	VIN   string               `json:"vin,omitempty"`
	State State                `json:"state"`
}

// --- Reference data ---

// ListBrands handles GET /api/v1/reference/brands?q=<term>
func (s *Service) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands := reference.SearchBrands(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": reference.Categories(brands),
		"brands":     brands,
	})
}

// ListCurrencies handles GET /api/v1/reference/currencies
func (s *Service) ListCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, reference.Currencies())
}

// ListPorts handles GET /api/v1/reference/ports
func (s *Service) ListPorts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]reference.Port{
		"departure":   reference.DeparturePorts(),
		"destination": reference.DestinationPorts(),
	})
}

// --- Stateless pipeline ---

// Compute handles POST /api/v1/quotes/compute
func (s *Service) Compute(w http.ResponseWriter, r *http.Request) {
	var req ComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Condition == "" {
		req.Condition = model.ConditionNew
	}
	if !req.Condition.Valid() {
		writeError(w, ErrInvalidCondition.Error(), http.StatusBadRequest)
		return
	}
	if !req.Rate.IsPositive() {
		writeError(w, "rate must be positive", http.StatusBadRequest)
		return
	}
	pair, err := s.pair(req.SourceCurrency, req.TargetCurrency)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := s.registry.opts
	sheet := fees.NewSheet(req.Condition, opts.Constants, opts.FeeDefaults(req.Condition))
	sheet.SetRefundEnabled(req.UsedRefundEnabled)
	if p, ok := textparse.ParseAmount(req.MarketPrice); ok && p.IsPositive() {
		sheet.SetMarketPrice(&p)
	}
	for f := range req.Fees {
		if !model.ValidFeeField(f) {
			writeError(w, fmt.Sprintf("%s: %q", fees.ErrUnknownField, f), http.StatusBadRequest)
			return
		}
	}
	// Form order: a discount derives the invoice price, which an explicit
	// invoice price then replaces, and so on down to the taxes.
	for _, f := range model.FeeFields {
		if text, ok := req.Fees[f]; ok {
			sheet.Set(f, text)
		}
	}

	res := pricing.ComputeQuote(pricing.Input{
		Fees:      sheet.Schedule(),
		Quantity:  req.Quantity,
		Rate:      model.ExchangeRate{Source: pair.Source, Target: pair.Target, Rate: req.Rate, FetchedAt: s.now().UTC()},
		Condition: req.Condition,
	})
	writeJSON(w, http.StatusOK, ComputeResponse{Result: res, Fees: sheet.State()})
}

// --- Sessions ---

// OpenSession handles POST /api/v1/sessions
func (s *Service) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Condition == "" {
		req.Condition = model.ConditionNew
	}
	var pair ratecache.Pair
	if req.SourceCurrency != "" || req.TargetCurrency != "" {
		p, err := s.pair(req.SourceCurrency, req.TargetCurrency)
		if err != nil {
			writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
		pair = p
	}

	sess, err := s.registry.Open(req.Condition, pair)
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	// The opening rate is a default; fetch the live one before answering.
	sess.Rates.Refresh(r.Context())
	writeJSON(w, http.StatusCreated, sess.State())
}

// GetSession handles GET /api/v1/sessions/{sessionID}
func (s *Service) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.State())
}

// CloseSession handles DELETE /api/v1/sessions/{sessionID}
func (s *Service) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Close(chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetAttribute handles PUT /api/v1/sessions/{sessionID}/attributes
// Dependent lookups start in the background; their results arrive over the
// WebSocket or on the next GET.
func (s *Service) SetAttribute(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req AttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := sess.Resolver.Set(req.Field, req.Value); err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, sess.State())
}

// RefreshPrice handles POST /api/v1/sessions/{sessionID}/price/refresh
func (s *Service) RefreshPrice(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Resolver.RefreshPrice(); err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusAccepted, sess.State())
}

// SetFee handles PUT /api/v1/sessions/{sessionID}/fees
func (s *Service) SetFee(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req FeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Field == "" && req.UsedRefundEnabled == nil {
		writeError(w, "field or used_refund_enabled is required", http.StatusBadRequest)
		return
	}
	if req.Field != "" {
		if err := sess.Fees.Set(req.Field, req.Value); err != nil {
			writeError(w, err.Error(), statusFor(err))
			return
		}
	}
	if req.UsedRefundEnabled != nil {
		sess.Fees.SetRefundEnabled(*req.UsedRefundEnabled)
	}
	s.publish(sess)
	writeJSON(w, http.StatusOK, sess.State())
}

// SetCurrency handles PUT /api/v1/sessions/{sessionID}/currency
// The rate is fetched before answering. A failed fetch is not an error: the
// last good or default rate stays, flagged stale.
func (s *Service) SetCurrency(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req CurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	pair, err := s.pair(req.SourceCurrency, req.TargetCurrency)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.rateResult(w, sess, func() (model.ExchangeRate, error) {
		return sess.Rates.SetPair(r.Context(), pair)
	})
}

// SwapCurrency handles POST /api/v1/sessions/{sessionID}/currency/swap
func (s *Service) SwapCurrency(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.rateResult(w, sess, func() (model.ExchangeRate, error) {
		return sess.Rates.Swap(r.Context())
	})
}

// RefreshRate handles POST /api/v1/sessions/{sessionID}/rate/refresh
func (s *Service) RefreshRate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.rateResult(w, sess, func() (model.ExchangeRate, error) {
		return sess.Rates.Refresh(r.Context())
	})
}

// Calculate handles POST /api/v1/sessions/{sessionID}/calculate
func (s *Service) Calculate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	res := sess.Calculate()
	slog.Info("quote calculated",
		"session", sess.ID,
		"result", res.ID,
		"condition", res.Condition,
		"quantity", res.Quantity,
		"rate", res.Rate.String(),
		"exw_total", pricing.Display(res.ExwTotal),
		"fob_total", pricing.Display(res.FobTotal),
		"cif_total", pricing.Display(res.CifTotal),
	)
	s.publish(sess)
	writeJSON(w, http.StatusOK, res)
}

// Document handles POST /api/v1/sessions/{sessionID}/document
func (s *Service) Document(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var meta DocumentMeta
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := sess.LastResult()
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	doc, err := AssembleDocument(res, sess.Resolver.Selection(), meta, s.now())
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// IdentifyVehicle handles POST /api/v1/sessions/{sessionID}/identify/vehicle
// The recognised brand, model and year are applied through the normal
// setters, so the usual lookups follow.
func (s *Service) IdentifyVehicle(w http.ResponseWriter, r *http.Request) {
	if s.vision == nil {
		writeError(w, "vehicle recognition is not configured", http.StatusNotImplemented)
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	images := make([]vision.Image, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, vision.Image{MIMEType: img.MIMEType, Data: img.Data})
	}

	guess, err := vision.Identify(r.Context(), s.vision, images)
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	if err := vision.Apply(sess.Resolver, guess); err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	slog.Info("vehicle identified", "session", sess.ID, "brand", guess.Brand, "model", guess.Model, "year", guess.Year)
	writeJSON(w, http.StatusOK, IdentifyResponse{Guess: &guess, State: sess.State()})
}

// IdentifyVIN handles POST /api/v1/sessions/{sessionID}/identify/vin
func (s *Service) IdentifyVIN(w http.ResponseWriter, r *http.Request) {
	if s.vision == nil {
		writeError(w, "VIN recognition is not configured", http.StatusNotImplemented)
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Images) == 0 {
		writeError(w, vision.ErrNoImages.Error(), http.StatusBadRequest)
		return
	}
	img := req.Images[0]
	vin, err := vision.ReadVIN(r.Context(), s.vision, vision.Image{MIMEType: img.MIMEType, Data: img.Data})
	if err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	if err := sess.Resolver.SetVIN(vin); err != nil {
		writeError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, IdentifyResponse{VIN: vin, State: sess.State()})
}

// --- helpers ---

func (s *Service) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := s.registry.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

// pair validates a currency pair against the supported currencies.
func (s *Service) pair(source, target string) (ratecache.Pair, error) {
	p := ratecache.NewPair(source, target)
	for _, code := range []string{p.Source, p.Target} {
		if _, ok := reference.LookupCurrency(code); !ok {
			return ratecache.Pair{}, fmt.Errorf("unsupported currency %q", code)
		}
	}
	return p, nil
}

func (s *Service) rateResult(w http.ResponseWriter, sess *Session, fetch func() (model.ExchangeRate, error)) {
	// The cache logs failures and keeps the last good rate flagged stale.
	fetch()
	s.publish(sess)
	writeJSON(w, http.StatusOK, sess.State())
}

func (s *Service) publish(sess *Session) {
	if s.hub != nil {
		s.hub.Publish(sess)
	}
}

// statusFor maps domain errors to HTTP status codes. Anything unknown is
// treated as an upstream failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCondition),
		errors.Is(err, ErrInvalidTerm),
		errors.Is(err, resolver.ErrUnknownAttribute),
		errors.Is(err, fees.ErrUnknownField),
		errors.Is(err, vision.ErrNoImages):
		return http.StatusBadRequest
	case errors.Is(err, resolver.ErrMissingUpstream),
		errors.Is(err, resolver.ErrClosed),
		errors.Is(err, ErrNoResult):
		return http.StatusConflict
	case errors.Is(err, vision.ErrNotRecognized),
		errors.Is(err, vision.ErrVINNotFound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
