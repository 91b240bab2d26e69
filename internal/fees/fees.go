// Package fees holds the editable fee sheet of a quote session.
//
// Every field is kept as the text the operator typed (blank and garbage both
// count as zero when priced). Three fields are derived: invoice price from
// the market price and discount, then purchase tax and tax refund from the
// invoice price. A derived value may be overwritten by hand and stays that
// way until one of its inputs changes again.
package fees

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/lemonexport/quote-engine/internal/model"
	"github.com/lemonexport/quote-engine/internal/pricing"
	"github.com/lemonexport/quote-engine/internal/textparse"
)

var ErrUnknownField = errors.New("fees: unknown fee field")

// Source records who wrote an entry last.
type Source string

const (
	SourceDefault Source = "default"
	SourceDerived Source = "derived"
	SourceManual  Source = "manual"
)

// Entry is one fee field as displayed to the operator.
type Entry struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}

// State is a copy of the sheet for presentation.
type State struct {
	MarketPrice   *decimal.Decimal         `json:"market_price"`
	RefundEnabled bool                     `json:"used_refund_enabled"`
	RefundApplies bool                     `json:"refund_applies"`
	Entries       map[model.FeeField]Entry `json:"entries"`
	Schedule      model.FeeSchedule        `json:"schedule"`
}

// Sheet is safe for concurrent use.
type Sheet struct {
	mu            sync.Mutex
	consts        pricing.Constants
	used          bool
	refundEnabled bool
	marketPrice   *decimal.Decimal
	entries       map[model.FeeField]Entry
}

// NewSheet creates a fee sheet pre-filled with defaults. defaults is keyed
// by fee field; unknown keys are ignored.
func NewSheet(cond model.Condition, consts pricing.Constants, defaults map[model.FeeField]string) *Sheet {
	s := &Sheet{
		consts:  consts,
		used:    cond.Used(),
		entries: make(map[model.FeeField]Entry, len(model.FeeFields)),
	}
	for _, f := range model.FeeFields {
		s.entries[f] = Entry{Source: SourceDefault}
	}
	for f, text := range defaults {
		if model.ValidFeeField(f) {
			s.entries[f] = Entry{Text: text, Source: SourceDefault}
		}
	}
	return s
}

// SetMarketPrice installs the resolved market price and re-derives the
// invoice price and taxes. nil clears the price together with every field
// derived from it. Installing the price already held changes nothing, so
// manual overrides survive a refresh that returns the same value.
func (s *Sheet) SetMarketPrice(p *decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p == nil {
		s.marketPrice = nil
		s.entries[model.FeeInvoicePrice] = Entry{Source: SourceDerived}
		s.entries[model.FeePurchaseTax] = Entry{Source: SourceDerived}
		s.entries[model.FeeTaxRefund] = Entry{Source: SourceDerived}
		return
	}
	if s.marketPrice != nil && s.marketPrice.Equal(*p) {
		return
	}
	v := *p
	s.marketPrice = &v
	s.deriveInvoice()
}

// MarketPrice returns the current market price, or nil.
func (s *Sheet) MarketPrice() *decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.marketPrice == nil {
		return nil
	}
	v := *s.marketPrice
	return &v
}

// Set stores operator text for one field and re-derives its dependants.
func (s *Sheet) Set(field model.FeeField, text string) error {
	if !model.ValidFeeField(field) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[field] = Entry{Text: text, Source: SourceManual}
	switch field {
	case model.FeeDiscount:
		s.deriveInvoice()
	case model.FeeInvoicePrice:
		s.deriveTaxes()
	}
	return nil
}

// SetRefundEnabled toggles the used-vehicle refund and re-derives the
// refund. New vehicles always refund, so the toggle only matters for used.
func (s *Sheet) SetRefundEnabled(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refundEnabled == on {
		return
	}
	s.refundEnabled = on
	s.deriveTaxes()
}

// Get returns one entry.
func (s *Sheet) Get(field model.FeeField) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[field]
}

// Schedule parses every entry into numbers. Blank or unparseable text is 0.
func (s *Sheet) Schedule() model.FeeSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule()
}

// State returns a presentation copy of the sheet.
func (s *Sheet) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make(map[model.FeeField]Entry, len(s.entries))
	for f, e := range s.entries {
		entries[f] = e
	}
	var mp *decimal.Decimal
	if s.marketPrice != nil {
		v := *s.marketPrice
		mp = &v
	}
	return State{
		MarketPrice:   mp,
		RefundEnabled: s.refundEnabled,
		RefundApplies: pricing.RefundApplies(s.used, s.refundEnabled),
		Entries:       entries,
		Schedule:      s.schedule(),
	}
}

func (s *Sheet) amount(f model.FeeField) decimal.Decimal {
	return textparse.AmountOrZero(s.entries[f].Text)
}

func (s *Sheet) schedule() model.FeeSchedule {
	return model.FeeSchedule{
		Discount:               s.amount(model.FeeDiscount),
		InvoicePrice:           s.amount(model.FeeInvoicePrice),
		PurchaseTax:            s.amount(model.FeePurchaseTax),
		TaxRefund:              s.amount(model.FeeTaxRefund),
		RegistrationFee:        s.amount(model.FeeRegistration),
		CompulsoryInsuranceFee: s.amount(model.FeeCompulsoryInsurance),
		ProfitInTarget:         s.amount(model.FeeProfit),
		CustomsFee:             s.amount(model.FeeCustoms),
		PortMiscFee:            s.amount(model.FeePortMisc),
		DomesticFreight:        s.amount(model.FeeDomesticFreight),
		ChannelFee:             s.amount(model.FeeChannel),
		OtherServiceFee:        s.amount(model.FeeOtherService),
		OceanFreightInTarget:   s.amount(model.FeeOceanFreight),
		CargoInsuranceInTarget: s.amount(model.FeeCargoInsurance),
	}
}

// deriveInvoice runs only while a market price is known; the invoice price
// is otherwise whatever the operator typed.
func (s *Sheet) deriveInvoice() {
	if s.marketPrice == nil {
		return
	}
	inv := pricing.InvoicePrice(*s.marketPrice, s.amount(model.FeeDiscount))
	s.entries[model.FeeInvoicePrice] = Entry{Text: inv.String(), Source: SourceDerived}
	s.deriveTaxes()
}

func (s *Sheet) deriveTaxes() {
	inv := s.amount(model.FeeInvoicePrice)
	tax := s.consts.PurchaseTax(inv, s.used)
	refund := s.consts.TaxRefund(inv, pricing.RefundApplies(s.used, s.refundEnabled))
	s.entries[model.FeePurchaseTax] = Entry{Text: tax.StringFixed(pricing.FeeScale), Source: SourceDerived}
	s.entries[model.FeeTaxRefund] = Entry{Text: refund.StringFixed(pricing.FeeScale), Source: SourceDerived}
}
