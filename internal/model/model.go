// Package model defines the core domain types shared across the quote engine.
// All monetary values use shopspring/decimal, never float64 for money.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condition distinguishes new-vehicle from used-vehicle export quotes.
type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

// Used reports whether the condition is a used-vehicle quote.
func (c Condition) Used() bool { return c == ConditionUsed }

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool { return c == ConditionNew || c == ConditionUsed }

// Attribute names an editable field of an AttributeSelection.
type Attribute string

const (
	AttrBrand         Attribute = "brand"
	AttrModel         Attribute = "model"
	AttrYear          Attribute = "year"
	AttrTrim          Attribute = "trim"
	AttrExteriorColor Attribute = "exterior_color"
	AttrInteriorColor Attribute = "interior_color"
	AttrVIN           Attribute = "vin"
	AttrQuantity      Attribute = "quantity"
)

// AttributeSelection is the operator's current vehicle choice.
// Model is meaningful only if Brand is set, Trim only if Model is set and
// the colors only if Trim is set.
type AttributeSelection struct {
	Brand         string `json:"brand"`
	Model         string `json:"model"`
	Year          string `json:"year"`
	Trim          string `json:"trim"`
	ExteriorColor string `json:"exterior_color"`
	InteriorColor string `json:"interior_color"`
	VIN           string `json:"vin"`
	Quantity      int    `json:"quantity"` // always >= 1
}

// Status is the lifecycle state of one dependent lookup.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// ManualEntryOption is appended to a ready, non-empty choice list so the
// operator can switch to free-text input.
const ManualEntryOption = "__manual_entry__"

// Resolution is the observable state of one dependent field.
type Resolution[V any] struct {
	Status Status `json:"status"`
	Value  V      `json:"value"`
	Error  string `json:"error,omitempty"`
}

// ColorOptions lists the exterior and interior colors offered for a trim.
type ColorOptions struct {
	Exterior []string `json:"exterior"`
	Interior []string `json:"interior"`
}

// PriceEstimate is a market reference price in whole source-currency units.
type PriceEstimate struct {
	Price     decimal.Decimal `json:"price"`
	SourceRef string          `json:"source_ref"`
}

// FeeField names one entry of the fee schedule.
type FeeField string

const (
	FeeDiscount            FeeField = "discount"
	FeeInvoicePrice        FeeField = "invoice_price"
	FeePurchaseTax         FeeField = "purchase_tax"
	FeeTaxRefund           FeeField = "tax_refund"
	FeeRegistration        FeeField = "registration_fee"
	FeeCompulsoryInsurance FeeField = "compulsory_insurance_fee"
	FeeProfit              FeeField = "profit"          // target currency
	FeeCustoms             FeeField = "customs_fee"
	FeePortMisc            FeeField = "port_misc_fee"
	FeeDomesticFreight     FeeField = "domestic_freight"
	FeeChannel             FeeField = "channel_fee"
	FeeOtherService        FeeField = "other_service_fee"
	FeeOceanFreight        FeeField = "ocean_freight"   // target currency
	FeeCargoInsurance      FeeField = "cargo_insurance" // target currency
)

// FeeFields lists every fee field in form order.
var FeeFields = []FeeField{
	FeeDiscount, FeeInvoicePrice, FeePurchaseTax, FeeTaxRefund,
	FeeRegistration, FeeCompulsoryInsurance, FeeProfit,
	FeeCustoms, FeePortMisc, FeeDomesticFreight, FeeChannel, FeeOtherService,
	FeeOceanFreight, FeeCargoInsurance,
}

// ValidFeeField reports whether f names a known fee field.
func ValidFeeField(f FeeField) bool {
	for _, known := range FeeFields {
		if f == known {
			return true
		}
	}
	return false
}

// FeeSchedule holds the parsed numeric fee inputs for one vehicle.
// Amounts are per unit and in source currency unless noted.
type FeeSchedule struct {
	Discount               decimal.Decimal `json:"discount"`
	InvoicePrice           decimal.Decimal `json:"invoice_price"`
	PurchaseTax            decimal.Decimal `json:"purchase_tax"`
	TaxRefund              decimal.Decimal `json:"tax_refund"`
	RegistrationFee        decimal.Decimal `json:"registration_fee"`
	CompulsoryInsuranceFee decimal.Decimal `json:"compulsory_insurance_fee"`
	ProfitInTarget         decimal.Decimal `json:"profit"`
	CustomsFee             decimal.Decimal `json:"customs_fee"`
	PortMiscFee            decimal.Decimal `json:"port_misc_fee"`
	DomesticFreight        decimal.Decimal `json:"domestic_freight"`
	ChannelFee             decimal.Decimal `json:"channel_fee"`
	OtherServiceFee        decimal.Decimal `json:"other_service_fee"`
	OceanFreightInTarget   decimal.Decimal `json:"ocean_freight"`
	CargoInsuranceInTarget decimal.Decimal `json:"cargo_insurance"`
}

// ExchangeRate is the spot rate used to convert source into target currency.
type ExchangeRate struct {
	Source    string          `json:"source"`
	Target    string          `json:"target"`
	Rate      decimal.Decimal `json:"rate"` // always > 0
	Stale     bool            `json:"stale"`
	Loading   bool            `json:"loading"`
	FetchedAt time.Time       `json:"fetched_at,omitempty"`
}

// Term is an incoterm-style quote tier.
type Term string

const (
	TermEXW Term = "EXW"
	TermFOB Term = "FOB"
	TermCIF Term = "CIF"
)

// Valid reports whether t is a known term.
func (t Term) Valid() bool { return t == TermEXW || t == TermFOB || t == TermCIF }

// QuoteResult is the output of one explicit calculation. It is never
// updated after creation; later edits require a new calculation.
type QuoteResult struct {
	ID             string          `json:"id"`
	Condition      Condition       `json:"condition"`
	SourceCurrency string          `json:"source_currency"`
	TargetCurrency string          `json:"target_currency"`
	Rate           decimal.Decimal `json:"rate"`
	Quantity       int             `json:"quantity"`
	ExwUnit        decimal.Decimal `json:"exw_unit"`
	FobUnit        decimal.Decimal `json:"fob_unit"`
	CifUnit        decimal.Decimal `json:"cif_unit"`
	ExwTotal       decimal.Decimal `json:"exw_total"`
	FobTotal       decimal.Decimal `json:"fob_total"`
	CifTotal       decimal.Decimal `json:"cif_total"`
	ComputedAt     time.Time       `json:"computed_at"`
}

// Total returns the batch total for a term in source currency.
func (q QuoteResult) Total(t Term) decimal.Decimal {
	switch t {
	case TermEXW:
		return q.ExwTotal
	case TermFOB:
		return q.FobTotal
	default:
		return q.CifTotal
	}
}

// InTarget converts a source-currency amount with the rate of this result.
func (q QuoteResult) InTarget(v decimal.Decimal) decimal.Decimal {
	return v.Mul(q.Rate)
}
