// Package pricing implements the export quote pipeline: the derivation of
// invoice price, purchase tax and export tax refund from a market reference
// price, and the EXW → FOB → CIF tier computation.
//
// Every function here is pure. Results are re-derivable by hand from the
// inputs, which is what the tests do.
//
// All monetary values use shopspring/decimal, never float64 for money.
// Only derived tax fields are rounded (to FeeScale); tier values keep full
// precision and are rounded solely for presentation (DisplayScale).
package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lemonexport/quote-engine/internal/model"
)

var (
	// FeeScale is the number of decimal places kept on derived tax fields.
	FeeScale int32 = 2

	// DisplayScale is the number of decimal places used for presentation.
	DisplayScale int32 = 2

	one = decimal.NewFromInt(1)
)

// Constants are the jurisdiction-specific tax parameters.
type Constants struct {
	// PurchaseTaxDivisor turns a VAT-inclusive invoice price into the
	// vehicle purchase tax (price / 1.13 × 10% ≈ price / 11.3).
	PurchaseTaxDivisor decimal.Decimal

	// VATRate is the VAT rate refunded on export.
	VATRate decimal.Decimal
}

// DefaultConstants returns the PRC constants: divisor 11.3, VAT 13%.
func DefaultConstants() Constants {
	return Constants{
		PurchaseTaxDivisor: decimal.RequireFromString("11.3"),
		VATRate:            decimal.RequireFromString("0.13"),
	}
}

// InvoicePrice computes max(0, marketPrice − discount).
func InvoicePrice(marketPrice, discount decimal.Decimal) decimal.Decimal {
	inv := marketPrice.Sub(discount)
	if inv.IsNegative() {
		return decimal.Zero
	}
	return inv
}

// PurchaseTax computes round2(invoice / divisor) for new vehicles; used
// vehicles owe none.
func (c Constants) PurchaseTax(invoice decimal.Decimal, used bool) decimal.Decimal {
	if used || !c.PurchaseTaxDivisor.IsPositive() {
		return decimal.Zero
	}
	return invoice.Div(c.PurchaseTaxDivisor).Round(FeeScale)
}

// TaxRefund computes round2(invoice / (1 + vat) × vat) when a refund
// applies, else zero.
func (c Constants) TaxRefund(invoice decimal.Decimal, applies bool) decimal.Decimal {
	if !applies {
		return decimal.Zero
	}
	return invoice.Div(one.Add(c.VATRate)).Mul(c.VATRate).Round(FeeScale)
}

// RefundApplies reports whether the export VAT refund applies. New vehicles
// always carry a refundable invoice; used vehicles only when the operator
// says the seller issued one.
func RefundApplies(used, usedRefundEnabled bool) bool {
	return !used || usedRefundEnabled
}

// toSource converts a target-currency amount back into source currency.
// A non-positive rate contributes nothing rather than dividing by zero.
func toSource(amount, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return amount.Div(rate)
}

// Breakdown exposes the intermediate per-unit layers of a computation.
type Breakdown struct {
	ProfitInSource    decimal.Decimal `json:"profit_in_source"`
	ExwUnit           decimal.Decimal `json:"exw_unit"`
	DomesticLogistics decimal.Decimal `json:"domestic_logistics_unit"`
	FobUnit           decimal.Decimal `json:"fob_unit"`
	OceanCostInSource decimal.Decimal `json:"ocean_cost_in_source"`
	CifUnit           decimal.Decimal `json:"cif_unit"`
}

// Unit computes the per-unit tier layers:
//
//	profitInSource = profitInTarget / rate
//	exwUnit  = invoice + (used ? 0 : purchaseTax) − taxRefund
//	           + registration + compulsoryInsurance + profitInSource + otherService
//	fobUnit  = exwUnit + customs + portMisc + domesticFreight + channel
//	cifUnit  = fobUnit + (oceanFreight + cargoInsurance) / rate
//
// The tax refund is the only subtracted term; a pathological negative
// result is reported as is.
func Unit(f model.FeeSchedule, rate decimal.Decimal, used bool) Breakdown {
	var b Breakdown
	b.ProfitInSource = toSource(f.ProfitInTarget, rate)

	tax := f.PurchaseTax
	if used {
		tax = decimal.Zero
	}
	b.ExwUnit = f.InvoicePrice.
		Add(tax).
		Sub(f.TaxRefund).
		Add(f.RegistrationFee).
		Add(f.CompulsoryInsuranceFee).
		Add(b.ProfitInSource).
		Add(f.OtherServiceFee)

	b.DomesticLogistics = f.CustomsFee.
		Add(f.PortMiscFee).
		Add(f.DomesticFreight).
		Add(f.ChannelFee)
	b.FobUnit = b.ExwUnit.Add(b.DomesticLogistics)

	b.OceanCostInSource = toSource(f.OceanFreightInTarget.Add(f.CargoInsuranceInTarget), rate)
	b.CifUnit = b.FobUnit.Add(b.OceanCostInSource)
	return b
}

// Input bundles everything ComputeQuote needs.
type Input struct {
	Fees      model.FeeSchedule
	Quantity  int
	Rate      model.ExchangeRate
	Condition model.Condition
}

// ComputeQuote runs the pipeline and scales each tier by quantity.
// Quantities below one are treated as one.
func ComputeQuote(in Input) model.QuoteResult {
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}
	used := in.Condition.Used()
	b := Unit(in.Fees, in.Rate.Rate, used)
	n := decimal.NewFromInt(int64(qty))

	return model.QuoteResult{
		ID:             uuid.New().String(),
		Condition:      in.Condition,
		SourceCurrency: in.Rate.Source,
		TargetCurrency: in.Rate.Target,
		Rate:           in.Rate.Rate,
		Quantity:       qty,
		ExwUnit:        b.ExwUnit,
		FobUnit:        b.FobUnit,
		CifUnit:        b.CifUnit,
		ExwTotal:       b.ExwUnit.Mul(n),
		FobTotal:       b.FobUnit.Mul(n),
		CifTotal:       b.CifUnit.Mul(n),
		ComputedAt:     time.Now().UTC(),
	}
}

// ToTarget converts a source-currency value: value × rate, no rounding.
func ToTarget(value, rate decimal.Decimal) decimal.Decimal {
	return value.Mul(rate)
}

// Display formats a value with DisplayScale decimal places.
func Display(v decimal.Decimal) string {
	return v.StringFixed(DisplayScale)
}
