package quote

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lemonexport/quote-engine/internal/model"
	"github.com/lemonexport/quote-engine/internal/pricing"
)

// Document defaults.
const (
	DefaultTerm         = model.TermCIF
	DefaultDeliveryDays = 30
)

var ErrInvalidTerm = errors.New("quote: term must be EXW, FOB or CIF")

// DocumentMeta is the customer and shipping information printed on an offer.
type DocumentMeta struct {
	CustomerName    string     `json:"customer_name"`
	CustomerContact string     `json:"customer_contact"`
	DeparturePort   string     `json:"departure_port"`
	DestinationPort string     `json:"destination_port"`
	ShipDate        string     `json:"ship_date"`   // YYYY-MM-DD; today when blank
	ValidUntil      string     `json:"valid_until"` // free-form; blank means "confirmed by management"
	DeliveryDays    int        `json:"delivery_days"`
	Term            model.Term `json:"term"`
}

// Document is an offer bound to one QuoteResult. Amounts are in source
// currency with target equivalents at the result's rate.
type Document struct {
	Number      string                   `json:"number"`
	IssuedAt    time.Time                `json:"issued_at"`
	Meta        DocumentMeta             `json:"meta"`
	Vehicle     model.AttributeSelection `json:"vehicle"`
	Condition   model.Condition          `json:"condition"`
	Result      model.QuoteResult        `json:"result"`
	UnitPrice   decimal.Decimal          `json:"unit_price"`
	TotalPrice  decimal.Decimal          `json:"total_price"`
	UnitTarget  decimal.Decimal          `json:"unit_price_target"`
	TotalTarget decimal.Decimal          `json:"total_price_target"`
	Headline    string                   `json:"headline"`
}

// AssembleDocument fills defaults into meta and picks the chosen term's
// amounts from result.
func AssembleDocument(result model.QuoteResult, vehicle model.AttributeSelection, meta DocumentMeta, now time.Time) (Document, error) {
	if meta.Term == "" {
		meta.Term = DefaultTerm
	}
	meta.Term = model.Term(strings.ToUpper(string(meta.Term)))
	if !meta.Term.Valid() {
		return Document{}, fmt.Errorf("%w: %q", ErrInvalidTerm, meta.Term)
	}
	if meta.DeliveryDays <= 0 {
		meta.DeliveryDays = DefaultDeliveryDays
	}
	if strings.TrimSpace(meta.ShipDate) == "" {
		meta.ShipDate = now.UTC().Format(time.DateOnly)
	}

	var unit decimal.Decimal
	switch meta.Term {
	case model.TermEXW:
		unit = result.ExwUnit
	case model.TermFOB:
		unit = result.FobUnit
	default:
		unit = result.CifUnit
	}
	total := result.Total(meta.Term)

	doc := Document{
		Number:      documentNumber(result.ID, now),
		IssuedAt:    now.UTC(),
		Meta:        meta,
		Vehicle:     vehicle,
		Condition:   result.Condition,
		Result:      result,
		UnitPrice:   unit,
		TotalPrice:  total,
		UnitTarget:  result.InTarget(unit),
		TotalTarget: result.InTarget(total),
	}
	doc.Headline = fmt.Sprintf("%s %s %s x%d: %s %s (%s %s)",
		meta.Term, orNA(vehicle.Brand), orNA(vehicle.Model), result.Quantity,
		pricing.Display(total), result.SourceCurrency,
		pricing.Display(doc.TotalTarget), result.TargetCurrency,
	)
	return doc, nil
}

// documentNumber is QT-<yyyymmdd>-<first 8 of the result id>.
func documentNumber(resultID string, now time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(resultID, "-", ""))
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("QT-%s-%s", now.UTC().Format("20060102"), id)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
