package fees

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemonexport/quote-engine/internal/model"
	"github.com/lemonexport/quote-engine/internal/pricing"
)

func price(v int64) *decimal.Decimal {
	p := decimal.NewFromInt(v)
	return &p
}

func newSheet(cond model.Condition) *Sheet {
	return NewSheet(cond, pricing.DefaultConstants(), map[model.FeeField]string{
		model.FeeRegistration:        "500",
		model.FeeCompulsoryInsurance: "950",
	})
}

func TestSheet_DerivesFromMarketPriceAndDiscount(t *testing.T) {
	s := newSheet(model.ConditionNew)
	require.NoError(t, s.Set(model.FeeDiscount, "5000"))
	s.SetMarketPrice(price(300000))

	assert.Equal(t, Entry{Text: "295000", Source: SourceDerived}, s.Get(model.FeeInvoicePrice))
	assert.Equal(t, Entry{Text: "26106.19", Source: SourceDerived}, s.Get(model.FeePurchaseTax))
	assert.Equal(t, Entry{Text: "33938.05", Source: SourceDerived}, s.Get(model.FeeTaxRefund))

	sched := s.Schedule()
	assert.True(t, sched.InvoicePrice.Equal(decimal.NewFromInt(295000)))
	assert.True(t, sched.RegistrationFee.Equal(decimal.NewFromInt(500)))
}

func TestSheet_DiscountEditRederives(t *testing.T) {
	s := newSheet(model.ConditionNew)
	s.SetMarketPrice(price(300000))
	assert.Equal(t, "300000", s.Get(model.FeeInvoicePrice).Text)

	require.NoError(t, s.Set(model.FeeDiscount, "5000"))
	assert.Equal(t, "295000", s.Get(model.FeeInvoicePrice).Text)
	assert.Equal(t, "26106.19", s.Get(model.FeePurchaseTax).Text)
}

func TestSheet_DiscountAboveMarketPriceClampsToZero(t *testing.T) {
	s := newSheet(model.ConditionNew)
	require.NoError(t, s.Set(model.FeeDiscount, "400000"))
	s.SetMarketPrice(price(300000))

	assert.Equal(t, "0", s.Get(model.FeeInvoicePrice).Text)
	assert.Equal(t, "0.00", s.Get(model.FeePurchaseTax).Text)
}

func TestSheet_DiscountWithoutMarketPriceKeepsInvoice(t *testing.T) {
	s := newSheet(model.ConditionNew)
	require.NoError(t, s.Set(model.FeeInvoicePrice, "100000"))
	require.NoError(t, s.Set(model.FeeDiscount, "5000"))

	assert.Equal(t, Entry{Text: "100000", Source: SourceManual}, s.Get(model.FeeInvoicePrice))
}

func TestSheet_ManualInvoiceRederivesTaxes(t *testing.T) {
	s := newSheet(model.ConditionNew)
	s.SetMarketPrice(price(300000))
	require.NoError(t, s.Set(model.FeeInvoicePrice, "100000"))

	assert.Equal(t, SourceManual, s.Get(model.FeeInvoicePrice).Source)
	assert.Equal(t, "8849.56", s.Get(model.FeePurchaseTax).Text)
	assert.Equal(t, "11504.42", s.Get(model.FeeTaxRefund).Text)
}

func TestSheet_ManualTaxSurvivesUntilUpstreamChanges(t *testing.T) {
	s := newSheet(model.ConditionNew)
	s.SetMarketPrice(price(300000))
	require.NoError(t, s.Set(model.FeePurchaseTax, "20000"))

	// Same price again is not an upstream change.
	s.SetMarketPrice(price(300000))
	assert.Equal(t, Entry{Text: "20000", Source: SourceManual}, s.Get(model.FeePurchaseTax))

	// A different price is.
	s.SetMarketPrice(price(226000))
	assert.Equal(t, Entry{Text: "20000.00", Source: SourceDerived}, s.Get(model.FeePurchaseTax))
}

func TestSheet_ClearMarketPriceClearsDerived(t *testing.T) {
	s := newSheet(model.ConditionNew)
	require.NoError(t, s.Set(model.FeeDiscount, "5000"))
	s.SetMarketPrice(price(300000))
	s.SetMarketPrice(nil)

	assert.Nil(t, s.MarketPrice())
	for _, f := range []model.FeeField{model.FeeInvoicePrice, model.FeePurchaseTax, model.FeeTaxRefund} {
		assert.Empty(t, s.Get(f).Text, "field %s", f)
	}
	// Operator inputs stay.
	assert.Equal(t, "5000", s.Get(model.FeeDiscount).Text)
	assert.Equal(t, "500", s.Get(model.FeeRegistration).Text)
}

func TestSheet_UsedVehicleRefundToggle(t *testing.T) {
	s := newSheet(model.ConditionUsed)
	s.SetMarketPrice(price(113000))

	assert.Equal(t, "0.00", s.Get(model.FeePurchaseTax).Text)
	assert.Equal(t, "0.00", s.Get(model.FeeTaxRefund).Text)
	assert.False(t, s.State().RefundApplies)

	s.SetRefundEnabled(true)
	assert.Equal(t, "13000.00", s.Get(model.FeeTaxRefund).Text)
	assert.True(t, s.State().RefundApplies)

	s.SetRefundEnabled(false)
	assert.Equal(t, "0.00", s.Get(model.FeeTaxRefund).Text)
}

func TestSheet_UnparseableTextCountsAsZero(t *testing.T) {
	s := newSheet(model.ConditionNew)
	require.NoError(t, s.Set(model.FeeChannel, "about a thousand"))
	require.NoError(t, s.Set(model.FeeCustoms, ""))

	sched := s.Schedule()
	assert.True(t, sched.ChannelFee.IsZero())
	assert.True(t, sched.CustomsFee.IsZero())
	assert.Equal(t, "about a thousand", s.Get(model.FeeChannel).Text)
}

func TestSheet_UnknownField(t *testing.T) {
	s := newSheet(model.ConditionNew)
	err := s.Set(model.FeeField("bribe"), "1")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSheet_StateIsACopy(t *testing.T) {
	s := newSheet(model.ConditionNew)
	s.SetMarketPrice(price(300000))

	st := s.State()
	st.Entries[model.FeeInvoicePrice] = Entry{Text: "1"}
	*st.MarketPrice = decimal.NewFromInt(1)

	assert.Equal(t, "300000", s.Get(model.FeeInvoicePrice).Text)
	assert.True(t, s.MarketPrice().Equal(decimal.NewFromInt(300000)))
}
