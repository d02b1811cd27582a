package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/clock"
	"github.com/smallbiznis/ledgerline/internal/session"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func returnForm() *Form {
	sess := session.Context{
		Company: session.Company{
			ID:               "c1",
			DecimalPrecision: 2,
			Timezone:         "UTC",
			TaxName:          "VAT",
			TaxPercent:       dec("10"),
		},
	}
	lines := []OriginalLine{
		{ItemID: "i1", Name: "Widget", UnitPrice: dec("40"), TaxPercent: dec("10"), UnitsTransacted: dec("5")},
		{ItemID: "i2", Name: "Gadget", UnitPrice: dec("15"), TaxPercent: dec("10"), UnitsTransacted: dec("2")},
	}
	clk := clock.NewFakeClock(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	return NewForm(sess, KindSaleReturn, "s1", "p1", lines, clk)
}

func TestSetUnitsReturned_WithinOriginal(t *testing.T) {
	f := returnForm()

	assert.NoError(t, f.SetUnitsReturned("i1", dec("3")))
	agg := f.Aggregate()
	// 3 x 40 = 120, 10% tax
	assert.True(t, agg.Subtotal.Equal(dec("120")))
	assert.True(t, agg.TotalAfterTax.Equal(dec("132")))
}

func TestSetUnitsReturned_RejectsExcess(t *testing.T) {
	f := returnForm()

	assert.ErrorIs(t, f.SetUnitsReturned("i1", dec("6")), ErrExceedsOriginalUnits)
	assert.ErrorIs(t, f.SetUnitsReturned("i1", dec("-1")), ErrExceedsOriginalUnits)
	assert.ErrorIs(t, f.SetUnitsReturned("missing", dec("1")), ErrUnknownItem)
	assert.True(t, f.Aggregate().Subtotal.IsZero())
}

func TestSetUnitsReturned_ZeroRemovesLine(t *testing.T) {
	f := returnForm()

	assert.NoError(t, f.SetUnitsReturned("i1", dec("2")))
	assert.NoError(t, f.SetUnitsReturned("i2", dec("1")))
	assert.NoError(t, f.SetUnitsReturned("i1", dec("0")))

	agg := f.Aggregate()
	assert.True(t, agg.Subtotal.Equal(dec("15")))
	_, ok := f.Item("i1")
	assert.False(t, ok)
}

func TestUnitsTransacted_ReadOnlyLookup(t *testing.T) {
	f := returnForm()

	got, ok := f.UnitsTransacted("i2")
	assert.True(t, ok)
	assert.True(t, got.Equal(dec("2")))

	_, ok = f.UnitsTransacted("missing")
	assert.False(t, ok)
}

func TestValidate_RequiresAtLeastOneLine(t *testing.T) {
	f := returnForm()
	assert.ErrorIs(t, f.Validate(), ErrNoItems)

	assert.NoError(t, f.SetUnitsReturned("i1", dec("1")))
	assert.NoError(t, f.Validate())
}
