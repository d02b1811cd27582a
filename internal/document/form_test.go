package document

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/clock"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testSettings(credit bool) Settings {
	return Settings{
		Precision:     2,
		TaxName:       "VAT",
		TaxPercent:    dec("10"),
		AllowanceDays: 14,
		Clock:         clock.NewFakeClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)),
	}
}

func TestRecompute_TotalsFormula(t *testing.T) {
	f := NewForm(testSettings(false))
	f.PutItem(NewLineItem("i1", "Widget", dec("3"), dec("40"), dec("10"), 2))
	f.PutItem(NewLineItem("i2", "Gadget", dec("2"), dec("15.25"), dec("10"), 2))
	f.SetDiscount("10.50")

	agg := f.Aggregate()
	// subtotal = 120 + 30.50, discount 10.50, tax 10% on 140
	assert.True(t, agg.Subtotal.Equal(dec("150.50")), "subtotal %s", agg.Subtotal)
	assert.True(t, agg.TotalAfterDiscount.Equal(dec("140")), "after discount %s", agg.TotalAfterDiscount)
	assert.True(t, agg.Tax.Equal(dec("14")), "tax %s", agg.Tax)
	assert.True(t, agg.TotalAfterTax.Equal(dec("154")), "after tax %s", agg.TotalAfterTax)

	// totalAfterTax == subtotal - d + (subtotal - d) * rate
	want := agg.Subtotal.Sub(agg.Discount).Add(agg.Subtotal.Sub(agg.Discount).Mul(dec("0.10")))
	assert.True(t, agg.TotalAfterTax.Equal(want))
}

func TestRecompute_Idempotent(t *testing.T) {
	f := NewForm(testSettings(false))
	f.PutItem(NewLineItem("i1", "Widget", dec("7"), dec("9.99"), dec("11"), 2))
	f.SetDiscount("3.33")

	first := f.Aggregate()
	// re-trigger with unchanged inputs: no drift from repeated rounding
	f.SetDiscount("3.33")
	second := f.Aggregate()

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.TotalAfterTax.Equal(second.TotalAfterTax))
	assert.True(t, first.AmountPaid.Equal(second.AmountPaid))
	assert.True(t, first.AmountDue.Equal(second.AmountDue))
}

func TestRecompute_NonNumericDiscountIsZero(t *testing.T) {
	f := NewForm(testSettings(false))
	f.PutItem(NewLineItem("i1", "Widget", dec("1"), dec("100"), dec("10"), 2))

	f.SetDiscount("abc")
	agg := f.Aggregate()
	assert.True(t, agg.Discount.IsZero())
	assert.True(t, agg.TotalAfterDiscount.Equal(dec("100")))
	assert.True(t, agg.TotalAfterTax.Equal(dec("110")))
}

func TestCashMode_AlwaysFullyPaid(t *testing.T) {
	f := NewForm(testSettings(false))
	f.SetCredit(false)
	f.PutItem(NewLineItem("i1", "Widget", dec("2"), dec("50"), dec("10"), 2))

	agg := f.Aggregate()
	assert.True(t, agg.AmountPaid.Equal(agg.TotalAfterTax))
	assert.True(t, agg.AmountDue.IsZero())

	// stays enforced after any further recompute
	f.SetDiscount("5")
	agg = f.Aggregate()
	assert.True(t, agg.AmountPaid.Equal(agg.TotalAfterTax))
	assert.True(t, agg.AmountDue.IsZero())

	// a manual paid edit on a cash document cannot stick either
	f.SetAmountPaid("1")
	agg = f.Aggregate()
	assert.True(t, agg.AmountPaid.Equal(agg.TotalAfterTax))
	assert.True(t, agg.AmountDue.IsZero())
}

func TestCreditMode_ResetsPaidOnRecompute(t *testing.T) {
	f := NewForm(testSettings(true))
	f.SetCredit(true)
	f.PutItem(NewLineItem("i1", "Widget", dec("2"), dec("50"), dec("10"), 2))

	agg := f.Aggregate()
	assert.True(t, agg.AmountPaid.IsZero())
	assert.True(t, agg.AmountDue.Equal(agg.TotalAfterTax))

	// manual partial payment re-derives the due amount
	f.SetAmountPaid("40")
	agg = f.Aggregate()
	assert.True(t, agg.AmountPaid.Equal(dec("40")))
	assert.True(t, agg.AmountDue.Equal(agg.TotalAfterTax.Sub(dec("40"))))

	// any item/discount change resets the payment defaults
	f.SetDiscount("10")
	agg = f.Aggregate()
	assert.True(t, agg.AmountPaid.IsZero())
	assert.True(t, agg.AmountDue.Equal(agg.TotalAfterTax))
}

func TestDueDate_DefaultsFromAllowanceDays(t *testing.T) {
	f := NewForm(testSettings(true))
	f.SetCredit(true)
	f.PutItem(NewLineItem("i1", "Widget", dec("1"), dec("10"), dec("10"), 2))

	want := time.Date(2026, 5, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, want, f.Aggregate().PaymentDueDate)
}

func TestDueDate_StickyOnceUserSet(t *testing.T) {
	f := NewForm(testSettings(true))
	f.SetCredit(true)
	f.PutItem(NewLineItem("i1", "Widget", dec("1"), dec("10"), dec("10"), 2))

	chosen := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	f.SetPaymentDueDate(chosen)

	// item and discount changes keep recomputing amounts, never the due date
	f.PutItem(NewLineItem("i2", "Gadget", dec("4"), dec("25"), dec("10"), 2))
	f.SetDiscount("7")

	agg := f.Aggregate()
	assert.Equal(t, chosen, agg.PaymentDueDate)
	assert.True(t, agg.AmountPaid.IsZero(), "amountPaid still reset on recompute")
	assert.True(t, agg.AmountDue.Equal(agg.TotalAfterTax))
}

func TestLineItem_Derivation(t *testing.T) {
	li := NewLineItem("i1", "Widget", dec("3"), dec("33.333"), dec("7.5"), 2)
	assert.True(t, li.Subtotal.Equal(dec("100.00")), "subtotal %s", li.Subtotal)
	assert.True(t, li.Tax.Equal(dec("7.50")), "tax %s", li.Tax)
	assert.True(t, li.Total.Equal(dec("107.50")), "total %s", li.Total)
}

func TestRemoveItem(t *testing.T) {
	f := NewForm(testSettings(false))
	f.PutItem(NewLineItem("i1", "Widget", dec("1"), dec("10"), dec("10"), 2))
	f.PutItem(NewLineItem("i2", "Gadget", dec("1"), dec("20"), dec("10"), 2))
	f.RemoveItem("i1")

	assert.True(t, f.Aggregate().Subtotal.Equal(dec("20")))
	_, ok := f.Item("i1")
	assert.False(t, ok)
}
