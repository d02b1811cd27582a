package document

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/clock"
	"github.com/smallbiznis/ledgerline/pkg/money"
)

// Aggregate is the derived totals block of a document form. All monetary
// fields are rounded to the company precision, half away from zero.
type Aggregate struct {
	Subtotal           decimal.Decimal
	Discount           decimal.Decimal
	TotalAfterDiscount decimal.Decimal
	TaxName            string
	TaxPercent         decimal.Decimal
	Tax                decimal.Decimal
	TotalAfterTax      decimal.Decimal
	AmountPaid         decimal.Decimal
	AmountDue          decimal.Decimal
	IsCredit           bool
	PaymentDueDate     time.Time
}

// Settings carries the session-scoped inputs of the aggregate: company
// precision, the invoice-level tax sourced from the company's country tax
// configuration, and the party's payment allowance.
type Settings struct {
	Precision     int32
	TaxName       string
	TaxPercent    decimal.Decimal
	AllowanceDays int
	Clock         clock.Clock
}

// Form owns the line items and recomputes the aggregate synchronously on
// every relevant input change. Aggregates are transient: they live and die
// with the form instance.
type Form struct {
	settings Settings

	items    map[string]LineItem
	discount string
	isCredit bool

	dueDate    time.Time
	dueDateSet bool // user-set due dates are sticky across recomputes

	agg Aggregate
}

func NewForm(settings Settings) *Form {
	if settings.Clock == nil {
		settings.Clock = clock.System()
	}
	f := &Form{
		settings: settings,
		items:    make(map[string]LineItem),
	}
	f.recompute()
	return f
}

// PutItem inserts or replaces the line keyed by its item id.
func (f *Form) PutItem(li LineItem) {
	f.items[li.ItemID] = li
	f.recompute()
}

func (f *Form) RemoveItem(itemID string) {
	delete(f.items, itemID)
	f.recompute()
}

// SetDiscount accepts the raw user-entered string. Non-numeric input is
// silently treated as a zero discount; the parse result is not surfaced.
func (f *Form) SetDiscount(raw string) {
	f.discount = raw
	f.recompute()
}

func (f *Form) SetCredit(credit bool) {
	f.isCredit = credit
	f.recompute()
}

// SetPaymentDueDate records a user-chosen due date. Once set it is never
// overwritten by recomputes, unlike AmountPaid/AmountDue which reset to
// their policy defaults on every recompute.
func (f *Form) SetPaymentDueDate(t time.Time) {
	f.dueDate = t
	f.dueDateSet = true
	f.recompute()
}

// SetAmountPaid records a manual payment amount on a credit document and
// re-derives AmountDue. The next item/discount change resets it to the
// policy default again.
func (f *Form) SetAmountPaid(raw string) {
	paid, _ := money.ParseLoose(raw)
	p := f.settings.Precision
	f.agg.AmountPaid = money.Round(paid, p)
	f.agg.AmountDue = money.Round(f.agg.TotalAfterTax.Sub(f.agg.AmountPaid), p)
	if !f.isCredit {
		// cash documents are always fully paid; a manual edit cannot stick
		f.agg.AmountPaid = f.agg.TotalAfterTax
		f.agg.AmountDue = decimal.Zero
	}
}

func (f *Form) Items() map[string]LineItem {
	out := make(map[string]LineItem, len(f.items))
	for k, v := range f.items {
		out[k] = v
	}
	return out
}

func (f *Form) Item(itemID string) (LineItem, bool) {
	li, ok := f.items[itemID]
	return li, ok
}

func (f *Form) Aggregate() Aggregate { return f.agg }

func (f *Form) Settings() Settings { return f.settings }

// recompute rebuilds the aggregate from the line items and current inputs:
//
//	subtotal           = sum of per-line subtotals (lines are trusted)
//	totalAfterDiscount = subtotal - discount
//	tax                = totalAfterDiscount x taxPercent/100  (one
//	                     invoice-level rate, not the per-line rates)
//	totalAfterTax      = totalAfterDiscount + tax
//
// and re-derives the payment defaults: cash means fully paid with nothing
// due, credit means nothing paid with everything due. The default payment
// due date (today + allowance days) only fills an unset due date.
func (f *Form) recompute() {
	p := f.settings.Precision

	subtotal := decimal.Zero
	for _, li := range f.items {
		subtotal = subtotal.Add(li.Subtotal)
	}
	subtotal = money.Round(subtotal, p)

	discount, _ := money.ParseLoose(f.discount)
	afterDiscount := money.Round(subtotal.Sub(discount), p)
	tax := money.Round(afterDiscount.Mul(f.settings.TaxPercent).Div(decimal.NewFromInt(100)), p)
	afterTax := money.Round(afterDiscount.Add(tax), p)

	agg := Aggregate{
		Subtotal:           subtotal,
		Discount:           money.Round(discount, p),
		TotalAfterDiscount: afterDiscount,
		TaxName:            f.settings.TaxName,
		TaxPercent:         f.settings.TaxPercent,
		Tax:                tax,
		TotalAfterTax:      afterTax,
		IsCredit:           f.isCredit,
	}

	if f.isCredit {
		agg.AmountPaid = decimal.Zero
		agg.AmountDue = afterTax
	} else {
		agg.AmountPaid = afterTax
		agg.AmountDue = decimal.Zero
	}

	if !f.dueDateSet {
		today := f.settings.Clock.Now()
		f.dueDate = today.AddDate(0, 0, f.settings.AllowanceDays)
	}
	agg.PaymentDueDate = f.dueDate

	f.agg = agg
}
