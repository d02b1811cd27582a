// Package document holds the shared form core for the four billing document
// kinds: sale, purchase, quotation and return. A form owns its line items
// and derived totals; nothing here is cached or shared between forms.
package document

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/pkg/money"
)

// LineItem is one invoice line. Subtotal, Tax and Total are computed when
// the line is built and trusted by the aggregate; the aggregate never
// recomputes them from quantity and price.
type LineItem struct {
	ItemID     string
	Name       string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TaxPercent decimal.Decimal
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
}

// NewLineItem derives the per-line amounts at the company precision:
// subtotal = quantity x unit price, tax = subtotal x taxPercent/100,
// total = subtotal + tax.
func NewLineItem(itemID, name string, quantity, unitPrice, taxPercent decimal.Decimal, precision int32) LineItem {
	subtotal := money.Round(quantity.Mul(unitPrice), precision)
	tax := money.Round(subtotal.Mul(taxPercent).Div(decimal.NewFromInt(100)), precision)
	return LineItem{
		ItemID:     itemID,
		Name:       name,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TaxPercent: taxPercent,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      money.Round(subtotal.Add(tax), precision),
	}
}
