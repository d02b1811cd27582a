// Package printing renders fetched documents to PDF and HTML for local
// preview and sharing. Rendering works off a flat view model so every
// document kind (sale, purchase, quotation, return) prints the same way.
package printing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/document"
	"github.com/smallbiznis/ledgerline/internal/session"
	"github.com/smallbiznis/ledgerline/pkg/money"
	"github.com/smallbiznis/ledgerline/pkg/timeutil"
)

type Kind string

const (
	KindSale           Kind = "Sale Invoice"
	KindPurchase       Kind = "Purchase Invoice"
	KindQuotation      Kind = "Quotation"
	KindSaleReturn     Kind = "Sale Return"
	KindPurchaseReturn Kind = "Purchase Return"
)

// PartyLabel is the heading above the counterparty block.
func (k Kind) PartyLabel() string {
	switch k {
	case KindPurchase, KindPurchaseReturn:
		return "Supplier"
	default:
		return "Bill to"
	}
}

// Document is the print-ready view of one fetched document. All monetary
// fields are preformatted strings at the company precision.
type Document struct {
	Kind        Kind
	Number      string
	CompanyName string
	PartyName   string
	Date        string
	DueDate     string
	Currency    string
	TaxName     string

	Items []Line

	Subtotal   string
	Discount   string
	Tax        string
	Total      string
	AmountPaid string
	AmountDue  string
	IsCredit   bool
}

type Line struct {
	Name      string
	Quantity  string
	UnitPrice string
	Amount    string
}

// FromWire maps a fetched document onto the print view. Wire items carry no
// display names, so callers pass the itemID to name mapping they already
// have from the item service.
func FromWire(kind Kind, number string, sess session.Context, partyName, date string, items []document.WireItem, names map[string]string, totals document.WireTotals) Document {
	p := sess.Company.DecimalPrecision
	cur := sess.Company.Currency

	lines := make([]Line, 0, len(items))
	for _, it := range items {
		name := names[it.ItemID]
		if name == "" {
			name = it.ItemID
		}
		lines = append(lines, Line{
			Name:      name,
			Quantity:  formatQuantity(it.Quantity),
			UnitPrice: amount(it.UnitPrice, p, cur),
			Amount:    amount(it.Total, p, cur),
		})
	}

	return Document{
		Kind:        kind,
		Number:      number,
		CompanyName: sess.Company.Name,
		PartyName:   partyName,
		Date:        displayDate(date, sess.Company.Timezone),
		DueDate:     displayDate(totals.PaymentDueDate, sess.Company.Timezone),
		Currency:    cur,
		TaxName:     taxLabel(totals.TaxName, totals.TaxPercent),
		Items:       lines,
		Subtotal:    amount(totals.Subtotal, p, cur),
		Discount:    amount(totals.Discount, p, cur),
		Tax:         amount(totals.Tax, p, cur),
		Total:       amount(totals.TotalAfterTax, p, cur),
		AmountPaid:  amount(totals.AmountPaid, p, cur),
		AmountDue:   amount(totals.AmountDue, p, cur),
		IsCredit:    totals.IsCredit,
	}
}

func amount(v float64, precision int32, currency string) string {
	s := money.Format(decimal.NewFromFloat(v), precision)
	if currency == "" {
		return s
	}
	return currency + " " + s
}

func formatQuantity(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func taxLabel(name string, percent float64) string {
	if name == "" {
		return "Tax"
	}
	return fmt.Sprintf("%s (%s%%)", name, formatQuantity(percent))
}

// displayDate converts the service's UTC string back into the company
// timezone as a calendar date. Unparseable input passes through untouched.
func displayDate(s, companyTZ string) string {
	if s == "" {
		return ""
	}
	t, err := timeutil.FromServiceUTC(s, companyTZ)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}
