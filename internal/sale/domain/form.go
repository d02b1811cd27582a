package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/clock"
	"github.com/smallbiznis/ledgerline/internal/document"
	itemdomain "github.com/smallbiznis/ledgerline/internal/item/domain"
	partydomain "github.com/smallbiznis/ledgerline/internal/party/domain"
	"github.com/smallbiznis/ledgerline/internal/session"
)

var (
	ErrNoParty = errors.New("no_party_selected")
	ErrNoItems = errors.New("no_items")
)

// Form is a sale invoice under construction. The embedded document form owns
// the line items and the aggregate; this wrapper binds the customer, the
// document date, and sale pricing.
type Form struct {
	*document.Form

	Session session.Context
	Party   partydomain.Party
	Date    time.Time
}

// NewForm builds a sale form under the session's company settings. The
// payment allowance comes from the selected customer.
func NewForm(sess session.Context, customer partydomain.Party, clk clock.Clock) *Form {
	if clk == nil {
		clk = clock.System()
	}
	return &Form{
		Form: document.NewForm(document.Settings{
			Precision:     sess.Company.DecimalPrecision,
			TaxName:       sess.Company.TaxName,
			TaxPercent:    sess.Company.TaxPercent,
			AllowanceDays: customer.PaymentAllowanceDays,
			Clock:         clk,
		}),
		Session: sess,
		Party:   customer,
		Date:    clk.Now(),
	}
}

// AddItem adds quantity of a catalog item at its sale price. The line's tax
// rate records the invoice-level company rate.
func (f *Form) AddItem(it itemdomain.Item, quantity decimal.Decimal) {
	f.PutItem(document.NewLineItem(
		it.ID, it.Name, quantity, it.SalePrice,
		f.Session.Company.TaxPercent, f.Session.Company.DecimalPrecision,
	))
}

func (f *Form) SetDate(t time.Time) { f.Date = t }

// Validate runs the pre-submit checks that render as inline field errors.
func (f *Form) Validate() error {
	if f.Party.ID == "" {
		return ErrNoParty
	}
	if len(f.Items()) == 0 {
		return ErrNoItems
	}
	return nil
}
