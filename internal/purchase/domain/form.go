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

// Form is a purchase invoice under construction; lines are priced at the
// item's purchase price and the payment allowance comes from the vendor.
type Form struct {
	*document.Form

	Session session.Context
	Party   partydomain.Party
	Date    time.Time

	SupplierInvoiceNumber string
}

func NewForm(sess session.Context, vendor partydomain.Party, clk clock.Clock) *Form {
	if clk == nil {
		clk = clock.System()
	}
	return &Form{
		Form: document.NewForm(document.Settings{
			Precision:     sess.Company.DecimalPrecision,
			TaxName:       sess.Company.TaxName,
			TaxPercent:    sess.Company.TaxPercent,
			AllowanceDays: vendor.PaymentAllowanceDays,
			Clock:         clk,
		}),
		Session: sess,
		Party:   vendor,
		Date:    clk.Now(),
	}
}

func (f *Form) AddItem(it itemdomain.Item, quantity decimal.Decimal) {
	f.PutItem(document.NewLineItem(
		it.ID, it.Name, quantity, it.PurchasePrice,
		f.Session.Company.TaxPercent, f.Session.Company.DecimalPrecision,
	))
}

func (f *Form) SetDate(t time.Time) { f.Date = t }

func (f *Form) Validate() error {
	if f.Party.ID == "" {
		return ErrNoParty
	}
	if len(f.Items()) == 0 {
		return ErrNoItems
	}
	return nil
}
