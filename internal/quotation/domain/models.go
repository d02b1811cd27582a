package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/clock"
	"github.com/smallbiznis/ledgerline/internal/document"
	itemdomain "github.com/smallbiznis/ledgerline/internal/item/domain"
	partydomain "github.com/smallbiznis/ledgerline/internal/party/domain"
	"github.com/smallbiznis/ledgerline/internal/session"
	"github.com/smallbiznis/ledgerline/pkg/pagination"
)

var (
	ErrNoParty = errors.New("no_party_selected")
	ErrNoItems = errors.New("no_items")
)

// Quotation is a priced offer; it shares the aggregate with invoices but
// carries no payment, only a validity window.
type Quotation struct {
	ID              string              `json:"id"`
	CompanyID       string              `json:"companyId"`
	QuotationNumber string              `json:"quotationNumber"`
	PartyID         string              `json:"partyId"`
	PartyName       string              `json:"partyName"`
	Date            string              `json:"date"`
	ValidUntil      string              `json:"validUntil"`
	Items           []document.WireItem `json:"items"`
	document.WireTotals
}

type CreateRequest struct {
	CompanyID  string              `json:"companyId"`
	BranchID   string              `json:"branchId"`
	PartyID    string              `json:"partyId"`
	Date       string              `json:"date"`
	ValidUntil string              `json:"validUntil"`
	Items      []document.WireItem `json:"items"`
	document.WireTotals
}

// Form is a quotation under construction.
type Form struct {
	*document.Form

	Session    session.Context
	Party      partydomain.Party
	Date       time.Time
	ValidUntil time.Time
}

// DefaultValidityDays is applied when the user does not pick a validity date.
const DefaultValidityDays = 30

func NewForm(sess session.Context, customer partydomain.Party, clk clock.Clock) *Form {
	if clk == nil {
		clk = clock.System()
	}
	now := clk.Now()
	return &Form{
		Form: document.NewForm(document.Settings{
			Precision:     sess.Company.DecimalPrecision,
			TaxName:       sess.Company.TaxName,
			TaxPercent:    sess.Company.TaxPercent,
			AllowanceDays: customer.PaymentAllowanceDays,
			Clock:         clk,
		}),
		Session:    sess,
		Party:      customer,
		Date:       now,
		ValidUntil: now.AddDate(0, 0, DefaultValidityDays),
	}
}

func (f *Form) AddItem(it itemdomain.Item, quantity decimal.Decimal) {
	f.PutItem(document.NewLineItem(
		it.ID, it.Name, quantity, it.SalePrice,
		f.Session.Company.TaxPercent, f.Session.Company.DecimalPrecision,
	))
}

func (f *Form) Validate() error {
	if f.Party.ID == "" {
		return ErrNoParty
	}
	if len(f.Items()) == 0 {
		return ErrNoItems
	}
	return nil
}

type Service interface {
	Submit(ctx context.Context, f *Form) (*Quotation, error)
	Get(ctx context.Context, id, companyID string) (*Quotation, error)
	List(ctx context.Context, companyID, cursor, term string) (pagination.Page[Quotation], error)
}
