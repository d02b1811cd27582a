package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/clock"
	"github.com/smallbiznis/ledgerline/internal/document"
	"github.com/smallbiznis/ledgerline/internal/session"
)

var (
	ErrUnknownItem          = errors.New("item_not_on_original_document")
	ErrExceedsOriginalUnits = errors.New("units_returned_exceed_original")
	ErrNoItems              = errors.New("no_items")
)

// Kind selects which original document a return reverses.
type Kind string

const (
	KindSaleReturn     Kind = "sale-return"
	KindPurchaseReturn Kind = "purchase-return"
)

// OriginalLine is the slice of an original sale/purchase line a return can
// draw from. UnitsTransacted is read-only, sourced from the original
// document.
type OriginalLine struct {
	ItemID          string
	Name            string
	UnitPrice       decimal.Decimal
	TaxPercent      decimal.Decimal
	UnitsTransacted decimal.Decimal
}

// Return is the billing service's return shape as fetched.
type Return struct {
	ID           string              `json:"id"`
	CompanyID    string              `json:"companyId"`
	ReturnNumber string              `json:"returnNumber"`
	OriginalID   string              `json:"originalId"`
	PartyID      string              `json:"partyId"`
	Date         string              `json:"date"`
	Items        []WireReturnItem    `json:"items"`
	document.WireTotals
}

type WireReturnItem struct {
	document.WireItem
	UnitsTransacted float64 `json:"unitsSoldOrPurchased"`
}

type CreateRequest struct {
	CompanyID  string           `json:"companyId"`
	BranchID   string           `json:"branchId"`
	OriginalID string           `json:"originalId"`
	PartyID    string           `json:"partyId"`
	Date       string           `json:"date"`
	Items      []WireReturnItem `json:"items"`
	document.WireTotals
}

// Form builds a return against an original document: the user can only
// return items that appear on it, up to the units originally transacted.
type Form struct {
	*document.Form

	Session    session.Context
	Kind       Kind
	OriginalID string
	PartyID    string
	Date       time.Time

	originals map[string]OriginalLine
	returned  map[string]decimal.Decimal
}

func NewForm(sess session.Context, kind Kind, originalID, partyID string, lines []OriginalLine, clk clock.Clock) *Form {
	if clk == nil {
		clk = clock.System()
	}
	originals := make(map[string]OriginalLine, len(lines))
	for _, l := range lines {
		originals[l.ItemID] = l
	}
	return &Form{
		Form: document.NewForm(document.Settings{
			Precision:  sess.Company.DecimalPrecision,
			TaxName:    sess.Company.TaxName,
			TaxPercent: sess.Company.TaxPercent,
			Clock:      clk,
		}),
		Session:    sess,
		Kind:       kind,
		OriginalID: originalID,
		PartyID:    partyID,
		Date:       clk.Now(),
		originals:  originals,
		returned:   make(map[string]decimal.Decimal),
	}
}

// SetUnitsReturned records how many units of an original line come back.
// Zero removes the line; more than originally transacted is rejected.
func (f *Form) SetUnitsReturned(itemID string, units decimal.Decimal) error {
	orig, ok := f.originals[itemID]
	if !ok {
		return ErrUnknownItem
	}
	if units.IsNegative() || units.GreaterThan(orig.UnitsTransacted) {
		return ErrExceedsOriginalUnits
	}
	if units.IsZero() {
		delete(f.returned, itemID)
		f.RemoveItem(itemID)
		return nil
	}
	f.returned[itemID] = units
	f.PutItem(document.NewLineItem(
		orig.ItemID, orig.Name, units, orig.UnitPrice,
		orig.TaxPercent, f.Session.Company.DecimalPrecision,
	))
	return nil
}

// UnitsTransacted exposes the read-only original quantity for display next
// to the returned-units input.
func (f *Form) UnitsTransacted(itemID string) (decimal.Decimal, bool) {
	orig, ok := f.originals[itemID]
	if !ok {
		return decimal.Zero, false
	}
	return orig.UnitsTransacted, true
}

func (f *Form) Validate() error {
	if len(f.Items()) == 0 {
		return ErrNoItems
	}
	return nil
}

type Service interface {
	// FormForSale loads the original sale and prepares a return form over it.
	FormForSale(ctx context.Context, saleID string, sess session.Context) (*Form, error)
	// FormForPurchase does the same over a purchase.
	FormForPurchase(ctx context.Context, purchaseID string, sess session.Context) (*Form, error)
	Submit(ctx context.Context, f *Form) (*Return, error)
}
