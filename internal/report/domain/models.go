package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/session"
)

var ErrInvalidRange = errors.New("invalid_date_range")

// Range is the inclusive reporting window, interpreted in the company
// timezone before being sent to the report service as UTC.
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) Validate() error {
	if r.From.IsZero() || r.To.IsZero() || r.To.Before(r.From) {
		return ErrInvalidRange
	}
	return nil
}

// SalesSummary aggregates the company's sales over a range.
type SalesSummary struct {
	CompanyID     string           `json:"companyId"`
	DocumentCount int              `json:"documentCount"`
	Subtotal      float64          `json:"subtotal"`
	Discount      float64          `json:"discount"`
	Tax           float64          `json:"tax"`
	Total         float64          `json:"total"`
	AmountPaid    float64          `json:"amountPaid"`
	Outstanding   float64          `json:"amountDue"`
	ByParty       []PartyBreakdown `json:"byParty"`
}

// PurchaseSummary mirrors SalesSummary for the purchase side.
type PurchaseSummary struct {
	CompanyID     string           `json:"companyId"`
	DocumentCount int              `json:"documentCount"`
	Subtotal      float64          `json:"subtotal"`
	Discount      float64          `json:"discount"`
	Tax           float64          `json:"tax"`
	Total         float64          `json:"total"`
	AmountPaid    float64          `json:"amountPaid"`
	Outstanding   float64          `json:"amountDue"`
	ByParty       []PartyBreakdown `json:"byParty"`
}

type PartyBreakdown struct {
	PartyID   string  `json:"partyId"`
	PartyName string  `json:"partyName"`
	Total     float64 `json:"total"`
	AmountDue float64 `json:"amountDue"`
}

// StockSummary is a point-in-time view, so it takes no range.
type StockSummary struct {
	CompanyID  string      `json:"companyId"`
	ItemCount  int         `json:"itemCount"`
	StockValue float64     `json:"stockValue"`
	LowStock   []StockLine `json:"lowStock"`
}

type StockLine struct {
	ItemID      string  `json:"itemId"`
	Name        string  `json:"name"`
	StockOnHand float64 `json:"stockOnHand"`
}

// OutstandingAmount converts the wire amount into the exact type used
// everywhere else in the client.
func (s SalesSummary) OutstandingAmount() decimal.Decimal {
	return decimal.NewFromFloat(s.Outstanding)
}

func (p PurchaseSummary) OutstandingAmount() decimal.Decimal {
	return decimal.NewFromFloat(p.Outstanding)
}

type Service interface {
	SalesSummary(ctx context.Context, sess session.Context, r Range) (*SalesSummary, error)
	PurchaseSummary(ctx context.Context, sess session.Context, r Range) (*PurchaseSummary, error)
	StockSummary(ctx context.Context, sess session.Context) (*StockSummary, error)
}
