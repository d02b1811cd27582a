package domain

import (
	"context"

	"github.com/smallbiznis/ledgerline/internal/document"
	"github.com/smallbiznis/ledgerline/pkg/pagination"
)

// SaleInvoice is the billing service's sale shape as fetched.
type SaleInvoice struct {
	ID            string              `json:"id"`
	CompanyID     string              `json:"companyId"`
	BranchID      string              `json:"branchId"`
	InvoiceNumber string              `json:"invoiceNumber"`
	PartyID       string              `json:"partyId"`
	PartyName     string              `json:"partyName"`
	Date          string              `json:"date"`
	Items         []document.WireItem `json:"items"`
	document.WireTotals
}

// CreateRequest is the add-sale mutation body: the flat totals block plus
// the nested items array.
type CreateRequest struct {
	CompanyID string              `json:"companyId"`
	BranchID  string              `json:"branchId"`
	PartyID   string              `json:"partyId"`
	Date      string              `json:"date"`
	Items     []document.WireItem `json:"items"`
	document.WireTotals
}

type Service interface {
	Submit(ctx context.Context, f *Form) (*SaleInvoice, error)
	// SubmitRequest posts an already-built mutation body, e.g. a saved draft.
	SubmitRequest(ctx context.Context, req CreateRequest) (*SaleInvoice, error)
	Get(ctx context.Context, id, companyID string) (*SaleInvoice, error)
	List(ctx context.Context, companyID, cursor, term string) (pagination.Page[SaleInvoice], error)
	PageFetcher(companyID string) pagination.FetchFunc[SaleInvoice]
}
