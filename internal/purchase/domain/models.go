package domain

import (
	"context"

	"github.com/smallbiznis/ledgerline/internal/document"
	"github.com/smallbiznis/ledgerline/pkg/pagination"
)

// PurchaseInvoice is the billing service's purchase shape as fetched.
type PurchaseInvoice struct {
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

type CreateRequest struct {
	CompanyID string              `json:"companyId"`
	BranchID  string              `json:"branchId"`
	PartyID   string              `json:"partyId"`
	// SupplierInvoiceNumber is the vendor's own document number, recorded
	// alongside the server-assigned one.
	SupplierInvoiceNumber string              `json:"supplierInvoiceNumber,omitempty"`
	Date                  string              `json:"date"`
	Items                 []document.WireItem `json:"items"`
	document.WireTotals
}

type Service interface {
	Submit(ctx context.Context, f *Form) (*PurchaseInvoice, error)
	Get(ctx context.Context, id, companyID string) (*PurchaseInvoice, error)
	List(ctx context.Context, companyID, cursor, term string) (pagination.Page[PurchaseInvoice], error)
	PageFetcher(companyID string) pagination.FetchFunc[PurchaseInvoice]
}
