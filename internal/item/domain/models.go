package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/pkg/pagination"
)

// Item is a catalog entry from the inventory service. Stock figures are
// per-branch and server-maintained; the client never computes them.
type Item struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"companyId"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Unit          string          `json:"unit"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	StockOnHand   decimal.Decimal `json:"stockOnHand"`
}

type AdjustStockRequest struct {
	CompanyID string  `json:"companyId"`
	BranchID  string  `json:"branchId"`
	ItemID    string  `json:"itemId"`
	Delta     float64 `json:"delta"`
	Reason    string  `json:"reason"`
}

// TransferRequest moves stock between two branches of the same company.
type TransferRequest struct {
	CompanyID    string         `json:"companyId"`
	FromBranchID string         `json:"fromBranchId"`
	ToBranchID   string         `json:"toBranchId"`
	Items        []TransferItem `json:"items"`
	Note         string         `json:"note,omitempty"`
}

type TransferItem struct {
	ItemID   string  `json:"itemId"`
	Quantity float64 `json:"quantity"`
}

type Service interface {
	List(ctx context.Context, companyID, branchID, cursor, term string) (pagination.Page[Item], error)
	Get(ctx context.Context, id, companyID string) (*Item, error)
	AdjustStock(ctx context.Context, req AdjustStockRequest) error
	Transfer(ctx context.Context, req TransferRequest) error
	PageFetcher(companyID, branchID string) pagination.FetchFunc[Item]
}

func Equals(a, b Item) bool { return a.ID == b.ID }
