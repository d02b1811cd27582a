package service

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerline/internal/api"
	"github.com/smallbiznis/ledgerline/internal/clock"
	"github.com/smallbiznis/ledgerline/internal/document"
	purchasedomain "github.com/smallbiznis/ledgerline/internal/purchase/domain"
	"github.com/smallbiznis/ledgerline/internal/returns/domain"
	saledomain "github.com/smallbiznis/ledgerline/internal/sale/domain"
	"github.com/smallbiznis/ledgerline/internal/session"
	"go.uber.org/zap"
)

type service struct {
	client    *api.Client
	sales     saledomain.Service
	purchases purchasedomain.Service
	clk       clock.Clock
	log       *zap.Logger
}

func NewService(client *api.Client, sales saledomain.Service, purchases purchasedomain.Service, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{client: client, sales: sales, purchases: purchases, clk: clk, log: log}
}

func (s *service) FormForSale(ctx context.Context, saleID string, sess session.Context) (*domain.Form, error) {
	inv, err := s.sales.Get(ctx, saleID, sess.Company.ID)
	if err != nil {
		return nil, err
	}
	return domain.NewForm(sess, domain.KindSaleReturn, inv.ID, inv.PartyID, originalLines(inv.Items), s.clk), nil
}

func (s *service) FormForPurchase(ctx context.Context, purchaseID string, sess session.Context) (*domain.Form, error) {
	inv, err := s.purchases.Get(ctx, purchaseID, sess.Company.ID)
	if err != nil {
		return nil, err
	}
	return domain.NewForm(sess, domain.KindPurchaseReturn, inv.ID, inv.PartyID, originalLines(inv.Items), s.clk), nil
}

func (s *service) Submit(ctx context.Context, f *domain.Form) (*domain.Return, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	tz := f.Session.Company.Timezone
	totals, err := document.Totals(f.Form, tz)
	if err != nil {
		return nil, err
	}
	date, err := document.DateUTC(f.Date, tz)
	if err != nil {
		return nil, err
	}
	items := make([]domain.WireReturnItem, 0, len(f.Items()))
	for _, wi := range document.WireItems(f.Form) {
		transacted, _ := f.UnitsTransacted(wi.ItemID)
		items = append(items, domain.WireReturnItem{
			WireItem:        wi,
			UnitsTransacted: transacted.InexactFloat64(),
		})
	}
	req := domain.CreateRequest{
		CompanyID:  f.Session.Company.ID,
		BranchID:   f.Session.Branch.ID,
		OriginalID: f.OriginalID,
		PartyID:    f.PartyID,
		Date:       date,
		Items:      items,
		WireTotals: totals,
	}

	path := "/sale-return/add-sale-return"
	if f.Kind == domain.KindPurchaseReturn {
		path = "/purchase-return/add-purchase-return"
	}
	var out domain.Return
	if err := s.client.Do(ctx, http.MethodPost, api.ServiceBilling, path, nil, req, &out); err != nil {
		return nil, err
	}
	s.log.Info("return submitted",
		zap.String("return_number", out.ReturnNumber),
		zap.String("original_id", f.OriginalID),
	)
	return &out, nil
}

func originalLines(items []document.WireItem) []domain.OriginalLine {
	out := make([]domain.OriginalLine, 0, len(items))
	for _, it := range items {
		out = append(out, domain.OriginalLine{
			ItemID:          it.ItemID,
			UnitPrice:       decimal.NewFromFloat(it.UnitPrice),
			TaxPercent:      decimal.NewFromFloat(it.TaxPercent),
			UnitsTransacted: decimal.NewFromFloat(it.Quantity),
		})
	}
	return out
}
