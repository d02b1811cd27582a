package document

import (
	"sort"
	"time"

	"github.com/smallbiznis/ledgerline/pkg/money"
	"github.com/smallbiznis/ledgerline/pkg/timeutil"
)

// WireItem is the per-line shape submitted to the billing service. Monetary
// and quantity fields go over the wire as numbers.
type WireItem struct {
	ItemID     string  `json:"itemId"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TaxPercent float64 `json:"taxPercent"`
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	Total      float64 `json:"total"`
}

// WireTotals is the flat aggregate block shared by every document mutation
// body.
type WireTotals struct {
	Subtotal           float64 `json:"subtotal"`
	Discount           float64 `json:"discount"`
	TotalAfterDiscount float64 `json:"totalAfterDiscount"`
	TaxName            string  `json:"taxName"`
	TaxPercent         float64 `json:"taxPercent"`
	Tax                float64 `json:"tax"`
	TotalAfterTax      float64 `json:"totalAfterTax"`
	AmountPaid         float64 `json:"amountPaid"`
	AmountDue          float64 `json:"amountDue"`
	IsCredit           bool    `json:"isCredit"`
	PaymentDueDate     string  `json:"paymentDueDate,omitempty"`
}

// WireItems flattens the item mapping in a stable order. The order carries
// no meaning server-side; sorting just keeps request bodies deterministic.
func WireItems(f *Form) []WireItem {
	p := f.Settings().Precision
	items := f.Items()
	out := make([]WireItem, 0, len(items))
	for _, li := range items {
		out = append(out, WireItem{
			ItemID:     li.ItemID,
			Quantity:   li.Quantity.InexactFloat64(),
			UnitPrice:  money.ToNumber(li.UnitPrice, p),
			TaxPercent: li.TaxPercent.InexactFloat64(),
			Subtotal:   money.ToNumber(li.Subtotal, p),
			Tax:        money.ToNumber(li.Tax, p),
			Total:      money.ToNumber(li.Total, p),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}

// Totals flattens the aggregate, normalizing the due date through the
// company timezone to the UTC string the services expect.
func Totals(f *Form, companyTZ string) (WireTotals, error) {
	p := f.Settings().Precision
	agg := f.Aggregate()

	due := ""
	if !agg.PaymentDueDate.IsZero() {
		var err error
		due, err = timeutil.ToServiceUTC(agg.PaymentDueDate, companyTZ)
		if err != nil {
			return WireTotals{}, err
		}
	}

	return WireTotals{
		Subtotal:           money.ToNumber(agg.Subtotal, p),
		Discount:           money.ToNumber(agg.Discount, p),
		TotalAfterDiscount: money.ToNumber(agg.TotalAfterDiscount, p),
		TaxName:            agg.TaxName,
		TaxPercent:         agg.TaxPercent.InexactFloat64(),
		Tax:                money.ToNumber(agg.Tax, p),
		TotalAfterTax:      money.ToNumber(agg.TotalAfterTax, p),
		AmountPaid:         money.ToNumber(agg.AmountPaid, p),
		AmountDue:          money.ToNumber(agg.AmountDue, p),
		IsCredit:           agg.IsCredit,
		PaymentDueDate:     due,
	}, nil
}

// DateUTC normalizes a document date the same way the due date is.
func DateUTC(t time.Time, companyTZ string) (string, error) {
	return timeutil.ToServiceUTC(t, companyTZ)
}
