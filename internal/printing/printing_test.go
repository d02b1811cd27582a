package printing

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/smallbiznis/ledgerline/internal/document"
	"github.com/smallbiznis/ledgerline/internal/session"
	"github.com/stretchr/testify/assert"
)

func printableSale() Document {
	sess := session.Context{
		Company: session.Company{
			Name:             "Acme Traders",
			Currency:         "USD",
			DecimalPrecision: 2,
			Timezone:         "UTC",
		},
	}
	items := []document.WireItem{
		{ItemID: "i1", Quantity: 2, UnitPrice: 50, Subtotal: 100, Tax: 10, Total: 110},
	}
	totals := document.WireTotals{
		Subtotal:           100,
		Discount:           20,
		TotalAfterDiscount: 80,
		TaxName:            "VAT",
		TaxPercent:         10,
		Tax:                8,
		TotalAfterTax:      88,
		AmountPaid:         0,
		AmountDue:          88,
		IsCredit:           true,
		PaymentDueDate:     "2026-05-15T00:00:00Z",
	}
	names := map[string]string{"i1": "Widget"}
	return FromWire(KindSale, "INV-001", sess, "Globex", "2026-05-01T00:00:00Z", items, names, totals)
}

func TestFromWire_FormatsView(t *testing.T) {
	doc := printableSale()

	assert.Equal(t, "USD 100.00", doc.Subtotal)
	assert.Equal(t, "USD 88.00", doc.Total)
	assert.Equal(t, "USD 88.00", doc.AmountDue)
	assert.Equal(t, "VAT (10%)", doc.TaxName)
	assert.Equal(t, "2026-05-01", doc.Date)
	assert.Equal(t, "2026-05-15", doc.DueDate)
	assert.Equal(t, "Bill to", doc.Kind.PartyLabel())

	assert.Len(t, doc.Items, 1)
	assert.Equal(t, "Widget", doc.Items[0].Name)
	assert.Equal(t, "2", doc.Items[0].Quantity)
	assert.Equal(t, "USD 50.00", doc.Items[0].UnitPrice)
}

func TestFromWire_FallsBackToItemID(t *testing.T) {
	sess := session.Context{Company: session.Company{DecimalPrecision: 2, Timezone: "UTC"}}
	items := []document.WireItem{{ItemID: "i9", Quantity: 1, UnitPrice: 5, Total: 5}}
	doc := FromWire(KindQuotation, "Q-1", sess, "Globex", "", items, nil, document.WireTotals{})

	assert.Equal(t, "i9", doc.Items[0].Name)
	// No currency configured: bare amount.
	assert.Equal(t, "5.00", doc.Items[0].UnitPrice)
}

func TestHTMLRenderer_RendersDocument(t *testing.T) {
	out, err := NewHTMLRenderer().Render(printableSale())
	assert.NoError(t, err)

	assert.Contains(t, out, "Sale Invoice")
	assert.Contains(t, out, "INV-001")
	assert.Contains(t, out, "Acme Traders")
	assert.Contains(t, out, "Globex")
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "USD 88.00")
	assert.Contains(t, out, "Payment due")
}

func TestHTMLRenderer_EscapesValues(t *testing.T) {
	doc := printableSale()
	doc.PartyName = `<script>alert("x")</script>`
	out, err := NewHTMLRenderer().Render(doc)
	assert.NoError(t, err)
	assert.NotContains(t, out, "<script>alert")
}

func TestPDFRenderer_ProducesBytes(t *testing.T) {
	r, err := NewPDFRenderer().Render(context.Background(), printableSale())
	assert.NoError(t, err)

	raw, err := io.ReadAll(r)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}
