package printing

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// PDFRenderer lays a Document out with maroto.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (p *PDFRenderer) Render(ctx context.Context, doc Document) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, string(doc.Kind), props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, doc.CompanyName, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Number: "+doc.Number, props.Text{Top: 0}),
			text.New("Date: "+doc.Date, props.Text{Top: 4}),
			text.New(dueLine(doc), props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New(doc.Kind.PartyLabel(), props.Text{Style: fontstyle.Bold}),
			text.New(doc.PartyName, props.Text{Top: 5}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range doc.Items {
		m.AddRow(8,
			text.NewCol(6, line.Name, props.Text{Size: 9}),
			text.NewCol(2, line.Quantity, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, line.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	totals := []struct {
		label string
		value string
		bold  bool
	}{
		{"Subtotal", doc.Subtotal, false},
		{"Discount", doc.Discount, false},
		{doc.TaxName, doc.Tax, false},
		{"Total", doc.Total, true},
		{"Amount paid", doc.AmountPaid, false},
		{"Amount due", doc.AmountDue, true},
	}
	for _, row := range totals {
		style := fontstyle.Normal
		if row.bold {
			style = fontstyle.Bold
		}
		m.AddRow(7,
			col.New(7),
			text.NewCol(3, row.label, props.Text{Size: 9, Style: style}),
			text.NewCol(2, row.value, props.Text{Size: 9, Style: style, Align: align.Right}),
		)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out.GetBytes()), nil
}

func dueLine(doc Document) string {
	if !doc.IsCredit || doc.DueDate == "" {
		return "Paid in full"
	}
	return "Payment due: " + doc.DueDate
}
