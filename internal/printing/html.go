package printing

import (
	"bytes"
	"html/template"
)

const documentHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Kind}} {{.Number}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 40px;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      color: #1a1f36;
      background: #f7f9fc;
    }
    .document-card {
      background: #ffffff;
      max-width: 760px;
      margin: 0 auto;
      padding: 60px;
      box-shadow: 0 2px 5px rgba(0,0,0,0.04);
      border-radius: 4px;
    }
    .header {
      display: flex;
      justify-content: space-between;
      margin-bottom: 40px;
    }
    .header h1 { margin: 0; font-size: 24px; }
    .company { text-align: right; font-weight: 600; color: #8792a2; }
    .label {
      font-size: 11px;
      text-transform: uppercase;
      color: #8792a2;
      margin-bottom: 6px;
      font-weight: 600;
    }
    .value { font-size: 14px; line-height: 1.5; }
    .meta { display: flex; justify-content: space-between; margin-bottom: 40px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
    th {
      text-align: left;
      text-transform: uppercase;
      font-size: 11px;
      color: #8792a2;
      border-bottom: 1px solid #e3e8ee;
      padding: 10px 0;
    }
    td { padding: 12px 0; border-bottom: 1px solid #e3e8ee; font-size: 14px; }
    .right { text-align: right; }
    .totals { display: flex; flex-direction: column; align-items: flex-end; }
    .total-row {
      display: flex;
      justify-content: space-between;
      width: 260px;
      padding: 6px 0;
      font-size: 14px;
    }
    .total-final {
      border-top: 1px solid #e3e8ee;
      margin-top: 10px;
      padding-top: 10px;
      font-weight: 700;
      font-size: 16px;
    }
  </style>
</head>
<body>
  <div class="document-card">
    <div class="header">
      <div>
        <h1>{{.Kind}}</h1>
        <div class="label" style="margin-top: 12px;">Number</div>
        <div class="value">{{.Number}}</div>
      </div>
      <div class="company">{{.CompanyName}}</div>
    </div>

    <div class="meta">
      <div>
        <div class="label">{{.Kind.PartyLabel}}</div>
        <div class="value"><strong>{{.PartyName}}</strong></div>
      </div>
      <div>
        <div class="label">Date</div>
        <div class="value">{{.Date}}</div>
        {{if .IsCredit}}
        <div class="label" style="margin-top: 16px;">Payment due</div>
        <div class="value">{{.DueDate}}</div>
        {{end}}
      </div>
    </div>

    <table>
      <thead>
        <tr>
          <th style="width: 50%;">Item</th>
          <th class="right">Qty</th>
          <th class="right">Unit price</th>
          <th class="right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{.Name}}</td>
          <td class="right">{{.Quantity}}</td>
          <td class="right">{{.UnitPrice}}</td>
          <td class="right">{{.Amount}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div class="total-row"><span>Subtotal</span><span>{{.Subtotal}}</span></div>
      <div class="total-row"><span>Discount</span><span>{{.Discount}}</span></div>
      <div class="total-row"><span>{{.TaxName}}</span><span>{{.Tax}}</span></div>
      <div class="total-row total-final"><span>Total</span><span>{{.Total}}</span></div>
      <div class="total-row"><span>Amount paid</span><span>{{.AmountPaid}}</span></div>
      <div class="total-row"><span>Amount due</span><span>{{.AmountDue}}</span></div>
    </div>
  </div>
</body>
</html>
`

// HTMLRenderer renders a Document for the local preview server.
type HTMLRenderer struct {
	tpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		tpl: template.Must(template.New("document").Parse(documentHTMLTemplate)),
	}
}

func (r *HTMLRenderer) Render(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
