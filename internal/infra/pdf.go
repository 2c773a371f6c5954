package infra

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ReceiptData is everything printed on an order receipt. Names are resolved
// by the caller so this package stays free of repository lookups.
type ReceiptData struct {
	OrderID       uint             `json:"order_id"`
	CreatedAt     string           `json:"created_at"`
	Operation     string           `json:"operation"`
	OwnerName     string           `json:"owner_name"`
	SupplierName  string           `json:"supplier_name"`
	ProductName   string           `json:"product_name"`
	Quantity      int              `json:"quantity"`
	Price         decimal.Decimal  `json:"price"`
	Amount        decimal.Decimal  `json:"amount"`
	PaymentAmount *decimal.Decimal `json:"payment_amount,omitempty"`
}

// RenderOrderReceipt renders an A5 receipt for one order and returns the PDF
// bytes.
func RenderOrderReceipt(r ReceiptData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, fmt.Sprintf("Order #%d", r.OrderID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, r.CreatedAt, "", 1, "L", false, 0, "")
	pdf.Ln(3)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(3)

	// ── Parties ──────────────────────────────────────────────────────────────
	labelW := contentW * 0.35
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(labelW, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-labelW, 6, value, "", 1, "L", false, 0, "")
	}
	row("Operation", r.Operation)
	row("Owner", r.OwnerName)
	row("Counterparty", r.SupplierName)
	row("Product", r.ProductName)
	pdf.Ln(3)

	// ── Totals ───────────────────────────────────────────────────────────────
	row("Quantity", fmt.Sprintf("%d", r.Quantity))
	row("Unit price", r.Price.StringFixed(2))
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(labelW, 8, "Amount", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW-labelW, 8, r.Amount.StringFixed(2), "T", 1, "L", false, 0, "")
	if r.PaymentAmount != nil {
		row("Paid", r.PaymentAmount.StringFixed(2))
		if diff := r.Amount.Sub(*r.PaymentAmount); !diff.IsZero() {
			row("Balance", diff.StringFixed(2))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
