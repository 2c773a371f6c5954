package infra

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOrderReceipt(t *testing.T) {
	paid := decimal.NewFromInt(90000)
	out, err := RenderOrderReceipt(ReceiptData{
		OrderID:       12,
		CreatedAt:     "2026-10-01 09:30",
		Operation:     "buying",
		OwnerName:     "Nordic Distribution",
		SupplierName:  "Acme Devices",
		ProductName:   "Phone 7",
		Quantity:      3,
		Price:         decimal.NewFromInt(45000),
		Amount:        decimal.NewFromInt(135000),
		PaymentAmount: &paid,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Greater(t, len(out), 500)
}
