package dto

import "github.com/shopspring/decimal"

type WarehouseResponse struct {
	ID        uint `json:"id"`
	OwnerID   uint `json:"owner"`
	ProductID uint `json:"product"`
	Quantity  int  `json:"quantity"`
}

type PayableResponse struct {
	ID         uint            `json:"id"`
	OwnerID    uint            `json:"owner"`
	SupplierID uint            `json:"supplier"`
	Amount     decimal.Decimal `json:"amount"`
	IsPaid     bool            `json:"is_paid"`
	PaidDate   *string         `json:"paid_date"`
	CreatedAt  string          `json:"created_at"`
}

// DriftResponse describes one (owner, product) pair whose stock line no
// longer matches the order journal.
type DriftResponse struct {
	OwnerID   uint `json:"owner"`
	ProductID uint `json:"product"`
	Expected  int  `json:"expected"`
	Actual    int  `json:"actual"`
}
