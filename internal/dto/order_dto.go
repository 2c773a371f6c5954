package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SubmitOrderRequest carries only caller-supplied fields. Owner, user and
// amount are derived on the server.
type SubmitOrderRequest struct {
	SupplierID    uint             `json:"supplier"       validate:"required"`
	ProductID     uint             `json:"product"        validate:"required"`
	Operation     string           `json:"operation"      validate:"required,oneof=addition buying return write_off"`
	Quantity      int              `json:"quantity"       validate:"required,gt=0"`
	Price         *decimal.Decimal `json:"price"          validate:"required,min=0"`
	PaymentAmount *decimal.Decimal `json:"payment_amount" validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderResponse struct {
	ID            uint             `json:"id"`
	OwnerID       uint             `json:"owner"`
	SupplierID    uint             `json:"supplier"`
	ProductID     uint             `json:"product"`
	UserID        uint             `json:"user"`
	Operation     string           `json:"operation"`
	Quantity      int              `json:"quantity"`
	Price         decimal.Decimal  `json:"price"`
	Amount        decimal.Decimal  `json:"amount"`
	PaymentAmount *decimal.Decimal `json:"payment_amount"`
	CreatedAt     time.Time        `json:"created_at"`
}
