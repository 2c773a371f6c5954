package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterSupplierRequest struct {
	Name        string `json:"name"         validate:"required,min=1,max=50"`
	Type        string `json:"type"         validate:"required,oneof=vendor distributor retailer"`
	Email       string `json:"email"        validate:"required,email,max=254"`
	CountryID   uint   `json:"country"      validate:"required"`
	City        string `json:"city"         validate:"required,max=50"`
	Street      string `json:"street"       validate:"required,max=50"`
	HouseNumber string `json:"house_number" validate:"required,max=20"`
}

// UpdateSupplierRequest deliberately has no Type field: the classification is
// fixed once registered.
type UpdateSupplierRequest struct {
	Name        *string `json:"name"         validate:"omitempty,min=1,max=50"`
	Email       *string `json:"email"        validate:"omitempty,email,max=254"`
	CountryID   *uint   `json:"country"`
	City        *string `json:"city"         validate:"omitempty,max=50"`
	Street      *string `json:"street"       validate:"omitempty,max=50"`
	HouseNumber *string `json:"house_number" validate:"omitempty,max=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SupplierResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Email       string    `json:"email"`
	UserID      *uint     `json:"user"`
	CountryID   uint      `json:"country"`
	City        string    `json:"city"`
	Street      string    `json:"street"`
	HouseNumber string    `json:"house_number"`
	CreatedAt   time.Time `json:"created_at"`
}
