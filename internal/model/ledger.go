package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation is the kind of an order.
type Operation string

const (
	OpAddition Operation = "addition"
	OpBuying   Operation = "buying"
	OpReturn   Operation = "return"
	OpWriteOff Operation = "write_off"
)

func (o Operation) Valid() bool {
	switch o {
	case OpAddition, OpBuying, OpReturn, OpWriteOff:
		return true
	}
	return false
}

// Order is the immutable journal entry of one trading operation.
// SupplierID is the counterparty, OwnerID the submitting party.
type Order struct {
	ID            uint             `gorm:"primaryKey"`
	OwnerID       uint             `gorm:"index;not null"`
	SupplierID    uint             `gorm:"index;not null"`
	ProductID     uint             `gorm:"index;not null"`
	UserID        uint             `gorm:"index;not null"`
	Operation     Operation        `gorm:"type:varchar(20);not null"`
	Quantity      int              `gorm:"not null"`
	Price         decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Amount        decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	PaymentAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt     time.Time
}

func (Order) TableName() string { return "orders" }

// Warehouse is one stock line: the quantity of a product held by a party.
// The (owner, product) pair is unique.
type Warehouse struct {
	ID        uint `gorm:"primaryKey"`
	OwnerID   uint `gorm:"uniqueIndex:idx_warehouse_owner_product;not null"`
	ProductID uint `gorm:"uniqueIndex:idx_warehouse_owner_product;index;not null"`
	Quantity  int  `gorm:"not null;check:chk_warehouses_quantity,quantity >= 0"`
}

func (Warehouse) TableName() string { return "warehouses" }

// Payable is the running balance between a debtor (Owner) and a creditor
// (Supplier). Positive Amount means the owner owes the supplier.
// Only one unpaid row may exist per pair.
type Payable struct {
	ID         uint            `gorm:"primaryKey"`
	OwnerID    uint            `gorm:"index:idx_payables_open_pair,unique,where:is_paid = false;not null"`
	SupplierID uint            `gorm:"index:idx_payables_open_pair,unique,where:is_paid = false;index;not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsPaid     bool            `gorm:"not null"`
	PaidDate   *time.Time      `gorm:"type:date"`
	CreatedAt  time.Time
}

func (Payable) TableName() string { return "payables" }
