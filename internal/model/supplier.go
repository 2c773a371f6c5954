package model

import "time"

// SupplierType is the business classification of a trading party.
// It is fixed at registration.
type SupplierType string

const (
	SupplierVendor      SupplierType = "vendor"
	SupplierDistributor SupplierType = "distributor"
	SupplierRetailer    SupplierType = "retailer"
)

// Valid reports whether t is one of the three known classifications.
func (t SupplierType) Valid() bool {
	switch t {
	case SupplierVendor, SupplierDistributor, SupplierRetailer:
		return true
	}
	return false
}

// Supplier is a trading party: a vendor, distributor or retailer.
// UserID records the employee who registered it.
type Supplier struct {
	ID           uint         `gorm:"primaryKey"`
	Name         string       `gorm:"size:50;uniqueIndex;not null"`
	SupplierType SupplierType `gorm:"column:type;type:varchar(20);not null"`
	Email        string       `gorm:"size:254;uniqueIndex;not null"`
	UserID       *uint        `gorm:"index"`
	CountryID    uint         `gorm:"index;not null"`
	City         string       `gorm:"size:50;not null"`
	Street       string       `gorm:"size:50;not null"`
	HouseNumber  string       `gorm:"size:20;not null"`
	CreatedAt    time.Time
}

func (Supplier) TableName() string { return "suppliers" }
