package model

import "time"

// Country is bulk-loaded reference data keyed by ISO 3166-1 alpha-2 code.
type Country struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"size:2;uniqueIndex;not null"`
	Name string `gorm:"size:60;uniqueIndex;not null"`
}

func (Country) TableName() string { return "countries" }

type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:50;uniqueIndex;not null"`
}

func (Category) TableName() string { return "categories" }

// Product is created by a vendor's employee. SupplierID is the owning vendor.
type Product struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:25;index;not null"`
	Model       *string   `gorm:"size:50"`
	CategoryID  uint      `gorm:"index;not null"`
	SupplierID  *uint     `gorm:"index"`
	UserID      *uint     `gorm:"index"`
	ReleaseDate time.Time `gorm:"type:date;not null"`
	ViewCounter int       `gorm:"not null"`
}

func (Product) TableName() string { return "products" }
