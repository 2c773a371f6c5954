package model

import "time"

// User is an authenticated principal. An employee of a trading party carries
// a SupplierID; the supplier's type is never copied onto this row and is
// resolved per request instead.
type User struct {
	ID             uint    `gorm:"primaryKey"`
	Username       string  `gorm:"size:150;not null"`
	Email          string  `gorm:"size:254;uniqueIndex;not null"`
	Phone          *string `gorm:"size:32"`
	PasswordHash   string  `gorm:"not null"`
	IsActive       bool    `gorm:"not null"`
	IsSuperuser    bool    `gorm:"not null"`
	IsPersonalData bool    `gorm:"not null"`
	TgChatID       *string `gorm:"size:64"`
	SupplierID     *uint   `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (User) TableName() string { return "users" }
