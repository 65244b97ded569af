package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a registered account and its remaining virtual cash.
type User struct {
	ID        uint            `gorm:"primaryKey"`
	Username  string          `gorm:"uniqueIndex;not null"`
	Hash      string          `gorm:"not null"`
	Cash      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
