package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one row of the append-only trade ledger. Shares is positive
// for a buy and negative for a sell; Total always equals Shares × Price.
type Transaction struct {
	ID        uint            `gorm:"primaryKey"`
	UserID    uint            `gorm:"index;not null"`
	Symbol    string          `gorm:"index;not null"`
	Shares    int64           `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Total     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (Transaction) TableName() string {
	return "portfolio"
}
