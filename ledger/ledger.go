package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/calckorgo82/stockwebapp/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientFunds  = errors.New("not enough cash")
	ErrInsufficientShares = errors.New("not enough shares")
	ErrInvalidShares      = errors.New("share count must not be zero")
	ErrInvalidPrice       = errors.New("price must be positive")
	ErrUnknownUser        = errors.New("unknown user")
)

// Holding is the net position of a user in one symbol.
type Holding struct {
	Symbol string
	Shares int64
}

// Ledger records trades in the portfolio table and keeps users.cash in step.
type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// RecordTrade appends a trade of shares (negative to sell) at price and
// debits the user's cash by shares × price. Both writes commit together.
func (l *Ledger) RecordTrade(ctx context.Context, userID uint, symbol string, shares int64, price decimal.Decimal) (*models.Transaction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if shares == 0 {
		return nil, ErrInvalidShares
	}
	if !price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	entry := models.Transaction{
		UserID: userID,
		Symbol: symbol,
		Shares: shares,
		Price:  price,
		Total:  price.Mul(decimal.NewFromInt(shares)),
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := forUpdate(tx).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", userID, ErrUnknownUser)
			}
			return err
		}

		if shares > 0 && entry.Total.GreaterThan(user.Cash) {
			return ErrInsufficientFunds
		}
		if shares < 0 {
			held, err := holding(tx, userID, symbol)
			if err != nil {
				return err
			}
			if held < -shares {
				return fmt.Errorf("%w: holding %d %s", ErrInsufficientShares, held, symbol)
			}
		}

		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("insert trade: %w", err)
		}
		cash := user.Cash.Sub(entry.Total)
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("cash", cash).Error; err != nil {
			return fmt.Errorf("update cash: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Holdings returns the net shares per symbol, ordered by symbol. Symbols whose
// trades net to zero are included.
func (l *Ledger) Holdings(ctx context.Context, userID uint) ([]Holding, error) {
	var holdings []Holding
	err := l.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("symbol, SUM(shares) AS shares").
		Where("user_id = ?", userID).
		Group("symbol").
		Order("symbol").
		Scan(&holdings).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate holdings: %w", err)
	}
	return holdings, nil
}

// Holding returns the net shares of symbol owned by the user.
func (l *Ledger) Holding(ctx context.Context, userID uint, symbol string) (int64, error) {
	return holding(l.db.WithContext(ctx), userID, strings.ToUpper(strings.TrimSpace(symbol)))
}

// History returns every trade of the user, oldest first.
func (l *Ledger) History(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var entries []models.Transaction
	err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return entries, nil
}

func holding(db *gorm.DB, userID uint, symbol string) (int64, error) {
	var shares int64
	err := db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(shares), 0)").
		Where("user_id = ? AND symbol = ?", userID, symbol).
		Scan(&shares).Error
	if err != nil {
		return 0, fmt.Errorf("sum shares of %s: %w", symbol, err)
	}
	return shares, nil
}

// sqlite serializes writers on its own and rejects FOR UPDATE.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
