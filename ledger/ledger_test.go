package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/calckorgo82/stockwebapp/database"
	"github.com/calckorgo82/stockwebapp/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var startingCash = decimal.RequireFromString("10000.00")

func setup(t *testing.T) (*Ledger, *gorm.DB, uint) {
	t.Helper()
	db, err := database.OpenSQLite(t.TempDir())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	user := models.User{Username: "alice", Hash: "x", Cash: startingCash}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return New(db), db, user.ID
}

func cashOf(t *testing.T, db *gorm.DB, id uint) decimal.Decimal {
	t.Helper()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	return user.Cash
}

func countRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Transaction{}).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func TestRecordTradeBuy(t *testing.T) {
	l, db, id := setup(t)
	ctx := context.Background()

	entry, err := l.RecordTrade(ctx, id, "nflx", 10, decimal.RequireFromString("500.00"))
	if err != nil {
		t.Fatalf("RecordTrade() error = %v", err)
	}
	if entry.Symbol != "NFLX" || entry.Shares != 10 {
		t.Errorf("entry = %s %d, want NFLX 10", entry.Symbol, entry.Shares)
	}
	if !entry.Total.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Total = %s, want 5000", entry.Total)
	}
	if got := cashOf(t, db, id); !got.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("cash = %s, want 5000.00", got)
	}
	if n := countRows(t, db); n != 1 {
		t.Errorf("ledger rows = %d, want 1", n)
	}
}

func TestRecordTradeRejects(t *testing.T) {
	tests := []struct {
		name    string
		symbol  string
		shares  int64
		price   string
		wantErr error
	}{
		{"buy beyond cash", "NFLX", 21, "500.00", ErrInsufficientFunds},
		{"sell more than held", "NFLX", -20, "500.00", ErrInsufficientShares},
		{"sell never bought", "AAPL", -1, "100.00", ErrInsufficientShares},
		{"zero shares", "NFLX", 0, "500.00", ErrInvalidShares},
		{"zero price", "NFLX", 1, "0", ErrInvalidPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, db, id := setup(t)
			ctx := context.Background()
			if _, err := l.RecordTrade(ctx, id, "NFLX", 10, decimal.RequireFromString("500.00")); err != nil {
				t.Fatalf("seed buy: %v", err)
			}

			_, err := l.RecordTrade(ctx, id, tt.symbol, tt.shares, decimal.RequireFromString(tt.price))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("RecordTrade() error = %v, want %v", err, tt.wantErr)
			}
			if got := cashOf(t, db, id); !got.Equal(decimal.NewFromInt(5000)) {
				t.Errorf("cash changed to %s after rejected trade", got)
			}
			if n := countRows(t, db); n != 1 {
				t.Errorf("ledger rows = %d, want 1", n)
			}
		})
	}
}

func TestRecordTradeUnknownUser(t *testing.T) {
	l, _, _ := setup(t)
	_, err := l.RecordTrade(context.Background(), 999, "NFLX", 1, decimal.NewFromInt(1))
	if !errors.Is(err, ErrUnknownUser) {
		t.Errorf("RecordTrade() error = %v, want %v", err, ErrUnknownUser)
	}
}

func TestCashMatchesLedger(t *testing.T) {
	l, db, id := setup(t)
	ctx := context.Background()

	trades := []struct {
		symbol string
		shares int64
		price  string
	}{
		{"NFLX", 10, "500.00"},
		{"AAPL", 5, "150.25"},
		{"NFLX", -4, "510.10"},
		{"AAPL", -5, "149.75"},
		{"MSFT", 3, "400.00"},
	}
	for _, tr := range trades {
		if _, err := l.RecordTrade(ctx, id, tr.symbol, tr.shares, decimal.RequireFromString(tr.price)); err != nil {
			t.Fatalf("RecordTrade(%s, %d) error = %v", tr.symbol, tr.shares, err)
		}
	}

	history, err := l.History(ctx, id)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != len(trades) {
		t.Fatalf("History() len = %d, want %d", len(history), len(trades))
	}
	sum := decimal.Zero
	for i, entry := range history {
		if entry.Symbol != trades[i].symbol || entry.Shares != trades[i].shares {
			t.Errorf("history[%d] = %s %d, want %s %d", i, entry.Symbol, entry.Shares, trades[i].symbol, trades[i].shares)
		}
		if i > 0 && entry.CreatedAt.Before(history[i-1].CreatedAt) {
			t.Errorf("history[%d] older than its predecessor", i)
		}
		sum = sum.Add(entry.Total)
	}
	if got, want := cashOf(t, db, id), startingCash.Sub(sum); !got.Equal(want) {
		t.Errorf("cash = %s, want starting - sum(total) = %s", got, want)
	}

	holdings, err := l.Holdings(ctx, id)
	if err != nil {
		t.Fatalf("Holdings() error = %v", err)
	}
	want := []Holding{{"AAPL", 0}, {"MSFT", 3}, {"NFLX", 6}}
	if len(holdings) != len(want) {
		t.Fatalf("Holdings() = %v, want %v", holdings, want)
	}
	for i := range want {
		if holdings[i] != want[i] {
			t.Errorf("Holdings()[%d] = %v, want %v", i, holdings[i], want[i])
		}
	}

	n, err := l.Holding(ctx, id, "nflx")
	if err != nil {
		t.Fatalf("Holding() error = %v", err)
	}
	if n != 6 {
		t.Errorf("Holding(NFLX) = %d, want 6", n)
	}
}

func TestSellIncreasesCash(t *testing.T) {
	l, db, id := setup(t)
	ctx := context.Background()
	if _, err := l.RecordTrade(ctx, id, "NFLX", 10, decimal.RequireFromString("500.00")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	entry, err := l.RecordTrade(ctx, id, "NFLX", -10, decimal.RequireFromString("550.00"))
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if !entry.Total.Equal(decimal.NewFromInt(-5500)) {
		t.Errorf("sell Total = %s, want -5500", entry.Total)
	}
	if got := cashOf(t, db, id); !got.Equal(decimal.NewFromInt(10500)) {
		t.Errorf("cash = %s, want 10500", got)
	}
	if n, _ := l.Holding(ctx, id, "NFLX"); n != 0 {
		t.Errorf("Holding(NFLX) = %d, want 0", n)
	}
}

func TestRecordTradeConcurrent(t *testing.T) {
	l, db, id := setup(t)
	ctx := context.Background()
	price := decimal.RequireFromString("10.00")

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.RecordTrade(ctx, id, "NFLX", 1, price); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("RecordTrade() error = %v", err)
	}
	if got := countRows(t, db); got != n {
		t.Errorf("ledger rows = %d, want %d", got, n)
	}
	if got, want := cashOf(t, db, id), startingCash.Sub(price.Mul(decimal.NewFromInt(n))); !got.Equal(want) {
		t.Errorf("cash = %s, want %s", got, want)
	}
	held, err := l.Holding(ctx, id, "NFLX")
	if err != nil {
		t.Fatalf("Holding() error = %v", err)
	}
	if held != n {
		t.Errorf("Holding() = %d, want %d", held, n)
	}
}
