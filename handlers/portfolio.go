package handlers

import (
	"fmt"
	"log"
	"net/http"

	"github.com/calckorgo82/stockwebapp/forms"
	"github.com/calckorgo82/stockwebapp/ledger"
	"github.com/calckorgo82/stockwebapp/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// holdingRow is one line of the portfolio table. Priced is false when the
// quote could not be fetched.
type holdingRow struct {
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Value  decimal.Decimal
	Priced bool
}

// Index shows the current holdings valued at live prices.
func (h *Handler) Index(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	user, err := h.Accounts.User(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}
	holdings, err := h.Ledger.Holdings(ctx, userID)
	if err != nil {
		fail(c, err)
		return
	}

	total := user.Cash
	rows := make([]holdingRow, 0, len(holdings))
	for _, holding := range open(holdings) {
		row := holdingRow{Symbol: holding.Symbol, Name: holding.Symbol, Shares: holding.Shares}
		q, err := h.Quotes.Lookup(ctx, holding.Symbol)
		if err != nil {
			log.Printf("portfolio of user %d: %v", userID, err)
		} else {
			row.Name = q.Name
			row.Price = q.Price
			row.Value = q.Price.Mul(decimal.NewFromInt(holding.Shares))
			row.Priced = true
			total = total.Add(row.Value)
		}
		rows = append(rows, row)
	}

	c.HTML(http.StatusOK, "index.html", h.page(c, "Portfolio", gin.H{
		"holdings": rows,
		"cash":     user.Cash,
		"total":    total,
	}))
}

func (h *Handler) BuyForm(c *gin.Context) {
	c.HTML(http.StatusOK, "buy.html", h.page(c, "Buy", nil))
}

// Buy purchases shares at the current price. Missing fields are reported
// first, then an unknown symbol, then a bad share count.
func (h *Handler) Buy(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	symbol, err := forms.BindSymbol(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := forms.RequireShares(c); err != nil {
		fail(c, err)
		return
	}
	q, err := h.Quotes.Lookup(ctx, symbol)
	if err != nil {
		fail(c, err)
		return
	}
	shares, err := forms.BindShares(c)
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := h.Ledger.RecordTrade(ctx, userID, q.Symbol, shares, q.Price); err != nil {
		fail(c, err)
		return
	}

	h.flash(c, "Bought!")
	c.Redirect(http.StatusFound, "/")
}

// SellForm lists the symbols the user can sell.
func (h *Handler) SellForm(c *gin.Context) {
	holdings, err := h.Ledger.Holdings(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "sell.html", h.page(c, "Sell", gin.H{"holdings": open(holdings)}))
}

// Sell sells shares at the current price.
func (h *Handler) Sell(c *gin.Context) {
	userID := middleware.UserID(c)
	ctx := c.Request.Context()

	trade, err := forms.BindTrade(c)
	if err != nil {
		fail(c, err)
		return
	}

	held, err := h.Ledger.Holding(ctx, userID, trade.Symbol)
	if err != nil {
		fail(c, err)
		return
	}
	if held < trade.Shares {
		fail(c, fmt.Errorf("%w: you own %d", ledger.ErrInsufficientShares, held))
		return
	}

	q, err := h.Quotes.Lookup(ctx, trade.Symbol)
	if err != nil {
		fail(c, err)
		return
	}
	if _, err := h.Ledger.RecordTrade(ctx, userID, q.Symbol, -trade.Shares, q.Price); err != nil {
		fail(c, err)
		return
	}

	h.flash(c, "Sold!")
	c.Redirect(http.StatusFound, "/")
}

// History lists every trade, oldest first.
func (h *Handler) History(c *gin.Context) {
	entries, err := h.Ledger.History(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "history.html", h.page(c, "History", gin.H{"transactions": entries}))
}

// flash is best effort: the trade already happened.
func (h *Handler) flash(c *gin.Context, message string) {
	if err := h.Sessions.AddFlash(c, message); err != nil {
		log.Printf("flash %q: %v", message, err)
	}
}

// open drops symbols whose trades net to zero.
func open(holdings []ledger.Holding) []ledger.Holding {
	kept := make([]ledger.Holding, 0, len(holdings))
	for _, holding := range holdings {
		if holding.Shares != 0 {
			kept = append(kept, holding)
		}
	}
	return kept
}
