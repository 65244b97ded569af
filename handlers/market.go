package handlers

import (
	"net/http"

	"github.com/calckorgo82/stockwebapp/forms"
	"github.com/gin-gonic/gin"
)

func (h *Handler) QuoteForm(c *gin.Context) {
	c.HTML(http.StatusOK, "quote.html", h.page(c, "Quote", nil))
}

// Quote shows the current price of the submitted symbol.
func (h *Handler) Quote(c *gin.Context) {
	symbol, err := forms.BindSymbol(c)
	if err != nil {
		fail(c, err)
		return
	}

	q, err := h.Quotes.Lookup(c.Request.Context(), symbol)
	if err != nil {
		fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "quoted.html", h.page(c, "Quoted", gin.H{"quote": q}))
}
