package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/calckorgo82/stockwebapp/accounts"
	"github.com/calckorgo82/stockwebapp/forms"
	"github.com/calckorgo82/stockwebapp/ledger"
	"github.com/calckorgo82/stockwebapp/quote"
	"github.com/gin-gonic/gin"
)

// Apology renders the uniform error page.
func Apology(c *gin.Context, status int, message string) {
	c.HTML(status, "apology.html", gin.H{
		"title":   "Apology",
		"code":    status,
		"status":  http.StatusText(status),
		"message": message,
		"user_id": c.Value("user_id"),
	})
}

// classify maps an error to the status and message shown to the user.
func classify(err error) (int, string) {
	var verr *forms.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, accounts.ErrInvalidCredentials):
		return http.StatusForbidden, accounts.ErrInvalidCredentials.Error()
	case errors.Is(err, accounts.ErrMissingField),
		errors.Is(err, accounts.ErrWeakPassword),
		errors.Is(err, accounts.ErrDuplicateUsername),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInsufficientShares),
		errors.Is(err, ledger.ErrInvalidShares):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, quote.ErrUnknownSymbol):
		return http.StatusBadRequest, quote.ErrUnknownSymbol.Error()
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

// fail renders err as an apology; unexpected errors are logged and hidden.
func fail(c *gin.Context, err error) {
	status, message := classify(err)
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else if errors.Is(err, quote.ErrUnknownSymbol) {
		log.Printf("quote: %v", err)
	}
	Apology(c, status, message)
	c.Abort()
}

// Recovery turns panics into a 500 apology.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		Apology(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		c.Abort()
	})
}

func NotFound(c *gin.Context) {
	Apology(c, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

func MethodNotAllowed(c *gin.Context) {
	Apology(c, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
}
