// Package forms binds submitted HTML form values into typed inputs.
package forms

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationError reports a missing or malformed form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

type symbolForm struct {
	Symbol string `form:"symbol" binding:"required"`
}

type sharesForm struct {
	Shares int64 `form:"shares" binding:"required,min=1"`
}

type sharesPresentForm struct {
	Shares string `form:"shares" binding:"required"`
}

type credentialsForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Registration holds the register form. Password rules are enforced by the
// account store.
type Registration struct {
	Username     string `form:"username"`
	Password     string `form:"password"`
	Confirmation string `form:"confirmation"`
}

// Trade is a buy or sell order for a whole number of shares.
type Trade struct {
	Symbol string
	Shares int64
}

type Credentials struct {
	Username string
	Password string
}

// messages maps Field.tag of a failed binding rule to the text shown.
var messages = map[string]string{
	"Symbol.required":   "missing symbol",
	"Shares.required":   "missing shares",
	"Shares.min":        "shares must be a positive number",
	"Username.required": "must provide username",
	"Password.required": "must provide password",
}

// bind maps the request form onto obj. Validation failures come back as
// *ValidationError; number conversion errors are returned unchanged.
func bind(c *gin.Context, obj any) error {
	err := c.ShouldBindWith(obj, binding.Form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
			return invalid(field, msg)
		}
		return invalid(field, "invalid "+field)
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return err
	}
	return invalid("", "malformed form")
}

// BindSymbol reads the symbol field as an uppercase ticker.
func BindSymbol(c *gin.Context) (string, error) {
	var f symbolForm
	if err := bind(c, &f); err != nil {
		return "", err
	}
	symbol := strings.ToUpper(strings.TrimSpace(f.Symbol))
	if symbol == "" {
		return "", invalid("symbol", "missing symbol")
	}
	return symbol, nil
}

// BindShares reads the shares field as a positive whole number.
func BindShares(c *gin.Context) (int64, error) {
	var f sharesForm
	err := bind(c, &f)
	if err == nil {
		return f.Shares, nil
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		switch {
		case errors.Is(numErr.Err, strconv.ErrRange):
			return 0, invalid("shares", "too many shares")
		case isDecimal(numErr.Num):
			return 0, invalid("shares", "shares must be a whole number")
		default:
			return 0, invalid("shares", "shares must be a number")
		}
	}
	// A submitted zero fails "required" like an empty field does.
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Field == "shares" && strings.TrimSpace(c.Request.FormValue("shares")) != "" {
		return 0, invalid("shares", "shares must be a positive number")
	}
	return 0, err
}

// RequireShares reports a missing shares field without checking its value.
func RequireShares(c *gin.Context) error {
	return bind(c, &sharesPresentForm{})
}

func isDecimal(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// BindTrade reads the symbol and shares fields.
func BindTrade(c *gin.Context) (Trade, error) {
	symbol, err := BindSymbol(c)
	if err != nil {
		return Trade{}, err
	}
	shares, err := BindShares(c)
	if err != nil {
		return Trade{}, err
	}
	return Trade{Symbol: symbol, Shares: shares}, nil
}

// BindCredentials reads the login form.
func BindCredentials(c *gin.Context) (Credentials, error) {
	var f credentialsForm
	if err := bind(c, &f); err != nil {
		return Credentials{}, err
	}
	creds := Credentials{Username: strings.TrimSpace(f.Username), Password: f.Password}
	if creds.Username == "" {
		return Credentials{}, invalid("username", "must provide username")
	}
	return creds, nil
}

// BindRegistration reads the register form.
func BindRegistration(c *gin.Context) (Registration, error) {
	var reg Registration
	if err := bind(c, &reg); err != nil {
		return Registration{}, err
	}
	reg.Username = strings.TrimSpace(reg.Username)
	return reg, nil
}
