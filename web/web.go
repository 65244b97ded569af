// Package web holds the HTML templates and their helper functions.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every page template with the helper functions installed.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html"))
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"usd":       USD,
		"timestamp": Timestamp,
	}
}

// USD formats an amount as dollars and cents, e.g. $1,234.50.
func USD(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
