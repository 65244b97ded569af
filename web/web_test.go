package web

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestUSD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"5000", "$5,000.00"},
		{"10000.00", "$10,000.00"},
		{"1234.5", "$1,234.50"},
		{"0.005", "$0.01"},
		{"0", "$0.00"},
		{"500.2549", "$500.25"},
	}
	for _, tt := range tests {
		if got := USD(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("USD(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTemplatesRender(t *testing.T) {
	tmpl := Templates()
	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "apology.html", map[string]any{
		"title":   "Apology",
		"code":    400,
		"status":  "Bad Request",
		"message": "invalid symbol",
	})
	if err != nil {
		t.Fatalf("ExecuteTemplate() error = %v", err)
	}
	if !strings.Contains(buf.String(), "invalid symbol") {
		t.Errorf("apology page missing message: %s", buf.String())
	}

	for _, name := range []string{"index.html", "buy.html", "sell.html", "quote.html", "quoted.html", "history.html", "login.html", "register.html"} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("template %s not defined", name)
		}
	}
}
