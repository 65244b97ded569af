// Package quote looks up current stock prices from third-party services.
package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnknownSymbol is returned for any lookup that yields no usable price,
// including transport failures.
var ErrUnknownSymbol = errors.New("invalid symbol")

// Quote is the current name and price of a ticker.
type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

// Service is implemented by every quote provider.
type Service interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}

// Normalize returns the canonical form of a ticker symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func unknown(symbol string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w %q", ErrUnknownSymbol, symbol)
	}
	return fmt.Errorf("%w %q: %v", ErrUnknownSymbol, symbol, cause)
}

// getJSON performs a GET request and unmarshals the JSON response into data.
func getJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
