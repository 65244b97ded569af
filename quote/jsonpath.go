package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

const IEXURL = "https://cloud.iexapis.com/stable"

// JSONPath is a provider for APIs serving one JSON document per symbol at
// {base}/stock/{symbol}/quote?token={key}. Name and price are extracted with
// JSONPath expressions.
type JSONPath struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	NamePath  string
	PricePath string
}

// NewIEX returns a JSONPath provider configured for IEX Cloud quotes.
func NewIEX(client *http.Client, baseURL, apiKey string) *JSONPath {
	if baseURL == "" {
		baseURL = IEXURL
	}
	return &JSONPath{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		NamePath:  "$.companyName",
		PricePath: "$.latestPrice",
	}
}

func (j *JSONPath) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return nil, unknown(symbol, nil)
	}

	addr := fmt.Sprintf("%s/stock/%s/quote?token=%s", j.baseURL, url.PathEscape(symbol), url.QueryEscape(j.apiKey))
	var jobj any
	if err := getJSON(ctx, j.client, addr, &jobj); err != nil {
		return nil, unknown(symbol, err)
	}

	jprice, err := get(j.PricePath, jobj)
	if err != nil {
		return nil, unknown(symbol, err)
	}
	price, err := toDecimal(jprice)
	if err != nil {
		return nil, unknown(symbol, fmt.Errorf("%s: %w", j.PricePath, err))
	}
	if !price.IsPositive() {
		return nil, unknown(symbol, errors.New("price is zero"))
	}

	name := symbol
	if jname, err := get(j.NamePath, jobj); err == nil {
		if s, ok := jname.(string); ok && s != "" {
			name = s
		}
	}
	return &Quote{Symbol: symbol, Name: name, Price: price}, nil
}

// get evaluates path and keeps the first answer when jsonpath returns a list.
func get(path string, jobj any) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, err
	}
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil, fmt.Errorf("%s: no value", path)
		}
		jval = jlist[0]
	}
	return jval, nil
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), nil
	case string:
		return decimal.NewFromString(strings.ReplaceAll(val, ",", ""))
	case nil:
		return decimal.Zero, errors.New("no value")
	default:
		return decimal.Zero, fmt.Errorf("not a number: %v", val)
	}
}
