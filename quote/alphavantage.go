package quote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const AlphaVantageURL = "https://www.alphavantage.co"

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol string `json:"01. symbol"`
		Price  string `json:"05. price"`
	} `json:"Global Quote"`
}

type symbolSearchResponse struct {
	BestMatches []struct {
		Symbol string `json:"1. symbol"`
		Name   string `json:"2. name"`
	} `json:"bestMatches"`
}

// AlphaVantage reads prices from the GLOBAL_QUOTE endpoint and company names
// from SYMBOL_SEARCH. Name lookups double the calls made against the API
// rate limit; with Names off the symbol is used as the name.
type AlphaVantage struct {
	client  *http.Client
	baseURL string
	apiKey  string

	Names bool
}

func NewAlphaVantage(client *http.Client, baseURL, apiKey string) *AlphaVantage {
	if baseURL == "" {
		baseURL = AlphaVantageURL
	}
	return &AlphaVantage{client: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, Names: true}
}

func (a *AlphaVantage) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return nil, unknown(symbol, nil)
	}

	var result globalQuoteResponse
	if err := getJSON(ctx, a.client, a.endpoint("GLOBAL_QUOTE", "symbol", symbol), &result); err != nil {
		return nil, unknown(symbol, err)
	}
	if result.GlobalQuote.Price == "" {
		return nil, unknown(symbol, nil)
	}
	price, err := decimal.NewFromString(result.GlobalQuote.Price)
	if err != nil {
		return nil, unknown(symbol, fmt.Errorf("parse price %q: %w", result.GlobalQuote.Price, err))
	}
	if !price.IsPositive() {
		return nil, unknown(symbol, errors.New("price is zero"))
	}

	name := symbol
	if a.Names {
		name = a.name(ctx, symbol)
	}
	return &Quote{Symbol: symbol, Name: name, Price: price}, nil
}

// name falls back to the symbol itself when the search has no exact match.
func (a *AlphaVantage) name(ctx context.Context, symbol string) string {
	var result symbolSearchResponse
	if err := getJSON(ctx, a.client, a.endpoint("SYMBOL_SEARCH", "keywords", symbol), &result); err != nil {
		log.Printf("quote: symbol search for %s: %v", symbol, err)
		return symbol
	}
	for _, m := range result.BestMatches {
		if strings.EqualFold(m.Symbol, symbol) && m.Name != "" {
			return m.Name
		}
	}
	return symbol
}

func (a *AlphaVantage) endpoint(function, param, value string) string {
	q := url.Values{}
	q.Set("function", function)
	q.Set(param, value)
	q.Set("apikey", a.apiKey)
	return a.baseURL + "/query?" + q.Encode()
}
