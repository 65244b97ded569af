package cmd

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/calckorgo82/stockwebapp/config"
	"github.com/calckorgo82/stockwebapp/quote"
	"github.com/calckorgo82/stockwebapp/session"
)

func TestNewQuoteService(t *testing.T) {
	tests := []struct {
		provider string
		iex      bool
	}{
		{config.ProviderAlphaVantage, false},
		{config.ProviderIEX, true},
	}
	for _, tt := range tests {
		svc := newQuoteService(&config.Config{QuoteProvider: tt.provider, APIKey: "k"})
		_, isIEX := svc.(*quote.JSONPath)
		_, isAV := svc.(*quote.AlphaVantage)
		if isIEX != tt.iex || isAV == tt.iex {
			t.Errorf("newQuoteService(%q) = %T", tt.provider, svc)
		}
	}
}

func TestNewQuoteServiceNames(t *testing.T) {
	for _, names := range []bool{true, false} {
		svc := newQuoteService(&config.Config{QuoteProvider: config.ProviderAlphaVantage, QuoteNames: names})
		av, ok := svc.(*quote.AlphaVantage)
		if !ok {
			t.Fatalf("newQuoteService() = %T, want *quote.AlphaVantage", svc)
		}
		if av.Names != names {
			t.Errorf("Names = %v, want %v", av.Names, names)
		}
	}
}

func TestNewSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	tests := []struct {
		cfg  config.Config
		want string
	}{
		{config.Config{SessionStore: config.StoreMemory}, "*session.MemoryStore"},
		{config.Config{SessionStore: config.StoreFile, SessionDir: t.TempDir()}, "*session.FileStore"},
		{config.Config{SessionStore: config.StoreRedis, Redis: config.Redis{Addr: mr.Addr()}}, "*session.RedisStore"},
	}
	for _, tt := range tests {
		store, release, err := newSessionStore(ctx, &tt.cfg)
		if err != nil {
			t.Fatalf("newSessionStore(%s): %v", tt.cfg.SessionStore, err)
		}
		var got string
		switch store.(type) {
		case *session.MemoryStore:
			got = "*session.MemoryStore"
		case *session.FileStore:
			got = "*session.FileStore"
		case *session.RedisStore:
			got = "*session.RedisStore"
		}
		if got != tt.want {
			t.Errorf("newSessionStore(%s) = %T, want %s", tt.cfg.SessionStore, store, tt.want)
		}
		release()
	}

	if _, _, err := newSessionStore(ctx, &config.Config{SessionStore: "cookie"}); err == nil {
		t.Error("unknown store: expected error")
	}
}
