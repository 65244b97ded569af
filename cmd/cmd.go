// Package cmd implements the command line subcommands.
package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/calckorgo82/stockwebapp/config"
	"github.com/calckorgo82/stockwebapp/quote"
	"github.com/calckorgo82/stockwebapp/session"
	"github.com/google/subcommands"
)

// Commands lists every subcommand to register.
var Commands = []subcommands.Command{
	&serveCmd{},
	&migrateCmd{},
	&quoteCmd{},
}

func newQuoteService(cfg *config.Config) quote.Service {
	client := &http.Client{Timeout: cfg.QuoteTimeout}
	if cfg.QuoteProvider == config.ProviderIEX {
		return quote.NewIEX(client, cfg.QuoteBaseURL, cfg.APIKey)
	}
	av := quote.NewAlphaVantage(client, cfg.QuoteBaseURL, cfg.APIKey)
	av.Names = cfg.QuoteNames
	return av
}

// newSessionStore returns the configured store and a function releasing it.
func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case config.StoreMemory:
		return session.NewMemoryStore(), func() {}, nil
	case config.StoreRedis:
		rdb, err := config.OpenRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(rdb), func() { rdb.Close() }, nil
	case config.StoreFile:
		store, err := session.NewFileStore(cfg.SessionDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
	return nil, nil, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
}
