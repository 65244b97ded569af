package cmd

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calckorgo82/stockwebapp/accounts"
	"github.com/calckorgo82/stockwebapp/config"
	"github.com/calckorgo82/stockwebapp/database"
	"github.com/calckorgo82/stockwebapp/handlers"
	"github.com/calckorgo82/stockwebapp/ledger"
	"github.com/calckorgo82/stockwebapp/session"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr   string
	secure bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the web application" }
func (*serveCmd) Usage() string {
	return `serve [-addr host:port] [-secure]

Runs the trading simulator web server until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "listen address, overrides ADDR")
	f.BoolVar(&c.secure, "secure", false, "mark the session cookie Secure (serve behind https)")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return subcommands.ExitFailure
	}
	if c.addr != "" {
		cfg.Addr = c.addr
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Printf("Failed to open database: %v", err)
		return subcommands.ExitFailure
	}
	defer database.Close(db)

	store, closeStore, err := newSessionStore(ctx, cfg)
	if err != nil {
		log.Printf("Failed to open session store: %v", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	sessions := session.NewManager(store, []byte(cfg.JWTSecret), cfg.SessionTTL)
	sessions.Secure = c.secure

	router := handlers.NewRouter(&handlers.Handler{
		Accounts: accounts.NewStore(db, cfg.StartingCash),
		Ledger:   ledger.New(db),
		Quotes:   newQuoteService(cfg),
		Sessions: sessions,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: router}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s (db=%s, sessions=%s, quotes=%s)", cfg.Addr, cfg.DB.Driver, cfg.SessionStore, cfg.QuoteProvider)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server: %v", err)
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
