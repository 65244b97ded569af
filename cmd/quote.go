package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/calckorgo82/stockwebapp/config"
	"github.com/calckorgo82/stockwebapp/web"
	"github.com/google/subcommands"
)

type quoteCmd struct{}

func (*quoteCmd) Name() string             { return "quote" }
func (*quoteCmd) Synopsis() string         { return "print the current price of symbols" }
func (*quoteCmd) Usage() string            { return "quote SYMBOL...\n" }
func (*quoteCmd) SetFlags(f *flag.FlagSet) {}

func (*quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "quote: at least one symbol is required")
		return subcommands.ExitUsageError
	}
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return subcommands.ExitFailure
	}

	quotes := newQuoteService(cfg)
	status := subcommands.ExitSuccess
	for _, symbol := range f.Args() {
		q, err := quotes.Lookup(ctx, symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", symbol, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Printf("%-8s %-40s %s\n", q.Symbol, q.Name, web.USD(q.Price))
	}
	return status
}
