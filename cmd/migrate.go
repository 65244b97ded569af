package cmd

import (
	"context"
	"flag"
	"log"

	"github.com/calckorgo82/stockwebapp/config"
	"github.com/calckorgo82/stockwebapp/database"
	"github.com/google/subcommands"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string             { return "migrate" }
func (*migrateCmd) Synopsis() string         { return "create or update the database schema" }
func (*migrateCmd) Usage() string            { return "migrate\n" }
func (*migrateCmd) SetFlags(f *flag.FlagSet) {}

func (*migrateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return subcommands.ExitFailure
	}
	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Printf("Failed to migrate: %v", err)
		return subcommands.ExitFailure
	}
	database.Close(db)
	log.Printf("schema up to date (%s)", cfg.DB.Driver)
	return subcommands.ExitSuccess
}
