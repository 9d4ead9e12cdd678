package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"intake/internal/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the Postgres documents table",
	Long: `Create the documents table used by the Postgres document store.

Firestore needs no schema, so this command only acts when DOCSTORE_BACKEND=postgres.
It is safe to run repeatedly; the server also runs it on startup.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if cfg.DocStore.Backend != config.DocStorePostgres {
		log.Info("db_migration_skip", "reason", "backend has no schema", "backend", cfg.DocStore.Backend)
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := openPostgres(cmd.Context(), cfg.DocStore.Postgres, log)
	if err != nil {
		return err
	}
	return db.Close()
}
