package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"intake/internal/config"
	"intake/internal/logger"
)

const serviceName = "intake"

var (
	cfg *config.AppConfig
	log *logger.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               "intake",
	Short:             "Mowing estimate intake service",
	Long:              "Serves the estimate request form, stores each submission and uploads a text summary to object storage.",
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
	PersistentPostRun: func(*cobra.Command, []string) {
		if log != nil {
			log.Sync()
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func initializeApp(cmd *cobra.Command, args []string) error {
	cfg = config.Load()

	l, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log = l.With("service", serviceName)
	return nil
}
