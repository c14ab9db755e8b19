package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/lumina/server/internal/config"
	"codeberg.org/lumina/server/internal/logger"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ingester",
	Short: "Manage the lumina document store",
	Long: `Initialise the database schema, queue documents for the server to ingest,
ingest documents directly, or run queries against the store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.LoadEnvironmentVariables()
		return err
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		logger.ErrorErr(err, "command failed")
		os.Exit(1)
	}
}
