package main

import (
	"github.com/spf13/cobra"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the vector extension and tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		cmd.Printf("schema ready (embedding dimension %d)\n", store.Dimension())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initDBCmd)
}
