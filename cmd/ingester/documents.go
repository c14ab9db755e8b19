package main

import (
	"github.com/spf13/cobra"
)

var (
	docsUser   string
	docsLimit  int
	docsOffset int
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List one user's ingested documents, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		docs, total, err := store.ListDocuments(cmd.Context(), docsUser, docsLimit, docsOffset)
		if err != nil {
			return err
		}

		for _, d := range docs {
			cmd.Printf("%6d  %-40s  %4d chunks  %s  task %s\n",
				d.ID, d.Filename, d.Chunks, d.CreatedAt.Format("2006-01-02 15:04"), d.TaskID)
		}

		cmd.Printf("%d of %d documents\n", len(docs), total)

		return nil
	},
}

func init() {
	documentsCmd.Flags().StringVarP(&docsUser, "user", "u", "", "id of the owning user")
	documentsCmd.Flags().IntVarP(&docsLimit, "limit", "n", 20, "page size")
	documentsCmd.Flags().IntVar(&docsOffset, "offset", 0, "documents to skip")
	documentsCmd.MarkFlagRequired("user") //nolint:errcheck,gosec
	rootCmd.AddCommand(documentsCmd)
}
