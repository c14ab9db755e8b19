package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"codeberg.org/lumina/server/internal/answer"
	"codeberg.org/lumina/server/internal/retriever"
)

var (
	queryUser  string
	queryLimit int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against one user's documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().StringVarP(&queryUser, "user", "u", "", "id of the user whose documents are searched")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "number of chunks to retrieve (server default when 0)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the response as JSON")
	queryCmd.MarkFlagRequired("user") //nolint:errcheck,gosec
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	emb, err := openEmbedder(ctx, cfg)
	if err != nil {
		return err
	}

	generator, err := answer.New(answer.Config{
		Provider: answer.Provider(cfg.GeneratorProvider),
		Model:    cfg.GeneratorModel,
		BaseURL:  cfg.GeneratorURL(),
		APIKey:   cfg.OpenAIKey,
	})
	if err != nil {
		return err
	}

	svc := retriever.NewService(emb, store, generator,
		retriever.WithLimit(cfg.QueryLimit),
		retriever.WithTimeout(cfg.QueryTimeout),
	)

	resp, err := svc.Query(ctx, retriever.Request{
		Query:  strings.Join(args, " "),
		UserID: queryUser,
		Limit:  queryLimit,
	})
	if err != nil {
		return err
	}

	if queryJSON {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}

		cmd.Println(string(data))

		return nil
	}

	cmd.Println(resp.Answer)

	if len(resp.Sources) > 0 {
		cmd.Println()
		cmd.Printf("Sources: %s\n", strings.Join(resp.Sources, ", "))
	}

	return nil
}
