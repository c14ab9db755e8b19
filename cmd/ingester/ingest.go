package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"codeberg.org/lumina/server/internal/config"
)

var ingestFlags config.IngestFlags

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a document directly, bypassing the queue",
	Args:  cobra.NoArgs,
	RunE:  runIngest,
}

func init() {
	addTaskFlags(ingestCmd, &ingestFlags)
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	task, err := taskFromFlags(ingestFlags)
	if err != nil {
		return err
	}

	if task.TaskID == "" {
		task.TaskID = uuid.NewString()
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	emb, err := openEmbedder(ctx, cfg)
	if err != nil {
		return err
	}

	pipeline, err := newPipeline(cfg, store, emb)
	if err != nil {
		return err
	}

	res, err := pipeline.Process(ctx, task)
	if err != nil {
		return err
	}

	cmd.Printf("indexed %s as document %d (%d chunks, task %s)\n", task.OriginalName, res.DocumentID, res.Chunks, task.TaskID)

	return nil
}
