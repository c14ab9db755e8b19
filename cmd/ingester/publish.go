package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"codeberg.org/lumina/server/internal/config"
	"codeberg.org/lumina/server/internal/ingestion"
	"codeberg.org/lumina/server/internal/queue"
)

var publishFlags config.IngestFlags

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Queue a document for the server to ingest",
	Long: `Publishes an ingestion task to the durable task queue. The file path must be
readable by the server process that consumes the queue.`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	addTaskFlags(publishCmd, &publishFlags)
	rootCmd.AddCommand(publishCmd)
}

func addTaskFlags(cmd *cobra.Command, flags *config.IngestFlags) {
	cmd.Flags().StringVarP(&flags.File, "file", "f", "", "path of the text file to ingest")
	cmd.Flags().StringVarP(&flags.UserID, "user", "u", "", "id of the owning user")
	cmd.Flags().StringVarP(&flags.Name, "name", "n", "", "display name (defaults to the file's base name)")
	cmd.Flags().StringVar(&flags.TaskID, "task-id", "", "task id (a UUID is generated when empty)")
	cmd.MarkFlagRequired("file") //nolint:errcheck,gosec
	cmd.MarkFlagRequired("user") //nolint:errcheck,gosec
}

func taskFromFlags(flags config.IngestFlags) (ingestion.Task, error) {
	path, err := filepath.Abs(flags.File)
	if err != nil {
		return ingestion.Task{}, fmt.Errorf("invalid file path: %w", err)
	}

	return ingestion.Task{
		TaskID:       flags.TaskID,
		FilePath:     path,
		UserID:       flags.UserID,
		OriginalName: flags.Name,
	}, nil
}

func runPublish(cmd *cobra.Command, _ []string) error {
	task, err := taskFromFlags(publishFlags)
	if err != nil {
		return err
	}

	publisher, err := queue.NewPublisher(cfg.AMQPURL, cfg.QueueName)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}
	defer publisher.Close() //nolint:errcheck

	sent, err := publisher.Publish(cmd.Context(), task)
	if err != nil {
		return err
	}

	cmd.Printf("queued %s as task %s on %s\n", sent.OriginalName, sent.TaskID, cfg.QueueName)

	return nil
}
