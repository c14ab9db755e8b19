package ingestion

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "codeberg.org/lumina/server/internal/errors"
)

// Task is one unit of ingestion work as it travels on the queue.
type Task struct {
	TaskID       string `json:"task_id"`
	FilePath     string `json:"file_path"`
	UserID       string `json:"user_id"`
	OriginalName string `json:"original_name"`
}

// Validate reports ErrMalformedMessage when a required field is blank. A blank
// original_name falls back to the base name of file_path.
func (t *Task) Validate() error {
	var missing []string

	if strings.TrimSpace(t.TaskID) == "" {
		missing = append(missing, "task_id")
	}

	if strings.TrimSpace(t.FilePath) == "" {
		missing = append(missing, "file_path")
	}

	if strings.TrimSpace(t.UserID) == "" {
		missing = append(missing, "user_id")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", apperrors.ErrMalformedMessage, strings.Join(missing, ", "))
	}

	if t.OriginalName == "" {
		t.OriginalName = filepath.Base(t.FilePath)
	}

	return nil
}

type Result struct {
	DocumentID int64 `json:"document_id"`
	Chunks     int   `json:"chunks"`
}

// PartialError is returned when a task fails after its Document row was
// persisted. The document is left in place with however many chunks were
// stored before the failure.
type PartialError struct {
	DocumentID int64
	Err        error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("document %d left partial: %v", e.DocumentID, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}
