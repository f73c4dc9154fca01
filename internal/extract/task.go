package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/docsift/docsift/internal/provider"
)

// Task is one unit of work: a single file at its discovery position.
type Task struct {
	Index int
	Path  string
}

// FileError records a per-file extraction failure. Failures are recovered
// at the batch level and never abort sibling tasks.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// outcome pairs a task's result with its discovery index.
type outcome struct {
	index  int
	result *provider.Result
	err    *FileError
}

// run executes one task: read the PDF, sanity-check it, and call the
// extraction endpoint.
func (r *Runner) run(ctx context.Context, task Task) outcome {
	fail := func(err error) outcome {
		return outcome{index: task.Index, err: &FileError{Path: task.Path, Err: err}}
	}

	document, err := os.ReadFile(task.Path)
	if err != nil {
		return fail(fmt.Errorf("failed to read PDF: %w", err))
	}

	// Reject files the endpoint could never use before paying for a call.
	pages, err := pageCount(document)
	if err != nil {
		return fail(err)
	}
	r.logger.Debug("sending document", "file", filepath.Base(task.Path), "pages", pages, "bytes", len(document))

	result, err := r.client.Extract(ctx, &provider.Request{
		RequestID:  uuid.New().String(),
		Filename:   filepath.Base(task.Path),
		Document:   document,
		Schema:     r.schema.Raw,
		SchemaName: r.schema.Name,
	})
	if err != nil {
		return fail(err)
	}

	return outcome{index: task.Index, result: result}
}

func pageCount(document []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(document), nil)
	if err != nil {
		return 0, fmt.Errorf("unreadable PDF: %w", err)
	}
	if count == 0 {
		return 0, fmt.Errorf("PDF has no pages")
	}
	return count, nil
}
