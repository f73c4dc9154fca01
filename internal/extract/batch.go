package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Entry is one file's slot in the aggregate output.
type Entry struct {
	Path   string
	Result json.RawMessage // nil when Err is set
	Err    *FileError      // nil when Result is set
}

// Usage accumulates endpoint-reported token counts across a batch.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Batch is the aggregate of one extraction run: one entry per input file in
// discovery order, plus the failures in the same order.
type Batch struct {
	Entries []Entry
	Errors  []*FileError
	Usage   Usage
	Elapsed time.Duration
}

func newBatch(files []string) *Batch {
	entries := make([]Entry, len(files))
	for i, path := range files {
		entries[i] = Entry{Path: path}
	}
	return &Batch{Entries: entries}
}

// deposit stores one outcome at its discovery index. Called only from the
// collector; workers hand outcomes over a channel.
func (b *Batch) deposit(out outcome) {
	entry := &b.Entries[out.index]
	if out.err != nil {
		entry.Err = out.err
		return
	}
	entry.Result = out.result.JSON
	b.Usage.PromptTokens += out.result.PromptTokens
	b.Usage.CompletionTokens += out.result.CompletionTokens
	b.Usage.TotalTokens += out.result.TotalTokens
}

// finalize collects failures in entry order once all outcomes are in.
func (b *Batch) finalize() {
	b.Errors = b.Errors[:0]
	for _, entry := range b.Entries {
		if entry.Err != nil {
			b.Errors = append(b.Errors, entry.Err)
		}
	}
}

// Succeeded returns the number of entries holding a result.
func (b *Batch) Succeeded() int {
	n := 0
	for _, entry := range b.Entries {
		if entry.Result != nil {
			n++
		}
	}
	return n
}

// errorMarker is the aggregate entry shape for failed files.
type errorMarker struct {
	Error string `json:"error"`
}

// MarshalJSON renders the aggregate as a JSON object keyed by file path in
// discovery order. A Go map cannot hold that order, so the object is built
// by hand; per-file results are embedded verbatim.
func (b *Batch) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, entry := range b.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(entry.Path)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		switch {
		case entry.Err != nil:
			marker, err := json.Marshal(errorMarker{Error: entry.Err.Err.Error()})
			if err != nil {
				return nil, err
			}
			buf.Write(marker)
		case entry.Result != nil:
			buf.Write(entry.Result)
		default:
			buf.WriteString("null")
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteOutput renders the aggregate JSON to w, indented when pretty.
func (b *Batch) WriteOutput(w io.Writer, pretty bool) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to encode aggregate output: %w", err)
	}

	if pretty {
		var indented bytes.Buffer
		if err := json.Indent(&indented, data, "", "  "); err != nil {
			return fmt.Errorf("failed to indent aggregate output: %w", err)
		}
		data = indented.Bytes()
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write aggregate output: %w", err)
	}
	return nil
}

// SaveOutput writes the aggregate JSON to path.
func (b *Batch) SaveOutput(path string, pretty bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := b.WriteOutput(f, pretty); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
