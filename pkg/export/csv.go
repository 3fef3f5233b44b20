package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aretw0/notebox/pkg/core"
)

// CSVSink writes a header row followed by one row per record.
type CSVSink struct {
	opts Options
}

// NewCSVSink creates a CSV sink.
func NewCSVSink(opts Options) *CSVSink {
	return &CSVSink{opts: opts}
}

func (s *CSVSink) Write(ctx context.Context, records []core.Record) (string, error) {
	if len(records) == 0 {
		return "", core.ErrNothingToExport
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(core.RecordHeaders); err != nil {
		return "", err
	}
	for _, r := range records {
		row := []string{strconv.Itoa(r.Row), r.ID, r.Title, r.Content, r.CreatedAt, r.UpdatedAt}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", r.Row, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	path := filepath.Join(s.opts.dir(), FileName(FormatCSV, s.opts.now()))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
