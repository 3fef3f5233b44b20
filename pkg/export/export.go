// Package export writes note records to tabular files.
package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/notebox/pkg/core"
)

// SheetName is the name of the single worksheet in an XLSX export.
const SheetName = "Notes"

// ErrUnsupportedFormat is returned by New for an unknown format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format names an export file type.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// Sink consumes an export record sequence and writes it somewhere.
type Sink interface {
	// Write stores the records and returns the path of the written file.
	Write(ctx context.Context, records []core.Record) (string, error)
}

// Options configures a file sink.
type Options struct {
	Dir string           // output directory, "." when empty
	Now func() time.Time // dates the file name; time.Now when nil
}

func (o Options) dir() string {
	if o.Dir == "" {
		return "."
	}
	return o.Dir
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// FileName returns "notes-YYYY-MM-DD.<format>" for the UTC date of t.
func FileName(format Format, t time.Time) string {
	return fmt.Sprintf("notes-%s.%s", t.UTC().Format("2006-01-02"), format)
}

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))); f {
	case FormatXLSX, FormatCSV:
		return f, nil
	case "":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// New returns the sink for format.
func New(format Format, opts Options) (Sink, error) {
	switch format {
	case FormatXLSX:
		return NewXLSXSink(opts), nil
	case FormatCSV:
		return NewCSVSink(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func headerRow() []any {
	row := make([]any, len(core.RecordHeaders))
	for i, h := range core.RecordHeaders {
		row[i] = h
	}
	return row
}
