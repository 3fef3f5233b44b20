package export

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/aretw0/notebox/pkg/core"
)

// XLSXSink writes a single-sheet workbook.
type XLSXSink struct {
	opts Options
}

// NewXLSXSink creates an XLSX sink.
func NewXLSXSink(opts Options) *XLSXSink {
	return &XLSXSink{opts: opts}
}

func (s *XLSXSink) Write(ctx context.Context, records []core.Record) (string, error) {
	if len(records) == 0 {
		return "", core.ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}
	header := headerRow()
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		values := r.Values()
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return "", fmt.Errorf("failed to write row %d: %w", r.Row, err)
		}
	}

	path := filepath.Join(s.opts.dir(), FileName(FormatXLSX, s.opts.now()))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return path, nil
}
