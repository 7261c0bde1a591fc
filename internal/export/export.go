// Package export serializes a ranked selection to a workbook or CSV.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/wordlab/vocaview/internal/catalog"
	"github.com/wordlab/vocaview/internal/model"
	"github.com/wordlab/vocaview/internal/table"
)

const sheetName = "selection"

// utf8BOM prefixes CSV output so spreadsheet tools detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Columns returns the fixed display/export column order: identity columns
// first, then the thirteen metrics in catalog order.
func Columns() []string {
	cols := []string{"word", "pos", "CEFR_level", "CEFR_numeric", table.CurriculumColumn}
	return append(cols, catalog.Keys()...)
}

func rowValues(rec model.WordRecord) []any {
	values := []any{rec.Word, rec.POS, rec.CEFRLevel, rec.CEFRNumeric, rec.Curriculum}
	for _, key := range catalog.Keys() {
		values = append(values, rec.Metric(key))
	}
	return values
}

// WorkbookBytes renders the selection as an xlsx workbook with a single
// "selection" sheet.
func WorkbookBytes(rows []model.WordRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for the in-memory workbook.
			_ = cerr
		}
	}()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, 0, len(Columns()))
	for _, col := range Columns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, rec := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell address: %w", err)
		}
		values := rowValues(rec)
		if err := f.SetSheetRow(sheetName, addr, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// CSVBytes renders the selection as BOM-prefixed UTF-8 CSV.
func CSVBytes(rows []model.WordRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns()); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, rec := range rows {
		fields := make([]string, 0, len(Columns()))
		for _, v := range rowValues(rec) {
			fields = append(fields, formatCell(v))
		}
		if err := w.Write(fields); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatCell(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Filename builds the export file name for a metric and timestamp.
func Filename(metric string, now time.Time, ext string) string {
	return fmt.Sprintf("vocab_selection_%s_%s%s", metric, now.Format("20060102-150405"), ext)
}

// WriteSelection writes the selection under dir, preferring a workbook and
// falling back to CSV when workbook serialization fails. It returns the
// written path and the format used ("xlsx" or "csv").
func WriteSelection(dir, metric string, rows []model.WordRecord, now time.Time) (string, string, error) {
	data, err := WorkbookBytes(rows)
	ext, format := ".xlsx", "xlsx"
	if err != nil {
		data, err = CSVBytes(rows)
		if err != nil {
			return "", "", err
		}
		ext, format = ".csv", "csv"
	}
	path := filepath.Join(dir, Filename(metric, now, ext))
	if err := writeFileAtomic(path, data); err != nil {
		return "", "", err
	}
	return path, format, nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "selection-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
