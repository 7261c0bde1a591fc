package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/wordlab/vocaview/internal/model"
)

func sampleRows() []model.WordRecord {
	return []model.WordRecord{
		{Word: "apple", POS: "n", Curriculum: 3, CEFRNumeric: 2, CEFRLevel: "A2", TFTotal: 10, Coverage: 0.5},
		{Word: "cat", POS: "n", Curriculum: 2, CEFRNumeric: 1, CEFRLevel: "A1", TFTotal: 7, Coverage: 0.25},
	}
}

func TestColumnsOrder(t *testing.T) {
	cols := Columns()
	if len(cols) != 18 {
		t.Fatalf("expected 18 columns, got %d", len(cols))
	}
	if cols[0] != "word" || cols[1] != "pos" || cols[2] != "CEFR_level" || cols[3] != "CEFR_numeric" {
		t.Fatalf("unexpected identity columns: %v", cols[:4])
	}
	if cols[5] != "tf_passage" || cols[17] != "passage_df" {
		t.Fatalf("unexpected metric columns: %v", cols[5:])
	}
}

func TestCSVBytes(t *testing.T) {
	data, err := CSVBytes(sampleRows())
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatalf("expected UTF-8 BOM prefix")
	}
	lines := strings.Split(strings.TrimSpace(string(data[3:])), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "apple,n,A2,2,3,") {
		t.Fatalf("unexpected first data line: %q", lines[1])
	}
}

func TestWorkbookBytesRoundTrip(t *testing.T) {
	data, err := WorkbookBytes(sampleRows())
	if err != nil {
		t.Fatalf("workbook: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() {
		_ = f.Close()
	})
	rows, err := f.GetRows("selection")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "word" || rows[1][0] != "apple" || rows[2][0] != "cat" {
		t.Fatalf("unexpected sheet contents: %v", rows)
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 30, 5, 0, time.UTC)
	name := Filename("tfidf", now, ".xlsx")
	if name != "vocab_selection_tfidf_20260828-103005.xlsx" {
		t.Fatalf("unexpected filename: %q", name)
	}
}

func TestWriteSelection(t *testing.T) {
	dir := t.TempDir()
	path, format, err := WriteSelection(dir, "coverage", sampleRows(), time.Now())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if format != "xlsx" {
		t.Fatalf("expected xlsx format, got %q", format)
	}
	if filepath.Dir(path) != dir || !strings.HasSuffix(path, ".xlsx") {
		t.Fatalf("unexpected path: %q", path)
	}
}

func TestEmptySelectionExports(t *testing.T) {
	data, err := CSVBytes(nil)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data[3:])), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
	if _, err := WorkbookBytes(nil); err != nil {
		t.Fatalf("workbook on empty selection: %v", err)
	}
}
