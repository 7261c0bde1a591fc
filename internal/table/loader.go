// Package table parses and validates the vocabulary-metrics CSV.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/wordlab/vocaview/internal/catalog"
	"github.com/wordlab/vocaview/internal/model"
)

// CurriculumColumn is the mandatory curriculum-level column header.
const CurriculumColumn = "词汇等级by课标"

// Optional column headers.
const (
	posColumn         = "pos"
	cefrNumericColumn = "CEFR_numeric"
	cefrLevelColumn   = "CEFR_level"
)

// wordAliases are accepted in order when the canonical "word" column is absent.
var wordAliases = []string{"Word", "WORD", "lemma", "Lemma"}

// MissingColumnError reports an absent mandatory column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing mandatory column %q", e.Column)
}

// Options controls validation strictness.
type Options struct {
	// StrictCEFR makes the CEFR columns mandatory instead of defaulting
	// absent ones to 0 / empty.
	StrictCEFR bool
}

// Load parses the CSV into word records. The header row is mandatory; a
// header-only table loads as zero records. Rows whose word trims to empty
// are dropped. Unparseable metric cells become 0.0 and unparseable level
// cells become 0; only missing mandatory columns are errors.
func Load(r io.Reader, opts Options) ([]model.WordRecord, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("table has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := cols[name]; !ok {
			cols[name] = i
		}
	}

	wordIdx, ok := cols["word"]
	if !ok {
		for _, alias := range wordAliases {
			if idx, found := cols[alias]; found {
				wordIdx, ok = idx, true
				break
			}
		}
	}
	if !ok {
		return nil, &MissingColumnError{Column: "word"}
	}
	curriculumIdx, ok := cols[CurriculumColumn]
	if !ok {
		return nil, &MissingColumnError{Column: CurriculumColumn}
	}
	if opts.StrictCEFR {
		if _, found := cols[cefrNumericColumn]; !found {
			return nil, &MissingColumnError{Column: cefrNumericColumn}
		}
		if _, found := cols[cefrLevelColumn]; !found {
			return nil, &MissingColumnError{Column: cefrLevelColumn}
		}
	}

	var records []model.WordRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		word := strings.TrimSpace(cell(row, wordIdx))
		if word == "" {
			continue
		}
		rec := model.WordRecord{
			Word:       word,
			Curriculum: coerceInt(cell(row, curriculumIdx)),
		}
		if idx, found := cols[posColumn]; found {
			rec.POS = cell(row, idx)
		}
		if idx, found := cols[cefrNumericColumn]; found {
			rec.CEFRNumeric = coerceInt(cell(row, idx))
		}
		if idx, found := cols[cefrLevelColumn]; found {
			rec.CEFRLevel = cell(row, idx)
		}
		for _, m := range catalog.Metrics {
			if idx, found := cols[m.Key]; found {
				rec.SetMetric(m.Key, CoerceFloat(cell(row, idx)))
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// CoerceFloat parses a numeric cell, normalizing anything unparseable or
// non-finite to 0.0.
func CoerceFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}

func coerceInt(s string) int {
	return int(CoerceFloat(s))
}
