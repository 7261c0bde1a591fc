package chart

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/wordlab/vocaview/internal/catalog"
	"github.com/wordlab/vocaview/internal/model"
)

func sampleRows() []model.WordRecord {
	return []model.WordRecord{
		{Word: "apple", Curriculum: 3, CEFRNumeric: 2, TFTotal: 10, Coverage: 0.5},
		{Word: "bear", Curriculum: 0, CEFRNumeric: 0, TFTotal: 5, Coverage: 0.2},
		{Word: "cat", Curriculum: 2, CEFRNumeric: 1, TFTotal: 7, Coverage: 0.9},
	}
}

func mustMetric(t *testing.T, key string) catalog.Metric {
	t.Helper()
	m, ok := catalog.ByKey(key)
	if !ok {
		t.Fatalf("unknown metric %q", key)
	}
	return m
}

func decodePNG(t *testing.T, data []byte) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Fatalf("empty image")
	}
}

func TestAllVariantsRender(t *testing.T) {
	m := mustMetric(t, "tf_total")
	for _, v := range Variants {
		data, err := v.Render(sampleRows(), m)
		if err != nil {
			t.Fatalf("render %s: %v", v.Name, err)
		}
		decodePNG(t, data)
	}
}

func TestEmptySelectionRendersPlaceholder(t *testing.T) {
	m := mustMetric(t, "coverage")
	for _, v := range Variants {
		data, err := v.Render(nil, m)
		if err != nil {
			t.Fatalf("render %s on empty selection: %v", v.Name, err)
		}
		decodePNG(t, data)
	}
}

func TestBoundedAxisPolicy(t *testing.T) {
	m := mustMetric(t, "coverage")
	r := axisRange(sampleRows(), m).(interface{ GetMax() float64 })
	if r.GetMax() > 1.0 {
		t.Fatalf("bounded metric axis must cap at 1.0, got %f", r.GetMax())
	}
	unbounded := mustMetric(t, "tf_total")
	r = axisRange(sampleRows(), unbounded).(interface{ GetMax() float64 })
	if r.GetMax() < 10 {
		t.Fatalf("unbounded axis must exceed the observed maximum, got %f", r.GetMax())
	}
}

func TestWriteAllFilenames(t *testing.T) {
	dir := t.TempDir()
	m := mustMetric(t, "tfidf")
	paths, err := WriteAll(dir, sampleRows(), m)
	if err != nil {
		t.Fatalf("write all: %v", err)
	}
	want := []string{
		"tfidf_rank_basic.png",
		"tfidf_wordcloud.png",
		"tfidf_rank_by_kb.png",
		"tfidf_rank_by_cefr.png",
		"tfidf_dual_axis.png",
		"tfidf_kb_cefr_distribution.png",
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(paths))
	}
	for i, name := range want {
		if filepath.Base(paths[i]) != name {
			t.Fatalf("file %d: expected %q, got %q", i, name, filepath.Base(paths[i]))
		}
		if _, err := os.Stat(paths[i]); err != nil {
			t.Fatalf("stat %s: %v", paths[i], err)
		}
	}
}

func TestSingleRowDualAxis(t *testing.T) {
	m := mustMetric(t, "general_score")
	data, err := DualAxisPNG(sampleRows()[:1], m)
	if err != nil {
		t.Fatalf("single-row dual axis: %v", err)
	}
	decodePNG(t, data)
}
