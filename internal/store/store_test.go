package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/wordlab/vocaview/internal/model"
)

func TestInsertAndListRuns(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "vocaview.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := model.ExportRun{
			At:       base.Add(time.Duration(i) * time.Minute),
			Source:   "vocab_full_metrics.csv",
			Metric:   "general_score",
			Order:    "DESC",
			Mode:     "Top N",
			TopN:     50,
			From:     1,
			To:       100,
			RowCount: 50,
			Output:   "/tmp/out.xlsx",
			Format:   "xlsx",
		}
		if _, err := st.InsertRun(ctx, run); err != nil {
			t.Fatalf("insert run: %v", err)
		}
	}

	runs, err := st.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if !runs[0].At.After(runs[1].At) {
		t.Fatalf("expected newest first, got %v then %v", runs[0].At, runs[1].At)
	}
	if runs[0].Metric != "general_score" || runs[0].Format != "xlsx" {
		t.Fatalf("unexpected run: %+v", runs[0])
	}
}

func TestListRunsEmpty(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "vocaview.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	runs, err := st.ListRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
}
