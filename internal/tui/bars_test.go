package tui

import (
	"strings"
	"testing"

	"github.com/wordlab/vocaview/internal/catalog"
	"github.com/wordlab/vocaview/internal/model"
)

func barRows() []model.WordRecord {
	return []model.WordRecord{
		{Word: "apple", Curriculum: 3, TFTotal: 40},
		{Word: "banana", Curriculum: 2, TFTotal: 20},
		{Word: "cherry", Curriculum: 0, TFTotal: 10},
	}
}

func TestRenderBarsRowCount(t *testing.T) {
	metric, _ := catalog.ByKey("tf_total")
	out := renderBars(barRows(), metric, 80, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("line count = %d, want 4 (title + 3 bars)", len(lines))
	}
	if !strings.Contains(lines[1], "apple") {
		t.Fatalf("first bar %q does not mention apple", lines[1])
	}
	if !strings.Contains(lines[1], barFill) {
		t.Fatalf("first bar %q has no fill", lines[1])
	}
}

func TestRenderBarsEmpty(t *testing.T) {
	metric, _ := catalog.ByKey("tf_total")
	out := renderBars(nil, metric, 80, 10)
	if !strings.Contains(out, "(no rows)") {
		t.Fatalf("empty chart missing placeholder: %q", out)
	}
}

func TestBarScaleBounded(t *testing.T) {
	metric, _ := catalog.ByKey("coverage")
	rows := []model.WordRecord{{Word: "a", Coverage: 0.4}}
	if got := barScale(rows, metric); got != 1.0 {
		t.Fatalf("bounded scale = %v, want 1.0", got)
	}
	rows[0].Coverage = 0.05
	if got := barScale(rows, metric); got != 0.2 {
		t.Fatalf("tiny bounded scale = %v, want 0.2", got)
	}
}

func TestBarScaleUnbounded(t *testing.T) {
	metric, _ := catalog.ByKey("tf_total")
	rows := []model.WordRecord{{Word: "a", TFTotal: 42}}
	if got := barScale(rows, metric); got != 42 {
		t.Fatalf("scale = %v, want 42", got)
	}
}

func TestPadLabelCJK(t *testing.T) {
	got := padLabel("词汇等级词汇等级", 6)
	if len([]rune(got)) == 0 {
		t.Fatal("empty label")
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("wide label %q not truncated with ellipsis", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("abcdefgh", 5); got != "ab..." {
		t.Fatalf("truncate = %q, want %q", got, "ab...")
	}
	if got := truncateLine("ok", 5); got != "ok" {
		t.Fatalf("short line changed: %q", got)
	}
}
