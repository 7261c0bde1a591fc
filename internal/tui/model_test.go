package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wordlab/vocaview/internal/catalog"
	"github.com/wordlab/vocaview/internal/model"
)

func testRecords(n int) []model.WordRecord {
	records := make([]model.WordRecord, n)
	for i := range records {
		records[i] = model.WordRecord{
			Word:        "w" + string(rune('a'+i%26)),
			Curriculum:  catalog.CurriculumLevels[i%len(catalog.CurriculumLevels)],
			CEFRNumeric: i % 7,
			TFTotal:     float64(n - i),
		}
	}
	return records
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelEvaluates(t *testing.T) {
	m := NewModel(testRecords(30), "test.csv", t.TempDir(), nil)
	if m.state.Metric != catalog.Metrics[0].Key {
		t.Fatalf("initial metric = %q, want %q", m.state.Metric, catalog.Metrics[0].Key)
	}
	if m.view.FilteredCount != 30 {
		t.Fatalf("filtered count = %d, want 30", m.view.FilteredCount)
	}
	if m.state.RowsMax != 30 {
		t.Fatalf("rows max = %d, want 30", m.state.RowsMax)
	}
}

func TestTabSwitchChangesMetric(t *testing.T) {
	m := NewModel(testRecords(12), "test.csv", t.TempDir(), nil)
	m.width, m.height = 100, 40
	m.moveTab(1)
	if m.state.Metric != catalog.Metrics[1].Key {
		t.Fatalf("metric after switch = %q, want %q", m.state.Metric, catalog.Metrics[1].Key)
	}
	m.moveTab(-1)
	m.moveTab(-1)
	if m.state.Metric != catalog.Metrics[len(catalog.Metrics)-1].Key {
		t.Fatalf("metric after wrap = %q, want last", m.state.Metric)
	}
}

func TestOrderToggleKeepsRowsMax(t *testing.T) {
	m := NewModel(testRecords(25), "test.csv", t.TempDir(), nil)
	before := m.state.RowsMax
	updated, _ := m.updateKeys(keyMsg("o"))
	m = updated.(*Model)
	if m.state.Order != model.Ascending {
		t.Fatalf("order = %v, want ascending", m.state.Order)
	}
	if m.state.RowsMax != before {
		t.Fatalf("rows max changed on order toggle: %d != %d", m.state.RowsMax, before)
	}
}

func TestFilterApplyRefreezes(t *testing.T) {
	m := NewModel(testRecords(30), "test.csv", t.TempDir(), nil)
	updated, _ := m.startFilter()
	m = updated.(*Model)
	if !m.filterMode {
		t.Fatal("filter mode not entered")
	}
	// Drop curriculum level 0 and apply.
	m.filterDraft.Curriculum[0] = false
	updated, _ = m.updateFilter(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if m.filterMode {
		t.Fatal("filter mode still active after enter")
	}
	if m.sel.Curriculum[0] {
		t.Fatal("draft selection not applied")
	}
	if m.view.FilteredCount >= 30 {
		t.Fatalf("filter did not reduce rows: %d", m.view.FilteredCount)
	}
	if m.state.RowsMax != m.view.FilteredCount && m.state.RowsMax != 10 {
		t.Fatalf("rows max = %d not refrozen for %d rows", m.state.RowsMax, m.view.FilteredCount)
	}
}

func TestFilterEscDiscardsDraft(t *testing.T) {
	m := NewModel(testRecords(10), "test.csv", t.TempDir(), nil)
	updated, _ := m.startFilter()
	m = updated.(*Model)
	m.filterDraft.CEFR[2] = false
	updated, _ = m.updateFilter(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(*Model)
	if !m.sel.CEFR[2] {
		t.Fatal("esc leaked draft into applied selection")
	}
}

func TestTopNInputClamps(t *testing.T) {
	m := NewModel(testRecords(20), "test.csv", t.TempDir(), nil)
	updated, _ := m.startInput(inputTopN, m.state.TopN)
	m = updated.(*Model)
	m.input.SetValue("9999")
	updated, _ = m.updateInput(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if m.state.TopN != 20 {
		t.Fatalf("top n = %d, want clamped 20", m.state.TopN)
	}
	if len(m.view.Rows) != 20 {
		t.Fatalf("rows = %d, want 20", len(m.view.Rows))
	}
}

func TestRangeInputSwap(t *testing.T) {
	m := NewModel(testRecords(20), "test.csv", t.TempDir(), nil)
	m.state.Mode = model.ModeRange
	updated, _ := m.startInput(inputFrom, m.state.From)
	m = updated.(*Model)
	m.input.SetValue("15")
	updated, _ = m.updateInput(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	updated, _ = m.startInput(inputTo, m.state.To)
	m = updated.(*Model)
	m.input.SetValue("5")
	updated, _ = m.updateInput(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if len(m.view.Rows) != 11 {
		t.Fatalf("rows = %d, want 11 for reversed 15..5", len(m.view.Rows))
	}
	if !strings.Contains(m.view.Description, "from=5") {
		t.Fatalf("description %q missing normalized from", m.view.Description)
	}
}

func TestInputRejectsGarbage(t *testing.T) {
	m := NewModel(testRecords(5), "test.csv", t.TempDir(), nil)
	updated, _ := m.startInput(inputTopN, m.state.TopN)
	m = updated.(*Model)
	m.input.SetValue("abc")
	updated, _ = m.updateInput(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(*Model)
	if m.inputMode != inputTopN {
		t.Fatal("modal closed on invalid input")
	}
	if m.inputErrMsg == "" {
		t.Fatal("no error message for invalid input")
	}
}

func TestViewRendersWithoutSize(t *testing.T) {
	m := NewModel(testRecords(5), "test.csv", t.TempDir(), nil)
	if got := m.View(); got != "" {
		t.Fatalf("zero-size view = %q, want empty", got)
	}
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(*Model)
	out := m.View()
	if out == "" {
		t.Fatal("sized view is empty")
	}
	if len(strings.Split(out, "\n")) != 40 {
		t.Fatalf("view height = %d, want 40", len(strings.Split(out, "\n")))
	}
}
