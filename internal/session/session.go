// Package session implements the explorer's state-transition core: level
// filtering, frozen selection bounds, and the rank/slice protocol. Every
// evaluation takes the current state explicitly and returns the next state,
// so the whole pipeline stays a pure function of (records, selection, state).
package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wordlab/vocaview/internal/catalog"
	"github.com/wordlab/vocaview/internal/model"
)

// MinRowsMax is the floor for the frozen selection ceiling, keeping Top-N
// controls usable on tiny result sets.
const MinRowsMax = 10

// Defaults for a fresh view state.
const (
	DefaultTopN = 50
	DefaultFrom = 1
	DefaultTo   = 100
)

// NewSelection returns a selection with every level included.
func NewSelection() model.Selection {
	sel := model.Selection{
		Curriculum: make(map[int]bool, len(catalog.CurriculumLevels)),
		CEFR:       make(map[int]bool, len(catalog.CEFRLevels)),
	}
	for _, level := range catalog.CurriculumLevels {
		sel.Curriculum[level] = true
	}
	for _, level := range catalog.CEFRLevels {
		sel.CEFR[level] = true
	}
	return sel
}

// NewViewState returns the initial view state for a metric.
func NewViewState(metric string) model.ViewState {
	return model.ViewState{
		Metric:  metric,
		Order:   model.Descending,
		Mode:    model.ModeTopN,
		TopN:    DefaultTopN,
		From:    DefaultFrom,
		To:      DefaultTo,
		RowsMax: MinRowsMax,
	}
}

// Apply returns the records passing both level predicates. It is a pure
// function of its inputs and preserves input order.
func Apply(records []model.WordRecord, sel model.Selection) []model.WordRecord {
	filtered := make([]model.WordRecord, 0, len(records))
	for _, rec := range records {
		if sel.Curriculum[rec.Curriculum] && sel.CEFR[rec.CEFRNumeric] {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

// Signature encodes the selection canonically: sorted levels, order
// independent, so that reordering toggles never looks like a filter change.
func Signature(sel model.Selection) string {
	return "kb:" + joinSorted(sel.Curriculum) + "|cefr:" + joinSorted(sel.CEFR)
}

func joinSorted(set map[int]bool) string {
	levels := make([]int, 0, len(set))
	for level, on := range set {
		if on {
			levels = append(levels, level)
		}
	}
	sort.Ints(levels)
	parts := make([]string, len(levels))
	for i, level := range levels {
		parts[i] = fmt.Sprintf("%d", level)
	}
	return strings.Join(parts, ",")
}

// Freeze updates RowsMax only when the filter signature changed since the
// last evaluation. Re-evaluations triggered by unrelated state changes (sort
// toggles, tab switches) leave the frozen ceiling alone.
func Freeze(state *model.ViewState, sig string, filteredCount int) {
	if state.FilterSig == sig {
		return
	}
	state.RowsMax = filteredCount
	if state.RowsMax < MinRowsMax {
		state.RowsMax = MinRowsMax
	}
	state.FilterSig = sig
}

// Rank stably sorts records by the metric. Ties keep their prior relative
// order in both directions, so repeated runs slice identically.
func Rank(records []model.WordRecord, metric string, order model.SortOrder) []model.WordRecord {
	sorted := append([]model.WordRecord(nil), records...)
	ascending := order == model.Ascending
	sort.SliceStable(sorted, func(i, j int) bool {
		vi := sorted[i].Metric(metric)
		vj := sorted[j].Metric(metric)
		if ascending {
			return vi < vj
		}
		return vi > vj
	})
	return sorted
}

// SetTopN writes a clamped Top-N value into the state.
func SetTopN(state *model.ViewState, n int) {
	state.TopN = clamp(n, 1, state.RowsMax)
}

// SetRange writes clamped, ordered range bounds into the state.
func SetRange(state *model.ViewState, from, to int) {
	from = clamp(from, 1, state.RowsMax)
	to = clamp(to, 1, state.RowsMax)
	if from > to {
		from, to = to, from
	}
	state.From = from
	state.To = to
}

// Select slices the sorted records per the state's mode and returns the page
// with a description of the effective bounds. An empty input yields an empty
// page, never an error.
func Select(sorted []model.WordRecord, state model.ViewState) ([]model.WordRecord, string) {
	if state.Mode == model.ModeRange {
		total := len(sorted)
		if total == 0 {
			return nil, "mode=Range, from=0, to=0"
		}
		from := clamp(state.From, 1, total)
		to := clamp(state.To, 1, total)
		if from > to {
			from, to = to, from
		}
		return sorted[from-1 : to], fmt.Sprintf("mode=Range, from=%d, to=%d", from, to)
	}
	n := clamp(state.TopN, 1, state.RowsMax)
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n], fmt.Sprintf("mode=Top N, N=%d", n)
}

// View is the output of one evaluation.
type View struct {
	Rows          []model.WordRecord
	FilteredCount int
	Description   string
}

// Evaluate runs one full re-evaluation: filter, then freeze the bound on the
// post-filter count, then rank and slice. The order is load-bearing; the
// frozen ceiling must never see a pre-filter count.
func Evaluate(records []model.WordRecord, sel model.Selection, state model.ViewState) (model.ViewState, View) {
	filtered := Apply(records, sel)
	Freeze(&state, Signature(sel), len(filtered))
	sorted := Rank(filtered, state.Metric, state.Order)
	rows, desc := Select(sorted, state)
	return state, View{
		Rows:          rows,
		FilteredCount: len(filtered),
		Description:   desc,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
