package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/wordlab/vocaview/internal/catalog"
	"github.com/wordlab/vocaview/internal/model"
)

const (
	barLabelWidth = 14
	barValueWidth = 10
	barFill       = "█"
	barEmpty      = "░"
)

var barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))

// renderBars draws a horizontal bar chart for the leading rows of the
// current selection. Bars are colored by curriculum level so the chart
// mirrors the exported rank_by_kb PNG.
func renderBars(rows []model.WordRecord, metric catalog.Metric, width, count int) string {
	if count <= 0 {
		count = 1
	}
	if len(rows) < count {
		count = len(rows)
	}
	lines := make([]string, 0, count+1)
	lines = append(lines, headerStyle.Render(truncateLine(fmt.Sprintf("top %d by %s", count, metric.Key), width)))
	if count == 0 {
		lines = append(lines, "(no rows)")
		return strings.Join(lines, "\n")
	}

	barWidth := width - barLabelWidth - barValueWidth - 2
	if barWidth < 4 {
		barWidth = 4
	}
	top := barScale(rows[:count], metric)
	for _, rec := range rows[:count] {
		v := rec.Metric(metric.Key)
		filled := 0
		if top > 0 && v > 0 {
			filled = int(v / top * float64(barWidth))
		}
		if filled > barWidth {
			filled = barWidth
		}
		barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(catalog.CurriculumColor(rec.Curriculum)))
		line := fmt.Sprintf("%s %s%s %s",
			padLabel(rec.Word, barLabelWidth),
			barStyle.Render(strings.Repeat(barFill, filled)),
			barEmptyStyle.Render(strings.Repeat(barEmpty, barWidth-filled)),
			formatBarValue(v),
		)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// barScale fixes the bar axis ceiling. Metrics bounded to [0,1] keep a
// stable ceiling so bars stay comparable while paging.
func barScale(rows []model.WordRecord, metric catalog.Metric) float64 {
	top := 0.0
	for _, rec := range rows {
		if v := rec.Metric(metric.Key); v > top {
			top = v
		}
	}
	if metric.Bounded01 {
		if top < 0.2 {
			return 0.2
		}
		if top > 1 {
			return top
		}
		return 1.0
	}
	return top
}

func formatBarValue(v float64) string {
	s := fmt.Sprintf("%.4g", v)
	if runewidth.StringWidth(s) > barValueWidth {
		s = runewidth.Truncate(s, barValueWidth, "…")
	}
	return s
}

// padLabel truncates by display width so CJK words align with ASCII ones.
func padLabel(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// wrapText breaks s into lines of at most width display cells, splitting
// on spaces where possible.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if runewidth.StringWidth(current)+1+runewidth.StringWidth(word) <= width {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	lines = append(lines, current)
	return lines
}
