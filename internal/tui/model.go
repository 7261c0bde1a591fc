// Package tui provides the Bubble Tea explorer interface.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wordlab/vocaview/internal/catalog"
	"github.com/wordlab/vocaview/internal/chart"
	"github.com/wordlab/vocaview/internal/export"
	"github.com/wordlab/vocaview/internal/model"
	"github.com/wordlab/vocaview/internal/session"
	"github.com/wordlab/vocaview/internal/store"
)

const chartBars = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FBF7F"))
	longDescStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
	modalTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	selectedOption  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// input targets for the number modal.
const (
	inputNone = iota
	inputTopN
	inputFrom
	inputTo
)

// Model implements the Bubble Tea explorer UI.
type Model struct {
	records []model.WordRecord
	source  string
	outDir  string
	store   *store.Store

	sel   model.Selection
	state model.ViewState
	view  session.View

	activeTab int
	rowTable  table.Model

	width  int
	height int

	filterMode   bool
	filterDraft  model.Selection
	filterCursor int

	inputMode   int
	input       textinput.Model
	inputErrMsg string

	showLong  bool
	statusMsg string
	errMsg    string
}

// NewModel constructs the explorer for an already-loaded table. The store
// may be nil; exports then skip history recording.
func NewModel(records []model.WordRecord, source, outDir string, st *store.Store) *Model {
	m := &Model{
		records: records,
		source:  source,
		outDir:  outDir,
		store:   st,
		sel:     session.NewSelection(),
		state:   session.NewViewState(catalog.Metrics[0].Key),
	}
	m.input = textinput.New()
	m.input.CharLimit = 8
	m.input.Cursor.SetMode(cursor.CursorBlink)
	m.initTable()
	m.evaluate()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.inputMode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
		return m, tea.Quit
	}
	switch msg.String() {
	case "left", "h":
		m.moveTab(-1)
		return m, tea.ClearScreen
	case "right", "l":
		m.moveTab(1)
		return m, tea.ClearScreen
	case "/":
		return m.startFilter()
	case "m":
		if m.state.Mode == model.ModeTopN {
			m.state.Mode = model.ModeRange
		} else {
			m.state.Mode = model.ModeTopN
		}
		m.evaluate()
		return m, nil
	case "o":
		if m.state.Order == model.Descending {
			m.state.Order = model.Ascending
		} else {
			m.state.Order = model.Descending
		}
		m.evaluate()
		return m, nil
	case "n":
		return m.startInput(inputTopN, m.state.TopN)
	case "[":
		return m.startInput(inputFrom, m.state.From)
	case "]":
		return m.startInput(inputTo, m.state.To)
	case "?":
		m.showLong = !m.showLong
		m.updateLayout()
		return m, nil
	case "e":
		m.exportCurrent()
		return m, nil
	case "g", "home":
		m.rowTable.GotoTop()
		return m, nil
	case "G", "end":
		m.rowTable.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.rowTable, cmd = m.rowTable.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.filterMode {
		return fitLines(m.renderFilterModal(), m.width, m.height)
	}
	if m.inputMode != inputNone {
		return fitLines(m.renderInputModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// evaluate runs one full re-evaluation for the active tab.
func (m *Model) evaluate() {
	m.state.Metric = catalog.Metrics[m.activeTab].Key
	m.state, m.view = session.Evaluate(m.records, m.sel, m.state)
	m.refreshTable()
}

func (m *Model) moveTab(delta int) {
	count := len(catalog.Metrics)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	m.showLong = false
	m.updateLayout()
	// Only the newly active tab is recomputed; the others stay lazy.
	m.evaluate()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 2
	footerHeight = 1
	if m.errMsg != "" || m.statusMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) initTable() {
	m.rowTable = table.New(
		table.WithColumns(tableColumns(m.metric())),
		table.WithHeight(10),
	)
	m.rowTable.Focus()
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	m.rowTable.SetStyles(styles)
}

func (m *Model) metric() catalog.Metric {
	return catalog.Metrics[m.activeTab]
}

func tableColumns(metric catalog.Metric) []table.Column {
	return []table.Column{
		{Title: "#", Width: 5},
		{Title: "Word", Width: 18},
		{Title: "POS", Width: 5},
		{Title: "KB", Width: 3},
		{Title: "CEFR", Width: 5},
		{Title: metric.Key, Width: 14},
	}
}

func (m *Model) refreshTable() {
	metric := m.metric()
	rows := make([]table.Row, 0, len(m.view.Rows))
	for i, rec := range m.view.Rows {
		cefr := catalog.CEFRLabel(rec.CEFRNumeric)
		if rec.CEFRLevel != "" {
			cefr = rec.CEFRLevel
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			rec.Word,
			rec.POS,
			strconv.Itoa(rec.Curriculum),
			cefr,
			strconv.FormatFloat(rec.Metric(metric.Key), 'g', 6, 64),
		})
	}
	m.rowTable.SetColumns(tableColumns(metric))
	m.rowTable.SetRows(rows)
	m.rowTable.GotoTop()
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	chartHeight := chartBars + 2
	longHeight := 0
	if m.showLong {
		longHeight = len(wrapText(m.metric().Long, maxInt(20, m.width-4))) + 1
	}
	tableHeight := bodyHeight - chartHeight - longHeight - 1
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.rowTable.SetWidth(m.width)
	m.rowTable.SetHeight(tableHeight)
	m.input.Width = maxInt(8, minInt(20, m.width-10))
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	summary := padLines(m.renderSummary(), m.width)
	return tabs + "\n" + summary
}

// renderTabs windows the 13-tab strip around the active tab so it fits.
func (m *Model) renderTabs() string {
	parts := []string{headerStyle.Render(fmt.Sprintf("%d/%d", m.activeTab+1, len(catalog.Metrics)))}
	for i, metric := range catalog.Metrics {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		if i < m.activeTab-1 || i > m.activeTab+1 {
			continue
		}
		parts = append(parts, style.Render(metric.Key))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m *Model) renderSummary() string {
	slice := fmt.Sprintf("N=%d", m.state.TopN)
	if m.state.Mode == model.ModeRange {
		slice = fmt.Sprintf("from=%d to=%d", m.state.From, m.state.To)
	}
	summary := fmt.Sprintf(
		"%s | loaded %d rows, filtered %d | order=%s mode=%s %s max=%d | kb=%s cefr=%s",
		m.metric().Label,
		len(m.records),
		m.view.FilteredCount,
		m.state.Order,
		m.state.Mode,
		slice,
		m.state.RowsMax,
		levelList(m.sel.Curriculum),
		levelList(m.sel.CEFR),
	)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	sections := []string{renderBars(m.view.Rows, m.metric(), m.width, chartBars)}
	if m.showLong {
		sections = append(sections, longDescStyle.Render(strings.Join(wrapText(m.metric().Long, maxInt(20, m.width-4)), "\n")))
	}
	if len(m.view.Rows) == 0 {
		sections = append(sections, "No data for the current filter and selection.")
	} else {
		sections = append(sections, m.rowTable.View())
	}
	return strings.Join(sections, "\n")
}

func (m *Model) renderFooter() string {
	help := "Tabs: h/l  Filter: /  Mode: m  Order: o  N: n  Range: [ ]  Info: ?  Export: e  Quit: q"
	line := headerStyle.Render(truncateLine(help, m.width))
	if m.errMsg != "" {
		return line + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	}
	if m.statusMsg != "" {
		return line + "\n" + statusStyle.Render(truncateLine(m.statusMsg, m.width))
	}
	return line
}

// --- filter modal ---

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterCursor = 0
	m.filterDraft = copySelection(m.sel)
	return m, nil
}

func (m *Model) filterOptionCount() int {
	return len(catalog.CurriculumLevels) + len(catalog.CEFRLevels)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.filterMode = false
		return m, nil
	case "enter":
		m.sel = m.filterDraft
		m.filterMode = false
		// A changed signature re-freezes rows_max inside Evaluate.
		m.evaluate()
		return m, nil
	case "up", "k":
		m.filterCursor--
		if m.filterCursor < 0 {
			m.filterCursor = m.filterOptionCount() - 1
		}
		return m, nil
	case "down", "j", "tab":
		m.filterCursor++
		if m.filterCursor >= m.filterOptionCount() {
			m.filterCursor = 0
		}
		return m, nil
	case " ":
		m.toggleFilterOption(m.filterCursor)
		return m, nil
	case "a":
		m.filterDraft = session.NewSelection()
		return m, nil
	}
	return m, nil
}

func (m *Model) toggleFilterOption(idx int) {
	if idx < len(catalog.CurriculumLevels) {
		level := catalog.CurriculumLevels[idx]
		m.filterDraft.Curriculum[level] = !m.filterDraft.Curriculum[level]
		return
	}
	level := catalog.CEFRLevels[idx-len(catalog.CurriculumLevels)]
	m.filterDraft.CEFR[level] = !m.filterDraft.CEFR[level]
}

func (m *Model) renderFilterModal() string {
	lines := []string{
		modalTitleStyle.Render("Filter levels"),
		headerStyle.Render("space: toggle  a: select all  enter: apply  esc: cancel"),
		"",
		"Curriculum (词汇等级by课标):",
	}
	idx := 0
	for _, level := range catalog.CurriculumLevels {
		lines = append(lines, filterOptionLine(idx == m.filterCursor, m.filterDraft.Curriculum[level], catalog.CurriculumLabel(level)))
		idx++
	}
	lines = append(lines, "", "CEFR:")
	for _, level := range catalog.CEFRLevels {
		label := fmt.Sprintf("%d = %s", level, catalog.CEFRLabel(level))
		lines = append(lines, filterOptionLine(idx == m.filterCursor, m.filterDraft.CEFR[level], label))
		idx++
	}
	box := modalStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func filterOptionLine(focused, on bool, label string) string {
	mark := "[ ]"
	if on {
		mark = "[x]"
	}
	line := fmt.Sprintf("%s %s", mark, label)
	if focused {
		return selectedOption.Render("> " + line)
	}
	return "  " + line
}

// --- number input modal ---

func (m *Model) startInput(target, current int) (tea.Model, tea.Cmd) {
	if target != inputTopN && m.state.Mode != model.ModeRange {
		m.state.Mode = model.ModeRange
	}
	if target == inputTopN {
		m.state.Mode = model.ModeTopN
	}
	m.inputMode = target
	m.inputErrMsg = ""
	m.input.SetValue(strconv.Itoa(current))
	return m, m.input.Focus()
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.inputMode = inputNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		v, err := strconv.Atoi(strings.TrimSpace(m.input.Value()))
		if err != nil {
			m.inputErrMsg = "enter a whole number"
			return m, nil
		}
		m.applyInput(v)
		m.inputMode = inputNone
		m.input.Blur()
		m.evaluate()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyInput writes the value through the clamp-on-write setters, keeping
// every edit a single atomic state transition.
func (m *Model) applyInput(v int) {
	switch m.inputMode {
	case inputTopN:
		session.SetTopN(&m.state, v)
	case inputFrom:
		session.SetRange(&m.state, v, m.state.To)
	case inputTo:
		session.SetRange(&m.state, m.state.From, v)
	}
}

func (m *Model) renderInputModal() string {
	title := "Top N"
	switch m.inputMode {
	case inputFrom:
		title = "Range start (i)"
	case inputTo:
		title = "Range end (j)"
	}
	lines := []string{
		modalTitleStyle.Render(title),
		m.input.View(),
		headerStyle.Render(fmt.Sprintf("1..%d  enter: apply  esc: cancel", m.state.RowsMax)),
	}
	if m.inputErrMsg != "" {
		lines = append(lines, errorStyle.Render(m.inputErrMsg))
	}
	box := modalStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// --- export ---

func (m *Model) exportCurrent() {
	m.errMsg = ""
	m.statusMsg = ""
	now := time.Now()
	metric := m.metric()
	if _, err := chart.WriteAll(m.outDir, m.view.Rows, metric); err != nil {
		m.errMsg = fmt.Sprintf("chart export failed: %v", err)
		return
	}
	path, format, err := export.WriteSelection(m.outDir, metric.Key, m.view.Rows, now)
	if err != nil {
		m.errMsg = fmt.Sprintf("export failed: %v", err)
		return
	}
	if m.store != nil {
		run := model.ExportRun{
			At:       now,
			Source:   m.source,
			Metric:   metric.Key,
			Order:    m.state.Order.String(),
			Mode:     m.state.Mode.String(),
			TopN:     m.state.TopN,
			From:     m.state.From,
			To:       m.state.To,
			RowCount: len(m.view.Rows),
			Output:   path,
			Format:   format,
		}
		if _, err := m.store.InsertRun(context.Background(), run); err != nil {
			m.errMsg = fmt.Sprintf("history insert failed: %v", err)
			return
		}
	}
	m.statusMsg = fmt.Sprintf("exported %d rows to %s (%s)", len(m.view.Rows), path, m.view.Description)
}

// --- helpers ---

func copySelection(sel model.Selection) model.Selection {
	out := model.Selection{
		Curriculum: make(map[int]bool, len(sel.Curriculum)),
		CEFR:       make(map[int]bool, len(sel.CEFR)),
	}
	for k, v := range sel.Curriculum {
		out.Curriculum[k] = v
	}
	for k, v := range sel.CEFR {
		out.CEFR[k] = v
	}
	return out
}

func levelList(set map[int]bool) string {
	parts := make([]string, 0, len(set))
	for _, level := range catalog.CEFRLevels {
		if set[level] {
			parts = append(parts, strconv.Itoa(level))
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
