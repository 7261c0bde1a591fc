// Package main provides the CLI entrypoint for vocaview.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wordlab/vocaview/internal/catalog"
	"github.com/wordlab/vocaview/internal/chart"
	"github.com/wordlab/vocaview/internal/config"
	"github.com/wordlab/vocaview/internal/export"
	"github.com/wordlab/vocaview/internal/model"
	"github.com/wordlab/vocaview/internal/session"
	"github.com/wordlab/vocaview/internal/store"
	"github.com/wordlab/vocaview/internal/table"
	"github.com/wordlab/vocaview/internal/tui"
)

const defaultHistoryLimit = 20

var (
	rootStrictCEFR bool
	rootOutDir     string

	exportMetric     string
	exportOrder      string
	exportMode       string
	exportTopN       int
	exportFrom       int
	exportTo         int
	exportKB         string
	exportCEFR       string
	exportOutDir     string
	exportStrictCEFR bool

	historyLimit int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vocaview [file.csv]",
		Short:         "Explore vocabulary metrics tables",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runExploreCmd,
	}

	rootCmd.Flags().BoolVar(&rootStrictCEFR, "strict-cefr", false, "fail on missing CEFR columns instead of defaulting to 0")
	rootCmd.Flags().StringVar(&rootOutDir, "out", "", "directory for exported files")

	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newMetricsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runExploreCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "strict-cefr", &rootStrictCEFR, fileCfg.Load.StrictCEFR)
	applyStringConfig(cmd, "out", &rootOutDir, fileCfg.View.OutDir)
	if rootOutDir == "" {
		rootOutDir = config.DefaultExportDir()
	}

	records, err := loadTable(args[0], rootStrictCEFR)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	model := tui.NewModel(records, args[0], rootOutDir, st)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Export a selection without the TUI",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportMetric, "metric", catalog.Metrics[0].Key, "ranking metric (see: vocaview metrics)")
	cmd.Flags().StringVar(&exportOrder, "order", "desc", "sort order: desc or asc")
	cmd.Flags().StringVar(&exportMode, "mode", "top", "selection mode: top or range")
	cmd.Flags().IntVar(&exportTopN, "top-n", session.DefaultTopN, "number of rows in top mode")
	cmd.Flags().IntVar(&exportFrom, "from", session.DefaultFrom, "1-based range start in range mode")
	cmd.Flags().IntVar(&exportTo, "to", session.DefaultTo, "1-based range end in range mode")
	cmd.Flags().StringVar(&exportKB, "kb", "", "curriculum levels to keep, comma separated (default: all)")
	cmd.Flags().StringVar(&exportCEFR, "cefr", "", "CEFR levels to keep, comma separated (default: all)")
	cmd.Flags().StringVar(&exportOutDir, "out", "", "directory for exported files")
	cmd.Flags().BoolVar(&exportStrictCEFR, "strict-cefr", false, "fail on missing CEFR columns instead of defaulting to 0")
	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "metric", &exportMetric, fileCfg.View.Metric)
	applyStringConfig(cmd, "order", &exportOrder, fileCfg.View.Order)
	applyStringConfig(cmd, "mode", &exportMode, fileCfg.View.Mode)
	applyIntConfig(cmd, "top-n", &exportTopN, fileCfg.View.TopN)
	applyIntConfig(cmd, "from", &exportFrom, fileCfg.View.From)
	applyIntConfig(cmd, "to", &exportTo, fileCfg.View.To)
	applyStringConfig(cmd, "out", &exportOutDir, fileCfg.View.OutDir)
	applyBoolConfig(cmd, "strict-cefr", &exportStrictCEFR, fileCfg.Load.StrictCEFR)
	if exportOutDir == "" {
		exportOutDir = config.DefaultExportDir()
	}

	metric, ok := catalog.ByKey(exportMetric)
	if !ok {
		return fmt.Errorf("unknown metric %q (see: vocaview metrics)", exportMetric)
	}
	order, err := parseOrder(exportOrder)
	if err != nil {
		return err
	}
	mode, err := parseMode(exportMode)
	if err != nil {
		return err
	}
	sel, err := parseSelection(exportKB, exportCEFR)
	if err != nil {
		return err
	}

	records, err := loadTable(args[0], exportStrictCEFR)
	if err != nil {
		return err
	}

	state := session.NewViewState(metric.Key)
	state.Order = order
	state.Mode = mode
	// First pass freezes the row bound for this filter, then the requested
	// slice parameters are clamped against it.
	state, _ = session.Evaluate(records, sel, state)
	session.SetTopN(&state, exportTopN)
	session.SetRange(&state, exportFrom, exportTo)
	state, view := session.Evaluate(records, sel, state)

	now := time.Now()
	charts, err := chart.WriteAll(exportOutDir, view.Rows, metric)
	if err != nil {
		return fmt.Errorf("failed to write charts: %w", err)
	}
	path, format, err := export.WriteSelection(exportOutDir, metric.Key, view.Rows, now)
	if err != nil {
		return fmt.Errorf("failed to write selection: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	run := model.ExportRun{
		At:       now,
		Source:   args[0],
		Metric:   metric.Key,
		Order:    state.Order.String(),
		Mode:     state.Mode.String(),
		TopN:     state.TopN,
		From:     state.From,
		To:       state.To,
		RowCount: len(view.Rows),
		Output:   path,
		Format:   format,
	}
	if _, err := st.InsertRun(context.Background(), run); err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d of %d rows (%s)\n", len(view.Rows), view.FilteredCount, view.Description)
	fmt.Fprintf(out, "selection: %s (%s)\n", path, format)
	for _, c := range charts {
		fmt.Fprintf(out, "chart: %s\n", c)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent exports",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "number of runs to show")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runs, err := st.ListRuns(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list exports: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no exports recorded yet")
		return nil
	}
	for _, run := range runs {
		slice := fmt.Sprintf("N=%d", run.TopN)
		if run.Mode == model.ModeRange.String() {
			slice = fmt.Sprintf("%d..%d", run.From, run.To)
		}
		fmt.Fprintf(out, "%s  %-22s %-4s %-6s %-9s %4d rows  %s\n",
			run.At.Local().Format("2006-01-02 15:04"),
			run.Metric,
			run.Order,
			run.Mode,
			slice,
			run.RowCount,
			run.Output,
		)
	}
	return nil
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List ranking metrics",
		Args:  cobra.NoArgs,
		RunE:  runMetricsCmd,
	}
}

func runMetricsCmd(cmd *cobra.Command, _ []string) error {
	width := 100
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 40 {
		width = w
	}
	out := cmd.OutOrStdout()
	for _, metric := range catalog.Metrics {
		fmt.Fprintf(out, "%s (%s)\n", metric.Key, metric.Label)
		for _, line := range wrapIndent(metric.Long, width-4) {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
	return nil
}

func wrapIndent(s string, width int) []string {
	if width < 20 {
		width = 20
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= width {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# vocaview configuration
# Uncomment a value to enable it. CLI flags override config values.

[view]
# metric = %q     # Ranking metric (see: vocaview metrics)
# order = "desc"            # Sort order: desc or asc
# mode = "top"              # Selection mode: top or range
# top-n = %d                # Rows in top mode
# from = %d                 # 1-based range start
# to = %d                 # 1-based range end
# out-dir = ""              # Directory for exported files

[load]
# strict-cefr = false       # Fail on missing CEFR columns
`,
		catalog.Metrics[0].Key,
		session.DefaultTopN,
		session.DefaultFrom,
		session.DefaultTo,
	)
}

func loadTable(path string, strictCEFR bool) ([]model.WordRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table: %w", err)
	}
	defer func() {
		// Best-effort close of a read-only file.
		_ = f.Close()
	}()
	records, err := table.Load(f, table.Options{StrictCEFR: strictCEFR})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return records, nil
}

func parseOrder(s string) (model.SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "desc", "descending":
		return model.Descending, nil
	case "asc", "ascending":
		return model.Ascending, nil
	}
	return model.Descending, fmt.Errorf("invalid --order %q (want desc or asc)", s)
}

func parseMode(s string) (model.SelectMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top", "top-n", "topn":
		return model.ModeTopN, nil
	case "range":
		return model.ModeRange, nil
	}
	return model.ModeTopN, fmt.Errorf("invalid --mode %q (want top or range)", s)
}

// parseSelection builds the level filter from comma separated flag values.
// Empty flags keep every level selected.
func parseSelection(kb, cefr string) (model.Selection, error) {
	sel := session.NewSelection()
	if err := parseLevels(kb, "--kb", catalog.CurriculumLevels, sel.Curriculum); err != nil {
		return sel, err
	}
	if err := parseLevels(cefr, "--cefr", catalog.CEFRLevels, sel.CEFR); err != nil {
		return sel, err
	}
	return sel, nil
}

func parseLevels(s, flag string, valid []int, set map[int]bool) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	validSet := make(map[int]bool, len(valid))
	for _, level := range valid {
		validSet[level] = true
		set[level] = false
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		level, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", flag, part, err)
		}
		if !validSet[level] {
			return fmt.Errorf("unknown %s level %d", flag, level)
		}
		set[level] = true
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
