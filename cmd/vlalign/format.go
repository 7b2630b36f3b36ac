package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vlalign/internal/diag"
	"vlalign/internal/diagfmt"
	"vlalign/internal/driver"
	"vlalign/internal/observ"
	"vlalign/internal/project"
	"vlalign/internal/source"
	"vlalign/internal/trace"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [path...]",
	Short: "Align declarations and port lists",
	Long: `Align declarations, assignments and module port lists into columns.
Without paths (or with "-") the block is read from stdin and written to
stdout, which is how editors call vlalign on a selection.`,
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "report files that are not aligned without rewriting them")
	fmtCmd.Flags().String("format", "text", "output format (text|short|json)")
	fmtCmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	fmtCmd.Flags().String("lines", "", "only format lines a:b (1-based, inclusive)")
	fmtCmd.Flags().Bool("condense-blank-lines", false, "drop blank lines inside the block")
	fmtCmd.Flags().Bool("align-end-of-line", true, "put port commas after the name instead of in front of the next port")
	fmtCmd.Flags().Int("jobs", 0, "number of files formatted in parallel (0 = GOMAXPROCS)")
	fmtCmd.Flags().Bool("cache", false, "reuse results from the block cache")
	fmtCmd.Flags().Bool("verify", false, "run a second pass and fail when it changes the output")
	fmtCmd.Flags().String("ui", "auto", "progress UI for multi-file runs (auto|on|off)")
	fmtCmd.Flags().Bool("report", false, "print diagnostics for every file")
}

type fmtFlags struct {
	check        bool
	stdout       bool
	report       bool
	quiet        bool
	timings      bool
	outputFormat string
	ui           uiMode
}

func runFmt(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	flags, err := readFmtFlags(cmd)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "fmt: %v\n", err)
		return err
	}
	opts, err := buildFormatOptions(cmd)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "fmt: %v\n", err)
		return err
	}

	timer := observ.NewTimer()
	if flags.timings {
		opts.Timer = timer
		opts.Timings = true
	}
	total := timer.Begin("fmt")
	span := trace.Begin(trace.FromContext(cmd.Context()), trace.ScopeRun, "fmt", 0)
	defer span.End("")
	ctx := trace.WithSpan(cmd.Context(), span)

	var (
		results []driver.FormatResult
		fileSet *source.FileSet
	)
	if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
		data, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("fmt: read stdin: %w", readErr)
		}
		res, fs := driver.FormatSource(ctx, "<stdin>", data, opts)
		results, fileSet = []driver.FormatResult{res}, fs
		// stdin всегда уходит в stdout
		flags.stdout = !flags.check
	} else {
		opts.Stdout = flags.stdout
		if shouldUseTUI(flags.ui, len(args)) && !flags.stdout && flags.outputFormat != "json" {
			results, fileSet, err = runFormatWithUI(ctx, "vlalign fmt", args, opts)
		} else {
			results, fileSet, err = driver.FormatPaths(ctx, args, opts)
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "fmt: %v\n", err)
			return err
		}
	}
	timer.End(total, fmt.Sprintf("%d files", len(results)))

	if flags.quiet {
		// --quiet оставляет только предупреждения и ошибки
		for _, res := range results {
			if res.Bag != nil {
				res.Bag.Filter(diag.SevWarning)
			}
		}
	}

	var hasErrors, hasChanges bool
	switch flags.outputFormat {
	case "text", "short":
		if flags.stdout {
			hasErrors = renderFmtStdout(cmd, results)
		} else {
			hasErrors, hasChanges = renderFmtText(cmd, results, flags)
		}
		if flags.report {
			if flags.outputFormat == "short" {
				renderFmtShort(cmd.ErrOrStderr(), results, fileSet)
			} else {
				renderFmtReport(cmd.ErrOrStderr(), results, fileSet)
			}
		}
	case "json":
		hasErrors, hasChanges, err = renderFmtJSON(cmd.OutOrStdout(), results, fileSet, flags)
		if err != nil {
			return err
		}
	}

	if flags.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}

	if hasErrors {
		return errors.New("fmt: failed to format some files")
	}
	if flags.check && hasChanges {
		return errors.New("fmt: formatting changes required")
	}
	return nil
}

func readFmtFlags(cmd *cobra.Command) (fmtFlags, error) {
	var f fmtFlags
	var err error
	if f.check, err = cmd.Flags().GetBool("check"); err != nil {
		return f, err
	}
	if f.stdout, err = cmd.Flags().GetBool("stdout"); err != nil {
		return f, err
	}
	if f.report, err = cmd.Flags().GetBool("report"); err != nil {
		return f, err
	}
	if f.outputFormat, err = cmd.Flags().GetString("format"); err != nil {
		return f, err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, err
	}
	if f.ui, err = readUIMode(uiValue); err != nil {
		return f, err
	}
	if f.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return f, err
	}
	if f.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return f, err
	}

	switch f.outputFormat {
	case "text", "short", "json":
	default:
		return f, errInvalidFlag("format", f.outputFormat, "text|short|json")
	}
	if f.stdout && f.check {
		return f, errors.New("--stdout cannot be used with --check")
	}
	if f.stdout && f.outputFormat == "json" {
		return f, errors.New("--stdout is only supported with text output")
	}
	return f, nil
}

// buildFormatOptions merges defaults, .vlalign.toml and command line flags,
// in that order of precedence.
func buildFormatOptions(cmd *cobra.Command) (driver.FormatOptions, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return driver.FormatOptions{}, fmt.Errorf("%s: %w", diag.CfgInvalid.ID(), err)
	}

	opts := driver.FormatOptions{
		Options:    cfg.FormatOptions(),
		Extensions: cfg.Files.Extensions,
		Exclude:    cfg.Excluded,
	}
	flags := cmd.Flags()
	if flags.Changed("condense-blank-lines") {
		opts.Options.CondenseBlankLines, _ = flags.GetBool("condense-blank-lines")
	}
	if flags.Changed("align-end-of-line") {
		opts.Options.AlignEndOfLine, _ = flags.GetBool("align-end-of-line")
	}
	if opts.Check, err = flags.GetBool("check"); err != nil {
		return opts, err
	}
	if opts.Verify, err = flags.GetBool("verify"); err != nil {
		return opts, err
	}
	if opts.Jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return opts, err
	}

	linesValue, err := flags.GetString("lines")
	if err != nil {
		return opts, err
	}
	if opts.Lines, err = source.ParseLineRange(linesValue); err != nil {
		return opts, fmt.Errorf("%s: %w", diag.CfgBadRange.ID(), err)
	}

	useCache := cfg.Cache.Enabled
	if flags.Changed("cache") {
		useCache, _ = flags.GetBool("cache")
	}
	if useCache {
		var cache *driver.DiskCache
		if cfg.Cache.Dir != "" {
			cache, err = driver.OpenDiskCacheAt(cfg.Cache.Dir)
		} else {
			cache, err = driver.OpenDiskCache("vlalign")
		}
		if err != nil {
			// без кэша форматирование всё равно работает
			fmt.Fprintf(cmd.ErrOrStderr(), "fmt: %s: cache disabled: %v\n", diag.IOCacheError.ID(), err)
		} else {
			opts.Cache = cache
		}
	}
	return opts, nil
}

func loadConfig(cmd *cobra.Command) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, err
	}
	if path != "" {
		return project.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return project.Default(), nil
	}
	cfg, _, err := project.Load(wd)
	return cfg, err
}

func renderFmtStdout(cmd *cobra.Command, results []driver.FormatResult) (hasErrors bool) {
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(cmd.ErrOrStderr(), "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if res.Bag != nil && res.Bag.HasErrors() {
			hasErrors = true
		}
		_, _ = cmd.OutOrStdout().Write(res.Formatted)
	}
	return hasErrors
}

func renderFmtText(cmd *cobra.Command, results []driver.FormatResult, flags fmtFlags) (hasErrors, hasChanges bool) {
	changed := color.New(color.FgYellow)
	for _, res := range results {
		if res.Err != nil {
			hasErrors = true
			fmt.Fprintf(cmd.ErrOrStderr(), "fmt: %s: %v\n", res.Path, res.Err)
			continue
		}
		if res.Bag != nil && res.Bag.HasErrors() {
			hasErrors = true
		}
		if !res.Changed {
			continue
		}
		hasChanges = true
		if flags.quiet {
			continue
		}
		if flags.check {
			fmt.Fprintln(cmd.OutOrStdout(), changed.Sprint(res.Path))
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "aligned %s\n", res.Path)
	}
	return hasErrors, hasChanges
}

func renderFmtReport(w io.Writer, results []driver.FormatResult, fs *source.FileSet) {
	opts := diagfmt.PrettyOpts{
		Color:     !color.NoColor,
		Context:   1,
		PathMode:  diagfmt.PathModeAuto,
		ShowNotes: true,
		ShowFixes: true,
	}
	for _, res := range results {
		if res.Bag == nil || res.Bag.Len() == 0 {
			continue
		}
		res.Bag.Sort()
		diagfmt.Pretty(w, res.Bag, fs, opts)
	}
	fmt.Fprintf(w, "fmt: %s\n", summarize(results))
}

// renderFmtShort prints one line per diagnostic, stable across runs.
func renderFmtShort(w io.Writer, results []driver.FormatResult, fs *source.FileSet) {
	var all []*diag.Diagnostic
	for _, res := range results {
		if res.Bag != nil {
			all = append(all, res.Bag.Refs()...)
		}
	}
	if out := diag.FormatShortDiagnostics(all, fs, true); out != "" {
		fmt.Fprintln(w, out)
	}
}

func renderFmtJSON(w io.Writer, results []driver.FormatResult, fs *source.FileSet, flags fmtFlags) (hasErrors, hasChanges bool, err error) {
	type jsonResult struct {
		Path        string                   `json:"path"`
		Changed     bool                     `json:"changed"`
		Mode        string                   `json:"mode,omitempty"`
		CacheHit    bool                     `json:"cache_hit,omitempty"`
		Error       string                   `json:"error,omitempty"`
		CheckRun    bool                     `json:"check"`
		Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics,omitempty"`
	}

	payload := make([]jsonResult, 0, len(results))
	for _, res := range results {
		jr := jsonResult{Path: res.Path, Changed: res.Changed, CheckRun: flags.check, CacheHit: res.CacheHit}
		if res.Err != nil {
			hasErrors = true
			jr.Error = res.Err.Error()
		} else {
			jr.Mode = res.Mode.String()
		}
		hasChanges = hasChanges || res.Changed
		if res.Bag != nil {
			hasErrors = hasErrors || res.Bag.HasErrors()
			if flags.report && fs != nil {
				res.Bag.Sort()
				out := diagfmt.BuildDiagnosticsOutput(res.Bag, fs, diagfmt.JSONOpts{
					IncludePositions: true,
					PathMode:         diagfmt.PathModeAuto,
					IncludeNotes:     true,
					IncludeFixes:     true,
				})
				jr.Diagnostics = out.Diagnostics
			}
		}
		payload = append(payload, jr)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return hasErrors, hasChanges, fmt.Errorf("fmt: %w", err)
	}
	return hasErrors, hasChanges, nil
}

func summarize(results []driver.FormatResult) string {
	var changed, failed int
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
		case res.Changed:
			changed++
		}
	}
	parts := []string{fmt.Sprintf("%d files", len(results))}
	if changed > 0 {
		parts = append(parts, fmt.Sprintf("%d aligned", changed))
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", failed))
	}
	return strings.Join(parts, ", ")
}
