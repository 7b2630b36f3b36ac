package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"time"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"vlalign/internal/diag"
	"vlalign/internal/format"
	"vlalign/internal/observ"
	"vlalign/internal/project"
	"vlalign/internal/source"
	"vlalign/internal/trace"
)

const defaultMaxDiagnostics = 256

// FormatOptions configures code formatting.
type FormatOptions struct {
	// Check reports changes without writing them.
	Check bool
	// Stdout returns the formatted bytes instead of rewriting files.
	Stdout bool
	// Verify runs a second pass over every block and reports FMT1003 when
	// it changes the output.
	Verify bool
	// Timings attaches an OBS6001 diagnostic with per-file phase timings.
	Timings bool

	Options        format.Options
	Lines          source.LineRange
	Jobs           int
	MaxDiagnostics int

	// Extensions used when walking directories; project.DefaultExtensions
	// when empty.
	Extensions []string
	// Exclude skips collected files; nil keeps everything.
	Exclude func(path string) bool

	Cache    *DiskCache
	Progress ProgressSink
	// Timer accumulates per-phase durations across all files.
	Timer *observ.Timer
}

func (o FormatOptions) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return defaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

// FormatResult captures the result of formatting a single file.
type FormatResult struct {
	Path    string
	FileID  source.FileID
	Changed bool
	Err     error
	// Formatted holds the encoded output in Stdout mode.
	Formatted []byte
	Mode      format.Mode
	CacheHit  bool
	Bag       *diag.Bag
}

// FormatPaths formats provided files or directories (recursively collecting
// HDL sources). Results come back in sorted path order together with the
// FileSet their diagnostics refer to. Per-file failures are stored in
// FormatResult.Err; the returned error is reserved for the run itself
// (nothing to format, cancellation).
func FormatPaths(ctx context.Context, paths []string, opts FormatOptions) ([]FormatResult, *source.FileSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeRun, "format_paths", trace.ParentID(ctx))
	defer span.End("")

	files, err := collectSourceFiles(ctx, paths, opts.Extensions, opts.Exclude)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, errors.New("format: no source files found")
	}
	span.WithExtra("files", fmt.Sprint(len(files)))

	// FileSet заполняется до запуска горутин, дальше только чтение
	fileSet := source.NewFileSet()
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = fileID
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FormatResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErr, failed := loadErrors[path]; failed {
				bag := diag.NewBag(opts.maxDiagnostics())
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
				results[i] = FormatResult{Path: path, Err: loadErr, Bag: bag}
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
				return nil
			}
			results[i] = formatFile(gctx, fileSet.Get(fileIDs[path]), path, opts, span.ID())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, fileSet, err
	}
	return results, fileSet, nil
}

// FormatSource formats bytes that did not come from a file (stdin). The
// result is never written to disk: Formatted is filled unless Check is set.
func FormatSource(ctx context.Context, name string, data []byte, opts FormatOptions) (FormatResult, *source.FileSet) {
	fileSet := source.NewFileSet()
	fileID, err := fileSet.AddRaw(name, data)
	if err != nil {
		bag := diag.NewBag(opts.maxDiagnostics())
		bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, err.Error()))
		return FormatResult{Path: name, Err: err, Bag: bag}, fileSet
	}
	opts.Stdout = !opts.Check
	return formatFile(ctx, fileSet.Get(fileID), name, opts, trace.ParentID(ctx)), fileSet
}

func formatFile(ctx context.Context, sf *source.File, path string, opts FormatOptions, parent uint64) FormatResult {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "format_file", parent).WithExtra("path", path)

	res := FormatResult{Path: path, FileID: sf.ID, Bag: diag.NewBag(opts.maxDiagnostics())}
	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}
	started := time.Now()

	fail := func(stage Stage, err error) FormatResult {
		res.Err = err
		emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		span.End(err.Error())
		return res
	}

	block, start, end, err := sf.Select(opts.Lines)
	if err != nil {
		res.Bag.Add(diag.NewError(diag.CfgBadRange, source.Span{File: sf.ID}, err.Error()))
		return fail(StageLoad, err)
	}

	emit(opts.Progress, Event{File: path, Stage: StageAlign, Status: StatusWorking})
	phase := beginPhase(timer, "align")
	alignStart := time.Now()
	out, hit, cacheErr := alignBlock(ctx, block, opts, span.ID())
	endPhase(timer, phase, opts.Timer, "align", alignStart)
	res.Mode, res.CacheHit = out.Mode, hit
	if cacheErr != nil {
		res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheError, source.Span{File: sf.ID}, cacheErr.Error()))
	}
	firstLine := max(opts.Lines.Start, 1)
	reportBlock(res.Bag, sf, firstLine, out)

	if opts.Verify {
		emit(opts.Progress, Event{File: path, Stage: StageVerify, Status: StatusWorking})
		phase = beginPhase(timer, "verify")
		verifyStart := time.Now()
		if ok, msg := format.CheckIdempotent(block, opts.Options); !ok {
			res.Bag.Add(diag.NewError(diag.FmtNotIdempotent, sf.LineSpan(firstLine), msg))
		}
		endPhase(timer, phase, opts.Timer, "verify", verifyStart)
	}

	formatted := sf.Splice(start, end, out.Text)
	res.Changed = !bytes.Equal(formatted, sf.Content)

	switch {
	case opts.Check:
		if res.Changed {
			sp := blockSpan(sf, start, end)
			res.Bag.Add(diag.New(diag.SevWarning, diag.FmtWouldChange, sp, "block is not aligned").
				WithFix("align block", diag.FixEdit{Span: sp, NewText: out.Text}))
		}
	case opts.Stdout:
		encoded, err := sf.Encode(formatted)
		if err != nil {
			res.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: sf.ID}, err.Error()))
			return fail(StageWrite, err)
		}
		res.Formatted = encoded
	case res.Changed:
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
		phase = beginPhase(timer, "write")
		writeStart := time.Now()
		err := writeFile(sf, path, formatted)
		endPhase(timer, phase, opts.Timer, "write", writeStart)
		if err != nil {
			res.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: sf.ID}, err.Error()))
			return fail(StageWrite, err)
		}
	}

	if timer != nil {
		report := timer.Report()
		appendTimingDiagnostic(res.Bag, timingPayload{Path: path, TotalMS: report.TotalMS, Phases: report.Phases})
	}
	status := StatusDone
	if res.Bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, Event{File: path, Stage: StageAlign, Status: status, Elapsed: time.Since(started)})
	span.WithExtra("mode", out.Mode.String()).WithExtra("changed", fmt.Sprint(res.Changed))
	span.End("")
	return res
}

// alignBlock runs the engine, consulting the disk cache first.
func alignBlock(ctx context.Context, block string, opts FormatOptions, parent uint64) (res format.Result, hit bool, err error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "align_block", parent)
	defer func() {
		span.WithExtra("cache_hit", fmt.Sprint(hit))
		span.End("")
	}()

	if opts.Cache == nil {
		return format.Align(block, opts.Options), false, nil
	}
	key := blockKey(block, opts.Options, opts.Lines)
	var payload BlockPayload
	ok, getErr := opts.Cache.Get(key, &payload)
	if getErr == nil && ok {
		return payloadToResult(&payload), true, nil
	}
	res = format.Align(block, opts.Options)
	if putErr := opts.Cache.Put(key, resultToPayload(res)); putErr != nil {
		return res, false, fmt.Errorf("cache: %w", putErr)
	}
	if getErr != nil {
		return res, false, fmt.Errorf("cache: %w", getErr)
	}
	return res, false, nil
}

// reportBlock converts the engine report into diagnostics. firstLine is the
// 1-based file line of the block's first line.
func reportBlock(bag *diag.Bag, sf *source.File, firstLine int, res format.Result) {
	if res.Mode == format.ModeEmpty {
		return
	}
	r := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	for _, idx := range res.Verbatim {
		diag.ReportInfo(r, diag.FmtVerbatimLine, sf.LineSpan(firstLine+idx), "line left untouched").Emit()
	}
	if res.RangeMismatch {
		diag.ReportWarning(r, diag.FmtRangeDims, sf.LineSpan(firstLine),
			"bracket group counts differ inside the block; missing groups are padded").
			WithNote(sf.LineSpan(firstLine), "lines with fewer groups get empty columns").
			Emit()
	}
	if res.Aligned == 0 {
		diag.ReportInfo(r, diag.FmtNoAlignedLines, sf.LineSpan(firstLine),
			fmt.Sprintf("no %s to align", res.Mode)).Emit()
	}
}

func blockSpan(sf *source.File, start, end int) source.Span {
	sp := source.Span{File: sf.ID}
	if s, e, ok := convSpan(start, end); ok {
		sp.Start, sp.End = s, e
	}
	return sp
}

func writeFile(sf *source.File, path string, content []byte) error {
	encoded, err := sf.Encode(content)
	if err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, encoded, mode.Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func beginPhase(t *observ.Timer, name string) int {
	if t == nil {
		return -1
	}
	return t.Begin(name)
}

func endPhase(t *observ.Timer, idx int, total *observ.Timer, name string, started time.Time) {
	if t != nil && idx >= 0 {
		t.End(idx, "")
	}
	if total != nil {
		total.Add(name, time.Since(started))
	}
}

func collectSourceFiles(ctx context.Context, paths, extensions []string, exclude func(string) bool) ([]string, error) {
	if len(extensions) == 0 {
		extensions = project.DefaultExtensions
	}
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		if exclude != nil && exclude(path) {
			return
		}
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}
	hasExt := func(path string) bool {
		return slices.Contains(extensions, strings.ToLower(filepath.Ext(path)))
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			// явно указанный файл форматируется независимо от расширения
			addFile(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExt(path) {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func convSpan(start, end int) (s, e uint32, ok bool) {
	s, err1 := safecast.Conv[uint32](start)
	e, err2 := safecast.Conv[uint32](end)
	return s, e, err1 == nil && err2 == nil
}
