package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"premap/internal/codemap"
	"premap/internal/diag"
	"premap/internal/source"
	"premap/internal/trace"
)

// IndexOptions configures IndexFiles.
type IndexOptions struct {
	Marker         string
	Jobs           int // 0 - GOMAXPROCS
	MaxDiagnostics int
	Cache          *DiskCache // nil - без кэша
	Progress       ProgressSink
}

// Result is the outcome of indexing one input.
type Result struct {
	Path    string
	File    *source.File     // nil when the input could not be read
	Codemap *codemap.Codemap // nil when construction failed
	Cached  bool             // restored from the cache
	Bag     *diag.Bag
	Elapsed time.Duration
}

// Locator returns the codemap, or a plain view of the input when there is
// none, so the result's diagnostics can always be rendered.
func (r *Result) Locator() codemap.Locator {
	if r.Codemap != nil {
		return r.Codemap
	}
	var content []byte
	if r.File != nil {
		content = r.File.Content
	}
	return codemap.NewSingleFile(r.Path, content)
}

// IndexFiles builds codemaps for every path concurrently. Per-file failures
// become diagnostics in the result's Bag; the returned error is reserved for
// invalid options and cancellation. Results keep the order of paths.
func IndexFiles(ctx context.Context, paths []string, opts IndexOptions) (*source.FileSet, []Result, error) {
	cmOpts := codemap.Options{Marker: opts.Marker}
	if cmOpts.Marker == "" {
		cmOpts.Marker = codemap.DefaultMarker
	}
	if err := cmOpts.Validate(); err != nil {
		return nil, nil, err
	}

	ctx, span := trace.StartSpan(ctx, trace.ScopePass, "index")
	defer span.End(strconv.Itoa(len(paths)) + " files")

	fileSet := source.NewFileSet()
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return fileSet, results, nil
	}

	for _, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// FileSet не потокобезопасен: загружаем последовательно, как и раньше
	for i, path := range paths {
		results[i] = Result{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics)}
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
		id, err := fileSet.LoadInput(path)
		if err != nil {
			results[i].Bag.Add(DiagnosticFor(err))
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
			continue
		}
		results[i].File = fileSet.Get(id)
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i := range results {
		r := &results[i]
		if r.File == nil {
			continue
		}
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			started := time.Now()
			fspan := span.Child(trace.ScopeFile, "file:"+r.Path)
			r.Codemap, r.Cached = indexOne(fspan, r, cmOpts, opts)
			r.Elapsed = time.Since(started)

			status := StatusDone
			detail := "ok"
			switch {
			case r.Codemap == nil:
				status, detail = StatusError, "failed"
			case r.Cached:
				detail = "cached"
			}
			fspan.Set("segments", strconv.Itoa(segmentCount(r.Codemap))).End(detail)
			emit(opts.Progress, Event{File: r.Path, Stage: StageIndex, Status: status, Elapsed: r.Elapsed})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

func indexOne(span *trace.Span, r *Result, cmOpts codemap.Options, opts IndexOptions) (*codemap.Codemap, bool) {
	content := r.File.Content
	key := CacheKey(r.File.Hash, cmOpts.Marker)

	if opts.Cache != nil {
		emit(opts.Progress, Event{File: r.Path, Stage: StageCache, Status: StatusWorking})
		var payload DiskPayload
		ok, err := opts.Cache.Get(key, &payload)
		switch {
		case err != nil && errors.Is(err, codemap.ErrCorruptIndex):
			r.Bag.Add(diag.Warning().WithCode(diag.IdxCorrupt).WithMessage(err.Error()).
				WithNote("the index is rebuilt from the file"))
		case err != nil:
			r.Bag.Add(diag.Warning().WithCode(diag.IdxCacheFail).WithMessage(err.Error()))
		case ok:
			cm, err := codemap.Restore(content, payload.Index, cmOpts)
			if err == nil {
				span.Point(trace.ScopeFile, "cache-hit", r.Path)
				return cm, true
			}
			r.Bag.Add(diag.Warning().WithCode(diag.IdxStale).WithMessage(err.Error()).
				WithNote("the index is rebuilt from the file"))
		}
	}

	emit(opts.Progress, Event{File: r.Path, Stage: StageIndex, Status: StatusWorking})
	cm, err := codemap.NewWithOptions(content, cmOpts)
	if err != nil {
		r.Bag.Add(DiagnosticFor(err))
		return nil, false
	}
	if span.Records(trace.ScopeDirective) {
		for i := range cm.Segments() {
			name, _ := cm.Name(codemap.SegmentID(i)) //nolint:gosec // bounded by the segment count
			span.Point(trace.ScopeDirective, "segment", fmt.Sprintf("#%d %q", i, name))
		}
	}

	if opts.Cache != nil {
		emit(opts.Progress, Event{File: r.Path, Stage: StageStore, Status: StatusWorking})
		payload := &DiskPayload{Schema: diskCacheSchemaVersion, Path: r.Path, Index: cm.Index()}
		if err := opts.Cache.Put(key, payload); err != nil {
			r.Bag.Add(diag.Warning().WithCode(diag.IdxCacheFail).WithMessage("failed to store index: " + err.Error()))
		}
	}
	return cm, false
}

func segmentCount(cm *codemap.Codemap) int {
	if cm == nil {
		return 0
	}
	return len(cm.Segments())
}

// DiagnosticFor converts a load or construction error into a diagnostic.
// Directive errors carry a primary label on the offending line, in
// flattened coordinates.
func DiagnosticFor(err error) diag.Diagnostic {
	var de *codemap.DirectiveError
	switch {
	case errors.As(err, &de):
		code := diag.DirBadLineNumber
		if errors.Is(de.Err, codemap.ErrLineNumberOverflow) {
			code = diag.DirLineOverflow
		}
		return diag.Error().
			WithCode(code).
			WithMessage(fmt.Sprintf("unusable line directive %q", de.Text)).
			WithPrimaryLabel(de.Span, de.Err.Error())
	case errors.Is(err, codemap.ErrInvalidMarker):
		return diag.NewError(diag.DirInvalidMarker, err.Error())
	case errors.Is(err, codemap.ErrContentTooLarge):
		return diag.NewError(diag.IOContentTooLarge, err.Error())
	default:
		return diag.NewError(diag.IOLoadFileError, "failed to load file: "+err.Error())
	}
}
