package driver

import (
	"context"
	"fmt"

	"premap/internal/codemap"
	"premap/internal/observ"
	"premap/internal/source"
	"premap/internal/trace"
)

// Input is one loaded preprocessed file.
type Input struct {
	Files   *source.FileSet
	File    *source.File
	Codemap *codemap.Codemap // nil when construction failed
}

// Locator returns the codemap, or the whole input as a single file when
// plain is set or the codemap could not be built.
func (in *Input) Locator(plain bool) codemap.Locator {
	if in.Codemap != nil && !plain {
		return in.Codemap
	}
	return codemap.NewSingleFile(in.File.Path, in.File.Content)
}

// Load reads path ("-" for stdin) and builds its codemap. When only the
// codemap fails, the returned Input still carries the file so the error can
// be rendered against it.
func Load(ctx context.Context, path string, opts codemap.Options, timer *observ.Timer) (*Input, error) {
	files := source.NewFileSet()
	_, span := trace.StartSpan(ctx, trace.ScopePass, "load")
	phase := beginPhase(timer, "load")
	id, err := files.LoadInput(path)
	endPhase(timer, phase, path)
	span.End(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	in := &Input{Files: files, File: files.Get(id)}

	_, span = trace.StartSpan(ctx, trace.ScopePass, "index")
	phase = beginPhase(timer, "index")
	in.Codemap, err = codemap.NewWithOptions(in.File.Content, opts)
	note := ""
	if in.Codemap != nil {
		note = fmt.Sprintf("%d segments", len(in.Codemap.Segments()))
	}
	endPhase(timer, phase, note)
	span.End(note)
	return in, err
}

func beginPhase(t *observ.Timer, name string) int {
	if t == nil {
		return -1
	}
	return t.Begin(name)
}

func endPhase(t *observ.Timer, idx int, note string) {
	if t != nil {
		t.End(idx, note)
	}
}
