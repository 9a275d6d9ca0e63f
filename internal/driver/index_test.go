package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"premap/internal/codemap"
	"premap/internal/diag"
	"premap/internal/trace"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSink) final(file string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	var last Status
	for _, ev := range s.events {
		if ev.File == file {
			last = ev.Status
		}
	}
	return last
}

func writeInputs(t *testing.T, files map[string]string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, p)
	}
	return dir, paths
}

func TestIndexFiles(t *testing.T) {
	dir, paths := writeInputs(t, map[string]string{
		"ok.i":    "#line 1 \"ok.c\"\nint x;\n",
		"plain.i": "int y;\n",
		"bad.i":   "a\n#line 0 \"bad.c\"\nb\n",
	})
	paths = append(paths, filepath.Join(dir, "missing.i"))

	sink := &recordingSink{}
	_, results, err := IndexFiles(context.Background(), paths, IndexOptions{Jobs: 2, Progress: sink})
	if err != nil {
		t.Fatalf("IndexFiles: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}

	for i, r := range results {
		if r.Path != paths[i] {
			t.Errorf("result %d out of order: %s", i, r.Path)
		}
		base := filepath.Base(r.Path)
		switch base {
		case "ok.i":
			if r.Codemap == nil || len(r.Codemap.Segments()) != 2 || r.Bag.Len() != 0 {
				t.Errorf("ok.i: unexpected result %+v", r)
			}
		case "plain.i":
			if r.Codemap == nil || len(r.Codemap.Segments()) != 1 {
				t.Errorf("plain.i: unexpected result %+v", r)
			}
		case "bad.i":
			if r.Codemap != nil || !r.Bag.HasErrors() {
				t.Fatalf("bad.i should fail with a diagnostic")
			}
			d := r.Bag.Items()[0]
			if d.Code != diag.DirBadLineNumber {
				t.Errorf("bad.i: unexpected code %v", d.Code)
			}
			loc, err := codemap.Locate(r.Locator(), d.Labels[0].Span().Start)
			if err != nil || loc.Line != 1 || loc.Name != r.Path {
				t.Errorf("bad.i: directive should resolve to line 2 of the input, got %+v %v", loc, err)
			}
			if sink.final(r.Path) != StatusError {
				t.Errorf("bad.i: expected error status")
			}
		case "missing.i":
			if r.File != nil || r.Bag.Items()[0].Code != diag.IOLoadFileError {
				t.Errorf("missing.i: expected load error, got %+v", r.Bag.Items())
			}
		}
		if base != "bad.i" && base != "missing.i" && sink.final(r.Path) != StatusDone {
			t.Errorf("%s: expected done status", base)
		}
	}
}

func TestIndexFilesCache(t *testing.T) {
	_, paths := writeInputs(t, map[string]string{
		"a.i": "#line 4 \"a.c\"\nx\n#line 9\ny\n",
	})
	cache, err := OpenDiskCache("premap", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := IndexOptions{Cache: cache}

	_, first, err := IndexFiles(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Cached || first[0].Codemap == nil {
		t.Fatalf("first run should build: %+v", first[0])
	}

	_, second, err := IndexFiles(context.Background(), paths, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second[0].Cached {
		t.Fatal("second run should hit the cache")
	}
	a, b := first[0].Codemap.Segments(), second[0].Codemap.Segments()
	if len(a) != len(b) {
		t.Fatalf("restored codemap differs: %d vs %d segments", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("segment %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	// другой маркер - другой ключ
	_, third, err := IndexFiles(context.Background(), paths, IndexOptions{Cache: cache, Marker: "#"})
	if err != nil {
		t.Fatal(err)
	}
	if third[0].Cached {
		t.Error("a different marker must not reuse the cached index")
	}
}

func TestIndexFilesInvalidMarker(t *testing.T) {
	_, _, err := IndexFiles(context.Background(), []string{"x"}, IndexOptions{Marker: "# line"})
	if !errors.Is(err, codemap.ErrInvalidMarker) {
		t.Errorf("expected ErrInvalidMarker, got %v", err)
	}
}

func TestIndexFilesCancelled(t *testing.T) {
	_, paths := writeInputs(t, map[string]string{"a.i": "x\n", "b.i": "y\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := IndexFiles(ctx, paths, IndexOptions{Jobs: 1}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIndexFilesTraced(t *testing.T) {
	_, paths := writeInputs(t, map[string]string{"a.i": "#line 2 \"a.c\"\nx\n"})
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)
	if _, _, err := IndexFiles(ctx, paths, IndexOptions{}); err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		names = append(names, ev.Name)
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"index", "file:" + paths[0], "segment"} {
		if !strings.Contains(joined, want) {
			t.Errorf("trace missing %q: %s", want, joined)
		}
	}
}

func TestLoad(t *testing.T) {
	_, paths := writeInputs(t, map[string]string{"a.i": "\ufeff#line 7 \"a.c\"\r\nx\r\n"})
	in, err := Load(context.Background(), paths[0], codemap.Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	loc, err := codemap.Locate(in.Locator(false), uint32(strings.Index(string(in.File.Content), "x")))
	if err != nil || loc.Name != "a.c" || loc.Line != 6 {
		t.Errorf("unexpected location %+v %v", loc, err)
	}
	plain, _ := codemap.Locate(in.Locator(true), 0)
	if plain.Name != in.File.Path {
		t.Errorf("plain locator should use the input path, got %q", plain.Name)
	}

	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"), codemap.Options{}, nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestDiagnosticFor(t *testing.T) {
	_, err := codemap.New([]byte("#line 999999999999999999999\n"))
	if d := DiagnosticFor(err); d.Code != diag.DirLineOverflow || len(d.Labels) != 1 {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if d := DiagnosticFor(codemap.ErrContentTooLarge); d.Code != diag.IOContentTooLarge {
		t.Errorf("unexpected code %v", d.Code)
	}
	if d := DiagnosticFor(os.ErrPermission); d.Code != diag.IOLoadFileError || !strings.Contains(d.Message, "permission") {
		t.Errorf("unexpected diagnostic %+v", d)
	}
}
