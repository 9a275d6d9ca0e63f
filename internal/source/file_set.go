package source

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// StdinName is the path used for inputs read from standard input.
const StdinName = "<stdin>"

// FileSet manages a collection of loaded inputs.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> id
	baseDir string            // базовая директория для относительных путей
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.baseDir = dir
}

// BaseDir возвращает текущую базовую директорию.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return fileSet.baseDir
}

// Add stores an input from normalized bytes, computes its line table and
// hash, and returns a new FileID. It always creates a new FileID even if an
// input with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	normalizedPath := path
	if flags&FileVirtual == 0 {
		normalizedPath = normalizePath(path)
	}

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		Lines:   BuildLineTable(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads an input from disk, normalizes CRLF/BOM, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(content)
	return fileSet.Add(path, content, flags), nil
}

// ReadAll drains r (typically stdin), normalizes it and adds it as a virtual
// input called name.
func (fileSet *FileSet) ReadAll(name string, r io.Reader) (FileID, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", name, err)
	}
	content, flags := Normalize(content)
	return fileSet.Add(name, content, flags|FileVirtual), nil
}

// LoadInput loads path, treating "-" as standard input.
func (fileSet *FileSet) LoadInput(path string) (FileID, error) {
	if path == "-" {
		return fileSet.ReadAll(StdinName, os.Stdin)
	}
	return fileSet.Load(path)
}

// AddVirtual adds a virtual input (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID, or nil when the ID is unknown.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return &fileSet.files[id]
}

// Len returns the number of inputs, counting every version.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	if !ok {
		id, ok = fileSet.index[path]
	}
	return id, ok
}

// GetByPath возвращает *File по пути, если был загружен в этот FileSet.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.GetLatest(path); ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Resolve converts a span of the given input into 1-based line/column pairs
// in flattened coordinates.
func (fileSet *FileSet) Resolve(id FileID, span Span) (start, end LineCol) {
	f := fileSet.files[id]
	return f.Lines.LineCol(span.Start), f.Lines.LineCol(span.End)
}

// FormatPath форматирует путь к файлу в зависимости от режима.
// Виртуальные файлы (stdin) печатаются как есть.
func (f *File) FormatPath(mode, baseDir string) string {
	if f.Flags&FileVirtual != 0 {
		return f.Path
	}
	return FormatPath(f.Path, mode, baseDir)
}

// FormatPath formats p for display.
// mode: "absolute", "relative", "basename", "auto"
// baseDir: базовая директория для относительных путей (игнорируется для других режимов)
func FormatPath(p, mode, baseDir string) string {
	if p == "" {
		return p
	}
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(p); err == nil {
			return abs
		}
		return p

	case "relative":
		if baseDir == "" {
			if wd, err := os.Getwd(); err == nil {
				baseDir = wd
			}
		}
		if rel, err := RelativePath(p, baseDir); err == nil {
			return rel
		}
		return p

	case "basename":
		return BaseName(p)

	case "auto":
		// Auto: если путь короткий или относительный - как есть, иначе basename
		if len(p) < 40 || !filepath.IsAbs(p) {
			return p
		}
		return BaseName(p)

	default:
		return p
	}
}
