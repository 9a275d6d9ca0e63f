package source

type (
	// FileID uniquely identifies a loaded input within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a loaded input.
	FileFlags uint8 // метаданные
)

const (
	// FileVirtual indicates the input was added from memory (stdin, test, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single flattened input.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Lines   LineTable
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a buffer.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
