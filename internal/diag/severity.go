package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevHelp suggests how to proceed.
	SevHelp Severity = iota
	// SevNote is informational.
	SevNote
	SevWarning
	SevError
	// SevBug reports an internal failure; it counts as an error.
	SevBug
)

func (s Severity) String() string {
	switch s {
	case SevHelp:
		return "help"
	case SevNote:
		return "note"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	case SevBug:
		return "bug"
	}
	return "unknown"
}

// IsError reports whether s is counted as an error (Error or Bug).
func (s Severity) IsError() bool {
	return s >= SevError
}

// ParseSeverity accepts the lowercase names produced by String.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "help":
		return SevHelp, nil
	case "note", "info":
		return SevNote, nil
	case "warning", "warn":
		return SevWarning, nil
	case "error":
		return SevError, nil
	case "bug":
		return SevBug, nil
	}
	return 0, fmt.Errorf("unknown severity %q (expected bug|error|warning|note|help)", s)
}
