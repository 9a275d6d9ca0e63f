package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // ring only, dumped on panic
	LevelPhase               // commands and stages
	LevelDetail              // plus one span per input file
	LevelDebug               // plus every directive
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by String, in any case.
func ParseLevel(s string) (Level, error) {
	for l, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(l), nil //nolint:gosec // index of a five element array
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
}

// maxScope is the finest scope recorded at l; zero records nothing.
func (l Level) maxScope() Scope {
	switch l {
	case LevelPhase:
		return ScopePass
	case LevelDetail:
		return ScopeFile
	case LevelDebug:
		return ScopeDirective
	default:
		// LevelError пишет только аварийный дамп
		return 0
	}
}

// ShouldEmit reports whether events of scope are recorded at l.
func (l Level) ShouldEmit(scope Scope) bool {
	return scope != 0 && scope <= l.maxScope()
}
