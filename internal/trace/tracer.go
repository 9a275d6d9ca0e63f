package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer receives trace events. Emit must be safe for concurrent use; the
// driver calls it from every indexing worker.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	// Enabled reports Level() > LevelOff.
	Enabled() bool
}

// StorageMode determines where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written as they happen
	ModeRing                          // kept in memory for crash dumps
	ModeBoth                          // stream + ring
)

func (m StorageMode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseMode accepts stream|ring|both.
func ParseMode(s string) (StorageMode, error) {
	for _, m := range []StorageMode{ModeStream, ModeRing, ModeBoth} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

// Config describes the tracer built by New.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format        // FormatAuto picks by OutputPath extension
	Output     io.Writer     // stream destination; overrides OutputPath
	OutputPath string        // "" or "-" is stderr
	RingSize   int           // 0 - 4096
	Heartbeat  time.Duration // applied by the caller via StartHeartbeat
}

const defaultRingSize = 4096

// New builds the tracer cfg describes. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}

	var stream *StreamTracer
	if cfg.Mode == ModeStream || cfg.Mode == ModeBoth {
		var err error
		if stream, err = openStream(cfg); err != nil {
			return nil, err
		}
	}

	switch cfg.Mode {
	case ModeStream:
		return stream, nil
	case ModeRing:
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	case ModeBoth:
		return NewMultiTracer(cfg.Level, stream, NewRingTracer(cfg.RingSize, cfg.Level)), nil
	default:
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}
}

// formatFor resolves FormatAuto from the output file extension.
func formatFor(cfg Config) Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	switch {
	case cfg.Output != nil, cfg.OutputPath == "", cfg.OutputPath == "-":
		return FormatText
	case strings.HasSuffix(cfg.OutputPath, ".ndjson"):
		return FormatNDJSON
	case strings.HasSuffix(cfg.OutputPath, ".json"):
		return FormatChrome
	default:
		return FormatText
	}
}

func openStream(cfg Config) (*StreamTracer, error) {
	format := formatFor(cfg)
	switch {
	case cfg.Output != nil:
		return NewStreamTracer(cfg.Output, cfg.Level, format), nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return NewStreamTracer(os.Stderr, cfg.Level, format), nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return newOwnedStream(f, cfg.Level, format), nil
}
