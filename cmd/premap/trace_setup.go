package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"premap/internal/trace"
)

var (
	activeTracer  trace.Tracer = trace.Nop
	tracerCleanup              = func() {}
)

// prepareRun starts profiling and tracing before any command runs; main
// calls tracerCleanup once the command returns.
func prepareRun(cmd *cobra.Command, _ []string) error {
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		stopProfiling()
		return err
	}
	ctx, span := trace.StartSpan(cmd.Context(), trace.ScopeDriver, cmd.Name())
	cmd.SetContext(ctx)
	tracerCleanup = func() {
		span.End("")
		cleanup()
		stopProfiling()
		tracerCleanup = func() {}
	}
	return nil
}

// setupTracing inspects trace-related flags and initializes the tracer.
// It returns a cleanup function and an error if initialization fails.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}

	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}

	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}

	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}

	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	activeTracer = tracer

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}

	cleanup := func() {
		if heartbeat != nil {
			heartbeat.Stop()
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
		activeTracer = trace.Nop
	}
	return cleanup, nil
}

// dumpTraceOnPanic prints the ring buffer (if any) to stderr and re-panics.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	if ring := trace.RingOf(activeTracer); ring != nil {
		fmt.Fprintln(os.Stderr, "premap: panic, last trace events:")
		_ = ring.Dump(os.Stderr, trace.FormatText)
	}
	tracerCleanup()
	panic(r)
}
