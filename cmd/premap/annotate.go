package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"premap/internal/codemap"
	"premap/internal/diag"
	"premap/internal/diagfmt"
	"premap/internal/driver"
	"premap/internal/observ"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [flags] <file|->",
	Short: "Render a diagnostic against a preprocessed file",
	Long: `annotate builds a diagnostic from the given byte ranges of the flattened
file and renders it in original coordinates. The exit status is 1 when an
error (or bug) was emitted.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	addInputFlags(annotateCmd)
	annotateCmd.Flags().String("primary", "", "primary label as A..B[=message]")
	annotateCmd.Flags().StringArray("secondary", nil, "secondary label as A..B[=message] (repeatable)")
	annotateCmd.Flags().String("severity", "error", "severity (bug|error|warning|note|help)")
	annotateCmd.Flags().String("message", "", "diagnostic message")
	annotateCmd.Flags().StringArray("note", nil, "note line (repeatable)")
	annotateCmd.Flags().Uint16("code", uint16(diag.UserReport), "diagnostic code")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	d, err := annotationFromFlags(cmd)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()
	in, loadErr := driver.Load(cmd.Context(), args[0], s.codemapOptions(), timer)
	if in == nil {
		return loadErr
	}
	loc := in.Locator(s.plain)

	diags := make([]diag.Diagnostic, 0, 3)
	if loadErr != nil {
		diags = append(diags, driver.DiagnosticFor(loadErr))
	}
	diags = append(diags, d)
	if s.timings {
		diags = append(diags, timer.Diagnostic())
	}

	if s.format == "json" {
		bag := diag.NewBag(s.maxDiagnostics)
		for _, item := range diags {
			bag.Add(item)
		}
		if err := diagfmt.JSON(cmd.OutOrStdout(), bag, loc, s.jsonOpts()); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		if bag.HasErrors() {
			exitCode = 1
		}
		return nil
	}

	emitter := diagfmt.NewEmitter(cmd.OutOrStdout(), loc, nil, s.prettyOpts(os.Stdout))
	for _, item := range diags {
		emitter.Report(item)
	}
	statusErr := emitter.EmitStatus()
	if err := emitter.Err(); err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}
	if statusErr != nil {
		exitCode = 1
	}
	return nil
}

func annotationFromFlags(cmd *cobra.Command) (diag.Diagnostic, error) {
	flags := cmd.Flags()

	severityStr, err := flags.GetString("severity")
	if err != nil {
		return diag.Diagnostic{}, fmt.Errorf("failed to get severity flag: %w", err)
	}
	sev, err := diag.ParseSeverity(severityStr)
	if err != nil {
		return diag.Diagnostic{}, err
	}
	code, err := flags.GetUint16("code")
	if err != nil {
		return diag.Diagnostic{}, fmt.Errorf("failed to get code flag: %w", err)
	}
	message, err := flags.GetString("message")
	if err != nil {
		return diag.Diagnostic{}, fmt.Errorf("failed to get message flag: %w", err)
	}
	primary, err := flags.GetString("primary")
	if err != nil {
		return diag.Diagnostic{}, fmt.Errorf("failed to get primary flag: %w", err)
	}
	secondary, err := flags.GetStringArray("secondary")
	if err != nil {
		return diag.Diagnostic{}, fmt.Errorf("failed to get secondary flag: %w", err)
	}
	notes, err := flags.GetStringArray("note")
	if err != nil {
		return diag.Diagnostic{}, fmt.Errorf("failed to get note flag: %w", err)
	}

	return buildAnnotation(sev, diag.Code(code), message, primary, secondary, notes)
}

func buildAnnotation(sev diag.Severity, code diag.Code, message, primary string, secondary, notes []string) (diag.Diagnostic, error) {
	d := diag.New(sev).WithCode(code).WithMessage(message)
	if primary != "" {
		spec, err := parseLabelSpec(primary)
		if err != nil {
			return diag.Diagnostic{}, fmt.Errorf("--primary: %w", err)
		}
		d = d.WithPrimaryLabel(spec.span, spec.message)
	}
	for _, raw := range secondary {
		spec, err := parseLabelSpec(raw)
		if err != nil {
			return diag.Diagnostic{}, fmt.Errorf("--secondary: %w", err)
		}
		d = d.WithSecondaryLabel(spec.span, spec.message)
	}
	for _, n := range notes {
		d = d.WithNote(n)
	}
	return d, nil
}

// reportLoadFailure renders a codemap construction failure against the raw
// input and marks the run as failed.
func reportLoadFailure(cmd *cobra.Command, s settings, in *driver.Input, loadErr error) error {
	loc := codemap.NewSingleFile(in.File.Path, in.File.Content)
	d := driver.DiagnosticFor(loadErr)
	exitCode = 1

	if s.format == "json" {
		bag := diag.NewBag(s.maxDiagnostics)
		bag.Add(d)
		if err := diagfmt.JSON(cmd.OutOrStdout(), bag, loc, s.jsonOpts()); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		return nil
	}
	emitter := diagfmt.NewEmitter(cmd.ErrOrStderr(), loc, nil, s.prettyOpts(os.Stderr))
	emitter.Report(d)
	_ = emitter.EmitStatus()
	return emitter.Err()
}

func printTimings(cmd *cobra.Command, s settings, timer *observ.Timer) {
	if s.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
}
