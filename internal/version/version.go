package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the premap CLI.
// These variables can be overridden at build time via -ldflags.

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored returns v with major, minor and patch painted separately. Anything
// that is not MAJOR.MINOR.PATCH[-suffix] is returned unchanged.
func Colored(v string, enabled bool) string {
	core, suffix, hasSuffix := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if !enabled || len(parts) != 3 {
		return v
	}
	out := paint(versionMajorColor, parts[0]) + "." +
		paint(versionMinorColor, parts[1]) + "." +
		paint(versionPatchColor, parts[2])
	if hasSuffix {
		out += "-" + suffix
	}
	return out
}

func paint(c *color.Color, s string) string {
	// явно включаем: решение о цвете уже принято вызывающим
	c.EnableColor()
	return c.Sprint(s)
}
