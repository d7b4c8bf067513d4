package cliutil

import (
	"fmt"
	"strings"
)

// CoreFormats are the output format names this package recognizes. No
// subcommand takes a format flag.
var CoreFormats = []string{"default", "json"}

// ValidateFormat checks that format is one of allowed, the same
// validation shape the teacher's pkg/cliutil.ValidateFormat uses.
func ValidateFormat(format string, allowed []string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format: %s (allowed: %s)", format, strings.Join(allowed, ", "))
}

// IsMachineFormat reports whether format is meant for machine consumption
// rather than a human-readable terminal listing.
func IsMachineFormat(format string) bool {
	return strings.ToLower(format) == "json"
}

// FormatWarning renders one pipeline.Warning as a single styled line.
func FormatWarning(kind, path, message string) string {
	return WarningStyle.Render(fmt.Sprintf("[%s] %s: %s", kind, path, message))
}

// FormatEntry renders one diskwriter.Entry action as a single styled line
// for `apply --dry-run`/`diff` output.
func FormatEntry(path, action string) string {
	switch action {
	case "write":
		return AddedStyle.Render("+ " + path)
	case "skip-exists":
		return SkippedStyle.Render("= " + path)
	case "dry-run":
		return ChangedStyle.Render("~ " + path)
	default:
		return path
	}
}
