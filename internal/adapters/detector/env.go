// Package detector inspects the environment to choose how logs are rendered.
package detector

import (
	"os"

	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// LogMode represents how log records are rendered.
type LogMode int

const (
	// ModePretty renders colored lines for a human at a terminal.
	ModePretty LogMode = iota
	// ModeJSON renders one JSON object per record.
	ModeJSON
)

func (m LogMode) String() string {
	if m == ModeJSON {
		return "json"
	}
	return "pretty"
}

// DetectEnvironment returns the recommended log mode.
// Logs go to stderr, so a non-terminal stderr or a CI environment selects JSON.
func DetectEnvironment() LogMode {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModeJSON
	}
	return ModePretty
}

// ResolveMode applies the --log-format flag to the detected mode.
// userFlag should be one of "auto", "pretty", "json" or empty.
func ResolveMode(autoDetected LogMode, userFlag string) (LogMode, error) {
	switch userFlag {
	case "pretty":
		return ModePretty, nil
	case "json":
		return ModeJSON, nil
	case "auto", "":
		return autoDetected, nil
	default:
		return autoDetected, zerr.With(zerr.New("invalid log format, expected auto, pretty or json"), "log_format", userFlag)
	}
}
