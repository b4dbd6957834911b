package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"statsync/schema"
)

// LogWarn prints a warning message to stderr.
func LogWarn(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", a...)
}

// LogFatal prints an error message to stderr and exits.
func LogFatal(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", a...)
	os.Exit(1)
}

// ParseBoolString converts common truthy/falsy strings into a bool.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1", "":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("unrecognized boolean value %q", s)
	}
}

// SelectOutputFile opens the output destination, defaulting to stdout when
// no file is given. Callers must not close the returned file when it is
// stdout.
func SelectOutputFile(outputFile string) (*os.File, error) {
	name := strings.TrimSpace(outputFile)
	if name == "" {
		return os.Stdout, nil
	}
	file, err := os.Create(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", name, err)
	}
	return file, nil
}

var outcomeColors = map[schema.OutcomeKind]*color.Color{
	schema.OutcomeFirstIngestion: color.New(color.FgCyan),
	schema.OutcomeUnchanged:      color.New(color.FgGreen),
	schema.OutcomeRevised:        color.New(color.FgYellow),
	schema.OutcomeNoNewData:      color.New(color.FgGreen),
	schema.OutcomeFailure:        color.New(color.FgRed),
}

// GetPlainLabel returns the display label for an outcome kind without color.
func GetPlainLabel(kind schema.OutcomeKind) string {
	return string(kind)
}

// GetColorLabel returns the display label for an outcome kind with ANSI color.
func GetColorLabel(kind schema.OutcomeKind) string {
	c, ok := outcomeColors[kind]
	if !ok {
		return string(kind)
	}
	return c.Sprint(string(kind))
}

// GetLabel picks plain or colored label based on the config.
func GetLabel(cfg *Config, kind schema.OutcomeKind) string {
	if cfg != nil && cfg.UseColors {
		return GetColorLabel(kind)
	}
	return GetPlainLabel(kind)
}

// TruncateEndpoint shortens long API URLs for table display.
func TruncateEndpoint(endpoint string, max int) string {
	if max <= 3 || len(endpoint) <= max {
		return endpoint
	}
	return endpoint[:max-3] + "..."
}
