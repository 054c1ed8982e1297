// Package output formats label state for the command line.
package output

import (
	"fmt"
	"io"
	"time"

	"github.com/jmylchreest/transientlabel/internal/dbus"
)

// Formatter writes a label state.
type Formatter interface {
	Format(w io.Writer, s dbus.State) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatText   FormatType = "text"
	FormatJSON   FormatType = "json"
	FormatYAML   FormatType = "yaml"
	FormatWaybar FormatType = "waybar"
)

// ValidFormats returns every supported format.
func ValidFormats() []FormatType {
	return []FormatType{FormatText, FormatJSON, FormatYAML, FormatWaybar}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template string           // Custom text/template for the text format
	Now      func() time.Time // Defaults to time.Now
}

// NewFormatter creates a formatter for the format type.
func NewFormatter(format FormatType, opts FormatterOptions) (Formatter, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	switch format {
	case FormatText, "":
		return NewTextFormatter(opts)
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatWaybar:
		return &WaybarFormatter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (valid: %v)", format, ValidFormats())
	}
}
