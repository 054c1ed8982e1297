package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/transientlabel/internal/dbus"
)

// TextFormatter writes a human readable summary, or the result of a
// custom template.
type TextFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// templateData is the value custom templates are executed with.
type templateData struct {
	dbus.State
	RemainingHuman string
}

// NewTextFormatter creates a text formatter. A template that does not
// parse is an error.
func NewTextFormatter(opts FormatterOptions) (*TextFormatter, error) {
	f := &TextFormatter{opts: opts}
	if opts.Template != "" {
		tmpl, err := template.New("state").Parse(opts.Template)
		if err != nil {
			return nil, fmt.Errorf("invalid template: %w", err)
		}
		f.template = tmpl
	}
	return f, nil
}

// Format writes s.
func (f *TextFormatter) Format(w io.Writer, s dbus.State) error {
	if f.template != nil {
		if err := f.template.Execute(w, templateData{State: s, RemainingHuman: Remaining(s)}); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "text:    %q\n", s.Text)
	if s.Visible {
		fmt.Fprintf(&sb, "state:   visible, hides in %s\n", Remaining(s))
	} else {
		sb.WriteString("state:   hidden\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Remaining formats the time left before the label hides, for example
// "1,250 ms". It is empty for a hidden label.
func Remaining(s dbus.State) string {
	if !s.Visible {
		return ""
	}
	return humanize.Comma(s.RemainingMs) + " ms"
}
