package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/transientlabel/internal/dbus"
)

// JSONFormatter formats the state as JSON.
type JSONFormatter struct{}

// Format writes s as an indented JSON object.
func (f *JSONFormatter) Format(w io.Writer, s dbus.State) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

// YAMLFormatter formats the state as YAML.
type YAMLFormatter struct{}

// Format writes s as a YAML document.
func (f *YAMLFormatter) Format(w io.Writer, s dbus.State) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(s); err != nil {
		return err
	}
	return encoder.Close()
}
