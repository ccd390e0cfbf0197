package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// output writes the data in the format.
func output(w io.Writer, format string, data any) error {
	switch format {
	case "", formatJSON:
		bytes, err := json.MarshalIndent(data, "", "\t")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(bytes))
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %s", format)
	}
}
