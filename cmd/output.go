package main

import (
	"encoding/json"
	"io"
	"slices"
	"strconv"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	formatText    = "text"
	formatJSON    = "json"
	formatYAML    = "yaml"
	formatGeoJSON = "geojson"
	formatCSV     = "csv"
)

func checkFormat(command, format string, allowed ...string) error {
	if !slices.Contains(allowed, format) {
		return eris.Errorf("%s: unsupported format %q (want one of %v)", command, format, allowed)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "output: encode json")
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "output: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "output: flush yaml")
	}
	return nil
}

func formatAltitude(alt *float64) string {
	if alt == nil {
		return "-"
	}
	return strconv.FormatFloat(*alt, 'f', 2, 64)
}
