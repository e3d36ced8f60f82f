package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names an output encoding.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a format name. Matching is case-insensitive and
// "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w %q (want text, json, yaml or toml)", ErrUnknownFormat, s)
	}
}

// Render writes doc to w in the given format.
func Render(w io.Writer, f Format, doc Document) error {
	if f == FormatText {
		return renderText(w, doc)
	}
	return encode(w, f, doc)
}

// RenderActive writes an active-period document to w in the given format.
func RenderActive(w io.Writer, f Format, doc ActiveDoc) error {
	if f == FormatText {
		return renderActiveText(w, doc)
	}
	return encode(w, f, doc)
}

func encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding JSON report: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding YAML report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding YAML report: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("encoding TOML report: %w", err)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
	return nil
}
