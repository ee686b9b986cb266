// Package output prints query results as text, JSON lines or YAML documents.
package output

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

var ErrUnknownFormat = errors.New("output: unknown format")

// ParseFormat accepts "text", "json" or "yaml", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Text, JSON, YAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
	}
}

// Printer writes rows in one Format.
type Printer struct {
	w      io.Writer
	format Format
}

func New(w io.Writer, f Format) *Printer {
	return &Printer{w: w, format: f}
}

// Rows prints every row. Text output is one String() line per row; JSON is
// one object per line; YAML is one document per row.
func Rows[T fmt.Stringer](p *Printer, rows []T) error {
	switch p.format {
	case JSON:
		enc := json.NewEncoder(p.w)
		for _, r := range rows {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("output: json: %w", err)
			}
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		for _, r := range rows {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("output: yaml: %w", err)
			}
		}
		return enc.Close() //nolint:wrapcheck // flush only
	default:
		for _, r := range rows {
			if _, err := fmt.Fprintln(p.w, r.String()); err != nil {
				return err //nolint:wrapcheck // pass through
			}
		}
		return nil
	}
}
