// Package config holds the process-wide, mutable-during-preprocessing
// compile options (§3 "Compile options") and the layered loader that
// produces them: compiled-in defaults, an optional project YAML file, then
// CLI flags, each layer overriding the previous one only where it sets a
// non-zero value.
package config

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// SourceFormat is the COBOL source-layout mode.
type SourceFormat int

const (
	// Auto defers the decision to the format normalizer's auto-detection
	// pass (§4.2); it behaves as Fixed until a decision is made.
	Auto SourceFormat = iota
	Fixed
	Free
)

func (f SourceFormat) String() string {
	switch f {
	case Fixed:
		return "Fixed"
	case Free:
		return "Free"
	default:
		return "Auto"
	}
}

// ParseSourceFormat parses the FREE/FIXED spelling accepted by the
// ">>SOURCE" directive and by project configuration.
func ParseSourceFormat(s string) (SourceFormat, error) {
	switch s {
	case "", "AUTO", "auto":
		return Auto, nil
	case "FREE", "free", "Free":
		return Free, nil
	case "FIXED", "fixed", "Fixed":
		return Fixed, nil
	default:
		return Auto, fmt.Errorf("config: unrecognized source format %q", s)
	}
}

// DefaultColumnLength is the fixed-format right margin (program-area column
// 72 followed by an 8-column identification area COBOL conventionally
// ignores past column 80).
const DefaultColumnLength = 80

// CompileOptions is the mutable-during-preprocessing state the directive
// handler (§4.3) and format normalizer (§4.2) read and write. It is owned by
// one compilation and never shared across concurrent compilations (§5).
type CompileOptions struct {
	SourceFormat SourceFormat
	ColumnLength int
	EntryPoint   string
	// KnownFiles maps a file index (as stamped on token.Token.File) to the
	// relative path it was read from. Index 0 is always the entry point.
	KnownFiles []string
	Encoding   string
	// CopybookSearchPaths are tried in order, each joined as given with a
	// COPY statement's file name; they are not resolved against the entry
	// point's directory.
	CopybookSearchPaths []string
}

// NewDefault returns the compiled-in defaults: Auto format, the standard
// fixed-format column length, UTF-8 encoding, and no extra copybook search
// paths.
func NewDefault() *CompileOptions {
	return &CompileOptions{
		SourceFormat: Auto,
		ColumnLength: DefaultColumnLength,
		Encoding:     "UTF-8",
	}
}

// RegisterFile appends path to KnownFiles and returns its assigned index.
func (o *CompileOptions) RegisterFile(path string) int {
	o.KnownFiles = append(o.KnownFiles, path)
	return len(o.KnownFiles) - 1
}

// projectFile is the shape of an optional .cobolfront.yaml project config,
// parsed with github.com/goccy/go-yaml. Every field is optional; an absent
// field leaves the corresponding CompileOptions field untouched.
type projectFile struct {
	SourceFormat        string   `yaml:"source_format"`
	ColumnLength        int      `yaml:"column_length"`
	CopybookSearchPaths []string `yaml:"copybook_search_paths"`
}

// MergeYAML overlays settings parsed from r onto opts, leaving fields absent
// from the document untouched. It is the second of the three config layers
// (defaults < project YAML < CLI flags).
func MergeYAML(opts *CompileOptions, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("config: reading project file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("config: parsing project file: %w", err)
	}

	if pf.SourceFormat != "" {
		sf, err := ParseSourceFormat(pf.SourceFormat)
		if err != nil {
			return err
		}
		opts.SourceFormat = sf
	}
	if pf.ColumnLength > 0 {
		opts.ColumnLength = pf.ColumnLength
	}
	if len(pf.CopybookSearchPaths) > 0 {
		opts.CopybookSearchPaths = pf.CopybookSearchPaths
	}
	return nil
}
