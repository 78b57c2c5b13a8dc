// Package loader reads module descriptor files into plain records.
//
// A Record is the already-deserialized form of one module's configuration:
// raw strings exactly as written, with no validation or normalization.
// Validation belongs to the modplan package.
//
// # Formats
//
// The format is chosen from the file extension:
//
//   - .star, .bzl, MODULE.rules: Starlark, parsed with buildtools
//   - .yaml, .yml: YAML, one module per document
//   - .toml: TOML, a single top-level module or [[module]] tables
//   - .hcl: HCL, one module "Name" { ... } block per module
//
// A Starlark descriptor looks like:
//
//	module(name = "Game", cpp_standard = "Cpp20", pch_usage = "UseExplicitOrSharedPCHs")
//
//	public_deps([
//	    "Core", "CoreUObject",
//	    "Engine",
//	])
//	private_deps(["Slate"])
//	disabled_deps(["Niagara"])
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedFormat is returned for files whose extension maps to no format.
var ErrUnsupportedFormat = errors.New("unsupported descriptor format")

// Record is one module's configuration as written in a descriptor file.
type Record struct {
	Name             string   `yaml:"name" toml:"name"`
	LanguageStandard string   `yaml:"language_standard" toml:"language_standard"`
	PCHMode          string   `yaml:"pch_mode" toml:"pch_mode"`
	Public           []string `yaml:"public" toml:"public"`
	Private          []string `yaml:"private" toml:"private"`
	Disabled         []string `yaml:"disabled" toml:"disabled"`

	// Source is the file the record was read from.
	Source string `yaml:"-" toml:"-"`
}

// starlarkModuleFile is the conventional per-module Starlark descriptor name.
const starlarkModuleFile = "MODULE.rules"

// Format identifies a descriptor file format.
type Format string

const (
	FormatStarlark Format = "starlark"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
	FormatHCL      Format = "hcl"
)

// DetectFormat returns the format for filename, or false if the extension is
// not recognized. A file named MODULE.rules is always Starlark.
func DetectFormat(filename string) (Format, bool) {
	if filepath.Base(filename) == starlarkModuleFile {
		return FormatStarlark, true
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".star", ".bzl":
		return FormatStarlark, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	case ".hcl":
		return FormatHCL, true
	}
	return "", false
}

// Option configures parsing.
type Option func(*config)

type config struct {
	commentedDisabled bool
}

// WithCommentedDisabled makes the Starlark parser treat quoted names inside
// commented-out lines of public_deps and private_deps lists as disabled
// dependencies, so a descriptor like
//
//	public_deps([
//	    "Core",
//	    # "Niagara",
//	])
//
// reports Niagara as available but unused. Other formats ignore it.
func WithCommentedDisabled() Option {
	return func(c *config) {
		c.commentedDisabled = true
	}
}

// LoadFile reads and parses a descriptor file.
func LoadFile(path string, opts ...Option) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	return Parse(path, data, opts...)
}

// Parse parses descriptor content. filename selects the format and is
// recorded as each record's Source.
func Parse(filename string, data []byte, opts ...Option) ([]Record, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	format, ok := DetectFormat(filename)
	if !ok {
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}

	var (
		records []Record
		err     error
	)
	switch format {
	case FormatStarlark:
		records, err = parseStarlark(filename, data, cfg)
	case FormatYAML:
		records, err = parseYAML(data)
	case FormatTOML:
		records, err = parseTOML(data)
	case FormatHCL:
		records, err = parseHCL(filename, data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	for i := range records {
		records[i].Source = filename
	}
	return records, nil
}

// Discover returns every descriptor file under dir in lexical order.
// Hidden files and directories are skipped.
func Discover(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if _, ok := DetectFormat(path); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover descriptors in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
