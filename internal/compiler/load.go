package compiler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/fizzbuzz/internal/ir"
)

// SupportedExtensions lists the rule file extensions LoadFile accepts.
var SupportedExtensions = []string{".cue", ".yaml", ".yml", ".toml"}

// LoadFile reads a rule file and compiles it into a RuleSet.
// The format is chosen by file extension.
func LoadFile(path string) (*ir.RuleSet, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(SupportedExtensions, ext) {
		return nil, fmt.Errorf("unsupported rule file extension %q (want one of %s)",
			ext, strings.Join(SupportedExtensions, ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}

	var rs *ir.RuleSet
	switch ext {
	case ".cue":
		rs, err = ParseCUE(data, path)
	case ".toml":
		rs, err = ParseTOML(data)
	default:
		rs, err = ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if rs.Name == "" {
		rs.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return rs, nil
}

// ParseCUE compiles CUE source. filename is used in error positions.
func ParseCUE(data []byte, filename string) (*ir.RuleSet, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	return CompileCUE(v)
}

// ParseYAML decodes a YAML rule set. Unknown fields are errors.
func ParseYAML(data []byte) (*ir.RuleSet, error) {
	var rs ir.RuleSet
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rs); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return &rs, nil
}

// ParseTOML decodes a TOML rule set. Unknown keys are errors.
func ParseTOML(data []byte) (*ir.RuleSet, error) {
	var rs ir.RuleSet
	md, err := toml.Decode(string(data), &rs)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parse TOML: unknown keys: %s", strings.Join(keys, ", "))
	}
	return &rs, nil
}
