package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixups.yaml
var defaultFixUpsYAML []byte

// Alias renames a class that the header introspector produced under one
// spelling to a canonical one (e.g. an American/British spelling pair).
type Alias struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ConstructorReturnPatch corrects a constructor's return_type where a C++
// constructor legitimately names a different return type than its class
// (e.g. builder-style constructors returning a shared value type).
type ConstructorReturnPatch struct {
	Class      string `yaml:"class"`
	Index      int    `yaml:"index"`
	ReturnType string `yaml:"returnType"`
}

// SyntheticConstructor appends a zero-arg constructor the header parser
// could not distinguish from an empty forward declaration.
type SyntheticConstructor struct {
	Class string `yaml:"class"`
}

// StandaloneFunction describes a free function outside any class, for the
// module-level standalone registry (§4.D).
type StandaloneFunction struct {
	Name       string   `yaml:"name"`
	ReturnType string   `yaml:"returnType"`
	ArgTypes   []string `yaml:"argTypes"`
}

// FixUps is the externally supplied, data-only patch set applied during
// prototype-table build (§4.D). Loaded from YAML so adding a fix-up never
// requires touching Go source.
type FixUps struct {
	Aliases               []Alias                  `yaml:"aliases"`
	ConstructorReturns    []ConstructorReturnPatch  `yaml:"constructorReturns"`
	SyntheticConstructors []SyntheticConstructor    `yaml:"syntheticConstructors"`
	Standalone            []StandaloneFunction      `yaml:"standalone"`
}

// DefaultFixUps loads the fix-up set embedded with the binary.
func DefaultFixUps() (*FixUps, error) {
	return LoadFixUps(defaultFixUpsYAML)
}

// LoadFixUps parses a fix-up document from arbitrary YAML bytes, so callers
// (and tests) can supply their own fixture instead of the embedded default.
func LoadFixUps(data []byte) (*FixUps, error) {
	var f FixUps
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse fixups: %w", err)
	}
	return &f, nil
}
