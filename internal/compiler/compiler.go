// Package compiler wires together the scanning, parsing, prototype-table,
// and code-generation stages behind one entry point, and records each run
// to the compilation ledger.
//
// The fix-up table, include list, reader and ledger live on the Compiler
// value rather than package globals (spec §9's "global configuration
// tables" question, resolved in favor of explicit dependency injection) so
// a test can build a Compiler with its own fix-ups. The prototype table is
// not injected: Compile always builds it from the header paths it is given,
// and the scanner keyword tables stay package-level in config.
package compiler

import (
	"context"
	"fmt"
	"time"

	"github.com/btouchard/ghtc/internal/compiler/ast"
	"github.com/btouchard/ghtc/internal/compiler/config"
	"github.com/btouchard/ghtc/internal/compiler/errors"
	"github.com/btouchard/ghtc/internal/compiler/generator"
	"github.com/btouchard/ghtc/internal/compiler/gherkin"
	"github.com/btouchard/ghtc/internal/compiler/headerparser"
	"github.com/btouchard/ghtc/internal/compiler/proto"
	"github.com/btouchard/ghtc/internal/compiler/prototable"
	"github.com/btouchard/ghtc/internal/ledger"
	"github.com/btouchard/ghtc/internal/source"
)

// fatal wraps err as a FatalError (§7's unrecoverable tier) so a caller can
// distinguish "the whole run aborted" from a ScenarioError recorded against
// one feature.
func fatal(phase, message string, err error) error {
	return &errors.FatalError{CompileError: &errors.CompileError{
		Phase:   phase,
		Message: fmt.Sprintf("%s: %v", message, err),
	}}
}

// Compiler holds everything a Compile run needs that isn't the path lists
// themselves: the fix-up table, the #include list for the emitted file, a
// file reader, and an optional ledger to record the run in.
type Compiler struct {
	FixUps   *config.FixUps
	Includes []string
	Reader   *source.Reader
	Ledger   *ledger.Ledger
}

// New builds a Compiler with the default fix-ups and a fresh afs-backed
// reader. Ledger is nil (no history recorded) until set explicitly.
func New(includes []string) *Compiler {
	fixUps, err := config.DefaultFixUps()
	if err != nil {
		// The embedded fixups.yaml is part of the binary; a parse failure
		// here means the asset itself is broken, not a runtime condition.
		panic(fmt.Sprintf("compiler: embedded fixups.yaml: %v", err))
	}
	return &Compiler{
		FixUps:   fixUps,
		Includes: includes,
		Reader:   source.NewReader(),
	}
}

// Result summarises one Compile run.
type Result struct {
	Output         string
	HeaderCount    int
	FeatureCount   int
	ScenarioCount  int
	ErrorCount     int
	ScenarioErrors []*errors.ScenarioError
	Duration       time.Duration
}

// Compile reads every header and feature path, builds the flattened
// prototype table, parses each feature against it, and emits the C++
// harness source (§5's ordering guarantee: all headers parse and the table
// flattens before any feature parses).
func (c *Compiler) Compile(ctx context.Context, headerPaths, featurePaths []string) (*Result, error) {
	started := time.Now()

	headers, err := c.Reader.ReadAll(ctx, headerPaths)
	if err != nil {
		return nil, fatal("source", "reading headers", err)
	}

	var classes []*proto.ClassPrototype
	for _, path := range headerPaths {
		classes = append(classes, headerparser.Parse(path, headers[path])...)
	}
	table := prototable.Build(classes, c.FixUps)

	featureSrc, err := c.Reader.ReadAll(ctx, featurePaths)
	if err != nil {
		return nil, fatal("source", "reading features", err)
	}

	features := make([]*ast.Feature, 0, len(featurePaths))
	var scenarioErrors []*errors.ScenarioError
	for _, path := range featurePaths {
		feature, featErrs := gherkin.Parse(path, featureSrc[path], table)
		features = append(features, feature)
		scenarioErrors = append(scenarioErrors, featErrs...)
	}

	result := &Result{
		Output:         generator.Generate(features, c.Includes),
		HeaderCount:    len(headerPaths),
		FeatureCount:   len(featurePaths),
		ScenarioErrors: scenarioErrors,
	}
	for _, feature := range features {
		for _, scenario := range feature.Scenarios {
			result.ScenarioCount++
			if _, isErr := scenario.(*ast.ReportErr); isErr {
				result.ErrorCount++
			}
		}
	}
	result.Duration = time.Since(started)

	if c.Ledger != nil {
		var all [][]byte
		for _, path := range headerPaths {
			all = append(all, headers[path])
		}
		for _, path := range featurePaths {
			all = append(all, featureSrc[path])
		}
		hash, hashErr := ledger.ContentHash(all)
		if hashErr != nil {
			return nil, fatal("ledger", "hashing inputs", hashErr)
		}
		run := &ledger.Run{
			StartedAt:      started,
			HeaderCount:    result.HeaderCount,
			FeatureCount:   result.FeatureCount,
			ScenarioCount:  result.ScenarioCount,
			ErrorCount:     result.ErrorCount,
			ContentHash:    hash,
			DurationMillis: result.Duration.Milliseconds(),
		}
		if err := c.Ledger.Record(run); err != nil {
			return nil, fatal("ledger", "recording run", err)
		}
	}

	return result, nil
}

// Unchanged reports whether inputs match the hash of the last recorded run,
// letting a caller skip a full recompile (cmd/ghtc's --skip-if-unchanged).
func (c *Compiler) Unchanged(ctx context.Context, headerPaths, featurePaths []string) (bool, error) {
	if c.Ledger == nil {
		return false, nil
	}
	last, ok := c.Ledger.LastHash()
	if !ok {
		return false, nil
	}

	headers, err := c.Reader.ReadAll(ctx, headerPaths)
	if err != nil {
		return false, fatal("source", "reading headers", err)
	}
	featureSrc, err := c.Reader.ReadAll(ctx, featurePaths)
	if err != nil {
		return false, fatal("source", "reading features", err)
	}

	var all [][]byte
	for _, path := range headerPaths {
		all = append(all, headers[path])
	}
	for _, path := range featurePaths {
		all = append(all, featureSrc[path])
	}
	hash, err := ledger.ContentHash(all)
	if err != nil {
		return false, fatal("ledger", "hashing inputs", err)
	}
	return hash == last, nil
}
