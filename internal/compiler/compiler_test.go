package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btouchard/ghtc/internal/ledger"
)

const shapeHeader = `
class Shape {
public:
    Shape(double side);
    double side;
    bool equals(Shape other);
};
`

const shapeFeature = `Feature: shape equality
Scenario: two shapes with the same side are equal
Given a ← Shape(2)
And b ← Shape(2)
Then a = b
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile %s: %v", name, err)
	}
	return path
}

func TestCompileEndToEnd(t *testing.T) {
	dir := t.TempDir()
	headerPath := writeFile(t, dir, "shape.h", shapeHeader)
	featurePath := writeFile(t, dir, "shape.feature", shapeFeature)

	c := New([]string{"shape.h"})
	result, err := c.Compile(context.Background(), []string{headerPath}, []string{featurePath})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if result.HeaderCount != 1 || result.FeatureCount != 1 {
		t.Fatalf("counts = %+v", result)
	}
	if result.ScenarioCount != 1 || result.ErrorCount != 0 {
		t.Fatalf("scenario/error counts = %+v", result)
	}
	if !strings.Contains(result.Output, "FEATURE: shape equality") {
		t.Fatalf("missing feature banner in output:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "a.equals(b)") {
		t.Fatalf("expected equals() method call in output:\n%s", result.Output)
	}
	if !strings.Contains(result.Output, "2.0") {
		t.Fatalf("expected whole-number literal 2 to canonicalize to 2.0 in output:\n%s", result.Output)
	}
}

func TestCompileRecordsRunInLedger(t *testing.T) {
	dir := t.TempDir()
	headerPath := writeFile(t, dir, "shape.h", shapeHeader)
	featurePath := writeFile(t, dir, "shape.feature", shapeFeature)

	l, err := ledger.Open(filepath.Join(dir, "ghtc.db"))
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}

	c := New([]string{"shape.h"})
	c.Ledger = l

	if _, err := c.Compile(context.Background(), []string{headerPath}, []string{featurePath}); err != nil {
		t.Fatalf("Compile: %v", err)
	}

	unchanged, err := c.Unchanged(context.Background(), []string{headerPath}, []string{featurePath})
	if err != nil {
		t.Fatalf("Unchanged: %v", err)
	}
	if !unchanged {
		t.Fatal("expected Unchanged to report true for the same inputs")
	}

	if err := os.WriteFile(featurePath, []byte(shapeFeature+"\nScenario: more\nGiven x ← 1\nThen x = 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	changed, err := c.Unchanged(context.Background(), []string{headerPath}, []string{featurePath})
	if err != nil {
		t.Fatalf("Unchanged: %v", err)
	}
	if changed {
		t.Fatal("expected Unchanged to report false after editing a feature file")
	}
}
