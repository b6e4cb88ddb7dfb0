package lexer

import (
	"testing"

	"github.com/btouchard/ghtc/internal/compiler/config"
	"github.com/btouchard/ghtc/internal/compiler/token"
)

func TestScanGherkinBasicTokens(t *testing.T) {
	toks := Scan("Feature: tuples\n", config.GherkinTable)

	if toks[0].Type != token.FEATURE {
		t.Fatalf("expected FEATURE, got %v", toks[0].Type)
	}
	if toks[1].Type != token.STRING || toks[1].Literal != "tuples" {
		t.Fatalf("expected STRING \"tuples\", got %v %q", toks[1].Type, toks[1].Literal)
	}
	if toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("expected trailing EOF, got %v", toks[len(toks)-1].Type)
	}
}

func TestScanScenarioOutlineBeforeScenario(t *testing.T) {
	toks := Scan("Scenario Outline: foo\n", config.GherkinTable)
	if toks[0].Type != token.SCENARIOOUTLINE {
		t.Fatalf("expected SCENARIO_OUTLINE, got %v", toks[0].Type)
	}
}

func TestScanDottedIdentifier(t *testing.T) {
	toks := Scan("p.x", config.GherkinTable)
	want := []token.Type{token.IDENT, token.DOT, token.IDENT, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
	if toks[0].Literal != "p" || toks[2].Literal != "x" {
		t.Fatalf("unexpected literals: %q %q", toks[0].Literal, toks[2].Literal)
	}
}

func TestScanNumber(t *testing.T) {
	toks := Scan("-4.5", config.GherkinTable)
	if toks[0].Type != token.MINUS {
		t.Fatalf("expected MINUS, got %v", toks[0].Type)
	}
	if toks[1].Type != token.NUMBER || toks[1].Literal != "4.5" {
		t.Fatalf("expected NUMBER 4.5, got %v %q", toks[1].Type, toks[1].Literal)
	}
}

func TestScanNumberCanonicalizesWholeNumbers(t *testing.T) {
	toks := Scan("4", config.GherkinTable)
	if toks[0].Type != token.NUMBER || toks[0].Literal != "4.0" {
		t.Fatalf("expected NUMBER 4.0, got %v %q", toks[0].Type, toks[0].Literal)
	}
}

func TestScanComment(t *testing.T) {
	toks := Scan("Given x ← 1 // trailing comment\nThen x = 1\n", config.GherkinTable)
	for _, tk := range toks {
		if tk.Literal == "trailing" {
			t.Fatalf("comment text leaked into tokens: %v", toks)
		}
	}
}

func TestScanHeaderKeywords(t *testing.T) {
	toks := Scan("class Sphere : public Shape { };", config.HeaderTable)
	want := []token.Type{token.CLASS, token.IDENT, token.COLON, token.PUBLIC, token.IDENT,
		token.LEFTBRACE, token.RIGHTBRACE, token.SEMICOLON, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: got %v, want %v", i, toks[i].Type, w)
		}
	}
}
