// Package config holds the scan-time keyword tables and the externally
// supplied prototype fix-ups, kept as data rather than code per the
// prototype-table design.
package config

import "github.com/btouchard/ghtc/internal/compiler/token"

// KeywordEntry is one row of a keyword table: a fixed lexeme and the
// token kind it scans to.
type KeywordEntry struct {
	Lexeme string
	Type   token.Type
}

// KeywordTable is iterated in order during scanning; order matters because
// matching is first-whole-prefix-wins, not longest-match.
type KeywordTable []KeywordEntry

// HeaderTable is the keyword table for C++ header source.
var HeaderTable = KeywordTable{
	{"&", token.AMP},
	{"const", token.CONST},
	{"virtual", token.VIRTUAL},
	{"override", token.OVERRIDE},
	{"=", token.EQUALITY},
	{"←", token.ASSIGN},
	{"*", token.STAR},
	{"(", token.LEFTPAREN},
	{")", token.RIGHTPAREN},
	{"{", token.LEFTBRACE},
	{"}", token.RIGHTBRACE},
	{",", token.COMMA},
	{"public", token.PUBLIC},
	{"private", token.PRIVATE},
	{"class", token.CLASS},
	{"static", token.STATIC},
	{":", token.COLON},
	{";", token.SEMICOLON},
	{"inline", token.INLINE},
}

// GherkinTable is the keyword table for .feature source. "Scenario Outline:"
// must precede "Scenario:" — table order governs prefix matching, so a
// shorter keyword earlier in the table would shadow the longer one.
var GherkinTable = KeywordTable{
	{"Feature: ", token.FEATURE},
	{"Scenario Outline: ", token.SCENARIOOUTLINE},
	{"Scenario: ", token.SCENARIO},
	{"Background:", token.BACKGROUND},
	{"Given ", token.GIVEN},
	{"And ", token.AND},
	{"When ", token.WHEN},
	{"Then ", token.THEN},
	{"=", token.EQUALITY},
	{"←", token.ASSIGN},
	{"+", token.PLUS},
	{"*", token.STAR},
	{"!", token.BANG},
	{"-", token.MINUS},
	{"/", token.SLASH},
	{"(", token.LEFTPAREN},
	{")", token.RIGHTPAREN},
	{"[", token.LEFTBRACKET},
	{"]", token.RIGHTBRACKET},
	{"π", token.PI},
	{",", token.COMMA},
	{"√", token.ROOT},
	{"|", token.PIPE},
}

// LineCaptureKinds are the keyword kinds whose scan continues by slurping
// the remainder of the line into a following STRING token.
var LineCaptureKinds = map[token.Type]bool{
	token.FEATURE:         true,
	token.SCENARIO:        true,
	token.SCENARIOOUTLINE: true,
}

// Terminators are the token kinds that close an expression in the Gherkin
// Pratt parser (§4.F): hitting one ends parse_expression without consuming it.
var Terminators = map[token.Type]bool{
	token.EOF:             true,
	token.AND:             true,
	token.GIVEN:           true,
	token.THEN:            true,
	token.WHEN:            true,
	token.SCENARIO:        true,
	token.COMMA:           true,
	token.RIGHTPAREN:      true,
	token.RIGHTBRACKET:    true,
	token.SCENARIOOUTLINE: true,
}
