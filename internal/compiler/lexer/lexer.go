// Package lexer turns normalized source text into a token stream using a
// keyword table supplied by the caller, so the same scanner serves both the
// C++ header dialect and the Gherkin dialect.
package lexer

import (
	"strconv"
	"strings"

	"github.com/btouchard/ghtc/internal/compiler/config"
	"github.com/btouchard/ghtc/internal/compiler/token"
	"golang.org/x/text/unicode/norm"
)

// Scan is a pure function: source text plus an ordered keyword table in,
// token slice out. Table order governs matching — the first whole-prefix
// match in the table wins, not the longest lexeme overall.
func Scan(source string, table config.KeywordTable) []token.Token {
	src := []rune(normalize(source))
	line := 1
	start := 0
	var tokens []token.Token

	for start < len(src) {
		for start < len(src) && (src[start] == ' ' || src[start] == '\t' || src[start] == '\n') {
			if src[start] == '\n' {
				line++
			}
			start++
		}
		if start >= len(src) {
			break
		}

		if isCommentStart(src, start) {
			for start < len(src) && src[start] != '\n' {
				start++
			}
			continue
		}

		if matchedLen, kind, ok := matchKeyword(src, start, table); ok {
			tokens = append(tokens, token.Token{Type: kind, Pos: token.Position{Line: line}})
			start += matchedLen

			if config.LineCaptureKinds[kind] {
				begin := start
				for start < len(src) && src[start] != '\n' {
					start++
				}
				tokens = append(tokens, token.Token{Type: token.STRING, Literal: strings.TrimRight(string(src[begin:start]), "\r"), Pos: token.Position{Line: line}})
			}
			continue
		}

		var lexeme []rune
		for start < len(src) && src[start] != ' ' && src[start] != '\t' && src[start] != '\n' &&
			!isCommentStart(src, start) && !isKeywordInitial(src[start], table) {
			lexeme = append(lexeme, src[start])
			start++
		}
		if len(lexeme) == 0 {
			// Keyword-initial rune that matched no table entry: treat it as
			// a single-character identifier to guarantee forward progress.
			lexeme = append(lexeme, src[start])
			start++
		}
		tokens = append(tokens, numberOrIdentTokens(string(lexeme), line)...)
	}

	tokens = append(tokens, token.Token{Type: token.EOF, Pos: token.Position{Line: line + 1}})
	return tokens
}

func matchKeyword(src []rune, start int, table config.KeywordTable) (length int, kind token.Type, ok bool) {
	for _, entry := range table {
		lexeme := []rune(entry.Lexeme)
		if start+len(lexeme) > len(src) {
			continue
		}
		match := true
		for i, r := range lexeme {
			if src[start+i] != r {
				match = false
				break
			}
		}
		if match {
			return len(lexeme), entry.Type, true
		}
	}
	return 0, "", false
}

func isCommentStart(src []rune, start int) bool {
	return src[start] == '#' || (src[start] == '/' && start+1 < len(src) && src[start+1] == '/')
}

// isKeywordInitial reports whether r is itself a single-character keyword
// lexeme. Multi-character lexemes (e.g. "Given ") do not interrupt
// identifier accumulation on their first letter — only whitespace does —
// matching the source scanner's single-character comparison.
func isKeywordInitial(r rune, table config.KeywordTable) bool {
	for _, entry := range table {
		runes := []rune(entry.Lexeme)
		if len(runes) == 1 && runes[0] == r {
			return true
		}
	}
	return false
}

// numberOrIdentTokens mirrors the source scanner's fallback: try the whole
// lexeme as a float; on failure split it on '.' into alternating IDENT and
// DOT tokens, dropping a trailing DOT.
func numberOrIdentTokens(lexeme string, line int) []token.Token {
	if isDecimalNumber(lexeme) {
		return []token.Token{{Type: token.NUMBER, Literal: canonicalNumber(lexeme), Pos: token.Position{Line: line}}}
	}

	parts := strings.Split(lexeme, ".")
	var out []token.Token
	for _, p := range parts {
		if p != "" {
			out = append(out, token.Token{Type: token.IDENT, Literal: p, Pos: token.Position{Line: line}})
		}
		out = append(out, token.Token{Type: token.DOT, Pos: token.Position{Line: line}})
	}
	if len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out
}

// canonicalNumber stores a NUMBER lexeme the way the source scanner does:
// the literal becomes a float, so a bare "4" reads back as "4.0" everywhere
// it's later stringified, matching float(lexeme)'s str() in the original.
func canonicalNumber(lexeme string) string {
	f, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return lexeme
	}
	formatted := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(formatted, ".") {
		formatted += ".0"
	}
	return formatted
}

func isDecimalNumber(s string) bool {
	if s == "" {
		return false
	}
	seenDigit, seenDot := false, false
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i = 1
	}
	for ; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			seenDigit = true
		case s[i] == '.' && !seenDot:
			seenDot = true
		default:
			return false
		}
	}
	return seenDigit
}

// normalize strips a UTF-8 BOM and applies NFC normalization so that source
// files carrying pre-composed or decomposed forms of non-ASCII identifiers
// (and the π/√ symbols the Gherkin dialect uses as literals) scan
// identically regardless of the authoring tool's encoding choices.
func normalize(source string) string {
	source = strings.TrimPrefix(source, "\xef\xbb\xbf")
	if norm.NFC.IsNormalString(source) {
		return source
	}
	return norm.NFC.String(source)
}
