// Package headerparser consumes C++ header source and reconstructs
// ClassPrototype records (§4.C). It is not a full C++ front end: templates,
// enums, non-prefix namespaces, friend declarations, operator overloads,
// and preprocessor directives are not recognised and fall to recovery.
package headerparser

import (
	"strings"

	"github.com/btouchard/ghtc/internal/compiler/baseparser"
	"github.com/btouchard/ghtc/internal/compiler/config"
	"github.com/btouchard/ghtc/internal/compiler/lexer"
	"github.com/btouchard/ghtc/internal/compiler/proto"
	"github.com/btouchard/ghtc/internal/compiler/token"
)

// Parser walks one header file's token stream, accumulating prototypes as
// it finds complete class bodies.
type Parser struct {
	cursor       *baseparser.Cursor
	filepath     string
	classes      []*proto.ClassPrototype
	currentClass *proto.ClassPrototype
}

// Parse scans src and returns every ClassPrototype found in it. When a
// class body fails to parse, the parser skips ahead to the next `class`
// rather than aborting the whole file, matching §4.C's tolerance; the
// failed class stays in the result with the members parsed before the
// failure.
func Parse(filepath string, src []byte) []*proto.ClassPrototype {
	toks := lexer.Scan(string(src), config.HeaderTable)
	p := &Parser{filepath: filepath}
	p.cursor = baseparser.NewCursor(toks, p.context)
	return p.parse()
}

func (p *Parser) context() string {
	if p.currentClass == nil {
		return p.filepath
	}
	return p.currentClass.Name
}

func (p *Parser) parse() []*proto.ClassPrototype {
	for !p.cursor.Check(token.EOF) {
		p.parseOneClass()
	}
	return p.classes
}

func (p *Parser) parseOneClass() {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*baseparser.ParseError); !ok {
				panic(r)
			}
		}
	}()

	if p.startClass() {
		p.parseClassBody()
	}
}

// startClass skips tokens until `class` or EOF, consumes the class name,
// and handles forward declarations (`class Foo;`) by continuing the
// search. Returns false at EOF with no class found.
func (p *Parser) startClass() bool {
	var name string
	for {
		if p.cursor.Match(token.CLASS) {
			name = p.cursor.Identifier()
			if p.cursor.Match(token.SEMICOLON) {
				continue
			}
			break
		}
		if p.cursor.Check(token.EOF) {
			return false
		}
		p.cursor.Advance()
	}

	extends := ""
	if p.cursor.Match(token.COLON) {
		p.cursor.Match(token.PRIVATE)
		p.cursor.Match(token.PUBLIC)
		extends = p.cursor.Identifier()
	}

	p.cursor.Consume(token.LEFTBRACE, "Expect '{' before class body.")

	p.currentClass = &proto.ClassPrototype{Name: name, Filename: p.filepath, Extends: extends}
	p.classes = append(p.classes, p.currentClass)
	return true
}

func (p *Parser) parseClassBody() {
	for !p.cursor.Check(token.EOF) && !p.cursor.Check(token.RIGHTBRACE) {
		p.parsePropertyDefinition()
	}
	p.cursor.Consume(token.RIGHTBRACE, "Expect '}' before ';'.")
	p.cursor.Consume(token.SEMICOLON, "Expect ';' after class body.")
	p.currentClass = nil
}

func (p *Parser) parsePropertyDefinition() {
	if p.cursor.Match(token.PUBLIC) {
		p.cursor.Consume(token.COLON, "Expect ':' after 'public'.")
	}
	if p.cursor.Match(token.PRIVATE) {
		p.cursor.Consume(token.COLON, "Expect ':' after 'private'.")
	}

	p.cursor.Match(token.INLINE)
	isStatic := p.cursor.Match(token.STATIC)
	p.cursor.Match(token.VIRTUAL)

	returnType := p.parseType()
	isStatic = isStatic || p.cursor.Match(token.STATIC)

	switch {
	case strings.HasPrefix(returnType, "~"):
		// Destructor: consume its parameter list and body, discard.
		p.cursor.Match(token.LEFTPAREN)
		p.parseArgList()

	case p.cursor.Match(token.LEFTPAREN):
		// Constructor: name equals the class name.
		fn := &proto.FunctionPrototype{Name: p.currentClass.Name, ReturnType: p.currentClass.Name, IsStatic: true}
		fn.ArgumentTypes = p.parseArgList()
		p.currentClass.Constructors = append(p.currentClass.Constructors, fn)

	default:
		name := p.cursor.Identifier()
		if p.cursor.Match(token.LEFTPAREN) {
			fn := &proto.FunctionPrototype{Name: name, ReturnType: returnType, IsStatic: isStatic}
			fn.ArgumentTypes = p.parseArgList()
			p.currentClass.Methods = append(p.currentClass.Methods, fn)
		} else {
			field := &proto.FieldPrototype{Name: name, Type: returnType, IsStatic: isStatic}
			p.currentClass.Fields = append(p.currentClass.Fields, field)
			p.cursor.Consume(token.SEMICOLON, "Expect ';' after field definition.")
		}
	}
}

// parseArgList parses an argument-type list and tolerates default values,
// trailing const/override, initializer lists, inline bodies, and pure-
// virtual markers (§4.C).
func (p *Parser) parseArgList() []string {
	var args []string

	if !p.cursor.Match(token.RIGHTPAREN) {
		for !p.cursor.IsDone() {
			args = append(args, p.parseType())
			p.cursor.Match(token.IDENT)

			if p.cursor.Match(token.EQUALITY) {
				for !isOneOf(p.cursor.Peek().Type, token.EOF, token.RIGHTPAREN, token.COMMA) {
					p.cursor.Advance()
				}
			}

			if p.cursor.Match(token.RIGHTPAREN) {
				break
			}
			p.cursor.Consume(token.COMMA, "Expect ',' between parameters.")
		}
	}

	p.cursor.Match(token.CONST)
	p.cursor.Match(token.OVERRIDE)

	if p.cursor.Match(token.COLON) {
		for !isOneOf(p.cursor.Peek().Type, token.EOF, token.LEFTBRACE, token.EQUALITY, token.SEMICOLON) {
			if p.matchInitializerEntry() {
				continue
			}
			p.cursor.Advance()
		}
	}

	if p.cursor.Match(token.LEFTBRACE) {
		depth := 1
		for depth > 0 {
			if p.cursor.Match(token.EOF) {
				p.cursor.Error("Expect '}' after inline function body.")
			}
			if p.cursor.Check(token.RIGHTBRACE) {
				depth--
			}
			if p.cursor.Check(token.LEFTBRACE) {
				depth++
			}
			p.cursor.Advance()
		}
		p.cursor.Match(token.SEMICOLON)
	} else {
		if p.cursor.Match(token.EQUALITY) {
			p.cursor.Match(token.IDENT) // "default" / "delete"
			if p.cursor.Match(token.NUMBER) {
				p.currentClass.IsAbstract = true
			}
		}
		p.cursor.Consume(token.SEMICOLON, "Expect ';' after function definition.")
	}

	return args
}

// matchInitializerEntry recognises one `ident{ident}` initializer-list run.
// Each Match call advances on its own success regardless of whether the
// whole run completes, matching the source's short-circuiting `and` chain
// (a partial match leaves the cursor partially advanced) rather than
// backtracking.
func (p *Parser) matchInitializerEntry() bool {
	return p.cursor.Match(token.IDENT) && p.cursor.Match(token.LEFTBRACE) &&
		p.cursor.Match(token.IDENT) && p.cursor.Match(token.RIGHTBRACE)
}

// parseType consumes an optional `const`, an identifier, zero or more `*`
// (each appended to the returned string), and an optional `&` (discarded —
// references collapse to the referent's type in this model).
func (p *Parser) parseType() string {
	p.cursor.Match(token.CONST)
	typ := p.cursor.Identifier()
	for p.cursor.Match(token.STAR) {
		typ += "*"
	}
	p.cursor.Match(token.AMP)
	return typ
}

func isOneOf(t token.Type, options ...token.Type) bool {
	for _, o := range options {
		if t == o {
			return true
		}
	}
	return false
}
