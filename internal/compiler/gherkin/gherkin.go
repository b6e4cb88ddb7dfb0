// Package gherkin implements the type-directed Pratt expression parser of
// §4.F: it drives the prototype table to resolve each spec-level identifier
// into a typed AST, including overload resolution, pointer-indirection
// coercion, and automatic constructor/method/field/static dispatch.
package gherkin

import (
	"fmt"
	"strings"

	"github.com/btouchard/ghtc/internal/compiler/ast"
	"github.com/btouchard/ghtc/internal/compiler/baseparser"
	"github.com/btouchard/ghtc/internal/compiler/config"
	"github.com/btouchard/ghtc/internal/compiler/errors"
	"github.com/btouchard/ghtc/internal/compiler/lexer"
	"github.com/btouchard/ghtc/internal/compiler/proto"
	"github.com/btouchard/ghtc/internal/compiler/prototable"
	"github.com/btouchard/ghtc/internal/compiler/token"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// Parser walks one .feature file's token stream against a prototype table,
// producing a Feature AST.
type Parser struct {
	cursor          *baseparser.Cursor
	table           *prototable.Table
	filepath        string
	currentScenario string
	activeScenario  *ast.Scenario
	scopes          []map[string]string
	backgroundCode  []ast.Statement
	scenarios       []ast.FeatureScenario
	almostEqual     *proto.FunctionPrototype
	scenarioErrors  []*errors.ScenarioError
}

// Parse scans src against table and builds a Feature. table must already
// be built (§5 ordering guarantee (b): prototype-table flattening completes
// before any feature parses). The second return value holds one
// ScenarioError per scenario that was recovered rather than executed (§7's
// recoverable tier) — the diagnostic itself was already printed to stderr
// by the time Parse returns, since that happens at the point of failure.
func Parse(filepath string, src []byte, table *prototable.Table) (*ast.Feature, []*errors.ScenarioError) {
	toks := lexer.Scan(string(src), config.GherkinTable)
	p := &Parser{filepath: filepath, table: table}
	p.cursor = baseparser.NewCursor(toks, p.context)
	p.almostEqual = table.FindStandalone("almostEqual")
	if p.almostEqual == nil {
		p.almostEqual = &proto.FunctionPrototype{Name: "almostEqual", IsStatic: true, ReturnType: "bool", ArgumentTypes: []string{"double", "double"}}
	}
	feature := p.build()
	return feature, p.scenarioErrors
}

func (p *Parser) context() string {
	if p.currentScenario == "" {
		return p.filepath
	}
	return p.currentScenario
}

func (p *Parser) build() *ast.Feature {
	p.pushScope()
	p.cursor.Consume(token.FEATURE, "Expect 'Feature' at beginning of file.")
	name := p.cursor.ReadName()
	p.setupBackground()

	for !p.cursor.Match(token.EOF) {
		p.parseScenario()
	}
	p.popScope()

	return &ast.Feature{Name: name, Scenarios: p.scenarios}
}

func (p *Parser) setupBackground() {
	if p.cursor.Match(token.BACKGROUND) {
		// No inner scope: names declared here land in the outermost scope,
		// which is exactly the visibility every scenario needs.
		p.cursor.Consume(token.GIVEN, "Expect 'Given' as first statement.")
		p.parseStatement(true)
	}
}

func (p *Parser) parseScenario() {
	scenario := &ast.Scenario{
		Name:       fmt.Sprintf("Untitled on Line %d", p.cursor.Peek().Pos.Line),
		Background: p.backgroundCode,
	}
	p.currentScenario = scenario.Name
	p.activeScenario = scenario
	idx := len(p.scenarios)
	p.scenarios = append(p.scenarios, scenario)

	parseErr := p.withRecovery(func() {
		p.cursor.Consume(token.SCENARIO, "Expect 'Scenario'.")
		p.currentScenario = p.cursor.ReadName()
		scenario.Name = p.currentScenario

		p.pushScope()
		// A second scope lets When/Then steps shadow Background names
		// without polluting sibling scenarios.
		p.pushScope()

		p.cursor.Consume(token.GIVEN, "Expect 'Given' as first statement.")
		p.parseStatement(false)

		for p.cursor.Match(token.WHEN) {
			p.parseStatement(false)
			p.cursor.Consume(token.THEN, "Expect 'Then' following 'When'.")
			p.parseStatement(false)
		}

		if p.cursor.Match(token.THEN) {
			p.parseStatement(false)
		}

		p.popScope()
		p.popScope()
	})

	if parseErr != nil {
		for !p.cursor.Check(token.SCENARIO) && !p.cursor.Check(token.EOF) {
			p.cursor.Advance()
		}
		p.scopes = p.scopes[:1]
		p.scenarios[idx] = &ast.ReportErr{Msg: p.currentScenario}
		p.scenarioErrors = append(p.scenarioErrors, &errors.ScenarioError{
			Scenario: p.currentScenario,
			CompileError: &errors.CompileError{
				Pos:     errors.Position{File: p.filepath, Line: parseErr.Line},
				Phase:   "gherkin",
				Message: parseErr.Message,
			},
		})
	}
}

// withRecovery runs fn, catching a *baseparser.ParseError and returning it
// (§7's scenario-local recovery tier). Any other panic propagates — only
// parse errors are local to a scenario. The diagnostic itself was already
// printed to stderr by Cursor.Error before it reached here.
func (p *Parser) withRecovery(fn func()) (parseErr *baseparser.ParseError) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*baseparser.ParseError); ok {
				parseErr = pe
				return
			}
			panic(r)
		}
	}()
	fn()
	return nil
}

func (p *Parser) parseStatement(toBackground bool) {
	stmts := []ast.Statement{p.asStatement(p.parseExpression(0, nil))}
	for p.cursor.Match(token.AND) {
		stmts = append(stmts, p.asStatement(p.parseExpression(0, nil)))
	}

	if toBackground {
		p.backgroundCode = append(p.backgroundCode, stmts...)
	} else {
		p.activeScenario.Statements = append(p.activeScenario.Statements, stmts...)
	}
}

// asStatement normalises parse_expression's Expression-or-Statement result
// into a Statement; a bare Expression reaching here (not void, not bool at
// precedence 0) has no statement shape and is a parse error.
func (p *Parser) asStatement(v interface{}) ast.Statement {
	switch s := v.(type) {
	case ast.Statement:
		return s
	case ast.Expression:
		p.cursor.Error("Expect statement, got bare expression of type " + s.ExprType())
	}
	p.cursor.Error("Expect statement")
	return nil
}

// parsePrimary parses π, an identifier (call or variable), or a number
// literal, then loops over postfix `.field` and `[args]`.
func (p *Parser) parsePrimary() ast.Expression {
	var left ast.Expression

	switch {
	case p.cursor.Match(token.PI):
		left = ast.NewLiteral("M_PI", "double")

	case p.cursor.Check(token.IDENT):
		name := p.cursor.Advance().Literal
		if p.cursor.Match(token.LEFTPAREN) {
			args := p.parseArgList(token.RIGHTPAREN)
			left = p.createFunctionCall(name, args)
		} else if name == "true" || name == "false" {
			left = ast.NewLiteral(name, "bool")
		} else {
			left = ast.NewVarAccess(name, p.getVarType(name))
		}

	case p.cursor.Check(token.NUMBER):
		left = ast.NewLiteral(p.cursor.Advance().Literal, "double")
	}

	for {
		if p.cursor.Match(token.DOT) {
			fieldName := p.cursor.Consume(token.IDENT, "Expect identifier after '.'").Literal
			left = p.createFieldAccess(fieldName, left)
		} else if p.cursor.Match(token.LEFTBRACKET) {
			if left == nil {
				p.cursor.Error("Get index on nil expression")
			}
			index := p.parseArgList(token.RIGHTBRACKET)
			left = p.createFunctionCall("get", append([]ast.Expression{left}, index...))
		} else {
			break
		}
	}

	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if right := p.parsePrimary(); right != nil {
		return right
	}

	operator := p.cursor.Advance().Type
	right := p.parseUnary()

	switch {
	case operator == token.MINUS && right.ExprType() == "double":
		return ast.NewUnary("-", right, "double")
	case operator == token.ROOT && right.ExprType() == "double":
		return ast.NewCall(proto.Sqrt, []ast.Expression{right})
	case operator == token.BANG && right.ExprType() == "bool":
		return ast.NewUnary("!", right, "bool")
	case operator == token.MINUS && p.isKnownClass(right.ExprType()):
		return p.createFunctionCall("negate", []ast.Expression{right})
	}

	p.cursor.Error(fmt.Sprintf("Invalid unary operator %s on type %s", operator, right.ExprType()))
	return nil
}

func (p *Parser) parseExpression(precedence int, left ast.Expression) interface{} {
	if left == nil {
		left = p.parseUnary()
	}

	operator := p.cursor.Peek().Type

	if config.Terminators[operator] {
		if left != nil && left.ExprType() == "void" {
			return ast.ExpressionStmt{Value: left}
		}
		if left != nil && left.ExprType() == "bool" && precedence == 0 {
			return ast.Assertion{Value: left}
		}
		return left
	}

	if (operator == token.EQUALITY || operator == token.ASSIGN) && precedence > 0 {
		return left
	}

	p.cursor.Advance()
	right, _ := p.parseExpression(precedence+1, nil).(ast.Expression)

	switch operator {
	case token.ASSIGN:
		va, isVar := left.(ast.VarAccess)
		_, isField := left.(ast.FieldAccess)
		if !isVar && !isField {
			p.cursor.Error("Cannot only assign to var or field")
		}
		isDeclare := isVar && p.getVarType(va.Name) == ""
		right = ast.MatchIndirection(right, left)
		if isDeclare {
			p.putVarType(va.Name, right.ExprType())
			return ast.VarDeclare{Variable: left, Value: right, Type: right.ExprType()}
		}
		return ast.Setter{Variable: left, Value: right}

	case token.EQUALITY:
		left = ast.DereferenceAll(left)
		right = ast.DereferenceAll(right)

		switch {
		case p.isKnownClass(left.ExprType()):
			return ast.Assertion{Value: p.createFunctionCall("equals", []ast.Expression{left, right})}
		case left.ExprType() == "double" && right.ExprType() == "double":
			// Argument order preserved verbatim: (right, left), not (left, right).
			return ast.Assertion{Value: ast.NewCall(p.almostEqual, []ast.Expression{right, left})}
		case left.ExprType() == "bool" && right.ExprType() == "bool":
			return ast.Assertion{Value: ast.NewBinary("==", left, right, "bool")}
		default:
			p.cursor.Error(fmt.Sprintf("Cannot assert equality of unknown type: %s = %s", left.ExprType(), right.ExprType()))
		}
	}

	var expr ast.Expression
	if left != nil && right != nil {
		switch {
		case left.ExprType() == "double" && right.ExprType() == "double":
			if sym, ok := arithmeticSymbol(operator); ok {
				expr = ast.NewBinary(sym, left, right, "double")
			} else {
				p.cursor.Error(fmt.Sprintf("Invalid binary operator on doubles: (%s) %s (%s)", left.ExprType(), operator, right.ExprType()))
			}

		case p.isKnownClass(left.ExprType()):
			switch {
			case operator == token.PLUS:
				expr = p.createFunctionCall("add", []ast.Expression{left, right})
			case operator == token.MINUS:
				expr = p.createFunctionCall("subtract", []ast.Expression{left, right})
			case operator == token.STAR && right.ExprType() == "double":
				expr = p.createFunctionCall("scale", []ast.Expression{left, right})
			case operator == token.STAR:
				expr = p.createFunctionCall("multiply", []ast.Expression{left, right})
			case operator == token.SLASH:
				expr = p.createFunctionCall("divide", []ast.Expression{left, right})
			default:
				p.cursor.Error(fmt.Sprintf("Invalid binary operator: (%s) %s (%s)", left.ExprType(), operator, right.ExprType()))
			}
		default:
			p.cursor.Error(fmt.Sprintf("Invalid binary operator: (%s) %s (%s)", left.ExprType(), operator, right.ExprType()))
		}

		return p.parseExpression(precedence, expr)
	}

	p.cursor.Error("Expect expression")
	return nil
}

func arithmeticSymbol(op token.Type) (string, bool) {
	switch op {
	case token.PLUS:
		return "+", true
	case token.MINUS:
		return "-", true
	case token.STAR:
		return "*", true
	case token.SLASH:
		return "/", true
	default:
		return "", false
	}
}

func (p *Parser) parseArgList(terminator token.Type) []ast.Expression {
	var args []ast.Expression
	for !p.cursor.Match(terminator) {
		expr, ok := p.parseExpression(1, nil).(ast.Expression)
		if !ok {
			p.cursor.Error("Function argument must be expression")
		}
		args = append(args, expr)
		p.cursor.Match(token.COMMA)
	}
	return args
}

// createFunctionCall resolves spec_name against args in three tiers
// (§4.F Function-call resolution): constructor, then method on args[0]'s
// type, then any static function by that name.
func (p *Parser) createFunctionCall(specName string, args []ast.Expression) ast.Expression {
	if klass, ok := p.table.Lookup(pascalize(specName)); ok {
		argTypes := exprTypes(args)
		for _, fn := range klass.Constructors {
			if fn.Match(argTypes) {
				return ast.NewCall(fn, args)
			}
		}
	}

	if len(args) > 0 {
		if klass, ok := p.table.Lookup(args[0].ExprType()); ok {
			restTypes := exprTypes(args[1:])
			for _, fn := range klass.GetMethods(specName) {
				if fn.Match(restTypes) {
					return ast.NewCall(fn, args)
				}
			}
		}
	}

	if fn := p.table.FindStatic(specName, exprTypes(args)); fn != nil {
		return ast.NewCall(fn, args)
	}

	p.cursor.Error("Undefined function: " + specName + " with args " + describeArgs(args))
	return nil
}

// createFieldAccess dereferences object fully, then resolves name as a
// field or a zero-arg non-static getter method.
func (p *Parser) createFieldAccess(specName string, object ast.Expression) ast.Expression {
	if object == nil {
		p.cursor.Error("object==nil")
	}
	object = ast.DereferenceAll(object)

	klass, ok := p.table.Lookup(object.ExprType())
	if !ok {
		p.cursor.Error("Unrecognised type in: " + object.ExprType())
	}

	if field, ok := klass.GetFields()[specName]; ok {
		return ast.NewFieldAccess(field, object)
	}

	for _, fn := range klass.GetMethods(specName) {
		if !fn.IsStatic && fn.Match(nil) {
			return ast.NewCall(fn, []ast.Expression{object})
		}
	}

	p.cursor.Error("Undefined field: " + specName + " on " + object.ExprType())
	return nil
}

func (p *Parser) isKnownClass(typeName string) bool {
	_, ok := p.table.Lookup(typeName)
	return ok
}

func (p *Parser) getVarType(name string) string {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if t, ok := p.scopes[i][name]; ok {
			return t
		}
	}
	return ""
}

func (p *Parser) putVarType(name, typ string) {
	p.scopes[len(p.scopes)-1][name] = typ
}

func (p *Parser) pushScope() {
	p.scopes = append(p.scopes, map[string]string{})
}

func (p *Parser) popScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

// pascalize title-cases spec_name with '_' treated as a space separator
// (point_light -> PointLight), the constructor-name resolution rule.
func pascalize(name string) string {
	spaced := strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(titleCaser.String(spaced), " ", "")
}

func exprTypes(args []ast.Expression) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.ExprType()
	}
	return out
}

func describeArgs(args []ast.Expression) string {
	types := exprTypes(args)
	return "[" + strings.Join(types, ", ") + "]"
}
