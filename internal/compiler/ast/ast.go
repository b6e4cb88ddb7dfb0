// Package ast defines the typed expression/statement AST produced by the
// Gherkin parser and consumed by the code generator (§3), plus the pure
// pointer-indirection helpers (§4.E).
package ast

import (
	"strings"

	"github.com/btouchard/ghtc/internal/compiler/proto"
)

// Expression is a closed sum type; every node carries a Type string
// (possibly "void"). expressionNode is unexported so no package outside
// ast can add a variant, keeping the code generator's type switch total.
type Expression interface {
	ExprType() string
	expressionNode()
}

type exprBase struct{ Type string }

func (e exprBase) ExprType() string { return e.Type }

// VarAccess reads a named local variable.
type VarAccess struct {
	exprBase
	Name string
}

func (VarAccess) expressionNode() {}

// LiteralExpr is a literal already formatted as target-language source
// text (a number's own string form, "true"/"false", or "M_PI").
type LiteralExpr struct {
	exprBase
	Symbol string
}

func (LiteralExpr) expressionNode() {}

// FieldAccess reads a field of obj.
type FieldAccess struct {
	exprBase
	Field *proto.FieldPrototype
	Obj   Expression
}

func (FieldAccess) expressionNode() {}

// UnaryExpr applies a prefix operator ("-" or "!") to Value.
type UnaryExpr struct {
	exprBase
	Symbol string
	Value  Expression
}

func (UnaryExpr) expressionNode() {}

// BinaryExpr applies an infix operator to Left/Right.
type BinaryExpr struct {
	exprBase
	Symbol string
	Left   Expression
	Right  Expression
}

func (BinaryExpr) expressionNode() {}

// Dereference strips one level of pointer indirection from Value.
type Dereference struct {
	exprBase
	Value Expression
}

func (Dereference) expressionNode() {}

// AddressOf adds one level of pointer indirection to Value.
type AddressOf struct {
	exprBase
	Value Expression
}

func (AddressOf) expressionNode() {}

// FunctionCall invokes a resolved constructor, method, or standalone
// function. For a non-static call, Args[0] is the receiver.
type FunctionCall struct {
	exprBase
	Func *proto.FunctionPrototype
	Args []Expression
}

func (FunctionCall) expressionNode() {}

// Statement is a closed sum type (§3).
type Statement interface {
	statementNode()
}

// Setter assigns Value to an already-declared Variable.
type Setter struct {
	Variable Expression // VarAccess or FieldAccess
	Value    Expression
}

func (Setter) statementNode() {}

// VarDeclare introduces a new binding. Value may be nil (declaration
// without initializer).
type VarDeclare struct {
	Variable Expression // VarAccess or FieldAccess
	Value    Expression
	Type     string
}

func (VarDeclare) statementNode() {}

// Assertion lowers a bool-typed Value into the scenario's running
// pass/fail accumulator.
type Assertion struct {
	Value Expression
}

func (Assertion) statementNode() {}

// ExpressionStmt is a void-typed expression evaluated for effect.
type ExpressionStmt struct {
	Value Expression
}

func (ExpressionStmt) statementNode() {}

// Scenario is one Scenario: block. Background is an ordered snapshot of
// the feature's background statements at the time this scenario was
// constructed — never statements the scenario itself declared.
type Scenario struct {
	Name       string
	Statements []Statement
	Background []Statement
}

// ReportErr is a sentinel scenario standing in for one that failed to
// parse (§7); Msg is the scenario's name, or a placeholder if the name
// itself never parsed.
type ReportErr struct {
	Msg string
}

// FeatureScenario is implemented by both *Scenario and *ReportErr so a
// Feature's scenario list can hold either without an interface{} escape
// hatch. Pointer receivers let the parser mutate a Scenario in place
// (appending statements) while it remains addressable through the slice.
type FeatureScenario interface {
	featureScenarioNode()
}

func (*Scenario) featureScenarioNode()  {}
func (*ReportErr) featureScenarioNode() {}

// Feature is one parsed .feature file.
type Feature struct {
	Name      string
	Scenarios []FeatureScenario
}

// DereferenceExpr returns a Dereference node stripping one trailing '*' from
// e's type. Panics if e's type has no indirection — callers only invoke
// it after checking CountIndirection(e) > 0.
func DereferenceExpr(e Expression) Expression {
	t := e.ExprType()
	if !strings.HasSuffix(t, "*") {
		panic("ast: dereference of non-pointer type " + t)
	}
	return Dereference{exprBase{Type: t[:len(t)-1]}, e}
}

// AddressOfExpr returns an AddressOf node adding one level of indirection.
func AddressOfExpr(e Expression) Expression {
	return AddressOf{exprBase{Type: e.ExprType() + "*"}, e}
}

// CountIndirection is the number of trailing '*' in e's type.
func CountIndirection(e Expression) int {
	return proto.CountIndirection(e.ExprType())
}

// DereferenceAll strips every level of pointer indirection from e.
func DereferenceAll(e Expression) Expression {
	for CountIndirection(e) > 0 {
		e = DereferenceExpr(e)
	}
	return e
}

// MatchIndirection adjusts e's pointer level to match target's, by
// repeated dereference or address-of. Terminates because every step
// changes the indirection count by exactly 1 (§4.E property 3).
func MatchIndirection(e, target Expression) Expression {
	for CountIndirection(e) > CountIndirection(target) {
		e = DereferenceExpr(e)
	}
	for CountIndirection(e) < CountIndirection(target) {
		e = AddressOfExpr(e)
	}
	return e
}

// NewVarAccess constructs a VarAccess with its type already resolved.
func NewVarAccess(name, typ string) VarAccess {
	return VarAccess{exprBase{Type: typ}, name}
}

// NewLiteral constructs a LiteralExpr.
func NewLiteral(symbol, typ string) LiteralExpr {
	return LiteralExpr{exprBase{Type: typ}, symbol}
}

// NewFieldAccess constructs a FieldAccess.
func NewFieldAccess(field *proto.FieldPrototype, obj Expression) FieldAccess {
	return FieldAccess{exprBase{Type: field.Type}, field, obj}
}

// NewUnary constructs a UnaryExpr.
func NewUnary(symbol string, value Expression, typ string) UnaryExpr {
	return UnaryExpr{exprBase{Type: typ}, symbol, value}
}

// NewBinary constructs a BinaryExpr.
func NewBinary(symbol string, left, right Expression, typ string) BinaryExpr {
	return BinaryExpr{exprBase{Type: typ}, symbol, left, right}
}

// NewCall constructs a FunctionCall.
func NewCall(fn *proto.FunctionPrototype, args []Expression) FunctionCall {
	return FunctionCall{exprBase{Type: fn.ReturnType}, fn, args}
}
