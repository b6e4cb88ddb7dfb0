// Package generator emits the C++ test harness source file from a parsed
// Feature list (§4.G): a line-buffered, indent-tracked builder that lowers
// the typed AST to C++ text one statement/expression at a time.
package generator

import (
	"fmt"
	"strings"

	"github.com/btouchard/ghtc/internal/compiler/ast"
)

// Generator walks features and accumulates C++ source text. outputLineCount
// tracks emitted lines so a scenario's FAIL message can cite the source line
// its block starts at, the way the generated binary's own diagnostics do.
type Generator struct {
	buf                strings.Builder
	indent             int
	outputLineCount    int
	totalScenarioCount int
	errorScenarioCount int
	includes           []string
}

// Generate builds the complete harness source for features, #include-ing
// each entry of includes ahead of main().
func Generate(features []*ast.Feature, includes []string) string {
	g := &Generator{includes: includes}
	g.emitHeaderBoilerplate()
	for _, feature := range features {
		g.emitFeature(feature)
	}
	g.emitFooterBoilerplate()
	return g.buf.String()
}

func (g *Generator) emitFeature(feature *ast.Feature) {
	g.pushScope()
	g.line("int _passedScenarioCount = 0;")
	g.line(fmt.Sprintf("cout << %q << endl;", "FEATURE: "+feature.Name))

	for _, scenario := range feature.Scenarios {
		g.totalScenarioCount++
		switch s := scenario.(type) {
		case *ast.ReportErr:
			g.errorScenarioCount++
			g.line(fmt.Sprintf("cout << %q << endl;", " - ERROR: "+s.Msg))
		case *ast.Scenario:
			g.emitScenario(s)
		}
	}

	g.line("_totalPassedScenarioCount += _passedScenarioCount;")
	g.line(fmt.Sprintf("cout << %q << _passedScenarioCount << %q << endl;",
		feature.Name+" passed ", fmt.Sprintf(" of %d tests.", len(feature.Scenarios))))
	g.popScope()
}

func (g *Generator) emitScenario(scenario *ast.Scenario) {
	startingLine := g.outputLineCount + 1
	g.pushScope()
	g.line("bool _scenarioPassed = true;")

	for _, stmt := range scenario.Background {
		g.emitStatement(stmt)
	}
	for _, stmt := range scenario.Statements {
		g.emitStatement(stmt)
	}

	g.line("if (_scenarioPassed){")
	g.line(fmt.Sprintf("    cout << %q << endl;", " - PASS: "+scenario.Name))
	g.line("    _passedScenarioCount++;")
	g.line("} else {")
	g.line(fmt.Sprintf("    cout << %q << endl;", " - FAIL: "+scenario.Name))
	g.line(fmt.Sprintf("    cout << \"         at src/tests.cc:%d\" << endl;", startingLine))
	g.line("}")
	g.popScope()
}

// emitStatement lowers one statement. Setter emits a real assignment — a
// deliberate deviation from the source's no-op, per the faithful-by-analogy
// reading recorded in DESIGN.md.
func (g *Generator) emitStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case ast.Setter:
		g.line(genExpression(s.Variable) + " = " + genExpression(s.Value) + ";")
	case ast.Assertion:
		g.line("_scenarioPassed = _scenarioPassed && " + genExpression(s.Value) + ";")
	case ast.VarDeclare:
		if s.Value == nil {
			g.line(fmt.Sprintf("%s %s;", s.Type, variableName(s.Variable)))
		} else {
			g.line(fmt.Sprintf("%s %s = %s;", s.Type, variableName(s.Variable), genExpression(s.Value)))
		}
	case ast.ExpressionStmt:
		g.line(genExpression(s.Value) + ";")
	default:
		panic(fmt.Sprintf("generator: not a statement: %#v", stmt))
	}
}

func variableName(e ast.Expression) string {
	if v, ok := e.(ast.VarAccess); ok {
		return v.Name
	}
	return genExpression(e)
}

// genExpression recursively renders one expression tree as C++ source.
func genExpression(expr ast.Expression) string {
	switch e := expr.(type) {
	case ast.VarAccess:
		return e.Name
	case ast.FieldAccess:
		return genExpression(e.Obj) + "." + e.Field.Name
	case ast.UnaryExpr:
		return "(" + e.Symbol + genExpression(e.Value) + ")"
	case ast.LiteralExpr:
		return e.Symbol
	case ast.BinaryExpr:
		return "(" + genExpression(e.Left) + " " + e.Symbol + " " + genExpression(e.Right) + ")"
	case ast.Dereference:
		return "(*" + genExpression(e.Value) + ")"
	case ast.AddressOf:
		return "(&" + genExpression(e.Value) + ")"
	case ast.FunctionCall:
		return genCall(e)
	default:
		panic(fmt.Sprintf("generator: not an expression: %#v", expr))
	}
}

func genCall(call ast.FunctionCall) string {
	if call.Func.IsStatic {
		args := make([]string, len(call.Args))
		for i, a := range call.Args {
			args[i] = genExpression(a)
		}
		argStr := "(" + strings.Join(args, ", ") + ")"
		if call.Func.Namespace != "" {
			return call.Func.Namespace + "::" + call.Func.Name + argStr
		}
		return call.Func.Name + argStr
	}

	args := make([]string, len(call.Args)-1)
	for i, a := range call.Args[1:] {
		args[i] = genExpression(a)
	}
	argStr := "(" + strings.Join(args, ", ") + ")"
	return genExpression(call.Args[0]) + "." + call.Func.Name + argStr
}

func (g *Generator) emitHeaderBoilerplate() {
	g.line("#include <chrono>")
	for _, file := range g.includes {
		g.line(fmt.Sprintf("#include %q", file))
	}
	g.line("")
	g.line("// THIS FILE IS AUTOMATICALLY GENERATED. DO NOT EDIT MANUALLY.")
	g.line("int main()")
	g.pushScope()
	g.line("int _totalPassedScenarioCount = 0;")
	g.line("long _start_time = chrono::duration_cast< chrono::milliseconds >( chrono::system_clock::now().time_since_epoch()).count();")
}

func (g *Generator) emitFooterBoilerplate() {
	g.line("long _end_time = chrono::duration_cast< chrono::milliseconds >( chrono::system_clock::now().time_since_epoch()).count();")
	g.line(fmt.Sprintf(
		`cout << "TOTAL: pass " << _totalPassedScenarioCount << ", fail " << (%d - %d - _totalPassedScenarioCount) << ", error %d" << endl;`,
		g.totalScenarioCount, g.errorScenarioCount, g.errorScenarioCount))
	g.line(fmt.Sprintf("cout << %q << endl;", strings.Repeat("=", 30)))
	g.line(`cout << "- Execute: " << (_end_time - _start_time) << " ms." << endl;`)
	g.line("return 0;")
	g.popScope()
}

func (g *Generator) pushScope() {
	g.line("{")
	g.indent++
}

func (g *Generator) popScope() {
	g.indent--
	g.line("}")
}

func (g *Generator) line(s string) {
	g.buf.WriteString(strings.Repeat("    ", g.indent))
	g.buf.WriteString(s)
	g.buf.WriteString("\n")
	g.outputLineCount++
}
