// Package prototable builds the flattened, fix-up-applied class table that
// the Gherkin parser resolves identifiers against (§4.D).
package prototable

import (
	"github.com/btouchard/ghtc/internal/compiler/config"
	"github.com/btouchard/ghtc/internal/compiler/proto"
)

// Table is the read-only-after-build class index, plus the standalone
// function registry (operations that are not class members).
type Table struct {
	classes     map[string]*proto.ClassPrototype
	standalone  []*proto.FunctionPrototype
}

// Build indexes classes by name, flattens inheritance to a fixed point,
// applies the supplied fix-ups, and assembles the standalone registry.
func Build(classes []*proto.ClassPrototype, fixups *config.FixUps) *Table {
	t := &Table{classes: make(map[string]*proto.ClassPrototype, len(classes))}
	for _, c := range classes {
		t.classes[c.Name] = c
	}

	flatten(t.classes)

	if fixups != nil {
		applyFixUps(t, fixups)
	}

	t.standalone = append(t.standalone, proto.Sqrt)
	if fixups != nil {
		for _, s := range fixups.Standalone {
			t.standalone = append(t.standalone, &proto.FunctionPrototype{
				Name: s.Name, IsStatic: true, ReturnType: s.ReturnType, ArgumentTypes: s.ArgTypes,
			})
		}
	}

	return t
}

// flatten appends each class's full ancestor chain of fields and methods,
// shallow-copy and order-preserving (§4.D, §8 property 1). The original
// class stays; its parent also stays independently. Parents are flattened
// before their children (topological order via recursion) so a multi-level
// `extends` chain flattens completely in one pass regardless of map
// iteration order; inProgress guards against a cyclic `extends` graph.
func flatten(classes map[string]*proto.ClassPrototype) {
	done := make(map[string]bool)
	inProgress := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		c, ok := classes[name]
		if !ok || done[name] || inProgress[name] {
			return
		}
		inProgress[name] = true
		defer func() { inProgress[name] = false }()

		if c.Extends != "" {
			visit(c.Extends)
			if parent, ok := classes[c.Extends]; ok {
				c.Fields = append(c.Fields, parent.Fields...)
				c.Methods = append(c.Methods, parent.Methods...)
			}
		}
		done[name] = true
	}

	for name := range classes {
		visit(name)
	}
}

func applyFixUps(t *Table, fixups *config.FixUps) {
	for _, a := range fixups.Aliases {
		if canonical, ok := t.classes[a.To]; ok {
			t.classes[a.From] = canonical
		}
	}
	for _, patch := range fixups.ConstructorReturns {
		class, ok := t.classes[patch.Class]
		if !ok || patch.Index >= len(class.Constructors) {
			continue
		}
		class.Constructors[patch.Index].ReturnType = patch.ReturnType
	}
	for _, synth := range fixups.SyntheticConstructors {
		class, ok := t.classes[synth.Class]
		if !ok {
			continue
		}
		class.Constructors = append(class.Constructors, &proto.FunctionPrototype{
			Name: class.Name, ReturnType: class.Name, IsStatic: true,
		})
	}
}

// Lookup returns the class prototype named name, or nil.
func (t *Table) Lookup(name string) (*proto.ClassPrototype, bool) {
	c, ok := t.classes[name]
	return c, ok
}

// All returns every class indexed in the table, including alias entries.
func (t *Table) All() map[string]*proto.ClassPrototype {
	return t.classes
}

// Standalone returns the module-level standalone function registry.
func (t *Table) Standalone() []*proto.FunctionPrototype {
	return t.standalone
}

// FindStatic scans every class's methods for a static function named name
// matching argTypes (the third tier of create_function_call, §4.F). It
// never consults the standalone registry: sqrt and almostEqual are referred
// to directly by the statements that need them, not discovered generically.
func (t *Table) FindStatic(name string, argTypes []string) *proto.FunctionPrototype {
	for _, class := range t.classes {
		for _, fn := range class.GetMethods(name) {
			if fn.IsStatic && fn.Match(argTypes) {
				return fn
			}
		}
	}
	return nil
}

// FindStandalone looks up a module-level function by name in the registry
// (sqrt, and whatever config/fixups.yaml adds, e.g. almostEqual).
func (t *Table) FindStandalone(name string) *proto.FunctionPrototype {
	for _, fn := range t.standalone {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}
