// Package proto holds the introspected C++ class model: prototypes for
// functions, fields, and classes, sufficient for overload resolution and
// code emission (§3).
package proto

import "strings"

// FunctionPrototype describes a constructor, method, or standalone
// function signature. Constructors are modelled as static FunctionPrototypes
// whose ReturnType equals the owning class name.
type FunctionPrototype struct {
	Name         string
	IsStatic     bool
	ReturnType   string
	ArgumentTypes []string
	Namespace    string // empty means no namespace / a global function
}

// Match reports whether args' types line up pairwise and in length with
// the prototype's ArgumentTypes. There is no subtype-aware matching;
// coercions happen at call-site synthesis.
func (f *FunctionPrototype) Match(argTypes []string) bool {
	if len(f.ArgumentTypes) != len(argTypes) {
		return false
	}
	for i, t := range f.ArgumentTypes {
		if t != argTypes[i] {
			return false
		}
	}
	return true
}

// FieldPrototype describes one class member.
type FieldPrototype struct {
	Name      string
	Type      string
	IsStatic  bool
	Namespace string
}

// ClassPrototype describes a class as reconstructed from its header.
type ClassPrototype struct {
	Name         string
	Filename     string
	IsAbstract   bool
	Fields       []*FieldPrototype
	Methods      []*FunctionPrototype
	Constructors []*FunctionPrototype
	Extends      string // empty means no parent
}

// GetFields returns a name -> prototype mapping.
func (c *ClassPrototype) GetFields() map[string]*FieldPrototype {
	out := make(map[string]*FieldPrototype, len(c.Fields))
	for _, f := range c.Fields {
		out[f.Name] = f
	}
	return out
}

// GetMethods returns the overload set for name; C++ allows overloading by
// argument-type signature so more than one prototype can share a name.
func (c *ClassPrototype) GetMethods(name string) []*FunctionPrototype {
	var out []*FunctionPrototype
	for _, m := range c.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

func (c *ClassPrototype) String() string {
	var b strings.Builder
	if c.IsAbstract {
		b.WriteString("Abstract Class: ")
	} else {
		b.WriteString("Class: ")
	}
	b.WriteString(c.Name)
	if c.Extends != "" {
		b.WriteString(" extends " + c.Extends)
	}
	b.WriteString("\n  - Location: " + c.Filename)
	b.WriteString("\n  - Fields:")
	for _, f := range c.Fields {
		b.WriteString("\n    - " + f.Name + " " + f.Type)
	}
	b.WriteString("\n  - Constructors:")
	for _, f := range c.Constructors {
		b.WriteString("\n    - " + f.Name)
	}
	b.WriteString("\n  - Methods:")
	for _, f := range c.Methods {
		b.WriteString("\n    - " + f.Name)
	}
	return b.String()
}

// Sqrt is the built-in standalone `sqrt(double) double` prototype the root
// operator (√) lowers to directly, without going through the registry scan
// (it is the one standalone function the Gherkin grammar names explicitly).
var Sqrt = &FunctionPrototype{Name: "sqrt", IsStatic: true, ReturnType: "double", ArgumentTypes: []string{"double"}}

// CountIndirection returns the number of trailing '*' in a type name.
func CountIndirection(typeName string) int {
	count := 0
	for strings.HasSuffix(typeName, "*") {
		count++
		typeName = typeName[:len(typeName)-1]
	}
	return count
}
