package prototable

import (
	"testing"

	"github.com/btouchard/ghtc/internal/compiler/config"
	"github.com/btouchard/ghtc/internal/compiler/proto"
	"github.com/stretchr/testify/assert"
)

func TestBuildFlattensInheritanceAsSuperset(t *testing.T) {
	shape := &proto.ClassPrototype{
		Name: "Shape",
		Fields: []*proto.FieldPrototype{
			{Name: "transform", Type: "Matrix"},
		},
		Methods: []*proto.FunctionPrototype{
			{Name: "equals", ArgumentTypes: []string{"Shape"}, ReturnType: "bool"},
		},
	}
	sphere := &proto.ClassPrototype{Name: "Sphere", Extends: "Shape"}

	table := Build([]*proto.ClassPrototype{shape, sphere}, nil)

	found, ok := table.Lookup("Sphere")
	assert.True(t, ok)
	assert.Len(t, found.Fields, 1)
	assert.Equal(t, "transform", found.Fields[0].Name)
	assert.Len(t, found.Methods, 1)
	assert.Equal(t, "equals", found.Methods[0].Name)

	// Parent stays independent: Shape itself is not mutated with its own fields duplicated.
	parent, _ := table.Lookup("Shape")
	assert.Len(t, parent.Fields, 1)
}

func TestBuildFlattensMultiLevelChain(t *testing.T) {
	a := &proto.ClassPrototype{Name: "A", Fields: []*proto.FieldPrototype{{Name: "aField"}}}
	b := &proto.ClassPrototype{Name: "B", Extends: "A", Fields: []*proto.FieldPrototype{{Name: "bField"}}}
	c := &proto.ClassPrototype{Name: "C", Extends: "B"}

	table := Build([]*proto.ClassPrototype{a, b, c}, nil)

	found, _ := table.Lookup("C")
	names := map[string]bool{}
	for _, f := range found.Fields {
		names[f.Name] = true
	}
	assert.True(t, names["aField"], "grandparent field must flatten through B")
	assert.True(t, names["bField"])
}

func TestBuildAppliesAliasFixUp(t *testing.T) {
	colour := &proto.ClassPrototype{Name: "Colour"}
	fixups := &config.FixUps{Aliases: []config.Alias{{From: "Color", To: "Colour"}}}

	table := Build([]*proto.ClassPrototype{colour}, fixups)

	found, ok := table.Lookup("Color")
	assert.True(t, ok)
	assert.Equal(t, "Colour", found.Name)
}

func TestBuildAppliesConstructorReturnPatch(t *testing.T) {
	vector := &proto.ClassPrototype{
		Name:         "Vector",
		Constructors: []*proto.FunctionPrototype{{Name: "Vector", ReturnType: "Vector", IsStatic: true}},
	}
	fixups := &config.FixUps{ConstructorReturns: []config.ConstructorReturnPatch{{Class: "Vector", Index: 0, ReturnType: "Tuple"}}}

	table := Build([]*proto.ClassPrototype{vector}, fixups)
	found, _ := table.Lookup("Vector")
	assert.Equal(t, "Tuple", found.Constructors[0].ReturnType)
}

func TestBuildStandaloneRegistryIncludesSqrtAndConfigured(t *testing.T) {
	fixups := &config.FixUps{Standalone: []config.StandaloneFunction{
		{Name: "almostEqual", ReturnType: "bool", ArgTypes: []string{"double", "double"}},
	}}
	table := Build(nil, fixups)

	fn := table.FindStandalone("sqrt")
	assert.NotNil(t, fn)

	fn = table.FindStandalone("almostEqual")
	assert.NotNil(t, fn)
	assert.Equal(t, "bool", fn.ReturnType)
}
