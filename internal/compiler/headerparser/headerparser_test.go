package headerparser

import "testing"

const exampleHeader = `
class Example {
public:
    Example(bool flag, float amount);
    Example(int count, double value);
    Example();

    static Another create();
};

class Another {
public:
    Another(int seed);
    Another(double seed);

    float add(int a, double b);
    bool* getSomething(Example e);
    int doSomething();
    int look(int* a, int** b, int c);

private:
    double y;
};

class YetAnother : public Another {
public:
    YetAnother(YetAnother other);
    bool* getSomething(Example e);

private:
    bool something;
};
`

func TestParseDiscoversAllClasses(t *testing.T) {
	classes := Parse("example.h", []byte(exampleHeader))
	if len(classes) != 3 {
		t.Fatalf("expected 3 classes, got %d: %v", len(classes), classes)
	}
	names := map[string]bool{}
	for _, c := range classes {
		names[c.Name] = true
	}
	for _, want := range []string{"Example", "Another", "YetAnother"} {
		if !names[want] {
			t.Fatalf("missing class %q", want)
		}
	}
}

func TestParseConstructorsAndMethods(t *testing.T) {
	classes := Parse("example.h", []byte(exampleHeader))

	found := map[string]int{}
	for _, c := range classes {
		found[c.Name] = len(c.Constructors)
	}
	if found["Example"] != 3 {
		t.Fatalf("Example: expected 3 constructors, got %d", found["Example"])
	}
	if found["Another"] != 2 {
		t.Fatalf("Another: expected 2 constructors, got %d", found["Another"])
	}
}

func TestParseInheritanceEdgeRecorded(t *testing.T) {
	classes := Parse("example.h", []byte(exampleHeader))
	for _, c := range classes {
		if c.Name == "YetAnother" {
			if c.Extends != "Another" {
				t.Fatalf("YetAnother.Extends = %q, want Another", c.Extends)
			}
			return
		}
	}
	t.Fatal("YetAnother not found")
}

func TestParseFieldAndArgumentTypes(t *testing.T) {
	classes := Parse("example.h", []byte(exampleHeader))
	for _, c := range classes {
		if c.Name != "Another" {
			continue
		}
		if len(c.Fields) != 1 || c.Fields[0].Name != "y" || c.Fields[0].Type != "double" {
			t.Fatalf("Another.Fields = %+v, want [{y double}]", c.Fields)
		}
		for _, m := range c.Methods {
			if m.Name == "look" {
				want := []string{"int*", "int**", "int"}
				if len(m.ArgumentTypes) != len(want) {
					t.Fatalf("look args = %v, want %v", m.ArgumentTypes, want)
				}
				for i := range want {
					if m.ArgumentTypes[i] != want[i] {
						t.Fatalf("look arg %d = %q, want %q", i, m.ArgumentTypes[i], want[i])
					}
				}
			}
		}
	}
}

func TestParsePureVirtualMarksAbstract(t *testing.T) {
	src := `
class Shape {
public:
    virtual bool intersects() = 0;
};
`
	classes := Parse("shape.h", []byte(src))
	if len(classes) != 1 || !classes[0].IsAbstract {
		t.Fatalf("expected Shape to be marked abstract: %+v", classes)
	}
}

func TestParseForwardDeclarationSkipped(t *testing.T) {
	src := `
class Forward;

class Real {
public:
    Real();
};
`
	classes := Parse("fwd.h", []byte(src))
	if len(classes) != 1 || classes[0].Name != "Real" {
		t.Fatalf("expected only Real to be parsed, got %v", classes)
	}
}
