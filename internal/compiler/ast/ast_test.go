package ast

import "testing"

func TestDereferenceAddressIdempotence(t *testing.T) {
	e := NewVarAccess("p", "Tuple")
	got := DereferenceExpr(AddressOfExpr(e)).ExprType()
	if got != e.ExprType() {
		t.Fatalf("dereference(address_of(e)).type = %q, want %q", got, e.ExprType())
	}
}

func TestMatchIndirectionRoundTrip(t *testing.T) {
	cases := []struct {
		eType, targetType string
	}{
		{"Tuple", "Tuple***"},
		{"Tuple***", "Tuple"},
		{"Tuple*", "Tuple*"},
		{"Tuple", "Tuple"},
	}

	for _, c := range cases {
		e := NewVarAccess("e", c.eType)
		target := NewVarAccess("t", c.targetType)
		got := MatchIndirection(e, target)
		if CountIndirection(got) != CountIndirection(target) {
			t.Fatalf("match_indirection(%s,%s): got indirection %d, want %d",
				c.eType, c.targetType, CountIndirection(got), CountIndirection(target))
		}
	}
}

func TestCountIndirection(t *testing.T) {
	if CountIndirection(NewVarAccess("x", "Matrix**")) != 2 {
		t.Fatalf("expected indirection 2")
	}
	if CountIndirection(NewVarAccess("x", "Matrix")) != 0 {
		t.Fatalf("expected indirection 0")
	}
}

func TestDereferenceAllFullyStrips(t *testing.T) {
	e := NewVarAccess("x", "Matrix**")
	got := DereferenceAll(e)
	if CountIndirection(got) != 0 {
		t.Fatalf("dereference_all left indirection %d", CountIndirection(got))
	}
	if got.ExprType() != "Matrix" {
		t.Fatalf("dereference_all type = %q, want Matrix", got.ExprType())
	}
}
