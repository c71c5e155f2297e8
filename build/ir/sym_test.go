package ir_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ospc-org/ospc/build/diag"
	"github.com/ospc-org/ospc/build/ir"
	"github.com/ospc-org/ospc/build/ir/irtest"
)

func declare(t *testing.T, st *ir.SymbolTable, bag *diag.Bag, name string) *ir.Symbol {
	t.Helper()
	sym := ir.NewSymbol(name, irtest.Pos(1), ir.Int32Type(ir.Uniform))
	if !st.AddVariable(bag, sym) {
		t.Fatalf("could not declare %q:\n%s", name, bag.String())
	}
	return sym
}

func TestScopeLookupInnermostFirst(t *testing.T) {
	st := ir.NewSymbolTable()
	bag := &diag.Bag{}
	outer := declare(t, st, bag, "x")
	st.PushScope()
	st.PushScope()
	if got := st.LookupVariable("x"); got != outer {
		t.Errorf("lookup through empty scopes got %v but want the outer symbol", got)
	}
	st.PopScope()
	st.PopScope()
	if got := st.LookupVariable("missing"); got != nil {
		t.Errorf("got %v for an undeclared name but want nil", got)
	}
}

func TestRedeclarationInSameScope(t *testing.T) {
	st := ir.NewSymbolTable()
	bag := &diag.Bag{}
	declare(t, st, bag, "x")
	dup := ir.NewSymbol("x", irtest.Pos(1), ir.FloatType(ir.Uniform))
	if st.AddVariable(bag, dup) {
		t.Fatalf("redeclaration in the same scope passed")
	}
	if !strings.Contains(bag.String(), `Ignoring redeclaration of symbol "x".`) {
		t.Errorf("unexpected diagnostics:\n%s", bag.String())
	}
	if bag.ErrorCount() != 1 {
		t.Errorf("got %d errors but want 1", bag.ErrorCount())
	}
}

func TestShadowingOuterScopeWarns(t *testing.T) {
	st := ir.NewSymbolTable()
	bag := &diag.Bag{}
	declare(t, st, bag, "x")
	st.PushScope()
	inner := declare(t, st, bag, "x")
	if got := st.LookupVariable("x"); got != inner {
		t.Errorf("lookup got %v but want the inner symbol", got)
	}
	if bag.ErrorCount() != 0 {
		t.Fatalf("shadowing must not be an error:\n%s", bag.String())
	}
	if !strings.Contains(bag.String(), "shadows symbol declared in outer scope") {
		t.Errorf("unexpected diagnostics:\n%s", bag.String())
	}
}

func TestPopGlobalScopePanics(t *testing.T) {
	st := ir.NewSymbolTable()
	defer func() {
		if recover() == nil {
			t.Errorf("popping the global scope did not panic")
		}
	}()
	st.PopScope()
}

func TestFunctionOverloads(t *testing.T) {
	st := ir.NewSymbolTable()
	intF := funcSym("f", ir.VoidType(), false, ir.Param{Name: "x", Type: ir.Int32Type(ir.Uniform)})
	floatF := funcSym("f", ir.VoidType(), false, ir.Param{Name: "x", Type: ir.FloatType(ir.Uniform)})
	if !st.AddFunction(intF) || !st.AddFunction(floatF) {
		t.Fatalf("could not declare distinct overloads")
	}
	dup := funcSym("f", ir.VoidType(), false, ir.Param{Name: "y", Type: ir.Int32Type(ir.Uniform)})
	if st.AddFunction(dup) {
		t.Errorf("declared a second overload with an identical signature")
	}
	if got := len(st.LookupFunction("f")); got != 2 {
		t.Errorf("got %d overloads but want 2", got)
	}
	if st.LookupFunction("g") != nil {
		t.Errorf("got overloads for an undeclared name")
	}
}

func TestTypeRedefinition(t *testing.T) {
	st := ir.NewSymbolTable()
	bag := &diag.Bag{}
	if !st.AddType(bag, "Sphere", sphereType(), irtest.Pos(1)) {
		t.Fatalf("could not declare type:\n%s", bag.String())
	}
	if st.AddType(bag, "Sphere", ir.Int32Type(ir.Uniform), irtest.Pos(1)) {
		t.Fatalf("redefinition passed")
	}
	if !strings.Contains(bag.String(), `Ignoring redefinition of type "Sphere".`) {
		t.Errorf("unexpected diagnostics:\n%s", bag.String())
	}
	if got := st.LookupType("Sphere"); !ir.EqualTypes(got, sphereType()) {
		t.Errorf("redefinition replaced the original type: %v", got)
	}
}

func TestClosestMatch(t *testing.T) {
	st := ir.NewSymbolTable()
	bag := &diag.Bag{}
	declare(t, st, bag, "count")
	declare(t, st, bag, "color")
	st.AddFunction(funcSym("clamp", ir.VoidType(), false))
	tests := []struct {
		name string
		want []string
	}{
		{name: "coun", want: []string{"count"}},
		{name: "collor", want: []string{"color"}},
		{name: "clam", want: []string{"clamp"}},
		{name: "xyzzy", want: nil},
		// The exact name itself is not a suggestion.
		{name: "count", want: nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(test.want, st.ClosestMatch(test.name)); diff != "" {
				t.Errorf("unexpected suggestions (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCloserSuggestionsComeFirst(t *testing.T) {
	st := ir.NewSymbolTable()
	bag := &diag.Bag{}
	declare(t, st, bag, "victor") // distance 2 from "vectr"
	declare(t, st, bag, "vector") // distance 1 from "vectr"
	got := st.ClosestMatch("vectr")
	if diff := cmp.Diff([]string{"vector"}, got); diff != "" {
		t.Errorf("distance-1 bucket not preferred (-want +got):\n%s", diff)
	}
}
