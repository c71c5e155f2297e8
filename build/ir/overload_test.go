package ir_test

import (
	"testing"

	"github.com/ospc-org/ospc/build/ir"
	"github.com/ospc-org/ospc/build/ir/irtest"
)

// overloadSet returns a fresh overload expression for the candidates.
func overloadSet(name string, candidates ...*ir.Symbol) *ir.FunctionSymbolExpr {
	return ir.NewFunctionSymbolExpr(name, candidates, irtest.Pos(1))
}

// unary declares a one-parameter overload of f.
func unary(param ir.Type) *ir.Symbol {
	return funcSym("f", ir.VoidType(), false, ir.Param{Name: "x", Type: param})
}

func TestOverloadTiers(t *testing.T) {
	tests := []struct {
		name string
		cand []*ir.Symbol
		arg  ir.Type
		want int // index into cand
	}{
		{
			name: "exact match",
			cand: []*ir.Symbol{unary(ir.Int32Type(ir.Uniform)), unary(ir.FloatType(ir.Uniform))},
			arg:  ir.FloatType(ir.Uniform),
			want: 1,
		},
		{
			name: "reference binds its target type",
			cand: []*ir.Symbol{unary(ir.NewReferenceType(ir.Int32Type(ir.Uniform))), unary(ir.FloatType(ir.Uniform))},
			arg:  ir.Int32Type(ir.Uniform),
			want: 0,
		},
		{
			name: "widening beats narrowing",
			cand: []*ir.Symbol{unary(ir.Int64Type(ir.Uniform)), unary(ir.Int16Type(ir.Uniform))},
			arg:  ir.Int32Type(ir.Uniform),
			want: 0,
		},
		{
			name: "uniform spreads to varying",
			cand: []*ir.Symbol{unary(ir.Int32Type(ir.Varying)), unary(ir.Int8Type(ir.Uniform))},
			arg:  ir.Int32Type(ir.Uniform),
			want: 0,
		},
		{
			name: "same variability beats crossing it",
			cand: []*ir.Symbol{unary(ir.Int8Type(ir.Uniform)), unary(ir.Int8Type(ir.Varying))},
			arg:  ir.Int32Type(ir.Uniform),
			want: 0,
		},
		{
			name: "any conversion as a last resort",
			cand: []*ir.Symbol{unary(ir.Int8Type(ir.Varying))},
			arg:  ir.Int32Type(ir.Uniform),
			want: 0,
		},
		{
			name: "widening wins over spreading to varying",
			cand: []*ir.Symbol{unary(ir.Int32Type(ir.Varying)), unary(ir.Int64Type(ir.Uniform))},
			arg:  ir.Int32Type(ir.Uniform),
			want: 1,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := irtest.Context()
			fse := overloadSet("f", test.cand...)
			if !fse.Resolve(ctx, []ir.Type{test.arg}, nil) {
				t.Fatalf("resolution failed:\n%s", irtest.Bag(ctx).String())
			}
			if fse.Matched != test.cand[test.want] {
				t.Errorf("resolved to %s but want candidate %d", fse.Matched.Name, test.want)
			}
			noDiags(t, ctx)
		})
	}
}

func TestOverloadCostBreaksTies(t *testing.T) {
	ctx := irtest.Context()
	closer := funcSym("f", ir.VoidType(), false,
		ir.Param{Name: "x", Type: ir.Int32Type(ir.Uniform)},
		ir.Param{Name: "y", Type: ir.FloatType(ir.Uniform)},
	)
	farther := funcSym("f", ir.VoidType(), false,
		ir.Param{Name: "x", Type: ir.FloatType(ir.Uniform)},
		ir.Param{Name: "y", Type: ir.FloatType(ir.Uniform)},
	)
	fse := overloadSet("f", farther, closer)
	args := []ir.Type{ir.Int32Type(ir.Uniform), ir.Int32Type(ir.Uniform)}
	if !fse.Resolve(ctx, args, nil) {
		t.Fatalf("resolution failed:\n%s", irtest.Bag(ctx).String())
	}
	if fse.Matched != closer {
		t.Errorf("resolved to the overload needing two conversions instead of one")
	}
}

func TestOverloadAmbiguity(t *testing.T) {
	ctx := irtest.Context()
	a := funcSym("f", ir.VoidType(), false,
		ir.Param{Name: "x", Type: ir.Int32Type(ir.Uniform)},
		ir.Param{Name: "y", Type: ir.FloatType(ir.Uniform)},
	)
	b := funcSym("f", ir.VoidType(), false,
		ir.Param{Name: "x", Type: ir.FloatType(ir.Uniform)},
		ir.Param{Name: "y", Type: ir.Int32Type(ir.Uniform)},
	)
	fse := overloadSet("f", a, b)
	args := []ir.Type{ir.Int32Type(ir.Uniform), ir.Int32Type(ir.Uniform)}
	if fse.Resolve(ctx, args, nil) {
		t.Fatalf("resolution passed but want an ambiguity error")
	}
	errorContaining(t, ctx, `Multiple overloaded instances of function "f" matched.`)
	errorContaining(t, ctx, "Passed types:")
	errorContaining(t, ctx, "Candidate function:")
}

func TestOverloadNoMatch(t *testing.T) {
	ctx := irtest.Context()
	fse := overloadSet("f", unary(ir.Int32Type(ir.Uniform)))
	if fse.Resolve(ctx, []ir.Type{sphereType()}, nil) {
		t.Fatalf("resolution passed but want an error")
	}
	errorContaining(t, ctx, `Unable to find any matching overload for call to function "f".`)
	errorContaining(t, ctx, "Candidate function:")
}

func TestRuntimeNamesResolveExactOnly(t *testing.T) {
	cand := funcSym("__fast", ir.VoidType(), false, ir.Param{Name: "x", Type: ir.FloatType(ir.Uniform)})
	t.Run("exact argument resolves", func(t *testing.T) {
		ctx := irtest.Context()
		fse := overloadSet("__fast", cand)
		if !fse.Resolve(ctx, []ir.Type{ir.FloatType(ir.Uniform)}, nil) {
			t.Fatalf("resolution failed:\n%s", irtest.Bag(ctx).String())
		}
		noDiags(t, ctx)
	})
	t.Run("convertible argument does not", func(t *testing.T) {
		ctx := irtest.Context()
		fse := overloadSet("__fast", cand)
		if fse.Resolve(ctx, []ir.Type{ir.Int32Type(ir.Uniform)}, nil) {
			t.Fatalf("resolution passed but want an error")
		}
		errorContaining(t, ctx, "only considering exact matches")
	})
}

func TestOverloadSkipsUncallableCandidates(t *testing.T) {
	ctx := irtest.Context()
	tooMany := unary(ir.Int32Type(ir.Uniform))
	nullary := funcSym("f", ir.VoidType(), false)
	fse := overloadSet("f", tooMany, nullary)
	args := []ir.Type{ir.Int32Type(ir.Uniform), ir.Int32Type(ir.Uniform)}
	if fse.Resolve(ctx, args, nil) {
		t.Fatalf("resolution passed but no candidate takes two arguments")
	}
	errorContaining(t, ctx, "Unable to find any matching overload")
}

func TestOverloadDefaultCoversMissingArgument(t *testing.T) {
	ctx := irtest.Context()
	withDefault := funcSym("f", ir.VoidType(), false,
		ir.Param{Name: "x", Type: ir.Int32Type(ir.Uniform)},
		ir.Param{Name: "y", Type: ir.Int32Type(ir.Uniform), Default: intVal(ctx, 1)},
	)
	without := funcSym("f", ir.VoidType(), false,
		ir.Param{Name: "x", Type: ir.Int32Type(ir.Uniform)},
		ir.Param{Name: "y", Type: ir.Int32Type(ir.Uniform)},
	)
	fse := overloadSet("f", without, withDefault)
	if !fse.Resolve(ctx, []ir.Type{ir.Int32Type(ir.Uniform)}, nil) {
		t.Fatalf("resolution failed:\n%s", irtest.Bag(ctx).String())
	}
	if fse.Matched != withDefault {
		t.Errorf("resolved to the overload whose second parameter has no default")
	}
}

func TestSymbolExprValueAndStorage(t *testing.T) {
	ctx := irtest.Context()
	x := variable("x", ir.Int32Type(ir.Uniform))
	em := irtest.NewRecorder(ctx)
	if x.Value(em) == nil {
		t.Fatalf("no value emitted")
	}
	if !em.Has("%x1 = load @x") {
		t.Errorf("symbol not loaded from its storage:\n%s", em)
	}
	if got, want := ir.TypeOf(ctx, x), ir.Int32Type(ir.Uniform); !ir.EqualTypes(got, want) {
		t.Errorf("got type %v but want %v", got, want)
	}
	lvt := x.LValueType(ctx)
	want := ir.NewPointerType(ir.Uniform, ir.Int32Type(ir.Uniform))
	if !ir.EqualTypes(lvt, want) {
		t.Errorf("got lvalue type %v but want %v", lvt, want)
	}
}

func TestConstSymbolFoldsToItsValue(t *testing.T) {
	ctx := irtest.Context()
	sym := ir.NewSymbol("k", irtest.Pos(1), ir.Int32Type(ir.Uniform).AsConst())
	sym.ConstValue = intVal(ctx, 42)
	e := ir.OptimizeExpr(ctx, ir.NewSymbolExpr(sym, irtest.Pos(1)))
	c, ok := e.(*ir.ConstExpr)
	if !ok {
		t.Fatalf("got %T but want *ir.ConstExpr", e)
	}
	if got := c.AsInt32(ctx, false); got[0] != 42 {
		t.Errorf("got %v but want [42]", got)
	}
}

func TestAmbiguousFunctionNameHasNoType(t *testing.T) {
	ctx := irtest.Context()
	fse := overloadSet("f", unary(ir.Int32Type(ir.Uniform)), unary(ir.FloatType(ir.Uniform)))
	if typ := ir.TypeOf(ctx, fse); typ != nil {
		t.Fatalf("got type %v for an unresolved overload set", typ)
	}
	errorContaining(t, ctx, `Ambiguous use of overloaded function "f".`)
}
