package ir_test

import (
	"go/token"
	"testing"

	"github.com/ospc-org/ospc/build/ir"
	"github.com/ospc-org/ospc/build/ir/irtest"
)

func countCasts(e ir.Expr) int {
	n := 0
	ir.Walk(e, func(x ir.Expr) bool {
		if _, ok := x.(*ir.TypeCastExpr); ok {
			n++
		}
		return true
	})
	return n
}

func TestTypeCheckIsIdempotent(t *testing.T) {
	ctx := irtest.Context()
	e := &ir.BinaryExpr{
		Op: token.ADD,
		X:  intVal(ctx, 2),
		Y:  variable("y", ir.FloatType(ir.Uniform)),
	}
	once := ir.TypeCheckExpr(ctx, e)
	if once == nil {
		t.Fatalf("type check failed:\n%s", irtest.Bag(ctx).String())
	}
	twice := ir.TypeCheckExpr(ctx, once)
	if twice == nil {
		t.Fatalf("second type check failed:\n%s", irtest.Bag(ctx).String())
	}
	if got, want := ir.TypeOf(ctx, twice), ir.TypeOf(ctx, once); !ir.EqualTypes(got, want) {
		t.Errorf("got type %v but want %v", got, want)
	}
	// Conversions already applied are not applied again.
	if got, want := countCasts(twice), countCasts(once); got != want {
		t.Errorf("got %d casts after rechecking but want %d", got, want)
	}
	noDiags(t, ctx)
}

func TestWalkStopsWhereAsked(t *testing.T) {
	ctx := irtest.Context()
	e := &ir.SelectExpr{
		Test:    variable("t", ir.BoolType(ir.Uniform)),
		OnTrue:  &ir.BinaryExpr{Op: token.ADD, X: intVal(ctx, 1), Y: intVal(ctx, 2)},
		OnFalse: intVal(ctx, 3),
	}
	var all int
	ir.Walk(e, func(ir.Expr) bool {
		all++
		return true
	})
	if all != 6 {
		t.Errorf("visited %d nodes but want 6", all)
	}
	var pruned int
	ir.Walk(e, func(x ir.Expr) bool {
		pruned++
		_, in := x.(*ir.BinaryExpr)
		return !in
	})
	// The two operands under the binary node are skipped.
	if pruned != 4 {
		t.Errorf("visited %d nodes but want 4", pruned)
	}
}

func TestTotalCost(t *testing.T) {
	ctx := irtest.Context()
	pt := ir.NewPointerType(ir.Uniform, ir.Int32Type(ir.Uniform))
	e := ir.TypeCheckExpr(ctx, &ir.BinaryExpr{
		Op: token.ADD,
		X:  &ir.DereferenceExpr{X: variable("p", pt)},
		Y:  intVal(ctx, 1),
	})
	if e == nil {
		t.Fatalf("type check failed:\n%s", irtest.Bag(ctx).String())
	}
	if got, want := ir.TotalCost(ctx, e), ir.CostDeref+ir.CostSimpleArith; got != want {
		t.Errorf("got total cost %d but want %d", got, want)
	}
}

func TestHelpersTolerateNil(t *testing.T) {
	ctx := irtest.Context()
	if got := ir.TypeCheckExpr(ctx, nil); got != nil {
		t.Errorf("TypeCheckExpr(nil) = %v", got)
	}
	if got := ir.OptimizeExpr(ctx, nil); got != nil {
		t.Errorf("OptimizeExpr(nil) = %v", got)
	}
	if got := ir.TypeOf(ctx, nil); got != nil {
		t.Errorf("TypeOf(nil) = %v", got)
	}
	em := irtest.NewRecorder(ctx)
	if got := ir.LValueOf(em, intVal(ctx, 1)); got != nil {
		t.Errorf("LValueOf of a constant = %v", got)
	}
	if got := ir.LValueTypeOf(ctx, intVal(ctx, 1)); got != nil {
		t.Errorf("LValueTypeOf of a constant = %v", got)
	}
	if _, ok := ir.ConstantOf(em, variable("x", ir.Int32Type(ir.Uniform)), ir.Int32Type(ir.Uniform)); ok {
		t.Errorf("ConstantOf of a variable reported a constant")
	}
	noDiags(t, ctx)
}
