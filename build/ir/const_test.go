package ir_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ospc-org/ospc/build/diag"
	"github.com/ospc-org/ospc/build/ir"
	"github.com/ospc-org/ospc/build/ir/irtest"
)

// intVal returns a uniform int32 constant.
func intVal(ctx *ir.CompileContext, v int) *ir.ConstExpr {
	return ir.NewConst(ctx, ir.Int32Type(ir.Uniform), irtest.Pos(1), v)
}

// varyingInts returns a varying int32 constant with one value per lane.
func varyingInts(ctx *ir.CompileContext, vals ...int) *ir.ConstExpr {
	return ir.NewConst(ctx, ir.Int32Type(ir.Varying), irtest.Pos(1), vals...)
}

// floatVal returns a uniform float constant.
func floatVal(ctx *ir.CompileContext, v float64) *ir.ConstExpr {
	return ir.NewConst(ctx, ir.FloatType(ir.Uniform), irtest.Pos(1), v)
}

// boolVal returns a uniform bool constant.
func boolVal(ctx *ir.CompileContext, v bool) *ir.ConstExpr {
	return ir.NewBoolConst(ctx, ir.BoolType(ir.Uniform), irtest.Pos(1), v)
}

// variable declares a symbol with backing storage and returns an
// expression reading it.
func variable(name string, typ ir.Type) *ir.SymbolExpr {
	sym := ir.NewSymbol(name, irtest.Pos(1), typ)
	sym.Storage = irtest.Val("@" + name)
	return ir.NewSymbolExpr(sym, irtest.Pos(1))
}

// errorContaining fails unless an error diagnostic contains want.
func errorContaining(t *testing.T, ctx *ir.CompileContext, want string) {
	t.Helper()
	diagContaining(t, ctx, diag.Error, want)
}

// warningContaining fails unless a warning diagnostic contains want.
func warningContaining(t *testing.T, ctx *ir.CompileContext, want string) {
	t.Helper()
	diagContaining(t, ctx, diag.Warning, want)
}

// perfWarningContaining fails unless a performance warning contains
// want.
func perfWarningContaining(t *testing.T, ctx *ir.CompileContext, want string) {
	t.Helper()
	diagContaining(t, ctx, diag.PerfWarning, want)
}

func diagContaining(t *testing.T, ctx *ir.CompileContext, sev diag.Severity, want string) {
	t.Helper()
	bag := irtest.Bag(ctx)
	for _, d := range bag.Diagnostics() {
		if d.Severity() == sev && strings.Contains(d.Err().Error(), want) {
			return
		}
	}
	t.Errorf("no %s containing %q; diagnostics:\n%s", sev, want, bag.String())
}

// noDiags fails if anything was reported.
func noDiags(t *testing.T, ctx *ir.CompileContext) {
	t.Helper()
	if bag := irtest.Bag(ctx); !bag.Empty() {
		t.Errorf("unexpected diagnostics:\n%s", bag.String())
	}
}

func TestConstLaneCount(t *testing.T) {
	ctx := irtest.Context()
	if got := intVal(ctx, 5).Count(); got != 1 {
		t.Errorf("uniform constant has %d lanes but want 1", got)
	}
	wide := ir.NewConst(ctx, ir.Int32Type(ir.Varying), irtest.Pos(1), 5)
	if got := wide.Count(); got != ctx.Target.VectorWidth {
		t.Errorf("varying constant has %d lanes but want %d", got, ctx.Target.VectorWidth)
	}
	perLane := varyingInts(ctx, 1, 2, 3, 4)
	if diff := cmp.Diff([]int32{1, 2, 3, 4}, perLane.AsInt32(ctx, false)); diff != "" {
		t.Errorf("unexpected lanes (-want +got):\n%s", diff)
	}
}

func TestConstAccessorsConvert(t *testing.T) {
	ctx := irtest.Context()
	c := intVal(ctx, 5)
	if diff := cmp.Diff([]float32{5}, c.AsFloat(ctx, false)); diff != "" {
		t.Errorf("unexpected float lanes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{5, 5, 5, 5}, c.AsDouble(ctx, true)); diff != "" {
		t.Errorf("unexpected forced-varying double lanes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true}, c.AsBool(ctx, false)); diff != "" {
		t.Errorf("unexpected bool lanes (-want +got):\n%s", diff)
	}
	neg := ir.NewConst(ctx, ir.Int32Type(ir.Uniform), irtest.Pos(1), -1)
	if diff := cmp.Diff([]uint32{0xffffffff}, neg.AsUint32(ctx, false)); diff != "" {
		t.Errorf("unexpected uint32 lanes (-want +got):\n%s", diff)
	}
}

func TestConstNormalizesToKindWidth(t *testing.T) {
	ctx := irtest.Context()
	c := ir.NewConst(ctx, ir.Uint8Type(ir.Uniform), irtest.Pos(1), 300)
	if diff := cmp.Diff([]uint8{44}, c.AsUint8(ctx, false)); diff != "" {
		t.Errorf("unexpected uint8 lanes (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int32{44}, c.AsInt32(ctx, false)); diff != "" {
		t.Errorf("stored value was not truncated to the uint8 width (-want +got):\n%s", diff)
	}
	s := ir.NewConst(ctx, ir.Int8Type(ir.Uniform), irtest.Pos(1), 200)
	if diff := cmp.Diff([]int32{-56}, s.AsInt32(ctx, false)); diff != "" {
		t.Errorf("unexpected int8 wraparound (-want +got):\n%s", diff)
	}
}

func TestConstNonScalarPanics(t *testing.T) {
	ctx := irtest.Context()
	defer func() {
		if recover() == nil {
			t.Errorf("no panic for a constant of pointer type")
		}
	}()
	ir.NewConst(ctx, ir.NewPointerType(ir.Uniform, ir.FloatType(ir.Uniform)), irtest.Pos(1), 0)
}

func TestIsConstZero(t *testing.T) {
	ctx := irtest.Context()
	tests := []struct {
		name string
		expr ir.Expr
		want bool
	}{
		{name: "zero", expr: intVal(ctx, 0), want: true},
		{name: "nonzero", expr: intVal(ctx, 3), want: false},
		{name: "varying zero", expr: ir.NewConst(ctx, ir.Int32Type(ir.Varying), irtest.Pos(1), 0), want: true},
		{name: "mixed lanes", expr: varyingInts(ctx, 0, 0, 1, 0), want: false},
		{name: "float zero", expr: floatVal(ctx, 0), want: false},
		{name: "bool", expr: boolVal(ctx, false), want: false},
		{name: "not a constant", expr: variable("x", ir.Int32Type(ir.Uniform)), want: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ir.IsConstZero(test.expr); got != test.want {
				t.Errorf("got %v but want %v", got, test.want)
			}
		})
	}
}

func TestConstValueEmission(t *testing.T) {
	ctx := irtest.Context()
	em := irtest.NewRecorder(ctx)
	c := intVal(ctx, 7)
	v := c.Value(em)
	if v == nil {
		t.Fatalf("constant has no value")
	}
	if got := c.Cost(ctx); got != 0 {
		t.Errorf("got cost %d but want 0", got)
	}
}

func TestConstantProviderConverts(t *testing.T) {
	ctx := irtest.Context()
	em := irtest.NewRecorder(ctx)
	c := intVal(ctx, 5)
	v, ok := ir.ConstantOf(em, c, ir.FloatType(ir.Varying))
	if !ok || v == nil {
		t.Fatalf("uniform int constant does not materialize as varying float")
	}
	wide := ir.NewConst(ctx, ir.Int32Type(ir.Varying), irtest.Pos(1), 1, 2, 3, 4)
	if _, ok := ir.ConstantOf(em, wide, ir.Int32Type(ir.Uniform)); ok {
		t.Errorf("varying constant materialized as uniform")
	}
}
