package ir_test

import (
	"testing"

	"github.com/ospc-org/ospc/build/ir"
	"github.com/ospc-org/ospc/build/ir/irtest"
)

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		typ  ir.Type
		want string
	}{
		{ir.Int32Type(ir.Uniform), "uniform int32"},
		{ir.Uint32Type(ir.Varying), "varying unsigned int32"},
		{ir.FloatType(ir.Varying).AsConst(), "const varying float"},
		{ir.VoidType(), "void"},
		{ir.NewPointerType(ir.Uniform, ir.FloatType(ir.Varying)), "varying float * uniform"},
		{ir.NewPointerType(ir.Varying, ir.Int32Type(ir.Uniform)).AsConst(), "uniform int32 * const varying"},
		{ir.VoidPointerType(ir.Uniform), "void * uniform"},
		{ir.NewReferenceType(ir.Int32Type(ir.Uniform)), "uniform int32 &"},
		{ir.NewArrayType(ir.FloatType(ir.Uniform), 10), "uniform float[10]"},
		{ir.NewArrayType(ir.FloatType(ir.Uniform), 0), "uniform float[]"},
		{ir.NewVectorType(ir.FloatType(ir.Uniform), 3), "uniform float<3>"},
		{sphereType(), "uniform struct Sphere"},
		{sphereType().AsVarying().AsConst(), "const varying struct Sphere"},
		{ir.NewEnumType("Color", irtest.Pos(1)), "uniform enum Color"},
		{ir.NewFunctionType(ir.VoidType(), []ir.Param{{Name: "n", Type: ir.Int32Type(ir.Uniform)}}, true), "task void(uniform int32)"},
		{ir.NewFunctionType(ir.FloatType(ir.Varying), nil, false), "varying float()"},
	}
	for _, test := range tests {
		if got := test.typ.String(); got != test.want {
			t.Errorf("got %q but want %q", got, test.want)
		}
	}
}

func TestAtomicTypesAreCanonical(t *testing.T) {
	if got := ir.Int32Type(ir.Uniform).AsVarying(); got != ir.Type(ir.Int32Type(ir.Varying)) {
		t.Errorf("AsVarying returned a fresh instance: %p", got)
	}
	base := ir.FloatType(ir.Varying)
	if got := base.AsConst().AsNonConst(); got != ir.Type(base) {
		t.Errorf("const round trip returned a fresh instance: %p", got)
	}
	if got := ir.VoidType().AsVarying(); got != ir.Type(ir.VoidType()) {
		t.Errorf("void gained a varying version: %v", got)
	}
}

func TestReferenceQualifiersComeFromTarget(t *testing.T) {
	rt := ir.NewReferenceType(ir.Int32Type(ir.Varying))
	if got := rt.Variability(); got != ir.Varying {
		t.Errorf("got variability %v but want varying", got)
	}
	ct := ir.NewReferenceType(ir.Int32Type(ir.Uniform).AsConst())
	if !ct.IsConst() {
		t.Errorf("reference to const target is not const")
	}
	if got := ir.NewReferenceType(rt); got != rt {
		t.Errorf("reference of reference did not collapse: %v", got)
	}
}

func TestQualifierConversionsPreserveIdentityWhenNoop(t *testing.T) {
	st := sphereType()
	if got := st.AsUniform(); got != ir.Type(st) {
		t.Errorf("AsUniform of a uniform struct returned a fresh instance")
	}
	vst := st.AsVarying()
	if got := vst.Variability(); got != ir.Varying {
		t.Errorf("got variability %v but want varying", got)
	}
	if got := st.Variability(); got != ir.Uniform {
		t.Errorf("AsVarying mutated the original struct type")
	}
	ft := ir.NewFunctionType(ir.VoidType(), nil, false)
	if got := ft.AsVarying(); got != ir.Type(ft) {
		t.Errorf("function type gained a varying version")
	}
}

func TestConstStructQualifiesItsFields(t *testing.T) {
	st := sphereType().AsConst().(*ir.StructType)
	want := ir.FloatType(ir.Uniform).AsConst()
	if got := st.FieldType(0); !ir.EqualTypes(got, want) {
		t.Errorf("got field type %v but want %v", got, want)
	}
	// The declared field itself stays as written.
	if got := st.Field(0).Type; !ir.EqualTypes(got, ir.FloatType(ir.Uniform)) {
		t.Errorf("declared field type changed to %v", got)
	}
}

func TestEqualTypes(t *testing.T) {
	boxType := func() *ir.StructType {
		st := sphereType()
		fields := make([]ir.StructField, st.NumFields())
		for i := range fields {
			fields[i] = st.Field(i)
		}
		return ir.NewStructType("Box", fields, irtest.Pos(1))
	}
	tests := []struct {
		name string
		a, b ir.Type
		want bool
	}{
		{"same atomic", ir.Int32Type(ir.Uniform), ir.Int32Type(ir.Uniform), true},
		{"const differs", ir.Int32Type(ir.Uniform), ir.Int32Type(ir.Uniform).AsConst(), false},
		{"sign differs", ir.Int32Type(ir.Uniform), ir.Uint32Type(ir.Uniform), false},
		{
			"same pointer",
			ir.NewPointerType(ir.Uniform, ir.FloatType(ir.Uniform)),
			ir.NewPointerType(ir.Uniform, ir.FloatType(ir.Uniform)),
			true,
		},
		{
			"pointer variability differs",
			ir.NewPointerType(ir.Uniform, ir.FloatType(ir.Uniform)),
			ir.NewPointerType(ir.Varying, ir.FloatType(ir.Uniform)),
			false,
		},
		{
			"array lengths differ",
			ir.NewArrayType(ir.Int32Type(ir.Uniform), 4),
			ir.NewArrayType(ir.Int32Type(ir.Uniform), 8),
			false,
		},
		{"separately built structs", sphereType(), sphereType(), true},
		{"struct names differ", sphereType(), boxType(), false},
		{
			"same reference",
			ir.NewReferenceType(ir.Int32Type(ir.Uniform)),
			ir.NewReferenceType(ir.Int32Type(ir.Uniform)),
			true,
		},
		{"atomic against enum", ir.Uint32Type(ir.Uniform), ir.NewEnumType("Color", irtest.Pos(1)), false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := ir.EqualTypes(test.a, test.b); got != test.want {
				t.Errorf("got %v but want %v", got, test.want)
			}
		})
	}
}

func TestEqualIgnoringConst(t *testing.T) {
	i32 := ir.Int32Type(ir.Uniform)
	if !ir.EqualIgnoringConst(i32.AsConst(), i32) {
		t.Errorf("outer const qualifier not ignored")
	}
	pt := ir.NewPointerType(ir.Uniform, i32)
	if !ir.EqualIgnoringConst(pt.AsConst(), pt) {
		t.Errorf("const pointer qualifier not ignored")
	}
	// Only the outermost qualifier is dropped: a pointer to const is
	// still distinct from a pointer to non-const.
	cpt := ir.NewPointerType(ir.Uniform, i32.AsConst())
	if ir.EqualIgnoringConst(cpt, pt) {
		t.Errorf("pointee const qualifier was ignored")
	}
}

func TestTargetSizeTypes(t *testing.T) {
	ctx := irtest.Context()
	if got := ctx.SizeType(); !ir.EqualTypes(got, ir.Uint64Type(ir.Uniform)) {
		t.Errorf("got size type %v but want uniform unsigned int64", got)
	}
	if got := ctx.PtrDiffType(ir.Varying); !ir.EqualTypes(got, ir.Int64Type(ir.Varying)) {
		t.Errorf("got pointer difference type %v but want varying int64", got)
	}
	ctx32 := irtest.ContextWith(ir.OptFlags{Force32BitAddressing: true})
	if got := ctx32.SizeType(); !ir.EqualTypes(got, ir.Uint32Type(ir.Uniform)) {
		t.Errorf("got size type %v but want uniform unsigned int32", got)
	}
	if got := ctx32.PtrDiffType(ir.Uniform); !ir.EqualTypes(got, ir.Int32Type(ir.Uniform)) {
		t.Errorf("got pointer difference type %v but want uniform int32", got)
	}
}
