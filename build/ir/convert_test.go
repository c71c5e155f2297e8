package ir_test

import (
	"testing"

	"github.com/ospc-org/ospc/build/ir"
	"github.com/ospc-org/ospc/build/ir/irtest"
)

func TestConvertIdentityPassesThrough(t *testing.T) {
	ctx := irtest.Context()
	x := variable("x", ir.Int32Type(ir.Uniform))
	out := ir.ConvertExpr(ctx, x, ir.Int32Type(ir.Uniform), "assignment")
	if out != ir.Expr(x) {
		t.Errorf("identity conversion rebuilt the expression: got %T", out)
	}
	noDiags(t, ctx)
}

func TestConvertNumericKinds(t *testing.T) {
	tests := []struct {
		name string
		from ir.Type
		to   ir.Type
	}{
		{name: "int to float", from: ir.Int32Type(ir.Uniform), to: ir.FloatType(ir.Uniform)},
		{name: "float to int", from: ir.FloatType(ir.Uniform), to: ir.Int32Type(ir.Uniform)},
		{name: "bool to int", from: ir.BoolType(ir.Uniform), to: ir.Int32Type(ir.Uniform)},
		{name: "double to int8", from: ir.DoubleType(ir.Uniform), to: ir.Int8Type(ir.Uniform)},
		{name: "uniform to varying", from: ir.Int32Type(ir.Uniform), to: ir.Int32Type(ir.Varying)},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := irtest.Context()
			out := ir.ConvertExpr(ctx, variable("x", test.from), test.to, "assignment")
			if out == nil {
				t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
			}
			noDiags(t, ctx)
			if got := ir.TypeOf(ctx, out); !ir.EqualTypes(got, test.to) {
				t.Errorf("got type %v but want %v", got, test.to)
			}
		})
	}
}

func TestConvertVaryingToUniformFails(t *testing.T) {
	ctx := irtest.Context()
	x := variable("x", ir.Int32Type(ir.Varying))
	if out := ir.ConvertExpr(ctx, x, ir.Int32Type(ir.Uniform), "assignment"); out != nil {
		t.Fatalf("narrowing to uniform passed")
	}
	errorContaining(t, ctx, "Can't convert from varying type")
	errorContaining(t, ctx, "for assignment.")
}

func TestConvertZeroLiteralToPointer(t *testing.T) {
	pt := ir.NewPointerType(ir.Uniform, ir.Int32Type(ir.Uniform))
	t.Run("zero becomes null", func(t *testing.T) {
		ctx := irtest.Context()
		out := ir.ConvertExpr(ctx, intVal(ctx, 0), pt, "assignment")
		if out == nil {
			t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
		}
		if _, ok := out.(*ir.NullPointerExpr); !ok {
			t.Errorf("got %T but want *ir.NullPointerExpr", out)
		}
	})
	t.Run("nonzero does not", func(t *testing.T) {
		ctx := irtest.Context()
		if out := ir.ConvertExpr(ctx, intVal(ctx, 7), pt, "assignment"); out != nil {
			t.Fatalf("integer to pointer conversion passed")
		}
		errorContaining(t, ctx, "use an explicit cast")
	})
}

func TestConvertArrayDecaysToPointer(t *testing.T) {
	at := ir.NewArrayType(ir.FloatType(ir.Uniform), 4)
	t.Run("matching element type", func(t *testing.T) {
		ctx := irtest.Context()
		pt := ir.NewPointerType(ir.Uniform, ir.FloatType(ir.Uniform))
		out := ir.ConvertExpr(ctx, variable("a", at), pt, "function call argument")
		if out == nil {
			t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
		}
		noDiags(t, ctx)
		if got := ir.TypeOf(ctx, out); !ir.EqualTypes(got, pt) {
			t.Errorf("got type %v but want %v", got, pt)
		}
	})
	t.Run("mismatched element type", func(t *testing.T) {
		ctx := irtest.Context()
		pt := ir.NewPointerType(ir.Uniform, ir.Int32Type(ir.Uniform))
		if out := ir.ConvertExpr(ctx, variable("a", at), pt, "function call argument"); out != nil {
			t.Fatalf("conversion to an incompatible pointer passed")
		}
		errorContaining(t, ctx, "Can't convert between incompatible pointer types")
	})
}

func TestConvertArrayLengths(t *testing.T) {
	from := ir.NewArrayType(ir.FloatType(ir.Uniform), 4)
	t.Run("length change warns", func(t *testing.T) {
		ctx := irtest.Context()
		to := ir.NewArrayType(ir.FloatType(ir.Uniform), 8)
		out := ir.ConvertExpr(ctx, variable("a", from), to, "assignment")
		if out == nil {
			t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
		}
		warningContaining(t, ctx, "Type-converting array of length 4 to length 8.")
	})
	t.Run("unsized target is quiet", func(t *testing.T) {
		ctx := irtest.Context()
		to := ir.NewArrayType(ir.FloatType(ir.Uniform), 0)
		out := ir.ConvertExpr(ctx, variable("a", from), to, "assignment")
		if out == nil {
			t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
		}
		noDiags(t, ctx)
	})
	t.Run("element mismatch fails", func(t *testing.T) {
		ctx := irtest.Context()
		to := ir.NewArrayType(ir.Int32Type(ir.Uniform), 4)
		if out := ir.ConvertExpr(ctx, variable("a", from), to, "assignment"); out != nil {
			t.Fatalf("conversion between incompatible arrays passed")
		}
		errorContaining(t, ctx, "Can't convert between incompatible array types")
	})
}

func TestConvertBindsReference(t *testing.T) {
	rt := ir.NewReferenceType(ir.Int32Type(ir.Uniform))
	t.Run("lvalue binds", func(t *testing.T) {
		ctx := irtest.Context()
		out := ir.ConvertExpr(ctx, variable("x", ir.Int32Type(ir.Uniform)), rt, "function call argument")
		if out == nil {
			t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
		}
		if _, ok := out.(*ir.ReferenceExpr); !ok {
			t.Errorf("got %T but want *ir.ReferenceExpr", out)
		}
	})
	t.Run("constant does not", func(t *testing.T) {
		ctx := irtest.Context()
		if out := ir.ConvertExpr(ctx, intVal(ctx, 3), rt, "function call argument"); out != nil {
			t.Fatalf("binding a reference to a constant passed")
		}
		errorContaining(t, ctx, "Unable to bind reference to non-lvalue expression of type")
	})
}

func TestConvertReadsThroughReference(t *testing.T) {
	ctx := irtest.Context()
	rt := ir.NewReferenceType(ir.Int32Type(ir.Uniform))
	out := ir.ConvertExpr(ctx, variable("r", rt), ir.FloatType(ir.Uniform), "assignment")
	if out == nil {
		t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
	}
	if got, want := ir.TypeOf(ctx, out), ir.FloatType(ir.Uniform); !ir.EqualTypes(got, want) {
		t.Errorf("got type %v but want %v", got, want)
	}
}

func TestConvertBetweenReferences(t *testing.T) {
	t.Run("target gains const", func(t *testing.T) {
		ctx := irtest.Context()
		from := ir.NewReferenceType(ir.Int32Type(ir.Uniform))
		to := ir.NewReferenceType(ir.Int32Type(ir.Uniform).AsConst())
		if out := ir.ConvertExpr(ctx, variable("r", from), to, "function call argument"); out == nil {
			t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
		}
		noDiags(t, ctx)
	})
	t.Run("incompatible targets fail", func(t *testing.T) {
		ctx := irtest.Context()
		from := ir.NewReferenceType(ir.Int32Type(ir.Uniform))
		to := ir.NewReferenceType(ir.FloatType(ir.Uniform))
		if out := ir.ConvertExpr(ctx, variable("r", from), to, "function call argument"); out != nil {
			t.Fatalf("conversion between incompatible references passed")
		}
		errorContaining(t, ctx, "Can't convert between incompatible reference types")
	})
}

func TestConvertPointers(t *testing.T) {
	elem := ir.Int32Type(ir.Uniform)
	tests := []struct {
		name string
		from ir.Type
		to   ir.Type
		want string // error fragment, empty for success
	}{
		{
			name: "uniform to varying",
			from: ir.NewPointerType(ir.Uniform, elem),
			to:   ir.NewPointerType(ir.Varying, elem),
		},
		{
			name: "adding const to the target",
			from: ir.NewPointerType(ir.Uniform, elem),
			to:   ir.NewPointerType(ir.Uniform, elem.AsConst()),
		},
		{
			name: "void pointer to typed",
			from: ir.VoidPointerType(ir.Uniform),
			to:   ir.NewPointerType(ir.Uniform, elem),
		},
		{
			name: "typed to void pointer",
			from: ir.NewPointerType(ir.Uniform, elem),
			to:   ir.VoidPointerType(ir.Uniform),
		},
		{
			name: "dropping const from the target",
			from: ir.NewPointerType(ir.Uniform, elem.AsConst()),
			to:   ir.NewPointerType(ir.Uniform, elem),
			want: "Can't convert from pointer to const type",
		},
		{
			name: "incompatible targets",
			from: ir.NewPointerType(ir.Uniform, elem),
			to:   ir.NewPointerType(ir.Uniform, ir.FloatType(ir.Uniform)),
			want: "Can't convert between incompatible pointer types",
		},
		{
			name: "pointer to integer",
			from: ir.NewPointerType(ir.Uniform, elem),
			to:   ir.Int64Type(ir.Uniform),
			want: "Can't convert pointer type",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx := irtest.Context()
			out := ir.ConvertExpr(ctx, variable("p", test.from), test.to, "assignment")
			if test.want == "" {
				if out == nil {
					t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
				}
				noDiags(t, ctx)
				return
			}
			if out != nil {
				t.Fatalf("conversion passed but want an error containing %q", test.want)
			}
			errorContaining(t, ctx, test.want)
		})
	}
}

func TestConvertStructs(t *testing.T) {
	t.Run("uniform to varying", func(t *testing.T) {
		ctx := irtest.Context()
		st := sphereType()
		out := ir.ConvertExpr(ctx, variable("s", st), st.AsVarying(), "assignment")
		if out == nil {
			t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
		}
		noDiags(t, ctx)
	})
	t.Run("different shapes fail", func(t *testing.T) {
		ctx := irtest.Context()
		other := ir.NewStructType("Box", []ir.StructField{
			{Name: "extent", Type: ir.Int32Type(ir.Uniform), Pos: irtest.Pos(1)},
		}, irtest.Pos(1))
		if out := ir.ConvertExpr(ctx, variable("s", sphereType()), other, "assignment"); out != nil {
			t.Fatalf("conversion between unrelated structs passed")
		}
		errorContaining(t, ctx, "Can't convert between incompatible struct types")
	})
	t.Run("struct to scalar fails", func(t *testing.T) {
		ctx := irtest.Context()
		if out := ir.ConvertExpr(ctx, variable("s", sphereType()), ir.Int32Type(ir.Uniform), "assignment"); out != nil {
			t.Fatalf("struct to scalar conversion passed")
		}
		errorContaining(t, ctx, "Can't convert struct type")
	})
}

func TestConvertVectors(t *testing.T) {
	t.Run("same length converts elements", func(t *testing.T) {
		ctx := irtest.Context()
		from := ir.NewVectorType(ir.Int32Type(ir.Uniform), 2)
		to := ir.NewVectorType(ir.FloatType(ir.Uniform), 2)
		if out := ir.ConvertExpr(ctx, variable("v", from), to, "assignment"); out == nil {
			t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
		}
		noDiags(t, ctx)
	})
	t.Run("length mismatch fails", func(t *testing.T) {
		ctx := irtest.Context()
		from := ir.NewVectorType(ir.FloatType(ir.Uniform), 2)
		to := ir.NewVectorType(ir.FloatType(ir.Uniform), 3)
		if out := ir.ConvertExpr(ctx, variable("v", from), to, "assignment"); out != nil {
			t.Fatalf("conversion between different vector sizes passed")
		}
		errorContaining(t, ctx, "Can't convert between differently sized vector types")
	})
	t.Run("scalar broadcasts", func(t *testing.T) {
		ctx := irtest.Context()
		to := ir.NewVectorType(ir.FloatType(ir.Uniform), 3)
		out := ir.ConvertExpr(ctx, variable("x", ir.Int32Type(ir.Uniform)), to, "assignment")
		if out == nil {
			t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
		}
		if got := ir.TypeOf(ctx, out); !ir.EqualTypes(got, to) {
			t.Errorf("got type %v but want %v", got, to)
		}
	})
}

func TestConvertEnums(t *testing.T) {
	et := ir.NewEnumType("Color", irtest.Pos(1))
	t.Run("enum to numeric", func(t *testing.T) {
		ctx := irtest.Context()
		if out := ir.ConvertExpr(ctx, variable("c", et), ir.Int32Type(ir.Uniform), "assignment"); out == nil {
			t.Fatalf("conversion failed:\n%s", irtest.Bag(ctx).String())
		}
		noDiags(t, ctx)
	})
	t.Run("numeric to enum needs a cast", func(t *testing.T) {
		ctx := irtest.Context()
		if out := ir.ConvertExpr(ctx, variable("x", ir.Int32Type(ir.Uniform)), et, "assignment"); out != nil {
			t.Fatalf("implicit conversion to enum passed")
		}
		errorContaining(t, ctx, "to enum type")
		errorContaining(t, ctx, "use an explicit cast")
	})
}

func TestCanConvertProbesSilently(t *testing.T) {
	ctx := irtest.Context()
	if !ir.CanConvert(ctx, ir.Int32Type(ir.Uniform), ir.FloatType(ir.Varying)) {
		t.Errorf("int32 should convert to varying float")
	}
	if ir.CanConvert(ctx, ir.Int32Type(ir.Varying), ir.Int32Type(ir.Uniform)) {
		t.Errorf("varying must not convert to uniform")
	}
	if ir.CanConvert(ctx, ir.VoidType(), ir.Int32Type(ir.Uniform)) {
		t.Errorf("void must not convert to int32")
	}
	noDiags(t, ctx)
}
