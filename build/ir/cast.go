// Copyright 2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir

import (
	"go/token"

	"github.com/ospc-org/ospc/build/ir/irkind"
	"github.com/ospc-org/ospc/build/source"
)

// TypeCastExpr converts its operand to the target type. Explicit
// casts accept everything the conversion lattice accepts plus the
// reinterpreting conversions: pointer to pointer regardless of the
// pointed-to types, pointer to integer and back, and scalar to enum.
// Varying values still never narrow to uniform.
type TypeCastExpr struct {
	exprBase
	To Type
	X  Expr
}

var (
	_ Expr             = (*TypeCastExpr)(nil)
	_ ConstantProvider = (*TypeCastExpr)(nil)
)

func atomicOrEnum(t Type) bool {
	switch t.(type) {
	case *AtomicType, *EnumType:
		return true
	}
	return false
}

// warnSlowConversion flags varying conversions that cross between
// unsigned integers and floating point, which most targets emulate.
func warnSlowConversion(ctx *CompileContext, from, to Type, pos source.Pos) {
	if !IsVaryingType(from) && !IsVaryingType(to) {
		return
	}
	fk, tk := from.Kind(), to.Kind()
	if irkind.IsUnsigned(fk) && irkind.IsFloat(tk) {
		ctx.PerfWarningf(pos, "Conversion from unsigned int to float is slow. Use \"int\" if possible.")
	}
	if irkind.IsFloat(fk) && irkind.IsUnsigned(tk) {
		ctx.PerfWarningf(pos, "Conversion from float to unsigned int is slow. Use \"int\" if possible.")
	}
}

// Type returns the target type.
func (n *TypeCastExpr) Type(ctx *CompileContext) Type { return n.To }

// TypeCheck validates the cast.
func (n *TypeCastExpr) TypeCheck(ctx *CompileContext) Expr {
	x := TypeCheckExpr(ctx, n.X)
	if x == nil || n.To == nil {
		return nil
	}
	from := TypeOf(ctx, x)
	if from == nil {
		return nil
	}
	to := n.To

	// Casting a reference to a non-reference reads through it first.
	if _, ok := from.(*ReferenceType); ok {
		if _, toRef := to.(*ReferenceType); !toRef {
			if x = derefReference(ctx, x); x == nil {
				return nil
			}
			if from = TypeOf(ctx, x); from == nil {
				return nil
			}
		}
	}

	// Casting an array to a pointer decays it first.
	if _, ok := from.(*ArrayType); ok {
		if _, toPtr := to.(*PointerType); toPtr {
			e := x
			if !decayArray(ctx, &e) {
				return nil
			}
			x = e
			if from = TypeOf(ctx, x); from == nil {
				return nil
			}
		}
	}

	if IsVaryingType(from) && IsUniformType(to) {
		ctx.Errorf(n.pos, "Can't convert from varying type %q to uniform type %q with typecast expression.", from, to)
		return nil
	}

	done := func() Expr { return &TypeCastExpr{exprBase: n.exprBase, To: to, X: x} }

	fp, fromPtr := from.(*PointerType)
	_, toPtr := to.(*PointerType)
	switch {
	case fromPtr && toPtr:
		return done()
	case fromPtr:
		if at, ok := to.(*AtomicType); ok {
			k := at.Kind()
			if k == irkind.Bool {
				return done()
			}
			if irkind.IsInteger(k) {
				ptrBits := 64
				if ctx.Target.Is32Bit {
					ptrBits = 32
				}
				if irkind.BitSize(k) < ptrBits {
					ctx.Warningf(n.pos, "Conversion from pointer type %q to integer type %q may lose information.", fp, to)
				}
				return done()
			}
		}
	case toPtr:
		if k := from.Kind(); irkind.IsInteger(k) || k == irkind.Enum {
			return done()
		}
	}

	if atomicOrEnum(from) && atomicOrEnum(to) {
		warnSlowConversion(ctx, from, to, n.pos)
		return done()
	}
	if CanConvert(ctx, from, to) {
		return done()
	}
	ctx.Errorf(n.pos, "Can't type cast from type %q to type %q.", from, to)
	return nil
}

// Optimize folds casts of constants.
func (n *TypeCastExpr) Optimize(ctx *CompileContext) Expr {
	x := OptimizeExpr(ctx, n.X)
	if x == nil {
		return nil
	}
	if c, ok := x.(*ConstExpr); ok {
		if folded := convertConst(ctx, c, n.To, n.pos); folded != nil {
			return folded
		}
	}
	return &TypeCastExpr{exprBase: n.exprBase, To: n.To, X: x}
}

// Cost distinguishes the conversions that lower to a handful of
// instructions from the ones that do not.
func (n *TypeCastExpr) Cost(ctx *CompileContext) int {
	from := TypeOf(ctx, n.X)
	to := n.To
	if from == nil || to == nil {
		return CostTypecastSimple
	}
	if _, ok := from.(*VectorType); ok {
		return CostTypecastComplex
	}
	if _, ok := to.(*VectorType); ok {
		return CostTypecastComplex
	}
	if (IsVaryingType(from) || IsVaryingType(to)) && atomicOrEnum(from) && atomicOrEnum(to) {
		fk, tk := from.Kind(), to.Kind()
		if irkind.IsUnsigned(fk) && irkind.IsFloat(tk) {
			return CostTypecastComplex
		}
		if irkind.IsFloat(fk) && irkind.IsUnsigned(tk) {
			return CostTypecastComplex
		}
	}
	return CostTypecastSimple
}

// BaseSymbol returns the symbol of the operand.
func (n *TypeCastExpr) BaseSymbol() *Symbol { return n.X.BaseSymbol() }

// Constant forwards to the operand, so that cast-wrapped initializers
// still emit as constants.
func (n *TypeCastExpr) Constant(em EmitContext, typ Type) (Value, bool) {
	return ConstantOf(em, n.X, typ)
}

// Value emits the conversion.
func (n *TypeCastExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	ctx := em.Compile()
	from := TypeOf(ctx, n.X)
	to := n.To
	v := n.X.Value(em)
	if v == nil || from == nil || to == nil {
		return nil
	}
	if EqualTypes(from, to) {
		return v
	}

	fp, fromPtr := from.(*PointerType)
	tp, toPtr := to.(*PointerType)
	switch {
	case fromPtr && toPtr:
		if !EqualIgnoringConst(fp.Elem(), tp.Elem()) {
			v = em.BitCast(v, to)
		}
		if IsUniformType(fp) && IsVaryingType(tp) {
			v = em.Smear(v, "ptr_smear")
		}
		return v
	case fromPtrToBool(from, to):
		b := em.BinaryOp(token.NEQ, v, em.NullPtr(from), "ptr_to_bool")
		if IsUniformType(from) && IsVaryingType(to) {
			b = em.Smear(b, "bool_smear")
		}
		return b
	case fromPtr:
		return em.PtrToInt(v, to)
	case toPtr:
		return em.IntToPtr(v, to)
	}

	if tv, ok := to.(*VectorType); ok {
		if fv, ok := from.(*VectorType); ok {
			res := em.Undef(to)
			for i := 0; i < tv.Len(); i++ {
				elt := em.Extract(v, i, "cast_elt")
				elt = em.Convert(elt, fv.Elem(), tv.Elem())
				res = em.Insert(res, i, elt, "cast_vec")
			}
			return res
		}
		elt := em.Convert(v, from, tv.Elem())
		res := em.Undef(to)
		for i := 0; i < tv.Len(); i++ {
			res = em.Insert(res, i, elt, "cast_vec")
		}
		return res
	}
	return em.Convert(v, from, to)
}

func fromPtrToBool(from, to Type) bool {
	if _, ok := from.(*PointerType); !ok {
		return false
	}
	return to.Kind() == irkind.Bool
}
