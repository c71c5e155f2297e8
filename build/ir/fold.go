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
	"github.com/ospc-org/ospc/build/ir/lanes"
	"github.com/ospc-org/ospc/build/source"
)

// Constant folding covers bool, int32, uint32, float and double
// operands. The other integer widths only arise through explicit
// casts and stay unfolded; convertConst handles every kind since a
// cast of a constant always folds.

func isComparisonOp(op token.Token) bool {
	switch op {
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return true
	}
	return false
}

func foldIntBinary[T lanes.Integer](ctx *CompileContext, op token.Token, xv, yv []T, resType Type, pos source.Pos) Expr {
	x := lanes.Make(xv)
	y := lanes.Make(yv)
	if isComparisonOp(op) {
		r, err := lanes.Compare(op, &x, &y)
		if err != nil {
			return nil
		}
		return NewBoolConst(ctx, resType, pos, r.Slice()...)
	}
	r, err := lanes.IntArith(op, &x, &y)
	if err != nil {
		// Division by zero or a negative shift: leave the
		// expression for the target to produce whatever it
		// produces.
		return nil
	}
	return NewConst(ctx, resType, pos, r.Slice()...)
}

func foldFloatBinary(ctx *CompileContext, op token.Token, xv, yv []float64, resType Type, pos source.Pos) Expr {
	x := lanes.Make(xv)
	y := lanes.Make(yv)
	if isComparisonOp(op) {
		r, err := lanes.Compare(op, &x, &y)
		if err != nil {
			return nil
		}
		return NewBoolConst(ctx, resType, pos, r.Slice()...)
	}
	r, err := lanes.FloatArith(op, &x, &y)
	if err != nil {
		return nil
	}
	return NewConst(ctx, resType, pos, r.Slice()...)
}

// foldBinary folds a binary operation over two constants, or returns
// nil when the operand kind or the operation is not folded.
// Comparisons yield a constant of resType, which must then be the
// matching bool type of the operands.
func foldBinary(ctx *CompileContext, op token.Token, x, y *ConstExpr, resType Type, pos source.Pos) Expr {
	if x.typ == nil || y.typ == nil || resType == nil {
		return nil
	}
	k := x.typ.Kind()
	if y.typ.Kind() != k {
		return nil
	}
	force := IsVaryingType(resType) || IsVaryingType(x.typ) || IsVaryingType(y.typ)
	switch k {
	case irkind.Int32:
		return foldIntBinary(ctx, op, x.AsInt32(ctx, force), y.AsInt32(ctx, force), resType, pos)
	case irkind.Uint32:
		return foldIntBinary(ctx, op, x.AsUint32(ctx, force), y.AsUint32(ctx, force), resType, pos)
	case irkind.Float, irkind.Double:
		return foldFloatBinary(ctx, op, x.AsDouble(ctx, force), y.AsDouble(ctx, force), resType, pos)
	case irkind.Bool:
		xv := lanes.Make(x.AsBool(ctx, force))
		yv := lanes.Make(y.AsBool(ctx, force))
		r, err := lanes.Logical(op, &xv, &yv)
		if err != nil {
			return nil
		}
		return NewBoolConst(ctx, resType, pos, r.Slice()...)
	}
	return nil
}

// foldUnary folds negation, logical not and bitwise complement over a
// constant, or returns nil when the operand kind is not folded.
func foldUnary(ctx *CompileContext, op UnaryOp, x *ConstExpr, resType Type, pos source.Pos) Expr {
	if x.typ == nil || resType == nil {
		return nil
	}
	force := IsVaryingType(resType)
	switch op {
	case UnaryNeg:
		switch x.typ.Kind() {
		case irkind.Int32:
			v := lanes.Make(x.AsInt32(ctx, force))
			r := lanes.Neg(&v)
			return NewConst(ctx, resType, pos, r.Slice()...)
		case irkind.Float, irkind.Double:
			v := lanes.Make(x.AsDouble(ctx, force))
			r := lanes.Neg(&v)
			return NewConst(ctx, resType, pos, r.Slice()...)
		}
	case UnaryLogicalNot:
		if x.typ.Kind() == irkind.Bool {
			v := lanes.Make(x.AsBool(ctx, force))
			r := lanes.Not(&v)
			return NewBoolConst(ctx, resType, pos, r.Slice()...)
		}
	case UnaryBitNot:
		switch x.typ.Kind() {
		case irkind.Int32:
			v := lanes.Make(x.AsInt32(ctx, force))
			r := lanes.BitNot(&v)
			return NewConst(ctx, resType, pos, r.Slice()...)
		case irkind.Uint32:
			v := lanes.Make(x.AsUint32(ctx, force))
			r := lanes.BitNot(&v)
			return NewConst(ctx, resType, pos, r.Slice()...)
		}
	}
	return nil
}

// convertConst returns the constant converted to an atomic or
// enumeration type, smearing to the gang width when the target is
// varying, or nil when the target cannot hold a constant.
func convertConst(ctx *CompileContext, c *ConstExpr, to Type, pos source.Pos) *ConstExpr {
	if to == nil || IsVaryingType(c.typ) && IsUniformType(to) {
		return nil
	}
	force := IsVaryingType(to)
	switch to.Kind() {
	case irkind.Bool:
		return NewBoolConst(ctx, to, pos, c.AsBool(ctx, force)...)
	case irkind.Int8:
		return NewConst(ctx, to, pos, c.AsInt8(ctx, force)...)
	case irkind.Uint8:
		return NewConst(ctx, to, pos, c.AsUint8(ctx, force)...)
	case irkind.Int16:
		return NewConst(ctx, to, pos, c.AsInt16(ctx, force)...)
	case irkind.Uint16:
		return NewConst(ctx, to, pos, c.AsUint16(ctx, force)...)
	case irkind.Int32:
		return NewConst(ctx, to, pos, c.AsInt32(ctx, force)...)
	case irkind.Uint32, irkind.Enum:
		return NewConst(ctx, to, pos, c.AsUint32(ctx, force)...)
	case irkind.Int64:
		return NewConst(ctx, to, pos, c.AsInt64(ctx, force)...)
	case irkind.Uint64:
		return NewConst(ctx, to, pos, c.AsUint64(ctx, force)...)
	case irkind.Float:
		return NewConst(ctx, to, pos, c.AsFloat(ctx, force)...)
	case irkind.Double:
		return NewConst(ctx, to, pos, c.AsDouble(ctx, force)...)
	}
	return nil
}

// reciprocalConst returns 1/c for a floating point constant, used by
// the fast-math rewrite of division into multiplication.
func reciprocalConst(ctx *CompileContext, c *ConstExpr, pos source.Pos) *ConstExpr {
	k := c.typ.Kind()
	if k != irkind.Float && k != irkind.Double {
		return nil
	}
	vals := c.AsDouble(ctx, false)
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = 1 / v
	}
	return NewConst(ctx, c.typ.AsNonConst(), pos, out...)
}
