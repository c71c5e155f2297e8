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

// BinaryExpr is a binary operation. The operator is a go/token token:
// ADD SUB MUL QUO REM, SHL SHR AND OR XOR, the six comparisons, LAND
// LOR, and COMMA.
type BinaryExpr struct {
	exprBase
	Op   token.Token
	X, Y Expr
}

var _ Expr = (*BinaryExpr)(nil)

func isArithOp(op token.Token) bool {
	switch op {
	case token.ADD, token.SUB, token.MUL, token.QUO, token.REM:
		return true
	}
	return false
}

func isBitOp(op token.Token) bool {
	switch op {
	case token.SHL, token.SHR, token.AND, token.OR, token.XOR:
		return true
	}
	return false
}

func opInstName(op token.Token) string {
	switch op {
	case token.ADD:
		return "add"
	case token.SUB:
		return "sub"
	case token.MUL:
		return "mul"
	case token.QUO:
		return "div"
	case token.REM:
		return "rem"
	case token.SHL:
		return "shl"
	case token.SHR:
		return "shr"
	case token.AND, token.LAND:
		return "and"
	case token.OR, token.LOR:
		return "or"
	case token.XOR:
		return "xor"
	case token.EQL:
		return "equal"
	case token.NEQ:
		return "notequal"
	case token.LSS:
		return "less"
	case token.LEQ:
		return "lessequal"
	case token.GTR:
		return "greater"
	case token.GEQ:
		return "greaterequal"
	}
	return "binop"
}

// checkPointerArith rejects stepping a pointer whose elements have no
// size.
func checkPointerArith(ctx *CompileContext, pt *PointerType, pos source.Pos) bool {
	if IsVoidType(pt.Elem()) {
		ctx.Errorf(pos, "Illegal to perform pointer arithmetic on void pointer type %q.", pt)
		return false
	}
	return true
}

func ptrDiffResultType(ctx *CompileContext, v Variability) Type {
	if ctx.Opt.Force32BitAddressing {
		return Int32Type(v)
	}
	return ctx.PtrDiffType(v)
}

// Type returns the result type. After TypeCheck the operands already
// carry the promoted common type, so most operators answer with the
// first operand's type.
func (n *BinaryExpr) Type(ctx *CompileContext) Type {
	tx, ty := TypeOf(ctx, n.X), TypeOf(ctx, n.Y)
	if tx == nil || ty == nil {
		return nil
	}
	if n.Op == token.COMMA {
		return ty
	}
	if isComparisonOp(n.Op) {
		return MatchingBoolType(tx)
	}
	_, xIsPtr := tx.(*PointerType)
	_, yIsPtr := ty.(*PointerType)
	if n.Op == token.SUB && xIsPtr && yIsPtr {
		v := Uniform
		if IsVaryingType(tx) || IsVaryingType(ty) {
			v = Varying
		}
		return ptrDiffResultType(ctx, v)
	}
	return tx.AsNonConst()
}

// TypeCheck verifies operand kinds against the operator and converts
// both sides to their common type. Pointer arithmetic is canonicalized
// with the pointer first; a zero literal compared against a pointer
// becomes the null pointer.
func (n *BinaryExpr) TypeCheck(ctx *CompileContext) Expr {
	x := derefReference(ctx, TypeCheckExpr(ctx, n.X))
	y := derefReference(ctx, TypeCheckExpr(ctx, n.Y))
	tx, ty := TypeOf(ctx, x), TypeOf(ctx, y)
	if tx == nil || ty == nil {
		return nil
	}

	if n.Op == token.COMMA {
		return &BinaryExpr{exprBase: n.exprBase, Op: n.Op, X: x, Y: y}
	}

	// Arrays decay to a pointer to their first element.
	if at, ok := tx.(*ArrayType); ok {
		x = ConvertExpr(ctx, x, NewPointerType(Uniform, at.Elem()), "operand of binary expression")
		tx = TypeOf(ctx, x)
	}
	if at, ok := ty.(*ArrayType); ok {
		y = ConvertExpr(ctx, y, NewPointerType(Uniform, at.Elem()), "operand of binary expression")
		ty = TypeOf(ctx, y)
	}
	if tx == nil || ty == nil {
		return nil
	}
	if IsVoidType(tx) {
		ctx.Errorf(n.pos, "First operand to binary operator %q is of invalid type %q.", n.Op, tx)
		return nil
	}
	if IsVoidType(ty) {
		ctx.Errorf(n.pos, "Second operand to binary operator %q is of invalid type %q.", n.Op, ty)
		return nil
	}

	// A zero literal meeting a pointer in a comparison is the null
	// pointer.
	if isComparisonOp(n.Op) {
		if _, ok := tx.(*PointerType); ok && IsConstZero(y) {
			y = ConvertExpr(ctx, y, tx.AsNonConst(), "pointer comparison")
			ty = TypeOf(ctx, y)
		} else if _, ok := ty.(*PointerType); ok && IsConstZero(x) {
			x = ConvertExpr(ctx, x, ty.AsNonConst(), "pointer comparison")
			tx = TypeOf(ctx, x)
		}
		if tx == nil || ty == nil {
			return nil
		}
	}

	px, xIsPtr := tx.(*PointerType)
	py, yIsPtr := ty.(*PointerType)

	// Canonicalize int + pointer so the pointer comes first.
	if n.Op == token.ADD && yIsPtr && !xIsPtr {
		x, y = y, x
		tx, ty = ty, tx
		px, xIsPtr = py, true
		py, yIsPtr = nil, false
	}

	switch {
	case xIsPtr && yIsPtr:
		return n.checkPointerPair(ctx, x, y, px, py)
	case xIsPtr && (n.Op == token.ADD || n.Op == token.SUB):
		return n.checkPointerOffset(ctx, x, y, px)
	case xIsPtr || yIsPtr:
		ctx.Errorf(n.pos, "Illegal to use binary operator %q with types %q and %q.", n.Op, tx, ty)
		return nil
	}

	switch {
	case n.Op == token.LAND, n.Op == token.LOR:
		t := MoreGeneralType(ctx, MatchingBoolType(tx), MatchingBoolType(ty), n.pos, "operand of logical expression")
		x = ConvertExpr(ctx, x, t, "operand of logical expression")
		y = ConvertExpr(ctx, y, t, "operand of logical expression")
		if x == nil || y == nil {
			return nil
		}

	case n.Op == token.SHL || n.Op == token.SHR:
		if !integerShaped(tx) {
			ctx.Errorf(n.pos, "First operand to binary operator %q is of invalid type %q.", n.Op, tx)
			return nil
		}
		if !integerShaped(ty) {
			ctx.Errorf(n.pos, "Second operand to binary operator %q is of invalid type %q.", n.Op, ty)
			return nil
		}
		// A varying shift amount drags the shifted value to
		// varying; the amount then takes the value's type.
		if IsVaryingType(ty) && IsUniformType(tx) {
			x = ConvertExpr(ctx, x, tx.AsVarying(), "shift expression")
			tx = TypeOf(ctx, x)
			if tx == nil {
				return nil
			}
		}
		if n.Op == token.SHR && IsVaryingType(ty) {
			if _, isConst := y.(*ConstExpr); !isConst {
				ctx.PerfWarningf(n.pos, "Shift right is inefficient for varying shift amounts.")
			}
		}
		y = ConvertExpr(ctx, y, tx.AsNonConst(), "shift expression")
		if y == nil {
			return nil
		}

	case isBitOp(n.Op):
		if !integerShaped(tx) && tx.Kind() != irkind.Bool {
			ctx.Errorf(n.pos, "First operand to binary operator %q is of invalid type %q.", n.Op, tx)
			return nil
		}
		if !integerShaped(ty) && ty.Kind() != irkind.Bool {
			ctx.Errorf(n.pos, "Second operand to binary operator %q is of invalid type %q.", n.Op, ty)
			return nil
		}
		t := MoreGeneralType(ctx, tx, ty, n.pos, "operand of bitwise expression")
		x = ConvertExpr(ctx, x, t, "operand of bitwise expression")
		y = ConvertExpr(ctx, y, t, "operand of bitwise expression")
		if x == nil || y == nil {
			return nil
		}

	case isArithOp(n.Op):
		if !numericShaped(tx) {
			ctx.Errorf(n.pos, "First operand to binary operator %q is of invalid type %q.", n.Op, tx)
			return nil
		}
		if !numericShaped(ty) {
			ctx.Errorf(n.pos, "Second operand to binary operator %q is of invalid type %q.", n.Op, ty)
			return nil
		}
		t := MoreGeneralType(ctx, tx, ty, n.pos, "operand of arithmetic expression")
		if t == nil {
			return nil
		}
		if n.Op == token.REM && floatShaped(t) {
			ctx.Errorf(n.pos, "Modulus operator with type %q is illegal.", t)
			return nil
		}
		if IsVaryingType(t) {
			if n.Op == token.QUO && integerShaped(t) {
				ctx.PerfWarningf(n.pos, "Division with varying integer types is very inefficient.")
			}
			if n.Op == token.REM {
				ctx.PerfWarningf(n.pos, "Modulus operator with varying types is very inefficient.")
			}
		}
		x = ConvertExpr(ctx, x, t, "operand of arithmetic expression")
		y = ConvertExpr(ctx, y, t, "operand of arithmetic expression")
		if x == nil || y == nil {
			return nil
		}

	case isComparisonOp(n.Op):
		t := MoreGeneralType(ctx, tx, ty, n.pos, "operand of comparison expression")
		x = ConvertExpr(ctx, x, t, "operand of comparison expression")
		y = ConvertExpr(ctx, y, t, "operand of comparison expression")
		if x == nil || y == nil {
			return nil
		}

	default:
		ctx.Errorf(n.pos, "Illegal to use binary operator %q with types %q and %q.", n.Op, tx, ty)
		return nil
	}
	return &BinaryExpr{exprBase: n.exprBase, Op: n.Op, X: x, Y: y}
}

func (n *BinaryExpr) checkPointerPair(ctx *CompileContext, x, y Expr, px, py *PointerType) Expr {
	compatible := EqualIgnoringConst(px.Elem(), py.Elem()) ||
		IsVoidType(px.Elem()) || IsVoidType(py.Elem())
	switch {
	case n.Op == token.SUB:
		if !compatible {
			ctx.Errorf(n.pos, "Can't subtract pointers to incompatible types %q and %q.", px, py)
			return nil
		}
		if !checkPointerArith(ctx, px, n.pos) {
			return nil
		}
		if IsVaryingType(px) || IsVaryingType(py) {
			ctx.PerfWarningf(n.pos, "Difference between varying pointers is expensive to compute.")
		}
	case isComparisonOp(n.Op):
		if !compatible {
			ctx.Errorf(n.pos, "Can't compare pointers to incompatible types %q and %q.", px, py)
			return nil
		}
	default:
		ctx.Errorf(n.pos, "Illegal to use binary operator %q with pointer types %q and %q.", n.Op, px, py)
		return nil
	}
	// Promote variability so both address words have the same
	// shape.
	if IsVaryingType(px) && IsUniformType(py) {
		y = ConvertExpr(ctx, y, py.AsVarying(), "pointer operand")
	} else if IsUniformType(px) && IsVaryingType(py) {
		x = ConvertExpr(ctx, x, px.AsVarying(), "pointer operand")
	}
	if x == nil || y == nil {
		return nil
	}
	return &BinaryExpr{exprBase: n.exprBase, Op: n.Op, X: x, Y: y}
}

func (n *BinaryExpr) checkPointerOffset(ctx *CompileContext, x, y Expr, px *PointerType) Expr {
	if !checkPointerArith(ctx, px, n.pos) {
		return nil
	}
	ty := TypeOf(ctx, y)
	if ty == nil {
		return nil
	}
	if !integerShaped(ty) {
		ctx.Errorf(n.pos, "Second operand to binary operator %q is of invalid type %q.", n.Op, ty)
		return nil
	}
	// A varying offset makes the pointer varying; the offset takes
	// the addressing width.
	if IsVaryingType(ty) && IsUniformType(px) {
		x = ConvertExpr(ctx, x, px.AsVarying(), "pointer arithmetic")
		if x == nil {
			return nil
		}
	}
	v := Uniform
	if IsVaryingType(ty) || IsVaryingType(px) {
		v = Varying
	}
	y = ConvertExpr(ctx, y, ptrDiffResultType(ctx, v), "pointer arithmetic")
	if y == nil {
		return nil
	}
	return &BinaryExpr{exprBase: n.exprBase, Op: n.Op, X: x, Y: y}
}

func integerShaped(t Type) bool {
	if vt, ok := t.(*VectorType); ok {
		return irkind.IsInteger(vt.Elem().Kind())
	}
	return irkind.IsInteger(t.Kind())
}

func numericShaped(t Type) bool {
	if vt, ok := t.(*VectorType); ok {
		return irkind.IsNumeric(vt.Elem().Kind())
	}
	return irkind.IsNumeric(t.Kind())
}

func floatShaped(t Type) bool {
	if vt, ok := t.(*VectorType); ok {
		return irkind.IsFloat(vt.Elem().Kind())
	}
	return irkind.IsFloat(t.Kind())
}

// Optimize applies the fast-math division rewrites and then folds
// when both operands are constants.
func (n *BinaryExpr) Optimize(ctx *CompileContext) Expr {
	x := OptimizeExpr(ctx, n.X)
	y := OptimizeExpr(ctx, n.Y)
	if x == nil || y == nil {
		return nil
	}
	out := &BinaryExpr{exprBase: n.exprBase, Op: n.Op, X: x, Y: y}

	if ctx.Opt.FastMath && n.Op == token.QUO {
		if r := out.fastMathDivide(ctx); r != nil {
			return r
		}
	}

	xc, xOK := x.(*ConstExpr)
	yc, yOK := y.(*ConstExpr)
	if xOK && yOK {
		if folded := foldBinary(ctx, n.Op, xc, yc, out.Type(ctx), n.pos); folded != nil {
			return folded
		}
	}
	return out
}

// fastMathDivide rewrites float division as multiplication: by a
// folded reciprocal when the divisor is constant, otherwise through
// an rcp overload found in scope. It returns nil when the rewrite
// does not apply.
func (n *BinaryExpr) fastMathDivide(ctx *CompileContext) Expr {
	ty := TypeOf(ctx, n.Y)
	if ty == nil || !floatShaped(ty) {
		return nil
	}
	if yc, ok := n.Y.(*ConstExpr); ok {
		recip := reciprocalConst(ctx, yc, n.pos)
		if recip == nil {
			return nil
		}
		mul := &BinaryExpr{exprBase: n.exprBase, Op: token.MUL, X: n.X, Y: recip}
		return OptimizeExpr(ctx, TypeCheckExpr(ctx, mul))
	}
	overloads := ctx.Syms.LookupFunction("rcp")
	if len(overloads) == 0 {
		ctx.Warningf(n.pos, "No rcp function found in scope for fast-math division; emitting full-precision divide.")
		return nil
	}
	fn := &FunctionSymbolExpr{exprBase: exprBase{pos: n.pos}, Name: "rcp", Candidates: overloads}
	args := &ExprList{exprBase: exprBase{pos: n.pos}, Exprs: []Expr{n.Y}}
	call := &FunctionCallExpr{exprBase: exprBase{pos: n.pos}, Fn: fn, Args: args}
	mul := &BinaryExpr{exprBase: n.exprBase, Op: token.MUL, X: n.X, Y: call}
	return OptimizeExpr(ctx, TypeCheckExpr(ctx, mul))
}

// Cost of a binary operation.
func (n *BinaryExpr) Cost(ctx *CompileContext) int {
	switch n.Op {
	case token.QUO, token.REM:
		t := TypeOf(ctx, n.X)
		if t != nil && IsVaryingType(t) && integerShaped(t) {
			return CostVaryingIntDivide
		}
		return CostComplexArith
	case token.MUL:
		return CostComplexArith
	}
	return CostSimpleArith
}

// Value emits the operation. Logical operators evaluate both sides
// and combine lane-wise; pointer arithmetic becomes element stepping
// and pointer difference divides the byte distance by the element
// size.
func (n *BinaryExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	ctx := em.Compile()
	if n.Op == token.COMMA {
		n.X.Value(em)
		return n.Y.Value(em)
	}

	tx, ty := TypeOf(ctx, n.X), TypeOf(ctx, n.Y)
	if tx == nil || ty == nil {
		return nil
	}
	px, xIsPtr := tx.(*PointerType)
	_, yIsPtr := ty.(*PointerType)

	x := n.X.Value(em)
	y := n.Y.Value(em)
	if x == nil || y == nil {
		return nil
	}

	switch {
	case n.Op == token.SUB && xIsPtr && yIsPtr:
		diffT := n.Type(ctx)
		ix := em.PtrToInt(x, diffT)
		iy := em.PtrToInt(y, diffT)
		diff := em.BinaryOp(token.SUB, ix, iy, "ptrdiff")
		return em.BinaryOp(token.QUO, diff, em.SizeOf(px.Elem()), "ptrdiff_elts")
	case xIsPtr && (n.Op == token.ADD || n.Op == token.SUB):
		idx := y
		if n.Op == token.SUB {
			idx = em.Neg(y)
		}
		return em.ElementPtr(x, idx, px, "ptroffset")
	case n.Op == token.LAND:
		return em.BinaryOp(token.AND, x, y, "logicaland")
	case n.Op == token.LOR:
		return em.BinaryOp(token.OR, x, y, "logicalor")
	}
	return em.BinaryOp(n.Op, x, y, opInstName(n.Op))
}
