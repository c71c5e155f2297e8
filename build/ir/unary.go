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
)

// UnaryOp identifies a unary operator.
type UnaryOp int

const (
	UnaryPreInc UnaryOp = iota
	UnaryPreDec
	UnaryPostInc
	UnaryPostDec
	UnaryNeg
	UnaryLogicalNot
	UnaryBitNot
)

// String returns the operator as written in source.
func (op UnaryOp) String() string {
	switch op {
	case UnaryPreInc, UnaryPostInc:
		return "++"
	case UnaryPreDec, UnaryPostDec:
		return "--"
	case UnaryNeg:
		return "-"
	case UnaryLogicalNot:
		return "!"
	case UnaryBitNot:
		return "~"
	}
	return "?"
}

func (op UnaryOp) isIncDec() bool {
	switch op {
	case UnaryPreInc, UnaryPreDec, UnaryPostInc, UnaryPostDec:
		return true
	}
	return false
}

// UnaryExpr is a unary operation: pre or post increment and
// decrement, negation, logical not and bitwise complement.
type UnaryExpr struct {
	exprBase
	Op UnaryOp
	X  Expr
}

var _ Expr = (*UnaryExpr)(nil)

// derefReference unwraps a reference-typed expression by inserting a
// dereference, leaving other expressions alone.
func derefReference(ctx *CompileContext, e Expr) Expr {
	if e == nil {
		return nil
	}
	if _, ok := TypeOf(ctx, e).(*ReferenceType); !ok {
		return e
	}
	d := &DereferenceExpr{exprBase: exprBase{pos: e.Pos()}, X: e}
	return d.TypeCheck(ctx)
}

// Type returns the operand's type. Increment and decrement keep a
// reference-typed operand's type so the updated storage is visible;
// the value-producing operators see through references.
func (n *UnaryExpr) Type(ctx *CompileContext) Type {
	t := TypeOf(ctx, n.X)
	if t == nil {
		return nil
	}
	if n.Op.isIncDec() {
		return t
	}
	if rt, ok := t.(*ReferenceType); ok {
		return rt.Target()
	}
	return t
}

// TypeCheck verifies the operand against the operator: increment and
// decrement need mutable numeric or pointer storage, negation a
// numeric type, complement an integer type, and logical not converts
// its operand to the matching bool type.
func (n *UnaryExpr) TypeCheck(ctx *CompileContext) Expr {
	x := TypeCheckExpr(ctx, n.X)
	t := TypeOf(ctx, x)
	if t == nil {
		return nil
	}

	if n.Op.isIncDec() {
		target := t
		if rt, ok := t.(*ReferenceType); ok {
			target = rt.Target()
		}
		if target.IsConst() {
			ctx.Errorf(n.pos, "Can't assign to type %q on left-hand side of expression.", t)
			return nil
		}
		if pt, ok := target.(*PointerType); ok {
			if !checkPointerArith(ctx, pt, n.pos) {
				return nil
			}
		} else if !irkind.IsNumeric(target.Kind()) {
			ctx.Errorf(n.pos, "Can only pre/post increment numeric and pointer types, not %q.", t)
			return nil
		}
		if _, isRef := t.(*ReferenceType); !isRef {
			if _, isStorage := x.(StorageExpr); !isStorage {
				ctx.Errorf(n.pos, "Can't use %q operator with non-lvalue expression.", n.Op)
				return nil
			}
		}
		return &UnaryExpr{exprBase: n.exprBase, Op: n.Op, X: x}
	}

	x = derefReference(ctx, x)
	t = TypeOf(ctx, x)
	if t == nil {
		return nil
	}
	switch n.Op {
	case UnaryNeg:
		ok := irkind.IsNumeric(t.Kind())
		if vt, isVec := t.(*VectorType); isVec {
			ok = irkind.IsNumeric(vt.Elem().Kind())
		}
		if !ok {
			ctx.Errorf(n.pos, "Negate not allowed for type %q.", t)
			return nil
		}
	case UnaryLogicalNot:
		x = ConvertExpr(ctx, x, MatchingBoolType(t), "logical not operand")
		if x == nil {
			return nil
		}
	case UnaryBitNot:
		if !irkind.IsInteger(t.Kind()) {
			ctx.Errorf(n.pos, "~ operator can only be used with integer types, not %q.", t)
			return nil
		}
	}
	return &UnaryExpr{exprBase: n.exprBase, Op: n.Op, X: x}
}

// Optimize folds the operation when the operand is a foldable
// constant.
func (n *UnaryExpr) Optimize(ctx *CompileContext) Expr {
	x := OptimizeExpr(ctx, n.X)
	if x == nil {
		return nil
	}
	out := &UnaryExpr{exprBase: n.exprBase, Op: n.Op, X: x}
	c, ok := x.(*ConstExpr)
	if !ok {
		return out
	}
	if folded := foldUnary(ctx, n.Op, c, out.Type(ctx), n.pos); folded != nil {
		return folded
	}
	return out
}

// Cost of a unary operation.
func (n *UnaryExpr) Cost(ctx *CompileContext) int {
	if n.Op.isIncDec() {
		return CostSimpleArith + CostAssign
	}
	return CostSimpleArith
}

// Value emits the operation. Increment and decrement load the old
// value, step it, store the result under the policy mask and yield
// the old (post) or new (pre) value.
func (n *UnaryExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	ctx := em.Compile()
	if n.Op.isIncDec() {
		return n.emitIncDec(em)
	}
	v := n.X.Value(em)
	if v == nil {
		return nil
	}
	switch n.Op {
	case UnaryNeg:
		return em.Neg(v)
	case UnaryLogicalNot:
		return em.Not(v)
	case UnaryBitNot:
		t := TypeOf(ctx, n.X)
		if t == nil {
			return nil
		}
		ones := NewConst(ctx, t.AsNonConst(), n.pos, -1)
		return em.BinaryOp(token.XOR, v, em.ConstValue(ones), "bitnot")
	}
	return nil
}

func (n *UnaryExpr) emitIncDec(em EmitContext) Value {
	ctx := em.Compile()
	lvalue, lvType := lvalueAndType(ctx, em, n.X)
	if lvalue == nil || lvType == nil {
		return nil
	}
	sym := n.X.BaseSymbol()
	old := em.MaskedLoad(lvalue, maskForStore(em, sym), lvType, "load")

	target := TypeOf(ctx, n.X)
	if rt, ok := target.(*ReferenceType); ok {
		target = rt.Target()
	}
	var stepped Value
	if pt, ok := target.(*PointerType); ok {
		delta := 1
		if n.Op == UnaryPreDec || n.Op == UnaryPostDec {
			delta = -1
		}
		step := NewConst(ctx, Int32Type(Uniform), n.pos, delta)
		stepped = em.ElementPtr(old, em.ConstValue(step), pt, "ptrstep")
	} else {
		op := token.ADD
		if n.Op == UnaryPreDec || n.Op == UnaryPostDec {
			op = token.SUB
		}
		one := NewConst(ctx, target.AsNonConst(), n.pos, 1)
		stepped = em.BinaryOp(op, old, em.ConstValue(one), "incdec")
	}
	storeResult(em, stepped, lvalue, lvType, sym)
	if n.Op == UnaryPostInc || n.Op == UnaryPostDec {
		return old
	}
	return stepped
}

// lvalueAndType returns the storage address and its type for an
// expression, treating a reference-typed expression's value as the
// address it holds.
func lvalueAndType(ctx *CompileContext, em EmitContext, e Expr) (Value, Type) {
	if rt, ok := TypeOf(ctx, e).(*ReferenceType); ok {
		return e.Value(em), NewPointerType(Uniform, rt.Target())
	}
	return LValueOf(em, e), LValueTypeOf(ctx, e)
}
