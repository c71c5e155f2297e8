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

// SizeOfExpr yields the size in bytes of a type, or of an
// expression's type. Exactly one of X and T is set.
type SizeOfExpr struct {
	exprBase
	X Expr
	T Type
}

var _ Expr = (*SizeOfExpr)(nil)

func (n *SizeOfExpr) operand(ctx *CompileContext) Type {
	if n.T != nil {
		return n.T
	}
	return TypeOf(ctx, n.X)
}

// Type returns the target's size type.
func (n *SizeOfExpr) Type(ctx *CompileContext) Type { return ctx.SizeType() }

// TypeCheck rejects sizeof of void.
func (n *SizeOfExpr) TypeCheck(ctx *CompileContext) Expr {
	x := n.X
	if x != nil {
		if x = TypeCheckExpr(ctx, x); x == nil {
			return nil
		}
	}
	out := &SizeOfExpr{exprBase: n.exprBase, X: x, T: n.T}
	t := out.operand(ctx)
	if t == nil {
		return nil
	}
	if IsVoidType(t) {
		ctx.Errorf(n.pos, "Illegal to take sizeof of void type.")
		return nil
	}
	return out
}

// Optimize folds the operand expression.
func (n *SizeOfExpr) Optimize(ctx *CompileContext) Expr {
	x := n.X
	if x != nil {
		if x = OptimizeExpr(ctx, x); x == nil {
			return nil
		}
	}
	return &SizeOfExpr{exprBase: n.exprBase, X: x, T: n.T}
}

// Cost is zero: the size is a target constant.
func (n *SizeOfExpr) Cost(ctx *CompileContext) int { return 0 }

// Value emits the target-resolved size of the operand type.
func (n *SizeOfExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	t := n.operand(em.Compile())
	if t == nil {
		return nil
	}
	return em.SizeOf(t)
}
