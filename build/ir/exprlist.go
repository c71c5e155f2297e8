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

// ExprList is a brace-enclosed or comma-separated list of
// expressions: call arguments and aggregate initializers. It has no
// type of its own; its consumers take it apart.
type ExprList struct {
	exprBase
	Exprs []Expr
}

var (
	_ Expr             = (*ExprList)(nil)
	_ ConstantProvider = (*ExprList)(nil)
)

// Type of a list is nil: only its elements have types.
func (n *ExprList) Type(ctx *CompileContext) Type { return nil }

// TypeCheck checks every element.
func (n *ExprList) TypeCheck(ctx *CompileContext) Expr {
	out := &ExprList{exprBase: n.exprBase, Exprs: make([]Expr, len(n.Exprs))}
	for i, e := range n.Exprs {
		out.Exprs[i] = TypeCheckExpr(ctx, e)
		if out.Exprs[i] == nil {
			return nil
		}
	}
	return out
}

// Optimize folds every element.
func (n *ExprList) Optimize(ctx *CompileContext) Expr {
	out := &ExprList{exprBase: n.exprBase, Exprs: make([]Expr, len(n.Exprs))}
	for i, e := range n.Exprs {
		out.Exprs[i] = OptimizeExpr(ctx, e)
		if out.Exprs[i] == nil {
			return nil
		}
	}
	return out
}

// Cost of the list itself is zero.
func (n *ExprList) Cost(ctx *CompileContext) int { return 0 }

// Value returns nil: lists are lowered by the node consuming them.
func (n *ExprList) Value(em EmitContext) Value { return nil }

// Constant builds an aggregate constant of typ from the elements, for
// array, vector and struct initializers. A single-element list also
// initializes a scalar.
func (n *ExprList) Constant(em EmitContext, typ Type) (Value, bool) {
	ctx := em.Compile()
	var count int
	eltType := func(i int) Type { return nil }
	switch t := typ.(type) {
	case *ArrayType:
		count = t.Len()
		eltType = func(int) Type { return t.Elem() }
	case *VectorType:
		count = t.Len()
		eltType = func(int) Type { return Type(t.Elem()) }
	case *StructType:
		count = t.NumFields()
		eltType = func(i int) Type { return t.Field(i).Type }
	default:
		if len(n.Exprs) == 1 {
			return ConstantOf(em, n.Exprs[0], typ)
		}
		return nil, false
	}
	if len(n.Exprs) != count {
		ctx.Errorf(n.pos, "Initializer list for type %q must have %d elements, not %d.",
			typ, count, len(n.Exprs))
		return nil, false
	}
	elems := make([]Value, count)
	for i, e := range n.Exprs {
		v, ok := ConstantOf(em, e, eltType(i))
		if !ok {
			return nil, false
		}
		elems[i] = v
	}
	return em.ConstAggregate(typ, elems), true
}
