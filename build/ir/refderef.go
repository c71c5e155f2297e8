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

// ReferenceExpr binds a reference to the storage of an lvalue. Its
// value is the address of that storage.
type ReferenceExpr struct {
	exprBase
	X Expr
}

var _ Expr = (*ReferenceExpr)(nil)

// Type returns a reference to the operand type. A reference operand
// passes through unchanged.
func (n *ReferenceExpr) Type(ctx *CompileContext) Type {
	t := TypeOf(ctx, n.X)
	if t == nil {
		return nil
	}
	if _, ok := t.(*ReferenceType); ok {
		return t
	}
	return NewReferenceType(t)
}

// TypeCheck requires the operand to have storage to bind to.
func (n *ReferenceExpr) TypeCheck(ctx *CompileContext) Expr {
	x := TypeCheckExpr(ctx, n.X)
	if x == nil {
		return nil
	}
	t := TypeOf(ctx, x)
	if t == nil {
		return nil
	}
	// A reference of a reference collapses to the inner one.
	if _, ok := t.(*ReferenceType); ok {
		return x
	}
	if _, ok := x.(StorageExpr); !ok {
		ctx.Errorf(n.pos, "Unable to bind reference to non-lvalue expression of type %q.", t)
		return nil
	}
	return &ReferenceExpr{exprBase: n.exprBase, X: x}
}

// Optimize folds the operand.
func (n *ReferenceExpr) Optimize(ctx *CompileContext) Expr {
	x := OptimizeExpr(ctx, n.X)
	if x == nil {
		return nil
	}
	return &ReferenceExpr{exprBase: n.exprBase, X: x}
}

// Cost is zero: a reference is just the operand's address.
func (n *ReferenceExpr) Cost(ctx *CompileContext) int { return 0 }

// BaseSymbol returns the symbol the bound storage belongs to.
func (n *ReferenceExpr) BaseSymbol() *Symbol { return n.X.BaseSymbol() }

// Value emits the address of the operand's storage.
func (n *ReferenceExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	return LValueOf(em, n.X)
}

// DereferenceExpr reads through a pointer or a reference.
type DereferenceExpr struct {
	exprBase
	X Expr
}

var (
	_ Expr        = (*DereferenceExpr)(nil)
	_ StorageExpr = (*DereferenceExpr)(nil)
)

// Type returns the pointed-to type. Dereferencing a varying pointer
// yields a varying value, one per lane.
func (n *DereferenceExpr) Type(ctx *CompileContext) Type {
	xt := TypeOf(ctx, n.X)
	switch t := xt.(type) {
	case *ReferenceType:
		return t.Target()
	case *PointerType:
		if IsVaryingType(t) {
			return t.Elem().AsVarying()
		}
		return t.Elem()
	}
	return nil
}

// TypeCheck requires a non-void pointer or a reference operand.
func (n *DereferenceExpr) TypeCheck(ctx *CompileContext) Expr {
	x := TypeCheckExpr(ctx, n.X)
	if x == nil {
		return nil
	}
	xt := TypeOf(ctx, x)
	if xt == nil {
		return nil
	}
	switch t := xt.(type) {
	case *ReferenceType:
	case *PointerType:
		if IsVoidType(t.Elem()) {
			ctx.Errorf(n.pos, "Illegal to dereference void pointer type %q.", xt)
			return nil
		}
	default:
		ctx.Errorf(n.pos, "Illegal to dereference non-pointer type %q.", xt)
		return nil
	}
	return &DereferenceExpr{exprBase: n.exprBase, X: x}
}

// Optimize folds the operand.
func (n *DereferenceExpr) Optimize(ctx *CompileContext) Expr {
	x := OptimizeExpr(ctx, n.X)
	if x == nil {
		return nil
	}
	return &DereferenceExpr{exprBase: n.exprBase, X: x}
}

// Cost of the load, plus the gather a varying pointer implies.
func (n *DereferenceExpr) Cost(ctx *CompileContext) int {
	if pt, ok := TypeOf(ctx, n.X).(*PointerType); ok && IsVaryingType(pt) {
		return CostDeref + CostGather
	}
	return CostDeref
}

// BaseSymbol returns the symbol the pointer operand is rooted in.
func (n *DereferenceExpr) BaseSymbol() *Symbol { return n.X.BaseSymbol() }

// LValue returns the operand's value, which is the address being
// dereferenced.
func (n *DereferenceExpr) LValue(em EmitContext) Value { return n.X.Value(em) }

// LValueType returns the address type of the dereferenced storage.
func (n *DereferenceExpr) LValueType(ctx *CompileContext) Type {
	switch t := TypeOf(ctx, n.X).(type) {
	case *ReferenceType:
		return NewPointerType(Uniform, t.Target())
	case *PointerType:
		return t
	}
	return nil
}

// Value loads through the operand under the current mask.
func (n *DereferenceExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	ctx := em.Compile()
	addr := n.X.Value(em)
	lvT := n.LValueType(ctx)
	if addr == nil || lvT == nil {
		return nil
	}
	return em.MaskedLoad(addr, em.InternalMask(), lvT, "deref_load")
}

// AddressOfExpr takes the address of an lvalue. Applied to a
// reference it recovers the pointer the reference wraps.
type AddressOfExpr struct {
	exprBase
	X Expr
}

var _ Expr = (*AddressOfExpr)(nil)

// Type returns the pointer type of the operand's storage.
func (n *AddressOfExpr) Type(ctx *CompileContext) Type {
	xt := TypeOf(ctx, n.X)
	if rt, ok := xt.(*ReferenceType); ok {
		return NewPointerType(Uniform, rt.Target())
	}
	return LValueTypeOf(ctx, n.X)
}

// TypeCheck requires storage or a reference. Taking the address of an
// overloaded function name collapses to the function pointer itself.
func (n *AddressOfExpr) TypeCheck(ctx *CompileContext) Expr {
	x := TypeCheckExpr(ctx, n.X)
	if x == nil {
		return nil
	}
	xt := TypeOf(ctx, x)
	if xt == nil {
		return nil
	}
	if fse, ok := x.(*FunctionSymbolExpr); ok {
		return fse
	}
	if _, ok := xt.(*ReferenceType); ok {
		return &AddressOfExpr{exprBase: n.exprBase, X: x}
	}
	if _, ok := x.(StorageExpr); !ok {
		ctx.Errorf(n.pos, "Illegal to take address of non-lvalue or function.")
		return nil
	}
	return &AddressOfExpr{exprBase: n.exprBase, X: x}
}

// Optimize folds the operand.
func (n *AddressOfExpr) Optimize(ctx *CompileContext) Expr {
	x := OptimizeExpr(ctx, n.X)
	if x == nil {
		return nil
	}
	return &AddressOfExpr{exprBase: n.exprBase, X: x}
}

// Cost is zero: the address already exists.
func (n *AddressOfExpr) Cost(ctx *CompileContext) int { return 0 }

// BaseSymbol returns the symbol whose address is taken.
func (n *AddressOfExpr) BaseSymbol() *Symbol { return n.X.BaseSymbol() }

// Value emits the storage address.
func (n *AddressOfExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	if _, ok := TypeOf(em.Compile(), n.X).(*ReferenceType); ok {
		return n.X.Value(em)
	}
	return LValueOf(em, n.X)
}
