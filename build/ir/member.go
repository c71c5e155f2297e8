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
	"fmt"

	"github.com/ospc-org/ospc/build/source"
)

// NewMemberExpr builds the expression for base.member or
// base->member. The arrow form dereferences a pointer base first; the
// dot form on a pointer is rejected with a hint. The node type is
// picked from the base: structs get a StructMemberExpr, short vectors
// a VectorMemberExpr.
func NewMemberExpr(ctx *CompileContext, base Expr, member string, arrow bool, pos source.Pos) Expr {
	if base == nil {
		return nil
	}
	bt := TypeOf(ctx, base)
	if bt == nil {
		return nil
	}
	op := "."
	if arrow {
		op = "->"
	}

	target := bt
	if rt, ok := bt.(*ReferenceType); ok {
		target = rt.Target()
	}
	if _, ok := target.(*PointerType); ok {
		if !arrow {
			ctx.Errorf(pos, "Member operator \".\" can't be applied to pointer type %q. Did you mean to use \"->\"?", bt)
			return nil
		}
		if base = derefReference(ctx, base); base == nil {
			return nil
		}
		deref := &DereferenceExpr{exprBase: exprBase{pos: pos}, X: base}
		if base = deref.TypeCheck(ctx); base == nil {
			return nil
		}
		target = TypeOf(ctx, base)
		if target == nil {
			return nil
		}
	} else if arrow {
		if _, isRef := bt.(*ReferenceType); !isRef {
			ctx.Errorf(pos, "Member operator \"->\" can't be applied to non-pointer type %q. Did you mean to use \".\"?", bt)
			return nil
		}
	}

	switch target.(type) {
	case *StructType:
		return &StructMemberExpr{exprBase: exprBase{pos: pos}, Base: base, Member: member}
	case *VectorType:
		return &VectorMemberExpr{exprBase: exprBase{pos: pos}, Base: base, Member: member}
	}
	ctx.Errorf(pos, "Member operator %q can't be used with expression of type %q.", op, bt)
	return nil
}

// StructMemberExpr reads or addresses one named field of a struct.
type StructMemberExpr struct {
	exprBase
	Base   Expr
	Member string
}

var (
	_ Expr        = (*StructMemberExpr)(nil)
	_ StorageExpr = (*StructMemberExpr)(nil)
)

// structInfo resolves the struct type behind the base and the field
// index, -1 when the field does not exist.
func (n *StructMemberExpr) structInfo(ctx *CompileContext) (*StructType, int) {
	st, ok := derefTargetType(TypeOf(ctx, n.Base)).(*StructType)
	if !ok {
		return nil, -1
	}
	return st, st.FieldIndex(n.Member)
}

// Type returns the field's type. Fields of a const struct are const,
// fields of a varying struct are varying.
func (n *StructMemberExpr) Type(ctx *CompileContext) Type {
	st, i := n.structInfo(ctx)
	if st == nil || i < 0 {
		return nil
	}
	ft := st.FieldType(i)
	if ft == nil {
		return nil
	}
	if IsVaryingType(st) {
		ft = ft.AsVarying()
	}
	if st.IsConst() {
		ft = ft.AsConst()
	}
	return ft
}

// nearestFieldName returns the field name closest to the one the
// program wrote, when one is close enough to be a plausible typo.
func nearestFieldName(st *StructType, name string) string {
	best, bestDist := "", 3
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if d := editDistance(name, f.Name, 2); d < bestDist {
			best, bestDist = f.Name, d
		}
	}
	return best
}

// TypeCheck resolves the field name.
func (n *StructMemberExpr) TypeCheck(ctx *CompileContext) Expr {
	base := TypeCheckExpr(ctx, n.Base)
	if base == nil {
		return nil
	}
	bt := derefTargetType(TypeOf(ctx, base))
	if bt == nil {
		return nil
	}
	st, ok := bt.(*StructType)
	if !ok {
		ctx.Errorf(n.pos, "Member operator %q can't be used with expression of type %q.", ".", bt)
		return nil
	}
	if st.FieldIndex(n.Member) < 0 {
		suggestion := ""
		if s := nearestFieldName(st, n.Member); s != "" {
			suggestion = fmt.Sprintf(" Did you mean %q?", s)
		}
		ctx.Errorf(n.pos, "Element name %q not present in struct type %q.%s", n.Member, st, suggestion)
		return nil
	}
	return &StructMemberExpr{exprBase: n.exprBase, Base: base, Member: n.Member}
}

// Optimize folds the base.
func (n *StructMemberExpr) Optimize(ctx *CompileContext) Expr {
	base := OptimizeExpr(ctx, n.Base)
	if base == nil {
		return nil
	}
	return &StructMemberExpr{exprBase: n.exprBase, Base: base, Member: n.Member}
}

// Cost of the field access: a gather when the field address is
// varying, a load otherwise.
func (n *StructMemberExpr) Cost(ctx *CompileContext) int {
	lt := n.LValueType(ctx)
	if lt != nil && IsVaryingType(lt) {
		return CostGather
	}
	return CostLoad
}

// BaseSymbol returns the symbol the struct storage belongs to.
func (n *StructMemberExpr) BaseSymbol() *Symbol { return n.Base.BaseSymbol() }

// LValueType returns the pointer type of the field's address.
func (n *StructMemberExpr) LValueType(ctx *CompileContext) Type {
	st, i := n.structInfo(ctx)
	if st == nil || i < 0 {
		return nil
	}
	ft := st.FieldType(i)
	if ft == nil {
		return nil
	}
	if IsVaryingType(st) {
		ft = ft.AsVarying()
	}
	var baseLVT Type
	if rt, ok := TypeOf(ctx, n.Base).(*ReferenceType); ok {
		baseLVT = NewPointerType(Uniform, rt.Target())
	} else {
		baseLVT = LValueTypeOf(ctx, n.Base)
	}
	if baseLVT == nil {
		return nil
	}
	v := Uniform
	if IsVaryingType(baseLVT) {
		v = Varying
	}
	return NewPointerType(v, ft)
}

// LValue computes the field's address from the base storage.
func (n *StructMemberExpr) LValue(em EmitContext) Value {
	ctx := em.Compile()
	_, i := n.structInfo(ctx)
	lvT := n.LValueType(ctx)
	if i < 0 || lvT == nil {
		return nil
	}
	baseAddr, baseAddrT := lvalueAndType(ctx, em, n.Base)
	if baseAddr == nil || baseAddrT == nil {
		return nil
	}
	addr := em.FieldPtr(baseAddr, i, baseAddrT, "member_ptr")
	return laneCorrect(em, addr, lvT)
}

// Value loads the field under the current mask, spilling the struct
// to scratch space when it has no storage of its own.
func (n *StructMemberExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	ctx := em.Compile()
	st, i := n.structInfo(ctx)
	if st == nil || i < 0 {
		return nil
	}
	lvT := n.LValueType(ctx)
	addr := n.LValue(em)
	if addr == nil {
		v := n.Base.Value(em)
		if v == nil {
			return nil
		}
		bt := derefTargetType(TypeOf(ctx, n.Base))
		scratch := em.Alloca(bt, "member_scratch")
		em.Store(v, scratch)
		addr = em.FieldPtr(scratch, i, NewPointerType(Uniform, bt), "member_ptr")
		ft := st.FieldType(i)
		if IsVaryingType(st) {
			ft = ft.AsVarying()
		}
		lvT = NewPointerType(Uniform, ft)
	}
	if lvT == nil {
		return nil
	}
	return em.MaskedLoad(addr, em.InternalMask(), lvT, "member_load")
}

// swizzleLetters maps the element names of the xyzw, rgba and uv
// families to element indexes.
var swizzleLetters = map[byte]int{
	'x': 0, 'y': 1, 'z': 2, 'w': 3,
	'r': 0, 'g': 1, 'b': 2, 'a': 3,
	'u': 0, 'v': 1,
}

// VectorMemberExpr reads elements of a short vector by name: a single
// letter selects one element and is assignable, several letters
// assemble a new read-only vector.
type VectorMemberExpr struct {
	exprBase
	Base   Expr
	Member string
}

var (
	_ Expr        = (*VectorMemberExpr)(nil)
	_ StorageExpr = (*VectorMemberExpr)(nil)
)

func (n *VectorMemberExpr) indices() ([]int, bool) {
	if n.Member == "" {
		return nil, false
	}
	idx := make([]int, len(n.Member))
	for i := 0; i < len(n.Member); i++ {
		k, ok := swizzleLetters[n.Member[i]]
		if !ok {
			return nil, false
		}
		idx[i] = k
	}
	return idx, true
}

func (n *VectorMemberExpr) vectorType(ctx *CompileContext) *VectorType {
	vt, _ := derefTargetType(TypeOf(ctx, n.Base)).(*VectorType)
	return vt
}

// Type returns the element type for a single letter and a vector of
// the member's length otherwise.
func (n *VectorMemberExpr) Type(ctx *CompileContext) Type {
	vt := n.vectorType(ctx)
	idx, ok := n.indices()
	if vt == nil || !ok {
		return nil
	}
	if len(idx) == 1 {
		et := Type(vt.Elem())
		if vt.IsConst() {
			et = et.AsConst()
		}
		return et
	}
	return NewVectorType(vt.Elem(), len(idx))
}

// TypeCheck resolves the element names against the vector length.
func (n *VectorMemberExpr) TypeCheck(ctx *CompileContext) Expr {
	base := TypeCheckExpr(ctx, n.Base)
	if base == nil {
		return nil
	}
	bt := derefTargetType(TypeOf(ctx, base))
	if bt == nil {
		return nil
	}
	vt, ok := bt.(*VectorType)
	if !ok {
		ctx.Errorf(n.pos, "Member operator %q can't be used with expression of type %q.", ".", bt)
		return nil
	}
	idx, ok := n.indices()
	if !ok {
		ctx.Errorf(n.pos, "Vector element identifier %q is unknown.", n.Member)
		return nil
	}
	for _, k := range idx {
		if k >= vt.Len() {
			ctx.Errorf(n.pos, "Vector element identifier %q is unknown.", n.Member)
			return nil
		}
	}
	return &VectorMemberExpr{exprBase: n.exprBase, Base: base, Member: n.Member}
}

// Optimize folds the base.
func (n *VectorMemberExpr) Optimize(ctx *CompileContext) Expr {
	base := OptimizeExpr(ctx, n.Base)
	if base == nil {
		return nil
	}
	return &VectorMemberExpr{exprBase: n.exprBase, Base: base, Member: n.Member}
}

// Cost: a single element goes through its address, a swizzle is
// assembled in registers.
func (n *VectorMemberExpr) Cost(ctx *CompileContext) int {
	if len(n.Member) == 1 {
		return CostLoad
	}
	return CostSimpleArith
}

// BaseSymbol returns the symbol the vector storage belongs to.
func (n *VectorMemberExpr) BaseSymbol() *Symbol { return n.Base.BaseSymbol() }

// LValueType returns the address type of a single named element;
// multi-letter members are not assignable.
func (n *VectorMemberExpr) LValueType(ctx *CompileContext) Type {
	idx, ok := n.indices()
	if !ok || len(idx) != 1 {
		return nil
	}
	vt := n.vectorType(ctx)
	if vt == nil {
		return nil
	}
	et := Type(vt.Elem())
	if vt.IsConst() {
		et = et.AsConst()
	}
	var baseLVT Type
	if rt, isRef := TypeOf(ctx, n.Base).(*ReferenceType); isRef {
		baseLVT = NewPointerType(Uniform, rt.Target())
	} else {
		baseLVT = LValueTypeOf(ctx, n.Base)
	}
	if baseLVT == nil {
		return nil
	}
	v := Uniform
	if IsVaryingType(baseLVT) {
		v = Varying
	}
	return NewPointerType(v, et)
}

// LValue computes the address of a single named element.
func (n *VectorMemberExpr) LValue(em EmitContext) Value {
	ctx := em.Compile()
	idx, ok := n.indices()
	lvT := n.LValueType(ctx)
	if !ok || len(idx) != 1 || lvT == nil {
		return nil
	}
	baseAddr, baseAddrT := lvalueAndType(ctx, em, n.Base)
	if baseAddr == nil || baseAddrT == nil {
		return nil
	}
	at := em.ConstValue(NewConst(ctx, Int32Type(Uniform), n.pos, int64(idx[0])))
	addr := em.ElementPtr(baseAddr, at, baseAddrT, "swizzle_ptr")
	return laneCorrect(em, addr, lvT)
}

// Value reads the named elements: a masked load for a single
// addressable element, extract and insert otherwise.
func (n *VectorMemberExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	ctx := em.Compile()
	idx, ok := n.indices()
	if !ok {
		return nil
	}
	if len(idx) == 1 {
		if addr := n.LValue(em); addr != nil {
			return em.MaskedLoad(addr, em.InternalMask(), n.LValueType(ctx), "swizzle_load")
		}
		v := n.Base.Value(em)
		if v == nil {
			return nil
		}
		return em.Extract(v, idx[0], "swizzle")
	}
	v := n.Base.Value(em)
	if v == nil {
		return nil
	}
	res := em.Undef(n.Type(ctx))
	for k, e := range idx {
		elt := em.Extract(v, e, "swizzle")
		res = em.Insert(res, k, elt, "swizzle")
	}
	return res
}
