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
	"github.com/ospc-org/ospc/build/ir/irkind"
)

// IndexExpr indexes into a pointer, array or vector.
type IndexExpr struct {
	exprBase
	Base, Index Expr
}

var (
	_ Expr        = (*IndexExpr)(nil)
	_ StorageExpr = (*IndexExpr)(nil)
)

// indexedElem returns the element type reached by indexing into t,
// or nil when t cannot be indexed.
func indexedElem(t Type) Type {
	switch tt := t.(type) {
	case *PointerType:
		return tt.Elem()
	case *ArrayType:
		return tt.Elem()
	case *VectorType:
		return tt.Elem()
	}
	return nil
}

// Type returns the element type, varying when the index or a pointer
// base is varying.
func (n *IndexExpr) Type(ctx *CompileContext) Type {
	bt := derefTargetType(TypeOf(ctx, n.Base))
	if bt == nil {
		return nil
	}
	elt := indexedElem(bt)
	if elt == nil {
		return nil
	}
	it := TypeOf(ctx, n.Index)
	if it == nil {
		return nil
	}
	if IsVaryingType(it) {
		return elt.AsVarying()
	}
	if pt, ok := bt.(*PointerType); ok && IsVaryingType(pt) {
		return elt.AsVarying()
	}
	return elt
}

// TypeCheck verifies the base can be indexed, converts the index to
// the right integer shape, and warns about constant indexes that fall
// outside a sized array.
func (n *IndexExpr) TypeCheck(ctx *CompileContext) Expr {
	base := TypeCheckExpr(ctx, n.Base)
	index := TypeCheckExpr(ctx, n.Index)
	bt := derefTargetType(TypeOf(ctx, base))
	it := TypeOf(ctx, index)
	if bt == nil || it == nil {
		return nil
	}

	if pt, ok := bt.(*PointerType); ok {
		if !checkPointerArith(ctx, pt, n.pos) {
			return nil
		}
	} else if indexedElem(bt) == nil {
		ctx.Errorf(n.pos, "Trying to index into non-array, vector, or pointer type %q.", bt)
		return nil
	}

	if !irkind.IsInteger(it.Kind()) {
		ctx.Errorf(n.pos, "Array index must be an integer type, not %q.", it)
		return nil
	}
	// A uniform index keeps indexing on the scalar path unless
	// uniform memory optimizations are off.
	idxT := Int32Type(Varying)
	if IsUniformType(it) && !ctx.Opt.DisableUniformMemoryOptimizations {
		idxT = Int32Type(Uniform)
	}
	index = ConvertExpr(ctx, index, idxT, "array index")
	if index == nil {
		return nil
	}

	if at, ok := bt.(*ArrayType); ok && at.Len() > 0 {
		if c, isConst := index.(*ConstExpr); isConst {
			for _, v := range c.AsInt32(ctx, false) {
				if v < 0 || int(v) >= at.Len() {
					ctx.Warningf(n.Index.Pos(), "Array index \"%d\" may be out of bounds for %d element array.",
						v, at.Len())
					break
				}
			}
		}
	}
	return &IndexExpr{exprBase: n.exprBase, Base: base, Index: index}
}

// Optimize folds the base and the index.
func (n *IndexExpr) Optimize(ctx *CompileContext) Expr {
	base := OptimizeExpr(ctx, n.Base)
	index := OptimizeExpr(ctx, n.Index)
	if base == nil || index == nil {
		return nil
	}
	return &IndexExpr{exprBase: n.exprBase, Base: base, Index: index}
}

// Cost of an indexed access: a gather when the address is varying, a
// load otherwise.
func (n *IndexExpr) Cost(ctx *CompileContext) int {
	lt := n.LValueType(ctx)
	if lt != nil && IsVaryingType(lt) {
		return CostGather
	}
	return CostLoad
}

// BaseSymbol returns the symbol the base storage belongs to.
func (n *IndexExpr) BaseSymbol() *Symbol { return n.Base.BaseSymbol() }

// LValueType returns the pointer type of the indexed element's
// address: varying as soon as the index or a pointer base is.
func (n *IndexExpr) LValueType(ctx *CompileContext) Type {
	bt := derefTargetType(TypeOf(ctx, n.Base))
	it := TypeOf(ctx, n.Index)
	if bt == nil || it == nil {
		return nil
	}
	elt := indexedElem(bt)
	if elt == nil {
		return nil
	}
	v := Uniform
	if IsVaryingType(it) {
		v = Varying
	}
	if pt, ok := bt.(*PointerType); ok && IsVaryingType(pt) {
		v = Varying
	}
	return NewPointerType(v, elt)
}

// laneCorrect applies the per-lane byte offset that makes lane i of a
// varying pointer into varying data address its own i-th element.
func laneCorrect(em EmitContext, addr Value, addrType Type) Value {
	pt, ok := addrType.(*PointerType)
	if !ok || addr == nil {
		return addr
	}
	if IsVaryingType(pt) && IsVaryingType(pt.Elem()) {
		return em.LanePointers(addr, pt)
	}
	return addr
}

// LValue computes the element's address. A pointer base contributes
// its value; an array or vector base contributes its storage address.
func (n *IndexExpr) LValue(em EmitContext) Value {
	ctx := em.Compile()
	bt := derefTargetType(TypeOf(ctx, n.Base))
	lvT := n.LValueType(ctx)
	if bt == nil || lvT == nil {
		return nil
	}
	idx := n.Index.Value(em)
	if idx == nil {
		return nil
	}
	var addr Value
	if pt, ok := bt.(*PointerType); ok {
		base := n.Base.Value(em)
		if base == nil {
			return nil
		}
		addr = em.ElementPtr(base, idx, pt, "index_ptr")
	} else {
		baseAddr, baseAddrT := lvalueAndType(ctx, em, n.Base)
		if baseAddr == nil || baseAddrT == nil {
			return nil
		}
		addr = em.ElementPtr(baseAddr, idx, baseAddrT, "index_elem")
	}
	return laneCorrect(em, addr, lvT)
}

// Value loads the indexed element under the current mask. When the
// base value has no storage of its own it is spilled to scratch
// space first.
func (n *IndexExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	ctx := em.Compile()
	lvT := n.LValueType(ctx)
	if lvT == nil {
		return nil
	}
	addr := n.LValue(em)
	if addr == nil {
		bt := derefTargetType(TypeOf(ctx, n.Base))
		if bt == nil {
			return nil
		}
		v := n.Base.Value(em)
		idx := n.Index.Value(em)
		if v == nil || idx == nil {
			return nil
		}
		scratch := em.Alloca(bt, "index_scratch")
		em.Store(v, scratch)
		addr = em.ElementPtr(scratch, idx, NewPointerType(Uniform, bt), "index_elem")
		addr = laneCorrect(em, addr, lvT)
	}
	return em.MaskedLoad(addr, em.InternalMask(), lvT, "index_load")
}
