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
	"github.com/ospc-org/ospc/build/source"
)

// CanConvert reports whether a value of type from can be implicitly
// converted to type to. It reports no diagnostics: overload
// resolution probes many conversions that will never happen.
func CanConvert(ctx *CompileContext, from, to Type) bool {
	return typeConv(ctx, from, to, nil, "", source.Pos{}, true)
}

// ConvertExpr converts expr to type to, inserting conversion nodes
// around it as needed, and returns the converted expression. A nil
// return means the conversion is illegal; a diagnostic naming reason
// has been reported.
func ConvertExpr(ctx *CompileContext, expr Expr, to Type, reason string) Expr {
	if expr == nil || to == nil {
		return nil
	}
	from := expr.Type(ctx)
	if from == nil {
		return nil
	}
	if EqualTypes(from, to) {
		return expr
	}
	e := expr
	if !typeConv(ctx, from, to, &e, reason, expr.Pos(), false) {
		return nil
	}
	return e
}

// typeConv decides whether from converts to to, walking the rules in
// priority order. When expr is non-nil, it is rewritten to include
// the conversion nodes. In probe mode nothing is reported and nothing
// is rewritten.
func typeConv(ctx *CompileContext, from, to Type, expr *Expr, reason string, pos source.Pos, probe bool) bool {
	if from == nil || to == nil {
		return false
	}
	fail := func(format string, a ...any) bool {
		if !probe {
			ctx.Errorf(pos, format, a...)
		}
		return false
	}

	if EqualTypes(from, to) {
		return true
	}

	// References convert by binding, dereferencing, or adjusting
	// the const qualifier of their target.
	fr, fromIsRef := from.(*ReferenceType)
	tr, toIsRef := to.(*ReferenceType)
	switch {
	case fromIsRef && toIsRef:
		ft, tt := fr.Target(), tr.Target()
		if EqualTypes(ft, tt) || (ft != nil && EqualTypes(ft.AsConst(), tt)) {
			return addCast(ctx, expr, to)
		}
		return fail("Can't convert between incompatible reference types %q and %q for %s.", from, to, reason)
	case fromIsRef:
		if !addDeref(ctx, expr) {
			return false
		}
		return typeConv(ctx, fr.Target(), to, expr, reason, pos, probe)
	case toIsRef:
		tt := tr.Target()
		if EqualTypes(from, tt) || EqualTypes(from.AsConst(), tt) {
			return addRef(ctx, expr)
		}
		return fail("Can't convert type %q to reference type %q for %s.", from, to, reason)
	}

	if IsVoidType(from) || IsVoidType(to) {
		return fail("Can't convert between types %q and %q for %s.", from, to, reason)
	}

	// Arrays decay to a pointer to their first element, then the
	// pointer rules apply.
	if fa, ok := from.(*ArrayType); ok {
		if ta, ok := to.(*ArrayType); ok {
			return arrayConv(ctx, fa, ta, expr, reason, pos, probe)
		}
		if _, ok := to.(*PointerType); ok {
			if !decayArray(ctx, expr) {
				return false
			}
			mid := NewPointerType(Uniform, fa.Elem())
			return typeConv(ctx, mid, to, expr, reason, pos, probe)
		}
		return fail("Can't convert array type %q to type %q for %s.", from, to, reason)
	}

	if IsVaryingType(from) && IsUniformType(to) {
		return fail("Can't convert from varying type %q to uniform type %q for %s.", from, to, reason)
	}

	if fp, ok := from.(*PointerType); ok {
		switch tt := to.(type) {
		case *PointerType:
			return pointerConv(ctx, fp, tt, expr, reason, pos, probe)
		case *AtomicType:
			// A pointer converts to bool: the test against null.
			if tt.Kind() == irkind.Bool {
				return addCast(ctx, expr, to)
			}
		}
		return fail("Can't convert pointer type %q to type %q for %s.", from, to, reason)
	}

	if _, ok := to.(*PointerType); ok {
		// The zero integer literal is the null pointer.
		if expr != nil && IsConstZero(*expr) {
			*expr = &NullPointerExpr{exprBase: exprBase{pos: pos}, typ: to.AsNonConst()}
			return true
		}
		return fail("Can't convert type %q to pointer type %q for %s; use an explicit cast.", from, to, reason)
	}

	switch ft := from.(type) {
	case *EnumType:
		switch tt := to.(type) {
		case *EnumType:
			return addCast(ctx, expr, to)
		case *AtomicType:
			if irkind.IsNumeric(tt.Kind()) || tt.Kind() == irkind.Bool {
				return addCast(ctx, expr, to)
			}
		}
	case *StructType:
		tt, ok := to.(*StructType)
		if !ok {
			return fail("Can't convert struct type %q to type %q for %s.", from, to, reason)
		}
		if !EqualTypes(ft.with(Uniform, false), tt.with(Uniform, false)) {
			return fail("Can't convert between incompatible struct types %q and %q for %s.", from, to, reason)
		}
		return addCast(ctx, expr, to)
	case *VectorType:
		tt, ok := to.(*VectorType)
		if !ok {
			return fail("Can't convert vector type %q to type %q for %s.", from, to, reason)
		}
		if ft.Len() != tt.Len() {
			return fail("Can't convert between differently sized vector types %q and %q for %s.", from, to, reason)
		}
		return addCast(ctx, expr, to)
	case *AtomicType:
		switch tt := to.(type) {
		case *VectorType:
			// A scalar broadcasts across the vector's elements.
			if atomicKindsConvert(ft.Kind(), tt.Elem().Kind()) {
				return addCast(ctx, expr, to)
			}
		case *AtomicType:
			if atomicKindsConvert(ft.Kind(), tt.Kind()) {
				return addCast(ctx, expr, to)
			}
		case *EnumType:
			return fail("Can't convert type %q to enum type %q for %s; use an explicit cast.", from, to, reason)
		}
	}
	return fail("Can't convert between types %q and %q for %s.", from, to, reason)
}

func atomicKindsConvert(from, to irkind.Kind) bool {
	fromOK := irkind.IsNumeric(from) || from == irkind.Bool
	toOK := irkind.IsNumeric(to) || to == irkind.Bool
	return fromOK && toOK
}

func pointerConv(ctx *CompileContext, from, to *PointerType, expr *Expr, reason string, pos source.Pos, probe bool) bool {
	fail := func(format string, a ...any) bool {
		if !probe {
			ctx.Errorf(pos, format, a...)
		}
		return false
	}
	fe, te := from.Elem(), to.Elem()
	if fe != nil && te != nil && fe.IsConst() && !te.IsConst() {
		return fail("Can't convert from pointer to const type %q to pointer to non-const type %q for %s.", from, to, reason)
	}
	if !EqualIgnoringConst(fe, te) && !IsVoidType(fe) && !IsVoidType(te) {
		return fail("Can't convert between incompatible pointer types %q and %q for %s.", from, to, reason)
	}
	return addCast(ctx, expr, to)
}

func arrayConv(ctx *CompileContext, from, to *ArrayType, expr *Expr, reason string, pos source.Pos, probe bool) bool {
	fe, te := from.Elem(), to.Elem()
	if !EqualTypes(fe, te) && !(fe != nil && EqualTypes(fe.AsConst(), te)) {
		if !probe {
			ctx.Errorf(pos, "Can't convert between incompatible array types %q and %q for %s.", from, to, reason)
		}
		return false
	}
	if !probe && to.Len() != 0 && from.Len() != to.Len() {
		ctx.Warningf(pos, "Type-converting array of length %d to length %d.", from.Len(), to.Len())
	}
	return addCast(ctx, expr, to)
}

// addCast wraps the expression in a type cast to the target type.
func addCast(ctx *CompileContext, expr *Expr, to Type) bool {
	if expr == nil {
		return true
	}
	cast := &TypeCastExpr{exprBase: exprBase{pos: (*expr).Pos()}, To: to, X: *expr}
	tc := cast.TypeCheck(ctx)
	if tc == nil {
		return false
	}
	*expr = tc
	return true
}

// addRef binds the expression behind a reference.
func addRef(ctx *CompileContext, expr *Expr) bool {
	if expr == nil {
		return true
	}
	ref := &ReferenceExpr{exprBase: exprBase{pos: (*expr).Pos()}, X: *expr}
	tc := ref.TypeCheck(ctx)
	if tc == nil {
		return false
	}
	*expr = tc
	return true
}

// addDeref reads the value the reference refers to.
func addDeref(ctx *CompileContext, expr *Expr) bool {
	if expr == nil {
		return true
	}
	deref := &DereferenceExpr{exprBase: exprBase{pos: (*expr).Pos()}, X: *expr}
	tc := deref.TypeCheck(ctx)
	if tc == nil {
		return false
	}
	*expr = tc
	return true
}

// decayArray rewrites the expression as the address of its first
// element.
func decayArray(ctx *CompileContext, expr *Expr) bool {
	if expr == nil {
		return true
	}
	pos := (*expr).Pos()
	zero := NewConst(ctx, Int32Type(Uniform), pos, 0)
	index := &IndexExpr{exprBase: exprBase{pos: pos}, Base: *expr, Index: zero}
	addr := &AddressOfExpr{exprBase: exprBase{pos: pos}, X: index}
	tc := addr.TypeCheck(ctx)
	if tc == nil {
		return false
	}
	*expr = tc
	return true
}
