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

// numericRank orders the numeric kinds by generality: an operand of a
// lower-ranked kind converts to the higher-ranked one when the two
// meet in an operator. Unsigned beats signed at the same width,
// floating-point beats integer.
func numericRank(k irkind.Kind) int {
	switch k {
	case irkind.Int8:
		return 1
	case irkind.Uint8:
		return 2
	case irkind.Int16:
		return 3
	case irkind.Uint16:
		return 4
	case irkind.Int32:
		return 5
	case irkind.Uint32, irkind.Enum:
		return 6
	case irkind.Int64:
		return 7
	case irkind.Uint64:
		return 8
	case irkind.Float:
		return 9
	case irkind.Double:
		return 10
	}
	return 0
}

// numericKind maps a scalar kind to the kind arithmetic treats it
// as: enumerations count as unsigned int32.
func numericKind(k irkind.Kind) irkind.Kind {
	if k == irkind.Enum {
		return irkind.Uint32
	}
	return k
}

// MoreGeneralType returns the type both a and b convert to when they
// meet in an operator, or nil after reporting a diagnostic that names
// reason when no such type exists. References are looked through; a
// varying operand makes the result varying.
func MoreGeneralType(ctx *CompileContext, a, b Type, pos source.Pos, reason string) Type {
	if a == nil || b == nil {
		return nil
	}
	if ra, ok := a.(*ReferenceType); ok {
		a = ra.Target()
	}
	if rb, ok := b.(*ReferenceType); ok {
		b = rb.Target()
	}
	if a == nil || b == nil {
		return nil
	}
	if EqualTypes(a, b) {
		return a
	}
	if IsVaryingType(a) || IsVaryingType(b) {
		a, b = a.AsVarying(), b.AsVarying()
		if EqualTypes(a, b) {
			return a
		}
	}

	if ap, ok := a.(*PointerType); ok {
		bp, ok := b.(*PointerType)
		if !ok {
			ctx.Errorf(pos, "Unable to find a common type between %q and %q for %s.", a, b, reason)
			return nil
		}
		switch {
		case EqualIgnoringConst(a, b):
			return a
		case IsVoidType(ap.Elem()):
			return a
		case IsVoidType(bp.Elem()):
			return b
		case EqualIgnoringConst(ap.Elem(), bp.Elem()):
			return a
		}
		ctx.Errorf(pos, "Unable to find a common type between %q and %q for %s.", a, b, reason)
		return nil
	}

	av, aIsVec := a.(*VectorType)
	bv, bIsVec := b.(*VectorType)
	if aIsVec && bIsVec {
		if av.Len() != bv.Len() {
			ctx.Errorf(pos, "Can't find a common type between differently sized vector types %q and %q for %s.", a, b, reason)
			return nil
		}
		elt := moreGeneralAtomic(ctx, av.Elem(), bv.Elem(), pos, reason)
		if elt == nil {
			return nil
		}
		return NewVectorType(elt, av.Len())
	}
	if aIsVec || bIsVec {
		// One vector, one scalar: the scalar spreads across the
		// vector's elements.
		vec, other := av, b
		if bIsVec {
			vec, other = bv, a
		}
		oa, ok := scalarOf(other)
		if !ok {
			ctx.Errorf(pos, "Unable to find a common type between %q and %q for %s.", a, b, reason)
			return nil
		}
		elt := moreGeneralAtomic(ctx, vec.Elem(), oa, pos, reason)
		if elt == nil {
			return nil
		}
		return NewVectorType(elt, vec.Len())
	}

	aa, aOK := scalarOf(a)
	ba, bOK := scalarOf(b)
	if !aOK || !bOK {
		ctx.Errorf(pos, "Unable to find a common type between %q and %q for %s.", a, b, reason)
		return nil
	}
	return moreGeneralAtomic(ctx, aa, ba, pos, reason)
}

// scalarOf views a type as a scalar atomic type if it is one,
// treating enumerations as unsigned int32.
func scalarOf(t Type) (*AtomicType, bool) {
	switch tt := t.(type) {
	case *AtomicType:
		return tt, true
	case *EnumType:
		return atomicOf(irkind.Uint32, tt.Variability(), tt.IsConst()), true
	}
	return nil, false
}

func moreGeneralAtomic(ctx *CompileContext, a, b *AtomicType, pos source.Pos, reason string) *AtomicType {
	ka, kb := numericKind(a.Kind()), numericKind(b.Kind())
	vrb := Uniform
	if a.Variability() == Varying || b.Variability() == Varying {
		vrb = Varying
	}
	if ka == kb {
		return atomicOf(ka, vrb, false)
	}
	ra, rb := numericRank(ka), numericRank(kb)
	if ra == 0 || rb == 0 {
		ctx.Errorf(pos, "Unable to find a common type between %q and %q for %s.", a, b, reason)
		return nil
	}
	if ra > rb {
		return atomicOf(ka, vrb, false)
	}
	return atomicOf(kb, vrb, false)
}

// MatchingBoolType returns the bool type with the same shape as t:
// same variability, and for vectors a bool vector of the same size.
func MatchingBoolType(t Type) Type {
	if t == nil {
		return nil
	}
	if rt, ok := t.(*ReferenceType); ok {
		t = rt.Target()
		if t == nil {
			return nil
		}
	}
	if vt, ok := t.(*VectorType); ok {
		return NewVectorType(BoolType(vt.Variability()), vt.Len())
	}
	return BoolType(t.Variability())
}
