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

// Package ir declares the typed intermediate representation of the
// compiler: the type system, the expression nodes, and the symbol
// table they resolve against.
//
// The set of Node implementations is closed. Consumers dispatch over
// the concrete types exhaustively; there is no provision for nodes
// defined outside this package.
package ir

import (
	"github.com/ospc-org/ospc/build/ir/irkind"
)

// Variability says whether a quantity has a single value shared by
// the whole gang or one value per program instance.
type Variability uint8

const (
	// Uniform quantities hold a single value shared across the gang.
	Uniform Variability = iota
	// Varying quantities hold one value per program instance.
	Varying
)

// String returns the variability the way the language spells it.
func (v Variability) String() string {
	if v == Uniform {
		return "uniform"
	}
	return "varying"
}

// Node is implemented by every node of the representation.
type Node interface {
	node()
}

// Type is the interface implemented by all types.
type Type interface {
	Node

	// Kind of the type.
	Kind() irkind.Kind
	// Variability of values of the type.
	Variability() Variability
	// IsConst reports whether values of the type cannot be written.
	IsConst() bool
	// AsVarying returns the varying version of the type.
	AsVarying() Type
	// AsUniform returns the uniform version of the type.
	AsUniform() Type
	// AsConst returns the type with the const qualifier added.
	AsConst() Type
	// AsNonConst returns the type with the const qualifier removed.
	AsNonConst() Type
	// String returns the type as the language spells it.
	String() string
}

// AtomicType is a scalar type: bool, an integer type, or a
// floating-point type, plus void. Instances are canonical: there is
// exactly one per kind, variability and constness, so the accessors
// below always hand out the same pointers.
type AtomicType struct {
	knd  irkind.Kind
	vrb  Variability
	cnst bool
}

var (
	voidT   = &AtomicType{knd: irkind.Void}
	atomics [irkind.Max][2][2]*AtomicType
)

func init() {
	for k := irkind.Kind(0); k < irkind.Max; k++ {
		if !irkind.IsAtomic(k) {
			continue
		}
		for v := 0; v < 2; v++ {
			for c := 0; c < 2; c++ {
				atomics[k][v][c] = &AtomicType{knd: k, vrb: Variability(v), cnst: c == 1}
			}
		}
	}
}

func atomicOf(k irkind.Kind, v Variability, cnst bool) *AtomicType {
	if k == irkind.Void {
		return voidT
	}
	if !irkind.IsAtomic(k) {
		return nil
	}
	c := 0
	if cnst {
		c = 1
	}
	return atomics[k][v][c]
}

// AtomicOf returns the canonical scalar type of a kind, or nil if the
// kind is not atomic.
func AtomicOf(k irkind.Kind, v Variability) *AtomicType {
	return atomicOf(k, v, false)
}

// VoidType returns the type of expressions producing no value.
func VoidType() *AtomicType { return voidT }

// BoolType returns the bool type with the given variability.
func BoolType(v Variability) *AtomicType { return atomicOf(irkind.Bool, v, false) }

// Int8Type returns the int8 type with the given variability.
func Int8Type(v Variability) *AtomicType { return atomicOf(irkind.Int8, v, false) }

// Uint8Type returns the unsigned int8 type with the given variability.
func Uint8Type(v Variability) *AtomicType { return atomicOf(irkind.Uint8, v, false) }

// Int16Type returns the int16 type with the given variability.
func Int16Type(v Variability) *AtomicType { return atomicOf(irkind.Int16, v, false) }

// Uint16Type returns the unsigned int16 type with the given variability.
func Uint16Type(v Variability) *AtomicType { return atomicOf(irkind.Uint16, v, false) }

// Int32Type returns the int32 type with the given variability.
func Int32Type(v Variability) *AtomicType { return atomicOf(irkind.Int32, v, false) }

// Uint32Type returns the unsigned int32 type with the given variability.
func Uint32Type(v Variability) *AtomicType { return atomicOf(irkind.Uint32, v, false) }

// Int64Type returns the int64 type with the given variability.
func Int64Type(v Variability) *AtomicType { return atomicOf(irkind.Int64, v, false) }

// Uint64Type returns the unsigned int64 type with the given variability.
func Uint64Type(v Variability) *AtomicType { return atomicOf(irkind.Uint64, v, false) }

// FloatType returns the float type with the given variability.
func FloatType(v Variability) *AtomicType { return atomicOf(irkind.Float, v, false) }

// DoubleType returns the double type with the given variability.
func DoubleType(v Variability) *AtomicType { return atomicOf(irkind.Double, v, false) }

func (t *AtomicType) node() {}

// Kind of the type.
func (t *AtomicType) Kind() irkind.Kind { return t.knd }

// Variability of values of the type.
func (t *AtomicType) Variability() Variability { return t.vrb }

// IsConst reports whether values of the type cannot be written.
func (t *AtomicType) IsConst() bool { return t.cnst }

// AsVarying returns the varying version of the type. Void has no
// varying version and is returned unchanged.
func (t *AtomicType) AsVarying() Type {
	if t.knd == irkind.Void {
		return t
	}
	return atomicOf(t.knd, Varying, t.cnst)
}

// AsUniform returns the uniform version of the type.
func (t *AtomicType) AsUniform() Type {
	if t.knd == irkind.Void {
		return t
	}
	return atomicOf(t.knd, Uniform, t.cnst)
}

// AsConst returns the type with the const qualifier added.
func (t *AtomicType) AsConst() Type {
	if t.knd == irkind.Void {
		return t
	}
	return atomicOf(t.knd, t.vrb, true)
}

// AsNonConst returns the type with the const qualifier removed.
func (t *AtomicType) AsNonConst() Type {
	if t.knd == irkind.Void {
		return t
	}
	return atomicOf(t.knd, t.vrb, false)
}

// String returns the type as the language spells it.
func (t *AtomicType) String() string {
	if t.knd == irkind.Void {
		return "void"
	}
	s := ""
	if t.cnst {
		s = "const "
	}
	return s + t.vrb.String() + " " + t.knd.String()
}

// IsUniformType returns true if t is non-nil and uniform.
func IsUniformType(t Type) bool {
	return t != nil && t.Variability() == Uniform
}

// IsVaryingType returns true if t is non-nil and varying.
func IsVaryingType(t Type) bool {
	return t != nil && t.Variability() == Varying
}

// IsVoidType returns true if t is non-nil and void.
func IsVoidType(t Type) bool {
	return t != nil && t.Kind() == irkind.Void
}

// EqualTypes reports whether two types denote exactly the same type,
// qualifiers included. A nil on either side never matches.
func EqualTypes(a, b Type) bool {
	if a == nil || b == nil {
		return false
	}
	switch at := a.(type) {
	case *AtomicType:
		bt, ok := b.(*AtomicType)
		return ok && at.knd == bt.knd && at.vrb == bt.vrb && at.cnst == bt.cnst
	case *EnumType:
		bt, ok := b.(*EnumType)
		return ok && at.name == bt.name && at.vrb == bt.vrb && at.cnst == bt.cnst
	case *PointerType:
		bt, ok := b.(*PointerType)
		return ok && at.vrb == bt.vrb && at.cnst == bt.cnst && EqualTypes(at.to, bt.to)
	case *ReferenceType:
		bt, ok := b.(*ReferenceType)
		return ok && EqualTypes(at.to, bt.to)
	case *ArrayType:
		bt, ok := b.(*ArrayType)
		return ok && at.n == bt.n && EqualTypes(at.elt, bt.elt)
	case *VectorType:
		bt, ok := b.(*VectorType)
		return ok && at.n == bt.n && EqualTypes(at.elt, bt.elt)
	case *StructType:
		bt, ok := b.(*StructType)
		if !ok || at.name != bt.name || at.vrb != bt.vrb || at.cnst != bt.cnst {
			return false
		}
		if len(at.fields) != len(bt.fields) {
			return false
		}
		for i := range at.fields {
			if at.fields[i].Name != bt.fields[i].Name {
				return false
			}
			if !EqualTypes(at.fields[i].Type, bt.fields[i].Type) {
				return false
			}
		}
		return true
	case *FunctionType:
		bt, ok := b.(*FunctionType)
		if !ok || at.task != bt.task || !EqualTypes(at.ret, bt.ret) {
			return false
		}
		if len(at.params) != len(bt.params) {
			return false
		}
		for i := range at.params {
			if !EqualTypes(at.params[i].Type, bt.params[i].Type) {
				return false
			}
		}
		return true
	}
	return false
}

// EqualIgnoringConst reports whether two types are the same modulo
// their outermost const qualifier.
func EqualIgnoringConst(a, b Type) bool {
	if a == nil || b == nil {
		return false
	}
	return EqualTypes(a.AsNonConst(), b.AsNonConst())
}
