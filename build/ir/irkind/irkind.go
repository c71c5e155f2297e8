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

// Package irkind defines kinds for the ospc intermediate representation (IR).
package irkind

import "github.com/gx-org/backend/dtype"

// Kind of a type.
type Kind uint

// Kind of data supported by the language.
const (
	Invalid = Kind(dtype.Invalid)

	Bool   = Kind(dtype.Bool)
	Int32  = Kind(dtype.Int32)
	Int64  = Kind(dtype.Int64)
	Uint32 = Kind(dtype.Uint32)
	Uint64 = Kind(dtype.Uint64)
	Float  = Kind(dtype.Float32)
	Double = Kind(dtype.Float64)

	// Int8 and everything after it has no backend data type;
	// DType returns dtype.Invalid for these kinds.
	Int8 = Kind(iota + dtype.MaxDataType)
	Uint8
	Int16
	Uint16

	// Void is the kind of expressions returning nothing.
	Void

	Enum
	Pointer
	Reference
	Array
	Vector
	Struct
	Func

	// Max value for a Kind constant.
	Max
)

// String returns a string representation of a kind, using the
// spelling the language uses for the corresponding type.
func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Uint8:
		return "unsigned int8"
	case Int16:
		return "int16"
	case Uint16:
		return "unsigned int16"
	case Int32:
		return "int32"
	case Uint32:
		return "unsigned int32"
	case Int64:
		return "int64"
	case Uint64:
		return "unsigned int64"
	case Float:
		return "float"
	case Double:
		return "double"
	case Void:
		return "void"
	case Enum:
		return "enum"
	case Pointer:
		return "pointer"
	case Reference:
		return "reference"
	case Array:
		return "array"
	case Vector:
		return "vector"
	case Struct:
		return "struct"
	case Func:
		return "function"
	}
	return "invalid"
}

// DType converts a kind into a backend data type.
func (k Kind) DType() dtype.DataType {
	if k >= dtype.MaxDataType {
		return dtype.Invalid
	}
	return dtype.DataType(k)
}

// KindFromString returns an atomic kind given an identifier. It only
// works for the scalar types that don't take other parameters.
func KindFromString(ident string) Kind {
	switch ident {
	case "bool":
		return Bool
	case "int8":
		return Int8
	case "unsigned int8":
		return Uint8
	case "int16":
		return Int16
	case "unsigned int16":
		return Uint16
	case "int32", "int":
		return Int32
	case "unsigned int32", "unsigned int":
		return Uint32
	case "int64":
		return Int64
	case "unsigned int64":
		return Uint64
	case "float":
		return Float
	case "double":
		return Double
	case "void":
		return Void
	default:
		return Invalid
	}
}

// KindGeneric returns the kind of a value from its Go type.
// If the type is not supported, an invalid kind is returned.
func KindGeneric[T dtype.GoDataType]() Kind {
	return Kind(dtype.Generic[T]())
}

// IsAtomic returns true if the kind is a scalar numeric or bool kind.
func IsAtomic(k Kind) bool {
	switch k {
	case Bool, Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64, Float, Double:
		return true
	}
	return false
}

// IsInteger returns true if the kind is an integer. Enumerations
// count: they behave as unsigned int32 in arithmetic.
func IsInteger(k Kind) bool {
	switch k {
	case Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64, Enum:
		return true
	}
	return false
}

// IsSigned returns true if the kind is a signed integer.
func IsSigned(k Kind) bool {
	switch k {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// IsUnsigned returns true if values of the kind zero-extend. Bool
// counts, as do enumerations.
func IsUnsigned(k Kind) bool {
	switch k {
	case Bool, Uint8, Uint16, Uint32, Uint64, Enum:
		return true
	}
	return false
}

// IsFloat returns true if the kind is a floating-point kind.
func IsFloat(k Kind) bool {
	return k == Float || k == Double
}

// IsNumeric returns true if the kind supports arithmetic.
func IsNumeric(k Kind) bool {
	return IsInteger(k) || IsFloat(k)
}

// BitSize returns the number of bits a value of an atomic kind
// occupies, or 0 for kinds with no fixed scalar size.
func BitSize(k Kind) int {
	switch k {
	case Bool:
		return 1
	case Int8, Uint8:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float, Enum:
		return 32
	case Int64, Uint64, Double:
		return 64
	}
	return 0
}
