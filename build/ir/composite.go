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
	"strings"

	"github.com/ospc-org/ospc/build/ir/irkind"
	"github.com/ospc-org/ospc/build/source"
)

// EnumType is a named enumeration. Its values behave as unsigned
// int32 in arithmetic and conversions.
type EnumType struct {
	name  string
	pos   source.Pos
	vrb   Variability
	cnst  bool
	enums []*Symbol
}

var _ Type = (*EnumType)(nil)

// NewEnumType returns a new uniform, non-const enumeration type.
// Enumerators are attached once they have been declared.
func NewEnumType(name string, pos source.Pos) *EnumType {
	return &EnumType{name: name, pos: pos}
}

func (t *EnumType) node() {}

// Name of the enumeration.
func (t *EnumType) Name() string { return t.name }

// Pos returns where the enumeration was declared.
func (t *EnumType) Pos() source.Pos { return t.pos }

// SetEnumerators records the declared enumerators of the type.
func (t *EnumType) SetEnumerators(enums []*Symbol) { t.enums = enums }

// Enumerators returns the declared enumerators of the type.
func (t *EnumType) Enumerators() []*Symbol { return t.enums }

// Kind of the type.
func (t *EnumType) Kind() irkind.Kind { return irkind.Enum }

// Variability of values of the type.
func (t *EnumType) Variability() Variability { return t.vrb }

// IsConst reports whether values of the type cannot be written.
func (t *EnumType) IsConst() bool { return t.cnst }

func (t *EnumType) with(vrb Variability, cnst bool) Type {
	if t.vrb == vrb && t.cnst == cnst {
		return t
	}
	n := *t
	n.vrb, n.cnst = vrb, cnst
	return &n
}

// AsVarying returns the varying version of the type.
func (t *EnumType) AsVarying() Type { return t.with(Varying, t.cnst) }

// AsUniform returns the uniform version of the type.
func (t *EnumType) AsUniform() Type { return t.with(Uniform, t.cnst) }

// AsConst returns the type with the const qualifier added.
func (t *EnumType) AsConst() Type { return t.with(t.vrb, true) }

// AsNonConst returns the type with the const qualifier removed.
func (t *EnumType) AsNonConst() Type { return t.with(t.vrb, false) }

// String returns the type as the language spells it.
func (t *EnumType) String() string {
	s := ""
	if t.cnst {
		s = "const "
	}
	return s + t.vrb.String() + " enum " + t.name
}

// PointerType is a pointer to another type. The pointer itself has a
// variability independent of its pointee: a varying pointer holds one
// address per program instance.
type PointerType struct {
	to   Type
	vrb  Variability
	cnst bool
}

var _ Type = (*PointerType)(nil)

// NewPointerType returns a pointer type with the given variability.
func NewPointerType(v Variability, to Type) *PointerType {
	return &PointerType{to: to, vrb: v}
}

// VoidPointerType returns a pointer to void with the given variability.
func VoidPointerType(v Variability) *PointerType {
	return NewPointerType(v, VoidType())
}

func (t *PointerType) node() {}

// Elem returns the pointed-to type.
func (t *PointerType) Elem() Type { return t.to }

// Kind of the type.
func (t *PointerType) Kind() irkind.Kind { return irkind.Pointer }

// Variability of the pointer itself.
func (t *PointerType) Variability() Variability { return t.vrb }

// IsConst reports whether the pointer itself cannot be written.
// Whether the pointee can be written is a property of Elem.
func (t *PointerType) IsConst() bool { return t.cnst }

func (t *PointerType) with(vrb Variability, cnst bool) Type {
	if t.vrb == vrb && t.cnst == cnst {
		return t
	}
	return &PointerType{to: t.to, vrb: vrb, cnst: cnst}
}

// AsVarying returns the varying version of the pointer.
func (t *PointerType) AsVarying() Type { return t.with(Varying, t.cnst) }

// AsUniform returns the uniform version of the pointer.
func (t *PointerType) AsUniform() Type { return t.with(Uniform, t.cnst) }

// AsConst returns the pointer with the const qualifier added.
func (t *PointerType) AsConst() Type { return t.with(t.vrb, true) }

// AsNonConst returns the pointer with the const qualifier removed.
func (t *PointerType) AsNonConst() Type { return t.with(t.vrb, false) }

// String returns the type as the language spells it.
func (t *PointerType) String() string {
	s := "<nil> *"
	if t.to != nil {
		s = t.to.String() + " *"
	}
	if t.cnst {
		s += " const"
	}
	return s + " " + t.vrb.String()
}

// ReferenceType is a reference to another type. References carry no
// qualifiers of their own: variability and constness come from the
// referenced type.
type ReferenceType struct {
	to Type
}

var _ Type = (*ReferenceType)(nil)

// NewReferenceType returns a reference to a type. A reference to a
// reference collapses to the inner reference.
func NewReferenceType(to Type) *ReferenceType {
	if r, ok := to.(*ReferenceType); ok {
		return r
	}
	return &ReferenceType{to: to}
}

func (t *ReferenceType) node() {}

// Target returns the referenced type.
func (t *ReferenceType) Target() Type { return t.to }

// Kind of the type.
func (t *ReferenceType) Kind() irkind.Kind { return irkind.Reference }

// Variability of the referenced type.
func (t *ReferenceType) Variability() Variability {
	if t.to == nil {
		return Uniform
	}
	return t.to.Variability()
}

// IsConst reports whether the referenced type is const.
func (t *ReferenceType) IsConst() bool {
	return t.to != nil && t.to.IsConst()
}

// AsVarying returns a reference to the varying version of the target.
func (t *ReferenceType) AsVarying() Type {
	if t.to == nil {
		return t
	}
	return NewReferenceType(t.to.AsVarying())
}

// AsUniform returns a reference to the uniform version of the target.
func (t *ReferenceType) AsUniform() Type {
	if t.to == nil {
		return t
	}
	return NewReferenceType(t.to.AsUniform())
}

// AsConst returns a reference to the const version of the target.
func (t *ReferenceType) AsConst() Type {
	if t.to == nil {
		return t
	}
	return NewReferenceType(t.to.AsConst())
}

// AsNonConst returns a reference to the non-const version of the target.
func (t *ReferenceType) AsNonConst() Type {
	if t.to == nil {
		return t
	}
	return NewReferenceType(t.to.AsNonConst())
}

// String returns the type as the language spells it.
func (t *ReferenceType) String() string {
	if t.to == nil {
		return "<nil> &"
	}
	return t.to.String() + " &"
}

// ArrayType is a fixed-size array. A length of zero marks an array
// whose size has not been declared, as in a parameter declared T a[].
type ArrayType struct {
	elt Type
	n   int
}

var _ Type = (*ArrayType)(nil)

// NewArrayType returns an array of n elements of a type.
func NewArrayType(elt Type, n int) *ArrayType {
	return &ArrayType{elt: elt, n: n}
}

func (t *ArrayType) node() {}

// Elem returns the element type.
func (t *ArrayType) Elem() Type { return t.elt }

// Len returns the number of elements, or 0 for an unsized array.
func (t *ArrayType) Len() int { return t.n }

// Kind of the type.
func (t *ArrayType) Kind() irkind.Kind { return irkind.Array }

// Variability of the elements.
func (t *ArrayType) Variability() Variability {
	if t.elt == nil {
		return Uniform
	}
	return t.elt.Variability()
}

// IsConst reports whether the elements are const.
func (t *ArrayType) IsConst() bool {
	return t.elt != nil && t.elt.IsConst()
}

// AsVarying returns an array of the varying version of the elements.
func (t *ArrayType) AsVarying() Type {
	if t.elt == nil {
		return t
	}
	return NewArrayType(t.elt.AsVarying(), t.n)
}

// AsUniform returns an array of the uniform version of the elements.
func (t *ArrayType) AsUniform() Type {
	if t.elt == nil {
		return t
	}
	return NewArrayType(t.elt.AsUniform(), t.n)
}

// AsConst returns an array of the const version of the elements.
func (t *ArrayType) AsConst() Type {
	if t.elt == nil {
		return t
	}
	return NewArrayType(t.elt.AsConst(), t.n)
}

// AsNonConst returns an array of the non-const version of the elements.
func (t *ArrayType) AsNonConst() Type {
	if t.elt == nil {
		return t
	}
	return NewArrayType(t.elt.AsNonConst(), t.n)
}

// String returns the type as the language spells it.
func (t *ArrayType) String() string {
	elt := "<nil>"
	if t.elt != nil {
		elt = t.elt.String()
	}
	if t.n == 0 {
		return elt + "[]"
	}
	return fmt.Sprintf("%s[%d]", elt, t.n)
}

// VectorType is a short vector of a scalar type, as declared with the
// vector-size syntax T<n>. Unlike varying values, all elements belong
// to the same program instance.
type VectorType struct {
	elt *AtomicType
	n   int
}

var _ Type = (*VectorType)(nil)

// NewVectorType returns a vector of n elements of a scalar type.
func NewVectorType(elt *AtomicType, n int) *VectorType {
	return &VectorType{elt: elt, n: n}
}

func (t *VectorType) node() {}

// Elem returns the element type.
func (t *VectorType) Elem() *AtomicType { return t.elt }

// Len returns the number of elements.
func (t *VectorType) Len() int { return t.n }

// Kind of the type.
func (t *VectorType) Kind() irkind.Kind { return irkind.Vector }

// Variability of the elements.
func (t *VectorType) Variability() Variability {
	if t.elt == nil {
		return Uniform
	}
	return t.elt.Variability()
}

// IsConst reports whether the elements are const.
func (t *VectorType) IsConst() bool {
	return t.elt != nil && t.elt.IsConst()
}

func (t *VectorType) withElem(elt Type) Type {
	at, ok := elt.(*AtomicType)
	if !ok {
		return t
	}
	return NewVectorType(at, t.n)
}

// AsVarying returns a vector of the varying version of the elements.
func (t *VectorType) AsVarying() Type {
	if t.elt == nil {
		return t
	}
	return t.withElem(t.elt.AsVarying())
}

// AsUniform returns a vector of the uniform version of the elements.
func (t *VectorType) AsUniform() Type {
	if t.elt == nil {
		return t
	}
	return t.withElem(t.elt.AsUniform())
}

// AsConst returns a vector of the const version of the elements.
func (t *VectorType) AsConst() Type {
	if t.elt == nil {
		return t
	}
	return t.withElem(t.elt.AsConst())
}

// AsNonConst returns a vector of the non-const version of the elements.
func (t *VectorType) AsNonConst() Type {
	if t.elt == nil {
		return t
	}
	return t.withElem(t.elt.AsNonConst())
}

// String returns the type as the language spells it.
func (t *VectorType) String() string {
	elt := "<nil>"
	if t.elt != nil {
		elt = t.elt.String()
	}
	return fmt.Sprintf("%s<%d>", elt, t.n)
}

// StructField is one member of a structure type.
type StructField struct {
	Name string
	Type Type
	Pos  source.Pos
}

// StructType is a named structure. The variability of the struct
// applies to the aggregate: field types keep the variability they
// were declared with, and member access promotes them as needed.
type StructType struct {
	name   string
	fields []StructField
	pos    source.Pos
	vrb    Variability
	cnst   bool
}

var _ Type = (*StructType)(nil)

// NewStructType returns a new uniform, non-const structure type.
func NewStructType(name string, fields []StructField, pos source.Pos) *StructType {
	return &StructType{name: name, fields: fields, pos: pos}
}

func (t *StructType) node() {}

// Name of the structure.
func (t *StructType) Name() string { return t.name }

// Pos returns where the structure was declared.
func (t *StructType) Pos() source.Pos { return t.pos }

// NumFields returns the number of fields.
func (t *StructType) NumFields() int { return len(t.fields) }

// Field returns the i-th field as declared.
func (t *StructType) Field(i int) StructField { return t.fields[i] }

// FieldIndex returns the index of the named field, or -1.
func (t *StructType) FieldIndex(name string) int {
	for i, f := range t.fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// FieldType returns the type of the i-th field, const-qualified when
// the struct itself is const.
func (t *StructType) FieldType(i int) Type {
	ft := t.fields[i].Type
	if ft == nil {
		return nil
	}
	if t.cnst {
		ft = ft.AsConst()
	}
	return ft
}

// Kind of the type.
func (t *StructType) Kind() irkind.Kind { return irkind.Struct }

// Variability of the aggregate.
func (t *StructType) Variability() Variability { return t.vrb }

// IsConst reports whether values of the type cannot be written.
func (t *StructType) IsConst() bool { return t.cnst }

func (t *StructType) with(vrb Variability, cnst bool) Type {
	if t.vrb == vrb && t.cnst == cnst {
		return t
	}
	n := *t
	n.vrb, n.cnst = vrb, cnst
	return &n
}

// AsVarying returns the varying version of the type.
func (t *StructType) AsVarying() Type { return t.with(Varying, t.cnst) }

// AsUniform returns the uniform version of the type.
func (t *StructType) AsUniform() Type { return t.with(Uniform, t.cnst) }

// AsConst returns the type with the const qualifier added.
func (t *StructType) AsConst() Type { return t.with(t.vrb, true) }

// AsNonConst returns the type with the const qualifier removed.
func (t *StructType) AsNonConst() Type { return t.with(t.vrb, false) }

// String returns the type as the language spells it.
func (t *StructType) String() string {
	s := ""
	if t.cnst {
		s = "const "
	}
	return s + t.vrb.String() + " struct " + t.name
}

// Param is one parameter of a function type. Default, when non-nil,
// supplies the argument for calls that leave the parameter off.
type Param struct {
	Name    string
	Type    Type
	Default Expr
}

// FunctionType describes a callable: its return type, parameters and
// whether it is a task. Functions are not values; pointers to them
// are, and those pointers are always uniform const unless the program
// builds varying ones explicitly.
type FunctionType struct {
	ret    Type
	params []Param
	task   bool
}

var _ Type = (*FunctionType)(nil)

// NewFunctionType returns a new function type.
func NewFunctionType(ret Type, params []Param, task bool) *FunctionType {
	return &FunctionType{ret: ret, params: params, task: task}
}

func (t *FunctionType) node() {}

// Return type of the function.
func (t *FunctionType) Return() Type { return t.ret }

// NumParams returns the number of declared parameters.
func (t *FunctionType) NumParams() int { return len(t.params) }

// Param returns the i-th parameter.
func (t *FunctionType) Param(i int) Param { return t.params[i] }

// IsTask reports whether the function is a task, callable only
// through launch.
func (t *FunctionType) IsTask() bool { return t.task }

// Kind of the type.
func (t *FunctionType) Kind() irkind.Kind { return irkind.Func }

// Variability of the type. Functions themselves are uniform.
func (t *FunctionType) Variability() Variability { return Uniform }

// IsConst reports whether values of the type cannot be written.
func (t *FunctionType) IsConst() bool { return false }

// AsVarying returns the type unchanged: functions have no varying
// version.
func (t *FunctionType) AsVarying() Type { return t }

// AsUniform returns the type unchanged.
func (t *FunctionType) AsUniform() Type { return t }

// AsConst returns the type unchanged.
func (t *FunctionType) AsConst() Type { return t }

// AsNonConst returns the type unchanged.
func (t *FunctionType) AsNonConst() Type { return t }

// String returns the type as the language spells it.
func (t *FunctionType) String() string {
	var b strings.Builder
	if t.task {
		b.WriteString("task ")
	}
	if t.ret == nil {
		b.WriteString("<nil>")
	} else {
		b.WriteString(t.ret.String())
	}
	b.WriteString("(")
	for i, p := range t.params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Type == nil {
			b.WriteString("<nil>")
		} else {
			b.WriteString(p.Type.String())
		}
	}
	b.WriteString(")")
	return b.String()
}

// ParamTypesString returns the parameter types of a call the way
// diagnostics list them, as in (uniform int32, varying float).
func ParamTypesString(types []Type) string {
	var b strings.Builder
	b.WriteString("(")
	for i, t := range types {
		if i > 0 {
			b.WriteString(", ")
		}
		if t == nil {
			b.WriteString("<unknown>")
		} else {
			b.WriteString(t.String())
		}
	}
	b.WriteString(")")
	return b.String()
}
