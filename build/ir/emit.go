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
	"go/token"

	"github.com/ospc-org/ospc/build/source"
)

// Value is an opaque handle on a value the backend computed.
type Value interface {
	String() string
}

// BasicBlock is an opaque handle on a block of straight-line code in
// the function being emitted.
type BasicBlock interface {
	String() string
}

// EmitContext is the interface the expression layer lowers against.
// A backend implements it once per function being compiled; the
// expression nodes drive it and never see the instructions it builds.
//
// Code runs under the execution mask: the set of program instances
// currently active. Stores and calls respect the internal mask unless
// a method says otherwise. Methods taking a name use it to label the
// resulting value for readable output; backends may ignore it.
type EmitContext interface {
	// Compile returns the compile context of the program.
	Compile() *CompileContext
	// SetPos records the source position for the code emitted next.
	SetPos(pos source.Pos)

	// FullMask returns the mask of instances active at function
	// entry.
	FullMask() Value
	// InternalMask returns the current execution mask.
	InternalMask() Value
	// SetInternalMask replaces the current execution mask.
	SetInternalMask(mask Value)
	// SetInternalMaskAnd sets the mask to base AND test.
	SetInternalMaskAnd(base, test Value)
	// SetInternalMaskAndNot sets the mask to base AND NOT test.
	SetInternalMaskAndNot(base, test Value)

	// NewBasicBlock creates a block in the current function.
	NewBasicBlock(name string) BasicBlock
	// CurrentBasicBlock returns the block being emitted into.
	CurrentBasicBlock() BasicBlock
	// SetCurrentBasicBlock switches emission to a block.
	SetCurrentBasicBlock(b BasicBlock)
	// Branch ends the current block with a jump.
	Branch(target BasicBlock)
	// BranchIf ends the current block with a conditional jump on a
	// uniform bool test.
	BranchIf(test Value, onTrue, onFalse BasicBlock)
	// Phi2 merges two values flowing in from two predecessor blocks.
	Phi2(typ Type, a Value, aFrom BasicBlock, b Value, bFrom BasicBlock) Value

	// BinaryOp applies an arithmetic, bitwise or comparison
	// operator. Operand types decide signedness and float versus
	// integer forms.
	BinaryOp(op token.Token, x, y Value, name string) Value
	// Not inverts a bool or complements an integer.
	Not(x Value) Value
	// Neg negates a numeric value.
	Neg(x Value) Value
	// Select picks lanes from onTrue where test is set and from
	// onFalse elsewhere.
	Select(test, onTrue, onFalse Value) Value

	// Convert converts between atomic types, smearing a uniform
	// source when to is varying.
	Convert(x Value, from, to Type) Value
	// PtrToInt reinterprets a pointer as an integer of type to.
	PtrToInt(x Value, to Type) Value
	// IntToPtr reinterprets an integer as a pointer of type to.
	IntToPtr(x Value, to Type) Value
	// BitCast reinterprets a value as another type of the same size.
	BitCast(x Value, to Type) Value
	// Smear replicates a uniform value across the gang.
	Smear(x Value, name string) Value
	// Undef returns an undefined value of a type, for building
	// aggregates element by element.
	Undef(typ Type) Value

	// Alloca reserves stack storage for one value of a type.
	Alloca(typ Type, name string) Value
	// Load reads through a uniform pointer, unmasked.
	Load(ptr Value, name string) Value
	// MaskedLoad reads through a pointer of type ptrType under
	// mask, gathering when the pointer is varying.
	MaskedLoad(ptr Value, mask Value, ptrType Type, name string) Value
	// Store writes through a uniform pointer, unmasked.
	Store(val, ptr Value)
	// MaskedStore writes through a pointer of type ptrType under
	// mask, scattering when the pointer is varying.
	MaskedStore(val, ptr Value, ptrType Type, mask Value)

	// Extract returns element i of an aggregate value.
	Extract(v Value, i int, name string) Value
	// Insert returns the aggregate v with element i replaced.
	Insert(v Value, i int, elt Value, name string) Value
	// ElementPtr offsets a pointer of type ptrType by index
	// elements.
	ElementPtr(ptr Value, index Value, ptrType Type, name string) Value
	// FieldPtr returns the address of field i of the aggregate
	// pointed to by a pointer of type ptrType.
	FieldPtr(ptr Value, i int, ptrType Type, name string) Value
	// LanePointers spreads a pointer to varying data into one
	// element pointer per lane.
	LanePointers(ptr Value, ptrType Type) Value

	// CurrentFunction returns the symbol of the function being
	// emitted, or nil outside function bodies.
	CurrentFunction() *Symbol
	// VaryingCFDepth returns how many levels of varying control
	// flow enclose the code being emitted.
	VaryingCFDepth() int
	// Call calls a function value under the current mask.
	Call(fn Value, fnType *FunctionType, args []Value, name string) Value
	// Launch enqueues launchCount invocations of a task.
	Launch(fn Value, fnType *FunctionType, args []Value, launchCount Value) Value
	// Sync waits for launched tasks to finish.
	Sync() Value

	// ConstValue materializes a constant expression.
	ConstValue(c *ConstExpr) Value
	// ConstAggregate materializes a constant array, vector or
	// struct from element constants.
	ConstAggregate(typ Type, elems []Value) Value
	// FuncValue returns the address of a function symbol.
	FuncValue(sym *Symbol) Value
	// NullPtr returns the null pointer of a pointer type.
	NullPtr(typ Type) Value
	// SizeOf returns the size in bytes of a type as a value of the
	// target's size type.
	SizeOf(typ Type) Value
}

// maskForStore returns the execution mask a store to sym's storage
// must respect. Stores through pointers or references, to globals, or
// to statics can be seen by other gangs or later calls, so they use
// the mask as of function entry; stores to locals of the current
// function only need the internal mask.
func maskForStore(em EmitContext, sym *Symbol) Value {
	if sym == nil {
		return em.FullMask()
	}
	switch sym.Type.(type) {
	case *PointerType, *ReferenceType:
		return em.FullMask()
	}
	if sym.StorageClass == Static || sym.ParentFunction == nil ||
		sym.ParentFunction != em.CurrentFunction() {
		return em.FullMask()
	}
	return em.InternalMask()
}

// storeResult stores value through lvalue respecting the mask policy
// for the destination symbol. When the symbol was declared at the
// current varying-control-flow depth, every running instance is known
// to be active and the store can skip masking entirely.
func storeResult(em EmitContext, value, lvalue Value, lvalueType Type, sym *Symbol) {
	if value == nil || lvalue == nil {
		return
	}
	unmasked := false
	if sym != nil && sym.StorageClass != Static {
		switch sym.Type.(type) {
		case *PointerType, *ReferenceType:
		default:
			unmasked = sym.VaryingCFDepth == em.VaryingCFDepth()
		}
	}
	if unmasked && IsUniformType(lvalueType) {
		em.Store(value, lvalue)
		return
	}
	if pt, ok := lvalueType.(*PointerType); ok && em.Compile().Opt.DisableMaskedStructStores {
		if _, isStruct := pt.Elem().(*StructType); isStruct {
			em.Store(value, lvalue)
			return
		}
	}
	em.MaskedStore(value, lvalue, lvalueType, maskForStore(em, sym))
}
