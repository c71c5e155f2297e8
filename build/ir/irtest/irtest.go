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

// Package irtest provides a recording backend for testing expression
// lowering. The Recorder implements ir.EmitContext by logging one line
// per instruction, so tests can assert on the shape of the emitted
// code without a real code generator.
package irtest

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/ospc-org/ospc/build/diag"
	"github.com/ospc-org/ospc/build/ir"
	"github.com/ospc-org/ospc/build/source"
)

// Val is a recorded value, identified by its printed name.
type Val string

// String returns the value's name.
func (v Val) String() string { return string(v) }

// Block is a recorded basic block.
type Block string

// String returns the block's label.
func (b Block) String() string { return string(b) }

// Context returns a compile context suitable for tests: a 4-wide
// target, no optimization flags, an empty symbol table and a fresh
// diagnostic bag.
func Context() *ir.CompileContext {
	return ContextWith(ir.OptFlags{})
}

// ContextWith is Context with the given optimization flags.
func ContextWith(opt ir.OptFlags) *ir.CompileContext {
	return &ir.CompileContext{
		Target: ir.Target{VectorWidth: 4},
		Opt:    opt,
		Syms:   ir.NewSymbolTable(),
		Diags:  &diag.Bag{},
	}
}

// Bag returns the context's diagnostic sink as the bag Context put
// there.
func Bag(ctx *ir.CompileContext) *diag.Bag {
	return ctx.Diags.(*diag.Bag)
}

// Pos returns a distinct valid position for test expressions.
func Pos(line int) source.Pos {
	return source.New("test.ispc", line, 1)
}

// Recorder implements ir.EmitContext by appending one line per
// instruction to Log. Values are named %<op><n>; the mask and block
// state behave like the real backend's so mask-policy code paths can
// be exercised.
type Recorder struct {
	// Log holds the emitted instructions in order.
	Log []string

	ctx   *ir.CompileContext
	n     int
	nb    int
	full  ir.Value
	mask  ir.Value
	cur   ir.BasicBlock
	fn    *ir.Symbol
	depth int
}

var _ ir.EmitContext = (*Recorder)(nil)

// NewRecorder returns a recorder emitting into an entry block with
// the full mask active.
func NewRecorder(ctx *ir.CompileContext) *Recorder {
	r := &Recorder{ctx: ctx, full: Val("full_mask")}
	r.mask = r.full
	r.cur = Block("entry")
	return r
}

// EnterFunction sets the function the recorder pretends to emit,
// affecting the store mask policy.
func (r *Recorder) EnterFunction(sym *ir.Symbol) { r.fn = sym }

// SetVaryingCFDepth sets the varying control flow depth the recorder
// reports.
func (r *Recorder) SetVaryingCFDepth(d int) { r.depth = d }

// Has reports whether any logged instruction contains the substring.
func (r *Recorder) Has(substr string) bool {
	for _, line := range r.Log {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// Count returns how many logged instructions contain the substring.
func (r *Recorder) Count(substr string) int {
	n := 0
	for _, line := range r.Log {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// String returns the log, one instruction per line.
func (r *Recorder) String() string { return strings.Join(r.Log, "\n") }

func (r *Recorder) value(name string) Val {
	r.n++
	return Val(fmt.Sprintf("%%%s%d", name, r.n))
}

func (r *Recorder) record(format string, a ...any) {
	r.Log = append(r.Log, fmt.Sprintf(format, a...))
}

// Compile returns the compile context of the program.
func (r *Recorder) Compile() *ir.CompileContext { return r.ctx }

// SetPos is a no-op: the recorder does not track debug locations.
func (r *Recorder) SetPos(pos source.Pos) {}

// FullMask returns the function entry mask.
func (r *Recorder) FullMask() ir.Value { return r.full }

// InternalMask returns the current execution mask.
func (r *Recorder) InternalMask() ir.Value { return r.mask }

// SetInternalMask replaces the current execution mask.
func (r *Recorder) SetInternalMask(mask ir.Value) {
	r.mask = mask
	r.record("set_mask %s", mask)
}

// SetInternalMaskAnd sets the mask to base AND test.
func (r *Recorder) SetInternalMaskAnd(base, test ir.Value) {
	v := r.value("mask")
	r.record("%s = mask_and %s, %s", v, base, test)
	r.mask = v
}

// SetInternalMaskAndNot sets the mask to base AND NOT test.
func (r *Recorder) SetInternalMaskAndNot(base, test ir.Value) {
	v := r.value("mask")
	r.record("%s = mask_andnot %s, %s", v, base, test)
	r.mask = v
}

// NewBasicBlock creates a labeled block.
func (r *Recorder) NewBasicBlock(name string) ir.BasicBlock {
	r.nb++
	return Block(fmt.Sprintf("%s.%d", name, r.nb))
}

// CurrentBasicBlock returns the block being emitted into.
func (r *Recorder) CurrentBasicBlock() ir.BasicBlock { return r.cur }

// SetCurrentBasicBlock switches emission to a block.
func (r *Recorder) SetCurrentBasicBlock(b ir.BasicBlock) {
	r.cur = b
	r.record("block %s", b)
}

// Branch ends the current block with a jump.
func (r *Recorder) Branch(target ir.BasicBlock) {
	r.record("br %s", target)
}

// BranchIf ends the current block with a conditional jump.
func (r *Recorder) BranchIf(test ir.Value, onTrue, onFalse ir.BasicBlock) {
	r.record("br_if %s, %s, %s", test, onTrue, onFalse)
}

// Phi2 merges two values flowing in from two predecessors.
func (r *Recorder) Phi2(typ ir.Type, a ir.Value, aFrom ir.BasicBlock, b ir.Value, bFrom ir.BasicBlock) ir.Value {
	v := r.value("phi")
	r.record("%s = phi [%s, %s], [%s, %s]", v, a, aFrom, b, bFrom)
	return v
}

// BinaryOp applies an operator to two values.
func (r *Recorder) BinaryOp(op token.Token, x, y ir.Value, name string) ir.Value {
	v := r.value(name)
	r.record("%s = binop %s %s, %s", v, op, x, y)
	return v
}

// Not inverts a value.
func (r *Recorder) Not(x ir.Value) ir.Value {
	v := r.value("not")
	r.record("%s = not %s", v, x)
	return v
}

// Neg negates a value.
func (r *Recorder) Neg(x ir.Value) ir.Value {
	v := r.value("neg")
	r.record("%s = neg %s", v, x)
	return v
}

// Select picks lanes from onTrue where test is set.
func (r *Recorder) Select(test, onTrue, onFalse ir.Value) ir.Value {
	v := r.value("select")
	r.record("%s = select %s, %s, %s", v, test, onTrue, onFalse)
	return v
}

// Convert converts a value between atomic types.
func (r *Recorder) Convert(x ir.Value, from, to ir.Type) ir.Value {
	v := r.value("convert")
	r.record("%s = convert %s from %s to %s", v, x, from, to)
	return v
}

// PtrToInt reinterprets a pointer as an integer.
func (r *Recorder) PtrToInt(x ir.Value, to ir.Type) ir.Value {
	v := r.value("ptr_to_int")
	r.record("%s = ptr_to_int %s to %s", v, x, to)
	return v
}

// IntToPtr reinterprets an integer as a pointer.
func (r *Recorder) IntToPtr(x ir.Value, to ir.Type) ir.Value {
	v := r.value("int_to_ptr")
	r.record("%s = int_to_ptr %s to %s", v, x, to)
	return v
}

// BitCast reinterprets a value as another type.
func (r *Recorder) BitCast(x ir.Value, to ir.Type) ir.Value {
	v := r.value("bitcast")
	r.record("%s = bitcast %s to %s", v, x, to)
	return v
}

// Smear replicates a uniform value across the gang.
func (r *Recorder) Smear(x ir.Value, name string) ir.Value {
	v := r.value(name)
	r.record("%s = smear %s", v, x)
	return v
}

// Undef returns an undefined value of a type.
func (r *Recorder) Undef(typ ir.Type) ir.Value {
	v := r.value("undef")
	r.record("%s = undef %s", v, typ)
	return v
}

// Alloca reserves stack storage.
func (r *Recorder) Alloca(typ ir.Type, name string) ir.Value {
	v := r.value(name)
	r.record("%s = alloca %s", v, typ)
	return v
}

// Load reads through a pointer, unmasked.
func (r *Recorder) Load(ptr ir.Value, name string) ir.Value {
	v := r.value(name)
	r.record("%s = load %s", v, ptr)
	return v
}

// MaskedLoad reads through a pointer under a mask, logging a gather
// when the pointer is varying.
func (r *Recorder) MaskedLoad(ptr ir.Value, mask ir.Value, ptrType ir.Type, name string) ir.Value {
	v := r.value(name)
	op := "masked_load"
	if ir.IsVaryingType(ptrType) {
		op = "gather"
	}
	r.record("%s = %s %s, mask %s", v, op, ptr, mask)
	return v
}

// Store writes through a pointer, unmasked.
func (r *Recorder) Store(val, ptr ir.Value) {
	r.record("store %s, %s", val, ptr)
}

// MaskedStore writes through a pointer under a mask, logging a
// scatter when the pointer is varying.
func (r *Recorder) MaskedStore(val, ptr ir.Value, ptrType ir.Type, mask ir.Value) {
	op := "masked_store"
	if ir.IsVaryingType(ptrType) {
		op = "scatter"
	}
	r.record("%s %s, %s, mask %s", op, val, ptr, mask)
}

// Extract returns element i of an aggregate.
func (r *Recorder) Extract(v ir.Value, i int, name string) ir.Value {
	out := r.value(name)
	r.record("%s = extract %s, %d", out, v, i)
	return out
}

// Insert returns the aggregate with element i replaced.
func (r *Recorder) Insert(v ir.Value, i int, elt ir.Value, name string) ir.Value {
	out := r.value(name)
	r.record("%s = insert %s, %d, %s", out, v, i, elt)
	return out
}

// ElementPtr offsets a pointer by an index.
func (r *Recorder) ElementPtr(ptr ir.Value, index ir.Value, ptrType ir.Type, name string) ir.Value {
	v := r.value(name)
	r.record("%s = element_ptr %s, %s", v, ptr, index)
	return v
}

// FieldPtr returns the address of field i of an aggregate.
func (r *Recorder) FieldPtr(ptr ir.Value, i int, ptrType ir.Type, name string) ir.Value {
	v := r.value(name)
	r.record("%s = field_ptr %s, %d", v, ptr, i)
	return v
}

// LanePointers spreads a pointer to varying data into per-lane
// element pointers.
func (r *Recorder) LanePointers(ptr ir.Value, ptrType ir.Type) ir.Value {
	v := r.value("lanes")
	r.record("%s = lane_pointers %s", v, ptr)
	return v
}

// CurrentFunction returns the function set with EnterFunction.
func (r *Recorder) CurrentFunction() *ir.Symbol { return r.fn }

// VaryingCFDepth returns the depth set with SetVaryingCFDepth.
func (r *Recorder) VaryingCFDepth() int { return r.depth }

// Call calls a function value under the current mask.
func (r *Recorder) Call(fn ir.Value, fnType *ir.FunctionType, args []ir.Value, name string) ir.Value {
	v := r.value(name)
	r.record("%s = call %s(%s), mask %s", v, fn, joinValues(args), r.mask)
	return v
}

// Launch enqueues launchCount invocations of a task.
func (r *Recorder) Launch(fn ir.Value, fnType *ir.FunctionType, args []ir.Value, launchCount ir.Value) ir.Value {
	v := r.value("launch")
	r.record("%s = launch %s(%s), count %s", v, fn, joinValues(args), launchCount)
	return v
}

// Sync waits for launched tasks.
func (r *Recorder) Sync() ir.Value {
	v := r.value("sync")
	r.record("%s = sync", v)
	return v
}

// ConstValue materializes a constant expression as its printed lanes.
func (r *Recorder) ConstValue(c *ir.ConstExpr) ir.Value {
	return Val(c.String())
}

// ConstAggregate materializes a constant aggregate.
func (r *Recorder) ConstAggregate(typ ir.Type, elems []ir.Value) ir.Value {
	v := r.value("agg")
	r.record("%s = const_aggregate %s {%s}", v, typ, joinValues(elems))
	return v
}

// FuncValue returns the address of a function symbol.
func (r *Recorder) FuncValue(sym *ir.Symbol) ir.Value {
	return Val("@" + sym.Name)
}

// NullPtr returns the null pointer of a pointer type.
func (r *Recorder) NullPtr(typ ir.Type) ir.Value {
	return Val("null")
}

// SizeOf returns the size of a type as a value.
func (r *Recorder) SizeOf(typ ir.Type) ir.Value {
	v := r.value("sizeof")
	r.record("%s = sizeof %s", v, typ)
	return v
}

func joinValues(vals []ir.Value) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
