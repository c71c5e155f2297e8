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
	"github.com/ospc-org/ospc/build/diag"
	"github.com/ospc-org/ospc/build/source"
)

// Target describes the machine being compiled for, as far as the
// expression layer needs to know it.
type Target struct {
	// VectorWidth is the number of program instances in a gang.
	VectorWidth int
	// Is32Bit is true when pointers on the target are 32 bits wide.
	Is32Bit bool
}

// OptFlags are the optimization toggles that change how expressions
// are checked and lowered.
type OptFlags struct {
	// FastMath allows rewrites that trade accuracy for speed, such
	// as turning division by a constant into multiplication by its
	// reciprocal.
	FastMath bool
	// Force32BitAddressing computes addresses with 32-bit offsets
	// even on 64-bit targets.
	Force32BitAddressing bool
	// DisableUniformMemoryOptimizations keeps indexing with uniform
	// indices on the varying path.
	DisableUniformMemoryOptimizations bool
	// DisableMaskedStructStores stores whole structures without
	// masking individual elements.
	DisableMaskedStructStores bool
}

// CompileContext carries everything expression analysis depends on:
// the target, the optimization flags, the symbol table and the sink
// receiving diagnostics. Passing it explicitly keeps the layer free
// of global state.
type CompileContext struct {
	Target Target
	Opt    OptFlags
	Syms   *SymbolTable
	Diags  diag.Sink
}

// NewCompileContext returns a context for the given target with an
// empty symbol table, reporting into sink.
func NewCompileContext(target Target, opt OptFlags, sink diag.Sink) *CompileContext {
	return &CompileContext{
		Target: target,
		Opt:    opt,
		Syms:   NewSymbolTable(),
		Diags:  sink,
	}
}

// Errorf reports an error diagnostic at a position.
func (c *CompileContext) Errorf(pos source.Pos, format string, a ...any) {
	c.Diags.Report(diag.Errorf(pos, format, a...))
}

// Warningf reports a warning diagnostic at a position.
func (c *CompileContext) Warningf(pos source.Pos, format string, a ...any) {
	c.Diags.Report(diag.Warningf(pos, format, a...))
}

// PerfWarningf reports a performance warning diagnostic at a position.
func (c *CompileContext) PerfWarningf(pos source.Pos, format string, a ...any) {
	c.Diags.Report(diag.PerfWarningf(pos, format, a...))
}

// SizeType returns the type of object sizes on the target: uniform
// unsigned int32 on 32-bit targets or under forced 32-bit
// addressing, uniform unsigned int64 otherwise.
func (c *CompileContext) SizeType() Type {
	if c.Target.Is32Bit || c.Opt.Force32BitAddressing {
		return Uint32Type(Uniform)
	}
	return Uint64Type(Uniform)
}

// PtrDiffType returns the type of the difference between two
// pointers with the given variability.
func (c *CompileContext) PtrDiffType(v Variability) Type {
	if c.Target.Is32Bit || c.Opt.Force32BitAddressing {
		return Int32Type(v)
	}
	return Int64Type(v)
}
