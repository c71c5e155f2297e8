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
	"github.com/ospc-org/ospc/build/source"
)

// SymbolExpr is a reference to a variable.
type SymbolExpr struct {
	exprBase
	Sym *Symbol
}

var (
	_ Expr        = (*SymbolExpr)(nil)
	_ StorageExpr = (*SymbolExpr)(nil)
)

// NewSymbolExpr returns an expression reading the given symbol.
func NewSymbolExpr(sym *Symbol, pos source.Pos) *SymbolExpr {
	return &SymbolExpr{exprBase: exprBase{pos: pos}, Sym: sym}
}

// Type returns the symbol's declared type.
func (n *SymbolExpr) Type(ctx *CompileContext) Type {
	if n.Sym == nil {
		return nil
	}
	return n.Sym.Type
}

// TypeCheck of a symbol reference checks nothing: the declaration
// already did.
func (n *SymbolExpr) TypeCheck(ctx *CompileContext) Expr {
	if n.Sym == nil || n.Sym.Type == nil {
		return nil
	}
	return n
}

// Optimize replaces a reference to a const-qualified symbol with its
// declared constant value.
func (n *SymbolExpr) Optimize(ctx *CompileContext) Expr {
	if n.Sym == nil {
		return nil
	}
	if n.Sym.ConstValue != nil && n.Sym.Type != nil && n.Sym.Type.IsConst() {
		return n.Sym.ConstValue
	}
	return n
}

// Cost of naming a symbol: the consumer pays for the load.
func (n *SymbolExpr) Cost(ctx *CompileContext) int { return 0 }

// BaseSymbol returns the symbol itself.
func (n *SymbolExpr) BaseSymbol() *Symbol { return n.Sym }

// Value loads the symbol from its storage.
func (n *SymbolExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	if n.Sym == nil || n.Sym.Storage == nil {
		return nil
	}
	return em.Load(n.Sym.Storage, n.Sym.Name)
}

// LValue returns the address of the symbol's storage.
func (n *SymbolExpr) LValue(em EmitContext) Value {
	if n.Sym == nil {
		return nil
	}
	return n.Sym.Storage
}

// LValueType returns a uniform pointer to the symbol's type: storage
// is a single allocation even for varying data.
func (n *SymbolExpr) LValueType(ctx *CompileContext) Type {
	if n.Sym == nil || n.Sym.Type == nil {
		return nil
	}
	return NewPointerType(Uniform, n.Sym.Type)
}

// FunctionSymbolExpr is a reference to a function by name, carrying
// the overload set the name denotes until a call or an assignment to
// a function pointer picks one.
type FunctionSymbolExpr struct {
	exprBase
	Name       string
	Candidates []*Symbol
	Matched    *Symbol

	// set after a resolution attempt failed and reported, so later
	// queries stay silent.
	resolveFailed bool
}

var _ Expr = (*FunctionSymbolExpr)(nil)

// NewFunctionSymbolExpr returns an expression naming a function. With
// a single candidate the choice is already made.
func NewFunctionSymbolExpr(name string, candidates []*Symbol, pos source.Pos) *FunctionSymbolExpr {
	n := &FunctionSymbolExpr{exprBase: exprBase{pos: pos}, Name: name, Candidates: candidates}
	if len(candidates) == 1 {
		n.Matched = candidates[0]
	}
	return n
}

// Type returns a uniform const pointer to the resolved overload's
// function type. Asking for the type of a still-overloaded name is an
// error: there is no one type to give.
func (n *FunctionSymbolExpr) Type(ctx *CompileContext) Type {
	if n.Matched == nil {
		if !n.resolveFailed {
			ctx.Errorf(n.pos, "Ambiguous use of overloaded function %q.", n.Name)
			n.resolveFailed = true
		}
		return nil
	}
	ft, ok := n.Matched.Type.(*FunctionType)
	if !ok {
		return nil
	}
	return NewPointerType(Uniform, ft).AsConst()
}

// TypeCheck returns the expression unchanged.
func (n *FunctionSymbolExpr) TypeCheck(ctx *CompileContext) Expr { return n }

// Optimize returns the expression unchanged.
func (n *FunctionSymbolExpr) Optimize(ctx *CompileContext) Expr { return n }

// Cost of naming a function is zero.
func (n *FunctionSymbolExpr) Cost(ctx *CompileContext) int { return 0 }

// BaseSymbol returns the resolved overload, if any.
func (n *FunctionSymbolExpr) BaseSymbol() *Symbol { return n.Matched }

// Value returns the address of the resolved overload.
func (n *FunctionSymbolExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	if n.Matched == nil {
		return nil
	}
	return em.FuncValue(n.Matched)
}

// ResolveForFunctionType picks the overload whose type matches ft
// exactly, for assignments to function pointers. It reports and
// returns false when no candidate matches.
func (n *FunctionSymbolExpr) ResolveForFunctionType(ctx *CompileContext, ft *FunctionType) bool {
	for _, cand := range n.Candidates {
		if EqualTypes(cand.Type, ft) {
			n.Matched = cand
			return true
		}
	}
	n.resolveFailed = true
	ctx.Errorf(n.pos, "Unable to find a matching overload for assignment to function pointer of type %q.", ft)
	return false
}
