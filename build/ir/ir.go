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

// Expr is the interface implemented by all expression nodes.
//
// TypeCheck and Optimize return the node to use in place of the
// receiver: the callee never mutates itself, and the caller rebinds
// the child it holds. A nil return means the operation failed after
// reporting a diagnostic; callers propagate the nil without reporting
// again, so that one mistake in the program produces one message.
type Expr interface {
	Node

	// Pos returns where the expression appears in the program.
	Pos() source.Pos
	// Type returns the type of the value the expression produces,
	// or nil if it cannot be determined.
	Type(ctx *CompileContext) Type
	// TypeCheck verifies the expression and returns the node to use
	// in its place, with implicit conversions applied to children.
	TypeCheck(ctx *CompileContext) Expr
	// Optimize returns the expression with compile-time constants
	// folded. It assumes TypeCheck succeeded.
	Optimize(ctx *CompileContext) Expr
	// Cost estimates the cost of executing this node, not counting
	// its children.
	Cost(ctx *CompileContext) int
	// BaseSymbol returns the symbol whose storage the expression
	// reads or writes, if there is a single one.
	BaseSymbol() *Symbol
	// Value emits code computing the expression and returns the
	// resulting value, or nil on failure.
	Value(em EmitContext) Value
}

// StorageExpr is implemented by expressions that designate storage:
// their value can be written to, not just read.
type StorageExpr interface {
	Expr

	// LValue emits code computing the address of the expression's
	// storage, or returns nil if the particular expression is not
	// addressable.
	LValue(em EmitContext) Value
	// LValueType returns the type of the value LValue produces.
	LValueType(ctx *CompileContext) Type
}

// ConstantProvider is implemented by expressions whose value can be
// materialized as a backend constant, for use in initializers.
type ConstantProvider interface {
	Expr

	// Constant returns the expression's value as a constant of the
	// given type, or false if it cannot be represented.
	Constant(em EmitContext, typ Type) (Value, bool)
}

// Relative costs of executing expression nodes, used to decide when
// code is cheap enough to run under a uniform test without branching.
const (
	CostAssign           = 1
	CostComplexArith     = 4
	CostDeref            = 4
	CostFuncCall         = 4
	CostFuncPtrUniform   = 12
	CostFuncPtrVarying   = 24
	CostGather           = 8
	CostLoad             = 2
	CostSelect           = 4
	CostSimpleArith      = 1
	CostSync             = 32
	CostTaskLaunch       = 32
	CostTypecastSimple   = 1
	CostTypecastComplex  = 4
	CostVaryingIntDivide = 16
)

// exprBase carries what every expression node has: a position. It
// also provides the default BaseSymbol, which nodes rooted in a
// symbol override.
type exprBase struct {
	pos source.Pos
}

func (e exprBase) node() {}

// Pos returns where the expression appears in the program.
func (e exprBase) Pos() source.Pos { return e.pos }

// BaseSymbol returns nil: most expressions are not rooted in a
// single symbol.
func (e exprBase) BaseSymbol() *Symbol { return nil }

// TypeCheckExpr type-checks an expression, tolerating nil from an
// earlier failure.
func TypeCheckExpr(ctx *CompileContext, e Expr) Expr {
	if e == nil {
		return nil
	}
	return e.TypeCheck(ctx)
}

// OptimizeExpr folds constants in an expression, tolerating nil from
// an earlier failure.
func OptimizeExpr(ctx *CompileContext, e Expr) Expr {
	if e == nil {
		return nil
	}
	return e.Optimize(ctx)
}

// TypeOf returns the type of an expression, tolerating nil.
func TypeOf(ctx *CompileContext, e Expr) Type {
	if e == nil {
		return nil
	}
	return e.Type(ctx)
}

// LValueOf returns the address of an expression's storage, or nil if
// the expression does not designate storage.
func LValueOf(em EmitContext, e Expr) Value {
	se, ok := e.(StorageExpr)
	if !ok {
		return nil
	}
	return se.LValue(em)
}

// LValueTypeOf returns the type LValueOf would produce, or nil.
func LValueTypeOf(ctx *CompileContext, e Expr) Type {
	se, ok := e.(StorageExpr)
	if !ok {
		return nil
	}
	return se.LValueType(ctx)
}

// ConstantOf returns the value of an expression as a backend constant
// of the given type, or false if the expression has no such constant.
func ConstantOf(em EmitContext, e Expr, typ Type) (Value, bool) {
	cp, ok := e.(ConstantProvider)
	if !ok {
		return nil, false
	}
	return cp.Constant(em, typ)
}

// Walk visits e and its children depth-first. It stops descending
// into a subtree when visit returns false. Nil children from earlier
// failures are skipped.
func Walk(e Expr, visit func(Expr) bool) {
	if e == nil || !visit(e) {
		return
	}
	for _, c := range children(e) {
		Walk(c, visit)
	}
}

func children(e Expr) []Expr {
	switch n := e.(type) {
	case *UnaryExpr:
		return []Expr{n.X}
	case *BinaryExpr:
		return []Expr{n.X, n.Y}
	case *AssignExpr:
		return []Expr{n.LHS, n.RHS}
	case *SelectExpr:
		return []Expr{n.Test, n.OnTrue, n.OnFalse}
	case *ExprList:
		return n.Exprs
	case *FunctionCallExpr:
		cs := []Expr{n.Fn}
		if n.Args != nil {
			cs = append(cs, n.Args.Exprs...)
		}
		if n.LaunchCount != nil {
			cs = append(cs, n.LaunchCount)
		}
		return cs
	case *IndexExpr:
		return []Expr{n.Base, n.Index}
	case *StructMemberExpr:
		return []Expr{n.Base}
	case *VectorMemberExpr:
		return []Expr{n.Base}
	case *TypeCastExpr:
		return []Expr{n.X}
	case *ReferenceExpr:
		return []Expr{n.X}
	case *DereferenceExpr:
		return []Expr{n.X}
	case *AddressOfExpr:
		return []Expr{n.X}
	case *SizeOfExpr:
		if n.X != nil {
			return []Expr{n.X}
		}
	case *ConstExpr, *SymbolExpr, *FunctionSymbolExpr, *SyncExpr, *NullPointerExpr:
	}
	return nil
}

// TotalCost estimates the cost of an expression tree by summing its
// nodes.
func TotalCost(ctx *CompileContext, e Expr) int {
	total := 0
	Walk(e, func(n Expr) bool {
		total += n.Cost(ctx)
		return true
	})
	return total
}
