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

// NullPointerExpr is the null pointer literal. It starts out as a
// void pointer; converting it to a concrete pointer type retypes it
// in place of emitting a cast.
type NullPointerExpr struct {
	exprBase
	typ Type
}

var _ Expr = (*NullPointerExpr)(nil)

// NewNullPointerExpr returns the NULL literal.
func NewNullPointerExpr(pos source.Pos) *NullPointerExpr {
	return &NullPointerExpr{exprBase: exprBase{pos: pos}}
}

// Type returns the pointer type the literal has been converted to, a
// uniform void pointer before any conversion.
func (n *NullPointerExpr) Type(ctx *CompileContext) Type {
	if n.typ != nil {
		return n.typ
	}
	return VoidPointerType(Uniform)
}

// TypeCheck has nothing to verify.
func (n *NullPointerExpr) TypeCheck(ctx *CompileContext) Expr { return n }

// Optimize has nothing to fold.
func (n *NullPointerExpr) Optimize(ctx *CompileContext) Expr { return n }

// Cost is zero.
func (n *NullPointerExpr) Cost(ctx *CompileContext) int { return 0 }

// Value emits the null pointer of the converted-to type.
func (n *NullPointerExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	return em.NullPtr(n.Type(em.Compile()))
}
