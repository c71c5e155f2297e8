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

// SyncExpr waits for every task the current function has launched.
type SyncExpr struct {
	exprBase
}

var _ Expr = (*SyncExpr)(nil)

// NewSyncExpr returns a sync statement expression.
func NewSyncExpr(pos source.Pos) *SyncExpr {
	return &SyncExpr{exprBase: exprBase{pos: pos}}
}

// Type of a sync is void.
func (n *SyncExpr) Type(ctx *CompileContext) Type { return VoidType() }

// TypeCheck has nothing to verify.
func (n *SyncExpr) TypeCheck(ctx *CompileContext) Expr { return n }

// Optimize has nothing to fold.
func (n *SyncExpr) Optimize(ctx *CompileContext) Expr { return n }

// Cost reflects the barrier.
func (n *SyncExpr) Cost(ctx *CompileContext) int { return CostSync }

// Value emits the barrier.
func (n *SyncExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	return em.Sync()
}
