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

// AssignExpr is an assignment, plain (=) or compound (+=, -=, *=,
// /=, %=, <<=, >>=, &=, |=, ^=).
type AssignExpr struct {
	exprBase
	Op       token.Token
	LHS, RHS Expr
}

var _ Expr = (*AssignExpr)(nil)

// compoundToBinary maps a compound assignment operator to the binary
// operator it applies, or ILLEGAL for plain assignment.
func compoundToBinary(op token.Token) token.Token {
	switch op {
	case token.ADD_ASSIGN:
		return token.ADD
	case token.SUB_ASSIGN:
		return token.SUB
	case token.MUL_ASSIGN:
		return token.MUL
	case token.QUO_ASSIGN:
		return token.QUO
	case token.REM_ASSIGN:
		return token.REM
	case token.SHL_ASSIGN:
		return token.SHL
	case token.SHR_ASSIGN:
		return token.SHR
	case token.AND_ASSIGN:
		return token.AND
	case token.OR_ASSIGN:
		return token.OR
	case token.XOR_ASSIGN:
		return token.XOR
	}
	return token.ILLEGAL
}

// storageType returns the type of the storage an expression assigns
// to, seeing through a reference.
func storageType(ctx *CompileContext, e Expr) Type {
	t := TypeOf(ctx, e)
	if rt, ok := t.(*ReferenceType); ok {
		return rt.Target()
	}
	return t
}

// Type of an assignment is the type of the storage assigned to.
func (n *AssignExpr) Type(ctx *CompileContext) Type {
	return storageType(ctx, n.LHS)
}

// checkConstMember reports the first const element found anywhere
// inside a struct type, so assignments to such structs can name the
// field that makes them illegal.
func checkConstMember(ctx *CompileContext, whole Type, st *StructType, pos source.Pos) bool {
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Type == nil {
			continue
		}
		if f.Type.IsConst() {
			ctx.Errorf(pos, "Can't assign to type %q on left-hand side of expression due to element %q with const type %q.",
				whole, f.Name, f.Type)
			return false
		}
		if nested, ok := f.Type.(*StructType); ok {
			if !checkConstMember(ctx, whole, nested, pos) {
				return false
			}
		}
	}
	return true
}

// TypeCheck validates the target storage and converts the value being
// assigned. Compound forms borrow the binary operator's checking, so
// the stored right-hand side already carries the promoted operand
// type.
func (n *AssignExpr) TypeCheck(ctx *CompileContext) Expr {
	lhs := TypeCheckExpr(ctx, n.LHS)
	rhs := TypeCheckExpr(ctx, n.RHS)
	lhsT := storageType(ctx, lhs)
	if lhsT == nil || rhs == nil {
		return nil
	}

	if _, isRef := TypeOf(ctx, lhs).(*ReferenceType); !isRef {
		if _, isStorage := lhs.(StorageExpr); !isStorage {
			ctx.Errorf(n.pos, "Left hand side of assignment expression can't be assigned to.")
			return nil
		}
	}
	if lhsT.IsConst() {
		ctx.Errorf(n.pos, "Can't assign to type %q on left-hand side of expression.", lhsT)
		return nil
	}
	if _, isArray := lhsT.(*ArrayType); isArray {
		ctx.Errorf(n.pos, "Illegal to assign to array type %q.", lhsT)
		return nil
	}
	if st, isStruct := lhsT.(*StructType); isStruct {
		if !checkConstMember(ctx, lhsT, st, n.pos) {
			return nil
		}
	}
	if pt, isPtr := lhsT.(*PointerType); isPtr {
		switch n.Op {
		case token.ASSIGN, token.ADD_ASSIGN, token.SUB_ASSIGN:
		default:
			ctx.Errorf(n.pos, "Illegal to use assignment operator %q with pointer type %q.", n.Op, pt)
			return nil
		}
	}

	if n.Op == token.ASSIGN {
		// An overloaded function name picks its overload from the
		// function pointer it is assigned to.
		if fse, ok := rhs.(*FunctionSymbolExpr); ok {
			if pt, ok := lhsT.(*PointerType); ok {
				if ft, ok := pt.Elem().(*FunctionType); ok {
					if !fse.ResolveForFunctionType(ctx, ft) {
						return nil
					}
				}
			}
		}
		rhs = ConvertExpr(ctx, rhs, lhsT.AsNonConst(), "assignment")
		if rhs == nil {
			return nil
		}
		return &AssignExpr{exprBase: n.exprBase, Op: n.Op, LHS: lhs, RHS: rhs}
	}

	bop := compoundToBinary(n.Op)
	if bop == token.ILLEGAL {
		ctx.Errorf(n.pos, "Illegal to use assignment operator %q.", n.Op)
		return nil
	}
	probe := &BinaryExpr{exprBase: exprBase{pos: n.pos}, Op: bop, X: lhs, Y: rhs}
	checked := probe.TypeCheck(ctx)
	if checked == nil {
		return nil
	}
	bin, ok := checked.(*BinaryExpr)
	if !ok {
		return nil
	}
	resT := bin.Type(ctx)
	if resT == nil {
		return nil
	}
	if !CanConvert(ctx, resT, lhsT.AsNonConst()) {
		ctx.Errorf(n.pos, "Can't convert type %q to type %q for assignment.", resT, lhsT)
		return nil
	}
	return &AssignExpr{exprBase: n.exprBase, Op: n.Op, LHS: lhs, RHS: bin.Y}
}

// Optimize folds constants in the value being assigned.
func (n *AssignExpr) Optimize(ctx *CompileContext) Expr {
	lhs := OptimizeExpr(ctx, n.LHS)
	rhs := OptimizeExpr(ctx, n.RHS)
	if lhs == nil || rhs == nil {
		return nil
	}
	return &AssignExpr{exprBase: n.exprBase, Op: n.Op, LHS: lhs, RHS: rhs}
}

// Cost of an assignment.
func (n *AssignExpr) Cost(ctx *CompileContext) int {
	if n.Op == token.ASSIGN {
		return CostAssign
	}
	return CostAssign + CostSimpleArith
}

// Value emits the assignment and yields the stored value. Compound
// forms compute the target address once: load, apply the operator in
// the promoted type, convert back, store.
func (n *AssignExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	ctx := em.Compile()
	lvalue, lvType := lvalueAndType(ctx, em, n.LHS)
	if lvalue == nil || lvType == nil {
		return nil
	}
	sym := n.LHS.BaseSymbol()
	lhsT := storageType(ctx, n.LHS)
	if lhsT == nil {
		return nil
	}

	if n.Op == token.ASSIGN {
		v := n.RHS.Value(em)
		if v == nil {
			return nil
		}
		storeResult(em, v, lvalue, lvType, sym)
		return v
	}

	old := em.MaskedLoad(lvalue, maskForStore(em, sym), lvType, "load")
	rv := n.RHS.Value(em)
	if old == nil || rv == nil {
		return nil
	}

	var result Value
	if pt, isPtr := lhsT.(*PointerType); isPtr {
		idx := rv
		if n.Op == token.SUB_ASSIGN {
			idx = em.Neg(rv)
		}
		result = em.ElementPtr(old, idx, pt, "ptroffset")
	} else {
		bop := compoundToBinary(n.Op)
		opT := TypeOf(ctx, n.RHS)
		if opT == nil {
			return nil
		}
		x := old
		if !EqualIgnoringConst(lhsT.AsNonConst(), opT.AsNonConst()) {
			x = em.Convert(old, lhsT, opT)
		}
		r := em.BinaryOp(bop, x, rv, opInstName(bop))
		result = r
		if !EqualIgnoringConst(lhsT.AsNonConst(), opT.AsNonConst()) {
			result = em.Convert(r, opT, lhsT)
		}
	}
	storeResult(em, result, lvalue, lvType, sym)
	return result
}
