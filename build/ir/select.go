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

// SelectExpr is the ternary operator test ? onTrue : onFalse.
type SelectExpr struct {
	exprBase
	Test, OnTrue, OnFalse Expr
}

var _ Expr = (*SelectExpr)(nil)

// Type returns the common type of the two alternatives, varying when
// the test is.
func (n *SelectExpr) Type(ctx *CompileContext) Type {
	return TypeOf(ctx, n.OnTrue)
}

// TypeCheck converts the test to its matching bool shape and both
// alternatives to their common type. A varying test makes the result
// varying even when both alternatives are uniform.
func (n *SelectExpr) TypeCheck(ctx *CompileContext) Expr {
	test := derefReference(ctx, TypeCheckExpr(ctx, n.Test))
	onTrue := derefReference(ctx, TypeCheckExpr(ctx, n.OnTrue))
	onFalse := derefReference(ctx, TypeCheckExpr(ctx, n.OnFalse))
	testT := TypeOf(ctx, test)
	t1, t2 := TypeOf(ctx, onTrue), TypeOf(ctx, onFalse)
	if testT == nil || t1 == nil || t2 == nil {
		return nil
	}

	test = ConvertExpr(ctx, test, MatchingBoolType(testT), "select expression test")
	testT = TypeOf(ctx, test)
	if testT == nil {
		return nil
	}

	t := MoreGeneralType(ctx, t1, t2, n.pos, "select expression")
	if t == nil {
		return nil
	}
	if tv, testIsVec := testT.(*VectorType); testIsVec {
		vv, ok := t.(*VectorType)
		if !ok || vv.Len() != tv.Len() {
			ctx.Errorf(n.pos, "Vector test type %q must match vector value type %q in select expression.", testT, t)
			return nil
		}
	}
	if IsVaryingType(testT) {
		t = t.AsVarying()
	}
	onTrue = ConvertExpr(ctx, onTrue, t, "select expression")
	onFalse = ConvertExpr(ctx, onFalse, t, "select expression")
	if onTrue == nil || onFalse == nil {
		return nil
	}
	return &SelectExpr{exprBase: n.exprBase, Test: test, OnTrue: onTrue, OnFalse: onFalse}
}

// Optimize folds away the select when the test is a constant that
// decides the same way on every lane.
func (n *SelectExpr) Optimize(ctx *CompileContext) Expr {
	test := OptimizeExpr(ctx, n.Test)
	onTrue := OptimizeExpr(ctx, n.OnTrue)
	onFalse := OptimizeExpr(ctx, n.OnFalse)
	if test == nil || onTrue == nil || onFalse == nil {
		return nil
	}
	if c, ok := test.(*ConstExpr); ok {
		vals := c.AsBool(ctx, false)
		allTrue, allFalse := true, true
		for _, v := range vals {
			if v {
				allFalse = false
			} else {
				allTrue = false
			}
		}
		if allTrue {
			return onTrue
		}
		if allFalse {
			return onFalse
		}
	}
	return &SelectExpr{exprBase: n.exprBase, Test: test, OnTrue: onTrue, OnFalse: onFalse}
}

// Cost of a select.
func (n *SelectExpr) Cost(ctx *CompileContext) int { return CostSelect }

// Value emits the select in one of three forms. A uniform test
// branches so only the taken side runs. A varying test runs both
// sides under complementary masks and blends. A vector test runs both
// sides and picks element by element.
func (n *SelectExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	ctx := em.Compile()
	testT := TypeOf(ctx, n.Test)
	resT := n.Type(ctx)
	if testT == nil || resT == nil {
		return nil
	}

	if tv, ok := testT.(*VectorType); ok {
		test := n.Test.Value(em)
		a := n.OnTrue.Value(em)
		b := n.OnFalse.Value(em)
		if test == nil || a == nil || b == nil {
			return nil
		}
		result := em.Undef(resT)
		for i := 0; i < tv.Len(); i++ {
			ti := em.Extract(test, i, "select_test")
			ai := em.Extract(a, i, "select_true")
			bi := em.Extract(b, i, "select_false")
			result = em.Insert(result, i, em.Select(ti, ai, bi), "select")
		}
		return result
	}

	if IsUniformType(testT) {
		test := n.Test.Value(em)
		if test == nil {
			return nil
		}
		trueBlock := em.NewBasicBlock("select_true")
		falseBlock := em.NewBasicBlock("select_false")
		doneBlock := em.NewBasicBlock("select_done")
		em.BranchIf(test, trueBlock, falseBlock)

		em.SetCurrentBasicBlock(trueBlock)
		a := n.OnTrue.Value(em)
		trueFrom := em.CurrentBasicBlock()
		em.Branch(doneBlock)

		em.SetCurrentBasicBlock(falseBlock)
		b := n.OnFalse.Value(em)
		falseFrom := em.CurrentBasicBlock()
		em.Branch(doneBlock)

		em.SetCurrentBasicBlock(doneBlock)
		if a == nil || b == nil {
			return nil
		}
		return em.Phi2(resT, a, trueFrom, b, falseFrom)
	}

	// Varying test: both sides run, each under the mask of the
	// lanes that take it, then the test blends the results.
	test := n.Test.Value(em)
	if test == nil {
		return nil
	}
	oldMask := em.InternalMask()
	em.SetInternalMaskAnd(oldMask, test)
	a := n.OnTrue.Value(em)
	em.SetInternalMaskAndNot(oldMask, test)
	b := n.OnFalse.Value(em)
	em.SetInternalMask(oldMask)
	if a == nil || b == nil {
		return nil
	}
	return em.Select(test, a, b)
}
