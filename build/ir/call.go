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

// FunctionCallExpr calls a function, directly by name or through a
// function pointer. LaunchCount is non-nil for the launch form, which
// is the only way to invoke task-qualified functions.
type FunctionCallExpr struct {
	exprBase
	Fn          Expr
	Args        *ExprList
	LaunchCount Expr
}

var _ Expr = (*FunctionCallExpr)(nil)

// fnType returns the pointer-to-function type being called through,
// or nil when the callee is not callable.
func (n *FunctionCallExpr) fnType(ctx *CompileContext) (*PointerType, *FunctionType) {
	t := TypeOf(ctx, n.Fn)
	pt, ok := t.(*PointerType)
	if !ok {
		return nil, nil
	}
	ft, ok := pt.Elem().(*FunctionType)
	if !ok {
		return nil, nil
	}
	return pt, ft
}

// Type returns the callee's return type, varying when called through
// a varying function pointer since each lane may reach a different
// function.
func (n *FunctionCallExpr) Type(ctx *CompileContext) Type {
	pt, ft := n.fnType(ctx)
	if ft == nil {
		return nil
	}
	ret := ft.Return()
	if ret == nil {
		return nil
	}
	if IsVaryingType(pt) && !IsVoidType(ret) {
		return ret.AsVarying()
	}
	return ret
}

// TypeCheck resolves the callee when it is an overloaded name,
// converts the arguments to the parameter types, pads missing
// trailing arguments with parameter defaults, and enforces the
// task/launch pairing.
func (n *FunctionCallExpr) TypeCheck(ctx *CompileContext) Expr {
	fn := TypeCheckExpr(ctx, n.Fn)
	if fn == nil || n.Args == nil {
		return nil
	}
	argsExpr := n.Args.TypeCheck(ctx)
	if argsExpr == nil {
		return nil
	}
	args := argsExpr.(*ExprList)

	argTypes := make([]Type, len(args.Exprs))
	couldBeNull := make([]bool, len(args.Exprs))
	for i, a := range args.Exprs {
		argTypes[i] = TypeOf(ctx, a)
		if argTypes[i] == nil {
			return nil
		}
		couldBeNull[i] = IsConstZero(a)
	}

	if fse, ok := fn.(*FunctionSymbolExpr); ok {
		if !fse.Resolve(ctx, argTypes, couldBeNull) {
			return nil
		}
	}

	out := &FunctionCallExpr{exprBase: n.exprBase, Fn: fn, Args: args, LaunchCount: n.LaunchCount}
	pt, ft := out.fnType(ctx)
	if ft == nil {
		ctx.Errorf(n.pos, "Valid function name must be used for function call.")
		return nil
	}

	if n.LaunchCount != nil {
		if !ft.IsTask() {
			ctx.Errorf(n.pos, "Launch expression needs a function with task qualifier.")
			return nil
		}
		count := ConvertExpr(ctx, TypeCheckExpr(ctx, n.LaunchCount), Int32Type(Uniform), "task launch count")
		if count == nil {
			return nil
		}
		out.LaunchCount = count
	} else if ft.IsTask() {
		ctx.Errorf(n.pos, "Functions with task qualifier must be called through a launch expression.")
		return nil
	}

	ret := ft.Return()
	if IsVaryingType(pt) && ret != nil && !IsVoidType(ret) && IsUniformType(ret) {
		ctx.Errorf(n.pos, "Can't call a function with uniform return type %q through a varying function pointer.", ret)
		return nil
	}

	if len(args.Exprs) > ft.NumParams() {
		ctx.Errorf(n.pos, "Function call has %d arguments, but function type %q takes at most %d.",
			len(args.Exprs), ft, ft.NumParams())
		return nil
	}
	converted := &ExprList{exprBase: args.exprBase, Exprs: make([]Expr, 0, ft.NumParams())}
	for i, a := range args.Exprs {
		ca := ConvertExpr(ctx, a, ft.Param(i).Type, "function call argument")
		if ca == nil {
			return nil
		}
		converted.Exprs = append(converted.Exprs, ca)
	}
	for i := len(args.Exprs); i < ft.NumParams(); i++ {
		p := ft.Param(i)
		if p.Default == nil {
			ctx.Errorf(n.pos, "Function call has %d arguments, but function type %q requires %d.",
				len(args.Exprs), ft, i+1)
			return nil
		}
		converted.Exprs = append(converted.Exprs, p.Default)
	}
	out.Args = converted
	return out
}

// Optimize folds the callee, the arguments and the launch count.
func (n *FunctionCallExpr) Optimize(ctx *CompileContext) Expr {
	fn := OptimizeExpr(ctx, n.Fn)
	if fn == nil || n.Args == nil {
		return nil
	}
	argsExpr := n.Args.Optimize(ctx)
	if argsExpr == nil {
		return nil
	}
	out := &FunctionCallExpr{exprBase: n.exprBase, Fn: fn, Args: argsExpr.(*ExprList)}
	if n.LaunchCount != nil {
		out.LaunchCount = OptimizeExpr(ctx, n.LaunchCount)
		if out.LaunchCount == nil {
			return nil
		}
	}
	return out
}

// Cost of a call depends on how the callee is reached.
func (n *FunctionCallExpr) Cost(ctx *CompileContext) int {
	if n.LaunchCount != nil {
		return CostTaskLaunch
	}
	if _, direct := n.Fn.(*FunctionSymbolExpr); direct {
		return CostFuncCall
	}
	t := TypeOf(ctx, n.Fn)
	if t != nil && IsVaryingType(t) {
		return CostFuncPtrVarying
	}
	return CostFuncPtrUniform
}

// Value emits the call or launch.
func (n *FunctionCallExpr) Value(em EmitContext) Value {
	em.SetPos(n.pos)
	ctx := em.Compile()
	_, ft := n.fnType(ctx)
	if ft == nil {
		return nil
	}
	fn := n.Fn.Value(em)
	if fn == nil {
		return nil
	}
	args := make([]Value, len(n.Args.Exprs))
	for i, a := range n.Args.Exprs {
		args[i] = a.Value(em)
		if args[i] == nil {
			return nil
		}
	}
	name := "call"
	if fse, ok := n.Fn.(*FunctionSymbolExpr); ok {
		name = fse.Name
	}
	if n.LaunchCount != nil {
		count := n.LaunchCount.Value(em)
		if count == nil {
			return nil
		}
		return em.Launch(fn, ft, args, count)
	}
	return em.Call(fn, ft, args, name)
}
