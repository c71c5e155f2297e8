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
	"fmt"
	"strings"

	"github.com/ospc-org/ospc/build/ir/irkind"
)

// Overload resolution tries increasingly permissive matching rules,
// one tier at a time, and stops at the first tier with any match:
//
//	1. exact type match
//	2. match ignoring the value/reference distinction
//	3. match by widening that cannot lose a value
//	4. match by promoting uniform arguments to varying
//	5. match by any conversion keeping variability
//	6. match by any legal conversion
//
// Within a tier a candidate's cost is the number of arguments that
// needed more than an exact match; a null literal passed to a pointer
// parameter is free. The cheapest candidate wins; a tie is an
// ambiguity error. Names starting with "__" belong to the runtime and
// resolve with tier 1 only.

const (
	tierExact = 1 + iota
	tierIgnoreRefs
	tierWidening
	tierUniformToVarying
	tierSameVariability
	tierAnyConversion
	tierMax = tierAnyConversion
)

func derefTargetType(t Type) Type {
	if rt, ok := t.(*ReferenceType); ok {
		return rt.Target()
	}
	return t
}

// widensWithoutLoss reports whether every value of one atomic type is
// representable in another: the tier 3 rule. Variability must agree.
func widensWithoutLoss(from, to Type) bool {
	fa, ok := from.(*AtomicType)
	if !ok {
		return false
	}
	ta, ok := to.(*AtomicType)
	if !ok {
		return false
	}
	if fa.Variability() != ta.Variability() {
		return false
	}
	fk, tk := fa.Kind(), ta.Kind()
	if !irkind.IsNumeric(tk) {
		return false
	}
	switch fk {
	case irkind.Bool:
		return true
	case irkind.Int8, irkind.Uint8:
		return tk != irkind.Int8 && tk != irkind.Uint8
	case irkind.Int16, irkind.Uint16:
		switch tk {
		case irkind.Int32, irkind.Uint32, irkind.Int64, irkind.Uint64, irkind.Float, irkind.Double:
			return true
		}
	case irkind.Int32, irkind.Uint32:
		switch tk {
		case irkind.Int32, irkind.Uint32, irkind.Int64, irkind.Uint64:
			return true
		}
	case irkind.Int64, irkind.Uint64:
		return tk == irkind.Int64 || tk == irkind.Uint64
	case irkind.Float:
		return tk == irkind.Double
	}
	return false
}

func tierMatches(ctx *CompileContext, tier int, from, to Type) bool {
	switch tier {
	case tierIgnoreRefs:
		return EqualIgnoringConst(derefTargetType(from), derefTargetType(to))
	case tierWidening:
		return widensWithoutLoss(from, to)
	case tierUniformToVarying:
		return IsUniformType(from) && IsVaryingType(to) &&
			EqualIgnoringConst(from.AsVarying(), to)
	case tierSameVariability:
		return IsUniformType(from) == IsUniformType(to) && CanConvert(ctx, from, to)
	case tierAnyConversion:
		return CanConvert(ctx, from, to)
	}
	return false
}

// argMatchCost decides whether an argument type can bind a parameter
// under the given tier, and at what cost. Exact matches found while
// in a looser tier keep their zero cost.
func argMatchCost(ctx *CompileContext, from, to Type, couldBeNull bool, tier int) (int, bool) {
	if from == nil || to == nil {
		return 0, false
	}
	if couldBeNull {
		if _, ok := derefTargetType(to).(*PointerType); ok {
			return 0, true
		}
	}
	if EqualIgnoringConst(from, to) {
		return 0, true
	}
	for t := tierExact + 1; t <= tier; t++ {
		if tierMatches(ctx, t, from, to) {
			return 1, true
		}
	}
	return 0, false
}

// overloadCost sums the per-argument costs of calling ft with the
// given argument types, or reports false when the call cannot bind:
// too many arguments, a parameter without a default left uncovered,
// or an argument no rule of the tier accepts.
func overloadCost(ctx *CompileContext, ft *FunctionType, argTypes []Type, couldBeNull []bool, tier int) (int, bool) {
	if len(argTypes) > ft.NumParams() {
		return 0, false
	}
	for i := len(argTypes); i < ft.NumParams(); i++ {
		if ft.Param(i).Default == nil {
			return 0, false
		}
	}
	total := 0
	for i, at := range argTypes {
		null := i < len(couldBeNull) && couldBeNull[i]
		c, ok := argMatchCost(ctx, at, ft.Param(i).Type, null, tier)
		if !ok {
			return 0, false
		}
		total += c
	}
	return total, true
}

// functionSignature formats a candidate the way declarations look.
func functionSignature(sym *Symbol) string {
	ft, ok := sym.Type.(*FunctionType)
	if !ok {
		return sym.Name
	}
	types := make([]Type, ft.NumParams())
	for i := range types {
		types[i] = ft.Param(i).Type
	}
	prefix := ""
	if ft.IsTask() {
		prefix = "task "
	}
	return fmt.Sprintf("%s%s %s%s", prefix, ft.Return(), sym.Name, ParamTypesString(types))
}

func appendCandidates(sb *strings.Builder, argTypes []Type, candidates []*Symbol) {
	fmt.Fprintf(sb, "\nPassed types: %s", ParamTypesString(argTypes))
	for _, cand := range candidates {
		fmt.Fprintf(sb, "\nCandidate function: %s", functionSignature(cand))
	}
}

// Resolve picks the overload to call for the given argument types.
// couldBeNull marks arguments that are zero literals, which bind any
// pointer parameter for free. On failure a diagnostic listing the
// candidates has been reported and false is returned.
func (n *FunctionSymbolExpr) Resolve(ctx *CompileContext, argTypes []Type, couldBeNull []bool) bool {
	maxTier := tierMax
	exactOnly := strings.HasPrefix(n.Name, "__")
	if exactOnly {
		maxTier = tierExact
	}

	type scored struct {
		sym  *Symbol
		cost int
	}
	for tier := tierExact; tier <= maxTier; tier++ {
		var matches []scored
		best := 0
		for _, cand := range n.Candidates {
			ft, ok := cand.Type.(*FunctionType)
			if !ok {
				continue
			}
			cost, ok := overloadCost(ctx, ft, argTypes, couldBeNull, tier)
			if !ok {
				continue
			}
			if len(matches) == 0 || cost < best {
				best = cost
			}
			matches = append(matches, scored{cand, cost})
		}
		if len(matches) == 0 {
			continue
		}
		var tied []*Symbol
		for _, m := range matches {
			if m.cost == best {
				tied = append(tied, m.sym)
			}
		}
		if len(tied) == 1 {
			n.Matched = tied[0]
			return true
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "Multiple overloaded instances of function %q matched.", n.Name)
		appendCandidates(&sb, argTypes, tied)
		ctx.Errorf(n.pos, "%s", sb.String())
		n.resolveFailed = true
		return false
	}

	suffix := ""
	if exactOnly {
		suffix = " only considering exact matches"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Unable to find any matching overload for call to function %q%s.", n.Name, suffix)
	appendCandidates(&sb, argTypes, n.Candidates)
	ctx.Errorf(n.pos, "%s", sb.String())
	n.resolveFailed = true
	return false
}
