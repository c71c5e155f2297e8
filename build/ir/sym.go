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
	"github.com/ospc-org/ospc/base/ordered"
	"github.com/ospc-org/ospc/build/diag"
	"github.com/ospc-org/ospc/build/source"
)

// StorageClass of a declaration.
type StorageClass uint8

const (
	// StorageNone is the default storage class.
	StorageNone StorageClass = iota
	// Extern declarations refer to storage defined elsewhere.
	Extern
	// ExternC declarations refer to functions with C linkage and
	// calling convention.
	ExternC
	// Static declarations keep their value across calls and are
	// shared by the whole gang.
	Static
	// Typedef declarations name a type rather than storage.
	Typedef
)

// String returns the storage class as the language spells it.
func (s StorageClass) String() string {
	switch s {
	case Extern:
		return "extern"
	case ExternC:
		return `extern "C"`
	case Static:
		return "static"
	case Typedef:
		return "typedef"
	}
	return ""
}

// Symbol is a named entity of the program: a variable, a function, or
// an enumerator.
type Symbol struct {
	// Name of the symbol in the program.
	Name string
	// Pos is where the symbol was declared.
	Pos source.Pos
	// Type of the symbol. For functions this is a *FunctionType.
	Type Type
	// Storage is the backend location of the symbol's memory, set
	// when its declaration is emitted.
	Storage Value
	// ConstValue is the symbol's value when it is known at compile
	// time, as for enumerators and constant-initialized const
	// variables.
	ConstValue *ConstExpr
	// StorageClass the symbol was declared with.
	StorageClass StorageClass
	// VaryingCFDepth is how many levels of varying control flow
	// enclosed the symbol's declaration.
	VaryingCFDepth int
	// ParentFunction is the function symbol the declaration appears
	// in, or nil for globals.
	ParentFunction *Symbol
}

// NewSymbol returns a new symbol.
func NewSymbol(name string, pos source.Pos, typ Type) *Symbol {
	return &Symbol{Name: name, Pos: pos, Type: typ}
}

// SymbolTable maps names to the variables, functions and types of
// the program. Variable scopes nest; functions and types live in a
// single global namespace.
type SymbolTable struct {
	vars  []*ordered.Map[string, *Symbol]
	funcs *ordered.Map[string, []*Symbol]
	types *ordered.Map[string, Type]
}

// NewSymbolTable returns a symbol table holding only the global
// scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		vars:  []*ordered.Map[string, *Symbol]{ordered.NewMap[string, *Symbol]()},
		funcs: ordered.NewMap[string, []*Symbol](),
		types: ordered.NewMap[string, Type](),
	}
}

// PushScope opens a new innermost variable scope.
func (st *SymbolTable) PushScope() {
	st.vars = append(st.vars, ordered.NewMap[string, *Symbol]())
}

// PopScope closes the innermost variable scope. The global scope
// cannot be popped.
func (st *SymbolTable) PopScope() {
	if len(st.vars) == 1 {
		panic("popping the global scope")
	}
	st.vars = st.vars[:len(st.vars)-1]
}

// AddVariable declares a symbol in the innermost scope. Redeclaring a
// name in the same scope is an error; shadowing an outer scope only
// warns.
func (st *SymbolTable) AddVariable(d diag.Sink, sym *Symbol) bool {
	inner := st.vars[len(st.vars)-1]
	if _, in := inner.Load(sym.Name); in {
		d.Report(diag.Errorf(sym.Pos, "Ignoring redeclaration of symbol %q.", sym.Name))
		return false
	}
	for i := len(st.vars) - 2; i >= 0; i-- {
		if _, in := st.vars[i].Load(sym.Name); in {
			d.Report(diag.Warningf(sym.Pos, "Symbol %q shadows symbol declared in outer scope.", sym.Name))
			break
		}
	}
	inner.Store(sym.Name, sym)
	return true
}

// LookupVariable finds a symbol by name, innermost scope first.
func (st *SymbolTable) LookupVariable(name string) *Symbol {
	for i := len(st.vars) - 1; i >= 0; i-- {
		if sym, in := st.vars[i].Load(name); in {
			return sym
		}
	}
	return nil
}

// AddFunction declares a function overload. It returns false without
// reporting when an overload with the same signature is already
// declared.
func (st *SymbolTable) AddFunction(sym *Symbol) bool {
	overloads, _ := st.funcs.Load(sym.Name)
	for _, o := range overloads {
		if EqualTypes(o.Type, sym.Type) {
			return false
		}
	}
	st.funcs.Store(sym.Name, append(overloads, sym))
	return true
}

// LookupFunction returns all overloads declared under a name.
func (st *SymbolTable) LookupFunction(name string) []*Symbol {
	overloads, _ := st.funcs.Load(name)
	return overloads
}

// AddType declares a named type. Redefining a name is an error.
func (st *SymbolTable) AddType(d diag.Sink, name string, typ Type, pos source.Pos) bool {
	if _, in := st.types.Load(name); in {
		d.Report(diag.Errorf(pos, "Ignoring redefinition of type %q.", name))
		return false
	}
	st.types.Store(name, typ)
	return true
}

// LookupType finds a named type.
func (st *SymbolTable) LookupType(name string) Type {
	typ, _ := st.types.Load(name)
	return typ
}

// ClosestMatch returns declared variable and function names within
// edit distance 2 of name, closest first, for use in diagnostics
// suggesting what the program may have meant.
func (st *SymbolTable) ClosestMatch(name string) []string {
	const maxDist = 2
	var buckets [maxDist][]string
	seen := map[string]bool{}
	consider := func(candidate string) {
		if seen[candidate] {
			return
		}
		seen[candidate] = true
		d := editDistance(name, candidate, maxDist)
		if d >= 1 && d <= maxDist {
			buckets[d-1] = append(buckets[d-1], candidate)
		}
	}
	for _, scope := range st.vars {
		for n := range scope.Keys() {
			consider(n)
		}
	}
	for n := range st.funcs.Keys() {
		consider(n)
	}
	for _, b := range buckets {
		if len(b) > 0 {
			return b
		}
	}
	return nil
}

// editDistance returns the Levenshtein distance between a and b,
// or maxDist+1 as soon as the distance is known to exceed maxDist.
func editDistance(a, b string, maxDist int) int {
	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > maxDist {
		return maxDist + 1
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		best := cur[0]
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if cur[j] < best {
				best = cur[j]
			}
		}
		if best > maxDist {
			return maxDist + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
