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

	"golang.org/x/exp/constraints"
	"github.com/ospc-org/ospc/build/ir/irkind"
	"github.com/ospc-org/ospc/build/ir/lanes"
	"github.com/ospc-org/ospc/build/source"
)

// ConstExpr is a compile-time constant: one value per lane of its
// type. Storage is normalized into one of four families (bool,
// signed, unsigned, floating point), each wide enough to hold any
// kind of the family exactly. Values are truncated to the kind's
// width when stored, so arithmetic on the wide representation matches
// what the target computes; the accessors convert on the way out.
type ConstExpr struct {
	exprBase
	typ    Type
	bools  *lanes.Values[bool]
	ints   *lanes.Values[int64]
	uints  *lanes.Values[uint64]
	floats *lanes.Values[float64]
}

var (
	_ Expr             = (*ConstExpr)(nil)
	_ ConstantProvider = (*ConstExpr)(nil)
)

func laneCountFor(ctx *CompileContext, typ Type) int {
	if IsVaryingType(typ) {
		return ctx.Target.VectorWidth
	}
	return 1
}

func blockOf[S any, D lanes.Element](n int, vals []S, f func(S) D) *lanes.Values[D] {
	if len(vals) == 1 && n > 1 {
		b := lanes.Splat(f(vals[0]), n)
		return &b
	}
	if len(vals) != n {
		panic(fmt.Sprintf("constant with %d values for %d lanes", len(vals), n))
	}
	out := make([]D, n)
	for i, v := range vals {
		out[i] = f(v)
	}
	b := lanes.Make(out)
	return &b
}

func normInt(k irkind.Kind, v int64) int64 {
	switch k {
	case irkind.Int8:
		return int64(int8(v))
	case irkind.Int16:
		return int64(int16(v))
	case irkind.Int32:
		return int64(int32(v))
	}
	return v
}

func normUint(k irkind.Kind, v uint64) uint64 {
	switch k {
	case irkind.Uint8:
		return uint64(uint8(v))
	case irkind.Uint16:
		return uint64(uint16(v))
	case irkind.Uint32, irkind.Enum:
		return uint64(uint32(v))
	}
	return v
}

func normFloat(k irkind.Kind, v float64) float64 {
	if k == irkind.Float {
		return float64(float32(v))
	}
	return v
}

// NewConst returns a constant of a scalar or enumeration type from
// numeric values. A single value is replicated across the lanes of a
// varying type; otherwise exactly one value per lane must be given.
func NewConst[T constraints.Integer | constraints.Float](ctx *CompileContext, typ Type, pos source.Pos, vals ...T) *ConstExpr {
	c := &ConstExpr{exprBase: exprBase{pos: pos}, typ: typ}
	n := laneCountFor(ctx, typ)
	k := typ.Kind()
	switch {
	case k == irkind.Bool:
		c.bools = blockOf(n, vals, func(v T) bool { return v != 0 })
	case irkind.IsSigned(k):
		c.ints = blockOf(n, vals, func(v T) int64 { return normInt(k, int64(v)) })
	case irkind.IsUnsigned(k):
		c.uints = blockOf(n, vals, func(v T) uint64 { return normUint(k, uint64(int64(v))) })
	case irkind.IsFloat(k):
		c.floats = blockOf(n, vals, func(v T) float64 { return normFloat(k, float64(v)) })
	default:
		panic(fmt.Sprintf("constant of non-scalar type %s", typ))
	}
	return c
}

// NewBoolConst returns a constant of a scalar or enumeration type
// from bool values, converting to 1 or 0 for numeric types.
func NewBoolConst(ctx *CompileContext, typ Type, pos source.Pos, vals ...bool) *ConstExpr {
	c := &ConstExpr{exprBase: exprBase{pos: pos}, typ: typ}
	n := laneCountFor(ctx, typ)
	k := typ.Kind()
	toInt := func(v bool) int64 {
		if v {
			return 1
		}
		return 0
	}
	switch {
	case k == irkind.Bool:
		c.bools = blockOf(n, vals, func(v bool) bool { return v })
	case irkind.IsSigned(k):
		c.ints = blockOf(n, vals, toInt)
	case irkind.IsUnsigned(k):
		c.uints = blockOf(n, vals, func(v bool) uint64 { return uint64(toInt(v)) })
	case irkind.IsFloat(k):
		c.floats = blockOf(n, vals, func(v bool) float64 { return float64(toInt(v)) })
	default:
		panic(fmt.Sprintf("constant of non-scalar type %s", typ))
	}
	return c
}

// Count returns the number of lanes the constant holds.
func (c *ConstExpr) Count() int {
	switch {
	case c.bools != nil:
		return c.bools.Len()
	case c.ints != nil:
		return c.ints.Len()
	case c.uints != nil:
		return c.uints.Len()
	case c.floats != nil:
		return c.floats.Len()
	}
	return 0
}

func forceLanes[T any](ctx *CompileContext, force bool, vals []T) []T {
	if !force || len(vals) != 1 {
		return vals
	}
	w := ctx.Target.VectorWidth
	if w <= 1 {
		return vals
	}
	out := make([]T, w)
	for i := range out {
		out[i] = vals[0]
	}
	return out
}

func numericLanes[D lanes.Numeric](c *ConstExpr) []D {
	switch {
	case c.bools != nil:
		out := make([]D, c.bools.Len())
		for i := range out {
			if c.bools.At(i) {
				out[i] = 1
			}
		}
		return out
	case c.ints != nil:
		v := lanes.Convert[D](c.ints)
		return v.Slice()
	case c.uints != nil:
		v := lanes.Convert[D](c.uints)
		return v.Slice()
	case c.floats != nil:
		v := lanes.Convert[D](c.floats)
		return v.Slice()
	}
	return nil
}

// AsBool returns the lanes as bools; numeric lanes test against
// zero. With forceVarying, a single lane is replicated to the gang
// width. The same holds for all the accessors below, each converting
// to its type with C truncation semantics.
func (c *ConstExpr) AsBool(ctx *CompileContext, forceVarying bool) []bool {
	var out []bool
	switch {
	case c.bools != nil:
		out = c.bools.Slice()
	case c.ints != nil:
		v := lanes.ToBool(c.ints)
		out = v.Slice()
	case c.uints != nil:
		v := lanes.ToBool(c.uints)
		out = v.Slice()
	case c.floats != nil:
		v := lanes.ToBool(c.floats)
		out = v.Slice()
	}
	return forceLanes(ctx, forceVarying, out)
}

// AsInt8 returns the lanes as int8.
func (c *ConstExpr) AsInt8(ctx *CompileContext, forceVarying bool) []int8 {
	return forceLanes(ctx, forceVarying, numericLanes[int8](c))
}

// AsUint8 returns the lanes as uint8.
func (c *ConstExpr) AsUint8(ctx *CompileContext, forceVarying bool) []uint8 {
	return forceLanes(ctx, forceVarying, numericLanes[uint8](c))
}

// AsInt16 returns the lanes as int16.
func (c *ConstExpr) AsInt16(ctx *CompileContext, forceVarying bool) []int16 {
	return forceLanes(ctx, forceVarying, numericLanes[int16](c))
}

// AsUint16 returns the lanes as uint16.
func (c *ConstExpr) AsUint16(ctx *CompileContext, forceVarying bool) []uint16 {
	return forceLanes(ctx, forceVarying, numericLanes[uint16](c))
}

// AsInt32 returns the lanes as int32.
func (c *ConstExpr) AsInt32(ctx *CompileContext, forceVarying bool) []int32 {
	return forceLanes(ctx, forceVarying, numericLanes[int32](c))
}

// AsUint32 returns the lanes as uint32.
func (c *ConstExpr) AsUint32(ctx *CompileContext, forceVarying bool) []uint32 {
	return forceLanes(ctx, forceVarying, numericLanes[uint32](c))
}

// AsInt64 returns the lanes as int64.
func (c *ConstExpr) AsInt64(ctx *CompileContext, forceVarying bool) []int64 {
	return forceLanes(ctx, forceVarying, numericLanes[int64](c))
}

// AsUint64 returns the lanes as uint64.
func (c *ConstExpr) AsUint64(ctx *CompileContext, forceVarying bool) []uint64 {
	return forceLanes(ctx, forceVarying, numericLanes[uint64](c))
}

// AsFloat returns the lanes as float.
func (c *ConstExpr) AsFloat(ctx *CompileContext, forceVarying bool) []float32 {
	return forceLanes(ctx, forceVarying, numericLanes[float32](c))
}

// AsDouble returns the lanes as double.
func (c *ConstExpr) AsDouble(ctx *CompileContext, forceVarying bool) []float64 {
	return forceLanes(ctx, forceVarying, numericLanes[float64](c))
}

// Type returns the type of the constant.
func (c *ConstExpr) Type(ctx *CompileContext) Type { return c.typ }

// TypeCheck returns the constant unchanged: literals are always
// well-typed.
func (c *ConstExpr) TypeCheck(ctx *CompileContext) Expr { return c }

// Optimize returns the constant unchanged.
func (c *ConstExpr) Optimize(ctx *CompileContext) Expr { return c }

// Cost of a constant is zero.
func (c *ConstExpr) Cost(ctx *CompileContext) int { return 0 }

// Value materializes the constant.
func (c *ConstExpr) Value(em EmitContext) Value {
	em.SetPos(c.pos)
	return em.ConstValue(c)
}

// Constant returns the constant converted to typ, for use in
// initializers. Conversion may smear a uniform constant to a varying
// type but never the reverse.
func (c *ConstExpr) Constant(em EmitContext, typ Type) (Value, bool) {
	cc := convertConst(em.Compile(), c, typ, c.pos)
	if cc == nil {
		return nil, false
	}
	return em.ConstValue(cc), true
}

// String returns the lanes of the constant for debugging.
func (c *ConstExpr) String() string {
	switch {
	case c.bools != nil:
		return c.bools.String()
	case c.ints != nil:
		return c.ints.String()
	case c.uints != nil:
		return c.uints.String()
	case c.floats != nil:
		return c.floats.String()
	}
	return "[]"
}

// IsConstZero reports whether the expression is an integer constant
// whose lanes are all zero, which is how the null pointer literal
// reaches a pointer context.
func IsConstZero(e Expr) bool {
	c, ok := e.(*ConstExpr)
	if !ok || c.typ == nil || !irkind.IsInteger(c.typ.Kind()) {
		return false
	}
	switch {
	case c.ints != nil:
		for i := 0; i < c.ints.Len(); i++ {
			if c.ints.At(i) != 0 {
				return false
			}
		}
		return true
	case c.uints != nil:
		for i := 0; i < c.uints.Len(); i++ {
			if c.uints.At(i) != 0 {
				return false
			}
		}
		return true
	}
	return false
}
