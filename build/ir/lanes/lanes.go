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

// Package lanes stores and operates on the per-lane data of
// compile-time constants.
package lanes

import (
	"fmt"

	"github.com/gx-org/backend/dtype"
	"github.com/gx-org/backend/shape"
)

// MaxWidth is the widest gang any target supports. Lane blocks are
// stored inline with this capacity so that constant folding never
// allocates.
const MaxWidth = 64

type (
	// Element is the set of Go types a lane block can hold.
	Element interface {
		~bool | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
	}

	// Numeric is the subset of Element supporting arithmetic.
	Numeric interface {
		~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
	}

	// Integer is the subset of Element supporting bitwise operators.
	Integer interface {
		~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
	}

	// Float is the subset of Element holding floating-point values.
	Float interface {
		~float32 | ~float64
	}
)

// Values is a fixed-capacity block of per-lane values. A uniform
// quantity uses one lane; a varying quantity uses one lane per
// program instance in the gang.
type Values[T Element] struct {
	n int
	v [MaxWidth]T
}

// Make returns a block holding the given values, one per lane.
func Make[T Element](vals []T) Values[T] {
	if len(vals) == 0 || len(vals) > MaxWidth {
		panic(fmt.Sprintf("lanes: cannot hold %d values", len(vals)))
	}
	l := Values[T]{n: len(vals)}
	copy(l.v[:], vals)
	return l
}

// Splat returns a block with the same value in all n lanes.
func Splat[T Element](val T, n int) Values[T] {
	if n <= 0 || n > MaxWidth {
		panic(fmt.Sprintf("lanes: cannot hold %d values", n))
	}
	l := Values[T]{n: n}
	for i := 0; i < n; i++ {
		l.v[i] = val
	}
	return l
}

// Len returns the number of lanes in use.
func (l *Values[T]) Len() int {
	return l.n
}

// At returns the value of lane i.
func (l *Values[T]) At(i int) T {
	if i >= l.n {
		panic(fmt.Sprintf("lanes: lane %d out of %d", i, l.n))
	}
	return l.v[i]
}

// Slice returns a copy of the lanes in use.
func (l *Values[T]) Slice() []T {
	s := make([]T, l.n)
	copy(s, l.v[:l.n])
	return s
}

// Broadcast returns a block with lane 0 replicated across n lanes.
// A block already holding n lanes is returned unchanged.
func (l *Values[T]) Broadcast(n int) Values[T] {
	if l.n == n {
		return *l
	}
	return Splat(l.v[0], n)
}

// String returns the lanes as a bracketed list.
func (l *Values[T]) String() string {
	return fmt.Sprintf("%v", l.v[:l.n])
}

// ShapeOf returns the backend shape of a lane block: an atom for a
// single lane, a rank-1 array otherwise.
func ShapeOf[T dtype.GoDataType](l *Values[T]) *shape.Shape {
	s := &shape.Shape{DType: dtype.Generic[T]()}
	if l.n > 1 {
		s.AxisLengths = []int{l.n}
	}
	return s
}

// Map applies f lane by lane.
func Map[S, D Element](x *Values[S], f func(S) D) Values[D] {
	r := Values[D]{n: x.n}
	for i := 0; i < x.n; i++ {
		r.v[i] = f(x.v[i])
	}
	return r
}
