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

package lanes

import (
	"go/token"

	"github.com/pkg/errors"
)

func zip[S, D Element](x, y *Values[S], f func(S, S) D) Values[D] {
	r := Values[D]{n: x.n}
	for i := 0; i < x.n; i++ {
		r.v[i] = f(x.v[i], y.v[i])
	}
	return r
}

func checkLanes[T Element](x, y *Values[T]) error {
	if x.n != y.n {
		return errors.Errorf("operands have %d and %d lanes", x.n, y.n)
	}
	return nil
}

// FloatArith applies a floating-point arithmetic operator lane by
// lane. Division by zero follows IEEE rules.
func FloatArith[T Float](op token.Token, x, y *Values[T]) (Values[T], error) {
	if err := checkLanes(x, y); err != nil {
		return Values[T]{}, err
	}
	switch op {
	case token.ADD:
		return zip(x, y, func(a, b T) T { return a + b }), nil
	case token.SUB:
		return zip(x, y, func(a, b T) T { return a - b }), nil
	case token.MUL:
		return zip(x, y, func(a, b T) T { return a * b }), nil
	case token.QUO:
		return zip(x, y, func(a, b T) T { return a / b }), nil
	}
	return Values[T]{}, errors.Errorf("invalid float operator: %s", op)
}

// IntArith applies an integer arithmetic or bitwise operator lane by
// lane. Operations whose result the language leaves undefined (divide
// or remainder by zero, shift by a negative count) return an error so
// that the caller leaves the expression unfolded.
func IntArith[T Integer](op token.Token, x, y *Values[T]) (Values[T], error) {
	if err := checkLanes(x, y); err != nil {
		return Values[T]{}, err
	}
	var zero T
	switch op {
	case token.ADD:
		return zip(x, y, func(a, b T) T { return a + b }), nil
	case token.SUB:
		return zip(x, y, func(a, b T) T { return a - b }), nil
	case token.MUL:
		return zip(x, y, func(a, b T) T { return a * b }), nil
	case token.QUO, token.REM:
		for i := 0; i < y.n; i++ {
			if y.v[i] == zero {
				return Values[T]{}, errors.Errorf("division by zero in lane %d", i)
			}
		}
		if op == token.QUO {
			return zip(x, y, func(a, b T) T { return a / b }), nil
		}
		return zip(x, y, func(a, b T) T { return a % b }), nil
	case token.SHL, token.SHR:
		for i := 0; i < y.n; i++ {
			if y.v[i] < zero {
				return Values[T]{}, errors.Errorf("negative shift count in lane %d", i)
			}
		}
		if op == token.SHL {
			return zip(x, y, func(a, b T) T { return a << b }), nil
		}
		return zip(x, y, func(a, b T) T { return a >> b }), nil
	case token.AND:
		return zip(x, y, func(a, b T) T { return a & b }), nil
	case token.OR:
		return zip(x, y, func(a, b T) T { return a | b }), nil
	case token.XOR:
		return zip(x, y, func(a, b T) T { return a ^ b }), nil
	}
	return Values[T]{}, errors.Errorf("invalid integer operator: %s", op)
}

// Compare applies a comparison operator lane by lane.
func Compare[T Numeric](op token.Token, x, y *Values[T]) (Values[bool], error) {
	if err := checkLanes(x, y); err != nil {
		return Values[bool]{}, err
	}
	switch op {
	case token.EQL:
		return zip(x, y, func(a, b T) bool { return a == b }), nil
	case token.NEQ:
		return zip(x, y, func(a, b T) bool { return a != b }), nil
	case token.LSS:
		return zip(x, y, func(a, b T) bool { return a < b }), nil
	case token.GTR:
		return zip(x, y, func(a, b T) bool { return a > b }), nil
	case token.LEQ:
		return zip(x, y, func(a, b T) bool { return a <= b }), nil
	case token.GEQ:
		return zip(x, y, func(a, b T) bool { return a >= b }), nil
	}
	return Values[bool]{}, errors.Errorf("invalid comparison operator: %s", op)
}

// Logical applies a boolean operator lane by lane. The short-circuit
// operators evaluate both operands: on constants there is nothing to
// skip.
func Logical(op token.Token, x, y *Values[bool]) (Values[bool], error) {
	if err := checkLanes(x, y); err != nil {
		return Values[bool]{}, err
	}
	switch op {
	case token.LAND, token.AND:
		return zip(x, y, func(a, b bool) bool { return a && b }), nil
	case token.LOR, token.OR:
		return zip(x, y, func(a, b bool) bool { return a || b }), nil
	case token.XOR, token.NEQ:
		return zip(x, y, func(a, b bool) bool { return a != b }), nil
	case token.EQL:
		return zip(x, y, func(a, b bool) bool { return a == b }), nil
	}
	return Values[bool]{}, errors.Errorf("invalid boolean operator: %s", op)
}

// Neg negates every lane.
func Neg[T Numeric](x *Values[T]) Values[T] {
	return Map(x, func(a T) T { return -a })
}

// BitNot complements every lane.
func BitNot[T Integer](x *Values[T]) Values[T] {
	return Map(x, func(a T) T { return ^a })
}

// Not inverts every lane.
func Not(x *Values[bool]) Values[bool] {
	return Map(x, func(a bool) bool { return !a })
}

// Convert converts every lane to another numeric type, with Go
// conversion semantics.
func Convert[D, S Numeric](x *Values[S]) Values[D] {
	return Map(x, func(a S) D { return D(a) })
}

// FromBool converts boolean lanes to 1 or 0.
func FromBool[D Numeric](x *Values[bool]) Values[D] {
	return Map(x, func(a bool) D {
		if a {
			return 1
		}
		return 0
	})
}

// ToBool converts numeric lanes to false for zero, true otherwise.
func ToBool[S Numeric](x *Values[S]) Values[bool] {
	var zero S
	return Map(x, func(a S) bool { return a != zero })
}
