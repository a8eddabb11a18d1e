/*
 * Copyright 2022 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ir

import (
    `fmt`
    `math`
    `strconv`
)

// Const is a compile-time numeric value tagged with its kind. Integers are
// stored sign-extended to 64 bits, floats as their IEEE-754 bit pattern.
type Const struct {
    Kind Kind
    Bits uint64
}

func Int32Const(v int32) Const {
    return Const { Kind: Int32, Bits: uint64(int64(v)) }
}

func Int64Const(v int64) Const {
    return Const { Kind: Int64, Bits: uint64(v) }
}

func Float32Const(v float32) Const {
    return Const { Kind: Float32, Bits: uint64(math.Float32bits(v)) }
}

func Float64Const(v float64) Const {
    return Const { Kind: Float64, Bits: math.Float64bits(v) }
}

func BoolConst(v bool) Const {
    if v {
        return Const { Kind: Bool, Bits: 1 }
    } else {
        return Const { Kind: Bool, Bits: 0 }
    }
}

// IntConst builds an integer constant of the given kind, truncating v to the
// width of the kind.
func IntConst(kind Kind, v int64) Const {
    switch kind {
        case Int32 : return Int32Const(int32(v))
        case Int64 : return Int64Const(v)
        default    : panic("ir: IntConst of non-integer kind " + kind.String())
    }
}

// FloatConst builds a floating-point constant of the given kind, rounding v to
// the precision of the kind.
func FloatConst(kind Kind, v float64) Const {
    switch kind {
        case Float32 : return Float32Const(float32(v))
        case Float64 : return Float64Const(v)
        default      : panic("ir: FloatConst of non-float kind " + kind.String())
    }
}

func (self Const) Int() int64 {
    switch self.Kind {
        case Int32 : return int64(int32(self.Bits))
        case Int64 : return int64(self.Bits)
        case Bool  : return int64(self.Bits & 1)
        default    : panic("ir: integer value of " + self.Kind.String() + " constant")
    }
}

func (self Const) Float() float64 {
    switch self.Kind {
        case Float32 : return float64(math.Float32frombits(uint32(self.Bits)))
        case Float64 : return math.Float64frombits(self.Bits)
        default      : panic("ir: float value of " + self.Kind.String() + " constant")
    }
}

func (self Const) Float32() float32 {
    if self.Kind != Float32 {
        panic("ir: f32 value of " + self.Kind.String() + " constant")
    }
    return math.Float32frombits(uint32(self.Bits))
}

// IsZero reports whether the constant is zero. Both signed zeros count.
func (self Const) IsZero() bool {
    if self.Kind.IsFloat() {
        return self.Float() == 0
    } else {
        return self.Int() == 0
    }
}

func (self Const) String() string {
    switch self.Kind {
        case Bool    : return strconv.FormatBool(self.Bits != 0)
        case Int32   : return strconv.FormatInt(self.Int(), 10)
        case Int64   : return strconv.FormatInt(self.Int(), 10)
        case Float32 : return strconv.FormatFloat(self.Float(), 'g', -1, 32)
        case Float64 : return strconv.FormatFloat(self.Float(), 'g', -1, 64)
        default      : panic(fmt.Sprintf("ir: invalid constant kind: %s", self.Kind))
    }
}

// MinInt returns the smallest value representable by an integer kind.
func MinInt(kind Kind) int64 {
    switch kind {
        case Int32 : return math.MinInt32
        case Int64 : return math.MinInt64
        default    : panic("ir: MinInt of non-integer kind " + kind.String())
    }
}

// MaxInt returns the largest value representable by an integer kind.
func MaxInt(kind Kind) int64 {
    switch kind {
        case Int32 : return math.MaxInt32
        case Int64 : return math.MaxInt64
        default    : panic("ir: MaxInt of non-integer kind " + kind.String())
    }
}

// Wrap truncates v to the width of an integer kind with two's-complement
// wraparound.
func Wrap(kind Kind, v int64) int64 {
    switch kind {
        case Int32 : return int64(int32(v))
        case Int64 : return v
        default    : panic("ir: Wrap of non-integer kind " + kind.String())
    }
}
