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
)

// Value is a stable handle to a node in the graph arena.
type Value int32

// BlockID is a stable handle to a basic block.
type BlockID int32

const (
    NoValue Value   = 0
    NoBlock BlockID = -1
)

func (self Value) String() string {
    if self == NoValue {
        return "_"
    } else {
        return fmt.Sprintf("v%d", int32(self))
    }
}

func (self BlockID) String() string {
    if self == NoBlock {
        return "bb_?"
    } else {
        return fmt.Sprintf("bb_%d", int32(self))
    }
}

type Kind uint8

const (
    Void Kind = iota
    Bool
    Int32
    Int64
    Float32
    Float64
)

func (self Kind) String() string {
    switch self {
        case Void    : return "void"
        case Bool    : return "bool"
        case Int32   : return "i32"
        case Int64   : return "i64"
        case Float32 : return "f32"
        case Float64 : return "f64"
        default      : panic(fmt.Sprintf("ir: invalid kind: %d", self))
    }
}

func (self Kind) IsInt() bool {
    return self == Int32 || self == Int64
}

func (self Kind) IsFloat() bool {
    return self == Float32 || self == Float64
}

func (self Kind) IsNumeric() bool {
    return self.IsInt() || self.IsFloat()
}

type Op uint8

const (
    OpInvalid Op = iota
    OpConst
    OpParam
    OpPhi
    OpAdd
    OpSub
    OpMul
    OpDiv
    OpRem
    OpLt
    OpLe
    OpGt
    OpGe
    OpEq
    OpNe
    OpCall
    OpGoto
    OpIf
    OpReturn
)

func (self Op) String() string {
    switch self {
        case OpConst  : return "const"
        case OpParam  : return "param"
        case OpPhi    : return "φ"
        case OpAdd    : return "add"
        case OpSub    : return "sub"
        case OpMul    : return "mul"
        case OpDiv    : return "div"
        case OpRem    : return "rem"
        case OpLt     : return "lt"
        case OpLe     : return "le"
        case OpGt     : return "gt"
        case OpGe     : return "ge"
        case OpEq     : return "eq"
        case OpNe     : return "ne"
        case OpCall   : return "call"
        case OpGoto   : return "goto"
        case OpIf     : return "if"
        case OpReturn : return "ret"
        default       : return fmt.Sprintf("op(%d)", uint8(self))
    }
}

// IsArith reports whether the op is a two-operand arithmetic operation.
func (self Op) IsArith() bool {
    return self >= OpAdd && self <= OpRem
}

func (self Op) IsCompare() bool {
    return self >= OpLt && self <= OpNe
}

func (self Op) IsTerminator() bool {
    return self == OpGoto || self == OpIf || self == OpReturn
}

// IsCommutative reports whether the operands of the op may be swapped.
func (self Op) IsCommutative() bool {
    return self == OpAdd || self == OpMul || self == OpEq || self == OpNe
}

// IsPure reports whether an instruction of this op can be removed once
// nothing consumes its result.
func (self Op) IsPure() bool {
    return self == OpPhi || self.IsArith() || self.IsCompare()
}

// Swapped returns the comparison that holds when the operands are exchanged.
func (self Op) Swapped() Op {
    switch self {
        case OpLt : return OpGt
        case OpLe : return OpGe
        case OpGt : return OpLt
        case OpGe : return OpLe
        default   : return self
    }
}

// Negated returns the comparison that holds when this one does not.
func (self Op) Negated() Op {
    switch self {
        case OpLt : return OpGe
        case OpLe : return OpGt
        case OpGt : return OpLe
        case OpGe : return OpLt
        case OpEq : return OpNe
        case OpNe : return OpEq
        default   : panic("ir: negating a non-comparison op: " + self.String())
    }
}

// Use records that Args[Index] (or Env[Index]) of User refers to a value.
type Use struct {
    User  Value
    Index int
}

type Node struct {
    Op    Op
    Kind  Kind
    Block BlockID
    Args  []Value
    Env   []Value
    Bits  uint64
    Name  string
    dead  bool
}

// Dead reports whether the node has been removed from the graph.
func (self *Node) Dead() bool {
    return self.dead
}

type Block struct {
    ID    BlockID
    Phis  []Value
    Ins   []Value
    Preds []BlockID
    Succs []BlockID
}

// Terminator returns the last instruction of the block if it is a terminator.
func (self *Block) Terminator() Value {
    if n := len(self.Ins); n == 0 {
        return NoValue
    } else {
        return self.Ins[n - 1]
    }
}

// PredIndex returns the position of pred in the predecessor list, or -1.
func (self *Block) PredIndex(pred BlockID) int {
    for i, p := range self.Preds {
        if p == pred {
            return i
        }
    }
    return -1
}
