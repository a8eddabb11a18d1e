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

// Graph is the SSA instruction graph of a single method. Nodes and blocks are
// kept in arenas and addressed by handles, data and env (debug reference)
// use-lists are maintained by every mutator.
type Graph struct {
    Name   string
    Entry  BlockID
    nodes  []*Node
    blocks []*Block
    uses   [][]Use
    envs   [][]Use
    consts map[Const]Value
}

func NewGraph(name string) *Graph {
    ret := &Graph {
        Name   : name,
        nodes  : []*Node { nil },
        uses   : [][]Use { nil },
        envs   : [][]Use { nil },
        consts : make(map[Const]Value),
    }

    /* the entry block always exists */
    ret.Entry = ret.NewBlock()
    return ret
}

func (self *Graph) NewBlock() BlockID {
    id := BlockID(len(self.blocks))
    self.blocks = append(self.blocks, &Block { ID: id })
    return id
}

func (self *Graph) Block(id BlockID) *Block {
    if id < 0 || int(id) >= len(self.blocks) {
        panic(fmt.Sprintf("ir: invalid block %s", id))
    }
    return self.blocks[id]
}

func (self *Graph) Blocks() []*Block {
    return self.blocks
}

func (self *Graph) NumBlocks() int {
    return len(self.blocks)
}

// NumValues returns the size of the node arena, including removed nodes and
// the reserved NoValue slot.
func (self *Graph) NumValues() int {
    return len(self.nodes)
}

func (self *Graph) Node(v Value) *Node {
    if v <= NoValue || int(v) >= len(self.nodes) {
        panic(fmt.Sprintf("ir: invalid value %s", v))
    }
    return self.nodes[v]
}

func (self *Graph) Op(v Value) Op           { return self.Node(v).Op }
func (self *Graph) Kind(v Value) Kind       { return self.Node(v).Kind }
func (self *Graph) BlockOf(v Value) BlockID { return self.Node(v).Block }
func (self *Graph) Inputs(v Value) []Value  { return self.Node(v).Args }
func (self *Graph) IsPhi(v Value) bool      { return self.Node(v).Op == OpPhi }

// Live reports whether v is a valid handle to a node that is still in the graph.
func (self *Graph) Live(v Value) bool {
    return v > NoValue && int(v) < len(self.nodes) && !self.nodes[v].dead
}

// Uses returns a snapshot of the data uses of v.
func (self *Graph) Uses(v Value) []Use {
    return append([]Use(nil), self.uses[v]...)
}

// EnvUses returns a snapshot of the env (debug reference) uses of v.
func (self *Graph) EnvUses(v Value) []Use {
    return append([]Use(nil), self.envs[v]...)
}

func (self *Graph) HasUses(v Value) bool {
    return len(self.uses[v]) != 0
}

/** Edges **/

// AddEdge links two blocks. Phi nodes of the target block must be given an
// argument for the new edge with SetArgs, Verify rejects them until then.
func (self *Graph) AddEdge(from BlockID, to BlockID) {
    src, dst := self.Block(from), self.Block(to)
    src.Succs = append(src.Succs, to)
    dst.Preds = append(dst.Preds, from)
}

/** Node Allocation **/

func (self *Graph) alloc(p *Node) Value {
    v := Value(len(self.nodes))
    self.nodes = append(self.nodes, p)
    self.uses = append(self.uses, nil)
    self.envs = append(self.envs, nil)

    /* link all the arguments */
    for i, a := range p.Args {
        self.addUse(a, v, i)
    }
    return v
}

func (self *Graph) addUse(of Value, user Value, idx int) {
    if !self.Live(of) {
        panic(fmt.Sprintf("ir: %s refers to invalid value %s", user, of))
    }
    self.uses[of] = append(self.uses[of], Use { User: user, Index: idx })
}

func (self *Graph) delUse(of Value, user Value, idx int) {
    self.uses[of] = dropUse(self.uses[of], user, idx)
}

func (self *Graph) addEnvUse(of Value, user Value, idx int) {
    if !self.Live(of) {
        panic(fmt.Sprintf("ir: env of %s refers to invalid value %s", user, of))
    }
    self.envs[of] = append(self.envs[of], Use { User: user, Index: idx })
}

func (self *Graph) delEnvUse(of Value, user Value, idx int) {
    self.envs[of] = dropUse(self.envs[of], user, idx)
}

func dropUse(buf []Use, user Value, idx int) []Use {
    for i, u := range buf {
        if u.User == user && u.Index == idx {
            return append(buf[:i], buf[i + 1:]...)
        }
    }
    panic(fmt.Sprintf("ir: use %s[%d] not found", user, idx))
}

// appendIns adds an instruction to the block, keeping the terminator last.
func (self *Graph) appendIns(bb *Block, v Value) {
    n := len(bb.Ins)
    if n != 0 && self.nodes[bb.Ins[n - 1]].Op.IsTerminator() {
        bb.Ins = append(bb.Ins, NoValue)
        copy(bb.Ins[n:], bb.Ins[n - 1:])
        bb.Ins[n - 1] = v
    } else {
        bb.Ins = append(bb.Ins, v)
    }
}

func (self *Graph) setTerminator(bb *Block, v Value) {
    if t := bb.Terminator(); t != NoValue && self.nodes[t].Op.IsTerminator() {
        panic(fmt.Sprintf("ir: block %s already terminated by %s", bb.ID, t))
    }
    bb.Ins = append(bb.Ins, v)
}

/** Constants & Parameters **/

// Const returns the interned node of a constant, creating it in the entry
// block on first request.
func (self *Graph) Const(c Const) Value {
    if v, ok := self.consts[c]; ok {
        return v
    }

    /* allocate a new constant node */
    v := self.alloc(&Node {
        Op    : OpConst,
        Kind  : c.Kind,
        Block : self.Entry,
        Bits  : c.Bits,
    })

    /* place it in the entry block */
    self.consts[c] = v
    self.appendIns(self.blocks[self.Entry], v)
    return v
}

func (self *Graph) ConstInt32(v int32) Value     { return self.Const(Int32Const(v)) }
func (self *Graph) ConstInt64(v int64) Value     { return self.Const(Int64Const(v)) }
func (self *Graph) ConstFloat32(v float32) Value { return self.Const(Float32Const(v)) }
func (self *Graph) ConstFloat64(v float64) Value { return self.Const(Float64Const(v)) }

// ConstOf returns the constant held by v if v is a constant node.
func (self *Graph) ConstOf(v Value) (Const, bool) {
    if p := self.Node(v); p.Op != OpConst {
        return Const{}, false
    } else {
        return Const { Kind: p.Kind, Bits: p.Bits }, true
    }
}

func (self *Graph) IsConst(v Value) bool {
    return self.Node(v).Op == OpConst
}

// NewParam defines an opaque incoming value in the entry block.
func (self *Graph) NewParam(kind Kind, name string) Value {
    v := self.alloc(&Node {
        Op    : OpParam,
        Kind  : kind,
        Block : self.Entry,
        Name  : name,
    })
    self.appendIns(self.blocks[self.Entry], v)
    return v
}

/** Instructions **/

// NewPhi creates a Phi node in bb. The arguments are ordered like the block
// predecessors and may be supplied later with SetArgs.
func (self *Graph) NewPhi(bb BlockID, kind Kind, args ...Value) Value {
    p := self.Block(bb)
    if len(args) != 0 && len(args) != len(p.Preds) {
        panic(fmt.Sprintf("ir: Phi in %s has %d args but %d predecessors", bb, len(args), len(p.Preds)))
    }

    /* create the node */
    v := self.alloc(&Node {
        Op    : OpPhi,
        Kind  : kind,
        Block : bb,
        Args  : append([]Value(nil), args...),
    })

    /* add to the block */
    p.Phis = append(p.Phis, v)
    return v
}

// SetArgs replaces all arguments of v.
func (self *Graph) SetArgs(v Value, args ...Value) {
    p := self.Node(v)
    for i, a := range p.Args {
        self.delUse(a, v, i)
    }
    p.Args = append(p.Args[:0], args...)
    for i, a := range p.Args {
        self.addUse(a, v, i)
    }
}

func (self *Graph) newBinary(bb BlockID, op Op, kind Kind, x Value, y Value) (Value, *Block) {
    if !op.IsArith() && !op.IsCompare() {
        panic("ir: not a binary op: " + op.String())
    }
    return self.alloc(&Node {
        Op    : op,
        Kind  : kind,
        Block : bb,
        Args  : []Value { x, y },
    }), self.Block(bb)
}

// NewBinary appends an arithmetic instruction to bb, before its terminator.
func (self *Graph) NewBinary(bb BlockID, op Op, kind Kind, x Value, y Value) Value {
    v, p := self.newBinary(bb, op, kind, x, y)
    self.appendIns(p, v)
    return v
}

// InsertBinaryAtHead creates an arithmetic instruction as the first
// instruction of bb, right after its Phi nodes.
func (self *Graph) InsertBinaryAtHead(bb BlockID, op Op, kind Kind, x Value, y Value) Value {
    v, p := self.newBinary(bb, op, kind, x, y)
    p.Ins = append([]Value { v }, p.Ins...)
    return v
}

// NewCompare appends a boolean comparison to bb.
func (self *Graph) NewCompare(bb BlockID, op Op, x Value, y Value) Value {
    if !op.IsCompare() {
        panic("ir: not a comparison: " + op.String())
    }
    return self.NewBinary(bb, op, Bool, x, y)
}

// NewCall appends an opaque side-effecting instruction consuming args.
func (self *Graph) NewCall(bb BlockID, name string, kind Kind, args ...Value) Value {
    v := self.alloc(&Node {
        Op    : OpCall,
        Kind  : kind,
        Block : bb,
        Args  : append([]Value(nil), args...),
        Name  : name,
    })
    self.appendIns(self.Block(bb), v)
    return v
}

func (self *Graph) NewGoto(bb BlockID, to BlockID) Value {
    p := self.Block(bb)
    self.AddEdge(bb, to)
    v := self.alloc(&Node { Op: OpGoto, Kind: Void, Block: bb })
    self.setTerminator(p, v)
    return v
}

// NewIf terminates bb with a two-way branch, successor 0 is taken when cond
// holds.
func (self *Graph) NewIf(bb BlockID, cond Value, then BlockID, otherwise BlockID) Value {
    p := self.Block(bb)
    self.AddEdge(bb, then)
    self.AddEdge(bb, otherwise)
    v := self.alloc(&Node { Op: OpIf, Kind: Void, Block: bb, Args: []Value { cond } })
    self.setTerminator(p, v)
    return v
}

func (self *Graph) NewReturn(bb BlockID, vals ...Value) Value {
    p := self.Block(bb)
    v := self.alloc(&Node { Op: OpReturn, Kind: Void, Block: bb, Args: append([]Value(nil), vals...) })
    self.setTerminator(p, v)
    return v
}

/** Env (debug references) **/

// SetEnv replaces the values visible to a debugger at instruction v.
func (self *Graph) SetEnv(v Value, env ...Value) {
    p := self.Node(v)
    for i, e := range p.Env {
        if e != NoValue {
            self.delEnvUse(e, v, i)
        }
    }
    p.Env = append(p.Env[:0], env...)
    for i, e := range p.Env {
        if e != NoValue {
            self.addEnvUse(e, v, i)
        }
    }
}

/** Rewiring **/

// ReplaceInput makes Args[idx] of user refer to nv.
func (self *Graph) ReplaceInput(user Value, idx int, nv Value) {
    p := self.Node(user)
    self.delUse(p.Args[idx], user, idx)
    p.Args[idx] = nv
    self.addUse(nv, user, idx)
}

// ReplaceEnv makes Env[idx] of user refer to nv, NoValue clears the slot.
func (self *Graph) ReplaceEnv(user Value, idx int, nv Value) {
    p := self.Node(user)
    if old := p.Env[idx]; old != NoValue {
        self.delEnvUse(old, user, idx)
    }
    if p.Env[idx] = nv; nv != NoValue {
        self.addEnvUse(nv, user, idx)
    }
}

// ReplaceAllUses redirects every data and env use of old to nv.
func (self *Graph) ReplaceAllUses(old Value, nv Value) {
    for _, u := range self.Uses(old) {
        self.ReplaceInput(u.User, u.Index, nv)
    }
    for _, u := range self.EnvUses(old) {
        self.ReplaceEnv(u.User, u.Index, nv)
    }
}

/** Removal **/

// Remove unlinks v from the use-lists of its arguments and env values, clears
// every env slot referring to v, and detaches v from its block. Remaining data
// users of v must be removed by the caller as well, Verify reports the ones
// that are not.
func (self *Graph) Remove(v Value) {
    p := self.Node(v)
    if p.dead {
        panic(fmt.Sprintf("ir: %s removed twice", v))
    }

    /* remove as a user of the arguments */
    for i, a := range p.Args {
        self.delUse(a, v, i)
    }

    /* remove as an env user */
    for i, e := range p.Env {
        if e != NoValue {
            self.delEnvUse(e, v, i)
        }
    }

    /* clear debug references to this value */
    for _, u := range self.EnvUses(v) {
        self.ReplaceEnv(u.User, u.Index, NoValue)
    }

    /* forget interned constants */
    if p.Op == OpConst {
        delete(self.consts, Const { Kind: p.Kind, Bits: p.Bits })
    }

    /* detach from the block */
    bb := self.Block(p.Block)
    if p.Op == OpPhi {
        bb.Phis = dropValue(bb.Phis, v)
    } else {
        bb.Ins = dropValue(bb.Ins, v)
    }

    /* mark as dead */
    p.dead = true
}

func dropValue(buf []Value, v Value) []Value {
    for i, x := range buf {
        if x == v {
            return append(buf[:i], buf[i + 1:]...)
        }
    }
    panic(fmt.Sprintf("ir: %s not found in its block", v))
}
