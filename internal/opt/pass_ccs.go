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

package opt

import (
    `github.com/cloudwego/loopsink/internal/ir`
    `github.com/cloudwego/loopsink/internal/logs`
    `github.com/cloudwego/loopsink/internal/loops`
    `github.com/ethereum/go-ethereum/log`
)

// LoopNest is the loop information consumed by CCS.
type LoopNest interface {
    InnerLoops() []*loops.Loop
    LoopOf(bb ir.BlockID) *loops.Loop
    IsInnermost(l *loops.Loop) bool
    HasKnownTripCount(l *loops.Loop) bool
    TripCount(l *loops.Loop, bb ir.BlockID) int64
    ExecutedOncePerIteration(v ir.Value) bool
    ExitBlock(l *loops.Loop) ir.BlockID
    Parent(l *loops.Loop) *loops.Loop
    PrimaryInductionVariable(l *loops.Loop) ir.Value
    Dominates(a ir.BlockID, b ir.BlockID) bool
}

// DefUse is the def-use view of the graph walked by the origin resolver.
type DefUse interface {
    Inputs(v ir.Value) []ir.Value
    BlockOf(v ir.Value) ir.BlockID
    IsPhi(v ir.Value) bool
}

type _AccumOp uint8

const (
    _AccAdd _AccumOp = iota
    _AccSub
    _AccMul
    _AccDiv
    _AccRem
)

func accumOpOf(op ir.Op) (_AccumOp, bool) {
    switch op {
        case ir.OpAdd : return _AccAdd, true
        case ir.OpSub : return _AccSub, true
        case ir.OpMul : return _AccMul, true
        case ir.OpDiv : return _AccDiv, true
        case ir.OpRem : return _AccRem, true
        default       : return 0, false
    }
}

func (self _AccumOp) Op() ir.Op {
    switch self {
        case _AccAdd : return ir.OpAdd
        case _AccSub : return ir.OpSub
        case _AccMul : return ir.OpMul
        case _AccDiv : return ir.OpDiv
        case _AccRem : return ir.OpRem
        default      : panic("ccs: invalid accumulation operator")
    }
}

func (self _AccumOp) String() string {
    return self.Op().String()
}

// isScaling reports whether zero and infinity are fixed points of the
// operator.
func (self _AccumOp) isScaling() bool {
    return self == _AccMul || self == _AccDiv
}

// _Candidate is an accumulator x = φ(initial, x <op> step) of one loop.
type _Candidate struct {
    op          _AccumOp
    kind        ir.Kind
    step        ir.Const
    update      ir.Value
    phi         ir.Value
    initial     ir.Value
    origin      ir.Const
    result      ir.Const
    exact       bool
    finalized   bool
    reachedZero bool
    reachedInf  bool
    seenTwice   bool
}

// CCS (Constant Calculation Sinking) replaces accumulators updated by a
// constant on every iteration of a counted loop with their value after the
// loop.
//
//     x = 0.0                      x = 0.0
//     for i := 0; i < 10; i++ {    for i := 0; i < 10; i++ {
//         x += 1.0             =>  }
//     }                            use(10.0)
//     use(x)
type CCS struct{}

type _CCSContext struct {
    g     *ir.Graph
    du    DefUse
    nest  LoopNest
    max   int64
    log   log.Logger
    stats *Stats
}

func (CCS) Apply(u *Unit) {
    ctx := &_CCSContext {
        g     : u.Graph,
        du    : u.Graph,
        max   : int64(u.Options.MaxSimulatedIterations),
        log   : logs.Pass("ccs"),
        stats : &u.Stats,
    }

    /* exact per-iteration state must remain observable */
    if u.Options.Debuggable {
        ctx.log.Debug("Graph is debuggable, skipping", "graph", u.Graph.Name)
        return
    }

    /* only the inner loops are handled */
    ctx.log.Debug("Trying to optimize loops", "graph", u.Graph.Name)
    ctx.nest = loops.Analyze(u.Graph)

    /* sink every inner loop, the CFG is not changed so the nest stays valid */
    for _, l := range ctx.nest.InnerLoops() {
        ctx.handleLoop(l)
    }
}

func (self *_CCSContext) isGoodLoop(l *loops.Loop) bool {
    return self.nest.IsInnermost(l) && self.nest.HasKnownTripCount(l)
}

func (self *_CCSContext) handleLoop(l *loops.Loop) {
    var sunk []*_Candidate

    /* Step 0: check with the gate */
    if !self.isGoodLoop(l) {
        self.log.Debug("Loop is not good for CCS", "loop", l)
        return
    }

    /* Step 1: the loop's main induction variable */
    biv := self.nest.PrimaryInductionVariable(l)
    if biv == ir.NoValue {
        return
    }

    /* sinking needs somewhere to put the results */
    exit := self.nest.ExitBlock(l)
    if exit == ir.NoBlock {
        self.log.Debug("Loop has no unique exit", "loop", l)
        return
    }

    /* Step 2: find the eligible accumulators */
    for _, c := range self.collect(l, biv, exit) {
        if !self.evaluate(l, c) {
            continue
        }

        /* Step 3: only sink the safe ones */
        if !self.isSafe(l, c) {
            self.log.Debug("Result is not safe to sink", "loop", l, "phi", c.phi, "result", c.result)
            continue
        }

        /* Step 4: replace the uses after the loop */
        if self.sink(l, exit, c) {
            sunk = append(sunk, c)
        }
    }

    /* Step 5: remove the accumulation chains */
    self.removeDead(sunk)
    self.log.Debug("Finished sinking", "loop", l, "sunk", len(sunk))
}
