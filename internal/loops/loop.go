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

package loops

import (
    `fmt`
    `sort`

    `github.com/cloudwego/loopsink/internal/ir`
    `github.com/oleiade/lane`
)

// Loop is a natural loop. Loops sharing a header are merged into one.
type Loop struct {
    Header   ir.BlockID
    Latches  []ir.BlockID
    Outer    *Loop
    Children []*Loop
    Depth    int
    blocks   map[ir.BlockID]struct{}
    exit     ir.BlockID
    biv      *InductionVariable
}

func (self *Loop) String() string {
    return fmt.Sprintf("loop(%s)", self.Header)
}

func (self *Loop) Contains(bb ir.BlockID) bool {
    _, ok := self.blocks[bb]
    return ok
}

// Blocks returns the blocks of the loop, including nested loops, by ID.
func (self *Loop) Blocks() []ir.BlockID {
    ret := make([]ir.BlockID, 0, len(self.blocks))
    for bb := range self.blocks {
        ret = append(ret, bb)
    }
    sort.Slice(ret, func(i int, j int) bool { return ret[i] < ret[j] })
    return ret
}

func (self *Loop) IsInnermost() bool {
    return len(self.Children) == 0
}

// Nest is the loop nest of a graph together with the dominator tree it was
// derived from. It must be rebuilt after the CFG changes.
type Nest struct {
    g     *ir.Graph
    dom   *ir.DominatorTree
    loops []*Loop
    inner map[ir.BlockID]*Loop
}

// Analyze finds the natural loops of g and their induction variables.
func Analyze(g *ir.Graph) *Nest {
    ret := &Nest {
        g     : g,
        dom   : ir.BuildDominatorTree(g),
        inner : make(map[ir.BlockID]*Loop),
    }

    /* find all the loops and arrange them into a tree */
    ret.findLoops()
    ret.buildNest()

    /* find the loop bounds */
    for _, l := range ret.loops {
        l.exit = ret.findExit(l)
        l.biv = ret.findInductionVariable(l)
    }
    return ret
}

func (self *Nest) findLoops() {
    byhdr := make(map[ir.BlockID]*Loop)

    /* a back edge goes to a block that dominates its source */
    for _, bb := range self.dom.PreOrder() {
        for _, h := range self.g.Block(bb).Succs {
            if !self.dom.Dominates(h, bb) {
                continue
            }

            /* merge loops sharing the same header */
            l, ok := byhdr[h]
            if !ok {
                l = &Loop { Header: h, blocks: map[ir.BlockID]struct{} { h: {} } }
                byhdr[h] = l
                self.loops = append(self.loops, l)
            }

            /* collect the body */
            l.Latches = append(l.Latches, bb)
            self.collectBody(l, bb)
        }
    }

    /* keep a stable order */
    sort.Slice(self.loops, func(i int, j int) bool {
        return self.loops[i].Header < self.loops[j].Header
    })
}

func (self *Nest) collectBody(l *Loop, latch ir.BlockID) {
    q := lane.NewQueue()
    q.Enqueue(latch)

    /* walk backwards from the latch until reaching the header */
    for !q.Empty() {
        bb := q.Dequeue().(ir.BlockID)
        if l.Contains(bb) && bb != latch {
            continue
        }

        /* add to the body */
        l.blocks[bb] = struct{}{}
        if bb == l.Header {
            continue
        }

        /* only blocks reachable from the entry are part of any loop */
        for _, p := range self.g.Block(bb).Preds {
            if self.dom.Reachable(p) && !l.Contains(p) {
                q.Enqueue(p)
            }
        }
    }
}

func (self *Nest) buildNest() {
    bysize := append([]*Loop(nil), self.loops...)
    sort.SliceStable(bysize, func(i int, j int) bool { return len(bysize[i].blocks) < len(bysize[j].blocks) })

    /* the parent is the smallest other loop containing the header */
    for i, l := range bysize {
        for _, p := range bysize[i + 1:] {
            if p.Contains(l.Header) {
                l.Outer = p
                p.Children = append(p.Children, l)
                break
            }
        }
    }

    /* the innermost loop of every block */
    for _, l := range bysize {
        for bb := range l.blocks {
            if _, ok := self.inner[bb]; !ok {
                self.inner[bb] = l
            }
        }
    }

    /* compute depths */
    for _, l := range self.loops {
        for p := l.Outer; p != nil; p = p.Outer {
            l.Depth++
        }
    }
}

func (self *Nest) findExit(l *Loop) ir.BlockID {
    exit := ir.NoBlock
    for _, bb := range l.Blocks() {
        for _, s := range self.g.Block(bb).Succs {
            if l.Contains(s) {
                continue
            } else if exit != ir.NoBlock && exit != s {
                return ir.NoBlock
            } else {
                exit = s
            }
        }
    }
    return exit
}

/** Loop Queries **/

func (self *Nest) Graph() *ir.Graph {
    return self.g
}

func (self *Nest) Dominators() *ir.DominatorTree {
    return self.dom
}

// Loops returns all loops ordered by header.
func (self *Nest) Loops() []*Loop {
    return self.loops
}

// InnerLoops returns the innermost loops ordered by header.
func (self *Nest) InnerLoops() []*Loop {
    var ret []*Loop
    for _, l := range self.loops {
        if l.IsInnermost() {
            ret = append(ret, l)
        }
    }
    return ret
}

// LoopOf returns the innermost loop containing bb, or nil.
func (self *Nest) LoopOf(bb ir.BlockID) *Loop {
    return self.inner[bb]
}

func (self *Nest) Dominates(a ir.BlockID, b ir.BlockID) bool {
    return self.dom.Dominates(a, b)
}

func (self *Nest) IsInnermost(l *Loop) bool {
    return l.IsInnermost()
}

// Parent returns the loop immediately enclosing l, or nil.
func (self *Nest) Parent(l *Loop) *Loop {
    return l.Outer
}

// ExitBlock returns the unique block outside l that is entered when leaving
// the loop, or NoBlock if there is more than one.
func (self *Nest) ExitBlock(l *Loop) ir.BlockID {
    return l.exit
}

// ExecutedOncePerIteration reports whether the instruction v runs exactly
// once every time its innermost loop goes around.
func (self *Nest) ExecutedOncePerIteration(v ir.Value) bool {
    bb := self.g.BlockOf(v)
    l := self.inner[bb]

    /* not in a loop at all */
    if l == nil {
        return false
    }

    /* must dominate every back edge */
    for _, latch := range l.Latches {
        if !self.dom.Dominates(bb, latch) {
            return false
        }
    }
    return true
}
