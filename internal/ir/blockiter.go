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
    `sort`

    `github.com/oleiade/lane`
)

type _IterFrame struct {
    bb   BlockID
    next int
}

// BlockIter walks the dominator tree depth-first. Every block is reported
// after all the blocks it dominates (post-order), PreOrder collects the
// blocks in the order they are entered instead.
type BlockIter struct {
    t   *DominatorTree
    b   BlockID
    s   *lane.Stack
    pre []BlockID
}

func (self *DominatorTree) children(bb BlockID) []BlockID {
    ret := self.DominatorOf[bb]
    if !sort.SliceIsSorted(ret, func(i int, j int) bool { return ret[i] < ret[j] }) {
        sort.Slice(ret, func(i int, j int) bool { return ret[i] < ret[j] })
    }
    return ret
}

func (self *DominatorTree) Iter() *BlockIter {
    s := lane.NewStack()
    s.Push(&_IterFrame { bb: self.Root })
    return &BlockIter {
        t   : self,
        b   : NoBlock,
        s   : s,
        pre : []BlockID { self.Root },
    }
}

func (self *BlockIter) Next() bool {
    for !self.s.Empty() {
        this := self.s.Head().(*_IterFrame)
        next := self.t.children(this.bb)

        /* descend into the next dominated block */
        if this.next < len(next) {
            bb := next[this.next]
            this.next++
            self.pre = append(self.pre, bb)
            self.s.Push(&_IterFrame { bb: bb })
            continue
        }

        /* all the dominated blocks are visited, pop the current node */
        self.b = self.s.Pop().(*_IterFrame).bb
        return true
    }

    /* clear the block to indicate no more blocks */
    self.b = NoBlock
    return false
}

func (self *BlockIter) Block() BlockID {
    return self.b
}

func (self *BlockIter) ForEach(action func(bb BlockID)) {
    for self.Next() {
        action(self.b)
    }
}

// PostOrder returns the blocks of the dominator tree in post-order.
func (self *DominatorTree) PostOrder() []BlockID {
    ret := make([]BlockID, 0, len(self.DominatedBy) + 1)
    self.Iter().ForEach(func(bb BlockID) { ret = append(ret, bb) })
    return ret
}

// PreOrder returns the blocks of the dominator tree in pre-order, so every
// block comes after all of its dominators.
func (self *DominatorTree) PreOrder() []BlockID {
    it := self.Iter()
    for it.Next() {}
    return it.pre
}

func (self *DominatorTree) number() {
    it := self.Iter()
    self.post = make(map[BlockID]int)

    /* post-order numbers */
    for i := 0; it.Next(); i++ {
        self.post[it.Block()] = i
    }

    /* pre-order numbers */
    self.pre = make(map[BlockID]int, len(it.pre))
    for i, bb := range it.pre {
        self.pre[bb] = i
    }
}
