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
    `github.com/oleiade/lane`
)

// resolveOrigin finds the constant flowing into a floating-point accumulator
// from before the whole loop nest, e.g. 42.0 in:
//
//     x := 42.0
//     for i := 0; i < 42; i++ {
//         for j := 0; j < 42; j++ {
//             x += 2.0
//         }
//     }
//
// Reaching the update a second time means the initial value is carried by an
// outer loop, c.seenTwice is set in that case.
func (self *_CCSContext) resolveOrigin(c *_Candidate) bool {
    if v, ok := self.g.ConstOf(c.initial); ok {
        c.origin = v
        return v.Kind == c.kind
    }

    /* search state */
    seen := false
    found := ir.NoValue
    base := self.du.BlockOf(c.update)
    visited := make(map[ir.Value]bool)

    /* breadth-first search from the Phi */
    q := lane.NewQueue()
    q.Enqueue(c.phi)

    /* walk up the definitions */
    for !q.Empty() {
        v := q.Dequeue().(ir.Value)
        if visited[v] {
            continue
        }

        /* the accumulation itself is expected exactly once */
        if v == c.update {
            if seen {
                c.seenTwice = true
            } else {
                seen = true
            }
            continue
        }

        /* mark as visited before expanding */
        visited[v] = true

        /* Phi nodes merge more possible origins */
        if self.du.IsPhi(v) {
            for _, a := range self.du.Inputs(v) {
                q.Enqueue(a)
                if a == c.phi && visited[a] {
                    c.seenTwice = true
                }
            }
            continue
        }

        /* there can only be one origin, and it must execute before the accumulation */
        if found != ir.NoValue {
            return false
        } else if !self.nest.Dominates(self.du.BlockOf(v), base) {
            return false
        } else {
            found = v
        }
    }

    /* must be a constant of the same precision */
    if found == ir.NoValue {
        return false
    } else if k, ok := self.g.ConstOf(found); !ok || k.Kind != c.kind {
        return false
    } else {
        c.origin = k
        return true
    }
}
