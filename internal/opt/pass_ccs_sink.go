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
    `github.com/cloudwego/loopsink/internal/loops`
    `github.com/oleiade/lane`
)

// outsideUses returns the data and env uses of v from outside l.
func (self *_CCSContext) outsideUses(l *loops.Loop, v ir.Value) (uses []ir.Use, envs []ir.Use) {
    for _, u := range self.g.Uses(v) {
        if !l.Contains(self.g.BlockOf(u.User)) {
            uses = append(uses, u)
        }
    }
    for _, u := range self.g.EnvUses(v) {
        if !l.Contains(self.g.BlockOf(u.User)) {
            envs = append(envs, u)
        }
    }
    return
}

func (self *_CCSContext) sink(l *loops.Loop, exit ir.BlockID, c *_Candidate) bool {
    u0, e0 := self.outsideUses(l, c.phi)
    u1, e1 := self.outsideUses(l, c.update)

    /* all the uses to redirect */
    uses := append(u0, u1...)
    envs := append(e0, e1...)

    /* an instruction in the exit block does not dominate the edges into it */
    if !c.finalized {
        for _, u := range uses {
            if self.g.IsPhi(u.User) && self.g.BlockOf(u.User) == exit {
                self.log.Debug("Result flows into an exit Phi", "phi", c.phi, "user", u.User)
                return false
            }
        }
    }

    /* recombine with the initial value in the exit block */
    if repl := self.g.Const(c.result); c.finalized {
        self.redirect(uses, envs, repl)
    } else {
        self.redirect(uses, envs, self.g.InsertBinaryAtHead(exit, c.op.Op(), c.kind, c.initial, repl))
    }

    /* record the event */
    self.stats.Record(ConstantCalculationSinking)
    self.log.Debug("Constant has been sunk", "loop", l, "phi", c.phi, "result", c.result, "finalized", c.finalized)
    return true
}

func (self *_CCSContext) redirect(uses []ir.Use, envs []ir.Use, repl ir.Value) {
    /* replace the calculation result */
    for _, u := range uses {
        self.g.ReplaceInput(u.User, u.Index, repl)
    }

    /* update the debug references */
    for _, u := range envs {
        self.g.ReplaceEnv(u.User, u.Index, repl)
    }
}

// removeDead deletes the sunk accumulators together with every instruction
// left consuming them.
func (self *_CCSContext) removeDead(sunk []*_Candidate) {
    q := lane.NewQueue()
    for _, c := range sunk {
        q.Enqueue(c.phi)
    }

    /* remove the Phi nodes and their users */
    for !q.Empty() {
        v := q.Dequeue().(ir.Value)
        if !self.g.Live(v) {
            continue
        }

        /* users go as well */
        for _, u := range self.g.Uses(v) {
            if u.User != v {
                q.Enqueue(u.User)
            }
        }

        /* unlink and detach */
        self.g.Remove(v)
        self.log.Trace("Instruction removed", "value", v)
    }
}
