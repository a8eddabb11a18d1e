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
)

// TDCE removes trivial dead-code such as unused arithmetic and Phi nodes.
type TDCE struct{}

func (TDCE) dead(g *ir.Graph, v ir.Value) bool {
    return g.Op(v).IsPure() && !g.HasUses(v)
}

func (self TDCE) Apply(u *Unit) {
    g := u.Graph
    log := logs.Pass("tdce")

    /* removing an instruction may kill its operands as well */
    for done := false; !done; {
        done = true
        for _, bb := range g.Blocks() {
            vals := append(append([]ir.Value(nil), bb.Phis...), bb.Ins...)
            for _, v := range vals {
                if self.dead(g, v) {
                    g.Remove(v)
                    u.Stats.Record(DeadInstructionRemoved)
                    log.Trace("Instruction removed", "value", v)
                    done = false
                }
            }
        }
    }
}
