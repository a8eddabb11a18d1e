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
)

// stepOf returns the constant operand of an accumulation x <op> c. Commutative
// operators may also have the constant on the left.
func (self *_CCSContext) stepOf(update ir.Value, phi ir.Value) (ir.Const, bool) {
    args := self.g.Inputs(update)
    x, y := args[0], args[1]

    /* x <op> c */
    if x == phi {
        return self.g.ConstOf(y)
    }

    /* c <op> x */
    if y == phi && self.g.Op(update).IsCommutative() {
        return self.g.ConstOf(x)
    }

    /* not an accumulation */
    return ir.Const{}, false
}

// hasNoDependenciesWithinLoop checks that nothing in l except the Phi reads
// the intermediate value.
func (self *_CCSContext) hasNoDependenciesWithinLoop(l *loops.Loop, update ir.Value, phi ir.Value) bool {
    for _, u := range self.g.Uses(update) {
        if u.User != phi && l.Contains(self.g.BlockOf(u.User)) {
            return false
        }
    }
    return true
}

func (self *_CCSContext) collect(l *loops.Loop, biv ir.Value, exit ir.BlockID) []*_Candidate {
    var ret []*_Candidate
    hdr := self.g.Block(l.Header)

    /* the preheader and back edge inputs */
    back := hdr.PredIndex(l.Latches[0])
    pre := 1 - back

    /* go through each Phi */
    for _, phi := range hdr.Phis {
        var ok bool
        var op _AccumOp
        var step ir.Const
        var update ir.Value

        /* skip the Phi of the induction variable */
        if phi == biv {
            continue
        }

        /* only accept Phi nodes that merge two values, a header with an
         * induction variable always has two predecessors so this only
         * rejects inconsistent graphs */
        if len(self.g.Inputs(phi)) != 2 {
            continue
        }

        /* find the only user of the Phi inside the loop */
        inLoop, outside := 0, false
        for _, u := range self.g.Uses(phi) {
            if !l.Contains(self.g.BlockOf(u.User)) {
                outside = true
            } else if inLoop++; self.nest.ExecutedOncePerIteration(u.User) {
                update = u.User
            }
        }

        /* it must be the only one, and must run on every iteration */
        if inLoop != 1 || update == ir.NoValue {
            continue
        }

        /* it must also be what flows back into the Phi */
        if update != self.g.Inputs(phi)[back] {
            continue
        }

        /* the intermediate value must not be consumed in the loop */
        if !self.hasNoDependenciesWithinLoop(l, update, phi) {
            continue
        }

        /* check the operation is supported */
        if op, ok = accumOpOf(self.g.Op(update)); !ok {
            continue
        }

        /* get the constant the accumulator is updated with */
        if step, ok = self.stepOf(update, phi); !ok || step.Kind != self.g.Kind(phi) {
            continue
        }

        /* non-constant initial values are resolved later, for floats only */
        initial := self.g.Inputs(phi)[pre]
        if !self.g.IsConst(initial) && !step.Kind.IsFloat() {
            continue
        }

        /* a use right after the loop would see one update less than the sunk value */
        if outside && self.nest.Dominates(self.g.BlockOf(update), exit) {
            continue
        }

        /* add to the candidate list */
        ret = append(ret, &_Candidate {
            op      : op,
            kind    : step.Kind,
            step    : step,
            update  : update,
            phi     : phi,
            initial : initial,
        })

        /* trace the candidate */
        self.log.Debug("Accumulator added to the sink list", "loop", l, "phi", phi, "op", op, "step", step)
    }
    return ret
}
