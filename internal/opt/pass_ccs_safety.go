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
    `github.com/cloudwego/loopsink/internal/loops`
)

// isSafe decides whether an evaluated result may replace the accumulator.
func (self *_CCSContext) isSafe(l *loops.Loop, c *_Candidate) bool {
    fixed := c.op == _AccRem || c.reachedInf || c.reachedZero && c.op.isScaling()

    /* the result must be known for the whole trip count */
    if !fixed && !c.exact {
        return false
    }

    /* integer results do not depend on the enclosing loops */
    if c.kind.IsInt() || fixed {
        return true
    }

    /* a finite float computed from an outer origin is only valid on the first outer iteration */
    return self.nest.Parent(self.nest.LoopOf(self.g.BlockOf(c.update))) == nil
}
