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
    `math`

    `github.com/cloudwego/loopsink/internal/ir`
    `github.com/cloudwego/loopsink/internal/loops`
)

func (self *_CCSContext) evaluate(l *loops.Loop, c *_Candidate) bool {
    n := self.nest.TripCount(l, self.g.BlockOf(c.update))

    /* dividing by zero is a guaranteed fault, leave it alone */
    if (c.op == _AccDiv || c.op == _AccRem) && c.step.IsZero() {
        self.log.Debug("Division by zero", "phi", c.phi, "op", c.op)
        return false
    }

    /* evaluate by domain */
    if c.kind.IsInt() {
        return self.evaluateInt(c, n)
    } else if !self.resolveOrigin(c) {
        self.log.Debug("Cannot resolve the initial value", "phi", c.phi)
        return false
    } else {
        return self.evaluateFloat(c, n)
    }
}

func (self *_CCSContext) budget(n int64) int64 {
    if n < self.max {
        return n
    } else {
        return self.max
    }
}

/** Integer Evaluation **/

// allowedIterations counts how many times 1 can be multiplied by k before
// leaving the range of the kind.
func allowedIterations(kind ir.Kind, k int64, n int64) int64 {
    var cnt int64
    var abs int64

    /* one multiplication reaches the minimum value */
    if k == ir.MinInt(kind) {
        return 1
    }

    /* the result is known without any iteration */
    if abs = k; abs < 0 {
        abs = -abs
    }
    if abs <= 1 {
        return n
    }

    /* count the divisions of the maximum value */
    for m := ir.MaxInt(kind); m >= abs; m /= abs {
        cnt++
    }

    /* negative powers may reach the minimum value, which is one more than -max */
    if k < 0 && cnt % 2 == 0 {
        t := int64(1)
        for i := int64(0); i < cnt; i++ {
            t = ir.Wrap(kind, t * k)
        }
        if ir.Wrap(kind, t * k) == ir.MinInt(kind) {
            cnt++
        }
    }
    return cnt
}

func (self *_CCSContext) evaluateInt(c *_Candidate, n int64) bool {
    k := c.step.Int()
    switch c.op {
        default: {
            panic("ccs: invalid integer operator " + c.op.String())
        }

        /* the sum of n steps */
        case _AccAdd, _AccSub: {
            c.result = ir.IntConst(c.kind, n * k)
            c.exact = true
            return true
        }

        /* repeated remainder is approximated by the divisor */
        case _AccRem: {
            c.result = c.step
            return true
        }

        /* the aggregate factor k^n */
        case _AccMul, _AccDiv: {
            return self.evaluatePower(c, n, k)
        }
    }
}

func (self *_CCSContext) evaluatePower(c *_Candidate, n int64, k int64) bool {
    max := self.budget(n)
    if max <= 0 {
        return false
    }

    /* check if the aggregate leaves the representable range */
    val := int64(1)
    overflowed := allowedIterations(c.kind, k, n) < n

    /* compute where the aggregate ends up */
    switch k {
        case 0  : val = 0
        case 1  : val = 1
        case -1 : if n % 2 != 0 { val = -1 }
        default : for i := int64(0); i < max; i++ { val = ir.Wrap(c.kind, val * k) }
    }

    /* the closed forms are exact for any count, the simulation only if it ran to the end */
    c.exact = k >= -1 && k <= 1 || n <= self.max

    /* dividing by something out of range gives zero */
    if overflowed && c.op == _AccDiv {
        val = 0
        c.finalized = true
    } else if val == 0 && c.op == _AccMul {
        c.finalized = true
    }

    /* save the result */
    c.result = ir.IntConst(c.kind, val)
    c.reachedZero = val == 0
    return true
}

/** Floating-point Evaluation **/

func roundTo(kind ir.Kind, v float64) float64 {
    if kind == ir.Float32 {
        return float64(float32(v))
    } else {
        return v
    }
}

func applyFloat(op _AccumOp, x float64, y float64) float64 {
    switch op {
        case _AccAdd : return x + y
        case _AccSub : return x - y
        case _AccMul : return x * y
        case _AccDiv : return x / y
        default      : panic("ccs: invalid floating-point operator " + op.String())
    }
}

// evaluateFloat simulates the accumulation from the resolved origin, so the
// results are absolute values except for the remainder.
func (self *_CCSContext) evaluateFloat(c *_Candidate, n int64) bool {
    max := self.budget(n)
    if max <= 0 {
        return false
    }

    /* remainder is approximated by the divisor */
    if c.op == _AccRem {
        c.result = c.step
        return true
    }

    /* simulate the loop */
    k := c.step.Float()
    val := c.origin.Float()

    /* stop at the fixed points */
    for i := int64(0); i < max; i++ {
        if val = roundTo(c.kind, applyFloat(c.op, val, k)); val != 0 && !math.IsInf(val, 0) {
            continue
        }

        /* zero and infinity stay put under scaling, only the sign may change */
        if c.op.isScaling() {
            if k < 0 {
                if c.seenTwice {
                    return false
                } else if (n - i - 1) % 2 != 0 {
                    val = -val
                }
            }
            break
        }

        /* sums only stop at infinity */
        if val != 0 {
            break
        }
    }

    /* save the result */
    c.result = ir.FloatConst(c.kind, val)
    c.reachedZero = val == 0
    c.reachedInf = math.IsInf(val, 0)
    c.exact = n == max
    c.finalized = c.reachedInf || c.reachedZero && c.op.isScaling() || c.exact
    return true
}
