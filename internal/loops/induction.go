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
    `math`

    `github.com/cloudwego/loopsink/internal/ir`
)

// InductionVariable is the basic induction variable that controls the exit
// test of a loop:
//
//     Phi = φ(Start, Phi + Step)
//     if Phi <Cmp> Limit then <stay in loop> else <leave>
//
// Cmp is normalized so the variable is on the left and the condition means
// "keep looping".
type InductionVariable struct {
    Phi    ir.Value
    Update ir.Value
    Start  int64
    Step   int64
    Limit  int64
    Cmp    ir.Op
    Trips  int64
    Known  bool
}

func (self *Nest) findInductionVariable(l *Loop) *InductionVariable {
    hdr := self.g.Block(l.Header)

    /* exactly one way in and one way around */
    if len(hdr.Preds) != 2 || len(l.Latches) != 1 {
        return nil
    }

    /* locate the edges */
    latch := hdr.PredIndex(l.Latches[0])
    entry := 1 - latch

    /* the exit test must be the header terminator */
    term := hdr.Terminator()
    if term == ir.NoValue || self.g.Op(term) != ir.OpIf {
        return nil
    }

    /* which branch stays in the loop */
    stay := true
    switch in0, in1 := l.Contains(hdr.Succs[0]), l.Contains(hdr.Succs[1]); {
        case in0 && !in1 : stay = true
        case in1 && !in0 : stay = false
        default          : return nil
    }

    /* check every Phi */
    for _, phi := range hdr.Phis {
        if iv := self.matchInductionVariable(l, phi, entry, latch, term, stay); iv != nil {
            iv.Trips, iv.Known = tripCount(self.g.Kind(phi), iv)
            return iv
        }
    }
    return nil
}

func (self *Nest) constOf(v ir.Value) (int64, bool) {
    if c, ok := self.g.ConstOf(v); !ok || !c.Kind.IsInt() {
        return 0, false
    } else {
        return c.Int(), true
    }
}

func (self *Nest) matchInductionVariable(l *Loop, phi ir.Value, entry int, latch int, term ir.Value, stay bool) *InductionVariable {
    var ok bool
    var iv InductionVariable

    /* integer Phi with a constant initial value */
    if iv.Phi = phi; !self.g.Kind(phi).IsInt() || len(self.g.Inputs(phi)) != 2 {
        return nil
    } else if iv.Start, ok = self.constOf(self.g.Inputs(phi)[entry]); !ok {
        return nil
    }

    /* the update must be an add or sub of a constant */
    ok = false
    iv.Update = self.g.Inputs(phi)[latch]
    args := self.g.Inputs(iv.Update)

    /* match the step */
    switch self.g.Op(iv.Update) {
        default: {
            return nil
        }

        /* i + c or c + i */
        case ir.OpAdd: {
            if args[0] == phi {
                iv.Step, ok = self.constOf(args[1])
            } else if args[1] == phi {
                iv.Step, ok = self.constOf(args[0])
            }
        }

        /* i - c */
        case ir.OpSub: {
            if args[0] == phi {
                if iv.Step, ok = self.constOf(args[1]); iv.Step == ir.MinInt(self.g.Kind(phi)) {
                    ok = false
                } else {
                    iv.Step = -iv.Step
                }
            }
        }
    }

    /* must be a real step executed on every iteration */
    if !ok || iv.Step == 0 || self.LoopOf(self.g.BlockOf(iv.Update)) != l || !self.ExecutedOncePerIteration(iv.Update) {
        return nil
    }

    /* the exit test compares the Phi against a constant */
    cond := self.g.Inputs(term)[0]
    if iv.Cmp = self.g.Op(cond); !iv.Cmp.IsCompare() {
        return nil
    }

    /* normalize the operand order */
    switch x, y := self.g.Inputs(cond)[0], self.g.Inputs(cond)[1]; {
        case x == phi : iv.Limit, ok = self.constOf(y)
        case y == phi : iv.Limit, ok = self.constOf(x); iv.Cmp = iv.Cmp.Swapped()
        default       : return nil
    }

    /* the true branch may be the one that leaves the loop */
    if !ok {
        return nil
    } else if !stay {
        iv.Cmp = iv.Cmp.Negated()
    }
    return &iv
}

// tripCount computes how many times the exit test stays in the loop. The
// count is unknown when the variable could wrap before the test fails.
func tripCount(kind ir.Kind, iv *InductionVariable) (int64, bool) {
    lo  := ir.MinInt(kind)
    hi  := ir.MaxInt(kind)
    lim := iv.Limit

    /* convert inclusive bounds to exclusive ones */
    switch iv.Cmp {
        case ir.OpLe: {
            if lim == hi {
                return 0, false
            } else {
                lim++
            }
        }

        /* i >= lim  <=>  i > lim - 1 */
        case ir.OpGe: {
            if lim == lo {
                return 0, false
            } else {
                lim--
            }
        }
    }

    /* evaluate by comparison */
    switch iv.Cmp {
        case ir.OpEq: {
            if iv.Start == lim {
                return 1, true
            } else {
                return 0, true
            }
        }

        /* counting up */
        case ir.OpLt, ir.OpLe: {
            if iv.Start >= lim {
                return 0, true
            } else if iv.Step < 0 {
                return 0, false
            } else if uint64(iv.Step) - 1 > uint64(hi) - uint64(lim) {
                return 0, false
            } else {
                return ceildiv(uint64(lim) - uint64(iv.Start), uint64(iv.Step))
            }
        }

        /* counting down */
        case ir.OpGt, ir.OpGe: {
            if iv.Start <= lim {
                return 0, true
            } else if iv.Step > 0 {
                return 0, false
            } else if uint64(-iv.Step) - 1 > uint64(lim) - uint64(lo) {
                return 0, false
            } else {
                return ceildiv(uint64(iv.Start) - uint64(lim), uint64(-iv.Step))
            }
        }

        /* must hit the limit exactly */
        case ir.OpNe: {
            if iv.Start == lim {
                return 0, true
            } else if iv.Step > 0 && lim > iv.Start {
                return exactdiv(uint64(lim) - uint64(iv.Start), uint64(iv.Step))
            } else if iv.Step < 0 && lim < iv.Start {
                return exactdiv(uint64(iv.Start) - uint64(lim), uint64(-iv.Step))
            } else {
                return 0, false
            }
        }

        /* should never happen */
        default: {
            panic("loops: invalid exit test: " + iv.Cmp.String())
        }
    }
}

func ceildiv(n uint64, d uint64) (int64, bool) {
    q := n / d
    if n % d != 0 {
        q++
    }
    return checkTrips(q)
}

func exactdiv(n uint64, d uint64) (int64, bool) {
    if n % d != 0 {
        return 0, false
    } else {
        return checkTrips(n / d)
    }
}

func checkTrips(n uint64) (int64, bool) {
    if n > math.MaxInt64 {
        return 0, false
    } else {
        return int64(n), true
    }
}

/** Induction Variable Queries **/

// PrimaryInductionVariable returns the Phi of the basic induction variable
// of l, or NoValue.
func (self *Nest) PrimaryInductionVariable(l *Loop) ir.Value {
    if l.biv == nil {
        return ir.NoValue
    } else {
        return l.biv.Phi
    }
}

// InductionVariable returns the basic induction variable of l, or nil.
func (self *Nest) InductionVariable(l *Loop) *InductionVariable {
    return l.biv
}

func (self *Nest) HasKnownTripCount(l *Loop) bool {
    return l.biv != nil && l.biv.Known
}

// TripCount returns how many times bb executes during one run of l. Blocks
// that dominate the exit test run once more than the loop body.
func (self *Nest) TripCount(l *Loop, bb ir.BlockID) int64 {
    if !self.HasKnownTripCount(l) {
        panic("loops: trip count of " + l.String() + " is unknown")
    } else if self.dom.Dominates(bb, l.Header) && l.Contains(bb) {
        return l.biv.Trips + 1
    } else {
        return l.biv.Trips
    }
}
