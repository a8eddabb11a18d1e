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

package irtest

import (
    `github.com/cloudwego/loopsink/internal/ir`
)

// Loop is a counted loop under construction:
//
//     Preheader -> Header: i = φ(Start, i + Step)
//                          if i <Cmp> Limit then Body else Exit
//                  Body ... Latch -> Header
//
// Body stays open until End is called, so callers can add instructions to it
// or nest another loop inside it (moving Latch to the inner loop's exit).
type Loop struct {
    Kind      ir.Kind
    Preheader ir.BlockID
    Header    ir.BlockID
    Body      ir.BlockID
    Latch     ir.BlockID
    Exit      ir.BlockID
    IV        ir.Value
    Cond      ir.Value
    step      int64
}

// Begin opens a counted loop after pre, which must not be terminated yet.
func Begin(g *ir.Graph, pre ir.BlockID, kind ir.Kind, start int64, cmp ir.Op, limit int64, step int64) *Loop {
    header := g.NewBlock()
    body   := g.NewBlock()
    exit   := g.NewBlock()

    /* preheader edge first, the back edge is added by End */
    g.NewGoto(pre, header)
    iv := g.NewPhi(header, kind)
    g.SetArgs(iv, g.Const(ir.IntConst(kind, start)))

    /* the exit test */
    cond := g.NewCompare(header, cmp, iv, g.Const(ir.IntConst(kind, limit)))
    g.NewIf(header, cond, body, exit)

    /* build the loop */
    return &Loop {
        Kind      : kind,
        Preheader : pre,
        Header    : header,
        Body      : body,
        Latch     : body,
        Exit      : exit,
        IV        : iv,
        Cond      : cond,
        step      : step,
    }
}

// Accumulate adds an accumulator x = φ(init, x <op> step) to the loop, with
// the update placed in the body. It must be called before End.
func (self *Loop) Accumulate(g *ir.Graph, op ir.Op, kind ir.Kind, init ir.Value, step ir.Value) (phi ir.Value, upd ir.Value) {
    phi = g.NewPhi(self.Header, kind)
    upd = g.NewBinary(self.Body, op, kind, phi, step)
    g.SetArgs(phi, init, upd)
    return
}

// End closes the loop: increments the induction variable in the latch and
// adds the back edge.
func (self *Loop) End(g *ir.Graph) {
    next := g.NewBinary(self.Latch, ir.OpAdd, self.Kind, self.IV, g.Const(ir.IntConst(self.Kind, self.step)))
    g.NewGoto(self.Latch, self.Header)
    g.SetArgs(self.IV, g.Inputs(self.IV)[0], next)
}

// Counted builds a complete loop `for i := 0; i < n; i++ {}` with a single
// accumulator x = φ(init, x <op> step) and returns after End. The update is
// the only instruction of the body.
func Counted(g *ir.Graph, pre ir.BlockID, n int64, op ir.Op, kind ir.Kind, init ir.Value, step ir.Value) (l *Loop, phi ir.Value, upd ir.Value) {
    l = Begin(g, pre, ir.Int32, 0, ir.OpLt, n, 1)
    phi, upd = l.Accumulate(g, op, kind, init, step)
    l.End(g)
    return
}
