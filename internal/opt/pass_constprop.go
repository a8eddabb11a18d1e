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
    `fmt`
    `math`

    `github.com/cloudwego/loopsink/internal/ir`
    `github.com/cloudwego/loopsink/internal/logs`
)

// ConstProp folds arithmetic and comparisons whose operands are all constants.
type ConstProp struct{}

func (ConstProp) foldInt(op ir.Op, kind ir.Kind, x int64, y int64) (ir.Const, bool) {
    switch op {
        case ir.OpAdd : return ir.IntConst(kind, x + y), true
        case ir.OpSub : return ir.IntConst(kind, x - y), true
        case ir.OpMul : return ir.IntConst(kind, x * y), true
        case ir.OpLt  : return ir.BoolConst(x <  y), true
        case ir.OpLe  : return ir.BoolConst(x <= y), true
        case ir.OpGt  : return ir.BoolConst(x >  y), true
        case ir.OpGe  : return ir.BoolConst(x >= y), true
        case ir.OpEq  : return ir.BoolConst(x == y), true
        case ir.OpNe  : return ir.BoolConst(x != y), true
        case ir.OpDiv : if y == 0 { return ir.Const{}, false } else { return ir.IntConst(kind, x / y), true }
        case ir.OpRem : if y == 0 { return ir.Const{}, false } else { return ir.IntConst(kind, x % y), true }
        default       : panic(fmt.Sprintf("constprop: invalid integer operator: %s", op))
    }
}

func (ConstProp) foldFloat(op ir.Op, kind ir.Kind, x float64, y float64) ir.Const {
    switch op {
        case ir.OpAdd : return ir.FloatConst(kind, x + y)
        case ir.OpSub : return ir.FloatConst(kind, x - y)
        case ir.OpMul : return ir.FloatConst(kind, x * y)
        case ir.OpDiv : return ir.FloatConst(kind, x / y)
        case ir.OpRem : return ir.FloatConst(kind, math.Mod(x, y))
        case ir.OpLt  : return ir.BoolConst(x <  y)
        case ir.OpLe  : return ir.BoolConst(x <= y)
        case ir.OpGt  : return ir.BoolConst(x >  y)
        case ir.OpGe  : return ir.BoolConst(x >= y)
        case ir.OpEq  : return ir.BoolConst(x == y)
        case ir.OpNe  : return ir.BoolConst(x != y)
        default       : panic(fmt.Sprintf("constprop: invalid floating-point operator: %s", op))
    }
}

func (self ConstProp) fold(g *ir.Graph, v ir.Value) (ir.Const, bool) {
    op := g.Op(v)
    if !op.IsArith() && !op.IsCompare() {
        return ir.Const{}, false
    }

    /* both operands must be constants of the same kind */
    x, ok1 := g.ConstOf(g.Inputs(v)[0])
    y, ok2 := g.ConstOf(g.Inputs(v)[1])
    if !ok1 || !ok2 || x.Kind != y.Kind {
        return ir.Const{}, false
    }

    /* evaluate by domain, the operand kind decides for comparisons */
    switch {
        case x.Kind.IsInt()   : return self.foldInt(op, x.Kind, x.Int(), y.Int())
        case x.Kind.IsFloat() : return self.foldFloat(op, x.Kind, x.Float(), y.Float()), true
        default               : return ir.Const{}, false
    }
}

func (self ConstProp) Apply(u *Unit) {
    g := u.Graph
    log := logs.Pass("constprop")

    /* definitions are visited before their uses */
    for done := false; !done; {
        done = true
        for _, bb := range ir.BuildDominatorTree(g).PreOrder() {
            for _, v := range append([]ir.Value(nil), g.Block(bb).Ins...) {
                if c, ok := self.fold(g, v); ok {
                    g.ReplaceAllUses(v, g.Const(c))
                    g.Remove(v)
                    u.Stats.Record(ConstantFolded)
                    log.Trace("Constant folded", "value", v, "result", c)
                    done = false
                }
            }
        }
    }
}
