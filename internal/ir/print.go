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
    `fmt`
    `strings`
)

func joinValues(vals []Value) string {
    ret := make([]string, 0, len(vals))
    for _, v := range vals {
        ret = append(ret, v.String())
    }
    return strings.Join(ret, ", ")
}

// Format renders a single node.
func (self *Graph) Format(v Value) string {
    var ret string
    p := self.Node(v)

    /* format by op */
    switch p.Op {
        case OpConst: {
            ret = fmt.Sprintf("%s = const.%s %s", v, p.Kind, Const { Kind: p.Kind, Bits: p.Bits })
        }

        /* opaque incoming values */
        case OpParam: {
            ret = fmt.Sprintf("%s = param.%s %q", v, p.Kind, p.Name)
        }

        /* Phi nodes show the incoming block of every argument */
        case OpPhi: {
            bb := self.Block(p.Block)
            in := make([]string, 0, len(p.Args))

            /* dump each path */
            for i, a := range p.Args {
                if i < len(bb.Preds) {
                    in = append(in, fmt.Sprintf("%s: %s", bb.Preds[i], a))
                } else {
                    in = append(in, fmt.Sprintf("?: %s", a))
                }
            }

            /* join them together */
            ret = fmt.Sprintf("%s = φ.%s(%s)", v, p.Kind, strings.Join(in, ", "))
        }

        /* opaque side effects */
        case OpCall: {
            if p.Kind == Void {
                ret = fmt.Sprintf("call %s(%s)", p.Name, joinValues(p.Args))
            } else {
                ret = fmt.Sprintf("%s = call.%s %s(%s)", v, p.Kind, p.Name, joinValues(p.Args))
            }
        }

        /* terminators */
        case OpGoto   : ret = fmt.Sprintf("goto %s", self.Block(p.Block).Succs[0])
        case OpReturn : ret = fmt.Sprintf("ret {%s}", joinValues(p.Args))

        /* conditional branch */
        case OpIf: {
            bb := self.Block(p.Block)
            ret = fmt.Sprintf("if %s then %s else %s", p.Args[0], bb.Succs[0], bb.Succs[1])
        }

        /* arithmetic and comparisons */
        default: {
            ret = fmt.Sprintf("%s = %s.%s %s", v, p.Op, p.Kind, joinValues(p.Args))
        }
    }

    /* add the debug references if any */
    if len(p.Env) != 0 {
        ret += fmt.Sprintf(" env{%s}", joinValues(p.Env))
    }
    return ret
}

func (self *Graph) String() string {
    buf := []string { fmt.Sprintf("graph %s {", self.Name) }

    /* dump every block */
    for _, bb := range self.blocks {
        preds := make([]string, 0, len(bb.Preds))
        for _, p := range bb.Preds {
            preds = append(preds, p.String())
        }

        /* block header */
        buf = append(buf, fmt.Sprintf("%s: # pred = {%s}", bb.ID, strings.Join(preds, ", ")))

        /* Phi nodes and instructions */
        for _, v := range bb.Phis { buf = append(buf, "    " + self.Format(v)) }
        for _, v := range bb.Ins  { buf = append(buf, "    " + self.Format(v)) }
    }

    /* join them together */
    buf = append(buf, "}")
    return strings.Join(buf, "\n")
}
