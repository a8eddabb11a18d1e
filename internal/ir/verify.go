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
)

// GraphError describes an internal inconsistency of a graph.
type GraphError struct {
    Graph  string
    Value  Value
    Block  BlockID
    Reason string
}

func (self *GraphError) Error() string {
    if self.Value != NoValue {
        return fmt.Sprintf("graph %s: %s (in %s): %s", self.Graph, self.Value, self.Block, self.Reason)
    } else {
        return fmt.Sprintf("graph %s: %s: %s", self.Graph, self.Block, self.Reason)
    }
}

func (self *Graph) errorf(v Value, bb BlockID, format string, args ...interface{}) *GraphError {
    return &GraphError {
        Graph  : self.Name,
        Value  : v,
        Block  : bb,
        Reason : fmt.Sprintf(format, args...),
    }
}

func hasUse(buf []Use, user Value, idx int) bool {
    for _, u := range buf {
        if u.User == user && u.Index == idx {
            return true
        }
    }
    return false
}

// Verify checks that the graph is internally consistent: every live node sits
// in its block, refers only to live nodes, and the use-lists mirror the
// argument and env lists exactly.
func (self *Graph) Verify() error {
    for _, bb := range self.blocks {
        if err := self.verifyBlock(bb); err != nil {
            return err
        }
    }

    /* check every node */
    for i := 1; i < len(self.nodes); i++ {
        v := Value(i)
        p := self.nodes[i]

        /* removed nodes must not be referenced anymore */
        if p.dead {
            if len(self.uses[v]) != 0 {
                return self.errorf(v, p.Block, "removed but still used by %s", self.uses[v][0].User)
            } else if len(self.envs[v]) != 0 {
                return self.errorf(v, p.Block, "removed but still referenced by env of %s", self.envs[v][0].User)
            } else {
                continue
            }
        }

        /* arguments */
        for j, a := range p.Args {
            if !self.Live(a) {
                return self.errorf(v, p.Block, "argument %d refers to invalid value %s", j, a)
            } else if !hasUse(self.uses[a], v, j) {
                return self.errorf(v, p.Block, "argument %d is missing from the use-list of %s", j, a)
            }
        }

        /* env values */
        for j, e := range p.Env {
            if e == NoValue {
                continue
            } else if !self.Live(e) {
                return self.errorf(v, p.Block, "env slot %d refers to invalid value %s", j, e)
            } else if !hasUse(self.envs[e], v, j) {
                return self.errorf(v, p.Block, "env slot %d is missing from the env-list of %s", j, e)
            }
        }

        /* data uses */
        for _, u := range self.uses[v] {
            if !self.Live(u.User) {
                return self.errorf(v, p.Block, "used by invalid value %s", u.User)
            } else if q := self.nodes[u.User]; u.Index >= len(q.Args) || q.Args[u.Index] != v {
                return self.errorf(v, p.Block, "stale use record %s[%d]", u.User, u.Index)
            }
        }

        /* env uses */
        for _, u := range self.envs[v] {
            if !self.Live(u.User) {
                return self.errorf(v, p.Block, "referenced by env of invalid value %s", u.User)
            } else if q := self.nodes[u.User]; u.Index >= len(q.Env) || q.Env[u.Index] != v {
                return self.errorf(v, p.Block, "stale env record %s[%d]", u.User, u.Index)
            }
        }
    }
    return nil
}

func (self *Graph) verifyBlock(bb *Block) error {
    for _, v := range bb.Phis {
        if !self.Live(v) {
            return self.errorf(v, bb.ID, "block holds an invalid Phi")
        } else if p := self.nodes[v]; p.Op != OpPhi || p.Block != bb.ID {
            return self.errorf(v, bb.ID, "misplaced %s in the Phi list", p.Op)
        } else if len(p.Args) != len(bb.Preds) {
            return self.errorf(v, bb.ID, "Phi has %d args but the block has %d predecessors", len(p.Args), len(bb.Preds))
        }
    }

    /* a block must end with exactly one terminator */
    if len(bb.Ins) == 0 {
        return self.errorf(NoValue, bb.ID, "block is not terminated")
    }

    /* check instructions */
    for i, v := range bb.Ins {
        if !self.Live(v) {
            return self.errorf(v, bb.ID, "block holds an invalid instruction")
        }

        /* check the placement */
        p := self.nodes[v]
        last := i == len(bb.Ins) - 1

        /* terminators can only appear at the end */
        if p.Block != bb.ID {
            return self.errorf(v, bb.ID, "instruction claims to be in %s", p.Block)
        } else if p.Op == OpPhi {
            return self.errorf(v, bb.ID, "Phi in the instruction list")
        } else if p.Op.IsTerminator() != last {
            return self.errorf(v, bb.ID, "terminator misplaced")
        }
    }

    /* check successor count */
    switch n, t := len(bb.Succs), self.nodes[bb.Terminator()]; t.Op {
        case OpGoto   : if n != 1 { return self.errorf(bb.Terminator(), bb.ID, "goto with %d successors", n) }
        case OpIf     : if n != 2 { return self.errorf(bb.Terminator(), bb.ID, "if with %d successors", n) }
        case OpReturn : if n != 0 { return self.errorf(bb.Terminator(), bb.ID, "return with %d successors", n) }
    }
    return nil
}
