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
    `testing`

    `github.com/brianvoe/gofakeit/v6`
    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
    `gonum.org/v1/gonum/graph/flow`
    `gonum.org/v1/gonum/graph/simple`
)

//     bb_0 -> bb_1 -> bb_2 -> bb_1
//               \---> bb_3 -> bb_4
//     bb_5 (unreachable) -> bb_4
func buildLoopCFG() *Graph {
    g := NewGraph("loop")
    c := g.NewParam(Bool, "c")
    b1, b2, b3, b4, b5 := g.NewBlock(), g.NewBlock(), g.NewBlock(), g.NewBlock(), g.NewBlock()
    g.NewGoto(g.Entry, b1)
    g.NewIf(b1, c, b2, b3)
    g.NewGoto(b2, b1)
    g.NewGoto(b3, b4)
    g.NewGoto(b5, b4)
    g.NewReturn(b4)
    return g
}

func TestDominator_Loop(t *testing.T) {
    g := buildLoopCFG()
    dt := BuildDominatorTree(g)
    assert.Equal(t, NoBlock, dt.Idom(0))
    assert.Equal(t, BlockID(0), dt.Idom(1))
    assert.Equal(t, BlockID(1), dt.Idom(2))
    assert.Equal(t, BlockID(1), dt.Idom(3))
    assert.Equal(t, BlockID(3), dt.Idom(4))
    assert.True(t, dt.Dominates(1, 4))
    assert.True(t, dt.Dominates(2, 2))
    assert.False(t, dt.StrictlyDominates(2, 2))
    assert.False(t, dt.Dominates(2, 3))
    assert.False(t, dt.Dominates(2, 1))
    assert.False(t, dt.Reachable(5))
    assert.False(t, dt.Dominates(0, 5))
    assert.Equal(t, NoBlock, dt.Idom(5))
}

func TestDominator_Order(t *testing.T) {
    dt := BuildDominatorTree(buildLoopCFG())
    assert.Equal(t, []BlockID { 0, 1, 2, 3, 4 }, dt.PreOrder())
    assert.Equal(t, []BlockID { 2, 4, 3, 1, 0 }, dt.PostOrder())
}

func randomCFG(faker *gofakeit.Faker, n int) *Graph {
    g := NewGraph("random")
    c := g.NewParam(Bool, "c")
    for i := 1; i < n; i++ {
        g.NewBlock()
    }

    /* terminate every block with a random branch */
    for i := 0; i < n; i++ {
        bb := BlockID(i)
        switch faker.IntRange(0, 4) {
            case 0  : g.NewReturn(bb)
            case 1  : g.NewGoto(bb, BlockID(faker.IntRange(0, n - 1)))
            default : g.NewIf(bb, c, BlockID(faker.IntRange(0, n - 1)), BlockID(faker.IntRange(0, n - 1)))
        }
    }
    return g
}

func TestDominator_AgreesWithGonum(t *testing.T) {
    faker := gofakeit.New(20221024)
    for round := 0; round < 200; round++ {
        g := randomCFG(faker, faker.IntRange(1, 16))
        dt := BuildDominatorTree(g)

        /* mirror the CFG, self loops do not affect dominance */
        dg := simple.NewDirectedGraph()
        for _, bb := range g.Blocks() {
            dg.AddNode(simple.Node(bb.ID))
        }
        for _, bb := range g.Blocks() {
            for _, s := range bb.Succs {
                if s != bb.ID {
                    dg.SetEdge(dg.NewEdge(simple.Node(bb.ID), simple.Node(s)))
                }
            }
        }

        /* compare the immediate dominators of all reachable blocks */
        ref := flow.Dominators(simple.Node(g.Entry), dg)
        for _, bb := range g.Blocks() {
            if !dt.Reachable(bb.ID) {
                continue
            }
            if d := ref.DominatorOf(int64(bb.ID)); d == nil {
                require.Equal(t, NoBlock, dt.Idom(bb.ID), "round %d, block %s\n%s", round, bb.ID, g)
            } else {
                require.Equal(t, BlockID(d.ID()), dt.Idom(bb.ID), "round %d, block %s\n%s", round, bb.ID, g)
            }
        }
    }
}

func TestDominator_PreOrderRespectsDominance(t *testing.T) {
    faker := gofakeit.New(7)
    for round := 0; round < 50; round++ {
        g := randomCFG(faker, faker.IntRange(2, 12))
        dt := BuildDominatorTree(g)
        seen := make(map[BlockID]bool)
        for _, bb := range dt.PreOrder() {
            if d := dt.Idom(bb); d != NoBlock {
                require.True(t, seen[d], "%s visited before its dominator %s", bb, d)
                require.True(t, dt.StrictlyDominates(d, bb))
            }
            seen[bb] = true
        }
    }
}
