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
    `testing`

    `github.com/cloudwego/loopsink/internal/ir`
    `github.com/cloudwego/loopsink/internal/ir/irtest`
    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
)

func TestConstProp_Int(t *testing.T) {
    g := ir.NewGraph("constprop")
    x := g.NewBinary(g.Entry, ir.OpAdd, ir.Int32, g.ConstInt32(math.MaxInt32), g.ConstInt32(1))
    y := g.NewBinary(g.Entry, ir.OpMul, ir.Int32, x, g.ConstInt32(3))
    z := g.NewBinary(g.Entry, ir.OpDiv, ir.Int32, y, g.ConstInt32(0))
    c := g.NewCompare(g.Entry, ir.OpLt, g.ConstInt64(-1), g.ConstInt64(1))
    ret := g.NewReturn(g.Entry, y, z, c)
    u := newTestUnit(g)
    ConstProp{}.Apply(u)
    require.NoError(t, g.Verify(), g.String())

    /* wraps around, and leaves the division by zero alone */
    assert.Equal(t, 3, u.Stats.Get(ConstantFolded))
    assert.Equal(t, g.ConstInt32(math.MinInt32), g.Inputs(ret)[0])
    assert.Equal(t, z, g.Inputs(ret)[1])
    assert.Equal(t, g.Const(ir.BoolConst(true)), g.Inputs(ret)[2])
    assert.False(t, g.Live(x))
}

func TestConstProp_Float(t *testing.T) {
    g := ir.NewGraph("constprop_float")
    x := g.NewBinary(g.Entry, ir.OpRem, ir.Float64, g.ConstFloat64(7.5), g.ConstFloat64(2))
    y := g.NewBinary(g.Entry, ir.OpDiv, ir.Float32, g.ConstFloat32(1), g.ConstFloat32(0))
    z := g.NewBinary(g.Entry, ir.OpAdd, ir.Float32, g.ConstFloat32(16777216), g.ConstFloat32(1))
    ret := g.NewReturn(g.Entry, x, y, z)
    u := newTestUnit(g)
    ConstProp{}.Apply(u)
    require.NoError(t, g.Verify(), g.String())

    /* single precision results are rounded */
    assert.Equal(t, 3, u.Stats.Get(ConstantFolded))
    assert.Equal(t, []ir.Value {
        g.ConstFloat64(1.5),
        g.ConstFloat32(float32(math.Inf(1))),
        g.ConstFloat32(16777216),
    }, g.Inputs(ret))
}

func TestConstProp_MixedKinds(t *testing.T) {
    g := ir.NewGraph("mixed")
    x := g.NewBinary(g.Entry, ir.OpAdd, ir.Int64, g.ConstInt32(1), g.ConstInt64(1))
    g.NewReturn(g.Entry, x)
    u := newTestUnit(g)
    ConstProp{}.Apply(u)
    assert.Equal(t, 0, u.Stats.Get(ConstantFolded))
    assert.True(t, g.Live(x))
}

func TestTDCE(t *testing.T) {
    g := ir.NewGraph("tdce")
    p := g.NewParam(ir.Int32, "p")
    x := g.NewBinary(g.Entry, ir.OpAdd, ir.Int32, p, g.ConstInt32(1))
    y := g.NewBinary(g.Entry, ir.OpMul, ir.Int32, x, x)
    c := g.NewCall(g.Entry, "sideeffect", ir.Int32, x)
    g.NewReturn(g.Entry)
    u := newTestUnit(g)
    TDCE{}.Apply(u)
    require.NoError(t, g.Verify(), g.String())

    /* calls stay, and keep their operands alive */
    assert.Equal(t, 1, u.Stats.Get(DeadInstructionRemoved))
    assert.False(t, g.Live(y))
    assert.True(t, g.Live(x))
    assert.True(t, g.Live(c))
}

func TestTDCE_Chain(t *testing.T) {
    g := ir.NewGraph("tdce_chain")
    l, phi, upd := irtest.Counted(g, g.Entry, 10, ir.OpAdd, ir.Int32, g.ConstInt32(0), g.ConstInt32(1))
    g.NewReturn(l.Exit)
    u := newTestUnit(g)
    TDCE{}.Apply(u)
    require.NoError(t, g.Verify(), g.String())

    /* the cycle keeps itself alive */
    assert.Equal(t, 0, u.Stats.Get(DeadInstructionRemoved))
    assert.True(t, g.Live(phi))
    assert.True(t, g.Live(upd))
}

func TestExecute_DisabledPasses(t *testing.T) {
    g := ir.NewGraph("disabled")
    l, phi, _ := irtest.Counted(g, g.Entry, 10, ir.OpAdd, ir.Int32, g.ConstInt32(5), g.ConstInt32(2))
    ret := g.NewReturn(l.Exit, phi)

    /* without constant propagation the recombination stays */
    u := newTestUnit(g)
    u.Options.DisabledPasses = []string { "constprop" }
    require.NoError(t, Execute(u))
    assert.Equal(t, 1, u.Stats.Get(ConstantCalculationSinking))
    assert.Equal(t, 0, u.Stats.Get(ConstantFolded))
    assert.Equal(t, ir.OpAdd, g.Op(g.Inputs(ret)[0]))

    /* the rest is folded later */
    u = newTestUnit(g)
    u.Options.DisabledPasses = []string { "ccs" }
    require.NoError(t, Execute(u))
    assert.Equal(t, 1, u.Stats.Get(ConstantFolded))
    assert.Equal(t, g.ConstInt32(25), g.Inputs(ret)[0])
}

func TestExecute_NoLoops(t *testing.T) {
    g := ir.NewGraph("straight")
    p := g.NewParam(ir.Float64, "p")
    x := g.NewBinary(g.Entry, ir.OpMul, ir.Float64, p, g.ConstFloat64(2))
    g.NewReturn(g.Entry, x)
    before := g.String()
    u := runAll(t, g)
    assert.Equal(t, Stats{}, u.Stats)
    assert.Equal(t, before, g.String())
}

func TestStats_Total(t *testing.T) {
    n := Total(ConstantCalculationSinking)
    g := ir.NewGraph("total")
    l, phi, _ := irtest.Counted(g, g.Entry, 3, ir.OpSub, ir.Int64, g.ConstInt64(0), g.ConstInt64(1))
    g.NewReturn(l.Exit, phi)
    runCCS(t, g)
    assert.Equal(t, n + 1, Total(ConstantCalculationSinking))
    assert.Equal(t, "ConstantFolded", ConstantFolded.String())
    assert.Equal(t, "Stat(9)", Stat(9).String())
}
