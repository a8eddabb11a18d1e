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

package loopsink

import (
	"errors"
	"testing"

	"github.com/cloudwego/loopsink/internal/ir"
	"github.com/cloudwego/loopsink/internal/ir/irtest"
	"github.com/cloudwego/loopsink/internal/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimize(t *testing.T) {
	g := NewGraph("optimize")
	l, phi, _ := irtest.Counted(g, g.Entry, 16, OpMul, Int64, g.ConstInt64(5), g.ConstInt64(4))
	ret := g.NewReturn(l.Exit, phi)
	rep, err := Optimize(g)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Sunk)
	assert.Equal(t, 1, rep.Folded)
	assert.Equal(t, []Value{g.ConstInt64(5 << 32)}, g.Inputs(ret))
}

func TestOptimize_Options(t *testing.T) {
	build := func() (*Graph, Value) {
		g := NewGraph("options")
		l, phi, _ := irtest.Counted(g, g.Entry, 1500, OpAdd, Float64, g.ConstFloat64(0), g.ConstFloat64(2))
		return g, g.NewReturn(l.Exit, phi)
	}

	g, _ := build()
	rep, err := Optimize(g)
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Sunk)

	g, ret := build()
	rep, err = Optimize(g, WithMaxSimulatedIterations(2000))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Sunk)
	assert.Equal(t, []Value{g.ConstFloat64(3000)}, g.Inputs(ret))

	g, _ = build()
	rep, err = Optimize(g, WithMaxSimulatedIterations(2000), WithDebuggable(true))
	require.NoError(t, err)
	assert.Equal(t, Report{}, rep)

	g, _ = build()
	rep, err = Optimize(g, WithMaxSimulatedIterations(2000), WithDisabledPasses("ccs"))
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Sunk)
}

func TestOptimize_InvalidGraph(t *testing.T) {
	g := NewGraph("broken")
	bb := g.NewBlock()
	g.NewGoto(g.Entry, bb)

	rep, err := Optimize(g)
	require.Error(t, err)
	assert.Equal(t, Report{}, rep)

	var ge *GraphError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "input", ge.Stage)
	assert.Equal(t, bb, ge.Block)
	assert.Equal(t, ir.NoValue, ge.Value)
	assert.Contains(t, err.Error(), "block is not terminated")

	var ie *ir.GraphError
	assert.True(t, errors.As(err, &ie))
}

func TestOptions_Invalid(t *testing.T) {
	assert.Panics(t, func() { WithMaxSimulatedIterations(0) })
	assert.Panics(t, func() { SetMaxSimulatedIterations(-1) })
}

func TestSetMaxSimulatedIterations(t *testing.T) {
	old := SetMaxSimulatedIterations(10)
	defer SetMaxSimulatedIterations(old)
	assert.Equal(t, 10, opts.GetDefaultOptions().MaxSimulatedIterations)
	assert.Equal(t, 10, SetMaxSimulatedIterations(20))
	assert.Equal(t, 20, opts.GetDefaultOptions().MaxSimulatedIterations)
}
