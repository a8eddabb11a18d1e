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
	"github.com/cloudwego/loopsink/internal/ir"
	"github.com/cloudwego/loopsink/internal/opt"
	"github.com/cloudwego/loopsink/internal/opts"
)

type (
	Graph   = ir.Graph
	Value   = ir.Value
	BlockID = ir.BlockID
	Kind    = ir.Kind
	Op      = ir.Op
	Const   = ir.Const
)

const (
	Void    = ir.Void
	Bool    = ir.Bool
	Int32   = ir.Int32
	Int64   = ir.Int64
	Float32 = ir.Float32
	Float64 = ir.Float64
)

const (
	OpAdd = ir.OpAdd
	OpSub = ir.OpSub
	OpMul = ir.OpMul
	OpDiv = ir.OpDiv
	OpRem = ir.OpRem
	OpLt  = ir.OpLt
	OpLe  = ir.OpLe
	OpGt  = ir.OpGt
	OpGe  = ir.OpGe
	OpEq  = ir.OpEq
	OpNe  = ir.OpNe
)

// NewGraph creates an empty graph with only the entry block.
func NewGraph(name string) *Graph {
	return ir.NewGraph(name)
}

// Report summarizes what Optimize did to a graph.
type Report struct {
	Sunk    int
	Folded  int
	Removed int
}

// Optimize sinks the constant accumulations out of the counted inner loops
// of g, then folds the recombinations and removes what became dead. The
// graph is changed in place.
//
// g must be consistent on entry, a *GraphError is returned otherwise and g
// is left untouched.
func Optimize(g *Graph, options ...Option) (Report, error) {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}

	/* refuse broken input */
	if err := g.Verify(); err != nil {
		return Report{}, newGraphError("input", err)
	}

	/* run the pipeline */
	u := opt.NewUnit(g, o)
	err := opt.Execute(u)

	/* collect the statistics even on failure */
	rep := Report{
		Sunk:    u.Stats.Get(opt.ConstantCalculationSinking),
		Folded:  u.Stats.Get(opt.ConstantFolded),
		Removed: u.Stats.Get(opt.DeadInstructionRemoved),
	}

	if err != nil {
		return rep, newGraphError("output", err)
	}
	return rep, nil
}
