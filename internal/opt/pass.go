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
    `github.com/cloudwego/loopsink/internal/ir`
    `github.com/cloudwego/loopsink/internal/logs`
    `github.com/cloudwego/loopsink/internal/opts`
)

type Pass interface {
    Apply(*Unit)
}

type PassDescriptor struct {
    Pass  Pass
    Name  string
    Short string
}

var Passes = [...]PassDescriptor {
    { Name: "Constant Calculation Sinking"  , Short: "ccs"       , Pass: new(CCS) },
    { Name: "Constant Propagation"          , Short: "constprop" , Pass: new(ConstProp) },
    { Name: "Trivial Dead Code Elimination" , Short: "tdce"      , Pass: new(TDCE) },
}

// Unit is one method being optimized.
type Unit struct {
    Graph   *ir.Graph
    Options opts.Options
    Stats   Stats
}

func NewUnit(g *ir.Graph, o opts.Options) *Unit {
    return &Unit {
        Graph   : g,
        Options : o,
    }
}

// Execute runs every enabled pass in order, checking the graph after each
// one. The first inconsistency stops the pipeline.
func Execute(u *Unit) error {
    for _, p := range Passes {
        log := logs.Pass(p.Short)

        /* skip disabled passes */
        if u.Options.IsDisabled(p.Short) {
            log.Debug("Pass disabled", "graph", u.Graph.Name)
            continue
        }

        /* run the pass */
        p.Pass.Apply(u)
        log.Trace("Pass finished", "graph", u.Graph.Name)

        /* the graph must stay consistent */
        if err := u.Graph.Verify(); err != nil {
            log.Error("Graph corrupted", "graph", u.Graph.Name, "err", err)
            return err
        }
    }
    return nil
}
