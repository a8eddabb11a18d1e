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
	"fmt"

	"github.com/cloudwego/loopsink/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithMaxSimulatedIterations sets how many iterations the optimizer may
// simulate when a closed form is not available.
//
// Accumulations that need more iterations than this are only sunk if they
// reach a fixed point (zero or infinity) within the limit.
//
// The default value of this option is "1000".
func WithMaxSimulatedIterations(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("loopsink: invalid simulated iteration count: %d", n))
	} else {
		return func(o *opts.Options) { o.MaxSimulatedIterations = n }
	}
}

// WithDebuggable marks the graph as debuggable, which requires the value of
// every accumulator to stay observable on each iteration. Nothing is sunk
// from debuggable graphs.
func WithDebuggable(v bool) Option {
	return func(o *opts.Options) { o.Debuggable = v }
}

// WithDisabledPasses skips the named passes ("ccs", "constprop" and "tdce").
func WithDisabledPasses(names ...string) Option {
	return func(o *opts.Options) { o.DisabledPasses = append([]string(nil), names...) }
}

// SetMaxSimulatedIterations sets the default simulation limit for all graphs
// from now on.
//
// This value can also be configured with the `LOOPSINK_MAX_SIMULATED_ITERATIONS`
// environment variable.
//
// Returns the old opts.MaxSimulatedIterations value.
func SetMaxSimulatedIterations(n int) int {
	if n < 1 {
		panic(fmt.Sprintf("loopsink: invalid simulated iteration count: %d", n))
	}
	n, opts.MaxSimulatedIterations = opts.MaxSimulatedIterations, n
	return n
}
