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

package debug

import (
	"github.com/cloudwego/loopsink/internal/opt"
)

// A Stats records what the optimizer did since the process started.
type Stats struct {
	Sinking SinkStats
}

// A SinkStats records the changes made to the optimized graphs.
type SinkStats struct {
	Sunk    int
	Folded  int
	Removed int
}

// GetStats returns statistics of the optimizer.
func GetStats() Stats {
	return Stats{
		Sinking: SinkStats{
			Sunk:    int(opt.Total(opt.ConstantCalculationSinking)),
			Folded:  int(opt.Total(opt.ConstantFolded)),
			Removed: int(opt.Total(opt.DeadInstructionRemoved)),
		},
	}
}
