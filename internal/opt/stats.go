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
    `sync/atomic`
)

type Stat int

const (
    ConstantCalculationSinking Stat = iota
    ConstantFolded
    DeadInstructionRemoved
    _StatCount
)

func (self Stat) String() string {
    switch self {
        case ConstantCalculationSinking : return "ConstantCalculationSinking"
        case ConstantFolded             : return "ConstantFolded"
        case DeadInstructionRemoved     : return "DeadInstructionRemoved"
        default                         : return fmt.Sprintf("Stat(%d)", int(self))
    }
}

// Stats counts the events of a single unit.
type Stats [_StatCount]int

var totals [_StatCount]int64

// Record counts an event for this unit and for the whole process.
func (self *Stats) Record(s Stat) {
    self[s]++
    atomic.AddInt64(&totals[s], 1)
}

func (self *Stats) Get(s Stat) int {
    return self[s]
}

// Total returns the number of events recorded by all units so far.
func Total(s Stat) int64 {
    return atomic.LoadInt64(&totals[s])
}
