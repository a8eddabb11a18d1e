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

package opts

type Options struct {
	MaxSimulatedIterations int
	DisabledPasses         []string
	Debuggable             bool
}

// IsDisabled reports whether the pass with the given short name is skipped.
func (self *Options) IsDisabled(name string) bool {
	for _, v := range self.DisabledPasses {
		if v == name {
			return true
		}
	}
	return false
}

func GetDefaultOptions() Options {
	return Options{
		MaxSimulatedIterations: MaxSimulatedIterations,
		DisabledPasses:         append([]string(nil), DisabledPasses...),
		Debuggable:             false,
	}
}
