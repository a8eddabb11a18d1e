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

import (
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"
)

const (
	_DefaultMaxSimulatedIterations = 1000   // cutoff at 1000 simulated iterations
	_DefaultLogLevel               = "warn" // only report inconsistencies
)

var (
	MaxSimulatedIterations = parseOrDefault("LOOPSINK_MAX_SIMULATED_ITERATIONS", _DefaultMaxSimulatedIterations, 1)
	DisabledPasses         = parseList("LOOPSINK_DISABLE_PASSES")
	LogLevel               = parseLevel("LOOPSINK_LOG_LEVEL", _DefaultLogLevel)
)

var logLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"crit":  true,
}

func parseOrDefault(key string, def int, min int) int {
	return parseInt(key, env.Str(key), def, min)
}

func parseInt(key string, val string, def int, min int) int {
	if val == "" {
		return def
	} else if ret, err := strconv.ParseUint(val, 0, 64); err != nil {
		panic("loopsink: invalid value for " + key)
	} else if ret < uint64(min) {
		panic("loopsink: value too small for " + key)
	} else {
		return int(ret)
	}
}

func parseList(key string) []string {
	return splitList(env.Str(key))
}

func splitList(val string) []string {
	var ret []string
	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(s); s != "" {
			ret = append(ret, s)
		}
	}
	return ret
}

func parseLevel(key string, def string) string {
	return checkLevel(key, env.Str(key), def)
}

func checkLevel(key string, val string, def string) string {
	if val == "" {
		return def
	} else if lvl := strings.ToLower(val); !logLevels[lvl] {
		panic("loopsink: invalid log level for " + key)
	} else {
		return lvl
	}
}
