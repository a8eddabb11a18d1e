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

package logs

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/cloudwego/loopsink/internal/opts"
	"github.com/ethereum/go-ethereum/log"
)

var root atomic.Pointer[log.Logger]

func init() {
	SetOutput(os.Stderr, Level(opts.LogLevel))
}

// Level converts a level name accepted by LOOPSINK_LOG_LEVEL.
func Level(name string) slog.Level {
	switch name {
	case "trace":
		return log.LevelTrace
	case "debug":
		return log.LevelDebug
	case "info":
		return log.LevelInfo
	case "warn":
		return log.LevelWarn
	case "error":
		return log.LevelError
	case "crit":
		return log.LevelCrit
	default:
		panic("loopsink: invalid log level: " + name)
	}
}

// SetOutput redirects every logger created afterwards.
func SetOutput(w io.Writer, lvl slog.Level) {
	l := log.NewLogger(log.NewTerminalHandlerWithLevel(w, lvl, false))
	root.Store(&l)
}

// Discard silences every logger created afterwards.
func Discard() {
	SetOutput(io.Discard, log.LevelCrit)
}

// Pass returns the logger of an optimization pass.
func Pass(name string) log.Logger {
	return (*root.Load()).New("pass", name)
}
