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
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
)

func TestLogs_Pass(t *testing.T) {
	buf := new(bytes.Buffer)
	SetOutput(buf, log.LevelDebug)
	defer Discard()

	/* messages carry the pass name */
	Pass("ccs").Debug("Constant sunk", "phi", "v3")
	Pass("ccs").Trace("Not visible")
	assert.Contains(t, buf.String(), "Constant sunk")
	assert.Contains(t, buf.String(), "pass=ccs")
	assert.Contains(t, buf.String(), "phi=v3")
	assert.NotContains(t, buf.String(), "Not visible")
}

func TestLogs_Level(t *testing.T) {
	assert.Equal(t, log.LevelWarn, Level("warn"))
	assert.Equal(t, log.LevelTrace, Level("trace"))
	assert.Panics(t, func() { Level("loud") })
}
