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
	"fmt"

	"github.com/cloudwego/loopsink/internal/ir"
)

// GraphError occures when a graph is inconsistent, either as given to
// Optimize ("input") or after one of the passes ("output").
type GraphError struct {
	Stage string
	Value Value
	Block BlockID
	Cause error
}

func newGraphError(stage string, err error) *GraphError {
	ret := &GraphError{Stage: stage, Value: ir.NoValue, Block: ir.NoBlock, Cause: err}
	if e := new(ir.GraphError); errors.As(err, &e) {
		ret.Value, ret.Block = e.Value, e.Block
	}
	return ret
}

func (self *GraphError) Error() string {
	return fmt.Sprintf("GraphError(%s): %v", self.Stage, self.Cause)
}

func (self *GraphError) Unwrap() error {
	return self.Cause
}
