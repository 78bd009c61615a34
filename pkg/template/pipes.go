// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package template

import (
	"context"
	"fmt"
)

// Pipe transforms a tag's resolved value before it is appended to the
// output. Pipes are the one place a render may block; an agent-backed pipe
// should honor ctx.
type Pipe func(ctx context.Context, input string) (string, error)

// PipeRegistry maps pipe names to implementations. New pipes register here;
// the evaluator never special-cases a name.
type PipeRegistry struct {
	pipes map[string]Pipe
}

// NewPipeRegistry returns a registry with the built-in pipes.
func NewPipeRegistry() *PipeRegistry {
	r := &PipeRegistry{pipes: map[string]Pipe{}}
	r.Register("summary", summaryPipe)
	return r
}

// Register adds or replaces a pipe.
func (r *PipeRegistry) Register(name string, p Pipe) {
	r.pipes[name] = p
}

// Apply runs the named pipe on input.
func (r *PipeRegistry) Apply(ctx context.Context, name, input string) (string, error) {
	p, ok := r.pipes[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPipe, name)
	}
	return p(ctx, input)
}

// summaryPipe marks text for summarization.
// TODO: call the job's agent for a real summary once agent-backed pipes land.
func summaryPipe(_ context.Context, input string) (string, error) {
	return "Summary of: " + input, nil
}

var defaultPipes = NewPipeRegistry()
