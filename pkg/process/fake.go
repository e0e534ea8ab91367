// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package process

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
)

// FakeRunner is a Runner for tests. Responses are keyed by the base name of
// the command path, so "/jdk/bin/jlink" matches "jlink". Every call is
// recorded, including calls without a matching response.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []Command
}

type fakeResponse struct {
	handler func(Command) (*Result, error)
}

// NewFakeRunner returns a FakeRunner with no responses.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]fakeResponse)}
}

// On makes commands named name return a copy of res and err.
func (f *FakeRunner) On(name string, res Result, err error) *FakeRunner {
	return f.OnFunc(name, func(Command) (*Result, error) {
		if err != nil {
			return nil, err
		}
		r := res
		return &r, nil
	})
}

// OnFunc makes commands named name call fn.
func (f *FakeRunner) OnFunc(name string, fn func(Command) (*Result, error)) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[name] = fakeResponse{handler: fn}
	return f
}

// Run records cmd and returns the configured response.
func (f *FakeRunner) Run(_ context.Context, cmd Command) (*Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, Command{
		Path: cmd.Path,
		Args: slices.Clone(cmd.Args),
		Dir:  cmd.Dir,
		Env:  slices.Clone(cmd.Env),
	})
	resp, ok := f.responses[filepath.Base(cmd.Path)]
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("no fake response for %s", cmd.Path)
	}
	return resp.handler(cmd)
}

// Calls returns the recorded commands in call order.
func (f *FakeRunner) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallsTo returns the recorded commands whose base name is name.
func (f *FakeRunner) CallsTo(name string) []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Command
	for _, c := range f.calls {
		if filepath.Base(c.Path) == name {
			out = append(out, c)
		}
	}
	return out
}
