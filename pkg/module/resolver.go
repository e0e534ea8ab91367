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

package module

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
)

// ResolvedModule is a module name and the archive that provides it.
type ResolvedModule struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Resolver turns a distribution reference into a ResolvedModule.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (ResolvedModule, error)
}

// ResolveAll resolves refs in order.
func ResolveAll(ctx context.Context, r Resolver, refs []string) ([]ResolvedModule, error) {
	out := make([]ResolvedModule, 0, len(refs))
	for _, ref := range refs {
		m, err := r.Resolve(ctx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// StaticResolver looks references up in a fixed table.
type StaticResolver struct {
	modules map[string]ResolvedModule
}

// NewStaticResolver returns a resolver over a copy of modules.
func NewStaticResolver(modules map[string]ResolvedModule) *StaticResolver {
	return &StaticResolver{modules: maps.Clone(modules)}
}

// Resolve implements Resolver.
func (s *StaticResolver) Resolve(_ context.Context, ref string) (ResolvedModule, error) {
	m, ok := s.modules[ref]
	if !ok {
		return ResolvedModule{}, vmerrors.NewWithContext(vmerrors.ErrCodeNotFound,
			fmt.Sprintf("unknown module distribution '%s'", ref),
			map[string]any{"ref": ref, "known": slices.Sorted(maps.Keys(s.modules))})
	}
	return m, nil
}

// ChainResolver tries each resolver in turn and returns the first success.
type ChainResolver []Resolver

// Resolve implements Resolver.
func (c ChainResolver) Resolve(ctx context.Context, ref string) (ResolvedModule, error) {
	var errs []error
	for _, r := range c {
		m, err := r.Resolve(ctx, ref)
		if err == nil {
			return m, nil
		}
		errs = append(errs, err)
	}
	return ResolvedModule{}, vmerrors.Wrap(vmerrors.ErrCodeNotFound,
		fmt.Sprintf("cannot resolve module distribution '%s'", ref), errors.Join(errs...))
}

// ParseExplicit splits a "name=path" reference. ok is false when ref does not
// have that form.
func ParseExplicit(ref string) (ResolvedModule, bool) {
	name, path, ok := strings.Cut(ref, "=")
	name = strings.TrimSpace(name)
	path = strings.TrimSpace(path)
	if !ok || name == "" || path == "" {
		return ResolvedModule{}, false
	}
	return ResolvedModule{Name: name, Path: path}, true
}
