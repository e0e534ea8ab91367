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

package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/graalvm/vmassemble/pkg/component"
	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
)

// Registration outcomes, used as metric labels.
const (
	OutcomeAdded    = "added"
	OutcomeReplaced = "replaced"
	OutcomeIgnored  = "ignored"
	OutcomeConflict = "conflict"
	OutcomeRejected = "rejected"
)

// Registry maps component short names to the winning descriptor.
type Registry struct {
	mu         sync.RWMutex
	components map[string]*component.Descriptor
	order      []string
	hostVMs    []HostVMConfig
	frozen     bool
	logger     *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates an empty Registry preloaded with the default host VM configs.
func New(opts ...Option) *Registry {
	r := &Registry{
		components: make(map[string]*component.Descriptor),
		hostVMs:    DefaultHostVMConfigs(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register records d under its short name, applying priority resolution.
// The registry keeps its own normalized copy of d.
func (r *Registry) Register(d *component.Descriptor) error {
	if d == nil {
		return vmerrors.New(vmerrors.ErrCodeInvalidRequest, "cannot register nil component")
	}
	d, err := component.New(*d)
	if err != nil {
		registrationsTotal.WithLabelValues(OutcomeRejected).Inc()
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		registrationsTotal.WithLabelValues(OutcomeRejected).Inc()
		return vmerrors.NewWithContext(vmerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("registry is frozen, cannot register component '%s' from suite '%s'", d.ShortName, d.Suite),
			map[string]any{"shortName": d.ShortName, "suite": d.Suite})
	}

	existing, ok := r.components[d.ShortName]
	if !ok {
		r.components[d.ShortName] = d
		r.order = append(r.order, d.ShortName)
		registrationsTotal.WithLabelValues(OutcomeAdded).Inc()
		return nil
	}

	switch {
	case existing.Priority == d.Priority:
		registrationsTotal.WithLabelValues(OutcomeConflict).Inc()
		return vmerrors.NewWithContext(vmerrors.ErrCodeConfigurationConflict,
			fmt.Sprintf("suites '%s' and '%s' are registered with the same priority ('%d') for component '%s'",
				existing.Suite, d.Suite, d.Priority, d.ShortName),
			map[string]any{
				"shortName":     d.ShortName,
				"priority":      d.Priority,
				"existingSuite": existing.Suite,
				"newSuite":      d.Suite,
			})
	case existing.Priority < d.Priority:
		r.logger.Debug("replacing component registration",
			"shortName", d.ShortName,
			"suite", d.Suite,
			"priority", d.Priority,
			"droppedSuite", existing.Suite,
			"droppedPriority", existing.Priority)
		r.components[d.ShortName] = d
		registrationsTotal.WithLabelValues(OutcomeReplaced).Inc()
	default:
		r.logger.Debug("ignoring component registration",
			"shortName", d.ShortName,
			"suite", existing.Suite,
			"priority", existing.Priority,
			"droppedSuite", d.Suite,
			"droppedPriority", d.Priority)
		registrationsTotal.WithLabelValues(OutcomeIgnored).Inc()
	}
	return nil
}

// RegisterAll registers every component of m in document order and stops at
// the first error.
func (r *Registry) RegisterAll(m *component.Manifest) error {
	ds, err := m.Descriptors()
	if err != nil {
		return err
	}
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the winning descriptor for shortName.
func (r *Registry) Get(shortName string) (*component.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.components[shortName]
	return d, ok
}

// Filter selects descriptors in List.
type Filter func(*component.Descriptor) bool

// InSuites matches descriptors contributed by one of the named suites.
// With no names every descriptor matches.
func InSuites(names ...string) Filter {
	return func(d *component.Descriptor) bool {
		return len(names) == 0 || slices.Contains(names, d.Suite)
	}
}

// OfKind matches descriptors of one of the given kinds.
func OfKind(kinds ...component.Kind) Filter {
	return func(d *component.Descriptor) bool {
		return slices.Contains(kinds, d.Kind)
	}
}

// List returns the winning descriptors matching all filters, in the order
// their short names were first registered. The returned descriptors are
// shared with the registry and must not be modified.
func (r *Registry) List(filters ...Filter) []*component.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*component.Descriptor, 0, len(r.order))
next:
	for _, name := range r.order {
		d := r.components[name]
		for _, f := range filters {
			if !f(d) {
				continue next
			}
		}
		out = append(out, d)
	}
	return out
}

// Len returns the number of registered short names.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.components)
}

// Freeze stops further registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}
