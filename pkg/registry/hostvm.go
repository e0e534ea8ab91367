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
	"slices"

	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
)

// HostVMConfig is a named way of running launchers, selected by priority.
type HostVMConfig struct {
	Name         string   `json:"name" yaml:"name"`
	JavaArgs     []string `json:"javaArgs" yaml:"javaArgs"`
	LauncherArgs []string `json:"launcherArgs" yaml:"launcherArgs"`
	Priority     int      `json:"priority" yaml:"priority"`
}

// DefaultHostVMConfigs returns the built-in jvm and native configurations.
func DefaultHostVMConfigs() []HostVMConfig {
	return []HostVMConfig{
		{Name: "jvm", JavaArgs: []string{}, LauncherArgs: []string{"--jvm"}, Priority: 50},
		{Name: "native", JavaArgs: []string{}, LauncherArgs: []string{"--native"}, Priority: 100},
	}
}

// AddHostVMConfig appends a host VM configuration. Names must be unique.
func (r *Registry) AddHostVMConfig(c HostVMConfig) error {
	if c.Name == "" {
		return vmerrors.New(vmerrors.ErrCodeInvalidRequest, "host VM config name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return vmerrors.New(vmerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("registry is frozen, cannot add host VM config '%s'", c.Name))
	}
	for _, existing := range r.hostVMs {
		if existing.Name == c.Name {
			return vmerrors.New(vmerrors.ErrCodeConfigurationConflict,
				fmt.Sprintf("host VM config '%s' is already registered", c.Name))
		}
	}

	c.JavaArgs = cloneOrEmpty(c.JavaArgs)
	c.LauncherArgs = cloneOrEmpty(c.LauncherArgs)
	r.hostVMs = append(r.hostVMs, c)
	return nil
}

// HostVMConfigs returns the host VM configurations in registration order.
func (r *Registry) HostVMConfigs() []HostVMConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.hostVMs)
}

func cloneOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
