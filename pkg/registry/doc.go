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

// Package registry resolves component registrations by short name.
//
// Build suites contribute components independently, and two suites may claim
// the same short name. The Registry keeps exactly one descriptor per short
// name:
//
//   - no previous registration: the descriptor is stored
//   - previous registration with lower priority: the new one replaces it
//   - previous registration with higher priority: the new one is ignored
//   - equal priority: Register fails with CONFIGURATION_CONFLICT
//
// The outcome therefore depends only on the set of registrations, never on
// their order, except that equal priorities are always an error.
//
// A Registry is an explicit value created with New and passed to whoever
// needs it; there is no package-level state besides Prometheus metrics.
//
//	reg := registry.New(registry.WithLogger(logger))
//	if err := reg.Register(js); err != nil {
//	    return err
//	}
//	for _, d := range reg.List(registry.InSuites("truffle")) {
//	    fmt.Println(d.ShortName)
//	}
//
// The registry also holds the host VM configurations (jvm, native) used to
// run launchers, extensible with AddHostVMConfig.
package registry
