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

// Package defaults provides centralized constants for image composition.
//
// This package defines the base runtime layout expectations, the fixed JVM
// options passed to the module linker and the archive dump step, and limits for
// post-composition operations. Centralizing these values keeps the linker
// command line reproducible across callers.
//
// # Categories
//
//   - Runtime layout: relative paths checked before linking
//   - Linker options: heap bounds, JIT tier and legal notice handling
//   - Shared archive: heap bounds for -Xshare:dump
//   - Post-composition: checksum concurrency and registry push timeout
//
// # Usage
//
//	import "github.com/graalvm/vmassemble/pkg/defaults"
//
//	jimage := filepath.Join(home, defaults.PackedModuleImage)
package defaults
