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

// Package jdk models a base Java runtime on disk.
//
// Open reads the runtime's release file to learn its version and the modules
// it contains:
//
//	rt, err := jdk.Open("/usr/lib/jvm/graalvm-21")
//	if err != nil {
//	    return err
//	}
//	enabled, err := rt.EnablesJVMCIByDefault(ctx)
//
// EnablesJVMCIByDefault runs the runtime's java executable with
// -XX:+PrintFlagsFinal and caches the answer on the Runtime value.
package jdk
