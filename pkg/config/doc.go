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

// Package config loads the vmassemble configuration file.
//
// The file is YAML (or JSON, by extension) and is looked up as
// .vmassemble.yaml in the working directory unless a path is given
// explicitly. Relative paths in the file are resolved against the
// directory that contains it.
//
//	logLevel: debug
//	format: table
//	manifests:
//	  - suites/truffle.yaml
//	  - suites/vm.yaml
//	suites: [truffle, vm]
//	resolver:
//	  modules:
//	    GRAAL_SDK:
//	      name: org.graalvm.sdk
//	      path: dists/graal-sdk.jar
//
// Command-line flags override every value.
package config
