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

// Package cli implements the vmassemble command-line interface.
//
// # Commands
//
//	components  List the winning component registrations of suite manifests
//	probe       Inspect a base runtime (version, modules, JVMCI default)
//	compose     Link a runtime image with jlink and generate its CDS archive
//	version     Print version information
//
// # Global Flags
//
//	--config, -c   Config file (default: ./.vmassemble.yaml when present)
//	--log-level    Log level: debug, info, warn, error (default: info)
//	--format, -t   Output format: yaml, json, table (default: yaml)
//	--help, -h     Show command help
//	--version, -v  Show version information
//
// Flags override values from the config file. Every global flag and most
// command flags can also be set through VMASSEMBLE_* environment variables,
// e.g. VMASSEMBLE_FORMAT=json. --java-home falls back to JAVA_HOME and
// --log-level to LOG_LEVEL.
//
// # Usage Examples
//
// List the components registered by two suites:
//
//	vmassemble components -m truffle.yaml -m graal-js.yaml --format table
//
// Compose an image with an explicit root set and push it:
//
//	vmassemble compose --java-home $JAVA_HOME --output ./image \
//	  --module dists/truffle-api.jar --root org.graalvm.truffle \
//	  --checksums --push oci://localhost:5000/graalvm/runtime --plain-http
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, configuration conflict, tool failure)
//	2  Context canceled or timeout
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/graalvm/vmassemble/pkg/cli.version=1.0.0'"
package cli
