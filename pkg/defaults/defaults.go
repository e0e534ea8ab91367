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

package defaults

import "time"

// Base runtime requirements for deriving a new image.
const (
	// MinLinkableFeatureVersion is the first Java feature release that ships jlink.
	MinLinkableFeatureVersion = 9

	// ExplodedJavaBaseModule is the relative path whose presence marks a
	// developer build with exploded modules.
	ExplodedJavaBaseModule = "modules/java.base"

	// PackedModuleImage is the relative path of the jimage file.
	PackedModuleImage = "lib/modules"

	// ModuleArchiveDir is the relative path of the packaged module directory.
	ModuleArchiveDir = "jmods"

	// ReleaseFile is the relative path of the runtime release metadata file.
	ReleaseFile = "release"
)

// Linker JVM options. These mirror how OpenJDK runs jlink to produce its own
// runtime image and keep the link step lightweight.
const (
	LinkerInitialHeap = "32M"
	LinkerMaxHeap     = "512M"

	// LinkerTieredStopAtLevel caps JIT compilation at C1.
	LinkerTieredStopAtLevel = 1

	// LinkerDedupLegalNotices fails the link if two modules carry legal
	// notices with the same name but different content.
	LinkerDedupLegalNotices = "error-if-not-same-content"
)

// Shared archive (CDS) generation.
const (
	// ArchiveDumpHeap is used for both -Xms and -Xmx of the dump step.
	ArchiveDumpHeap = "128M"
)

// Runtime flag probing.
const (
	// JVMCIFlagName is the VM option whose default is probed.
	JVMCIFlagName = "EnableJVMCI"
)

// Post-composition operations.
const (
	// ChecksumWorkers bounds concurrent file hashing.
	ChecksumWorkers = 8

	// OCIPushTimeout is the default timeout for pushing an image to a registry.
	OCIPushTimeout = 5 * time.Minute
)
