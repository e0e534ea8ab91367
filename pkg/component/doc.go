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

// Package component describes installable GraalVM components.
//
// A Descriptor is an immutable value describing one installable unit
// contributed by a build suite: display and short names, license files, the
// distributions it ships, and the launchers and libraries built from it.
//
// # Kinds
//
// Instead of a class hierarchy, every descriptor carries an explicit Kind.
// Kind-specific fields are only valid on the kinds that use them:
//
//   - KindLanguage, KindTool: StandaloneDirName, IncludeInPolyglot
//   - KindTool: IncludeByDefault
//   - KindJVMCI: GraalCompiler, JVMCIJars
//
// # Construction
//
// New normalizes a descriptor (nil lists become empty lists, DirName and
// InstallableID defaults are filled in, destination placeholders expanded)
// and validates it:
//
//	d, err := component.New(component.Descriptor{
//	    Kind:         component.KindLanguage,
//	    Suite:        "graal-js",
//	    Name:         "Graal.js",
//	    ShortName:    "js",
//	    LicenseFiles: []string{"LICENSE_GRAALJS.txt"},
//	    Priority:     10,
//	})
//
// # Manifests
//
// Components can also be declared in a YAML manifest grouped by suite and
// loaded with LoadManifest.
package component
