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

// Package module resolves module distribution references to named module
// archives that can be put on the jlink module path.
//
// A reference is whatever the caller uses to name a distribution: a build
// distribution name looked up in a table (StaticResolver), or a path to a
// .jar or .jmod file (ArchiveResolver). Resolvers can be combined with
// ChainResolver:
//
//	r := module.ChainResolver{
//	    module.NewStaticResolver(table),
//	    module.NewArchiveResolver(),
//	}
//	m, err := r.Resolve(ctx, "build/graal-sdk.jar")
//
// For jar files the module name is taken from module-info.class, then from
// the Automatic-Module-Name manifest attribute, and finally derived from the
// file name the same way the JDK names automatic modules.
package module
