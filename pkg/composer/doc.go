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

// Package composer derives a new Java runtime image from a base runtime and
// additional module distributions.
//
// ComposeImage runs a fixed sequence:
//
//  1. check that the base runtime can be linked from (Java 9 or later, no
//     exploded java.base, a packed lib/modules image and a jmods directory)
//     and that the destination does not already hold a runtime
//  2. resolve the module distributions and compute the available modules
//  3. validate explicit root modules, or use every available module
//  4. run jlink, disabling JVMCI for the link step when the base runtime
//     enables it by default
//  5. run the new runtime's java with -Xshare:dump to create the CDS archive
//
// Both child processes run to completion; once step 1 begins the caller's
// context no longer cancels them. A failed composition may leave a partial
// destination directory behind, which the caller must remove.
//
//	c := composer.New(resolver)
//	res, err := c.ComposeImage(ctx, composer.Request{
//	    Runtime:             base,
//	    Destination:         "build/graalvm-jdk",
//	    ModuleDistributions: []string{"build/graal-sdk.jar"},
//	})
package composer
