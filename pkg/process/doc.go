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

// Package process runs external tools and captures their output.
//
// Runner abstracts process execution so callers that drive jlink or java can
// be tested with FakeRunner instead of real binaries. A Runner only returns an
// error when the process could not be run at all; a non-zero exit status is
// reported through Result.ExitCode.
package process
