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

// Package checksum writes and verifies SHA-256 checksum files for composed
// runtime images.
//
// GenerateForDir hashes every file below a directory concurrently and writes
// checksums.txt at its root in the sha256sum format ("<hex>  <path>"), sorted
// by path. VerifyDir recomputes and compares them.
package checksum
