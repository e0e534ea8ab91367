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

// Package oci pushes a composed runtime image directory to an OCI-compliant
// registry using ORAS (OCI Registry As Storage).
//
// The image directory is packed as one reproducible gzip tar layer of an
// OCI 1.1 artifact with type ArtifactType. The manifest carries the
// org.opencontainers.image.title and, when known, .version annotations.
//
// # Usage
//
//	ref, err := oci.ParseOutputTarget("oci://ghcr.io/acme/graalvm-runtime:21")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.Push(ctx, oci.PushOptions{
//	    SourceDir: "/out/runtime",
//	    Reference: ref,
//	    Version:   "21.0.2",
//	})
//
// Credentials are read from the Docker credential store (~/.docker/config.json
// and configured helpers). PlainHTTP and InsecureTLS exist for local test
// registries.
package oci
