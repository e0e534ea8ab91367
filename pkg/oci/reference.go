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

package oci

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"

	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
)

// URIScheme is the URI scheme for OCI registry output (e.g., "oci://ghcr.io/org/graalvm-runtime:21").
const URIScheme = "oci://"

// Reference represents a parsed push target in an OCI registry.
type Reference struct {
	// Registry is the OCI registry host (e.g., "ghcr.io", "localhost:5000").
	Registry string
	// Repository is the image repository path (e.g., "graalvm/runtime").
	Repository string
	// Tag is the image tag. Empty means no tag was specified; the caller
	// applies a default.
	Tag string
}

// ParseOutputTarget parses an "oci://registry/repository[:tag]" target.
// Targets without the oci:// scheme are rejected.
func ParseOutputTarget(target string) (*Reference, error) {
	if !strings.HasPrefix(target, URIScheme) {
		return nil, vmerrors.NewWithContext(vmerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("push target must start with %s", URIScheme),
			map[string]any{"target": target})
	}

	ref, err := reference.ParseNormalizedNamed(strings.TrimPrefix(target, URIScheme))
	if err != nil {
		return nil, vmerrors.Wrap(vmerrors.ErrCodeInvalidRequest, "invalid OCI reference", err)
	}
	if _, ok := ref.(reference.Digested); ok {
		return nil, vmerrors.New(vmerrors.ErrCodeInvalidRequest, "OCI push target cannot carry a digest")
	}

	r := &Reference{
		Registry:   reference.Domain(ref),
		Repository: reference.Path(ref),
	}
	if tagged, ok := ref.(reference.Tagged); ok {
		r.Tag = tagged.Tag()
	}
	return r, nil
}

// String returns the full reference with the oci:// scheme.
func (r *Reference) String() string {
	return URIScheme + r.ImageReference()
}

// ImageReference returns the Docker-style image reference (without oci:// scheme).
func (r *Reference) ImageReference() string {
	if r.Tag == "" {
		return fmt.Sprintf("%s/%s", r.Registry, r.Repository)
	}
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy of the reference with the specified tag.
func (r *Reference) WithTag(tag string) *Reference {
	c := *r
	c.Tag = tag
	return &c
}

// TagOrDefault returns a copy with def applied when no tag was given.
func (r *Reference) TagOrDefault(def string) *Reference {
	if r.Tag != "" {
		return r.WithTag(r.Tag)
	}
	return r.WithTag(sanitizeTag(def))
}

// sanitizeTag maps a version such as "21.0.2+13" to a valid OCI tag.
func sanitizeTag(v string) string {
	var b strings.Builder
	for i, c := range v {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteRune(c)
		case (c == '.' || c == '-') && i > 0:
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "latest"
	}
	if b.Len() > 128 {
		return b.String()[:128]
	}
	return b.String()
}
