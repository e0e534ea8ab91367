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
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/distribution/reference"
	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content/file"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"

	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
)

// ArtifactType is the OCI artifact type of a pushed runtime image.
const ArtifactType = "application/vnd.graalvm.runtime-image.v1"

// PushOptions configures pushing a composed runtime image directory.
type PushOptions struct {
	// SourceDir is the composed image directory.
	SourceDir string
	// Reference is the push target. Its tag must be set.
	Reference *Reference
	// Version is recorded as the org.opencontainers.image.version annotation.
	Version string
	// Annotations are extra manifest annotations.
	Annotations map[string]string

	PlainHTTP   bool
	InsecureTLS bool

	// ReproducibleTimestamp pins org.opencontainers.image.created (RFC 3339)
	// so that pushing the same image twice yields the same digest.
	ReproducibleTimestamp string
}

// PushResult contains the result of a successful push.
type PushResult struct {
	Digest    string `json:"digest" yaml:"digest"`
	Reference string `json:"reference" yaml:"reference"`
}

// Push packs the image directory as a single gzip layer of an OCI 1.1
// artifact and copies it to the remote repository.
func Push(ctx context.Context, opts PushOptions) (*PushResult, error) {
	if opts.Reference == nil {
		return nil, vmerrors.New(vmerrors.ErrCodeInvalidRequest, "OCI reference is required to push")
	}
	if opts.Reference.Tag == "" {
		return nil, vmerrors.New(vmerrors.ErrCodeInvalidRequest, "tag is required to push OCI image")
	}

	absDir, err := imageDir(opts.SourceDir)
	if err != nil {
		return nil, err
	}

	registryHost := stripProtocol(opts.Reference.Registry)
	refString := fmt.Sprintf("%s/%s:%s", registryHost, opts.Reference.Repository, opts.Reference.Tag)
	if _, parseErr := reference.ParseNormalizedNamed(refString); parseErr != nil {
		return nil, vmerrors.Wrap(vmerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid image reference '%s'", refString), parseErr)
	}

	fs, err := file.New(absDir)
	if err != nil {
		return nil, vmerrors.Wrap(vmerrors.ErrCodeInternal, "failed to create file store", err)
	}
	defer func() { _ = fs.Close() }()

	manifestDesc, err := pack(ctx, fs, absDir, opts)
	if err != nil {
		return nil, err
	}

	if tagErr := fs.Tag(ctx, manifestDesc, opts.Reference.Tag); tagErr != nil {
		return nil, vmerrors.Wrap(vmerrors.ErrCodeInternal, "failed to tag manifest in local store", tagErr)
	}

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", registryHost, opts.Reference.Repository))
	if err != nil {
		return nil, vmerrors.Wrap(vmerrors.ErrCodeInvalidRequest, "failed to initialize remote repository", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = createAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	slog.Info("pushing runtime image",
		"reference", refString,
		"source", absDir,
	)

	desc, err := oras.Copy(ctx, fs, opts.Reference.Tag, repo, opts.Reference.Tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, vmerrors.Wrap(vmerrors.ErrCodeExternalToolFailure, "failed to push artifact to registry", err)
	}

	slog.Info("runtime image pushed",
		"reference", refString,
		"digest", desc.Digest.String(),
	)

	return &PushResult{
		Digest:    desc.Digest.String(),
		Reference: refString,
	}, nil
}

// pack adds the image directory to the store and packs the manifest.
func pack(ctx context.Context, fs *file.Store, absDir string, opts PushOptions) (ociv1.Descriptor, error) {
	fs.TarReproducible = true

	name := filepath.Base(absDir)
	layerDesc, err := fs.Add(ctx, name, ociv1.MediaTypeImageLayerGzip, absDir)
	if err != nil {
		return ociv1.Descriptor{}, vmerrors.Wrap(vmerrors.ErrCodeInternal, "failed to add image directory to store", err)
	}

	packOpts := oras.PackManifestOptions{
		Layers:              []ociv1.Descriptor{layerDesc},
		ManifestAnnotations: manifestAnnotations(name, opts),
	}

	manifestDesc, err := oras.PackManifest(ctx, fs, oras.PackManifestVersion1_1, ArtifactType, packOpts)
	if err != nil {
		return ociv1.Descriptor{}, vmerrors.Wrap(vmerrors.ErrCodeInternal, "failed to pack manifest", err)
	}
	return manifestDesc, nil
}

func manifestAnnotations(title string, opts PushOptions) map[string]string {
	annotations := map[string]string{
		ociv1.AnnotationTitle: title,
	}
	if opts.Version != "" {
		annotations[ociv1.AnnotationVersion] = opts.Version
	}
	if opts.ReproducibleTimestamp != "" {
		annotations[ociv1.AnnotationCreated] = opts.ReproducibleTimestamp
	}
	maps.Copy(annotations, opts.Annotations)
	return annotations
}

func imageDir(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", vmerrors.New(vmerrors.ErrCodeInvalidRequest, "source directory is required")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", vmerrors.Wrap(vmerrors.ErrCodeInternal, "failed to resolve source directory", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return "", vmerrors.Wrap(vmerrors.ErrCodeNotFound, fmt.Sprintf("source directory %s", absDir), err)
	}
	if !info.IsDir() {
		return "", vmerrors.New(vmerrors.ErrCodeInvalidRequest, fmt.Sprintf("%s is not a directory", absDir))
	}
	return absDir, nil
}

// stripProtocol removes http:// or https:// prefix from a registry URL.
func stripProtocol(registry string) string {
	registry = strings.TrimPrefix(registry, "https://")
	registry = strings.TrimPrefix(registry, "http://")
	return registry
}

// createAuthClient builds a registry client that reads credentials from the
// Docker credential store.
func createAuthClient(plainHTTP, insecureTLS bool) *auth.Client {
	credStore, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		slog.Debug("docker credential store unavailable", "error", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !plainHTTP && insecureTLS {
		if transport.TLSClientConfig == nil {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via --insecure-tls
		} else {
			transport.TLSClientConfig.InsecureSkipVerify = true //nolint:gosec // opt-in via --insecure-tls
		}
	}

	client := &auth.Client{
		Client: &http.Client{Transport: transport},
		Cache:  auth.NewCache(),
	}
	if credStore != nil {
		client.Credential = credentials.Credential(credStore)
	}
	return client
}
