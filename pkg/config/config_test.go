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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
	"github.com/graalvm/vmassemble/pkg/module"
)

const testConfig = `logLevel: debug
format: table
manifests:
  - suites/truffle.yaml
  - /abs/vm.yaml
suites: [truffle]
resolver:
  modules:
    GRAAL_SDK:
      name: org.graalvm.sdk
      path: dists/graal-sdk.jar
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, DefaultFileName, testConfig)
	dir := filepath.Dir(path)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "table", cfg.Format)
	assert.Equal(t, []string{"truffle"}, cfg.Suites)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, dir, cfg.BaseDir())
	assert.Equal(t, []string{filepath.Join(dir, "suites", "truffle.yaml"), "/abs/vm.yaml"}, cfg.ManifestPaths())
	assert.Equal(t, module.ResolvedModule{Name: "org.graalvm.sdk", Path: "dists/graal-sdk.jar"},
		cfg.Resolver.Modules["GRAAL_SDK"])
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "c.yaml", "suites: [vm]\n"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "yaml", cfg.Format)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     func(t *testing.T) string
		wantCode vmerrors.ErrorCode
		wantMsg  string
	}{
		{
			name:     "explicit missing file",
			path:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yaml") },
			wantCode: vmerrors.ErrCodeNotFound,
		},
		{
			name:     "unknown key",
			path:     func(t *testing.T) string { return writeConfig(t, "c.yaml", "logLevel: info\nverbose: true\n") },
			wantCode: vmerrors.ErrCodeInvalidRequest,
			wantMsg:  "failed to parse config file",
		},
		{
			name:     "unknown format",
			path:     func(t *testing.T) string { return writeConfig(t, "c.yaml", "format: xml\n") },
			wantCode: vmerrors.ErrCodeInvalidRequest,
			wantMsg:  `unknown format "xml"`,
		},
		{
			name:     "unknown log level",
			path:     func(t *testing.T) string { return writeConfig(t, "c.yaml", "logLevel: trace\n") },
			wantCode: vmerrors.ErrCodeInvalidRequest,
			wantMsg:  `unknown log level "trace"`,
		},
		{
			name: "resolver entry without path",
			path: func(t *testing.T) string {
				return writeConfig(t, "c.yaml", "resolver:\n  modules:\n    SDK:\n      name: org.graalvm.sdk\n")
			},
			wantCode: vmerrors.ErrCodeInvalidRequest,
			wantMsg:  `resolver module "SDK" needs both name and path`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t))
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, vmerrors.CodeOf(err))
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_DefaultFile(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		t.Chdir(t.TempDir())
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Empty(t, cfg.BaseDir())
	})

	t.Run("present", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("format: json\n"), 0o600))
		t.Chdir(dir)

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Format)
		assert.NotEmpty(t, cfg.Path())
	})
}

func TestConfig_ModuleResolver(t *testing.T) {
	path := writeConfig(t, DefaultFileName, testConfig)
	dir := filepath.Dir(path)

	jmod := filepath.Join(dir, "org.example.jmod")
	require.NoError(t, os.WriteFile(jmod, []byte("jmod"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	r := cfg.ModuleResolver()

	got, err := r.Resolve(context.Background(), "GRAAL_SDK")
	require.NoError(t, err)
	assert.Equal(t, module.ResolvedModule{Name: "org.graalvm.sdk", Path: filepath.Join(dir, "dists", "graal-sdk.jar")}, got)

	got, err = r.Resolve(context.Background(), jmod)
	require.NoError(t, err)
	assert.Equal(t, "org.example", got.Name)

	_, err = r.Resolve(context.Background(), "UNKNOWN")
	require.Error(t, err)
	assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeNotFound))
}
