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

package cli

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
	"github.com/graalvm/vmassemble/pkg/process"
	"github.com/graalvm/vmassemble/pkg/serializer"
)

// runCLI runs the root command in an empty working directory.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Chdir(t.TempDir())

	return newRootCmd().Run(context.Background(), append([]string{name}, args...))
}

// useRunner replaces the external tool runner for the duration of the test.
func useRunner(t *testing.T, r process.Runner) {
	t.Helper()
	prev := newRunner
	newRunner = func() process.Runner { return r }
	t.Cleanup(func() { newRunner = prev })
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, v))
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		wantFormat serializer.Format
		wantErr    bool
	}{
		{name: "valid yaml format", format: "yaml", wantFormat: serializer.FormatYAML},
		{name: "valid json format", format: "json", wantFormat: serializer.FormatJSON},
		{name: "valid table format", format: "table", wantFormat: serializer.FormatTable},
		{name: "invalid format xml", format: "xml", wantErr: true},
		{name: "unset uses config default", wantFormat: serializer.FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				got    serializer.Format
				gotErr error
			)
			cmd := &cli.Command{
				Flags: []cli.Flag{formatFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					got, gotErr = parseOutputFormat(ctx, c)
					return nil
				},
			}

			args := []string{"test"}
			if tt.format != "" {
				args = append(args, "--format", tt.format)
			}
			require.NoError(t, cmd.Run(context.Background(), args))

			if tt.wantErr {
				assert.Error(t, gotErr)
				return
			}
			require.NoError(t, gotErr)
			assert.Equal(t, tt.wantFormat, got)
		})
	}
}

func TestRootCmd_Commands(t *testing.T) {
	cmd := newRootCmd()
	var names []string
	for _, c := range cmd.Commands {
		names = append(names, c.Name)
		assert.NotNil(t, c.Action, c.Name)
		assert.NotEmpty(t, c.Usage, c.Name)
	}
	assert.Equal(t, []string{"components", "probe", "compose", "version"}, names)
}

func TestRootCmd_ConfigErrors(t *testing.T) {
	t.Run("missing explicit config", func(t *testing.T) {
		err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version")
		require.Error(t, err)
		assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeNotFound))
	})

	t.Run("invalid config", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "c.yaml", "format: xml\n")
		err := runCLI(t, "--config", path, "version")
		require.Error(t, err)
		assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeInvalidRequest))
	})
}

func TestVersionCmd(t *testing.T) {
	out := filepath.Join(t.TempDir(), "version.json")
	require.NoError(t, runCLI(t, "--format", "json", "version", "--output", out))

	var got versionInfo
	readJSON(t, out, &got)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, version, got.Version)
	assert.NotEmpty(t, got.GoVersion)
	assert.Contains(t, got.Platform, "/")
}

func TestVersionCmd_FormatFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "c.yaml", "format: json\n")
	out := filepath.Join(dir, "version.out")

	require.NoError(t, runCLI(t, "--config", cfg, "version", "--output", out))

	var got versionInfo
	readJSON(t, out, &got)
	assert.Equal(t, name, got.Name)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 2, exitCode(context.Canceled))
	assert.Equal(t, 1, exitCode(vmerrors.New(vmerrors.ErrCodeInternal, "boom")))
}
