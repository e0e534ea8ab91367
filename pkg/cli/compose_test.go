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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graalvm/vmassemble/pkg/checksum"
	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
	"github.com/graalvm/vmassemble/pkg/header"
	"github.com/graalvm/vmassemble/pkg/process"
)

const flagsFinalJVMCI = `[Global flags]
     bool EnableJVMCI                              = true                                {JVMCI experimental} {default}
     bool UseSerialGC                              = false                               {product} {default}
`

// newJavaHome lays out a linkable runtime home with two modules.
func newJavaHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	writeFile(t, home, "release", "JAVA_VERSION=\"21.0.2\"\nMODULES=\"java.base jdk.internal.vm.ci\"\n")
	writeFile(t, home, filepath.Join("lib", "modules"), "jimage")
	require.NoError(t, os.MkdirAll(filepath.Join(home, "jmods"), 0o755))
	return home
}

// fakeTools answers the probe and the CDS dump, and lays out an image for jlink.
func fakeTools(t *testing.T) *process.FakeRunner {
	t.Helper()
	fake := process.NewFakeRunner().
		OnFunc("jlink", func(cmd process.Command) (*process.Result, error) {
			for _, a := range cmd.Args {
				if dest, ok := strings.CutPrefix(a, "--output="); ok {
					writeFile(t, dest, filepath.Join("bin", "java"), "#!/bin/sh\n")
					writeFile(t, dest, filepath.Join("lib", "modules"), "linked")
				}
			}
			return &process.Result{}, nil
		}).
		OnFunc("java", func(cmd process.Command) (*process.Result, error) {
			if len(cmd.Args) > 0 && cmd.Args[0] == "-Xshare:dump" {
				return &process.Result{}, nil
			}
			return &process.Result{Stdout: flagsFinalJVMCI, Output: flagsFinalJVMCI}, nil
		})
	useRunner(t, fake)
	return fake
}

func TestProbeCmd(t *testing.T) {
	home := newJavaHome(t)
	fake := fakeTools(t)
	out := filepath.Join(t.TempDir(), "probe.json")

	require.NoError(t, runCLI(t, "probe", "--java-home", home, "--format", "json", "--output", out))

	var got probeReport
	readJSON(t, out, &got)
	assert.Equal(t, header.KindRuntimeProbe, got.Kind)
	assert.Equal(t, "21.0.2", got.Version)
	assert.True(t, got.Linkable)
	assert.Empty(t, got.NotLinkableReason)
	assert.True(t, got.JVMCIEnabledByDefault)
	assert.Equal(t, []string{"java.base", "jdk.internal.vm.ci"}, got.Modules)
	assert.Len(t, fake.CallsTo("java"), 1)
}

func TestProbeCmd_NotLinkable(t *testing.T) {
	home := newJavaHome(t)
	require.NoError(t, os.Remove(filepath.Join(home, "jmods")))
	fakeTools(t)
	out := filepath.Join(t.TempDir(), "probe.json")

	require.NoError(t, runCLI(t, "probe", "--java-home", home, "--format", "json", "--output", out))

	var got probeReport
	readJSON(t, out, &got)
	assert.Equal(t, "21.0.2", got.Version)
	assert.False(t, got.Linkable)
	assert.Contains(t, got.NotLinkableReason, "jmods")
}

func TestProbeCmd_ProbeFailure(t *testing.T) {
	home := newJavaHome(t)
	fake := process.NewFakeRunner().On("java", process.Result{ExitCode: 1, Output: "Unrecognized VM option"}, nil)
	useRunner(t, fake)

	err := runCLI(t, "probe", "--java-home", home)
	require.Error(t, err)
	assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeProbeFailure))
}

func TestComposeCmd(t *testing.T) {
	home := newJavaHome(t)
	fake := fakeTools(t)
	work := t.TempDir()
	dest := filepath.Join(work, "image")
	report := filepath.Join(work, "report.json")
	metrics := filepath.Join(work, "metrics.prom")

	require.NoError(t, runCLI(t, "--format", "json", "compose",
		"--java-home", home,
		"--output", dest,
		"--checksums",
		"--report", report,
		"--metrics-file", metrics))

	var got composeReport
	readJSON(t, report, &got)
	assert.Equal(t, header.KindCompositionReport, got.Kind)
	assert.Equal(t, header.APIVersion, got.APIVersion)
	require.NotNil(t, got.Result)
	assert.Equal(t, dest, got.Result.Destination)
	assert.Equal(t, []string{"java.base", "jdk.internal.vm.ci"}, got.Result.RootModules)
	assert.True(t, got.Result.JVMCIDisabled)
	assert.NotEmpty(t, got.Result.ID)
	assert.Equal(t, 2, got.Checksums)
	assert.Nil(t, got.Push)

	mismatched, err := checksum.VerifyDir(t.Context(), dest)
	require.NoError(t, err)
	assert.Empty(t, mismatched)

	m, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(m), "vmassemble_compose_duration_seconds")

	assert.Len(t, fake.CallsTo("jlink"), 1)
	assert.Len(t, fake.CallsTo("java"), 2)
}

func TestComposeCmd_ModulesAndRoots(t *testing.T) {
	home := newJavaHome(t)
	fake := fakeTools(t)
	work := t.TempDir()
	dist := writeFile(t, work, filepath.Join("dists", "truffle.jmod"), "jmod")
	report := filepath.Join(work, "report.json")

	require.NoError(t, runCLI(t, "--format", "json", "compose",
		"--java-home", home,
		"--output", filepath.Join(work, "image"),
		"--module", "org.graalvm.truffle="+dist,
		"--root", "org.graalvm.truffle",
		"--root", "java.base",
		"--report", report))

	var got composeReport
	readJSON(t, report, &got)
	assert.Equal(t, []string{"org.graalvm.truffle", "java.base"}, got.Result.RootModules)
	require.Len(t, got.Result.Modules, 1)
	assert.Equal(t, dist, got.Result.Modules[0].Path)
	assert.Equal(t, dist, got.Result.ModulePath[0])

	calls := fake.CallsTo("jlink")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Args, "--add-modules=org.graalvm.truffle,java.base")
}

func TestComposeCmd_ResolverFromConfig(t *testing.T) {
	home := newJavaHome(t)
	fakeTools(t)
	work := t.TempDir()
	writeFile(t, work, filepath.Join("dists", "sdk.jar"), "jar")
	cfg := writeFile(t, work, ".vmassemble.yaml",
		"resolver:\n  modules:\n    GRAAL_SDK:\n      name: org.graalvm.sdk\n      path: dists/sdk.jar\n")
	report := filepath.Join(work, "report.json")

	require.NoError(t, runCLI(t, "--config", cfg, "--format", "json", "compose",
		"--java-home", home,
		"--output", filepath.Join(work, "image"),
		"--module", "GRAAL_SDK",
		"--root", "org.graalvm.sdk",
		"--report", report))

	var got composeReport
	readJSON(t, report, &got)
	require.Len(t, got.Result.Modules, 1)
	assert.Equal(t, "org.graalvm.sdk", got.Result.Modules[0].Name)
	assert.Equal(t, filepath.Join(work, "dists", "sdk.jar"), got.Result.Modules[0].Path)
}

func TestComposeCmd_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode vmerrors.ErrorCode
	}{
		{
			name:     "unknown root",
			args:     []string{"--root", "org.graalvm.polyglot"},
			wantCode: vmerrors.ErrCodeUnknownModuleRoot,
		},
		{
			name:     "unresolvable module",
			args:     []string{"--module", "MISSING_DIST"},
			wantCode: vmerrors.ErrCodeNotFound,
		},
		{
			name:     "invalid push target",
			args:     []string{"--push", "ghcr.io/graalvm/runtime"},
			wantCode: vmerrors.ErrCodeInvalidRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := newJavaHome(t)
			fake := fakeTools(t)
			dest := filepath.Join(t.TempDir(), "image")

			args := append([]string{"compose", "--java-home", home, "--output", dest}, tt.args...)
			err := runCLI(t, args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, vmerrors.CodeOf(err))
			assert.Empty(t, fake.Calls())
		})
	}
}

func TestComposeCmd_ExistingImage(t *testing.T) {
	home := newJavaHome(t)
	fake := fakeTools(t)
	dest := t.TempDir()
	writeFile(t, dest, filepath.Join("bin", "java"), "#!/bin/sh\n")

	err := runCLI(t, "compose", "--java-home", home, "--output", dest)
	require.Error(t, err)
	assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeInvalidRequest))
	assert.Empty(t, fake.Calls())
}
