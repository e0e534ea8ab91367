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

package jdk

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/graalvm/vmassemble/pkg/defaults"
	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
	"github.com/graalvm/vmassemble/pkg/pathsubst"
	"github.com/graalvm/vmassemble/pkg/process"
	"github.com/graalvm/vmassemble/pkg/version"
)

// Runtime is a Java runtime installation.
type Runtime struct {
	// Home is the installation root containing bin/, lib/ and jmods/.
	Home    string
	Version version.Version
	// Modules holds the sorted names of the modules shipped with the runtime.
	Modules []string

	runner process.Runner
	logger *slog.Logger

	probeMu      sync.Mutex
	jvmciDefault *bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithRunner sets the process runner used to invoke the runtime's tools.
func WithRunner(r process.Runner) Option {
	return func(rt *Runtime) {
		if r != nil {
			rt.runner = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) {
		if l != nil {
			rt.logger = l
		}
	}
}

// NewRuntime creates a Runtime from known attributes without touching disk.
func NewRuntime(home string, v version.Version, modules []string, opts ...Option) *Runtime {
	mods := slices.Clone(modules)
	slices.Sort(mods)
	rt := &Runtime{
		Home:    home,
		Version: v,
		Modules: slices.Compact(mods),
		runner:  process.NewExecRunner(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(rt)
	}
	if mods == nil {
		rt.Modules = []string{}
	}
	return rt
}

// Open inspects the runtime installed at home. The version comes from
// JAVA_VERSION in the release file. Module names come from MODULES, or from
// the jmods directory when the release file does not list them.
func Open(home string, opts ...Option) (*Runtime, error) {
	abs, err := filepath.Abs(home)
	if err != nil {
		return nil, vmerrors.Wrap(vmerrors.ErrCodeInvalidRequest, "invalid runtime path", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, vmerrors.WrapWithContext(vmerrors.ErrCodeNotFound,
			"runtime home not found", err, map[string]any{"home": abs})
	}
	if !info.IsDir() {
		return nil, vmerrors.NewWithContext(vmerrors.ErrCodeIncompatibleSource,
			fmt.Sprintf("runtime home %s is not a directory", abs), map[string]any{"home": abs})
	}

	props, err := readRelease(filepath.Join(abs, defaults.ReleaseFile))
	if err != nil {
		return nil, vmerrors.WrapWithContext(vmerrors.ErrCodeIncompatibleSource,
			fmt.Sprintf("cannot read release file of %s", abs), err, map[string]any{"home": abs})
	}

	raw, ok := props["JAVA_VERSION"]
	if !ok {
		return nil, vmerrors.NewWithContext(vmerrors.ErrCodeIncompatibleSource,
			fmt.Sprintf("release file of %s does not declare JAVA_VERSION", abs), map[string]any{"home": abs})
	}
	v, err := version.ParseJavaVersion(raw)
	if err != nil {
		return nil, vmerrors.WrapWithContext(vmerrors.ErrCodeIncompatibleSource,
			fmt.Sprintf("invalid JAVA_VERSION in release file of %s", abs), err, map[string]any{"home": abs})
	}

	modules := strings.Fields(props["MODULES"])
	if len(modules) == 0 {
		modules, err = listModuleArchives(filepath.Join(abs, defaults.ModuleArchiveDir))
		if err != nil {
			return nil, vmerrors.WrapWithContext(vmerrors.ErrCodeIncompatibleSource,
				fmt.Sprintf("cannot list modules of %s", abs), err, map[string]any{"home": abs})
		}
	}

	return NewRuntime(abs, v, modules, opts...), nil
}

// JavaPath returns the path of the java launcher.
func (rt *Runtime) JavaPath() string {
	return filepath.Join(rt.Home, "bin", pathsubst.Host().Exe("java"))
}

// JLinkPath returns the path of the jlink tool.
func (rt *Runtime) JLinkPath() string {
	return filepath.Join(rt.Home, "bin", pathsubst.Host().Exe("jlink"))
}

// Runner returns the process runner used for this runtime's tools.
func (rt *Runtime) Runner() process.Runner {
	return rt.runner
}

// HasModule reports whether the runtime ships module name.
func (rt *Runtime) HasModule(name string) bool {
	_, found := slices.BinarySearch(rt.Modules, name)
	return found
}

// EnablesJVMCIByDefault reports whether the runtime's VM starts with JVMCI
// enabled. The first successful answer is cached; failures are not.
func (rt *Runtime) EnablesJVMCIByDefault(ctx context.Context) (bool, error) {
	rt.probeMu.Lock()
	defer rt.probeMu.Unlock()

	if rt.jvmciDefault != nil {
		return *rt.jvmciDefault, nil
	}

	cmd := process.Command{
		Path: rt.JavaPath(),
		Args: []string{"-XX:+UnlockExperimentalVMOptions", "-XX:+PrintFlagsFinal", "-version"},
	}
	res, err := rt.runner.Run(ctx, cmd)
	if err != nil {
		return false, vmerrors.WrapWithContext(vmerrors.ErrCodeProbeFailure,
			"failed to probe runtime flags", err, map[string]any{"command": cmd.String()})
	}
	if !res.Success() {
		return false, vmerrors.NewWithContext(vmerrors.ErrCodeProbeFailure,
			fmt.Sprintf("probing runtime flags exited with status %d", res.ExitCode),
			map[string]any{"command": cmd.String(), "output": res.Output})
	}

	enabled := flagEnabled(res.Stdout, defaults.JVMCIFlagName)
	rt.jvmciDefault = &enabled
	rt.logger.Debug("probed runtime flag",
		"home", rt.Home,
		"flag", defaults.JVMCIFlagName,
		"enabled", enabled)
	return enabled, nil
}

// flagEnabled scans -XX:+PrintFlagsFinal output for a line naming flag with
// the value true.
func flagEnabled(output, flag string) bool {
	for line := range strings.Lines(output) {
		if strings.Contains(line, flag) && strings.Contains(line, "true") {
			return true
		}
	}
	return false
}

func readRelease(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	props := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		props[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return props, sc.Err()
}

func listModuleArchives(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jmod" {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".jmod"))
	}
	return out, nil
}
