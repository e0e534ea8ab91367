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

package composer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/graalvm/vmassemble/pkg/defaults"
	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
	"github.com/graalvm/vmassemble/pkg/jdk"
	"github.com/graalvm/vmassemble/pkg/module"
	"github.com/graalvm/vmassemble/pkg/pathsubst"
	"github.com/graalvm/vmassemble/pkg/process"
)

// Request describes one image composition.
type Request struct {
	// Runtime is the base runtime to link from.
	Runtime *jdk.Runtime
	// Destination is the jlink output directory.
	Destination string
	// ModuleDistributions are resolved in order; their archives precede the
	// base runtime's jmods on the module path.
	ModuleDistributions []string
	// RootModules is the explicit root set. Nil means every available module.
	RootModules []string
}

// Result describes a composed image.
type Result struct {
	ID            string                  `json:"id" yaml:"id"`
	Destination   string                  `json:"destination" yaml:"destination"`
	RootModules   []string                `json:"rootModules" yaml:"rootModules"`
	Modules       []module.ResolvedModule `json:"modules" yaml:"modules"`
	ModulePath    []string                `json:"modulePath" yaml:"modulePath"`
	LinkerArgs    []string                `json:"linkerArgs" yaml:"linkerArgs"`
	JVMCIDisabled bool                    `json:"jvmciDisabled" yaml:"jvmciDisabled"`
	Duration      time.Duration           `json:"duration" yaml:"duration"`
}

// Composer composes runtime images.
type Composer struct {
	resolver module.Resolver
	runner   process.Runner
	logger   *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithRunner sets the runner for jlink and the CDS dump. By default the base
// runtime's runner is used.
func WithRunner(r process.Runner) Option {
	return func(c *Composer) {
		c.runner = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Composer resolving module distributions with resolver.
func New(resolver module.Resolver, opts ...Option) *Composer {
	c := &Composer{
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ComposeImage links a new runtime image as described by req.
func (c *Composer) ComposeImage(ctx context.Context, req Request) (res *Result, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		if err != nil {
			code := vmerrors.CodeOf(err)
			if code == "" {
				code = vmerrors.ErrCodeInternal
			}
			composeFailures.WithLabelValues(string(code)).Inc()
			return
		}
		composeDuration.Observe(time.Since(start).Seconds())
	}()

	// The sequence is not interruptible once it has started.
	ctx = context.WithoutCancel(ctx)

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	rt := req.Runtime
	dest, err := filepath.Abs(req.Destination)
	if err != nil {
		return nil, vmerrors.Wrap(vmerrors.ErrCodeInvalidRequest, "invalid destination", err)
	}

	id := uuid.New().String()
	logger := c.logger.With("composition", id, "home", rt.Home, "destination", dest)
	logger.Info("composing runtime image",
		"version", rt.Version.String(),
		"distributions", len(req.ModuleDistributions))

	if err := CheckLinkable(rt); err != nil {
		return nil, err
	}
	if err := checkDestination(dest); err != nil {
		return nil, err
	}

	modules, err := c.resolve(ctx, req.ModuleDistributions)
	if err != nil {
		return nil, err
	}
	available := availableModules(rt.Modules, modules)

	roots, err := rootModules(req.RootModules, available)
	if err != nil {
		return nil, err
	}

	runner := c.runner
	if runner == nil {
		runner = rt.Runner()
	}

	disableJVMCI, err := rt.EnablesJVMCIByDefault(ctx)
	if err != nil {
		logger.Warn("cannot determine whether JVMCI is enabled by default, linking without -XX:-EnableJVMCI",
			"error", err)
		disableJVMCI = false
	}

	modulePath := make([]string, 0, len(modules)+1)
	for _, m := range modules {
		modulePath = append(modulePath, m.Path)
	}
	modulePath = append(modulePath, filepath.Join(rt.Home, defaults.ModuleArchiveDir))

	args := linkerArgs(disableJVMCI, roots, modulePath, dest)
	if err := link(ctx, runner, rt.JLinkPath(), args, logger); err != nil {
		return nil, err
	}
	if err := dumpSharedArchive(ctx, runner, dest, logger); err != nil {
		return nil, err
	}

	res = &Result{
		ID:            id,
		Destination:   dest,
		RootModules:   roots,
		Modules:       modules,
		ModulePath:    modulePath,
		LinkerArgs:    args,
		JVMCIDisabled: disableJVMCI,
		Duration:      time.Since(start),
	}
	logger.Info("composed runtime image",
		"rootModules", len(roots),
		"duration", res.Duration.String())
	return res, nil
}

func validateRequest(req Request) error {
	if req.Runtime == nil {
		return vmerrors.New(vmerrors.ErrCodeInvalidRequest, "base runtime is required")
	}
	if strings.TrimSpace(req.Destination) == "" {
		return vmerrors.New(vmerrors.ErrCodeInvalidRequest, "destination directory is required")
	}
	return nil
}

func incompatible(rt *jdk.Runtime, reason string) error {
	return vmerrors.NewWithContext(vmerrors.ErrCodeIncompatibleSource,
		fmt.Sprintf("cannot derive a new runtime from %s %s", rt.Home, reason),
		map[string]any{"home": rt.Home})
}

// CheckLinkable verifies that jlink can read the base runtime: a feature
// version that ships jlink, a packed module image and a jmods directory.
func CheckLinkable(rt *jdk.Runtime) error {
	if !rt.Version.AtLeastFeature(defaults.MinLinkableFeatureVersion) {
		return incompatible(rt, fmt.Sprintf("with jlink since it is not Java %d or later (found %s)",
			defaults.MinLinkableFeatureVersion, rt.Version.String()))
	}

	exploded := filepath.Join(rt.Home, filepath.FromSlash(defaults.ExplodedJavaBaseModule))
	if _, err := os.Stat(exploded); err == nil {
		return incompatible(rt, "since it appears to be a developer build with exploded modules")
	}

	jimage := filepath.Join(rt.Home, filepath.FromSlash(defaults.PackedModuleImage))
	if info, err := os.Stat(jimage); err != nil || !info.Mode().IsRegular() {
		return incompatible(rt, fmt.Sprintf("since %s is missing or is not an ordinary file", jimage))
	}

	jmods := filepath.Join(rt.Home, defaults.ModuleArchiveDir)
	if info, err := os.Stat(jmods); err != nil || !info.IsDir() {
		return incompatible(rt, fmt.Sprintf("since %s is missing or is not a directory", jmods))
	}
	return nil
}

// checkDestination rejects a destination that already holds a runtime image.
func checkDestination(dest string) error {
	markers := []string{
		filepath.Join("bin", pathsubst.Host().Exe("java")),
		filepath.FromSlash(defaults.PackedModuleImage),
	}
	for _, m := range markers {
		_, err := os.Stat(filepath.Join(dest, m))
		if err == nil {
			return vmerrors.NewWithContext(vmerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("destination %s already contains a runtime image", dest),
				map[string]any{"destination": dest, "found": m})
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return vmerrors.WrapWithContext(vmerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("cannot inspect destination %s", dest), err,
				map[string]any{"destination": dest})
		}
	}
	return nil
}

func (c *Composer) resolve(ctx context.Context, refs []string) ([]module.ResolvedModule, error) {
	if len(refs) == 0 {
		return []module.ResolvedModule{}, nil
	}
	if c.resolver == nil {
		return nil, vmerrors.New(vmerrors.ErrCodeInvalidRequest,
			"module distributions given but no module resolver configured")
	}
	return module.ResolveAll(ctx, c.resolver, refs)
}

// availableModules returns the sorted union of base and resolved module names.
func availableModules(base []string, resolved []module.ResolvedModule) []string {
	all := slices.Clone(base)
	for _, m := range resolved {
		all = append(all, m.Name)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// rootModules validates an explicit root set, keeping its order and dropping
// duplicates, or returns every available module when explicit is nil.
func rootModules(explicit, available []string) ([]string, error) {
	if explicit == nil {
		return available, nil
	}

	var roots, missing []string
	seen := make(map[string]bool, len(explicit))
	for _, name := range explicit {
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, found := slices.BinarySearch(available, name); !found {
			missing = append(missing, name)
			continue
		}
		roots = append(roots, name)
	}

	if len(missing) > 0 {
		slices.Sort(missing)
		return nil, vmerrors.NewWithContext(vmerrors.ErrCodeUnknownModuleRoot,
			fmt.Sprintf("invalid module(s): %s. Available modules: %s",
				strings.Join(missing, ","), strings.Join(available, ",")),
			map[string]any{"unknown": missing, "available": available})
	}
	if roots == nil {
		roots = []string{}
	}
	return roots, nil
}

func linkerArgs(disableJVMCI bool, roots, modulePath []string, dest string) []string {
	var args []string
	if disableJVMCI {
		// +EnableJVMCI would force jdk.internal.vm.ci into the root set
		args = append(args, "-J-XX:-"+defaults.JVMCIFlagName)
	}
	args = append(args,
		"--add-modules="+strings.Join(roots, ","),
		"--module-path="+strings.Join(modulePath, string(os.PathListSeparator)),
		"--output="+dest,
		"-J-XX:+UseSerialGC",
		"-J-Xms"+defaults.LinkerInitialHeap,
		"-J-Xmx"+defaults.LinkerMaxHeap,
		"-J-XX:TieredStopAtLevel="+strconv.Itoa(defaults.LinkerTieredStopAtLevel),
		"-J-Dlink.debug=true",
		"--dedup-legal-notices="+defaults.LinkerDedupLegalNotices,
		"--keep-packaged-modules="+filepath.Join(dest, defaults.ModuleArchiveDir),
	)
	return args
}

func link(ctx context.Context, runner process.Runner, jlink string, args []string, logger *slog.Logger) error {
	cmd := process.Command{Path: jlink, Args: args}
	logger.Debug("running jlink", "command", cmd.String())

	res, err := runner.Run(ctx, cmd)
	if err != nil {
		return vmerrors.WrapWithContext(vmerrors.ErrCodeExternalToolFailure,
			"failed to run jlink", err, map[string]any{"command": cmd.String()})
	}
	if !res.Success() {
		logger.Error("jlink failed", "exitCode", res.ExitCode, "output", res.Output)
		return vmerrors.NewWithContext(vmerrors.ErrCodeExternalToolFailure,
			fmt.Sprintf("jlink exited with status %d:\n%s", res.ExitCode, res.Output),
			map[string]any{"command": cmd.String(), "exitCode": res.ExitCode, "output": res.Output})
	}
	return nil
}

func dumpSharedArchive(ctx context.Context, runner process.Runner, dest string, logger *slog.Logger) error {
	cmd := process.Command{
		Path: filepath.Join(dest, "bin", pathsubst.Host().Exe("java")),
		Args: []string{"-Xshare:dump", "-Xmx" + defaults.ArchiveDumpHeap, "-Xms" + defaults.ArchiveDumpHeap},
	}
	logger.Debug("generating CDS archive", "command", cmd.String())

	res, err := runner.Run(ctx, cmd)
	if err != nil {
		return vmerrors.WrapWithContext(vmerrors.ErrCodeExternalToolFailure,
			"failed to run CDS archive generation", err, map[string]any{"command": cmd.String()})
	}
	if !res.Success() {
		logger.Error("CDS archive generation failed", "exitCode", res.ExitCode, "output", res.Output)
		return vmerrors.NewWithContext(vmerrors.ErrCodeExternalToolFailure,
			fmt.Sprintf("error generating CDS shared archive (exit status %d):\n%s", res.ExitCode, res.Output),
			map[string]any{"command": cmd.String(), "exitCode": res.ExitCode, "output": res.Output})
	}
	return nil
}
