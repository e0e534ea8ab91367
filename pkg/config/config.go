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
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
	"github.com/graalvm/vmassemble/pkg/logging"
	"github.com/graalvm/vmassemble/pkg/module"
	"github.com/graalvm/vmassemble/pkg/serializer"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = ".vmassemble.yaml"

// Config is the content of the config file.
type Config struct {
	LogLevel  string         `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	Format    string         `json:"format,omitempty" yaml:"format,omitempty"`
	Manifests []string       `json:"manifests,omitempty" yaml:"manifests,omitempty"`
	Suites    []string       `json:"suites,omitempty" yaml:"suites,omitempty"`
	Resolver  ResolverConfig `json:"resolver,omitempty" yaml:"resolver,omitempty"`

	// path is the file the config was read from, empty for defaults.
	path string
}

// ResolverConfig maps module distribution references to module archives.
type ResolverConfig struct {
	Modules map[string]module.ResolvedModule `json:"modules,omitempty" yaml:"modules,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Format:   string(serializer.FormatYAML),
	}
}

// Load reads the config file at path. An empty path loads DefaultFileName
// from the working directory if it exists and falls back to Default.
func Load(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultFileName
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, vmerrors.WrapWithContext(vmerrors.ErrCodeNotFound, "config file not readable", err,
			map[string]any{"path": path})
	}

	cfg, err := serializer.FromFile[Config](path)
	if err != nil {
		return nil, vmerrors.WrapWithContext(vmerrors.ErrCodeInvalidRequest, "failed to parse config file", err,
			map[string]any{"path": path})
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, vmerrors.Wrap(vmerrors.ErrCodeInternal, "failed to resolve config path", err)
	}
	cfg.path = abs
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.Format == "" {
		c.Format = def.Format
	}
}

// Validate checks the format, log level and resolver table.
func (c *Config) Validate() error {
	var problems []string

	if serializer.Format(c.Format).IsUnknown() {
		problems = append(problems, fmt.Sprintf("unknown format %q, supported values: %v",
			c.Format, serializer.SupportedFormats()))
	}
	if !logging.IsValidLevel(c.LogLevel) {
		problems = append(problems, fmt.Sprintf("unknown log level %q", c.LogLevel))
	}
	for _, ref := range slices.Sorted(maps.Keys(c.Resolver.Modules)) {
		m := c.Resolver.Modules[ref]
		if m.Name == "" || m.Path == "" {
			problems = append(problems, fmt.Sprintf("resolver module %q needs both name and path", ref))
		}
	}

	if len(problems) > 0 {
		return vmerrors.NewWithContext(vmerrors.ErrCodeInvalidRequest,
			"invalid configuration: "+strings.Join(problems, "; "),
			map[string]any{"path": c.path})
	}
	return nil
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// BaseDir is the directory relative paths in the config are anchored to.
func (c *Config) BaseDir() string {
	if c.path == "" {
		return ""
	}
	return filepath.Dir(c.path)
}

// ManifestPaths returns the manifest paths resolved against BaseDir.
func (c *Config) ManifestPaths() []string {
	out := make([]string, 0, len(c.Manifests))
	for _, m := range c.Manifests {
		out = append(out, c.resolve(m))
	}
	return out
}

// ModuleResolver returns a resolver that consults the static table from the
// config first and then treats references as archive paths.
func (c *Config) ModuleResolver() module.Resolver {
	modules := make(map[string]module.ResolvedModule, len(c.Resolver.Modules))
	for ref, m := range c.Resolver.Modules {
		modules[ref] = module.ResolvedModule{Name: m.Name, Path: c.resolve(m.Path)}
	}
	return module.ChainResolver{
		module.NewStaticResolver(modules),
		&module.ArchiveResolver{},
	}
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) || c.BaseDir() == "" {
		return path
	}
	return filepath.Join(c.BaseDir(), path)
}
