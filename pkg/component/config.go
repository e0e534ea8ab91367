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

package component

import (
	"errors"
	"slices"

	"github.com/graalvm/vmassemble/pkg/pathsubst"
)

// LauncherConfig describes a launcher shipped by a component.
type LauncherConfig struct {
	// Destination is relative to the component directory and may contain
	// <exe:name> and <lib:name> substitutions.
	Destination        string   `json:"destination" yaml:"destination"`
	JarDistributions   []string `json:"jarDistributions" yaml:"jarDistributions,omitempty"`
	MainClass          string   `json:"mainClass" yaml:"mainClass"`
	BuildArgs          []string `json:"buildArgs" yaml:"buildArgs,omitempty"`
	Links              []string `json:"links" yaml:"links,omitempty"`
	IsMainLauncher     *bool    `json:"isMainLauncher,omitempty" yaml:"isMainLauncher,omitempty"`
	DefaultSymlinks    *bool    `json:"defaultSymlinks,omitempty" yaml:"defaultSymlinks,omitempty"`
	IsSDKLauncher      bool     `json:"isSdkLauncher,omitempty" yaml:"isSdkLauncher,omitempty"`
	IsPolyglot         bool     `json:"isPolyglot,omitempty" yaml:"isPolyglot,omitempty"`
	CustomBashLauncher string   `json:"customBashLauncher,omitempty" yaml:"customBashLauncher,omitempty"`
	DirJars            bool     `json:"dirJars,omitempty" yaml:"dirJars,omitempty"`
	ExtraJVMArgs       []string `json:"extraJvmArgs" yaml:"extraJvmArgs,omitempty"`

	// Language is set for launchers of language components.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}

// Main reports whether the launcher is the main launcher of its component.
func (c LauncherConfig) Main() bool {
	return c.IsMainLauncher == nil || *c.IsMainLauncher
}

// Symlinks reports whether default symlinks are created for the launcher.
func (c LauncherConfig) Symlinks() bool {
	return c.DefaultSymlinks == nil || *c.DefaultSymlinks
}

func (c *LauncherConfig) normalize() {
	c.Destination = pathsubst.Substitute(c.Destination)
	c.Links = substituteAll(c.Links)
	nonNil(&c.JarDistributions)
	nonNil(&c.BuildArgs)
	nonNil(&c.Links)
	nonNil(&c.ExtraJVMArgs)
	if c.IsMainLauncher == nil {
		c.IsMainLauncher = boolPtr(true)
	}
	if c.DefaultSymlinks == nil {
		c.DefaultSymlinks = boolPtr(true)
	}
}

func (c LauncherConfig) validate() error {
	if c.Destination == "" {
		return errors.New("destination is required")
	}
	if c.MainClass == "" {
		return errors.New("mainClass is required")
	}
	return nil
}

func (c LauncherConfig) clone() LauncherConfig {
	out := c
	out.JarDistributions = slices.Clone(c.JarDistributions)
	out.BuildArgs = slices.Clone(c.BuildArgs)
	out.Links = slices.Clone(c.Links)
	out.ExtraJVMArgs = slices.Clone(c.ExtraJVMArgs)
	if c.IsMainLauncher != nil {
		out.IsMainLauncher = boolPtr(*c.IsMainLauncher)
	}
	if c.DefaultSymlinks != nil {
		out.DefaultSymlinks = boolPtr(*c.DefaultSymlinks)
	}
	return out
}

// LibraryConfig describes a shared library shipped by a component.
type LibraryConfig struct {
	Destination      string   `json:"destination" yaml:"destination"`
	JarDistributions []string `json:"jarDistributions" yaml:"jarDistributions,omitempty"`
	BuildArgs        []string `json:"buildArgs" yaml:"buildArgs,omitempty"`
	Links            []string `json:"links" yaml:"links,omitempty"`

	// JVMLibrary builds the library for the managed-runtime variant.
	JVMLibrary bool `json:"jvmLibrary,omitempty" yaml:"jvmLibrary,omitempty"`
	IsPolyglot bool `json:"isPolyglot,omitempty" yaml:"isPolyglot,omitempty"`
	DirJars    bool `json:"dirJars,omitempty" yaml:"dirJars,omitempty"`
}

func (c *LibraryConfig) normalize() {
	c.Destination = pathsubst.Substitute(c.Destination)
	c.Links = substituteAll(c.Links)
	nonNil(&c.JarDistributions)
	nonNil(&c.BuildArgs)
	nonNil(&c.Links)
}

func (c LibraryConfig) validate() error {
	if c.Destination == "" {
		return errors.New("destination is required")
	}
	return nil
}

func (c LibraryConfig) clone() LibraryConfig {
	out := c
	out.JarDistributions = slices.Clone(c.JarDistributions)
	out.BuildArgs = slices.Clone(c.BuildArgs)
	out.Links = slices.Clone(c.Links)
	return out
}

func substituteAll(paths []string) []string {
	if paths == nil {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = pathsubst.Substitute(p)
	}
	return out
}
