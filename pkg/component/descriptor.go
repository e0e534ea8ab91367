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
	"fmt"
	"slices"
	"strings"

	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
)

// NoDir is the DirName sentinel for components whose files are copied to the
// root directory of their component type instead of a dedicated directory.
const NoDir = "-"

// standaloneDirTemplate is appended to the directory name to form the default
// standalone distribution directory of Truffle components.
const standaloneDirTemplate = "-<version>-<graalvm_os>-<arch>"

// Descriptor describes one installable component.
//
// Values returned by New are normalized: list fields are never nil and
// defaulted fields are filled in. Treat them as read-only; use Clone to
// derive a modified copy.
type Descriptor struct {
	Kind Kind `json:"kind" yaml:"kind"`

	// Suite is the name of the build suite contributing the component.
	Suite     string `json:"suite" yaml:"suite,omitempty"`
	Name      string `json:"name" yaml:"name"`
	ShortName string `json:"shortName" yaml:"shortName"`

	// DirName defaults to ShortName. NoDir installs into the type root.
	DirName string `json:"dirName" yaml:"dirName,omitempty"`

	LicenseFiles           []string `json:"licenseFiles" yaml:"licenseFiles,omitempty"`
	ThirdPartyLicenseFiles []string `json:"thirdPartyLicenseFiles" yaml:"thirdPartyLicenseFiles,omitempty"`
	ProvidedExecutables    []string `json:"providedExecutables" yaml:"providedExecutables,omitempty"`
	BootJars               []string `json:"bootJars" yaml:"bootJars,omitempty"`

	JarDistributions        []string `json:"jarDistributions" yaml:"jarDistributions,omitempty"`
	BuilderJarDistributions []string `json:"builderJarDistributions" yaml:"builderJarDistributions,omitempty"`
	SupportDistributions    []string `json:"supportDistributions" yaml:"supportDistributions,omitempty"`

	PolyglotLibBuildArgs         []string `json:"polyglotLibBuildArgs" yaml:"polyglotLibBuildArgs,omitempty"`
	PolyglotLibJarDependencies   []string `json:"polyglotLibJarDependencies" yaml:"polyglotLibJarDependencies,omitempty"`
	PolyglotLibBuildDependencies []string `json:"polyglotLibBuildDependencies" yaml:"polyglotLibBuildDependencies,omitempty"`
	HasPolyglotLibEntrypoints    bool     `json:"hasPolyglotLibEntrypoints,omitempty" yaml:"hasPolyglotLibEntrypoints,omitempty"`

	LauncherConfigs []LauncherConfig `json:"launcherConfigs" yaml:"launcherConfigs,omitempty"`
	LibraryConfigs  []LibraryConfig  `json:"libraryConfigs" yaml:"libraryConfigs,omitempty"`

	// Priority resolves short name collisions; higher wins.
	Priority int `json:"priority" yaml:"priority,omitempty"`

	Installable        bool   `json:"installable,omitempty" yaml:"installable,omitempty"`
	InstallableID      string `json:"installableId,omitempty" yaml:"installableId,omitempty"`
	PostInstallMessage string `json:"postInstallMessage,omitempty" yaml:"postInstallMessage,omitempty"`

	// Truffle kinds only.
	StandaloneDirName string `json:"standaloneDirName,omitempty" yaml:"standaloneDirName,omitempty"`
	IncludeInPolyglot *bool  `json:"includeInPolyglot,omitempty" yaml:"includeInPolyglot,omitempty"`

	// KindTool only.
	IncludeByDefault bool `json:"includeByDefault,omitempty" yaml:"includeByDefault,omitempty"`

	// KindJVMCI only.
	GraalCompiler string   `json:"graalCompiler,omitempty" yaml:"graalCompiler,omitempty"`
	JVMCIJars     []string `json:"jvmciJars,omitempty" yaml:"jvmciJars,omitempty"`
}

// New returns a normalized, validated copy of d.
func New(d Descriptor) (*Descriptor, error) {
	n := d.Clone()
	n.normalize()
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// String returns "Name (dir)" as used in build logs.
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.DirName)
}

// HasDir reports whether the component lives in its own directory.
func (d *Descriptor) HasDir() bool {
	return d.DirName != NoDir
}

// InPolyglot reports whether a Truffle component is part of polyglot images
// and of --language:all / --tool:all. Always false for other kinds.
func (d *Descriptor) InPolyglot() bool {
	return d.Kind.IsTruffle() && d.IncludeInPolyglot != nil && *d.IncludeInPolyglot
}

// Clone returns a deep copy of d.
func (d *Descriptor) Clone() *Descriptor {
	c := *d
	c.LicenseFiles = slices.Clone(d.LicenseFiles)
	c.ThirdPartyLicenseFiles = slices.Clone(d.ThirdPartyLicenseFiles)
	c.ProvidedExecutables = slices.Clone(d.ProvidedExecutables)
	c.BootJars = slices.Clone(d.BootJars)
	c.JarDistributions = slices.Clone(d.JarDistributions)
	c.BuilderJarDistributions = slices.Clone(d.BuilderJarDistributions)
	c.SupportDistributions = slices.Clone(d.SupportDistributions)
	c.PolyglotLibBuildArgs = slices.Clone(d.PolyglotLibBuildArgs)
	c.PolyglotLibJarDependencies = slices.Clone(d.PolyglotLibJarDependencies)
	c.PolyglotLibBuildDependencies = slices.Clone(d.PolyglotLibBuildDependencies)
	c.JVMCIJars = slices.Clone(d.JVMCIJars)
	if d.IncludeInPolyglot != nil {
		v := *d.IncludeInPolyglot
		c.IncludeInPolyglot = &v
	}
	if d.LauncherConfigs != nil {
		c.LauncherConfigs = make([]LauncherConfig, len(d.LauncherConfigs))
		for i, lc := range d.LauncherConfigs {
			c.LauncherConfigs[i] = lc.clone()
		}
	}
	if d.LibraryConfigs != nil {
		c.LibraryConfigs = make([]LibraryConfig, len(d.LibraryConfigs))
		for i, lc := range d.LibraryConfigs {
			c.LibraryConfigs[i] = lc.clone()
		}
	}
	return &c
}

func (d *Descriptor) normalize() {
	if d.Kind == "" {
		d.Kind = KindComponent
	}
	if d.DirName == "" {
		d.DirName = d.ShortName
	}
	if d.InstallableID == "" {
		if d.HasDir() {
			d.InstallableID = d.DirName
		} else {
			d.InstallableID = d.ShortName
		}
	}

	nonNil(&d.LicenseFiles)
	nonNil(&d.ThirdPartyLicenseFiles)
	nonNil(&d.ProvidedExecutables)
	nonNil(&d.BootJars)
	nonNil(&d.JarDistributions)
	nonNil(&d.BuilderJarDistributions)
	nonNil(&d.SupportDistributions)
	nonNil(&d.PolyglotLibBuildArgs)
	nonNil(&d.PolyglotLibJarDependencies)
	nonNil(&d.PolyglotLibBuildDependencies)
	if d.LauncherConfigs == nil {
		d.LauncherConfigs = []LauncherConfig{}
	}
	if d.LibraryConfigs == nil {
		d.LibraryConfigs = []LibraryConfig{}
	}
	for i := range d.LauncherConfigs {
		d.LauncherConfigs[i].normalize()
	}
	for i := range d.LibraryConfigs {
		d.LibraryConfigs[i].normalize()
	}

	if d.Kind.IsTruffle() {
		if d.StandaloneDirName == "" {
			base := d.DirName
			if !d.HasDir() {
				base = d.ShortName
			}
			d.StandaloneDirName = base + standaloneDirTemplate
		}
		if d.IncludeInPolyglot == nil {
			d.IncludeInPolyglot = boolPtr(true)
		}
	}
	if d.Kind == KindJVMCI {
		nonNil(&d.JVMCIJars)
	}
}

// Validate checks identity fields, kind-specific fields and nested configs.
func (d *Descriptor) Validate() error {
	var problems []string

	if !d.Kind.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown kind %q", d.Kind))
	}
	if d.Suite == "" {
		problems = append(problems, "suite is required")
	}
	if d.Name == "" {
		problems = append(problems, "name is required")
	}
	if d.ShortName == "" {
		problems = append(problems, "shortName is required")
	} else if strings.ContainsAny(d.ShortName, " \t/\\") {
		problems = append(problems, fmt.Sprintf("shortName %q must not contain whitespace or path separators", d.ShortName))
	}

	if !d.Kind.IsTruffle() {
		if d.StandaloneDirName != "" {
			problems = append(problems, fmt.Sprintf("standaloneDirName is only valid for language and tool components, not %s", d.Kind))
		}
		if d.IncludeInPolyglot != nil {
			problems = append(problems, fmt.Sprintf("includeInPolyglot is only valid for language and tool components, not %s", d.Kind))
		}
	}
	if d.Kind != KindTool && d.IncludeByDefault {
		problems = append(problems, fmt.Sprintf("includeByDefault is only valid for tool components, not %s", d.Kind))
	}
	if d.Kind != KindJVMCI && (d.GraalCompiler != "" || len(d.JVMCIJars) > 0) {
		problems = append(problems, fmt.Sprintf("graalCompiler and jvmciJars are only valid for jvmci components, not %s", d.Kind))
	}

	for i, lc := range d.LauncherConfigs {
		if err := lc.validate(); err != nil {
			problems = append(problems, fmt.Sprintf("launcherConfigs[%d]: %v", i, err))
		}
	}
	for i, lc := range d.LibraryConfigs {
		if err := lc.validate(); err != nil {
			problems = append(problems, fmt.Sprintf("libraryConfigs[%d]: %v", i, err))
		}
	}

	if len(problems) > 0 {
		return vmerrors.NewWithContext(vmerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid component %q: %s", d.ShortName, strings.Join(problems, "; ")),
			map[string]any{
				"suite":     d.Suite,
				"shortName": d.ShortName,
			})
	}
	return nil
}

func nonNil(s *[]string) {
	if *s == nil {
		*s = []string{}
	}
}

func boolPtr(b bool) *bool {
	return &b
}
