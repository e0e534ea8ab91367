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
	"strconv"

	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
	"github.com/graalvm/vmassemble/pkg/serializer"
)

// Manifest lists the components contributed by one or more suites.
type Manifest struct {
	Suites []SuiteManifest `json:"suites" yaml:"suites"`
}

// SuiteManifest holds the components of a single suite.
type SuiteManifest struct {
	Name       string       `json:"name" yaml:"name"`
	Components []Descriptor `json:"components" yaml:"components"`
}

// LoadManifest reads a YAML or JSON manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	m, err := serializer.FromFile[Manifest](path)
	if err != nil {
		return nil, vmerrors.WrapWithContext(vmerrors.ErrCodeInvalidRequest,
			"failed to load component manifest", err, map[string]any{"path": path})
	}
	return m, nil
}

// Descriptors returns the normalized descriptors of m in document order.
// A component inherits the name of its suite; naming a different suite is an
// error.
func (m *Manifest) Descriptors() ([]*Descriptor, error) {
	var out []*Descriptor
	for _, s := range m.Suites {
		if s.Name == "" {
			return nil, vmerrors.New(vmerrors.ErrCodeInvalidRequest, "manifest suite without a name")
		}
		for _, c := range s.Components {
			if c.Suite == "" {
				c.Suite = s.Name
			} else if c.Suite != s.Name {
				return nil, vmerrors.New(vmerrors.ErrCodeInvalidRequest,
					fmt.Sprintf("component %q declares suite %q inside suite %q", c.ShortName, c.Suite, s.Name))
			}
			d, err := New(c)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
	}
	return out, nil
}

// List is a printable list of descriptors.
type List []*Descriptor

// TableHeader implements serializer.Tabular.
func (l List) TableHeader() []string {
	return []string{"SHORT NAME", "NAME", "KIND", "DIR", "SUITE", "PRIORITY"}
}

// TableRows implements serializer.Tabular.
func (l List) TableRows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, d := range l {
		rows = append(rows, []string{
			d.ShortName,
			d.Name,
			d.Kind.DisplayName(),
			d.DirName,
			d.Suite,
			strconv.Itoa(d.Priority),
		})
	}
	return rows
}
