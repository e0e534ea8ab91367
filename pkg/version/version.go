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

// Package version parses and compares Java runtime versions.
//
// Both the modern scheme ("17", "17.0.2", "17.0.2+8", "21-ea") and the legacy
// scheme used up to Java 8 ("1.8.0_292") are accepted. Legacy versions are
// normalized so that Major always holds the feature release number.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 3 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
	ErrNegativeComponent = errors.New("version component cannot be negative")
)

// Version is a Java version with feature (Major), interim (Minor) and update
// (Patch) components. Precision records how many components were given.
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor,omitempty" yaml:"minor,omitempty"`
	Patch int `json:"patch,omitempty" yaml:"patch,omitempty"`

	// Precision indicates how many components are significant (1, 2, or 3)
	Precision int `json:"precision,omitempty" yaml:"precision,omitempty"`

	// Extras keeps pre-release and build metadata such as "-ea", "+8" or "_292".
	Extras string `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// NewVersion creates a Version with all three components significant.
func NewVersion(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch, Precision: 3}
}

// String returns the version respecting its precision. Extras are not included.
func (v Version) String() string {
	switch v.Precision {
	case 1:
		return strconv.Itoa(v.Major)
	case 2:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
}

// Feature returns the Java feature release number.
func (v Version) Feature() int {
	return v.Major
}

// ParseVersion parses a dotted version of one to three numeric components,
// with an optional "v" prefix. Anything after a '-', '+' or '_' that follows
// a digit is kept in Extras.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, ErrEmptyVersion
	}
	s = strings.TrimPrefix(s, "v")

	main, extras := splitExtras(s)
	parts := strings.Split(main, ".")
	if len(parts) > 3 {
		return Version{}, ErrTooManyComponents
	}

	v := Version{Extras: extras, Precision: len(parts)}
	for i, part := range parts {
		num, err := parseComponent(part)
		if err != nil {
			return Version{}, err
		}
		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}
	return v, nil
}

// ParseJavaVersion parses a value as found in JAVA_VERSION of a runtime's
// release file or in `java -version` output. Legacy "1.x" versions are
// normalized so that "1.8.0_292" yields feature version 8. Components beyond
// the third (e.g. "11.0.16.1") are moved into Extras.
func ParseJavaVersion(s string) (Version, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	main, extras := splitExtras(s)
	parts := strings.Split(main, ".")
	if len(parts) >= 2 && parts[0] == "1" {
		parts = parts[1:]
	}
	if len(parts) > 3 {
		extras = "." + strings.Join(parts[3:], ".") + extras
		parts = parts[:3]
	}

	v := Version{Extras: extras, Precision: len(parts)}
	for i, part := range parts {
		num, err := parseComponent(part)
		if err != nil {
			return Version{}, fmt.Errorf("invalid java version %q: %w", s, err)
		}
		switch i {
		case 0:
			v.Major = num
		case 1:
			v.Minor = num
		case 2:
			v.Patch = num
		}
	}
	return v, nil
}

// MustParseJavaVersion is like ParseJavaVersion but panics on error.
// Only use this for hardcoded strings or in tests.
func MustParseJavaVersion(s string) Version {
	v, err := ParseJavaVersion(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseJavaVersion: %v", err))
	}
	return v
}

// splitExtras separates build metadata from the numeric part. The separator
// must follow a digit so that a leading "-1" is reported as negative.
func splitExtras(s string) (string, string) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '-', '+', '_':
			if s[i-1] >= '0' && s[i-1] <= '9' {
				return s[:i], s[i:]
			}
		}
	}
	return s, ""
}

func parseComponent(part string) (int, error) {
	if part == "" {
		return 0, fmt.Errorf("%w: empty component", ErrNonNumeric)
	}
	num, err := strconv.Atoi(part)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNonNumeric, part)
	}
	if num < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeComponent, num)
	}
	return num, nil
}

// Compare returns -1, 0 or 1 comparing v to other, considering only the
// components significant in both versions.
func (v Version) Compare(other Version) int {
	precision := min(v.Precision, other.Precision)

	pairs := [][2]int{{v.Major, other.Major}, {v.Minor, other.Minor}, {v.Patch, other.Patch}}
	for i := 0; i < precision && i < len(pairs); i++ {
		switch {
		case pairs[i][0] < pairs[i][1]:
			return -1
		case pairs[i][0] > pairs[i][1]:
			return 1
		}
	}
	return 0
}

// AtLeastFeature reports whether v is the given feature release or later.
func (v Version) AtLeastFeature(feature int) bool {
	return v.Major >= feature
}

// IsValid returns true if all components are non-negative and precision is 1, 2, or 3.
func (v Version) IsValid() bool {
	if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
		return false
	}
	return v.Precision >= 1 && v.Precision <= 3
}
