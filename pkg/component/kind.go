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
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind classifies a component by capability.
type Kind string

const (
	// KindComponent is a plain component with no extra capabilities.
	KindComponent Kind = "component"
	// KindLanguage is a Truffle language.
	KindLanguage Kind = "language"
	// KindTool is a Truffle tool.
	KindTool Kind = "tool"
	// KindJDK is a component installed into the JDK part of the distribution.
	KindJDK Kind = "jdk"
	// KindJRE is a component installed into the JRE part of the distribution.
	KindJRE Kind = "jre"
	// KindJVMCI is a JRE component that provides JVMCI jars and a compiler.
	KindJVMCI Kind = "jvmci"
	// KindSVMMacro is a native-image macro.
	KindSVMMacro Kind = "svm-macro"
)

var allKinds = []Kind{KindComponent, KindLanguage, KindTool, KindJDK, KindJRE, KindJVMCI, KindSVMMacro}

// SupportedKinds returns all kind names.
func SupportedKinds() []string {
	out := make([]string, 0, len(allKinds))
	for _, k := range allKinds {
		out = append(out, string(k))
	}
	return out
}

// ParseKind converts a name into a Kind. An empty name yields KindComponent.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindComponent, nil
	}
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("unknown component kind %q (supported values: %s)",
			s, strings.Join(SupportedKinds(), ", "))
	}
	return k, nil
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// IsTruffle reports whether k is a Truffle language or tool.
func (k Kind) IsTruffle() bool {
	return k == KindLanguage || k == KindTool
}

// IsJRE reports whether components of kind k are installed into the JRE.
func (k Kind) IsJRE() bool {
	return k == KindJRE || k == KindJVMCI
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// DisplayName returns a human-readable, title-cased kind name.
func (k Kind) DisplayName() string {
	switch k {
	case KindJDK, KindJRE, KindJVMCI:
		return strings.ToUpper(string(k))
	case KindSVMMacro:
		return "SVM Macro"
	default:
		return cases.Title(language.English).String(string(k))
	}
}
