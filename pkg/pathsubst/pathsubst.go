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

// Package pathsubst expands platform placeholders in component destination paths.
//
// Launcher and library destinations are declared once for all platforms using
// placeholders:
//
//	<exe:js>   -> js       (js.exe on windows)
//	<lib:jsvm> -> libjsvm.so, libjsvm.dylib or jsvm.dll
package pathsubst

import (
	"regexp"
	"runtime"
)

var placeholder = regexp.MustCompile(`<(exe|lib):([^<>]+)>`)

// Substituter expands placeholders for one target operating system.
type Substituter struct {
	goos string
}

// ForOS returns a Substituter for the given GOOS value.
func ForOS(goos string) Substituter {
	return Substituter{goos: goos}
}

// Host returns a Substituter for the running platform.
func Host() Substituter {
	return ForOS(runtime.GOOS)
}

// Substitute expands placeholders in path using the host platform.
func Substitute(path string) string {
	return Host().Substitute(path)
}

// Substitute expands every placeholder in path.
func (s Substituter) Substitute(path string) string {
	return placeholder.ReplaceAllStringFunc(path, func(m string) string {
		groups := placeholder.FindStringSubmatch(m)
		switch groups[1] {
		case "exe":
			return s.Exe(groups[2])
		default:
			return s.Lib(groups[2])
		}
	})
}

// Exe returns the executable file name for name.
func (s Substituter) Exe(name string) string {
	if s.goos == "windows" {
		return name + ".exe"
	}
	return name
}

// Lib returns the shared library file name for name.
func (s Substituter) Lib(name string) string {
	switch s.goos {
	case "windows":
		return name + ".dll"
	case "darwin":
		return "lib" + name + ".dylib"
	default:
		return "lib" + name + ".so"
	}
}
