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

package module

import (
	"archive/zip"
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
)

const (
	moduleInfoClass  = "module-info.class"
	manifestPath     = "META-INF/MANIFEST.MF"
	versionedPrefix  = "META-INF/versions/"
	automaticNameKey = "Automatic-Module-Name"
)

var (
	versionSuffix = regexp.MustCompile(`-(\d+(\.|$))`)
	nonAlnum      = regexp.MustCompile(`[^A-Za-z0-9]`)
	repeatedDots  = regexp.MustCompile(`\.{2,}`)
)

// ArchiveResolver resolves references that name module archives on disk.
// A reference is either "name=path" or a path to a .jar or .jmod file.
type ArchiveResolver struct {
	// BaseDir anchors relative paths; empty means the working directory.
	BaseDir string
}

// NewArchiveResolver returns a resolver for paths relative to the working directory.
func NewArchiveResolver() *ArchiveResolver {
	return &ArchiveResolver{}
}

// Resolve implements Resolver.
func (a *ArchiveResolver) Resolve(_ context.Context, ref string) (ResolvedModule, error) {
	if m, ok := ParseExplicit(ref); ok {
		m.Path = a.abs(m.Path)
		if _, err := os.Stat(m.Path); err != nil {
			return ResolvedModule{}, notFound(ref, err)
		}
		return m, nil
	}

	path := a.abs(ref)
	info, err := os.Stat(path)
	if err != nil {
		return ResolvedModule{}, notFound(ref, err)
	}
	if info.IsDir() {
		return ResolvedModule{}, vmerrors.NewWithContext(vmerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("module distribution '%s' is a directory, use name=path", ref),
			map[string]any{"ref": ref})
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jmod":
		return ResolvedModule{Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), Path: path}, nil
	case ".jar":
		name, err := JarModuleName(path)
		if err != nil {
			return ResolvedModule{}, vmerrors.WrapWithContext(vmerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("cannot determine module name of '%s'", ref), err, map[string]any{"ref": ref})
		}
		return ResolvedModule{Name: name, Path: path}, nil
	default:
		return ResolvedModule{}, vmerrors.NewWithContext(vmerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("module distribution '%s' is neither a .jar nor a .jmod file, use name=path", ref),
			map[string]any{"ref": ref})
	}
}

func (a *ArchiveResolver) abs(path string) string {
	if filepath.IsAbs(path) || a.BaseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(a.BaseDir, path)
}

func notFound(ref string, err error) error {
	return vmerrors.WrapWithContext(vmerrors.ErrCodeNotFound,
		fmt.Sprintf("module distribution '%s' not found", ref), err, map[string]any{"ref": ref})
}

// JarModuleName returns the module name of a jar file: the name declared in
// module-info.class (including versioned entries of multi-release jars),
// else the Automatic-Module-Name manifest attribute, else a name derived
// from the file name.
func JarModuleName(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open jar: %w", err)
	}
	defer zr.Close()

	var versioned *zip.File
	var latest int
	var manifest *zip.File
	for _, f := range zr.File {
		switch {
		case f.Name == moduleInfoClass:
			return readModuleInfo(f)
		case f.Name == manifestPath:
			manifest = f
		default:
			if n, ok := releaseOf(f.Name); ok && n > latest {
				versioned, latest = f, n
			}
		}
	}
	if versioned != nil {
		return readModuleInfo(versioned)
	}

	if manifest != nil {
		attrs, err := readManifest(manifest)
		if err != nil {
			return "", err
		}
		if name := attrs[automaticNameKey]; name != "" {
			return name, nil
		}
	}

	name := AutomaticModuleName(filepath.Base(path))
	if name == "" {
		return "", fmt.Errorf("cannot derive a module name from %s", filepath.Base(path))
	}
	return name, nil
}

// AutomaticModuleName derives a module name from a jar file name: the .jar
// suffix and any version suffix are removed, non-alphanumeric characters
// become dots, repeated dots collapse and leading or trailing dots are dropped.
func AutomaticModuleName(fileName string) string {
	name := strings.TrimSuffix(fileName, ".jar")
	if loc := versionSuffix.FindStringIndex(name); loc != nil {
		name = name[:loc[0]]
	}
	name = nonAlnum.ReplaceAllString(name, ".")
	name = repeatedDots.ReplaceAllString(name, ".")
	return strings.Trim(name, ".")
}

// releaseOf returns N for "META-INF/versions/N/module-info.class". Entries
// without a positive release number are not versioned module descriptors.
func releaseOf(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, versionedPrefix)
	if !ok {
		return 0, false
	}
	release, file, ok := strings.Cut(rest, "/")
	if !ok || file != moduleInfoClass {
		return 0, false
	}
	n, err := strconv.Atoi(release)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func readModuleInfo(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	name, err := ParseModuleInfo(rc)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", f.Name, err)
	}
	return name, nil
}

// readManifest parses main section attributes of a jar manifest. Lines
// starting with a single space continue the previous value.
func readManifest(f *zip.File) (map[string]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer rc.Close()
	return parseManifest(rc)
}

func parseManifest(r io.Reader) (map[string]string, error) {
	attrs := make(map[string]string)
	var lastKey string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			// end of main section
			break
		}
		if strings.HasPrefix(line, " ") {
			if lastKey != "" {
				attrs[lastKey] += line[1:]
			}
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		lastKey = strings.TrimSpace(key)
		attrs[lastKey] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return attrs, nil
}
