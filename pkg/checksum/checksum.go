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

package checksum

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/graalvm/vmassemble/pkg/defaults"
)

// FileName is the name of the checksum file written at the image root.
const FileName = "checksums.txt"

// Entry is the checksum of one file, relative to the image root.
type Entry struct {
	Path string
	Sum  string
}

// GenerateForDir hashes all files under dir and writes dir/checksums.txt.
// It returns the entries written.
func GenerateForDir(ctx context.Context, dir string) ([]Entry, error) {
	entries, err := Compute(ctx, dir)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s\n", e.Sum, e.Path)
	}

	path := FilePath(dir)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write checksums: %w", err)
	}

	slog.Debug("checksums generated",
		"file_count", len(entries),
		"path", path,
	)
	return entries, nil
}

// Compute hashes every file under dir except an existing checksums.txt at
// its root. A symbolic link is hashed by the content of its target when the
// target is a regular file. Links to directories, dangling links and other
// non-regular entries are skipped. Entries are sorted by path, which uses
// forward slashes.
func Compute(ctx context.Context, dir string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hashable(path, d) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == FileName {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	entries := make([]Entry, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(defaults.ChecksumWorkers)
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sum, err := hashFile(filepath.Join(dir, rel))
			if err != nil {
				return err
			}
			entries[i] = Entry{Path: filepath.ToSlash(rel), Sum: sum}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// VerifyDir recomputes the checksums of dir and compares them with
// dir/checksums.txt. It returns the paths that differ, are missing or are new.
func VerifyDir(ctx context.Context, dir string) ([]string, error) {
	want, err := readFile(FilePath(dir))
	if err != nil {
		return nil, err
	}
	got, err := Compute(ctx, dir)
	if err != nil {
		return nil, err
	}

	var mismatched []string
	for _, e := range got {
		sum, ok := want[e.Path]
		if !ok || sum != e.Sum {
			mismatched = append(mismatched, e.Path)
		}
		delete(want, e.Path)
	}
	for p := range want {
		mismatched = append(mismatched, p)
	}
	sort.Strings(mismatched)
	return mismatched, nil
}

// FilePath returns the path of the checksum file for dir.
func FilePath(dir string) string {
	return filepath.Join(dir, FileName)
}

func hashable(path string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular()
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s for checksum: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %s for checksum: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func readFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checksums: %w", err)
	}
	defer f.Close()

	sums := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		sum, p, ok := strings.Cut(sc.Text(), "  ")
		if !ok {
			continue
		}
		sums[p] = sum
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read checksums: %w", err)
	}
	return sums, nil
}
