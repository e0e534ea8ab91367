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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
)

func TestStaticResolver(t *testing.T) {
	table := map[string]ResolvedModule{
		"GRAAL_SDK": {Name: "org.graalvm.sdk", Path: "/build/graal-sdk.jar"},
	}
	r := NewStaticResolver(table)
	table["LATE"] = ResolvedModule{Name: "late"}

	m, err := r.Resolve(context.Background(), "GRAAL_SDK")
	require.NoError(t, err)
	assert.Equal(t, "org.graalvm.sdk", m.Name)

	_, err = r.Resolve(context.Background(), "LATE")
	require.Error(t, err)
	assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "'LATE'")
}

func TestChainResolver(t *testing.T) {
	dir := t.TempDir()
	jmod := filepath.Join(dir, "org.graalvm.truffle.jmod")
	require.NoError(t, os.WriteFile(jmod, nil, 0o600))

	chain := ChainResolver{
		NewStaticResolver(map[string]ResolvedModule{"TRUFFLE_API": {Name: "org.graalvm.truffle", Path: jmod}}),
		NewArchiveResolver(),
	}

	m, err := chain.Resolve(context.Background(), "TRUFFLE_API")
	require.NoError(t, err)
	assert.Equal(t, jmod, m.Path)

	m, err = chain.Resolve(context.Background(), jmod)
	require.NoError(t, err)
	assert.Equal(t, "org.graalvm.truffle", m.Name)

	_, err = chain.Resolve(context.Background(), "NOPE")
	require.Error(t, err)
	assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "cannot resolve module distribution 'NOPE'")

	_, err = ChainResolver{}.Resolve(context.Background(), "X")
	assert.Error(t, err)
}

func TestResolveAll(t *testing.T) {
	r := NewStaticResolver(map[string]ResolvedModule{
		"A": {Name: "a", Path: "/a.jar"},
		"B": {Name: "b", Path: "/b.jar"},
	})

	got, err := ResolveAll(context.Background(), r, []string{"B", "A"})
	require.NoError(t, err)
	assert.Equal(t, []ResolvedModule{{Name: "b", Path: "/b.jar"}, {Name: "a", Path: "/a.jar"}}, got)

	got, err = ResolveAll(context.Background(), r, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ResolveAll(context.Background(), r, []string{"A", "C"})
	assert.Error(t, err)
}

func TestParseExplicit(t *testing.T) {
	tests := []struct {
		ref    string
		want   ResolvedModule
		wantOK bool
	}{
		{"org.graalvm.sdk=/x/sdk.jar", ResolvedModule{Name: "org.graalvm.sdk", Path: "/x/sdk.jar"}, true},
		{" a = b ", ResolvedModule{Name: "a", Path: "b"}, true},
		{"/x/sdk.jar", ResolvedModule{}, false},
		{"=path", ResolvedModule{}, false},
		{"name=", ResolvedModule{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, ok := ParseExplicit(tt.ref)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
