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

package registry

import (
	"bytes"
	"log/slog"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graalvm/vmassemble/pkg/component"
	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
)

func mustComponent(t *testing.T, suite, shortName string, priority int) *component.Descriptor {
	t.Helper()
	d, err := component.New(component.Descriptor{
		Suite:     suite,
		Name:      shortName + " from " + suite,
		ShortName: shortName,
		Priority:  priority,
	})
	require.NoError(t, err)
	return d
}

func counterValue(t *testing.T, outcome string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, registrationsTotal.WithLabelValues(outcome).Write(&m))
	return m.GetCounter().GetValue()
}

func TestRegister_PriorityResolution(t *testing.T) {
	tests := []struct {
		name      string
		first     *component.Descriptor
		second    *component.Descriptor
		wantSuite string
	}{
		{
			name:      "higher second replaces",
			first:     mustComponent(t, "a", "x", 10),
			second:    mustComponent(t, "b", "x", 20),
			wantSuite: "b",
		},
		{
			name:      "lower second ignored",
			first:     mustComponent(t, "b", "x", 20),
			second:    mustComponent(t, "a", "x", 10),
			wantSuite: "b",
		},
		{
			name:      "negative priorities",
			first:     mustComponent(t, "a", "x", -5),
			second:    mustComponent(t, "b", "x", -1),
			wantSuite: "b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			require.NoError(t, r.Register(tt.first))
			require.NoError(t, r.Register(tt.second))

			got, ok := r.Get("x")
			require.True(t, ok)
			assert.Equal(t, tt.wantSuite, got.Suite)
			assert.Equal(t, 1, r.Len())
			assert.Len(t, r.List(), 1)
		})
	}
}

func TestRegister_OrderIndependent(t *testing.T) {
	regs := []*component.Descriptor{
		mustComponent(t, "a", "x", 1),
		mustComponent(t, "b", "x", 7),
		mustComponent(t, "c", "x", 3),
	}
	orders := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, order := range orders {
		r := New()
		for _, i := range order {
			require.NoError(t, r.Register(regs[i]))
		}
		got, ok := r.Get("x")
		require.True(t, ok)
		assert.Equal(t, "b", got.Suite, "order %v", order)
	}
}

func TestRegister_EqualPriorityConflict(t *testing.T) {
	for _, order := range [][2]string{{"a", "b"}, {"b", "a"}} {
		r := New()
		require.NoError(t, r.Register(mustComponent(t, order[0], "x", 10)))

		err := r.Register(mustComponent(t, order[1], "x", 10))
		require.Error(t, err)
		assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeConfigurationConflict))
		assert.Contains(t, err.Error(), "'a'")
		assert.Contains(t, err.Error(), "'b'")
		assert.Contains(t, err.Error(), "'10'")
		assert.Contains(t, err.Error(), "'x'")

		got, _ := r.Get("x")
		assert.Equal(t, order[0], got.Suite)
	}
}

func TestRegister_ConflictAfterReplacement(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(mustComponent(t, "a", "x", 1)))
	require.NoError(t, r.Register(mustComponent(t, "b", "x", 5)))

	err := r.Register(mustComponent(t, "c", "x", 5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'b' and 'c'")
}

func TestRegister_Diagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := New(WithLogger(logger))

	require.NoError(t, r.Register(mustComponent(t, "low", "x", 1)))
	require.NoError(t, r.Register(mustComponent(t, "high", "x", 2)))
	out := buf.String()
	assert.Contains(t, out, "replacing component registration")
	assert.Contains(t, out, "suite=high")
	assert.Contains(t, out, "droppedSuite=low")
	assert.Contains(t, out, "droppedPriority=1")

	buf.Reset()
	require.NoError(t, r.Register(mustComponent(t, "lower", "x", 0)))
	out = buf.String()
	assert.Contains(t, out, "ignoring component registration")
	assert.Contains(t, out, "suite=high")
	assert.Contains(t, out, "droppedSuite=lower")
}

func TestRegister_Invalid(t *testing.T) {
	r := New()
	err := r.Register(nil)
	require.Error(t, err)
	assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeInvalidRequest))

	err = r.Register(&component.Descriptor{Kind: component.KindComponent, Name: "n", ShortName: "x"})
	require.Error(t, err)
	assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeInvalidRequest))
	assert.Equal(t, 0, r.Len())
}

func TestRegister_StoresCopy(t *testing.T) {
	r := New()
	d := mustComponent(t, "a", "x", 1)
	require.NoError(t, r.Register(d))

	d.Name = "changed"
	got, _ := r.Get("x")
	assert.Equal(t, "x from a", got.Name)
}

func TestRegister_NormalizesLiteral(t *testing.T) {
	r := New()
	d := &component.Descriptor{
		Kind:      component.KindLanguage,
		Suite:     "s",
		Name:      "X",
		ShortName: "x",
	}
	require.NoError(t, r.Register(d))

	got, ok := r.Get("x")
	require.True(t, ok)
	assert.NotSame(t, d, got)
	assert.Equal(t, "x", got.DirName)
	assert.Equal(t, "x", got.InstallableID)
	assert.NotNil(t, got.LicenseFiles)
	assert.NotNil(t, got.ThirdPartyLicenseFiles)
	assert.NotNil(t, got.JarDistributions)
	assert.NotNil(t, got.LauncherConfigs)
	assert.NotNil(t, got.LibraryConfigs)
	assert.NotEmpty(t, got.StandaloneDirName)
	assert.True(t, got.InPolyglot())

	assert.Empty(t, d.DirName)
	assert.Nil(t, d.LicenseFiles)
}

func TestList_OrderAndFilters(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(mustComponent(t, "truffle", "js", 0)))
	require.NoError(t, r.Register(mustComponent(t, "sdk", "polyglot", 0)))
	require.NoError(t, r.Register(mustComponent(t, "truffle", "python", 0)))
	require.NoError(t, r.Register(mustComponent(t, "override", "js", 5)))

	names := func(ds []*component.Descriptor) []string {
		out := make([]string, 0, len(ds))
		for _, d := range ds {
			out = append(out, d.ShortName)
		}
		return out
	}

	assert.Equal(t, []string{"js", "polyglot", "python"}, names(r.List()))
	assert.Equal(t, []string{"js", "polyglot", "python"}, names(r.List(InSuites())))
	assert.Equal(t, []string{"python"}, names(r.List(InSuites("truffle"))))
	assert.Equal(t, []string{"js", "python"}, names(r.List(InSuites("truffle", "override"))))
	assert.Empty(t, r.List(InSuites("missing")))
	assert.Equal(t, []string{"js", "polyglot", "python"}, names(r.List(OfKind(component.KindComponent))))
	assert.Empty(t, r.List(OfKind(component.KindLanguage)))
}

func TestGet_Missing(t *testing.T) {
	_, ok := New().Get("nope")
	assert.False(t, ok)
}

func TestFreeze(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(mustComponent(t, "a", "x", 0)))
	assert.False(t, r.Frozen())

	r.Freeze()
	assert.True(t, r.Frozen())

	err := r.Register(mustComponent(t, "a", "y", 0))
	require.Error(t, err)
	assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeInvalidRequest))
	assert.Equal(t, 1, r.Len())

	assert.Error(t, r.AddHostVMConfig(HostVMConfig{Name: "espresso"}))
}

func TestRegisterAll(t *testing.T) {
	m := &component.Manifest{Suites: []component.SuiteManifest{
		{Name: "truffle", Components: []component.Descriptor{
			{Kind: component.KindLanguage, Name: "JS", ShortName: "js", Priority: 1},
		}},
		{Name: "graal-js", Components: []component.Descriptor{
			{Kind: component.KindLanguage, Name: "Graal.js", ShortName: "js", Priority: 2},
			{Kind: component.KindTool, Name: "Inspector", ShortName: "ins"},
		}},
	}}

	r := New()
	require.NoError(t, r.RegisterAll(m))
	js, ok := r.Get("js")
	require.True(t, ok)
	assert.Equal(t, "graal-js", js.Suite)
	assert.Equal(t, 2, r.Len())

	conflict := &component.Manifest{Suites: []component.SuiteManifest{
		{Name: "other", Components: []component.Descriptor{
			{Kind: component.KindTool, Name: "Other Inspector", ShortName: "ins"},
			{Name: "Never", ShortName: "never"},
		}},
	}}
	err := r.RegisterAll(conflict)
	require.Error(t, err)
	assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeConfigurationConflict))
	_, ok = r.Get("never")
	assert.False(t, ok)
}

func TestRegistrationMetrics(t *testing.T) {
	added := counterValue(t, OutcomeAdded)
	replaced := counterValue(t, OutcomeReplaced)
	conflict := counterValue(t, OutcomeConflict)

	r := New()
	require.NoError(t, r.Register(mustComponent(t, "a", "metrics", 1)))
	require.NoError(t, r.Register(mustComponent(t, "b", "metrics", 2)))
	require.Error(t, r.Register(mustComponent(t, "c", "metrics", 2)))

	assert.Equal(t, added+1, counterValue(t, OutcomeAdded))
	assert.Equal(t, replaced+1, counterValue(t, OutcomeReplaced))
	assert.Equal(t, conflict+1, counterValue(t, OutcomeConflict))
}

func TestHostVMConfigs(t *testing.T) {
	r := New()
	cfgs := r.HostVMConfigs()
	require.Len(t, cfgs, 2)
	assert.Equal(t, "jvm", cfgs[0].Name)
	assert.Equal(t, 50, cfgs[0].Priority)
	assert.Equal(t, []string{"--jvm"}, cfgs[0].LauncherArgs)
	assert.Equal(t, "native", cfgs[1].Name)
	assert.Equal(t, 100, cfgs[1].Priority)

	require.NoError(t, r.AddHostVMConfig(HostVMConfig{Name: "espresso", LauncherArgs: []string{"--jvm.Xss4m"}, Priority: 60}))
	cfgs = r.HostVMConfigs()
	require.Len(t, cfgs, 3)
	assert.Equal(t, "espresso", cfgs[2].Name)
	assert.NotNil(t, cfgs[2].JavaArgs)

	err := r.AddHostVMConfig(HostVMConfig{Name: "jvm"})
	assert.True(t, vmerrors.HasCode(err, vmerrors.ErrCodeConfigurationConflict))
	assert.Error(t, r.AddHostVMConfig(HostVMConfig{}))
}
