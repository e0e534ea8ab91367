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

package version

import (
	"errors"
	"testing"
)

func TestParseJavaVersion(t *testing.T) {
	tests := []struct {
		input     string
		wantMajor int
		wantMinor int
		wantPatch int
		wantPrec  int
		wantExtra string
		wantErr   bool
	}{
		{input: "1.8.0_292", wantMajor: 8, wantMinor: 0, wantPrec: 2, wantExtra: "_292"},
		{input: "1.8.0", wantMajor: 8, wantMinor: 0, wantPrec: 2},
		{input: "9", wantMajor: 9, wantPrec: 1},
		{input: "11.0.2", wantMajor: 11, wantMinor: 0, wantPatch: 2, wantPrec: 3},
		{input: "17.0.2+8", wantMajor: 17, wantPatch: 2, wantPrec: 3, wantExtra: "+8"},
		{input: "21-ea", wantMajor: 21, wantPrec: 1, wantExtra: "-ea"},
		{input: `"21.0.1"`, wantMajor: 21, wantPatch: 1, wantPrec: 3},
		{input: "11.0.16.1", wantMajor: 11, wantPatch: 16, wantPrec: 3, wantExtra: ".1"},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "17..1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseJavaVersion(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseJavaVersion(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseJavaVersion(%q) unexpected error: %v", tt.input, err)
			}
			if got.Major != tt.wantMajor || got.Minor != tt.wantMinor || got.Patch != tt.wantPatch {
				t.Errorf("ParseJavaVersion(%q) = %+v", tt.input, got)
			}
			if got.Precision != tt.wantPrec {
				t.Errorf("precision = %d, want %d", got.Precision, tt.wantPrec)
			}
			if got.Extras != tt.wantExtra {
				t.Errorf("extras = %q, want %q", got.Extras, tt.wantExtra)
			}
		})
	}
}

func TestParseVersion_Errors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr error
	}{
		{"", ErrEmptyVersion},
		{"1.2.3.4", ErrTooManyComponents},
		{"a.b", ErrNonNumeric},
		{"-1", ErrNegativeComponent},
		{"1.-2", ErrNegativeComponent},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseVersion(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseVersion(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestVersion_Compare(t *testing.T) {
	tests := []struct {
		name string
		a, b Version
		want int
	}{
		{"equal", NewVersion(17, 0, 2), NewVersion(17, 0, 2), 0},
		{"older feature", NewVersion(11, 0, 20), NewVersion(17, 0, 1), -1},
		{"newer update", NewVersion(17, 0, 9), NewVersion(17, 0, 2), 1},
		{"precision limited", Version{Major: 17, Precision: 1}, NewVersion(17, 0, 9), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestVersion_AtLeastFeature(t *testing.T) {
	if MustParseJavaVersion("1.8.0_292").AtLeastFeature(9) {
		t.Error("java 8 must not satisfy feature 9")
	}
	if !MustParseJavaVersion("9").AtLeastFeature(9) {
		t.Error("java 9 must satisfy feature 9")
	}
	if !MustParseJavaVersion("21.0.1").AtLeastFeature(9) {
		t.Error("java 21 must satisfy feature 9")
	}
}

func TestVersion_String(t *testing.T) {
	if s := MustParseJavaVersion("17.0.2+8").String(); s != "17.0.2" {
		t.Errorf("String() = %q, want 17.0.2", s)
	}
	if s := MustParseJavaVersion("21").String(); s != "21" {
		t.Errorf("String() = %q, want 21", s)
	}
}
