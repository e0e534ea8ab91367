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

// Package serializer reads and writes structured data as JSON, YAML or text tables.
//
// Writing:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, outPath)
//	defer w.Close()
//	if err := w.Serialize(ctx, components); err != nil {
//	    return err
//	}
//
// Values implementing Tabular render one row per element in table format;
// any other value is flattened into FIELD/VALUE pairs.
//
// Reading:
//
//	manifest, err := serializer.FromFile[component.Manifest]("suites.yaml")
//
// The format is taken from the file extension (.json, .yaml, .yml). Decoding
// rejects unknown fields. Table format is write-only.
package serializer
