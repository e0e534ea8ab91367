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

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/graalvm/vmassemble/pkg/composer"
	"github.com/graalvm/vmassemble/pkg/header"
	"github.com/graalvm/vmassemble/pkg/jdk"
)

func javaHomeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "java-home",
		Usage:    "Base runtime directory",
		Required: true,
		Sources:  cli.EnvVars(envPrefix+"JAVA_HOME", "JAVA_HOME"),
	}
}

// probeReport describes a probed base runtime.
type probeReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Home                  string   `json:"home" yaml:"home"`
	Version               string   `json:"version" yaml:"version"`
	Linkable              bool     `json:"linkable" yaml:"linkable"`
	NotLinkableReason     string   `json:"notLinkableReason,omitempty" yaml:"notLinkableReason,omitempty"`
	JVMCIEnabledByDefault bool     `json:"jvmciEnabledByDefault" yaml:"jvmciEnabledByDefault"`
	Modules               []string `json:"modules" yaml:"modules"`
}

func probeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "probe",
		EnableShellCompletion: true,
		Usage:                 "Inspect a base runtime",
		Description: `Read the version and module list of a base runtime and ask its VM
whether JVMCI is enabled by default.

  vmassemble probe --java-home /usr/lib/jvm/graalvm-21 --format json`,
		Flags: []cli.Flag{
			javaHomeFlag(),
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(ctx, cmd)
			if err != nil {
				return err
			}

			rt, err := jdk.Open(cmd.String("java-home"),
				jdk.WithRunner(newRunner()),
				jdk.WithLogger(slog.Default()))
			if err != nil {
				return err
			}

			jvmci, err := rt.EnablesJVMCIByDefault(ctx)
			if err != nil {
				return err
			}

			report := probeReport{
				Home:                  rt.Home,
				Version:               rt.Version.String() + rt.Version.Extras,
				Linkable:              true,
				JVMCIEnabledByDefault: jvmci,
				Modules:               rt.Modules,
			}
			if err := composer.CheckLinkable(rt); err != nil {
				report.Linkable = false
				report.NotLinkableReason = err.Error()
			}
			report.Init(header.KindRuntimeProbe, header.APIVersion, version)

			return writeOutput(ctx, outFormat, cmd.String("output"), report)
		},
	}
}
