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
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/graalvm/vmassemble/pkg/checksum"
	"github.com/graalvm/vmassemble/pkg/composer"
	"github.com/graalvm/vmassemble/pkg/defaults"
	"github.com/graalvm/vmassemble/pkg/header"
	"github.com/graalvm/vmassemble/pkg/jdk"
	"github.com/graalvm/vmassemble/pkg/module"
	"github.com/graalvm/vmassemble/pkg/oci"
)

// composeReport is written after a successful composition.
type composeReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Result    *composer.Result `json:"result" yaml:"result"`
	Checksums int              `json:"checksums,omitempty" yaml:"checksums,omitempty"`
	Push      *oci.PushResult  `json:"push,omitempty" yaml:"push,omitempty"`
}

type composeOptions struct {
	javaHome    string
	destination string
	modules     []string
	roots       []string
	checksums   bool
	push        *oci.Reference
	plainHTTP   bool
	insecureTLS bool
	metricsFile string
	report      string
}

func parseComposeOptions(cmd *cli.Command) (*composeOptions, error) {
	opts := &composeOptions{
		javaHome:    cmd.String("java-home"),
		destination: cmd.String("output"),
		modules:     cmd.StringSlice("module"),
		checksums:   cmd.Bool("checksums"),
		plainHTTP:   cmd.Bool("plain-http"),
		insecureTLS: cmd.Bool("insecure-tls"),
		metricsFile: cmd.String("metrics-file"),
		report:      cmd.String("report"),
	}

	// an unset --root composes every available module
	if cmd.IsSet("root") {
		opts.roots = cmd.StringSlice("root")
	}

	if target := cmd.String("push"); target != "" {
		ref, err := oci.ParseOutputTarget(target)
		if err != nil {
			return nil, err
		}
		opts.push = ref
	}
	return opts, nil
}

func composeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "compose",
		EnableShellCompletion: true,
		Usage:                 "Compose a runtime image from a base runtime and module distributions",
		Description: `Link a new runtime image with jlink from a base runtime plus module
distributions, then generate its CDS archive.

A module distribution is a name from the resolver table of the config file,
a path to a .jar or .jmod file, or "name=path".

  vmassemble compose --java-home /usr/lib/jvm/graalvm-21 --output ./image \
    --module GRAAL_SDK --module dists/truffle-api.jar \
    --root org.graalvm.truffle --checksums \
    --push oci://ghcr.io/acme/graalvm-runtime:21`,
		Flags: []cli.Flag{
			javaHomeFlag(),
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Destination directory of the image; must not contain an image already",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "module",
				Usage: "Module distribution to add to the module path (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "root",
				Usage: "Root module of the image (repeatable, default: every available module)",
			},
			&cli.BoolFlag{
				Name:  "checksums",
				Usage: "Write checksums.txt into the image",
			},
			&cli.StringFlag{
				Name:    "push",
				Usage:   "Push the image as an OCI artifact (oci://registry/repository[:tag], tag defaults to the runtime version)",
				Sources: cli.EnvVars(envPrefix + "PUSH"),
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the registry connection",
			},
			&cli.BoolFlag{
				Name:  "insecure-tls",
				Usage: "Skip TLS certificate verification of the registry",
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write Prometheus metrics in text format to this file on exit",
				Sources: cli.EnvVars(envPrefix + "METRICS_FILE"),
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write the composition report to this file (default: stdout)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(ctx, cmd)
			if err != nil {
				return err
			}
			opts, err := parseComposeOptions(cmd)
			if err != nil {
				return err
			}

			if opts.metricsFile != "" {
				defer func() {
					if mErr := prometheus.WriteToTextfile(opts.metricsFile, prometheus.DefaultGatherer); mErr != nil {
						slog.Warn("failed to write metrics file", "path", opts.metricsFile, "error", mErr)
					}
				}()
			}

			report, err := runCompose(ctx, configFrom(ctx).ModuleResolver(), opts)
			if err != nil {
				return err
			}
			return writeOutput(ctx, outFormat, opts.report, report)
		},
	}
}

func runCompose(ctx context.Context, r module.Resolver, opts *composeOptions) (*composeReport, error) {
	runner := newRunner()
	rt, err := jdk.Open(opts.javaHome,
		jdk.WithRunner(runner),
		jdk.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}

	res, err := composer.New(r, composer.WithLogger(slog.Default())).ComposeImage(ctx, composer.Request{
		Runtime:             rt,
		Destination:         opts.destination,
		ModuleDistributions: opts.modules,
		RootModules:         opts.roots,
	})
	if err != nil {
		return nil, err
	}
	report := &composeReport{Result: res}
	report.Init(header.KindCompositionReport, header.APIVersion, version)

	if opts.checksums {
		entries, err := checksum.GenerateForDir(ctx, res.Destination)
		if err != nil {
			return nil, err
		}
		report.Checksums = len(entries)
	}

	if opts.push != nil {
		tag := rt.Version.String() + rt.Version.Extras
		pushCtx, cancel := context.WithTimeout(ctx, defaults.OCIPushTimeout)
		defer cancel()

		pushed, err := oci.Push(pushCtx, oci.PushOptions{
			SourceDir:   res.Destination,
			Reference:   opts.push.TagOrDefault(tag),
			Version:     tag,
			PlainHTTP:   opts.plainHTTP,
			InsecureTLS: opts.insecureTLS,
			Annotations: map[string]string{
				"org.graalvm.vmassemble.root-modules": strings.Join(res.RootModules, ","),
			},
		})
		if err != nil {
			return nil, err
		}
		report.Push = pushed
	}

	return report, nil
}
