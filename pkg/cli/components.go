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
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/graalvm/vmassemble/pkg/component"
	vmerrors "github.com/graalvm/vmassemble/pkg/errors"
	"github.com/graalvm/vmassemble/pkg/registry"
)

func componentsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "components",
		EnableShellCompletion: true,
		Usage:                 "List the components that win registration across suite manifests",
		Description: `Load component manifests into a registry and list the winning components.

Manifests are registered in the given order. When two suites register the same
short name, the one with the higher priority wins. Equal priorities are a
configuration conflict and fail the command.

  vmassemble components --manifest truffle.yaml --manifest vm.yaml --format table`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "manifest",
				Aliases: []string{"m"},
				Usage:   "Component manifest file (repeatable, default: manifests from the config file)",
				Sources: cli.EnvVars(envPrefix + "MANIFESTS"),
			},
			&cli.StringSliceFlag{
				Name:  "suite",
				Usage: "Only list components registered by this suite (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "kind",
				Usage: fmt.Sprintf("Only list components of this kind (supported values: %v)", component.SupportedKinds()),
			},
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(ctx, cmd)
			if err != nil {
				return err
			}
			cfg := configFrom(ctx)

			manifests := cmd.StringSlice("manifest")
			if len(manifests) == 0 {
				manifests = cfg.ManifestPaths()
			}
			if len(manifests) == 0 {
				return vmerrors.New(vmerrors.ErrCodeInvalidRequest,
					"no component manifests given, use --manifest or the manifests config key")
			}

			reg, err := loadRegistry(manifests)
			if err != nil {
				return err
			}

			suites := cmd.StringSlice("suite")
			if len(suites) == 0 {
				suites = cfg.Suites
			}
			filters := []registry.Filter{registry.InSuites(suites...)}

			if kindNames := cmd.StringSlice("kind"); len(kindNames) > 0 {
				kinds := make([]component.Kind, 0, len(kindNames))
				for _, k := range kindNames {
					kind, err := component.ParseKind(k)
					if err != nil {
						return err
					}
					kinds = append(kinds, kind)
				}
				filters = append(filters, registry.OfKind(kinds...))
			}

			list := component.List(reg.List(filters...))
			slog.Debug("listing components",
				"registered", reg.Len(),
				"listed", len(list))

			return writeOutput(ctx, outFormat, cmd.String("output"), list)
		},
	}
}

// loadRegistry registers every manifest in order and freezes the registry.
func loadRegistry(paths []string) (*registry.Registry, error) {
	reg := registry.New(registry.WithLogger(slog.Default()))
	for _, p := range paths {
		m, err := component.LoadManifest(p)
		if err != nil {
			return nil, err
		}
		if err := reg.RegisterAll(m); err != nil {
			return nil, err
		}
	}
	reg.Freeze()
	return reg, nil
}
