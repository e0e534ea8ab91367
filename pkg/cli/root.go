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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/graalvm/vmassemble/pkg/config"
	"github.com/graalvm/vmassemble/pkg/logging"
	"github.com/graalvm/vmassemble/pkg/process"
)

const (
	name           = "vmassemble"
	versionDefault = "dev"
	envPrefix      = "VMASSEMBLE_"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// newRunner creates the runner for external tools.
var newRunner = func() process.Runner {
	return process.NewExecRunner()
}

type configKey struct{}

// Execute runs the CLI with os.Args and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 2
	}
	return 1
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Register GraalVM components and compose runtime images",
		Version:               version,
		EnableShellCompletion: true,
		Description: fmt.Sprintf(`vmassemble - GraalVM runtime image assembly

Version: %s
Commit:  %s
Built:   %s

components - resolves component registrations of build suites by priority
probe      - inspects a base runtime
compose    - links a new runtime image with jlink and dumps its CDS archive`, version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   fmt.Sprintf("Config file (default is ./%s when present)", config.DefaultFileName),
				Sources: cli.EnvVars(envPrefix + "CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars(envPrefix+"LOG_LEVEL", logging.EnvLogLevel),
			},
			formatFlag(),
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return ctx, err
			}

			level := cfg.LogLevel
			if cmd.IsSet("log-level") {
				level = cmd.String("log-level")
			}
			logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
				"config", cfg.Path(),
				"logLevel", level)

			return context.WithValue(ctx, configKey{}, cfg), nil
		},
		Commands: []*cli.Command{
			componentsCmd(),
			probeCmd(),
			composeCmd(),
			versionCmd(),
		},
	}
}

// configFrom returns the config loaded by the root command.
func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.Default()
}
