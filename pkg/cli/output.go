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

	"github.com/graalvm/vmassemble/pkg/serializer"
)

// Flags keep parse state, so every command gets its own instances.

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format (supported values: %v)", serializer.SupportedFormats()),
		Sources: cli.EnvVars(envPrefix + "FORMAT"),
	}
}

// parseOutputFormat returns the --format value, falling back to the config.
func parseOutputFormat(ctx context.Context, cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(configFrom(ctx).Format)
	if cmd.IsSet("format") {
		f = serializer.Format(cmd.String("format"))
	}
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported values: %v", f, serializer.SupportedFormats())
	}
	return f, nil
}

// writeOutput serializes v to path, or to stdout when path is empty.
func writeOutput(ctx context.Context, format serializer.Format, path string, v any) error {
	ser := serializer.NewFileWriterOrStdout(format, path)
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()
	return ser.Serialize(ctx, v)
}
