// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/pais-dev/pais/internal/plugin"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the plugin manifest JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := plugin.GenerateSchema()
			if err != nil {
				return withExitCode(1, err)
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err //nolint:wrapcheck // terminal write error
		},
	}
}
