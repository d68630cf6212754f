// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PAIS Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pais-dev/pais/internal/config"
	"github.com/pais-dev/pais/internal/logging"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	configFile string
	deps       *Deps
	cfg        *config.Config
	logger     *slog.Logger
}

// NewRootCmd creates the root command for the pais CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmdWithDeps(nil)
}

func newRootCmdWithDeps(deps *Deps) *cobra.Command {
	a := &app{deps: deps.withDefaults()}

	cmd := &cobra.Command{
		Use:   "pais",
		Short: "pais - a hook dispatcher for AI coding assistants",
		Long: `pais discovers plugin packages, wires the contracts they provide and
consume, prepares their artifacts, and dispatches assistant lifecycle hooks
to their handlers. A handler that exits 2 on a blockable event blocks the
assistant's action.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	defaults := config.Defaults()
	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file path")
	flags.StringSlice("plugin-dirs", defaults.PluginDirs, "plugin root directories, searched in order")
	flags.String("log-format", defaults.LogFormat, "log format (json or text)")
	flags.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error)")
	flags.Duration("default-timeout", defaults.DefaultTimeout, "handler timeout when a binding sets none")
	flags.Duration("build-timeout", defaults.BuildTimeout, "timeout for each check or build command")

	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newVerifyCmd(a))
	cmd.AddCommand(newDispatchCmd(a))
	cmd.AddCommand(newHooksCmd(a))
	cmd.AddCommand(newSchemaCmd())

	return cmd
}

// setup loads configuration and installs the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.Source{Path: a.configFile, Flags: cmd.Flags()})
	if err != nil {
		return withExitCode(1, err)
	}
	a.cfg = cfg
	a.logger = logging.Setup("pais", version, cfg.LogFormat, cfg.LogLevel, cmd.ErrOrStderr())
	slog.SetDefault(a.logger)
	return nil
}
