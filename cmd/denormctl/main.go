/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// denormctl runs the denormalised-username maintenance operations against a
// database described by a YAML config file, for operators without access to
// the owning application's model types.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/denormfield"
	"github.com/suparena/denormfield/config"
	"github.com/suparena/denormfield/datastore/sqlds"
)

var (
	configPath string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "denormctl",
		Short:         "Maintain denormalised username columns",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "denorm.yaml", "path to the config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(lintCmd(), renameCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newMaintainer() (*denormfield.Maintainer, *sqlds.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}

	opts := []sqlds.Option{
		sqlds.WithLogger(logger),
		sqlds.WithUsersTable(cfg.Users.Table, cfg.Users.IDColumn, cfg.Users.UsernameColumn),
	}
	for _, b := range cfg.Bindings {
		if b.KeyColumn != "" {
			opts = append(opts, sqlds.WithKeyColumn(b.Table, b.KeyColumn))
		}
	}

	store, err := sqlds.Open(cfg.Database.Driver, cfg.Database.DSN, opts...)
	if err != nil {
		return nil, nil, err
	}

	reg, err := cfg.Registry()
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	return denormfield.NewMaintainer(store, reg, denormfield.WithLogger(logger)), store, nil
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func lintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Report denormalised usernames that drifted from the canonical value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, store, err := newMaintainer()
			if err != nil {
				return err
			}
			defer store.Close()

			issues, err := m.Lint(cmd.Context())
			if err != nil {
				return err
			}
			if len(issues) == 0 {
				fmt.Println("All denormalised usernames are in sync.")
				return nil
			}

			for _, issue := range issues {
				fmt.Printf("W: %d %s.%s row(s) have stale usernames: %s\n",
					issue.Count(), issue.Table, issue.Target, strings.Join(issue.Keys, ", "))
			}
			return fmt.Errorf("%d binding(s) out of sync", len(issues))
		},
	}
}

func renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <user-id> <new-username>",
		Short: "Propagate a username change to every denormalised copy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, store, err := newMaintainer()
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := m.RenameUsername(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			for _, u := range result.Updates {
				fmt.Printf("updated %d row(s) in %s.%s\n", u.Rows, u.Table, u.Target)
			}
			fmt.Printf("canonical username for %s is now %q\n", result.UserID, result.Username)
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := denormfield.GetVersionInfo()
			fmt.Printf("denormctl version %s\n", info.Version)
			fmt.Printf("Git commit: %s\n", info.GitCommit)
			fmt.Printf("Build date: %s\n", info.BuildDate)
			fmt.Printf("Go version: %s\n", info.GoVersion)
		},
	}
}
