// Package cli implements the crm command line. Without a subcommand it
// starts the terminal UI.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/crm/internal/kv"
	"github.com/tgienger/crm/internal/store"
)

// BuildInfo is set via ldflags in cmd/crm.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("crm %s (commit: %s, built: %s)", b.Version, b.Commit, b.Date)
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// backend and clock replace the configured storage and the wall clock.
	backend kv.Store
	clock   store.Clock
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the crm CLI.
func NewRootCommand(info BuildInfo) *cobra.Command {
	return newRootCommand(&RootOptions{}, info)
}

func newRootCommand(opts *RootOptions, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "crm",
		Short:   "Track customers and the tasks that come with them",
		Long:    "A single-user customer relationship manager with a terminal UI, a CLI and a local JSON API.",
		Version: info.String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: ./config.yaml or $XDG_CONFIG_HOME/crm/config.yaml)")

	cmd.AddCommand(NewCustomersCommand(opts))
	cmd.AddCommand(NewTasksCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewActivityCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts, info))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
