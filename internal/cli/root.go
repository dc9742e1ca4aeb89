// Package cli defines the builddata command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/mspdash/internal/config"
)

// NewRootCommand creates the builddata command. Run without a subcommand it
// builds the dashboard data file. Flags override the values in cfg.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "builddata",
		Short: "Build the MSP dashboard data file",
		Long: `Read the per-client user lists and the device export from the data
directory and write them as a script the dashboard loads.

Settings come from the environment or a .env file. Flags take precedence.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // main logs the error with its support code
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runBuild(cmd.Context(), cfg)
			return err
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.Data.Dir, "data-dir", cfg.Data.Dir, "directory holding the CSV exports")
	flags.StringVar(&cfg.Rules.File, "rules", cfg.Rules.File, "YAML client rule table replacing the built-in one")
	cmd.Flags().StringVarP(&cfg.Output.Path, "output", "o", cfg.Output.Path, "output script path")

	cmd.AddCommand(NewRulesCommand(cfg))
	cmd.AddCommand(NewNormalizeCommand(cfg))

	return cmd
}
