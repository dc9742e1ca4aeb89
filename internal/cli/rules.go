package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/mspdash/internal/config"
	"github.com/JonMunkholm/mspdash/internal/core"
)

// NewRulesCommand creates the rules command.
func NewRulesCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the active client name rules",
		Long: `Print the client name rule table in the layout read from CLIENT_RULES_FILE.

With no rules file configured this is the built-in table, which makes a
starting point for a custom one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadRules(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return core.WriteRules(cmd.OutOrStdout(), rules)
		},
	}
}

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <name>...",
		Short: "Show the canonical client name for each argument",
		Long: `Print each argument and the client name it normalizes to, separated by a tab.
Use it to check how a company name from an export will be grouped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadRules(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range args {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", name, rules.Normalize(name)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
