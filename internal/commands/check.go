package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/qfxrename/internal/directive"
	"github.com/cleared-dev/qfxrename/internal/model"
)

func newCheckCommand(g *globalFlags) *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "check [rules]",
		Short: "Validate a rule file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			if match != "" {
				cfg.Match.Mode = match
			}
			log, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			path := cfg.RulesPath()
			if len(args) > 0 {
				path = args[0]
			}
			table, err := loadTable(path, cfg.Match.Mode, log)
			if err != nil {
				return err
			}

			counts := make(map[model.DirectiveKind]int)
			for _, r := range table.Rules() {
				d, err := directive.ForRule(r)
				if err != nil {
					return err
				}
				counts[d.Kind]++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rules (%s match): %d literal, %d manual review, %d no change\n",
				path, table.Len(), table.Mode(),
				counts[model.DirectiveLiteral],
				counts[model.DirectiveManualReview],
				counts[model.DirectiveNoChange])
			return nil
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "match mode: exact or contains (overrides config)")

	return cmd
}
