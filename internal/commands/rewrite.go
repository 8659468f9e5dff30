package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/qfxrename/internal/exports"
	"github.com/cleared-dev/qfxrename/internal/model"
	"github.com/cleared-dev/qfxrename/internal/pipeline"
	"github.com/cleared-dev/qfxrename/internal/report"
)

func newRewriteCommand(g *globalFlags) *cobra.Command {
	var f rewriteFlags
	var output string

	cmd := &cobra.Command{
		Use:   "rewrite <input>",
		Short: "Rewrite the transaction names of one QFX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setupRewrite(cmd, g, &f)
			if err != nil {
				return err
			}

			in := args[0]
			out := output
			if out == "" {
				out = exports.OutputPath(in, env.cfg.Output.Suffix)
			}

			res, err := env.svc.RewriteFile(in, out)
			if err != nil {
				return err
			}
			printSummary(cmd, out, res, f.dryRun)
			return writeMissing(cmd, f.missing, report.Missing(res.Entries))
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name plus suffix)")

	return cmd
}

func printSummary(cmd *cobra.Command, out string, res *pipeline.Result, dryRun bool) {
	verb := "Wrote"
	if dryRun {
		verb = "Would write"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d transactions, %d renamed, %d need review, %d without a rule\n",
		verb, out, len(res.Entries),
		res.Count(model.OutcomeRenamed)+res.Count(model.OutcomeTitleCased),
		res.Count(model.OutcomeNeedsManualReview),
		res.Count(model.OutcomeUnmatched)+res.Count(model.OutcomeTitleCased))
}
