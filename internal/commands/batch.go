package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/qfxrename/internal/exports"
	"github.com/cleared-dev/qfxrename/internal/logging"
	"github.com/cleared-dev/qfxrename/internal/pipeline"
	"github.com/cleared-dev/qfxrename/internal/report"
)

func newBatchCommand(g *globalFlags) *cobra.Command {
	var f rewriteFlags
	var archive string

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Rewrite every QFX/OFX export in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setupRewrite(cmd, g, &f)
			if err != nil {
				return err
			}

			files, err := exports.Scan(args[0], env.cfg.Output.Suffix)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No export files found in %s\n", args[0])
				return nil
			}

			var entries []pipeline.Entry
			for _, file := range files {
				out := exports.OutputPath(file.Path, env.cfg.Output.Suffix)
				res, err := env.svc.RewriteFile(file.Path, out)
				if err != nil {
					return err
				}
				printSummary(cmd, out, res, f.dryRun)
				entries = append(entries, res.Entries...)

				if archive != "" && !f.dryRun {
					if err := exports.Archive(file.Path, archive); err != nil {
						return err
					}
				}
			}
			env.log.WithField(logging.FieldCount, len(files)).Info("Batch complete")

			return writeMissing(cmd, f.missing, report.Missing(entries))
		},
	}

	f.register(cmd)
	cmd.Flags().StringVar(&archive, "archive", "", "move each input into this directory after it is rewritten")

	return cmd
}
