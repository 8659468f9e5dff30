package commands

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/qfxrename/internal/config"
	"github.com/cleared-dev/qfxrename/internal/logging"
	"github.com/cleared-dev/qfxrename/internal/pipeline"
	"github.com/cleared-dev/qfxrename/internal/report"
	"github.com/cleared-dev/qfxrename/internal/rewriter"
	"github.com/cleared-dev/qfxrename/internal/rules"
	"github.com/cleared-dev/qfxrename/internal/safefile"
)

// rewriteFlags are the flags shared by rewrite and batch.
type rewriteFlags struct {
	rules          string
	match          string
	suffix         string
	missing        string
	titleUnmatched bool
	dryRun         bool
	noVerify       bool
}

func (f *rewriteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.rules, "rules", "", "rule file, .csv or .yaml (overrides config)")
	cmd.Flags().StringVar(&f.match, "match", "", "match mode: exact or contains (overrides config)")
	cmd.Flags().StringVar(&f.suffix, "suffix", "", "output file suffix (overrides config)")
	cmd.Flags().StringVar(&f.missing, "missing", "", "write names without a rule as CSV to this file, or - for stdout")
	cmd.Flags().BoolVar(&f.titleUnmatched, "title-unmatched", false, "title-case names without a rule")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "run without writing output")
	cmd.Flags().BoolVar(&f.noVerify, "no-verify", false, "skip re-parsing the output as OFX")
}

// loadConfig resolves the config file and applies the global flag overrides.
func loadConfig(cmd *cobra.Command, g *globalFlags) (*config.Config, error) {
	cfg, err := config.Resolve(g.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*logrus.Logger, error) {
	return logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
}

func loadTable(path string, mode string, log logrus.FieldLogger) (*rules.Table, error) {
	if path == "" {
		return nil, &rules.ConfigError{Reason: "no rule file configured"}
	}
	m, err := rules.ParseMatchMode(mode)
	if err != nil {
		return nil, &rules.ConfigError{Path: path, Reason: "invalid match mode", Err: err}
	}
	return rules.Load(path, m, log)
}

// rewriteEnv is everything a rewrite needs, built from config and flags.
type rewriteEnv struct {
	cfg *config.Config
	log *logrus.Logger
	svc *rewriter.Service
}

func setupRewrite(cmd *cobra.Command, g *globalFlags, f *rewriteFlags) (*rewriteEnv, error) {
	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return nil, err
	}
	if f.rules != "" {
		cfg.Rules = f.rules
	}
	if f.match != "" {
		cfg.Match.Mode = f.match
	}
	if f.suffix != "" {
		cfg.Output.Suffix = f.suffix
	}
	if cmd.Flags().Changed("title-unmatched") {
		cfg.Match.TitleUnmatched = f.titleUnmatched
	}
	if f.noVerify {
		cfg.Output.Verify = false
	}

	log, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}
	rulesPath := cfg.RulesPath()
	if f.rules != "" {
		rulesPath = f.rules
	}
	table, err := loadTable(rulesPath, cfg.Match.Mode, log)
	if err != nil {
		return nil, err
	}

	svc := rewriter.NewService(table, rewriter.Options{
		Pipeline: pipeline.Options{TitleUnmatched: cfg.Match.TitleUnmatched},
		Verify:   cfg.Output.Verify,
		DryRun:   f.dryRun,
	}, log)
	return &rewriteEnv{cfg: cfg, log: log, svc: svc}, nil
}

// writeMissing reports names without a rule: as CSV to dest ("-" for
// stdout), or as suggested rule lines when dest is empty.
func writeMissing(cmd *cobra.Command, dest string, rows []report.MissingRule) error {
	switch dest {
	case "":
		if len(rows) == 0 {
			return nil
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Add the following to your rules list:")
		for _, r := range rows {
			fmt.Fprintf(out, "%s,%s\n", csvQuote(r.SearchText), csvQuote(r.Replacement))
		}
		return nil
	case "-":
		return report.WriteMissing(cmd.OutOrStdout(), rows)
	default:
		var buf bytes.Buffer
		if err := report.WriteMissing(&buf, rows); err != nil {
			return err
		}
		return safefile.Write(dest, buf.Bytes())
	}
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
