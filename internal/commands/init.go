package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/qfxrename/internal/config"
	"github.com/cleared-dev/qfxrename/internal/model"
	"github.com/cleared-dev/qfxrename/internal/rules"
)

// exampleRules seeds a new rules.csv with one rule of each kind.
var exampleRules = []model.Rule{
	{MatchKey: "STARBUCKS #123", Replacement: "Starbucks"},
	{MatchKey: "CHECK 1021", Replacement: "<NO_CHANGE>"},
	{MatchKey: "SQ *MARKET", Replacement: "REVIEW"},
}

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter config and rule file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized qfxrename in %s\n", absDir)
			return nil
		},
	}

	return cmd
}

func runInit(dir string) error {
	cfg := config.Default()
	cfgPath := filepath.Join(dir, config.DefaultFile)
	rulesPath := filepath.Join(dir, cfg.Rules)

	// Refuse to clobber anything already there.
	for _, p := range []string{cfgPath, rulesPath} {
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("%s already exists", p)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", p, err)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	var buf bytes.Buffer
	if err := rules.WriteCSV(&buf, exampleRules); err != nil {
		return err
	}
	if err := os.WriteFile(rulesPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing rules: %w", err)
	}
	return nil
}
