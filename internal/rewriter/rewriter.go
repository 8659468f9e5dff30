// Package rewriter runs the rename pipeline over export files on disk.
package rewriter

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/qfxrename/internal/logging"
	"github.com/cleared-dev/qfxrename/internal/model"
	"github.com/cleared-dev/qfxrename/internal/pipeline"
	"github.com/cleared-dev/qfxrename/internal/safefile"
	"github.com/cleared-dev/qfxrename/internal/verify"
)

// Options control a rewrite.
type Options struct {
	Pipeline pipeline.Options
	// Verify re-parses the output as OFX before it is written.
	Verify bool
	// DryRun runs everything except the write.
	DryRun bool
}

// Service rewrites files with a fixed rule table.
type Service struct {
	pipeline *pipeline.Pipeline
	opts     Options
	log      logrus.FieldLogger
}

// NewService creates a rewriter Service.
func NewService(rules pipeline.RuleLookup, opts Options, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{
		pipeline: pipeline.New(rules, opts.Pipeline, log),
		opts:     opts,
		log:      log,
	}
}

// RewriteFile reads in, applies the rules and writes the result to out.
// Nothing is written if any step fails.
func (s *Service) RewriteFile(in, out string) (*pipeline.Result, error) {
	log := s.log.WithFields(logrus.Fields{
		logging.FieldInputFile:  in,
		logging.FieldOutputFile: out,
	})

	data, err := os.ReadFile(in)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", in, err)
	}

	res, err := s.pipeline.Run(data)
	if err != nil {
		return nil, fmt.Errorf("rewriting %s: %w", in, err)
	}

	if s.opts.Verify {
		if err := verify.Output(res.Output, res.Records()); err != nil {
			return nil, fmt.Errorf("rewriting %s: %w", in, err)
		}
	}

	if s.opts.DryRun {
		log.Info("Dry run, output not written")
	} else if err := safefile.Write(out, res.Output); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		logging.FieldCount: len(res.Entries),
		"renamed":          res.Count(model.OutcomeRenamed),
		"title_cased":      res.Count(model.OutcomeTitleCased),
		"no_change":        res.Count(model.OutcomeExplicitNoChange),
		"needs_review":     res.Count(model.OutcomeNeedsManualReview),
		"unmatched":        res.Count(model.OutcomeUnmatched),
	}).Info("Rewrote transaction names")
	return res, nil
}
