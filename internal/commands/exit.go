package commands

import (
	"errors"

	"github.com/cleared-dev/qfxrename/internal/config"
	"github.com/cleared-dev/qfxrename/internal/directive"
	"github.com/cleared-dev/qfxrename/internal/qfx"
	"github.com/cleared-dev/qfxrename/internal/rules"
	"github.com/cleared-dev/qfxrename/internal/safefile"
	"github.com/cleared-dev/qfxrename/internal/verify"
)

// Process exit codes.
const (
	ExitOK               = 0
	ExitFailure          = 1
	ExitConfig           = 2
	ExitUnknownDirective = 3
	ExitMalformedRecord  = 4
	ExitWrite            = 5
	ExitVerify           = 6
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		fileErr      *config.Error
		configErr    *rules.ConfigError
		ambiguousErr *rules.AmbiguousMatchError
		directiveErr *directive.UnknownDirectiveError
		recordErr    *qfx.MalformedRecordError
		writeErr     *safefile.WriteError
		verifyErr    *verify.Error
	)
	switch {
	case errors.As(err, &directiveErr):
		return ExitUnknownDirective
	case errors.As(err, &fileErr), errors.As(err, &configErr), errors.As(err, &ambiguousErr):
		return ExitConfig
	case errors.As(err, &recordErr):
		return ExitMalformedRecord
	case errors.As(err, &writeErr):
		return ExitWrite
	case errors.As(err, &verifyErr):
		return ExitVerify
	default:
		return ExitFailure
	}
}
