package commands_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/qfxrename/internal/commands"
	"github.com/cleared-dev/qfxrename/internal/config"
	"github.com/cleared-dev/qfxrename/internal/directive"
	"github.com/cleared-dev/qfxrename/internal/qfx"
	"github.com/cleared-dev/qfxrename/internal/rules"
	"github.com/cleared-dev/qfxrename/internal/safefile"
	"github.com/cleared-dev/qfxrename/internal/verify"
)

func TestExitCode(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("rewriting in.qfx: %w", err) }

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, commands.ExitOK},
		{"plain", errors.New("boom"), commands.ExitFailure},
		{"config file", &config.Error{Path: "q.yaml", Err: errors.New("bad")}, commands.ExitConfig},
		{"rule config", wrap(&rules.ConfigError{Reason: "empty match key"}), commands.ExitConfig},
		{"ambiguous", wrap(&rules.AmbiguousMatchError{Name: "X", Keys: []string{"A", "B"}}), commands.ExitConfig},
		{"unknown directive", wrap(&directive.UnknownDirectiveError{Token: "SKIP"}), commands.ExitUnknownDirective},
		{"malformed", wrap(&qfx.MalformedRecordError{Reason: "missing NAME field"}), commands.ExitMalformedRecord},
		{"write", &safefile.WriteError{Path: "o.qfx", Op: "rename", Err: errors.New("denied")}, commands.ExitWrite},
		{"verify", wrap(&verify.Error{Reason: "name mismatch"}), commands.ExitVerify},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commands.ExitCode(tt.err))
		})
	}
}
