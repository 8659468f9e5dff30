package commands_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/qfxrename/internal/commands"
	"github.com/cleared-dev/qfxrename/internal/rules"
)

func TestRewrite_DefaultOutput(t *testing.T) {
	dir := t.TempDir()
	in := copyFixture(t, dir, "checking.qfx")

	out, stderr, err := runQFX(t, "rewrite", in, "--rules", fixtureRules)
	require.NoError(t, err, stderr)

	outPath := filepath.Join(dir, "checking_modified.qfx")
	assert.Contains(t, out, "Wrote "+outPath+": 8 transactions, 2 renamed, 2 need review, 3 without a rule")
	assert.Contains(t, out, "Add the following to your rules list:\n")
	assert.Contains(t, out, `"ACME PAYROLL","<NO_CHANGE>"`)
	assert.Contains(t, out, `"SHELL OIL 5744","<NO_CHANGE>"`)

	got := readFile(t, outPath)
	assert.Contains(t, got, "<NAME>Coffee Shop\n")
	assert.Contains(t, got, "<NAME>GROCERY STORE\n")
	assert.Contains(t, got, "<NAME>CHECK 1021\n")
	assert.Contains(t, got, "<NAME>AT&amp;T\n")
	assert.Contains(t, got, "<NAME>SHELL OIL 5744\n")

	assert.Contains(t, stderr, "Rewrote transaction names")
	assert.Contains(t, stderr, "Name needs manual review")

	// Input untouched.
	assert.Equal(t, readFile(t, fixtureQFX), readFile(t, in))
}

func TestRewrite_OutputFlag(t *testing.T) {
	dir := t.TempDir()
	in := copyFixture(t, dir, "checking.qfx")
	outPath := filepath.Join(dir, "clean.qfx")

	_, _, err := runQFX(t, "rewrite", in, "--rules", fixtureRules, "-o", outPath)
	require.NoError(t, err)
	assert.FileExists(t, outPath)
	assert.NoFileExists(t, filepath.Join(dir, "checking_modified.qfx"))
}

func TestRewrite_MissingToStdout(t *testing.T) {
	in := copyFixture(t, t.TempDir(), "checking.qfx")

	out, _, err := runQFX(t, "rewrite", in, "--rules", fixtureRules, "--missing", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "SearchText,Replacement,Occurrences,Total\n")
	assert.Contains(t, out, "ACME PAYROLL,<NO_CHANGE>,1,2500.00\n")
	assert.Contains(t, out, "SHELL OIL 5744,<NO_CHANGE>,2,-80.00\n")
	assert.NotContains(t, out, "Add the following")
}

func TestRewrite_MissingToFile(t *testing.T) {
	dir := t.TempDir()
	in := copyFixture(t, dir, "checking.qfx")
	missing := filepath.Join(dir, "missing.csv")

	_, _, err := runQFX(t, "rewrite", in, "--rules", fixtureRules, "--missing", missing)
	require.NoError(t, err)

	table, err := rules.Load(missing, rules.MatchExact, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestRewrite_DryRun(t *testing.T) {
	dir := t.TempDir()
	in := copyFixture(t, dir, "checking.qfx")

	out, _, err := runQFX(t, "rewrite", in, "--rules", fixtureRules, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Would write ")
	assert.NoFileExists(t, filepath.Join(dir, "checking_modified.qfx"))
}

func TestRewrite_TitleUnmatched(t *testing.T) {
	dir := t.TempDir()
	in := copyFixture(t, dir, "checking.qfx")

	_, _, err := runQFX(t, "rewrite", in, "--rules", fixtureRules, "--title-unmatched")
	require.NoError(t, err)

	got := readFile(t, filepath.Join(dir, "checking_modified.qfx"))
	assert.Contains(t, got, "<NAME>Acme Payroll\n")
	assert.Contains(t, got, "<NAME>Shell Oil 5744\n")
	assert.Contains(t, got, "<NAME>CHECK 1021\n")
}

func TestRewrite_ContainsMode(t *testing.T) {
	dir := t.TempDir()
	in := copyFixture(t, dir, "checking.qfx")
	rulesPath := writeFile(t, filepath.Join(dir, "rules.yaml"), "rules:\n  - match: SHELL\n    replacement: Shell\n  - match: PAYROLL\n    replacement: Payroll\n")

	_, _, err := runQFX(t, "rewrite", in, "--rules", rulesPath, "--match", "contains")
	require.NoError(t, err)

	got := readFile(t, filepath.Join(dir, "checking_modified.qfx"))
	assert.Equal(t, 2, strings.Count(got, "<NAME>Shell\n"))
	assert.Contains(t, got, "<NAME>Payroll\n")
}

func TestRewrite_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	in := copyFixture(t, dir, "checking.qfx")
	data, err := os.ReadFile(fixtureRules)
	require.NoError(t, err)
	writeFile(t, filepath.Join(dir, "my-rules.csv"), string(data))
	cfgPath := writeFile(t, filepath.Join(dir, "qfxrename.yaml"), "rules: my-rules.csv\noutput:\n  suffix: .clean\n")

	_, _, err = runQFX(t, "--config", cfgPath, "rewrite", in)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(dir, "checking.clean.qfx")), "<NAME>Coffee Shop\n")
}

func TestRewrite_JSONDebugLogs(t *testing.T) {
	in := copyFixture(t, t.TempDir(), "checking.qfx")

	_, stderr, err := runQFX(t, "--log-level", "debug", "--log-format", "json", "rewrite", in, "--rules", fixtureRules, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"Renamed transaction"`)
	assert.Contains(t, stderr, `"new_name":"Coffee Shop"`)
}

func TestRewrite_ExitCodes(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string) []string
		want  int
	}{
		{
			name: "missing rule file",
			setup: func(t *testing.T, dir string) []string {
				in := copyFixture(t, dir, "checking.qfx")
				return []string{"rewrite", in, "--rules", filepath.Join(dir, "nope.csv")}
			},
			want: commands.ExitConfig,
		},
		{
			name: "missing explicit config",
			setup: func(t *testing.T, dir string) []string {
				in := copyFixture(t, dir, "checking.qfx")
				return []string{"--config", filepath.Join(dir, "nope.yaml"), "rewrite", in, "--rules", fixtureRules}
			},
			want: commands.ExitConfig,
		},
		{
			name: "ambiguous contains match",
			setup: func(t *testing.T, dir string) []string {
				in := copyFixture(t, dir, "checking.qfx")
				r := writeFile(t, filepath.Join(dir, "rules.csv"), "SearchText,Replacement\nSHELL,Shell\nOIL,Oil\n")
				return []string{"rewrite", in, "--rules", r, "--match", "contains"}
			},
			want: commands.ExitConfig,
		},
		{
			name: "unknown directive",
			setup: func(t *testing.T, dir string) []string {
				in := copyFixture(t, dir, "checking.qfx")
				r := writeFile(t, filepath.Join(dir, "rules.csv"), "SearchText,Replacement\nSHELL OIL 5744,<DELETE>\n")
				return []string{"rewrite", in, "--rules", r}
			},
			want: commands.ExitUnknownDirective,
		},
		{
			name: "malformed record",
			setup: func(t *testing.T, dir string) []string {
				in := writeFile(t, filepath.Join(dir, "bad.qfx"), "<STMTTRN>\n<TRNAMT>1.00\n</STMTTRN>\n")
				return []string{"rewrite", in, "--rules", fixtureRules}
			},
			want: commands.ExitMalformedRecord,
		},
		{
			name: "unwritable output",
			setup: func(t *testing.T, dir string) []string {
				in := copyFixture(t, dir, "checking.qfx")
				return []string{"rewrite", in, "--rules", fixtureRules, "-o", filepath.Join(dir, "no", "such", "dir", "out.qfx")}
			},
			want: commands.ExitWrite,
		},
		{
			name: "output fails verification",
			setup: func(t *testing.T, dir string) []string {
				in := writeFile(t, filepath.Join(dir, "plain.qfx"), "<STMTTRN>\n<NAME>STARBUCKS #123\n</STMTTRN>\n")
				return []string{"rewrite", in, "--rules", fixtureRules}
			},
			want: commands.ExitVerify,
		},
		{
			name: "missing input",
			setup: func(t *testing.T, dir string) []string {
				return []string{"rewrite", filepath.Join(dir, "nope.qfx"), "--rules", fixtureRules}
			},
			want: commands.ExitFailure,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, _, err := runQFX(t, tt.setup(t, dir)...)
			require.Error(t, err)
			assert.Equal(t, tt.want, commands.ExitCode(err), err.Error())

			matches, globErr := filepath.Glob(filepath.Join(dir, "*_modified.qfx"))
			require.NoError(t, globErr)
			assert.Empty(t, matches)
		})
	}
}

func TestRewrite_NoVerify(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "plain.qfx"), "<STMTTRN>\n<NAME>STARBUCKS #123\n</STMTTRN>\n")

	_, _, err := runQFX(t, "rewrite", in, "--rules", fixtureRules, "--no-verify")
	require.NoError(t, err)
	assert.Equal(t, "<STMTTRN>\n<NAME>Coffee Shop\n</STMTTRN>\n", readFile(t, filepath.Join(dir, "plain_modified.qfx")))
}

func TestRewrite_BrokerageStatement(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "brokerage.qfx"))
	require.NoError(t, err)
	in := writeFile(t, filepath.Join(dir, "brokerage.qfx"), string(data))
	r := writeFile(t, filepath.Join(dir, "rules.csv"), "SearchText,Replacement\nADVISORY FEE,Advisory Fee\n")

	out, stderr, err := runQFX(t, "rewrite", in, "--rules", r)
	require.NoError(t, err, stderr)
	assert.Contains(t, out, "2 transactions, 1 renamed")

	got := readFile(t, filepath.Join(dir, "brokerage_modified.qfx"))
	assert.Contains(t, got, "<NAME>Advisory Fee\n")
	assert.Contains(t, got, "<NAME>ACH DEPOSIT 0042\n")
}
