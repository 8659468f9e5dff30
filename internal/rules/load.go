package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/qfxrename/internal/model"
)

// csvRow is one line of rules.csv.
type csvRow struct {
	SearchText  string `csv:"SearchText"`
	Replacement string `csv:"Replacement"`
}

// yamlFile is the layout of rules.yaml.
type yamlFile struct {
	Rules []yamlRule `yaml:"rules"`
}

type yamlRule struct {
	Match       string `yaml:"match"`
	Replacement string `yaml:"replacement"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads a rule source from disk and builds a Table. The format is chosen
// by extension: .csv, .yaml or .yml.
func Load(path string, mode MatchMode, log logrus.FieldLogger) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "reading rule source", Err: err}
	}

	var parsed []model.Rule
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		parsed, err = ReadCSV(bytes.NewReader(data))
	case ".yaml", ".yml":
		parsed, err = ReadYAML(bytes.NewReader(data))
	default:
		return nil, &ConfigError{Path: path, Reason: fmt.Sprintf("unsupported rule file extension %q", filepath.Ext(path))}
	}
	if err != nil {
		return nil, withPath(err, path)
	}

	for _, r := range parsed {
		if r.Replacement == "" && log != nil {
			log.WithFields(logrus.Fields{"rule": r.MatchKey, "row": r.Row}).Warn("Empty replacement clears the transaction name")
		}
	}

	t, err := NewTable(parsed, mode)
	if err != nil {
		return nil, withPath(err, path)
	}
	if log != nil {
		log.WithFields(logrus.Fields{"rules_file": path, "count": t.Len(), "mode": t.Mode()}).Debug("Loaded rule table")
	}
	return t, nil
}

// ReadCSV parses rules from CSV with a SearchText,Replacement header.
// An empty input yields no rules.
func ReadCSV(r io.Reader) ([]model.Rule, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ConfigError{Reason: "reading CSV", Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var rows []csvRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, &ConfigError{Reason: "parsing CSV", Err: err}
	}

	out := make([]model.Rule, 0, len(rows))
	for i, row := range rows {
		out = append(out, model.Rule{
			MatchKey:    row.SearchText,
			Replacement: row.Replacement,
			Row:         i + 1,
		})
	}
	return out, nil
}

// ReadYAML parses rules from a YAML document with a top-level rules list.
func ReadYAML(r io.Reader) ([]model.Rule, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc yamlFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, &ConfigError{Reason: "parsing YAML", Err: err}
	}

	out := make([]model.Rule, 0, len(doc.Rules))
	for i, yr := range doc.Rules {
		out = append(out, model.Rule{
			MatchKey:    yr.Match,
			Replacement: yr.Replacement,
			Row:         i + 1,
		})
	}
	return out, nil
}

func withPath(err error, path string) error {
	var ce *ConfigError
	if errors.As(err, &ce) && ce.Path == "" {
		ce.Path = path
		return ce
	}
	return fmt.Errorf("rules %s: %w", path, err)
}

// WriteCSV writes rules in the rules.csv layout read by ReadCSV.
func WriteCSV(w io.Writer, rules []model.Rule) error {
	rows := make([]csvRow, len(rules))
	for i, r := range rules {
		rows[i] = csvRow{SearchText: r.MatchKey, Replacement: r.Replacement}
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing rules CSV: %w", err)
	}
	return nil
}
