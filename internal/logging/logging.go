// Package logging builds the logrus logger shared by the commands.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Standard field names, so log lines can be filtered consistently.
const (
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldRulesFile   = "rules_file"
	FieldTransaction = "transaction"
	FieldLine        = "line"
	FieldName        = "name"
	FieldNewName     = "new_name"
	FieldOutcome     = "outcome"
	FieldCount       = "count"
)

// New returns a logger writing to w. level is any logrus level name; format
// is "text" or "json".
func New(level, format string, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("invalid log format %q (must be 'text' or 'json')", format)
	}
	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
