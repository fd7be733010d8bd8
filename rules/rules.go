// Package rules resolves per-file comparison settings from an ordered
// rule set keyed by filename patterns.
package rules

import (
	"encoding/json"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

// DefaultSeparator is used when the rule set does not name one. Batch
// drops in this domain are semicolon-delimited far more often than
// comma-delimited, so the fallback is deliberately not a comma.
const DefaultSeparator = ';'

// Rule maps a filename pattern to comparison settings. Fields left
// unset inherit the rule set defaults.
type Rule struct {
	Pattern       string   `json:"pattern"`
	Keys          []string `json:"keys,omitempty"`
	IgnoreColumns []string `json:"ignore_columns,omitempty"`
	Separator     string   `json:"separator,omitempty"`
}

// RuleSet is the batch configuration: defaults plus an ordered list of
// rules. It is loaded once and passed explicitly; there is no global
// configuration state.
type RuleSet struct {
	DefaultKeys          []string `json:"default_keys,omitempty"`
	DefaultSeparator     string   `json:"default_separator,omitempty"`
	DefaultIgnoreColumns []string `json:"default_ignore_columns,omitempty"`
	Rules                []Rule   `json:"rules,omitempty"`
}

// KeyConfig is the effective comparison configuration for one file.
// An empty Keys list selects positional comparison.
type KeyConfig struct {
	Keys          []string
	IgnoreColumns []string
	Separator     rune
}

// Load reads and validates a JSON rule set.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading rule set %s", path)
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	var rs RuleSet
	if err := dec.Decode(&rs); err != nil {
		return nil, errors.Wrapf(err, "error parsing rule set %s", path)
	}
	if err := rs.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid rule set %s", path)
	}
	return &rs, nil
}

// Validate checks the rule set is well formed. A malformed rule set is
// the only fatal error class in a batch run, and it must surface before
// any file is processed.
func (rs *RuleSet) Validate() error {
	if _, err := parseSeparator(rs.DefaultSeparator); err != nil {
		return errors.Wrap(err, "default_separator")
	}
	if err := validateColumns(rs.DefaultKeys); err != nil {
		return errors.Wrap(err, "default_keys")
	}
	for i, rule := range rs.Rules {
		if strings.TrimSpace(rule.Pattern) == "" {
			return errors.Newf("rule %d: pattern must not be empty", i)
		}
		if err := validateColumns(rule.Keys); err != nil {
			return errors.Wrapf(err, "rule %d (pattern %q): keys", i, rule.Pattern)
		}
		if _, err := parseSeparator(rule.Separator); err != nil {
			return errors.Wrapf(err, "rule %d (pattern %q): separator", i, rule.Pattern)
		}
	}
	return nil
}

// Resolve maps a filename to its effective KeyConfig. Rules are
// evaluated in declaration order and the first whose pattern is a
// substring of the filename wins; unset fields in the winning rule fall
// back to the defaults. Pure and deterministic.
func (rs *RuleSet) Resolve(filename string) KeyConfig {
	cfg := KeyConfig{
		Keys:          rs.DefaultKeys,
		IgnoreColumns: rs.DefaultIgnoreColumns,
		Separator:     DefaultSeparator,
	}
	if sep, _ := parseSeparator(rs.DefaultSeparator); sep != 0 {
		cfg.Separator = sep
	}
	for _, rule := range rs.Rules {
		if !strings.Contains(filename, rule.Pattern) {
			continue
		}
		if rule.Keys != nil {
			cfg.Keys = rule.Keys
		}
		if rule.IgnoreColumns != nil {
			cfg.IgnoreColumns = rule.IgnoreColumns
		}
		if sep, _ := parseSeparator(rule.Separator); sep != 0 {
			cfg.Separator = sep
		}
		break
	}
	return cfg
}

func validateColumns(cols []string) error {
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if strings.TrimSpace(c) == "" {
			return errors.New("column names must not be empty")
		}
		if _, ok := seen[c]; ok {
			return errors.Newf("column %q listed twice", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

func parseSeparator(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, errors.Newf("separator must be a single character, got %q", s)
	}
	return r, nil
}
