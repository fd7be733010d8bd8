package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	rs := &RuleSet{
		DefaultKeys:          []string{"Id"},
		DefaultSeparator:     ",",
		DefaultIgnoreColumns: []string{"Timestamp"},
		Rules: []Rule{
			{Pattern: "trades_", Keys: []string{"TradeId", "Leg"}},
			{Pattern: "trades", Keys: []string{"Never"}, Separator: "|"},
			{Pattern: "positions", Keys: []string{"AcctId"}, IgnoreColumns: []string{"AsOf"}},
			{Pattern: "audit", Keys: []string{}},
		},
	}
	require.NoError(t, rs.Validate())

	for _, tc := range []struct {
		desc     string
		filename string
		expected KeyConfig
	}{
		{
			desc:     "no rule matches, full defaults",
			filename: "balances_20240101.csv",
			expected: KeyConfig{
				Keys:          []string{"Id"},
				IgnoreColumns: []string{"Timestamp"},
				Separator:     ',',
			},
		},
		{
			desc:     "first matching rule wins in declaration order",
			filename: "trades_fx_20240101.csv",
			expected: KeyConfig{
				Keys:          []string{"TradeId", "Leg"},
				IgnoreColumns: []string{"Timestamp"},
				Separator:     ',',
			},
		},
		{
			desc:     "substring match, not just prefix",
			filename: "eod_positions.csv",
			expected: KeyConfig{
				Keys:          []string{"AcctId"},
				IgnoreColumns: []string{"AsOf"},
				Separator:     ',',
			},
		},
		{
			desc:     "explicit empty keys select positional mode",
			filename: "audit_log.csv",
			expected: KeyConfig{
				Keys:          []string{},
				IgnoreColumns: []string{"Timestamp"},
				Separator:     ',',
			},
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.expected, rs.Resolve(tc.filename))
		})
	}
}

func TestResolveDefaultSeparator(t *testing.T) {
	rs := &RuleSet{DefaultKeys: []string{"Id"}}
	require.NoError(t, rs.Validate())
	cfg := rs.Resolve("anything.csv")
	require.Equal(t, ';', int32(cfg.Separator))
}

func TestResolveRuleSeparatorOverride(t *testing.T) {
	rs := &RuleSet{
		DefaultSeparator: ";",
		Rules:            []Rule{{Pattern: "pipe_", Keys: []string{"Id"}, Separator: "|"}},
	}
	require.NoError(t, rs.Validate())
	require.Equal(t, '|', int32(rs.Resolve("pipe_extract.txt").Separator))
	require.Equal(t, ';', int32(rs.Resolve("other.txt").Separator))
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		desc        string
		rs          RuleSet
		expectedErr string
	}{
		{
			desc: "empty rule set is valid",
			rs:   RuleSet{},
		},
		{
			desc:        "empty pattern",
			rs:          RuleSet{Rules: []Rule{{Pattern: "  "}}},
			expectedErr: "pattern must not be empty",
		},
		{
			desc:        "empty key name",
			rs:          RuleSet{DefaultKeys: []string{"Id", ""}},
			expectedErr: "column names must not be empty",
		},
		{
			desc:        "duplicate key name",
			rs:          RuleSet{Rules: []Rule{{Pattern: "x", Keys: []string{"Id", "Id"}}}},
			expectedErr: `column "Id" listed twice`,
		},
		{
			desc:        "multi-character separator",
			rs:          RuleSet{DefaultSeparator: ";;"},
			expectedErr: "separator must be a single character",
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			err := tc.rs.Validate()
			if tc.expectedErr == "" {
				require.NoError(t, err)
			} else {
				require.ErrorContains(t, err, tc.expectedErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid config", func(t *testing.T) {
		path := filepath.Join(dir, "rules.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
  "default_keys": ["Id"],
  "default_separator": ";",
  "default_ignore_columns": ["LoadTime"],
  "rules": [
    {"pattern": "trades", "keys": ["TradeId"], "separator": ","}
  ]
}`), 0644))
		rs, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, []string{"Id"}, rs.DefaultKeys)
		cfg := rs.Resolve("trades_20240101.csv")
		require.Equal(t, []string{"TradeId"}, cfg.Keys)
		require.Equal(t, ',', int32(cfg.Separator))
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"rules": [`), 0644))
		_, err := Load(path)
		require.ErrorContains(t, err, "error parsing rule set")
	})

	t.Run("unknown field", func(t *testing.T) {
		path := filepath.Join(dir, "unknown.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"default_key": ["Id"]}`), 0644))
		_, err := Load(path)
		require.ErrorContains(t, err, "error parsing rule set")
	})

	t.Run("invalid rule set", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"rules": [{"pattern": ""}]}`), 0644))
		_, err := Load(path)
		require.ErrorContains(t, err, "invalid rule set")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.json"))
		require.ErrorContains(t, err, "error reading rule set")
	})
}
