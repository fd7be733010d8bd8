package report

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tablerecon/tablerecon/compare"
)

type Reporter interface {
	Report(obj ReportableObject)
	Close()
}

type CombinedReporter struct {
	Reporters []Reporter
}

func (c CombinedReporter) Report(obj ReportableObject) {
	for _, r := range c.Reporters {
		r.Report(obj)
	}
}

func (c CombinedReporter) Close() {
	for _, r := range c.Reporters {
		r.Close()
	}
}

// LogReporter reports to `zerolog`.
type LogReporter struct {
	zerolog.Logger
}

func (l LogReporter) Report(obj ReportableObject) {
	switch obj := obj.(type) {
	case StatusReport:
		l.Info().Msg(obj.Info)
	case FileResult:
		switch obj.Status {
		case compare.StatusOK:
			l.Info().
				Str("path", obj.Path).
				Dur("elapsed", obj.Elapsed).
				Msgf("files match")
		case compare.StatusDiff:
			ev := l.Warn().
				Str("path", obj.Path).
				Str("detail", obj.Detail)
			if r := obj.Result; r != nil {
				ev = ev.
					Int("cell_diffs", len(r.CellDiffs)).
					Int("only_in_a", len(r.OnlyInA)).
					Int("only_in_b", len(r.OnlyInB)).
					Float64("matching_pct", r.MatchingPercentage)
			}
			ev.Msgf("differences found")
		case compare.StatusDuplicateKeys:
			ev := l.Warn().
				Str("path", obj.Path).
				Str("detail", obj.Detail)
			if r := obj.Result; r != nil && r.Duplicates != nil {
				ev = ev.
					Int("duplicate_keys_a", len(r.Duplicates.A)).
					Int("duplicate_keys_b", len(r.Duplicates.B))
			}
			ev.Msgf("duplicate keys, comparison aborted")
		case compare.StatusKeyNotFound:
			l.Warn().
				Str("path", obj.Path).
				Msgf("key column missing from usable header intersection")
		case compare.StatusMissingInB:
			l.Warn().Str("path", obj.Path).Msgf("file missing from tree B")
		case compare.StatusMissingInA:
			l.Warn().Str("path", obj.Path).Msgf("file missing from tree A")
		case compare.StatusError:
			l.Error().
				Str("path", obj.Path).
				Str("cause", obj.Err).
				Msgf("error processing file")
		default:
			l.Error().
				Str("path", obj.Path).
				Str("status", string(obj.Status)).
				Msgf("unexpected terminal status")
		}
	default:
		l.Error().
			Str("type", fmt.Sprintf("%T", obj)).
			Msgf("unknown object type")
	}
}

func (l LogReporter) Close() {
}
