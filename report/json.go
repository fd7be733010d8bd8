package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// JSONReporter collects file results and writes a summary document plus
// one detail payload per DIFF / DUPLICATE_KEYS file on Close.
type JSONReporter struct {
	dir    string
	logger zerolog.Logger
	files  []FileResult
}

func NewJSONReporter(dir string, logger zerolog.Logger) (*JSONReporter, error) {
	if err := os.MkdirAll(filepath.Join(dir, "details"), 0755); err != nil {
		return nil, errors.Wrap(err, "error creating report directory")
	}
	return &JSONReporter{dir: dir, logger: logger}, nil
}

func (r *JSONReporter) Report(obj ReportableObject) {
	if fr, ok := obj.(FileResult); ok {
		r.files = append(r.files, fr)
	}
}

type jsonSummaryRecord struct {
	Path               string  `json:"path"`
	Status             string  `json:"status"`
	RowsA              int     `json:"rows_a"`
	RowsB              int     `json:"rows_b"`
	CellDiffs          int     `json:"cell_diffs"`
	OnlyInA            int     `json:"only_in_a"`
	OnlyInB            int     `json:"only_in_b"`
	MatchingPercentage float64 `json:"matching_percentage"`
	DurationSeconds    float64 `json:"duration_seconds"`
	Detail             string  `json:"detail,omitempty"`
	Error              string  `json:"error,omitempty"`
}

type jsonCellDiff struct {
	Key    string `json:"key,omitempty"`
	Row    int    `json:"row"`
	Column string `json:"column"`
	ValueA string `json:"value_a"`
	ValueB string `json:"value_b"`
}

type jsonDetail struct {
	Path          string           `json:"path"`
	Status        string           `json:"status"`
	CellDiffs     []jsonCellDiff   `json:"cell_diffs,omitempty"`
	OnlyInA       []string         `json:"only_in_a,omitempty"`
	OnlyInB       []string         `json:"only_in_b,omitempty"`
	DuplicatesInA map[string][]int `json:"duplicate_keys_a,omitempty"`
	DuplicatesInB map[string][]int `json:"duplicate_keys_b,omitempty"`
}

func (r *JSONReporter) Close() {
	summary := make([]jsonSummaryRecord, 0, len(r.files))
	for _, fr := range r.files {
		rec := jsonSummaryRecord{
			Path:               fr.Path,
			Status:             string(fr.Status),
			MatchingPercentage: 100,
			DurationSeconds:    fr.Elapsed.Seconds(),
			Detail:             fr.Detail,
			Error:              fr.Err,
		}
		if res := fr.Result; res != nil {
			rec.RowsA = res.RowsA
			rec.RowsB = res.RowsB
			rec.CellDiffs = len(res.CellDiffs)
			rec.OnlyInA = len(res.OnlyInA)
			rec.OnlyInB = len(res.OnlyInB)
			rec.MatchingPercentage = res.MatchingPercentage
		} else {
			rec.MatchingPercentage = 0
		}
		summary = append(summary, rec)

		if fr.Detail != "" && fr.Result != nil {
			r.writeDetail(fr)
		}
	}
	r.writeJSON(filepath.Join(r.dir, "summary.json"), summary)
}

func (r *JSONReporter) writeDetail(fr FileResult) {
	res := fr.Result
	detail := jsonDetail{
		Path:    fr.Path,
		Status:  string(fr.Status),
		OnlyInA: res.OnlyInA,
		OnlyInB: res.OnlyInB,
	}
	for _, d := range res.CellDiffs {
		detail.CellDiffs = append(detail.CellDiffs, jsonCellDiff(d))
	}
	if res.Duplicates != nil {
		detail.DuplicatesInA = res.Duplicates.A
		detail.DuplicatesInB = res.Duplicates.B
	}
	r.writeJSON(filepath.Join(r.dir, "details", fr.Detail+".json"), detail)
}

func (r *JSONReporter) writeJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		r.logger.Err(err).Str("path", path).Msgf("error marshalling report")
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		r.logger.Err(err).Str("path", path).Msgf("error writing report")
	}
}
