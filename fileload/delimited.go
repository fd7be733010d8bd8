package fileload

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/tablerecon/tablerecon/filetable"
)

// rowsPerCtxCheck bounds how stale a cancellation can go unnoticed.
const rowsPerCtxCheck = 4096

func loadDelimited(
	ctx context.Context, logger zerolog.Logger, path string, sep rune,
) (*filetable.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", path)
	}
	text, enc, err := decodeText(data)
	if err != nil {
		return nil, errors.Wrapf(err, "error decoding %s", path)
	}
	if enc != "utf-8" {
		logger.Debug().Str("path", path).Str("encoding", enc).
			Msgf("decoded with fallback encoding")
	}
	if n := strings.Count(text, "�"); n > 0 {
		// The input itself carried replacement characters; flag it so a
		// spurious DIFF can be traced back to the producer.
		logger.Warn().Str("path", path).Int("cells", n).
			Msgf("replacement characters present in input")
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sep
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		if len(records)%rowsPerCtxCheck == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Wrapf(err, "error parsing %s", path)
		}
		records = append(records, rec)
	}
	return buildTable(path, records)
}

// decodeText tries UTF-8 first, then the common single-byte encodings
// the upstream systems emit. Latin-1 accepts any byte sequence, so the
// chain always terminates.
func decodeText(data []byte) (string, string, error) {
	data = bytes.TrimPrefix(data, []byte{0xef, 0xbb, 0xbf})
	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}
	if s, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil &&
		!bytes.ContainsRune(s, '�') {
		return string(s), "windows-1252", nil
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", err
	}
	return string(s), "latin-1", nil
}
