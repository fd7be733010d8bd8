package fileload

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tablerecon/tablerecon/filetable"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestLoadDelimited(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("semicolon separated", func(t *testing.T) {
		path := writeTemp(t, "data.csv", []byte("id;name\n1;a\n2;b\n"))
		tbl, err := Load(ctx, logger, path, ';')
		require.NoError(t, err)
		require.Equal(t, []string{"id", "name"}, tbl.Columns)
		require.Equal(t, []filetable.Row{
			{"id": "1", "name": "a"},
			{"id": "2", "name": "b"},
		}, tbl.Rows)
	})

	t.Run("comma separated txt", func(t *testing.T) {
		path := writeTemp(t, "data.txt", []byte("id,name\n1,a\n"))
		tbl, err := Load(ctx, logger, path, ',')
		require.NoError(t, err)
		require.Equal(t, 1, tbl.NumRows())
	})

	t.Run("cells are normalized", func(t *testing.T) {
		// NBSP and padding inside cells collapse to single spaces.
		path := writeTemp(t, "data.csv", []byte("id;name\n1;  a b \n"))
		tbl, err := Load(ctx, logger, path, ';')
		require.NoError(t, err)
		require.Equal(t, "a b", tbl.Rows[0]["name"])
	})

	t.Run("bom is stripped", func(t *testing.T) {
		path := writeTemp(t, "data.csv", append(
			[]byte{0xef, 0xbb, 0xbf}, []byte("id;name\n1;a\n")...,
		))
		tbl, err := Load(ctx, logger, path, ';')
		require.NoError(t, err)
		require.Equal(t, []string{"id", "name"}, tbl.Columns)
	})

	t.Run("windows-1252 fallback", func(t *testing.T) {
		// 0xe9 is not valid UTF-8 on its own; Windows-1252 maps it to é.
		path := writeTemp(t, "data.csv", []byte("id;name\n1;caf\xe9\n"))
		tbl, err := Load(ctx, logger, path, ';')
		require.NoError(t, err)
		require.Equal(t, "café", tbl.Rows[0]["name"])
	})

	t.Run("short rows padded with empty cells", func(t *testing.T) {
		path := writeTemp(t, "data.csv", []byte("id;name;qty\n1;a\n"))
		tbl, err := Load(ctx, logger, path, ';')
		require.NoError(t, err)
		require.Equal(t, filetable.Row{"id": "1", "name": "a", "qty": ""}, tbl.Rows[0])
	})

	t.Run("long rows rejected", func(t *testing.T) {
		path := writeTemp(t, "data.csv", []byte("id;name\n1;a;extra\n"))
		_, err := Load(ctx, logger, path, ';')
		require.ErrorContains(t, err, "row 0 has 3 fields, header has 2")
	})

	t.Run("empty file rejected", func(t *testing.T) {
		path := writeTemp(t, "data.csv", nil)
		_, err := Load(ctx, logger, path, ';')
		require.ErrorContains(t, err, "empty file, no header row")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(ctx, logger, filepath.Join(t.TempDir(), "nope.csv"), ';')
		require.ErrorContains(t, err, "error reading")
	})

	t.Run("canceled context", func(t *testing.T) {
		path := writeTemp(t, "data.csv", []byte("id;name\n1;a\n"))
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Load(canceled, logger, path, ';')
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoadSpreadsheet(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	writeWorkbook := func(t *testing.T, rows [][]interface{}) string {
		t.Helper()
		f := excelize.NewFile()
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
		}
		path := filepath.Join(t.TempDir(), "data.xlsx")
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())
		return path
	}

	t.Run("first sheet loads", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{
			{"id", "name"},
			{"1", "a"},
			{"2", "b"},
		})
		tbl, err := Load(ctx, logger, path, ';')
		require.NoError(t, err)
		require.Equal(t, []string{"id", "name"}, tbl.Columns)
		require.Equal(t, 2, tbl.NumRows())
		require.Equal(t, "b", tbl.Rows[1]["name"])
	})

	t.Run("ragged sheet rows padded", func(t *testing.T) {
		path := writeWorkbook(t, [][]interface{}{
			{"id", "name"},
			{"1"},
		})
		tbl, err := Load(ctx, logger, path, ';')
		require.NoError(t, err)
		require.Equal(t, filetable.Row{"id": "1", "name": ""}, tbl.Rows[0])
	})

	t.Run("corrupt workbook", func(t *testing.T) {
		path := writeTemp(t, "bad.xlsx", []byte("this is not a zip archive"))
		_, err := Load(ctx, logger, path, ';')
		require.ErrorContains(t, err, "error opening workbook")
	})
}
