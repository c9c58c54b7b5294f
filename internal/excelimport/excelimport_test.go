package excelimport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestReadSheet_HeaderAliasesIgnoreCaseAndSpacing(t *testing.T) {
	src := buildWorkbook(t, [][]interface{}{
		{"Task Name", "Due Date", "Assigned_Workers"},
		{"Trenching", "2025-11-01", "alice, bob"},
	})

	rows, err := ReadSheet(src)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.Equal(t, 2, row.Number)
	require.Equal(t, "Trenching", row.Get("taskname", "task"))
	require.Equal(t, "2025-11-01", row.Get("date", "duedate"))
	require.Equal(t, []string{"alice", "bob"}, SplitList(row.Get("assignedworkers")))
}

func TestReadSheet_SkipsEmptyRows(t *testing.T) {
	src := buildWorkbook(t, [][]interface{}{
		{"Name", "Email"},
		{"Alice", "alice@example.com"},
		{"", ""},
		{"Bob", "bob@example.com"},
	})

	rows, err := ReadSheet(src)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Alice", rows[0].Get("name"))
	require.Equal(t, 4, rows[1].Number)
}

func TestReadSheet_MissingColumnIsEmpty(t *testing.T) {
	src := buildWorkbook(t, [][]interface{}{
		{"Name"},
		{"Alice"},
	})

	rows, err := ReadSheet(src)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Empty(t, rows[0].Get("email", "mail"))
}

func TestReadSheet_NotASpreadsheet(t *testing.T) {
	_, err := ReadSheet(bytes.NewReader([]byte("definitely not xlsx")))
	require.Error(t, err)
}

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, SplitList(" a ,, b "))
	require.Nil(t, SplitList(""))
}
