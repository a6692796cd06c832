package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildXLSX(t *testing.T) {
	data, name, err := BuildXLSX(sampleEntries(), "Fallback Person", exportStamp)
	require.NoError(t, err)
	assert.Equal(t, "time_entries_20240315_093045.xlsx", name)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{"Acme Corp", "General", "2024-03-14", "Jane Doe", "1.50", "Drafted motion"}, rows[1])
	assert.Equal(t, "Fallback Person", rows[2][3])
}

func TestBuildXLSXEmpty(t *testing.T) {
	data, _, err := BuildXLSX(nil, "Fallback Person", exportStamp)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
