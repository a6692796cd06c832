package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliceinword/legal-time-tracker/internal/models"
)

var exportStamp = time.Date(2024, 3, 15, 9, 30, 45, 0, time.UTC)

func sampleEntries() []models.Entry {
	return []models.Entry{
		{Client: "Acme Corp", Matter: "General", DateOfWork: "2024-03-14", Hours: 1.5, Timekeeper: "Jane Doe", Description: "Drafted motion"},
		{Client: "Beta LLC", Matter: "Litigation", DateOfWork: "2024-03-13", Hours: 0.25, Description: "Call with client"},
	}
}

func TestBuildCSV(t *testing.T) {
	data, name, err := BuildCSV(sampleEntries(), "Fallback Person", exportStamp)
	require.NoError(t, err)
	assert.Equal(t, "time_entries_20240315_093045.csv", name)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{"Acme Corp", "General", "2024-03-14", "Jane Doe", "1.50", "Drafted motion"}, rows[1])
	// blank timekeeper falls back to the requesting user's name
	assert.Equal(t, []string{"Beta LLC", "Litigation", "2024-03-13", "Fallback Person", "0.25", "Call with client"}, rows[2])
}

func TestBuildCSVEmpty(t *testing.T) {
	data, _, err := BuildCSV(nil, "Fallback Person", exportStamp)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Columns, rows[0])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "time_entries_20240315_093045.xlsx", Filename("xlsx", exportStamp))
}
