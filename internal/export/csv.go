// Package export renders filtered entry sets to downloadable CSV and
// spreadsheet files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/aliceinword/legal-time-tracker/internal/models"
)

// Columns is the fixed export header, shared by the CSV and spreadsheet
// serializers.
var Columns = []string{
	"Client",
	"Matter",
	"Date of Work",
	"Timekeeper's Name",
	"Billable Hours",
	"Description of Work Performed",
}

// entryRow renders one entry to export cells. A blank timekeeper falls back
// to the requesting user's display name.
func entryRow(e models.Entry, defaultTimekeeper string) []string {
	timekeeper := e.Timekeeper
	if timekeeper == "" {
		timekeeper = defaultTimekeeper
	}
	return []string{
		e.Client,
		e.Matter,
		e.DateOfWork,
		timekeeper,
		fmt.Sprintf("%.2f", e.Hours),
		e.Description,
	}
}

// Filename returns the generated download name for the given extension,
// stamped with the generation time.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("time_entries_%s.%s", now.Format("20060102_150405"), ext)
}

// BuildCSV serializes entries to CSV bytes in the caller-supplied order and
// returns the bytes with a timestamped filename. Zero entries yield a file
// with only the header row.
func BuildCSV(entries []models.Entry, defaultTimekeeper string, now time.Time) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Columns); err != nil {
		return nil, "", err
	}
	for _, e := range entries {
		if err := w.Write(entryRow(e, defaultTimekeeper)); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), Filename("csv", now), nil
}
