package handlers

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/aliceinword/legal-time-tracker/internal/models"
)

// FlexValue decodes a JSON string, number, or bool into a string so that
// clients sending `"hours": "1.5"` and `"hours": 1.5` are treated alike.
// Undecodable values become the empty string rather than failing the
// request.
type FlexValue string

func (f *FlexValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexValue(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexValue(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = FlexValue(strconv.FormatBool(v))
		return nil
	}
	*f = ""
	return nil
}

func (f FlexValue) String() string { return string(f) }

// Bool interprets checkbox-style values: 1/true/on/yes in any casing.
func (f FlexValue) Bool() bool {
	switch strings.ToLower(strings.TrimSpace(string(f))) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// EntryPayload is the lenient wire contract for creating a time entry.
type EntryPayload struct {
	Client         string    `json:"client"`
	Matter         string    `json:"matter"`
	DateOfWork     FlexValue `json:"date_of_work"`
	Hours          FlexValue `json:"hours"`
	Timekeeper     string    `json:"timekeeper"`
	Description    string    `json:"desc"`
	ElapsedSeconds int       `json:"elapsed_seconds"`
	Close          FlexValue `json:"close"`
}

// NormalizeEntryInput converts a payload into entry fields, substituting
// safe defaults for blank or unparseable values instead of rejecting them.
// The returned slice names every field that was defaulted, so callers can
// report what the normalization changed.
func NormalizeEntryInput(p EntryPayload, accountName string, now time.Time) (models.Entry, []string) {
	var defaulted []string

	entry := models.Entry{
		Client:      strings.TrimSpace(p.Client),
		Matter:      strings.TrimSpace(p.Matter),
		Timekeeper:  strings.TrimSpace(p.Timekeeper),
		Description: strings.TrimSpace(p.Description),
	}

	if entry.Client == "" {
		entry.Client = models.UnspecifiedName
		defaulted = append(defaulted, "client")
	}
	if entry.Matter == "" {
		entry.Matter = models.UnspecifiedName
		defaulted = append(defaulted, "matter")
	}

	if d, err := time.Parse(models.DateLayout, strings.TrimSpace(p.DateOfWork.String())); err == nil {
		entry.DateOfWork = d.Format(models.DateLayout)
	} else {
		entry.DateOfWork = now.Format(models.DateLayout)
		defaulted = append(defaulted, "date_of_work")
	}

	if h, err := strconv.ParseFloat(strings.TrimSpace(p.Hours.String()), 64); err == nil && h >= 0 {
		entry.Hours = h
	} else {
		entry.Hours = 0
		defaulted = append(defaulted, "hours")
	}

	if entry.Timekeeper == "" {
		entry.Timekeeper = accountName
		defaulted = append(defaulted, "timekeeper")
	}

	return entry, defaulted
}
