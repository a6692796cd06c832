package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliceinword/legal-time-tracker/internal/models"
)

func TestFlexValueUnmarshal(t *testing.T) {
	var p struct {
		V FlexValue `json:"v"`
	}

	tests := []struct {
		raw  string
		want string
	}{
		{`{"v": "1.5"}`, "1.5"},
		{`{"v": 1.5}`, "1.5"},
		{`{"v": 42}`, "42"},
		{`{"v": true}`, "true"},
		{`{"v": null}`, ""},
		{`{"v": ["nope"]}`, ""},
	}
	for _, tt := range tests {
		p.V = "sentinel"
		require.NoError(t, json.Unmarshal([]byte(tt.raw), &p), tt.raw)
		assert.Equal(t, tt.want, p.V.String(), tt.raw)
	}
}

func TestFlexValueBool(t *testing.T) {
	for _, truthy := range []string{"1", "true", "TRUE", "on", "yes", " Yes "} {
		assert.True(t, FlexValue(truthy).Bool(), truthy)
	}
	for _, falsy := range []string{"", "0", "false", "off", "no", "maybe"} {
		assert.False(t, FlexValue(falsy).Bool(), falsy)
	}
}

func TestNormalizeEntryInputComplete(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	entry, defaulted := NormalizeEntryInput(EntryPayload{
		Client:      " Acme Corp ",
		Matter:      "General",
		DateOfWork:  "2024-03-10",
		Hours:       "1.5",
		Timekeeper:  "Jane Doe",
		Description: "Drafted motion",
	}, "Account Name", now)

	assert.Empty(t, defaulted)
	assert.Equal(t, "Acme Corp", entry.Client)
	assert.Equal(t, "General", entry.Matter)
	assert.Equal(t, "2024-03-10", entry.DateOfWork)
	assert.Equal(t, 1.5, entry.Hours)
	assert.Equal(t, "Jane Doe", entry.Timekeeper)
	assert.Equal(t, "Drafted motion", entry.Description)
}

func TestNormalizeEntryInputDefaults(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	entry, defaulted := NormalizeEntryInput(EntryPayload{
		DateOfWork: "not-a-date",
		Hours:      "-2",
	}, "Account Name", now)

	assert.ElementsMatch(t, []string{"client", "matter", "date_of_work", "hours", "timekeeper"}, defaulted)
	assert.Equal(t, models.UnspecifiedName, entry.Client)
	assert.Equal(t, models.UnspecifiedName, entry.Matter)
	assert.Equal(t, "2024-03-15", entry.DateOfWork)
	assert.Equal(t, 0.0, entry.Hours)
	assert.Equal(t, "Account Name", entry.Timekeeper)
}

func TestNormalizeEntryInputNumericHours(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	var p EntryPayload
	require.NoError(t, json.Unmarshal([]byte(`{"client":"Acme","matter":"General","date_of_work":"2024-03-10","hours":2.25,"timekeeper":"Jane"}`), &p))

	entry, defaulted := NormalizeEntryInput(p, "Account Name", now)
	assert.Empty(t, defaulted)
	assert.Equal(t, 2.25, entry.Hours)
}
