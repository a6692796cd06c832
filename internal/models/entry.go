package models

import "time"

// DateLayout is the wire and storage format for dates of work.
const DateLayout = "2006-01-02"

// UnspecifiedName substitutes for a blank client or matter.
const UnspecifiedName = "(Unspecified)"

// Entry is a single billable time record for one user.
type Entry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	Client      string    `json:"client"`
	Matter      string    `json:"matter"`
	DateOfWork  string    `json:"date_of_work"` // YYYY-MM-DD
	Hours       float64   `json:"hours"`
	Timekeeper  string    `json:"timekeeper"`
	Description string    `json:"desc"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ClientHours is one row of the per-client subtotal breakdown.
type ClientHours struct {
	Client string  `json:"client"`
	Hours  float64 `json:"hours"`
}

// EntrySummary aggregates a filtered result set for display.
type EntrySummary struct {
	TotalHours float64       `json:"total_hours"`
	ByClient   []ClientHours `json:"by_client"`
}

// PeriodSummary holds totals for one period of the mobile dashboard.
type PeriodSummary struct {
	Hours   float64 `json:"hours"`
	Entries int     `json:"entries"`
}
