package models

// ReferenceKind identifies one of the per-user suggestion lists.
type ReferenceKind string

const (
	KindClient ReferenceKind = "client"
	KindMatter ReferenceKind = "matter"
	KindRate   ReferenceKind = "rate"
)

// ReferenceItem is one named value in a per-user reference list.
type ReferenceItem struct {
	ID     int64         `json:"id"`
	UserID int64         `json:"-"`
	Kind   ReferenceKind `json:"kind"`
	Name   string        `json:"name"`
}

// Built-in defaults seeded for a user whose list is empty.
var (
	DefaultClients = []string{"Potential Client", "Sales", "Test1", "Private Client", "Pro Bono"}
	DefaultMatters = []string{"Divorce", "Custody", "Motion Practice", "Appeal", "Consultation", "Court Appearance", "Sales Call"}
	DefaultRates   = []string{"300", "500", "350", "Non Billable", "40"}
)
