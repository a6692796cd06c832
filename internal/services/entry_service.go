package services

import (
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aliceinword/legal-time-tracker/internal/apperrors"
	"github.com/aliceinword/legal-time-tracker/internal/models"
)

var entryColumns = []string{"id", "user_id", "client", "matter", "date_of_work", "hours", "timekeeper", "description", "created_at"}

// EntryUpdate carries the optional fields of an edit request. Nil fields are
// left unchanged; blank strings and unparseable dates are also left
// unchanged, mirroring the lenient form contract.
type EntryUpdate struct {
	Client      *string
	Matter      *string
	DateOfWork  *string
	Hours       *float64
	Timekeeper  *string
	Description *string
}

// EntryServiceProvider defines the interface for entry services.
type EntryServiceProvider interface {
	Save(userID int64, entry models.Entry) (models.Entry, error)
	Edit(userID, entryID int64, update EntryUpdate) (models.Entry, error)
	BulkDelete(userID int64, ids []int64) (int64, error)
	FilterEntries(userID int64, mode, dateFrom, dateTo, searchText string) ([]models.Entry, error)
	GetByIDs(userID int64, ids []int64) ([]models.Entry, error)
	Recent(userID int64, limit int) ([]models.Entry, error)
	TodayWeekSummary(userID int64) (today, week models.PeriodSummary, err error)
	RecentClients(userID int64, limit int) ([]string, error)
	MonthTopClients(userID int64, limit int) ([]models.ClientHours, error)
}

// EntryService provides business logic for time-entry management.
type EntryService struct {
	db       *sql.DB
	settings SettingsServiceProvider
}

// NewEntryService creates a new EntryService.
func NewEntryService(db *sql.DB, settings SettingsServiceProvider) *EntryService {
	return &EntryService{db: db, settings: settings}
}

// Save inserts a new entry for the user. The caller supplies already
// normalized fields; when the user's auto-expand preference is on, the
// description is passed through ExpandAbbreviations before storage.
func (s *EntryService) Save(userID int64, entry models.Entry) (models.Entry, error) {
	settings, err := s.settings.Get(userID)
	if err != nil {
		return models.Entry{}, err
	}
	if settings.AutoExpand {
		entry.Description = ExpandAbbreviations(entry.Description)
	}

	res, err := s.db.Exec(`INSERT INTO entries (user_id, client, matter, date_of_work, hours, timekeeper, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, entry.Client, entry.Matter, entry.DateOfWork, entry.Hours, entry.Timekeeper, entry.Description)
	if err != nil {
		return models.Entry{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Entry{}, err
	}
	return s.getOwned(userID, id)
}

// Edit applies the provided fields to an entry owned by the user. Editing a
// nonexistent entry or another user's entry fails with ErrNotFound.
func (s *EntryService) Edit(userID, entryID int64, update EntryUpdate) (models.Entry, error) {
	entry, err := s.getOwned(userID, entryID)
	if err != nil {
		return models.Entry{}, err
	}

	if update.Client != nil && strings.TrimSpace(*update.Client) != "" {
		entry.Client = strings.TrimSpace(*update.Client)
	}
	if update.Matter != nil && strings.TrimSpace(*update.Matter) != "" {
		entry.Matter = strings.TrimSpace(*update.Matter)
	}
	if update.DateOfWork != nil {
		if d, err := time.Parse(models.DateLayout, strings.TrimSpace(*update.DateOfWork)); err == nil {
			entry.DateOfWork = d.Format(models.DateLayout)
		}
	}
	if update.Hours != nil {
		entry.Hours = *update.Hours
	}
	if update.Timekeeper != nil && strings.TrimSpace(*update.Timekeeper) != "" {
		entry.Timekeeper = strings.TrimSpace(*update.Timekeeper)
	}
	if update.Description != nil && strings.TrimSpace(*update.Description) != "" {
		entry.Description = strings.TrimSpace(*update.Description)
	}

	_, err = s.db.Exec(`UPDATE entries SET client = ?, matter = ?, date_of_work = ?, hours = ?, timekeeper = ?, description = ?
		WHERE id = ? AND user_id = ?`,
		entry.Client, entry.Matter, entry.DateOfWork, entry.Hours, entry.Timekeeper, entry.Description,
		entryID, userID)
	if err != nil {
		return models.Entry{}, err
	}
	return entry, nil
}

// BulkDelete removes the given entries that belong to the user and returns
// the count actually deleted. IDs owned by someone else are silently skipped.
func (s *EntryService) BulkDelete(userID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sq.Delete("entries").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FilterEntries returns the user's entries matching a date window and a
// free-text search, ordered by date of work descending with newer entry IDs
// first among equal dates.
//
// mode is one of 7d/30d/90d/range/all; anything else behaves like 30d. In
// range mode either bound is optional and a malformed bound is dropped. Each
// whitespace-separated search term must match at least one of client,
// matter, timekeeper, or description, case-insensitively.
func (s *EntryService) FilterEntries(userID int64, mode, dateFrom, dateTo, searchText string) ([]models.Entry, error) {
	qb := sq.Select(entryColumns...).
		From("entries").
		Where(sq.Eq{"user_id": userID})

	today := time.Now()
	switch mode {
	case "7d":
		qb = qb.Where(sq.GtOrEq{"date_of_work": daysAgo(today, 7)})
	case "30d":
		qb = qb.Where(sq.GtOrEq{"date_of_work": daysAgo(today, 30)})
	case "90d":
		qb = qb.Where(sq.GtOrEq{"date_of_work": daysAgo(today, 90)})
	case "range":
		if d, err := time.Parse(models.DateLayout, strings.TrimSpace(dateFrom)); err == nil {
			qb = qb.Where(sq.GtOrEq{"date_of_work": d.Format(models.DateLayout)})
		}
		if d, err := time.Parse(models.DateLayout, strings.TrimSpace(dateTo)); err == nil {
			qb = qb.Where(sq.LtOrEq{"date_of_work": d.Format(models.DateLayout)})
		}
	case "all":
	default:
		qb = qb.Where(sq.GtOrEq{"date_of_work": daysAgo(today, 30)})
	}

	for _, term := range strings.Fields(searchText) {
		pattern := "%" + strings.ToLower(term) + "%"
		qb = qb.Where(sq.Or{
			sq.Like{"lower(client)": pattern},
			sq.Like{"lower(matter)": pattern},
			sq.Like{"lower(timekeeper)": pattern},
			sq.Like{"lower(description)": pattern},
		})
	}

	query, args, err := qb.OrderBy("date_of_work DESC", "id DESC").ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryEntries(query, args...)
}

// GetByIDs returns the given entries that belong to the user, in the same
// date-descending order as FilterEntries. Foreign IDs are silently omitted.
func (s *EntryService) GetByIDs(userID int64, ids []int64) ([]models.Entry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sq.Select(entryColumns...).
		From("entries").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"id": ids}).
		OrderBy("date_of_work DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryEntries(query, args...)
}

// Recent returns the user's most recent entries for the offline cache.
func (s *EntryService) Recent(userID int64, limit int) ([]models.Entry, error) {
	query := fmt.Sprintf("SELECT %s FROM entries WHERE user_id = ? ORDER BY date_of_work DESC, id DESC LIMIT ?",
		strings.Join(entryColumns, ", "))
	return s.queryEntries(query, userID, limit)
}

// TodayWeekSummary returns hour and entry totals for today and for the week
// to date (weeks start on Monday).
func (s *EntryService) TodayWeekSummary(userID int64) (today, week models.PeriodSummary, err error) {
	now := time.Now()
	todayStr := now.Format(models.DateLayout)
	weekStart := now.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7)).Format(models.DateLayout)

	today, err = s.periodSummary(userID, todayStr, todayStr)
	if err != nil {
		return models.PeriodSummary{}, models.PeriodSummary{}, err
	}
	week, err = s.periodSummary(userID, weekStart, todayStr)
	if err != nil {
		return models.PeriodSummary{}, models.PeriodSummary{}, err
	}
	return today, week, nil
}

func (s *EntryService) periodSummary(userID int64, from, to string) (models.PeriodSummary, error) {
	var sum models.PeriodSummary
	row := s.db.QueryRow(`SELECT COALESCE(SUM(hours), 0), COUNT(*) FROM entries
		WHERE user_id = ? AND date_of_work >= ? AND date_of_work <= ?`, userID, from, to)
	if err := row.Scan(&sum.Hours, &sum.Entries); err != nil {
		return models.PeriodSummary{}, err
	}
	sum.Hours = round2(sum.Hours)
	return sum, nil
}

// RecentClients returns the most recently used client names for
// autocomplete, newest first.
func (s *EntryService) RecentClients(userID int64, limit int) ([]string, error) {
	rows, err := s.db.Query(`SELECT client FROM entries WHERE user_id = ?
		GROUP BY client ORDER BY MAX(date_of_work) DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		if c != "" {
			clients = append(clients, c)
		}
	}
	return clients, rows.Err()
}

// MonthTopClients returns the clients with the most hours since the first of
// the current month.
func (s *EntryService) MonthTopClients(userID int64, limit int) ([]models.ClientHours, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(models.DateLayout)

	rows, err := s.db.Query(`SELECT client, SUM(hours) FROM entries
		WHERE user_id = ? AND date_of_work >= ?
		GROUP BY client ORDER BY SUM(hours) DESC LIMIT ?`, userID, monthStart, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var top []models.ClientHours
	for rows.Next() {
		var ch models.ClientHours
		if err := rows.Scan(&ch.Client, &ch.Hours); err != nil {
			return nil, err
		}
		ch.Hours = round2(ch.Hours)
		top = append(top, ch)
	}
	return top, rows.Err()
}

func (s *EntryService) getOwned(userID, entryID int64) (models.Entry, error) {
	query := fmt.Sprintf("SELECT %s FROM entries WHERE id = ? AND user_id = ?", strings.Join(entryColumns, ", "))
	entries, err := s.queryEntries(query, entryID, userID)
	if err != nil {
		return models.Entry{}, err
	}
	if len(entries) == 0 {
		return models.Entry{}, fmt.Errorf("%w: entry %d", apperrors.ErrNotFound, entryID)
	}
	return entries[0], nil
}

func (s *EntryService) queryEntries(query string, args ...any) ([]models.Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Client, &e.Matter, &e.DateOfWork, &e.Hours, &e.Timekeeper, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Summarize computes the display aggregation for a filtered result set:
// total hours rounded to two decimals and per-client subtotals sorted by
// subtotal descending. A blank client groups under (Unspecified).
func Summarize(entries []models.Entry) models.EntrySummary {
	var total float64
	byClient := map[string]float64{}
	var order []string

	for _, e := range entries {
		total += e.Hours
		key := strings.TrimSpace(e.Client)
		if key == "" {
			key = models.UnspecifiedName
		}
		if _, seen := byClient[key]; !seen {
			order = append(order, key)
		}
		byClient[key] += e.Hours
	}

	summary := models.EntrySummary{TotalHours: round2(total), ByClient: []models.ClientHours{}}
	for _, client := range order {
		summary.ByClient = append(summary.ByClient, models.ClientHours{Client: client, Hours: round2(byClient[client])})
	}
	sort.SliceStable(summary.ByClient, func(i, j int) bool {
		return summary.ByClient[i].Hours > summary.ByClient[j].Hours
	})
	return summary
}

func daysAgo(today time.Time, n int) string {
	return today.AddDate(0, 0, -n).Format(models.DateLayout)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
