package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aliceinword/legal-time-tracker/internal/auth"
	"github.com/aliceinword/legal-time-tracker/internal/models"
	"github.com/aliceinword/legal-time-tracker/internal/services"
	"github.com/rs/zerolog/log"
)

// A timed stopwatch session shorter than this is reported as a plain save.
const stopwatchMinSeconds = 300

// EntryHandler handles HTTP requests for time entries, including the
// mobile/PWA mirror endpoints.
type EntryHandler struct {
	entries services.EntryServiceProvider
	refs    services.ReferenceServiceProvider
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entries services.EntryServiceProvider, refs services.ReferenceServiceProvider) *EntryHandler {
	return &EntryHandler{entries: entries, refs: refs}
}

// List returns the filtered entry list with its display aggregation.
// Query parameters: mode (7d/30d/90d/range/all), from, to, q.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	mode := query.Get("mode")
	if mode == "" {
		mode = "30d"
	}

	entries, err := h.entries.FilterEntries(claims.UserID, mode, query.Get("from"), query.Get("to"), query.Get("q"))
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to filter entries")
		http.Error(w, "Failed to retrieve entries", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	summary := services.Summarize(entries)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries":     entries,
		"mode":        mode,
		"total_hours": summary.TotalHours,
		"by_client":   summary.ByClient,
	})
}

// Save creates a new entry from a lenient payload: blank or malformed
// fields are normalized to safe defaults and reported back, never rejected.
func (h *EntryHandler) Save(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload EntryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	normalized, defaulted := NormalizeEntryInput(payload, claims.Name, time.Now())
	entry, err := h.entries.Save(claims.UserID, normalized)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to save entry")
		writeServiceError(w, err)
		return
	}

	message := "Entry saved."
	if payload.ElapsedSeconds >= stopwatchMinSeconds {
		message = fmt.Sprintf("Timed session %dm saved.", payload.ElapsedSeconds/60)
	}

	if defaulted == nil {
		defaulted = []string{}
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"entry":     entry,
		"defaulted": defaulted,
		"message":   message,
	})
}

// EditPayload carries a partial entry edit. Absent fields stay unchanged.
type EditPayload struct {
	ID          FlexValue `json:"id"`
	Client      *string   `json:"client"`
	Matter      *string   `json:"matter"`
	DateOfWork  *string   `json:"date_of_work"`
	Hours       *float64  `json:"hours"`
	Timekeeper  *string   `json:"timekeeper"`
	Description *string   `json:"desc"`
}

// Edit applies a partial update to one of the caller's entries.
func (h *EntryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload EditPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(payload.ID.String(), 10, 64)
	if err != nil {
		http.Error(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	entry, err := h.entries.Edit(claims.UserID, id, services.EntryUpdate{
		Client:      payload.Client,
		Matter:      payload.Matter,
		DateOfWork:  payload.DateOfWork,
		Hours:       payload.Hours,
		Timekeeper:  payload.Timekeeper,
		Description: payload.Description,
	})
	if err != nil {
		log.Warn().Err(err).Int64("user_id", claims.UserID).Int64("entry_id", id).Msg("Failed to edit entry")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entry":   entry,
		"message": "Entry updated.",
	})
}

// DeletePayload lists the entry IDs selected for bulk deletion.
type DeletePayload struct {
	IDs []FlexValue `json:"ids"`
}

// Delete removes the selected entries owned by the caller and reports how
// many were actually deleted.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload DeletePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ids := parseIDList(payload.IDs)
	if len(ids) == 0 {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"deleted": 0,
			"warning": "Nothing selected.",
		})
		return
	}

	deleted, err := h.entries.BulkDelete(claims.UserID, ids)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to delete entries")
		http.Error(w, "Failed to delete entries", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": deleted})
}

// QuickEntry is the mobile/PWA creation endpoint. It accepts the full entry
// contract; omitted date and timekeeper default to today and the account
// name.
func (h *EntryHandler) QuickEntry(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload EntryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	normalized, _ := NormalizeEntryInput(payload, claims.Name, time.Now())
	if _, err := h.entries.Save(claims.UserID, normalized); err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to save quick entry")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Entry saved",
	})
}

// EntriesCache returns the last 50 entries for offline viewing.
func (h *EntryHandler) EntriesCache(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := h.entries.Recent(claims.UserID, 50)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to load entry cache")
		http.Error(w, "Failed to retrieve entries", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries":   entries,
		"cached_at": time.Now().Format(time.RFC3339),
	})
}

// UserData returns the caller's clients and matters for offline
// autocomplete.
func (h *EntryHandler) UserData(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clients, err := h.refs.List(claims.UserID, models.KindClient)
	if err != nil {
		http.Error(w, "Failed to retrieve lists", http.StatusInternalServerError)
		return
	}
	matters, err := h.refs.List(claims.UserID, models.KindMatter)
	if err != nil {
		http.Error(w, "Failed to retrieve lists", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"clients":    emptyIfNil(clients),
		"matters":    emptyIfNil(matters),
		"timekeeper": claims.Name,
	})
}

// TodaySummary returns hour totals for today and the week to date.
func (h *EntryHandler) TodaySummary(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	today, week, err := h.entries.TodayWeekSummary(claims.UserID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to summarize entries")
		http.Error(w, "Failed to summarize entries", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"today": today,
		"week":  week,
	})
}

// RecentClients returns recently used client names for autocomplete.
func (h *EntryHandler) RecentClients(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	clients, err := h.entries.RecentClients(claims.UserID, 10)
	if err != nil {
		http.Error(w, "Failed to retrieve clients", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(clients))
}

// Dashboard returns today's and this week's entries plus the month's top
// clients for the mobile dashboard.
func (h *EntryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	now := time.Now()
	todayStr := now.Format(models.DateLayout)
	weekStart := now.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7)).Format(models.DateLayout)

	todayEntries, err := h.entries.FilterEntries(claims.UserID, "range", todayStr, todayStr, "")
	if err != nil {
		http.Error(w, "Failed to retrieve entries", http.StatusInternalServerError)
		return
	}
	weekEntries, err := h.entries.FilterEntries(claims.UserID, "range", weekStart, todayStr, "")
	if err != nil {
		http.Error(w, "Failed to retrieve entries", http.StatusInternalServerError)
		return
	}
	topClients, err := h.entries.MonthTopClients(claims.UserID, 5)
	if err != nil {
		http.Error(w, "Failed to retrieve client totals", http.StatusInternalServerError)
		return
	}
	if topClients == nil {
		topClients = []models.ClientHours{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"today_entries": emptyEntries(todayEntries),
		"week_entries":  emptyEntries(weekEntries),
		"client_hours":  topClients,
		"today_total":   services.Summarize(todayEntries).TotalHours,
		"week_total":    services.Summarize(weekEntries).TotalHours,
	})
}

func parseIDList(values []FlexValue) []int64 {
	var ids []int64
	for _, v := range values {
		if id, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptyEntries(s []models.Entry) []models.Entry {
	if s == nil {
		return []models.Entry{}
	}
	return s
}
