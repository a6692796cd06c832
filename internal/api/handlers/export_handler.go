package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aliceinword/legal-time-tracker/internal/auth"
	"github.com/aliceinword/legal-time-tracker/internal/export"
	"github.com/aliceinword/legal-time-tracker/internal/mail"
	"github.com/aliceinword/legal-time-tracker/internal/models"
	"github.com/aliceinword/legal-time-tracker/internal/services"
	"github.com/rs/zerolog/log"
)

const (
	csvMIME  = "text/csv"
	xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler serializes filtered or selected entries to downloadable
// files and mails them on request.
type ExportHandler struct {
	entries  services.EntryServiceProvider
	settings services.SettingsServiceProvider
	sender   mail.Sender
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(entries services.EntryServiceProvider, settings services.SettingsServiceProvider, sender mail.Sender) *ExportHandler {
	return &ExportHandler{entries: entries, settings: settings, sender: sender}
}

// resolveRows gathers the export row set: an explicit id selection when ids
// are present, otherwise the rows matching the filter parameters. The bool
// result reports the selection-was-empty warning case.
func (h *ExportHandler) resolveRows(r *http.Request, userID int64) ([]models.Entry, bool, error) {
	if err := r.ParseForm(); err != nil {
		return nil, false, err
	}

	var ids []int64
	for _, raw := range r.Form["id"] {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	exportSelected := r.Form.Get("export_selected") == "1"

	if exportSelected && len(ids) == 0 {
		return nil, true, nil
	}

	if len(ids) > 0 {
		rows, err := h.entries.GetByIDs(userID, ids)
		return rows, false, err
	}

	mode := r.Form.Get("mode")
	if mode == "" {
		mode = "30d"
	}
	rows, err := h.entries.FilterEntries(userID, mode, r.Form.Get("from"), r.Form.Get("to"), r.Form.Get("q"))
	return rows, false, err
}

// ExportCSV streams the selected or filtered entries as a CSV attachment.
func (h *ExportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, csvMIME, export.BuildCSV)
}

// ExportXLSX streams the selected or filtered entries as a spreadsheet
// attachment.
func (h *ExportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, xlsxMIME, export.BuildXLSX)
}

func (h *ExportHandler) export(w http.ResponseWriter, r *http.Request, mimeType string,
	build func([]models.Entry, string, time.Time) ([]byte, string, error)) {

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	rows, emptySelection, err := h.resolveRows(r, claims.UserID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to resolve export rows")
		http.Error(w, "Failed to export entries", http.StatusInternalServerError)
		return
	}
	if emptySelection {
		writeJSON(w, http.StatusOK, map[string]string{
			"warning": "Please select at least one row to export.",
		})
		return
	}

	data, filename, err := build(rows, claims.Name, time.Now())
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to serialize export")
		http.Error(w, "Failed to export entries", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(data)
}

// EmailExportPayload configures an emailed CSV export. The SMTP password is
// supplied per request; it is never stored.
type EmailExportPayload struct {
	To           string `json:"to"`
	SMTPPassword string `json:"smtp_password"`
	Mode         string `json:"mode"`
	From         string `json:"from"`
	DateTo       string `json:"to_date"`
	Query        string `json:"q"`
}

// EmailExport builds a CSV of the filtered entries and mails it using the
// caller's stored SMTP settings. The recipient defaults to the manager
// notification address, then the admin one.
func (h *ExportHandler) EmailExport(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload EmailExportPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	settings, err := h.settings.Get(claims.UserID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to load settings")
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}

	to := payload.To
	if to == "" {
		to = settings.ManagerEmail
	}
	if to == "" {
		to = settings.AdminEmail
	}
	if to == "" {
		http.Error(w, "No recipient configured", http.StatusBadRequest)
		return
	}

	mode := payload.Mode
	if mode == "" {
		mode = "30d"
	}
	rows, err := h.entries.FilterEntries(claims.UserID, mode, payload.From, payload.DateTo, payload.Query)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to filter entries for email export")
		http.Error(w, "Failed to export entries", http.StatusInternalServerError)
		return
	}

	data, filename, err := export.BuildCSV(rows, claims.Name, time.Now())
	if err != nil {
		http.Error(w, "Failed to export entries", http.StatusInternalServerError)
		return
	}

	port, err := strconv.Atoi(settings.SMTPPort)
	if err != nil {
		port = 587
	}
	cfg := mail.Config{
		Server:   settings.SMTPServer,
		Port:     port,
		Username: settings.SMTPUsername,
		Password: payload.SMTPPassword,
		From:     settings.SMTPFrom,
		UseTLS:   settings.SMTPUseTLS,
	}

	err = h.sender.Send(cfg, to, "Time Entries Export",
		fmt.Sprintf("Attached: %d time entries exported by %s.", len(rows), claims.Name),
		[]mail.Attachment{{Filename: filename, MIMEType: csvMIME, Data: data}})
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to send export email")
		http.Error(w, "Failed to send email", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("Export sent to %s.", to),
		"rows":    len(rows),
	})
}
