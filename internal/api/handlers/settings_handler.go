package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aliceinword/legal-time-tracker/internal/auth"
	"github.com/aliceinword/legal-time-tracker/internal/models"
	"github.com/aliceinword/legal-time-tracker/internal/services"
	"github.com/rs/zerolog/log"
)

// SettingsHandler serves the options screen: per-user preferences plus the
// editable reference lists.
type SettingsHandler struct {
	settings services.SettingsServiceProvider
	refs     services.ReferenceServiceProvider
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings services.SettingsServiceProvider, refs services.ReferenceServiceProvider) *SettingsHandler {
	return &SettingsHandler{settings: settings, refs: refs}
}

// view resolves the settings plus list contents for the presentation layer.
// The lists live in the read-only view, never on the persisted record.
func (h *SettingsHandler) view(userID int64) (models.SettingsView, error) {
	settings, err := h.settings.Get(userID)
	if err != nil {
		return models.SettingsView{}, err
	}
	clients, err := h.refs.List(userID, models.KindClient)
	if err != nil {
		return models.SettingsView{}, err
	}
	matters, err := h.refs.List(userID, models.KindMatter)
	if err != nil {
		return models.SettingsView{}, err
	}
	rates, err := h.refs.List(userID, models.KindRate)
	if err != nil {
		return models.SettingsView{}, err
	}
	return models.SettingsView{
		Settings: settings,
		Clients:  emptyIfNil(clients),
		Matters:  emptyIfNil(matters),
		Rates:    emptyIfNil(rates),
	}, nil
}

// Get returns the caller's settings and reference lists.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	view, err := h.view(claims.UserID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to load settings")
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SettingsPayload is the options save contract. The reference lists arrive
// as newline-separated text, matching the textarea contract of the UI.
type SettingsPayload struct {
	AutoExpand   FlexValue `json:"auto_expand"`
	SMTPServer   string    `json:"smtp_server"`
	SMTPPort     FlexValue `json:"smtp_port"`
	SMTPUsername string    `json:"smtp_username"`
	SMTPFrom     string    `json:"smtp_from"`
	SMTPUseTLS   FlexValue `json:"smtp_use_tls"`
	AdminEmail   string    `json:"admin_email"`
	ManagerEmail string    `json:"manager_email"`
	Clients      string    `json:"clients"`
	Matters      string    `json:"matters"`
	Rates        string    `json:"rates"`
}

// Save persists settings and replaces the three reference lists with the
// submitted line sets. Blank SMTP fields keep their previous values.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload SettingsPayload
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

	settings.AutoExpand = payload.AutoExpand.Bool()
	settings.SMTPUseTLS = payload.SMTPUseTLS.Bool()
	if v := strings.TrimSpace(payload.SMTPServer); v != "" {
		settings.SMTPServer = v
	}
	if v := strings.TrimSpace(payload.SMTPPort.String()); v != "" {
		settings.SMTPPort = v
	}
	if v := strings.TrimSpace(payload.SMTPUsername); v != "" {
		settings.SMTPUsername = v
	}
	if v := strings.TrimSpace(payload.SMTPFrom); v != "" {
		settings.SMTPFrom = v
	}
	settings.AdminEmail = strings.TrimSpace(payload.AdminEmail)
	settings.ManagerEmail = strings.TrimSpace(payload.ManagerEmail)

	if err := h.settings.Save(settings); err != nil {
		log.Error().Err(err).Int64("user_id", claims.UserID).Msg("Failed to save settings")
		http.Error(w, "Failed to save settings", http.StatusInternalServerError)
		return
	}

	lists := []struct {
		kind models.ReferenceKind
		text string
	}{
		{models.KindClient, payload.Clients},
		{models.KindMatter, payload.Matters},
		{models.KindRate, payload.Rates},
	}
	for _, l := range lists {
		if err := h.refs.ReplaceAll(claims.UserID, l.kind, strings.Split(l.text, "\n")); err != nil {
			log.Error().Err(err).Int64("user_id", claims.UserID).Str("kind", string(l.kind)).Msg("Failed to replace reference list")
			http.Error(w, "Failed to save lists", http.StatusInternalServerError)
			return
		}
	}

	view, err := h.view(claims.UserID)
	if err != nil {
		http.Error(w, "Failed to load settings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Settings saved.",
		"settings": view,
	})
}
