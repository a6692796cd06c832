package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aliceinword/legal-time-tracker/internal/auth"
	"github.com/aliceinword/legal-time-tracker/internal/models"
	"github.com/aliceinword/legal-time-tracker/internal/services"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles the admin-only user management routes. Admin access
// itself is enforced by middleware on the route group.
type AdminHandler struct {
	service services.UserServiceProvider
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service services.UserServiceProvider) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListUsers returns all accounts.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// AddUserPayload defines the admin user-creation contract.
type AddUserPayload struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	IsAdmin  FlexValue `json:"is_admin"`
}

// AddUser creates an account on behalf of an admin.
func (h *AdminHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var payload AddUserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.CreateUser(payload.Name, payload.Email, payload.Password, payload.IsAdmin.Bool())
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to create user")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// UserTargetPayload names the account an admin action applies to.
type UserTargetPayload struct {
	UserID       FlexValue `json:"user_id"`
	NewPassword  string    `json:"new_password"`
	NewPassword2 string    `json:"new_password2"`
}

func (p UserTargetPayload) targetID() (int64, bool) {
	id, err := strconv.ParseInt(p.UserID.String(), 10, 64)
	return id, err == nil
}

// DeleteUser removes an account. Self-deletion and deleting the master
// account are refused by the service.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload UserTargetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	targetID, ok := payload.targetID()
	if !ok {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteUser(claims.UserID, targetID); err != nil {
		log.Warn().Err(err).Int64("target_id", targetID).Msg("Failed to delete user")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted."})
}

// ResetPassword sets a new password for the target account.
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload UserTargetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	targetID, ok := payload.targetID()
	if !ok {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.service.ResetPassword(targetID, payload.NewPassword, payload.NewPassword2); err != nil {
		log.Warn().Err(err).Int64("target_id", targetID).Msg("Failed to reset password")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated."})
}
