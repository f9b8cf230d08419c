package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/middleware"
	"github.com/talyaroofing/crm/models"
)

// logActivity appends one row to the audit trail. Failures are logged and
// swallowed: the triggering action already succeeded and must not be rolled
// back because its audit entry could not be written.
func logActivity(db *gorm.DB, companyID uuid.UUID, projectID *uuid.UUID, userID uuid.UUID, action models.ActivityAction, entityType string, entityID *uuid.UUID, details models.JSONMap) {
	entry := models.ActivityLog{
		CompanyID: companyID,
		ProjectID: projectID,
		UserID:    userID,
		Action:    action,
		Details:   details,
	}
	if entityType != "" {
		entry.EntityType = &entityType
		entry.EntityID = entityID
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("⚠️ Failed to write activity log (%s): %v", action, err)
	}
}

// ActivityHandler serves the audit trail feeds
type ActivityHandler struct {
	db *gorm.DB
}

func NewActivityHandler() *ActivityHandler {
	return &ActivityHandler{db: config.DB}
}

// ListProjectActivity returns the activity feed for one project, newest first
func (h *ActivityHandler) ListProjectActivity(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	projectID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project ID", http.StatusBadRequest)
		return
	}

	_, limit, offset := pagination(r)
	var entries []models.ActivityLog
	if err := h.db.Where("company_id = ? AND project_id = ?", companyID, projectID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error; err != nil {
		http.Error(w, "Failed to load activity", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"activity": entries})
}

// ListCompanyActivity returns the tenant-wide feed, newest first
func (h *ActivityHandler) ListCompanyActivity(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	_, limit, offset := pagination(r)
	var entries []models.ActivityLog
	if err := h.db.Where("company_id = ?", companyID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error; err != nil {
		http.Error(w, "Failed to load activity", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"activity": entries})
}
