package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/middleware"
	"github.com/talyaroofing/crm/models"
	"github.com/talyaroofing/crm/utils"
)

// MeasurementHandler handles roof measurement sessions
type MeasurementHandler struct {
	db *gorm.DB
}

func NewMeasurementHandler() *MeasurementHandler {
	return &MeasurementHandler{db: config.DB}
}

type measurementReq struct {
	MeasurementType string                `json:"measurement_type"`
	ImageURL        *string               `json:"image_url"`
	Data            utils.MeasurementData `json:"data"`
}

// CreateMeasurement validates the polygon payload and stores it. The total
// square footage is always recomputed server-side; a client-supplied total
// is ignored.
func (h *MeasurementHandler) CreateMeasurement(w http.ResponseWriter, r *http.Request) {
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
	var project models.Project
	if err := h.db.Where("id = ? AND company_id = ?", projectID, companyID).
		First(&project).Error; err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	var req measurementReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if err := req.Data.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mtype := models.MeasurementType(req.MeasurementType)
	if mtype == "" {
		mtype = models.MeasurementTypeManual
	}
	switch mtype {
	case models.MeasurementTypeSatellite, models.MeasurementTypeDrone,
		models.MeasurementTypeManual, models.MeasurementTypeAI:
	default:
		http.Error(w, "Invalid measurement type", http.StatusBadRequest)
		return
	}

	totalSqft := utils.CalculateTotalSquareFeet(req.Data)
	if req.Data.Pitch != "" {
		totalSqft = utils.AdjustForPitch(totalSqft, req.Data.Pitch)
	}

	raw, err := json.Marshal(req.Data)
	if err != nil {
		http.Error(w, "Failed to encode measurement data", http.StatusInternalServerError)
		return
	}

	scale := req.Data.Scale
	if scale == 0 {
		scale = 1
	}
	waste := req.Data.WasteFactor
	if waste == 0 {
		waste = utils.DefaultWasteFactor
	}

	userID := middleware.GetUserUUID(r)
	measurement := models.Measurement{
		ProjectID:       projectID,
		MeasurementType: mtype,
		ImageURL:        req.ImageURL,
		Data:            datatypes.JSON(raw),
		Scale:           scale,
		WasteFactor:     waste,
		TotalSqft:       utils.Round2(totalSqft),
		CreatedBy:       &userID,
	}
	if err := h.db.Create(&measurement).Error; err != nil {
		http.Error(w, "Failed to save measurement", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, measurement)
}

// ListMeasurements returns a project's measurement sessions, newest first
func (h *MeasurementHandler) ListMeasurements(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	projectID := mux.Vars(r)["id"]

	var project models.Project
	if err := h.db.Where("id = ? AND company_id = ?", projectID, companyID).
		First(&project).Error; err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	var measurements []models.Measurement
	if err := h.db.Where("project_id = ?", projectID).
		Order("created_at DESC").Find(&measurements).Error; err != nil {
		http.Error(w, "Failed to load measurements", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"measurements": measurements})
}

// DeleteMeasurement removes one measurement session
func (h *MeasurementHandler) DeleteMeasurement(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var measurement models.Measurement
	if err := h.db.Joins("JOIN crm_projects ON crm_projects.id = crm_measurements.project_id").
		Where("crm_measurements.id = ? AND crm_projects.company_id = ?", mux.Vars(r)["measurementId"], companyID).
		First(&measurement).Error; err != nil {
		http.Error(w, "Measurement not found", http.StatusNotFound)
		return
	}
	if err := h.db.Delete(&measurement).Error; err != nil {
		http.Error(w, "Failed to delete measurement", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Measurement deleted"})
}
