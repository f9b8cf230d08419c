package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/middleware"
	"github.com/talyaroofing/crm/models"
	"github.com/talyaroofing/crm/utils"
)

// EstimateHandler handles estimate CRUD and sending
type EstimateHandler struct {
	db *gorm.DB
}

func NewEstimateHandler() *EstimateHandler {
	return &EstimateHandler{db: config.DB}
}

type estimateReq struct {
	LineItems  []models.LineItem `json:"line_items" validate:"required,min=1"`
	TaxRate    float64           `json:"tax_rate" validate:"gte=0"`
	Notes      string            `json:"notes"`
	ValidUntil *time.Time        `json:"valid_until"`
}

// CreateEstimate creates an estimate for a project. Line item totals,
// subtotal, tax and total are recomputed server-side; client-sent money
// fields are ignored.
func (h *EstimateHandler) CreateEstimate(w http.ResponseWriter, r *http.Request) {
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

	var req estimateReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	items := utils.NormalizeLineItems(req.LineItems)
	totals := utils.CalculateEstimateTotals(req.LineItems, req.TaxRate)

	userID := middleware.GetUserUUID(r)
	estimate := models.Estimate{
		ProjectID:  projectID,
		CompanyID:  companyID,
		LineItems:  items,
		Subtotal:   totals.Subtotal,
		TaxRate:    req.TaxRate,
		Tax:        totals.Tax,
		Total:      totals.Total,
		Status:     models.EstimateStatusDraft,
		Notes:      req.Notes,
		ValidUntil: req.ValidUntil,
		CreatedBy:  &userID,
	}
	if err := h.db.Create(&estimate).Error; err != nil {
		log.Printf("❌ Failed to create estimate: %v", err)
		http.Error(w, "Failed to create estimate", http.StatusInternalServerError)
		return
	}

	logActivity(h.db, companyID, &projectID, userID, models.ActionEstimateCreated, "estimate", &estimate.ID,
		models.JSONMap{"total": estimate.Total})
	writeJSON(w, http.StatusCreated, estimate)
}

// ListEstimates returns a project's estimates, newest first
func (h *EstimateHandler) ListEstimates(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var estimates []models.Estimate
	if err := h.db.Where("project_id = ? AND company_id = ?", mux.Vars(r)["id"], companyID).
		Order("created_at DESC").Find(&estimates).Error; err != nil {
		http.Error(w, "Failed to load estimates", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"estimates": estimates})
}

// GetEstimate returns one estimate
func (h *EstimateHandler) GetEstimate(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var estimate models.Estimate
	if err := h.db.Preload("Project").
		Where("id = ? AND company_id = ?", mux.Vars(r)["estimateId"], companyID).
		First(&estimate).Error; err != nil {
		http.Error(w, "Estimate not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

// UpdateEstimate replaces line items and settings on a draft estimate.
// Sent, accepted or rejected estimates are immutable.
func (h *EstimateHandler) UpdateEstimate(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var estimate models.Estimate
	if err := h.db.Where("id = ? AND company_id = ?", mux.Vars(r)["estimateId"], companyID).
		First(&estimate).Error; err != nil {
		http.Error(w, "Estimate not found", http.StatusNotFound)
		return
	}
	if estimate.Status != models.EstimateStatusDraft {
		http.Error(w, "Only draft estimates can be edited", http.StatusConflict)
		return
	}

	var req estimateReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	totals := utils.CalculateEstimateTotals(req.LineItems, req.TaxRate)
	estimate.LineItems = utils.NormalizeLineItems(req.LineItems)
	estimate.Subtotal = totals.Subtotal
	estimate.TaxRate = req.TaxRate
	estimate.Tax = totals.Tax
	estimate.Total = totals.Total
	estimate.Notes = req.Notes
	estimate.ValidUntil = req.ValidUntil

	if err := h.db.Save(&estimate).Error; err != nil {
		http.Error(w, "Failed to update estimate", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

type estimateStatusReq struct {
	Status models.EstimateStatus `json:"status" validate:"required"`
}

// UpdateEstimateStatus moves an estimate through draft, sent, viewed,
// accepted, rejected.
func (h *EstimateHandler) UpdateEstimateStatus(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req estimateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if !models.ValidEstimateStatus(req.Status) {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	var estimate models.Estimate
	if err := h.db.Where("id = ? AND company_id = ?", mux.Vars(r)["estimateId"], companyID).
		First(&estimate).Error; err != nil {
		http.Error(w, "Estimate not found", http.StatusNotFound)
		return
	}

	estimate.Status = req.Status
	if err := h.db.Save(&estimate).Error; err != nil {
		http.Error(w, "Failed to update estimate", http.StatusInternalServerError)
		return
	}

	if req.Status == models.EstimateStatusSent {
		logActivity(h.db, companyID, &estimate.ProjectID, middleware.GetUserUUID(r),
			models.ActionEstimateSent, "estimate", &estimate.ID, nil)
	}
	writeJSON(w, http.StatusOK, estimate)
}

// DeleteEstimate removes a draft estimate
func (h *EstimateHandler) DeleteEstimate(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var estimate models.Estimate
	if err := h.db.Where("id = ? AND company_id = ?", mux.Vars(r)["estimateId"], companyID).
		First(&estimate).Error; err != nil {
		http.Error(w, "Estimate not found", http.StatusNotFound)
		return
	}
	if estimate.Status != models.EstimateStatusDraft {
		http.Error(w, "Only draft estimates can be deleted", http.StatusConflict)
		return
	}
	if err := h.db.Delete(&estimate).Error; err != nil {
		http.Error(w, "Failed to delete estimate", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Estimate deleted"})
}
