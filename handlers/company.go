package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/middleware"
	"github.com/talyaroofing/crm/models"
)

// GetCompany returns the caller's tenant record
func GetCompany(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var company models.Company
	if err := config.DB.First(&company, "id = ?", companyID).Error; err != nil {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

type updateCompanyReq struct {
	Name     *string        `json:"name"`
	LogoURL  *string        `json:"logo_url"`
	Theme    models.JSONMap `json:"theme"`
	Settings models.JSONMap `json:"settings"`
}

// UpdateCompany patches tenant branding and settings. Admin only (enforced
// at the route).
func UpdateCompany(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req updateCompanyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	var company models.Company
	if err := config.DB.First(&company, "id = ?", companyID).Error; err != nil {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}

	if req.Name != nil && *req.Name != "" {
		company.Name = *req.Name
	}
	if req.LogoURL != nil {
		company.LogoURL = req.LogoURL
	}
	if req.Theme != nil {
		company.Theme = req.Theme
	}
	if req.Settings != nil {
		company.Settings = req.Settings
	}

	if err := config.DB.Save(&company).Error; err != nil {
		http.Error(w, "Failed to update company", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, company)
}
