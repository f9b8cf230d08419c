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
)

// ProjectHandler handles project lifecycle operations
type ProjectHandler struct {
	db *gorm.DB
}

func NewProjectHandler() *ProjectHandler {
	return &ProjectHandler{db: config.DB}
}

type createProjectReq struct {
	CustomerID uuid.UUID `json:"customer_id" validate:"required"`
	Name       string    `json:"name" validate:"required"`
	Address    string    `json:"address"`
	Lat        *float64  `json:"lat"`
	Lng        *float64  `json:"lng"`
}

// CreateProject creates a project for an existing customer. New projects
// always start in the "lead" column.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createProjectReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	// The customer must belong to the same tenant
	var customer models.Customer
	if err := h.db.Where("id = ? AND company_id = ?", req.CustomerID, companyID).
		First(&customer).Error; err != nil {
		http.Error(w, "Customer not found", http.StatusNotFound)
		return
	}

	userID := middleware.GetUserUUID(r)
	project := models.Project{
		CompanyID:  companyID,
		CustomerID: customer.ID,
		Name:       req.Name,
		Status:     models.ProjectStatusLead,
		Address:    req.Address,
		Lat:        req.Lat,
		Lng:        req.Lng,
		CreatedBy:  &userID,
	}
	if err := h.db.Create(&project).Error; err != nil {
		log.Printf("❌ Failed to create project: %v", err)
		http.Error(w, "Failed to create project", http.StatusInternalServerError)
		return
	}

	logActivity(h.db, companyID, &project.ID, userID, models.ActionProjectCreated, "project", &project.ID, models.JSONMap{"name": project.Name})
	log.Printf("✅ Created project: %s (ID: %s)", project.Name, project.ID)
	writeJSON(w, http.StatusCreated, project)
}

// ListProjects returns the company's projects with optional status and
// customer filters.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, limit, offset := pagination(r)
	query := h.db.Model(&models.Project{}).Where("company_id = ?", companyID)

	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidProjectStatus(models.ProjectStatus(status)) {
			http.Error(w, "Invalid status filter", http.StatusBadRequest)
			return
		}
		query = query.Where("status = ?", status)
	}
	if customerID := r.URL.Query().Get("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var total int64
	query.Count(&total)

	var projects []models.Project
	if err := query.Preload("Customer", unscopedCustomer).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&projects).Error; err != nil {
		http.Error(w, "Failed to load projects", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetProjectBoard returns all projects grouped by status, columns in
// lifecycle order. Empty columns are present with an empty list.
func (h *ProjectHandler) GetProjectBoard(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var projects []models.Project
	if err := h.db.Where("company_id = ?", companyID).
		Preload("Customer", unscopedCustomer).
		Order("updated_at DESC").
		Find(&projects).Error; err != nil {
		http.Error(w, "Failed to load projects", http.StatusInternalServerError)
		return
	}

	columns := make([]map[string]interface{}, 0, len(models.ProjectStatuses))
	grouped := make(map[models.ProjectStatus][]models.Project)
	for _, p := range projects {
		grouped[p.Status] = append(grouped[p.Status], p)
	}
	for _, status := range models.ProjectStatuses {
		col := grouped[status]
		if col == nil {
			col = []models.Project{}
		}
		columns = append(columns, map[string]interface{}{
			"status":   status,
			"projects": col,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"columns": columns})
}

// GetProject returns one project with its customer and child records
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var project models.Project
	if err := h.db.Preload("Customer", unscopedCustomer).
		Preload("Photos").
		Preload("Measurements").
		Preload("Estimates").
		Preload("Contracts").
		Where("id = ? AND company_id = ?", mux.Vars(r)["id"], companyID).
		First(&project).Error; err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

type updateProjectReq struct {
	Name    *string  `json:"name"`
	Address *string  `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`

	InsuranceClaimNumber *string  `json:"insurance_claim_number"`
	InsuranceCompany     *string  `json:"insurance_company"`
	AdjusterName         *string  `json:"adjuster_name"`
	AdjusterPhone        *string  `json:"adjuster_phone"`
	AdjusterEmail        *string  `json:"adjuster_email"`
	AdjusterMeeting      *string  `json:"adjuster_meeting"`
	ClaimStatus          *string  `json:"claim_status"`
	RCV                  *float64 `json:"rcv"`
	ACV                  *float64 `json:"acv"`
	Deductible           *float64 `json:"deductible"`

	HealthScore *int  `json:"health_score"`
	IsPublic    *bool `json:"is_public"`
}

// UpdateProject patches project fields, including the insurance claim
// sub-record. Status changes go through UpdateProjectStatus instead.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var project models.Project
	if err := h.db.Where("id = ? AND company_id = ?", mux.Vars(r)["id"], companyID).
		First(&project).Error; err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	var req updateProjectReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Name != nil && *req.Name != "" {
		project.Name = *req.Name
	}
	if req.Address != nil {
		project.Address = *req.Address
	}
	if req.Lat != nil {
		project.Lat = req.Lat
	}
	if req.Lng != nil {
		project.Lng = req.Lng
	}
	if req.InsuranceClaimNumber != nil {
		project.InsuranceClaimNumber = req.InsuranceClaimNumber
	}
	if req.InsuranceCompany != nil {
		project.InsuranceCompany = req.InsuranceCompany
	}
	if req.AdjusterName != nil {
		project.AdjusterName = req.AdjusterName
	}
	if req.AdjusterPhone != nil {
		project.AdjusterPhone = req.AdjusterPhone
	}
	if req.AdjusterEmail != nil {
		project.AdjusterEmail = req.AdjusterEmail
	}
	if req.AdjusterMeeting != nil {
		t, err := time.Parse(time.RFC3339, *req.AdjusterMeeting)
		if err != nil {
			http.Error(w, "adjuster_meeting must be RFC3339", http.StatusBadRequest)
			return
		}
		project.AdjusterMeeting = &t
	}
	if req.ClaimStatus != nil {
		cs := models.ClaimStatus(*req.ClaimStatus)
		switch cs {
		case models.ClaimStatusFiled, models.ClaimStatusScheduled, models.ClaimStatusApproved,
			models.ClaimStatusDenied, models.ClaimStatusSupplement:
			project.ClaimStatus = &cs
		default:
			http.Error(w, "Invalid claim status", http.StatusBadRequest)
			return
		}
	}
	if req.RCV != nil {
		project.RCV = req.RCV
	}
	if req.ACV != nil {
		project.ACV = req.ACV
	}
	if req.Deductible != nil {
		project.Deductible = req.Deductible
	}
	if req.HealthScore != nil {
		if *req.HealthScore < 0 || *req.HealthScore > 100 {
			http.Error(w, "health_score must be between 0 and 100", http.StatusBadRequest)
			return
		}
		project.HealthScore = req.HealthScore
	}
	if req.IsPublic != nil {
		project.IsPublic = *req.IsPublic
	}

	userID := middleware.GetUserUUID(r)
	project.UpdatedBy = &userID
	if err := h.db.Save(&project).Error; err != nil {
		http.Error(w, "Failed to update project", http.StatusInternalServerError)
		return
	}

	logActivity(h.db, companyID, &project.ID, userID, models.ActionProjectUpdated, "project", &project.ID, nil)
	writeJSON(w, http.StatusOK, project)
}

type updateStatusReq struct {
	Status models.ProjectStatus `json:"status" validate:"required"`
}

// UpdateProjectStatus moves a project to another lifecycle column and
// records the transition in the activity feed.
func (h *ProjectHandler) UpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req updateStatusReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if !models.ValidProjectStatus(req.Status) {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	var project models.Project
	if err := h.db.Where("id = ? AND company_id = ?", mux.Vars(r)["id"], companyID).
		First(&project).Error; err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	if project.Status == req.Status {
		writeJSON(w, http.StatusOK, project)
		return
	}

	from := project.Status
	project.Status = req.Status
	userID := middleware.GetUserUUID(r)
	project.UpdatedBy = &userID
	if err := h.db.Save(&project).Error; err != nil {
		http.Error(w, "Failed to update status", http.StatusInternalServerError)
		return
	}

	logActivity(h.db, companyID, &project.ID, userID, models.ActionProjectStatusChanged, "project", &project.ID,
		models.JSONMap{"from": string(from), "to": string(req.Status)})
	log.Printf("✅ Project %s moved from %s to %s", project.ID, from, req.Status)
	writeJSON(w, http.StatusOK, project)
}

// DeleteProject soft-deletes a project
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result := h.db.Where("id = ? AND company_id = ?", mux.Vars(r)["id"], companyID).
		Delete(&models.Project{})
	if result.Error != nil {
		http.Error(w, "Failed to delete project", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Project deleted"})
}
