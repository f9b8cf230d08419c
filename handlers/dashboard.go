package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/middleware"
	"github.com/talyaroofing/crm/models"
)

// DashboardHandler serves the company overview stats
type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{db: config.DB}
}

// GetStats returns the dashboard numbers: project counts per status, lead
// and revenue totals over the last 30 days, and recent activity.
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	type statusCount struct {
		Status models.ProjectStatus `json:"status"`
		Count  int64                `json:"count"`
	}
	var rawCounts []statusCount
	if err := h.db.Model(&models.Project{}).
		Select("status, COUNT(*) AS count").
		Where("company_id = ?", companyID).
		Group("status").
		Scan(&rawCounts).Error; err != nil {
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	byStatus := make(map[models.ProjectStatus]int64, len(rawCounts))
	var totalProjects int64
	for _, c := range rawCounts {
		byStatus[c.Status] = c.Count
		totalProjects += c.Count
	}
	// Every lifecycle column is present, zero included
	projectCounts := make([]statusCount, 0, len(models.ProjectStatuses))
	for _, status := range models.ProjectStatuses {
		projectCounts = append(projectCounts, statusCount{Status: status, Count: byStatus[status]})
	}

	since := time.Now().AddDate(0, 0, -30)

	var newLeads int64
	h.db.Model(&models.Project{}).
		Where("company_id = ? AND status = ? AND created_at >= ?", companyID, models.ProjectStatusLead, since).
		Count(&newLeads)

	var newCustomers int64
	h.db.Model(&models.Customer{}).
		Where("company_id = ? AND created_at >= ?", companyID, since).
		Count(&newCustomers)

	// Signed-contract value over the window, from the source estimates
	var signedRevenue float64
	h.db.Model(&models.Contract{}).
		Select("COALESCE(SUM(crm_estimates.total), 0)").
		Joins("JOIN crm_estimates ON crm_estimates.id = crm_contracts.estimate_id").
		Where("crm_contracts.company_id = ? AND crm_contracts.status = ? AND crm_contracts.signed_at >= ?",
			companyID, models.ContractStatusSigned, since).
		Scan(&signedRevenue)

	var pendingEstimates int64
	h.db.Model(&models.Estimate{}).
		Where("company_id = ? AND status IN ?", companyID,
			[]models.EstimateStatus{models.EstimateStatusSent, models.EstimateStatusViewed}).
		Count(&pendingEstimates)

	// Open pipeline: estimates not yet decided
	var pipelineValue float64
	h.db.Model(&models.Estimate{}).
		Select("COALESCE(SUM(total), 0)").
		Where("company_id = ? AND status IN ?", companyID,
			[]models.EstimateStatus{models.EstimateStatusDraft, models.EstimateStatusSent, models.EstimateStatusViewed}).
		Scan(&pipelineValue)

	var recentActivity []models.ActivityLog
	h.db.Where("company_id = ?", companyID).
		Preload("User").
		Order("created_at DESC").Limit(10).
		Find(&recentActivity)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_projects":     totalProjects,
		"projects_by_status": projectCounts,
		"new_leads_30d":      newLeads,
		"new_customers_30d":  newCustomers,
		"signed_revenue_30d": signedRevenue,
		"pending_estimates":  pendingEstimates,
		"pipeline_value":     pipelineValue,
		"recent_activity":    recentActivity,
	})
}
