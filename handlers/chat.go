package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/middleware"
	"github.com/talyaroofing/crm/models"
	"github.com/talyaroofing/crm/pkg/ai"
)

// ChatHandler serves the per-project AI assistant
type ChatHandler struct {
	db *gorm.DB
	ai *ai.Client
}

func NewChatHandler() *ChatHandler {
	return &ChatHandler{db: config.DB, ai: ai.NewFromEnv()}
}

type chatReq struct {
	Message string `json:"message" validate:"required,max=4000"`
}

// SendChatMessage answers a question about one project. The user message
// and the assistant reply are both persisted; the reply row carries a
// snapshot of the context the model saw.
func (h *ChatHandler) SendChatMessage(w http.ResponseWriter, r *http.Request) {
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

	var req chatReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	var project models.Project
	if err := h.db.Preload("Customer", unscopedCustomer).
		Where("id = ? AND company_id = ?", projectID, companyID).
		First(&project).Error; err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	pc := h.buildProjectContext(&project, companyID)

	// Prior turns, oldest first, capped to the model's history window
	var prior []models.ChatMessage
	h.db.Where("project_id = ? AND company_id = ?", projectID, companyID).
		Order("created_at DESC").Limit(ai.MaxHistoryTurns * 2).Find(&prior)
	history := make([]ai.ChatTurn, 0, len(prior))
	for i := len(prior) - 1; i >= 0; i-- {
		history = append(history, ai.ChatTurn{
			Role:    string(prior[i].Role),
			Content: prior[i].Content,
		})
	}

	userID := middleware.GetUserUUID(r)
	userMsg := models.ChatMessage{
		ProjectID: projectID,
		CompanyID: companyID,
		Role:      models.ChatRoleUser,
		Content:   req.Message,
		CreatedBy: &userID,
	}
	if err := h.db.Create(&userMsg).Error; err != nil {
		http.Error(w, "Failed to save message", http.StatusInternalServerError)
		return
	}

	reply, err := h.ai.GenerateChatResponse(r.Context(), req.Message, pc, history)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			http.Error(w, "AI chat is not configured", http.StatusServiceUnavailable)
			return
		}
		log.Printf("❌ Chat completion failed: %v", err)
		http.Error(w, "Failed to generate response", http.StatusBadGateway)
		return
	}

	assistantMsg := models.ChatMessage{
		ProjectID: projectID,
		CompanyID: companyID,
		Role:      models.ChatRoleAssistant,
		Content:   reply,
		Context: models.JSONMap{
			"status":              pc.Status,
			"photo_count":         pc.PhotoCount,
			"communication_count": pc.CommunicationCount,
		},
	}
	if err := h.db.Create(&assistantMsg).Error; err != nil {
		log.Printf("⚠️ Failed to persist assistant reply: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": assistantMsg,
		"suggested_questions": ai.SuggestedQuestions(string(project.Status)),
	})
}

// GetChatHistory returns a project's chat transcript, oldest first
func (h *ChatHandler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
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

	var messages []models.ChatMessage
	if err := h.db.Where("project_id = ? AND company_id = ?", projectID, companyID).
		Order("created_at ASC").Find(&messages).Error; err != nil {
		http.Error(w, "Failed to load chat history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages":            messages,
		"suggested_questions": ai.SuggestedQuestions(string(project.Status)),
	})
}

// buildProjectContext assembles the grounding snapshot handed to the model
func (h *ChatHandler) buildProjectContext(project *models.Project, companyID uuid.UUID) ai.ProjectContext {
	pc := ai.ProjectContext{
		ProjectName: project.Name,
		Status:      string(project.Status),
		Address:     project.Address,
	}
	if project.Customer != nil {
		pc.CustomerName = project.Customer.Name
	}
	if project.HasInsuranceClaim() {
		pc.Insurance = &ai.InsuranceInfo{
			ClaimNumber: *project.InsuranceClaimNumber,
		}
		if project.InsuranceCompany != nil {
			pc.Insurance.Company = *project.InsuranceCompany
		}
		if project.ClaimStatus != nil {
			pc.Insurance.Status = string(*project.ClaimStatus)
		}
	}

	var photoCount, commCount int64
	h.db.Model(&models.Photo{}).Where("project_id = ?", project.ID).Count(&photoCount)
	h.db.Model(&models.Communication{}).Where("project_id = ? AND company_id = ?", project.ID, companyID).Count(&commCount)
	photos, comms := int(photoCount), int(commCount)
	pc.PhotoCount = &photos
	pc.CommunicationCount = &comms

	var recent []models.ActivityLog
	h.db.Where("project_id = ? AND company_id = ?", project.ID, companyID).
		Order("created_at DESC").Limit(5).Find(&recent)
	for _, entry := range recent {
		pc.RecentActivity = append(pc.RecentActivity, fmt.Sprintf("%s (%s)", entry.Action, entry.CreatedAt.Format("Jan 2")))
	}
	return pc
}
