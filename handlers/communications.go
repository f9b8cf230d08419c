package handlers

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/middleware"
	"github.com/talyaroofing/crm/models"
	"github.com/talyaroofing/crm/pkg/ai"
	"github.com/talyaroofing/crm/pkg/twilio"
	"github.com/talyaroofing/crm/pkg/vapi"
	"github.com/talyaroofing/crm/utils"
)

// CommunicationHandler handles the customer communication log and the
// outbound SMS, call and AI-call actions.
type CommunicationHandler struct {
	db     *gorm.DB
	twilio *twilio.Client
	vapi   *vapi.Client
	ai     *ai.Client
}

func NewCommunicationHandler() *CommunicationHandler {
	return &CommunicationHandler{
		db:     config.DB,
		twilio: twilio.NewFromEnv(),
		vapi:   vapi.NewFromEnv(),
		ai:     ai.NewFromEnv(),
	}
}

// ListCommunications returns the communication log for a customer,
// optionally narrowed to one project.
func (h *CommunicationHandler) ListCommunications(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	_, limit, offset := pagination(r)
	query := h.db.Model(&models.Communication{}).Where("company_id = ?", companyID)
	if customerID := r.URL.Query().Get("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	if projectID := r.URL.Query().Get("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	var comms []models.Communication
	if err := query.Preload("Customer", unscopedCustomer).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&comms).Error; err != nil {
		http.Error(w, "Failed to load communications", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"communications": comms})
}

type sendSMSReq struct {
	CustomerID uuid.UUID  `json:"customer_id" validate:"required"`
	ProjectID  *uuid.UUID `json:"project_id"`
	Message    string     `json:"message" validate:"required,max=1600"`
}

// SendSMS sends a text to a customer through Twilio, then records the
// communication and the activity entry. The provider call happens first;
// nothing is recorded for a failed send.
func (h *CommunicationHandler) SendSMS(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req sendSMSReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	customer, project, ok := h.resolveTarget(w, companyID, req.CustomerID, req.ProjectID)
	if !ok {
		return
	}
	to, ok := h.dialablePhone(w, customer)
	if !ok {
		return
	}

	result, err := h.twilio.SendSMS(r.Context(), to, req.Message)
	if err != nil {
		if errors.Is(err, twilio.ErrNotConfigured) {
			http.Error(w, "SMS is not configured", http.StatusServiceUnavailable)
			return
		}
		log.Printf("❌ SMS send failed: %v", err)
		http.Error(w, "Failed to send SMS", http.StatusBadGateway)
		return
	}

	userID := middleware.GetUserUUID(r)
	comm := models.Communication{
		CompanyID:   companyID,
		CustomerID:  customer.ID,
		ProjectID:   req.ProjectID,
		Type:        models.CommunicationTypeSMS,
		Direction:   models.DirectionOutbound,
		Content:     req.Message,
		ProviderSID: &result.SID,
		CreatedBy:   &userID,
	}
	if err := h.db.Create(&comm).Error; err != nil {
		log.Printf("⚠️ SMS sent but communication record failed: %v", err)
	}

	var projectID *uuid.UUID
	if project != nil {
		projectID = &project.ID
	}
	logActivity(h.db, companyID, projectID, userID, models.ActionSMSSent, "communication", &comm.ID,
		models.JSONMap{"to": to})
	writeJSON(w, http.StatusCreated, comm)
}

type makeCallReq struct {
	CustomerID uuid.UUID  `json:"customer_id" validate:"required"`
	ProjectID  *uuid.UUID `json:"project_id"`
}

// MakeCall starts an outbound Twilio call that bridges the rep and the
// customer. Twilio fetches call instructions from the voice webhook and
// reports progress to the status callback.
func (h *CommunicationHandler) MakeCall(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req makeCallReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	customer, project, ok := h.resolveTarget(w, companyID, req.CustomerID, req.ProjectID)
	if !ok {
		return
	}
	to, ok := h.dialablePhone(w, customer)
	if !ok {
		return
	}

	base := os.Getenv("APP_BASE_URL")
	result, err := h.twilio.MakeCall(r.Context(), twilio.CallParams{
		To:             to,
		VoiceURL:       base + "/api/v1/webhooks/twilio/voice",
		StatusCallback: base + "/api/v1/webhooks/twilio/status",
		Record:         true,
	})
	if err != nil {
		if errors.Is(err, twilio.ErrNotConfigured) {
			http.Error(w, "Calling is not configured", http.StatusServiceUnavailable)
			return
		}
		log.Printf("❌ Call initiation failed: %v", err)
		http.Error(w, "Failed to start call", http.StatusBadGateway)
		return
	}

	userID := middleware.GetUserUUID(r)
	comm := models.Communication{
		CompanyID:   companyID,
		CustomerID:  customer.ID,
		ProjectID:   req.ProjectID,
		Type:        models.CommunicationTypeCall,
		Direction:   models.DirectionOutbound,
		ProviderSID: &result.SID,
		CreatedBy:   &userID,
	}
	if err := h.db.Create(&comm).Error; err != nil {
		log.Printf("⚠️ Call started but communication record failed: %v", err)
	}

	var projectID *uuid.UUID
	if project != nil {
		projectID = &project.ID
	}
	logActivity(h.db, companyID, projectID, userID, models.ActionCallInitiated, "communication", &comm.ID,
		models.JSONMap{"to": to})
	writeJSON(w, http.StatusCreated, comm)
}

type makeAICallReq struct {
	CustomerID uuid.UUID  `json:"customer_id" validate:"required"`
	ProjectID  *uuid.UUID `json:"project_id"`
}

// MakeAICall starts an outbound AI voice call through Vapi. The assistant
// is primed with a short summary of the customer's history so the
// conversation does not start cold.
func (h *CommunicationHandler) MakeAICall(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req makeAICallReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	customer, project, ok := h.resolveTarget(w, companyID, req.CustomerID, req.ProjectID)
	if !ok {
		return
	}
	to, ok := h.dialablePhone(w, customer)
	if !ok {
		return
	}

	cc := &vapi.CustomerContext{Name: customer.Name}
	if project != nil {
		cc.ProjectDetails = project.Name + " (" + string(project.Status) + ")"
	}

	// Prior communications feed the assistant's context summary
	var history []models.Communication
	h.db.Where("company_id = ? AND customer_id = ?", companyID, customer.ID).
		Order("created_at DESC").Limit(10).Find(&history)
	if len(history) > 0 {
		interactions := make([]ai.Interaction, 0, len(history))
		for _, c := range history {
			interactions = append(interactions, ai.Interaction{
				Type:      string(c.Type),
				Content:   c.Content,
				CreatedAt: c.CreatedAt,
			})
		}
		cc.PreviousInteractions = h.ai.GenerateCustomerContext(r.Context(), interactions)
	}

	result, err := h.vapi.MakeAICall(r.Context(), to, cc)
	if err != nil {
		if errors.Is(err, vapi.ErrNotConfigured) {
			http.Error(w, "AI calling is not configured", http.StatusServiceUnavailable)
			return
		}
		log.Printf("❌ AI call initiation failed: %v", err)
		http.Error(w, "Failed to start AI call", http.StatusBadGateway)
		return
	}

	userID := middleware.GetUserUUID(r)
	comm := models.Communication{
		CompanyID:   companyID,
		CustomerID:  customer.ID,
		ProjectID:   req.ProjectID,
		Type:        models.CommunicationTypeAICall,
		Direction:   models.DirectionOutbound,
		ProviderSID: &result.ID,
		CreatedBy:   &userID,
	}
	if err := h.db.Create(&comm).Error; err != nil {
		log.Printf("⚠️ AI call started but communication record failed: %v", err)
	}

	var projectID *uuid.UUID
	if project != nil {
		projectID = &project.ID
	}
	logActivity(h.db, companyID, projectID, userID, models.ActionAICallInitiated, "communication", &comm.ID,
		models.JSONMap{"to": to, "vapi_call_id": result.ID})
	writeJSON(w, http.StatusCreated, comm)
}

type logCommunicationReq struct {
	CustomerID uuid.UUID  `json:"customer_id" validate:"required"`
	ProjectID  *uuid.UUID `json:"project_id"`
	Type       string     `json:"type" validate:"required"`
	Direction  string     `json:"direction" validate:"required"`
	Content    string     `json:"content"`
}

// LogCommunication records an interaction that happened outside the
// system, e.g. an email or a call from a personal phone.
func (h *CommunicationHandler) LogCommunication(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req logCommunicationReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctype := models.CommunicationType(req.Type)
	switch ctype {
	case models.CommunicationTypeCall, models.CommunicationTypeSMS,
		models.CommunicationTypeEmail, models.CommunicationTypeAICall:
	default:
		http.Error(w, "Invalid communication type", http.StatusBadRequest)
		return
	}
	direction := models.CommunicationDirection(req.Direction)
	if direction != models.DirectionInbound && direction != models.DirectionOutbound {
		http.Error(w, "Invalid direction", http.StatusBadRequest)
		return
	}

	customer, _, ok := h.resolveTarget(w, companyID, req.CustomerID, req.ProjectID)
	if !ok {
		return
	}

	userID := middleware.GetUserUUID(r)
	comm := models.Communication{
		CompanyID:  companyID,
		CustomerID: customer.ID,
		ProjectID:  req.ProjectID,
		Type:       ctype,
		Direction:  direction,
		Content:    req.Content,
		CreatedBy:  &userID,
	}
	if err := h.db.Create(&comm).Error; err != nil {
		http.Error(w, "Failed to log communication", http.StatusInternalServerError)
		return
	}

	logActivity(h.db, companyID, req.ProjectID, userID, models.ActionCommunicationLogged, "communication", &comm.ID, nil)
	writeJSON(w, http.StatusCreated, comm)
}

// dialablePhone returns the customer's phone in E.164 form, the only form
// Twilio and Vapi accept. Customers created through the API are already
// normalized; this covers imported or hand-edited rows. Writes the error
// response itself on failure.
func (h *CommunicationHandler) dialablePhone(w http.ResponseWriter, customer *models.Customer) (string, bool) {
	if customer.Phone == "" {
		http.Error(w, "Customer has no phone number", http.StatusBadRequest)
		return "", false
	}
	to, err := utils.NormalizePhone(customer.Phone)
	if err != nil {
		http.Error(w, "Customer phone number is invalid", http.StatusBadRequest)
		return "", false
	}
	return to, true
}

// resolveTarget loads the customer and, when given, the project, verifying
// both belong to the tenant. Writes the error response itself on failure.
func (h *CommunicationHandler) resolveTarget(w http.ResponseWriter, companyID, customerID uuid.UUID, projectID *uuid.UUID) (*models.Customer, *models.Project, bool) {
	var customer models.Customer
	if err := h.db.Where("id = ? AND company_id = ?", customerID, companyID).
		First(&customer).Error; err != nil {
		http.Error(w, "Customer not found", http.StatusNotFound)
		return nil, nil, false
	}

	var project *models.Project
	if projectID != nil {
		var p models.Project
		if err := h.db.Where("id = ? AND company_id = ?", projectID, companyID).
			First(&p).Error; err != nil {
			http.Error(w, "Project not found", http.StatusNotFound)
			return nil, nil, false
		}
		project = &p
	}
	return &customer, project, true
}
