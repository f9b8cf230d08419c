package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/middleware"
	"github.com/talyaroofing/crm/models"
	"github.com/talyaroofing/crm/pkg/twilio"
)

// NotificationHandler manages scheduled customer notifications
type NotificationHandler struct {
	db     *gorm.DB
	twilio *twilio.Client
}

func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{db: config.DB, twilio: twilio.NewFromEnv()}
}

type createNotificationReq struct {
	CustomerID   uuid.UUID  `json:"customer_id" validate:"required"`
	ProjectID    *uuid.UUID `json:"project_id"`
	Type         string     `json:"type" validate:"required,oneof=sms email"`
	Title        string     `json:"title" validate:"required,max=255"`
	Message      string     `json:"message" validate:"required"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

// CreateNotification schedules a notification, or sends it immediately
// when no scheduled_for time is given.
func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createNotificationReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	var customer models.Customer
	if err := h.db.Where("id = ? AND company_id = ?", req.CustomerID, companyID).
		First(&customer).Error; err != nil {
		http.Error(w, "Customer not found", http.StatusNotFound)
		return
	}

	userID := middleware.GetUserUUID(r)
	notification := models.Notification{
		CompanyID:    companyID,
		CustomerID:   &customer.ID,
		ProjectID:    req.ProjectID,
		Type:         models.NotificationType(req.Type),
		Title:        req.Title,
		Message:      req.Message,
		Status:       models.NotificationStatusPending,
		ScheduledFor: req.ScheduledFor,
		CreatedBy:    &userID,
	}
	if err := h.db.Create(&notification).Error; err != nil {
		http.Error(w, "Failed to create notification", http.StatusInternalServerError)
		return
	}

	if req.ScheduledFor == nil {
		h.deliver(r.Context(), &notification, &customer)
	}
	writeJSON(w, http.StatusCreated, notification)
}

// ListNotifications returns the company's notifications, newest first
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	_, limit, offset := pagination(r)
	query := h.db.Model(&models.Notification{}).Where("company_id = ?", companyID)
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var notifications []models.Notification
	if err := query.Preload("Customer", unscopedCustomer).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&notifications).Error; err != nil {
		http.Error(w, "Failed to load notifications", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": notifications})
}

// CancelNotification cancels a pending notification. Sent or failed
// notifications cannot be cancelled.
func (h *NotificationHandler) CancelNotification(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result := h.db.Model(&models.Notification{}).
		Where("id = ? AND company_id = ? AND status = ?", mux.Vars(r)["notificationId"], companyID, models.NotificationStatusPending).
		Update("status", models.NotificationStatusCancelled)
	if result.Error != nil {
		http.Error(w, "Failed to cancel notification", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Pending notification not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification cancelled"})
}

// deliver attempts delivery and stamps the outcome on the row
func (h *NotificationHandler) deliver(ctx context.Context, n *models.Notification, customer *models.Customer) {
	var err error
	switch n.Type {
	case models.NotificationTypeSMS:
		if customer.Phone == "" {
			err = errMissingPhone
		} else {
			_, err = h.twilio.SendSMS(ctx, customer.Phone, n.Message)
		}
	case models.NotificationTypeEmail:
		// Email delivery is not wired to a provider; rows stay pending so
		// a later mailer can pick them up.
		return
	}

	if err != nil {
		msg := err.Error()
		n.Status = models.NotificationStatusFailed
		n.Error = &msg
		log.Printf("❌ Notification %s delivery failed: %v", n.ID, err)
	} else {
		now := time.Now()
		n.Status = models.NotificationStatusSent
		n.SentAt = &now
	}
	if dbErr := h.db.Save(n).Error; dbErr != nil {
		log.Printf("⚠️ Failed to record notification outcome: %v", dbErr)
	}
}

var errMissingPhone = errors.New("customer has no phone number")

// ProcessDueNotifications sends every pending notification whose scheduled
// time has passed. Called on an interval from main.
func ProcessDueNotifications(ctx context.Context) {
	db := config.DB
	var due []models.Notification
	if err := db.Where("status = ? AND scheduled_for IS NOT NULL AND scheduled_for <= ?",
		models.NotificationStatusPending, time.Now()).
		Limit(50).Find(&due).Error; err != nil {
		log.Printf("❌ Failed to load due notifications: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	h := NewNotificationHandler()
	for i := range due {
		n := &due[i]
		if n.CustomerID == nil {
			continue
		}
		var customer models.Customer
		if err := db.Where("id = ? AND company_id = ?", n.CustomerID, n.CompanyID).
			First(&customer).Error; err != nil {
			continue
		}
		h.deliver(ctx, n, &customer)
	}
	log.Printf("✅ Processed %d due notifications", len(due))
}
