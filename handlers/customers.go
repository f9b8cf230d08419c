package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/middleware"
	"github.com/talyaroofing/crm/models"
	"github.com/talyaroofing/crm/utils"
)

// CustomerHandler handles customer CRUD
type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler() *CustomerHandler {
	return &CustomerHandler{db: config.DB}
}

type customerReq struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	LeadSource string `json:"lead_source"`
	Notes      string `json:"notes"`
}

// CreateCustomer creates a customer in the caller's company. Phone numbers
// are normalized to E.164 so webhook lookups by caller ID match.
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req customerReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	phone := req.Phone
	if phone != "" {
		normalized, err := utils.NormalizePhone(phone)
		if err != nil {
			http.Error(w, "Invalid phone number", http.StatusBadRequest)
			return
		}
		phone = normalized
	}

	userID := middleware.GetUserUUID(r)
	customer := models.Customer{
		CompanyID:  companyID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      phone,
		Address:    req.Address,
		LeadSource: req.LeadSource,
		Notes:      req.Notes,
		CreatedBy:  &userID,
	}
	if err := h.db.Create(&customer).Error; err != nil {
		log.Printf("❌ Failed to create customer: %v", err)
		http.Error(w, "Failed to create customer", http.StatusInternalServerError)
		return
	}

	logActivity(h.db, companyID, nil, userID, models.ActionCustomerCreated, "customer", &customer.ID, models.JSONMap{"name": customer.Name})
	writeJSON(w, http.StatusCreated, customer)
}

// ListCustomers returns the company's customers, optionally filtered by a
// search term over name, email, phone and address.
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	page, limit, offset := pagination(r)
	query := h.db.Model(&models.Customer{}).Where("company_id = ?", companyID)

	if search := r.URL.Query().Get("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ? OR address ILIKE ?", like, like, like, like)
	}
	if source := r.URL.Query().Get("lead_source"); source != "" {
		query = query.Where("lead_source = ?", source)
	}

	var total int64
	query.Count(&total)

	var customers []models.Customer
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&customers).Error; err != nil {
		http.Error(w, "Failed to load customers", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"customers": customers,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// GetCustomer returns one customer with its projects
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var customer models.Customer
	if err := h.db.Preload("Projects").
		Where("id = ? AND company_id = ?", mux.Vars(r)["id"], companyID).
		First(&customer).Error; err != nil {
		http.Error(w, "Customer not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

// UpdateCustomer patches customer fields
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var customer models.Customer
	if err := h.db.Where("id = ? AND company_id = ?", mux.Vars(r)["id"], companyID).
		First(&customer).Error; err != nil {
		http.Error(w, "Customer not found", http.StatusNotFound)
		return
	}

	var req struct {
		Name       *string `json:"name"`
		Email      *string `json:"email"`
		Phone      *string `json:"phone"`
		Address    *string `json:"address"`
		LeadSource *string `json:"lead_source"`
		Notes      *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Name != nil && *req.Name != "" {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Phone != nil {
		phone := *req.Phone
		if phone != "" {
			normalized, err := utils.NormalizePhone(phone)
			if err != nil {
				http.Error(w, "Invalid phone number", http.StatusBadRequest)
				return
			}
			phone = normalized
		}
		customer.Phone = phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.LeadSource != nil {
		customer.LeadSource = *req.LeadSource
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}

	if err := h.db.Save(&customer).Error; err != nil {
		http.Error(w, "Failed to update customer", http.StatusInternalServerError)
		return
	}

	logActivity(h.db, companyID, nil, middleware.GetUserUUID(r), models.ActionCustomerUpdated, "customer", &customer.ID, nil)
	writeJSON(w, http.StatusOK, customer)
}

// DeleteCustomer soft-deletes a customer
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	result := h.db.Where("id = ? AND company_id = ?", mux.Vars(r)["id"], companyID).
		Delete(&models.Customer{})
	if result.Error != nil {
		http.Error(w, "Failed to delete customer", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Customer not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Customer deleted"})
}
