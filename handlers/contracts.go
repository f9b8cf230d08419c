package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/middleware"
	"github.com/talyaroofing/crm/models"
	"github.com/talyaroofing/crm/pkg/contracts"
	"github.com/talyaroofing/crm/utils"
)

// ContractHandler handles contract generation and signing
type ContractHandler struct {
	db *gorm.DB
}

func NewContractHandler() *ContractHandler {
	return &ContractHandler{db: config.DB}
}

type generateContractReq struct {
	EstimateID uuid.UUID `json:"estimate_id" validate:"required"`
	Template   string    `json:"template"`
}

// GenerateContract renders a contract from an estimate. The rendered text
// is stored verbatim; later template edits never change an issued contract.
func (h *ContractHandler) GenerateContract(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req generateContractReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	var estimate models.Estimate
	if err := h.db.Preload("Project").Preload("Project.Customer", unscopedCustomer).
		Where("id = ? AND company_id = ?", req.EstimateID, companyID).
		First(&estimate).Error; err != nil {
		http.Error(w, "Estimate not found", http.StatusNotFound)
		return
	}
	if estimate.Project == nil || estimate.Project.Customer == nil {
		http.Error(w, "Estimate is missing its project or customer", http.StatusInternalServerError)
		return
	}

	var company models.Company
	if err := h.db.First(&company, "id = ?", companyID).Error; err != nil {
		http.Error(w, "Company not found", http.StatusInternalServerError)
		return
	}

	template := req.Template
	if template == "" {
		template = contracts.DefaultTemplate
	}

	project := estimate.Project
	customer := project.Customer
	companyPhone := ""
	if v, ok := company.Settings["phone"].(string); ok {
		companyPhone = v
	}
	content := contracts.Render(template, map[string]string{
		"today_date":       time.Now().Format("January 2, 2006"),
		"company_name":     company.Name,
		"company_phone":    utils.FormatPhoneNational(companyPhone),
		"customer_name":    customer.Name,
		"customer_address": customer.Address,
		"customer_phone":   utils.FormatPhoneNational(customer.Phone),
		"customer_email":   customer.Email,
		"project_name":     project.Name,
		"project_address":  project.Address,
		"estimate_total":   fmt.Sprintf("$%.2f", estimate.Total),
		"line_items_table": contracts.LineItemsTable(estimate.LineItems),
	})

	userID := middleware.GetUserUUID(r)
	contract := models.Contract{
		ProjectID:  project.ID,
		EstimateID: estimate.ID,
		CompanyID:  companyID,
		Content:    content,
		Status:     models.ContractStatusDraft,
		CreatedBy:  &userID,
	}
	if err := h.db.Create(&contract).Error; err != nil {
		log.Printf("❌ Failed to create contract: %v", err)
		http.Error(w, "Failed to create contract", http.StatusInternalServerError)
		return
	}

	logActivity(h.db, companyID, &project.ID, userID, models.ActionContractCreated, "contract", &contract.ID, nil)
	writeJSON(w, http.StatusCreated, contract)
}

// ListContracts returns a project's contracts, newest first
func (h *ContractHandler) ListContracts(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var list []models.Contract
	if err := h.db.Where("project_id = ? AND company_id = ?", mux.Vars(r)["id"], companyID).
		Order("created_at DESC").Find(&list).Error; err != nil {
		http.Error(w, "Failed to load contracts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"contracts": list})
}

// GetContract returns one contract
func (h *ContractHandler) GetContract(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var contract models.Contract
	if err := h.db.Preload("Estimate").
		Where("id = ? AND company_id = ?", mux.Vars(r)["contractId"], companyID).
		First(&contract).Error; err != nil {
		http.Error(w, "Contract not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

type contractStatusReq struct {
	Status models.ContractStatus `json:"status"`
}

// UpdateContractStatus moves a contract between draft, sent and viewed.
// Signing goes through SignContract; a signed contract never changes.
func (h *ContractHandler) UpdateContractStatus(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req contractStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if !models.ValidContractStatus(req.Status) || req.Status == models.ContractStatusSigned {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	var contract models.Contract
	if err := h.db.Where("id = ? AND company_id = ?", mux.Vars(r)["contractId"], companyID).
		First(&contract).Error; err != nil {
		http.Error(w, "Contract not found", http.StatusNotFound)
		return
	}
	if contract.Status == models.ContractStatusSigned {
		http.Error(w, "Contract is already signed", http.StatusConflict)
		return
	}

	contract.Status = req.Status
	if err := h.db.Save(&contract).Error; err != nil {
		http.Error(w, "Failed to update contract", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, contract)
}

type signContractReq struct {
	SignerName string `json:"signer_name" validate:"required"`
}

// SignContract records the signature with the signer's name, originating
// IP and timestamp, and moves the project into the contract stage.
func (h *ContractHandler) SignContract(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req signContractReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	var contract models.Contract
	if err := h.db.Where("id = ? AND company_id = ?", mux.Vars(r)["contractId"], companyID).
		First(&contract).Error; err != nil {
		http.Error(w, "Contract not found", http.StatusNotFound)
		return
	}
	if contract.Status == models.ContractStatusSigned {
		http.Error(w, "Contract is already signed", http.StatusConflict)
		return
	}

	now := time.Now()
	ip := clientIP(r)
	contract.Status = models.ContractStatusSigned
	contract.SignerName = &req.SignerName
	contract.SignerIP = &ip
	contract.SignedAt = &now

	userID := middleware.GetUserUUID(r)
	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&contract).Error; err != nil {
			return err
		}
		return tx.Model(&models.Project{}).
			Where("id = ? AND company_id = ?", contract.ProjectID, companyID).
			Updates(map[string]interface{}{"status": models.ProjectStatusContract, "updated_by": userID}).Error
	})
	if err != nil {
		http.Error(w, "Failed to sign contract", http.StatusInternalServerError)
		return
	}

	logActivity(h.db, companyID, &contract.ProjectID, userID, models.ActionContractSigned, "contract", &contract.ID,
		models.JSONMap{"signer_name": req.SignerName})
	log.Printf("✅ Contract %s signed by %s", contract.ID, req.SignerName)
	writeJSON(w, http.StatusOK, contract)
}
