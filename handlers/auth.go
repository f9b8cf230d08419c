package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/middleware"
	"github.com/talyaroofing/crm/models"
)

type registerCompanyReq struct {
	CompanyName string `json:"company_name" validate:"required"`
	Subdomain   string `json:"subdomain" validate:"required,alphanum,lowercase,min=3,max=63"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// RegisterCompany creates a new tenant and its first admin profile in one
// transaction.
func RegisterCompany(w http.ResponseWriter, r *http.Request) {
	var req registerCompanyReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	company := models.Company{
		Name:      req.CompanyName,
		Subdomain: strings.ToLower(req.Subdomain),
		Theme:     models.JSONMap{},
		Settings:  models.JSONMap{},
	}
	profile := models.Profile{
		Email:        strings.ToLower(req.Email),
		Name:         req.Name,
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		profile.CompanyID = company.ID
		return tx.Create(&profile).Error
	})
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "subdomain or email already taken", http.StatusConflict)
		} else {
			log.Printf("❌ Failed to register company: %v", err)
			http.Error(w, "Failed to register company", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Registered company %s (subdomain: %s)", company.Name, company.Subdomain)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"company": company,
		"profile": profile,
	})
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResp struct {
	Token   string          `json:"token"`
	User    models.Profile  `json:"user"`
	Company *models.Company `json:"company,omitempty"`
}

// Login authenticates a profile by email and password and issues a JWT
// scoped to the profile's company.
func Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	var profile models.Profile
	if err := config.DB.Preload("Company").
		Where("email = ?", strings.ToLower(req.Email)).
		First(&profile).Error; err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := middleware.GenerateToken(
		profile.ID.String(), profile.CompanyID.String(),
		string(profile.Role), profile.Name, profile.Email,
	)
	if err != nil {
		http.Error(w, "couldn't create token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, loginResp{Token: token, User: profile, Company: profile.Company})
}

// GetCurrentUser returns the authenticated profile with its company
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserUUID(r)
	if userID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var profile models.Profile
	if err := config.DB.Preload("Company").First(&profile, "id = ?", userID).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type createUserReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// CreateUser adds a profile to the caller's company. Admin only (enforced
// at the route).
func CreateUser(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createUserReq
	if err := decodeAndValidate(r, &req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !models.ValidRole(models.UserRole(req.Role)) {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	profile := models.Profile{
		CompanyID:    companyID,
		Email:        strings.ToLower(req.Email),
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         models.UserRole(req.Role),
		PasswordHash: string(hash),
	}
	if err := config.DB.Create(&profile).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "email already taken", http.StatusConflict)
		} else {
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Created user %s (%s)", profile.Email, profile.Role)
	writeJSON(w, http.StatusCreated, profile)
}

// ListUsers returns all profiles in the caller's company
func ListUsers(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var profiles []models.Profile
	if err := config.DB.Where("company_id = ?", companyID).
		Order("created_at ASC").Find(&profiles).Error; err != nil {
		http.Error(w, "Failed to load users", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": profiles})
}
