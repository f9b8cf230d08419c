package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/models"
)

// PublicHandler serves the unauthenticated customer-facing project page.
// Only projects explicitly marked public are visible, and the response is
// a sanitized subset: no money, insurance or internal fields.
type PublicHandler struct {
	db *gorm.DB
}

func NewPublicHandler() *PublicHandler {
	return &PublicHandler{db: config.DB}
}

type publicPhoto struct {
	URL       string           `json:"url"`
	Caption   string           `json:"caption,omitempty"`
	PhotoType models.PhotoType `json:"photo_type"`
}

type publicProject struct {
	Name        string               `json:"name"`
	Status      models.ProjectStatus `json:"status"`
	Address     string               `json:"address"`
	CompanyName string               `json:"company_name"`
	LogoURL     *string              `json:"logo_url,omitempty"`
	Photos      []publicPhoto        `json:"photos"`
}

// GetPublicProject returns the shareable progress view of a project
func (h *PublicHandler) GetPublicProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := h.db.Preload("Photos").
		Where("id = ? AND is_public = true", mux.Vars(r)["id"]).
		First(&project).Error; err != nil {
		// Not found and not public are indistinguishable on purpose
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	var company models.Company
	if err := h.db.First(&company, "id = ?", project.CompanyID).Error; err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	out := publicProject{
		Name:        project.Name,
		Status:      project.Status,
		Address:     project.Address,
		CompanyName: company.Name,
		LogoURL:     company.LogoURL,
		Photos:      []publicPhoto{},
	}
	for _, p := range project.Photos {
		out.Photos = append(out.Photos, publicPhoto{
			URL:       p.URL,
			Caption:   p.Caption,
			PhotoType: p.PhotoType,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
