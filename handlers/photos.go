package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/middleware"
	"github.com/talyaroofing/crm/models"
)

const uploadDir = "./uploads"

// PhotoHandler handles project photo upload and management
type PhotoHandler struct {
	db *gorm.DB
}

func NewPhotoHandler() *PhotoHandler {
	return &PhotoHandler{db: config.DB}
}

// UploadPhoto accepts a multipart photo upload for a project. Storage goes
// to GCS when USE_GCS=true, otherwise to the local uploads directory.
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
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
	var project models.Project
	if err := h.db.Where("id = ? AND company_id = ?", projectID, companyID).
		First(&project).Error; err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	// Max 20MB per photo
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	photoType := models.PhotoType(r.FormValue("photo_type"))
	if photoType == "" {
		photoType = models.PhotoTypeOther
	}
	if !models.ValidPhotoType(photoType) {
		http.Error(w, "Invalid photo type", http.StatusBadRequest)
		return
	}

	var tags models.StringSlice
	if raw := r.FormValue("tags"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			http.Error(w, "tags must be a JSON array of strings", http.StatusBadRequest)
			return
		}
	}

	objectName := fmt.Sprintf("photos/%s/%s-%s", projectID, time.Now().Format("20060102-150405"), filepath.Base(header.Filename))
	var url string
	if os.Getenv("USE_GCS") == "true" {
		url, err = uploadToGCS(r.Context(), objectName, file)
	} else {
		url, err = saveLocal(objectName, file)
	}
	if err != nil {
		log.Printf("❌ Photo upload failed: %v", err)
		http.Error(w, "Failed to store photo", http.StatusInternalServerError)
		return
	}

	userID := middleware.GetUserUUID(r)
	photo := models.Photo{
		ProjectID:  projectID,
		URL:        url,
		Caption:    r.FormValue("caption"),
		Tags:       tags,
		PhotoType:  photoType,
		UploadedBy: &userID,
	}
	if err := h.db.Create(&photo).Error; err != nil {
		http.Error(w, "Failed to save photo", http.StatusInternalServerError)
		return
	}

	logActivity(h.db, companyID, &projectID, userID, models.ActionPhotoUploaded, "photo", &photo.ID,
		models.JSONMap{"photo_type": string(photoType)})
	writeJSON(w, http.StatusCreated, photo)
}

// uploadToGCS streams the file into the configured bucket and returns the
// public object URL.
func uploadToGCS(ctx context.Context, objectName string, src io.Reader) (string, error) {
	bucket := os.Getenv("GCS_BUCKET")
	if bucket == "" {
		return "", fmt.Errorf("GCS_BUCKET not set")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("gcs client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	wc := client.Bucket(bucket).Object(objectName).NewWriter(ctx)
	if _, err := io.Copy(wc, src); err != nil {
		wc.Close()
		return "", fmt.Errorf("gcs write: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("gcs close: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectName), nil
}

// saveLocal writes the file under ./uploads and returns a relative URL
func saveLocal(objectName string, src io.Reader) (string, error) {
	path := filepath.Join(uploadDir, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/" + objectName, nil
}

// ListPhotos returns a project's photos, optionally filtered by type or tag
func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
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

	query := h.db.Where("project_id = ?", projectID)
	if pt := r.URL.Query().Get("photo_type"); pt != "" {
		query = query.Where("photo_type = ?", pt)
	}

	var photos []models.Photo
	if err := query.Order("created_at DESC").Find(&photos).Error; err != nil {
		http.Error(w, "Failed to load photos", http.StatusInternalServerError)
		return
	}

	// jsonb tag filtering is done in Go; photo sets per project are small
	if tag := r.URL.Query().Get("tag"); tag != "" {
		filtered := photos[:0]
		for _, p := range photos {
			for _, t := range p.Tags {
				if strings.EqualFold(t, tag) {
					filtered = append(filtered, p)
					break
				}
			}
		}
		photos = filtered
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"photos": photos})
}

// UpdatePhoto patches caption, tags and type
func (h *PhotoHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var photo models.Photo
	if err := h.db.Joins("JOIN crm_projects ON crm_projects.id = crm_photos.project_id").
		Where("crm_photos.id = ? AND crm_projects.company_id = ?", mux.Vars(r)["photoId"], companyID).
		First(&photo).Error; err != nil {
		http.Error(w, "Photo not found", http.StatusNotFound)
		return
	}

	var req struct {
		Caption   *string            `json:"caption"`
		Tags      models.StringSlice `json:"tags"`
		PhotoType *string            `json:"photo_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Caption != nil {
		photo.Caption = *req.Caption
	}
	if req.Tags != nil {
		photo.Tags = req.Tags
	}
	if req.PhotoType != nil {
		pt := models.PhotoType(*req.PhotoType)
		if !models.ValidPhotoType(pt) {
			http.Error(w, "Invalid photo type", http.StatusBadRequest)
			return
		}
		photo.PhotoType = pt
	}

	if err := h.db.Save(&photo).Error; err != nil {
		http.Error(w, "Failed to update photo", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

// DeletePhoto removes a photo record. The stored object is left in place;
// storage cleanup runs out of band.
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r)
	if companyID == uuid.Nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var photo models.Photo
	if err := h.db.Joins("JOIN crm_projects ON crm_projects.id = crm_photos.project_id").
		Where("crm_photos.id = ? AND crm_projects.company_id = ?", mux.Vars(r)["photoId"], companyID).
		First(&photo).Error; err != nil {
		http.Error(w, "Photo not found", http.StatusNotFound)
		return
	}
	if err := h.db.Delete(&photo).Error; err != nil {
		http.Error(w, "Failed to delete photo", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Photo deleted"})
}
