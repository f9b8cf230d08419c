package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/models"
	"github.com/talyaroofing/crm/pkg/ai"
	"github.com/talyaroofing/crm/pkg/vapi"
)

// VapiWebhookHandler receives AI call lifecycle events. Requests carry the
// shared webhook secret in the x-vapi-secret header.
type VapiWebhookHandler struct {
	db *gorm.DB
	ai *ai.Client
}

func NewVapiWebhookHandler() *VapiWebhookHandler {
	return &VapiWebhookHandler{db: config.DB, ai: ai.NewFromEnv()}
}

type vapiWebhookPayload struct {
	Message struct {
		Type string `json:"type"`
		Call struct {
			ID string `json:"id"`
		} `json:"call"`
		Transcript      []vapi.TranscriptEntry `json:"transcript,omitempty"`
		RecordingURL    string                 `json:"recordingUrl,omitempty"`
		DurationSeconds float64                `json:"durationSeconds,omitempty"`
		EndedReason     string                 `json:"endedReason,omitempty"`
	} `json:"message"`
}

// HandleEvent processes status updates and the end-of-call report. The
// end-of-call report enriches the communication row with the recording,
// duration and an AI-written summary of the transcript.
func (h *VapiWebhookHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	secret := os.Getenv("VAPI_WEBHOOK_SECRET")
	if secret == "" || subtle.ConstantTimeCompare([]byte(r.Header.Get("x-vapi-secret")), []byte(secret)) != 1 {
		log.Printf("⚠️ Rejected Vapi webhook with bad secret")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload vapiWebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	msg := payload.Message
	if msg.Call.ID == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch msg.Type {
	case "end-of-call-report", "call.ended":
		h.handleCallEnded(r, &payload)
	case "transcript.updated":
		h.handleTranscriptUpdated(&payload)
	case "status-update", "call.started":
		// Intermediate progress; the end-of-call report carries everything
	default:
		log.Printf("⚠️ Unhandled Vapi event type: %s", msg.Type)
	}
	w.WriteHeader(http.StatusOK)
}

// handleTranscriptUpdated stores the in-progress transcript so a call that
// never produces an end-of-call report still keeps its content.
func (h *VapiWebhookHandler) handleTranscriptUpdated(payload *vapiWebhookPayload) {
	msg := payload.Message
	transcript := vapi.FormatTranscript(msg.Transcript)
	if transcript == "" {
		return
	}
	if err := h.db.Model(&models.Communication{}).
		Where("provider_sid = ?", msg.Call.ID).
		Update("content", transcript).Error; err != nil {
		log.Printf("❌ Failed to update transcript for call %s: %v", msg.Call.ID, err)
	}
}

func (h *VapiWebhookHandler) handleCallEnded(r *http.Request, payload *vapiWebhookPayload) {
	msg := payload.Message

	var comm models.Communication
	if err := h.db.Where("provider_sid = ?", msg.Call.ID).First(&comm).Error; err != nil {
		log.Printf("⚠️ End-of-call report for unknown call %s", msg.Call.ID)
		return
	}

	transcript := vapi.FormatTranscript(msg.Transcript)
	updates := map[string]interface{}{}
	if transcript != "" {
		updates["content"] = transcript
	}
	if msg.RecordingURL != "" {
		updates["recording_url"] = msg.RecordingURL
	}
	if msg.DurationSeconds > 0 {
		updates["duration_seconds"] = int(msg.DurationSeconds)
	}

	if transcript != "" {
		// SummarizeCall degrades to a neutral summary when the model is
		// unavailable, so the enrichment always lands.
		summary := h.ai.SummarizeCall(r.Context(), transcript)
		updates["ai_summary"] = models.JSONMap{
			"summary":     summary.Summary,
			"keyPoints":   summary.KeyPoints,
			"sentiment":   string(summary.Sentiment),
			"actionItems": summary.ActionItems,
			"nextSteps":   summary.NextSteps,
		}
	}

	if len(updates) > 0 {
		if err := h.db.Model(&comm).Updates(updates).Error; err != nil {
			log.Printf("❌ Failed to enrich AI call %s: %v", msg.Call.ID, err)
			return
		}
	}

	userID := comm.CreatedBy
	if userID != nil {
		logActivity(h.db, comm.CompanyID, comm.ProjectID, *userID, models.ActionAICallCompleted,
			"communication", &comm.ID, models.JSONMap{"vapi_call_id": msg.Call.ID, "ended_reason": msg.EndedReason})
	}
	log.Printf("✅ Enriched AI call %s with transcript summary", msg.Call.ID)
}
