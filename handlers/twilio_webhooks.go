package handlers

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"gorm.io/gorm"

	"github.com/talyaroofing/crm/config"
	"github.com/talyaroofing/crm/models"
	"github.com/talyaroofing/crm/pkg/callrouter"
	"github.com/talyaroofing/crm/pkg/twilio"
	"github.com/talyaroofing/crm/utils"
)

// TwilioWebhookHandler serves the unauthenticated Twilio callbacks. Every
// request is authenticated by its X-Twilio-Signature header before any
// database access happens.
type TwilioWebhookHandler struct {
	db     *gorm.DB
	twilio *twilio.Client
	router *callrouter.Router
}

func NewTwilioWebhookHandler() *TwilioWebhookHandler {
	return &TwilioWebhookHandler{
		db:     config.DB,
		twilio: twilio.NewFromEnv(),
		router: callrouter.FromEnv(),
	}
}

// verifySignature checks the Twilio request signature against the full
// request URL and the posted form fields. Rejections happen before any
// other work.
func (h *TwilioWebhookHandler) verifySignature(w http.ResponseWriter, r *http.Request) (map[string]string, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return nil, false
	}
	params := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		params[key] = r.PostForm.Get(key)
	}

	requestURL := os.Getenv("APP_BASE_URL") + r.URL.RequestURI()
	signature := r.Header.Get("X-Twilio-Signature")
	if !h.twilio.ValidateSignature(signature, requestURL, params) {
		log.Printf("⚠️ Rejected Twilio webhook with bad signature: %s", r.URL.Path)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return nil, false
	}
	return params, true
}

func writeTwiML(w http.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "text/xml")
	w.Write([]byte(doc))
}

// InboundSMS records an incoming text against the customer matching the
// sender's number. Unknown senders are still acknowledged so Twilio does
// not retry.
func (h *TwilioWebhookHandler) InboundSMS(w http.ResponseWriter, r *http.Request) {
	params, ok := h.verifySignature(w, r)
	if !ok {
		return
	}

	from := params["From"]
	body := params["Body"]
	sid := params["MessageSid"]

	phone := from
	if normalized, err := utils.NormalizePhone(from); err == nil {
		phone = normalized
	}

	var customer models.Customer
	if err := h.db.Where("phone = ?", phone).First(&customer).Error; err != nil {
		log.Printf("⚠️ Inbound SMS from unknown number %s", phone)
		writeTwiML(w, twilio.NewResponse().String())
		return
	}

	comm := models.Communication{
		CompanyID:   customer.CompanyID,
		CustomerID:  customer.ID,
		Type:        models.CommunicationTypeSMS,
		Direction:   models.DirectionInbound,
		Content:     body,
		ProviderSID: &sid,
	}
	if err := h.db.Create(&comm).Error; err != nil {
		log.Printf("❌ Failed to record inbound SMS: %v", err)
	}

	writeTwiML(w, twilio.NewResponse().String())
}

// InboundVoice answers an incoming call, records it for known callers, and
// redirects into the routing step.
func (h *TwilioWebhookHandler) InboundVoice(w http.ResponseWriter, r *http.Request) {
	params, ok := h.verifySignature(w, r)
	if !ok {
		return
	}

	h.recordInboundCall(params)
	writeTwiML(w, twilio.NewResponse().
		Redirect(os.Getenv("APP_BASE_URL")+"/api/v1/webhooks/twilio/voice-router").
		String())
}

// VoiceRouter sends the call to the AI assistant or a human according to
// the routing mode and business hours. Any misconfiguration falls back to
// voicemail rather than dropping the call.
func (h *TwilioWebhookHandler) VoiceRouter(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.verifySignature(w, r); !ok {
		return
	}

	switch h.router.Decide() {
	case callrouter.RouteHuman:
		forwarding := os.Getenv("FORWARDING_PHONE_NUMBER")
		if forwarding == "" {
			log.Printf("⚠️ FORWARDING_PHONE_NUMBER not set, sending caller to voicemail")
			writeTwiML(w, twilio.VoicemailTwiML())
			return
		}
		writeTwiML(w, twilio.ForwardTwiML(forwarding, 30))
	default:
		writeTwiML(w, twilio.AIHandoffTwiML(os.Getenv("APP_BASE_URL")+"/api/v1/webhooks/twilio/voice-ai"))
	}
}

// VoiceAI hands the call to the AI voice agent. Without a configured agent
// endpoint the caller goes to voicemail instead of hearing dead air.
func (h *TwilioWebhookHandler) VoiceAI(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.verifySignature(w, r); !ok {
		return
	}

	agentNumber := os.Getenv("VAPI_INBOUND_NUMBER")
	if agentNumber == "" {
		writeTwiML(w, twilio.VoicemailTwiML())
		return
	}
	writeTwiML(w, twilio.NewResponse().Dial(agentNumber, 30).String())
}

// CallStatus is Twilio's progress callback. Completed calls get their
// duration and recording stamped onto the communication row matched by SID.
func (h *TwilioWebhookHandler) CallStatus(w http.ResponseWriter, r *http.Request) {
	params, ok := h.verifySignature(w, r)
	if !ok {
		return
	}

	sid := params["CallSid"]
	status := params["CallStatus"]
	if sid == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var comm models.Communication
	if err := h.db.Where("provider_sid = ?", sid).First(&comm).Error; err != nil {
		// The status event can race the row commit; a 5xx makes Twilio
		// retry instead of dropping the duration and recording
		http.Error(w, "Unknown call", http.StatusServiceUnavailable)
		return
	}

	updates := map[string]interface{}{}
	if d, err := strconv.Atoi(params["CallDuration"]); err == nil {
		updates["duration_seconds"] = d
	}
	if rec := params["RecordingUrl"]; rec != "" {
		updates["recording_url"] = rec
	}
	if len(updates) > 0 {
		if err := h.db.Model(&comm).Updates(updates).Error; err != nil {
			log.Printf("❌ Failed to update call %s: %v", sid, err)
		}
	}

	if status == "completed" {
		userID := comm.CreatedBy
		if userID != nil {
			logActivity(h.db, comm.CompanyID, comm.ProjectID, *userID, models.ActionCallCompleted,
				"communication", &comm.ID, models.JSONMap{"call_sid": sid})
		}
	}
	w.WriteHeader(http.StatusOK)
}

// recordInboundCall logs an inbound call communication for a known caller.
// Unknown callers are routed but not recorded.
func (h *TwilioWebhookHandler) recordInboundCall(params map[string]string) {
	from := params["From"]
	sid := params["CallSid"]
	if from == "" || sid == "" {
		return
	}

	phone := from
	if normalized, err := utils.NormalizePhone(from); err == nil {
		phone = normalized
	}

	var customer models.Customer
	if err := h.db.Where("phone = ?", phone).First(&customer).Error; err != nil {
		return
	}

	comm := models.Communication{
		CompanyID:   customer.CompanyID,
		CustomerID:  customer.ID,
		Type:        models.CommunicationTypeCall,
		Direction:   models.DirectionInbound,
		ProviderSID: &sid,
	}
	if err := h.db.Create(&comm).Error; err != nil {
		log.Printf("❌ Failed to record inbound call: %v", err)
	}
}
