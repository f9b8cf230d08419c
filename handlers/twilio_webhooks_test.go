package handlers

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talyaroofing/crm/models"
	"github.com/talyaroofing/crm/pkg/twilio"
)

// signForm produces the X-Twilio-Signature value for a form POST the same
// way Twilio does: HMAC-SHA1 over the URL with the sorted form fields
// appended as key+value pairs.
func signForm(authToken, requestURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(requestURL)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(form.Get(k))
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestInboundVoiceRejectsBadSignature(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "ACtest")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret-token")
	t.Setenv("TWILIO_PHONE_NUMBER", "+12125550100")
	t.Setenv("APP_BASE_URL", "https://crm.example.com")

	// db stays nil on purpose: a rejected request must never reach it
	h := NewTwilioWebhookHandler()

	form := url.Values{}
	form.Set("CallSid", "CA123")
	form.Set("From", "+12125550123")

	req := httptest.NewRequest("POST", "/api/v1/webhooks/twilio/voice", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Twilio-Signature", "bogus")
	rec := httptest.NewRecorder()

	h.InboundVoice(rec, req)
	assert.Equal(t, 401, rec.Code)
}

func TestInboundSMSRejectsMissingSignature(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "ACtest")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret-token")
	t.Setenv("TWILIO_PHONE_NUMBER", "+12125550100")
	t.Setenv("APP_BASE_URL", "https://crm.example.com")

	h := NewTwilioWebhookHandler()

	req := httptest.NewRequest("POST", "/api/v1/webhooks/twilio/sms", strings.NewReader("Body=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	h.InboundSMS(rec, req)
	assert.Equal(t, 401, rec.Code)
}

func TestVoiceRouterRoutesToAI(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "ACtest")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret-token")
	t.Setenv("TWILIO_PHONE_NUMBER", "+12125550100")
	t.Setenv("APP_BASE_URL", "https://crm.example.com")
	t.Setenv("CALL_ROUTING_MODE", "always_ai")

	h := NewTwilioWebhookHandler()

	form := url.Values{}
	sig := signForm("secret-token", "https://crm.example.com/api/v1/webhooks/twilio/voice-router", form)

	req := httptest.NewRequest("POST", "/api/v1/webhooks/twilio/voice-router", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Twilio-Signature", sig)
	rec := httptest.NewRecorder()

	h.VoiceRouter(rec, req)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "AI assistant")
	assert.Contains(t, rec.Body.String(), "<Redirect>https://crm.example.com/api/v1/webhooks/twilio/voice-ai</Redirect>")
}

func TestVoiceRouterRoutesToHuman(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "ACtest")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret-token")
	t.Setenv("TWILIO_PHONE_NUMBER", "+12125550100")
	t.Setenv("APP_BASE_URL", "https://crm.example.com")
	t.Setenv("CALL_ROUTING_MODE", "always_human")
	t.Setenv("FORWARDING_PHONE_NUMBER", "+12125550199")

	h := NewTwilioWebhookHandler()

	form := url.Values{}
	sig := signForm("secret-token", "https://crm.example.com/api/v1/webhooks/twilio/voice-router", form)

	req := httptest.NewRequest("POST", "/api/v1/webhooks/twilio/voice-router", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Twilio-Signature", sig)
	rec := httptest.NewRecorder()

	h.VoiceRouter(rec, req)
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "<Dial timeout=\"30\"><Number>+12125550199</Number></Dial>")
	// Unanswered calls still reach voicemail
	assert.Contains(t, rec.Body.String(), "<Record")
}

func TestVoiceRouterFallsBackToVoicemail(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "ACtest")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret-token")
	t.Setenv("TWILIO_PHONE_NUMBER", "+12125550100")
	t.Setenv("APP_BASE_URL", "https://crm.example.com")
	t.Setenv("CALL_ROUTING_MODE", "always_human")
	t.Setenv("FORWARDING_PHONE_NUMBER", "")

	h := NewTwilioWebhookHandler()

	form := url.Values{}
	sig := signForm("secret-token", "https://crm.example.com/api/v1/webhooks/twilio/voice-router", form)

	req := httptest.NewRequest("POST", "/api/v1/webhooks/twilio/voice-router", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Twilio-Signature", sig)
	rec := httptest.NewRecorder()

	h.VoiceRouter(rec, req)
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "technical difficulties")
	assert.Contains(t, rec.Body.String(), "<Record")
}

// postCallStatus sends a correctly signed status callback for sid.
func postCallStatus(t *testing.T, h *TwilioWebhookHandler, sid string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{}
	form.Set("CallSid", sid)
	form.Set("CallStatus", "completed")
	form.Set("CallDuration", "42")
	form.Set("RecordingUrl", "https://api.twilio.com/recordings/RE1")

	target := "https://crm.example.com/api/v1/webhooks/twilio/status"
	req := httptest.NewRequest("POST", "/api/v1/webhooks/twilio/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Twilio-Signature", signForm("secret-token", target, form))
	rec := httptest.NewRecorder()

	h.CallStatus(rec, req)
	return rec
}

func TestCallStatusRetriesUnknownSID(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "ACtest")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret-token")
	t.Setenv("TWILIO_PHONE_NUMBER", "+12125550100")
	t.Setenv("APP_BASE_URL", "https://crm.example.com")

	h := &TwilioWebhookHandler{db: openTestDB(t), twilio: twilio.NewFromEnv()}

	// A 5xx makes Twilio retry; the event may have raced the row commit
	rec := postCallStatus(t, h, "CAnotyet")
	assert.Equal(t, 503, rec.Code)
}

func TestCallStatusStampsDurationAndRecording(t *testing.T) {
	t.Setenv("TWILIO_ACCOUNT_SID", "ACtest")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret-token")
	t.Setenv("TWILIO_PHONE_NUMBER", "+12125550100")
	t.Setenv("APP_BASE_URL", "https://crm.example.com")

	db := openTestDB(t)
	h := &TwilioWebhookHandler{db: db, twilio: twilio.NewFromEnv()}

	commID := uuid.New()
	require.NoError(t, db.Exec(
		`INSERT INTO crm_communications (id, company_id, customer_id, type, direction, provider_sid, created_at)
		 VALUES (?, ?, ?, 'call', 'outbound', 'CA777', datetime('now'))`,
		commID.String(), uuid.NewString(), uuid.NewString()).Error)

	rec := postCallStatus(t, h, "CA777")
	require.Equal(t, 200, rec.Code)

	var comm models.Communication
	require.NoError(t, db.Where("id = ?", commID).First(&comm).Error)
	require.NotNil(t, comm.DurationSeconds)
	assert.Equal(t, 42, *comm.DurationSeconds)
	require.NotNil(t, comm.RecordingURL)
	assert.Equal(t, "https://api.twilio.com/recordings/RE1", *comm.RecordingURL)
}
