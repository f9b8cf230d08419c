package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVapiWebhookRejectsBadSecret(t *testing.T) {
	t.Setenv("VAPI_WEBHOOK_SECRET", "hook-secret")

	h := NewVapiWebhookHandler()

	req := httptest.NewRequest("POST", "/api/v1/webhooks/vapi", strings.NewReader(`{}`))
	req.Header.Set("x-vapi-secret", "wrong")
	rec := httptest.NewRecorder()

	h.HandleEvent(rec, req)
	assert.Equal(t, 401, rec.Code)
}

func TestVapiWebhookRejectsWhenSecretUnset(t *testing.T) {
	t.Setenv("VAPI_WEBHOOK_SECRET", "")

	h := NewVapiWebhookHandler()

	req := httptest.NewRequest("POST", "/api/v1/webhooks/vapi", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.HandleEvent(rec, req)
	assert.Equal(t, 401, rec.Code)
}

func TestVapiWebhookIgnoresEventsWithoutCallID(t *testing.T) {
	t.Setenv("VAPI_WEBHOOK_SECRET", "hook-secret")

	h := NewVapiWebhookHandler()

	body := `{"message": {"type": "status-update", "call": {"id": ""}}}`
	req := httptest.NewRequest("POST", "/api/v1/webhooks/vapi", strings.NewReader(body))
	req.Header.Set("x-vapi-secret", "hook-secret")
	rec := httptest.NewRecorder()

	h.HandleEvent(rec, req)
	assert.Equal(t, 200, rec.Code)
}
