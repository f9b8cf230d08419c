package twilio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSignature(t *testing.T) {
	c := &Client{AuthToken: "secret-token"}
	url := "https://crm.example.com/api/webhooks/twilio"
	params := map[string]string{
		"From":       "+15551234567",
		"To":         "+15557654321",
		"Body":       "Hello",
		"MessageSid": "SM123",
	}

	valid := computeSignature("secret-token", url, params)

	assert.True(t, c.ValidateSignature(valid, url, params))
	assert.False(t, c.ValidateSignature("bogus", url, params), "wrong signature rejected")
	assert.False(t, c.ValidateSignature("", url, params), "missing signature rejected")

	// tampered payload
	tampered := map[string]string{}
	for k, v := range params {
		tampered[k] = v
	}
	tampered["Body"] = "Goodbye"
	assert.False(t, c.ValidateSignature(valid, url, tampered))

	// different URL
	assert.False(t, c.ValidateSignature(valid, url+"?x=1", params))
}

func TestValidateSignatureWithoutToken(t *testing.T) {
	c := &Client{}
	sig := computeSignature("anything", "https://example.com", nil)
	assert.False(t, c.ValidateSignature(sig, "https://example.com", nil))
}

func TestTwiMLDocuments(t *testing.T) {
	voicemail := VoicemailTwiML()
	assert.Contains(t, voicemail, "<Response>")
	assert.Contains(t, voicemail, "<Record maxLength=\"120\" transcribe=\"true\">")
	assert.Contains(t, voicemail, "technical difficulties")

	handoff := AIHandoffTwiML("https://crm.example.com/api/webhooks/twilio/voice-ai")
	assert.Contains(t, handoff, "<Redirect>https://crm.example.com/api/webhooks/twilio/voice-ai</Redirect>")
	assert.Contains(t, handoff, "AI assistant")

	forward := ForwardTwiML("+15550001111", 30)
	assert.Contains(t, forward, "<Dial timeout=\"30\" record=\"record-from-answer\">")
	assert.Contains(t, forward, "<Number>+15550001111</Number>")
	// voicemail fallback comes after the dial attempt
	assert.Less(t, strings.Index(forward, "<Dial"), strings.Index(forward, "<Record"))

	reply := NewResponse().Message("Thanks!").String()
	assert.Contains(t, reply, "<Message>Thanks!</Message>")
}
