// Package vapi is a thin REST wrapper over the AI voice-call provider:
// outbound call initiation with free-text customer context, and call
// detail retrieval. Stateless, no retries.
package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const defaultBaseURL = "https://api.vapi.ai"

// ErrNotConfigured is returned when the API key or assistant is missing
var ErrNotConfigured = errors.New("vapi credentials not configured")

// Client calls the AI voice-call REST API
type Client struct {
	APIKey        string
	AssistantID   string
	PhoneNumberID string
	CallerID      string // Twilio number used as caller ID for a unified experience
	BaseURL       string
	HTTPClient    *http.Client
}

// NewFromEnv builds a client from VAPI_API_KEY, VAPI_ASSISTANT_ID,
// VAPI_PHONE_NUMBER_ID and TWILIO_PHONE_NUMBER
func NewFromEnv() *Client {
	return &Client{
		APIKey:        os.Getenv("VAPI_API_KEY"),
		AssistantID:   os.Getenv("VAPI_ASSISTANT_ID"),
		PhoneNumberID: os.Getenv("VAPI_PHONE_NUMBER_ID"),
		CallerID:      os.Getenv("TWILIO_PHONE_NUMBER"),
		BaseURL:       defaultBaseURL,
		HTTPClient:    http.DefaultClient,
	}
}

// CustomerContext personalizes the assistant for one call
type CustomerContext struct {
	Name                 string
	PreviousInteractions string
	ProjectDetails       string
}

// Prompt renders the context block injected into the assistant
func (c CustomerContext) Prompt() string {
	var b strings.Builder
	b.WriteString("Customer Information:\n")
	b.WriteString("- Name: " + c.Name + "\n")
	if c.PreviousInteractions != "" {
		b.WriteString("- Previous Interactions: " + c.PreviousInteractions + "\n")
	}
	if c.ProjectDetails != "" {
		b.WriteString("- Current Project: " + c.ProjectDetails + "\n")
	}
	b.WriteString("\nUse this context to have a personalized conversation. Reference previous interactions naturally.\n")
	return b.String()
}

// CallResult holds the provider identifier and initial state of an AI call
type CallResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// MakeAICall initiates an outbound AI call with customer context
func (c *Client) MakeAICall(ctx context.Context, phoneNumber string, customer *CustomerContext) (*CallResult, error) {
	if c.APIKey == "" || c.AssistantID == "" {
		return nil, ErrNotConfigured
	}

	payload := map[string]interface{}{
		"assistantId":   c.AssistantID,
		"phoneNumberId": c.PhoneNumberID,
		"customer": map[string]string{
			"number": phoneNumber,
		},
	}
	if c.CallerID != "" {
		payload["callerIdNumber"] = c.CallerID
	}
	if customer != nil {
		payload["assistantOverrides"] = map[string]interface{}{
			"variableValues": map[string]string{
				"customerContext": customer.Prompt(),
			},
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/call/phone", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("vapi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("vapi api error %d: %s", resp.StatusCode, msg)
	}

	var result CallResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("vapi response decode failed: %w", err)
	}
	return &result, nil
}

// TranscriptEntry is one turn of an AI call transcript
type TranscriptEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Call is the provider's call detail record
type Call struct {
	ID           string            `json:"id"`
	Status       string            `json:"status"`
	Duration     int               `json:"duration"`
	RecordingURL string            `json:"recordingUrl"`
	Transcript   []TranscriptEntry `json:"transcript"`
}

// GetCall fetches call details and transcript
func (c *Client) GetCall(ctx context.Context, callID string) (*Call, error) {
	if c.APIKey == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/call/"+callID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("vapi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("vapi api error %d: %s", resp.StatusCode, msg)
	}

	var call Call
	if err := json.NewDecoder(resp.Body).Decode(&call); err != nil {
		return nil, fmt.Errorf("vapi response decode failed: %w", err)
	}
	return &call, nil
}

// FormatTranscript joins transcript turns as "role: content" lines
func FormatTranscript(entries []TranscriptEntry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Role + ": " + e.Content
	}
	return strings.Join(lines, "\n")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
